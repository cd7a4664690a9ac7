package order

import (
	"time"

	"github.com/modelfactory/mes/internal/domain/shared"
)

// core holds the fields every order shares. Entities embed it and expose its
// promoted getters; transitions go through advance so the ladder invariants
// are enforced in one place.
type core struct {
	id        int
	number    string
	status    Status
	priority  shared.Priority
	notes     string
	createdAt time.Time
	updatedAt time.Time
}

func newCore(number string, priority shared.Priority, notes string, now time.Time) core {
	if !priority.IsValid() {
		priority = shared.PriorityNormal
	}
	return core{
		number:    number,
		status:    StatusPending,
		priority:  priority,
		notes:     notes,
		createdAt: now,
		updatedAt: now,
	}
}

func reconstructCore(id int, number string, status Status, priority shared.Priority, notes string, createdAt, updatedAt time.Time) core {
	return core{
		id:        id,
		number:    number,
		status:    status,
		priority:  priority,
		notes:     notes,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the persisted id (zero until first save)
func (c *core) ID() int { return c.id }

// Number returns the typed order number, e.g. CO-12
func (c *core) Number() string { return c.number }

// Status returns the current lifecycle status
func (c *core) Status() Status { return c.status }

// Priority returns the order priority
func (c *core) Priority() shared.Priority { return c.priority }

// Notes returns the free-form operator notes
func (c *core) Notes() string { return c.notes }

// CreatedAt returns when the order was created
func (c *core) CreatedAt() time.Time { return c.createdAt }

// UpdatedAt returns when the order last changed
func (c *core) UpdatedAt() time.Time { return c.updatedAt }

// SetID is called by the repository after the first insert
func (c *core) SetID(id int) {
	if c.id == 0 {
		c.id = id
	}
}

// advance moves the status along the given ladder, rejecting anything the
// ladder does not allow.
func (c *core) advance(ladder transitions, next Status, now time.Time) error {
	if !ladder.allows(c.status, next) {
		return &ErrInvalidState{Number: c.number, Current: c.status, Attempted: next}
	}
	c.status = next
	c.updatedAt = now
	return nil
}

func (c *core) touch(now time.Time) {
	c.updatedAt = now
}
