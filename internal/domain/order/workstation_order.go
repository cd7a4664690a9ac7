package order

import (
	"time"

	"github.com/modelfactory/mes/internal/domain/shared"
)

// WorkstationOrder is a leaf of the order tree: one unit of work for one
// cell. Assembly kinds walk through COMPLETED_ASSEMBLY before COMPLETED;
// manufacturing kinds complete directly. An order with a linked supply order
// may not leave PENDING before that supply order is FULFILLED.
type WorkstationOrder struct {
	core
	controlOrderID int
	kind           WorkKind
	workstationID  int
	item           shared.ItemRef
	quantity       int
	supplyOrderID  *int
}

// NewWorkstationOrder creates a workstation order in PENDING
func NewWorkstationOrder(number string, controlOrderID int, kind WorkKind, workstationID int,
	item shared.ItemRef, quantity int, priority shared.Priority, now time.Time) (*WorkstationOrder, error) {
	if controlOrderID <= 0 {
		return nil, &ErrValidation{Field: "controlOrderId", Reason: "parent control order is required"}
	}
	if quantity <= 0 {
		return nil, &ErrValidation{Field: "quantity", Reason: "quantity must be positive"}
	}
	expected, err := WorkKindForWorkstation(workstationID)
	if err != nil || expected != kind {
		return nil, &ErrValidation{Field: "workstationId", Reason: "workstation does not execute this order kind"}
	}
	return &WorkstationOrder{
		core:           newCore(number, priority, "", now),
		controlOrderID: controlOrderID,
		kind:           kind,
		workstationID:  workstationID,
		item:           item,
		quantity:       quantity,
	}, nil
}

// ReconstructWorkstationOrder rebuilds an order from persistence
func ReconstructWorkstationOrder(id int, number string, status Status, priority shared.Priority, notes string,
	controlOrderID int, kind WorkKind, workstationID int, item shared.ItemRef, quantity int,
	supplyOrderID *int, createdAt, updatedAt time.Time) *WorkstationOrder {
	return &WorkstationOrder{
		core:           reconstructCore(id, number, status, priority, notes, createdAt, updatedAt),
		controlOrderID: controlOrderID,
		kind:           kind,
		workstationID:  workstationID,
		item:           item,
		quantity:       quantity,
		supplyOrderID:  supplyOrderID,
	}
}

// ControlOrderID returns the parent control order
func (o *WorkstationOrder) ControlOrderID() int { return o.controlOrderID }

// Kind returns which of the six workstation order kinds this is
func (o *WorkstationOrder) Kind() WorkKind { return o.kind }

// WorkstationID returns the executing cell
func (o *WorkstationOrder) WorkstationID() int { return o.workstationID }

// Item returns the module this order produces
func (o *WorkstationOrder) Item() shared.ItemRef { return o.item }

// Quantity returns the produced quantity
func (o *WorkstationOrder) Quantity() int { return o.quantity }

// SupplyOrderID returns the linked supply order, if parts are needed
func (o *WorkstationOrder) SupplyOrderID() *int { return o.supplyOrderID }

// LinkSupplyOrder attaches the sibling supply order that gates this order
func (o *WorkstationOrder) LinkSupplyOrder(supplyOrderID int, now time.Time) error {
	if o.status != StatusPending {
		return &ErrInvalidState{Number: o.number, Current: o.status, Attempted: StatusPending}
	}
	o.supplyOrderID = &supplyOrderID
	o.touch(now)
	return nil
}

func (o *WorkstationOrder) ladder() transitions {
	if o.kind.IsAssembly() {
		return assemblyWorkTransitions
	}
	return manufacturingWorkTransitions
}

// Confirm moves PENDING -> CONFIRMED. The caller must have verified the
// linked supply order is FULFILLED; supplyFulfilled carries that check.
func (o *WorkstationOrder) Confirm(supplyFulfilled bool, now time.Time) error {
	if o.supplyOrderID != nil && !supplyFulfilled {
		return &ErrInvalidOperation{Number: o.number, Reason: "linked supply order is not FULFILLED"}
	}
	return o.advance(o.ladder(), StatusConfirmed, now)
}

// Start moves CONFIRMED -> IN_PROGRESS
func (o *WorkstationOrder) Start(now time.Time) error {
	return o.advance(o.ladder(), StatusInProgress, now)
}

// CompleteAssembly moves IN_PROGRESS -> COMPLETED_ASSEMBLY (assembly kinds only)
func (o *WorkstationOrder) CompleteAssembly(now time.Time) error {
	if !o.kind.IsAssembly() {
		return &ErrInvalidOperation{Number: o.number, Reason: "manufacturing orders have no assembly completion step"}
	}
	return o.advance(o.ladder(), StatusCompletedAssembly, now)
}

// Complete closes the order. Manufacturing kinds complete from IN_PROGRESS,
// assembly kinds from COMPLETED_ASSEMBLY.
func (o *WorkstationOrder) Complete(now time.Time) error {
	return o.advance(o.ladder(), StatusCompleted, now)
}
