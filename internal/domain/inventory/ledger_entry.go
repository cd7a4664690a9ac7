package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Reason classifies why stock moved
type Reason string

const (
	ReasonFulfillment Reason = "FULFILLMENT"
	ReasonProduction  Reason = "PRODUCTION"
	ReasonConsumption Reason = "CONSUMPTION"
	ReasonAdjustment  Reason = "ADJUSTMENT"
	ReasonReturn      Reason = "RETURN"
)

// IsValid reports whether the reason is one of the known codes
func (r Reason) IsValid() bool {
	switch r {
	case ReasonFulfillment, ReasonProduction, ReasonConsumption, ReasonAdjustment, ReasonReturn:
		return true
	}
	return false
}

func (r Reason) String() string { return string(r) }

// ParseReason parses a reason code
func ParseReason(s string) (Reason, error) {
	r := Reason(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown adjustment reason: %q", s)
	}
	return r, nil
}

// LedgerEntry is one immutable inventory movement. The running sum of deltas
// over a key equals the key's current quantity at every observable point;
// that audit invariant is what makes the ledger the source of truth.
type LedgerEntry struct {
	id           string
	timestamp    time.Time
	key          StockKey
	delta        int
	reason       Reason
	refOrderType string
	refOrderID   int
	actor        string
}

// NewLedgerEntry creates an entry with a fresh id. Delta must be non-zero.
func NewLedgerEntry(key StockKey, delta int, reason Reason, refOrderType string, refOrderID int, actor string, now time.Time) (*LedgerEntry, error) {
	if delta == 0 {
		return nil, &ErrValidation{Field: "delta", Reason: "delta cannot be zero"}
	}
	if !reason.IsValid() {
		return nil, &ErrValidation{Field: "reason", Reason: fmt.Sprintf("unknown reason %q", reason)}
	}
	return &LedgerEntry{
		id:           uuid.NewString(),
		timestamp:    now,
		key:          key,
		delta:        delta,
		reason:       reason,
		refOrderType: refOrderType,
		refOrderID:   refOrderID,
		actor:        actor,
	}, nil
}

// ReconstructLedgerEntry rebuilds an entry from persistence
func ReconstructLedgerEntry(id string, timestamp time.Time, key StockKey, delta int, reason Reason,
	refOrderType string, refOrderID int, actor string) *LedgerEntry {
	return &LedgerEntry{
		id:           id,
		timestamp:    timestamp,
		key:          key,
		delta:        delta,
		reason:       reason,
		refOrderType: refOrderType,
		refOrderID:   refOrderID,
		actor:        actor,
	}
}

// ID returns the entry id
func (e *LedgerEntry) ID() string { return e.id }

// Timestamp returns when the movement happened
func (e *LedgerEntry) Timestamp() time.Time { return e.timestamp }

// Key returns the stock key the movement applies to
func (e *LedgerEntry) Key() StockKey { return e.key }

// Delta returns the signed movement
func (e *LedgerEntry) Delta() int { return e.delta }

// Reason returns the movement classification
func (e *LedgerEntry) Reason() Reason { return e.reason }

// RefOrderType returns the referencing order type, if any
func (e *LedgerEntry) RefOrderType() string { return e.refOrderType }

// RefOrderID returns the referencing order id, if any
func (e *LedgerEntry) RefOrderID() int { return e.refOrderID }

// Actor returns who triggered the movement
func (e *LedgerEntry) Actor() string { return e.actor }
