package inventory

import (
	"time"

	"github.com/modelfactory/mes/internal/domain/shared"
)

// StockKey identifies one consistency domain: stock of one item at one
// workstation. Concurrent adjustments on the same key serialize; different
// keys may proceed in parallel.
type StockKey struct {
	WorkstationID int
	Item          shared.ItemRef
}

// StockRecord is the authoritative quantity for a stock key. Quantity is
// never negative; every change appends exactly one ledger entry.
type StockRecord struct {
	Key         StockKey
	Quantity    int
	LastUpdated time.Time
}

// NewStockRecord creates an empty record for a key, as done on first credit
func NewStockRecord(key StockKey, now time.Time) *StockRecord {
	return &StockRecord{Key: key, LastUpdated: now}
}

// Apply adds delta to the quantity, rejecting any debit that would drive the
// record negative.
func (r *StockRecord) Apply(delta int, now time.Time) error {
	if delta == 0 {
		return &ErrValidation{Field: "delta", Reason: "delta cannot be zero"}
	}
	next := r.Quantity + delta
	if next < 0 {
		return &ErrValidation{
			Field:  "delta",
			Reason: "debit would drive quantity negative",
			Key:    &r.Key,
			Detail: map[string]interface{}{"current": r.Quantity, "delta": delta},
		}
	}
	r.Quantity = next
	r.LastUpdated = now
	return nil
}
