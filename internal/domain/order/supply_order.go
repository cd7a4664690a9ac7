package order

import (
	"time"

	"github.com/modelfactory/mes/internal/domain/shared"
)

// SupplyOrder requests raw parts from the parts supply warehouse (WS-9) on
// behalf of a control order. Downstream workstation orders are gated on it
// reaching FULFILLED.
type SupplyOrder struct {
	core
	controlOrderID          int
	requestingWorkstationID int
	items                   []shared.ItemQuantity
}

// NewSupplyOrder creates a supply order in PENDING. Items must all be PARTs.
func NewSupplyOrder(number string, controlOrderID, requestingWorkstationID int, items []shared.ItemQuantity, priority shared.Priority, now time.Time) (*SupplyOrder, error) {
	if controlOrderID <= 0 {
		return nil, &ErrValidation{Field: "controlOrderId", Reason: "parent control order is required"}
	}
	if len(items) == 0 {
		return nil, &ErrValidation{Field: "items", Reason: "at least one part is required"}
	}
	for _, iq := range items {
		if iq.Item.Type != shared.ItemTypePart {
			return nil, &ErrValidation{Field: "items", Reason: "supply orders may only contain PART items"}
		}
		if iq.Quantity <= 0 {
			return nil, &ErrValidation{Field: "items", Reason: "quantity must be positive"}
		}
	}
	return &SupplyOrder{
		core:                    newCore(number, priority, "", now),
		controlOrderID:          controlOrderID,
		requestingWorkstationID: requestingWorkstationID,
		items:                   shared.MergeQuantities(items),
	}, nil
}

// ReconstructSupplyOrder rebuilds an order from persistence
func ReconstructSupplyOrder(id int, number string, status Status, priority shared.Priority, notes string,
	controlOrderID, requestingWorkstationID int, items []shared.ItemQuantity,
	createdAt, updatedAt time.Time) *SupplyOrder {
	return &SupplyOrder{
		core:                    reconstructCore(id, number, status, priority, notes, createdAt, updatedAt),
		controlOrderID:          controlOrderID,
		requestingWorkstationID: requestingWorkstationID,
		items:                   items,
	}
}

// ControlOrderID returns the parent control order
func (o *SupplyOrder) ControlOrderID() int { return o.controlOrderID }

// SupplyWarehouseWorkstationID returns WS-9, the only parts source
func (o *SupplyOrder) SupplyWarehouseWorkstationID() int { return shared.WorkstationPartsSupply }

// RequestingWorkstationID returns the cell the parts are delivered to
func (o *SupplyOrder) RequestingWorkstationID() int { return o.requestingWorkstationID }

// Items returns the requested parts
func (o *SupplyOrder) Items() []shared.ItemQuantity {
	out := make([]shared.ItemQuantity, len(o.items))
	copy(out, o.items)
	return out
}

// Fulfill closes the order after WS-9 was debited
func (o *SupplyOrder) Fulfill(now time.Time) error {
	return o.advance(supplyOrderTransitions, StatusFulfilled, now)
}

// Reject terminally rejects the request; downstream orders stay gated
func (o *SupplyOrder) Reject(now time.Time) error {
	return o.advance(supplyOrderTransitions, StatusRejected, now)
}
