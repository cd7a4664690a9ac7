package order

import (
	"time"

	"github.com/modelfactory/mes/internal/domain/shared"
)

// CustomerOrder is the root of the order hierarchy. It is placed against the
// plant warehouse (WS-7) and only ever references PRODUCT items.
type CustomerOrder struct {
	core
	items           []shared.ItemQuantity
	triggerScenario TriggerScenario
}

// NewCustomerOrder creates a customer order in PENDING. Every item must
// reference a PRODUCT with a positive quantity; resolving the product ids
// against master data is the orchestrator's job.
func NewCustomerOrder(number string, items []shared.ItemQuantity, priority shared.Priority, notes string, now time.Time) (*CustomerOrder, error) {
	if len(items) == 0 {
		return nil, &ErrValidation{Field: "orderItems", Reason: "at least one item is required"}
	}
	for _, iq := range items {
		if iq.Item.Type != shared.ItemTypeProduct {
			return nil, &ErrValidation{Field: "orderItems", Reason: "customer orders may only contain PRODUCT items"}
		}
		if iq.Quantity <= 0 {
			return nil, &ErrValidation{Field: "orderItems", Reason: "requested quantity must be positive"}
		}
	}
	return &CustomerOrder{
		core:  newCore(number, priority, notes, now),
		items: shared.MergeQuantities(items),
	}, nil
}

// ReconstructCustomerOrder rebuilds an order from persistence, bypassing
// creation-time validation.
func ReconstructCustomerOrder(id int, number string, status Status, priority shared.Priority, notes string,
	items []shared.ItemQuantity, scenario TriggerScenario, createdAt, updatedAt time.Time) *CustomerOrder {
	return &CustomerOrder{
		core:            reconstructCore(id, number, status, priority, notes, createdAt, updatedAt),
		items:           items,
		triggerScenario: scenario,
	}
}

// WorkstationID returns WS-7: customer orders always address the plant warehouse
func (o *CustomerOrder) WorkstationID() int { return shared.WorkstationPlantWarehouse }

// Items returns the ordered products
func (o *CustomerOrder) Items() []shared.ItemQuantity {
	out := make([]shared.ItemQuantity, len(o.items))
	copy(out, o.items)
	return out
}

// TriggerScenario returns the scenario selected at confirmation (empty until then)
func (o *CustomerOrder) TriggerScenario() TriggerScenario { return o.triggerScenario }

// TotalRequested returns the summed quantity across all items
func (o *CustomerOrder) TotalRequested() int { return shared.SumQuantities(o.items) }

// Confirm moves PENDING -> CONFIRMED and pins the selected scenario
func (o *CustomerOrder) Confirm(scenario TriggerScenario, now time.Time) error {
	if err := o.advance(customerOrderTransitions, StatusConfirmed, now); err != nil {
		return err
	}
	o.triggerScenario = scenario
	return nil
}

// MarkProcessing moves CONFIRMED -> PROCESSING once downstream orders exist
func (o *CustomerOrder) MarkProcessing(now time.Time) error {
	return o.advance(customerOrderTransitions, StatusProcessing, now)
}

// Complete closes the order. Allowed from CONFIRMED (direct fulfillment) or
// PROCESSING (warehouse/production paths).
func (o *CustomerOrder) Complete(now time.Time) error {
	return o.advance(customerOrderTransitions, StatusCompleted, now)
}

// Cancel terminally cancels the order; only PENDING and CONFIRMED orders can
// be cancelled, the record is preserved for audit.
func (o *CustomerOrder) Cancel(now time.Time) error {
	return o.advance(customerOrderTransitions, StatusCancelled, now)
}
