package order

import (
	"time"

	"github.com/modelfactory/mes/internal/domain/shared"
)

// WarehouseOrder asks the modules supermarket (WS-8) for the modules a
// customer order expands to. When productionOrderID is set the modules are
// reserved by a production campaign and fulfillment bypasses stock checks.
type WarehouseOrder struct {
	core
	customerOrderID   int
	items             []shared.ItemQuantity
	productionOrderID *int
	triggerScenario   TriggerScenario
}

// NewWarehouseOrder creates a warehouse order in PENDING from a BOM-expanded
// module list.
func NewWarehouseOrder(number string, customerOrderID int, items []shared.ItemQuantity, priority shared.Priority, now time.Time) (*WarehouseOrder, error) {
	if customerOrderID <= 0 {
		return nil, &ErrValidation{Field: "customerOrderId", Reason: "parent customer order is required"}
	}
	if len(items) == 0 {
		return nil, &ErrValidation{Field: "orderItems", Reason: "at least one module is required"}
	}
	for _, iq := range items {
		if iq.Item.Type != shared.ItemTypeModule {
			return nil, &ErrValidation{Field: "orderItems", Reason: "warehouse orders may only contain MODULE items"}
		}
		if iq.Quantity <= 0 {
			return nil, &ErrValidation{Field: "orderItems", Reason: "quantity must be positive"}
		}
	}
	return &WarehouseOrder{
		core:            newCore(number, priority, "", now),
		customerOrderID: customerOrderID,
		items:           shared.MergeQuantities(items),
	}, nil
}

// ReconstructWarehouseOrder rebuilds an order from persistence
func ReconstructWarehouseOrder(id int, number string, status Status, priority shared.Priority, notes string,
	customerOrderID int, items []shared.ItemQuantity, productionOrderID *int, scenario TriggerScenario,
	createdAt, updatedAt time.Time) *WarehouseOrder {
	return &WarehouseOrder{
		core:              reconstructCore(id, number, status, priority, notes, createdAt, updatedAt),
		customerOrderID:   customerOrderID,
		items:             items,
		productionOrderID: productionOrderID,
		triggerScenario:   scenario,
	}
}

// CustomerOrderID returns the parent customer order
func (o *WarehouseOrder) CustomerOrderID() int { return o.customerOrderID }

// Items returns the requested modules
func (o *WarehouseOrder) Items() []shared.ItemQuantity {
	out := make([]shared.ItemQuantity, len(o.items))
	copy(out, o.items)
	return out
}

// ProductionOrderID is non-nil once a production campaign reserves the modules
func (o *WarehouseOrder) ProductionOrderID() *int { return o.productionOrderID }

// TriggerScenario returns the scenario selected at confirmation
func (o *WarehouseOrder) TriggerScenario() TriggerScenario { return o.triggerScenario }

// StockCheckBypassed reports whether fulfillment must skip module stock
// checks because the modules were produced for this order.
func (o *WarehouseOrder) StockCheckBypassed() bool { return o.productionOrderID != nil }

// Confirm moves PENDING -> CONFIRMED and pins the selected scenario
func (o *WarehouseOrder) Confirm(scenario TriggerScenario, now time.Time) error {
	if err := o.advance(warehouseOrderTransitions, StatusConfirmed, now); err != nil {
		return err
	}
	o.triggerScenario = scenario
	return nil
}

// AttachProductionOrder stamps the reserving production order onto a
// CONFIRMED warehouse order; the order stays CONFIRMED until the campaign
// completes.
func (o *WarehouseOrder) AttachProductionOrder(productionOrderID int, now time.Time) error {
	if o.status != StatusConfirmed {
		return &ErrInvalidState{Number: o.number, Current: o.status, Attempted: StatusConfirmed}
	}
	if o.triggerScenario != ScenarioProductionRequired {
		return &ErrInvalidOperation{Number: o.number, Reason: "production can only be ordered for PRODUCTION_REQUIRED warehouse orders"}
	}
	if o.productionOrderID != nil {
		return &ErrInvalidOperation{Number: o.number, Reason: "a production order is already attached"}
	}
	o.productionOrderID = &productionOrderID
	o.touch(now)
	return nil
}

// MarkProcessing moves CONFIRMED -> PROCESSING
func (o *WarehouseOrder) MarkProcessing(now time.Time) error {
	return o.advance(warehouseOrderTransitions, StatusProcessing, now)
}

// Fulfill closes the order after the module debit succeeded
func (o *WarehouseOrder) Fulfill(now time.Time) error {
	return o.advance(warehouseOrderTransitions, StatusFulfilled, now)
}
