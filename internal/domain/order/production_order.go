package order

import (
	"time"

	"github.com/modelfactory/mes/internal/domain/shared"
)

// ProductionOrder represents a full production campaign. Exactly one of the
// two source links is set: a customer order when a large lot goes straight
// to production, or a warehouse order replenishing an empty supermarket.
type ProductionOrder struct {
	core
	sourceCustomerOrderID  *int
	sourceWarehouseOrderID *int
	scheduleID             string
	dueDate                *time.Time
}

// NewProductionOrderForCustomer creates a direct-production campaign sourced
// from a customer order
func NewProductionOrderForCustomer(number string, customerOrderID int, priority shared.Priority, dueDate *time.Time, now time.Time) (*ProductionOrder, error) {
	if customerOrderID <= 0 {
		return nil, &ErrValidation{Field: "sourceCustomerOrderId", Reason: "source customer order is required"}
	}
	return &ProductionOrder{
		core:                  newCore(number, priority, "", now),
		sourceCustomerOrderID: &customerOrderID,
		dueDate:               dueDate,
	}, nil
}

// NewProductionOrderForWarehouse creates a replenishment campaign sourced
// from a warehouse order
func NewProductionOrderForWarehouse(number string, warehouseOrderID int, priority shared.Priority, dueDate *time.Time, now time.Time) (*ProductionOrder, error) {
	if warehouseOrderID <= 0 {
		return nil, &ErrValidation{Field: "sourceWarehouseOrderId", Reason: "source warehouse order is required"}
	}
	return &ProductionOrder{
		core:                   newCore(number, priority, "", now),
		sourceWarehouseOrderID: &warehouseOrderID,
		dueDate:                dueDate,
	}, nil
}

// ReconstructProductionOrder rebuilds an order from persistence
func ReconstructProductionOrder(id int, number string, status Status, priority shared.Priority, notes string,
	sourceCustomerOrderID, sourceWarehouseOrderID *int, scheduleID string, dueDate *time.Time,
	createdAt, updatedAt time.Time) *ProductionOrder {
	return &ProductionOrder{
		core:                   reconstructCore(id, number, status, priority, notes, createdAt, updatedAt),
		sourceCustomerOrderID:  sourceCustomerOrderID,
		sourceWarehouseOrderID: sourceWarehouseOrderID,
		scheduleID:             scheduleID,
		dueDate:                dueDate,
	}
}

// SourceCustomerOrderID is set for direct production campaigns
func (o *ProductionOrder) SourceCustomerOrderID() *int { return o.sourceCustomerOrderID }

// SourceWarehouseOrderID is set for warehouse-triggered campaigns
func (o *ProductionOrder) SourceWarehouseOrderID() *int { return o.sourceWarehouseOrderID }

// ScheduleID is the external scheduler's id, set once scheduling succeeded
func (o *ProductionOrder) ScheduleID() string { return o.scheduleID }

// DueDate returns the optional due date passed to the scheduler
func (o *ProductionOrder) DueDate() *time.Time { return o.dueDate }

// MarkScheduled records the schedule id and moves PENDING -> SCHEDULED
func (o *ProductionOrder) MarkScheduled(scheduleID string, now time.Time) error {
	if scheduleID == "" {
		return &ErrInvalidOperation{Number: o.number, Reason: "schedule id is required"}
	}
	if err := o.advance(productionOrderTransitions, StatusScheduled, now); err != nil {
		return err
	}
	o.scheduleID = scheduleID
	return nil
}

// Start moves SCHEDULED -> IN_PROGRESS when the first control order dispatches
func (o *ProductionOrder) Start(now time.Time) error {
	return o.advance(productionOrderTransitions, StatusInProgress, now)
}

// Complete closes the campaign once every control order is COMPLETED
func (o *ProductionOrder) Complete(now time.Time) error {
	return o.advance(productionOrderTransitions, StatusCompleted, now)
}

// ResetForRescheduling returns a PENDING-equivalent order after a scheduling
// failure so the operator can retry. Only valid while still PENDING, which
// means the scheduler never answered.
func (o *ProductionOrder) ResetForRescheduling(now time.Time) error {
	if o.status != StatusPending {
		return &ErrInvalidState{Number: o.number, Current: o.status, Attempted: StatusPending}
	}
	o.scheduleID = ""
	o.touch(now)
	return nil
}
