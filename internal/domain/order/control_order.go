package order

import (
	"time"

	"github.com/modelfactory/mes/internal/domain/shared"
)

// ControlOrder groups one scheduled task under a production order. Production
// control orders (PCO) drive manufacturing cells WS-1..WS-3, assembly control
// orders (ACO) drive assembly cells WS-4..WS-6.
type ControlOrder struct {
	core
	productionOrderID     int
	kind                  ControlKind
	assignedWorkstationID int
	taskID                string
	item                  shared.ItemRef
	quantity              int
	sequence              int
	plannedStart          *time.Time
	plannedEnd            *time.Time
}

// NewControlOrder creates a control order in PENDING for one scheduled task.
// The workstation must belong to the kind's cell range.
func NewControlOrder(number string, productionOrderID int, kind ControlKind, workstationID int,
	taskID string, item shared.ItemRef, quantity, sequence int,
	plannedStart, plannedEnd *time.Time, priority shared.Priority, now time.Time) (*ControlOrder, error) {
	if productionOrderID <= 0 {
		return nil, &ErrValidation{Field: "productionOrderId", Reason: "parent production order is required"}
	}
	if quantity <= 0 {
		return nil, &ErrValidation{Field: "quantity", Reason: "quantity must be positive"}
	}
	switch kind {
	case ControlKindProduction:
		if !shared.IsManufacturingCell(workstationID) {
			return nil, &ErrValidation{Field: "assignedWorkstationId", Reason: "production control orders must target WS-1..WS-3"}
		}
	case ControlKindAssembly:
		if !shared.IsAssemblyCell(workstationID) {
			return nil, &ErrValidation{Field: "assignedWorkstationId", Reason: "assembly control orders must target WS-4..WS-6"}
		}
	default:
		return nil, &ErrValidation{Field: "kind", Reason: "unknown control order kind"}
	}
	return &ControlOrder{
		core:                  newCore(number, priority, "", now),
		productionOrderID:     productionOrderID,
		kind:                  kind,
		assignedWorkstationID: workstationID,
		taskID:                taskID,
		item:                  item,
		quantity:              quantity,
		sequence:              sequence,
		plannedStart:          plannedStart,
		plannedEnd:            plannedEnd,
	}, nil
}

// ReconstructControlOrder rebuilds an order from persistence
func ReconstructControlOrder(id int, number string, status Status, priority shared.Priority, notes string,
	productionOrderID int, kind ControlKind, workstationID int, taskID string,
	item shared.ItemRef, quantity, sequence int, plannedStart, plannedEnd *time.Time,
	createdAt, updatedAt time.Time) *ControlOrder {
	return &ControlOrder{
		core:                  reconstructCore(id, number, status, priority, notes, createdAt, updatedAt),
		productionOrderID:     productionOrderID,
		kind:                  kind,
		assignedWorkstationID: workstationID,
		taskID:                taskID,
		item:                  item,
		quantity:              quantity,
		sequence:              sequence,
		plannedStart:          plannedStart,
		plannedEnd:            plannedEnd,
	}
}

// ProductionOrderID returns the parent production order
func (o *ControlOrder) ProductionOrderID() int { return o.productionOrderID }

// Kind returns PRODUCTION (PCO) or ASSEMBLY (ACO)
func (o *ControlOrder) Kind() ControlKind { return o.kind }

// AssignedWorkstationID returns the cell the task is assigned to
func (o *ControlOrder) AssignedWorkstationID() int { return o.assignedWorkstationID }

// TaskID returns the scheduler task id this order was created from
func (o *ControlOrder) TaskID() string { return o.taskID }

// Item returns the module the task produces or assembles
func (o *ControlOrder) Item() shared.ItemRef { return o.item }

// Quantity returns the task quantity
func (o *ControlOrder) Quantity() int { return o.quantity }

// Sequence returns the scheduler-assigned ordering of the task
func (o *ControlOrder) Sequence() int { return o.sequence }

// PlannedStart returns the scheduled start window, if any
func (o *ControlOrder) PlannedStart() *time.Time { return o.plannedStart }

// PlannedEnd returns the scheduled end window, if any
func (o *ControlOrder) PlannedEnd() *time.Time { return o.plannedEnd }

// Assign moves PENDING -> ASSIGNED once supply and workstation orders exist
func (o *ControlOrder) Assign(now time.Time) error {
	return o.advance(controlOrderTransitions, StatusAssigned, now)
}

// Start moves ASSIGNED -> IN_PROGRESS when the first child order starts
func (o *ControlOrder) Start(now time.Time) error {
	return o.advance(controlOrderTransitions, StatusInProgress, now)
}

// Complete closes the control order once every workstation order is COMPLETED
func (o *ControlOrder) Complete(now time.Time) error {
	return o.advance(controlOrderTransitions, StatusCompleted, now)
}
