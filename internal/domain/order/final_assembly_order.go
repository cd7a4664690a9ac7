package order

import (
	"time"

	"github.com/modelfactory/mes/internal/domain/shared"
)

// FinalAssemblyOrder drives WS-6 to assemble modules into one finished
// product. Its parent is either the warehouse order that pulled the modules
// from the supermarket or the production campaign that built them; exactly
// one link is set. Submission credits the plant warehouse with the output
// product.
type FinalAssemblyOrder struct {
	core
	warehouseOrderID  *int
	productionOrderID *int
	outputProductID   int
	outputQuantity    int
}

// NewFinalAssemblyOrderForWarehouse creates a final assembly order parented
// to a warehouse order
func NewFinalAssemblyOrderForWarehouse(number string, warehouseOrderID, outputProductID, outputQuantity int, priority shared.Priority, now time.Time) (*FinalAssemblyOrder, error) {
	if warehouseOrderID <= 0 {
		return nil, &ErrValidation{Field: "warehouseOrderId", Reason: "parent warehouse order is required"}
	}
	return newFinalAssemblyOrder(number, &warehouseOrderID, nil, outputProductID, outputQuantity, priority, now)
}

// NewFinalAssemblyOrderForProduction creates a final assembly order parented
// to a production campaign
func NewFinalAssemblyOrderForProduction(number string, productionOrderID, outputProductID, outputQuantity int, priority shared.Priority, now time.Time) (*FinalAssemblyOrder, error) {
	if productionOrderID <= 0 {
		return nil, &ErrValidation{Field: "productionOrderId", Reason: "parent production order is required"}
	}
	return newFinalAssemblyOrder(number, nil, &productionOrderID, outputProductID, outputQuantity, priority, now)
}

func newFinalAssemblyOrder(number string, warehouseOrderID, productionOrderID *int, outputProductID, outputQuantity int, priority shared.Priority, now time.Time) (*FinalAssemblyOrder, error) {
	if outputProductID <= 0 {
		return nil, &ErrValidation{Field: "outputProductId", Reason: "output product is required"}
	}
	if outputQuantity <= 0 {
		return nil, &ErrValidation{Field: "outputQuantity", Reason: "output quantity must be positive"}
	}
	return &FinalAssemblyOrder{
		core:              newCore(number, priority, "", now),
		warehouseOrderID:  warehouseOrderID,
		productionOrderID: productionOrderID,
		outputProductID:   outputProductID,
		outputQuantity:    outputQuantity,
	}, nil
}

// ReconstructFinalAssemblyOrder rebuilds an order from persistence
func ReconstructFinalAssemblyOrder(id int, number string, status Status, priority shared.Priority, notes string,
	warehouseOrderID, productionOrderID *int, outputProductID, outputQuantity int,
	createdAt, updatedAt time.Time) *FinalAssemblyOrder {
	return &FinalAssemblyOrder{
		core:              reconstructCore(id, number, status, priority, notes, createdAt, updatedAt),
		warehouseOrderID:  warehouseOrderID,
		productionOrderID: productionOrderID,
		outputProductID:   outputProductID,
		outputQuantity:    outputQuantity,
	}
}

// WorkstationID returns WS-6, the final assembly cell
func (o *FinalAssemblyOrder) WorkstationID() int { return shared.WorkstationFinalAssembly }

// WarehouseOrderID is set when the parent is a warehouse order
func (o *FinalAssemblyOrder) WarehouseOrderID() *int { return o.warehouseOrderID }

// ProductionOrderID is set when the parent is a production order
func (o *FinalAssemblyOrder) ProductionOrderID() *int { return o.productionOrderID }

// OutputProductID returns the finished product id; this must resolve to a
// PRODUCT in master data, never a MODULE.
func (o *FinalAssemblyOrder) OutputProductID() int { return o.outputProductID }

// OutputQuantity returns how many finished products one submission yields
func (o *FinalAssemblyOrder) OutputQuantity() int { return o.outputQuantity }

// OutputItem returns the product reference credited to WS-7 on submission
func (o *FinalAssemblyOrder) OutputItem() shared.ItemRef {
	return shared.ItemRef{Type: shared.ItemTypeProduct, ID: o.outputProductID}
}

// Confirm moves PENDING -> CONFIRMED
func (o *FinalAssemblyOrder) Confirm(now time.Time) error {
	return o.advance(assemblyWorkTransitions, StatusConfirmed, now)
}

// Start moves CONFIRMED -> IN_PROGRESS
func (o *FinalAssemblyOrder) Start(now time.Time) error {
	return o.advance(assemblyWorkTransitions, StatusInProgress, now)
}

// CompleteAssembly moves IN_PROGRESS -> COMPLETED_ASSEMBLY
func (o *FinalAssemblyOrder) CompleteAssembly(now time.Time) error {
	return o.advance(assemblyWorkTransitions, StatusCompletedAssembly, now)
}

// Submit moves COMPLETED_ASSEMBLY -> COMPLETED; the caller credits WS-7 in
// the same unit of work.
func (o *FinalAssemblyOrder) Submit(now time.Time) error {
	return o.advance(assemblyWorkTransitions, StatusCompleted, now)
}
