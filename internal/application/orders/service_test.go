package orders_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelfactory/mes/internal/adapters/persistence"
	"github.com/modelfactory/mes/internal/application/bom"
	invapp "github.com/modelfactory/mes/internal/application/inventory"
	"github.com/modelfactory/mes/internal/application/orders"
	"github.com/modelfactory/mes/internal/application/scheduler"
	"github.com/modelfactory/mes/internal/domain/inventory"
	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
	"github.com/modelfactory/mes/test/helpers"
)

func newSeededStack(t *testing.T) *helpers.Stack {
	t.Helper()
	stack := helpers.NewStack(t)
	stack.Seed(t)
	return stack
}

// drainPlantStock debits the plant warehouse down to the given remainder
func drainPlantStock(t *testing.T, stack *helpers.Stack, productID, keep int) {
	t.Helper()
	current := stack.StockAt(t, shared.WorkstationPlantWarehouse, shared.ItemTypeProduct, productID)
	if current <= keep {
		return
	}
	_, err := stack.Inventory.Adjust(context.Background(), invapp.AdjustRequest{
		WorkstationID: shared.WorkstationPlantWarehouse,
		Item:          shared.ItemRef{Type: shared.ItemTypeProduct, ID: productID},
		Delta:         keep - current,
		Reason:        inventory.ReasonAdjustment,
		Actor:         "test",
	})
	require.NoError(t, err)
}

// runControlOrder drives one control order from PENDING to COMPLETED:
// dispatch, fulfill the supply, then walk the workstation order ladder.
func runControlOrder(t *testing.T, stack *helpers.Stack, controlOrderID int) {
	t.Helper()
	ctx := context.Background()

	_, err := stack.Orders.DispatchControlOrder(ctx, controlOrderID)
	require.NoError(t, err)

	supplies, err := stack.Orders.FindSupplyOrdersByControl(ctx, controlOrderID)
	require.NoError(t, err)
	for _, so := range supplies {
		_, err := stack.Orders.FulfillSupplyOrder(ctx, so.ID(), "ws9-operator")
		require.NoError(t, err)
	}

	workOrders, err := stack.Orders.FindWorkstationOrdersByControl(ctx, controlOrderID)
	require.NoError(t, err)
	require.Len(t, workOrders, 1)
	wso := workOrders[0]

	_, err = stack.Orders.ConfirmWorkstationOrder(ctx, wso.ID())
	require.NoError(t, err)
	_, err = stack.Orders.StartWorkstationOrder(ctx, wso.ID())
	require.NoError(t, err)
	if wso.Kind().IsAssembly() {
		_, err = stack.Orders.CompleteWorkstationOrderAssembly(ctx, wso.ID())
		require.NoError(t, err)
	}
	_, err = stack.Orders.CompleteWorkstationOrder(ctx, wso.ID(), "operator")
	require.NoError(t, err)
}

// runFinalAssembly walks one FA order from PENDING to COMPLETED
func runFinalAssembly(t *testing.T, stack *helpers.Stack, id int) {
	t.Helper()
	ctx := context.Background()
	_, err := stack.Orders.ConfirmFinalAssemblyOrder(ctx, id)
	require.NoError(t, err)
	_, err = stack.Orders.StartFinalAssemblyOrder(ctx, id)
	require.NoError(t, err)
	_, err = stack.Orders.CompleteFinalAssemblyOrderAssembly(ctx, id)
	require.NoError(t, err)
	_, err = stack.Orders.SubmitFinalAssemblyOrder(ctx, id, "ws6-operator")
	require.NoError(t, err)
}

func TestCustomerOrder_DirectFulfillment(t *testing.T) {
	stack := newSeededStack(t)
	ctx := context.Background()

	co, err := stack.Orders.CreateCustomerOrder(ctx, orders.CreateCustomerOrderInput{
		Items:    []orders.OrderItemInput{{ProductID: 1, Quantity: 2}},
		Priority: shared.PriorityNormal,
	})
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, co.Status())

	co, err = stack.Orders.ConfirmCustomerOrder(ctx, co.ID())
	require.NoError(t, err)
	assert.Equal(t, order.ScenarioDirectFulfillment, co.TriggerScenario())

	result, err := stack.Orders.FulfillCustomerOrder(ctx, co.ID(), "planner")
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, result.CustomerOrder.Status())
	assert.Nil(t, result.WarehouseOrder)
	assert.Nil(t, result.ProductionOrder)

	assert.Equal(t, 8, stack.StockAt(t, shared.WorkstationPlantWarehouse, shared.ItemTypeProduct, 1))
}

func TestCustomerOrder_FulfillBeforeConfirmRejected(t *testing.T) {
	stack := newSeededStack(t)
	ctx := context.Background()

	co, err := stack.Orders.CreateCustomerOrder(ctx, orders.CreateCustomerOrderInput{
		Items: []orders.OrderItemInput{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = stack.Orders.FulfillCustomerOrder(ctx, co.ID(), "planner")

	var invalidState *order.ErrInvalidState
	require.ErrorAs(t, err, &invalidState)
	assert.Equal(t, order.StatusPending, invalidState.Current)
}

func TestCustomerOrder_UnknownProductRejected(t *testing.T) {
	stack := newSeededStack(t)

	_, err := stack.Orders.CreateCustomerOrder(context.Background(), orders.CreateCustomerOrderInput{
		Items: []orders.OrderItemInput{{ProductID: 99, Quantity: 1}},
	})

	var validation *order.ErrValidation
	assert.ErrorAs(t, err, &validation)
}

func TestCustomerOrder_UnknownIDNotFound(t *testing.T) {
	stack := newSeededStack(t)

	_, err := stack.Orders.GetCustomerOrder(context.Background(), 4242)

	var notFound *order.ErrNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 4242, notFound.ID)
}

func TestCustomerOrder_DirectFulfillmentShortfallLeavesOrderConfirmed(t *testing.T) {
	stack := newSeededStack(t)
	ctx := context.Background()

	co, err := stack.Orders.CreateCustomerOrder(ctx, orders.CreateCustomerOrderInput{
		Items: []orders.OrderItemInput{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)
	co, err = stack.Orders.ConfirmCustomerOrder(ctx, co.ID())
	require.NoError(t, err)
	require.Equal(t, order.ScenarioDirectFulfillment, co.TriggerScenario())

	// Stock walks out the door between confirmation and fulfillment
	drainPlantStock(t, stack, 1, 1)

	_, err = stack.Orders.FulfillCustomerOrder(ctx, co.ID(), "planner")

	var short *order.ErrInsufficientStock
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 2, short.Requested)
	assert.Equal(t, 1, short.Available)

	co, err = stack.Orders.GetCustomerOrder(ctx, co.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusConfirmed, co.Status())
	assert.Equal(t, 1, stack.StockAt(t, shared.WorkstationPlantWarehouse, shared.ItemTypeProduct, 1))
}

func TestCustomerOrder_WarehousePath(t *testing.T) {
	stack := newSeededStack(t)
	ctx := context.Background()
	drainPlantStock(t, stack, 1, 1)

	co, err := stack.Orders.CreateCustomerOrder(ctx, orders.CreateCustomerOrderInput{
		Items: []orders.OrderItemInput{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)
	co, err = stack.Orders.ConfirmCustomerOrder(ctx, co.ID())
	require.NoError(t, err)
	assert.Equal(t, order.ScenarioWarehouseOrderNeeded, co.TriggerScenario())

	result, err := stack.Orders.FulfillCustomerOrder(ctx, co.ID(), "planner")
	require.NoError(t, err)
	require.NotNil(t, result.WarehouseOrder)
	assert.Equal(t, order.StatusProcessing, result.CustomerOrder.Status())

	// The warehouse order carries the BOM expansion: four modules, two each
	wo := result.WarehouseOrder
	require.Len(t, wo.Items(), 4)
	for _, iq := range wo.Items() {
		assert.Equal(t, shared.ItemTypeModule, iq.Item.Type)
		assert.Equal(t, 2, iq.Quantity)
	}

	wo, err = stack.Orders.ConfirmWarehouseOrder(ctx, wo.ID())
	require.NoError(t, err)
	assert.Equal(t, order.ScenarioDirectFulfillment, wo.TriggerScenario())

	wo, err = stack.Orders.FulfillWarehouseOrder(ctx, wo.ID(), "ws8-operator")
	require.NoError(t, err)
	assert.Equal(t, order.StatusFulfilled, wo.Status())
	assert.Equal(t, 18, stack.StockAt(t, shared.WorkstationModulesSupermarket, shared.ItemTypeModule, 1))

	// One FA order per ordered unit
	fas, err := stack.Orders.ListFinalAssemblyOrders(ctx, order.ListFilter{})
	require.NoError(t, err)
	require.Len(t, fas, 2)

	for _, fa := range fas {
		runFinalAssembly(t, stack, fa.ID())
	}

	co, err = stack.Orders.GetCustomerOrder(ctx, co.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, co.Status())

	// 1 on hand, +2 assembled, -2 shipped
	assert.Equal(t, 1, stack.StockAt(t, shared.WorkstationPlantWarehouse, shared.ItemTypeProduct, 1))
}

func TestCustomerOrder_WarehousePathWithProduction(t *testing.T) {
	stack := newSeededStack(t)
	ctx := context.Background()
	drainPlantStock(t, stack, 1, 0)

	// Gearboxes are nearly out, so the supermarket cannot serve the order
	_, err := stack.Inventory.Adjust(ctx, invapp.AdjustRequest{
		WorkstationID: shared.WorkstationModulesSupermarket,
		Item:          shared.ItemRef{Type: shared.ItemTypeModule, ID: 2},
		Delta:         -19,
		Reason:        inventory.ReasonAdjustment,
		Actor:         "test",
	})
	require.NoError(t, err)

	co, err := stack.Orders.CreateCustomerOrder(ctx, orders.CreateCustomerOrderInput{
		Items: []orders.OrderItemInput{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)
	co, err = stack.Orders.ConfirmCustomerOrder(ctx, co.ID())
	require.NoError(t, err)

	result, err := stack.Orders.FulfillCustomerOrder(ctx, co.ID(), "planner")
	require.NoError(t, err)
	wo := result.WarehouseOrder
	require.NotNil(t, wo)

	wo, err = stack.Orders.ConfirmWarehouseOrder(ctx, wo.ID())
	require.NoError(t, err)
	assert.Equal(t, order.ScenarioProductionRequired, wo.TriggerScenario())

	// Fulfillment is blocked until production has run
	_, err = stack.Orders.FulfillWarehouseOrder(ctx, wo.ID(), "ws8-operator")
	var invalidOp *order.ErrInvalidOperation
	require.ErrorAs(t, err, &invalidOp)

	po, err := stack.Orders.OrderProductionFromWarehouse(ctx, wo.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusScheduled, po.Status())
	assert.NotEmpty(t, po.ScheduleID())

	controls, err := stack.Orders.FindControlOrdersByProduction(ctx, po.ID())
	require.NoError(t, err)
	require.Len(t, controls, 4)

	runControlOrder(t, stack, controls[0].ID())
	po, err = stack.Orders.GetProductionOrder(ctx, po.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusInProgress, po.Status())

	for _, ctrl := range controls[1:] {
		runControlOrder(t, stack, ctrl.ID())
	}

	po, err = stack.Orders.GetProductionOrder(ctx, po.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, po.Status())

	// Production restocked the gearboxes; assembling them consumed axle sets
	assert.Equal(t, 3, stack.StockAt(t, shared.WorkstationModulesSupermarket, shared.ItemTypeModule, 2))
	assert.Equal(t, 18, stack.StockAt(t, shared.WorkstationModulesSupermarket, shared.ItemTypeModule, 5))

	// Reservation bypasses the availability check on the second attempt
	wo, err = stack.Orders.GetWarehouseOrder(ctx, wo.ID())
	require.NoError(t, err)
	assert.True(t, wo.StockCheckBypassed())

	wo, err = stack.Orders.FulfillWarehouseOrder(ctx, wo.ID(), "ws8-operator")
	require.NoError(t, err)
	assert.Equal(t, order.StatusFulfilled, wo.Status())

	fas, err := stack.Orders.ListFinalAssemblyOrders(ctx, order.ListFilter{})
	require.NoError(t, err)
	require.Len(t, fas, 2)
	for _, fa := range fas {
		runFinalAssembly(t, stack, fa.ID())
	}

	co, err = stack.Orders.GetCustomerOrder(ctx, co.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, co.Status())
	assert.Equal(t, 0, stack.StockAt(t, shared.WorkstationPlantWarehouse, shared.ItemTypeProduct, 1))
}

func TestCustomerOrder_DirectProductionAtThreshold(t *testing.T) {
	stack := newSeededStack(t)
	ctx := context.Background()

	// Plant stock covers the order, but the quantity hits the lot size
	co, err := stack.Orders.CreateCustomerOrder(ctx, orders.CreateCustomerOrderInput{
		Items:    []orders.OrderItemInput{{ProductID: 1, Quantity: 3}},
		Priority: shared.PriorityHigh,
	})
	require.NoError(t, err)
	co, err = stack.Orders.ConfirmCustomerOrder(ctx, co.ID())
	require.NoError(t, err)
	assert.Equal(t, order.ScenarioDirectProduction, co.TriggerScenario())

	result, err := stack.Orders.FulfillCustomerOrder(ctx, co.ID(), "planner")
	require.NoError(t, err)
	require.NotNil(t, result.ProductionOrder)
	assert.Nil(t, result.WarehouseOrder)
	assert.Equal(t, order.StatusProcessing, result.CustomerOrder.Status())

	po := result.ProductionOrder
	assert.Equal(t, order.StatusScheduled, po.Status())

	controls, err := stack.Orders.FindControlOrdersByProduction(ctx, po.ID())
	require.NoError(t, err)
	require.Len(t, controls, 4)
	kinds := map[order.ControlKind]int{}
	for _, ctrl := range controls {
		kinds[ctrl.Kind()]++
		assert.Equal(t, 3, ctrl.Quantity())
		runControlOrder(t, stack, ctrl.ID())
	}
	assert.Equal(t, 2, kinds[order.ControlKindProduction])
	assert.Equal(t, 2, kinds[order.ControlKindAssembly])

	// Campaign completion opens one FA order per unit
	fas, err := stack.Orders.ListFinalAssemblyOrders(ctx, order.ListFilter{})
	require.NoError(t, err)
	require.Len(t, fas, 3)
	for _, fa := range fas {
		require.NotNil(t, fa.ProductionOrderID())
		runFinalAssembly(t, stack, fa.ID())
	}

	co, err = stack.Orders.GetCustomerOrder(ctx, co.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, co.Status())

	// Each assembled unit consumed its module set from the supermarket
	assert.Equal(t, 20, stack.StockAt(t, shared.WorkstationModulesSupermarket, shared.ItemTypeModule, 1))
	assert.Equal(t, 17, stack.StockAt(t, shared.WorkstationModulesSupermarket, shared.ItemTypeModule, 5))

	// +3 assembled, -3 shipped: plant stock is back where it started
	assert.Equal(t, 10, stack.StockAt(t, shared.WorkstationPlantWarehouse, shared.ItemTypeProduct, 1))
}

func TestScheduleProduction_RejectsNonPending(t *testing.T) {
	stack := newSeededStack(t)
	ctx := context.Background()

	co, err := stack.Orders.CreateCustomerOrder(ctx, orders.CreateCustomerOrderInput{
		Items: []orders.OrderItemInput{{ProductID: 1, Quantity: 3}},
	})
	require.NoError(t, err)
	_, err = stack.Orders.ConfirmCustomerOrder(ctx, co.ID())
	require.NoError(t, err)
	result, err := stack.Orders.FulfillCustomerOrder(ctx, co.ID(), "planner")
	require.NoError(t, err)

	_, err = stack.Orders.ScheduleProduction(ctx, result.ProductionOrder.ID())

	var invalidState *order.ErrInvalidState
	require.ErrorAs(t, err, &invalidState)
	assert.Equal(t, order.StatusScheduled, invalidState.Current)
}

func TestWorkstationOrder_SupplyGateHoldsUntilFulfilled(t *testing.T) {
	stack := newSeededStack(t)
	ctx := context.Background()

	co, err := stack.Orders.CreateCustomerOrder(ctx, orders.CreateCustomerOrderInput{
		Items: []orders.OrderItemInput{{ProductID: 1, Quantity: 3}},
	})
	require.NoError(t, err)
	_, err = stack.Orders.ConfirmCustomerOrder(ctx, co.ID())
	require.NoError(t, err)
	result, err := stack.Orders.FulfillCustomerOrder(ctx, co.ID(), "planner")
	require.NoError(t, err)

	controls, err := stack.Orders.FindControlOrdersByProduction(ctx, result.ProductionOrder.ID())
	require.NoError(t, err)
	require.NotEmpty(t, controls)

	_, err = stack.Orders.DispatchControlOrder(ctx, controls[0].ID())
	require.NoError(t, err)

	workOrders, err := stack.Orders.FindWorkstationOrdersByControl(ctx, controls[0].ID())
	require.NoError(t, err)
	require.Len(t, workOrders, 1)

	// Raw parts have not arrived yet
	_, err = stack.Orders.ConfirmWorkstationOrder(ctx, workOrders[0].ID())
	var invalidOp *order.ErrInvalidOperation
	require.ErrorAs(t, err, &invalidOp)

	supplies, err := stack.Orders.FindSupplyOrdersByControl(ctx, controls[0].ID())
	require.NoError(t, err)
	require.Len(t, supplies, 1)
	_, err = stack.Orders.FulfillSupplyOrder(ctx, supplies[0].ID(), "ws9-operator")
	require.NoError(t, err)

	_, err = stack.Orders.ConfirmWorkstationOrder(ctx, workOrders[0].ID())
	require.NoError(t, err)
}

// interleavingInventory wraps the inventory service so a test can run another
// request between a caller's status check and its stock debit.
type interleavingInventory struct {
	inner      *invapp.Service
	beforeNext func()
}

func (w *interleavingInventory) Adjust(ctx context.Context, req invapp.AdjustRequest) (*inventory.StockRecord, error) {
	return w.inner.Adjust(ctx, req)
}

func (w *interleavingInventory) AdjustBatch(ctx context.Context, reqs []invapp.AdjustRequest) ([]invapp.Adjustment, error) {
	if hook := w.beforeNext; hook != nil {
		w.beforeNext = nil
		hook()
	}
	return w.inner.AdjustBatch(ctx, reqs)
}

func (w *interleavingInventory) Revert(ctx context.Context, reqs []invapp.AdjustRequest) error {
	return w.inner.Revert(ctx, reqs)
}

func (w *interleavingInventory) Availability(ctx context.Context, workstationID int, items []shared.ItemRef) (map[shared.ItemRef]int, error) {
	return w.inner.Availability(ctx, workstationID, items)
}

func TestCustomerOrder_DuplicateFulfillmentKeepsDebitApplied(t *testing.T) {
	stack := newSeededStack(t)
	ctx := context.Background()

	co, err := stack.Orders.CreateCustomerOrder(ctx, orders.CreateCustomerOrderInput{
		Items: []orders.OrderItemInput{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)
	co, err = stack.Orders.ConfirmCustomerOrder(ctx, co.ID())
	require.NoError(t, err)
	require.Equal(t, order.ScenarioDirectFulfillment, co.TriggerScenario())

	wrapped := &interleavingInventory{inner: stack.Inventory}
	duplicate := orders.NewService(
		persistence.NewGormOrderUnitOfWork(stack.DB),
		wrapped, stack.MasterData, bom.NewResolver(stack.MasterData),
		scheduler.NewAdapter(stack.Scheduler, stack.Clock), stack.Config, stack.Clock,
	)

	// The first request lands after the duplicate passed the status check but
	// before its debit, so the duplicate's movements all replay.
	wrapped.beforeNext = func() {
		_, err := stack.Orders.FulfillCustomerOrder(ctx, co.ID(), "planner")
		require.NoError(t, err)
	}

	_, err = duplicate.FulfillCustomerOrder(ctx, co.ID(), "planner")

	var invalidState *order.ErrInvalidState
	require.ErrorAs(t, err, &invalidState)

	// The duplicate applied nothing, so its compensation must not re-credit
	// the winner's debit.
	assert.Equal(t, 8, stack.StockAt(t, shared.WorkstationPlantWarehouse, shared.ItemTypeProduct, 1))

	co, err = stack.Orders.GetCustomerOrder(ctx, co.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, co.Status())
}

func TestCustomerOrder_FulfillRetriesCloseAfterFailedClosingDebit(t *testing.T) {
	stack := newSeededStack(t)
	ctx := context.Background()
	drainPlantStock(t, stack, 1, 0)

	co, err := stack.Orders.CreateCustomerOrder(ctx, orders.CreateCustomerOrderInput{
		Items: []orders.OrderItemInput{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)
	co, err = stack.Orders.ConfirmCustomerOrder(ctx, co.ID())
	require.NoError(t, err)
	require.Equal(t, order.ScenarioWarehouseOrderNeeded, co.TriggerScenario())

	result, err := stack.Orders.FulfillCustomerOrder(ctx, co.ID(), "planner")
	require.NoError(t, err)
	wo := result.WarehouseOrder
	require.NotNil(t, wo)
	_, err = stack.Orders.ConfirmWarehouseOrder(ctx, wo.ID())
	require.NoError(t, err)
	_, err = stack.Orders.FulfillWarehouseOrder(ctx, wo.ID(), "ws8-operator")
	require.NoError(t, err)

	fas, err := stack.Orders.ListFinalAssemblyOrders(ctx, order.ListFilter{})
	require.NoError(t, err)
	require.Len(t, fas, 2)

	runFinalAssembly(t, stack, fas[0].ID())

	// The order cannot be re-fulfilled while assembly is still running
	_, err = stack.Orders.FulfillCustomerOrder(ctx, co.ID(), "planner")
	var invalidOp *order.ErrInvalidOperation
	require.ErrorAs(t, err, &invalidOp)

	// Stock walks out the door before the last unit is assembled, so the
	// closing debit of the final submission falls short.
	drainPlantStock(t, stack, 1, 0)

	_, err = stack.Orders.ConfirmFinalAssemblyOrder(ctx, fas[1].ID())
	require.NoError(t, err)
	_, err = stack.Orders.StartFinalAssemblyOrder(ctx, fas[1].ID())
	require.NoError(t, err)
	_, err = stack.Orders.CompleteFinalAssemblyOrderAssembly(ctx, fas[1].ID())
	require.NoError(t, err)
	_, err = stack.Orders.SubmitFinalAssemblyOrder(ctx, fas[1].ID(), "ws6-operator")

	var short *order.ErrInsufficientStock
	require.ErrorAs(t, err, &short)

	// The submission itself committed; only the close is still owed
	fa, err := stack.Orders.GetFinalAssemblyOrder(ctx, fas[1].ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, fa.Status())
	co, err = stack.Orders.GetCustomerOrder(ctx, co.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusProcessing, co.Status())

	// Resubmitting the completed FA is not the way back in
	_, err = stack.Orders.SubmitFinalAssemblyOrder(ctx, fas[1].ID(), "ws6-operator")
	var invalidState *order.ErrInvalidState
	require.ErrorAs(t, err, &invalidState)

	// Restock and retry the close through fulfillment
	_, err = stack.Inventory.Adjust(ctx, invapp.AdjustRequest{
		WorkstationID: shared.WorkstationPlantWarehouse,
		Item:          shared.ItemRef{Type: shared.ItemTypeProduct, ID: 1},
		Delta:         1,
		Reason:        inventory.ReasonAdjustment,
		Actor:         "test",
	})
	require.NoError(t, err)

	retried, err := stack.Orders.FulfillCustomerOrder(ctx, co.ID(), "planner")
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, retried.CustomerOrder.Status())
	assert.Equal(t, 0, stack.StockAt(t, shared.WorkstationPlantWarehouse, shared.ItemTypeProduct, 1))
}

func TestFulfillSupplyOrder_DebitsPartsWarehouse(t *testing.T) {
	stack := newSeededStack(t)
	ctx := context.Background()

	co, err := stack.Orders.CreateCustomerOrder(ctx, orders.CreateCustomerOrderInput{
		Items: []orders.OrderItemInput{{ProductID: 1, Quantity: 3}},
	})
	require.NoError(t, err)
	_, err = stack.Orders.ConfirmCustomerOrder(ctx, co.ID())
	require.NoError(t, err)
	result, err := stack.Orders.FulfillCustomerOrder(ctx, co.ID(), "planner")
	require.NoError(t, err)

	controls, err := stack.Orders.FindControlOrdersByProduction(ctx, result.ProductionOrder.ID())
	require.NoError(t, err)

	// Pick the chassis frame run: 3 frames consume 12 steel beams
	var chassis *order.ControlOrder
	for _, ctrl := range controls {
		if ctrl.Item().ID == 1 {
			chassis = ctrl
		}
	}
	require.NotNil(t, chassis)

	_, err = stack.Orders.DispatchControlOrder(ctx, chassis.ID())
	require.NoError(t, err)
	supplies, err := stack.Orders.FindSupplyOrdersByControl(ctx, chassis.ID())
	require.NoError(t, err)
	require.Len(t, supplies, 1)

	so, err := stack.Orders.FulfillSupplyOrder(ctx, supplies[0].ID(), "ws9-operator")
	require.NoError(t, err)
	assert.Equal(t, order.StatusFulfilled, so.Status())
	assert.Equal(t, 488, stack.StockAt(t, shared.WorkstationPartsSupply, shared.ItemTypePart, 1))

	// A fulfilled supply order cannot be fulfilled twice
	_, err = stack.Orders.FulfillSupplyOrder(ctx, supplies[0].ID(), "ws9-operator")
	var invalidState *order.ErrInvalidState
	assert.ErrorAs(t, err, &invalidState)
}
