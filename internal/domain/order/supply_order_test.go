package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
)

func newTestSupplyOrder(t *testing.T) *order.SupplyOrder {
	t.Helper()
	so, err := order.NewSupplyOrder("SO-1", 1, 4, []shared.ItemQuantity{
		{Item: shared.ItemRef{Type: shared.ItemTypePart, ID: 1}, Quantity: 4},
	}, shared.PriorityNormal, testNow)
	require.NoError(t, err)
	return so
}

func TestSupplyOrder_AlwaysSourcesFromPartsSupply(t *testing.T) {
	so := newTestSupplyOrder(t)

	assert.Equal(t, shared.WorkstationPartsSupply, so.SupplyWarehouseWorkstationID())
	assert.Equal(t, 4, so.RequestingWorkstationID())
	assert.Equal(t, order.StatusPending, so.Status())
}

func TestSupplyOrder_Fulfill(t *testing.T) {
	so := newTestSupplyOrder(t)

	require.NoError(t, so.Fulfill(testNow))
	assert.Equal(t, order.StatusFulfilled, so.Status())

	// FULFILLED is terminal
	assert.Error(t, so.Reject(testNow))
}

func TestSupplyOrder_Reject(t *testing.T) {
	so := newTestSupplyOrder(t)

	require.NoError(t, so.Reject(testNow))
	assert.Equal(t, order.StatusRejected, so.Status())
	assert.Error(t, so.Fulfill(testNow))
}

func TestProductionOrder_ResetForRescheduling(t *testing.T) {
	po, err := order.NewProductionOrderForCustomer("PO-1", 1, shared.PriorityNormal, nil, testNow)
	require.NoError(t, err)

	require.NoError(t, po.MarkScheduled("sched-1", testNow))
	assert.Equal(t, order.StatusScheduled, po.Status())
	assert.Equal(t, "sched-1", po.ScheduleID())

	require.NoError(t, po.ResetForRescheduling(testNow))
	assert.Equal(t, order.StatusPending, po.Status())
	assert.Empty(t, po.ScheduleID())
}

func TestFinalAssemblyOrder_Ladder(t *testing.T) {
	fa, err := order.NewFinalAssemblyOrderForWarehouse("FA-1", 1, 1, 2, shared.PriorityNormal, testNow)
	require.NoError(t, err)

	assert.Equal(t, shared.WorkstationFinalAssembly, fa.WorkstationID())

	require.NoError(t, fa.Confirm(testNow))
	require.NoError(t, fa.Start(testNow))

	// Submission requires the assembly completion step first
	err = fa.Submit(testNow)
	var invalidState *order.ErrInvalidState
	require.ErrorAs(t, err, &invalidState)

	require.NoError(t, fa.CompleteAssembly(testNow))
	require.NoError(t, fa.Submit(testNow))
	assert.Equal(t, order.StatusCompleted, fa.Status())
}
