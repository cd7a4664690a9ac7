package order_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
)

var testNow = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func newTestCustomerOrder(t *testing.T) *order.CustomerOrder {
	t.Helper()
	co, err := order.NewCustomerOrder("CO-1", []shared.ItemQuantity{
		{Item: shared.ItemRef{Type: shared.ItemTypeProduct, ID: 1}, Quantity: 2},
	}, shared.PriorityNormal, "", testNow)
	require.NoError(t, err)
	return co
}

func TestCustomerOrder_StartsPending(t *testing.T) {
	co := newTestCustomerOrder(t)

	assert.Equal(t, order.StatusPending, co.Status())
	assert.Empty(t, string(co.TriggerScenario()))
	assert.Equal(t, 2, co.TotalRequested())
}

func TestCustomerOrder_RequiresItems(t *testing.T) {
	_, err := order.NewCustomerOrder("CO-1", nil, shared.PriorityNormal, "", testNow)

	var validation *order.ErrValidation
	assert.ErrorAs(t, err, &validation)
}

func TestCustomerOrder_RejectsNonProductItems(t *testing.T) {
	_, err := order.NewCustomerOrder("CO-1", []shared.ItemQuantity{
		{Item: shared.ItemRef{Type: shared.ItemTypeModule, ID: 2}, Quantity: 1},
	}, shared.PriorityNormal, "", testNow)

	var validation *order.ErrValidation
	assert.ErrorAs(t, err, &validation)
}

func TestCustomerOrder_MergesDuplicateItems(t *testing.T) {
	co, err := order.NewCustomerOrder("CO-1", []shared.ItemQuantity{
		{Item: shared.ItemRef{Type: shared.ItemTypeProduct, ID: 1}, Quantity: 1},
		{Item: shared.ItemRef{Type: shared.ItemTypeProduct, ID: 1}, Quantity: 2},
	}, shared.PriorityNormal, "", testNow)
	require.NoError(t, err)

	require.Len(t, co.Items(), 1)
	assert.Equal(t, 3, co.Items()[0].Quantity)
}

func TestCustomerOrder_ConfirmPinsScenario(t *testing.T) {
	co := newTestCustomerOrder(t)

	err := co.Confirm(order.ScenarioDirectFulfillment, testNow)

	require.NoError(t, err)
	assert.Equal(t, order.StatusConfirmed, co.Status())
	assert.Equal(t, order.ScenarioDirectFulfillment, co.TriggerScenario())
}

func TestCustomerOrder_CompleteFromConfirmed(t *testing.T) {
	co := newTestCustomerOrder(t)
	require.NoError(t, co.Confirm(order.ScenarioDirectFulfillment, testNow))

	err := co.Complete(testNow)

	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, co.Status())
}

func TestCustomerOrder_CompleteViaProcessing(t *testing.T) {
	co := newTestCustomerOrder(t)
	require.NoError(t, co.Confirm(order.ScenarioWarehouseOrderNeeded, testNow))
	require.NoError(t, co.MarkProcessing(testNow))

	err := co.Complete(testNow)

	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, co.Status())
}

func TestCustomerOrder_CannotCompleteFromPending(t *testing.T) {
	co := newTestCustomerOrder(t)

	err := co.Complete(testNow)

	var invalidState *order.ErrInvalidState
	require.ErrorAs(t, err, &invalidState)
	assert.Equal(t, order.StatusPending, invalidState.Current)
}

func TestCustomerOrder_CancelOnlyBeforeProcessing(t *testing.T) {
	co := newTestCustomerOrder(t)
	require.NoError(t, co.Cancel(testNow))
	assert.Equal(t, order.StatusCancelled, co.Status())

	co = newTestCustomerOrder(t)
	require.NoError(t, co.Confirm(order.ScenarioWarehouseOrderNeeded, testNow))
	require.NoError(t, co.MarkProcessing(testNow))

	err := co.Cancel(testNow)

	var invalidState *order.ErrInvalidState
	assert.ErrorAs(t, err, &invalidState)
}

func TestCustomerOrder_TerminalStatesAreFinal(t *testing.T) {
	co := newTestCustomerOrder(t)
	require.NoError(t, co.Cancel(testNow))

	assert.True(t, co.Status().IsTerminal())
	assert.Error(t, co.Confirm(order.ScenarioDirectFulfillment, testNow))
	assert.Error(t, co.Complete(testNow))
}
