package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
)

func newWorkOrder(t *testing.T, kind order.WorkKind, workstationID int) *order.WorkstationOrder {
	t.Helper()
	wso, err := order.NewWorkstationOrder("GA-1", 1, kind, workstationID,
		shared.ItemRef{Type: shared.ItemTypeModule, ID: 2}, 1, shared.PriorityNormal, testNow)
	require.NoError(t, err)
	return wso
}

func TestWorkstationOrder_KindMustMatchWorkstation(t *testing.T) {
	_, err := order.NewWorkstationOrder("GA-1", 1, order.WorkGearAssembly, 1,
		shared.ItemRef{Type: shared.ItemTypeModule, ID: 2}, 1, shared.PriorityNormal, testNow)

	var validation *order.ErrValidation
	assert.ErrorAs(t, err, &validation)
}

func TestWorkstationOrder_AssemblyLadder(t *testing.T) {
	wso := newWorkOrder(t, order.WorkGearAssembly, 4)

	require.NoError(t, wso.Confirm(false, testNow))
	require.NoError(t, wso.Start(testNow))

	// Assembly cells may not skip the assembly completion step
	err := wso.Complete(testNow)
	var invalidState *order.ErrInvalidState
	require.ErrorAs(t, err, &invalidState)

	require.NoError(t, wso.CompleteAssembly(testNow))
	require.NoError(t, wso.Complete(testNow))
	assert.Equal(t, order.StatusCompleted, wso.Status())
}

func TestWorkstationOrder_ManufacturingLadder(t *testing.T) {
	wso := newWorkOrder(t, order.WorkInjectionMolding, 1)

	require.NoError(t, wso.Confirm(false, testNow))
	require.NoError(t, wso.Start(testNow))

	// Manufacturing cells have no assembly completion step
	err := wso.CompleteAssembly(testNow)
	var invalidOp *order.ErrInvalidOperation
	require.ErrorAs(t, err, &invalidOp)

	require.NoError(t, wso.Complete(testNow))
	assert.Equal(t, order.StatusCompleted, wso.Status())
}

func TestWorkstationOrder_SupplyGateBlocksConfirm(t *testing.T) {
	wso := newWorkOrder(t, order.WorkGearAssembly, 4)
	require.NoError(t, wso.LinkSupplyOrder(9, testNow))

	err := wso.Confirm(false, testNow)
	var invalidOp *order.ErrInvalidOperation
	require.ErrorAs(t, err, &invalidOp)

	require.NoError(t, wso.Confirm(true, testNow))
	assert.Equal(t, order.StatusConfirmed, wso.Status())
}

func TestWorkstationOrder_NumberPrefixes(t *testing.T) {
	assert.Equal(t, "IM", order.WorkInjectionMolding.NumberPrefix())
	assert.Equal(t, "PP", order.WorkPartsPreProduction.NumberPrefix())
	assert.Equal(t, "PF", order.WorkPartFinishing.NumberPrefix())
	assert.Equal(t, "GA", order.WorkGearAssembly.NumberPrefix())
	assert.Equal(t, "MA", order.WorkMotorAssembly.NumberPrefix())
	assert.Equal(t, "FAW", order.WorkFinalAssembly.NumberPrefix())
}

func TestWorkKindForWorkstation(t *testing.T) {
	kind, err := order.WorkKindForWorkstation(6)
	require.NoError(t, err)
	assert.Equal(t, order.WorkFinalAssembly, kind)
	assert.True(t, kind.IsAssembly())

	kind, err = order.WorkKindForWorkstation(3)
	require.NoError(t, err)
	assert.False(t, kind.IsAssembly())

	_, err = order.WorkKindForWorkstation(7)
	assert.Error(t, err)
}
