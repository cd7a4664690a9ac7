package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelfactory/mes/internal/adapters/persistence"
	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
	"github.com/modelfactory/mes/test/helpers"
)

var repoNow = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func inTx(t *testing.T, uow *persistence.GormOrderUnitOfWork, fn func(repo order.Repository) error) {
	t.Helper()
	require.NoError(t, uow.InTransaction(context.Background(), fn))
}

func TestNextNumber_SequencesPerPrefix(t *testing.T) {
	uow := persistence.NewGormOrderUnitOfWork(helpers.NewTestDB(t))
	ctx := context.Background()

	var numbers []string
	inTx(t, uow, func(repo order.Repository) error {
		for _, prefix := range []string{"CO", "CO", "SO", "CO"} {
			n, err := repo.NextNumber(ctx, prefix)
			if err != nil {
				return err
			}
			numbers = append(numbers, n)
		}
		return nil
	})

	assert.Equal(t, []string{"CO-1", "CO-2", "SO-1", "CO-3"}, numbers)

	// Sequences survive the transaction boundary
	inTx(t, uow, func(repo order.Repository) error {
		n, err := repo.NextNumber(ctx, "CO")
		assert.Equal(t, "CO-4", n)
		return err
	})
}

func TestCustomerOrder_RoundTrip(t *testing.T) {
	uow := persistence.NewGormOrderUnitOfWork(helpers.NewTestDB(t))
	ctx := context.Background()

	items := []shared.ItemQuantity{
		{Item: shared.ItemRef{Type: shared.ItemTypeProduct, ID: 1}, Quantity: 2},
		{Item: shared.ItemRef{Type: shared.ItemTypeProduct, ID: 2}, Quantity: 1},
	}
	co, err := order.NewCustomerOrder("CO-1", items, shared.PriorityHigh, "rush job", repoNow)
	require.NoError(t, err)
	require.NoError(t, co.Confirm(order.ScenarioDirectFulfillment, repoNow))

	var id int
	inTx(t, uow, func(repo order.Repository) error {
		if err := repo.CreateCustomerOrder(ctx, co); err != nil {
			return err
		}
		id = co.ID()
		return repo.SaveCustomerOrder(ctx, co)
	})
	require.NotZero(t, id)

	var loaded *order.CustomerOrder
	inTx(t, uow, func(repo order.Repository) error {
		var err error
		loaded, err = repo.GetCustomerOrder(ctx, id)
		return err
	})

	assert.Equal(t, "CO-1", loaded.Number())
	assert.Equal(t, order.StatusConfirmed, loaded.Status())
	assert.Equal(t, order.ScenarioDirectFulfillment, loaded.TriggerScenario())
	assert.Equal(t, shared.PriorityHigh, loaded.Priority())
	assert.Equal(t, "rush job", loaded.Notes())
	assert.Equal(t, items, loaded.Items())
}

func TestCustomerOrder_GetUnknownIsNotFound(t *testing.T) {
	uow := persistence.NewGormOrderUnitOfWork(helpers.NewTestDB(t))

	err := uow.InTransaction(context.Background(), func(repo order.Repository) error {
		_, err := repo.GetCustomerOrder(context.Background(), 999)
		return err
	})

	var notFound *order.ErrNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, order.TypeCustomer, notFound.OrderType)
	assert.Equal(t, 999, notFound.ID)
}

func TestListCustomerOrders_FiltersByStatus(t *testing.T) {
	uow := persistence.NewGormOrderUnitOfWork(helpers.NewTestDB(t))
	ctx := context.Background()

	items := []shared.ItemQuantity{{Item: shared.ItemRef{Type: shared.ItemTypeProduct, ID: 1}, Quantity: 1}}
	inTx(t, uow, func(repo order.Repository) error {
		for i := 0; i < 3; i++ {
			number, err := repo.NextNumber(ctx, "CO")
			if err != nil {
				return err
			}
			co, err := order.NewCustomerOrder(number, items, shared.PriorityNormal, "", repoNow)
			if err != nil {
				return err
			}
			if i == 0 {
				if err := co.Confirm(order.ScenarioDirectFulfillment, repoNow); err != nil {
					return err
				}
			}
			if err := repo.CreateCustomerOrder(ctx, co); err != nil {
				return err
			}
		}
		return nil
	})

	var confirmed, pending []*order.CustomerOrder
	inTx(t, uow, func(repo order.Repository) error {
		var err error
		if confirmed, err = repo.ListCustomerOrders(ctx, order.ListFilter{Status: order.StatusConfirmed}); err != nil {
			return err
		}
		pending, err = repo.ListCustomerOrders(ctx, order.ListFilter{Status: order.StatusPending, Limit: 1})
		return err
	})

	require.Len(t, confirmed, 1)
	assert.Equal(t, "CO-1", confirmed[0].Number())
	assert.Len(t, pending, 1)
}

func TestWorkstationOrder_RoundTripKeepsSupplyLink(t *testing.T) {
	uow := persistence.NewGormOrderUnitOfWork(helpers.NewTestDB(t))
	ctx := context.Background()

	gearbox := shared.ItemRef{Type: shared.ItemTypeModule, ID: 2}
	var wsoID int
	inTx(t, uow, func(repo order.Repository) error {
		po, err := order.NewProductionOrderForCustomer("PO-1", 1, shared.PriorityNormal, nil, repoNow)
		if err != nil {
			return err
		}
		if err := repo.CreateProductionOrder(ctx, po); err != nil {
			return err
		}
		start, end := repoNow, repoNow.Add(time.Hour)
		ctrl, err := order.NewControlOrder("ACO-1", po.ID(), order.ControlKindAssembly, 4,
			"task-1", gearbox, 2, 1, &start, &end, shared.PriorityNormal, repoNow)
		if err != nil {
			return err
		}
		if err := repo.CreateControlOrder(ctx, ctrl); err != nil {
			return err
		}
		so, err := order.NewSupplyOrder("SO-1", ctrl.ID(), 4, []shared.ItemQuantity{
			{Item: shared.ItemRef{Type: shared.ItemTypePart, ID: 3}, Quantity: 6},
		}, shared.PriorityNormal, repoNow)
		if err != nil {
			return err
		}
		if err := repo.CreateSupplyOrder(ctx, so); err != nil {
			return err
		}
		wso, err := order.NewWorkstationOrder("GA-1", ctrl.ID(), order.WorkGearAssembly, 4,
			gearbox, 2, shared.PriorityNormal, repoNow)
		if err != nil {
			return err
		}
		if err := wso.LinkSupplyOrder(so.ID(), repoNow); err != nil {
			return err
		}
		if err := repo.CreateWorkstationOrder(ctx, wso); err != nil {
			return err
		}
		wsoID = wso.ID()
		return nil
	})

	var loaded *order.WorkstationOrder
	inTx(t, uow, func(repo order.Repository) error {
		var err error
		loaded, err = repo.GetWorkstationOrder(ctx, wsoID)
		return err
	})

	assert.Equal(t, order.WorkGearAssembly, loaded.Kind())
	assert.Equal(t, 4, loaded.WorkstationID())
	assert.Equal(t, gearbox, loaded.Item())
	require.NotNil(t, loaded.SupplyOrderID())

	// The gate survives persistence: confirming without the supply is refused
	err := loaded.Confirm(false, repoNow)
	var invalidOp *order.ErrInvalidOperation
	assert.ErrorAs(t, err, &invalidOp)
}

func TestFinalAssemblyOrders_FoundByParent(t *testing.T) {
	uow := persistence.NewGormOrderUnitOfWork(helpers.NewTestDB(t))
	ctx := context.Background()

	var woID int
	inTx(t, uow, func(repo order.Repository) error {
		wo, err := order.NewWarehouseOrder("WO-1", 1, []shared.ItemQuantity{
			{Item: shared.ItemRef{Type: shared.ItemTypeModule, ID: 1}, Quantity: 2},
		}, shared.PriorityNormal, repoNow)
		if err != nil {
			return err
		}
		if err := repo.CreateWarehouseOrder(ctx, wo); err != nil {
			return err
		}
		woID = wo.ID()
		for i := 0; i < 2; i++ {
			number, err := repo.NextNumber(ctx, "FA")
			if err != nil {
				return err
			}
			fa, err := order.NewFinalAssemblyOrderForWarehouse(number, wo.ID(), 1, 1, shared.PriorityNormal, repoNow)
			if err != nil {
				return err
			}
			if err := repo.CreateFinalAssemblyOrder(ctx, fa); err != nil {
				return err
			}
		}
		return nil
	})

	var fas []*order.FinalAssemblyOrder
	inTx(t, uow, func(repo order.Repository) error {
		var err error
		fas, err = repo.FindFinalAssemblyOrdersByWarehouse(ctx, woID)
		return err
	})

	require.Len(t, fas, 2)
	for _, fa := range fas {
		require.NotNil(t, fa.WarehouseOrderID())
		assert.Equal(t, woID, *fa.WarehouseOrderID())
		assert.Equal(t, shared.WorkstationFinalAssembly, fa.WorkstationID())
	}
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	uow := persistence.NewGormOrderUnitOfWork(helpers.NewTestDB(t))
	ctx := context.Background()

	items := []shared.ItemQuantity{{Item: shared.ItemRef{Type: shared.ItemTypeProduct, ID: 1}, Quantity: 1}}
	err := uow.InTransaction(ctx, func(repo order.Repository) error {
		co, err := order.NewCustomerOrder("CO-1", items, shared.PriorityNormal, "", repoNow)
		if err != nil {
			return err
		}
		if err := repo.CreateCustomerOrder(ctx, co); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	inTx(t, uow, func(repo order.Repository) error {
		all, err := repo.ListCustomerOrders(ctx, order.ListFilter{})
		assert.Empty(t, all)
		return err
	})
}
