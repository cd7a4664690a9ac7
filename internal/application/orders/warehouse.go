package orders

import (
	"context"

	"github.com/modelfactory/mes/internal/domain/inventory"
	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
)

// ConfirmWarehouseOrder moves the order to CONFIRMED and pins its scenario
// from the modules supermarket's current stock.
func (s *Service) ConfirmWarehouseOrder(ctx context.Context, id int) (*order.WarehouseOrder, error) {
	wo, err := s.getWarehouseOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	supermarketStock, err := s.inventory.Availability(ctx, shared.WorkstationModulesSupermarket, itemRefs(wo.Items()))
	if err != nil {
		return nil, err
	}
	scenario := SelectWarehouseScenario(wo.Items(), supermarketStock)

	err = s.uow.InTransaction(ctx, func(repo order.Repository) error {
		wo, err = repo.GetWarehouseOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := wo.Confirm(scenario, s.clock.Now()); err != nil {
			return err
		}
		return repo.SaveWarehouseOrder(ctx, wo)
	})
	if err != nil {
		return nil, err
	}
	return wo, nil
}

// FulfillWarehouseOrder debits the modules supermarket and opens the final
// assembly orders, one per unit of each ordered product. Orders reserved by a
// production campaign skip the availability precondition entirely: the
// modules were produced for this order.
func (s *Service) FulfillWarehouseOrder(ctx context.Context, id int, actor string) (*order.WarehouseOrder, error) {
	wo, err := s.getWarehouseOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if wo.Status() != order.StatusConfirmed {
		return nil, &order.ErrInvalidState{Number: wo.Number(), Current: wo.Status(), Attempted: order.StatusFulfilled}
	}
	if !wo.StockCheckBypassed() && wo.TriggerScenario() != order.ScenarioDirectFulfillment {
		return nil, &order.ErrInvalidOperation{
			Number: wo.Number(),
			Reason: "production is required for this order; order it from the warehouse first",
		}
	}

	co, err := s.getCustomerOrder(ctx, wo.CustomerOrderID())
	if err != nil {
		return nil, err
	}

	debits := debitRequests(order.TypeWarehouse, wo.ID(), "fulfill", shared.WorkstationModulesSupermarket,
		wo.Items(), inventory.ReasonFulfillment, actor)
	applied, err := s.applyAdjustments(ctx, debits)
	if err != nil {
		return nil, err
	}

	err = s.uow.InTransaction(ctx, func(repo order.Repository) error {
		fresh, err := repo.GetWarehouseOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !fresh.StockCheckBypassed() {
			if err := fresh.MarkProcessing(s.clock.Now()); err != nil {
				return err
			}
		}
		if err := s.createFinalAssemblyOrdersForWarehouse(ctx, repo, fresh, co); err != nil {
			return err
		}
		if err := fresh.Fulfill(s.clock.Now()); err != nil {
			return err
		}
		wo = fresh
		return repo.SaveWarehouseOrder(ctx, fresh)
	})
	if err != nil {
		return nil, s.compensate(ctx, err, applied)
	}
	return wo, nil
}

// createFinalAssemblyOrdersForWarehouse opens one FA order per unit of each
// ordered product, all parented to the warehouse order.
func (s *Service) createFinalAssemblyOrdersForWarehouse(ctx context.Context, repo order.Repository,
	wo *order.WarehouseOrder, co *order.CustomerOrder) error {
	for _, iq := range co.Items() {
		for unit := 0; unit < iq.Quantity; unit++ {
			number, err := repo.NextNumber(ctx, "FA")
			if err != nil {
				return err
			}
			fa, err := order.NewFinalAssemblyOrderForWarehouse(number, wo.ID(), iq.Item.ID, 1, wo.Priority(), s.clock.Now())
			if err != nil {
				return err
			}
			if err := repo.CreateFinalAssemblyOrder(ctx, fa); err != nil {
				return err
			}
		}
	}
	return nil
}

// OrderProductionFromWarehouse opens a production campaign for a warehouse
// order whose modules are not in stock, stamps the reservation onto the
// order, and hands the campaign to the scheduler. The warehouse order stays
// CONFIRMED until production completes.
func (s *Service) OrderProductionFromWarehouse(ctx context.Context, id int) (*order.ProductionOrder, error) {
	var po *order.ProductionOrder
	err := s.uow.InTransaction(ctx, func(repo order.Repository) error {
		wo, err := repo.GetWarehouseOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		number, err := repo.NextNumber(ctx, "PO")
		if err != nil {
			return err
		}
		po, err = order.NewProductionOrderForWarehouse(number, wo.ID(), wo.Priority(), nil, s.clock.Now())
		if err != nil {
			return err
		}
		if err := repo.CreateProductionOrder(ctx, po); err != nil {
			return err
		}
		if err := wo.AttachProductionOrder(po.ID(), s.clock.Now()); err != nil {
			return err
		}
		return repo.SaveWarehouseOrder(ctx, wo)
	})
	if err != nil {
		return nil, err
	}

	return s.ScheduleProduction(ctx, po.ID())
}
