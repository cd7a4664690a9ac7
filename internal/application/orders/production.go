package orders

import (
	"context"

	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/scheduling"
	"github.com/modelfactory/mes/internal/domain/shared"
)

// ScheduleProduction sends a PENDING production order to the scheduling
// engine and materializes the returned tasks as control orders, each assigned
// to the workstation that produces its module per master data.
func (s *Service) ScheduleProduction(ctx context.Context, id int) (*order.ProductionOrder, error) {
	po, err := s.getProductionOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.Status() != order.StatusPending {
		return nil, &order.ErrInvalidState{Number: po.Number(), Current: po.Status(), Attempted: order.StatusScheduled}
	}

	modules, err := s.productionLineModules(ctx, po)
	if err != nil {
		return nil, err
	}

	lineItems := make([]scheduling.LineItem, 0, len(modules))
	for _, iq := range modules {
		module, err := s.catalog.GetModule(ctx, iq.Item.ID)
		if err != nil {
			return nil, err
		}
		lineItems = append(lineItems, scheduling.LineItem{
			ItemID:               module.ID,
			ItemName:             module.Name,
			Quantity:             iq.Quantity,
			EstimatedTimeMinutes: module.EstimatedTimeMinutes,
		})
	}

	schedule, err := s.planner.CreateSchedule(ctx, scheduling.ScheduleRequest{
		OrderNumber: po.Number(),
		Priority:    string(po.Priority()),
		DueDate:     po.DueDate(),
		LineItems:   lineItems,
	})
	if err != nil {
		return nil, err
	}

	err = s.uow.InTransaction(ctx, func(repo order.Repository) error {
		fresh, err := repo.GetProductionOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := fresh.MarkScheduled(schedule.ScheduleID, s.clock.Now()); err != nil {
			return err
		}
		for _, task := range schedule.Tasks {
			if err := s.createControlOrder(ctx, repo, fresh, task); err != nil {
				return err
			}
		}
		po = fresh
		return repo.SaveProductionOrder(ctx, fresh)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// createControlOrder turns one scheduled task into a PCO or ACO depending on
// which cell produces the module.
func (s *Service) createControlOrder(ctx context.Context, repo order.Repository,
	po *order.ProductionOrder, task scheduling.Task) error {
	module, err := s.catalog.GetModule(ctx, task.ItemID)
	if err != nil {
		return err
	}
	kind := order.ControlKindProduction
	if shared.IsAssemblyCell(module.ProductionWorkstationID) {
		kind = order.ControlKindAssembly
	}
	number, err := repo.NextNumber(ctx, kind.NumberPrefix())
	if err != nil {
		return err
	}
	start, end := task.StartTime, task.EndTime
	co, err := order.NewControlOrder(number, po.ID(), kind, module.ProductionWorkstationID,
		task.TaskID, shared.ItemRef{Type: shared.ItemTypeModule, ID: module.ID},
		task.Quantity, task.Sequence, &start, &end, po.Priority(), s.clock.Now())
	if err != nil {
		return err
	}
	return repo.CreateControlOrder(ctx, co)
}

// productionLineModules resolves the module quantities a campaign must
// produce: the warehouse order's items, or the BOM expansion of the customer
// order for direct production.
func (s *Service) productionLineModules(ctx context.Context, po *order.ProductionOrder) ([]shared.ItemQuantity, error) {
	if woID := po.SourceWarehouseOrderID(); woID != nil {
		wo, err := s.getWarehouseOrder(ctx, *woID)
		if err != nil {
			return nil, err
		}
		return wo.Items(), nil
	}

	co, err := s.getCustomerOrder(ctx, *po.SourceCustomerOrderID())
	if err != nil {
		return nil, err
	}
	modules := make([]shared.ItemQuantity, 0)
	for _, iq := range co.Items() {
		expanded, err := s.resolver.ExpandProduct(ctx, iq.Item.ID, iq.Quantity)
		if err != nil {
			return nil, err
		}
		modules = append(modules, expanded...)
	}
	return shared.MergeQuantities(modules), nil
}

// ResetProductionOrder clears a PENDING order after a scheduling failure so
// the operator can retry. Admin path; anything past PENDING is refused.
func (s *Service) ResetProductionOrder(ctx context.Context, id int) (*order.ProductionOrder, error) {
	var po *order.ProductionOrder
	err := s.uow.InTransaction(ctx, func(repo order.Repository) error {
		var err error
		po, err = repo.GetProductionOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := po.ResetForRescheduling(s.clock.Now()); err != nil {
			return err
		}
		return repo.SaveProductionOrder(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// DispatchControlOrder materializes the work under one control order: a
// supply order to the parts warehouse for the raw parts the module consumes,
// and a workstation order for the cell that produces it, gated on the supply
// order. The first dispatch moves the campaign to IN_PROGRESS.
func (s *Service) DispatchControlOrder(ctx context.Context, id int) (*order.ControlOrder, error) {
	co, err := s.getControlOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if co.Status() != order.StatusPending {
		return nil, &order.ErrInvalidState{Number: co.Number(), Current: co.Status(), Attempted: order.StatusAssigned}
	}

	components, err := s.resolver.ModuleComponents(ctx, co.Item().ID)
	if err != nil {
		return nil, err
	}
	parts := make([]shared.ItemQuantity, 0, len(components))
	for _, comp := range components {
		if comp.Item.Type == shared.ItemTypePart {
			parts = append(parts, shared.ItemQuantity{Item: comp.Item, Quantity: comp.Quantity * co.Quantity()})
		}
	}

	err = s.uow.InTransaction(ctx, func(repo order.Repository) error {
		fresh, err := repo.GetControlOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}

		var so *order.SupplyOrder
		if len(parts) > 0 {
			number, err := repo.NextNumber(ctx, "SO")
			if err != nil {
				return err
			}
			so, err = order.NewSupplyOrder(number, fresh.ID(), fresh.AssignedWorkstationID(), parts, fresh.Priority(), s.clock.Now())
			if err != nil {
				return err
			}
			if err := repo.CreateSupplyOrder(ctx, so); err != nil {
				return err
			}
		}

		kind, err := order.WorkKindForWorkstation(fresh.AssignedWorkstationID())
		if err != nil {
			return err
		}
		number, err := repo.NextNumber(ctx, kind.NumberPrefix())
		if err != nil {
			return err
		}
		wso, err := order.NewWorkstationOrder(number, fresh.ID(), kind, fresh.AssignedWorkstationID(),
			fresh.Item(), fresh.Quantity(), fresh.Priority(), s.clock.Now())
		if err != nil {
			return err
		}
		if so != nil {
			if err := wso.LinkSupplyOrder(so.ID(), s.clock.Now()); err != nil {
				return err
			}
		}
		if err := repo.CreateWorkstationOrder(ctx, wso); err != nil {
			return err
		}

		if err := fresh.Assign(s.clock.Now()); err != nil {
			return err
		}
		if err := repo.SaveControlOrder(ctx, fresh); err != nil {
			return err
		}
		co = fresh

		po, err := repo.GetProductionOrderForUpdate(ctx, fresh.ProductionOrderID())
		if err != nil {
			return err
		}
		if po.Status() == order.StatusScheduled {
			if err := po.Start(s.clock.Now()); err != nil {
				return err
			}
			return repo.SaveProductionOrder(ctx, po)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return co, nil
}
