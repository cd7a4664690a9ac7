package orders

import (
	"context"

	invapp "github.com/modelfactory/mes/internal/application/inventory"
	"github.com/modelfactory/mes/internal/domain/inventory"
	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
)

// FulfillSupplyOrder debits the parts warehouse and releases the workstation
// orders gated on this supply.
func (s *Service) FulfillSupplyOrder(ctx context.Context, id int, actor string) (*order.SupplyOrder, error) {
	so, err := s.getSupplyOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if so.Status() != order.StatusPending {
		return nil, &order.ErrInvalidState{Number: so.Number(), Current: so.Status(), Attempted: order.StatusFulfilled}
	}

	debits := debitRequests(order.TypeSupply, so.ID(), "fulfill", shared.WorkstationPartsSupply,
		so.Items(), inventory.ReasonConsumption, actor)
	applied, err := s.applyAdjustments(ctx, debits)
	if err != nil {
		return nil, err
	}

	err = s.uow.InTransaction(ctx, func(repo order.Repository) error {
		fresh, err := repo.GetSupplyOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := fresh.Fulfill(s.clock.Now()); err != nil {
			return err
		}
		so = fresh
		return repo.SaveSupplyOrder(ctx, fresh)
	})
	if err != nil {
		return nil, s.compensate(ctx, err, applied)
	}
	return so, nil
}

// RejectSupplyOrder terminally rejects a supply request; downstream
// workstation orders stay gated.
func (s *Service) RejectSupplyOrder(ctx context.Context, id int) (*order.SupplyOrder, error) {
	var so *order.SupplyOrder
	err := s.uow.InTransaction(ctx, func(repo order.Repository) error {
		var err error
		so, err = repo.GetSupplyOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := so.Reject(s.clock.Now()); err != nil {
			return err
		}
		return repo.SaveSupplyOrder(ctx, so)
	})
	if err != nil {
		return nil, err
	}
	return so, nil
}

// supplyFulfilled reports whether the supply order gating a workstation order
// has been fulfilled. Orders with no linked supply are never gated.
func (s *Service) supplyFulfilled(ctx context.Context, repo order.Repository, wso *order.WorkstationOrder) (bool, error) {
	soID := wso.SupplyOrderID()
	if soID == nil {
		return true, nil
	}
	so, err := repo.GetSupplyOrder(ctx, *soID)
	if err != nil {
		return false, err
	}
	return so.Status() == order.StatusFulfilled, nil
}

// ConfirmWorkstationOrder moves a workstation order to CONFIRMED. Refused
// while the linked supply order is not FULFILLED.
func (s *Service) ConfirmWorkstationOrder(ctx context.Context, id int) (*order.WorkstationOrder, error) {
	var wso *order.WorkstationOrder
	err := s.uow.InTransaction(ctx, func(repo order.Repository) error {
		var err error
		wso, err = repo.GetWorkstationOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		fulfilled, err := s.supplyFulfilled(ctx, repo, wso)
		if err != nil {
			return err
		}
		if err := wso.Confirm(fulfilled, s.clock.Now()); err != nil {
			return err
		}
		return repo.SaveWorkstationOrder(ctx, wso)
	})
	if err != nil {
		return nil, err
	}
	return wso, nil
}

// StartWorkstationOrder moves a workstation order to IN_PROGRESS; the first
// start under a control order pulls the control order along.
func (s *Service) StartWorkstationOrder(ctx context.Context, id int) (*order.WorkstationOrder, error) {
	var wso *order.WorkstationOrder
	err := s.uow.InTransaction(ctx, func(repo order.Repository) error {
		var err error
		wso, err = repo.GetWorkstationOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		fulfilled, err := s.supplyFulfilled(ctx, repo, wso)
		if err != nil {
			return err
		}
		if !fulfilled {
			return &order.ErrInvalidOperation{Number: wso.Number(), Reason: "linked supply order is not FULFILLED"}
		}
		if err := wso.Start(s.clock.Now()); err != nil {
			return err
		}
		if err := repo.SaveWorkstationOrder(ctx, wso); err != nil {
			return err
		}

		ctrl, err := repo.GetControlOrderForUpdate(ctx, wso.ControlOrderID())
		if err != nil {
			return err
		}
		if ctrl.Status() == order.StatusAssigned {
			if err := ctrl.Start(s.clock.Now()); err != nil {
				return err
			}
			return repo.SaveControlOrder(ctx, ctrl)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return wso, nil
}

// CompleteWorkstationOrderAssembly records assembly completion for the
// assembly-side kinds; the order still awaits its final completion.
func (s *Service) CompleteWorkstationOrderAssembly(ctx context.Context, id int) (*order.WorkstationOrder, error) {
	var wso *order.WorkstationOrder
	err := s.uow.InTransaction(ctx, func(repo order.Repository) error {
		var err error
		wso, err = repo.GetWorkstationOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := wso.CompleteAssembly(s.clock.Now()); err != nil {
			return err
		}
		return repo.SaveWorkstationOrder(ctx, wso)
	})
	if err != nil {
		return nil, err
	}
	return wso, nil
}

// CompleteWorkstationOrder closes a workstation order, credits the modules
// supermarket with the produced module (debiting any sub-modules it consumed)
// and re-evaluates the parents: the control order completes when all its
// workstation orders are COMPLETED, the production order when all its control
// orders are.
func (s *Service) CompleteWorkstationOrder(ctx context.Context, id int, actor string) (*order.WorkstationOrder, error) {
	wso, err := s.getWorkstationOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	readyFrom := order.StatusInProgress
	if wso.Kind().IsAssembly() {
		readyFrom = order.StatusCompletedAssembly
	}
	if wso.Status() != readyFrom {
		return nil, &order.ErrInvalidState{Number: wso.Number(), Current: wso.Status(), Attempted: order.StatusCompleted}
	}

	adjustments, err := s.completionAdjustments(ctx, wso, actor)
	if err != nil {
		return nil, err
	}
	applied, err := s.applyAdjustments(ctx, adjustments)
	if err != nil {
		return nil, err
	}

	err = s.uow.InTransaction(ctx, func(repo order.Repository) error {
		fresh, err := repo.GetWorkstationOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := fresh.Complete(s.clock.Now()); err != nil {
			return err
		}
		if err := repo.SaveWorkstationOrder(ctx, fresh); err != nil {
			return err
		}
		wso = fresh
		return s.propagateControlCompletion(ctx, repo, fresh.ControlOrderID())
	})
	if err != nil {
		return nil, s.compensate(ctx, err, applied)
	}
	return wso, nil
}

// completionAdjustments builds the inventory movements of one workstation
// order completion: credit the produced module, debit the sub-modules it
// consumed from the supermarket. One batch, so both land or neither does.
func (s *Service) completionAdjustments(ctx context.Context, wso *order.WorkstationOrder, actor string) ([]invapp.AdjustRequest, error) {
	produced := shared.ItemQuantity{Item: wso.Item(), Quantity: wso.Quantity()}
	reqs := []invapp.AdjustRequest{
		adjustment(order.TypeWorkstation, wso.ID(), "complete", shared.WorkstationModulesSupermarket,
			produced, produced.Quantity, inventory.ReasonProduction, actor),
	}

	components, err := s.resolver.ModuleComponents(ctx, wso.Item().ID)
	if err != nil {
		return nil, err
	}
	for _, comp := range components {
		if comp.Item.Type != shared.ItemTypeModule {
			continue
		}
		consumed := shared.ItemQuantity{Item: comp.Item, Quantity: comp.Quantity * wso.Quantity()}
		reqs = append(reqs, adjustment(order.TypeWorkstation, wso.ID(), "consume", shared.WorkstationModulesSupermarket,
			consumed, -consumed.Quantity, inventory.ReasonConsumption, actor))
	}
	return reqs, nil
}

// propagateControlCompletion closes the control order once every workstation
// order under it is COMPLETED, then re-evaluates the production order.
func (s *Service) propagateControlCompletion(ctx context.Context, repo order.Repository, controlOrderID int) error {
	siblings, err := repo.FindWorkstationOrdersByControl(ctx, controlOrderID)
	if err != nil {
		return err
	}
	for _, sib := range siblings {
		if sib.Status() != order.StatusCompleted {
			return nil
		}
	}

	ctrl, err := repo.GetControlOrderForUpdate(ctx, controlOrderID)
	if err != nil {
		return err
	}
	if ctrl.Status() == order.StatusCompleted {
		return nil
	}
	if err := ctrl.Complete(s.clock.Now()); err != nil {
		return err
	}
	if err := repo.SaveControlOrder(ctx, ctrl); err != nil {
		return err
	}
	return s.propagateProductionCompletion(ctx, repo, ctrl.ProductionOrderID())
}

// propagateProductionCompletion closes the campaign once every control order
// is COMPLETED. For direct production the finished modules flow into final
// assembly: one FA order per unit of each ordered product.
func (s *Service) propagateProductionCompletion(ctx context.Context, repo order.Repository, productionOrderID int) error {
	controls, err := repo.FindControlOrdersByProduction(ctx, productionOrderID)
	if err != nil {
		return err
	}
	for _, ctrl := range controls {
		if ctrl.Status() != order.StatusCompleted {
			return nil
		}
	}

	po, err := repo.GetProductionOrderForUpdate(ctx, productionOrderID)
	if err != nil {
		return err
	}
	if po.Status() == order.StatusCompleted {
		return nil
	}
	if err := po.Complete(s.clock.Now()); err != nil {
		return err
	}
	if err := repo.SaveProductionOrder(ctx, po); err != nil {
		return err
	}

	if coID := po.SourceCustomerOrderID(); coID != nil {
		co, err := repo.GetCustomerOrder(ctx, *coID)
		if err != nil {
			return err
		}
		return s.createFinalAssemblyOrdersForProduction(ctx, repo, po, co)
	}
	return nil
}

// createFinalAssemblyOrdersForProduction opens one FA order per unit of each
// ordered product, parented to the completed campaign.
func (s *Service) createFinalAssemblyOrdersForProduction(ctx context.Context, repo order.Repository,
	po *order.ProductionOrder, co *order.CustomerOrder) error {
	for _, iq := range co.Items() {
		for unit := 0; unit < iq.Quantity; unit++ {
			number, err := repo.NextNumber(ctx, "FA")
			if err != nil {
				return err
			}
			fa, err := order.NewFinalAssemblyOrderForProduction(number, po.ID(), iq.Item.ID, 1, po.Priority(), s.clock.Now())
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
