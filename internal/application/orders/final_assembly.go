package orders

import (
	"context"
	"time"

	invapp "github.com/modelfactory/mes/internal/application/inventory"
	"github.com/modelfactory/mes/internal/domain/inventory"
	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
)

// ConfirmFinalAssemblyOrder moves an FA order to CONFIRMED
func (s *Service) ConfirmFinalAssemblyOrder(ctx context.Context, id int) (*order.FinalAssemblyOrder, error) {
	return s.transitionFinalAssembly(ctx, id, (*order.FinalAssemblyOrder).Confirm)
}

// StartFinalAssemblyOrder moves an FA order to IN_PROGRESS
func (s *Service) StartFinalAssemblyOrder(ctx context.Context, id int) (*order.FinalAssemblyOrder, error) {
	return s.transitionFinalAssembly(ctx, id, (*order.FinalAssemblyOrder).Start)
}

// CompleteFinalAssemblyOrderAssembly records assembly completion; the
// finished product is not in the warehouse until submission.
func (s *Service) CompleteFinalAssemblyOrderAssembly(ctx context.Context, id int) (*order.FinalAssemblyOrder, error) {
	return s.transitionFinalAssembly(ctx, id, (*order.FinalAssemblyOrder).CompleteAssembly)
}

func (s *Service) transitionFinalAssembly(ctx context.Context, id int,
	transition func(*order.FinalAssemblyOrder, time.Time) error) (*order.FinalAssemblyOrder, error) {
	var fa *order.FinalAssemblyOrder
	err := s.uow.InTransaction(ctx, func(repo order.Repository) error {
		var err error
		fa, err = repo.GetFinalAssemblyOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := transition(fa, s.clock.Now()); err != nil {
			return err
		}
		return repo.SaveFinalAssemblyOrder(ctx, fa)
	})
	if err != nil {
		return nil, err
	}
	return fa, nil
}

// SubmitFinalAssemblyOrder closes an FA order and credits the plant warehouse
// with the finished product. Direct-production FAs debit the modules their
// unit consumed from the supermarket in the same batch. When the last FA of a
// customer order lands, the order closes after the final fulfillment debit.
func (s *Service) SubmitFinalAssemblyOrder(ctx context.Context, id int, actor string) (*order.FinalAssemblyOrder, error) {
	fa, err := s.getFinalAssemblyOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if fa.Status() != order.StatusCompletedAssembly {
		return nil, &order.ErrInvalidState{Number: fa.Number(), Current: fa.Status(), Attempted: order.StatusCompleted}
	}

	adjustments, err := s.submissionAdjustments(ctx, fa, actor)
	if err != nil {
		return nil, err
	}
	applied, err := s.applyAdjustments(ctx, adjustments)
	if err != nil {
		return nil, err
	}

	var closeCustomerOrderID int
	err = s.uow.InTransaction(ctx, func(repo order.Repository) error {
		fresh, err := repo.GetFinalAssemblyOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := fresh.Submit(s.clock.Now()); err != nil {
			return err
		}
		if err := repo.SaveFinalAssemblyOrder(ctx, fresh); err != nil {
			return err
		}
		fa = fresh

		closeCustomerOrderID, err = s.customerOrderReadyToClose(ctx, repo, fresh)
		return err
	})
	if err != nil {
		return nil, s.compensate(ctx, err, applied)
	}

	if closeCustomerOrderID != 0 {
		if err := s.closeCustomerOrder(ctx, closeCustomerOrderID, actor); err != nil {
			return nil, err
		}
	}
	return fa, nil
}

// submissionAdjustments builds the movements of one FA submission: credit
// WS-7 with the finished product, and for direct production also debit the
// supermarket for the module set of the assembled unit.
func (s *Service) submissionAdjustments(ctx context.Context, fa *order.FinalAssemblyOrder, actor string) ([]invapp.AdjustRequest, error) {
	output := shared.ItemQuantity{Item: fa.OutputItem(), Quantity: fa.OutputQuantity()}
	reqs := []invapp.AdjustRequest{
		adjustment(order.TypeFinalAssembly, fa.ID(), "submit", shared.WorkstationPlantWarehouse,
			output, output.Quantity, inventory.ReasonProduction, actor),
	}

	if fa.ProductionOrderID() != nil {
		modules, err := s.resolver.ExpandProduct(ctx, fa.OutputProductID(), fa.OutputQuantity())
		if err != nil {
			return nil, err
		}
		for _, iq := range modules {
			reqs = append(reqs, adjustment(order.TypeFinalAssembly, fa.ID(), "consume", shared.WorkstationModulesSupermarket,
				iq, -iq.Quantity, inventory.ReasonConsumption, actor))
		}
	}
	return reqs, nil
}

// customerOrderReadyToClose reports which customer order can close now that
// this FA was submitted: the one whose sibling FAs are all COMPLETED. Zero
// means nothing closes yet.
func (s *Service) customerOrderReadyToClose(ctx context.Context, repo order.Repository, fa *order.FinalAssemblyOrder) (int, error) {
	var siblings []*order.FinalAssemblyOrder
	var customerOrderID int

	switch {
	case fa.WarehouseOrderID() != nil:
		wo, err := repo.GetWarehouseOrder(ctx, *fa.WarehouseOrderID())
		if err != nil {
			return 0, err
		}
		customerOrderID = wo.CustomerOrderID()
		siblings, err = repo.FindFinalAssemblyOrdersByWarehouse(ctx, wo.ID())
		if err != nil {
			return 0, err
		}
	case fa.ProductionOrderID() != nil:
		po, err := repo.GetProductionOrder(ctx, *fa.ProductionOrderID())
		if err != nil {
			return 0, err
		}
		if po.SourceCustomerOrderID() == nil {
			return 0, nil
		}
		customerOrderID = *po.SourceCustomerOrderID()
		siblings, err = repo.FindFinalAssemblyOrdersByProduction(ctx, po.ID())
		if err != nil {
			return 0, err
		}
	default:
		return 0, nil
	}

	for _, sib := range siblings {
		if sib.Status() != order.StatusCompleted {
			return 0, nil
		}
	}
	return customerOrderID, nil
}

// retryCloseCustomerOrder re-runs the closing debit for a PROCESSING
// customer order once every final assembly under it is COMPLETED.
func (s *Service) retryCloseCustomerOrder(ctx context.Context, co *order.CustomerOrder, actor string) (*FulfillmentResult, error) {
	var ready bool
	err := s.read(ctx, func(repo order.Repository) error {
		var err error
		ready, err = s.finalAssembliesCompleted(ctx, repo, co.ID())
		return err
	})
	if err != nil {
		return nil, err
	}
	if !ready {
		return nil, &order.ErrInvalidOperation{Number: co.Number(), Reason: "final assembly is still in progress"}
	}
	if err := s.closeCustomerOrder(ctx, co.ID(), actor); err != nil {
		return nil, err
	}
	co, err = s.getCustomerOrder(ctx, co.ID())
	if err != nil {
		return nil, err
	}
	return &FulfillmentResult{CustomerOrder: co}, nil
}

// finalAssembliesCompleted reports whether the customer order has final
// assembly orders and all of them are COMPLETED, across both the warehouse
// and the direct-production parentage.
func (s *Service) finalAssembliesCompleted(ctx context.Context, repo order.Repository, customerOrderID int) (bool, error) {
	var fas []*order.FinalAssemblyOrder

	wos, err := repo.FindWarehouseOrdersByCustomer(ctx, customerOrderID)
	if err != nil {
		return false, err
	}
	for _, wo := range wos {
		batch, err := repo.FindFinalAssemblyOrdersByWarehouse(ctx, wo.ID())
		if err != nil {
			return false, err
		}
		fas = append(fas, batch...)
	}

	pos, err := repo.FindProductionOrdersByCustomer(ctx, customerOrderID)
	if err != nil {
		return false, err
	}
	for _, po := range pos {
		batch, err := repo.FindFinalAssemblyOrdersByProduction(ctx, po.ID())
		if err != nil {
			return false, err
		}
		fas = append(fas, batch...)
	}

	if len(fas) == 0 {
		return false, nil
	}
	for _, fa := range fas {
		if fa.Status() != order.StatusCompleted {
			return false, nil
		}
	}
	return true, nil
}

// closeCustomerOrder applies the final fulfillment debit from the plant
// warehouse and completes the customer order. The debit is idempotent per
// item, so two FAs racing to close the same order debit exactly once.
func (s *Service) closeCustomerOrder(ctx context.Context, customerOrderID int, actor string) error {
	co, err := s.getCustomerOrder(ctx, customerOrderID)
	if err != nil {
		return err
	}
	if co.Status() == order.StatusCompleted {
		return nil
	}

	debits := debitRequests(order.TypeCustomer, co.ID(), "close", shared.WorkstationPlantWarehouse,
		co.Items(), inventory.ReasonFulfillment, actor)
	applied, err := s.applyAdjustments(ctx, debits)
	if err != nil {
		return err
	}

	err = s.uow.InTransaction(ctx, func(repo order.Repository) error {
		fresh, err := repo.GetCustomerOrderForUpdate(ctx, customerOrderID)
		if err != nil {
			return err
		}
		if fresh.Status() == order.StatusCompleted {
			return nil
		}
		if err := fresh.Complete(s.clock.Now()); err != nil {
			return err
		}
		return repo.SaveCustomerOrder(ctx, fresh)
	})
	if err != nil {
		return s.compensate(ctx, err, applied)
	}
	return nil
}
