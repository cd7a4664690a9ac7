package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelfactory/mes/internal/domain/inventory"
	"github.com/modelfactory/mes/internal/domain/masterdata"
	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
)

// OrderItemInput is one requested product position
type OrderItemInput struct {
	ProductID int
	Quantity  int
}

// CreateCustomerOrderInput carries everything needed to place a customer order
type CreateCustomerOrderInput struct {
	Items    []OrderItemInput
	Priority shared.Priority
	Notes    string
}

// FulfillmentResult reports what fulfilling a customer order produced
type FulfillmentResult struct {
	CustomerOrder   *order.CustomerOrder
	WarehouseOrder  *order.WarehouseOrder
	ProductionOrder *order.ProductionOrder
}

// CreateCustomerOrder places a new order in PENDING. Every item must resolve
// to a PRODUCT in master data.
func (s *Service) CreateCustomerOrder(ctx context.Context, input CreateCustomerOrderInput) (*order.CustomerOrder, error) {
	if len(input.Items) == 0 {
		return nil, &order.ErrValidation{Field: "orderItems", Reason: "at least one item is required"}
	}

	items := make([]shared.ItemQuantity, 0, len(input.Items))
	for _, in := range input.Items {
		if _, err := s.catalog.GetProduct(ctx, in.ProductID); err != nil {
			var notFound *masterdata.ErrNotFound
			if errors.As(err, &notFound) {
				return nil, &order.ErrValidation{
					Field:  "orderItems",
					Reason: fmt.Sprintf("item %d does not resolve to a product", in.ProductID),
				}
			}
			return nil, err
		}
		if in.Quantity <= 0 {
			return nil, &order.ErrValidation{Field: "orderItems", Reason: "requested quantity must be positive"}
		}
		items = append(items, shared.ItemQuantity{
			Item:     shared.ItemRef{Type: shared.ItemTypeProduct, ID: in.ProductID},
			Quantity: in.Quantity,
		})
	}

	var co *order.CustomerOrder
	err := s.uow.InTransaction(ctx, func(repo order.Repository) error {
		number, err := repo.NextNumber(ctx, "CO")
		if err != nil {
			return err
		}
		co, err = order.NewCustomerOrder(number, items, input.Priority, input.Notes, s.clock.Now())
		if err != nil {
			return err
		}
		return repo.CreateCustomerOrder(ctx, co)
	})
	if err != nil {
		return nil, err
	}
	return co, nil
}

// ConfirmCustomerOrder moves the order to CONFIRMED and pins its trigger
// scenario: direct production at or above the lot-size threshold, direct
// fulfillment when the plant warehouse covers everything, warehouse order
// otherwise.
func (s *Service) ConfirmCustomerOrder(ctx context.Context, id int) (*order.CustomerOrder, error) {
	co, err := s.getCustomerOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	threshold, err := s.config.LotSizeThreshold(ctx)
	if err != nil {
		return nil, err
	}
	refs := itemRefs(co.Items())
	plantStock, err := s.inventory.Availability(ctx, shared.WorkstationPlantWarehouse, refs)
	if err != nil {
		return nil, err
	}
	scenario := SelectCustomerScenario(co.TotalRequested(), threshold, co.Items(), plantStock)

	err = s.uow.InTransaction(ctx, func(repo order.Repository) error {
		co, err = repo.GetCustomerOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := co.Confirm(scenario, s.clock.Now()); err != nil {
			return err
		}
		return repo.SaveCustomerOrder(ctx, co)
	})
	if err != nil {
		return nil, err
	}
	return co, nil
}

// FulfillCustomerOrder executes the scenario chosen at confirmation. For a
// PROCESSING order whose final assemblies have all landed it retries the
// closing debit instead: the close normally runs when the last FA submits,
// and a failure there leaves the order open with the FA already committed.
func (s *Service) FulfillCustomerOrder(ctx context.Context, id int, actor string) (*FulfillmentResult, error) {
	co, err := s.getCustomerOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if co.Status() == order.StatusProcessing {
		return s.retryCloseCustomerOrder(ctx, co, actor)
	}
	if co.Status() != order.StatusConfirmed {
		return nil, &order.ErrInvalidState{Number: co.Number(), Current: co.Status(), Attempted: order.StatusProcessing}
	}

	switch co.TriggerScenario() {
	case order.ScenarioDirectFulfillment:
		return s.fulfillDirect(ctx, co, actor)
	case order.ScenarioWarehouseOrderNeeded:
		return s.fulfillViaWarehouse(ctx, co)
	case order.ScenarioDirectProduction:
		return s.fulfillViaProduction(ctx, co)
	}
	return nil, &order.ErrInvalidOperation{Number: co.Number(), Reason: "order has no trigger scenario; confirm it first"}
}

// fulfillDirect debits the plant warehouse and closes the order. The debit is
// all-or-nothing: a shortfall on any item aborts with no ledger entry behind.
func (s *Service) fulfillDirect(ctx context.Context, co *order.CustomerOrder, actor string) (*FulfillmentResult, error) {
	debits := debitRequests(order.TypeCustomer, co.ID(), "fulfill", shared.WorkstationPlantWarehouse,
		co.Items(), inventory.ReasonFulfillment, actor)
	applied, err := s.applyAdjustments(ctx, debits)
	if err != nil {
		return nil, err
	}

	err = s.uow.InTransaction(ctx, func(repo order.Repository) error {
		fresh, err := repo.GetCustomerOrderForUpdate(ctx, co.ID())
		if err != nil {
			return err
		}
		if err := fresh.Complete(s.clock.Now()); err != nil {
			return err
		}
		co = fresh
		return repo.SaveCustomerOrder(ctx, fresh)
	})
	if err != nil {
		return nil, s.compensate(ctx, err, applied)
	}
	return &FulfillmentResult{CustomerOrder: co}, nil
}

// fulfillViaWarehouse expands the products into modules and opens a warehouse
// order against the modules supermarket.
func (s *Service) fulfillViaWarehouse(ctx context.Context, co *order.CustomerOrder) (*FulfillmentResult, error) {
	modules := make([]shared.ItemQuantity, 0)
	for _, iq := range co.Items() {
		expanded, err := s.resolver.ExpandProduct(ctx, iq.Item.ID, iq.Quantity)
		if err != nil {
			return nil, err
		}
		modules = append(modules, expanded...)
	}
	modules = shared.MergeQuantities(modules)

	var wo *order.WarehouseOrder
	err := s.uow.InTransaction(ctx, func(repo order.Repository) error {
		fresh, err := repo.GetCustomerOrderForUpdate(ctx, co.ID())
		if err != nil {
			return err
		}
		number, err := repo.NextNumber(ctx, "WO")
		if err != nil {
			return err
		}
		wo, err = order.NewWarehouseOrder(number, fresh.ID(), modules, fresh.Priority(), s.clock.Now())
		if err != nil {
			return err
		}
		if err := repo.CreateWarehouseOrder(ctx, wo); err != nil {
			return err
		}
		if err := fresh.MarkProcessing(s.clock.Now()); err != nil {
			return err
		}
		co = fresh
		return repo.SaveCustomerOrder(ctx, fresh)
	})
	if err != nil {
		return nil, err
	}
	return &FulfillmentResult{CustomerOrder: co, WarehouseOrder: wo}, nil
}

// fulfillViaProduction opens a production order sourced from the customer
// order and hands it to the scheduler. A scheduling failure leaves the
// production order PENDING so the operator can retry.
func (s *Service) fulfillViaProduction(ctx context.Context, co *order.CustomerOrder) (*FulfillmentResult, error) {
	var po *order.ProductionOrder
	err := s.uow.InTransaction(ctx, func(repo order.Repository) error {
		fresh, err := repo.GetCustomerOrderForUpdate(ctx, co.ID())
		if err != nil {
			return err
		}
		number, err := repo.NextNumber(ctx, "PO")
		if err != nil {
			return err
		}
		po, err = order.NewProductionOrderForCustomer(number, fresh.ID(), fresh.Priority(), nil, s.clock.Now())
		if err != nil {
			return err
		}
		if err := repo.CreateProductionOrder(ctx, po); err != nil {
			return err
		}
		if err := fresh.MarkProcessing(s.clock.Now()); err != nil {
			return err
		}
		co = fresh
		return repo.SaveCustomerOrder(ctx, fresh)
	})
	if err != nil {
		return nil, err
	}

	po, err = s.ScheduleProduction(ctx, po.ID())
	if err != nil {
		return nil, err
	}
	return &FulfillmentResult{CustomerOrder: co, ProductionOrder: po}, nil
}

// CancelCustomerOrder terminally cancels a PENDING or CONFIRMED order. The
// record is kept for audit; already-produced modules stay in the supermarket.
func (s *Service) CancelCustomerOrder(ctx context.Context, id int) (*order.CustomerOrder, error) {
	var co *order.CustomerOrder
	err := s.uow.InTransaction(ctx, func(repo order.Repository) error {
		var err error
		co, err = repo.GetCustomerOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := co.Cancel(s.clock.Now()); err != nil {
			return err
		}
		return repo.SaveCustomerOrder(ctx, co)
	})
	if err != nil {
		return nil, err
	}
	return co, nil
}

func itemRefs(items []shared.ItemQuantity) []shared.ItemRef {
	refs := make([]shared.ItemRef, 0, len(items))
	for _, iq := range items {
		refs = append(refs, iq.Item)
	}
	return refs
}
