package steps

import (
	"context"
	"errors"
	"fmt"

	"github.com/cucumber/godog"

	ordersapp "github.com/modelfactory/mes/internal/application/orders"
	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
	"github.com/modelfactory/mes/test/helpers"
)

type productionExecutionContext struct {
	stack *helpers.Stack

	productionOrder *order.ProductionOrder
	controls        []*order.ControlOrder
	current         *order.ControlOrder
	supplies        []*order.SupplyOrder
}

func (c *productionExecutionContext) reset() {
	if c.stack != nil {
		c.stack.Close()
	}
	c.stack = nil
	c.productionOrder = nil
	c.controls = nil
	c.current = nil
	c.supplies = nil
}

func (c *productionExecutionContext) aScheduledProductionCampaign(quantity, productID int) error {
	stack, err := helpers.NewSuiteStack()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := stack.SeedData(ctx); err != nil {
		stack.Close()
		return err
	}
	c.stack = stack

	co, err := stack.Orders.CreateCustomerOrder(ctx, ordersapp.CreateCustomerOrderInput{
		Items: []ordersapp.OrderItemInput{{ProductID: productID, Quantity: quantity}},
	})
	if err != nil {
		return err
	}
	if _, err := stack.Orders.ConfirmCustomerOrder(ctx, co.ID()); err != nil {
		return err
	}
	result, err := stack.Orders.FulfillCustomerOrder(ctx, co.ID(), "planner")
	if err != nil {
		return err
	}
	if result.ProductionOrder == nil {
		return fmt.Errorf("expected the order to go to production")
	}
	c.productionOrder = result.ProductionOrder

	c.controls, err = stack.Orders.FindControlOrdersByProduction(ctx, c.productionOrder.ID())
	return err
}

func (c *productionExecutionContext) dispatch(ctrl *order.ControlOrder) error {
	c.current = ctrl
	_, err := c.stack.Orders.DispatchControlOrder(context.Background(), ctrl.ID())
	if err != nil {
		return err
	}
	c.supplies, err = c.stack.Orders.FindSupplyOrdersByControl(context.Background(), ctrl.ID())
	return err
}

func (c *productionExecutionContext) theFirstControlOrderIsDispatched() error {
	if len(c.controls) == 0 {
		return fmt.Errorf("no control orders were scheduled")
	}
	return c.dispatch(c.controls[0])
}

func (c *productionExecutionContext) theControlOrderForModuleIsDispatched(moduleID int) error {
	for _, ctrl := range c.controls {
		if ctrl.Item().ID == moduleID {
			return c.dispatch(ctrl)
		}
	}
	return fmt.Errorf("no control order for module %d", moduleID)
}

func (c *productionExecutionContext) currentWorkstationOrder() (*order.WorkstationOrder, error) {
	workOrders, err := c.stack.Orders.FindWorkstationOrdersByControl(context.Background(), c.current.ID())
	if err != nil {
		return nil, err
	}
	if len(workOrders) != 1 {
		return nil, fmt.Errorf("expected one workstation order, got %d", len(workOrders))
	}
	return workOrders[0], nil
}

func (c *productionExecutionContext) confirmingItsWorkstationOrderShouldBeRefused() error {
	wso, err := c.currentWorkstationOrder()
	if err != nil {
		return err
	}
	_, err = c.stack.Orders.ConfirmWorkstationOrder(context.Background(), wso.ID())
	var invalidOp *order.ErrInvalidOperation
	if !errors.As(err, &invalidOp) {
		return fmt.Errorf("expected the confirmation to be refused, got %v", err)
	}
	return nil
}

func (c *productionExecutionContext) itsSupplyOrdersAreFulfilled() error {
	for _, so := range c.supplies {
		if _, err := c.stack.Orders.FulfillSupplyOrder(context.Background(), so.ID(), "ws9-operator"); err != nil {
			return err
		}
	}
	return nil
}

func (c *productionExecutionContext) confirmingItsWorkstationOrderShouldSucceed() error {
	wso, err := c.currentWorkstationOrder()
	if err != nil {
		return err
	}
	_, err = c.stack.Orders.ConfirmWorkstationOrder(context.Background(), wso.ID())
	return err
}

func (c *productionExecutionContext) fulfillingItsSupplyOrderAgainShouldBeRefused() error {
	if len(c.supplies) == 0 {
		return fmt.Errorf("no supply orders were dispatched")
	}
	_, err := c.stack.Orders.FulfillSupplyOrder(context.Background(), c.supplies[0].ID(), "ws9-operator")
	var invalidState *order.ErrInvalidState
	if !errors.As(err, &invalidState) {
		return fmt.Errorf("expected a repeat fulfillment to be refused, got %v", err)
	}
	return nil
}

func (c *productionExecutionContext) thePartsSupplyShouldHold(quantity, partID int) error {
	item := shared.ItemRef{Type: shared.ItemTypePart, ID: partID}
	quantities, err := c.stack.Inventory.Availability(context.Background(), shared.WorkstationPartsSupply, []shared.ItemRef{item})
	if err != nil {
		return err
	}
	if quantities[item] != quantity {
		return fmt.Errorf("expected %d units of part %d at the parts supply, got %d", quantity, partID, quantities[item])
	}
	return nil
}

// InitializeProductionExecutionScenario registers the production execution
// step definitions
func InitializeProductionExecutionScenario(sc *godog.ScenarioContext) {
	ctx := &productionExecutionContext{}

	sc.Before(func(gCtx context.Context, _ *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return gCtx, nil
	})
	sc.After(func(gCtx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		ctx.reset()
		return gCtx, nil
	})

	sc.Step(`^a scheduled production campaign for (\d+) units of product (\d+)$`, ctx.aScheduledProductionCampaign)
	sc.Step(`^the first control order is dispatched$`, ctx.theFirstControlOrderIsDispatched)
	sc.Step(`^the control order for module (\d+) is dispatched$`, ctx.theControlOrderForModuleIsDispatched)
	sc.Step(`^confirming its workstation order should be refused$`, ctx.confirmingItsWorkstationOrderShouldBeRefused)
	sc.Step(`^its supply orders are fulfilled$`, ctx.itsSupplyOrdersAreFulfilled)
	sc.Step(`^confirming its workstation order should succeed$`, ctx.confirmingItsWorkstationOrderShouldSucceed)
	sc.Step(`^fulfilling its supply order again should be refused$`, ctx.fulfillingItsSupplyOrderAgainShouldBeRefused)
	sc.Step(`^the parts supply should hold (\d+) units of part (\d+)$`, ctx.thePartsSupplyShouldHold)
}
