package steps

import (
	"context"
	"errors"
	"fmt"

	"github.com/cucumber/godog"

	invapp "github.com/modelfactory/mes/internal/application/inventory"
	ordersapp "github.com/modelfactory/mes/internal/application/orders"
	"github.com/modelfactory/mes/internal/domain/inventory"
	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
	"github.com/modelfactory/mes/test/helpers"
)

type orderFulfillmentContext struct {
	stack *helpers.Stack

	customerOrder   *order.CustomerOrder
	warehouseOrder  *order.WarehouseOrder
	productionOrder *order.ProductionOrder
	fulfillErr      error
}

func (c *orderFulfillmentContext) reset() {
	if c.stack != nil {
		c.stack.Close()
	}
	c.stack = nil
	c.customerOrder = nil
	c.warehouseOrder = nil
	c.productionOrder = nil
	c.fulfillErr = nil
}

func (c *orderFulfillmentContext) theDemoFactoryIsSeeded() error {
	stack, err := helpers.NewSuiteStack()
	if err != nil {
		return err
	}
	if err := stack.SeedData(context.Background()); err != nil {
		stack.Close()
		return err
	}
	c.stack = stack
	return nil
}

// drainStock debits a workstation down to the given remainder
func (c *orderFulfillmentContext) drainStock(workstationID int, item shared.ItemRef, keep int) error {
	ctx := context.Background()
	quantities, err := c.stack.Inventory.Availability(ctx, workstationID, []shared.ItemRef{item})
	if err != nil {
		return err
	}
	current := quantities[item]
	if current <= keep {
		return nil
	}
	_, err = c.stack.Inventory.Adjust(ctx, invapp.AdjustRequest{
		WorkstationID: workstationID,
		Item:          item,
		Delta:         keep - current,
		Reason:        inventory.ReasonAdjustment,
		Actor:         "scenario-setup",
	})
	return err
}

func (c *orderFulfillmentContext) stockAt(workstationID int, item shared.ItemRef) (int, error) {
	quantities, err := c.stack.Inventory.Availability(context.Background(), workstationID, []shared.ItemRef{item})
	if err != nil {
		return 0, err
	}
	return quantities[item], nil
}

// Setup steps

func (c *orderFulfillmentContext) plantStockDrainedTo(productID, keep int) error {
	return c.drainStock(shared.WorkstationPlantWarehouse, shared.ItemRef{Type: shared.ItemTypeProduct, ID: productID}, keep)
}

func (c *orderFulfillmentContext) supermarketStockDrainedTo(moduleID, keep int) error {
	return c.drainStock(shared.WorkstationModulesSupermarket, shared.ItemRef{Type: shared.ItemTypeModule, ID: moduleID}, keep)
}

func (c *orderFulfillmentContext) lotSizeThresholdIsSetTo(value int) error {
	return c.stack.Config.SetLotSizeThreshold(context.Background(), value)
}

// Action steps

func (c *orderFulfillmentContext) iPlaceACustomerOrder(quantity, productID int) error {
	co, err := c.stack.Orders.CreateCustomerOrder(context.Background(), ordersapp.CreateCustomerOrderInput{
		Items: []ordersapp.OrderItemInput{{ProductID: productID, Quantity: quantity}},
	})
	if err != nil {
		return err
	}
	c.customerOrder = co
	return nil
}

func (c *orderFulfillmentContext) iConfirmTheCustomerOrder() error {
	co, err := c.stack.Orders.ConfirmCustomerOrder(context.Background(), c.customerOrder.ID())
	if err != nil {
		return err
	}
	c.customerOrder = co
	return nil
}

func (c *orderFulfillmentContext) iFulfillTheCustomerOrder() error {
	if err := c.iAttemptToFulfillTheCustomerOrder(); err != nil {
		return err
	}
	return c.fulfillErr
}

func (c *orderFulfillmentContext) iAttemptToFulfillTheCustomerOrder() error {
	result, err := c.stack.Orders.FulfillCustomerOrder(context.Background(), c.customerOrder.ID(), "planner")
	c.fulfillErr = err
	if err != nil {
		return nil
	}
	c.customerOrder = result.CustomerOrder
	c.warehouseOrder = result.WarehouseOrder
	c.productionOrder = result.ProductionOrder
	return nil
}

func (c *orderFulfillmentContext) iConfirmTheWarehouseOrder() error {
	if c.warehouseOrder == nil {
		return fmt.Errorf("no warehouse order was raised")
	}
	wo, err := c.stack.Orders.ConfirmWarehouseOrder(context.Background(), c.warehouseOrder.ID())
	if err != nil {
		return err
	}
	c.warehouseOrder = wo
	return nil
}

func (c *orderFulfillmentContext) iFulfillTheWarehouseOrder() error {
	wo, err := c.stack.Orders.FulfillWarehouseOrder(context.Background(), c.warehouseOrder.ID(), "ws8-operator")
	if err != nil {
		return err
	}
	c.warehouseOrder = wo
	return nil
}

func (c *orderFulfillmentContext) fulfillingTheWarehouseOrderShouldBeRefused() error {
	_, err := c.stack.Orders.FulfillWarehouseOrder(context.Background(), c.warehouseOrder.ID(), "ws8-operator")
	var invalidOp *order.ErrInvalidOperation
	if !errors.As(err, &invalidOp) {
		return fmt.Errorf("expected the fulfillment to be refused, got %v", err)
	}
	return nil
}

func (c *orderFulfillmentContext) iOrderProductionFromTheWarehouseOrder() error {
	po, err := c.stack.Orders.OrderProductionFromWarehouse(context.Background(), c.warehouseOrder.ID())
	if err != nil {
		return err
	}
	c.productionOrder = po
	return nil
}

// runControlOrder drives one control order from PENDING to COMPLETED:
// dispatch, fulfill the supply, then walk the workstation order ladder.
func (c *orderFulfillmentContext) runControlOrder(controlOrderID int) error {
	ctx := context.Background()

	if _, err := c.stack.Orders.DispatchControlOrder(ctx, controlOrderID); err != nil {
		return err
	}

	supplies, err := c.stack.Orders.FindSupplyOrdersByControl(ctx, controlOrderID)
	if err != nil {
		return err
	}
	for _, so := range supplies {
		if _, err := c.stack.Orders.FulfillSupplyOrder(ctx, so.ID(), "ws9-operator"); err != nil {
			return err
		}
	}

	workOrders, err := c.stack.Orders.FindWorkstationOrdersByControl(ctx, controlOrderID)
	if err != nil {
		return err
	}
	if len(workOrders) != 1 {
		return fmt.Errorf("expected one workstation order for control order %d, got %d", controlOrderID, len(workOrders))
	}
	wso := workOrders[0]

	if _, err := c.stack.Orders.ConfirmWorkstationOrder(ctx, wso.ID()); err != nil {
		return err
	}
	if _, err := c.stack.Orders.StartWorkstationOrder(ctx, wso.ID()); err != nil {
		return err
	}
	if wso.Kind().IsAssembly() {
		if _, err := c.stack.Orders.CompleteWorkstationOrderAssembly(ctx, wso.ID()); err != nil {
			return err
		}
	}
	_, err = c.stack.Orders.CompleteWorkstationOrder(ctx, wso.ID(), "operator")
	return err
}

func (c *orderFulfillmentContext) iRunEveryControlOrderToCompletion() error {
	controls, err := c.stack.Orders.FindControlOrdersByProduction(context.Background(), c.productionOrder.ID())
	if err != nil {
		return err
	}
	for _, ctrl := range controls {
		if err := c.runControlOrder(ctrl.ID()); err != nil {
			return err
		}
	}
	return nil
}

func (c *orderFulfillmentContext) iRunEveryFinalAssemblyOrderToCompletion() error {
	ctx := context.Background()
	fas, err := c.stack.Orders.ListFinalAssemblyOrders(ctx, order.ListFilter{})
	if err != nil {
		return err
	}
	for _, fa := range fas {
		if _, err := c.stack.Orders.ConfirmFinalAssemblyOrder(ctx, fa.ID()); err != nil {
			return err
		}
		if _, err := c.stack.Orders.StartFinalAssemblyOrder(ctx, fa.ID()); err != nil {
			return err
		}
		if _, err := c.stack.Orders.CompleteFinalAssemblyOrderAssembly(ctx, fa.ID()); err != nil {
			return err
		}
		if _, err := c.stack.Orders.SubmitFinalAssemblyOrder(ctx, fa.ID(), "ws6-operator"); err != nil {
			return err
		}
	}
	return nil
}

// Assertion steps

func (c *orderFulfillmentContext) theCustomerOrderTriggerScenarioShouldBe(expected string) error {
	if string(c.customerOrder.TriggerScenario()) != expected {
		return fmt.Errorf("expected trigger scenario %s, got %s", expected, c.customerOrder.TriggerScenario())
	}
	return nil
}

func (c *orderFulfillmentContext) theWarehouseOrderTriggerScenarioShouldBe(expected string) error {
	if string(c.warehouseOrder.TriggerScenario()) != expected {
		return fmt.Errorf("expected trigger scenario %s, got %s", expected, c.warehouseOrder.TriggerScenario())
	}
	return nil
}

func (c *orderFulfillmentContext) theCustomerOrderShouldBe(expected string) error {
	co, err := c.stack.Orders.GetCustomerOrder(context.Background(), c.customerOrder.ID())
	if err != nil {
		return err
	}
	c.customerOrder = co
	if string(co.Status()) != expected {
		return fmt.Errorf("expected customer order status %s, got %s", expected, co.Status())
	}
	return nil
}

func (c *orderFulfillmentContext) theWarehouseOrderShouldBe(expected string) error {
	wo, err := c.stack.Orders.GetWarehouseOrder(context.Background(), c.warehouseOrder.ID())
	if err != nil {
		return err
	}
	c.warehouseOrder = wo
	if string(wo.Status()) != expected {
		return fmt.Errorf("expected warehouse order status %s, got %s", expected, wo.Status())
	}
	return nil
}

func (c *orderFulfillmentContext) theProductionOrderShouldBe(expected string) error {
	po, err := c.stack.Orders.GetProductionOrder(context.Background(), c.productionOrder.ID())
	if err != nil {
		return err
	}
	c.productionOrder = po
	if string(po.Status()) != expected {
		return fmt.Errorf("expected production order status %s, got %s", expected, po.Status())
	}
	return nil
}

func (c *orderFulfillmentContext) theFulfillmentShouldFailWithInsufficientStock() error {
	var short *order.ErrInsufficientStock
	if !errors.As(c.fulfillErr, &short) {
		return fmt.Errorf("expected an insufficient stock failure, got %v", c.fulfillErr)
	}
	return nil
}

func (c *orderFulfillmentContext) aWarehouseOrderShouldBeRaisedWithModuleLines(lines int) error {
	if c.warehouseOrder == nil {
		return fmt.Errorf("no warehouse order was raised")
	}
	if len(c.warehouseOrder.Items()) != lines {
		return fmt.Errorf("expected %d module lines, got %d", lines, len(c.warehouseOrder.Items()))
	}
	for _, iq := range c.warehouseOrder.Items() {
		if iq.Item.Type != shared.ItemTypeModule {
			return fmt.Errorf("expected only module lines, got %s", iq.Item.Type)
		}
	}
	return nil
}

func (c *orderFulfillmentContext) aProductionOrderShouldBeScheduledWithControlOrders(count int) error {
	if c.productionOrder == nil {
		return fmt.Errorf("no production order was raised")
	}
	if c.productionOrder.Status() != order.StatusScheduled {
		return fmt.Errorf("expected a scheduled production order, got %s", c.productionOrder.Status())
	}
	controls, err := c.stack.Orders.FindControlOrdersByProduction(context.Background(), c.productionOrder.ID())
	if err != nil {
		return err
	}
	if len(controls) != count {
		return fmt.Errorf("expected %d control orders, got %d", count, len(controls))
	}
	return nil
}

func (c *orderFulfillmentContext) theWarehouseOrderShouldBypassTheStockCheck() error {
	wo, err := c.stack.Orders.GetWarehouseOrder(context.Background(), c.warehouseOrder.ID())
	if err != nil {
		return err
	}
	c.warehouseOrder = wo
	if !wo.StockCheckBypassed() {
		return fmt.Errorf("expected the stock check to be bypassed")
	}
	return nil
}

func (c *orderFulfillmentContext) thereShouldBeFinalAssemblyOrders(count int) error {
	fas, err := c.stack.Orders.ListFinalAssemblyOrders(context.Background(), order.ListFilter{})
	if err != nil {
		return err
	}
	if len(fas) != count {
		return fmt.Errorf("expected %d final assembly orders, got %d", count, len(fas))
	}
	return nil
}

func (c *orderFulfillmentContext) thePlantWarehouseShouldHold(quantity, productID int) error {
	got, err := c.stockAt(shared.WorkstationPlantWarehouse, shared.ItemRef{Type: shared.ItemTypeProduct, ID: productID})
	if err != nil {
		return err
	}
	if got != quantity {
		return fmt.Errorf("expected %d units of product %d at the plant warehouse, got %d", quantity, productID, got)
	}
	return nil
}

func (c *orderFulfillmentContext) theSupermarketShouldHold(quantity, moduleID int) error {
	got, err := c.stockAt(shared.WorkstationModulesSupermarket, shared.ItemRef{Type: shared.ItemTypeModule, ID: moduleID})
	if err != nil {
		return err
	}
	if got != quantity {
		return fmt.Errorf("expected %d units of module %d at the modules supermarket, got %d", quantity, moduleID, got)
	}
	return nil
}

// InitializeOrderFulfillmentScenario registers the customer order
// fulfillment step definitions
func InitializeOrderFulfillmentScenario(sc *godog.ScenarioContext) {
	ctx := &orderFulfillmentContext{}

	sc.Before(func(gCtx context.Context, _ *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return gCtx, nil
	})
	sc.After(func(gCtx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		ctx.reset()
		return gCtx, nil
	})

	// Setup
	sc.Step(`^the demo factory is seeded$`, ctx.theDemoFactoryIsSeeded)
	sc.Step(`^the plant warehouse stock of product (\d+) is drained to (\d+)$`, ctx.plantStockDrainedTo)
	sc.Step(`^the modules supermarket stock of module (\d+) is drained to (\d+)$`, ctx.supermarketStockDrainedTo)
	sc.Step(`^the lot size threshold is set to (\d+)$`, ctx.lotSizeThresholdIsSetTo)

	// Actions
	sc.Step(`^I place a customer order for (\d+) units of product (\d+)$`, ctx.iPlaceACustomerOrder)
	sc.Step(`^I confirm the customer order$`, ctx.iConfirmTheCustomerOrder)
	sc.Step(`^I fulfill the customer order$`, ctx.iFulfillTheCustomerOrder)
	sc.Step(`^I attempt to fulfill the customer order$`, ctx.iAttemptToFulfillTheCustomerOrder)
	sc.Step(`^I confirm the warehouse order$`, ctx.iConfirmTheWarehouseOrder)
	sc.Step(`^I fulfill the warehouse order$`, ctx.iFulfillTheWarehouseOrder)
	sc.Step(`^fulfilling the warehouse order should be refused$`, ctx.fulfillingTheWarehouseOrderShouldBeRefused)
	sc.Step(`^I order production from the warehouse order$`, ctx.iOrderProductionFromTheWarehouseOrder)
	sc.Step(`^I run every control order to completion$`, ctx.iRunEveryControlOrderToCompletion)
	sc.Step(`^I run every final assembly order to completion$`, ctx.iRunEveryFinalAssemblyOrderToCompletion)

	// Assertions
	sc.Step(`^the customer order trigger scenario should be "([^"]*)"$`, ctx.theCustomerOrderTriggerScenarioShouldBe)
	sc.Step(`^the warehouse order trigger scenario should be "([^"]*)"$`, ctx.theWarehouseOrderTriggerScenarioShouldBe)
	sc.Step(`^the customer order should be "([^"]*)"$`, ctx.theCustomerOrderShouldBe)
	sc.Step(`^the warehouse order should be "([^"]*)"$`, ctx.theWarehouseOrderShouldBe)
	sc.Step(`^the production order should be "([^"]*)"$`, ctx.theProductionOrderShouldBe)
	sc.Step(`^the fulfillment attempt should fail with insufficient stock$`, ctx.theFulfillmentShouldFailWithInsufficientStock)
	sc.Step(`^a warehouse order should be raised with (\d+) module lines$`, ctx.aWarehouseOrderShouldBeRaisedWithModuleLines)
	sc.Step(`^a production order should be scheduled with (\d+) control orders$`, ctx.aProductionOrderShouldBeScheduledWithControlOrders)
	sc.Step(`^the warehouse order should bypass the stock check$`, ctx.theWarehouseOrderShouldBypassTheStockCheck)
	sc.Step(`^there should be (\d+) final assembly orders$`, ctx.thereShouldBeFinalAssemblyOrders)
	sc.Step(`^the plant warehouse should hold (\d+) units? of product (\d+)$`, ctx.thePlantWarehouseShouldHold)
	sc.Step(`^the modules supermarket should hold (\d+) units? of module (\d+)$`, ctx.theSupermarketShouldHold)
}
