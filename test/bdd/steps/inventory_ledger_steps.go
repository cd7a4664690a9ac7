package steps

import (
	"context"
	"errors"
	"fmt"

	"github.com/cucumber/godog"

	invapp "github.com/modelfactory/mes/internal/application/inventory"
	"github.com/modelfactory/mes/internal/domain/inventory"
	"github.com/modelfactory/mes/internal/domain/shared"
	"github.com/modelfactory/mes/test/helpers"
)

type inventoryLedgerContext struct {
	stack         *helpers.Stack
	workstationID int
	adjustErr     error
}

func (c *inventoryLedgerContext) reset() {
	if c.stack != nil {
		c.stack.Close()
	}
	c.stack = nil
	c.workstationID = 0
	c.adjustErr = nil
}

func (c *inventoryLedgerContext) anEmptyStockLedgerAtWorkstation(workstationID int) error {
	stack, err := helpers.NewSuiteStack()
	if err != nil {
		return err
	}
	c.stack = stack
	c.workstationID = workstationID
	return nil
}

func (c *inventoryLedgerContext) adjust(delta, partID int, idempotencyKey string) error {
	_, err := c.stack.Inventory.Adjust(context.Background(), invapp.AdjustRequest{
		WorkstationID:  c.workstationID,
		Item:           shared.ItemRef{Type: shared.ItemTypePart, ID: partID},
		Delta:          delta,
		Reason:         inventory.ReasonAdjustment,
		Actor:          "ws9-operator",
		IdempotencyKey: idempotencyKey,
	})
	return err
}

func (c *inventoryLedgerContext) iCreditUnitsOfPart(quantity, partID int) error {
	return c.adjust(quantity, partID, "")
}

func (c *inventoryLedgerContext) iCreditUnitsOfPartWithKey(quantity, partID int, key string) error {
	return c.adjust(quantity, partID, key)
}

func (c *inventoryLedgerContext) iAttemptToDebitUnitsOfPart(quantity, partID int) error {
	c.adjustErr = c.adjust(-quantity, partID, "")
	return nil
}

func (c *inventoryLedgerContext) theDebitShouldBeRejected() error {
	var validation *inventory.ErrValidation
	if !errors.As(c.adjustErr, &validation) {
		return fmt.Errorf("expected the debit to be rejected, got %v", c.adjustErr)
	}
	return nil
}

func (c *inventoryLedgerContext) theStockOfPartShouldBe(partID, quantity int) error {
	item := shared.ItemRef{Type: shared.ItemTypePart, ID: partID}
	quantities, err := c.stack.Inventory.Availability(context.Background(), c.workstationID, []shared.ItemRef{item})
	if err != nil {
		return err
	}
	if quantities[item] != quantity {
		return fmt.Errorf("expected %d units of part %d, got %d", quantity, partID, quantities[item])
	}
	return nil
}

func (c *inventoryLedgerContext) theLedgerShouldContainEntriesForPart(count, partID int) error {
	entries, err := c.stack.Inventory.ListLedger(context.Background(), inventory.LedgerFilter{
		WorkstationID: c.workstationID,
		ItemType:      string(shared.ItemTypePart),
		ItemID:        partID,
	})
	if err != nil {
		return err
	}
	if len(entries) != count {
		return fmt.Errorf("expected %d ledger entries for part %d, got %d", count, partID, len(entries))
	}
	return nil
}

// InitializeInventoryLedgerScenario registers the inventory ledger step
// definitions
func InitializeInventoryLedgerScenario(sc *godog.ScenarioContext) {
	ctx := &inventoryLedgerContext{}

	sc.Before(func(gCtx context.Context, _ *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return gCtx, nil
	})
	sc.After(func(gCtx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		ctx.reset()
		return gCtx, nil
	})

	sc.Step(`^an empty stock ledger at workstation (\d+)$`, ctx.anEmptyStockLedgerAtWorkstation)
	sc.Step(`^I credit (\d+) units of part (\d+) with idempotency key "([^"]*)"$`, ctx.iCreditUnitsOfPartWithKey)
	sc.Step(`^I credit (\d+) units of part (\d+)$`, ctx.iCreditUnitsOfPart)
	sc.Step(`^I attempt to debit (\d+) units of part (\d+)$`, ctx.iAttemptToDebitUnitsOfPart)
	sc.Step(`^the debit should be rejected$`, ctx.theDebitShouldBeRejected)
	sc.Step(`^the stock of part (\d+) should be (\d+)$`, ctx.theStockOfPartShouldBe)
	sc.Step(`^the ledger should contain (\d+) entr(?:y|ies) for part (\d+)$`, ctx.theLedgerShouldContainEntriesForPart)
}
