package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelfactory/mes/internal/adapters/persistence"
	invapp "github.com/modelfactory/mes/internal/application/inventory"
	"github.com/modelfactory/mes/internal/domain/inventory"
	"github.com/modelfactory/mes/internal/domain/shared"
	"github.com/modelfactory/mes/test/helpers"
)

func newInventoryService(t *testing.T) *invapp.Service {
	db := helpers.NewTestDB(t)
	return invapp.NewService(persistence.NewGormInventoryUnitOfWork(db), nil)
}

func partRef(id int) shared.ItemRef {
	return shared.ItemRef{Type: shared.ItemTypePart, ID: id}
}

func TestAdjust_FirstCreditCreatesRecord(t *testing.T) {
	svc := newInventoryService(t)

	record, err := svc.Adjust(context.Background(), invapp.AdjustRequest{
		WorkstationID: 9,
		Item:          partRef(1),
		Delta:         100,
		Reason:        inventory.ReasonAdjustment,
		Actor:         "tester",
	})

	require.NoError(t, err)
	assert.Equal(t, 100, record.Quantity)
}

func TestAdjust_DebitBelowZeroRejected(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, invapp.AdjustRequest{
		WorkstationID: 9, Item: partRef(1), Delta: 5,
		Reason: inventory.ReasonAdjustment, Actor: "tester",
	})
	require.NoError(t, err)

	_, err = svc.Adjust(ctx, invapp.AdjustRequest{
		WorkstationID: 9, Item: partRef(1), Delta: -6,
		Reason: inventory.ReasonConsumption, Actor: "tester",
	})

	var validation *inventory.ErrValidation
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "INVENTORY_VALIDATION_ERROR", validation.ErrorCode())

	// The failed debit left no ledger entry behind
	entries, err := svc.ListLedger(ctx, inventory.LedgerFilter{WorkstationID: 9})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAdjust_DebitAgainstNothingRejected(t *testing.T) {
	svc := newInventoryService(t)

	_, err := svc.Adjust(context.Background(), invapp.AdjustRequest{
		WorkstationID: 8,
		Item:          shared.ItemRef{Type: shared.ItemTypeModule, ID: 1},
		Delta:         -1,
		Reason:        inventory.ReasonConsumption,
		Actor:         "tester",
	})

	var validation *inventory.ErrValidation
	assert.ErrorAs(t, err, &validation)
}

func TestAdjust_ZeroDeltaRejected(t *testing.T) {
	svc := newInventoryService(t)

	_, err := svc.Adjust(context.Background(), invapp.AdjustRequest{
		WorkstationID: 9, Item: partRef(1), Delta: 0,
		Reason: inventory.ReasonAdjustment, Actor: "tester",
	})

	var validation *inventory.ErrValidation
	assert.ErrorAs(t, err, &validation)
}

func TestAdjust_IdempotentReplay(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()

	req := invapp.AdjustRequest{
		WorkstationID:  9,
		Item:           partRef(2),
		Delta:          50,
		Reason:         inventory.ReasonAdjustment,
		Actor:          "tester",
		IdempotencyKey: "adjust-once",
	}

	first, err := svc.Adjust(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 50, first.Quantity)

	// Replay returns the recorded outcome and applies nothing
	second, err := svc.Adjust(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 50, second.Quantity)

	entries, err := svc.ListLedger(ctx, inventory.LedgerFilter{WorkstationID: 9})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAdjustBatch_AtomicOnFailure(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, invapp.AdjustRequest{
		WorkstationID: 9, Item: partRef(1), Delta: 10,
		Reason: inventory.ReasonAdjustment, Actor: "tester",
	})
	require.NoError(t, err)

	// Second leg overdraws, so the whole batch must roll back
	_, err = svc.AdjustBatch(ctx, []invapp.AdjustRequest{
		{WorkstationID: 9, Item: partRef(1), Delta: -5, Reason: inventory.ReasonConsumption, Actor: "tester"},
		{WorkstationID: 9, Item: partRef(3), Delta: -1, Reason: inventory.ReasonConsumption, Actor: "tester"},
	})
	require.Error(t, err)

	records, err := svc.GetStock(ctx, inventory.StockFilter{WorkstationID: 9})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 10, records[0].Quantity)
}

func TestAdjustBatch_MarksReplayedRequests(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()

	req := invapp.AdjustRequest{
		WorkstationID:  9,
		Item:           partRef(4),
		Delta:          7,
		Reason:         inventory.ReasonAdjustment,
		Actor:          "tester",
		IdempotencyKey: "batch-once",
	}

	first, err := svc.AdjustBatch(ctx, []invapp.AdjustRequest{req})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.False(t, first[0].Replayed)

	second, err := svc.AdjustBatch(ctx, []invapp.AdjustRequest{req})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.True(t, second[0].Replayed)
	assert.Equal(t, 7, second[0].Record.Quantity)
}

func TestRevert_ClearsKeySoRetryApplies(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, invapp.AdjustRequest{
		WorkstationID: 9, Item: partRef(5), Delta: 10,
		Reason: inventory.ReasonAdjustment, Actor: "tester",
	})
	require.NoError(t, err)

	debit := invapp.AdjustRequest{
		WorkstationID:  9,
		Item:           partRef(5),
		Delta:          -4,
		Reason:         inventory.ReasonConsumption,
		Actor:          "tester",
		IdempotencyKey: "debit-once",
	}
	_, err = svc.Adjust(ctx, debit)
	require.NoError(t, err)

	require.NoError(t, svc.Revert(ctx, []invapp.AdjustRequest{debit}))

	records, err := svc.GetStock(ctx, inventory.StockFilter{WorkstationID: 9, ItemID: 5})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 10, records[0].Quantity)

	// The key was cleared, so the same debit applies again instead of replaying
	record, err := svc.Adjust(ctx, debit)
	require.NoError(t, err)
	assert.Equal(t, 6, record.Quantity)

	// Seed, debit, reversal, retried debit: four ledger entries
	entries, err := svc.ListLedger(ctx, inventory.LedgerFilter{WorkstationID: 9, ItemID: 5})
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestAdjust_ConcurrentDebitsNeverOversell(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, invapp.AdjustRequest{
		WorkstationID: 7,
		Item:          shared.ItemRef{Type: shared.ItemTypeProduct, ID: 1},
		Delta:         10,
		Reason:        inventory.ReasonAdjustment,
		Actor:         "tester",
	})
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	succeeded := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Adjust(ctx, invapp.AdjustRequest{
				WorkstationID: 7,
				Item:          shared.ItemRef{Type: shared.ItemTypeProduct, ID: 1},
				Delta:         -1,
				Reason:        inventory.ReasonFulfillment,
				Actor:         "tester",
			})
			if err == nil {
				succeeded <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(succeeded)

	wins := 0
	for range succeeded {
		wins++
	}
	assert.Equal(t, 10, wins)

	records, err := svc.GetStock(ctx, inventory.StockFilter{WorkstationID: 7})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 0, records[0].Quantity)

	// Ledger deltas sum to the final quantity
	entries, err := svc.ListLedger(ctx, inventory.LedgerFilter{WorkstationID: 7})
	require.NoError(t, err)
	sum := 0
	for _, e := range entries {
		sum += e.Delta()
	}
	assert.Equal(t, 0, sum)
}

func TestAvailability_MissingKeysAreZero(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()

	item := shared.ItemRef{Type: shared.ItemTypeModule, ID: 3}
	available, err := svc.Availability(ctx, 8, []shared.ItemRef{item})

	require.NoError(t, err)
	assert.Equal(t, 0, available[item])
}

func TestListAlerts_GroupsByWorkstation(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()

	for _, seedReq := range []invapp.AdjustRequest{
		{WorkstationID: 7, Item: shared.ItemRef{Type: shared.ItemTypeProduct, ID: 1}, Delta: 2, Reason: inventory.ReasonAdjustment, Actor: "tester"},
		{WorkstationID: 8, Item: shared.ItemRef{Type: shared.ItemTypeModule, ID: 1}, Delta: 5, Reason: inventory.ReasonAdjustment, Actor: "tester"},
		{WorkstationID: 8, Item: shared.ItemRef{Type: shared.ItemTypeModule, ID: 2}, Delta: 50, Reason: inventory.ReasonAdjustment, Actor: "tester"},
	} {
		_, err := svc.Adjust(ctx, seedReq)
		require.NoError(t, err)
	}

	alerts, err := svc.ListAlerts(ctx, 10)

	require.NoError(t, err)
	assert.Len(t, alerts[7], 1)
	assert.Len(t, alerts[8], 1)
	assert.Equal(t, 5, alerts[8][0].Quantity)
}
