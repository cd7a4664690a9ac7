package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/modelfactory/mes/internal/domain/inventory"
	"github.com/modelfactory/mes/internal/domain/shared"
)

// AdjustRequest is one stock adjustment. Positive delta credits, negative
// delta debits. When IdempotencyKey is set and has been seen before, the
// prior outcome is returned unchanged and nothing is written.
type AdjustRequest struct {
	WorkstationID  int
	Item           shared.ItemRef
	Delta          int
	Reason         inventory.Reason
	RefOrderType   string
	RefOrderID     int
	Actor          string
	IdempotencyKey string
}

func (r AdjustRequest) key() inventory.StockKey {
	return inventory.StockKey{WorkstationID: r.WorkstationID, Item: r.Item}
}

// Service is the inventory ledger: authoritative per-workstation stock with
// an append-only audit trail. Each stock key is one consistency domain;
// adjustments on the same key serialize through a per-key mutex on top of
// the row lock, adjustments on different keys run in parallel.
type Service struct {
	uow   inventory.UnitOfWork
	clock shared.Clock

	mu    sync.Mutex
	locks map[inventory.StockKey]*sync.Mutex
}

// NewService creates the inventory service
func NewService(uow inventory.UnitOfWork, clock shared.Clock) *Service {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Service{
		uow:   uow,
		clock: clock,
		locks: make(map[inventory.StockKey]*sync.Mutex),
	}
}

func (s *Service) lockFor(key inventory.StockKey) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// Adjustment is the outcome of one request in a batch. Replayed marks
// requests whose idempotency key had already been seen: the recorded result
// was returned and no stock moved in this call.
type Adjustment struct {
	Record   *inventory.StockRecord
	Replayed bool
}

// Adjust applies a single stock movement and appends exactly one ledger
// entry. A debit that would drive the quantity negative fails with
// INVENTORY_VALIDATION_ERROR and leaves no trace.
func (s *Service) Adjust(ctx context.Context, req AdjustRequest) (*inventory.StockRecord, error) {
	outcomes, err := s.AdjustBatch(ctx, []AdjustRequest{req})
	if err != nil {
		return nil, err
	}
	return outcomes[0].Record, nil
}

// AdjustBatch applies several movements atomically: either every record is
// updated and every ledger entry appended, or nothing is. Keys are locked in
// sorted order so concurrent batches cannot deadlock.
func (s *Service) AdjustBatch(ctx context.Context, reqs []AdjustRequest) ([]Adjustment, error) {
	if len(reqs) == 0 {
		return nil, &inventory.ErrValidation{Field: "adjustments", Reason: "at least one adjustment is required"}
	}
	for _, req := range reqs {
		if req.Delta == 0 {
			return nil, &inventory.ErrValidation{Field: "delta", Reason: "delta cannot be zero"}
		}
		if !req.Reason.IsValid() {
			return nil, &inventory.ErrValidation{Field: "reasonCode", Reason: fmt.Sprintf("unknown reason %q", req.Reason)}
		}
		if req.WorkstationID < 1 || req.WorkstationID > shared.WorkstationCount {
			return nil, &inventory.ErrValidation{Field: "workstationId", Reason: fmt.Sprintf("unknown workstation %d", req.WorkstationID)}
		}
		if !req.Item.Type.IsValid() {
			return nil, &inventory.ErrValidation{Field: "itemType", Reason: fmt.Sprintf("unknown item type %q", req.Item.Type)}
		}
	}

	for _, l := range s.acquireLocks(reqs) {
		defer l.Unlock()
	}

	results := make([]Adjustment, len(reqs))
	err := s.uow.InTransaction(ctx, func(stocks inventory.StockRepository, ledger inventory.LedgerRepository, idem inventory.IdempotencyRepository) error {
		for i, req := range reqs {
			record, replayed, err := s.applyOne(ctx, req, stocks, ledger, idem)
			if err != nil {
				return err
			}
			results[i] = Adjustment{Record: record, Replayed: replayed}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Revert reverses movements that AdjustBatch applied, as one atomic batch of
// opposite-delta movements, and clears their idempotency keys so a genuine
// retry of the same logical adjustment applies again. Reversal entries carry
// no key of their own. Callers pass the original requests, not negated ones.
func (s *Service) Revert(ctx context.Context, reqs []AdjustRequest) error {
	if len(reqs) == 0 {
		return nil
	}

	for _, l := range s.acquireLocks(reqs) {
		defer l.Unlock()
	}

	return s.uow.InTransaction(ctx, func(stocks inventory.StockRepository, ledger inventory.LedgerRepository, idem inventory.IdempotencyRepository) error {
		for _, req := range reqs {
			reversal := req
			reversal.Delta = -req.Delta
			reversal.Reason = inventory.ReasonAdjustment
			reversal.IdempotencyKey = ""
			if _, _, err := s.applyOne(ctx, reversal, stocks, ledger, idem); err != nil {
				return err
			}
			if req.IdempotencyKey != "" {
				if err := idem.Delete(ctx, req.IdempotencyKey); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// acquireLocks takes the per-key mutexes for a batch in sorted key order
func (s *Service) acquireLocks(reqs []AdjustRequest) []*sync.Mutex {
	keys := make([]inventory.StockKey, 0, len(reqs))
	seen := make(map[inventory.StockKey]bool)
	for _, req := range reqs {
		k := req.key()
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.WorkstationID != b.WorkstationID {
			return a.WorkstationID < b.WorkstationID
		}
		if a.Item.Type != b.Item.Type {
			return a.Item.Type < b.Item.Type
		}
		return a.Item.ID < b.Item.ID
	})

	locks := make([]*sync.Mutex, 0, len(keys))
	for _, k := range keys {
		l := s.lockFor(k)
		l.Lock()
		locks = append(locks, l)
	}
	return locks
}

func (s *Service) applyOne(ctx context.Context, req AdjustRequest,
	stocks inventory.StockRepository, ledger inventory.LedgerRepository, idem inventory.IdempotencyRepository) (*inventory.StockRecord, bool, error) {

	key := req.key()

	if req.IdempotencyKey != "" {
		outcome, err := idem.Get(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, false, fmt.Errorf("failed to check idempotency key: %w", err)
		}
		if outcome != nil {
			// Replay: return the recorded result without touching anything
			record, err := stocks.Get(ctx, key)
			if err != nil {
				return nil, false, fmt.Errorf("failed to load stock for replay: %w", err)
			}
			record.Quantity = outcome.NewQuantity
			return record, true, nil
		}
	}

	record, err := stocks.GetForUpdate(ctx, key)
	if err != nil {
		var notFound *inventory.ErrNotFound
		if !errors.As(err, &notFound) {
			return nil, false, err
		}
		// First credit creates the record; a debit against nothing fails
		record = inventory.NewStockRecord(key, s.clock.Now())
	}

	if err := record.Apply(req.Delta, s.clock.Now()); err != nil {
		return nil, false, err
	}
	if err := stocks.Save(ctx, record); err != nil {
		return nil, false, fmt.Errorf("failed to save stock record: %w", err)
	}

	entry, err := inventory.NewLedgerEntry(key, req.Delta, req.Reason, req.RefOrderType, req.RefOrderID, req.Actor, s.clock.Now())
	if err != nil {
		return nil, false, err
	}
	if err := ledger.Append(ctx, entry); err != nil {
		return nil, false, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	if req.IdempotencyKey != "" {
		outcome := &inventory.IdempotencyOutcome{Key: req.IdempotencyKey, NewQuantity: record.Quantity}
		if err := idem.Put(ctx, outcome); err != nil {
			return nil, false, fmt.Errorf("failed to record idempotency outcome: %w", err)
		}
	}
	return record, false, nil
}

// GetStock lists stock records matching the filter
func (s *Service) GetStock(ctx context.Context, f inventory.StockFilter) ([]*inventory.StockRecord, error) {
	var records []*inventory.StockRecord
	err := s.uow.InTransaction(ctx, func(stocks inventory.StockRepository, _ inventory.LedgerRepository, _ inventory.IdempotencyRepository) error {
		var err error
		records, err = stocks.List(ctx, f)
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Availability returns the quantities for a workstation keyed by item,
// with zero for keys that have never been credited.
func (s *Service) Availability(ctx context.Context, workstationID int, items []shared.ItemRef) (map[shared.ItemRef]int, error) {
	records, err := s.GetStock(ctx, inventory.StockFilter{WorkstationID: workstationID})
	if err != nil {
		return nil, err
	}
	available := make(map[shared.ItemRef]int, len(items))
	for _, item := range items {
		available[item] = 0
	}
	for _, r := range records {
		if _, wanted := available[r.Key.Item]; wanted {
			available[r.Key.Item] = r.Quantity
		}
	}
	return available, nil
}

// ListAlerts returns records at or below the threshold, grouped by workstation
func (s *Service) ListAlerts(ctx context.Context, threshold int) (map[int][]*inventory.StockRecord, error) {
	var records []*inventory.StockRecord
	err := s.uow.InTransaction(ctx, func(stocks inventory.StockRepository, _ inventory.LedgerRepository, _ inventory.IdempotencyRepository) error {
		var err error
		records, err = stocks.ListAtOrBelow(ctx, threshold)
		return err
	})
	if err != nil {
		return nil, err
	}
	grouped := make(map[int][]*inventory.StockRecord)
	for _, r := range records {
		grouped[r.Key.WorkstationID] = append(grouped[r.Key.WorkstationID], r)
	}
	return grouped, nil
}

// ListLedger returns ledger entries matching the filter, newest first
func (s *Service) ListLedger(ctx context.Context, f inventory.LedgerFilter) ([]*inventory.LedgerEntry, error) {
	var entries []*inventory.LedgerEntry
	err := s.uow.InTransaction(ctx, func(_ inventory.StockRepository, ledger inventory.LedgerRepository, _ inventory.IdempotencyRepository) error {
		var err error
		entries, err = ledger.List(ctx, f)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
