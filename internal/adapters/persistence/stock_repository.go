package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/modelfactory/mes/internal/domain/inventory"
	"github.com/modelfactory/mes/internal/domain/shared"
)

// GormStockRepository implements inventory.StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GORM stock repository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

func stockRecordToModel(r *inventory.StockRecord) *StockRecordModel {
	return &StockRecordModel{
		WorkstationID: r.Key.WorkstationID,
		ItemType:      string(r.Key.Item.Type),
		ItemID:        r.Key.Item.ID,
		Quantity:      r.Quantity,
		LastUpdated:   r.LastUpdated,
	}
}

func modelToStockRecord(m *StockRecordModel) *inventory.StockRecord {
	return &inventory.StockRecord{
		Key: inventory.StockKey{
			WorkstationID: m.WorkstationID,
			Item:          shared.ItemRef{Type: shared.ItemType(m.ItemType), ID: m.ItemID},
		},
		Quantity:    m.Quantity,
		LastUpdated: m.LastUpdated,
	}
}

func (r *GormStockRepository) find(ctx context.Context, db *gorm.DB, key inventory.StockKey) (*inventory.StockRecord, error) {
	var model StockRecordModel
	err := db.WithContext(ctx).
		Where("workstation_id = ? AND item_type = ? AND item_id = ?", key.WorkstationID, string(key.Item.Type), key.Item.ID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &inventory.ErrNotFound{Key: key}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find stock record: %w", err)
	}
	return modelToStockRecord(&model), nil
}

// Get retrieves one stock record
func (r *GormStockRepository) Get(ctx context.Context, key inventory.StockKey) (*inventory.StockRecord, error) {
	return r.find(ctx, r.db, key)
}

// GetForUpdate retrieves one stock record, locking its row for the
// remainder of the ambient transaction.
func (r *GormStockRepository) GetForUpdate(ctx context.Context, key inventory.StockKey) (*inventory.StockRecord, error) {
	return r.find(ctx, forUpdate(r.db), key)
}

// Save upserts a stock record
func (r *GormStockRepository) Save(ctx context.Context, record *inventory.StockRecord) error {
	if err := r.db.WithContext(ctx).Save(stockRecordToModel(record)).Error; err != nil {
		return fmt.Errorf("failed to save stock record: %w", err)
	}
	return nil
}

// List returns stock records matching the filter
func (r *GormStockRepository) List(ctx context.Context, f inventory.StockFilter) ([]*inventory.StockRecord, error) {
	q := r.db.WithContext(ctx)
	if f.WorkstationID > 0 {
		q = q.Where("workstation_id = ?", f.WorkstationID)
	}
	if f.ItemType != "" {
		q = q.Where("item_type = ?", f.ItemType)
	}
	if f.ItemID > 0 {
		q = q.Where("item_id = ?", f.ItemID)
	}
	var models []StockRecordModel
	if err := q.Order("workstation_id ASC, item_type ASC, item_id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list stock records: %w", err)
	}
	out := make([]*inventory.StockRecord, 0, len(models))
	for i := range models {
		out = append(out, modelToStockRecord(&models[i]))
	}
	return out, nil
}

// ListAtOrBelow returns records whose quantity is at or below the threshold
func (r *GormStockRepository) ListAtOrBelow(ctx context.Context, threshold int) ([]*inventory.StockRecord, error) {
	var models []StockRecordModel
	err := r.db.WithContext(ctx).
		Where("quantity <= ?", threshold).
		Order("workstation_id ASC, item_type ASC, item_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock records: %w", err)
	}
	out := make([]*inventory.StockRecord, 0, len(models))
	for i := range models {
		out = append(out, modelToStockRecord(&models[i]))
	}
	return out, nil
}

// GormLedgerRepository implements inventory.LedgerRepository using GORM.
// Entries are append-only; there is no update or delete path.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GORM ledger repository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

func ledgerEntryToModel(e *inventory.LedgerEntry) *StockLedgerEntryModel {
	return &StockLedgerEntryModel{
		ID:            e.ID(),
		Timestamp:     e.Timestamp(),
		WorkstationID: e.Key().WorkstationID,
		ItemType:      string(e.Key().Item.Type),
		ItemID:        e.Key().Item.ID,
		Delta:         e.Delta(),
		Reason:        string(e.Reason()),
		RefOrderType:  e.RefOrderType(),
		RefOrderID:    e.RefOrderID(),
		Actor:         e.Actor(),
	}
}

func modelToLedgerEntry(m *StockLedgerEntryModel) *inventory.LedgerEntry {
	return inventory.ReconstructLedgerEntry(m.ID, m.Timestamp,
		inventory.StockKey{
			WorkstationID: m.WorkstationID,
			Item:          shared.ItemRef{Type: shared.ItemType(m.ItemType), ID: m.ItemID},
		},
		m.Delta, inventory.Reason(m.Reason), m.RefOrderType, m.RefOrderID, m.Actor)
}

// Append inserts one immutable ledger entry
func (r *GormLedgerRepository) Append(ctx context.Context, entry *inventory.LedgerEntry) error {
	if err := r.db.WithContext(ctx).Create(ledgerEntryToModel(entry)).Error; err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

// List returns ledger entries matching the filter, newest first
func (r *GormLedgerRepository) List(ctx context.Context, f inventory.LedgerFilter) ([]*inventory.LedgerEntry, error) {
	q := r.db.WithContext(ctx)
	if f.WorkstationID > 0 {
		q = q.Where("workstation_id = ?", f.WorkstationID)
	}
	if f.ItemType != "" {
		q = q.Where("item_type = ?", f.ItemType)
	}
	if f.ItemID > 0 {
		q = q.Where("item_id = ?", f.ItemID)
	}
	if f.RefOrderType != "" {
		q = q.Where("ref_order_type = ?", f.RefOrderType)
	}
	if f.RefOrderID > 0 {
		q = q.Where("ref_order_id = ?", f.RefOrderID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	var models []StockLedgerEntryModel
	if err := q.Order("timestamp DESC, id DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	out := make([]*inventory.LedgerEntry, 0, len(models))
	for i := range models {
		out = append(out, modelToLedgerEntry(&models[i]))
	}
	return out, nil
}

// SumDeltas returns the running delta sum for one stock key
func (r *GormLedgerRepository) SumDeltas(ctx context.Context, key inventory.StockKey) (int, error) {
	var sum *int
	err := r.db.WithContext(ctx).
		Model(&StockLedgerEntryModel{}).
		Select("SUM(delta)").
		Where("workstation_id = ? AND item_type = ? AND item_id = ?", key.WorkstationID, string(key.Item.Type), key.Item.ID).
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum ledger deltas: %w", err)
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

// GormIdempotencyRepository implements inventory.IdempotencyRepository using GORM
type GormIdempotencyRepository struct {
	db *gorm.DB
}

// NewGormIdempotencyRepository creates a new GORM idempotency repository
func NewGormIdempotencyRepository(db *gorm.DB) *GormIdempotencyRepository {
	return &GormIdempotencyRepository{db: db}
}

// Get returns the recorded outcome for a key, or nil when unseen
func (r *GormIdempotencyRepository) Get(ctx context.Context, key string) (*inventory.IdempotencyOutcome, error) {
	var model IdempotencyRecordModel
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find idempotency record: %w", err)
	}
	return &inventory.IdempotencyOutcome{Key: model.Key, NewQuantity: model.NewQuantity}, nil
}

// Put records the outcome of an applied adjustment
func (r *GormIdempotencyRepository) Put(ctx context.Context, outcome *inventory.IdempotencyOutcome) error {
	model := &IdempotencyRecordModel{Key: outcome.Key, NewQuantity: outcome.NewQuantity}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to record idempotency outcome: %w", err)
	}
	return nil
}

// Delete removes the record for a key; deleting an unseen key is a no-op
func (r *GormIdempotencyRepository) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("key = ?", key).Delete(&IdempotencyRecordModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete idempotency record: %w", err)
	}
	return nil
}
