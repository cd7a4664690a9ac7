package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/modelfactory/mes/internal/domain/inventory"
	"github.com/modelfactory/mes/internal/domain/order"
)

// GormOrderUnitOfWork opens GORM transactions over the order store
type GormOrderUnitOfWork struct {
	db *gorm.DB
}

// NewGormOrderUnitOfWork creates a unit of work for the order store
func NewGormOrderUnitOfWork(db *gorm.DB) *GormOrderUnitOfWork {
	return &GormOrderUnitOfWork{db: db}
}

// InTransaction runs fn with a repository bound to one transaction
func (u *GormOrderUnitOfWork) InTransaction(ctx context.Context, fn func(repo order.Repository) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormOrderRepository(tx))
	})
}

// GormInventoryUnitOfWork opens GORM transactions over the inventory store
type GormInventoryUnitOfWork struct {
	db *gorm.DB
}

// NewGormInventoryUnitOfWork creates a unit of work for the inventory store
func NewGormInventoryUnitOfWork(db *gorm.DB) *GormInventoryUnitOfWork {
	return &GormInventoryUnitOfWork{db: db}
}

// InTransaction runs fn with stock, ledger and idempotency repositories all
// bound to one transaction, so a batch commits or rolls back as a whole.
func (u *GormInventoryUnitOfWork) InTransaction(ctx context.Context,
	fn func(stocks inventory.StockRepository, ledger inventory.LedgerRepository, idem inventory.IdempotencyRepository) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStockRepository(tx), NewGormLedgerRepository(tx), NewGormIdempotencyRepository(tx))
	})
}
