package inventory

import "context"

// StockFilter narrows stock queries. Zero values mean "no filter".
type StockFilter struct {
	WorkstationID int
	ItemType      string
	ItemID        int
}

// LedgerFilter narrows ledger queries
type LedgerFilter struct {
	WorkstationID int
	ItemType      string
	ItemID        int
	RefOrderType  string
	RefOrderID    int
	Limit         int
	Offset        int
}

// StockRepository persists stock records. GetForUpdate takes a row lock so
// concurrent adjustments on the same key serialize inside the transaction.
type StockRepository interface {
	GetForUpdate(ctx context.Context, key StockKey) (*StockRecord, error)
	Get(ctx context.Context, key StockKey) (*StockRecord, error)
	Save(ctx context.Context, record *StockRecord) error
	List(ctx context.Context, f StockFilter) ([]*StockRecord, error)
	ListAtOrBelow(ctx context.Context, threshold int) ([]*StockRecord, error)
}

// LedgerRepository appends and reads immutable ledger entries
type LedgerRepository interface {
	Append(ctx context.Context, entry *LedgerEntry) error
	List(ctx context.Context, f LedgerFilter) ([]*LedgerEntry, error)

	// SumDeltas returns the running sum for a key, used by audit checks
	SumDeltas(ctx context.Context, key StockKey) (int, error)
}

// IdempotencyOutcome is the recorded result of a previously applied
// adjustment, replayed verbatim when the same key is seen again.
type IdempotencyOutcome struct {
	Key         string
	NewQuantity int
}

// IdempotencyRepository records adjustment outcomes by idempotency key.
// Delete clears a key when its movement is reverted, so a later retry of the
// same logical adjustment applies again instead of replaying.
type IdempotencyRepository interface {
	Get(ctx context.Context, key string) (*IdempotencyOutcome, error)
	Put(ctx context.Context, outcome *IdempotencyOutcome) error
	Delete(ctx context.Context, key string) error
}

// UnitOfWork opens a transaction over the inventory store. Stock mutation,
// ledger append and idempotency record commit or roll back together.
type UnitOfWork interface {
	InTransaction(ctx context.Context, fn func(stocks StockRepository, ledger LedgerRepository, idem IdempotencyRepository) error) error
}
