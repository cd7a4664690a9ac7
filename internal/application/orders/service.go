package orders

import (
	"context"
	"errors"
	"fmt"

	invapp "github.com/modelfactory/mes/internal/application/inventory"
	"github.com/modelfactory/mes/internal/domain/inventory"
	"github.com/modelfactory/mes/internal/domain/masterdata"
	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/scheduling"
	"github.com/modelfactory/mes/internal/domain/shared"
)

// Inventory is the slice of the inventory service the orchestrator uses
type Inventory interface {
	Adjust(ctx context.Context, req invapp.AdjustRequest) (*inventory.StockRecord, error)
	AdjustBatch(ctx context.Context, reqs []invapp.AdjustRequest) ([]invapp.Adjustment, error)
	Revert(ctx context.Context, reqs []invapp.AdjustRequest) error
	Availability(ctx context.Context, workstationID int, items []shared.ItemRef) (map[shared.ItemRef]int, error)
}

// Catalog resolves items against master data
type Catalog interface {
	GetProduct(ctx context.Context, id int) (*masterdata.Product, error)
	GetModule(ctx context.Context, id int) (*masterdata.Module, error)
}

// Resolver expands BOM relationships
type Resolver interface {
	ExpandProduct(ctx context.Context, productID, quantity int) ([]shared.ItemQuantity, error)
	ModuleComponents(ctx context.Context, moduleID int) ([]shared.ItemQuantity, error)
	ExpandModuleParts(ctx context.Context, moduleID, quantity int) ([]shared.ItemQuantity, error)
}

// Planner requests schedules from the external scheduling engine
type Planner interface {
	CreateSchedule(ctx context.Context, req scheduling.ScheduleRequest) (*scheduling.Schedule, error)
}

// Config supplies runtime-tunable settings
type Config interface {
	LotSizeThreshold(ctx context.Context) (int, error)
}

// Service is the order orchestrator. It owns every order entity, drives the
// scenario selection and the downstream cascade, and keeps the inventory
// ledger consistent at each transition. Within one request the ordering is
// always: read master data and inventory, mutate inventory idempotently,
// then commit order state, compensating the inventory step if the order
// commit fails.
type Service struct {
	uow       order.UnitOfWork
	inventory Inventory
	catalog   Catalog
	resolver  Resolver
	planner   Planner
	config    Config
	clock     shared.Clock
}

// NewService creates the order orchestrator
func NewService(uow order.UnitOfWork, inv Inventory, catalog Catalog, resolver Resolver,
	planner Planner, config Config, clock shared.Clock) *Service {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Service{
		uow:       uow,
		inventory: inv,
		catalog:   catalog,
		resolver:  resolver,
		planner:   planner,
		config:    config,
		clock:     clock,
	}
}

// read runs fn against a transaction-scoped repository
func (s *Service) read(ctx context.Context, fn func(repo order.Repository) error) error {
	return s.uow.InTransaction(ctx, fn)
}

// idempotencyKey derives the key for one inventory mutation so retries on
// transport failure never double-post.
func idempotencyKey(orderType order.Type, orderID int, step string, item shared.ItemRef) string {
	return fmt.Sprintf("%s:%d:%s:%s:%d", orderType, orderID, step, item.Type, item.ID)
}

// adjustment builds one inventory request on behalf of an order
func adjustment(orderType order.Type, orderID int, step string, workstationID int,
	item shared.ItemQuantity, delta int, reason inventory.Reason, actor string) invapp.AdjustRequest {
	return invapp.AdjustRequest{
		WorkstationID:  workstationID,
		Item:           item.Item,
		Delta:          delta,
		Reason:         reason,
		RefOrderType:   string(orderType),
		RefOrderID:     orderID,
		Actor:          actor,
		IdempotencyKey: idempotencyKey(orderType, orderID, step, item.Item),
	}
}

// debitRequests builds debit adjustments for every item
func debitRequests(orderType order.Type, orderID int, step string, workstationID int,
	items []shared.ItemQuantity, reason inventory.Reason, actor string) []invapp.AdjustRequest {
	reqs := make([]invapp.AdjustRequest, 0, len(items))
	for _, iq := range items {
		reqs = append(reqs, adjustment(orderType, orderID, step, workstationID, iq, -iq.Quantity, reason, actor))
	}
	return reqs
}

// creditRequests builds credit adjustments for every item
func creditRequests(orderType order.Type, orderID int, step string, workstationID int,
	items []shared.ItemQuantity, reason inventory.Reason, actor string) []invapp.AdjustRequest {
	reqs := make([]invapp.AdjustRequest, 0, len(items))
	for _, iq := range items {
		reqs = append(reqs, adjustment(orderType, orderID, step, workstationID, iq, iq.Quantity, reason, actor))
	}
	return reqs
}

// applyAdjustments runs a batch and maps inventory shortfalls onto the order
// error vocabulary. It returns only the requests this call actually applied:
// replayed requests already moved stock on an earlier attempt, and undoing
// them here would erase that attempt's work.
func (s *Service) applyAdjustments(ctx context.Context, reqs []invapp.AdjustRequest) ([]invapp.AdjustRequest, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	outcomes, err := s.inventory.AdjustBatch(ctx, reqs)
	if err != nil {
		return nil, s.translateInventoryError(err, reqs)
	}
	applied := make([]invapp.AdjustRequest, 0, len(reqs))
	for i, outcome := range outcomes {
		if !outcome.Replayed {
			applied = append(applied, reqs[i])
		}
	}
	return applied, nil
}

// translateInventoryError turns a failed debit into ORDER_INSUFFICIENT_STOCK,
// carrying which key fell short and by how much.
func (s *Service) translateInventoryError(err error, reqs []invapp.AdjustRequest) error {
	var validation *inventory.ErrValidation
	if !errors.As(err, &validation) || validation.Key == nil {
		return err
	}
	key := *validation.Key
	requested := 0
	for _, req := range reqs {
		if req.WorkstationID == key.WorkstationID && req.Item == key.Item && req.Delta < 0 {
			requested = -req.Delta
			break
		}
	}
	available := 0
	if current, ok := validation.Detail["current"].(int); ok {
		available = current
	}
	return &order.ErrInsufficientStock{
		WorkstationID: key.WorkstationID,
		Item:          key.Item,
		Requested:     requested,
		Available:     available,
	}
}

// compensate reverses the movements this request applied after the order
// commit failed, restoring the ledger with ADJUSTMENT entries and clearing
// the idempotency keys so a retry can move stock again. Only the applied
// subset is passed in: a concurrent duplicate whose debits all replayed has
// nothing to undo. Compensation errors are joined onto the original failure;
// nothing can be swallowed here.
func (s *Service) compensate(ctx context.Context, cause error, applied []invapp.AdjustRequest) error {
	if len(applied) == 0 {
		return cause
	}
	if err := s.inventory.Revert(ctx, applied); err != nil {
		return errors.Join(cause, fmt.Errorf("compensation failed: %w", err))
	}
	return cause
}
