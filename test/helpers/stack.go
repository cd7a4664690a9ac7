package helpers

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/modelfactory/mes/internal/adapters/persistence"
	"github.com/modelfactory/mes/internal/adapters/simal"
	"github.com/modelfactory/mes/internal/application/bom"
	identityapp "github.com/modelfactory/mes/internal/application/identity"
	invapp "github.com/modelfactory/mes/internal/application/inventory"
	mdapp "github.com/modelfactory/mes/internal/application/masterdata"
	ordersapp "github.com/modelfactory/mes/internal/application/orders"
	"github.com/modelfactory/mes/internal/application/scheduler"
	"github.com/modelfactory/mes/internal/application/sysconfig"
	"github.com/modelfactory/mes/internal/domain/shared"
	"github.com/modelfactory/mes/internal/infrastructure/database"
	"github.com/modelfactory/mes/internal/infrastructure/seed"
)

// TestSigningSecret is long enough to satisfy the config validator and stable
// so tokens can be decoded in assertions.
const TestSigningSecret = "test-signing-secret-for-mes-suite-0001"

// Stack is a fully wired service graph over an in-memory database, using the
// mock scheduler and a controllable clock.
type Stack struct {
	DB         *gorm.DB
	Clock      *shared.MockClock
	Scheduler  *simal.MockScheduler
	Inventory  *invapp.Service
	MasterData *mdapp.Service
	Identity   *identityapp.Service
	Config     *sysconfig.Service
	Orders     *ordersapp.Service

	MasterDataRepo *persistence.GormMasterDataRepository
	Users          *persistence.GormUserRepository
}

func buildStack(db *gorm.DB) *Stack {
	clock := shared.NewMockClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))

	masterdataRepo := persistence.NewGormMasterDataRepository(db)
	userRepo := persistence.NewGormUserRepository(db)

	inventoryService := invapp.NewService(persistence.NewGormInventoryUnitOfWork(db), clock)
	masterdataService := mdapp.NewService(masterdataRepo, mdapp.DefaultBOMCacheTTL, clock)
	identityService := identityapp.NewService(userRepo, TestSigningSecret, 12*time.Hour, clock)
	configService := sysconfig.NewService(persistence.NewGormConfigStore(db))
	resolver := bom.NewResolver(masterdataService)

	mockScheduler := simal.NewMockScheduler(masterdataService, clock)
	planner := scheduler.NewAdapter(mockScheduler, clock)

	orderService := ordersapp.NewService(
		persistence.NewGormOrderUnitOfWork(db),
		inventoryService, masterdataService, resolver, planner, configService, clock,
	)

	return &Stack{
		DB:             db,
		Clock:          clock,
		Scheduler:      mockScheduler,
		Inventory:      inventoryService,
		MasterData:     masterdataService,
		Identity:       identityService,
		Config:         configService,
		Orders:         orderService,
		MasterDataRepo: masterdataRepo,
		Users:          userRepo,
	}
}

// NewStack wires the full application over a fresh test database
func NewStack(t *testing.T) *Stack {
	return buildStack(NewTestDB(t))
}

// NewSuiteStack wires the stack without a testing.T, for godog scenarios.
// The caller owns the database and must call Close.
func NewSuiteStack() (*Stack, error) {
	db, err := database.NewTestConnection()
	if err != nil {
		return nil, err
	}
	return buildStack(db), nil
}

// Close releases the underlying database connection
func (s *Stack) Close() {
	database.Close(s.DB)
}

// SeedData loads the demo master data, stock and users
func (s *Stack) SeedData(ctx context.Context) error {
	return seed.NewSeeder(s.MasterDataRepo, s.Users, s.Inventory, s.Clock).Run(ctx)
}

// Seed loads the demo master data, stock and users, failing the test on error
func (s *Stack) Seed(t *testing.T) {
	t.Helper()
	if err := s.SeedData(context.Background()); err != nil {
		t.Fatalf("failed to seed test database: %v", err)
	}
}

// StockAt returns the current quantity at one workstation for one item,
// zero when no record exists.
func (s *Stack) StockAt(t *testing.T, workstationID int, itemType shared.ItemType, itemID int) int {
	t.Helper()
	quantities, err := s.Inventory.Availability(context.Background(), workstationID,
		[]shared.ItemRef{{Type: itemType, ID: itemID}})
	if err != nil {
		t.Fatalf("failed to read stock: %v", err)
	}
	return quantities[shared.ItemRef{Type: itemType, ID: itemID}]
}
