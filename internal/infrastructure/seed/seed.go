package seed

import (
	"context"
	"fmt"

	"github.com/modelfactory/mes/internal/domain/identity"
	"github.com/modelfactory/mes/internal/domain/inventory"
	"github.com/modelfactory/mes/internal/domain/masterdata"
	"github.com/modelfactory/mes/internal/domain/shared"

	invapp "github.com/modelfactory/mes/internal/application/inventory"
)

// Seeder populates the nine workstations, a demo catalog and default users.
// Every step is idempotent: master data upserts, stock movements carry fixed
// idempotency keys, users are only created when missing.
type Seeder struct {
	masterdata masterdata.Repository
	users      identity.UserRepository
	inventory  *invapp.Service
	clock      shared.Clock
}

// NewSeeder creates a seeder
func NewSeeder(md masterdata.Repository, users identity.UserRepository, inv *invapp.Service, clock shared.Clock) *Seeder {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Seeder{masterdata: md, users: users, inventory: inv, clock: clock}
}

// Run seeds everything. Safe to call on every dev startup.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedWorkstations(ctx); err != nil {
		return fmt.Errorf("failed to seed workstations: %w", err)
	}
	if err := s.seedCatalog(ctx); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	if err := s.seedStock(ctx); err != nil {
		return fmt.Errorf("failed to seed stock: %w", err)
	}
	if err := s.seedUsers(ctx); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	return nil
}

func (s *Seeder) seedWorkstations(ctx context.Context) error {
	stations := []masterdata.Workstation{
		{ID: 1, Role: masterdata.RoleManufacturing, Name: "Injection Molding"},
		{ID: 2, Role: masterdata.RoleManufacturing, Name: "Parts Pre-Production"},
		{ID: 3, Role: masterdata.RoleManufacturing, Name: "Part Finishing"},
		{ID: 4, Role: masterdata.RoleAssembly, Name: "Gear Assembly"},
		{ID: 5, Role: masterdata.RoleAssembly, Name: "Motor Assembly"},
		{ID: 6, Role: masterdata.RoleAssembly, Name: "Final Assembly"},
		{ID: 7, Role: masterdata.RoleWarehouse, Name: "Plant Warehouse"},
		{ID: 8, Role: masterdata.RoleWarehouse, Name: "Modules Supermarket"},
		{ID: 9, Role: masterdata.RoleWarehouse, Name: "Parts Supply Warehouse"},
	}
	for i := range stations {
		if err := s.masterdata.SaveWorkstation(ctx, &stations[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedCatalog(ctx context.Context) error {
	products := []masterdata.Product{
		{ID: 1, Name: "Model Truck", Description: "Flatbed truck with drive unit"},
		{ID: 2, Name: "Model Crane", Description: "Tower crane with twin gearboxes"},
	}
	for i := range products {
		if err := s.masterdata.SaveProduct(ctx, &products[i]); err != nil {
			return err
		}
	}

	modules := []masterdata.Module{
		{ID: 1, Name: "Chassis Frame", ProductionWorkstationID: 1, EstimatedTimeMinutes: 20},
		{ID: 2, Name: "Gearbox", ProductionWorkstationID: 4, EstimatedTimeMinutes: 30},
		{ID: 3, Name: "Drive Motor", ProductionWorkstationID: 5, EstimatedTimeMinutes: 25},
		{ID: 4, Name: "Cab Body", ProductionWorkstationID: 2, EstimatedTimeMinutes: 15},
		{ID: 5, Name: "Axle Set", ProductionWorkstationID: 3, EstimatedTimeMinutes: 10},
	}
	for i := range modules {
		if err := s.masterdata.SaveModule(ctx, &modules[i]); err != nil {
			return err
		}
	}

	parts := []masterdata.Part{
		{ID: 1, Name: "Steel Beam"},
		{ID: 2, Name: "Plastic Granulate"},
		{ID: 3, Name: "Gear Wheel"},
		{ID: 4, Name: "Axle Rod"},
		{ID: 5, Name: "Copper Coil"},
		{ID: 6, Name: "Screw Set"},
	}
	for i := range parts {
		if err := s.masterdata.SavePart(ctx, &parts[i]); err != nil {
			return err
		}
	}

	product := func(id int) shared.ItemRef { return shared.ItemRef{Type: shared.ItemTypeProduct, ID: id} }
	module := func(id int) shared.ItemRef { return shared.ItemRef{Type: shared.ItemTypeModule, ID: id} }
	part := func(id int) shared.ItemRef { return shared.ItemRef{Type: shared.ItemTypePart, ID: id} }

	type edge struct {
		parent, component shared.ItemRef
		quantity          int
	}
	edges := []edge{
		{product(1), module(1), 1},
		{product(1), module(2), 1},
		{product(1), module(3), 1},
		{product(1), module(4), 1},
		{product(2), module(1), 1},
		{product(2), module(2), 2},
		{product(2), module(3), 1},
		{module(1), part(1), 4},
		{module(1), part(2), 2},
		{module(2), part(3), 3},
		{module(2), part(6), 1},
		{module(2), module(5), 1},
		{module(3), part(5), 2},
		{module(3), part(6), 1},
		{module(4), part(2), 3},
		{module(5), part(4), 2},
	}
	for _, e := range edges {
		bomEdge, err := masterdata.NewBOMEdge(e.parent, e.component, e.quantity)
		if err != nil {
			return err
		}
		if err := s.masterdata.SaveBOMEdge(ctx, bomEdge); err != nil {
			return err
		}
	}
	return nil
}

// seedStock credits initial inventory through the ledger so the audit
// invariant holds from the first record. Fixed idempotency keys make reruns
// no-ops even after manual adjustments.
func (s *Seeder) seedStock(ctx context.Context) error {
	type stock struct {
		workstationID int
		item          shared.ItemRef
		quantity      int
	}
	initial := []stock{
		{7, shared.ItemRef{Type: shared.ItemTypeProduct, ID: 1}, 10},
		{7, shared.ItemRef{Type: shared.ItemTypeProduct, ID: 2}, 5},
		{8, shared.ItemRef{Type: shared.ItemTypeModule, ID: 1}, 20},
		{8, shared.ItemRef{Type: shared.ItemTypeModule, ID: 2}, 20},
		{8, shared.ItemRef{Type: shared.ItemTypeModule, ID: 3}, 20},
		{8, shared.ItemRef{Type: shared.ItemTypeModule, ID: 4}, 20},
		{8, shared.ItemRef{Type: shared.ItemTypeModule, ID: 5}, 20},
		{9, shared.ItemRef{Type: shared.ItemTypePart, ID: 1}, 500},
		{9, shared.ItemRef{Type: shared.ItemTypePart, ID: 2}, 500},
		{9, shared.ItemRef{Type: shared.ItemTypePart, ID: 3}, 500},
		{9, shared.ItemRef{Type: shared.ItemTypePart, ID: 4}, 500},
		{9, shared.ItemRef{Type: shared.ItemTypePart, ID: 5}, 500},
		{9, shared.ItemRef{Type: shared.ItemTypePart, ID: 6}, 500},
	}
	reqs := make([]invapp.AdjustRequest, 0, len(initial))
	for _, st := range initial {
		reqs = append(reqs, invapp.AdjustRequest{
			WorkstationID: st.workstationID,
			Item:          st.item,
			Delta:         st.quantity,
			Reason:        inventory.ReasonAdjustment,
			Actor:         "seed",
			IdempotencyKey: fmt.Sprintf("SEED:stock:%d:%s:%d",
				st.workstationID, st.item.Type, st.item.ID),
		})
	}
	_, err := s.inventory.AdjustBatch(ctx, reqs)
	return err
}

func (s *Seeder) seedUsers(ctx context.Context) error {
	ws6 := 6
	type account struct {
		username      string
		password      string
		role          identity.Role
		workstationID *int
	}
	accounts := []account{
		{"admin", "admin-dev-password", identity.RoleAdmin, nil},
		{"planner", "planner-dev-password", identity.RolePlanner, nil},
		{"viewer", "viewer-dev-password", identity.RoleViewer, nil},
		{"ws6-operator", "ws6-dev-password", identity.RoleWorkstation, &ws6},
	}
	for _, a := range accounts {
		existing, err := s.users.FindByUsername(ctx, a.username)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		user, err := identity.NewUser(a.username, a.password, a.role, a.workstationID, s.clock.Now())
		if err != nil {
			return err
		}
		if err := s.users.Save(ctx, user); err != nil {
			return err
		}
	}
	return nil
}
