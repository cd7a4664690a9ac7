package masterdata

import (
	"context"
	"fmt"
	"time"

	"github.com/modelfactory/mes/internal/domain/masterdata"
	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
)

// DefaultBOMCacheTTL bounds how stale a cached BOM lookup may be
const DefaultBOMCacheTTL = 10 * time.Minute

// Service is the master data catalog: products, modules, parts, the nine
// workstations and the BOM edge graph. Reads dominate; BOM lookups go
// through a TTL cache.
type Service struct {
	repo  masterdata.Repository
	cache *bomCache
}

// NewService creates the master data service
func NewService(repo masterdata.Repository, cacheTTL time.Duration, clock shared.Clock) *Service {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultBOMCacheTTL
	}
	return &Service{
		repo:  repo,
		cache: newBOMCache(cacheTTL, clock),
	}
}

// GetWorkstation resolves one of WS-1..WS-9
func (s *Service) GetWorkstation(ctx context.Context, id int) (*masterdata.Workstation, error) {
	return s.repo.GetWorkstation(ctx, id)
}

// ListWorkstations returns all nine stations
func (s *Service) ListWorkstations(ctx context.Context) ([]*masterdata.Workstation, error) {
	return s.repo.ListWorkstations(ctx)
}

// GetProduct resolves a product id
func (s *Service) GetProduct(ctx context.Context, id int) (*masterdata.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// ListProducts returns the sellable catalog
func (s *Service) ListProducts(ctx context.Context) ([]*masterdata.Product, error) {
	return s.repo.ListProducts(ctx)
}

// GetModule resolves a module id
func (s *Service) GetModule(ctx context.Context, id int) (*masterdata.Module, error) {
	return s.repo.GetModule(ctx, id)
}

// ListModules returns all modules
func (s *Service) ListModules(ctx context.Context) ([]*masterdata.Module, error) {
	return s.repo.ListModules(ctx)
}

// GetPart resolves a part id
func (s *Service) GetPart(ctx context.Context, id int) (*masterdata.Part, error) {
	return s.repo.GetPart(ctx, id)
}

// ListParts returns all raw parts
func (s *Service) ListParts(ctx context.Context) ([]*masterdata.Part, error) {
	return s.repo.ListParts(ctx)
}

// ItemName resolves the display name for any item reference
func (s *Service) ItemName(ctx context.Context, item shared.ItemRef) (string, error) {
	switch item.Type {
	case shared.ItemTypeProduct:
		p, err := s.repo.GetProduct(ctx, item.ID)
		if err != nil {
			return "", err
		}
		return p.Name, nil
	case shared.ItemTypeModule:
		m, err := s.repo.GetModule(ctx, item.ID)
		if err != nil {
			return "", err
		}
		return m.Name, nil
	case shared.ItemTypePart:
		p, err := s.repo.GetPart(ctx, item.ID)
		if err != nil {
			return "", err
		}
		return p.Name, nil
	}
	return "", fmt.Errorf("unknown item type %q", item.Type)
}

// ComponentsOf returns the direct BOM edges under a parent, cached with TTL
func (s *Service) ComponentsOf(ctx context.Context, parent shared.ItemRef) ([]masterdata.BOMEdge, error) {
	if edges, ok := s.cache.get(parent); ok {
		return edges, nil
	}
	edges, err := s.repo.ComponentsOf(ctx, parent)
	if err != nil {
		return nil, err
	}
	s.cache.put(parent, edges)
	return edges, nil
}

// SaveProduct upserts a product (admin ingest)
func (s *Service) SaveProduct(ctx context.Context, p *masterdata.Product) error {
	if p.Name == "" {
		return fmt.Errorf("product name is required")
	}
	return s.repo.SaveProduct(ctx, p)
}

// SaveModule upserts a module (admin ingest). The production workstation
// must be one of the six cells.
func (s *Service) SaveModule(ctx context.Context, m *masterdata.Module) error {
	if m.Name == "" {
		return fmt.Errorf("module name is required")
	}
	if !shared.IsManufacturingCell(m.ProductionWorkstationID) && !shared.IsAssemblyCell(m.ProductionWorkstationID) {
		return fmt.Errorf("module production workstation must be WS-1..WS-6, got %d", m.ProductionWorkstationID)
	}
	return s.repo.SaveModule(ctx, m)
}

// SavePart upserts a part (admin ingest)
func (s *Service) SavePart(ctx context.Context, p *masterdata.Part) error {
	if p.Name == "" {
		return fmt.Errorf("part name is required")
	}
	return s.repo.SavePart(ctx, p)
}

// SaveBOMEdge validates and stores one BOM edge. The whole edge set is
// re-checked for cycles so a bad ingest can never poison expansion.
func (s *Service) SaveBOMEdge(ctx context.Context, parent, component shared.ItemRef, quantity int) error {
	edge, err := masterdata.NewBOMEdge(parent, component, quantity)
	if err != nil {
		return &order.ErrBOMConversion{Item: parent, Reason: err.Error()}
	}

	if err := s.validateReferences(ctx, edge); err != nil {
		return err
	}

	existing, err := s.repo.AllBOMEdges(ctx)
	if err != nil {
		return fmt.Errorf("failed to load BOM edges: %w", err)
	}
	if err := masterdata.ValidateAcyclic(append(existing, edge)); err != nil {
		return &order.ErrBOMConversion{Item: parent, Reason: err.Error()}
	}

	if err := s.repo.SaveBOMEdge(ctx, edge); err != nil {
		return err
	}
	s.cache.clear()
	return nil
}

func (s *Service) validateReferences(ctx context.Context, edge masterdata.BOMEdge) error {
	if _, err := s.ItemName(ctx, edge.Parent); err != nil {
		return err
	}
	if _, err := s.ItemName(ctx, edge.Component); err != nil {
		return err
	}
	return nil
}
