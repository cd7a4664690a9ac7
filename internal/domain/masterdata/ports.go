package masterdata

import (
	"context"

	"github.com/modelfactory/mes/internal/domain/shared"
)

// Repository persists master data. The dataset is read-mostly: workstations
// are immutable after seed, and catalog changes happen through admin ingest.
type Repository interface {
	GetWorkstation(ctx context.Context, id int) (*Workstation, error)
	ListWorkstations(ctx context.Context) ([]*Workstation, error)
	SaveWorkstation(ctx context.Context, w *Workstation) error

	GetProduct(ctx context.Context, id int) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	SaveProduct(ctx context.Context, p *Product) error

	GetModule(ctx context.Context, id int) (*Module, error)
	ListModules(ctx context.Context) ([]*Module, error)
	SaveModule(ctx context.Context, m *Module) error

	GetPart(ctx context.Context, id int) (*Part, error)
	ListParts(ctx context.Context) ([]*Part, error)
	SavePart(ctx context.Context, p *Part) error

	// ComponentsOf returns the direct BOM edges under a parent item
	ComponentsOf(ctx context.Context, parent shared.ItemRef) ([]BOMEdge, error)

	// AllBOMEdges returns the full edge set, used for cycle validation
	AllBOMEdges(ctx context.Context) ([]BOMEdge, error)

	SaveBOMEdge(ctx context.Context, edge BOMEdge) error
}
