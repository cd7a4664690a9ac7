package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/modelfactory/mes/internal/domain/masterdata"
	"github.com/modelfactory/mes/internal/domain/shared"
)

// GormMasterDataRepository implements masterdata.Repository using GORM
type GormMasterDataRepository struct {
	db *gorm.DB
}

// NewGormMasterDataRepository creates a new GORM master data repository
func NewGormMasterDataRepository(db *gorm.DB) *GormMasterDataRepository {
	return &GormMasterDataRepository{db: db}
}

// GetWorkstation retrieves a workstation by id
func (r *GormMasterDataRepository) GetWorkstation(ctx context.Context, id int) (*masterdata.Workstation, error) {
	var model WorkstationModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &masterdata.ErrNotFound{Entity: "workstation", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find workstation: %w", err)
	}
	return modelToWorkstation(&model)
}

// ListWorkstations returns all workstations ordered by id
func (r *GormMasterDataRepository) ListWorkstations(ctx context.Context) ([]*masterdata.Workstation, error) {
	var models []WorkstationModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list workstations: %w", err)
	}
	out := make([]*masterdata.Workstation, 0, len(models))
	for i := range models {
		w, err := modelToWorkstation(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// SaveWorkstation upserts a workstation
func (r *GormMasterDataRepository) SaveWorkstation(ctx context.Context, w *masterdata.Workstation) error {
	model := &WorkstationModel{ID: w.ID, Role: string(w.Role), Name: w.Name}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save workstation: %w", err)
	}
	return nil
}

func modelToWorkstation(m *WorkstationModel) (*masterdata.Workstation, error) {
	role, err := masterdata.ParseWorkstationRole(m.Role)
	if err != nil {
		return nil, err
	}
	return &masterdata.Workstation{ID: m.ID, Role: role, Name: m.Name}, nil
}

// GetProduct retrieves a product by id
func (r *GormMasterDataRepository) GetProduct(ctx context.Context, id int) (*masterdata.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &masterdata.ErrNotFound{Entity: "product", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &masterdata.Product{ID: model.ID, Name: model.Name, Description: model.Description}, nil
}

// ListProducts returns all products ordered by id
func (r *GormMasterDataRepository) ListProducts(ctx context.Context) ([]*masterdata.Product, error) {
	var models []ProductModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	out := make([]*masterdata.Product, 0, len(models))
	for i := range models {
		out = append(out, &masterdata.Product{ID: models[i].ID, Name: models[i].Name, Description: models[i].Description})
	}
	return out, nil
}

// SaveProduct upserts a product
func (r *GormMasterDataRepository) SaveProduct(ctx context.Context, p *masterdata.Product) error {
	model := &ProductModel{ID: p.ID, Name: p.Name, Description: p.Description}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

// GetModule retrieves a module by id
func (r *GormMasterDataRepository) GetModule(ctx context.Context, id int) (*masterdata.Module, error) {
	var model ModuleModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &masterdata.ErrNotFound{Entity: "module", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find module: %w", err)
	}
	return modelToModule(&model), nil
}

// ListModules returns all modules ordered by id
func (r *GormMasterDataRepository) ListModules(ctx context.Context) ([]*masterdata.Module, error) {
	var models []ModuleModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	out := make([]*masterdata.Module, 0, len(models))
	for i := range models {
		out = append(out, modelToModule(&models[i]))
	}
	return out, nil
}

// SaveModule upserts a module
func (r *GormMasterDataRepository) SaveModule(ctx context.Context, m *masterdata.Module) error {
	model := &ModuleModel{
		ID:                      m.ID,
		Name:                    m.Name,
		ProductionWorkstationID: m.ProductionWorkstationID,
		EstimatedTimeMinutes:    m.EstimatedTimeMinutes,
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save module: %w", err)
	}
	return nil
}

func modelToModule(m *ModuleModel) *masterdata.Module {
	return &masterdata.Module{
		ID:                      m.ID,
		Name:                    m.Name,
		ProductionWorkstationID: m.ProductionWorkstationID,
		EstimatedTimeMinutes:    m.EstimatedTimeMinutes,
	}
}

// GetPart retrieves a part by id
func (r *GormMasterDataRepository) GetPart(ctx context.Context, id int) (*masterdata.Part, error) {
	var model PartModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &masterdata.ErrNotFound{Entity: "part", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find part: %w", err)
	}
	return &masterdata.Part{ID: model.ID, Name: model.Name}, nil
}

// ListParts returns all parts ordered by id
func (r *GormMasterDataRepository) ListParts(ctx context.Context) ([]*masterdata.Part, error) {
	var models []PartModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list parts: %w", err)
	}
	out := make([]*masterdata.Part, 0, len(models))
	for i := range models {
		out = append(out, &masterdata.Part{ID: models[i].ID, Name: models[i].Name})
	}
	return out, nil
}

// SavePart upserts a part
func (r *GormMasterDataRepository) SavePart(ctx context.Context, p *masterdata.Part) error {
	model := &PartModel{ID: p.ID, Name: p.Name}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save part: %w", err)
	}
	return nil
}

// ComponentsOf returns the direct BOM edges under a parent item
func (r *GormMasterDataRepository) ComponentsOf(ctx context.Context, parent shared.ItemRef) ([]masterdata.BOMEdge, error) {
	var models []BOMEdgeModel
	err := r.db.WithContext(ctx).
		Where("parent_type = ? AND parent_id = ?", string(parent.Type), parent.ID).
		Order("component_type ASC, component_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list BOM components: %w", err)
	}
	return modelsToBOMEdges(models)
}

// AllBOMEdges returns every edge, used for cycle validation at ingest
func (r *GormMasterDataRepository) AllBOMEdges(ctx context.Context) ([]masterdata.BOMEdge, error) {
	var models []BOMEdgeModel
	err := r.db.WithContext(ctx).
		Order("parent_type ASC, parent_id ASC, component_type ASC, component_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list BOM edges: %w", err)
	}
	return modelsToBOMEdges(models)
}

// SaveBOMEdge upserts one edge on its composite key
func (r *GormMasterDataRepository) SaveBOMEdge(ctx context.Context, edge masterdata.BOMEdge) error {
	model := &BOMEdgeModel{
		ParentType:    string(edge.Parent.Type),
		ParentID:      edge.Parent.ID,
		ComponentType: string(edge.Component.Type),
		ComponentID:   edge.Component.ID,
		Quantity:      edge.Quantity,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "parent_type"}, {Name: "parent_id"},
				{Name: "component_type"}, {Name: "component_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to save BOM edge: %w", err)
	}
	return nil
}

func modelsToBOMEdges(models []BOMEdgeModel) ([]masterdata.BOMEdge, error) {
	edges := make([]masterdata.BOMEdge, 0, len(models))
	for _, m := range models {
		parentType, err := shared.ParseItemType(m.ParentType)
		if err != nil {
			return nil, err
		}
		componentType, err := shared.ParseItemType(m.ComponentType)
		if err != nil {
			return nil, err
		}
		edges = append(edges, masterdata.BOMEdge{
			Parent:    shared.ItemRef{Type: parentType, ID: m.ParentID},
			Component: shared.ItemRef{Type: componentType, ID: m.ComponentID},
			Quantity:  m.Quantity,
		})
	}
	return edges, nil
}
