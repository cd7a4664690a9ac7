package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
)

// --- control orders ---

func controlOrderToModel(o *order.ControlOrder) *ControlOrderModel {
	return &ControlOrderModel{
		ID:                    o.ID(),
		Number:                o.Number(),
		Status:                string(o.Status()),
		Priority:              string(o.Priority()),
		Notes:                 o.Notes(),
		ProductionOrderID:     o.ProductionOrderID(),
		Kind:                  string(o.Kind()),
		AssignedWorkstationID: o.AssignedWorkstationID(),
		TaskID:                o.TaskID(),
		ItemType:              string(o.Item().Type),
		ItemID:                o.Item().ID,
		Quantity:              o.Quantity(),
		Sequence:              o.Sequence(),
		PlannedStart:          o.PlannedStart(),
		PlannedEnd:            o.PlannedEnd(),
		CreatedAt:             o.CreatedAt(),
		UpdatedAt:             o.UpdatedAt(),
	}
}

func modelToControlOrder(m *ControlOrderModel) *order.ControlOrder {
	return order.ReconstructControlOrder(m.ID, m.Number, order.Status(m.Status), shared.Priority(m.Priority),
		m.Notes, m.ProductionOrderID, order.ControlKind(m.Kind), m.AssignedWorkstationID, m.TaskID,
		shared.ItemRef{Type: shared.ItemType(m.ItemType), ID: m.ItemID},
		m.Quantity, m.Sequence, m.PlannedStart, m.PlannedEnd, m.CreatedAt, m.UpdatedAt)
}

// CreateControlOrder inserts a new control order and assigns its id
func (r *GormOrderRepository) CreateControlOrder(ctx context.Context, o *order.ControlOrder) error {
	model := controlOrderToModel(o)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create control order: %w", err)
	}
	o.SetID(model.ID)
	return nil
}

// SaveControlOrder persists changes to an existing control order
func (r *GormOrderRepository) SaveControlOrder(ctx context.Context, o *order.ControlOrder) error {
	if err := r.db.WithContext(ctx).Save(controlOrderToModel(o)).Error; err != nil {
		return fmt.Errorf("failed to save control order: %w", err)
	}
	return nil
}

// GetControlOrder retrieves one control order by id
func (r *GormOrderRepository) GetControlOrder(ctx context.Context, id int) (*order.ControlOrder, error) {
	return r.findControlOrder(ctx, r.db, id)
}

// GetControlOrderForUpdate retrieves one control order, locking its row
func (r *GormOrderRepository) GetControlOrderForUpdate(ctx context.Context, id int) (*order.ControlOrder, error) {
	return r.findControlOrder(ctx, forUpdate(r.db), id)
}

func (r *GormOrderRepository) findControlOrder(ctx context.Context, db *gorm.DB, id int) (*order.ControlOrder, error) {
	var model ControlOrderModel
	err := db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &order.ErrNotFound{OrderType: order.TypeControl, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find control order: %w", err)
	}
	return modelToControlOrder(&model), nil
}

// FindControlOrdersByProduction lists the control orders of one campaign in
// scheduled sequence order.
func (r *GormOrderRepository) FindControlOrdersByProduction(ctx context.Context, productionOrderID int) ([]*order.ControlOrder, error) {
	var models []ControlOrderModel
	err := r.db.WithContext(ctx).
		Where("production_order_id = ?", productionOrderID).
		Order("sequence ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find control orders by production: %w", err)
	}
	out := make([]*order.ControlOrder, 0, len(models))
	for i := range models {
		out = append(out, modelToControlOrder(&models[i]))
	}
	return out, nil
}

// --- workstation orders ---

func workstationOrderToModel(o *order.WorkstationOrder) *WorkstationOrderModel {
	return &WorkstationOrderModel{
		ID:             o.ID(),
		Number:         o.Number(),
		Status:         string(o.Status()),
		Priority:       string(o.Priority()),
		Notes:          o.Notes(),
		ControlOrderID: o.ControlOrderID(),
		Kind:           string(o.Kind()),
		WorkstationID:  o.WorkstationID(),
		ItemType:       string(o.Item().Type),
		ItemID:         o.Item().ID,
		Quantity:       o.Quantity(),
		SupplyOrderID:  o.SupplyOrderID(),
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
	}
}

func modelToWorkstationOrder(m *WorkstationOrderModel) *order.WorkstationOrder {
	return order.ReconstructWorkstationOrder(m.ID, m.Number, order.Status(m.Status), shared.Priority(m.Priority),
		m.Notes, m.ControlOrderID, order.WorkKind(m.Kind), m.WorkstationID,
		shared.ItemRef{Type: shared.ItemType(m.ItemType), ID: m.ItemID},
		m.Quantity, m.SupplyOrderID, m.CreatedAt, m.UpdatedAt)
}

// CreateWorkstationOrder inserts a new workstation order and assigns its id
func (r *GormOrderRepository) CreateWorkstationOrder(ctx context.Context, o *order.WorkstationOrder) error {
	model := workstationOrderToModel(o)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create workstation order: %w", err)
	}
	o.SetID(model.ID)
	return nil
}

// SaveWorkstationOrder persists changes to an existing workstation order
func (r *GormOrderRepository) SaveWorkstationOrder(ctx context.Context, o *order.WorkstationOrder) error {
	if err := r.db.WithContext(ctx).Save(workstationOrderToModel(o)).Error; err != nil {
		return fmt.Errorf("failed to save workstation order: %w", err)
	}
	return nil
}

// GetWorkstationOrder retrieves one workstation order by id
func (r *GormOrderRepository) GetWorkstationOrder(ctx context.Context, id int) (*order.WorkstationOrder, error) {
	return r.findWorkstationOrder(ctx, r.db, id)
}

// GetWorkstationOrderForUpdate retrieves one workstation order, locking its row
func (r *GormOrderRepository) GetWorkstationOrderForUpdate(ctx context.Context, id int) (*order.WorkstationOrder, error) {
	return r.findWorkstationOrder(ctx, forUpdate(r.db), id)
}

func (r *GormOrderRepository) findWorkstationOrder(ctx context.Context, db *gorm.DB, id int) (*order.WorkstationOrder, error) {
	var model WorkstationOrderModel
	err := db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &order.ErrNotFound{OrderType: order.TypeWorkstation, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find workstation order: %w", err)
	}
	return modelToWorkstationOrder(&model), nil
}

// FindWorkstationOrdersByControl lists the workstation orders under one control order
func (r *GormOrderRepository) FindWorkstationOrdersByControl(ctx context.Context, controlOrderID int) ([]*order.WorkstationOrder, error) {
	var models []WorkstationOrderModel
	err := r.db.WithContext(ctx).Where("control_order_id = ?", controlOrderID).Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find workstation orders by control: %w", err)
	}
	out := make([]*order.WorkstationOrder, 0, len(models))
	for i := range models {
		out = append(out, modelToWorkstationOrder(&models[i]))
	}
	return out, nil
}

// ListWorkstationOrders lists workstation orders, optionally scoped to one
// cell's queue.
func (r *GormOrderRepository) ListWorkstationOrders(ctx context.Context, f order.ListFilter) ([]*order.WorkstationOrder, error) {
	q := applyListFilter(r.db.WithContext(ctx), f)
	if f.WorkstationID > 0 {
		q = q.Where("workstation_id = ?", f.WorkstationID)
	}
	var models []WorkstationOrderModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list workstation orders: %w", err)
	}
	out := make([]*order.WorkstationOrder, 0, len(models))
	for i := range models {
		out = append(out, modelToWorkstationOrder(&models[i]))
	}
	return out, nil
}

// --- supply orders ---

func supplyOrderToModel(o *order.SupplyOrder) (*SupplyOrderModel, error) {
	items, err := marshalItems(o.Items())
	if err != nil {
		return nil, err
	}
	return &SupplyOrderModel{
		ID:                      o.ID(),
		Number:                  o.Number(),
		Status:                  string(o.Status()),
		Priority:                string(o.Priority()),
		Notes:                   o.Notes(),
		ControlOrderID:          o.ControlOrderID(),
		RequestingWorkstationID: o.RequestingWorkstationID(),
		Items:                   items,
		CreatedAt:               o.CreatedAt(),
		UpdatedAt:               o.UpdatedAt(),
	}, nil
}

func modelToSupplyOrder(m *SupplyOrderModel) (*order.SupplyOrder, error) {
	items, err := unmarshalItems(m.Items)
	if err != nil {
		return nil, err
	}
	return order.ReconstructSupplyOrder(m.ID, m.Number, order.Status(m.Status), shared.Priority(m.Priority),
		m.Notes, m.ControlOrderID, m.RequestingWorkstationID, items, m.CreatedAt, m.UpdatedAt), nil
}

// CreateSupplyOrder inserts a new supply order and assigns its id
func (r *GormOrderRepository) CreateSupplyOrder(ctx context.Context, o *order.SupplyOrder) error {
	model, err := supplyOrderToModel(o)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create supply order: %w", err)
	}
	o.SetID(model.ID)
	return nil
}

// SaveSupplyOrder persists changes to an existing supply order
func (r *GormOrderRepository) SaveSupplyOrder(ctx context.Context, o *order.SupplyOrder) error {
	model, err := supplyOrderToModel(o)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save supply order: %w", err)
	}
	return nil
}

// GetSupplyOrder retrieves one supply order by id
func (r *GormOrderRepository) GetSupplyOrder(ctx context.Context, id int) (*order.SupplyOrder, error) {
	return r.findSupplyOrder(ctx, r.db, id)
}

// GetSupplyOrderForUpdate retrieves one supply order, locking its row
func (r *GormOrderRepository) GetSupplyOrderForUpdate(ctx context.Context, id int) (*order.SupplyOrder, error) {
	return r.findSupplyOrder(ctx, forUpdate(r.db), id)
}

func (r *GormOrderRepository) findSupplyOrder(ctx context.Context, db *gorm.DB, id int) (*order.SupplyOrder, error) {
	var model SupplyOrderModel
	err := db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &order.ErrNotFound{OrderType: order.TypeSupply, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find supply order: %w", err)
	}
	return modelToSupplyOrder(&model)
}

// FindSupplyOrdersByControl lists the supply orders under one control order
func (r *GormOrderRepository) FindSupplyOrdersByControl(ctx context.Context, controlOrderID int) ([]*order.SupplyOrder, error) {
	var models []SupplyOrderModel
	err := r.db.WithContext(ctx).Where("control_order_id = ?", controlOrderID).Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find supply orders by control: %w", err)
	}
	out := make([]*order.SupplyOrder, 0, len(models))
	for i := range models {
		o, err := modelToSupplyOrder(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// ListSupplyOrders lists supply orders matching the filter
func (r *GormOrderRepository) ListSupplyOrders(ctx context.Context, f order.ListFilter) ([]*order.SupplyOrder, error) {
	var models []SupplyOrderModel
	if err := applyListFilter(r.db.WithContext(ctx), f).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list supply orders: %w", err)
	}
	out := make([]*order.SupplyOrder, 0, len(models))
	for i := range models {
		o, err := modelToSupplyOrder(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// --- final assembly orders ---

func finalAssemblyOrderToModel(o *order.FinalAssemblyOrder) *FinalAssemblyOrderModel {
	return &FinalAssemblyOrderModel{
		ID:                o.ID(),
		Number:            o.Number(),
		Status:            string(o.Status()),
		Priority:          string(o.Priority()),
		Notes:             o.Notes(),
		WarehouseOrderID:  o.WarehouseOrderID(),
		ProductionOrderID: o.ProductionOrderID(),
		OutputProductID:   o.OutputProductID(),
		OutputQuantity:    o.OutputQuantity(),
		CreatedAt:         o.CreatedAt(),
		UpdatedAt:         o.UpdatedAt(),
	}
}

func modelToFinalAssemblyOrder(m *FinalAssemblyOrderModel) *order.FinalAssemblyOrder {
	return order.ReconstructFinalAssemblyOrder(m.ID, m.Number, order.Status(m.Status), shared.Priority(m.Priority),
		m.Notes, m.WarehouseOrderID, m.ProductionOrderID, m.OutputProductID, m.OutputQuantity, m.CreatedAt, m.UpdatedAt)
}

// CreateFinalAssemblyOrder inserts a new final assembly order and assigns its id
func (r *GormOrderRepository) CreateFinalAssemblyOrder(ctx context.Context, o *order.FinalAssemblyOrder) error {
	model := finalAssemblyOrderToModel(o)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create final assembly order: %w", err)
	}
	o.SetID(model.ID)
	return nil
}

// SaveFinalAssemblyOrder persists changes to an existing final assembly order
func (r *GormOrderRepository) SaveFinalAssemblyOrder(ctx context.Context, o *order.FinalAssemblyOrder) error {
	if err := r.db.WithContext(ctx).Save(finalAssemblyOrderToModel(o)).Error; err != nil {
		return fmt.Errorf("failed to save final assembly order: %w", err)
	}
	return nil
}

// GetFinalAssemblyOrder retrieves one final assembly order by id
func (r *GormOrderRepository) GetFinalAssemblyOrder(ctx context.Context, id int) (*order.FinalAssemblyOrder, error) {
	return r.findFinalAssemblyOrder(ctx, r.db, id)
}

// GetFinalAssemblyOrderForUpdate retrieves one final assembly order, locking its row
func (r *GormOrderRepository) GetFinalAssemblyOrderForUpdate(ctx context.Context, id int) (*order.FinalAssemblyOrder, error) {
	return r.findFinalAssemblyOrder(ctx, forUpdate(r.db), id)
}

func (r *GormOrderRepository) findFinalAssemblyOrder(ctx context.Context, db *gorm.DB, id int) (*order.FinalAssemblyOrder, error) {
	var model FinalAssemblyOrderModel
	err := db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &order.ErrNotFound{OrderType: order.TypeFinalAssembly, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find final assembly order: %w", err)
	}
	return modelToFinalAssemblyOrder(&model), nil
}

// FindFinalAssemblyOrdersByWarehouse lists the FA orders under one warehouse order
func (r *GormOrderRepository) FindFinalAssemblyOrdersByWarehouse(ctx context.Context, warehouseOrderID int) ([]*order.FinalAssemblyOrder, error) {
	var models []FinalAssemblyOrderModel
	err := r.db.WithContext(ctx).Where("warehouse_order_id = ?", warehouseOrderID).Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find final assembly orders by warehouse: %w", err)
	}
	out := make([]*order.FinalAssemblyOrder, 0, len(models))
	for i := range models {
		out = append(out, modelToFinalAssemblyOrder(&models[i]))
	}
	return out, nil
}

// FindFinalAssemblyOrdersByProduction lists the FA orders under one campaign
func (r *GormOrderRepository) FindFinalAssemblyOrdersByProduction(ctx context.Context, productionOrderID int) ([]*order.FinalAssemblyOrder, error) {
	var models []FinalAssemblyOrderModel
	err := r.db.WithContext(ctx).Where("production_order_id = ?", productionOrderID).Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find final assembly orders by production: %w", err)
	}
	out := make([]*order.FinalAssemblyOrder, 0, len(models))
	for i := range models {
		out = append(out, modelToFinalAssemblyOrder(&models[i]))
	}
	return out, nil
}

// ListFinalAssemblyOrders lists final assembly orders matching the filter
func (r *GormOrderRepository) ListFinalAssemblyOrders(ctx context.Context, f order.ListFilter) ([]*order.FinalAssemblyOrder, error) {
	var models []FinalAssemblyOrderModel
	if err := applyListFilter(r.db.WithContext(ctx), f).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list final assembly orders: %w", err)
	}
	out := make([]*order.FinalAssemblyOrder, 0, len(models))
	for i := range models {
		out = append(out, modelToFinalAssemblyOrder(&models[i]))
	}
	return out, nil
}
