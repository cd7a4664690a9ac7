package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
)

// GormOrderRepository implements order.Repository using GORM. One instance is
// always bound to a transaction by the unit of work; GetForUpdate takes a row
// lock so status transitions on one order serialize.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// forUpdate applies a row lock where the dialect supports it. SQLite
// serializes writers globally, so the clause is skipped there.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// NextNumber allocates the next typed order number for a prefix. The
// sequence row is locked for the remainder of the ambient transaction.
func (r *GormOrderRepository) NextNumber(ctx context.Context, prefix string) (string, error) {
	var seq OrderSequenceModel
	err := forUpdate(r.db.WithContext(ctx)).Where("prefix = ?", prefix).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = OrderSequenceModel{Prefix: prefix, NextValue: 1}
		if err := r.db.WithContext(ctx).Create(&seq).Error; err != nil {
			return "", fmt.Errorf("failed to create sequence %s: %w", prefix, err)
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to read sequence %s: %w", prefix, err)
	}

	value := seq.NextValue
	seq.NextValue++
	if err := r.db.WithContext(ctx).Save(&seq).Error; err != nil {
		return "", fmt.Errorf("failed to advance sequence %s: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%d", prefix, value), nil
}

func applyListFilter(q *gorm.DB, f order.ListFilter) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	return q.Order("id ASC")
}

// --- customer orders ---

func customerOrderToModel(o *order.CustomerOrder) (*CustomerOrderModel, error) {
	items, err := marshalItems(o.Items())
	if err != nil {
		return nil, err
	}
	return &CustomerOrderModel{
		ID:              o.ID(),
		Number:          o.Number(),
		Status:          string(o.Status()),
		Priority:        string(o.Priority()),
		Notes:           o.Notes(),
		Items:           items,
		TriggerScenario: string(o.TriggerScenario()),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}, nil
}

func modelToCustomerOrder(m *CustomerOrderModel) (*order.CustomerOrder, error) {
	items, err := unmarshalItems(m.Items)
	if err != nil {
		return nil, err
	}
	scenario, err := order.ParseTriggerScenario(m.TriggerScenario)
	if err != nil {
		return nil, err
	}
	return order.ReconstructCustomerOrder(m.ID, m.Number, order.Status(m.Status), shared.Priority(m.Priority),
		m.Notes, items, scenario, m.CreatedAt, m.UpdatedAt), nil
}

// CreateCustomerOrder inserts a new customer order and assigns its id
func (r *GormOrderRepository) CreateCustomerOrder(ctx context.Context, o *order.CustomerOrder) error {
	model, err := customerOrderToModel(o)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create customer order: %w", err)
	}
	o.SetID(model.ID)
	return nil
}

// SaveCustomerOrder persists changes to an existing customer order
func (r *GormOrderRepository) SaveCustomerOrder(ctx context.Context, o *order.CustomerOrder) error {
	model, err := customerOrderToModel(o)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save customer order: %w", err)
	}
	return nil
}

// GetCustomerOrder retrieves one customer order by id
func (r *GormOrderRepository) GetCustomerOrder(ctx context.Context, id int) (*order.CustomerOrder, error) {
	return r.findCustomerOrder(ctx, r.db, id)
}

// GetCustomerOrderForUpdate retrieves one customer order, locking its row
func (r *GormOrderRepository) GetCustomerOrderForUpdate(ctx context.Context, id int) (*order.CustomerOrder, error) {
	return r.findCustomerOrder(ctx, forUpdate(r.db), id)
}

func (r *GormOrderRepository) findCustomerOrder(ctx context.Context, db *gorm.DB, id int) (*order.CustomerOrder, error) {
	var model CustomerOrderModel
	err := db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &order.ErrNotFound{OrderType: order.TypeCustomer, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer order: %w", err)
	}
	return modelToCustomerOrder(&model)
}

// ListCustomerOrders lists customer orders matching the filter
func (r *GormOrderRepository) ListCustomerOrders(ctx context.Context, f order.ListFilter) ([]*order.CustomerOrder, error) {
	var models []CustomerOrderModel
	if err := applyListFilter(r.db.WithContext(ctx), f).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list customer orders: %w", err)
	}
	out := make([]*order.CustomerOrder, 0, len(models))
	for i := range models {
		o, err := modelToCustomerOrder(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// --- warehouse orders ---

func warehouseOrderToModel(o *order.WarehouseOrder) (*WarehouseOrderModel, error) {
	items, err := marshalItems(o.Items())
	if err != nil {
		return nil, err
	}
	return &WarehouseOrderModel{
		ID:                o.ID(),
		Number:            o.Number(),
		Status:            string(o.Status()),
		Priority:          string(o.Priority()),
		Notes:             o.Notes(),
		CustomerOrderID:   o.CustomerOrderID(),
		Items:             items,
		ProductionOrderID: o.ProductionOrderID(),
		TriggerScenario:   string(o.TriggerScenario()),
		CreatedAt:         o.CreatedAt(),
		UpdatedAt:         o.UpdatedAt(),
	}, nil
}

func modelToWarehouseOrder(m *WarehouseOrderModel) (*order.WarehouseOrder, error) {
	items, err := unmarshalItems(m.Items)
	if err != nil {
		return nil, err
	}
	scenario, err := order.ParseTriggerScenario(m.TriggerScenario)
	if err != nil {
		return nil, err
	}
	return order.ReconstructWarehouseOrder(m.ID, m.Number, order.Status(m.Status), shared.Priority(m.Priority),
		m.Notes, m.CustomerOrderID, items, m.ProductionOrderID, scenario, m.CreatedAt, m.UpdatedAt), nil
}

// CreateWarehouseOrder inserts a new warehouse order and assigns its id
func (r *GormOrderRepository) CreateWarehouseOrder(ctx context.Context, o *order.WarehouseOrder) error {
	model, err := warehouseOrderToModel(o)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create warehouse order: %w", err)
	}
	o.SetID(model.ID)
	return nil
}

// SaveWarehouseOrder persists changes to an existing warehouse order
func (r *GormOrderRepository) SaveWarehouseOrder(ctx context.Context, o *order.WarehouseOrder) error {
	model, err := warehouseOrderToModel(o)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save warehouse order: %w", err)
	}
	return nil
}

// GetWarehouseOrder retrieves one warehouse order by id
func (r *GormOrderRepository) GetWarehouseOrder(ctx context.Context, id int) (*order.WarehouseOrder, error) {
	return r.findWarehouseOrder(ctx, r.db, id)
}

// GetWarehouseOrderForUpdate retrieves one warehouse order, locking its row
func (r *GormOrderRepository) GetWarehouseOrderForUpdate(ctx context.Context, id int) (*order.WarehouseOrder, error) {
	return r.findWarehouseOrder(ctx, forUpdate(r.db), id)
}

func (r *GormOrderRepository) findWarehouseOrder(ctx context.Context, db *gorm.DB, id int) (*order.WarehouseOrder, error) {
	var model WarehouseOrderModel
	err := db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &order.ErrNotFound{OrderType: order.TypeWarehouse, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find warehouse order: %w", err)
	}
	return modelToWarehouseOrder(&model)
}

// ListWarehouseOrders lists warehouse orders matching the filter
func (r *GormOrderRepository) ListWarehouseOrders(ctx context.Context, f order.ListFilter) ([]*order.WarehouseOrder, error) {
	var models []WarehouseOrderModel
	if err := applyListFilter(r.db.WithContext(ctx), f).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list warehouse orders: %w", err)
	}
	out := make([]*order.WarehouseOrder, 0, len(models))
	for i := range models {
		o, err := modelToWarehouseOrder(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// FindWarehouseOrdersByCustomer lists the warehouse orders under one customer order
func (r *GormOrderRepository) FindWarehouseOrdersByCustomer(ctx context.Context, customerOrderID int) ([]*order.WarehouseOrder, error) {
	var models []WarehouseOrderModel
	err := r.db.WithContext(ctx).Where("customer_order_id = ?", customerOrderID).Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find warehouse orders by customer: %w", err)
	}
	out := make([]*order.WarehouseOrder, 0, len(models))
	for i := range models {
		o, err := modelToWarehouseOrder(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// --- production orders ---

func productionOrderToModel(o *order.ProductionOrder) *ProductionOrderModel {
	return &ProductionOrderModel{
		ID:                     o.ID(),
		Number:                 o.Number(),
		Status:                 string(o.Status()),
		Priority:               string(o.Priority()),
		Notes:                  o.Notes(),
		SourceCustomerOrderID:  o.SourceCustomerOrderID(),
		SourceWarehouseOrderID: o.SourceWarehouseOrderID(),
		ScheduleID:             o.ScheduleID(),
		DueDate:                o.DueDate(),
		CreatedAt:              o.CreatedAt(),
		UpdatedAt:              o.UpdatedAt(),
	}
}

func modelToProductionOrder(m *ProductionOrderModel) *order.ProductionOrder {
	return order.ReconstructProductionOrder(m.ID, m.Number, order.Status(m.Status), shared.Priority(m.Priority),
		m.Notes, m.SourceCustomerOrderID, m.SourceWarehouseOrderID, m.ScheduleID, m.DueDate, m.CreatedAt, m.UpdatedAt)
}

// CreateProductionOrder inserts a new production order and assigns its id
func (r *GormOrderRepository) CreateProductionOrder(ctx context.Context, o *order.ProductionOrder) error {
	model := productionOrderToModel(o)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create production order: %w", err)
	}
	o.SetID(model.ID)
	return nil
}

// SaveProductionOrder persists changes to an existing production order
func (r *GormOrderRepository) SaveProductionOrder(ctx context.Context, o *order.ProductionOrder) error {
	if err := r.db.WithContext(ctx).Save(productionOrderToModel(o)).Error; err != nil {
		return fmt.Errorf("failed to save production order: %w", err)
	}
	return nil
}

// GetProductionOrder retrieves one production order by id
func (r *GormOrderRepository) GetProductionOrder(ctx context.Context, id int) (*order.ProductionOrder, error) {
	return r.findProductionOrder(ctx, r.db, id)
}

// GetProductionOrderForUpdate retrieves one production order, locking its row
func (r *GormOrderRepository) GetProductionOrderForUpdate(ctx context.Context, id int) (*order.ProductionOrder, error) {
	return r.findProductionOrder(ctx, forUpdate(r.db), id)
}

func (r *GormOrderRepository) findProductionOrder(ctx context.Context, db *gorm.DB, id int) (*order.ProductionOrder, error) {
	var model ProductionOrderModel
	err := db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &order.ErrNotFound{OrderType: order.TypeProduction, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find production order: %w", err)
	}
	return modelToProductionOrder(&model), nil
}

// ListProductionOrders lists production orders matching the filter
func (r *GormOrderRepository) ListProductionOrders(ctx context.Context, f order.ListFilter) ([]*order.ProductionOrder, error) {
	var models []ProductionOrderModel
	if err := applyListFilter(r.db.WithContext(ctx), f).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list production orders: %w", err)
	}
	out := make([]*order.ProductionOrder, 0, len(models))
	for i := range models {
		out = append(out, modelToProductionOrder(&models[i]))
	}
	return out, nil
}

// FindProductionOrdersByCustomer lists the campaigns sourced from one customer order
func (r *GormOrderRepository) FindProductionOrdersByCustomer(ctx context.Context, customerOrderID int) ([]*order.ProductionOrder, error) {
	var models []ProductionOrderModel
	err := r.db.WithContext(ctx).Where("source_customer_order_id = ?", customerOrderID).Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find production orders by customer: %w", err)
	}
	out := make([]*order.ProductionOrder, 0, len(models))
	for i := range models {
		out = append(out, modelToProductionOrder(&models[i]))
	}
	return out, nil
}
