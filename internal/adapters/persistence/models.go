package persistence

import (
	"time"
)

// OrderSequenceModel represents the order_sequences table, one row per typed
// number prefix (CO, WO, PO, ...).
type OrderSequenceModel struct {
	Prefix    string `gorm:"column:prefix;primaryKey"`
	NextValue int    `gorm:"column:next_value;not null;default:1"`
}

func (OrderSequenceModel) TableName() string {
	return "order_sequences"
}

// CustomerOrderModel represents the customer_orders table. Order items are
// stored as a JSON array in text.
type CustomerOrderModel struct {
	ID              int       `gorm:"column:id;primaryKey;autoIncrement"`
	Number          string    `gorm:"column:number;unique;not null"`
	Status          string    `gorm:"column:status;not null;index"`
	Priority        string    `gorm:"column:priority;not null"`
	Notes           string    `gorm:"column:notes;type:text"`
	Items           string    `gorm:"column:items;type:text;not null"` // JSON array as text
	TriggerScenario string    `gorm:"column:trigger_scenario"`
	CreatedAt       time.Time `gorm:"column:created_at;not null"`
	UpdatedAt       time.Time `gorm:"column:updated_at;not null"`
}

func (CustomerOrderModel) TableName() string {
	return "customer_orders"
}

// WarehouseOrderModel represents the warehouse_orders table
type WarehouseOrderModel struct {
	ID                int       `gorm:"column:id;primaryKey;autoIncrement"`
	Number            string    `gorm:"column:number;unique;not null"`
	Status            string    `gorm:"column:status;not null;index"`
	Priority          string    `gorm:"column:priority;not null"`
	Notes             string    `gorm:"column:notes;type:text"`
	CustomerOrderID   int       `gorm:"column:customer_order_id;not null;index"`
	Items             string    `gorm:"column:items;type:text;not null"` // JSON array as text
	ProductionOrderID *int      `gorm:"column:production_order_id"`
	TriggerScenario   string    `gorm:"column:trigger_scenario"`
	CreatedAt         time.Time `gorm:"column:created_at;not null"`
	UpdatedAt         time.Time `gorm:"column:updated_at;not null"`
}

func (WarehouseOrderModel) TableName() string {
	return "warehouse_orders"
}

// ProductionOrderModel represents the production_orders table
type ProductionOrderModel struct {
	ID                     int        `gorm:"column:id;primaryKey;autoIncrement"`
	Number                 string     `gorm:"column:number;unique;not null"`
	Status                 string     `gorm:"column:status;not null;index"`
	Priority               string     `gorm:"column:priority;not null"`
	Notes                  string     `gorm:"column:notes;type:text"`
	SourceCustomerOrderID  *int       `gorm:"column:source_customer_order_id;index"`
	SourceWarehouseOrderID *int       `gorm:"column:source_warehouse_order_id;index"`
	ScheduleID             string     `gorm:"column:schedule_id"`
	DueDate                *time.Time `gorm:"column:due_date"`
	CreatedAt              time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt              time.Time  `gorm:"column:updated_at;not null"`
}

func (ProductionOrderModel) TableName() string {
	return "production_orders"
}

// ControlOrderModel represents the control_orders table, holding both PCO and
// ACO rows discriminated by kind.
type ControlOrderModel struct {
	ID                    int        `gorm:"column:id;primaryKey;autoIncrement"`
	Number                string     `gorm:"column:number;unique;not null"`
	Status                string     `gorm:"column:status;not null;index"`
	Priority              string     `gorm:"column:priority;not null"`
	Notes                 string     `gorm:"column:notes;type:text"`
	ProductionOrderID     int        `gorm:"column:production_order_id;not null;index"`
	Kind                  string     `gorm:"column:kind;not null"`
	AssignedWorkstationID int        `gorm:"column:assigned_workstation_id;not null;index"`
	TaskID                string     `gorm:"column:task_id"`
	ItemType              string     `gorm:"column:item_type;not null"`
	ItemID                int        `gorm:"column:item_id;not null"`
	Quantity              int        `gorm:"column:quantity;not null"`
	Sequence              int        `gorm:"column:sequence;not null"`
	PlannedStart          *time.Time `gorm:"column:planned_start"`
	PlannedEnd            *time.Time `gorm:"column:planned_end"`
	CreatedAt             time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt             time.Time  `gorm:"column:updated_at;not null"`
}

func (ControlOrderModel) TableName() string {
	return "control_orders"
}

// WorkstationOrderModel represents the workstation_orders table
type WorkstationOrderModel struct {
	ID             int       `gorm:"column:id;primaryKey;autoIncrement"`
	Number         string    `gorm:"column:number;unique;not null"`
	Status         string    `gorm:"column:status;not null;index"`
	Priority       string    `gorm:"column:priority;not null"`
	Notes          string    `gorm:"column:notes;type:text"`
	ControlOrderID int       `gorm:"column:control_order_id;not null;index"`
	Kind           string    `gorm:"column:kind;not null"`
	WorkstationID  int       `gorm:"column:workstation_id;not null;index"`
	ItemType       string    `gorm:"column:item_type;not null"`
	ItemID         int       `gorm:"column:item_id;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	SupplyOrderID  *int      `gorm:"column:supply_order_id"`
	CreatedAt      time.Time `gorm:"column:created_at;not null"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null"`
}

func (WorkstationOrderModel) TableName() string {
	return "workstation_orders"
}

// SupplyOrderModel represents the supply_orders table
type SupplyOrderModel struct {
	ID                      int       `gorm:"column:id;primaryKey;autoIncrement"`
	Number                  string    `gorm:"column:number;unique;not null"`
	Status                  string    `gorm:"column:status;not null;index"`
	Priority                string    `gorm:"column:priority;not null"`
	Notes                   string    `gorm:"column:notes;type:text"`
	ControlOrderID          int       `gorm:"column:control_order_id;not null;index"`
	RequestingWorkstationID int       `gorm:"column:requesting_workstation_id;not null"`
	Items                   string    `gorm:"column:items;type:text;not null"` // JSON array as text
	CreatedAt               time.Time `gorm:"column:created_at;not null"`
	UpdatedAt               time.Time `gorm:"column:updated_at;not null"`
}

func (SupplyOrderModel) TableName() string {
	return "supply_orders"
}

// FinalAssemblyOrderModel represents the final_assembly_orders table
type FinalAssemblyOrderModel struct {
	ID                int       `gorm:"column:id;primaryKey;autoIncrement"`
	Number            string    `gorm:"column:number;unique;not null"`
	Status            string    `gorm:"column:status;not null;index"`
	Priority          string    `gorm:"column:priority;not null"`
	Notes             string    `gorm:"column:notes;type:text"`
	WarehouseOrderID  *int      `gorm:"column:warehouse_order_id;index"`
	ProductionOrderID *int      `gorm:"column:production_order_id;index"`
	OutputProductID   int       `gorm:"column:output_product_id;not null"`
	OutputQuantity    int       `gorm:"column:output_quantity;not null"`
	CreatedAt         time.Time `gorm:"column:created_at;not null"`
	UpdatedAt         time.Time `gorm:"column:updated_at;not null"`
}

func (FinalAssemblyOrderModel) TableName() string {
	return "final_assembly_orders"
}

// StockRecordModel represents the stock_records table. Primary key is the
// composite stock key (workstation, item type, item id).
type StockRecordModel struct {
	WorkstationID int       `gorm:"column:workstation_id;primaryKey"`
	ItemType      string    `gorm:"column:item_type;primaryKey"`
	ItemID        int       `gorm:"column:item_id;primaryKey"`
	Quantity      int       `gorm:"column:quantity;not null"`
	LastUpdated   time.Time `gorm:"column:last_updated;not null"`
}

func (StockRecordModel) TableName() string {
	return "stock_records"
}

// StockLedgerEntryModel represents the stock_ledger_entries table. Rows are
// append-only and never updated.
type StockLedgerEntryModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	Timestamp     time.Time `gorm:"column:timestamp;not null;index"`
	WorkstationID int       `gorm:"column:workstation_id;not null;index:idx_ledger_key"`
	ItemType      string    `gorm:"column:item_type;not null;index:idx_ledger_key"`
	ItemID        int       `gorm:"column:item_id;not null;index:idx_ledger_key"`
	Delta         int       `gorm:"column:delta;not null"`
	Reason        string    `gorm:"column:reason;not null"`
	RefOrderType  string    `gorm:"column:ref_order_type"`
	RefOrderID    int       `gorm:"column:ref_order_id"`
	Actor         string    `gorm:"column:actor"`
}

func (StockLedgerEntryModel) TableName() string {
	return "stock_ledger_entries"
}

// IdempotencyRecordModel represents the idempotency_records table
type IdempotencyRecordModel struct {
	Key         string    `gorm:"column:key;primaryKey"`
	NewQuantity int       `gorm:"column:new_quantity;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (IdempotencyRecordModel) TableName() string {
	return "idempotency_records"
}

// WorkstationModel represents the workstations table
type WorkstationModel struct {
	ID   int    `gorm:"column:id;primaryKey"`
	Role string `gorm:"column:role;not null"`
	Name string `gorm:"column:name;not null"`
}

func (WorkstationModel) TableName() string {
	return "workstations"
}

// ProductModel represents the products table
type ProductModel struct {
	ID          int    `gorm:"column:id;primaryKey"`
	Name        string `gorm:"column:name;not null"`
	Description string `gorm:"column:description;type:text"`
}

func (ProductModel) TableName() string {
	return "products"
}

// ModuleModel represents the modules table
type ModuleModel struct {
	ID                      int    `gorm:"column:id;primaryKey"`
	Name                    string `gorm:"column:name;not null"`
	ProductionWorkstationID int    `gorm:"column:production_workstation_id;not null"`
	EstimatedTimeMinutes    int    `gorm:"column:estimated_time_minutes;not null;default:0"`
}

func (ModuleModel) TableName() string {
	return "modules"
}

// PartModel represents the parts table
type PartModel struct {
	ID   int    `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;not null"`
}

func (PartModel) TableName() string {
	return "parts"
}

// BOMEdgeModel represents the bom_edges table
type BOMEdgeModel struct {
	ParentType    string `gorm:"column:parent_type;primaryKey"`
	ParentID      int    `gorm:"column:parent_id;primaryKey"`
	ComponentType string `gorm:"column:component_type;primaryKey"`
	ComponentID   int    `gorm:"column:component_id;primaryKey"`
	Quantity      int    `gorm:"column:quantity;not null"`
}

func (BOMEdgeModel) TableName() string {
	return "bom_edges"
}

// SystemConfigModel represents the system_configurations table
type SystemConfigModel struct {
	Key   string `gorm:"column:key;primaryKey"`
	Value string `gorm:"column:value;not null"`
}

func (SystemConfigModel) TableName() string {
	return "system_configurations"
}

// UserModel represents the users table
type UserModel struct {
	ID            int       `gorm:"column:id;primaryKey;autoIncrement"`
	Username      string    `gorm:"column:username;unique;not null"`
	PasswordHash  string    `gorm:"column:password_hash;not null"`
	Role          string    `gorm:"column:role;not null"`
	WorkstationID *int      `gorm:"column:workstation_id"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
}

func (UserModel) TableName() string {
	return "users"
}

// AllModels lists every model for auto-migration
func AllModels() []interface{} {
	return []interface{}{
		&OrderSequenceModel{},
		&CustomerOrderModel{},
		&WarehouseOrderModel{},
		&ProductionOrderModel{},
		&ControlOrderModel{},
		&WorkstationOrderModel{},
		&SupplyOrderModel{},
		&FinalAssemblyOrderModel{},
		&StockRecordModel{},
		&StockLedgerEntryModel{},
		&IdempotencyRecordModel{},
		&WorkstationModel{},
		&ProductModel{},
		&ModuleModel{},
		&PartModel{},
		&BOMEdgeModel{},
		&SystemConfigModel{},
		&UserModel{},
	}
}
