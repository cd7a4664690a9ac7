package order

import "context"

// ListFilter narrows order list queries. Zero values mean "no filter".
type ListFilter struct {
	Status        Status
	WorkstationID int
	Limit         int
	Offset        int
}

// Repository defines persistence for the whole order hierarchy. All writes
// performed through a repository obtained from UnitOfWork.InTransaction share
// one transaction; status transitions on a single order are serialized by the
// row lock taken on read-for-update.
type Repository interface {
	// NextNumber allocates the next typed order number for a prefix, e.g.
	// ("CO") -> "CO-7". Allocation happens inside the ambient transaction.
	NextNumber(ctx context.Context, prefix string) (string, error)

	CreateCustomerOrder(ctx context.Context, o *CustomerOrder) error
	SaveCustomerOrder(ctx context.Context, o *CustomerOrder) error
	GetCustomerOrder(ctx context.Context, id int) (*CustomerOrder, error)
	GetCustomerOrderForUpdate(ctx context.Context, id int) (*CustomerOrder, error)
	ListCustomerOrders(ctx context.Context, f ListFilter) ([]*CustomerOrder, error)

	CreateWarehouseOrder(ctx context.Context, o *WarehouseOrder) error
	SaveWarehouseOrder(ctx context.Context, o *WarehouseOrder) error
	GetWarehouseOrder(ctx context.Context, id int) (*WarehouseOrder, error)
	GetWarehouseOrderForUpdate(ctx context.Context, id int) (*WarehouseOrder, error)
	ListWarehouseOrders(ctx context.Context, f ListFilter) ([]*WarehouseOrder, error)
	FindWarehouseOrdersByCustomer(ctx context.Context, customerOrderID int) ([]*WarehouseOrder, error)

	CreateProductionOrder(ctx context.Context, o *ProductionOrder) error
	SaveProductionOrder(ctx context.Context, o *ProductionOrder) error
	GetProductionOrder(ctx context.Context, id int) (*ProductionOrder, error)
	GetProductionOrderForUpdate(ctx context.Context, id int) (*ProductionOrder, error)
	ListProductionOrders(ctx context.Context, f ListFilter) ([]*ProductionOrder, error)
	FindProductionOrdersByCustomer(ctx context.Context, customerOrderID int) ([]*ProductionOrder, error)

	CreateControlOrder(ctx context.Context, o *ControlOrder) error
	SaveControlOrder(ctx context.Context, o *ControlOrder) error
	GetControlOrder(ctx context.Context, id int) (*ControlOrder, error)
	GetControlOrderForUpdate(ctx context.Context, id int) (*ControlOrder, error)
	FindControlOrdersByProduction(ctx context.Context, productionOrderID int) ([]*ControlOrder, error)

	CreateWorkstationOrder(ctx context.Context, o *WorkstationOrder) error
	SaveWorkstationOrder(ctx context.Context, o *WorkstationOrder) error
	GetWorkstationOrder(ctx context.Context, id int) (*WorkstationOrder, error)
	GetWorkstationOrderForUpdate(ctx context.Context, id int) (*WorkstationOrder, error)
	FindWorkstationOrdersByControl(ctx context.Context, controlOrderID int) ([]*WorkstationOrder, error)
	ListWorkstationOrders(ctx context.Context, f ListFilter) ([]*WorkstationOrder, error)

	CreateSupplyOrder(ctx context.Context, o *SupplyOrder) error
	SaveSupplyOrder(ctx context.Context, o *SupplyOrder) error
	GetSupplyOrder(ctx context.Context, id int) (*SupplyOrder, error)
	GetSupplyOrderForUpdate(ctx context.Context, id int) (*SupplyOrder, error)
	FindSupplyOrdersByControl(ctx context.Context, controlOrderID int) ([]*SupplyOrder, error)
	ListSupplyOrders(ctx context.Context, f ListFilter) ([]*SupplyOrder, error)

	CreateFinalAssemblyOrder(ctx context.Context, o *FinalAssemblyOrder) error
	SaveFinalAssemblyOrder(ctx context.Context, o *FinalAssemblyOrder) error
	GetFinalAssemblyOrder(ctx context.Context, id int) (*FinalAssemblyOrder, error)
	GetFinalAssemblyOrderForUpdate(ctx context.Context, id int) (*FinalAssemblyOrder, error)
	FindFinalAssemblyOrdersByWarehouse(ctx context.Context, warehouseOrderID int) ([]*FinalAssemblyOrder, error)
	FindFinalAssemblyOrdersByProduction(ctx context.Context, productionOrderID int) ([]*FinalAssemblyOrder, error)
	ListFinalAssemblyOrders(ctx context.Context, f ListFilter) ([]*FinalAssemblyOrder, error)
}

// UnitOfWork opens a transaction over the order store. The repository passed
// to fn is bound to that transaction; returning an error rolls everything
// back.
type UnitOfWork interface {
	InTransaction(ctx context.Context, fn func(repo Repository) error) error
}
