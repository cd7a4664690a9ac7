package orders

import (
	"context"

	"github.com/modelfactory/mes/internal/domain/order"
)

func (s *Service) getCustomerOrder(ctx context.Context, id int) (*order.CustomerOrder, error) {
	var co *order.CustomerOrder
	err := s.read(ctx, func(repo order.Repository) error {
		var err error
		co, err = repo.GetCustomerOrder(ctx, id)
		return err
	})
	return co, err
}

func (s *Service) getWarehouseOrder(ctx context.Context, id int) (*order.WarehouseOrder, error) {
	var wo *order.WarehouseOrder
	err := s.read(ctx, func(repo order.Repository) error {
		var err error
		wo, err = repo.GetWarehouseOrder(ctx, id)
		return err
	})
	return wo, err
}

func (s *Service) getProductionOrder(ctx context.Context, id int) (*order.ProductionOrder, error) {
	var po *order.ProductionOrder
	err := s.read(ctx, func(repo order.Repository) error {
		var err error
		po, err = repo.GetProductionOrder(ctx, id)
		return err
	})
	return po, err
}

func (s *Service) getControlOrder(ctx context.Context, id int) (*order.ControlOrder, error) {
	var co *order.ControlOrder
	err := s.read(ctx, func(repo order.Repository) error {
		var err error
		co, err = repo.GetControlOrder(ctx, id)
		return err
	})
	return co, err
}

func (s *Service) getWorkstationOrder(ctx context.Context, id int) (*order.WorkstationOrder, error) {
	var wso *order.WorkstationOrder
	err := s.read(ctx, func(repo order.Repository) error {
		var err error
		wso, err = repo.GetWorkstationOrder(ctx, id)
		return err
	})
	return wso, err
}

func (s *Service) getSupplyOrder(ctx context.Context, id int) (*order.SupplyOrder, error) {
	var so *order.SupplyOrder
	err := s.read(ctx, func(repo order.Repository) error {
		var err error
		so, err = repo.GetSupplyOrder(ctx, id)
		return err
	})
	return so, err
}

func (s *Service) getFinalAssemblyOrder(ctx context.Context, id int) (*order.FinalAssemblyOrder, error) {
	var fa *order.FinalAssemblyOrder
	err := s.read(ctx, func(repo order.Repository) error {
		var err error
		fa, err = repo.GetFinalAssemblyOrder(ctx, id)
		return err
	})
	return fa, err
}

// GetCustomerOrder returns one customer order
func (s *Service) GetCustomerOrder(ctx context.Context, id int) (*order.CustomerOrder, error) {
	return s.getCustomerOrder(ctx, id)
}

// GetWarehouseOrder returns one warehouse order
func (s *Service) GetWarehouseOrder(ctx context.Context, id int) (*order.WarehouseOrder, error) {
	return s.getWarehouseOrder(ctx, id)
}

// GetProductionOrder returns one production order
func (s *Service) GetProductionOrder(ctx context.Context, id int) (*order.ProductionOrder, error) {
	return s.getProductionOrder(ctx, id)
}

// GetControlOrder returns one control order
func (s *Service) GetControlOrder(ctx context.Context, id int) (*order.ControlOrder, error) {
	return s.getControlOrder(ctx, id)
}

// GetWorkstationOrder returns one workstation order
func (s *Service) GetWorkstationOrder(ctx context.Context, id int) (*order.WorkstationOrder, error) {
	return s.getWorkstationOrder(ctx, id)
}

// GetSupplyOrder returns one supply order
func (s *Service) GetSupplyOrder(ctx context.Context, id int) (*order.SupplyOrder, error) {
	return s.getSupplyOrder(ctx, id)
}

// GetFinalAssemblyOrder returns one final assembly order
func (s *Service) GetFinalAssemblyOrder(ctx context.Context, id int) (*order.FinalAssemblyOrder, error) {
	return s.getFinalAssemblyOrder(ctx, id)
}

// ListCustomerOrders lists customer orders matching the filter
func (s *Service) ListCustomerOrders(ctx context.Context, f order.ListFilter) ([]*order.CustomerOrder, error) {
	var out []*order.CustomerOrder
	err := s.read(ctx, func(repo order.Repository) error {
		var err error
		out, err = repo.ListCustomerOrders(ctx, f)
		return err
	})
	return out, err
}

// ListWarehouseOrders lists warehouse orders matching the filter
func (s *Service) ListWarehouseOrders(ctx context.Context, f order.ListFilter) ([]*order.WarehouseOrder, error) {
	var out []*order.WarehouseOrder
	err := s.read(ctx, func(repo order.Repository) error {
		var err error
		out, err = repo.ListWarehouseOrders(ctx, f)
		return err
	})
	return out, err
}

// ListProductionOrders lists production orders matching the filter
func (s *Service) ListProductionOrders(ctx context.Context, f order.ListFilter) ([]*order.ProductionOrder, error) {
	var out []*order.ProductionOrder
	err := s.read(ctx, func(repo order.Repository) error {
		var err error
		out, err = repo.ListProductionOrders(ctx, f)
		return err
	})
	return out, err
}

// ListWorkstationOrders lists workstation orders, typically filtered to one
// cell's queue.
func (s *Service) ListWorkstationOrders(ctx context.Context, f order.ListFilter) ([]*order.WorkstationOrder, error) {
	var out []*order.WorkstationOrder
	err := s.read(ctx, func(repo order.Repository) error {
		var err error
		out, err = repo.ListWorkstationOrders(ctx, f)
		return err
	})
	return out, err
}

// ListSupplyOrders lists supply orders matching the filter
func (s *Service) ListSupplyOrders(ctx context.Context, f order.ListFilter) ([]*order.SupplyOrder, error) {
	var out []*order.SupplyOrder
	err := s.read(ctx, func(repo order.Repository) error {
		var err error
		out, err = repo.ListSupplyOrders(ctx, f)
		return err
	})
	return out, err
}

// ListFinalAssemblyOrders lists final assembly orders matching the filter
func (s *Service) ListFinalAssemblyOrders(ctx context.Context, f order.ListFilter) ([]*order.FinalAssemblyOrder, error) {
	var out []*order.FinalAssemblyOrder
	err := s.read(ctx, func(repo order.Repository) error {
		var err error
		out, err = repo.ListFinalAssemblyOrders(ctx, f)
		return err
	})
	return out, err
}

// FindWarehouseOrdersByCustomer lists the warehouse orders under one customer order
func (s *Service) FindWarehouseOrdersByCustomer(ctx context.Context, customerOrderID int) ([]*order.WarehouseOrder, error) {
	var out []*order.WarehouseOrder
	err := s.read(ctx, func(repo order.Repository) error {
		var err error
		out, err = repo.FindWarehouseOrdersByCustomer(ctx, customerOrderID)
		return err
	})
	return out, err
}

// FindControlOrdersByProduction lists the control orders under one campaign
func (s *Service) FindControlOrdersByProduction(ctx context.Context, productionOrderID int) ([]*order.ControlOrder, error) {
	var out []*order.ControlOrder
	err := s.read(ctx, func(repo order.Repository) error {
		var err error
		out, err = repo.FindControlOrdersByProduction(ctx, productionOrderID)
		return err
	})
	return out, err
}

// FindWorkstationOrdersByControl lists the workstation orders under one control order
func (s *Service) FindWorkstationOrdersByControl(ctx context.Context, controlOrderID int) ([]*order.WorkstationOrder, error) {
	var out []*order.WorkstationOrder
	err := s.read(ctx, func(repo order.Repository) error {
		var err error
		out, err = repo.FindWorkstationOrdersByControl(ctx, controlOrderID)
		return err
	})
	return out, err
}

// FindSupplyOrdersByControl lists the supply orders under one control order
func (s *Service) FindSupplyOrdersByControl(ctx context.Context, controlOrderID int) ([]*order.SupplyOrder, error) {
	var out []*order.SupplyOrder
	err := s.read(ctx, func(repo order.Repository) error {
		var err error
		out, err = repo.FindSupplyOrdersByControl(ctx, controlOrderID)
		return err
	})
	return out, err
}
