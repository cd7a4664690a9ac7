package httpapi

import (
	"encoding/json"
	"net/http"

	ordersapp "github.com/modelfactory/mes/internal/application/orders"
	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
)

func (s *Server) handleCreateCustomerOrder(w http.ResponseWriter, r *http.Request) {
	var req createCustomerOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &order.ErrValidation{Field: "body", Reason: "invalid JSON"})
		return
	}

	priority, err := shared.ParsePriority(req.Priority)
	if err != nil {
		writeError(w, r, &order.ErrValidation{Field: "priority", Reason: err.Error()})
		return
	}

	items := req.orderItems()
	input := ordersapp.CreateCustomerOrderInput{
		Items:    make([]ordersapp.OrderItemInput, 0, len(items)),
		Priority: priority,
		Notes:    req.Notes,
	}
	for _, item := range items {
		input.Items = append(input.Items, ordersapp.OrderItemInput{
			ProductID: item.productID(),
			Quantity:  item.requestedQuantity(),
		})
	}

	co, err := s.orders.CreateCustomerOrder(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerOrderDTO(co))
}

func (s *Server) handleListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.ListCustomerOrders(r.Context(), listFilter(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]customerOrderDTO, 0, len(orders))
	for _, co := range orders {
		out = append(out, toCustomerOrderDTO(co))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetCustomerOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	co, err := s.orders.GetCustomerOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerOrderDTO(co))
}

func (s *Server) handleConfirmCustomerOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	co, err := s.orders.ConfirmCustomerOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerOrderDTO(co))
}

// fulfillmentResponse reports the customer order plus whatever downstream
// order the selected scenario spawned.
type fulfillmentResponse struct {
	CustomerOrder   customerOrderDTO    `json:"customerOrder"`
	WarehouseOrder  *warehouseOrderDTO  `json:"warehouseOrder,omitempty"`
	ProductionOrder *productionOrderDTO `json:"productionOrder,omitempty"`
}

func (s *Server) handleFulfillCustomerOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := s.orders.FulfillCustomerOrder(r.Context(), id, actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := fulfillmentResponse{CustomerOrder: toCustomerOrderDTO(result.CustomerOrder)}
	if result.WarehouseOrder != nil {
		dto := toWarehouseOrderDTO(result.WarehouseOrder)
		resp.WarehouseOrder = &dto
	}
	if result.ProductionOrder != nil {
		dto := toProductionOrderDTO(result.ProductionOrder)
		resp.ProductionOrder = &dto
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelCustomerOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	co, err := s.orders.CancelCustomerOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerOrderDTO(co))
}

func (s *Server) handleWarehouseOrdersByCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	orders, err := s.orders.FindWarehouseOrdersByCustomer(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]warehouseOrderDTO, 0, len(orders))
	for _, wo := range orders {
		out = append(out, toWarehouseOrderDTO(wo))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListWarehouseOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.ListWarehouseOrders(r.Context(), listFilter(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]warehouseOrderDTO, 0, len(orders))
	for _, wo := range orders {
		out = append(out, toWarehouseOrderDTO(wo))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetWarehouseOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	wo, err := s.orders.GetWarehouseOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWarehouseOrderDTO(wo))
}

func (s *Server) handleConfirmWarehouseOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	wo, err := s.orders.ConfirmWarehouseOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWarehouseOrderDTO(wo))
}

func (s *Server) handleFulfillWarehouseOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	wo, err := s.orders.FulfillWarehouseOrder(r.Context(), id, actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWarehouseOrderDTO(wo))
}

func (s *Server) handleOrderProduction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	po, err := s.orders.OrderProductionFromWarehouse(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductionOrderDTO(po))
}

func (s *Server) handleListProductionOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.ListProductionOrders(r.Context(), listFilter(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]productionOrderDTO, 0, len(orders))
	for _, po := range orders {
		out = append(out, toProductionOrderDTO(po))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetProductionOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	po, err := s.orders.GetProductionOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductionOrderDTO(po))
}

func (s *Server) handleScheduleProduction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	po, err := s.orders.ScheduleProduction(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductionOrderDTO(po))
}

func (s *Server) handleResetProductionOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	po, err := s.orders.ResetProductionOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductionOrderDTO(po))
}

func (s *Server) handleControlOrdersByProduction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	orders, err := s.orders.FindControlOrdersByProduction(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]controlOrderDTO, 0, len(orders))
	for _, co := range orders {
		out = append(out, toControlOrderDTO(co))
	}
	writeJSON(w, http.StatusOK, out)
}
