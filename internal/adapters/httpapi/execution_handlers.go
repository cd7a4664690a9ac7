package httpapi

import (
	"context"
	"net/http"

	"github.com/modelfactory/mes/internal/domain/identity"
	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
)

func (s *Server) handleGetControlOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	co, err := s.orders.GetControlOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toControlOrderDTO(co))
}

func (s *Server) handleDispatchControlOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	co, err := s.orders.DispatchControlOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toControlOrderDTO(co))
}

func (s *Server) handleWorkstationOrdersByControl(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	orders, err := s.orders.FindWorkstationOrdersByControl(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]workstationOrderDTO, 0, len(orders))
	for _, wso := range orders {
		out = append(out, toWorkstationOrderDTO(wso))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSupplyOrdersByControl(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	orders, err := s.orders.FindSupplyOrdersByControl(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]supplyOrderDTO, 0, len(orders))
	for _, so := range orders {
		out = append(out, toSupplyOrderDTO(so))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListWorkstationOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.ListWorkstationOrders(r.Context(), listFilter(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]workstationOrderDTO, 0, len(orders))
	for _, wso := range orders {
		out = append(out, toWorkstationOrderDTO(wso))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetWorkstationOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	wso, err := s.orders.GetWorkstationOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkstationOrderDTO(wso))
}

// checkWorkstationBinding refuses WORKSTATION principals operating an order
// that belongs to a different cell. Other roles passed the route gate already.
func (s *Server) checkWorkstationBinding(r *http.Request, workstationID int) error {
	principal, ok := PrincipalFrom(r.Context())
	if !ok {
		return &identity.ErrUnauthorized{Reason: "missing principal"}
	}
	if principal.Role != identity.RoleWorkstation {
		return nil
	}
	if principal.WorkstationID == nil || *principal.WorkstationID != workstationID {
		return &identity.ErrUnauthorized{Reason: "operator is not bound to this workstation"}
	}
	return nil
}

func (s *Server) handleConfirmWorkstationOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	existing, err := s.orders.GetWorkstationOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.checkWorkstationBinding(r, existing.WorkstationID()); err != nil {
		writeError(w, r, err)
		return
	}
	wso, err := s.orders.ConfirmWorkstationOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkstationOrderDTO(wso))
}

func (s *Server) handleStartWorkstationOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	existing, err := s.orders.GetWorkstationOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.checkWorkstationBinding(r, existing.WorkstationID()); err != nil {
		writeError(w, r, err)
		return
	}
	wso, err := s.orders.StartWorkstationOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkstationOrderDTO(wso))
}

func (s *Server) handleCompleteWorkstationOrderAssembly(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	existing, err := s.orders.GetWorkstationOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.checkWorkstationBinding(r, existing.WorkstationID()); err != nil {
		writeError(w, r, err)
		return
	}
	wso, err := s.orders.CompleteWorkstationOrderAssembly(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkstationOrderDTO(wso))
}

func (s *Server) handleCompleteWorkstationOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	existing, err := s.orders.GetWorkstationOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.checkWorkstationBinding(r, existing.WorkstationID()); err != nil {
		writeError(w, r, err)
		return
	}
	wso, err := s.orders.CompleteWorkstationOrder(r.Context(), id, actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkstationOrderDTO(wso))
}

func (s *Server) handleListSupplyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.ListSupplyOrders(r.Context(), listFilter(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]supplyOrderDTO, 0, len(orders))
	for _, so := range orders {
		out = append(out, toSupplyOrderDTO(so))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSupplyOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	so, err := s.orders.GetSupplyOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSupplyOrderDTO(so))
}

func (s *Server) handleFulfillSupplyOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	so, err := s.orders.FulfillSupplyOrder(r.Context(), id, actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSupplyOrderDTO(so))
}

func (s *Server) handleRejectSupplyOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	so, err := s.orders.RejectSupplyOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSupplyOrderDTO(so))
}

func (s *Server) handleListFinalAssemblyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.ListFinalAssemblyOrders(r.Context(), listFilter(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]finalAssemblyOrderDTO, 0, len(orders))
	for _, fa := range orders {
		out = append(out, toFinalAssemblyOrderDTO(fa))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetFinalAssemblyOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	fa, err := s.orders.GetFinalAssemblyOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFinalAssemblyOrderDTO(fa))
}

func (s *Server) handleConfirmFinalAssemblyOrder(w http.ResponseWriter, r *http.Request) {
	s.finalAssemblyTransition(w, r, s.orders.ConfirmFinalAssemblyOrder)
}

func (s *Server) handleStartFinalAssemblyOrder(w http.ResponseWriter, r *http.Request) {
	s.finalAssemblyTransition(w, r, s.orders.StartFinalAssemblyOrder)
}

func (s *Server) handleCompleteFinalAssemblyOrderAssembly(w http.ResponseWriter, r *http.Request) {
	s.finalAssemblyTransition(w, r, s.orders.CompleteFinalAssemblyOrderAssembly)
}

func (s *Server) finalAssemblyTransition(w http.ResponseWriter, r *http.Request,
	transition func(ctx context.Context, id int) (*order.FinalAssemblyOrder, error)) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.checkWorkstationBinding(r, shared.WorkstationFinalAssembly); err != nil {
		writeError(w, r, err)
		return
	}
	fa, err := transition(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFinalAssemblyOrderDTO(fa))
}

func (s *Server) handleSubmitFinalAssemblyOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.checkWorkstationBinding(r, shared.WorkstationFinalAssembly); err != nil {
		writeError(w, r, err)
		return
	}
	fa, err := s.orders.SubmitFinalAssemblyOrder(r.Context(), id, actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFinalAssemblyOrderDTO(fa))
}

// handleWorkstationQueue returns the work queue for one cell: its
// workstation orders, plus final assembly orders when the cell is WS-6.
func (s *Server) handleWorkstationQueue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter := listFilter(r)
	filter.WorkstationID = id

	workstationOrders, err := s.orders.ListWorkstationOrders(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	queue := struct {
		WorkstationID       int                     `json:"workstationId"`
		WorkstationOrders   []workstationOrderDTO   `json:"workstationOrders"`
		FinalAssemblyOrders []finalAssemblyOrderDTO `json:"finalAssemblyOrders,omitempty"`
	}{
		WorkstationID:     id,
		WorkstationOrders: make([]workstationOrderDTO, 0, len(workstationOrders)),
	}
	for _, wso := range workstationOrders {
		queue.WorkstationOrders = append(queue.WorkstationOrders, toWorkstationOrderDTO(wso))
	}

	if id == shared.WorkstationFinalAssembly {
		faFilter := listFilter(r)
		faFilter.WorkstationID = 0
		finalAssembly, err := s.orders.ListFinalAssemblyOrders(r.Context(), faFilter)
		if err != nil {
			writeError(w, r, err)
			return
		}
		queue.FinalAssemblyOrders = make([]finalAssemblyOrderDTO, 0, len(finalAssembly))
		for _, fa := range finalAssembly {
			queue.FinalAssemblyOrders = append(queue.FinalAssemblyOrders, toFinalAssemblyOrderDTO(fa))
		}
	}
	writeJSON(w, http.StatusOK, queue)
}
