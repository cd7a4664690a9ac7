package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/modelfactory/mes/internal/domain/masterdata"
	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
)

func (s *Server) handleListWorkstations(w http.ResponseWriter, r *http.Request) {
	stations, err := s.masterdata.ListWorkstations(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]workstationDTO, 0, len(stations))
	for _, ws := range stations {
		out = append(out, workstationDTO{ID: ws.ID, Role: string(ws.Role), Name: ws.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetWorkstation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ws, err := s.masterdata.GetWorkstation(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workstationDTO{ID: ws.ID, Role: string(ws.Role), Name: ws.Name})
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.masterdata.ListProducts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]productDTO, 0, len(products))
	for _, p := range products {
		out = append(out, productDTO{ID: p.ID, Name: p.Name, Description: p.Description})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.masterdata.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productDTO{ID: p.ID, Name: p.Name, Description: p.Description})
}

// handleProductModules returns the direct BOM components of a product
func (s *Server) handleProductModules(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := s.masterdata.GetProduct(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.writeComponents(w, r, shared.ItemRef{Type: shared.ItemTypeProduct, ID: id})
}

func (s *Server) handleListModules(w http.ResponseWriter, r *http.Request) {
	modules, err := s.masterdata.ListModules(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]moduleDTO, 0, len(modules))
	for _, m := range modules {
		out = append(out, moduleDTO{
			ID:                      m.ID,
			Name:                    m.Name,
			ProductionWorkstationID: m.ProductionWorkstationID,
			EstimatedTimeMinutes:    m.EstimatedTimeMinutes,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetModule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := s.masterdata.GetModule(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, moduleDTO{
		ID:                      m.ID,
		Name:                    m.Name,
		ProductionWorkstationID: m.ProductionWorkstationID,
		EstimatedTimeMinutes:    m.EstimatedTimeMinutes,
	})
}

// handleModuleComponents returns the direct BOM components of a module
func (s *Server) handleModuleComponents(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := s.masterdata.GetModule(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.writeComponents(w, r, shared.ItemRef{Type: shared.ItemTypeModule, ID: id})
}

func (s *Server) writeComponents(w http.ResponseWriter, r *http.Request, parent shared.ItemRef) {
	edges, err := s.masterdata.ComponentsOf(r.Context(), parent)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]bomComponentDTO, 0, len(edges))
	for _, edge := range edges {
		name, err := s.masterdata.ItemName(r.Context(), edge.Component)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out = append(out, toBOMComponentDTO(edge, name))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListParts(w http.ResponseWriter, r *http.Request) {
	parts, err := s.masterdata.ListParts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]partDTO, 0, len(parts))
	for _, p := range parts {
		out = append(out, partDTO{ID: p.ID, Name: p.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSaveProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req productDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &order.ErrValidation{Field: "body", Reason: "invalid JSON"})
		return
	}
	product := &masterdata.Product{ID: id, Name: req.Name, Description: req.Description}
	if err := s.masterdata.SaveProduct(r.Context(), product); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productDTO{ID: product.ID, Name: product.Name, Description: product.Description})
}

func (s *Server) handleSaveModule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req moduleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &order.ErrValidation{Field: "body", Reason: "invalid JSON"})
		return
	}
	module := &masterdata.Module{
		ID:                      id,
		Name:                    req.Name,
		ProductionWorkstationID: req.ProductionWorkstationID,
		EstimatedTimeMinutes:    req.EstimatedTimeMinutes,
	}
	if err := s.masterdata.SaveModule(r.Context(), module); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handleSavePart(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req partDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &order.ErrValidation{Field: "body", Reason: "invalid JSON"})
		return
	}
	part := &masterdata.Part{ID: id, Name: req.Name}
	if err := s.masterdata.SavePart(r.Context(), part); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, partDTO{ID: part.ID, Name: part.Name})
}

// saveBOMEdgeRequest accepts componentId or its legacy synonym moduleId
type saveBOMEdgeRequest struct {
	ParentType    string `json:"parentType"`
	ParentID      int    `json:"parentId"`
	ComponentType string `json:"componentType"`
	ComponentID   int    `json:"componentId"`
	ModuleID      int    `json:"moduleId"`
	Quantity      int    `json:"quantity"`
}

func (s *Server) handleSaveBOMEdge(w http.ResponseWriter, r *http.Request) {
	var req saveBOMEdgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &order.ErrValidation{Field: "body", Reason: "invalid JSON"})
		return
	}

	componentID := req.ComponentID
	componentType := req.ComponentType
	if componentID == 0 && req.ModuleID != 0 {
		componentID = req.ModuleID
		if componentType == "" {
			componentType = string(shared.ItemTypeModule)
		}
	}

	parentType, err := shared.ParseItemType(req.ParentType)
	if err != nil {
		writeError(w, r, &order.ErrValidation{Field: "parentType", Reason: err.Error()})
		return
	}
	compType, err := shared.ParseItemType(componentType)
	if err != nil {
		writeError(w, r, &order.ErrValidation{Field: "componentType", Reason: err.Error()})
		return
	}

	parent := shared.ItemRef{Type: parentType, ID: req.ParentID}
	component := shared.ItemRef{Type: compType, ID: componentID}
	if err := s.masterdata.SaveBOMEdge(r.Context(), parent, component, req.Quantity); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
