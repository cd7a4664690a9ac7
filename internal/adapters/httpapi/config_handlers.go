package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/modelfactory/mes/internal/domain/order"
)

type configValueDTO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	value, err := s.config.Get(r.Context(), key)
	if err != nil {
		writeError(w, r, &order.ErrValidation{Field: "key", Reason: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, configValueDTO{Key: key, Value: value})
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	var req configValueDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &order.ErrValidation{Field: "body", Reason: "invalid JSON"})
		return
	}
	if err := s.config.Set(r.Context(), key, req.Value); err != nil {
		writeError(w, r, &order.ErrValidation{Field: "value", Reason: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, configValueDTO{Key: key, Value: req.Value})
}
