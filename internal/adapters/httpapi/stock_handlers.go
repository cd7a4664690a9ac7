package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	invapp "github.com/modelfactory/mes/internal/application/inventory"
	"github.com/modelfactory/mes/internal/domain/identity"
	"github.com/modelfactory/mes/internal/domain/inventory"
	"github.com/modelfactory/mes/internal/domain/shared"
)

// requireInventoryMutation gates stock mutations on ADMIN or WORKSTATION and
// answers refusals with the inventory error family.
func (s *Server) requireInventoryMutation(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFrom(r.Context())
		if !ok {
			writeUnauthorized(w, "missing bearer token")
			return
		}
		if principal.Role != identity.RoleAdmin && principal.Role != identity.RoleWorkstation {
			writeError(w, r, &inventory.ErrUnauthorized{Role: string(principal.Role)})
			return
		}
		next(w, r)
	}
}

func (s *Server) handleGetStock(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := inventory.StockFilter{ItemType: q.Get("itemType")}
	if wsID, err := strconv.Atoi(q.Get("workstationId")); err == nil {
		filter.WorkstationID = wsID
	}
	if itemID, err := strconv.Atoi(q.Get("itemId")); err == nil {
		filter.ItemID = itemID
	}
	records, err := s.inventory.GetStock(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]stockRecordDTO, 0, len(records))
	for _, record := range records {
		out = append(out, toStockRecordDTO(record))
	}
	writeJSON(w, http.StatusOK, out)
}

type adjustStockRequest struct {
	WorkstationID  int    `json:"workstationId"`
	ItemType       string `json:"itemType"`
	ItemID         int    `json:"itemId"`
	Delta          int    `json:"delta"`
	ReasonCode     string `json:"reasonCode"`
	Notes          string `json:"notes"`
	IdempotencyKey string `json:"idempotencyKey"`
}

func (s *Server) handleAdjustStock(w http.ResponseWriter, r *http.Request) {
	var req adjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &inventory.ErrValidation{Field: "body", Reason: "invalid JSON"})
		return
	}

	itemType, err := shared.ParseItemType(req.ItemType)
	if err != nil {
		writeError(w, r, &inventory.ErrValidation{Field: "itemType", Reason: err.Error()})
		return
	}
	reason := inventory.ReasonAdjustment
	if req.ReasonCode != "" {
		reason, err = inventory.ParseReason(req.ReasonCode)
		if err != nil {
			writeError(w, r, &inventory.ErrValidation{Field: "reasonCode", Reason: err.Error()})
			return
		}
	}

	record, err := s.inventory.Adjust(r.Context(), invapp.AdjustRequest{
		WorkstationID:  req.WorkstationID,
		Item:           shared.ItemRef{Type: itemType, ID: req.ItemID},
		Delta:          req.Delta,
		Reason:         reason,
		Actor:          actor(r),
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStockRecordDTO(record))
}

func (s *Server) handleStockAlerts(w http.ResponseWriter, r *http.Request) {
	threshold := 10
	if t, err := strconv.Atoi(r.URL.Query().Get("threshold")); err == nil && t >= 0 {
		threshold = t
	}
	grouped, err := s.inventory.ListAlerts(r.Context(), threshold)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make(map[string][]stockRecordDTO, len(grouped))
	for workstationID, records := range grouped {
		dtos := make([]stockRecordDTO, 0, len(records))
		for _, record := range records {
			dtos = append(dtos, toStockRecordDTO(record))
		}
		out[strconv.Itoa(workstationID)] = dtos
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStockLedger(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := inventory.LedgerFilter{
		ItemType:     q.Get("itemType"),
		RefOrderType: q.Get("refOrderType"),
	}
	if wsID, err := strconv.Atoi(q.Get("workstationId")); err == nil {
		filter.WorkstationID = wsID
	}
	if itemID, err := strconv.Atoi(q.Get("itemId")); err == nil {
		filter.ItemID = itemID
	}
	if refID, err := strconv.Atoi(q.Get("refOrderId")); err == nil {
		filter.RefOrderID = refID
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	entries, err := s.inventory.ListLedger(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]ledgerEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toLedgerEntryDTO(entry))
	}
	writeJSON(w, http.StatusOK, out)
}
