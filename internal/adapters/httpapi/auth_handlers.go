package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/modelfactory/mes/internal/domain/identity"
	"github.com/modelfactory/mes/internal/domain/order"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &order.ErrValidation{Field: "body", Reason: "invalid JSON"})
		return
	}
	result, err := s.identity.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Token:     result.Token,
		TokenType: "Bearer",
		ExpiresAt: result.ExpiresAt,
		User: userDTO{
			ID:            result.UserID,
			Username:      result.Username,
			Role:          string(result.Role),
			WorkstationID: result.WorkstationID,
		},
	})
}

type registerRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	Role          string `json:"role"`
	WorkstationID *int   `json:"workstationId"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &order.ErrValidation{Field: "body", Reason: "invalid JSON"})
		return
	}
	role, err := identity.ParseRole(req.Role)
	if err != nil {
		writeError(w, r, &order.ErrValidation{Field: "role", Reason: err.Error()})
		return
	}
	user, err := s.identity.Register(r.Context(), req.Username, req.Password, role, req.WorkstationID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.identity.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]userDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	writeJSON(w, http.StatusOK, out)
}
