package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/modelfactory/mes/internal/domain/shared"
)

// errorEnvelope is the standard wire shape of every non-2xx response
type errorEnvelope struct {
	Timestamp string                 `json:"timestamp"`
	Status    int                    `json:"status"`
	Error     string                 `json:"error"`
	ErrorCode string                 `json:"errorCode"`
	Message   string                 `json:"message"`
	Path      string                 `json:"path"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// writeError translates an error into the standard envelope. Typed domain
// errors carry their own code, status and details; anything else becomes an
// opaque 500 so internals never leak.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	message := "an internal error occurred"
	var details map[string]interface{}

	var coded shared.CodedError
	if errors.As(err, &coded) {
		status = coded.HTTPStatus()
		code = coded.ErrorCode()
		message = coded.Error()
		details = coded.Details()
	}

	writeJSON(w, status, errorEnvelope{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    status,
		Error:     http.StatusText(status),
		ErrorCode: code,
		Message:   message,
		Path:      r.URL.Path,
		Details:   details,
	})
}

// writeUnauthorized answers unauthenticated requests with the minimal
// {error, status} body the gateway contract mandates for missing tokens.
func writeUnauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
		"error":  message,
		"status": http.StatusUnauthorized,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
