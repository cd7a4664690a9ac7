package scheduling

import (
	"fmt"
	"net/http"
)

// ErrBackend is returned when the scheduling engine itself reports a failure
type ErrBackend struct {
	StatusCode int
	Reason     string
}

func (e *ErrBackend) Error() string {
	return fmt.Sprintf("scheduler backend error (status %d): %s", e.StatusCode, e.Reason)
}

func (e *ErrBackend) ErrorCode() string { return "SIMAL_SERVICE_ERROR" }
func (e *ErrBackend) HTTPStatus() int   { return http.StatusInternalServerError }
func (e *ErrBackend) Details() map[string]interface{} {
	return map[string]interface{}{"upstreamStatus": e.StatusCode, "reason": e.Reason}
}
