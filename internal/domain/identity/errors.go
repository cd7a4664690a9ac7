package identity

import "net/http"

// ErrUnauthorized is returned on invalid credentials or an insufficient role
type ErrUnauthorized struct {
	Reason string
}

func (e *ErrUnauthorized) Error() string {
	return "unauthorized: " + e.Reason
}

func (e *ErrUnauthorized) ErrorCode() string { return "USER_UNAUTHORIZED" }
func (e *ErrUnauthorized) HTTPStatus() int   { return http.StatusForbidden }
func (e *ErrUnauthorized) Details() map[string]interface{} {
	return map[string]interface{}{"reason": e.Reason}
}
