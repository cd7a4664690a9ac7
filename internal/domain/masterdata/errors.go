package masterdata

import (
	"fmt"
	"net/http"
)

// ErrNotFound is returned when a product, module, part or workstation id
// does not resolve.
type ErrNotFound struct {
	Entity string
	ID     int
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *ErrNotFound) ErrorCode() string { return "MASTERDATA_NOT_FOUND" }
func (e *ErrNotFound) HTTPStatus() int   { return http.StatusNotFound }
func (e *ErrNotFound) Details() map[string]interface{} {
	return map[string]interface{}{"entity": e.Entity, "id": e.ID}
}
