package inventory

import (
	"fmt"
	"net/http"
)

// ErrNotFound is returned when a stock key has never been credited
type ErrNotFound struct {
	Key StockKey
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("no stock record for %s at WS-%d", e.Key.Item, e.Key.WorkstationID)
}

func (e *ErrNotFound) ErrorCode() string { return "INVENTORY_NOT_FOUND" }
func (e *ErrNotFound) HTTPStatus() int   { return http.StatusNotFound }
func (e *ErrNotFound) Details() map[string]interface{} {
	return map[string]interface{}{
		"workstationId": e.Key.WorkstationID,
		"itemType":      string(e.Key.Item.Type),
		"itemId":        e.Key.Item.ID,
	}
}

// ErrValidation is returned on invalid deltas, including debits that would
// drive a quantity negative. No record or ledger entry is left behind.
type ErrValidation struct {
	Field  string
	Reason string
	Key    *StockKey
	Detail map[string]interface{}
}

func (e *ErrValidation) Error() string {
	if e.Key != nil {
		return fmt.Sprintf("inventory validation failed for %s at WS-%d: %s", e.Key.Item, e.Key.WorkstationID, e.Reason)
	}
	return fmt.Sprintf("inventory validation failed: %s - %s", e.Field, e.Reason)
}

func (e *ErrValidation) ErrorCode() string { return "INVENTORY_VALIDATION_ERROR" }
func (e *ErrValidation) HTTPStatus() int   { return http.StatusBadRequest }
func (e *ErrValidation) Details() map[string]interface{} {
	d := map[string]interface{}{"field": e.Field, "reason": e.Reason}
	if e.Key != nil {
		d["workstationId"] = e.Key.WorkstationID
		d["itemType"] = string(e.Key.Item.Type)
		d["itemId"] = e.Key.Item.ID
	}
	for k, v := range e.Detail {
		d[k] = v
	}
	return d
}

// ErrUnauthorized is returned when the caller's role may not mutate stock
type ErrUnauthorized struct {
	Role string
}

func (e *ErrUnauthorized) Error() string {
	return fmt.Sprintf("role %q may not mutate inventory", e.Role)
}

func (e *ErrUnauthorized) ErrorCode() string { return "INVENTORY_UNAUTHORIZED" }
func (e *ErrUnauthorized) HTTPStatus() int   { return http.StatusForbidden }
func (e *ErrUnauthorized) Details() map[string]interface{} {
	return map[string]interface{}{"role": e.Role}
}
