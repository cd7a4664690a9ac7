package order

import (
	"fmt"
	"net/http"

	"github.com/modelfactory/mes/internal/domain/shared"
)

// ErrNotFound is returned when an order id does not resolve
type ErrNotFound struct {
	OrderType Type
	ID        int
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s order %d not found", e.OrderType, e.ID)
}

func (e *ErrNotFound) ErrorCode() string { return "ORDER_NOT_FOUND" }
func (e *ErrNotFound) HTTPStatus() int   { return http.StatusNotFound }
func (e *ErrNotFound) Details() map[string]interface{} {
	return map[string]interface{}{"orderType": string(e.OrderType), "orderId": e.ID}
}

// ErrInvalidState is returned when a transition is not allowed from the
// order's current status.
type ErrInvalidState struct {
	Number    string
	Current   Status
	Attempted Status
}

func (e *ErrInvalidState) Error() string {
	return fmt.Sprintf("order %s cannot move from %s to %s", e.Number, e.Current, e.Attempted)
}

func (e *ErrInvalidState) ErrorCode() string { return "ORDER_INVALID_STATE" }
func (e *ErrInvalidState) HTTPStatus() int   { return http.StatusBadRequest }
func (e *ErrInvalidState) Details() map[string]interface{} {
	return map[string]interface{}{
		"orderNumber":     e.Number,
		"currentStatus":   string(e.Current),
		"requestedStatus": string(e.Attempted),
	}
}

// ErrInvalidOperation is returned on precondition violations that are not
// plain status transitions, e.g. starting a workstation order whose supply
// order is not FULFILLED yet.
type ErrInvalidOperation struct {
	Number string
	Reason string
}

func (e *ErrInvalidOperation) Error() string {
	return fmt.Sprintf("invalid operation on order %s: %s", e.Number, e.Reason)
}

func (e *ErrInvalidOperation) ErrorCode() string { return "ORDER_INVALID_OPERATION" }
func (e *ErrInvalidOperation) HTTPStatus() int   { return http.StatusBadRequest }
func (e *ErrInvalidOperation) Details() map[string]interface{} {
	return map[string]interface{}{"orderNumber": e.Number, "reason": e.Reason}
}

// ErrValidation is returned when order input fails validation, e.g. an order
// item that does not reference a PRODUCT.
type ErrValidation struct {
	Field  string
	Reason string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("order validation failed: %s - %s", e.Field, e.Reason)
}

func (e *ErrValidation) ErrorCode() string { return "ORDER_VALIDATION_ERROR" }
func (e *ErrValidation) HTTPStatus() int   { return http.StatusBadRequest }
func (e *ErrValidation) Details() map[string]interface{} {
	return map[string]interface{}{"field": e.Field, "reason": e.Reason}
}

// ErrInsufficientStock is returned when a debit would drive a stock key
// negative during fulfillment.
type ErrInsufficientStock struct {
	WorkstationID int
	Item          shared.ItemRef
	Requested     int
	Available     int
}

func (e *ErrInsufficientStock) Error() string {
	return fmt.Sprintf("insufficient stock at WS-%d for %s: requested %d, available %d",
		e.WorkstationID, e.Item, e.Requested, e.Available)
}

func (e *ErrInsufficientStock) ErrorCode() string { return "ORDER_INSUFFICIENT_STOCK" }
func (e *ErrInsufficientStock) HTTPStatus() int   { return http.StatusBadRequest }
func (e *ErrInsufficientStock) Details() map[string]interface{} {
	return map[string]interface{}{
		"workstationId": e.WorkstationID,
		"itemType":      string(e.Item.Type),
		"itemId":        e.Item.ID,
		"requested":     e.Requested,
		"available":     e.Available,
	}
}

// ErrBOMConversion is returned on missing BOM entries or cycles during
// expansion, and on cycle rejection at master-data ingest.
type ErrBOMConversion struct {
	Item   shared.ItemRef
	Reason string
}

func (e *ErrBOMConversion) Error() string {
	return fmt.Sprintf("BOM conversion failed for %s: %s", e.Item, e.Reason)
}

func (e *ErrBOMConversion) ErrorCode() string { return "ORDER_BOM_CONVERSION_FAILED" }
func (e *ErrBOMConversion) HTTPStatus() int   { return http.StatusBadRequest }
func (e *ErrBOMConversion) Details() map[string]interface{} {
	return map[string]interface{}{
		"itemType": string(e.Item.Type),
		"itemId":   e.Item.ID,
		"reason":   e.Reason,
	}
}

// ErrProductionPlanning is returned when the scheduling engine fails after
// the adapter exhausted its retries.
type ErrProductionPlanning struct {
	ScheduleID string
	Reason     string
}

func (e *ErrProductionPlanning) Error() string {
	return fmt.Sprintf("production planning failed: %s", e.Reason)
}

func (e *ErrProductionPlanning) ErrorCode() string { return "ORDER_PRODUCTION_PLANNING_ERROR" }
func (e *ErrProductionPlanning) HTTPStatus() int   { return http.StatusInternalServerError }
func (e *ErrProductionPlanning) Details() map[string]interface{} {
	d := map[string]interface{}{"reason": e.Reason}
	if e.ScheduleID != "" {
		d["scheduleId"] = e.ScheduleID
	}
	return d
}
