package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelfactory/mes/internal/adapters/httpapi"
	invapp "github.com/modelfactory/mes/internal/application/inventory"
	"github.com/modelfactory/mes/internal/domain/inventory"
	"github.com/modelfactory/mes/internal/domain/shared"
	"github.com/modelfactory/mes/test/helpers"
)

func newAPI(t *testing.T) (*helpers.Stack, http.Handler) {
	t.Helper()
	stack := helpers.NewStack(t)
	stack.Seed(t)
	server := httpapi.NewServer(stack.Orders, stack.Inventory, stack.MasterData, stack.Identity, stack.Config, httpapi.Options{})
	return stack, server.Handler()
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(encoded)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), out))
}

func login(t *testing.T, handler http.Handler, username, password string) string {
	t.Helper()
	recorder := doJSON(t, handler, http.MethodPost, "/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var resp struct {
		Token     string `json:"token"`
		TokenType string `json:"tokenType"`
	}
	decodeBody(t, recorder, &resp)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "Bearer", resp.TokenType)
	return resp.Token
}

func TestHealth_IsPublic(t *testing.T) {
	_, handler := newAPI(t)

	recorder := doJSON(t, handler, http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	var body map[string]string
	decodeBody(t, recorder, &body)
	assert.Equal(t, "UP", body["status"])
}

func TestAuth_MissingTokenGetsMinimalBody(t *testing.T) {
	_, handler := newAPI(t)

	recorder := doJSON(t, handler, http.MethodGet, "/customer-orders", "", nil)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	var body map[string]interface{}
	decodeBody(t, recorder, &body)
	assert.Len(t, body, 2)
	assert.Equal(t, float64(http.StatusUnauthorized), body["status"])
	assert.NotEmpty(t, body["error"])
}

func TestAuth_GarbageTokenRejected(t *testing.T) {
	_, handler := newAPI(t)

	recorder := doJSON(t, handler, http.MethodGet, "/customer-orders", "not-a-token", nil)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestLogin_BadCredentialsGetEnvelope(t *testing.T) {
	_, handler := newAPI(t)

	recorder := doJSON(t, handler, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "planner",
		"password": "wrong",
	})

	require.Equal(t, http.StatusForbidden, recorder.Code)
	var envelope map[string]interface{}
	decodeBody(t, recorder, &envelope)
	assert.Equal(t, "USER_UNAUTHORIZED", envelope["errorCode"])
	assert.Equal(t, "/auth/login", envelope["path"])
	assert.NotEmpty(t, envelope["timestamp"])
	assert.Equal(t, float64(http.StatusForbidden), envelope["status"])
}

func TestErrorEnvelope_UnknownOrder(t *testing.T) {
	_, handler := newAPI(t)
	token := login(t, handler, "viewer", "viewer-dev-password")

	recorder := doJSON(t, handler, http.MethodGet, "/customer-orders/999", token, nil)

	require.Equal(t, http.StatusNotFound, recorder.Code)
	var envelope map[string]interface{}
	decodeBody(t, recorder, &envelope)
	assert.Equal(t, "ORDER_NOT_FOUND", envelope["errorCode"])
	assert.Equal(t, "Not Found", envelope["error"])
	assert.Equal(t, "/customer-orders/999", envelope["path"])
	assert.NotEmpty(t, envelope["message"])
}

func TestCustomerOrderLifecycle_AcceptsSynonyms(t *testing.T) {
	_, handler := newAPI(t)
	token := login(t, handler, "planner", "planner-dev-password")

	// "items" and "quantity" instead of the canonical orderItems/requestedQuantity
	recorder := doJSON(t, handler, http.MethodPost, "/customer-orders", token, map[string]interface{}{
		"items":    []map[string]interface{}{{"itemId": 1, "quantity": 2}},
		"priority": "NORMAL",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created struct {
		ID     int    `json:"id"`
		Status string `json:"status"`
		Items  []struct {
			RequestedQuantity int `json:"requestedQuantity"`
			Quantity          int `json:"quantity"`
		} `json:"orderItems"`
	}
	decodeBody(t, recorder, &created)
	assert.Equal(t, "PENDING", created.Status)
	require.Len(t, created.Items, 1)
	assert.Equal(t, 2, created.Items[0].RequestedQuantity)
	assert.Equal(t, 2, created.Items[0].Quantity)

	recorder = doJSON(t, handler, http.MethodPut, fmt.Sprintf("/customer-orders/%d/confirm", created.ID), token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var confirmed struct {
		Status          string `json:"status"`
		TriggerScenario string `json:"triggerScenario"`
	}
	decodeBody(t, recorder, &confirmed)
	assert.Equal(t, "CONFIRMED", confirmed.Status)
	assert.Equal(t, "DIRECT_FULFILLMENT", confirmed.TriggerScenario)

	// /complete is the compatibility alias for /fulfill
	recorder = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/customer-orders/%d/complete", created.ID), token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var fulfilled struct {
		CustomerOrder struct {
			Status string `json:"status"`
		} `json:"customerOrder"`
	}
	decodeBody(t, recorder, &fulfilled)
	assert.Equal(t, "COMPLETED", fulfilled.CustomerOrder.Status)
}

func TestCustomerOrder_InsufficientStockCode(t *testing.T) {
	stack, handler := newAPI(t)
	token := login(t, handler, "planner", "planner-dev-password")

	recorder := doJSON(t, handler, http.MethodPost, "/customer-orders", token, map[string]interface{}{
		"orderItems": []map[string]interface{}{{"productId": 1, "requestedQuantity": 2}},
		"priority":   "NORMAL",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	var created struct {
		ID int `json:"id"`
	}
	decodeBody(t, recorder, &created)

	recorder = doJSON(t, handler, http.MethodPut, fmt.Sprintf("/customer-orders/%d/confirm", created.ID), token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	// The shelf empties behind the planner's back
	_, err := stack.Inventory.Adjust(context.Background(), invapp.AdjustRequest{
		WorkstationID: shared.WorkstationPlantWarehouse,
		Item:          shared.ItemRef{Type: shared.ItemTypeProduct, ID: 1},
		Delta:         -9,
		Reason:        inventory.ReasonAdjustment,
		Actor:         "test",
	})
	require.NoError(t, err)

	recorder = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/customer-orders/%d/fulfill", created.ID), token, nil)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	var envelope map[string]interface{}
	decodeBody(t, recorder, &envelope)
	assert.Equal(t, "ORDER_INSUFFICIENT_STOCK", envelope["errorCode"])
	require.NotNil(t, envelope["details"])
}

func TestRoleGate_ViewerCannotCreateOrders(t *testing.T) {
	_, handler := newAPI(t)
	token := login(t, handler, "viewer", "viewer-dev-password")

	recorder := doJSON(t, handler, http.MethodPost, "/customer-orders", token, map[string]interface{}{
		"orderItems": []map[string]interface{}{{"productId": 1, "requestedQuantity": 1}},
		"priority":   "NORMAL",
	})

	require.Equal(t, http.StatusForbidden, recorder.Code)
	var envelope map[string]interface{}
	decodeBody(t, recorder, &envelope)
	assert.Equal(t, "USER_UNAUTHORIZED", envelope["errorCode"])
}

func TestStockAdjust_RoleGates(t *testing.T) {
	_, handler := newAPI(t)
	adjustBody := map[string]interface{}{
		"workstationId": 9,
		"itemType":      "PART",
		"itemId":        1,
		"delta":         5,
		"reasonCode":    "ADJUSTMENT",
	}

	// Planners may read stock but never mutate it
	plannerToken := login(t, handler, "planner", "planner-dev-password")
	recorder := doJSON(t, handler, http.MethodPost, "/stock/adjust", plannerToken, adjustBody)
	require.Equal(t, http.StatusForbidden, recorder.Code)
	var envelope map[string]interface{}
	decodeBody(t, recorder, &envelope)
	assert.Equal(t, "INVENTORY_UNAUTHORIZED", envelope["errorCode"])

	// Workstation operators may
	operatorToken := login(t, handler, "ws6-operator", "ws6-dev-password")
	recorder = doJSON(t, handler, http.MethodPost, "/stock/adjust", operatorToken, adjustBody)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var record struct {
		Quantity int `json:"quantity"`
	}
	decodeBody(t, recorder, &record)
	assert.Equal(t, 505, record.Quantity)
}

func TestWorkstationBinding_WrongCellRefused(t *testing.T) {
	_, handler := newAPI(t)
	adminToken := login(t, handler, "admin", "admin-dev-password")

	ws4 := 4
	recorder := doJSON(t, handler, http.MethodPost, "/auth/register", adminToken, map[string]interface{}{
		"username":      "ws4-operator",
		"password":      "ws4-dev-password",
		"role":          "WORKSTATION",
		"workstationId": ws4,
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	// A gear-assembly operator cannot run the final assembly queue
	ws4Token := login(t, handler, "ws4-operator", "ws4-dev-password")
	recorder = doJSON(t, handler, http.MethodPut, "/final-assembly-orders/1/confirm", ws4Token, nil)
	require.Equal(t, http.StatusForbidden, recorder.Code)
	var envelope map[string]interface{}
	decodeBody(t, recorder, &envelope)
	assert.Equal(t, "USER_UNAUTHORIZED", envelope["errorCode"])
}

func TestMasterData_PublicReadsAndBOMSynonym(t *testing.T) {
	_, handler := newAPI(t)

	recorder := doJSON(t, handler, http.MethodGet, "/masterdata/products/1/modules", "", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	var components []struct {
		ComponentID   int    `json:"componentId"`
		ModuleID      int    `json:"moduleId"`
		ComponentType string `json:"componentType"`
		Quantity      int    `json:"quantity"`
	}
	decodeBody(t, recorder, &components)
	require.Len(t, components, 4)
	for _, comp := range components {
		assert.Equal(t, "MODULE", comp.ComponentType)
		// moduleId mirrors componentId for module components
		assert.Equal(t, comp.ComponentID, comp.ModuleID)
		assert.Equal(t, 1, comp.Quantity)
	}
}

func TestMasterData_UnknownProductCode(t *testing.T) {
	_, handler := newAPI(t)

	recorder := doJSON(t, handler, http.MethodGet, "/masterdata/products/42", "", nil)

	require.Equal(t, http.StatusNotFound, recorder.Code)
	var envelope map[string]interface{}
	decodeBody(t, recorder, &envelope)
	assert.Equal(t, "MASTERDATA_NOT_FOUND", envelope["errorCode"])
}

func TestConfig_AdminOnly(t *testing.T) {
	_, handler := newAPI(t)

	plannerToken := login(t, handler, "planner", "planner-dev-password")
	recorder := doJSON(t, handler, http.MethodPut, "/config/LOT_SIZE_THRESHOLD", plannerToken, map[string]string{"value": "5"})
	require.Equal(t, http.StatusForbidden, recorder.Code)

	adminToken := login(t, handler, "admin", "admin-dev-password")
	recorder = doJSON(t, handler, http.MethodPut, "/config/LOT_SIZE_THRESHOLD", adminToken, map[string]string{"value": "5"})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	recorder = doJSON(t, handler, http.MethodGet, "/config/LOT_SIZE_THRESHOLD", adminToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var body map[string]string
	decodeBody(t, recorder, &body)
	assert.Equal(t, "5", body["value"])
}

func TestWorkstationQueue_FinalAssemblyIncludesFAOrders(t *testing.T) {
	stack, handler := newAPI(t)
	token := login(t, handler, "planner", "planner-dev-password")

	// Drive a warehouse-path order far enough to open FA orders
	_, err := stack.Inventory.Adjust(context.Background(), invapp.AdjustRequest{
		WorkstationID: shared.WorkstationPlantWarehouse,
		Item:          shared.ItemRef{Type: shared.ItemTypeProduct, ID: 1},
		Delta:         -10,
		Reason:        inventory.ReasonAdjustment,
		Actor:         "test",
	})
	require.NoError(t, err)

	recorder := doJSON(t, handler, http.MethodPost, "/customer-orders", token, map[string]interface{}{
		"orderItems": []map[string]interface{}{{"productId": 1, "requestedQuantity": 1}},
		"priority":   "NORMAL",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	var created struct {
		ID int `json:"id"`
	}
	decodeBody(t, recorder, &created)

	recorder = doJSON(t, handler, http.MethodPut, fmt.Sprintf("/customer-orders/%d/confirm", created.ID), token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	recorder = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/customer-orders/%d/fulfill", created.ID), token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var fulfilled struct {
		WarehouseOrder struct {
			ID int `json:"id"`
		} `json:"warehouseOrder"`
	}
	decodeBody(t, recorder, &fulfilled)
	require.NotZero(t, fulfilled.WarehouseOrder.ID)

	recorder = doJSON(t, handler, http.MethodPut, fmt.Sprintf("/warehouse-orders/%d/confirm", fulfilled.WarehouseOrder.ID), token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	recorder = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/warehouse-orders/%d/fulfill", fulfilled.WarehouseOrder.ID), token, nil)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	recorder = doJSON(t, handler, http.MethodGet, "/workstations/6/orders", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var queue struct {
		WorkstationID       int `json:"workstationId"`
		FinalAssemblyOrders []struct {
			Status string `json:"status"`
		} `json:"finalAssemblyOrders"`
	}
	decodeBody(t, recorder, &queue)
	assert.Equal(t, 6, queue.WorkstationID)
	require.Len(t, queue.FinalAssemblyOrders, 1)
	assert.Equal(t, "PENDING", queue.FinalAssemblyOrders[0].Status)
}
