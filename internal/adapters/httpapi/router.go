package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/modelfactory/mes/internal/domain/identity"
	"github.com/modelfactory/mes/internal/domain/order"
)

func (s *Server) routes(r *mux.Router) {
	planner := requireRole(identity.RolePlanner)
	workstation := requireRole(identity.RoleWorkstation)
	plannerOrWorkstation := requireRole(identity.RolePlanner, identity.RoleWorkstation)
	admin := requireRole()
	anyAuthenticated := requireRole(identity.RolePlanner, identity.RoleWorkstation, identity.RoleViewer)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// Identity
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", admin(s.handleRegister)).Methods(http.MethodPost)
	r.HandleFunc("/auth/users", admin(s.handleListUsers)).Methods(http.MethodGet)

	// Master data: reads are public, ingest is ADMIN
	r.HandleFunc("/masterdata/workstations", s.handleListWorkstations).Methods(http.MethodGet)
	r.HandleFunc("/masterdata/workstations/{id}", s.handleGetWorkstation).Methods(http.MethodGet)
	r.HandleFunc("/masterdata/products", s.handleListProducts).Methods(http.MethodGet)
	r.HandleFunc("/masterdata/products/{id}", s.handleGetProduct).Methods(http.MethodGet)
	r.HandleFunc("/masterdata/products/{id}/modules", s.handleProductModules).Methods(http.MethodGet)
	r.HandleFunc("/masterdata/products/{id}", admin(s.handleSaveProduct)).Methods(http.MethodPut)
	r.HandleFunc("/masterdata/modules", s.handleListModules).Methods(http.MethodGet)
	r.HandleFunc("/masterdata/modules/{id}", s.handleGetModule).Methods(http.MethodGet)
	r.HandleFunc("/masterdata/modules/{id}/components", s.handleModuleComponents).Methods(http.MethodGet)
	r.HandleFunc("/masterdata/modules/{id}", admin(s.handleSaveModule)).Methods(http.MethodPut)
	r.HandleFunc("/masterdata/parts", s.handleListParts).Methods(http.MethodGet)
	r.HandleFunc("/masterdata/parts/{id}", admin(s.handleSavePart)).Methods(http.MethodPut)
	r.HandleFunc("/masterdata/bom", admin(s.handleSaveBOMEdge)).Methods(http.MethodPost)

	// Inventory
	r.HandleFunc("/stock", anyAuthenticated(s.handleGetStock)).Methods(http.MethodGet)
	r.HandleFunc("/stock/adjust", s.requireInventoryMutation(s.handleAdjustStock)).Methods(http.MethodPost)
	r.HandleFunc("/stock/alerts", anyAuthenticated(s.handleStockAlerts)).Methods(http.MethodGet)
	r.HandleFunc("/stock/ledger", anyAuthenticated(s.handleStockLedger)).Methods(http.MethodGet)

	// Customer orders
	r.HandleFunc("/customer-orders", planner(s.handleCreateCustomerOrder)).Methods(http.MethodPost)
	r.HandleFunc("/customer-orders", anyAuthenticated(s.handleListCustomerOrders)).Methods(http.MethodGet)
	r.HandleFunc("/customer-orders/{id}", anyAuthenticated(s.handleGetCustomerOrder)).Methods(http.MethodGet)
	r.HandleFunc("/customer-orders/{id}/confirm", planner(s.handleConfirmCustomerOrder)).Methods(http.MethodPut)
	r.HandleFunc("/customer-orders/{id}/complete", planner(s.handleFulfillCustomerOrder)).Methods(http.MethodPost)
	r.HandleFunc("/customer-orders/{id}/fulfill", planner(s.handleFulfillCustomerOrder)).Methods(http.MethodPost)
	r.HandleFunc("/customer-orders/{id}/cancel", planner(s.handleCancelCustomerOrder)).Methods(http.MethodPost)
	r.HandleFunc("/customer-orders/{id}/warehouse-orders", anyAuthenticated(s.handleWarehouseOrdersByCustomer)).Methods(http.MethodGet)

	// Warehouse orders
	r.HandleFunc("/warehouse-orders", anyAuthenticated(s.handleListWarehouseOrders)).Methods(http.MethodGet)
	r.HandleFunc("/warehouse-orders/{id}", anyAuthenticated(s.handleGetWarehouseOrder)).Methods(http.MethodGet)
	r.HandleFunc("/warehouse-orders/{id}/confirm", planner(s.handleConfirmWarehouseOrder)).Methods(http.MethodPut)
	r.HandleFunc("/warehouse-orders/{id}/fulfill", planner(s.handleFulfillWarehouseOrder)).Methods(http.MethodPost)
	r.HandleFunc("/warehouse-orders/{id}/order-production", planner(s.handleOrderProduction)).Methods(http.MethodPost)

	// Production orders
	r.HandleFunc("/production-orders", anyAuthenticated(s.handleListProductionOrders)).Methods(http.MethodGet)
	r.HandleFunc("/production-orders/{id}", anyAuthenticated(s.handleGetProductionOrder)).Methods(http.MethodGet)
	r.HandleFunc("/production-orders/{id}/schedule", planner(s.handleScheduleProduction)).Methods(http.MethodPost)
	r.HandleFunc("/production-orders/{id}/reset", admin(s.handleResetProductionOrder)).Methods(http.MethodPost)
	r.HandleFunc("/production-orders/{id}/control-orders", anyAuthenticated(s.handleControlOrdersByProduction)).Methods(http.MethodGet)

	// Control orders
	r.HandleFunc("/control-orders/{id}", anyAuthenticated(s.handleGetControlOrder)).Methods(http.MethodGet)
	r.HandleFunc("/control-orders/{id}/dispatch", planner(s.handleDispatchControlOrder)).Methods(http.MethodPost)
	r.HandleFunc("/control-orders/{id}/workstation-orders", anyAuthenticated(s.handleWorkstationOrdersByControl)).Methods(http.MethodGet)
	r.HandleFunc("/control-orders/{id}/supply-orders", anyAuthenticated(s.handleSupplyOrdersByControl)).Methods(http.MethodGet)

	// Workstation orders
	r.HandleFunc("/workstation-orders", anyAuthenticated(s.handleListWorkstationOrders)).Methods(http.MethodGet)
	r.HandleFunc("/workstation-orders/{id}", anyAuthenticated(s.handleGetWorkstationOrder)).Methods(http.MethodGet)
	r.HandleFunc("/workstation-orders/{id}/confirm", plannerOrWorkstation(s.handleConfirmWorkstationOrder)).Methods(http.MethodPut)
	r.HandleFunc("/workstation-orders/{id}/start", workstation(s.handleStartWorkstationOrder)).Methods(http.MethodPost)
	r.HandleFunc("/workstation-orders/{id}/complete-assembly", workstation(s.handleCompleteWorkstationOrderAssembly)).Methods(http.MethodPost)
	r.HandleFunc("/workstation-orders/{id}/complete", workstation(s.handleCompleteWorkstationOrder)).Methods(http.MethodPost)

	// Supply orders
	r.HandleFunc("/supply-orders", anyAuthenticated(s.handleListSupplyOrders)).Methods(http.MethodGet)
	r.HandleFunc("/supply-orders/{id}", anyAuthenticated(s.handleGetSupplyOrder)).Methods(http.MethodGet)
	r.HandleFunc("/supply-orders/{id}/fulfill", plannerOrWorkstation(s.handleFulfillSupplyOrder)).Methods(http.MethodPost)
	r.HandleFunc("/supply-orders/{id}/reject", plannerOrWorkstation(s.handleRejectSupplyOrder)).Methods(http.MethodPost)

	// Final assembly orders
	r.HandleFunc("/final-assembly-orders", anyAuthenticated(s.handleListFinalAssemblyOrders)).Methods(http.MethodGet)
	r.HandleFunc("/final-assembly-orders/{id}", anyAuthenticated(s.handleGetFinalAssemblyOrder)).Methods(http.MethodGet)
	r.HandleFunc("/final-assembly-orders/{id}/confirm", plannerOrWorkstation(s.handleConfirmFinalAssemblyOrder)).Methods(http.MethodPut)
	r.HandleFunc("/final-assembly-orders/{id}/start", workstation(s.handleStartFinalAssemblyOrder)).Methods(http.MethodPost)
	r.HandleFunc("/final-assembly-orders/{id}/complete-assembly", workstation(s.handleCompleteFinalAssemblyOrderAssembly)).Methods(http.MethodPost)
	r.HandleFunc("/final-assembly-orders/{id}/submit", workstation(s.handleSubmitFinalAssemblyOrder)).Methods(http.MethodPost)

	// Workstation queue
	r.HandleFunc("/workstations/{id}/orders", anyAuthenticated(s.handleWorkstationQueue)).Methods(http.MethodGet)

	// Runtime configuration
	r.HandleFunc("/config/{key}", admin(s.handleGetConfig)).Methods(http.MethodGet)
	r.HandleFunc("/config/{key}", admin(s.handleSetConfig)).Methods(http.MethodPut)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}

// pathID extracts the numeric {id} path variable
func pathID(r *http.Request) (int, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, &order.ErrValidation{Field: "id", Reason: "must be a positive integer"}
	}
	return id, nil
}

// listFilter reads the common status/limit/offset query parameters
func listFilter(r *http.Request) order.ListFilter {
	q := r.URL.Query()
	f := order.ListFilter{Status: order.Status(q.Get("status"))}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		f.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil && offset > 0 {
		f.Offset = offset
	}
	if wsID, err := strconv.Atoi(q.Get("workstationId")); err == nil && wsID > 0 {
		f.WorkstationID = wsID
	}
	return f
}
