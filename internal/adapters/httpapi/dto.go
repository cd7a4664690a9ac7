package httpapi

import (
	"time"

	"github.com/modelfactory/mes/internal/domain/identity"
	"github.com/modelfactory/mes/internal/domain/inventory"
	"github.com/modelfactory/mes/internal/domain/masterdata"
	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
)

// orderItemDTO is one order position on the wire. requestedQuantity and
// quantity are synonyms: both are accepted on ingest, both are emitted on
// output for backward compatibility.
type orderItemDTO struct {
	ItemType          string `json:"itemType"`
	ItemID            int    `json:"itemId"`
	RequestedQuantity int    `json:"requestedQuantity"`
	Quantity          int    `json:"quantity"`
}

func toOrderItemDTOs(items []shared.ItemQuantity) []orderItemDTO {
	out := make([]orderItemDTO, 0, len(items))
	for _, iq := range items {
		out = append(out, orderItemDTO{
			ItemType:          string(iq.Item.Type),
			ItemID:            iq.Item.ID,
			RequestedQuantity: iq.Quantity,
			Quantity:          iq.Quantity,
		})
	}
	return out
}

// createOrderItemRequest accepts productId or itemId, requestedQuantity or
// quantity.
type createOrderItemRequest struct {
	ProductID         int `json:"productId"`
	ItemID            int `json:"itemId"`
	RequestedQuantity int `json:"requestedQuantity"`
	Quantity          int `json:"quantity"`
}

func (r createOrderItemRequest) productID() int {
	if r.ProductID != 0 {
		return r.ProductID
	}
	return r.ItemID
}

func (r createOrderItemRequest) requestedQuantity() int {
	if r.RequestedQuantity != 0 {
		return r.RequestedQuantity
	}
	return r.Quantity
}

type createCustomerOrderRequest struct {
	OrderItems []createOrderItemRequest `json:"orderItems"`
	Items      []createOrderItemRequest `json:"items"`
	Priority   string                   `json:"priority"`
	Notes      string                   `json:"notes"`
}

func (r createCustomerOrderRequest) orderItems() []createOrderItemRequest {
	if len(r.OrderItems) > 0 {
		return r.OrderItems
	}
	return r.Items
}

type customerOrderDTO struct {
	ID              int            `json:"id"`
	OrderNumber     string         `json:"orderNumber"`
	Status          string         `json:"status"`
	Priority        string         `json:"priority"`
	TriggerScenario string         `json:"triggerScenario,omitempty"`
	Items           []orderItemDTO `json:"orderItems"`
	Notes           string         `json:"notes,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func toCustomerOrderDTO(o *order.CustomerOrder) customerOrderDTO {
	return customerOrderDTO{
		ID:              o.ID(),
		OrderNumber:     o.Number(),
		Status:          string(o.Status()),
		Priority:        string(o.Priority()),
		TriggerScenario: string(o.TriggerScenario()),
		Items:           toOrderItemDTOs(o.Items()),
		Notes:           o.Notes(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}
}

type warehouseOrderDTO struct {
	ID                int            `json:"id"`
	OrderNumber       string         `json:"orderNumber"`
	Status            string         `json:"status"`
	Priority          string         `json:"priority"`
	CustomerOrderID   int            `json:"customerOrderId"`
	ProductionOrderID *int           `json:"productionOrderId"`
	TriggerScenario   string         `json:"triggerScenario,omitempty"`
	Items             []orderItemDTO `json:"orderItems"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

func toWarehouseOrderDTO(o *order.WarehouseOrder) warehouseOrderDTO {
	return warehouseOrderDTO{
		ID:                o.ID(),
		OrderNumber:       o.Number(),
		Status:            string(o.Status()),
		Priority:          string(o.Priority()),
		CustomerOrderID:   o.CustomerOrderID(),
		ProductionOrderID: o.ProductionOrderID(),
		TriggerScenario:   string(o.TriggerScenario()),
		Items:             toOrderItemDTOs(o.Items()),
		CreatedAt:         o.CreatedAt(),
		UpdatedAt:         o.UpdatedAt(),
	}
}

type productionOrderDTO struct {
	ID                     int        `json:"id"`
	OrderNumber            string     `json:"orderNumber"`
	Status                 string     `json:"status"`
	Priority               string     `json:"priority"`
	SourceCustomerOrderID  *int       `json:"sourceCustomerOrderId"`
	SourceWarehouseOrderID *int       `json:"sourceWarehouseOrderId"`
	ScheduleID             string     `json:"scheduleId,omitempty"`
	DueDate                *time.Time `json:"dueDate,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

func toProductionOrderDTO(o *order.ProductionOrder) productionOrderDTO {
	return productionOrderDTO{
		ID:                     o.ID(),
		OrderNumber:            o.Number(),
		Status:                 string(o.Status()),
		Priority:               string(o.Priority()),
		SourceCustomerOrderID:  o.SourceCustomerOrderID(),
		SourceWarehouseOrderID: o.SourceWarehouseOrderID(),
		ScheduleID:             o.ScheduleID(),
		DueDate:                o.DueDate(),
		CreatedAt:              o.CreatedAt(),
		UpdatedAt:              o.UpdatedAt(),
	}
}

type controlOrderDTO struct {
	ID                    int        `json:"id"`
	OrderNumber           string     `json:"orderNumber"`
	Status                string     `json:"status"`
	Kind                  string     `json:"kind"`
	ProductionOrderID     int        `json:"productionOrderId"`
	AssignedWorkstationID int        `json:"assignedWorkstationId"`
	TaskID                string     `json:"taskId,omitempty"`
	ItemType              string     `json:"itemType"`
	ItemID                int        `json:"itemId"`
	Quantity              int        `json:"quantity"`
	Sequence              int        `json:"sequence"`
	PlannedStart          *time.Time `json:"plannedStart,omitempty"`
	PlannedEnd            *time.Time `json:"plannedEnd,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

func toControlOrderDTO(o *order.ControlOrder) controlOrderDTO {
	return controlOrderDTO{
		ID:                    o.ID(),
		OrderNumber:           o.Number(),
		Status:                string(o.Status()),
		Kind:                  string(o.Kind()),
		ProductionOrderID:     o.ProductionOrderID(),
		AssignedWorkstationID: o.AssignedWorkstationID(),
		TaskID:                o.TaskID(),
		ItemType:              string(o.Item().Type),
		ItemID:                o.Item().ID,
		Quantity:              o.Quantity(),
		Sequence:              o.Sequence(),
		PlannedStart:          o.PlannedStart(),
		PlannedEnd:            o.PlannedEnd(),
		CreatedAt:             o.CreatedAt(),
		UpdatedAt:             o.UpdatedAt(),
	}
}

type workstationOrderDTO struct {
	ID             int       `json:"id"`
	OrderNumber    string    `json:"orderNumber"`
	Status         string    `json:"status"`
	Kind           string    `json:"kind"`
	ControlOrderID int       `json:"controlOrderId"`
	WorkstationID  int       `json:"workstationId"`
	ItemType       string    `json:"itemType"`
	ItemID         int       `json:"itemId"`
	Quantity       int       `json:"quantity"`
	SupplyOrderID  *int      `json:"supplyOrderId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toWorkstationOrderDTO(o *order.WorkstationOrder) workstationOrderDTO {
	return workstationOrderDTO{
		ID:             o.ID(),
		OrderNumber:    o.Number(),
		Status:         string(o.Status()),
		Kind:           string(o.Kind()),
		ControlOrderID: o.ControlOrderID(),
		WorkstationID:  o.WorkstationID(),
		ItemType:       string(o.Item().Type),
		ItemID:         o.Item().ID,
		Quantity:       o.Quantity(),
		SupplyOrderID:  o.SupplyOrderID(),
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
	}
}

type supplyOrderDTO struct {
	ID                      int            `json:"id"`
	OrderNumber             string         `json:"orderNumber"`
	Status                  string         `json:"status"`
	ControlOrderID          int            `json:"controlOrderId"`
	RequestingWorkstationID int            `json:"requestingWorkstationId"`
	SupplyWorkstationID     int            `json:"supplyWorkstationId"`
	Items                   []orderItemDTO `json:"orderItems"`
	CreatedAt               time.Time      `json:"createdAt"`
	UpdatedAt               time.Time      `json:"updatedAt"`
}

func toSupplyOrderDTO(o *order.SupplyOrder) supplyOrderDTO {
	return supplyOrderDTO{
		ID:                      o.ID(),
		OrderNumber:             o.Number(),
		Status:                  string(o.Status()),
		ControlOrderID:          o.ControlOrderID(),
		RequestingWorkstationID: o.RequestingWorkstationID(),
		SupplyWorkstationID:     o.SupplyWarehouseWorkstationID(),
		Items:                   toOrderItemDTOs(o.Items()),
		CreatedAt:               o.CreatedAt(),
		UpdatedAt:               o.UpdatedAt(),
	}
}

type finalAssemblyOrderDTO struct {
	ID                int       `json:"id"`
	OrderNumber       string    `json:"orderNumber"`
	Status            string    `json:"status"`
	WorkstationID     int       `json:"workstationId"`
	WarehouseOrderID  *int      `json:"warehouseOrderId"`
	ProductionOrderID *int      `json:"productionOrderId"`
	OutputProductID   int       `json:"outputProductId"`
	OutputQuantity    int       `json:"outputQuantity"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func toFinalAssemblyOrderDTO(o *order.FinalAssemblyOrder) finalAssemblyOrderDTO {
	return finalAssemblyOrderDTO{
		ID:                o.ID(),
		OrderNumber:       o.Number(),
		Status:            string(o.Status()),
		WorkstationID:     o.WorkstationID(),
		WarehouseOrderID:  o.WarehouseOrderID(),
		ProductionOrderID: o.ProductionOrderID(),
		OutputProductID:   o.OutputProductID(),
		OutputQuantity:    o.OutputQuantity(),
		CreatedAt:         o.CreatedAt(),
		UpdatedAt:         o.UpdatedAt(),
	}
}

type stockRecordDTO struct {
	WorkstationID int       `json:"workstationId"`
	ItemType      string    `json:"itemType"`
	ItemID        int       `json:"itemId"`
	Quantity      int       `json:"quantity"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

func toStockRecordDTO(r *inventory.StockRecord) stockRecordDTO {
	return stockRecordDTO{
		WorkstationID: r.Key.WorkstationID,
		ItemType:      string(r.Key.Item.Type),
		ItemID:        r.Key.Item.ID,
		Quantity:      r.Quantity,
		LastUpdated:   r.LastUpdated,
	}
}

type ledgerEntryDTO struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	WorkstationID int       `json:"workstationId"`
	ItemType      string    `json:"itemType"`
	ItemID        int       `json:"itemId"`
	Delta         int       `json:"delta"`
	Reason        string    `json:"reasonCode"`
	RefOrderType  string    `json:"refOrderType,omitempty"`
	RefOrderID    int       `json:"refOrderId,omitempty"`
	Actor         string    `json:"actor,omitempty"`
}

func toLedgerEntryDTO(e *inventory.LedgerEntry) ledgerEntryDTO {
	return ledgerEntryDTO{
		ID:            e.ID(),
		Timestamp:     e.Timestamp(),
		WorkstationID: e.Key().WorkstationID,
		ItemType:      string(e.Key().Item.Type),
		ItemID:        e.Key().Item.ID,
		Delta:         e.Delta(),
		Reason:        string(e.Reason()),
		RefOrderType:  e.RefOrderType(),
		RefOrderID:    e.RefOrderID(),
		Actor:         e.Actor(),
	}
}

// bomComponentDTO is the BOM browse shape. componentId is canonical; moduleId
// is the backward-compatible synonym accepted on ingest and mirrored on
// output when the component is a module.
type bomComponentDTO struct {
	ComponentID   int    `json:"componentId"`
	ModuleID      int    `json:"moduleId,omitempty"`
	ComponentName string `json:"componentName"`
	ComponentType string `json:"componentType"`
	Quantity      int    `json:"quantity"`
}

func toBOMComponentDTO(edge masterdata.BOMEdge, name string) bomComponentDTO {
	dto := bomComponentDTO{
		ComponentID:   edge.Component.ID,
		ComponentName: name,
		ComponentType: string(edge.Component.Type),
		Quantity:      edge.Quantity,
	}
	if edge.Component.Type == shared.ItemTypeModule {
		dto.ModuleID = edge.Component.ID
	}
	return dto
}

type userDTO struct {
	ID            int    `json:"id"`
	Username      string `json:"username"`
	Role          string `json:"role"`
	WorkstationID *int   `json:"workstationId,omitempty"`
}

func toUserDTO(u *identity.User) userDTO {
	return userDTO{
		ID:            u.ID,
		Username:      u.Username,
		Role:          string(u.Role),
		WorkstationID: u.WorkstationID,
	}
}

type loginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      userDTO   `json:"user"`
}

type workstationDTO struct {
	ID   int    `json:"id"`
	Role string `json:"role"`
	Name string `json:"name"`
}

type productDTO struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type moduleDTO struct {
	ID                      int    `json:"id"`
	Name                    string `json:"name"`
	ProductionWorkstationID int    `json:"productionWorkstationId"`
	EstimatedTimeMinutes    int    `json:"estimatedTimeMinutes"`
}

type partDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
