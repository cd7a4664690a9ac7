package scheduling

import "time"

// LineItem is one position of a schedule request
type LineItem struct {
	ItemID               int    `json:"itemId"`
	ItemName             string `json:"itemName"`
	Quantity             int    `json:"quantity"`
	EstimatedTimeMinutes int    `json:"estimatedTimeMinutes"`
}

// ScheduleRequest is what the MES sends to the external scheduling engine
// for one production order.
type ScheduleRequest struct {
	OrderNumber string     `json:"orderNumber"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	LineItems   []LineItem `json:"lineItems"`
}

// Task is one scheduled unit of work with its workstation assignment and
// time window.
type Task struct {
	TaskID          string    `json:"taskId"`
	ItemID          int       `json:"itemId"`
	Quantity        int       `json:"qty"`
	WorkstationID   int       `json:"workstationId"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMin"`
	Sequence        int       `json:"sequence"`
}

// Schedule is the engine's answer: an ordered task list under one schedule id
type Schedule struct {
	ScheduleID string `json:"scheduleId"`
	Tasks      []Task `json:"tasks"`
}
