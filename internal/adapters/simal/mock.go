package simal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/modelfactory/mes/internal/domain/masterdata"
	"github.com/modelfactory/mes/internal/domain/scheduling"
	"github.com/modelfactory/mes/internal/domain/shared"
)

// ModuleCatalog resolves modules to their production workstation
type ModuleCatalog interface {
	GetModule(ctx context.Context, id int) (*masterdata.Module, error)
}

// MockScheduler schedules in-process for the dev profile and tests. Line
// items become one task each, laid out back to back from the current time at
// the module's production workstation.
type MockScheduler struct {
	catalog ModuleCatalog
	clock   shared.Clock

	mu        sync.Mutex
	schedules []*scheduling.Schedule
}

// NewMockScheduler creates an in-process scheduler
func NewMockScheduler(catalog ModuleCatalog, clock shared.Clock) *MockScheduler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &MockScheduler{catalog: catalog, clock: clock}
}

// CreateSchedule lays the line items out serially
func (m *MockScheduler) CreateSchedule(ctx context.Context, req scheduling.ScheduleRequest) (*scheduling.Schedule, error) {
	if len(req.LineItems) == 0 {
		return nil, &scheduling.ErrBackend{
			StatusCode: 422,
			Reason:     fmt.Sprintf("order %s has no line items to schedule", req.OrderNumber),
		}
	}

	cursor := m.clock.Now()
	schedule := &scheduling.Schedule{
		ScheduleID: uuid.NewString(),
		Tasks:      make([]scheduling.Task, 0, len(req.LineItems)),
	}
	for i, li := range req.LineItems {
		module, err := m.catalog.GetModule(ctx, li.ItemID)
		if err != nil {
			return nil, &scheduling.ErrBackend{
				StatusCode: 422,
				Reason:     fmt.Sprintf("unknown module %d in order %s", li.ItemID, req.OrderNumber),
			}
		}
		minutes := li.EstimatedTimeMinutes
		if minutes <= 0 {
			minutes = 30
		}
		duration := time.Duration(minutes*li.Quantity) * time.Minute
		schedule.Tasks = append(schedule.Tasks, scheduling.Task{
			TaskID:          uuid.NewString(),
			ItemID:          li.ItemID,
			Quantity:        li.Quantity,
			WorkstationID:   module.ProductionWorkstationID,
			StartTime:       cursor,
			EndTime:         cursor.Add(duration),
			DurationMinutes: minutes * li.Quantity,
			Sequence:        i + 1,
		})
		cursor = cursor.Add(duration)
	}

	m.mu.Lock()
	m.schedules = append(m.schedules, schedule)
	m.mu.Unlock()

	return schedule, nil
}

// Schedules returns every schedule created so far, for test assertions
func (m *MockScheduler) Schedules() []*scheduling.Schedule {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*scheduling.Schedule, len(m.schedules))
	copy(out, m.schedules)
	return out
}
