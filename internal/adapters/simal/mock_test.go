package simal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelfactory/mes/internal/adapters/simal"
	"github.com/modelfactory/mes/internal/domain/masterdata"
	"github.com/modelfactory/mes/internal/domain/scheduling"
	"github.com/modelfactory/mes/internal/domain/shared"
)

type stubCatalog struct {
	modules map[int]*masterdata.Module
}

func (s *stubCatalog) GetModule(_ context.Context, id int) (*masterdata.Module, error) {
	m, ok := s.modules[id]
	if !ok {
		return nil, &masterdata.ErrNotFound{Entity: "module", ID: id}
	}
	return m, nil
}

func newMockScheduler() (*simal.MockScheduler, *shared.MockClock) {
	clock := shared.NewMockClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	catalog := &stubCatalog{modules: map[int]*masterdata.Module{
		1: {ID: 1, Name: "Chassis Frame", ProductionWorkstationID: 1, EstimatedTimeMinutes: 20},
		4: {ID: 4, Name: "Cabin", ProductionWorkstationID: 2, EstimatedTimeMinutes: 15},
	}}
	return simal.NewMockScheduler(catalog, clock), clock
}

func TestMockScheduler_LaysTasksOutSerially(t *testing.T) {
	scheduler, clock := newMockScheduler()

	schedule, err := scheduler.CreateSchedule(context.Background(), scheduling.ScheduleRequest{
		OrderNumber: "PO-1",
		LineItems: []scheduling.LineItem{
			{ItemID: 1, Quantity: 2, EstimatedTimeMinutes: 20},
			{ItemID: 4, Quantity: 2, EstimatedTimeMinutes: 15},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, schedule.ScheduleID)
	require.Len(t, schedule.Tasks, 2)

	first, second := schedule.Tasks[0], schedule.Tasks[1]
	assert.Equal(t, 1, first.WorkstationID)
	assert.Equal(t, clock.Now(), first.StartTime)
	assert.Equal(t, 40, first.DurationMinutes)
	assert.Equal(t, first.StartTime.Add(40*time.Minute), first.EndTime)

	// The next task starts where the previous one ended
	assert.Equal(t, first.EndTime, second.StartTime)
	assert.Equal(t, 2, second.WorkstationID)
	assert.Equal(t, 2, second.Sequence)

	require.Len(t, scheduler.Schedules(), 1)
}

func TestMockScheduler_DefaultsMissingEstimates(t *testing.T) {
	scheduler, _ := newMockScheduler()

	schedule, err := scheduler.CreateSchedule(context.Background(), scheduling.ScheduleRequest{
		OrderNumber: "PO-2",
		LineItems:   []scheduling.LineItem{{ItemID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 30, schedule.Tasks[0].DurationMinutes)
}

func TestMockScheduler_RejectsEmptyLineItems(t *testing.T) {
	scheduler, _ := newMockScheduler()

	_, err := scheduler.CreateSchedule(context.Background(), scheduling.ScheduleRequest{OrderNumber: "PO-3"})

	var backend *scheduling.ErrBackend
	require.ErrorAs(t, err, &backend)
	assert.Equal(t, 422, backend.StatusCode)
}

func TestMockScheduler_RejectsUnknownModule(t *testing.T) {
	scheduler, _ := newMockScheduler()

	_, err := scheduler.CreateSchedule(context.Background(), scheduling.ScheduleRequest{
		OrderNumber: "PO-4",
		LineItems:   []scheduling.LineItem{{ItemID: 99, Quantity: 1}},
	})

	var backend *scheduling.ErrBackend
	require.ErrorAs(t, err, &backend)
	assert.Contains(t, backend.Reason, "unknown module 99")
}
