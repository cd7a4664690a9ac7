package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelfactory/mes/internal/application/scheduler"
	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/scheduling"
	"github.com/modelfactory/mes/internal/domain/shared"
)

type flakyClient struct {
	failures int
	calls    int
	schedule *scheduling.Schedule
}

func (c *flakyClient) CreateSchedule(_ context.Context, _ scheduling.ScheduleRequest) (*scheduling.Schedule, error) {
	c.calls++
	if c.calls <= c.failures {
		return nil, &scheduling.ErrBackend{StatusCode: 503, Reason: "engine unavailable"}
	}
	return c.schedule, nil
}

func okSchedule() *scheduling.Schedule {
	return &scheduling.Schedule{
		ScheduleID: "sched-1",
		Tasks:      []scheduling.Task{{TaskID: "task-1", ItemID: 1, Quantity: 1, WorkstationID: 1}},
	}
}

func TestAdapter_RetriesUntilTheEngineAnswers(t *testing.T) {
	client := &flakyClient{failures: 2, schedule: okSchedule()}
	clock := shared.NewMockClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	adapter := scheduler.NewAdapterWithRetry(client, clock, 3, 100*time.Millisecond, time.Second)

	schedule, err := adapter.CreateSchedule(context.Background(), scheduling.ScheduleRequest{OrderNumber: "PO-1"})

	require.NoError(t, err)
	assert.Equal(t, "sched-1", schedule.ScheduleID)
	assert.Equal(t, 3, client.calls)
}

func TestAdapter_SurfacesPlanningErrorAfterLastAttempt(t *testing.T) {
	client := &flakyClient{failures: 10}
	clock := shared.NewMockClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	adapter := scheduler.NewAdapterWithRetry(client, clock, 3, 100*time.Millisecond, time.Second)

	_, err := adapter.CreateSchedule(context.Background(), scheduling.ScheduleRequest{OrderNumber: "PO-2"})

	var planning *order.ErrProductionPlanning
	require.ErrorAs(t, err, &planning)
	assert.Contains(t, planning.Reason, "engine unavailable")
	assert.Equal(t, 3, client.calls)
}

func TestAdapter_RejectsEmptyTaskList(t *testing.T) {
	client := &flakyClient{schedule: &scheduling.Schedule{ScheduleID: "sched-2"}}
	clock := shared.NewMockClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	adapter := scheduler.NewAdapterWithRetry(client, clock, 1, 100*time.Millisecond, time.Second)

	_, err := adapter.CreateSchedule(context.Background(), scheduling.ScheduleRequest{OrderNumber: "PO-3"})

	var planning *order.ErrProductionPlanning
	require.ErrorAs(t, err, &planning)
	assert.Equal(t, "sched-2", planning.ScheduleID)
}
