package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/scheduling"
	"github.com/modelfactory/mes/internal/domain/shared"
)

const (
	defaultMaxAttempts = 3
	defaultBaseBackoff = 500 * time.Millisecond
	defaultCallTimeout = 10 * time.Second
)

// Adapter wraps the scheduling engine client with bounded retries and maps
// backend failures onto the order error vocabulary. Schedule creation is
// idempotent on the engine side, so retrying a timed-out call is safe.
type Adapter struct {
	client      scheduling.Client
	clock       shared.Clock
	maxAttempts int
	baseBackoff time.Duration
	callTimeout time.Duration
}

// NewAdapter creates a scheduler adapter with the default retry schedule
func NewAdapter(client scheduling.Client, clock shared.Clock) *Adapter {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Adapter{
		client:      client,
		clock:       clock,
		maxAttempts: defaultMaxAttempts,
		baseBackoff: defaultBaseBackoff,
		callTimeout: defaultCallTimeout,
	}
}

// NewAdapterWithRetry creates a scheduler adapter with an explicit retry
// schedule. Zero values fall back to the defaults.
func NewAdapterWithRetry(client scheduling.Client, clock shared.Clock, maxAttempts int, baseBackoff, callTimeout time.Duration) *Adapter {
	a := NewAdapter(client, clock)
	if maxAttempts > 0 {
		a.maxAttempts = maxAttempts
	}
	if baseBackoff > 0 {
		a.baseBackoff = baseBackoff
	}
	if callTimeout > 0 {
		a.callTimeout = callTimeout
	}
	return a
}

// CreateSchedule requests a schedule for one production order, retrying with
// exponential backoff. After the last attempt the failure surfaces as
// ORDER_PRODUCTION_PLANNING_ERROR.
func (a *Adapter) CreateSchedule(ctx context.Context, req scheduling.ScheduleRequest) (*scheduling.Schedule, error) {
	var lastErr error
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		if attempt > 0 {
			a.clock.Sleep(a.baseBackoff << (attempt - 1))
		}

		callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
		schedule, err := a.client.CreateSchedule(callCtx, req)
		cancel()

		if err == nil {
			if len(schedule.Tasks) == 0 {
				return nil, &order.ErrProductionPlanning{
					ScheduleID: schedule.ScheduleID,
					Reason:     "scheduling engine returned an empty task list",
				}
			}
			return schedule, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	var backend *scheduling.ErrBackend
	if errors.As(lastErr, &backend) {
		return nil, &order.ErrProductionPlanning{Reason: backend.Reason}
	}
	return nil, &order.ErrProductionPlanning{Reason: lastErr.Error()}
}
