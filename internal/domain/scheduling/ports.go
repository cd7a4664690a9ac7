package scheduling

import "context"

// Client talks to the external scheduling engine. Implementations own
// transport concerns (timeouts, serialization); retries and error wrapping
// live in the adapter above this port.
type Client interface {
	CreateSchedule(ctx context.Context, req ScheduleRequest) (*Schedule, error)
}
