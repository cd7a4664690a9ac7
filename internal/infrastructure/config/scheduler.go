package config

import "time"

// SchedulerConfig holds SimAL scheduling engine configuration
type SchedulerConfig struct {
	// Mode selects the backend: "http" calls the SimAL service, "mock"
	// schedules in-process (dev profile and tests).
	Mode string `mapstructure:"mode" validate:"required,oneof=http mock"`

	// BaseURL of the SimAL service, e.g. http://localhost:9090
	BaseURL string `mapstructure:"base_url"`

	// Timeout bounds each scheduling call
	Timeout time.Duration `mapstructure:"timeout"`

	// Client-side rate limit
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Retry policy applied by the adapter above the client
	Retry RetryConfig `mapstructure:"retry"`
}

// RateLimitConfig holds client-side rate limiting configuration
type RateLimitConfig struct {
	Requests int `mapstructure:"requests" validate:"min=1"`
	Burst    int `mapstructure:"burst" validate:"min=1"`
}

// RetryConfig holds retry policy configuration
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" validate:"min=1"`
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}
