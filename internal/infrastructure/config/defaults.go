package config

import "time"

// devSigningSecret is only ever applied under the dev profile
const devSigningSecret = "mes-development-signing-secret-0001"

// SetDefaults sets default values for all configuration fields. The profile
// decides the database and scheduler backends: dev runs on sqlite with the
// mock scheduler, prod and cloud on postgres with the SimAL HTTP backend.
func SetDefaults(cfg *Config) {
	if cfg.Profile == "" {
		cfg.Profile = "dev"
	}

	// Server defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}

	// Database defaults
	if cfg.Database.Type == "" {
		if cfg.Profile == "dev" {
			cfg.Database.Type = "sqlite"
		} else {
			cfg.Database.Type = "postgres"
		}
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "mes.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "mes"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "mes"
	}
	if cfg.Database.SSLMode == "" {
		if cfg.Profile == "cloud" {
			cfg.Database.SSLMode = "require"
		} else {
			cfg.Database.SSLMode = "disable"
		}
	}
	if cfg.Profile == "dev" {
		cfg.Database.AutoMigrate = true
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Auth defaults
	if cfg.Auth.SigningSecret == "" && cfg.Profile == "dev" {
		cfg.Auth.SigningSecret = devSigningSecret
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 12 * time.Hour
	}

	// Scheduler defaults
	if cfg.Scheduler.Mode == "" {
		if cfg.Profile == "dev" {
			cfg.Scheduler.Mode = "mock"
		} else {
			cfg.Scheduler.Mode = "http"
		}
	}
	if cfg.Scheduler.BaseURL == "" {
		cfg.Scheduler.BaseURL = "http://localhost:9090"
	}
	if cfg.Scheduler.Timeout == 0 {
		cfg.Scheduler.Timeout = 10 * time.Second
	}
	if cfg.Scheduler.RateLimit.Requests == 0 {
		cfg.Scheduler.RateLimit.Requests = 5
	}
	if cfg.Scheduler.RateLimit.Burst == 0 {
		cfg.Scheduler.RateLimit.Burst = 10
	}
	if cfg.Scheduler.Retry.MaxAttempts == 0 {
		cfg.Scheduler.Retry.MaxAttempts = 3
	}
	if cfg.Scheduler.Retry.BackoffBase == 0 {
		cfg.Scheduler.Retry.BackoffBase = 500 * time.Millisecond
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Profile == "dev" {
		cfg.Logging.RequestLog = true
	}
}
