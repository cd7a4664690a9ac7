package config

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json"`

	// RequestLog enables the HTTP request log middleware
	RequestLog bool `mapstructure:"request_log"`
}
