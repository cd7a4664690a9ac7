package config

import "time"

// AuthConfig holds token signing configuration
type AuthConfig struct {
	// SigningSecret signs HS256 bearer tokens. Must be at least 32
	// characters; the dev profile ships a fixed development secret.
	SigningSecret string `mapstructure:"signing_secret" validate:"required,min=32"`

	// TokenTTL bounds how long an issued token stays valid
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}
