package sysconfig

import (
	"context"
	"fmt"
	"strconv"
)

// Config keys
const (
	KeyLotSizeThreshold = "LOT_SIZE_THRESHOLD"
)

// DefaultLotSizeThreshold applies when the key has never been set: requested
// quantities at or above it force the production path regardless of stock.
const DefaultLotSizeThreshold = 3

// Store persists runtime-tunable configuration values
type Store interface {
	// Get returns the stored value and whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Service exposes runtime configuration with defaults. Values live in the
// database so planners can tune them without a restart.
type Service struct {
	store Store
}

// NewService creates the config service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// LotSizeThreshold returns the current threshold, falling back to the default
func (s *Service) LotSizeThreshold(ctx context.Context) (int, error) {
	raw, ok, err := s.store.Get(ctx, KeyLotSizeThreshold)
	if err != nil {
		return 0, fmt.Errorf("failed to read config: %w", err)
	}
	if !ok {
		return DefaultLotSizeThreshold, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return DefaultLotSizeThreshold, nil
	}
	return value, nil
}

// SetLotSizeThreshold updates the threshold. Takes effect on the next
// customer order confirmation; in-flight orders keep their chosen scenario.
func (s *Service) SetLotSizeThreshold(ctx context.Context, value int) error {
	if value < 1 {
		return fmt.Errorf("lot size threshold must be at least 1, got %d", value)
	}
	if err := s.store.Set(ctx, KeyLotSizeThreshold, strconv.Itoa(value)); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Get returns the raw stored value for a key, falling back to the key's
// default when unset. Only known keys are readable.
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	if key != KeyLotSizeThreshold {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to read config: %w", err)
	}
	if !ok {
		return strconv.Itoa(DefaultLotSizeThreshold), nil
	}
	return raw, nil
}

// Set updates a key after per-key validation
func (s *Service) Set(ctx context.Context, key, value string) error {
	if key != KeyLotSizeThreshold {
		return fmt.Errorf("unknown config key %q", key)
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("config value for %s must be an integer: %w", key, err)
	}
	return s.SetLotSizeThreshold(ctx, parsed)
}
