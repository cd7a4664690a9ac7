package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// GormConfigStore persists runtime configuration key/value pairs
type GormConfigStore struct {
	db *gorm.DB
}

// NewGormConfigStore creates a new GORM config store
func NewGormConfigStore(db *gorm.DB) *GormConfigStore {
	return &GormConfigStore{db: db}
}

// Get returns the stored value for key; found is false when the key is unset
func (s *GormConfigStore) Get(ctx context.Context, key string) (string, bool, error) {
	var model SystemConfigModel
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read config key %s: %w", key, err)
	}
	return model.Value, true, nil
}

// Set upserts a configuration value
func (s *GormConfigStore) Set(ctx context.Context, key, value string) error {
	model := &SystemConfigModel{Key: key, Value: value}
	if err := s.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to write config key %s: %w", key, err)
	}
	return nil
}
