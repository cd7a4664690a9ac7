package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/modelfactory/mes/internal/domain/identity"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func userToModel(u *identity.User) *UserModel {
	return &UserModel{
		ID:            u.ID,
		Username:      u.Username,
		PasswordHash:  u.PasswordHash,
		Role:          string(u.Role),
		WorkstationID: u.WorkstationID,
		CreatedAt:     u.CreatedAt,
	}
}

func modelToUser(m *UserModel) (*identity.User, error) {
	role, err := identity.ParseRole(m.Role)
	if err != nil {
		return nil, err
	}
	return &identity.User{
		ID:            m.ID,
		Username:      m.Username,
		PasswordHash:  m.PasswordHash,
		Role:          role,
		WorkstationID: m.WorkstationID,
		CreatedAt:     m.CreatedAt,
	}, nil
}

// FindByUsername returns the user with the given username, or nil when none
// exists. Missing users are not an error so login can fail uniformly.
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return modelToUser(&model)
}

// FindByID returns the user with the given id, or nil when none exists
func (r *GormUserRepository) FindByID(ctx context.Context, id int) (*identity.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}
	return modelToUser(&model)
}

// Save upserts a user and backfills the generated id on insert
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	model := userToModel(user)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	user.ID = model.ID
	return nil
}

// List returns all users ordered by id
func (r *GormUserRepository) List(ctx context.Context) ([]*identity.User, error) {
	var models []UserModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	out := make([]*identity.User, 0, len(models))
	for i := range models {
		u, err := modelToUser(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}
