package identity

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role gates what a user may do
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RolePlanner     Role = "PLANNER"
	RoleWorkstation Role = "WORKSTATION"
	RoleViewer      Role = "VIEWER"
)

// IsValid reports whether the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RolePlanner, RoleWorkstation, RoleViewer:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole parses a persisted role value
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role: %q", s)
	}
	return r, nil
}

// User is an operator account. WORKSTATION users are bound to the station
// whose queue they operate; other roles carry no binding.
type User struct {
	ID            int
	Username      string
	PasswordHash  string
	Role          Role
	WorkstationID *int
	CreatedAt     time.Time
}

// NewUser creates a user with a bcrypt password hash
func NewUser(username, password string, role Role, workstationID *int, now time.Time) (*User, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("unknown role: %q", role)
	}
	if role == RoleWorkstation && workstationID == nil {
		return nil, fmt.Errorf("workstation users must be bound to a workstation")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &User{
		Username:      username,
		PasswordHash:  string(hash),
		Role:          role,
		WorkstationID: workstationID,
		CreatedAt:     now,
	}, nil
}

// CheckPassword verifies a candidate password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
