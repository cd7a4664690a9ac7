package identity

import "context"

// UserRepository persists operator accounts
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	Save(ctx context.Context, user *User) error
	List(ctx context.Context) ([]*User, error)
}
