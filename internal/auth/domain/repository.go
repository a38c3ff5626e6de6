package domain

import "context"

// Repository reads and provisions users. FindByEmail returns ErrUserNotFound
// when no row matches.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Insert(ctx context.Context, user *User) error
}
