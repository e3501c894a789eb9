package userdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository is the user store contract. The ranking module reads from it to
// resolve cohort (stream) filters and to seed cumulative score rows.
type Repository interface {
	Create(ctx context.Context, db bun.IDB, user *User) error
	Delete(ctx context.Context, db bun.IDB, userID string) error
	GetByID(ctx context.Context, db bun.IDB, userID string) (*User, error)
	GetByEmail(ctx context.Context, db bun.IDB, email string) (*User, error)
	FindByEmailOrPhone(ctx context.Context, db bun.IDB, email, phone string) (*User, error)
	SetRoleByEmail(ctx context.Context, db bun.IDB, email, role string) (*User, error)
	ListByRole(ctx context.Context, db bun.IDB, role string) ([]User, error)
	// ListIDsByStream returns the ids of every user in the stream; an empty
	// stream returns every user id.
	ListIDsByStream(ctx context.Context, db bun.IDB, stream string) ([]string, error)
	GetByIDs(ctx context.Context, db bun.IDB, userIDs []string) ([]User, error)
}
