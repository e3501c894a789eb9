package quizdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Filter narrows catalog queries. Query matches title/subject/tags/
// description case-insensitively; Stream restricts to quizzes targeting
// that stream ("" or "All" disables the restriction).
type Filter struct {
	Query  string
	Stream string
}

// Repository is the quiz catalog store contract.
type Repository interface {
	Create(ctx context.Context, db bun.IDB, quiz *Quiz) error
	Update(ctx context.Context, db bun.IDB, quiz *Quiz) (*Quiz, error)
	Delete(ctx context.Context, db bun.IDB, quizID string) error
	GetByID(ctx context.Context, db bun.IDB, quizID string) (*Quiz, error)
	// Page lists quizzes matching the filter, newest first.
	Page(ctx context.Context, db bun.IDB, filter Filter, offset, limit int) ([]Quiz, error)
	Count(ctx context.Context, db bun.IDB, filter Filter) (int, error)
	ListAll(ctx context.Context, db bun.IDB) ([]Quiz, error)
}
