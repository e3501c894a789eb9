package quizservice

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"

	quizdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/quiz/infrastructure/repositories"
)

// FakeDB satisfies shared.DB for tests.
type FakeDB struct {
	bun.IDB
}

func (f *FakeDB) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(context.Context, bun.Tx) error) error {
	return fn(ctx, bun.Tx{})
}

// FakeQuizRepo is a programmable stub for quizdb.Repository.
type FakeQuizRepo struct {
	trace []string

	CreateFunc  func(ctx context.Context, db bun.IDB, quiz *quizdb.Quiz) error
	UpdateFunc  func(ctx context.Context, db bun.IDB, quiz *quizdb.Quiz) (*quizdb.Quiz, error)
	DeleteFunc  func(ctx context.Context, db bun.IDB, quizID string) error
	GetByIDFunc func(ctx context.Context, db bun.IDB, quizID string) (*quizdb.Quiz, error)
	PageFunc    func(ctx context.Context, db bun.IDB, filter quizdb.Filter, offset, limit int) ([]quizdb.Quiz, error)
	CountFunc   func(ctx context.Context, db bun.IDB, filter quizdb.Filter) (int, error)
	ListAllFunc func(ctx context.Context, db bun.IDB) ([]quizdb.Quiz, error)
}

func (f *FakeQuizRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeQuizRepo) Create(ctx context.Context, db bun.IDB, quiz *quizdb.Quiz) error {
	f.trace = append(f.trace, "Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, quiz)
	}
	return nil
}

func (f *FakeQuizRepo) Update(ctx context.Context, db bun.IDB, quiz *quizdb.Quiz) (*quizdb.Quiz, error) {
	f.trace = append(f.trace, "Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, db, quiz)
	}
	return quiz, nil
}

func (f *FakeQuizRepo) Delete(ctx context.Context, db bun.IDB, quizID string) error {
	f.trace = append(f.trace, "Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, db, quizID)
	}
	return nil
}

func (f *FakeQuizRepo) GetByID(ctx context.Context, db bun.IDB, quizID string) (*quizdb.Quiz, error) {
	f.trace = append(f.trace, "GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, quizID)
	}
	return nil, quizdb.ErrQuizNotFound
}

func (f *FakeQuizRepo) Page(ctx context.Context, db bun.IDB, filter quizdb.Filter, offset, limit int) ([]quizdb.Quiz, error) {
	f.trace = append(f.trace, "Page")
	if f.PageFunc != nil {
		return f.PageFunc(ctx, db, filter, offset, limit)
	}
	return nil, nil
}

func (f *FakeQuizRepo) Count(ctx context.Context, db bun.IDB, filter quizdb.Filter) (int, error) {
	f.trace = append(f.trace, "Count")
	if f.CountFunc != nil {
		return f.CountFunc(ctx, db, filter)
	}
	return 0, nil
}

func (f *FakeQuizRepo) ListAll(ctx context.Context, db bun.IDB) ([]quizdb.Quiz, error) {
	f.trace = append(f.trace, "ListAll")
	if f.ListAllFunc != nil {
		return f.ListAllFunc(ctx, db)
	}
	return nil, nil
}

// FakeGenerator is a programmable stub for the TextGenerator dependency.
type FakeGenerator struct {
	calls        int
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
}

func (f *FakeGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.GenerateFunc != nil {
		return f.GenerateFunc(ctx, prompt)
	}
	return "", nil
}
