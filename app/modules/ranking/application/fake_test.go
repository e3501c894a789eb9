package rankingservice

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"

	rankingdomain "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/ranking/domain"
	rankingdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/ranking/infrastructure/repositories"
	userdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/user/infrastructure/repositories"
)

// FakeDB satisfies shared.DB for tests. RunInTx just runs the function;
// repo fakes never touch the db handle they are given.
type FakeDB struct {
	bun.IDB
}

func (f *FakeDB) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(context.Context, bun.Tx) error) error {
	return fn(ctx, bun.Tx{})
}

// FakeAttemptRepo is a programmable stub for rankingdb.AttemptRepository.
type FakeAttemptRepo struct {
	trace []string

	InsertFunc            func(ctx context.Context, db bun.IDB, attempt *rankingdb.Attempt) error
	BestByQuizFunc        func(ctx context.Context, db bun.IDB, quizID string, userIDs []string) ([]rankingdomain.BestAttempt, error)
	BestByQuizPageFunc    func(ctx context.Context, db bun.IDB, quizID string, userIDs []string, offset, limit int) ([]rankingdomain.BestAttempt, error)
	CountParticipantsFunc func(ctx context.Context, db bun.IDB, quizID string, userIDs []string) (int, error)
	ListByUserFunc        func(ctx context.Context, db bun.IDB, userID string) ([]rankingdb.Attempt, error)
}

func (f *FakeAttemptRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeAttemptRepo) Insert(ctx context.Context, db bun.IDB, attempt *rankingdb.Attempt) error {
	f.trace = append(f.trace, "Insert")
	if f.InsertFunc != nil {
		return f.InsertFunc(ctx, db, attempt)
	}
	return nil
}

func (f *FakeAttemptRepo) BestByQuiz(ctx context.Context, db bun.IDB, quizID string, userIDs []string) ([]rankingdomain.BestAttempt, error) {
	f.trace = append(f.trace, "BestByQuiz")
	if f.BestByQuizFunc != nil {
		return f.BestByQuizFunc(ctx, db, quizID, userIDs)
	}
	return nil, nil
}

func (f *FakeAttemptRepo) BestByQuizPage(ctx context.Context, db bun.IDB, quizID string, userIDs []string, offset, limit int) ([]rankingdomain.BestAttempt, error) {
	f.trace = append(f.trace, "BestByQuizPage")
	if f.BestByQuizPageFunc != nil {
		return f.BestByQuizPageFunc(ctx, db, quizID, userIDs, offset, limit)
	}
	return nil, nil
}

func (f *FakeAttemptRepo) CountParticipants(ctx context.Context, db bun.IDB, quizID string, userIDs []string) (int, error) {
	f.trace = append(f.trace, "CountParticipants")
	if f.CountParticipantsFunc != nil {
		return f.CountParticipantsFunc(ctx, db, quizID, userIDs)
	}
	return 0, nil
}

func (f *FakeAttemptRepo) ListByUser(ctx context.Context, db bun.IDB, userID string) ([]rankingdb.Attempt, error) {
	f.trace = append(f.trace, "ListByUser")
	if f.ListByUserFunc != nil {
		return f.ListByUserFunc(ctx, db, userID)
	}
	return nil, nil
}

// FakeScoreRepo is a programmable stub for rankingdb.ScoreRepository.
type FakeScoreRepo struct {
	trace []string

	IncrementFunc func(ctx context.Context, db bun.IDB, score *rankingdb.CumulativeScore) (*rankingdb.CumulativeScore, error)
	GetByUserFunc func(ctx context.Context, db bun.IDB, userID string) (*rankingdb.CumulativeScore, error)
	PageFunc      func(ctx context.Context, db bun.IDB, userIDs []string, offset, limit int) ([]rankingdb.CumulativeScore, error)
	CountFunc     func(ctx context.Context, db bun.IDB, userIDs []string) (int, error)
}

func (f *FakeScoreRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeScoreRepo) Increment(ctx context.Context, db bun.IDB, score *rankingdb.CumulativeScore) (*rankingdb.CumulativeScore, error) {
	f.trace = append(f.trace, "Increment")
	if f.IncrementFunc != nil {
		return f.IncrementFunc(ctx, db, score)
	}
	return score, nil
}

func (f *FakeScoreRepo) GetByUser(ctx context.Context, db bun.IDB, userID string) (*rankingdb.CumulativeScore, error) {
	f.trace = append(f.trace, "GetByUser")
	if f.GetByUserFunc != nil {
		return f.GetByUserFunc(ctx, db, userID)
	}
	return nil, rankingdb.ErrScoreNotFound
}

func (f *FakeScoreRepo) Page(ctx context.Context, db bun.IDB, userIDs []string, offset, limit int) ([]rankingdb.CumulativeScore, error) {
	f.trace = append(f.trace, "Page")
	if f.PageFunc != nil {
		return f.PageFunc(ctx, db, userIDs, offset, limit)
	}
	return nil, nil
}

func (f *FakeScoreRepo) Count(ctx context.Context, db bun.IDB, userIDs []string) (int, error) {
	f.trace = append(f.trace, "Count")
	if f.CountFunc != nil {
		return f.CountFunc(ctx, db, userIDs)
	}
	return 0, nil
}

// FakeUserRepo is a programmable stub for userdb.Repository.
type FakeUserRepo struct {
	trace []string

	CreateFunc             func(ctx context.Context, db bun.IDB, user *userdb.User) error
	DeleteFunc             func(ctx context.Context, db bun.IDB, userID string) error
	GetByIDFunc            func(ctx context.Context, db bun.IDB, userID string) (*userdb.User, error)
	GetByEmailFunc         func(ctx context.Context, db bun.IDB, email string) (*userdb.User, error)
	FindByEmailOrPhoneFunc func(ctx context.Context, db bun.IDB, email, phone string) (*userdb.User, error)
	SetRoleByEmailFunc     func(ctx context.Context, db bun.IDB, email, role string) (*userdb.User, error)
	ListByRoleFunc         func(ctx context.Context, db bun.IDB, role string) ([]userdb.User, error)
	ListIDsByStreamFunc    func(ctx context.Context, db bun.IDB, stream string) ([]string, error)
	GetByIDsFunc           func(ctx context.Context, db bun.IDB, userIDs []string) ([]userdb.User, error)
}

func (f *FakeUserRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeUserRepo) Create(ctx context.Context, db bun.IDB, user *userdb.User) error {
	f.trace = append(f.trace, "Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, user)
	}
	return nil
}

func (f *FakeUserRepo) Delete(ctx context.Context, db bun.IDB, userID string) error {
	f.trace = append(f.trace, "Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, db, userID)
	}
	return nil
}

func (f *FakeUserRepo) GetByID(ctx context.Context, db bun.IDB, userID string) (*userdb.User, error) {
	f.trace = append(f.trace, "GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, userID)
	}
	return nil, userdb.ErrUserNotFound
}

func (f *FakeUserRepo) GetByEmail(ctx context.Context, db bun.IDB, email string) (*userdb.User, error) {
	f.trace = append(f.trace, "GetByEmail")
	if f.GetByEmailFunc != nil {
		return f.GetByEmailFunc(ctx, db, email)
	}
	return nil, userdb.ErrUserNotFound
}

func (f *FakeUserRepo) FindByEmailOrPhone(ctx context.Context, db bun.IDB, email, phone string) (*userdb.User, error) {
	f.trace = append(f.trace, "FindByEmailOrPhone")
	if f.FindByEmailOrPhoneFunc != nil {
		return f.FindByEmailOrPhoneFunc(ctx, db, email, phone)
	}
	return nil, userdb.ErrUserNotFound
}

func (f *FakeUserRepo) SetRoleByEmail(ctx context.Context, db bun.IDB, email, role string) (*userdb.User, error) {
	f.trace = append(f.trace, "SetRoleByEmail")
	if f.SetRoleByEmailFunc != nil {
		return f.SetRoleByEmailFunc(ctx, db, email, role)
	}
	return nil, userdb.ErrUserNotFound
}

func (f *FakeUserRepo) ListByRole(ctx context.Context, db bun.IDB, role string) ([]userdb.User, error) {
	f.trace = append(f.trace, "ListByRole")
	if f.ListByRoleFunc != nil {
		return f.ListByRoleFunc(ctx, db, role)
	}
	return nil, nil
}

func (f *FakeUserRepo) ListIDsByStream(ctx context.Context, db bun.IDB, stream string) ([]string, error) {
	f.trace = append(f.trace, "ListIDsByStream")
	if f.ListIDsByStreamFunc != nil {
		return f.ListIDsByStreamFunc(ctx, db, stream)
	}
	return nil, nil
}

func (f *FakeUserRepo) GetByIDs(ctx context.Context, db bun.IDB, userIDs []string) ([]userdb.User, error) {
	f.trace = append(f.trace, "GetByIDs")
	if f.GetByIDsFunc != nil {
		return f.GetByIDsFunc(ctx, db, userIDs)
	}
	return nil, nil
}
