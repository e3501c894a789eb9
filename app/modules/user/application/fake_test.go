package userservice

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"

	rankingdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/ranking/infrastructure/repositories"
	userdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/user/infrastructure/repositories"
	"github.com/vidhyasarthi/vidhyasarthi-api/pkg/jwt"
)

// FakeDB satisfies shared.DB for tests.
type FakeDB struct {
	bun.IDB
}

func (f *FakeDB) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(context.Context, bun.Tx) error) error {
	return fn(ctx, bun.Tx{})
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

// FakeScoreRepo is a programmable stub for rankingdb.ScoreRepository.
type FakeScoreRepo struct {
	trace []string

	IncrementFunc func(ctx context.Context, db bun.IDB, score *rankingdb.CumulativeScore) (*rankingdb.CumulativeScore, error)
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
	return nil, rankingdb.ErrScoreNotFound
}

func (f *FakeScoreRepo) Page(ctx context.Context, db bun.IDB, userIDs []string, offset, limit int) ([]rankingdb.CumulativeScore, error) {
	f.trace = append(f.trace, "Page")
	return nil, nil
}

func (f *FakeScoreRepo) Count(ctx context.Context, db bun.IDB, userIDs []string) (int, error) {
	f.trace = append(f.trace, "Count")
	return 0, nil
}

// FakeTokenService is a programmable stub for jwt.Service.
type FakeTokenService struct {
	GenerateTokenFunc func(userID string, role jwt.Role, ttl time.Duration) (string, error)
	ValidateTokenFunc func(token string) (*jwt.UserClaims, error)
}

func (f *FakeTokenService) GenerateToken(userID string, role jwt.Role, ttl time.Duration) (string, error) {
	if f.GenerateTokenFunc != nil {
		return f.GenerateTokenFunc(userID, role, ttl)
	}
	return "token-" + userID, nil
}

func (f *FakeTokenService) ValidateToken(token string) (*jwt.UserClaims, error) {
	if f.ValidateTokenFunc != nil {
		return f.ValidateTokenFunc(token)
	}
	return nil, jwt.ErrInvalidToken
}
