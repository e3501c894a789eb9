// Package userservice owns onboarding, login and profile lookups.
package userservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	rankingdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/ranking/infrastructure/repositories"
	userdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/user/infrastructure/repositories"
	"github.com/vidhyasarthi/vidhyasarthi-api/app/shared"
	"github.com/vidhyasarthi/vidhyasarthi-api/pkg/jwt"
)

// ErrMissingFields rejects registration input with any required field
// absent.
var ErrMissingFields = errors.New("all fields are required")

type Service struct {
	db     shared.DB
	users  userdb.Repository
	scores rankingdb.ScoreRepository
	tokens jwt.Service
	logger *slog.Logger
}

func NewService(db shared.DB, users userdb.Repository, scores rankingdb.ScoreRepository, tokens jwt.Service, logger *slog.Logger) *Service {
	return &Service{db: db, users: users, scores: scores, tokens: tokens, logger: logger}
}

// LoginResult carries the profile and a fresh session token.
type LoginResult struct {
	User  *userdb.User `json:"user"`
	Token string       `json:"token"`
}

// Login looks a user up by email and issues a token. A missing user is
// ErrUserNotFound; the caller treats that as "onboarding required", not
// as a failure.
func (s *Service) Login(ctx context.Context, email string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(user.UserID, jwt.Role(user.Role), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{User: user, Token: token}, nil
}

// RegisterInput is the onboarding payload. Role is optional and
// defaults to "user".
type RegisterInput struct {
	Username      string
	Email         string
	Password      string
	PhoneNumber   string
	InstituteName string
	City          string
	State         string
	InstituteType string
	FullName      string
	Stream        string
	PrepExam      string
	Role          string
}

// Register creates the user and seeds their cumulative score row in one
// transaction, so a failed seed never leaves an orphaned profile.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*LoginResult, error) {
	if in.Email == "" || in.PhoneNumber == "" || in.InstituteName == "" ||
		in.City == "" || in.State == "" || in.InstituteType == "" ||
		in.FullName == "" || in.Stream == "" || in.PrepExam == "" {
		return nil, ErrMissingFields
	}

	if existing, err := s.users.FindByEmailOrPhone(ctx, s.db, in.Email, in.PhoneNumber); err == nil {
		if existing.Email == in.Email {
			return nil, userdb.ErrEmailTaken
		}
		return nil, userdb.ErrPhoneTaken
	} else if !errors.Is(err, userdb.ErrUserNotFound) {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = string(jwt.RoleUser)
	}

	user := &userdb.User{
		UserID:        uuid.NewString(),
		Username:      in.Username,
		Email:         in.Email,
		Password:      in.Password,
		PhoneNumber:   in.PhoneNumber,
		InstituteName: in.InstituteName,
		City:          in.City,
		State:         in.State,
		InstituteType: in.InstituteType,
		FullName:      in.FullName,
		Stream:        in.Stream,
		PrepExam:      in.PrepExam,
		Role:          role,
	}

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := s.users.Create(ctx, tx, user); err != nil {
			return err
		}
		seed := &rankingdb.CumulativeScore{
			UserID:      user.UserID,
			RankID:      uuid.NewString(),
			Username:    user.Username,
			FullName:    user.FullName,
			Email:       user.Email,
			PhoneNumber: user.PhoneNumber,
			Score:       0,
		}
		if _, err := s.scores.Increment(ctx, tx, seed); err != nil {
			return fmt.Errorf("failed to seed cumulative score: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(user.UserID, jwt.Role(user.Role), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.UserID, "stream", user.Stream)
	return &LoginResult{User: user, Token: token}, nil
}

// Profile fetches the caller's own profile.
func (s *Service) Profile(ctx context.Context, userID string) (*userdb.User, error) {
	return s.users.GetByID(ctx, s.db, userID)
}

// MakeAdmin promotes the user with the given email to the admin role.
func (s *Service) MakeAdmin(ctx context.Context, email string) (*userdb.User, error) {
	return s.users.SetRoleByEmail(ctx, s.db, email, string(jwt.RoleAdmin))
}

// ListStudents returns every user holding the plain "user" role.
func (s *Service) ListStudents(ctx context.Context) ([]userdb.User, error) {
	return s.users.ListByRole(ctx, s.db, string(jwt.RoleUser))
}
