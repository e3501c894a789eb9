package userservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/uptrace/bun"

	rankingdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/ranking/infrastructure/repositories"
	userdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/user/infrastructure/repositories"
)

func newTestService(users *FakeUserRepo, scores *FakeScoreRepo, tokens *FakeTokenService) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(&FakeDB{}, users, scores, tokens, logger)
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Username:      "alice",
		Email:         "alice@example.com",
		PhoneNumber:   "9999999999",
		InstituteName: "Springdale",
		City:          "Pune",
		State:         "MH",
		InstituteType: "School",
		FullName:      "Alice Kumar",
		Stream:        "PCM",
		PrepExam:      "JEE",
	}
}

func TestLogin(t *testing.T) {
	t.Run("existing user gets a token", func(t *testing.T) {
		users := &FakeUserRepo{
			GetByEmailFunc: func(ctx context.Context, db bun.IDB, email string) (*userdb.User, error) {
				return &userdb.User{UserID: "u-1", Email: email, Role: "user"}, nil
			},
		}
		svc := newTestService(users, &FakeScoreRepo{}, &FakeTokenService{})

		result, err := svc.Login(context.Background(), "alice@example.com")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if result.User.UserID != "u-1" || result.Token != "token-u-1" {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("unknown email passes ErrUserNotFound through", func(t *testing.T) {
		svc := newTestService(&FakeUserRepo{}, &FakeScoreRepo{}, &FakeTokenService{})

		_, err := svc.Login(context.Background(), "ghost@example.com")
		if !errors.Is(err, userdb.ErrUserNotFound) {
			t.Errorf("error = %v, want ErrUserNotFound", err)
		}
	})
}

func TestRegister(t *testing.T) {
	t.Run("creates user and seeds a zero score in one transaction", func(t *testing.T) {
		users := &FakeUserRepo{}
		var seeded *rankingdb.CumulativeScore
		scores := &FakeScoreRepo{
			IncrementFunc: func(ctx context.Context, db bun.IDB, score *rankingdb.CumulativeScore) (*rankingdb.CumulativeScore, error) {
				seeded = score
				return score, nil
			},
		}
		svc := newTestService(users, scores, &FakeTokenService{})

		result, err := svc.Register(context.Background(), validRegisterInput())
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if result.User.UserID == "" || result.User.Role != "user" {
			t.Errorf("user = %+v", result.User)
		}
		if result.Token == "" {
			t.Error("no token issued")
		}
		if seeded == nil {
			t.Fatal("cumulative score row not seeded")
		}
		if seeded.Score != 0 || seeded.UserID != result.User.UserID || seeded.Email != "alice@example.com" {
			t.Errorf("seed row = %+v", seeded)
		}
		if seeded.RankID == "" {
			t.Error("rank id not assigned")
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		svc := newTestService(&FakeUserRepo{}, &FakeScoreRepo{}, &FakeTokenService{})

		in := validRegisterInput()
		in.Stream = ""
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrMissingFields) {
			t.Errorf("error = %v, want ErrMissingFields", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		users := &FakeUserRepo{
			FindByEmailOrPhoneFunc: func(ctx context.Context, db bun.IDB, email, phone string) (*userdb.User, error) {
				return &userdb.User{Email: email}, nil
			},
		}
		svc := newTestService(users, &FakeScoreRepo{}, &FakeTokenService{})

		if _, err := svc.Register(context.Background(), validRegisterInput()); !errors.Is(err, userdb.ErrEmailTaken) {
			t.Errorf("error = %v, want ErrEmailTaken", err)
		}
	})

	t.Run("duplicate phone", func(t *testing.T) {
		users := &FakeUserRepo{
			FindByEmailOrPhoneFunc: func(ctx context.Context, db bun.IDB, email, phone string) (*userdb.User, error) {
				return &userdb.User{Email: "other@example.com", PhoneNumber: phone}, nil
			},
		}
		svc := newTestService(users, &FakeScoreRepo{}, &FakeTokenService{})

		if _, err := svc.Register(context.Background(), validRegisterInput()); !errors.Is(err, userdb.ErrPhoneTaken) {
			t.Errorf("error = %v, want ErrPhoneTaken", err)
		}
	})

	t.Run("failed score seed fails the whole registration", func(t *testing.T) {
		seedErr := errors.New("seed failed")
		scores := &FakeScoreRepo{
			IncrementFunc: func(ctx context.Context, db bun.IDB, score *rankingdb.CumulativeScore) (*rankingdb.CumulativeScore, error) {
				return nil, seedErr
			},
		}
		svc := newTestService(&FakeUserRepo{}, scores, &FakeTokenService{})

		if _, err := svc.Register(context.Background(), validRegisterInput()); !errors.Is(err, seedErr) {
			t.Errorf("error = %v, want wrapped seed failure", err)
		}
	})

	t.Run("explicit role is honored", func(t *testing.T) {
		svc := newTestService(&FakeUserRepo{}, &FakeScoreRepo{}, &FakeTokenService{})

		in := validRegisterInput()
		in.Role = "admin"
		result, err := svc.Register(context.Background(), in)
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if result.User.Role != "admin" {
			t.Errorf("role = %q, want admin", result.User.Role)
		}
	})
}

func TestRegisterCopiesProfileIntoSeedRow(t *testing.T) {
	for i := 0; i < 10; i++ {
		var seeded *rankingdb.CumulativeScore
		scores := &FakeScoreRepo{
			IncrementFunc: func(ctx context.Context, db bun.IDB, score *rankingdb.CumulativeScore) (*rankingdb.CumulativeScore, error) {
				seeded = score
				return score, nil
			},
		}
		svc := newTestService(&FakeUserRepo{}, scores, &FakeTokenService{})

		in := RegisterInput{
			Username:      gofakeit.Username(),
			Email:         gofakeit.Email(),
			PhoneNumber:   gofakeit.Phone(),
			InstituteName: gofakeit.Company(),
			City:          gofakeit.City(),
			State:         gofakeit.State(),
			InstituteType: "College",
			FullName:      gofakeit.Name(),
			Stream:        "PCM",
			PrepExam:      "JEE",
		}

		result, err := svc.Register(context.Background(), in)
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if seeded == nil {
			t.Fatal("cumulative score row not seeded")
		}
		if seeded.UserID != result.User.UserID || seeded.Email != in.Email || seeded.Username != in.Username {
			t.Errorf("seed row %+v does not match input %+v", seeded, in)
		}
	}
}

func TestMakeAdmin(t *testing.T) {
	users := &FakeUserRepo{
		SetRoleByEmailFunc: func(ctx context.Context, db bun.IDB, email, role string) (*userdb.User, error) {
			if role != "admin" {
				t.Errorf("role = %q, want admin", role)
			}
			return &userdb.User{Email: email, Role: role}, nil
		},
	}
	svc := newTestService(users, &FakeScoreRepo{}, &FakeTokenService{})

	user, err := svc.MakeAdmin(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("MakeAdmin() error = %v", err)
	}
	if user.Role != "admin" {
		t.Errorf("role = %q, want admin", user.Role)
	}
}

func TestListStudents(t *testing.T) {
	users := &FakeUserRepo{
		ListByRoleFunc: func(ctx context.Context, db bun.IDB, role string) ([]userdb.User, error) {
			if role != "user" {
				t.Errorf("role = %q, want user", role)
			}
			return []userdb.User{{UserID: "u-1"}, {UserID: "u-2"}}, nil
		},
	}
	svc := newTestService(users, &FakeScoreRepo{}, &FakeTokenService{})

	got, err := svc.ListStudents(context.Background())
	if err != nil {
		t.Fatalf("ListStudents() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}
