package userdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

type RepositoryImpl struct{}

func NewRepository() *RepositoryImpl {
	return &RepositoryImpl{}
}

func (r *RepositoryImpl) Create(ctx context.Context, db bun.IDB, user *User) error {
	if _, err := db.NewInsert().Model(user).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "email") {
				return ErrEmailTaken
			}
			return ErrPhoneTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, db bun.IDB, userID string) error {
	_, err := db.NewDelete().
		Model((*User)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	return nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, db bun.IDB, userID string) (*User, error) {
	var user User
	err := db.NewSelect().Model(&user).Where("user_id = ?", userID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}
	return &user, nil
}

func (r *RepositoryImpl) GetByEmail(ctx context.Context, db bun.IDB, email string) (*User, error) {
	var user User
	err := db.NewSelect().Model(&user).Where("email = ?", email).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}
	return &user, nil
}

func (r *RepositoryImpl) FindByEmailOrPhone(ctx context.Context, db bun.IDB, email, phone string) (*User, error) {
	var user User
	err := db.NewSelect().
		Model(&user).
		Where("email = ?", email).
		WhereOr("phone_number = ?", phone).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user by email or phone: %w", err)
	}
	return &user, nil
}

func (r *RepositoryImpl) SetRoleByEmail(ctx context.Context, db bun.IDB, email, role string) (*User, error) {
	var user User
	res, err := db.NewUpdate().
		Model(&user).
		Set("role = ?", role).
		Set("updated_at = now()").
		Where("email = ?", email).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update role for %s: %w", email, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (r *RepositoryImpl) ListByRole(ctx context.Context, db bun.IDB, role string) ([]User, error) {
	var users []User
	err := db.NewSelect().
		Model(&users).
		Where("role = ?", role).
		OrderExpr("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	return users, nil
}

func (r *RepositoryImpl) ListIDsByStream(ctx context.Context, db bun.IDB, stream string) ([]string, error) {
	var ids []string
	q := db.NewSelect().Model((*User)(nil)).Column("user_id")
	if stream != "" {
		q = q.Where("stream = ?", stream)
	}
	if err := q.Scan(ctx, &ids); err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}
	return ids, nil
}

func (r *RepositoryImpl) GetByIDs(ctx context.Context, db bun.IDB, userIDs []string) ([]User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var users []User
	err := db.NewSelect().
		Model(&users).
		Where("user_id IN (?)", bun.In(userIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users by ids: %w", err)
	}
	return users, nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return false
}
