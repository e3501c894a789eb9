package quizdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

type RepositoryImpl struct{}

func NewRepository() *RepositoryImpl {
	return &RepositoryImpl{}
}

func (r *RepositoryImpl) Create(ctx context.Context, db bun.IDB, quiz *Quiz) error {
	if _, err := db.NewInsert().Model(quiz).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return ErrTitleTaken
		}
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) Update(ctx context.Context, db bun.IDB, quiz *Quiz) (*Quiz, error) {
	res, err := db.NewUpdate().
		Model(quiz).
		Column("quiz_title", "quiz_description", "tags", "total_time", "subject", "for_streams", "questions_data").
		Set("updated_at = now()").
		Where("quiz_id = ?", quiz.QuizID).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrTitleTaken
		}
		return nil, fmt.Errorf("failed to update quiz %s: %w", quiz.QuizID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrQuizNotFound
	}
	return quiz, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, db bun.IDB, quizID string) error {
	res, err := db.NewDelete().
		Model((*Quiz)(nil)).
		Where("quiz_id = ?", quizID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete quiz %s: %w", quizID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrQuizNotFound
	}
	return nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, db bun.IDB, quizID string) (*Quiz, error) {
	var quiz Quiz
	err := db.NewSelect().Model(&quiz).Where("quiz_id = ?", quizID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to fetch quiz %s: %w", quizID, err)
	}
	return &quiz, nil
}

func (r *RepositoryImpl) Page(ctx context.Context, db bun.IDB, filter Filter, offset, limit int) ([]Quiz, error) {
	var quizzes []Quiz
	q := applyFilter(db.NewSelect().Model(&quizzes), filter).
		OrderExpr("created_at DESC").
		Offset(offset).
		Limit(limit)
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to page quizzes: %w", err)
	}
	return quizzes, nil
}

func (r *RepositoryImpl) Count(ctx context.Context, db bun.IDB, filter Filter) (int, error) {
	count, err := applyFilter(db.NewSelect().Model((*Quiz)(nil)), filter).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count quizzes: %w", err)
	}
	return count, nil
}

func (r *RepositoryImpl) ListAll(ctx context.Context, db bun.IDB) ([]Quiz, error) {
	var quizzes []Quiz
	if err := db.NewSelect().Model(&quizzes).Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return quizzes, nil
}

func applyFilter(q *bun.SelectQuery, filter Filter) *bun.SelectQuery {
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("quiz_title ILIKE ?", pattern).
				WhereOr("subject ILIKE ?", pattern).
				WhereOr("quiz_description ILIKE ?", pattern).
				WhereOr("array_to_string(tags, ' ') ILIKE ?", pattern)
		})
	}
	if filter.Stream != "" && filter.Stream != "All" {
		q = q.Where("? = ANY(for_streams)", filter.Stream)
	}
	return q
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return false
}
