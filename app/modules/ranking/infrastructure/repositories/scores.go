package rankingdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

type ScoreRepositoryImpl struct{}

func NewScoreRepository() *ScoreRepositoryImpl {
	return &ScoreRepositoryImpl{}
}

// Increment relies on the database to add the delta, so concurrent submits
// for the same user cannot lose updates.
func (r *ScoreRepositoryImpl) Increment(ctx context.Context, db bun.IDB, score *CumulativeScore) (*CumulativeScore, error) {
	_, err := r.incrementQuery(db, score).Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to increment score for user %s: %w", score.UserID, err)
	}
	return score, nil
}

func (r *ScoreRepositoryImpl) incrementQuery(db bun.IDB, score *CumulativeScore) *bun.InsertQuery {
	return db.NewInsert().
		Model(score).
		On("CONFLICT (user_id) DO UPDATE").
		Set("score = ?TableAlias.score + EXCLUDED.score").
		Set("updated_at = now()").
		Returning("*")
}

func (r *ScoreRepositoryImpl) GetByUser(ctx context.Context, db bun.IDB, userID string) (*CumulativeScore, error) {
	var score CumulativeScore
	err := db.NewSelect().
		Model(&score).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScoreNotFound
		}
		return nil, fmt.Errorf("failed to fetch score for user %s: %w", userID, err)
	}
	return &score, nil
}

func (r *ScoreRepositoryImpl) Page(ctx context.Context, db bun.IDB, userIDs []string, offset, limit int) ([]CumulativeScore, error) {
	var scores []CumulativeScore
	q := db.NewSelect().
		Model(&scores).
		OrderExpr("score DESC, user_id ASC").
		Offset(offset).
		Limit(limit)
	if userIDs != nil {
		q = q.Where("user_id IN (?)", bun.In(userIDs))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to page cumulative scores: %w", err)
	}
	return scores, nil
}

func (r *ScoreRepositoryImpl) Count(ctx context.Context, db bun.IDB, userIDs []string) (int, error) {
	q := db.NewSelect().Model((*CumulativeScore)(nil))
	if userIDs != nil {
		q = q.Where("user_id IN (?)", bun.In(userIDs))
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count cumulative scores: %w", err)
	}
	return count, nil
}
