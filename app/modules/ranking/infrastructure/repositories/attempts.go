package rankingdb

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	rankingdomain "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/ranking/domain"
)

type AttemptRepositoryImpl struct{}

func NewAttemptRepository() *AttemptRepositoryImpl {
	return &AttemptRepositoryImpl{}
}

func (r *AttemptRepositoryImpl) Insert(ctx context.Context, db bun.IDB, attempt *Attempt) error {
	if _, err := db.NewInsert().Model(attempt).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert attempt for quiz %s: %w", attempt.QuizID, err)
	}
	return nil
}

// bestRow carries the aggregation result out of Postgres before it becomes a
// domain value.
type bestRow struct {
	UserID        string    `bun:"user_id"`
	BestScore     int       `bun:"best_score"`
	Attempts      int       `bun:"attempts"`
	LastAttemptAt time.Time `bun:"last_attempt_at"`
}

func (r *AttemptRepositoryImpl) bestQuery(db bun.IDB, quizID string, userIDs []string) *bun.SelectQuery {
	q := db.NewSelect().
		Model((*Attempt)(nil)).
		ColumnExpr("user_id").
		ColumnExpr("max(score) AS best_score").
		ColumnExpr("count(*) AS attempts").
		ColumnExpr("max(created_at) AS last_attempt_at").
		Where("quiz_id = ?", quizID).
		GroupExpr("user_id")
	if userIDs != nil {
		q = q.Where("user_id IN (?)", bun.In(userIDs))
	}
	return q
}

func (r *AttemptRepositoryImpl) BestByQuiz(ctx context.Context, db bun.IDB, quizID string, userIDs []string) ([]rankingdomain.BestAttempt, error) {
	var rows []bestRow
	err := r.bestQuery(db, quizID, userIDs).
		OrderExpr("best_score DESC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attempts for quiz %s: %w", quizID, err)
	}
	return toDomain(rows), nil
}

func (r *AttemptRepositoryImpl) BestByQuizPage(ctx context.Context, db bun.IDB, quizID string, userIDs []string, offset, limit int) ([]rankingdomain.BestAttempt, error) {
	var rows []bestRow
	err := r.bestQuery(db, quizID, userIDs).
		OrderExpr("best_score DESC, user_id ASC").
		Offset(offset).
		Limit(limit).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to page attempts for quiz %s: %w", quizID, err)
	}
	return toDomain(rows), nil
}

func (r *AttemptRepositoryImpl) CountParticipants(ctx context.Context, db bun.IDB, quizID string, userIDs []string) (int, error) {
	q := db.NewSelect().
		Model((*Attempt)(nil)).
		ColumnExpr("count(DISTINCT user_id)").
		Where("quiz_id = ?", quizID)
	if userIDs != nil {
		q = q.Where("user_id IN (?)", bun.In(userIDs))
	}

	var count int
	if err := q.Scan(ctx, &count); err != nil {
		return 0, fmt.Errorf("failed to count participants for quiz %s: %w", quizID, err)
	}
	return count, nil
}

func (r *AttemptRepositoryImpl) ListByUser(ctx context.Context, db bun.IDB, userID string) ([]Attempt, error) {
	var attempts []Attempt
	err := db.NewSelect().
		Model(&attempts).
		Where("user_id = ?", userID).
		OrderExpr("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts for user %s: %w", userID, err)
	}
	return attempts, nil
}

func toDomain(rows []bestRow) []rankingdomain.BestAttempt {
	best := make([]rankingdomain.BestAttempt, len(rows))
	for i, row := range rows {
		best[i] = rankingdomain.BestAttempt{
			UserID:        row.UserID,
			BestScore:     row.BestScore,
			Attempts:      row.Attempts,
			LastAttemptAt: row.LastAttemptAt,
		}
	}
	return best
}
