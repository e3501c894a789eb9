package rankingdb

import (
	"context"

	"github.com/uptrace/bun"

	rankingdomain "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/ranking/domain"
)

// AttemptRepository persists and aggregates quiz attempts. Methods take a
// bun.IDB so callers can pass either the pool or a transaction.
type AttemptRepository interface {
	Insert(ctx context.Context, db bun.IDB, attempt *Attempt) error
	// BestByQuiz returns each participant's best attempt on the quiz,
	// sorted by best score descending. userIDs restricts the participant
	// set; nil means no restriction.
	BestByQuiz(ctx context.Context, db bun.IDB, quizID string, userIDs []string) ([]rankingdomain.BestAttempt, error)
	// BestByQuizPage is BestByQuiz with pagination, ties broken by user id.
	BestByQuizPage(ctx context.Context, db bun.IDB, quizID string, userIDs []string, offset, limit int) ([]rankingdomain.BestAttempt, error)
	// CountParticipants counts distinct users with at least one attempt.
	CountParticipants(ctx context.Context, db bun.IDB, quizID string, userIDs []string) (int, error)
	ListByUser(ctx context.Context, db bun.IDB, userID string) ([]Attempt, error)
}

// ScoreRepository persists cumulative scores.
type ScoreRepository interface {
	// Increment upserts the row, adding score.Score to any existing total,
	// and returns the row as stored.
	Increment(ctx context.Context, db bun.IDB, score *CumulativeScore) (*CumulativeScore, error)
	GetByUser(ctx context.Context, db bun.IDB, userID string) (*CumulativeScore, error)
	// Page returns a descending-score page. userIDs restricts the set; nil
	// means no restriction.
	Page(ctx context.Context, db bun.IDB, userIDs []string, offset, limit int) ([]CumulativeScore, error)
	Count(ctx context.Context, db bun.IDB, userIDs []string) (int, error)
}
