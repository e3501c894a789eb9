// Package rankingservice aggregates quiz attempts into ranks, percentiles
// and leaderboards, and maintains the per-user cumulative score.
package rankingservice

import (
	"errors"
	"log/slog"

	rankingdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/ranking/infrastructure/repositories"
	userdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/user/infrastructure/repositories"
	"github.com/vidhyasarthi/vidhyasarthi-api/app/shared"
)

// ErrNoAttempts is returned when nobody has ever attempted the quiz. It is
// distinct from the user simply not having attempted it themselves.
var ErrNoAttempts = errors.New("no attempts found for this quiz")

// ErrNegativeDelta rejects score updates that would decrease a total.
var ErrNegativeDelta = errors.New("score delta must not be negative")

type Service struct {
	db       shared.DB
	attempts rankingdb.AttemptRepository
	scores   rankingdb.ScoreRepository
	users    userdb.Repository
	logger   *slog.Logger
}

func NewService(
	db shared.DB,
	attempts rankingdb.AttemptRepository,
	scores rankingdb.ScoreRepository,
	users userdb.Repository,
	logger *slog.Logger,
) *Service {
	return &Service{
		db:       db,
		attempts: attempts,
		scores:   scores,
		users:    users,
		logger:   logger,
	}
}
