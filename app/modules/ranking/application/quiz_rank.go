package rankingservice

import (
	"context"
	"time"

	rankingdomain "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/ranking/domain"
)

// QuizRank is the rank summary returned to a participant. Pointer fields are
// null when the caller has not attempted the quiz; TotalParticipants still
// reflects everyone else.
type QuizRank struct {
	Rank              *int       `json:"rank"`
	TotalParticipants int        `json:"totalParticipants"`
	Percentile        *float64   `json:"percentile"`
	BestScore         *int       `json:"bestScore"`
	Attempts          int        `json:"attempts"`
	LastAttemptDate   *time.Time `json:"lastAttemptDate"`
	BetterThanCount   *int       `json:"betterThanCount"`
	WorseThanCount    *int       `json:"worseThanCount"`
	SameScoreCount    *int       `json:"sameScoreCount"`
}

// GetQuizRank computes the caller's standing on a quiz from every
// participant's best attempt. A quiz nobody has attempted yields
// ErrNoAttempts; a quiz the caller has not attempted yields a null-rank
// summary.
func (s *Service) GetQuizRank(ctx context.Context, userID, quizID string) (*QuizRank, error) {
	best, err := s.attempts.BestByQuiz(ctx, s.db, quizID, nil)
	if err != nil {
		return nil, err
	}
	if len(best) == 0 {
		return nil, ErrNoAttempts
	}

	summary := rankingdomain.Summarize(best, userID)
	if summary == nil {
		return &QuizRank{TotalParticipants: len(best)}, nil
	}

	return &QuizRank{
		Rank:              &summary.Rank,
		TotalParticipants: summary.TotalParticipants,
		Percentile:        &summary.Percentile,
		BestScore:         &summary.BestScore,
		Attempts:          summary.Attempts,
		LastAttemptDate:   &summary.LastAttemptAt,
		BetterThanCount:   &summary.BetterThanCount,
		WorseThanCount:    &summary.WorseThanCount,
		SameScoreCount:    &summary.SameScoreCount,
	}, nil
}
