package rankingservice

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	rankingdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/ranking/infrastructure/repositories"
)

// SubmitAttemptInput carries one completed quiz session.
type SubmitAttemptInput struct {
	QuizID       string
	Subject      string
	UpdateBy     int
	TimeTaken    int
	NumberOfQues int
}

// SubmitAttemptResult is the snapshot returned after recording an attempt.
type SubmitAttemptResult struct {
	Score   *rankingdb.CumulativeScore `json:"score"`
	Attempt *rankingdb.Attempt         `json:"attempt"`
}

// SubmitAttempt appends an attempt record and adds the delta to the user's
// cumulative score. Both writes run in one transaction so the running total
// can never drift from the attempt log. The cumulative row is created lazily
// on first submit, seeded from the user's profile.
func (s *Service) SubmitAttempt(ctx context.Context, userID string, in SubmitAttemptInput) (*SubmitAttemptResult, error) {
	if in.UpdateBy < 0 {
		return nil, ErrNegativeDelta
	}

	user, err := s.users.GetByID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	var result SubmitAttemptResult
	err = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		score, err := s.scores.Increment(ctx, tx, &rankingdb.CumulativeScore{
			UserID:      user.UserID,
			RankID:      uuid.NewString(),
			Username:    user.Username,
			FullName:    user.FullName,
			Email:       user.Email,
			PhoneNumber: user.PhoneNumber,
			Score:       in.UpdateBy,
		})
		if err != nil {
			return err
		}

		attempt := &rankingdb.Attempt{
			AttemptID:    uuid.NewString(),
			UserID:       user.UserID,
			QuizID:       in.QuizID,
			Score:        in.UpdateBy,
			NumberOfQues: in.NumberOfQues,
			TimeTaken:    in.TimeTaken,
			Subject:      in.Subject,
		}
		if err := s.attempts.Insert(ctx, tx, attempt); err != nil {
			return err
		}

		result.Score = score
		result.Attempt = attempt
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}

	s.logger.InfoContext(ctx, "attempt recorded",
		"user_id", userID,
		"quiz_id", in.QuizID,
		"delta", in.UpdateBy,
	)

	return &result, nil
}

// RecordAttempt stores a bare attempt entry without touching the cumulative
// score, mirroring the standalone history endpoint.
func (s *Service) RecordAttempt(ctx context.Context, userID, quizID string, timeTaken int) (*rankingdb.Attempt, error) {
	attempt := &rankingdb.Attempt{
		AttemptID: uuid.NewString(),
		UserID:    userID,
		QuizID:    quizID,
		TimeTaken: timeTaken,
	}
	if err := s.attempts.Insert(ctx, s.db, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// History returns the caller's attempts, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]rankingdb.Attempt, error) {
	return s.attempts.ListByUser(ctx, s.db, userID)
}
