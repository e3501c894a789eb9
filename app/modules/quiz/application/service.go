// Package quizservice owns quiz authoring, the public catalog, and
// AI-assisted question drafting.
package quizservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	quizdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/quiz/infrastructure/repositories"
	"github.com/vidhyasarthi/vidhyasarthi-api/app/shared"
	"github.com/vidhyasarthi/vidhyasarthi-api/internal/retry"
)

var (
	// ErrInvalidQuiz rejects authoring input that fails shape validation.
	ErrInvalidQuiz = errors.New("invalid quiz data")
	// ErrNotOwner rejects destructive operations by anyone but the author.
	ErrNotOwner = errors.New("not the quiz owner")
)

// TextGenerator is the external generative call the drafting flow depends on.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	db        shared.DB
	quizzes   quizdb.Repository
	generator TextGenerator
	genRetry  retry.Policy
	logger    *slog.Logger
}

func NewService(db shared.DB, quizzes quizdb.Repository, generator TextGenerator, logger *slog.Logger) *Service {
	return &Service{
		db:        db,
		quizzes:   quizzes,
		generator: generator,
		genRetry:  defaultGenerationRetry(),
		logger:    logger,
	}
}

// CreateQuizInput carries a full authoring request.
type CreateQuizInput struct {
	QuizTitle       string
	QuizDescription string
	Tags            []string
	TotalTime       int
	Subject         string
	ForStreams      []string
	QuestionsData   quizdb.QuestionsData
}

// CreateQuiz validates and persists an authored quiz.
func (s *Service) CreateQuiz(ctx context.Context, userID string, in CreateQuizInput) (*quizdb.Quiz, error) {
	if in.QuizTitle == "" || in.QuizDescription == "" || len(in.Tags) == 0 ||
		in.TotalTime <= 0 || in.Subject == "" || len(in.ForStreams) == 0 {
		return nil, ErrInvalidQuiz
	}
	if err := validateQuestions(in.QuestionsData.Questions); err != nil {
		return nil, err
	}

	quiz := &quizdb.Quiz{
		QuizID:          uuid.NewString(),
		QuizTitle:       in.QuizTitle,
		QuizDescription: in.QuizDescription,
		Tags:            in.Tags,
		TotalTime:       in.TotalTime,
		Subject:         in.Subject,
		ForStreams:      in.ForStreams,
		QuestionsData: quizdb.QuestionsData{
			NumberOfQues: len(in.QuestionsData.Questions),
			Questions:    in.QuestionsData.Questions,
		},
		CreatedBy: userID,
	}

	if err := s.quizzes.Create(ctx, s.db, quiz); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "quiz created", "quiz_id", quiz.QuizID, "created_by", userID)
	return quiz, nil
}

// UpdateQuizInput carries an edit to an existing quiz. Questions are
// optional; when present they replace the stored set.
type UpdateQuizInput struct {
	Title           string
	TimeInMinutes   int
	Subject         string
	SelectedStreams []string
	QuizDescription string
	QuestionsData   *quizdb.QuestionsData
}

// UpdateQuiz rewrites quiz metadata, rebuilding tags from the selected
// streams and subject the way the authoring UI expects.
func (s *Service) UpdateQuiz(ctx context.Context, quizID string, in UpdateQuizInput) (*quizdb.Quiz, error) {
	if in.Title == "" || in.TimeInMinutes <= 0 || in.Subject == "" ||
		len(in.SelectedStreams) == 0 || in.QuizDescription == "" {
		return nil, ErrInvalidQuiz
	}

	existing, err := s.quizzes.GetByID(ctx, s.db, quizID)
	if err != nil {
		return nil, err
	}

	existing.QuizTitle = in.Title
	existing.QuizDescription = in.QuizDescription
	existing.TotalTime = in.TimeInMinutes
	existing.Subject = in.Subject
	existing.ForStreams = in.SelectedStreams
	existing.Tags = append(append([]string{}, in.SelectedStreams...), in.Subject)

	if in.QuestionsData != nil && len(in.QuestionsData.Questions) > 0 {
		if err := validateQuestions(in.QuestionsData.Questions); err != nil {
			return nil, err
		}
		existing.QuestionsData = quizdb.QuestionsData{
			NumberOfQues: len(in.QuestionsData.Questions),
			Questions:    in.QuestionsData.Questions,
		}
	}

	return s.quizzes.Update(ctx, s.db, existing)
}

// DeleteQuiz removes a quiz; only its author may do so.
func (s *Service) DeleteQuiz(ctx context.Context, userID, quizID string) error {
	quiz, err := s.quizzes.GetByID(ctx, s.db, quizID)
	if err != nil {
		return err
	}
	if quiz.CreatedBy != userID {
		return ErrNotOwner
	}
	return s.quizzes.Delete(ctx, s.db, quizID)
}

func validateQuestions(questions []quizdb.Question) error {
	if len(questions) == 0 {
		return ErrInvalidQuiz
	}
	for _, q := range questions {
		if q.Ques == "" || len(q.Options) != 4 || q.Correct == "" {
			return fmt.Errorf("%w: question %d", ErrInvalidQuiz, q.QNo)
		}
	}
	return nil
}
