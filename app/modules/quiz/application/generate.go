package quizservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	quizdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/quiz/infrastructure/repositories"
	"github.com/vidhyasarthi/vidhyasarthi-api/internal/genai"
	"github.com/vidhyasarthi/vidhyasarthi-api/internal/retry"
)

// ErrMalformedResponse means the model returned text that does not parse
// into a valid quiz. It is terminal; retrying the same prompt is not
// expected to help.
var ErrMalformedResponse = errors.New("invalid format received for quiz")

const quizPromptTemplate = `You are tasked to generate a JSON object for a quiz tailored for students preparing for "{prepExam}". The quiz should include {noOfQuestions} multiple-choice questions related to the subject "{subject}". The quiz schema should follow this structure:
{
  "quizTitle": "A descriptive title for the quiz",
  "subject": "{subject}",
  "questionsData": {
    "numberOfQues": {noOfQuestions},
    "questions": [
      {
        "qno": 1,
        "ques": "Question text here",
        "options": ["Option 1", "Option 2", "Option 3", "Option 4"],
        "correct": "Option 1",
        "hint": "Hint for solving the problem"
      }
    ]
  }
}

Please ensure:
1. Each question has exactly 4 options, and one is marked as the correct answer.
2. The quiz title is descriptive and appropriate for the subject and exam level.
3. The hints are concise and helpful to students.

Make the questions challenging and suitable for students preparing for "{prepExam}" in the subject "{subject}". Return the result in the JSON format shown above.`

func defaultGenerationRetry() retry.Policy {
	return retry.Policy{
		MaxAttempts: 3,
		Backoff:     retry.Flat(time.Minute),
		Retryable: func(err error) bool {
			return errors.Is(err, genai.ErrRateLimited)
		},
	}
}

// GenerateQuizInput identifies what to generate and who asked for it.
type GenerateQuizInput struct {
	PrepExam      string
	Subject       string
	NoOfQuestions int
}

// quizDraft is the shape the model is asked to produce.
type quizDraft struct {
	QuizTitle     string               `json:"quizTitle"`
	Subject       string               `json:"subject"`
	QuestionsData quizdb.QuestionsData `json:"questionsData"`
}

// GenerateQuiz asks the model for a quiz draft and validates it. The
// draft is returned to the caller unsaved; authoring it is a separate
// CreateQuiz call.
func (s *Service) GenerateQuiz(ctx context.Context, userID string, in GenerateQuizInput) (*quizdb.Quiz, error) {
	prompt := renderPrompt(in)

	draft, err := retry.Do(ctx, s.genRetry, func(ctx context.Context) (*quizDraft, error) {
		text, err := s.generator.GenerateContent(ctx, prompt)
		if err != nil {
			return nil, err
		}
		return parseDraft(text)
	})
	if err != nil {
		if errors.Is(err, retry.ErrRetriesExhausted) {
			s.logger.WarnContext(ctx, "quiz generation retries exhausted", "prep_exam", in.PrepExam, "subject", in.Subject)
		}
		return nil, err
	}

	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	quiz := &quizdb.Quiz{
		QuizID:    uuid.NewString(),
		QuizTitle: draft.QuizTitle,
		Subject:   draft.Subject,
		QuestionsData: quizdb.QuestionsData{
			NumberOfQues: len(draft.QuestionsData.Questions),
			Questions:    draft.QuestionsData.Questions,
		},
		CreatedBy: userID,
	}

	s.logger.InfoContext(ctx, "quiz generated",
		"prep_exam", in.PrepExam,
		"subject", in.Subject,
		"questions", quiz.QuestionsData.NumberOfQues)
	return quiz, nil
}

func renderPrompt(in GenerateQuizInput) string {
	r := strings.NewReplacer(
		"{prepExam}", in.PrepExam,
		"{subject}", in.Subject,
		"{noOfQuestions}", fmt.Sprintf("%d", in.NoOfQuestions),
	)
	return r.Replace(quizPromptTemplate)
}

// parseDraft strips markdown code fences the model tends to wrap JSON
// in, then unmarshals.
func parseDraft(text string) (*quizDraft, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var draft quizDraft
	if err := json.Unmarshal([]byte(cleaned), &draft); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &draft, nil
}

func validateDraft(draft *quizDraft) error {
	if draft.QuizTitle == "" || draft.Subject == "" || len(draft.QuestionsData.Questions) == 0 {
		return ErrMalformedResponse
	}
	for _, q := range draft.QuestionsData.Questions {
		if q.Ques == "" || len(q.Options) != 4 || q.Correct == "" {
			return ErrMalformedResponse
		}
	}
	return nil
}
