package quizdb

import (
	"time"

	"github.com/uptrace/bun"
)

// Question is one multiple-choice question. Options always holds exactly
// four entries; Correct matches one of them verbatim.
type Question struct {
	QNo     int      `json:"qno"`
	Ques    string   `json:"ques"`
	Options []string `json:"options"`
	Correct string   `json:"correct"`
	Hint    string   `json:"hint,omitempty"`
}

// QuestionsData is the question payload stored with a quiz.
type QuestionsData struct {
	NumberOfQues int        `json:"numberOfQues"`
	Questions    []Question `json:"questions"`
}

// Quiz is an authored quiz. Titles are globally unique.
type Quiz struct {
	bun.BaseModel `bun:"table:quizzes,alias:q"`

	ID              int64         `bun:"id,pk,autoincrement" json:"-"`
	QuizID          string        `bun:"quiz_id,notnull,unique" json:"quizId"`
	QuizTitle       string        `bun:"quiz_title,notnull,unique" json:"quizTitle"`
	QuizDescription string        `bun:"quiz_description,notnull" json:"quizDescription"`
	Tags            []string      `bun:"tags,array" json:"tags"`
	TotalTime       int           `bun:"total_time,notnull" json:"totalTime"`
	Subject         string        `bun:"subject,notnull" json:"subject"`
	ForStreams      []string      `bun:"for_streams,array" json:"forStreams"`
	QuestionsData   QuestionsData `bun:"questions_data,type:jsonb,notnull" json:"questionsData"`
	CreatedBy       string        `bun:"created_by,notnull" json:"createdBy"`
	CreatedAt       time.Time     `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt       time.Time     `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}
