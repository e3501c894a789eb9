package rankingdb

import (
	"time"

	"github.com/uptrace/bun"
)

// Attempt is one completed quiz session. Rows are append-only; ranking
// queries aggregate them and never mutate them.
type Attempt struct {
	bun.BaseModel `bun:"table:quiz_attempts,alias:qa"`

	ID           int64     `bun:"id,pk,autoincrement" json:"-"`
	AttemptID    string    `bun:"attempt_id,notnull,unique" json:"attemptId"`
	UserID       string    `bun:"user_id,notnull" json:"userId"`
	QuizID       string    `bun:"quiz_id,notnull" json:"quizId"`
	Score        int       `bun:"score,notnull,default:0" json:"score"`
	NumberOfQues int       `bun:"number_of_ques,notnull,default:0" json:"numberOfQues"`
	TimeTaken    int       `bun:"time_taken,notnull,default:0" json:"timeTaken"`
	Subject      string    `bun:"subject" json:"subject"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// CumulativeScore is the per-user running total behind the global
// leaderboard. It is only ever mutated by additive increments.
type CumulativeScore struct {
	bun.BaseModel `bun:"table:cumulative_scores,alias:cs"`

	UserID      string    `bun:"user_id,pk" json:"userId"`
	RankID      string    `bun:"rank_id,notnull,unique" json:"rankId"`
	Username    string    `bun:"username" json:"username,omitempty"`
	FullName    string    `bun:"full_name,notnull" json:"fullName"`
	Email       string    `bun:"email,notnull,unique" json:"email"`
	PhoneNumber string    `bun:"phone_number,notnull" json:"phoneNumber"`
	Score       int       `bun:"score,notnull,default:0" json:"score"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}
