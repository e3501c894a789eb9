// Package rankingdomain holds the pure ranking math: best-attempt
// aggregation rows in, rank/percentile summaries out. No storage concerns.
package rankingdomain

import (
	"math"
	"time"
)

// BestAttempt is one participant's best result on a quiz.
type BestAttempt struct {
	UserID        string
	BestScore     int
	Attempts      int
	LastAttemptAt time.Time
}

// Summary describes where a participant stands among everyone who attempted
// the same quiz. Ties share a rank; percentile is the share of other
// participants the caller beat, scaled to 100.
type Summary struct {
	Rank              int
	TotalParticipants int
	Percentile        float64
	BestScore         int
	Attempts          int
	LastAttemptAt     time.Time
	BetterThanCount   int
	WorseThanCount    int
	SameScoreCount    int
}

// Summarize computes the rank summary for userID against the given best
// attempts. It returns nil when the user has no attempt in the set; callers
// distinguish that from an empty set themselves.
func Summarize(best []BestAttempt, userID string) *Summary {
	var own *BestAttempt
	for i := range best {
		if best[i].UserID == userID {
			own = &best[i]
			break
		}
	}
	if own == nil {
		return nil
	}

	total := len(best)
	var better, worse, same int
	for _, b := range best {
		switch {
		case b.BestScore > own.BestScore:
			better++
		case b.BestScore < own.BestScore:
			worse++
		default:
			same++
		}
	}

	return &Summary{
		Rank:              better + 1,
		TotalParticipants: total,
		Percentile:        percentile(total, better, worse),
		BestScore:         own.BestScore,
		Attempts:          own.Attempts,
		LastAttemptAt:     own.LastAttemptAt,
		BetterThanCount:   better,
		WorseThanCount:    worse,
		SameScoreCount:    same,
	}
}

// percentile is 100 for a lone participant and for anyone tied for the top
// score; otherwise the fraction of other participants scored worse than,
// rounded to two decimal places.
func percentile(total, better, worse int) float64 {
	if total == 1 || better == 0 {
		return 100
	}
	p := float64(worse) / float64(total-1) * 100
	return math.Round(p*100) / 100
}

// TotalPages is the page count for a record total at the given page size.
func TotalPages(totalRecords, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalRecords) / float64(limit)))
}
