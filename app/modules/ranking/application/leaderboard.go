package rankingservice

import (
	"context"

	rankingdomain "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/ranking/domain"
	rankingdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/ranking/infrastructure/repositories"
	userdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/user/infrastructure/repositories"
)

// LeaderboardQuery selects a leaderboard page. QuizID empty means the global
// cumulative-score board; Stream empty means no cohort filter.
type LeaderboardQuery struct {
	Page   int
	Limit  int
	Stream string
	QuizID string
}

// LeaderboardEntry is one row of a leaderboard page. Rank is derived from
// position within the overall ordering, not from score: tied scores that
// span a page boundary get distinct rank numbers (kept for compatibility
// with existing clients).
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`
	Score    int    `json:"score"`
	Stream   string `json:"stream,omitempty"`
}

// LeaderboardPage is a paginated, descending-score slice of the board.
type LeaderboardPage struct {
	Leaderboard  []LeaderboardEntry `json:"leaderboard"`
	TotalPages   int                `json:"totalPages"`
	CurrentPage  int                `json:"currentPage"`
	TotalRecords int                `json:"totalRecords"`
}

// GetLeaderboard returns one page of either the global or the per-quiz
// leaderboard, optionally restricted to a stream.
func (s *Service) GetLeaderboard(ctx context.Context, q LeaderboardQuery) (*LeaderboardPage, error) {
	if q.QuizID != "" {
		return s.quizLeaderboard(ctx, q)
	}
	return s.globalLeaderboard(ctx, q)
}

func (s *Service) globalLeaderboard(ctx context.Context, q LeaderboardQuery) (*LeaderboardPage, error) {
	var userIDs []string
	if q.Stream != "" {
		ids, err := s.users.ListIDsByStream(ctx, s.db, q.Stream)
		if err != nil {
			return nil, err
		}
		// A stream with no users must filter to an empty board; a nil
		// slice would read as "no filter" downstream.
		if ids == nil {
			ids = []string{}
		}
		userIDs = ids
	}

	offset := (q.Page - 1) * q.Limit
	scores, err := s.scores.Page(ctx, s.db, userIDs, offset, q.Limit)
	if err != nil {
		return nil, err
	}
	total, err := s.scores.Count(ctx, s.db, userIDs)
	if err != nil {
		return nil, err
	}

	streams, err := s.streamsByUser(ctx, collectScoreIDs(scores))
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(scores))
	for i, score := range scores {
		entries[i] = LeaderboardEntry{
			Rank:     offset + i + 1,
			UserID:   score.UserID,
			FullName: score.FullName,
			Score:    score.Score,
			Stream:   streams[score.UserID],
		}
	}

	return &LeaderboardPage{
		Leaderboard:  entries,
		TotalPages:   rankingdomain.TotalPages(total, q.Limit),
		CurrentPage:  q.Page,
		TotalRecords: total,
	}, nil
}

func (s *Service) quizLeaderboard(ctx context.Context, q LeaderboardQuery) (*LeaderboardPage, error) {
	// The per-quiz board only ever ranks known users, so the participant
	// set is always resolved through the user store (with or without a
	// stream filter).
	userIDs, err := s.users.ListIDsByStream(ctx, s.db, q.Stream)
	if err != nil {
		return nil, err
	}
	if userIDs == nil {
		userIDs = []string{}
	}

	offset := (q.Page - 1) * q.Limit
	best, err := s.attempts.BestByQuizPage(ctx, s.db, q.QuizID, userIDs, offset, q.Limit)
	if err != nil {
		return nil, err
	}
	total, err := s.attempts.CountParticipants(ctx, s.db, q.QuizID, userIDs)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(best))
	for i, b := range best {
		ids[i] = b.UserID
	}
	users, err := s.users.GetByIDs(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]userdb.User, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}

	entries := make([]LeaderboardEntry, len(best))
	for i, b := range best {
		entries[i] = LeaderboardEntry{
			Rank:     offset + i + 1,
			UserID:   b.UserID,
			FullName: byID[b.UserID].FullName,
			Score:    b.BestScore,
			Stream:   byID[b.UserID].Stream,
		}
	}

	return &LeaderboardPage{
		Leaderboard:  entries,
		TotalPages:   rankingdomain.TotalPages(total, q.Limit),
		CurrentPage:  q.Page,
		TotalRecords: total,
	}, nil
}

func (s *Service) streamsByUser(ctx context.Context, userIDs []string) (map[string]string, error) {
	users, err := s.users.GetByIDs(ctx, s.db, userIDs)
	if err != nil {
		return nil, err
	}
	streams := make(map[string]string, len(users))
	for _, u := range users {
		streams[u.UserID] = u.Stream
	}
	return streams, nil
}

func collectScoreIDs(scores []rankingdb.CumulativeScore) []string {
	ids := make([]string, len(scores))
	for i, s := range scores {
		ids[i] = s.UserID
	}
	return ids
}
