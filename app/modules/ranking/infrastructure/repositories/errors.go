package rankingdb

import "errors"

var (
	// ErrScoreNotFound is returned when no cumulative score row exists for a user.
	ErrScoreNotFound = errors.New("cumulative score not found")
)
