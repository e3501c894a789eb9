package quizdb

import "errors"

var (
	ErrQuizNotFound = errors.New("quiz not found")
	ErrTitleTaken   = errors.New("quiz title already exists")
)
