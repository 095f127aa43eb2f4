package report

import "errors"

var (
	ErrInvalidMonth  = errors.New("month must be between 1 and 12")
	ErrInvalidYear   = errors.New("year must be a valid year")
	ErrInvalidCutoff = errors.New("late cutoff must be in HH:MM format")
)
