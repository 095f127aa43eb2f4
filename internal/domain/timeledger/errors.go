package timeledger

import "errors"

var (
	ErrInvalidPunchKind = errors.New("punch kind must be IN or OUT")
	ErrWorkerRequired   = errors.New("worker is required")
)
