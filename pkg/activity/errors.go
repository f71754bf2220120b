package activity

import "errors"

var (
	ErrIndexOutOfRange  = errors.New("activity index out of range")
	ErrInvalidPercent   = errors.New("percent must be between 0 and 100")
	ErrActivityNotFound = errors.New("activity not found")
)
