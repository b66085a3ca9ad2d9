package service

import "errors"

// Sentinel kinds returned by Service operations.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrTeamNotFound = errors.New("team not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrNoData       = errors.New("no delivery source configured")
)
