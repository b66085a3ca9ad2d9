package standings

import "errors"

// Sentinel kinds for rejected future matches.
var (
	ErrUnknownTeam  = errors.New("unknown team")
	ErrSameTeam     = errors.New("a team cannot play itself")
	ErrNegativeRuns = errors.New("runs must not be negative")
	ErrMissingTeam  = errors.New("missing team name")
	ErrExceedsQuota = errors.New("overs exceed the innings quota")
)
