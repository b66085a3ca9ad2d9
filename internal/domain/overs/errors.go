package overs

import "errors"

// ErrInvalidOvers is returned for values whose ball digit is outside [0,5].
var ErrInvalidOvers = errors.New("invalid overs value")
