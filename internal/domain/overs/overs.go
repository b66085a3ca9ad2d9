// Package overs converts between cricket's "overs.balls" notation and ball counts.
//
// The fractional digit of an overs value is a ball count in [0,5], not a decimal
// fraction: 19.4 means 19 complete overs plus 4 legal balls (118 balls).
package overs

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BallsPerOver is the number of legal deliveries in one over.
const BallsPerOver = 6

// tenthsTolerance absorbs float representation error when checking that a
// value carries at most one decimal digit (19.5 may be stored as 19.499999).
const tenthsTolerance = 1e-6

// maxTenths bounds accepted values so the tenths count and the ball count
// derived from it always fit in an int.
const maxTenths = math.MaxInt32

// tenths returns v scaled to a whole number of tenths.
func tenths(v float64) int {
	return int(math.Round(v * 10))
}

// ToBalls converts overs in x.y notation to a ball count.
// The fractional digit must already be a valid ball count (see IsValid).
func ToBalls(v float64) int {
	t := tenths(v)
	return (t/10)*BallsPerOver + t%10
}

// FromBalls converts a ball count to overs in x.y notation.
func FromBalls(balls int) float64 {
	return float64(balls/BallsPerOver) + float64(balls%BallsPerOver)/10
}

// IsValid reports whether v is a legal overs value: non-negative, at most one
// decimal digit, a fractional digit in [0,5], and small enough to count in balls.
func IsValid(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return false
	}
	scaled := v * 10
	if scaled > maxTenths {
		return false
	}
	if math.Abs(scaled-math.Round(scaled)) > tenthsTolerance {
		return false
	}
	return tenths(v)%10 < BallsPerOver
}

// Parse reads an overs value written as "x" or "x.y" into a ball count
// without going through floating point.
func Parse(s string) (int, error) {
	s = strings.TrimSpace(s)
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOvers, s)
	}
	completed, err := strconv.Atoi(whole)
	if err != nil || completed < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOvers, s)
	}
	if !hasFrac || frac == "" {
		return completed * BallsPerOver, nil
	}
	if len(frac) != 1 || frac[0] < '0' || frac[0] > '5' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOvers, s)
	}
	return completed*BallsPerOver + int(frac[0]-'0'), nil
}

// Format renders a ball count as "x.y".
func Format(balls int) string {
	if balls < 0 {
		return "-" + Format(-balls)
	}
	return strconv.Itoa(balls/BallsPerOver) + "." + strconv.Itoa(balls%BallsPerOver)
}
