package outcome

import (
	"errors"
	"fmt"

	"github.com/okian/nrr/internal/domain/overs"
)

// chaseTargets is how many winning targets beyond the first-innings total are listed.
const chaseTargets = 6

// ErrUndefinedRate is returned when a first-innings run rate cannot be computed.
var ErrUndefinedRate = errors.New("run rate undefined")

// Chase is a winning target and the latest point at which reaching it still
// earns the performance bonus.
type Chase struct {
	Target  int
	ByBalls int
}

// Targets lists what each side needs for the performance bonus after a
// first innings of runs scored in balls.
type Targets struct {
	// MaxConceded is the most runs the defending side may allow and still
	// earn the bonus.
	MaxConceded int
	Chases      []Chase
}

// BonusTargets computes bonus scenarios for a first innings. Chases that would
// need more than quotaBalls are omitted.
func BonusTargets(runs, balls int, ratio float64, quotaBalls int) (Targets, error) {
	if ratio <= 0 {
		return Targets{}, fmt.Errorf("%w: ratio %v", ErrUndefinedRate, ratio)
	}
	rate, ok := RunRate(runs, balls)
	if !ok || runs <= 0 {
		return Targets{}, fmt.Errorf("%w: %d runs in %s overs", ErrUndefinedRate, runs, overs.Format(balls))
	}

	t := Targets{MaxConceded: int(float64(runs) / ratio)}
	required := ratio * rate
	for target := runs + 1; target <= runs+chaseTargets; target++ {
		needed := float64(target) / required * overs.BallsPerOver
		if needed > float64(quotaBalls) {
			continue
		}
		t.Chases = append(t.Chases, Chase{Target: target, ByBalls: int(needed)})
	}
	return t, nil
}
