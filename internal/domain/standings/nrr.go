package standings

import (
	"math"
	"strconv"

	"github.com/okian/nrr/internal/domain/model"
	"github.com/okian/nrr/internal/domain/outcome"
)

// nrrScale rounds NRR to three decimal places.
const nrrScale = 1000

// NRR is a net run rate. It is undefined when a team has not both batted and
// bowled at least one ball; undefined rates sort below every defined one.
type NRR struct {
	Value   float64
	Defined bool
}

// ComputeNRR returns runs per over scored minus runs per over conceded,
// rounded to three decimal places.
func ComputeNRR(t model.Totals) NRR {
	forRate, ok := outcome.RunRate(t.RunsFor, t.BallsFor)
	if !ok {
		return NRR{}
	}
	againstRate, ok := outcome.RunRate(t.RunsAgainst, t.BallsAgainst)
	if !ok {
		return NRR{}
	}
	v := math.Round((forRate-againstRate)*nrrScale) / nrrScale
	if v == 0 {
		v = 0 // drop negative zero
	}
	return NRR{Value: v, Defined: true}
}

// Less reports whether n ranks below o.
func (n NRR) Less(o NRR) bool {
	if n.Defined != o.Defined {
		return !n.Defined
	}
	return n.Value < o.Value
}

// String renders the rate with a sign and three decimals, or "-" when undefined.
func (n NRR) String() string {
	if !n.Defined {
		return "-"
	}
	s := strconv.FormatFloat(n.Value, 'f', 3, 64)
	if n.Value >= 0 {
		s = "+" + s
	}
	return s
}

// MarshalJSON encodes an undefined rate as null.
func (n NRR) MarshalJSON() ([]byte, error) {
	if !n.Defined {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, n.Value, 'f', 3, 64), nil
}
