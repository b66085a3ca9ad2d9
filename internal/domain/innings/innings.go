// Package innings reduces ball-by-ball deliveries to one closing record per innings.
package innings

import (
	"sort"

	"github.com/okian/nrr/internal/domain/model"
	"github.com/okian/nrr/internal/domain/overs"
)

// League defaults.
const (
	DefaultQuotaOvers    = 20
	DefaultAllOutWickets = 10
)

// Normalizer picks the closing delivery of every innings and computes the overs
// credited for net run rate.
type Normalizer struct {
	quotaOvers    int
	allOutWickets int
}

// NewNormalizer creates a Normalizer with configuration options.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		quotaOvers:    DefaultQuotaOvers,
		allOutWickets: DefaultAllOutWickets,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// QuotaBalls returns the innings quota in balls.
func (n *Normalizer) QuotaBalls() int {
	return n.quotaOvers * overs.BallsPerOver
}

// candidate is a delivery plus its position in the input.
type candidate struct {
	d   model.Delivery
	pos int
}

// after reports whether c progresses the innings beyond o.
// Order: over, ball, cumulative runs, wickets, legal flag, input position.
func (c candidate) after(o candidate) bool {
	switch {
	case c.d.Over != o.d.Over:
		return c.d.Over > o.d.Over
	case c.d.Ball != o.d.Ball:
		return c.d.Ball > o.d.Ball
	case c.d.Runs != o.d.Runs:
		return c.d.Runs > o.d.Runs
	case c.d.Wickets != o.d.Wickets:
		return c.d.Wickets > o.d.Wickets
	case c.d.Legal != o.d.Legal:
		return c.d.Legal
	default:
		return c.pos > o.pos
	}
}

// Close returns one closing record per (match, date, innings), ordered by
// date, match and innings number. Input order does not matter.
func (n *Normalizer) Close(deliveries []model.Delivery) []model.Innings {
	last := make(map[model.InningsKey]candidate)
	for i, d := range deliveries {
		c := candidate{d: d, pos: i}
		if cur, ok := last[d.Key()]; !ok || c.after(cur) {
			last[d.Key()] = c
		}
	}

	out := make([]model.Innings, 0, len(last))
	for _, c := range last {
		out = append(out, n.closing(c.d))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Match != b.Match {
			return a.Match < b.Match
		}
		return a.Innings < b.Innings
	})
	return out
}

func (n *Normalizer) closing(d model.Delivery) model.Innings {
	in := model.Innings{
		InningsKey:  d.Key(),
		BattingTeam: d.BattingTeam,
		BowlingTeam: d.BowlingTeam,
		Runs:        d.Runs,
		Wickets:     d.Wickets,
		ActualBalls: ActualBalls(d),
		AllOut:      d.Wickets >= n.allOutWickets,
	}
	in.NRRBalls = in.ActualBalls
	if in.AllOut {
		in.NRRBalls = n.QuotaBalls()
	}
	return in
}

// ActualBalls returns the legal balls bowled up to and including d.
//
// A non-legal closing delivery does not use up its ball slot, so its ball number
// is stepped back by one. An adjusted ball of 6 (or an extra numbered beyond 6)
// closes the over numbered d.Over; anything less is a partial over after d.Over-1
// complete ones. A non-legal first ball of over N therefore gives (N-1).0.
func ActualBalls(d model.Delivery) int {
	ball := d.Ball
	if !d.Legal {
		ball--
	}
	ball = max(0, min(ball, overs.BallsPerOver))
	if ball == overs.BallsPerOver {
		return d.Over * overs.BallsPerOver
	}
	return max(0, d.Over-1)*overs.BallsPerOver + ball
}
