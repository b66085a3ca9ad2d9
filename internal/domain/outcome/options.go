// Package outcome resolves closing innings into match results and points.
package outcome

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithPoints sets the points for a win, a tie and a no-result.
func WithPoints(win, tie, noResult int) Option {
	return func(r *Resolver) {
		r.points = Points{Win: win, Tie: tie, NoResult: noResult}
	}
}

// WithPerformanceBonus awards one bonus point to a winner whose run rate in the
// match is at least ratio times the loser's. A ratio <= 0 disables the bonus.
func WithPerformanceBonus(ratio float64) Option {
	return func(r *Resolver) {
		r.bonusRatio = ratio
	}
}
