// Package innings reduces ball-by-ball deliveries to one closing record per innings.
package innings

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithQuota sets the innings quota in overs credited to a side that is bowled out.
func WithQuota(quotaOvers int) Option {
	return func(n *Normalizer) {
		if quotaOvers > 0 {
			n.quotaOvers = quotaOvers
		}
	}
}

// WithAllOutWickets sets the wicket count at which a side is all out.
func WithAllOutWickets(wickets int) Option {
	return func(n *Normalizer) {
		if wickets > 0 {
			n.allOutWickets = wickets
		}
	}
}
