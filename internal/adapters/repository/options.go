package repository

import "time"

type options struct {
	retain int
	now    func() time.Time
}

func defaultOptions() options {
	return options{retain: 8, now: time.Now}
}

// Option applies a configuration option to a Store.
type Option func(*options)

// WithRetain bounds how many snapshots are kept; the oldest are dropped first.
func WithRetain(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.retain = n
		}
	}
}

// WithClock overrides the snapshot timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
