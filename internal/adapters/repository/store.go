// Package repository caches historical standings snapshots.
//
// A snapshot is keyed by a fingerprint of everything the base table was
// derived from. The cache is an optimization only: a miss rebuilds the base
// from deliveries.
package repository

import (
	"context"
	"time"

	"github.com/okian/nrr/internal/domain/aggregate"
	"github.com/okian/nrr/internal/domain/outcome"
	"github.com/okian/nrr/internal/domain/standings"
)

// Snapshot is a stored historical base.
type Snapshot struct {
	ID          string
	Fingerprint string
	CreatedAt   time.Time
	Base        standings.Base
}

// Store provides read/write access to cached snapshots.
type Store interface {
	// Get returns the snapshot for fingerprint or ErrNotFound.
	Get(ctx context.Context, fingerprint string) (Snapshot, error)

	// Put stores snap, replacing any snapshot with the same fingerprint, and
	// returns it with ID and CreatedAt filled in.
	Put(ctx context.Context, snap Snapshot) (Snapshot, error)

	// Count returns the number of stored snapshots.
	Count(ctx context.Context) (int, error)

	Close() error
}

// cloneBase copies both maps so callers never share state with the cache.
func cloneBase(b standings.Base) standings.Base {
	totals := make(aggregate.Table, len(b.Totals))
	for team, t := range b.Totals {
		totals[team] = t
	}
	records := make(outcome.Table, len(b.Records))
	for team, r := range b.Records {
		records[team] = r
	}
	return standings.Base{Totals: totals, Records: records}
}
