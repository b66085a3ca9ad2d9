package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/nrr/pkg/metrics"
)

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	opts   options
	byFP   map[string]Snapshot
	order  []string // fingerprints, oldest first
	closed bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryStore{opts: o, byFP: make(map[string]Snapshot)}
}

// Get implements Store.Get.
func (s *MemoryStore) Get(ctx context.Context, fingerprint string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Snapshot{}, ErrStoreClosed
	}
	snap, ok := s.byFP[fingerprint]
	if !ok {
		metrics.RecordSnapshotMiss()
		return Snapshot{}, ErrNotFound
	}
	metrics.RecordSnapshotHit()
	snap.Base = cloneBase(snap.Base)
	return snap, nil
}

// Put implements Store.Put.
func (s *MemoryStore) Put(ctx context.Context, snap Snapshot) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	if snap.Fingerprint == "" {
		return Snapshot{}, ErrNoFingerprint
	}
	snap.ID = uuid.NewString()
	snap.CreatedAt = s.opts.now().UTC()
	snap.Base = cloneBase(snap.Base)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Snapshot{}, ErrStoreClosed
	}
	if _, exists := s.byFP[snap.Fingerprint]; exists {
		s.drop(snap.Fingerprint)
	}
	s.byFP[snap.Fingerprint] = snap
	s.order = append(s.order, snap.Fingerprint)
	for len(s.order) > s.opts.retain {
		s.drop(s.order[0])
	}
	metrics.RecordSnapshotSave()

	out := snap
	out.Base = cloneBase(snap.Base)
	return out, nil
}

func (s *MemoryStore) drop(fp string) {
	delete(s.byFP, fp)
	for i, f := range s.order {
		if f == fp {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byFP), nil
}

// Close implements Store.Close.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.byFP = nil
	s.order = nil
	return nil
}
