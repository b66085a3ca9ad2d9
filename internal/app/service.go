// Package service loads the historical base table and answers standings,
// projection and bonus-target queries over it.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/nrr/internal/adapters/loader"
	"github.com/okian/nrr/internal/adapters/repository"
	"github.com/okian/nrr/internal/domain/innings"
	"github.com/okian/nrr/internal/domain/model"
	"github.com/okian/nrr/internal/domain/outcome"
	"github.com/okian/nrr/internal/domain/overs"
	"github.com/okian/nrr/internal/domain/standings"
	"github.com/okian/nrr/internal/domain/types"
	"github.com/okian/nrr/pkg/logger"
	"github.com/okian/nrr/pkg/metrics"
)

// Service implements the API dependencies for the standings calculator.
type Service struct {
	mu sync.RWMutex

	// Sources
	dataPath      string
	deliveries    []model.Delivery
	hasDeliveries bool
	store         repository.Store

	// Rules
	quotaOvers      int
	allOutWickets   int
	pointsWin       int
	pointsTie       int
	pointsNoResult  int
	bonusEnabled    bool
	bonusRatio      float64
	historicalBonus bool
	bonusPoints     map[string]int
	north           []string
	abandoned       []model.Fixture
	strictTeams     bool

	// Built on Start
	normalizer *innings.Normalizer
	historical *outcome.Resolver
	projector  *standings.Projector

	// State
	started bool
	base    standings.Base
	load    loadInfo

	logger logger.Logger
}

type loadInfo struct {
	fingerprint string
	snapshotID  string
	cacheHit    bool
	deliveries  int
	innings     int
	loadedAt    time.Time
}

// New constructs a new Service with league defaults.
func New(opts ...Option) *Service {
	s := &Service{
		quotaOvers:     innings.DefaultQuotaOvers,
		allOutWickets:  innings.DefaultAllOutWickets,
		pointsWin:      outcome.DefaultWinPoints,
		pointsTie:      outcome.DefaultTiePoints,
		pointsNoResult: outcome.DefaultNoResultPoints,
		bonusEnabled:   true,
		bonusRatio:     outcome.LeagueBonusRatio,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the rule engines and loads the base table.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}

	s.normalizer = innings.NewNormalizer(
		innings.WithQuota(s.quotaOvers),
		innings.WithAllOutWickets(s.allOutWickets),
	)
	historicalOpts := []outcome.Option{outcome.WithPoints(s.pointsWin, s.pointsTie, s.pointsNoResult)}
	if s.historicalBonus {
		historicalOpts = append(historicalOpts, outcome.WithPerformanceBonus(s.bonusRatio))
	}
	s.historical = outcome.NewResolver(historicalOpts...)

	projectedOpts := []outcome.Option{outcome.WithPoints(s.pointsWin, s.pointsTie, s.pointsNoResult)}
	if s.bonusEnabled {
		projectedOpts = append(projectedOpts, outcome.WithPerformanceBonus(s.bonusRatio))
	}
	s.projector = standings.NewProjector(
		standings.WithResolver(outcome.NewResolver(projectedOpts...)),
		standings.WithQuotaBalls(s.normalizer.QuotaBalls()),
		standings.WithBonusPoints(s.bonusPoints),
		standings.WithStrictTeams(s.strictTeams),
	)
	s.mu.Unlock()

	s.logger.Info(ctx, "starting standings service",
		logger.String("dataPath", s.dataPath),
		logger.Int("quotaOvers", s.quotaOvers),
		logger.Bool("performanceBonus", s.bonusEnabled),
		logger.Float64("bonusRatio", s.bonusRatio),
	)
	if err := s.Reload(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	return nil
}

// Reload rebuilds the base table from the delivery source, using the snapshot
// cache when the source and rules are unchanged.
func (s *Service) Reload(ctx context.Context) error {
	start := time.Now()
	base, info, err := s.buildBase(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("service", "load")
		s.logger.Error(ctx, "failed to load base table", logger.Error(err))
		return err
	}
	info.loadedAt = time.Now().UTC()

	elapsed := time.Since(start)
	metrics.RecordLoadLatency(float64(elapsed.Microseconds()) / 1000)
	if err := metrics.RecordStandingsComputed(metrics.KindBase, float64(elapsed.Microseconds())/1000); err != nil {
		s.logger.Warn(ctx, "failed to record metric", logger.Error(err))
	}
	metrics.UpdateTeamsTracked(len(base.Teams()))

	s.mu.Lock()
	s.base = base
	s.load = info
	s.mu.Unlock()

	s.logger.Info(ctx, "base table loaded",
		logger.Int("teams", len(base.Teams())),
		logger.Int("deliveries", info.deliveries),
		logger.Int("innings", info.innings),
		logger.Bool("cacheHit", info.cacheHit),
		logger.String("snapshotID", info.snapshotID),
		logger.Duration("elapsed", elapsed),
	)
	return nil
}

func (s *Service) buildBase(ctx context.Context) (standings.Base, loadInfo, error) {
	s.mu.RLock()
	n, resolver, abandoned := s.normalizer, s.historical, s.abandoned
	s.mu.RUnlock()

	if s.hasDeliveries {
		closed := n.Close(s.deliveries)
		metrics.RecordDeliveriesLoaded(len(s.deliveries))
		metrics.RecordInningsClosed(len(closed))
		return standings.Build(closed, resolver, abandoned...),
			loadInfo{deliveries: len(s.deliveries), innings: len(closed)}, nil
	}
	if s.dataPath == "" {
		return standings.Base{}, loadInfo{}, ErrNoData
	}

	fp, err := loader.Fingerprint(s.dataPath)
	if err != nil {
		return standings.Base{}, loadInfo{}, err
	}
	key := s.cacheKey(fp)
	snap, err := s.store.Get(ctx, key)
	switch {
	case err == nil:
		return snap.Base, loadInfo{fingerprint: key, snapshotID: snap.ID, cacheHit: true}, nil
	case !errors.Is(err, repository.ErrNotFound):
		// The cache is never required; fall through to a rebuild.
		s.logger.Warn(ctx, "snapshot lookup failed", logger.Error(err))
	}

	res, err := loader.Load(ctx, s.dataPath)
	if err != nil {
		return standings.Base{}, loadInfo{}, err
	}
	closed := n.Close(res.Deliveries)
	metrics.RecordDeliveriesLoaded(len(res.Deliveries))
	metrics.RecordInningsClosed(len(closed))
	base := standings.Build(closed, resolver, abandoned...)
	info := loadInfo{fingerprint: key, deliveries: len(res.Deliveries), innings: len(closed)}

	// The file may have changed between hashing and reading.
	if res.Fingerprint == fp {
		saved, err := s.store.Put(ctx, repository.Snapshot{Fingerprint: key, Base: base})
		if err != nil {
			s.logger.Warn(ctx, "snapshot save failed", logger.Error(err))
		} else {
			info.snapshotID = saved.ID
		}
	}
	return base, info, nil
}

// cacheKey binds the file fingerprint to every rule that shapes the base.
func (s *Service) cacheKey(fileFP string) string {
	fixtures := make([]string, 0, len(s.abandoned))
	for _, f := range s.abandoned {
		fixtures = append(fixtures, f.Date+"/"+f.Match)
	}
	sort.Strings(fixtures)
	ratio := 0.0
	if s.historicalBonus {
		ratio = s.bonusRatio
	}
	h := sha256.Sum256(fmt.Appendf(nil, "%s|q=%d|w=%d|hb=%g|ab=%s",
		fileFP, s.quotaOvers, s.allOutWickets, ratio, strings.Join(fixtures, ";")))
	return hex.EncodeToString(h[:])
}

// Stop releases the snapshot store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "failed to close snapshot store", logger.Error(err))
		}
	}
	s.started = false
	s.logger.Info(context.Background(), "standings service stopped")
}

// snapshot returns the current base under the read lock.
func (s *Service) snapshot() (standings.Base, *standings.Projector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return standings.Base{}, nil, ErrNotStarted
	}
	return s.base, s.projector, nil
}

// Table returns the ranked league table before partitioning.
func (s *Service) Table(ctx context.Context) (standings.Table, error) {
	base, p, err := s.snapshot()
	if err != nil {
		return standings.Table{}, err
	}
	start := time.Now()
	t := p.Table(base)
	s.logger.Debug(ctx, "table ranked", logger.Int("teams", len(t.Rows)), logger.Duration("elapsed", time.Since(start)))
	return t, nil
}

// Standings returns the current North and South tables.
func (s *Service) Standings(ctx context.Context) (types.Standings, error) {
	t, err := s.Table(ctx)
	if err != nil {
		return types.Standings{}, err
	}
	return types.NewStandings(standings.Partition(t, s.north)), nil
}

// Rank returns one team's row ranked within its group.
func (s *Service) Rank(ctx context.Context, team string) (types.TeamStanding, error) {
	team = strings.TrimSpace(team)
	t, err := s.Table(ctx)
	if err != nil {
		return types.TeamStanding{}, err
	}
	g := standings.Partition(t, s.north)
	group := standings.GroupOf(team, s.north)
	tbl := g.South
	if group == standings.GroupNorth {
		tbl = g.North
	}
	row, ok := tbl.Find(team)
	if !ok {
		return types.TeamStanding{}, fmt.Errorf("%w: %s", ErrTeamNotFound, team)
	}
	return types.TeamStanding{Group: group, Entry: types.NewEntry(row)}, nil
}

// Project merges future matches over the base table. Invalid entries are
// reported and skipped; the call itself only fails when the service is down.
func (s *Service) Project(ctx context.Context, futures []model.FutureMatch) (types.Projection, error) {
	base, p, err := s.snapshot()
	if err != nil {
		return types.Projection{}, err
	}
	start := time.Now()
	proj := p.Project(base, futures)
	elapsed := time.Since(start)

	if err := metrics.RecordStandingsComputed(metrics.KindProjection, float64(elapsed.Microseconds())/1000); err != nil {
		s.logger.Warn(ctx, "failed to record metric", logger.Error(err))
	}
	metrics.RecordFutureMatches(proj.Accepted)
	for _, r := range proj.Rejected {
		metrics.RecordProjectionRejected(rejectionReason(r.Err))
		s.logger.Debug(ctx, "future match rejected",
			logger.Int("index", r.Index),
			logger.String("team1", r.Match.Team1),
			logger.String("team2", r.Match.Team2),
			logger.Error(r.Err),
		)
	}

	out := types.Projection{
		ID:        uuid.NewString(),
		Standings: types.NewStandings(standings.Partition(proj.Table, s.north)),
		Accepted:  proj.Accepted,
		Rejected:  types.NewRejections(proj.Rejected),
		Unknown:   append([]string{}, proj.Unknown...),
	}
	s.logger.Info(ctx, "projection computed",
		logger.String("id", out.ID),
		logger.Int("accepted", proj.Accepted),
		logger.Int("rejected", len(proj.Rejected)),
		logger.Strings("unknown", proj.Unknown),
		logger.Duration("elapsed", elapsed),
	)
	return out, nil
}

// rejectionReason maps a validation error onto a metric label.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, standings.ErrMissingTeam):
		return "missing_team"
	case errors.Is(err, standings.ErrSameTeam):
		return "same_team"
	case errors.Is(err, standings.ErrNegativeRuns):
		return "negative_runs"
	case errors.Is(err, overs.ErrInvalidOvers):
		return "invalid_overs"
	case errors.Is(err, standings.ErrExceedsQuota):
		return "exceeds_quota"
	case errors.Is(err, standings.ErrUnknownTeam):
		return "unknown_team"
	}
	return "other"
}

// Targets returns the bonus-point scenarios after a first innings of runs in
// the given overs.
func (s *Service) Targets(ctx context.Context, runs int, ov float64) (types.Targets, error) {
	if runs < 0 || !overs.IsValid(ov) {
		return types.Targets{}, fmt.Errorf("%w: %d runs in %v overs", ErrInvalidInput, runs, ov)
	}
	balls := overs.ToBalls(ov)
	quota := s.quotaOvers * overs.BallsPerOver
	if balls > quota {
		return types.Targets{}, fmt.Errorf("%w: %v overs exceeds the %d over quota", ErrInvalidInput, ov, s.quotaOvers)
	}
	tg, err := outcome.BonusTargets(runs, balls, s.bonusRatio, quota)
	if err != nil {
		return types.Targets{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	s.log().Debug(ctx, "bonus targets computed",
		logger.Int("runs", runs),
		logger.String("overs", overs.Format(balls)),
		logger.Int("maxConceded", tg.MaxConceded),
	)
	return types.NewTargets(runs, balls, tg), nil
}

// log returns the service logger, falling back to the global one before Start.
func (s *Service) log() logger.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logger.Named("service")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":          s.started,
		"quotaOvers":       s.quotaOvers,
		"performanceBonus": s.bonusEnabled,
		"bonusRatio":       s.bonusRatio,
	}
	if s.started {
		stats["teams"] = len(s.base.Teams())
		stats["deliveries"] = s.load.deliveries
		stats["innings"] = s.load.innings
		stats["cacheHit"] = s.load.cacheHit
		stats["snapshotID"] = s.load.snapshotID
		stats["loadedAt"] = s.load.loadedAt.Format(time.RFC3339)
		if n, err := s.store.Count(context.Background()); err == nil {
			stats["snapshots"] = n
		}
		metrics.UpdateTeamsTracked(len(s.base.Teams()))
		metrics.UpdateSystemStats()
	}
	return stats
}
