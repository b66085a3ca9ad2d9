package standings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/nrr/internal/domain/innings"
	"github.com/okian/nrr/internal/domain/model"
	"github.com/okian/nrr/internal/domain/outcome"
	"github.com/okian/nrr/internal/domain/overs"
)

// futureDatePrefix keeps synthetic fixtures apart from recorded ones and from
// each other when the same pairing is entered twice.
const futureDatePrefix = "future-"

// ProjectorOption applies a configuration option to the Projector.
type ProjectorOption func(*Projector)

// WithResolver sets the resolver used for future matches.
func WithResolver(r *outcome.Resolver) ProjectorOption {
	return func(p *Projector) {
		if r != nil {
			p.resolver = r
		}
	}
}

// WithQuotaBalls sets the balls credited to a side entered as all out.
func WithQuotaBalls(balls int) ProjectorOption {
	return func(p *Projector) {
		if balls > 0 {
			p.quotaBalls = balls
		}
	}
}

// WithBonusPoints sets the configured per-team bonus.
func WithBonusPoints(bonus map[string]int) ProjectorOption {
	return func(p *Projector) {
		p.bonus = make(map[string]int, len(bonus))
		for team, pts := range bonus {
			p.bonus[team] = pts
		}
	}
}

// WithStrictTeams rejects future matches naming a team absent from the base.
func WithStrictTeams(strict bool) ProjectorOption {
	return func(p *Projector) {
		p.strict = strict
	}
}

// Rejection is a future match that was not merged.
type Rejection struct {
	Index int
	Match model.FutureMatch
	Err   error
}

// Projection is the outcome of merging future matches over a base.
type Projection struct {
	Table    Table
	Accepted int
	Rejected []Rejection
	// Unknown lists accepted team names that do not appear in the base.
	Unknown []string
}

// Projector merges hypothetical results over a historical Base without
// touching raw delivery data.
type Projector struct {
	resolver   *outcome.Resolver
	quotaBalls int
	bonus      map[string]int
	strict     bool
}

// NewProjector creates a Projector with configuration options.
func NewProjector(opts ...ProjectorOption) *Projector {
	p := &Projector{
		resolver:   outcome.NewResolver(outcome.WithPerformanceBonus(outcome.LeagueBonusRatio)),
		quotaBalls: innings.DefaultQuotaOvers * overs.BallsPerOver,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Table ranks base with the projector's points and bonus settings.
func (p *Projector) Table(base Base) Table {
	return Merge(base, p.resolver.Points(), p.bonus)
}

// Project validates each future match, turns accepted ones into two synthetic
// innings and ranks base plus their contribution. An invalid entry is skipped
// and reported; the rest still merge. The result does not depend on entry order.
func (p *Projector) Project(base Base, futures []model.FutureMatch) Projection {
	var (
		proj      Projection
		synthetic []model.Innings
		unknown   = make(map[string]struct{})
	)
	for i, fm := range futures {
		fm.Team1, fm.Team2 = strings.TrimSpace(fm.Team1), strings.TrimSpace(fm.Team2)
		if err := p.Validate(base, fm); err != nil {
			proj.Rejected = append(proj.Rejected, Rejection{Index: i, Match: fm, Err: err})
			continue
		}
		for _, team := range []string{fm.Team1, fm.Team2} {
			if !base.Has(team) {
				unknown[team] = struct{}{}
			}
		}
		synthetic = append(synthetic, p.Synthesize(i, fm)...)
		proj.Accepted++
	}
	for team := range unknown {
		proj.Unknown = append(proj.Unknown, team)
	}
	sort.Strings(proj.Unknown)

	proj.Table = p.Table(base.Merge(Build(synthetic, p.resolver)))
	return proj
}

// Validate checks one future match against base.
func (p *Projector) Validate(base Base, fm model.FutureMatch) error {
	t1, t2 := strings.TrimSpace(fm.Team1), strings.TrimSpace(fm.Team2)
	switch {
	case t1 == "" || t2 == "":
		return ErrMissingTeam
	case t1 == t2:
		return fmt.Errorf("%w: %s", ErrSameTeam, t1)
	case fm.Runs1 < 0 || fm.Runs2 < 0:
		return fmt.Errorf("%w: %d/%d", ErrNegativeRuns, fm.Runs1, fm.Runs2)
	case !overs.IsValid(fm.Overs1):
		return fmt.Errorf("%w: overs1 %v", overs.ErrInvalidOvers, fm.Overs1)
	case !overs.IsValid(fm.Overs2):
		return fmt.Errorf("%w: overs2 %v", overs.ErrInvalidOvers, fm.Overs2)
	case overs.ToBalls(fm.Overs1) > p.quotaBalls:
		return fmt.Errorf("%w: overs1 %v", ErrExceedsQuota, fm.Overs1)
	case overs.ToBalls(fm.Overs2) > p.quotaBalls:
		return fmt.Errorf("%w: overs2 %v", ErrExceedsQuota, fm.Overs2)
	}
	if p.strict {
		for _, team := range []string{t1, t2} {
			if !base.Has(team) {
				return fmt.Errorf("%w: %s", ErrUnknownTeam, team)
			}
		}
	}
	return nil
}

// Synthesize returns the two closing innings a future match stands for.
func (p *Projector) Synthesize(index int, fm model.FutureMatch) []model.Innings {
	key := model.MatchKey{
		Match: model.MatchLabel(fm.Team1, fm.Team2),
		Date:  futureDatePrefix + strconv.Itoa(index+1),
	}
	side := func(no int, bat, bowl string, runs int, ov float64, allOut bool) model.Innings {
		balls := overs.ToBalls(ov)
		in := model.Innings{
			InningsKey:  model.InningsKey{MatchKey: key, Innings: no},
			BattingTeam: bat,
			BowlingTeam: bowl,
			Runs:        runs,
			ActualBalls: balls,
			NRRBalls:    balls,
			AllOut:      allOut,
		}
		if allOut {
			in.Wickets = innings.DefaultAllOutWickets
			in.NRRBalls = p.quotaBalls
		}
		return in
	}
	return []model.Innings{
		side(1, fm.Team1, fm.Team2, fm.Runs1, fm.Overs1, fm.AllOut1),
		side(2, fm.Team2, fm.Team1, fm.Runs2, fm.Overs2, fm.AllOut2),
	}
}
