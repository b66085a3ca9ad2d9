package service

import (
	"github.com/okian/nrr/internal/adapters/repository"
	"github.com/okian/nrr/internal/domain/model"
	"github.com/okian/nrr/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataPath sets the delivery CSV the base table is built from.
func WithDataPath(path string) Option {
	return func(s *Service) {
		s.dataPath = path
	}
}

// WithDeliveries supplies deliveries directly instead of reading a file.
// Snapshots are not cached for in-memory sources.
func WithDeliveries(ds []model.Delivery) Option {
	return func(s *Service) {
		s.deliveries = append([]model.Delivery(nil), ds...)
		s.hasDeliveries = true
	}
}

// WithStore sets the snapshot cache.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithQuota sets the innings quota in overs.
func WithQuota(overs int) Option {
	return func(s *Service) {
		if overs > 0 {
			s.quotaOvers = overs
		}
	}
}

// WithAllOutWickets sets the wicket count that ends an innings.
func WithAllOutWickets(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.allOutWickets = n
		}
	}
}

// WithPoints sets points per win, tie and no-result.
func WithPoints(win, tie, noResult int) Option {
	return func(s *Service) {
		s.pointsWin, s.pointsTie, s.pointsNoResult = win, tie, noResult
	}
}

// WithPerformanceBonus enables the projected-match bonus at ratio.
func WithPerformanceBonus(enabled bool, ratio float64) Option {
	return func(s *Service) {
		s.bonusEnabled = enabled
		if ratio > 0 {
			s.bonusRatio = ratio
		}
	}
}

// WithHistoricalPerformanceBonus also applies the bonus rule to recorded matches.
func WithHistoricalPerformanceBonus(enabled bool) Option {
	return func(s *Service) {
		s.historicalBonus = enabled
	}
}

// WithBonusPoints sets the configured per-team bonus.
func WithBonusPoints(bonus map[string]int) Option {
	return func(s *Service) {
		s.bonusPoints = make(map[string]int, len(bonus))
		for team, pts := range bonus {
			s.bonusPoints[team] = pts
		}
	}
}

// WithNorthGroup sets the North group membership.
func WithNorthGroup(teams []string) Option {
	return func(s *Service) {
		s.north = append([]string(nil), teams...)
	}
}

// WithAbandoned sets fixtures that produced no innings.
func WithAbandoned(fixtures []model.Fixture) Option {
	return func(s *Service) {
		s.abandoned = append([]model.Fixture(nil), fixtures...)
	}
}

// WithStrictTeams rejects projected matches naming unknown teams.
func WithStrictTeams(strict bool) Option {
	return func(s *Service) {
		s.strictTeams = strict
	}
}
