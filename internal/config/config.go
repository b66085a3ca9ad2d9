// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with league defaults.
// - Load layers a YAML file and NRR_* environment variables over New().
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"github.com/okian/nrr/internal/domain/model"
)

// Abandoned names a fixture that was scheduled but produced no innings.
type Abandoned struct {
	Match string `koanf:"match"`
	Date  string `koanf:"date"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataPath points at the ball-by-ball delivery CSV.
	DataPath string `koanf:"data_path"`

	// SnapshotPath is the SQLite snapshot cache. Empty keeps snapshots in memory.
	SnapshotPath string `koanf:"snapshot_path"`

	// SnapshotRetain bounds how many snapshots the cache keeps.
	SnapshotRetain int `koanf:"snapshot_retain"`

	// InningsQuota is the number of overs an all-out side is charged.
	InningsQuota int `koanf:"innings_quota"`

	// AllOutWickets is the wicket count that ends an innings.
	AllOutWickets int `koanf:"all_out_wickets"`

	PointsWin      int `koanf:"points_win"`
	PointsTie      int `koanf:"points_tie"`
	PointsNoResult int `koanf:"points_no_result"`

	// PerformanceBonus awards a point to projected winners whose run rate is
	// at least PerformanceBonusRatio times the loser's.
	PerformanceBonus      bool    `koanf:"performance_bonus"`
	PerformanceBonusRatio float64 `koanf:"performance_bonus_ratio"`

	// HistoricalPerformanceBonus also evaluates the rule on recorded matches.
	// Off by default because BonusPoints already carries the historical awards.
	HistoricalPerformanceBonus bool `koanf:"historical_performance_bonus"`

	// BonusPoints maps team names to a fixed points adjustment.
	BonusPoints map[string]int `koanf:"bonus_points"`

	// NorthGroup lists the North teams; every other team is South.
	NorthGroup []string `koanf:"north_group"`

	// Abandoned lists fixtures with no recorded innings that count as N/R.
	Abandoned []Abandoned `koanf:"abandoned"`

	// StrictTeams rejects projected matches naming teams absent from the base table.
	StrictTeams bool `koanf:"strict_teams"`
}

// New creates a Config with the league defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":9080",
		DataPath:              "deliveries.csv",
		SnapshotRetain:        8,
		InningsQuota:          20,
		AllOutWickets:         10,
		PointsWin:             4,
		PointsTie:             2,
		PointsNoResult:        2,
		PerformanceBonus:      true,
		PerformanceBonusRatio: 1.25,
		BonusPoints: map[string]int{
			"Middlesex Women":          1,
			"Yorkshire Women":          2,
			"Derbyshire Falcons Women": 1,
		},
		NorthGroup: []string{
			"Yorkshire Women",
			"Northamptonshire Steelbacks Women",
			"Derbyshire Falcons Women",
			"Leicestershire Foxes Women",
			"Worcestershire Rapids Women",
		},
	}
}

// Fixtures converts the abandoned list into model fixtures.
func (c *Config) Fixtures() []model.Fixture {
	out := make([]model.Fixture, 0, len(c.Abandoned))
	for _, a := range c.Abandoned {
		home, away, _ := model.SplitMatch(a.Match)
		out = append(out, model.Fixture{
			MatchKey: model.MatchKey{Match: a.Match, Date: a.Date},
			Home:     home,
			Away:     away,
		})
	}
	return out
}
