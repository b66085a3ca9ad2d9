package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/nrr/internal/domain/model"
)

const (
	envPrefix  = "NRR_"
	envConfig  = "NRR_CONFIG"
	configKey  = "config"
	formatText = "text"
	formatJSON = "json"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if NRR_CONFIG is set
//  3. env (prefix NRR_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// NRR_DATA_PATH -> data_path. Keys stay flat to match the koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	k.Delete(configKey)

	cfg := *base
	// A file or env that sets a collection replaces the default wholesale.
	if k.Exists("bonus_points") {
		cfg.BonusPoints = nil
	}
	if k.Exists("north_group") {
		cfg.NorthGroup = nil
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf(&cfg)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	cfg.NorthGroup = trimNames(cfg.NorthGroup)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// unmarshalConf extends koanf's default decoder so a comma separated env
// value fills a list field.
func unmarshalConf(out *Config) koanf.UnmarshalConf {
	return koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			Result:           out,
			WeaklyTypedInput: true,
		},
	}
}

func trimNames(names []string) []string {
	if names == nil {
		return nil
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Validate checks value ranges and cross-field rules.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != formatText && c.LogFormat != formatJSON:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	case c.SnapshotRetain <= 0:
		return fmt.Errorf("%w: snapshot_retain must be positive", ErrInvalidConfig)
	case c.InningsQuota <= 0:
		return fmt.Errorf("%w: innings_quota must be positive", ErrInvalidConfig)
	case c.AllOutWickets <= 0:
		return fmt.Errorf("%w: all_out_wickets must be positive", ErrInvalidConfig)
	case c.PointsWin < 0 || c.PointsTie < 0 || c.PointsNoResult < 0:
		return fmt.Errorf("%w: points must not be negative", ErrInvalidConfig)
	case (c.PerformanceBonus || c.HistoricalPerformanceBonus) && c.PerformanceBonusRatio <= 0:
		return fmt.Errorf("%w: performance_bonus_ratio must be positive", ErrInvalidConfig)
	}
	for i, a := range c.Abandoned {
		if _, _, ok := model.SplitMatch(a.Match); !ok || a.Date == "" {
			return fmt.Errorf("%w: abandoned[%d] needs a \"Home v Away\" match and a date", ErrInvalidConfig, i)
		}
	}
	return nil
}
