// Package main provides the nrr CLI: the standings API server and one-shot
// table, projection and bonus-target commands.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/nrr/internal/adapters/render"
	"github.com/okian/nrr/internal/adapters/repository"
	app "github.com/okian/nrr/internal/app"
	"github.com/okian/nrr/internal/config"
	"github.com/okian/nrr/pkg/logger"
)

const envConfig = "NRR_CONFIG"

// cli carries state resolved by the root command for its subcommands.
type cli struct {
	configPath string
	formatFlag string
	dataPath   string

	cfg    *config.Config
	format render.Format
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "nrr",
		Short: "League points table and net run rate",
		Long: `nrr builds the North and South points tables from ball-by-ball data.

Commands:
  serve     HTTP API and standings page
  table     Print the current groups
  project   Print the groups with hypothetical results merged in
  targets   Print performance-bonus thresholds for a first innings`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "YAML config file (overrides "+envConfig+")")
	root.PersistentFlags().StringVarP(&c.formatFlag, "format", "f", "text", "output format (text, markdown, csv, html)")
	root.PersistentFlags().StringVarP(&c.dataPath, "data", "d", "", "delivery CSV file (overrides data_path)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tableCommand())
	root.AddCommand(c.projectCommand())
	root.AddCommand(c.targetsCommand())
	return root
}

// init loads config and sets up logging. Logs go to stderr so table output
// on stdout stays clean.
func (c *cli) init(logOut io.Writer) error {
	if c.configPath != "" {
		if err := os.Setenv(envConfig, c.configPath); err != nil {
			return fmt.Errorf("set %s: %w", envConfig, err)
		}
	}
	cfg, err := config.Load(context.Background())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.dataPath != "" {
		cfg.DataPath = c.dataPath
	}
	c.cfg = cfg

	if c.format, err = render.ParseFormat(c.formatFlag); err != nil {
		return err
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(logOut)); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(context.Background(), "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// serviceOptions maps config onto service options.
func serviceOptions(cfg *config.Config) []app.Option {
	return []app.Option{
		app.WithDataPath(cfg.DataPath),
		app.WithQuota(cfg.InningsQuota),
		app.WithAllOutWickets(cfg.AllOutWickets),
		app.WithPoints(cfg.PointsWin, cfg.PointsTie, cfg.PointsNoResult),
		app.WithPerformanceBonus(cfg.PerformanceBonus, cfg.PerformanceBonusRatio),
		app.WithHistoricalPerformanceBonus(cfg.HistoricalPerformanceBonus),
		app.WithBonusPoints(cfg.BonusPoints),
		app.WithNorthGroup(cfg.NorthGroup),
		app.WithAbandoned(cfg.Fixtures()),
		app.WithStrictTeams(cfg.StrictTeams),
	}
}

// openStore opens the snapshot cache named by cfg. Without a snapshot_path
// the cache lives in memory for the process lifetime.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	opts := []repository.Option{repository.WithRetain(cfg.SnapshotRetain)}
	if cfg.SnapshotPath == "" {
		return repository.NewMemoryStore(opts...), nil
	}
	s, err := repository.NewSQLiteStore(ctx, cfg.SnapshotPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return s, nil
}

// startService opens the snapshot store, then builds and starts the service.
func (c *cli) startService(ctx context.Context) (*app.Service, error) {
	store, err := openStore(ctx, c.cfg)
	if err != nil {
		return nil, err
	}

	opts := append(serviceOptions(c.cfg),
		app.WithStore(store),
		app.WithLogger(logger.Named("service")),
	)
	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("start service: %w", err)
	}
	return svc, nil
}
