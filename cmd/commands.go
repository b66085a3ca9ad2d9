package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/nrr/internal/adapters/render"
	"github.com/okian/nrr/internal/domain/model"
)

// ErrBadMatch is returned for a --match value that cannot be parsed.
var ErrBadMatch = errors.New("invalid match")

const (
	matchFields = 6
	markAllOut1 = "allout1"
	markAllOut2 = "allout2"
)

func (c *cli) tableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the current North and South groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.startService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()

			st, err := svc.Standings(cmd.Context())
			if err != nil {
				return err
			}
			return render.New(c.format).Standings(cmd.OutOrStdout(), st)
		},
	}
}

func (c *cli) projectCommand() *cobra.Command {
	var raw []string
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Print the groups with hypothetical results merged in",
		Long: `Project the table over future results. Each --match is
"Team1,Team2,runs1,overs1,runs2,overs2" with Team1 batting first. Append
",allout1" or ",allout2" when that side was bowled out.

Examples:
  nrr project --match "Yorkshire Women,Kent Women,160,20,120,18.4,allout2"
  nrr project -m "A,B,150,20,151,19.2" -m "C,D,140,20,100,20" -f markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			futures := make([]model.FutureMatch, 0, len(raw))
			for _, s := range raw {
				fm, err := parseMatch(s)
				if err != nil {
					return err
				}
				futures = append(futures, fm)
			}

			svc, err := c.startService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()

			p, err := svc.Project(cmd.Context(), futures)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			r := render.New(c.format)
			if err := r.Standings(out, p.Standings); err != nil {
				return err
			}
			if err := r.Rejections(out, p.Rejected); err != nil {
				return err
			}
			if len(p.Unknown) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "note: not in the historical table: %s\n", strings.Join(p.Unknown, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&raw, "match", "m", nil, "future match (repeatable)")
	_ = cmd.MarkFlagRequired("match")
	return cmd
}

func (c *cli) targetsCommand() *cobra.Command {
	var runs int
	var ov float64
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Print performance-bonus thresholds for a first innings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.startService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()

			tg, err := svc.Targets(cmd.Context(), runs, ov)
			if err != nil {
				return err
			}
			return render.New(c.format).Targets(cmd.OutOrStdout(), tg)
		},
	}
	cmd.Flags().IntVar(&runs, "runs", 0, "first innings runs")
	cmd.Flags().Float64Var(&ov, "overs", 20, "first innings overs (x.y)")
	_ = cmd.MarkFlagRequired("runs")
	return cmd
}

// parseMatch reads "Team1,Team2,runs1,overs1,runs2,overs2[,allout1][,allout2]".
// Range checks are left to the projector so they show up as rejections.
func parseMatch(s string) (model.FutureMatch, error) {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < matchFields {
		return model.FutureMatch{}, fmt.Errorf("%w: %q: want %d fields", ErrBadMatch, s, matchFields)
	}

	fm := model.FutureMatch{Team1: parts[0], Team2: parts[1]}
	var err error
	if fm.Runs1, err = strconv.Atoi(parts[2]); err != nil {
		return model.FutureMatch{}, fmt.Errorf("%w: %q: runs1: %w", ErrBadMatch, s, err)
	}
	if fm.Overs1, err = strconv.ParseFloat(parts[3], 64); err != nil {
		return model.FutureMatch{}, fmt.Errorf("%w: %q: overs1: %w", ErrBadMatch, s, err)
	}
	if fm.Runs2, err = strconv.Atoi(parts[4]); err != nil {
		return model.FutureMatch{}, fmt.Errorf("%w: %q: runs2: %w", ErrBadMatch, s, err)
	}
	if fm.Overs2, err = strconv.ParseFloat(parts[5], 64); err != nil {
		return model.FutureMatch{}, fmt.Errorf("%w: %q: overs2: %w", ErrBadMatch, s, err)
	}

	for _, mark := range parts[matchFields:] {
		switch strings.ToLower(mark) {
		case markAllOut1:
			fm.AllOut1 = true
		case markAllOut2:
			fm.AllOut2 = true
		default:
			return model.FutureMatch{}, fmt.Errorf("%w: %q: unknown marker %q", ErrBadMatch, s, mark)
		}
	}
	return fm, nil
}
