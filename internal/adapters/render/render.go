// Package render prints standings, rejections and bonus targets as tables.
package render

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/okian/nrr/internal/domain/types"
)

// Format selects the table encoding.
type Format string

// Supported formats.
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatHTML     Format = "html"
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat maps a flag value onto a Format. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FormatText):
		return FormatText, nil
	case string(FormatMarkdown), "md":
		return FormatMarkdown, nil
	case string(FormatCSV):
		return FormatCSV, nil
	case string(FormatHTML):
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

const targetsTitle = "Bonus point targets"

var standingsHeader = table.Row{
	"#", "Team", "M", "W", "L", "T", "N/R", "BP", "PT", "NRR",
	"Runs For", "Overs For", "Runs Against", "Overs Against",
}

// Renderer writes tables in one format.
type Renderer struct {
	format Format
}

// New returns a Renderer for format.
func New(format Format) *Renderer {
	if format == "" {
		format = FormatText
	}
	return &Renderer{format: format}
}

func (r *Renderer) newWriter() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	return tbl
}

// write renders tbl in the configured format under an optional title.
func (r *Renderer) write(w io.Writer, title string, tbl table.Writer) error {
	var out string
	switch r.format {
	case FormatMarkdown:
		out = tbl.RenderMarkdown()
		if title != "" {
			out = "### " + title + "\n\n" + out
		}
	case FormatCSV:
		out = tbl.RenderCSV()
	case FormatHTML:
		out = tbl.RenderHTML()
		if title != "" {
			out = "<h3>" + html.EscapeString(title) + "</h3>\n" + out
		}
	default:
		if title != "" {
			tbl.SetTitle(title)
		}
		out = tbl.Render()
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}

// Standings writes the North and South tables. CSV output is a single table
// with a leading Group column.
func (r *Renderer) Standings(w io.Writer, s types.Standings) error {
	if r.format == FormatCSV {
		tbl := r.newWriter()
		tbl.AppendHeader(append(table.Row{"Group"}, standingsHeader...))
		for _, g := range []types.Group{s.North, s.South} {
			for _, e := range g.Entries {
				tbl.AppendRow(append(table.Row{g.Name}, entryRow(e)...))
			}
		}
		return r.write(w, "", tbl)
	}

	for i, g := range []types.Group{s.North, s.South} {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Group(w, g); err != nil {
			return err
		}
	}
	return nil
}

// Group writes one group table.
func (r *Renderer) Group(w io.Writer, g types.Group) error {
	tbl := r.newWriter()
	tbl.AppendHeader(standingsHeader)
	for _, e := range g.Entries {
		tbl.AppendRow(entryRow(e))
	}
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 10, Align: text.AlignRight},
	})
	return r.write(w, g.Name+" Group", tbl)
}

func entryRow(e types.Entry) table.Row {
	return table.Row{
		e.Rank, e.Team, e.Played, e.Won, e.Lost, e.Tied, e.NoResult, e.Bonus, e.Points,
		FormatNRR(e.NRR), e.RunsFor, e.OversFor, e.RunsAgainst, e.OversAgainst,
	}
}

// FormatNRR renders a rate with sign and three decimals, "-" when undefined.
func FormatNRR(v *float64) string {
	if v == nil {
		return "-"
	}
	s := strconv.FormatFloat(*v, 'f', 3, 64)
	if *v >= 0 {
		s = "+" + s
	}
	return s
}

// Rejections lists future matches that were not merged. Nothing is written
// when rs is empty.
func (r *Renderer) Rejections(w io.Writer, rs []types.Rejection) error {
	if len(rs) == 0 {
		return nil
	}
	tbl := r.newWriter()
	tbl.AppendHeader(table.Row{"Entry", "Match", "Reason"})
	for _, rj := range rs {
		tbl.AppendRow(table.Row{rj.Index + 1, rj.Match, rj.Reason})
	}
	return r.write(w, "Rejected", tbl)
}

// Targets writes the bonus-point scenarios for a first-innings score. The
// score goes in the caption; text titles wrap to the table width.
func (r *Renderer) Targets(w io.Writer, tg types.Targets) error {
	tbl := r.newWriter()
	tbl.SetCaption(fmt.Sprintf("First innings: %d in %s overs", tg.Runs, tg.Overs))
	tbl.AppendHeader(table.Row{"Scenario", "Runs", "By Overs"})
	tbl.AppendRow(table.Row{"Defend: restrict to", tg.MaxConceded, "-"})
	for _, c := range tg.Chases {
		tbl.AppendRow(table.Row{"Chase", c.Target, c.ByOvers})
	}
	return r.write(w, targetsTitle, tbl)
}
