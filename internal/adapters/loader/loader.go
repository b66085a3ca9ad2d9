// Package loader reads ball-by-ball delivery CSV files.
//
// Header names are trimmed before matching. Each row is the running state of
// an innings after one delivery; rows may appear in any order.
package loader

import (
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/okian/nrr/internal/domain/model"
)

// Column names.
const (
	ColMatch       = "Match"
	ColDate        = "Date"
	ColInnings     = "Innings"
	ColOver        = "Over"
	ColBall        = "Actual Ball"
	ColLegal       = "Legal Ball"
	ColBattingTeam = "Batting Team"
	ColBowlingTeam = "Bowling Team"
	ColRuns        = "Team Runs"
	ColWickets     = "Team Wickets"

	colBallAlias = "Ball"
	legalYes     = "Yes"

	// ctxCheckEvery bounds how many rows are read between cancellation checks.
	ctxCheckEvery = 1024
)

var required = []string{
	ColMatch, ColDate, ColInnings, ColOver, ColBall, ColLegal,
	ColBattingTeam, ColBowlingTeam, ColRuns, ColWickets,
}

// Result is a loaded delivery file.
type Result struct {
	Deliveries []model.Delivery
	// Fingerprint is the hex SHA-256 of the raw file bytes.
	Fingerprint string
}

// Load reads and fingerprints the file at path.
func Load(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open deliveries: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	ds, err := Read(ctx, io.TeeReader(f, h))
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	// Drain whatever the csv reader left buffered so the hash covers the file.
	if _, err := io.Copy(h, f); err != nil {
		return Result{}, fmt.Errorf("hash deliveries: %w", err)
	}
	return Result{Deliveries: ds, Fingerprint: hex.EncodeToString(h.Sum(nil))}, nil
}

// Fingerprint returns the hex SHA-256 of the file at path without parsing it.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open deliveries: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash deliveries: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Read parses deliveries from r. Unknown columns are ignored.
func Read(ctx context.Context, r io.Reader) ([]model.Delivery, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrBadRecord, err)
	}
	idx, err := index(header)
	if err != nil {
		return nil, err
	}

	var out []model.Delivery
	for line := 2; ; line++ {
		if line%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrBadRecord, line, err)
		}
		if blank(rec) {
			continue
		}
		d, err := parse(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrBadRecord, line, err)
		}
		out = append(out, d)
	}
}

func index(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	if _, ok := idx[ColBall]; !ok {
		if i, alias := idx[colBallAlias]; alias {
			idx[ColBall] = i
		}
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}
	return idx, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parse(rec []string, idx map[string]int) (model.Delivery, error) {
	field := func(col string) string {
		i := idx[col]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var (
		d   model.Delivery
		err error
	)
	d.Match = field(ColMatch)
	d.Date = field(ColDate)
	d.BattingTeam = field(ColBattingTeam)
	d.BowlingTeam = field(ColBowlingTeam)
	d.Legal = strings.EqualFold(field(ColLegal), legalYes)
	if d.Match == "" || d.BattingTeam == "" || d.BowlingTeam == "" {
		return d, errors.New("match and teams are required")
	}

	ints := []struct {
		col string
		dst *int
	}{
		{ColInnings, &d.Innings},
		{ColOver, &d.Over},
		{ColBall, &d.Ball},
		{ColRuns, &d.Runs},
		{ColWickets, &d.Wickets},
	}
	for _, f := range ints {
		if *f.dst, err = parseInt(field(f.col)); err != nil {
			return d, fmt.Errorf("%s: %w", f.col, err)
		}
	}
	return d, nil
}

// parseInt accepts plain integers and integral floats such as "3.0".
func parseInt(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}
