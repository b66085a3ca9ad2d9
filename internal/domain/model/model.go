// Package model contains domain models passed between layers.
package model

import "strings"

// matchSeparator splits a match label such as "Yorkshire Women v Durham Women".
const matchSeparator = " v "

// Delivery is one ball-by-ball record as produced by the scorer.
// Runs and Wickets are the batting side's cumulative totals after the delivery.
type Delivery struct {
	Match       string // "TeamA v TeamB"
	Date        string // match date as written by the source
	Innings     int    // 1-based innings number
	Over        int    // 1-based over number
	Ball        int    // ball-in-over, 1..6 (an extra may carry 7+)
	Legal       bool   // counts towards the six-ball quota
	BattingTeam string
	BowlingTeam string
	Runs        int
	Wickets     int
}

// MatchKey identifies one fixture. The date disambiguates repeat meetings.
type MatchKey struct {
	Match string
	Date  string
}

// InningsKey identifies one innings of one fixture.
type InningsKey struct {
	MatchKey
	Innings int
}

// Key returns the innings key of the delivery.
func (d Delivery) Key() InningsKey {
	return InningsKey{MatchKey: MatchKey{Match: d.Match, Date: d.Date}, Innings: d.Innings}
}

// Innings is the closing state of one innings, already corrected for NRR.
type Innings struct {
	InningsKey
	BattingTeam string
	BowlingTeam string
	Runs        int
	Wickets     int
	ActualBalls int  // legal balls actually bowled
	NRRBalls    int  // balls credited for NRR (full quota when all out)
	AllOut      bool
}

// Fixture names a match and its two participants. It is used for matches that
// were scheduled but have no recorded deliveries.
type Fixture struct {
	MatchKey
	Home string
	Away string
}

// SplitMatch returns the two team names of a "TeamA v TeamB" label.
// ok is false when the label has no separator.
func SplitMatch(label string) (home, away string, ok bool) {
	home, away, ok = strings.Cut(label, matchSeparator)
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(home), strings.TrimSpace(away), true
}

// MatchLabel joins two team names into a match label.
func MatchLabel(home, away string) string {
	return home + matchSeparator + away
}

// FutureMatch is a hypothetical result entered for projection. Team1 bats first.
type FutureMatch struct {
	Team1  string  `json:"team1"`
	Team2  string  `json:"team2"`
	Runs1  int     `json:"runs1"`
	Overs1 float64 `json:"overs1"`
	Runs2  int     `json:"runs2"`
	Overs2 float64 `json:"overs2"`
	// AllOut credits the full quota to the side that was bowled out.
	AllOut1 bool `json:"all_out1,omitempty"`
	AllOut2 bool `json:"all_out2,omitempty"`
}

// Totals are a team's season runs and NRR balls for and against.
type Totals struct {
	RunsFor      int
	BallsFor     int
	RunsAgainst  int
	BallsAgainst int
}

// Add returns the sum of t and o.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		RunsFor:      t.RunsFor + o.RunsFor,
		BallsFor:     t.BallsFor + o.BallsFor,
		RunsAgainst:  t.RunsAgainst + o.RunsAgainst,
		BallsAgainst: t.BallsAgainst + o.BallsAgainst,
	}
}

// Record is a team's match results. Bonus holds performance bonus points
// earned in resolved matches; configured bonus points are applied later.
type Record struct {
	Won      int
	Lost     int
	Tied     int
	NoResult int
	Bonus    int
}

// Add returns the sum of r and o.
func (r Record) Add(o Record) Record {
	return Record{
		Won:      r.Won + o.Won,
		Lost:     r.Lost + o.Lost,
		Tied:     r.Tied + o.Tied,
		NoResult: r.NoResult + o.NoResult,
		Bonus:    r.Bonus + o.Bonus,
	}
}

// Played returns W+L+T+N/R.
func (r Record) Played() int {
	return r.Won + r.Lost + r.Tied + r.NoResult
}
