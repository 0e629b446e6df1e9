package model

import "time"

// Fixture is one scheduled team match.
type Fixture struct {
	Home string `json:"home" yaml:"home"`
	Away string `json:"away" yaml:"away"`
}

// FixtureWeek is the list of matches played on one date.
type FixtureWeek struct {
	Week    int       `json:"week"`
	Date    time.Time `json:"date"`
	Matches []Fixture `json:"matches"`
}

// MatchResult is the recorded score of a fixture. Both frame counts are nil
// until the match is recorded.
type MatchResult struct {
	Home       string `json:"home"`
	Away       string `json:"away"`
	HomeFrames *int   `json:"home_frames"`
	AwayFrames *int   `json:"away_frames"`
}

// Complete reports whether both frame counts are present.
func (m MatchResult) Complete() bool {
	return m.HomeFrames != nil && m.AwayFrames != nil
}

// Unset returns an unrecorded result for f.
func (f Fixture) Unset() MatchResult {
	return MatchResult{Home: f.Home, Away: f.Away}
}

func (m MatchResult) clone() MatchResult {
	out := m
	if m.HomeFrames != nil {
		v := *m.HomeFrames
		out.HomeFrames = &v
	}
	if m.AwayFrames != nil {
		v := *m.AwayFrames
		out.AwayFrames = &v
	}
	return out
}
