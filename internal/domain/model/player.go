package model

import "strings"

// Season-wide limits.
const (
	// MaxGames is the number of games a player can record in one season.
	MaxGames = 28
	// FramesPerMatch is the frames played in a team match; frames won are points.
	FramesPerMatch = 4
	// SeasonWeeks is the number of fixture weeks in a season.
	SeasonWeeks = 28
)

// Adjustment is a handicap change fired by a completed rolling window.
type Adjustment struct {
	GameIndex int `json:"game_index"` // zero-based index of the game closing the window
	Change    int `json:"change"`     // -7 cut, +7 increase
}

// Player is a roster entry with its raw result log.
type Player struct {
	Name          string    `json:"name"`
	StartHandicap int       `json:"start_handicap"`
	Team          string    `json:"team"`
	Results       []Outcome `json:"results"`
	// Adjustments is rewritten from Results on every save so external readers
	// of the document see it; it is never read back as authoritative.
	Adjustments []Adjustment `json:"adjustments"`
}

// SameName compares player names case-insensitively.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// normalize fills fields missing from documents written by older versions.
func (p *Player) normalize() {
	if p.Results == nil {
		p.Results = []Outcome{}
	}
	if p.Adjustments == nil {
		p.Adjustments = []Adjustment{}
	}
}

func (p Player) clone() Player {
	out := p
	out.Results = append([]Outcome{}, p.Results...)
	out.Adjustments = append([]Adjustment{}, p.Adjustments...)
	return out
}
