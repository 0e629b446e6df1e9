// Package types contains read models served to callers of the application layer.
package types

import (
	"github.com/okian/handicap/internal/domain/handicap"
	"github.com/okian/handicap/internal/domain/model"
)

// PlayerSummary is one roster row with every derived value recomputed.
type PlayerSummary struct {
	Name            string `json:"name"`
	Team            string `json:"team"`
	StartHandicap   int    `json:"start_handicap"`
	CurrentHandicap int    `json:"current_handicap"`
	GamesPlayed     int    `json:"games_played"`
	GamesRemaining  int    `json:"games_remaining"`
	Wins            int    `json:"wins"`
	Losses          int    `json:"losses"`
	CutCount        int    `json:"cut_count"`
	IncreaseCount   int    `json:"increase_count"`
	NetChange       int    `json:"net_change"`
}

// NewPlayerSummary combines a roster entry with its engine summary.
func NewPlayerSummary(p model.Player, s handicap.Summary, maxGames int) PlayerSummary {
	remaining := maxGames - s.Games
	if remaining < 0 {
		remaining = 0
	}
	return PlayerSummary{
		Name:            p.Name,
		Team:            p.Team,
		StartHandicap:   p.StartHandicap,
		CurrentHandicap: p.StartHandicap + s.NetChange,
		GamesPlayed:     s.Games,
		GamesRemaining:  remaining,
		Wins:            s.Wins,
		Losses:          s.Losses,
		CutCount:        s.Cuts,
		IncreaseCount:   s.Increases,
		NetChange:       s.NetChange,
	}
}

// PlayerTimeline is the per-game history of one player.
type PlayerTimeline struct {
	Name            string                   `json:"name"`
	Team            string                   `json:"team"`
	StartHandicap   int                      `json:"start_handicap"`
	CurrentHandicap int                      `json:"current_handicap"`
	Entries         []handicap.TimelineEntry `json:"entries"`
	Adjustments     []model.Adjustment       `json:"adjustments"`
	LastWindow      *handicap.Window         `json:"last_window,omitempty"`
}

// Stats is the service-wide counter snapshot.
type Stats struct {
	Players         int `json:"players"`
	GamesRecorded   int `json:"games_recorded"`
	MatchesRecorded int `json:"matches_recorded"`
	Announcements   int `json:"active_announcements"`
}

// ResultChange is the outcome of appending or undoing a game.
type ResultChange struct {
	Player PlayerSummary `json:"player"`
	// Adjustment is set when the appended game fired a new cut or increase.
	Adjustment *model.Adjustment `json:"adjustment,omitempty"`
	// Announcement is the broadcast created for Adjustment.
	Announcement *model.Announcement `json:"announcement,omitempty"`
}
