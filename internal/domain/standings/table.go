// Package standings folds recorded team match scores into the league table.
//
// Scoring is frames-as-points: every frame a team wins is one league point.
package standings

import (
	"sort"

	"github.com/okian/handicap/internal/domain/model"
)

// Standing is one row of the league table.
type Standing struct {
	Position      int    `json:"position"`
	Team          string `json:"team"`
	Played        int    `json:"played"`
	Points        int    `json:"points"`
	FramesFor     int    `json:"frames_for"`
	FramesAgainst int    `json:"frames_against"`
	FrameDiff     int    `json:"frame_diff"`
}

// ComputeTable ranks every team that appears in weeks. Only complete results
// count; results naming a team outside the fixture list are ignored. Rows
// tied on points, frame difference and frames for keep fixture-list order.
func ComputeTable(weeks []model.FixtureWeek, results map[int][]model.MatchResult) []Standing {
	index := make(map[string]*Standing)
	ordered := make([]*Standing, 0)
	for _, w := range weeks {
		for _, m := range w.Matches {
			for _, team := range []string{m.Home, m.Away} {
				if _, ok := index[team]; ok {
					continue
				}
				row := &Standing{Team: team}
				index[team] = row
				ordered = append(ordered, row)
			}
		}
	}

	// Iterate weeks in fixture order so the fold does not depend on map order.
	for _, w := range weeks {
		for _, r := range results[w.Week] {
			if !r.Complete() {
				continue
			}
			home, away := index[r.Home], index[r.Away]
			if home == nil || away == nil {
				continue
			}
			hf, af := *r.HomeFrames, *r.AwayFrames

			home.Played++
			away.Played++
			home.FramesFor += hf
			home.FramesAgainst += af
			away.FramesFor += af
			away.FramesAgainst += hf
			home.Points += hf
			away.Points += af
		}
	}

	for _, row := range ordered {
		row.FrameDiff = row.FramesFor - row.FramesAgainst
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.FrameDiff != b.FrameDiff {
			return a.FrameDiff > b.FrameDiff
		}
		return a.FramesFor > b.FramesFor
	})

	table := make([]Standing, len(ordered))
	for i, row := range ordered {
		row.Position = i + 1
		table[i] = *row
	}
	return table
}
