package handicap

import "github.com/okian/handicap/internal/domain/model"

// Summary aggregates a player's log for the roster view.
type Summary struct {
	Games     int `json:"games_played"`
	Wins      int `json:"wins"`
	Losses    int `json:"losses"`
	Cuts      int `json:"cut_count"`
	Increases int `json:"increase_count"`
	NetChange int `json:"net_change"`
}

// Summarise counts results and adjustments.
func (e *Engine) Summarise(results []model.Outcome) Summary {
	ev := e.Evaluate(results)
	wins, losses := count(results)
	s := Summary{
		Games:     len(results),
		Wins:      wins,
		Losses:    losses,
		NetChange: ev.TotalDelta,
	}
	for _, adj := range ev.Events {
		if adj.Change < 0 {
			s.Cuts++
		} else {
			s.Increases++
		}
	}
	return s
}

// TimelineEntry is one game in a player's season with the handicap in force
// after it.
type TimelineEntry struct {
	Game     int           `json:"game"` // zero-based
	Outcome  model.Outcome `json:"outcome"`
	Change   int           `json:"change"` // adjustment fired by this game, 0 if none
	Handicap int           `json:"handicap"`
	// InWindow marks games belonging to any triggering window.
	InWindow bool `json:"in_window"`
	// InLastWindow marks games of the most recent triggering window.
	InLastWindow bool `json:"in_last_window"`
}

// Timeline lays the log out game by game for display.
func (e *Engine) Timeline(start int, results []model.Outcome) ([]TimelineEntry, Evaluation) {
	ev := e.Evaluate(results)
	changes := make(map[int]int, len(ev.Events))
	for _, adj := range ev.Events {
		changes[adj.GameIndex] = adj.Change
	}

	out := make([]TimelineEntry, len(results))
	current := start
	for i, o := range results {
		current += changes[i]
		entry := TimelineEntry{
			Game:     i,
			Outcome:  o,
			Change:   changes[i],
			Handicap: current,
		}
		for _, w := range ev.Windows {
			if w.Contains(i) {
				entry.InWindow = true
				break
			}
		}
		if ev.LastWindow != nil && ev.LastWindow.Contains(i) {
			entry.InLastWindow = true
		}
		out[i] = entry
	}
	return out, ev
}
