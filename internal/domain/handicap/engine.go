// Package handicap turns a player's win/loss log into handicap adjustments.
//
// The rule: once four games exist, the trailing four-game window is inspected
// after each game. Three or more wins cut the handicap by 7, three or more
// losses raise it by 7, a 2-2 split does nothing. After a trigger at game i
// the next evaluation happens at game i+4, so the four games after a trigger
// must all be fresh before another adjustment can fire.
package handicap

import (
	"github.com/okian/handicap/internal/domain/model"
)

// Default rule parameters.
const (
	WindowSize = 4
	Threshold  = 3
	Step       = 7
	Cooldown   = 4
)

// Window is an inclusive range of game indexes.
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether game index i lies in w.
func (w Window) Contains(i int) bool {
	return i >= w.Start && i <= w.End
}

// Evaluation is the derived adjustment state of a result log.
type Evaluation struct {
	Events     []model.Adjustment
	Windows    []Window // triggering window of each event, same order
	TotalDelta int
	// LastWindow is the most recent triggering window, nil when nothing fired.
	LastWindow *Window
}

// Engine evaluates result logs. The zero value is not usable; use New.
type Engine struct {
	window    int
	threshold int
	step      int
	cooldown  int
}

// New creates an engine with the league rule, adjusted by opts.
func New(opts ...Option) *Engine {
	e := &Engine{
		window:    WindowSize,
		threshold: Threshold,
		step:      Step,
		cooldown:  Cooldown,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = New()

// Default returns the engine with the league rule.
func Default() *Engine { return defaultEngine }

// Evaluate scans results left to right and returns every adjustment fired.
func (e *Engine) Evaluate(results []model.Outcome) Evaluation {
	ev := Evaluation{
		Events:  []model.Adjustment{},
		Windows: []Window{},
	}
	lockedUntil := -1
	for i := e.window - 1; i < len(results); i++ {
		if i < lockedUntil {
			continue
		}
		wins, losses := count(results[i-e.window+1 : i+1])

		var change int
		switch {
		case wins >= e.threshold:
			change = -e.step
		case losses >= e.threshold:
			change = e.step
		default:
			continue
		}

		w := Window{Start: i - e.window + 1, End: i}
		ev.Events = append(ev.Events, model.Adjustment{GameIndex: i, Change: change})
		ev.Windows = append(ev.Windows, w)
		ev.TotalDelta += change
		ev.LastWindow = &w
		lockedUntil = i + e.cooldown
	}
	return ev
}

// CurrentHandicap is start plus every adjustment fired by results.
func (e *Engine) CurrentHandicap(start int, results []model.Outcome) int {
	return start + e.Evaluate(results).TotalDelta
}

// Evaluate runs the league rule.
func Evaluate(results []model.Outcome) Evaluation {
	return defaultEngine.Evaluate(results)
}

// CurrentHandicap runs the league rule and applies it to start.
func CurrentHandicap(start int, results []model.Outcome) int {
	return defaultEngine.CurrentHandicap(start, results)
}

func count(window []model.Outcome) (wins, losses int) {
	for _, o := range window {
		switch o {
		case model.Win:
			wins++
		case model.Loss:
			losses++
		}
	}
	return wins, losses
}
