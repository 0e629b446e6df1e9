package fixtures

import (
	"fmt"
	"time"

	"github.com/okian/handicap/internal/domain/model"
)

// Generate builds a repeating round robin over teams using the circle
// method: one team stays fixed while the rest rotate. A full cycle has
// len(teams)-1 weeks (one more with a bye for odd counts). Home and away
// swap on every second cycle. Week n is played start + 7*(n-1) days.
func Generate(teams []string, start time.Time, weeks int) (*Table, error) {
	if weeks <= 0 || weeks > model.SeasonWeeks {
		return nil, fmt.Errorf("%w: weeks must be within 1..%d", ErrInvalidFixture, model.SeasonWeeks)
	}
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: need at least two teams", ErrInvalidFixture)
	}

	slots := append([]string{}, teams...)
	if len(slots)%2 == 1 {
		slots = append(slots, "") // bye
	}
	n := len(slots)
	rounds := n - 1

	out := make([]model.FixtureWeek, 0, weeks)
	for w := 0; w < weeks; w++ {
		cycle, round := w/rounds, w%rounds

		arr := make([]string, n)
		arr[0] = slots[0]
		for k := 1; k < n; k++ {
			arr[k] = slots[1+(k-1+round)%rounds]
		}

		matches := make([]model.Fixture, 0, n/2)
		for i := 0; i < n/2; i++ {
			home, away := arr[i], arr[n-1-i]
			if home == "" || away == "" {
				continue
			}
			// The fixed team alternates venue by round.
			if i == 0 && round%2 == 1 {
				home, away = away, home
			}
			if cycle%2 == 1 {
				home, away = away, home
			}
			matches = append(matches, model.Fixture{Home: home, Away: away})
		}

		out = append(out, model.FixtureWeek{
			Week:    w + 1,
			Date:    start.AddDate(0, 0, 7*w),
			Matches: matches,
		})
	}
	return NewTable(out)
}
