// Package fixtures holds the read-only season schedule: which teams meet in
// which week and on what date.
package fixtures

import (
	"fmt"
	"sort"

	"github.com/okian/handicap/internal/domain/model"
)

// Table is an immutable fixture list ordered by week.
type Table struct {
	weeks []model.FixtureWeek
	index map[int]int
	teams []string
}

// NewTable validates weeks and returns a Table over a private copy of them.
// Week numbers must be unique and within 1..model.SeasonWeeks; every match
// needs two distinct, non-empty team names.
func NewTable(weeks []model.FixtureWeek) (*Table, error) {
	if len(weeks) == 0 {
		return nil, fmt.Errorf("%w: no weeks", ErrInvalidFixture)
	}

	cp := make([]model.FixtureWeek, len(weeks))
	for i, w := range weeks {
		cp[i] = model.FixtureWeek{Week: w.Week, Date: w.Date, Matches: append([]model.Fixture{}, w.Matches...)}
	}
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Week < cp[j].Week })

	t := &Table{weeks: cp, index: make(map[int]int, len(cp))}
	seen := make(map[string]struct{})
	for i, w := range cp {
		if w.Week < 1 || w.Week > model.SeasonWeeks {
			return nil, fmt.Errorf("%w: week %d outside 1..%d", ErrInvalidFixture, w.Week, model.SeasonWeeks)
		}
		if _, dup := t.index[w.Week]; dup {
			return nil, fmt.Errorf("%w: week %d listed twice", ErrInvalidFixture, w.Week)
		}
		t.index[w.Week] = i
		for j, m := range w.Matches {
			if m.Home == "" || m.Away == "" || m.Home == m.Away {
				return nil, fmt.Errorf("%w: week %d match %d: %q v %q", ErrInvalidFixture, w.Week, j, m.Home, m.Away)
			}
			for _, team := range []string{m.Home, m.Away} {
				if _, ok := seen[team]; !ok {
					seen[team] = struct{}{}
					t.teams = append(t.teams, team)
				}
			}
		}
	}
	return t, nil
}

// Weeks returns the schedule in week order.
func (t *Table) Weeks() []model.FixtureWeek {
	out := make([]model.FixtureWeek, len(t.weeks))
	for i, w := range t.weeks {
		out[i] = model.FixtureWeek{Week: w.Week, Date: w.Date, Matches: append([]model.Fixture{}, w.Matches...)}
	}
	return out
}

// Week returns a single week or ErrWeekNotFound.
func (t *Table) Week(n int) (model.FixtureWeek, error) {
	i, ok := t.index[n]
	if !ok {
		return model.FixtureWeek{}, fmt.Errorf("%w: %d", ErrWeekNotFound, n)
	}
	w := t.weeks[i]
	return model.FixtureWeek{Week: w.Week, Date: w.Date, Matches: append([]model.Fixture{}, w.Matches...)}, nil
}

// Teams lists every team in the order it first appears.
func (t *Table) Teams() []string {
	return append([]string{}, t.teams...)
}

// Len is the number of weeks.
func (t *Table) Len() int { return len(t.weeks) }
