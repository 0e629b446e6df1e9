package standings_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/okian/handicap/internal/domain/model"
	"github.com/okian/handicap/internal/domain/standings"
	. "github.com/smartystreets/goconvey/convey"
)

func frames(home, away int) model.MatchResult {
	return model.MatchResult{HomeFrames: &home, AwayFrames: &away}
}

func played(f model.Fixture, home, away int) model.MatchResult {
	r := frames(home, away)
	r.Home, r.Away = f.Home, f.Away
	return r
}

func twoWeeks() []model.FixtureWeek {
	day := time.Date(2025, 9, 4, 0, 0, 0, 0, time.UTC)
	return []model.FixtureWeek{
		{Week: 1, Date: day, Matches: []model.Fixture{{Home: "East", Away: "Premier"}, {Home: "Shorts", Away: "QE2 A"}}},
		{Week: 2, Date: day.AddDate(0, 0, 7), Matches: []model.Fixture{{Home: "Premier", Away: "Shorts"}, {Home: "QE2 A", Away: "East"}}},
	}
}

func rowFor(table []standings.Standing, team string) standings.Standing {
	for _, r := range table {
		if r.Team == team {
			return r
		}
	}
	return standings.Standing{}
}

func TestComputeTable(t *testing.T) {
	Convey("Given a two-week fixture list", t, func() {
		weeks := twoWeeks()

		Convey("When nothing has been recorded", func() {
			table := standings.ComputeTable(weeks, map[int][]model.MatchResult{})

			Convey("Then every team is listed at zero in fixture order", func() {
				So(len(table), ShouldEqual, 4)
				teams := []string{table[0].Team, table[1].Team, table[2].Team, table[3].Team}
				So(teams, ShouldResemble, []string{"East", "Premier", "Shorts", "QE2 A"})
				for i, row := range table {
					So(row.Position, ShouldEqual, i+1)
					So(row.Played, ShouldEqual, 0)
					So(row.Points, ShouldEqual, 0)
				}
			})
		})

		Convey("When week one is recorded", func() {
			results := map[int][]model.MatchResult{
				1: {played(weeks[0].Matches[0], 3, 1), played(weeks[0].Matches[1], 2, 2)},
			}
			table := standings.ComputeTable(weeks, results)

			Convey("Then frames become points for both sides", func() {
				So(table[0], ShouldResemble, standings.Standing{
					Position: 1, Team: "East", Played: 1, Points: 3, FramesFor: 3, FramesAgainst: 1, FrameDiff: 2,
				})
				So(rowFor(table, "Premier").Points, ShouldEqual, 1)
				So(rowFor(table, "Premier").FrameDiff, ShouldEqual, -2)
				So(rowFor(table, "Shorts").Points, ShouldEqual, 2)
				So(rowFor(table, "QE2 A").Played, ShouldEqual, 1)
			})

			Convey("Then drawn teams keep fixture order behind the leader", func() {
				So(table[1].Team, ShouldEqual, "Shorts")
				So(table[2].Team, ShouldEqual, "QE2 A")
				So(table[3].Team, ShouldEqual, "Premier")
			})
		})

		Convey("When a result is only partly set", func() {
			partial := model.MatchResult{Home: "East", Away: "Premier", HomeFrames: new(int)}
			table := standings.ComputeTable(weeks, map[int][]model.MatchResult{1: {partial}})

			Convey("Then it does not count as played", func() {
				So(rowFor(table, "East").Played, ShouldEqual, 0)
				So(rowFor(table, "Premier").Played, ShouldEqual, 0)
			})
		})

		Convey("When results name unknown teams or weeks", func() {
			stray := frames(4, 0)
			stray.Home, stray.Away = "Ghosts", "East"
			table := standings.ComputeTable(weeks, map[int][]model.MatchResult{
				1:  {stray},
				99: {played(weeks[0].Matches[0], 4, 0)},
			})

			Convey("Then they are ignored", func() {
				So(len(table), ShouldEqual, 4)
				So(rowFor(table, "East").Played, ShouldEqual, 0)
			})
		})

		Convey("When points tie across a different number of games", func() {
			// Everyone ends on 3 points. Premier and Shorts did it in one
			// match (+2), East and QE2 A in two (-2).
			results := map[int][]model.MatchResult{
				1: {played(weeks[0].Matches[0], 1, 3), played(weeks[0].Matches[1], 3, 1)},
				2: {weeks[1].Matches[0].Unset(), played(weeks[1].Matches[1], 2, 2)},
			}
			table := standings.ComputeTable(weeks, results)

			Convey("Then frame difference breaks the tie and fixture order settles the rest", func() {
				for _, row := range table {
					So(row.Points, ShouldEqual, 3)
				}
				So(table[0].Team, ShouldEqual, "Premier")
				So(table[1].Team, ShouldEqual, "Shorts")
				So(table[2].Team, ShouldEqual, "East")
				So(table[3].Team, ShouldEqual, "QE2 A")
				So(table[2].FrameDiff, ShouldEqual, -2)
			})
		})
	})
}

func TestComputeTable_Properties(t *testing.T) {
	Convey("Given randomly recorded weeks", t, func() {
		faker := gofakeit.New(28)
		weeks := twoWeeks()
		results := map[int][]model.MatchResult{}
		for _, w := range weeks {
			for _, m := range w.Matches {
				if faker.Bool() {
					results[w.Week] = append(results[w.Week], m.Unset())
					continue
				}
				home := faker.IntRange(0, model.FramesPerMatch)
				results[w.Week] = append(results[w.Week], played(m, home, model.FramesPerMatch-home))
			}
		}
		table := standings.ComputeTable(weeks, results)

		Convey("Then diff and points follow from frames", func() {
			totalFor, totalAgainst := 0, 0
			for _, row := range table {
				So(row.FrameDiff, ShouldEqual, row.FramesFor-row.FramesAgainst)
				So(row.Points, ShouldEqual, row.FramesFor)
				So(row.FramesFor+row.FramesAgainst, ShouldEqual, row.Played*model.FramesPerMatch)
				totalFor += row.FramesFor
				totalAgainst += row.FramesAgainst
			}
			So(totalFor, ShouldEqual, totalAgainst)
		})

		Convey("Then rows are sorted by points, diff, frames for", func() {
			for i := 1; i < len(table); i++ {
				a, b := table[i-1], table[i]
				So(a.Points >= b.Points, ShouldBeTrue)
				if a.Points == b.Points {
					So(a.FrameDiff >= b.FrameDiff, ShouldBeTrue)
				}
			}
		})
	})
}
