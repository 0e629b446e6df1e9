package model_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/okian/handicap/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseOutcome(t *testing.T) {
	Convey("Given outcome strings", t, func() {
		cases := []struct {
			in   string
			want model.Outcome
		}{
			{"W", model.Win}, {"w", model.Win}, {" Win ", model.Win},
			{"L", model.Loss}, {"loss", model.Loss}, {"LOSE", model.Loss},
		}
		for _, tc := range cases {
			got, err := model.ParseOutcome(tc.in)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, tc.want)
			So(got.Valid(), ShouldBeTrue)
		}

		Convey("When the string is not an outcome", func() {
			_, err := model.ParseOutcome("draw")
			So(errors.Is(err, model.ErrInvalidOutcome), ShouldBeTrue)
			So(model.Outcome("D").Valid(), ShouldBeFalse)
		})
	})
}

func TestDocument(t *testing.T) {
	Convey("Given a document decoded from an older version", t, func() {
		var doc model.Document
		So(json.Unmarshal([]byte(`{"players":[{"name":"Ann","start_handicap":-7}]}`), &doc), ShouldBeNil)
		doc.Normalize()

		Convey("Then missing collections are filled", func() {
			So(doc.Announcements, ShouldNotBeNil)
			So(doc.LeagueResults, ShouldNotBeNil)
			So(doc.Players[0].Results, ShouldNotBeNil)
			So(doc.Players[0].Adjustments, ShouldNotBeNil)
		})

		Convey("Then players are found case-insensitively", func() {
			So(doc.FindPlayer(" ann "), ShouldEqual, 0)
			So(doc.FindPlayer("bob"), ShouldEqual, -1)
		})
	})

	Convey("Given a populated document", t, func() {
		three, one := 3, 1
		doc := model.NewDocument()
		doc.Players = append(doc.Players, model.Player{Name: "Ann", Results: []model.Outcome{model.Win, model.Loss}})
		doc.Players = append(doc.Players, model.Player{Name: "Bob", Results: []model.Outcome{model.Win}})
		doc.LeagueResults[1] = []model.MatchResult{{Home: "East", Away: "Shorts", HomeFrames: &three, AwayFrames: &one}}

		Convey("When it is cloned and the clone is mutated", func() {
			cp := doc.Clone()
			cp.Players[0].Results[0] = model.Loss
			cp.Players[0].Name = "Changed"
			*cp.LeagueResults[1][0].HomeFrames = 0
			cp.LeagueResults[2] = nil

			Convey("Then the original is untouched", func() {
				So(doc.Players[0].Results[0], ShouldEqual, model.Win)
				So(doc.Players[0].Name, ShouldEqual, "Ann")
				So(*doc.LeagueResults[1][0].HomeFrames, ShouldEqual, 3)
				So(len(doc.LeagueResults), ShouldEqual, 1)
			})
		})

		Convey("Then games are counted across players", func() {
			So(doc.GamesRecorded(), ShouldEqual, 3)
		})
	})
}

func TestAnnouncement(t *testing.T) {
	Convey("Given an announcement", t, func() {
		created := time.Date(2025, 9, 4, 19, 30, 0, 123456789, time.FixedZone("BST", 3600))
		a := model.Announcement{ID: "a1", Message: "Fixtures moved", CreatedAt: created, ExpiresAt: created.Add(7 * 24 * time.Hour)}

		Convey("Then it is active until it expires", func() {
			So(a.Active(created), ShouldBeTrue)
			So(a.Active(a.ExpiresAt.Add(-time.Nanosecond)), ShouldBeTrue)
			So(a.Active(a.ExpiresAt), ShouldBeFalse)
		})

		Convey("Then its key is the UTC creation time", func() {
			So(a.Key(), ShouldEqual, "2025-09-04T18:30:00.123456789Z")
		})
	})
}

func TestMatchResult(t *testing.T) {
	Convey("Given an unset fixture result", t, func() {
		r := model.Fixture{Home: "East", Away: "Premier"}.Unset()
		So(r.Complete(), ShouldBeFalse)
		So(r.Home, ShouldEqual, "East")

		Convey("When only one side is set", func() {
			n := 2
			r.HomeFrames = &n
			So(r.Complete(), ShouldBeFalse)

			r.AwayFrames = &n
			So(r.Complete(), ShouldBeTrue)
		})
	})
}
