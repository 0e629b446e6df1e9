// Package report renders league data as an XLSX workbook.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/okian/handicap/internal/domain/model"
	"github.com/okian/handicap/internal/domain/standings"
	"github.com/okian/handicap/internal/domain/types"
)

// Sheet names in workbook order.
const (
	SheetRoster   = "Roster"
	SheetTable    = "Table"
	SheetFixtures = "Fixtures"
)

const dateLayout = "2006-01-02"

// Data is everything the workbook shows.
type Data struct {
	Roster  []types.PlayerSummary
	Table   []standings.Standing
	Weeks   []model.FixtureWeek
	Results map[int][]model.MatchResult // by week, aligned with Weeks[i].Matches
}

// Build renders d into a new workbook. The caller closes the file.
func Build(d Data) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetRoster); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetTable, SheetFixtures} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("add sheet %s: %w", name, err)
		}
	}

	steps := []func(*excelize.File, Data) error{writeRoster, writeTable, writeFixtures}
	for _, step := range steps {
		if err := step(f, d); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Write renders d and streams the workbook to w.
func Write(w io.Writer, d Data) error {
	f, err := Build(d)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func writeRoster(f *excelize.File, d Data) error {
	rows := [][]any{{"Name", "Team", "Start", "Current", "Played", "Won", "Lost", "Cuts", "Increases", "Net", "Remaining"}}
	for _, p := range d.Roster {
		rows = append(rows, []any{
			p.Name, p.Team, p.StartHandicap, p.CurrentHandicap, p.GamesPlayed,
			p.Wins, p.Losses, p.CutCount, p.IncreaseCount, p.NetChange, p.GamesRemaining,
		})
	}
	return writeRows(f, SheetRoster, rows)
}

func writeTable(f *excelize.File, d Data) error {
	rows := [][]any{{"Pos", "Team", "Played", "Points", "Frames For", "Frames Against", "Diff"}}
	for _, s := range d.Table {
		rows = append(rows, []any{s.Position, s.Team, s.Played, s.Points, s.FramesFor, s.FramesAgainst, s.FrameDiff})
	}
	return writeRows(f, SheetTable, rows)
}

func writeFixtures(f *excelize.File, d Data) error {
	rows := [][]any{{"Week", "Date", "Home", "Away", "Home Frames", "Away Frames"}}
	for _, w := range d.Weeks {
		results := d.Results[w.Week]
		for i, m := range w.Matches {
			row := []any{w.Week, w.Date.Format(dateLayout), m.Home, m.Away, "", ""}
			if i < len(results) && results[i].Complete() {
				row[4], row[5] = *results[i].HomeFrames, *results[i].AwayFrames
			}
			rows = append(rows, row)
		}
	}
	return writeRows(f, SheetFixtures, rows)
}
