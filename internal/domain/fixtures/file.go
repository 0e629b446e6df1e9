package fixtures

import (
	"fmt"
	"os"
	"time"

	"github.com/okian/handicap/internal/domain/model"
	"gopkg.in/yaml.v3"
)

// DateLayout is the layout of week dates in fixture files.
const DateLayout = "2006-01-02"

type fileWeek struct {
	Week    int             `yaml:"week"`
	Date    string          `yaml:"date"`
	Matches []model.Fixture `yaml:"matches"`
}

type fileDoc struct {
	Weeks []fileWeek `yaml:"weeks"`
}

// LoadFile reads a YAML fixture list:
//
//	weeks:
//	  - week: 1
//	    date: 2025-09-04
//	    matches:
//	      - {home: East, away: Premier}
func LoadFile(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFixtures, err)
	}
	return Parse(raw)
}

// Parse decodes a YAML fixture list held in memory.
func Parse(raw []byte) (*Table, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFixtures, err)
	}
	weeks := make([]model.FixtureWeek, 0, len(doc.Weeks))
	for _, w := range doc.Weeks {
		date, err := time.Parse(DateLayout, w.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: week %d date %q: %w", ErrInvalidFixture, w.Week, w.Date, err)
		}
		weeks = append(weeks, model.FixtureWeek{Week: w.Week, Date: date, Matches: w.Matches})
	}
	return NewTable(weeks)
}
