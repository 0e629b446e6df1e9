package service

import (
	"context"
	"fmt"

	"github.com/okian/handicap/internal/domain/model"
	"github.com/okian/handicap/internal/domain/standings"
	"github.com/okian/handicap/pkg/logger"
	"github.com/okian/handicap/pkg/metrics"
)

// Fixtures returns the season schedule.
func (s *Service) Fixtures(_ context.Context) []model.FixtureWeek {
	return s.weeks()
}

// Week returns one fixture week.
func (s *Service) Week(_ context.Context, week int) (model.FixtureWeek, error) {
	if s.fixtures == nil {
		return model.FixtureWeek{}, fmt.Errorf("%w: %d", ErrWeekNotFound, week)
	}
	return s.fixtures.Week(week)
}

// WeekResults returns one result per fixture of week, unset where nothing
// has been recorded.
func (s *Service) WeekResults(ctx context.Context, week int) ([]model.MatchResult, error) {
	fw, err := s.Week(ctx, week)
	if err != nil {
		return nil, err
	}
	doc := s.snapshot(ctx)
	return weekResults(fw, doc.LeagueResults[week]), nil
}

// weekResults aligns stored results with the fixtures of fw. Home and away
// always come from the fixture.
func weekResults(fw model.FixtureWeek, stored []model.MatchResult) []model.MatchResult {
	out := make([]model.MatchResult, len(fw.Matches))
	for i, m := range fw.Matches {
		out[i] = m.Unset()
		if i < len(stored) && stored[i].Complete() {
			h, a := *stored[i].HomeFrames, *stored[i].AwayFrames
			out[i].HomeFrames, out[i].AwayFrames = &h, &a
		}
	}
	return out
}

// SeasonResults returns WeekResults for every fixture week, keyed by week.
func (s *Service) SeasonResults(ctx context.Context) map[int][]model.MatchResult {
	doc := s.snapshot(ctx)
	weeks := s.weeks()
	out := make(map[int][]model.MatchResult, len(weeks))
	for _, fw := range weeks {
		out[fw.Week] = weekResults(fw, doc.LeagueResults[fw.Week])
	}
	return out
}

// RecordMatchResult stores the frame score of one fixture. Frames must be
// non-negative and add up to the frames in a match.
func (s *Service) RecordMatchResult(ctx context.Context, week, match, homeFrames, awayFrames int) (model.MatchResult, error) {
	fw, err := s.Week(ctx, week)
	if err != nil {
		return model.MatchResult{}, err
	}
	if match < 0 || match >= len(fw.Matches) {
		return model.MatchResult{}, fmt.Errorf("%w: week %d match %d", ErrMatchNotFound, week, match)
	}
	if homeFrames < 0 || awayFrames < 0 || homeFrames+awayFrames != model.FramesPerMatch {
		return model.MatchResult{}, fmt.Errorf("%w: got %d-%d", ErrInvalidFrames, homeFrames, awayFrames)
	}

	result := fw.Matches[match].Unset()
	result.HomeFrames, result.AwayFrames = &homeFrames, &awayFrames

	err = s.mutate(ctx, "record_match", func(doc *model.Document) error {
		results := weekResults(fw, doc.LeagueResults[week])
		results[match] = result
		doc.LeagueResults[week] = results
		return nil
	})
	if err == nil || isNotPersisted(err) {
		metrics.RecordMatchResult()
		s.logger.Info(ctx, "match result recorded",
			logger.Int("week", week),
			logger.String("home", result.Home),
			logger.String("away", result.Away),
			logger.Int("homeFrames", homeFrames),
			logger.Int("awayFrames", awayFrames))
	}
	return result, err
}

// ClearMatchResult returns one fixture to unrecorded.
func (s *Service) ClearMatchResult(ctx context.Context, week, match int) error {
	fw, err := s.Week(ctx, week)
	if err != nil {
		return err
	}
	if match < 0 || match >= len(fw.Matches) {
		return fmt.Errorf("%w: week %d match %d", ErrMatchNotFound, week, match)
	}
	return s.mutate(ctx, "clear_match", func(doc *model.Document) error {
		results := weekResults(fw, doc.LeagueResults[week])
		results[match] = fw.Matches[match].Unset()
		doc.LeagueResults[week] = results
		return nil
	})
}

// LeagueTable ranks the teams of the fixture list from recorded results.
func (s *Service) LeagueTable(ctx context.Context) []standings.Standing {
	doc := s.snapshot(ctx)
	return standings.ComputeTable(s.weeks(), doc.LeagueResults)
}
