package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/handicap/internal/domain/model"
	"github.com/okian/handicap/internal/domain/types"
	"github.com/okian/handicap/pkg/logger"
	"github.com/okian/handicap/pkg/metrics"
)

// ResolveTeam returns the configured spelling of team. Empty stays empty.
func (s *Service) ResolveTeam(team string) (string, error) {
	team = strings.TrimSpace(team)
	if team == "" {
		return "", nil
	}
	for _, t := range s.teams {
		if strings.EqualFold(t, team) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTeam, team)
}

// UpsertPlayer adds a player or, when the name matches an existing one
// case-insensitively, updates its start handicap and team. The stored name
// keeps its original casing. An unknown team is cleared.
func (s *Service) UpsertPlayer(ctx context.Context, name string, startHandicap int, team string) (types.PlayerSummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.PlayerSummary{}, ErrInvalidName
	}
	resolved, err := s.ResolveTeam(team)
	if err != nil {
		s.logger.Info(ctx, "clearing unknown team", logger.String("player", name), logger.String("team", team))
	}

	var row types.PlayerSummary
	err = s.mutate(ctx, "upsert_player", func(doc *model.Document) error {
		i := doc.FindPlayer(name)
		if i < 0 {
			doc.Players = append(doc.Players, model.Player{
				Name:          name,
				StartHandicap: startHandicap,
				Team:          resolved,
				Results:       []model.Outcome{},
				Adjustments:   []model.Adjustment{},
			})
			i = len(doc.Players) - 1
		} else {
			doc.Players[i].StartHandicap = startHandicap
			doc.Players[i].Team = resolved
		}
		row = s.summarise(doc.Players[i])
		return nil
	})
	return row, err
}

// DeletePlayer removes a player by name, compared case-insensitively.
func (s *Service) DeletePlayer(ctx context.Context, name string) error {
	return s.mutate(ctx, "delete_player", func(doc *model.Document) error {
		i := doc.FindPlayer(name)
		if i < 0 {
			return fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
		}
		doc.Players = append(doc.Players[:i], doc.Players[i+1:]...)
		return nil
	})
}

// AppendResult records the next game for a player. When the game completes
// a window that fires a new adjustment, an announcement is posted with it.
func (s *Service) AppendResult(ctx context.Context, name string, outcome model.Outcome) (types.ResultChange, error) {
	if !outcome.Valid() {
		return types.ResultChange{}, fmt.Errorf("%w: %q", ErrInvalidOutcome, outcome)
	}

	var change types.ResultChange
	err := s.mutate(ctx, "append_result", func(doc *model.Document) error {
		i := doc.FindPlayer(name)
		if i < 0 {
			return fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
		}
		p := &doc.Players[i]
		if len(p.Results) >= s.maxGames {
			return fmt.Errorf("%w: %s has %d", ErrMaxGames, p.Name, len(p.Results))
		}

		before := s.engine.Evaluate(p.Results)
		p.Results = append(p.Results, outcome)
		after := s.engine.Evaluate(p.Results)

		change.Player = s.summarise(*p)
		if len(after.Events) > len(before.Events) {
			adj := after.Events[len(after.Events)-1]
			a := s.newAnnouncement(adjustmentMessage(p.Name, adj, p.StartHandicap+after.TotalDelta))
			doc.Announcements = append(doc.Announcements, a)
			change.Adjustment = &adj
			change.Announcement = &a
		}
		return nil
	})
	if err != nil && !isNotPersisted(err) {
		return types.ResultChange{}, err
	}

	metrics.RecordResult(string(outcome))
	if change.Adjustment != nil {
		kind := "increase"
		if change.Adjustment.Change < 0 {
			kind = "cut"
		}
		metrics.RecordAdjustment(kind)
		metrics.RecordAnnouncement()
		s.logger.Info(ctx, "handicap adjusted",
			logger.String("player", change.Player.Name),
			logger.Int("game", change.Adjustment.GameIndex),
			logger.Int("change", change.Adjustment.Change),
			logger.Int("handicap", change.Player.CurrentHandicap))
	}
	return change, err
}

func adjustmentMessage(name string, adj model.Adjustment, current int) string {
	if adj.Change < 0 {
		return fmt.Sprintf("%s handicap cut to %d", name, current)
	}
	return fmt.Sprintf("%s handicap increased to %d", name, current)
}

// UndoLastResult removes a player's most recent game. Any announcement
// already posted for it stays.
func (s *Service) UndoLastResult(ctx context.Context, name string) (types.ResultChange, error) {
	var change types.ResultChange
	err := s.mutate(ctx, "undo_result", func(doc *model.Document) error {
		i := doc.FindPlayer(name)
		if i < 0 {
			return fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
		}
		p := &doc.Players[i]
		if len(p.Results) == 0 {
			return fmt.Errorf("%w: %s", ErrNothingToUndo, p.Name)
		}
		p.Results = p.Results[:len(p.Results)-1]
		change.Player = s.summarise(*p)
		return nil
	})
	if err != nil && !isNotPersisted(err) {
		return types.ResultChange{}, err
	}
	metrics.RecordUndo()
	return change, err
}

// RosterSummary returns every player with derived values, ordered by name
// case-insensitively.
func (s *Service) RosterSummary(ctx context.Context) []types.PlayerSummary {
	doc := s.snapshot(ctx)
	rows := make([]types.PlayerSummary, 0, len(doc.Players))
	for _, p := range doc.Players {
		rows = append(rows, s.summarise(p))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
	})
	return rows
}

// Player returns one roster row.
func (s *Service) Player(ctx context.Context, name string) (types.PlayerSummary, error) {
	doc := s.snapshot(ctx)
	i := doc.FindPlayer(name)
	if i < 0 {
		return types.PlayerSummary{}, fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
	}
	return s.summarise(doc.Players[i]), nil
}

// PlayerTimeline lays out a player's season game by game with the windows
// that fired adjustments.
func (s *Service) PlayerTimeline(ctx context.Context, name string) (types.PlayerTimeline, error) {
	doc := s.snapshot(ctx)
	i := doc.FindPlayer(name)
	if i < 0 {
		return types.PlayerTimeline{}, fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
	}
	p := doc.Players[i]
	entries, ev := s.engine.Timeline(p.StartHandicap, p.Results)
	return types.PlayerTimeline{
		Name:            p.Name,
		Team:            p.Team,
		StartHandicap:   p.StartHandicap,
		CurrentHandicap: p.StartHandicap + ev.TotalDelta,
		Entries:         entries,
		Adjustments:     ev.Events,
		LastWindow:      ev.LastWindow,
	}, nil
}

func (s *Service) summarise(p model.Player) types.PlayerSummary {
	return types.NewPlayerSummary(p, s.engine.Summarise(p.Results), s.maxGames)
}
