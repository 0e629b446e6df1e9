package service

import (
	"time"

	"github.com/okian/handicap/internal/adapters/repository"
	"github.com/okian/handicap/internal/domain/fixtures"
	"github.com/okian/handicap/internal/domain/handicap"
	"github.com/okian/handicap/pkg/logger"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the document store.
func WithStore(store repository.DocumentStore) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithFixtures sets the season schedule.
func WithFixtures(t *fixtures.Table) Option {
	return func(s *Service) {
		if t != nil {
			s.fixtures = t
		}
	}
}

// WithEngine sets the handicap engine.
func WithEngine(e *handicap.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithTeams sets the teams a player may belong to. Without it the teams of
// the fixture list are used.
func WithTeams(teams []string) Option {
	return func(s *Service) {
		if len(teams) > 0 {
			s.teams = append([]string{}, teams...)
		}
	}
}

// WithMaxGames caps results per player.
func WithMaxGames(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxGames = n
		}
	}
}

// WithAnnouncementTTL sets how long announcements stay active.
func WithAnnouncementTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.announcementTTL = d
		}
	}
}

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
