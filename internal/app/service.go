// Package service owns the league document and exposes every roster, result,
// schedule and announcement operation the API and CLI need.
//
// Each mutation runs load, mutate and save under one lock, so a process never
// interleaves two read-modify-write cycles. Across processes sharing a store
// the last save wins. Derived values (current handicaps, the league table)
// are recomputed on every read and never trusted from storage.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/handicap/internal/adapters/repository"
	"github.com/okian/handicap/internal/domain/fixtures"
	"github.com/okian/handicap/internal/domain/handicap"
	"github.com/okian/handicap/internal/domain/model"
	"github.com/okian/handicap/internal/domain/types"
	"github.com/okian/handicap/pkg/logger"
	"github.com/okian/handicap/pkg/metrics"
)

// Service implements the league operations.
type Service struct {
	mu sync.Mutex

	// Core components
	store    repository.DocumentStore
	fixtures *fixtures.Table
	engine   *handicap.Engine
	clock    Clock
	newID    func() string

	// Configuration
	teams           []string
	maxGames        int
	announcementTTL time.Duration

	// State
	doc     *model.Document // last loaded or written document
	loaded  bool            // the store has been read at least once
	unsaved bool            // doc holds changes the store has not accepted
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a Service. Without WithStore the document lives in memory.
func New(opts ...Option) *Service {
	s := &Service{
		engine:          handicap.Default(),
		clock:           ClockFunc(time.Now),
		newID:           uuid.NewString,
		maxGames:        model.MaxGames,
		announcementTTL: 7 * 24 * time.Hour,
		doc:             model.NewDocument(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.NewNop()
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore("memory", repository.WithLogger(s.logger))
	}
	if len(s.teams) == 0 && s.fixtures != nil {
		s.teams = s.fixtures.Teams()
	}
	return s
}

// Start loads the document once so the first request does not pay for it
// and reports the roster gauges.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	doc, err := s.loadLocked(ctx)
	if err != nil {
		s.logger.Warn(ctx, "document not loaded, writes refused until the store answers",
			logger.String("store", s.store.Name()),
			logger.Error(err))
	}
	metrics.UpdateRoster(len(doc.Players), doc.GamesRecorded())

	s.started = true
	s.logger.Info(ctx, "league service started",
		logger.String("store", s.store.Name()),
		logger.Int("players", len(doc.Players)),
		logger.Int("fixtureWeeks", len(s.weeks())),
		logger.Int("maxGames", s.maxGames),
	)
	return nil
}

// Stop marks the service stopped. Nothing is buffered, so there is nothing
// to flush; an unsaved document is reported.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.unsaved {
		s.logger.Warn(ctx, "stopping with changes that were never saved", logger.String("store", s.store.Name()))
	}
	s.started = false
	s.logger.Info(ctx, "league service stopped")
}

// Teams lists the teams a player may belong to.
func (s *Service) Teams() []string {
	return append([]string{}, s.teams...)
}

// MaxGames is the per-player cap on recorded results.
func (s *Service) MaxGames() int { return s.maxGames }

// loadLocked refreshes s.doc from the store and returns it. While changes
// are held only in memory, or when the store cannot be read, the in-memory
// copy is used. Until the store has been read once that copy is only the
// empty default, so the load error is returned alongside it. Callers must
// hold s.mu and must not modify the result.
func (s *Service) loadLocked(ctx context.Context) (*model.Document, error) {
	if s.unsaved {
		return s.doc, nil
	}
	doc, err := s.store.Load(ctx)
	if err != nil {
		if !s.loaded {
			return s.doc, fmt.Errorf("%w: %s: %w", repository.ErrLoad, s.store.Name(), err)
		}
		s.logger.Warn(ctx, "document load failed, using in-memory copy",
			logger.String("store", s.store.Name()),
			logger.Error(err))
		return s.doc, nil
	}
	s.doc = doc
	s.loaded = true
	return doc, nil
}

// snapshot returns the current document for read-only use. A store that
// has never been read yields the empty default document.
func (s *Service) snapshot(ctx context.Context) *model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.loadLocked(ctx)
	if err != nil {
		s.logger.Warn(ctx, "document not loaded, serving empty document", logger.Error(err))
	}
	return doc
}

// mutate applies fn to a copy of the current document and saves it. An
// error from fn discards the copy. A failed save keeps the change in memory
// and returns ErrNotPersisted. Nothing is written while the store has never
// been read, so an outage cannot replace the stored document with a default.
func (s *Service) mutate(ctx context.Context, op string, fn func(doc *model.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadLocked(ctx)
	if err != nil {
		s.logger.Error(ctx, "mutation refused, document never loaded",
			logger.String("op", op),
			logger.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	doc := current.Clone()
	if err := fn(doc); err != nil {
		return err
	}
	s.refreshAdjustments(doc)
	s.doc = doc
	metrics.UpdateRoster(len(doc.Players), doc.GamesRecorded())

	if err := s.store.Save(ctx, doc); err != nil {
		s.unsaved = true
		s.logger.Error(ctx, "document not saved, change kept in memory",
			logger.String("op", op),
			logger.String("store", s.store.Name()),
			logger.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrNotPersisted, op, err)
	}
	s.unsaved = false
	s.logger.Debug(ctx, "document saved", logger.String("op", op))
	return nil
}

// refreshAdjustments rewrites each player's stored adjustment snapshot from
// the engine. The snapshot is for external readers of the document only.
func (s *Service) refreshAdjustments(doc *model.Document) {
	for i := range doc.Players {
		doc.Players[i].Adjustments = s.engine.Evaluate(doc.Players[i].Results).Events
	}
}

func (s *Service) weeks() []model.FixtureWeek {
	if s.fixtures == nil {
		return nil
	}
	return s.fixtures.Weeks()
}

// Stats returns service-wide counters.
func (s *Service) Stats(ctx context.Context) types.Stats {
	doc := s.snapshot(ctx)
	now := s.clock.Now()

	st := types.Stats{
		Players:       len(doc.Players),
		GamesRecorded: doc.GamesRecorded(),
	}
	for _, results := range doc.LeagueResults {
		for _, r := range results {
			if r.Complete() {
				st.MatchesRecorded++
			}
		}
	}
	for _, a := range doc.Announcements {
		if a.Active(now) {
			st.Announcements++
		}
	}
	return st
}
