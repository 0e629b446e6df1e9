package repository

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/okian/handicap/internal/domain/model"
	"github.com/okian/handicap/pkg/logger"
)

// FallbackStore writes to a primary store and falls back to a secondary one
// when the primary fails. Once a save has landed only on the secondary,
// loads prefer the secondary until the primary accepts a save again, so a
// stale primary copy is never served over newer local data.
type FallbackStore struct {
	primary         DocumentStore
	secondary       DocumentStore
	log             logger.Logger
	preferSecondary atomic.Bool
}

// NewFallbackStore chains primary and secondary.
func NewFallbackStore(primary, secondary DocumentStore, opts ...Option) *FallbackStore {
	o := applyOptions(opts)
	return &FallbackStore{primary: primary, secondary: secondary, log: o.log}
}

// Name implements DocumentStore.
func (s *FallbackStore) Name() string {
	return s.primary.Name() + "+" + s.secondary.Name()
}

// Load implements DocumentStore.
func (s *FallbackStore) Load(ctx context.Context) (*model.Document, error) {
	first, second := s.primary, s.secondary
	if s.preferSecondary.Load() {
		first, second = second, first
	}
	doc, err := first.Load(ctx)
	if err == nil {
		return doc, nil
	}
	s.log.Warn(ctx, "load failed, trying fallback store",
		logger.String("store", first.Name()),
		logger.String("fallback", second.Name()),
		logger.Error(err))

	doc, err2 := second.Load(ctx)
	if err2 != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, errors.Join(err, err2))
	}
	return doc, nil
}

// Save implements DocumentStore. ErrPersist is returned only when both
// stores fail.
func (s *FallbackStore) Save(ctx context.Context, doc *model.Document) error {
	err := s.primary.Save(ctx, doc)
	if err == nil {
		s.preferSecondary.Store(false)
		return nil
	}
	s.log.Warn(ctx, "save failed, writing fallback store",
		logger.String("store", s.primary.Name()),
		logger.String("fallback", s.secondary.Name()),
		logger.Error(err))

	if err2 := s.secondary.Save(ctx, doc); err2 != nil {
		return fmt.Errorf("%w: %w", ErrPersist, errors.Join(err, err2))
	}
	s.preferSecondary.Store(true)
	return nil
}
