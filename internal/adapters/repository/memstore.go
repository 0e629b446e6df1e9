package repository

import (
	"context"
	"sync"

	"github.com/okian/handicap/internal/domain/model"
	"github.com/okian/handicap/pkg/logger"
)

// MemoryStore keeps the encoded document in memory. Failures can be
// injected to exercise recovery paths.
type MemoryStore struct {
	mu      sync.Mutex
	name    string
	raw     []byte
	loadErr error
	saveErr error
	saves   int
	log     logger.Logger
}

// NewMemoryStore returns an empty store called name.
func NewMemoryStore(name string, opts ...Option) *MemoryStore {
	o := applyOptions(opts)
	if name == "" {
		name = "memory"
	}
	return &MemoryStore{name: name, log: o.log}
}

// Name implements DocumentStore.
func (s *MemoryStore) Name() string { return s.name }

// Load implements DocumentStore.
func (s *MemoryStore) Load(ctx context.Context) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return Decode(ctx, s.log, s.name, s.raw), nil
}

// Save implements DocumentStore.
func (s *MemoryStore) Save(_ context.Context, doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	raw, err := Encode(doc)
	if err != nil {
		return err
	}
	s.raw = raw
	s.saves++
	return nil
}

// SetFailure makes later Load and Save calls fail with the given errors.
// Nil clears a failure.
func (s *MemoryStore) SetFailure(load, save error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr, s.saveErr = load, save
}

// SetRaw replaces the stored bytes, bypassing encoding.
func (s *MemoryStore) SetRaw(raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = append([]byte(nil), raw...)
}

// Raw returns a copy of the stored bytes.
func (s *MemoryStore) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.raw...)
}

// Saves counts successful saves.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
