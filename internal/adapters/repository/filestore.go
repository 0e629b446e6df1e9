package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/handicap/internal/domain/model"
	"github.com/okian/handicap/pkg/logger"
	"github.com/okian/handicap/pkg/metrics"
)

// FileStore keeps the document in a local JSON file.
type FileStore struct {
	path string
	log  logger.Logger
}

// NewFileStore returns a store backed by path. The file need not exist.
func NewFileStore(path string, opts ...Option) *FileStore {
	o := applyOptions(opts)
	return &FileStore{path: path, log: o.log}
}

// Name implements DocumentStore.
func (s *FileStore) Name() string { return "file" }

// Path is the backing file.
func (s *FileStore) Path() string { return s.path }

// Load implements DocumentStore. A missing file is the default document.
func (s *FileStore) Load(ctx context.Context) (*model.Document, error) {
	start := time.Now()
	defer func() {
		metrics.RecordPersistLatency(s.Name(), "load", float64(time.Since(start).Microseconds())/1000)
	}()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.NewDocument(), nil
	}
	if err != nil {
		metrics.RecordPersistFailure(s.Name(), "load")
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return Decode(ctx, s.log, s.Name(), raw), nil
}

// Save implements DocumentStore. The file is replaced atomically: the
// document is written to a temp file in the same directory and renamed.
func (s *FileStore) Save(ctx context.Context, doc *model.Document) error {
	start := time.Now()
	defer func() {
		metrics.RecordPersistLatency(s.Name(), "save", float64(time.Since(start).Microseconds())/1000)
	}()

	if err := s.write(doc); err != nil {
		metrics.RecordPersistFailure(s.Name(), "save")
		return err
	}
	s.log.Debug(ctx, "document saved", logger.String("path", s.path))
	return nil
}

func (s *FileStore) write(doc *model.Document) error {
	raw, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
