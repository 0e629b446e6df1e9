// Package repository persists the league document.
//
// The whole document is read and written as one JSON value. Stores never
// merge: the last Save wins.
package repository

import (
	"context"

	"github.com/okian/handicap/internal/domain/model"
)

// DocumentStore loads and saves the league document.
type DocumentStore interface {
	// Load returns the stored document, or the default document when
	// nothing has been saved yet. A malformed stored value also yields the
	// default document rather than an error.
	Load(ctx context.Context) (*model.Document, error)
	// Save replaces the stored document.
	Save(ctx context.Context, doc *model.Document) error
	// Name identifies the store in logs and metrics.
	Name() string
}
