package repository

import "errors"

// Sentinel kinds for document store errors.
var (
	// ErrPersist reports that no configured store accepted a save.
	ErrPersist = errors.New("document not persisted")
	// ErrLoad reports that no configured store could be read.
	ErrLoad = errors.New("document not loaded")
)
