package service

import (
	"errors"

	"github.com/okian/handicap/internal/domain/fixtures"
	"github.com/okian/handicap/internal/domain/model"
)

// Validation kinds. Operations failing with these leave the document as it was.
var (
	ErrInvalidName    = errors.New("player name must not be empty")
	ErrInvalidTeam    = errors.New("unknown team")
	ErrMaxGames       = errors.New("max games reached")
	ErrInvalidOutcome = model.ErrInvalidOutcome
	ErrInvalidFrames  = errors.New("frames must be non-negative and sum to 4")
	ErrInvalidMessage = errors.New("announcement message must not be empty")
)

// Not-found kinds.
var (
	ErrPlayerNotFound       = errors.New("player not found")
	ErrWeekNotFound         = fixtures.ErrWeekNotFound
	ErrMatchNotFound        = errors.New("match not found")
	ErrNothingToUndo        = errors.New("no results to undo")
	ErrAnnouncementNotFound = errors.New("announcement not found")
)

// ErrNotPersisted is returned by a mutation that was applied in memory but
// could not be saved. The change is visible to later reads of this process.
var ErrNotPersisted = errors.New("change kept in memory only, not saved")
