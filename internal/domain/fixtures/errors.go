package fixtures

import "errors"

// Sentinel kinds for fixture errors.
var (
	ErrWeekNotFound   = errors.New("fixture week not found")
	ErrInvalidFixture = errors.New("invalid fixture list")
	ErrLoadFixtures   = errors.New("load fixtures")
)
