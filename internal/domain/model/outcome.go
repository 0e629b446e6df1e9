// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Outcome is a single game result for a player.
type Outcome string

// Outcomes as stored in the document.
const (
	Win  Outcome = "W"
	Loss Outcome = "L"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	return o == Win || o == Loss
}

// ParseOutcome accepts W/L and win/loss in any case.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w", "win":
		return Win, nil
	case "l", "loss", "lose":
		return Loss, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOutcome, s)
	}
}
