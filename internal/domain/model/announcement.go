package model

import "time"

// Announcement is a broadcast message shown until it expires.
type Announcement struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Active reports whether the announcement is still shown at now.
func (a Announcement) Active(now time.Time) bool {
	return now.Before(a.ExpiresAt)
}

// Key is the timestamp key an announcement can be removed by.
func (a Announcement) Key() string {
	return a.CreatedAt.UTC().Format(time.RFC3339Nano)
}
