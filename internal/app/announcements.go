package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/okian/handicap/internal/domain/model"
	"github.com/okian/handicap/pkg/metrics"
)

func (s *Service) newAnnouncement(message string) model.Announcement {
	now := s.clock.Now().UTC()
	return model.Announcement{
		ID:        s.newID(),
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(s.announcementTTL),
	}
}

// PostAnnouncement adds a broadcast message. Expired announcements are
// dropped from the document at the same time.
func (s *Service) PostAnnouncement(ctx context.Context, message string) (model.Announcement, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return model.Announcement{}, ErrInvalidMessage
	}
	a := s.newAnnouncement(message)
	err := s.mutate(ctx, "post_announcement", func(doc *model.Document) error {
		kept := doc.Announcements[:0]
		for _, old := range doc.Announcements {
			if old.Active(a.CreatedAt) {
				kept = append(kept, old)
			}
		}
		doc.Announcements = append(kept, a)
		return nil
	})
	if err != nil && !isNotPersisted(err) {
		return model.Announcement{}, err
	}
	metrics.RecordAnnouncement()
	return a, err
}

// ActiveAnnouncements returns unexpired announcements, newest first.
func (s *Service) ActiveAnnouncements(ctx context.Context) []model.Announcement {
	doc := s.snapshot(ctx)
	now := s.clock.Now()
	out := make([]model.Announcement, 0, len(doc.Announcements))
	for _, a := range doc.Announcements {
		if a.Active(now) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// RemoveAnnouncement deletes an announcement by id or by its creation
// timestamp in RFC 3339 form.
func (s *Service) RemoveAnnouncement(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	at, tsErr := time.Parse(time.RFC3339Nano, key)
	return s.mutate(ctx, "remove_announcement", func(doc *model.Document) error {
		for i, a := range doc.Announcements {
			if a.ID == key || (tsErr == nil && a.CreatedAt.Equal(at)) {
				doc.Announcements = append(doc.Announcements[:i], doc.Announcements[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: %q", ErrAnnouncementNotFound, key)
	})
}

// SetBanner replaces the single-slot banner text. Empty clears it.
func (s *Service) SetBanner(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	return s.mutate(ctx, "set_banner", func(doc *model.Document) error {
		doc.Announcement = text
		return nil
	})
}

// Banner returns the single-slot banner text.
func (s *Service) Banner(ctx context.Context) string {
	return s.snapshot(ctx).Announcement
}

func isNotPersisted(err error) bool {
	return errors.Is(err, ErrNotPersisted)
}
