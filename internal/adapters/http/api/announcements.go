package api

import (
	"net/http"

	"github.com/okian/handicap/internal/domain/model"
)

type announcementsResponse struct {
	Banner        string               `json:"banner"`
	Announcements []model.Announcement `json:"announcements"`
}

type announcementRequest struct {
	Message string `json:"message"`
}

type bannerRequest struct {
	Text string `json:"text"`
}

// handleAnnouncements handles GET /announcements.
func (s *Server) handleAnnouncements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, announcementsResponse{
		Banner:        s.deps.Banner(r.Context()),
		Announcements: s.deps.ActiveAnnouncements(r.Context()),
	})
}

// handlePostAnnouncement handles POST /announcements.
func (s *Server) handlePostAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req announcementRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	a, err := s.deps.PostAnnouncement(r.Context(), req.Message)
	s.mutated(w, r, http.StatusCreated, a, err)
}

// handleRemoveAnnouncement handles DELETE /announcements/{key}. The key is
// an announcement id or its created_at timestamp.
func (s *Server) handleRemoveAnnouncement(w http.ResponseWriter, r *http.Request) {
	err := s.deps.RemoveAnnouncement(r.Context(), pathString(r, "key"))
	s.mutated(w, r, http.StatusOK, nil, err)
}

// handleSetBanner handles PUT /banner.
func (s *Server) handleSetBanner(w http.ResponseWriter, r *http.Request) {
	var req bannerRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	err := s.deps.SetBanner(r.Context(), req.Text)
	s.mutated(w, r, http.StatusOK, bannerRequest{Text: req.Text}, err)
}
