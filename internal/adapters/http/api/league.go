package api

import (
	"net/http"

	"github.com/okian/handicap/internal/domain/model"
)

type weekResponse struct {
	model.FixtureWeek
	Results []model.MatchResult `json:"results"`
}

type matchRequest struct {
	HomeFrames *int `json:"home_frames"`
	AwayFrames *int `json:"away_frames"`
}

// handleTable handles GET /table.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.LeagueTable(r.Context()))
}

// handleFixtures handles GET /fixtures.
func (s *Server) handleFixtures(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Fixtures(r.Context()))
}

// handleWeek handles GET /fixtures/{week}.
func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	week, err := pathInt(r, "week")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	fw, err := s.deps.Week(r.Context(), week)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	results, err := s.deps.WeekResults(r.Context(), week)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, weekResponse{FixtureWeek: fw, Results: results})
}

// handleRecordMatch handles PUT /fixtures/{week}/matches/{index}.
func (s *Server) handleRecordMatch(w http.ResponseWriter, r *http.Request) {
	week, err := pathInt(r, "week")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	index, err := pathInt(r, "index")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req matchRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.HomeFrames == nil || req.AwayFrames == nil {
		s.fail(w, r, ErrBadRequest)
		return
	}
	result, err := s.deps.RecordMatchResult(r.Context(), week, index, *req.HomeFrames, *req.AwayFrames)
	s.mutated(w, r, http.StatusOK, result, err)
}

// handleClearMatch handles DELETE /fixtures/{week}/matches/{index}.
func (s *Server) handleClearMatch(w http.ResponseWriter, r *http.Request) {
	week, err := pathInt(r, "week")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	index, err := pathInt(r, "index")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	err = s.deps.ClearMatchResult(r.Context(), week, index)
	s.mutated(w, r, http.StatusOK, nil, err)
}
