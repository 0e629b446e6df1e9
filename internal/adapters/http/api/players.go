package api

import (
	"net/http"

	"github.com/okian/handicap/internal/domain/model"
)

type upsertPlayerRequest struct {
	Name          string `json:"name"`
	StartHandicap int    `json:"start_handicap"`
	Team          string `json:"team"`
}

type resultRequest struct {
	Outcome string `json:"outcome"`
}

// handleListPlayers handles GET /players.
func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.RosterSummary(r.Context()))
}

// handleTimeline handles GET /players/{name}/timeline.
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	tl, err := s.deps.PlayerTimeline(r.Context(), pathString(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tl)
}

// handleUpsertPlayer handles PUT /players.
func (s *Server) handleUpsertPlayer(w http.ResponseWriter, r *http.Request) {
	var req upsertPlayerRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	row, err := s.deps.UpsertPlayer(r.Context(), req.Name, req.StartHandicap, req.Team)
	s.mutated(w, r, http.StatusOK, row, err)
}

// handleDeletePlayer handles DELETE /players/{name}.
func (s *Server) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	err := s.deps.DeletePlayer(r.Context(), pathString(r, "name"))
	s.mutated(w, r, http.StatusOK, nil, err)
}

// handleAppendResult handles POST /players/{name}/results.
func (s *Server) handleAppendResult(w http.ResponseWriter, r *http.Request) {
	var req resultRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	outcome, err := model.ParseOutcome(req.Outcome)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	change, err := s.deps.AppendResult(r.Context(), pathString(r, "name"), outcome)
	s.mutated(w, r, http.StatusCreated, change, err)
}

// handleUndoResult handles DELETE /players/{name}/results/last.
func (s *Server) handleUndoResult(w http.ResponseWriter, r *http.Request) {
	change, err := s.deps.UndoLastResult(r.Context(), pathString(r, "name"))
	s.mutated(w, r, http.StatusOK, change, err)
}
