// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okian/handicap/internal/adapters/repository"
	service "github.com/okian/handicap/internal/app"
	"github.com/okian/handicap/internal/domain/dedupe"
	"github.com/okian/handicap/internal/domain/model"
	"github.com/okian/handicap/internal/domain/standings"
	"github.com/okian/handicap/internal/domain/types"
	"github.com/okian/handicap/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	UpsertPlayer(ctx context.Context, name string, startHandicap int, team string) (types.PlayerSummary, error)
	DeletePlayer(ctx context.Context, name string) error
	AppendResult(ctx context.Context, name string, outcome model.Outcome) (types.ResultChange, error)
	UndoLastResult(ctx context.Context, name string) (types.ResultChange, error)
	RosterSummary(ctx context.Context) []types.PlayerSummary
	PlayerTimeline(ctx context.Context, name string) (types.PlayerTimeline, error)

	Fixtures(ctx context.Context) []model.FixtureWeek
	Week(ctx context.Context, week int) (model.FixtureWeek, error)
	WeekResults(ctx context.Context, week int) ([]model.MatchResult, error)
	SeasonResults(ctx context.Context) map[int][]model.MatchResult
	RecordMatchResult(ctx context.Context, week, match, homeFrames, awayFrames int) (model.MatchResult, error)
	ClearMatchResult(ctx context.Context, week, match int) error
	LeagueTable(ctx context.Context) []standings.Standing
	Teams() []string

	PostAnnouncement(ctx context.Context, message string) (model.Announcement, error)
	ActiveAnnouncements(ctx context.Context) []model.Announcement
	RemoveAnnouncement(ctx context.Context, key string) error
	SetBanner(ctx context.Context, text string) error
	Banner(ctx context.Context) string

	Stats(ctx context.Context) types.Stats
}

// Server wires HTTP routes for the league API.
type Server struct {
	deps        Dependencies
	verifier    *PINVerifier
	limiter     *IPRateLimiter
	corsOrigins []string
	deduper     dedupe.Deduper
	logger      logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAdmin guards mutations with verifier and limiter.
func WithAdmin(verifier *PINVerifier, limiter *IPRateLimiter) Option {
	return func(s *Server) {
		s.verifier = verifier
		s.limiter = limiter
	}
}

// WithCORSOrigins allows browser calls from origins.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		s.corsOrigins = append([]string{}, origins...)
	}
}

// WithDeduper enables Idempotency-Key handling on append-style writes.
func WithDeduper(d dedupe.Deduper) Option {
	return func(s *Server) {
		s.deduper = d
	}
}

// WithLogger sets the request error logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{deps: deps, logger: logger.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns a chi router with the common middleware and every route.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))
	r.Use(MetricsMiddleware)
	if len(s.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", AdminPINHeader},
			MaxAge:         300,
		}))
	}
	s.Register(r)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", HandleHealth)
	r.Get("/stats", s.handleStats)
	r.Get("/teams", s.handleTeams)
	r.Get("/players", s.handleListPlayers)
	r.Get("/players/{name}/timeline", s.handleTimeline)
	r.Get("/table", s.handleTable)
	r.Get("/fixtures", s.handleFixtures)
	r.Get("/fixtures/{week}", s.handleWeek)
	r.Get("/announcements", s.handleAnnouncements)
	r.Get("/export.xlsx", s.handleExport)

	r.Group(func(r chi.Router) {
		r.Use(AdminMiddleware(s.verifier, s.limiter))

		r.Put("/players", s.handleUpsertPlayer)
		r.Delete("/players/{name}", s.handleDeletePlayer)
		r.With(Idempotent(s.deduper)).Post("/players/{name}/results", s.handleAppendResult)
		r.Delete("/players/{name}/results/last", s.handleUndoResult)
		r.Put("/fixtures/{week}/matches/{index}", s.handleRecordMatch)
		r.Delete("/fixtures/{week}/matches/{index}", s.handleClearMatch)
		r.With(Idempotent(s.deduper)).Post("/announcements", s.handlePostAnnouncement)
		r.Delete("/announcements/{key}", s.handleRemoveAnnouncement)
		r.Put("/banner", s.handleSetBanner)
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// mutationResponse wraps every admin write. Persisted is false when the
// change was applied but the store did not accept it.
type mutationResponse struct {
	Persisted bool   `json:"persisted"`
	Warning   string `json:"warning,omitempty"`
	Data      any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify maps service errors to a status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidOutcome),
		errors.Is(err, service.ErrInvalidFrames),
		errors.Is(err, service.ErrInvalidMessage),
		errors.Is(err, service.ErrInvalidTeam):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrMaxGames):
		return http.StatusBadRequest, "max_games"
	case errors.Is(err, service.ErrNothingToUndo):
		return http.StatusNotFound, "nothing_to_undo"
	case errors.Is(err, service.ErrPlayerNotFound),
		errors.Is(err, service.ErrWeekNotFound),
		errors.Is(err, service.ErrMatchNotFound),
		errors.Is(err, service.ErrAnnouncementNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrLoad):
		return http.StatusServiceUnavailable, "store_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// fail writes err, logging anything that is not the caller's fault.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= statusInternalError {
		s.logger.Error(r.Context(), "request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Error(err))
	}
	writeError(w, status, code, err)
}

// mutated answers a write. A not-persisted error still answers status with
// the data and a warning; any other error is written as a failure.
func (s *Server) mutated(w http.ResponseWriter, r *http.Request, status int, data any, err error) {
	switch {
	case err == nil:
		writeJSON(w, status, mutationResponse{Persisted: true, Data: data})
	case errors.Is(err, service.ErrNotPersisted):
		s.logger.Warn(r.Context(), "change not persisted",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Error(err))
		writeJSON(w, status, mutationResponse{Persisted: false, Warning: err.Error(), Data: data})
	default:
		s.fail(w, r, err)
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrBadRequest, err)
	}
	return nil
}

func pathString(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func pathInt(r *http.Request, key string) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, key))
	if err != nil {
		return 0, errors.Join(ErrBadRequest, err)
	}
	return n, nil
}

// requestTimeout bounds handlers that touch the store.
const requestTimeout = 10 * time.Second
