package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"menu-highlights/internal/domain"
	"menu-highlights/internal/usecase/announce"
	"menu-highlights/internal/usecase/dashboard"
)

// Server exposes the dashboard session over HTTP.
type Server struct {
	session  *dashboard.Session
	announce *announce.Service
	log      zerolog.Logger
}

type Option func(*Server)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithAnnounce enables POST /api/v1/announce/{day}.
func WithAnnounce(service *announce.Service) Option {
	return func(s *Server) {
		s.announce = service
	}
}

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func NewServer(session *dashboard.Session, opts ...Option) *Server {
	srv := &Server{session: session, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

// Mount registers every route on r.
func (s *Server) Mount(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/weekdays", s.handleWeekDays)

		r.Get("/schedule", s.handleSchedule)
		r.Route("/schedule/{day}", func(r chi.Router) {
			r.Get("/", s.handleDay)
			r.Delete("/", s.handleClearDay)
			r.Post("/items", s.handleAddItem)
			r.Delete("/items/{itemID}", s.handleRemoveItem)
			r.Put("/items/{itemID}/discount", s.handleUpdateDiscount)
			r.Post("/items/{itemID}/toggle", s.handleToggleItem)
			r.Post("/copy", s.handleCopyDay)
		})
		r.Get("/statistics", s.handleStatistics)

		r.Get("/config", s.handleGetConfig)
		r.Patch("/config", s.handlePatchConfig)
		r.Post("/config/toggle", s.handleToggleConfig)
		r.Post("/config/reset", s.handleResetConfig)

		r.Get("/catalog", s.handleCatalog)
		r.Delete("/catalog/filters", s.handleClearCatalogFilters)

		r.Get("/dialogs", s.handleDialogs)
		r.Post("/dialogs/close-all", s.handleCloseAllDialogs)
		r.Post("/dialogs/{name}/open", s.handleOpenDialog)
		r.Post("/dialogs/{name}/close", s.handleCloseDialog)
		r.Post("/dialogs/{name}/confirm", s.handleConfirmDialog)

		r.Post("/discounts/preview", s.handlePreviewDiscount)
		r.Post("/snapshot/save", s.handleSaveSnapshot)
		r.Post("/announce/{day}", s.handleAnnounce)
	})
}

// Router returns a standalone router with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	s.Mount(r)
	return r
}

// persist saves the snapshot after an accepted mutation. The mutation stays applied
// in memory when saving fails.
func (s *Server) persist(ctx context.Context) {
	if err := s.session.Save(ctx); err != nil {
		s.log.Error().Err(err).Msg("httpapi: snapshot save failed")
	}
}

func (s *Server) handleWeekDays(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, http.StatusOK, domain.WeekDays)
}

func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Save(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("httpapi: snapshot save failed")
		writeError(w, http.StatusInternalServerError, "snapshot_save_failed", "could not save snapshot", nil)
		return
	}
	writeOK(w, http.StatusOK, map[string]bool{"saved": true})
}

func (s *Server) handleAnnounce(w http.ResponseWriter, r *http.Request) {
	if s.announce == nil {
		writeError(w, http.StatusServiceUnavailable, "announce_disabled", "announcements are not configured", nil)
		return
	}
	day, ok := dayParam(w, r, "day")
	if !ok {
		return
	}
	job, err := s.announce.Enqueue(r.Context(), day, domain.AnnounceCauseManual)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeOK(w, http.StatusAccepted, job)
}

func dayParam(w http.ResponseWriter, r *http.Request, name string) (domain.WeekDay, bool) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_day", "day must be an integer between 0 and 6", nil)
		return 0, false
	}
	day, err := domain.ParseWeekDay(n)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_day", err.Error(), nil)
		return 0, false
	}
	return day, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body", nil)
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidDiscountRange),
		errors.Is(err, domain.ErrDiscountExceedsPrice):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrDuplicateProductInDay),
		errors.Is(err, domain.ErrNoSelection):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidDay):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrUnknownDialog),
		errors.Is(err, domain.ErrSnapshotNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := domain.ErrorCode(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("httpapi: internal error")
		message = "internal error"
	}
	var fields map[string]string
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		fields = verr.Fields
	}
	writeError(w, status, code, message, fields)
}

func writeOK(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, envelope{Success: true, Data: v})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string, fields map[string]string) {
	writeJSON(w, status, envelope{Error: &errorBody{Code: code, Message: message, Fields: fields}})
}
