package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ericfisherdev/devfolio/internal/application"
)

const (
	// firstContributionYear bounds the year query parameter from below.
	firstContributionYear = 2008

	maxContactBodyBytes = 64 << 10
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	activity *application.ActivityService
	contact  *application.ContactService
	metrics  http.Handler
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. contact and
// metrics may be nil, in which case their routes are not registered.
func NewHandler(
	activity *application.ActivityService,
	contact *application.ContactService,
	metrics http.Handler,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		activity: activity,
		contact:  contact,
		metrics:  metrics,
		logger:   logger,
	}
}

// RegisterRoutes adds the API routes to mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/github/contributions", h.GetContributions)
	mux.HandleFunc("GET /api/v1/github/events", h.GetEvents)
	mux.HandleFunc("GET /api/v1/github/activity/daily", h.GetDailyActivity)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	if h.contact != nil {
		mux.HandleFunc("POST /api/v1/contact", h.SubmitContact)
	}
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return Wrap(mux, logger)
}

// Wrap applies the recovery and logging middleware to next.
func Wrap(next http.Handler, logger *slog.Logger) http.Handler {
	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, next)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// GetContributions returns the merged contribution calendar, optionally
// restricted to the calendar year given by the year query parameter.
func (h *Handler) GetContributions(w http.ResponseWriter, r *http.Request) {
	year, err := h.parseYear(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	calendar, err := h.activity.GetContributions(r.Context(), year)
	if err != nil {
		h.logger.Error("failed to fetch contributions", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch contribution data")
		return
	}

	writeJSON(w, http.StatusOK, toContributionsResponse(calendar))
}

// GetEvents returns the redacted activity report for the trailing window.
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	report, err := h.activity.GetEvents(r.Context())
	if err != nil {
		h.logger.Error("failed to fetch events", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch events")
		return
	}

	writeJSON(w, http.StatusOK, toEventsResponse(report))
}

// GetDailyActivity returns the per-category daily rollup ending today (UTC).
func (h *Handler) GetDailyActivity(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.activity.GetDailyActivity(r.Context(), h.activity.Now().UTC())
	if err != nil {
		h.logger.Error("failed to fetch daily activity", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch events")
		return
	}

	writeJSON(w, http.StatusOK, toDailyActivityResponse(buckets))
}

// SubmitContact stores and forwards a contact form submission.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactBodyBytes)

	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := h.contact.Submit(r.Context(), req.Email, req.Message)
	switch {
	case errors.Is(err, application.ErrInvalidContact):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, application.ErrDeliveryFailed):
		writeError(w, http.StatusInternalServerError, "Failed to send message")
		return
	case err != nil:
		h.logger.Error("failed to submit contact message", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, ContactResponse{Success: true, ID: msg.ID})
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Time:     time.Now().UTC().Format(time.RFC3339),
		Accounts: h.activity.AccountCount(),
	})
}

// parseYear validates the optional year query value. An empty value means no
// year restriction.
func (h *Handler) parseYear(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}

	year, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New("invalid year: expected a four-digit year")
	}

	current := h.activity.Now().UTC().Year()
	if year < firstContributionYear || year > current {
		return nil, errors.New("invalid year: out of range")
	}

	return &year, nil
}
