// Package web implements the HTML driving adapter using templ components.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	vm "github.com/ericfisherdev/devfolio/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/devfolio/internal/application"
	"github.com/ericfisherdev/devfolio/internal/domain/model"
)

const chartPath = "/activity/chart"

// Handler is the web driving adapter that serves HTML via templ components.
type Handler struct {
	activity *application.ActivityService
	contact  *application.ContactService
	title    string
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	activity *application.ActivityService,
	contact *application.ContactService,
	title string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		activity: activity,
		contact:  contact,
		title:    title,
		logger:   logger,
	}
}

// Activity renders the activity page. The optional year query parameter
// selects the heatmap year; anything unparsable falls back to the rolling year.
func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	form := vm.ContactFormViewModel{
		CSRFToken: csrfToken(w, r),
		Sent:      r.URL.Query().Get("sent") == "1",
	}
	h.renderPage(w, r, http.StatusOK, form)
}

// ActivityChart renders the daily rollup as a standalone chart page.
func (h *Handler) ActivityChart(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.activity.GetDailyActivity(r.Context(), h.activity.Now().UTC())
	if err != nil {
		h.logger.Error("failed to build activity chart", "error", err)
		http.Error(w, "activity unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderActivityChart(w, buckets); err != nil {
		h.logger.Error("failed to render activity chart", "error", err)
	}
}

// SubmitContact handles the contact form post. Success redirects back to the
// page; validation and delivery failures re-render the form with the error.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	email := r.FormValue("email")
	message := r.FormValue("message")

	_, err := h.contact.Submit(r.Context(), email, message)
	if err == nil {
		http.Redirect(w, r, "/?sent=1#contact", http.StatusSeeOther)
		return
	}

	form := vm.ContactFormViewModel{
		CSRFToken: csrfToken(w, r),
		Email:     email,
		Message:   message,
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, application.ErrInvalidContact):
		status = http.StatusBadRequest
		form.Error = "Please provide a valid email address and a message of at most 5000 characters."
	case errors.Is(err, application.ErrDeliveryFailed):
		form.Error = "Your message was saved but could not be delivered. Please try again later."
		form.Email, form.Message = "", ""
	default:
		h.logger.Error("failed to submit contact form", "error", err)
		form.Error = "Something went wrong. Please try again later."
	}

	h.renderPage(w, r, status, form)
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, form vm.ContactFormViewModel) {
	page := h.buildPage(r.Context(), queryYear(r, h.activity.Now()))
	page.Contact = form

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	h.render(r.Context(), w, Layout(h.title, ActivityPage(page)))
}

// buildPage fetches contributions and events concurrently. Either half may
// be unavailable without failing the page.
func (h *Handler) buildPage(ctx context.Context, year *int) vm.ActivityPageViewModel {
	now := h.activity.Now()

	var (
		calendar    model.ContributionCalendar
		calendarErr error
		report      model.ActivityReport
		reportErr   error
	)

	var g errgroup.Group
	g.Go(func() error {
		calendar, calendarErr = h.activity.GetContributions(ctx, year)
		return nil
	})
	g.Go(func() error {
		report, reportErr = h.activity.GetEvents(ctx)
		return nil
	})
	_ = g.Wait()

	page := vm.ActivityPageViewModel{
		Title:     h.title,
		ChartPath: chartPath,
	}

	if calendarErr != nil {
		h.logger.Warn("contributions unavailable for page", "error", calendarErr)
	} else {
		y := 0
		if year != nil {
			y = *year
		}
		page.Heatmap = toHeatmapViewModel(calendar, y, now)
		page.HeatmapAvailable = true
	}

	if reportErr != nil {
		h.logger.Warn("events unavailable for page", "error", reportErr)
	} else {
		page.Stats = toStatViewModels(report.Summary)
		page.RecentRepos = report.RecentRepos
		page.TotalEvents = humanize.Comma(int64(report.TotalEvents))
		page.Events = toEventViewModels(report.Events, now)
		page.EventsAvailable = true
	}

	return page
}

func (h *Handler) render(ctx context.Context, w http.ResponseWriter, c templ.Component) {
	if err := c.Render(ctx, w); err != nil {
		h.logger.Error("failed to render page", "error", err)
	}
}

func queryYear(r *http.Request, now time.Time) *int {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2008 || year > now.UTC().Year() {
		return nil
	}
	return &year
}
