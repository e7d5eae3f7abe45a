package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/devfolio/internal/application"
	"github.com/ericfisherdev/devfolio/internal/domain/model"
	"github.com/ericfisherdev/devfolio/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockContributionSource struct {
	calendar *model.ContributionCalendar
	err      error
}

func (m *mockContributionSource) FetchContributions(
	_ context.Context, _ model.Account, _, _ *time.Time,
) (*model.ContributionCalendar, error) {
	return m.calendar, m.err
}

type mockEventSource struct {
	events []model.RawEvent
	err    error
}

func (m *mockEventSource) FetchEvents(_ context.Context, _ model.Account, _ time.Time) ([]model.RawEvent, error) {
	return m.events, m.err
}

type mockContactStore struct {
	saved []model.ContactMessage
}

func (m *mockContactStore) Save(_ context.Context, msg model.ContactMessage) (model.ContactMessage, error) {
	msg.ID = int64(len(m.saved) + 1)
	m.saved = append(m.saved, msg)
	return msg, nil
}

func (m *mockContactStore) MarkDelivered(_ context.Context, _ int64, _ time.Time) error { return nil }

func (m *mockContactStore) Get(_ context.Context, _ int64) (*model.ContactMessage, error) {
	return nil, driven.ErrContactNotFound
}

func (m *mockContactStore) ListRecent(_ context.Context, _ int) ([]model.ContactMessage, error) {
	return m.saved, nil
}

type mockNotifier struct {
	err error
}

func (m *mockNotifier) Notify(_ context.Context, _ model.ContactMessage) error { return m.err }

// --- Helpers ---

var testTime = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	contributions *mockContributionSource
	events        *mockEventSource
	store         *mockContactStore
	notifier      *mockNotifier
}

func newFixture() *fixture {
	calendar := model.ContributionCalendar{
		TotalContributions: 1234,
		Weeks: []model.ContributionWeek{{Days: []model.ContributionDay{
			{Date: "2026-02-08", Weekday: 0, Count: 0},
			{Date: "2026-02-09", Weekday: 1, Count: 4},
			{Date: "2026-02-10", Weekday: 2, Count: 12},
		}}},
	}
	return &fixture{
		contributions: &mockContributionSource{calendar: &calendar},
		events: &mockEventSource{events: []model.RawEvent{{
			ID:           "1",
			Type:         "PushEvent",
			CreatedAt:    testTime.Add(-3 * time.Hour),
			RepoFullName: "alice/site",
			Account:      "alice",
			Payload:      []byte(`{"ref":"refs/heads/main","size":1,"commits":[{"sha":"abcdef1234567","message":"Fix <b>layout</b>"}]}`),
		}}},
		store:    &mockContactStore{},
		notifier: &mockNotifier{},
	}
}

func (f *fixture) mux() *http.ServeMux {
	registry := model.NewAccountRegistry([]model.Account{{ID: "alice", Credential: "token"}}, "")
	activity := application.NewActivityService(registry, f.contributions, f.events, slog.Default()).
		WithClock(func() time.Time { return testTime })
	contact := application.NewContactService(f.store, f.notifier, slog.Default()).
		WithClock(func() time.Time { return testTime })

	mux := http.NewServeMux()
	RegisterRoutes(mux, NewHandler(activity, contact, "Alice's activity", slog.Default()))
	return mux
}

func postContact(mux http.Handler, token string, form url.Values) *httptest.ResponseRecorder {
	form.Set(csrfFormField, token)
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestActivity_RendersAllSections(t *testing.T) {
	f := newFixture()
	rec := httptest.NewRecorder()
	f.mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "<title>Alice&#39;s activity</title>")
	assert.Contains(t, body, "1,234 contributions")
	assert.Contains(t, body, `data-level="4"`)
	assert.Contains(t, body, "Current streak: <strong>2</strong>")
	assert.Contains(t, body, "Pushed 1 commit to main")
	assert.Contains(t, body, "3 hours ago")
	assert.Contains(t, body, "Fix &lt;b&gt;layout&lt;/b&gt;")
	assert.Contains(t, body, `src="/activity/chart"`)
	assert.Contains(t, body, `name="csrf_token"`)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, csrfCookieName, cookies[0].Name)
	assert.Contains(t, body, cookies[0].Value)
}

func TestActivity_SourcesUnavailable(t *testing.T) {
	f := newFixture()
	f.contributions.err = errors.New("graphql down")
	f.events.err = errors.New("rest down")

	rec := httptest.NewRecorder()
	f.mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Contribution data is unavailable right now.")
	assert.Contains(t, body, "Recent activity is unavailable right now.")
	assert.Contains(t, body, `id="contact"`)
}

func TestActivity_SentNotice(t *testing.T) {
	rec := httptest.NewRecorder()
	newFixture().mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?sent=1", nil))

	assert.Contains(t, rec.Body.String(), "Your message was sent.")
}

func TestActivity_YearQuery(t *testing.T) {
	rec := httptest.NewRecorder()
	newFixture().mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?year=2025", nil))

	assert.Contains(t, rec.Body.String(), "contributions in 2025")
}

func TestActivityChart(t *testing.T) {
	rec := httptest.NewRecorder()
	newFixture().mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activity/chart", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "echarts")
	assert.Contains(t, rec.Body.String(), "Code Contributions")
	assert.Contains(t, rec.Body.String(), "Feb 10")
}

func TestSubmitContact_Success(t *testing.T) {
	f := newFixture()
	rec := postContact(f.mux(), "tok", url.Values{
		"email":   {"visitor@example.com"},
		"message": {"Hello there"},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?sent=1#contact", rec.Header().Get("Location"))
	require.Len(t, f.store.saved, 1)
	assert.Equal(t, "visitor@example.com", f.store.saved[0].Email)
}

func TestSubmitContact_CSRFMismatch(t *testing.T) {
	f := newFixture()
	rec := postContact(f.mux(), "other", url.Values{
		"email":   {"visitor@example.com"},
		"message": {"Hello there"},
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, f.store.saved)
}

func TestSubmitContact_Invalid(t *testing.T) {
	f := newFixture()
	rec := postContact(f.mux(), "tok", url.Values{
		"email":   {"not-an-email"},
		"message": {"Hello there"},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Please provide a valid email address")
	assert.Contains(t, body, `value="not-an-email"`)
	assert.Empty(t, f.store.saved)
}

func TestSubmitContact_DeliveryFailed(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("smtp down")
	rec := postContact(f.mux(), "tok", url.Values{
		"email":   {"visitor@example.com"},
		"message": {"Hello there"},
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not be delivered")
	assert.Len(t, f.store.saved, 1)
}

func TestStaticAssets(t *testing.T) {
	rec := httptest.NewRecorder()
	newFixture().mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `.heatmap-cell[data-level="4"]`)
}
