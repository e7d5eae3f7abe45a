package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ericfisherdev/devfolio/internal/domain/model"
	"github.com/ericfisherdev/devfolio/internal/domain/port/driven"
)

// EventWindow is the trailing window of the events feed.
const EventWindow = 30 * 24 * time.Hour

var (
	// ErrNoAccounts is returned when the registry holds no accounts.
	ErrNoAccounts = errors.New("no source accounts configured")

	// ErrAllSourcesFailed is returned when every account's fetch failed.
	ErrAllSourcesFailed = errors.New("all source accounts failed")
)

// ActivityService aggregates GitHub activity across the registry's accounts.
// It holds no per-request state; every call builds its results from scratch.
type ActivityService struct {
	registry      *model.AccountRegistry
	contributions driven.ContributionSource
	events        driven.EventSource
	now           func() time.Time
	logger        *slog.Logger
}

// NewActivityService creates an ActivityService.
func NewActivityService(
	registry *model.AccountRegistry,
	contributions driven.ContributionSource,
	events driven.EventSource,
	logger *slog.Logger,
) *ActivityService {
	return &ActivityService{
		registry:      registry,
		contributions: contributions,
		events:        events,
		now:           time.Now,
		logger:        logger,
	}
}

// WithClock replaces the service clock. Intended for tests.
func (s *ActivityService) WithClock(now func() time.Time) *ActivityService {
	s.now = now
	return s
}

// Now returns the current time according to the service clock.
func (s *ActivityService) Now() time.Time {
	return s.now()
}

// AccountCount returns the number of configured source accounts.
func (s *ActivityService) AccountCount() int {
	return len(s.registry.Accounts())
}

// YearWindow returns the UTC bounds of the given calendar year.
func YearWindow(year int) (from, to time.Time) {
	from = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to = time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	return from, to
}

// GetContributions returns the merged contribution calendar of all accounts.
// When year is nil the full history is requested. Accounts that fail are
// logged and skipped; only when every account fails is an error returned.
func (s *ActivityService) GetContributions(ctx context.Context, year *int) (model.ContributionCalendar, error) {
	accounts := s.registry.Accounts()
	if len(accounts) == 0 {
		return model.ContributionCalendar{}, ErrNoAccounts
	}

	var from, to *time.Time
	if year != nil {
		f, t := YearWindow(*year)
		from, to = &f, &t
	}

	results, err := Gather(ctx, accounts, func(ctx context.Context, a model.Account) (*model.ContributionCalendar, error) {
		return s.contributions.FetchContributions(ctx, a, from, to)
	})
	if err != nil {
		return model.ContributionCalendar{}, fmt.Errorf("gathering contributions: %w", err)
	}

	logFailures(s.logger, "contributions", results)
	if AllFailed(results) {
		return model.ContributionCalendar{}, ErrAllSourcesFailed
	}

	calendars := make([]*model.ContributionCalendar, 0, len(results))
	for _, r := range results {
		if r.OK() {
			calendars = append(calendars, r.Value)
		}
	}

	return MergeCalendars(calendars), nil
}

// GetEvents returns the activity report for the trailing EventWindow.
// Counters are computed before redaction and include the sensitive
// account; recent repositories leave it out. The returned events are
// redacted for the sensitive account.
func (s *ActivityService) GetEvents(ctx context.Context) (model.ActivityReport, error) {
	accounts := s.registry.Accounts()
	if len(accounts) == 0 {
		return model.ActivityReport{}, ErrNoAccounts
	}

	since := s.now().Add(-EventWindow)

	results, err := Gather(ctx, accounts, func(ctx context.Context, a model.Account) ([]model.RawEvent, error) {
		return s.events.FetchEvents(ctx, a, since)
	})
	if err != nil {
		return model.ActivityReport{}, fmt.Errorf("gathering events: %w", err)
	}

	logFailures(s.logger, "events", results)
	if AllFailed(results) {
		return model.ActivityReport{}, ErrAllSourcesFailed
	}

	raws := flattenNewestFirst(results)
	events := ClassifyAll(raws)
	summary, recent := Summarize(events, s.registry.IsSensitive)

	return model.ActivityReport{
		Summary:     summary,
		RecentRepos: recent,
		TotalEvents: len(raws),
		Events:      Redact(events, s.registry.SensitiveID()),
	}, nil
}

// GetDailyActivity returns the RollupDays daily buckets ending today for the
// redacted events of the trailing window.
func (s *ActivityService) GetDailyActivity(ctx context.Context, today time.Time) ([]model.DailyBucket, error) {
	report, err := s.GetEvents(ctx)
	if err != nil {
		return nil, err
	}
	return Rollup(report.Events, today), nil
}

func logFailures[T any](logger *slog.Logger, source string, results []Sourced[T]) {
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		logger.Warn("account fetch failed, treating as no data",
			"source", source,
			"account", r.Account.ID,
			"error", r.Err,
		)
	}
}

// flattenNewestFirst concatenates per-account events and orders them by
// creation time, newest first. Ties keep account order.
func flattenNewestFirst(results []Sourced[[]model.RawEvent]) []model.RawEvent {
	var raws []model.RawEvent
	for _, r := range results {
		if r.OK() {
			raws = append(raws, r.Value...)
		}
	}

	sort.SliceStable(raws, func(i, j int) bool {
		return raws[i].CreatedAt.After(raws[j].CreatedAt)
	})

	return raws
}
