package web

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	vm "github.com/ericfisherdev/devfolio/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/devfolio/internal/application"
	"github.com/ericfisherdev/devfolio/internal/domain/model"
)

// uncategorized tags timeline events whose kind is not charted.
const uncategorized = "uncategorized"

// toHeatmapViewModel lays the calendar out as week columns with levels and
// streaks computed against now.
func toHeatmapViewModel(c model.ContributionCalendar, year int, now time.Time) vm.HeatmapViewModel {
	current, longest := application.ComputeStreaks(c, now)

	weeks := make([]vm.HeatmapWeekViewModel, 0, len(c.Weeks))
	for _, w := range c.Weeks {
		cells := make([]vm.HeatmapCellViewModel, 0, len(w.Days))
		for _, d := range w.Days {
			cells = append(cells, vm.HeatmapCellViewModel{
				Date:    d.Date,
				Count:   d.Count,
				Level:   application.ContributionLevel(d.Count),
				Tooltip: fmt.Sprintf("%s %s on %s", humanize.Comma(int64(d.Count)), pluralize(d.Count, "contribution"), d.Date),
			})
		}
		weeks = append(weeks, vm.HeatmapWeekViewModel{Cells: cells})
	}

	return vm.HeatmapViewModel{
		Year:               year,
		TotalContributions: humanize.Comma(int64(c.TotalContributions)),
		CurrentStreak:      current,
		LongestStreak:      longest,
		Weeks:              weeks,
	}
}

// toStatViewModels lists the summary counters in display order.
func toStatViewModels(s model.ActivitySummary) []vm.StatViewModel {
	stats := []struct {
		label string
		value int
	}{
		{"Pushes", s.Pushes},
		{"Commits", s.Commits},
		{"PRs Opened", s.PROpened},
		{"PRs Merged", s.PRMerged},
		{"PRs Closed", s.PRClosed},
		{"Issues Opened", s.IssuesOpened},
		{"Issues Closed", s.IssuesClosed},
		{"Reviews", s.Reviews},
		{"Comments", s.Comments},
		{"Forks", s.Forks},
		{"Stars", s.Stars},
		{"Repos Created", s.ReposCreated},
	}

	out := make([]vm.StatViewModel, 0, len(stats))
	for _, st := range stats {
		out = append(out, vm.StatViewModel{Label: st.label, Value: humanize.Comma(int64(st.value))})
	}
	return out
}

// toEventViewModel converts a redacted normalized event for the timeline.
func toEventViewModel(ev model.NormalizedEvent, now time.Time) vm.EventViewModel {
	category, ok := application.CategoryOf(ev.Kind)
	if !ok {
		category = uncategorized
	}

	out := vm.EventViewModel{
		Kind:        string(ev.Kind),
		Category:    category,
		Repo:        ev.Repo,
		RepoURL:     ev.RepoURL,
		Description: ev.Description,
		When:        humanize.RelTime(ev.Timestamp, now, "ago", "from now"),
		Timestamp:   ev.Timestamp.UTC().Format(time.RFC3339),
		Redacted:    ev.Repo == application.RedactedRepo && ev.RepoURL == "",
		Commits:     []vm.CommitViewModel{},
	}

	if d := ev.Detail; d != nil {
		out.URL = d.URL
		out.BodyHTML = RenderMarkdown(d.Body)
		for _, c := range d.Commits {
			out.Commits = append(out.Commits, vm.CommitViewModel{SHA: c.SHA, Message: c.Message})
		}
	}

	return out
}

func toEventViewModels(events []model.NormalizedEvent, now time.Time) []vm.EventViewModel {
	out := make([]vm.EventViewModel, 0, len(events))
	for _, ev := range events {
		out = append(out, toEventViewModel(ev, now))
	}
	return out
}

func pluralize(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func parseDate(date string) (time.Time, error) {
	return time.Parse(model.DateLayout, date)
}
