package application

import (
	"time"

	"github.com/ericfisherdev/devfolio/internal/domain/model"
)

// ContributionLevel maps a day's contribution count to a heatmap intensity
// level from 0 (none) to 4 (ten or more).
func ContributionLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 3:
		return 1
	case count <= 6:
		return 2
	case count <= 9:
		return 3
	default:
		return 4
	}
}

// ComputeStreaks returns the current and longest runs of consecutive days
// with at least one contribution. The current streak counts back from today
// (UTC calendar date); a day missing from the calendar breaks a streak.
func ComputeStreaks(calendar model.ContributionCalendar, today time.Time) (current, longest int) {
	counts := make(map[string]int)
	for _, day := range calendar.Days() {
		counts[day.Date] += day.Count
	}
	if len(counts) == 0 {
		return 0, 0
	}

	end := startOfDay(today.UTC())
	for d := end; counts[d.Format(model.DateLayout)] > 0; d = d.AddDate(0, 0, -1) {
		current++
	}

	for date, n := range counts {
		if n <= 0 {
			continue
		}
		start, err := time.Parse(model.DateLayout, date)
		if err != nil {
			continue
		}
		// Only measure from the first day of a run.
		if counts[start.AddDate(0, 0, -1).Format(model.DateLayout)] > 0 {
			continue
		}

		length := 0
		for d := start; counts[d.Format(model.DateLayout)] > 0; d = d.AddDate(0, 0, 1) {
			length++
		}
		longest = max(longest, length)
	}

	return current, longest
}
