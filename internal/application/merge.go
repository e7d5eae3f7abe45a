package application

import (
	"sort"

	"github.com/ericfisherdev/devfolio/internal/domain/model"
)

// MergeCalendars combines per-account calendars into one. Nil entries are
// accounts that produced no data and are skipped.
//
// With no valid input the empty calendar is returned; a single valid input is
// returned unchanged. Otherwise counts are summed per date, weeks are rebuilt
// from the ascending date list (a week closes on weekday 6, and the last
// partial week is always flushed), and the total is recomputed from the days.
func MergeCalendars(calendars []*model.ContributionCalendar) model.ContributionCalendar {
	var valid []*model.ContributionCalendar
	for _, c := range calendars {
		if c != nil {
			valid = append(valid, c)
		}
	}

	switch len(valid) {
	case 0:
		return model.EmptyCalendar()
	case 1:
		return *valid[0]
	}

	byDate := sumByDate(valid)

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	return model.ContributionCalendar{
		TotalContributions: totalOf(byDate),
		Weeks:              buildWeeks(dates, byDate),
	}
}

// sumByDate folds all days of all calendars into a date-indexed map. The
// first occurrence of a date fixes its weekday.
func sumByDate(calendars []*model.ContributionCalendar) map[string]model.ContributionDay {
	byDate := make(map[string]model.ContributionDay)
	for _, c := range calendars {
		for _, week := range c.Weeks {
			for _, day := range week.Days {
				acc, ok := byDate[day.Date]
				if !ok {
					byDate[day.Date] = day
					continue
				}
				acc.Count += day.Count
				byDate[day.Date] = acc
			}
		}
	}
	return byDate
}

func buildWeeks(dates []string, byDate map[string]model.ContributionDay) []model.ContributionWeek {
	weeks := []model.ContributionWeek{}
	var current []model.ContributionDay

	for i, date := range dates {
		day := byDate[date]
		current = append(current, day)

		if day.Weekday == model.LastWeekday || i == len(dates)-1 {
			weeks = append(weeks, model.ContributionWeek{Days: current})
			current = nil
		}
	}

	return weeks
}

func totalOf(byDate map[string]model.ContributionDay) int {
	total := 0
	for _, day := range byDate {
		total += day.Count
	}
	return total
}
