package model

// DateLayout is the ISO calendar date format used for contribution days.
const DateLayout = "2006-01-02"

// LastWeekday is the weekday value that closes a week grouping.
const LastWeekday = 6

// ContributionDay is the contribution count for a single calendar date.
// Weekday follows the upstream convention (0 = Sunday, 6 = Saturday).
type ContributionDay struct {
	Date    string
	Weekday int
	Count   int
}

// ContributionWeek holds 1-7 days in ascending date order.
type ContributionWeek struct {
	Days []ContributionDay
}

// ContributionCalendar is a daily contribution series grouped into weeks.
// TotalContributions always equals the sum of all day counts.
type ContributionCalendar struct {
	TotalContributions int
	Weeks              []ContributionWeek
}

// Days flattens the calendar into its days, in week order.
func (c ContributionCalendar) Days() []ContributionDay {
	var days []ContributionDay
	for _, w := range c.Weeks {
		days = append(days, w.Days...)
	}
	return days
}

// EmptyCalendar returns a calendar with no weeks and a zero total.
func EmptyCalendar() ContributionCalendar {
	return ContributionCalendar{TotalContributions: 0, Weeks: []ContributionWeek{}}
}
