package model

// MaxRecentRepos bounds the recently touched repositories list.
const MaxRecentRepos = 5

// ActivitySummary holds counters folded over a set of normalized events.
type ActivitySummary struct {
	Pushes       int
	Commits      int
	PROpened     int
	PRMerged     int
	PRClosed     int
	IssuesOpened int
	IssuesClosed int
	Reviews      int
	Comments     int
	Forks        int
	Stars        int
	ReposCreated int
}

// ActivityCategory is a display grouping of several event kinds.
type ActivityCategory struct {
	Key   string
	Label string
	Color string
	Kinds []EventKind
}

// DailyBucket holds per-category event counts for one calendar day.
type DailyBucket struct {
	Date   string
	Counts map[string]int
}

// Total returns the sum of all category counts in the bucket.
func (b DailyBucket) Total() int {
	total := 0
	for _, n := range b.Counts {
		total += n
	}
	return total
}
