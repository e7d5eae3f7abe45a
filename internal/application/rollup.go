package application

import (
	"time"

	"github.com/ericfisherdev/devfolio/internal/domain/model"
)

// RollupDays is the length of the trailing daily activity window.
const RollupDays = 14

// ActivityCategories lists the chart categories in display order. Kinds
// not listed here (commit comments) are not charted.
var ActivityCategories = []model.ActivityCategory{
	{Key: "code-contributions", Label: "Code Contributions", Color: "#22d3ee", Kinds: []model.EventKind{model.EventPush, model.EventBranchCreated}},
	{Key: "prs", Label: "PRs", Color: "#a855f7", Kinds: []model.EventKind{model.EventPROpened, model.EventPRClosed}},
	{Key: "pr-merged", Label: "PRs Merged", Color: "#22c55e", Kinds: []model.EventKind{model.EventPRMerged}},
	{Key: "issues", Label: "Issues", Color: "#eab308", Kinds: []model.EventKind{model.EventIssueOpened, model.EventIssueClosed, model.EventComment}},
	{Key: "code-reviews", Label: "Code Reviews", Color: "#3b82f6", Kinds: []model.EventKind{model.EventReview, model.EventReviewComment}},
	{Key: "fork", Label: "Forks", Color: "#f97316", Kinds: []model.EventKind{model.EventFork}},
	{Key: "star", Label: "Stars", Color: "#fbbf24", Kinds: []model.EventKind{model.EventStar}},
	{Key: "repo-created", Label: "Repos Created", Color: "#14b8a6", Kinds: []model.EventKind{model.EventRepoCreated}},
	{Key: "tag-created", Label: "Tags Created", Color: "#8b5cf6", Kinds: []model.EventKind{model.EventTagCreated}},
	{Key: "branch-deleted", Label: "Deletions", Color: "#ef4444", Kinds: []model.EventKind{model.EventBranchDeleted}},
	{Key: "release", Label: "Releases", Color: "#84cc16", Kinds: []model.EventKind{model.EventRelease}},
}

var categoryByKind = indexCategories(ActivityCategories)

func indexCategories(categories []model.ActivityCategory) map[model.EventKind]string {
	idx := make(map[model.EventKind]string)
	for _, c := range categories {
		for _, k := range c.Kinds {
			idx[k] = c.Key
		}
	}
	return idx
}

// CategoryOf returns the chart category key of kind, or false if the kind is
// not charted.
func CategoryOf(kind model.EventKind) (string, bool) {
	key, ok := categoryByKind[kind]
	return key, ok
}

// Rollup buckets events into RollupDays daily buckets ending with today,
// oldest first. Days are calendar days in today's location. Every bucket has
// a zero entry for each category; events outside the window are ignored.
func Rollup(events []model.NormalizedEvent, today time.Time) []model.DailyBucket {
	loc := today.Location()
	end := startOfDay(today)

	buckets := make([]model.DailyBucket, RollupDays)
	index := make(map[string]int, RollupDays)
	for i := range RollupDays {
		day := end.AddDate(0, 0, i-(RollupDays-1))
		date := day.Format(model.DateLayout)

		counts := make(map[string]int, len(ActivityCategories))
		for _, c := range ActivityCategories {
			counts[c.Key] = 0
		}

		buckets[i] = model.DailyBucket{Date: date, Counts: counts}
		index[date] = i
	}

	for _, ev := range events {
		i, ok := index[ev.Timestamp.In(loc).Format(model.DateLayout)]
		if !ok {
			continue
		}
		key, ok := CategoryOf(ev.Kind)
		if !ok {
			continue
		}
		buckets[i].Counts[key]++
	}

	return buckets
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
