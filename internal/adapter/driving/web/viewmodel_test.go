package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/devfolio/internal/application"
	"github.com/ericfisherdev/devfolio/internal/domain/model"
)

func TestToHeatmapViewModel(t *testing.T) {
	calendar := model.ContributionCalendar{
		TotalContributions: 1,
		Weeks: []model.ContributionWeek{
			{Days: []model.ContributionDay{{Date: "2026-02-09", Weekday: 1, Count: 1}}},
			{Days: []model.ContributionDay{{Date: "2026-02-10", Weekday: 2, Count: 0}}},
		},
	}

	got := toHeatmapViewModel(calendar, 2026, testTime)

	assert.Equal(t, 2026, got.Year)
	assert.Equal(t, "1", got.TotalContributions)
	assert.Equal(t, 0, got.CurrentStreak)
	assert.Equal(t, 1, got.LongestStreak)
	require.Len(t, got.Weeks, 2)
	assert.Equal(t, 1, got.Weeks[0].Cells[0].Level)
	assert.Equal(t, "1 contribution on 2026-02-09", got.Weeks[0].Cells[0].Tooltip)
	assert.Equal(t, "0 contributions on 2026-02-10", got.Weeks[1].Cells[0].Tooltip)
}

func TestToStatViewModels(t *testing.T) {
	stats := toStatViewModels(model.ActivitySummary{Commits: 12345, Stars: 2})

	require.Len(t, stats, 12)
	assert.Equal(t, "Pushes", stats[0].Label)
	assert.Equal(t, "12,345", stats[1].Value)
	assert.Equal(t, "2", stats[10].Value)
}

func TestToEventViewModel(t *testing.T) {
	t.Run("push with detail", func(t *testing.T) {
		ev := model.NormalizedEvent{
			Kind:        model.EventPush,
			Repo:        "site",
			RepoURL:     "https://github.com/alice/site",
			Timestamp:   testTime.Add(-2 * time.Hour),
			Description: "Pushed 1 commit to main",
			Detail: &model.EventDetail{
				URL:     "https://github.com/alice/site/commits/main",
				Commits: []model.CommitRef{{SHA: "abcdef1", Message: "init"}},
			},
		}

		got := toEventViewModel(ev, testTime)

		assert.Equal(t, "push", got.Kind)
		assert.Equal(t, "code-contributions", got.Category)
		assert.Equal(t, "2 hours ago", got.When)
		assert.Equal(t, "2026-02-10T10:00:00Z", got.Timestamp)
		assert.Equal(t, "https://github.com/alice/site/commits/main", got.URL)
		require.Len(t, got.Commits, 1)
		assert.False(t, got.Redacted)
	})

	t.Run("markdown body is sanitized", func(t *testing.T) {
		ev := model.NormalizedEvent{
			Kind:      model.EventPROpened,
			Timestamp: testTime,
			Detail:    &model.EventDetail{Body: "**bold** <script>alert(1)</script>"},
		}

		got := toEventViewModel(ev, testTime)

		assert.Contains(t, got.BodyHTML, "<strong>bold</strong>")
		assert.NotContains(t, got.BodyHTML, "<script>")
	})

	t.Run("redacted", func(t *testing.T) {
		ev := model.NormalizedEvent{
			Kind:        model.EventComment,
			Repo:        application.RedactedRepo,
			Timestamp:   testTime,
			Description: application.RedactedDescription(model.EventComment),
		}

		got := toEventViewModel(ev, testTime)

		assert.True(t, got.Redacted)
		assert.Empty(t, got.URL)
		assert.Empty(t, got.Commits)
	})

	t.Run("uncharted kind", func(t *testing.T) {
		got := toEventViewModel(model.NormalizedEvent{Kind: model.EventCommitComment, Timestamp: testTime}, testTime)

		assert.Equal(t, "uncategorized", got.Category)
	})
}

func TestChartLabel(t *testing.T) {
	assert.Equal(t, "Feb 03", chartLabel("2026-02-03"))
	assert.Equal(t, "garbage", chartLabel("garbage"))
}
