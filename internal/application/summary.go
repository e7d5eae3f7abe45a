package application

import "github.com/ericfisherdev/devfolio/internal/domain/model"

// Summarize folds events into activity counters and the list of recently
// touched repositories. It must be given the events before redaction so
// that counts stay accurate.
//
// Recent repositories are the first model.MaxRecentRepos distinct short
// names in the order events are given (newest first after fetching).
// Events of accounts for which hidden reports true are counted but never
// contribute a repository name. A nil hidden hides nothing.
func Summarize(events []model.NormalizedEvent, hidden func(account string) bool) (model.ActivitySummary, []string) {
	var summary model.ActivitySummary
	for _, ev := range events {
		summary = countEvent(summary, ev)
	}
	return summary, recentRepos(events, hidden, model.MaxRecentRepos)
}

// countEvent returns s with ev accounted for.
func countEvent(s model.ActivitySummary, ev model.NormalizedEvent) model.ActivitySummary {
	switch ev.Kind {
	case model.EventPush:
		s.Pushes++
		s.Commits += ev.CommitCount
	case model.EventPROpened:
		s.PROpened++
	case model.EventPRMerged:
		s.PRMerged++
	case model.EventPRClosed:
		s.PRClosed++
	case model.EventIssueOpened:
		s.IssuesOpened++
	case model.EventIssueClosed:
		s.IssuesClosed++
	case model.EventReview:
		s.Reviews++
	case model.EventComment, model.EventCommitComment, model.EventReviewComment:
		s.Comments++
	case model.EventFork:
		s.Forks++
	case model.EventStar:
		s.Stars++
	case model.EventRepoCreated:
		s.ReposCreated++
	}
	return s
}

func recentRepos(events []model.NormalizedEvent, hidden func(string) bool, limit int) []string {
	repos := make([]string, 0, limit)
	seen := make(map[string]bool, limit)

	for _, ev := range events {
		if len(repos) == limit {
			break
		}
		if ev.Repo == "" || seen[ev.Repo] {
			continue
		}
		if hidden != nil && hidden(ev.Account) {
			continue
		}
		seen[ev.Repo] = true
		repos = append(repos, ev.Repo)
	}

	return repos
}
