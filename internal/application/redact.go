package application

import "github.com/ericfisherdev/devfolio/internal/domain/model"

// RedactedRepo replaces the repository name of redacted events.
const RedactedRepo = "work"

const redactedFallback = "Activity at work"

var redactedDescriptions = map[model.EventKind]string{
	model.EventPush:          "Pushed commits at work",
	model.EventPROpened:      "Opened a PR at work",
	model.EventPRMerged:      "Merged a PR at work",
	model.EventPRClosed:      "Closed a PR at work",
	model.EventIssueOpened:   "Opened an issue at work",
	model.EventIssueClosed:   "Closed an issue at work",
	model.EventReview:        "Reviewed a PR at work",
	model.EventComment:       "Commented on an issue at work",
	model.EventCommitComment: "Commented on a commit at work",
	model.EventReviewComment: "Review comment on a PR at work",
	model.EventFork:          "Forked a repository at work",
	model.EventStar:          "Starred a repository at work",
	model.EventRepoCreated:   "Created a repository at work",
	model.EventBranchCreated: "Created a branch at work",
	model.EventTagCreated:    "Created a tag at work",
	model.EventBranchDeleted: "Deleted a branch at work",
	model.EventRelease:       "Published a release at work",
}

// RedactedDescription returns the generic description used for a redacted
// event of the given kind.
func RedactedDescription(kind model.EventKind) string {
	if d, ok := redactedDescriptions[kind]; ok {
		return d
	}
	return redactedFallback
}

// Redact returns a copy of events in which every event of sensitiveID has
// its repository, URL, detail and description replaced by generic values.
// Events of other accounts are copied unchanged. An empty sensitiveID
// disables redaction. Applying Redact twice yields the same result.
func Redact(events []model.NormalizedEvent, sensitiveID string) []model.NormalizedEvent {
	out := make([]model.NormalizedEvent, len(events))
	for i, ev := range events {
		if sensitiveID == "" || ev.Account != sensitiveID {
			out[i] = ev
			continue
		}

		ev.Repo = RedactedRepo
		ev.RepoURL = ""
		ev.Detail = nil
		ev.Description = RedactedDescription(ev.Kind)
		out[i] = ev
	}
	return out
}
