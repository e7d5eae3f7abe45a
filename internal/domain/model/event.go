package model

import (
	"encoding/json"
	"time"
)

// EventKind is the closed set of normalized activity event kinds.
type EventKind string

const (
	EventPush          EventKind = "push"
	EventPROpened      EventKind = "pr-opened"
	EventPRMerged      EventKind = "pr-merged"
	EventPRClosed      EventKind = "pr-closed"
	EventIssueOpened   EventKind = "issue-opened"
	EventIssueClosed   EventKind = "issue-closed"
	EventReview        EventKind = "review"
	EventComment       EventKind = "comment"
	EventCommitComment EventKind = "commit-comment"
	EventReviewComment EventKind = "review-comment"
	EventFork          EventKind = "fork"
	EventStar          EventKind = "star"
	EventRepoCreated   EventKind = "repo-created"
	EventBranchCreated EventKind = "branch-created"
	EventTagCreated    EventKind = "tag-created"
	EventBranchDeleted EventKind = "branch-deleted"
	EventRelease       EventKind = "release"
)

// RawEvent is one item of an upstream activity feed, tagged with the account
// it was fetched for. Payload is left undecoded; its shape depends on Type.
type RawEvent struct {
	ID           string
	Type         string
	CreatedAt    time.Time
	RepoFullName string
	Account      string
	Payload      json.RawMessage
}

// NormalizedEvent is the uniform, classified representation of a RawEvent.
type NormalizedEvent struct {
	ID          string
	Kind        EventKind
	Repo        string // short name (segment after the last "/")
	RepoURL     string
	Timestamp   time.Time
	Account     string
	Description string
	Detail      *EventDetail

	// CommitCount is the number of commits of a push event as reported by
	// the upstream, which may exceed len(Detail.Commits). Zero for other kinds.
	CommitCount int
}

// EventDetail carries kind-specific fields. Zero-valued fields are omitted
// from API responses.
type EventDetail struct {
	Title   string
	Body    string
	URL     string
	Commits []CommitRef
	Branch  string
	Action  string
	Number  int
}

// CommitRef is a pushed commit reduced to its short hash and first message line.
type CommitRef struct {
	SHA     string
	Message string
}

// ActivityReport is the result of one events aggregation request.
type ActivityReport struct {
	Summary     ActivitySummary
	RecentRepos []string
	TotalEvents int
	Events      []NormalizedEvent
}
