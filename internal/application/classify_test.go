package application

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/devfolio/internal/domain/model"
)

var classifyTime = time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)

func rawEvent(eventType, payload string) model.RawEvent {
	return model.RawEvent{
		ID:           "1",
		Type:         eventType,
		CreatedAt:    classifyTime,
		RepoFullName: "octo/hello",
		Account:      "alice",
		Payload:      json.RawMessage(payload),
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		eventType   string
		payload     string
		wantKind    model.EventKind
		wantDesc    string
		wantDropped bool
	}{
		{
			name:      "push uses size",
			eventType: "PushEvent",
			payload:   `{"ref":"refs/heads/main","size":5,"commits":[{"sha":"abcdef1234567","message":"fix"}]}`,
			wantKind:  model.EventPush,
			wantDesc:  "Pushed 5 commits to main",
		},
		{
			name:      "push single commit without size",
			eventType: "PushEvent",
			payload:   `{"ref":"refs/heads/dev","commits":[{"sha":"abc","message":"x"}]}`,
			wantKind:  model.EventPush,
			wantDesc:  "Pushed 1 commit to dev",
		},
		{
			name:      "push without ref",
			eventType: "PushEvent",
			payload:   `{"size":2}`,
			wantKind:  model.EventPush,
			wantDesc:  "Pushed 2 commits to unknown",
		},
		{
			name:      "pull request opened",
			eventType: "PullRequestEvent",
			payload:   `{"action":"opened","pull_request":{"number":7,"title":"Add cache"}}`,
			wantKind:  model.EventPROpened,
			wantDesc:  "Opened PR #7: Add cache",
		},
		{
			name:      "pull request merged",
			eventType: "PullRequestEvent",
			payload:   `{"action":"closed","pull_request":{"number":7,"title":"Add cache","merged":true}}`,
			wantKind:  model.EventPRMerged,
			wantDesc:  "Merged PR #7: Add cache",
		},
		{
			name:      "pull request closed unmerged",
			eventType: "PullRequestEvent",
			payload:   `{"action":"closed","pull_request":{"number":7,"title":"Add cache","merged":false}}`,
			wantKind:  model.EventPRClosed,
			wantDesc:  "Closed PR #7: Add cache",
		},
		{
			name:        "pull request reopened dropped",
			eventType:   "PullRequestEvent",
			payload:     `{"action":"reopened","pull_request":{"number":7}}`,
			wantDropped: true,
		},
		{
			name:      "pull request untitled",
			eventType: "PullRequestEvent",
			payload:   `{"action":"opened","pull_request":{"number":8}}`,
			wantKind:  model.EventPROpened,
			wantDesc:  "Opened PR #8: Untitled",
		},
		{
			name:      "issue opened",
			eventType: "IssuesEvent",
			payload:   `{"action":"opened","issue":{"number":3,"title":"Broken"}}`,
			wantKind:  model.EventIssueOpened,
			wantDesc:  "Opened issue #3: Broken",
		},
		{
			name:      "issue closed",
			eventType: "IssuesEvent",
			payload:   `{"action":"closed","issue":{"number":3,"title":"Broken"}}`,
			wantKind:  model.EventIssueClosed,
			wantDesc:  "Closed issue #3: Broken",
		},
		{
			name:        "issue labeled dropped",
			eventType:   "IssuesEvent",
			payload:     `{"action":"labeled","issue":{"number":3}}`,
			wantDropped: true,
		},
		{
			name:      "review approved",
			eventType: "PullRequestReviewEvent",
			payload:   `{"action":"created","review":{"state":"approved"},"pull_request":{"number":9,"title":"Refactor"}}`,
			wantKind:  model.EventReview,
			wantDesc:  "Approved PR #9: Refactor",
		},
		{
			name:      "review without state",
			eventType: "PullRequestReviewEvent",
			payload:   `{"pull_request":{"number":9,"title":"Refactor"}}`,
			wantKind:  model.EventReview,
			wantDesc:  "Reviewed PR #9: Refactor",
		},
		{
			name:      "comment on pull request",
			eventType: "IssueCommentEvent",
			payload:   `{"action":"created","issue":{"number":4,"title":"Docs","pull_request":{"url":"x"}},"comment":{"body":"lgtm"}}`,
			wantKind:  model.EventComment,
			wantDesc:  "Commented on PR #4: Docs",
		},
		{
			name:      "comment on issue",
			eventType: "IssueCommentEvent",
			payload:   `{"action":"created","issue":{"number":4,"title":"Docs","pull_request":null},"comment":{"body":"+1"}}`,
			wantKind:  model.EventComment,
			wantDesc:  "Commented on issue #4: Docs",
		},
		{
			name:      "commit comment",
			eventType: "CommitCommentEvent",
			payload:   `{"comment":{"commit_id":"1234567890abcdef","body":"nice"}}`,
			wantKind:  model.EventCommitComment,
			wantDesc:  "Commented on commit 1234567",
		},
		{
			name:      "commit comment without sha",
			eventType: "CommitCommentEvent",
			payload:   `{"comment":{"body":"nice"}}`,
			wantKind:  model.EventCommitComment,
			wantDesc:  "Commented on commit unknown",
		},
		{
			name:      "review comment",
			eventType: "PullRequestReviewCommentEvent",
			payload:   `{"action":"created","pull_request":{"number":9,"title":"Refactor"},"comment":{"body":"nit"}}`,
			wantKind:  model.EventReviewComment,
			wantDesc:  "Review comment on PR #9: Refactor",
		},
		{
			name:      "fork",
			eventType: "ForkEvent",
			payload:   `{"forkee":{"html_url":"https://github.com/alice/hello"}}`,
			wantKind:  model.EventFork,
			wantDesc:  "Forked octo/hello",
		},
		{
			name:      "star",
			eventType: "WatchEvent",
			payload:   `{"action":"started"}`,
			wantKind:  model.EventStar,
			wantDesc:  "Starred octo/hello",
		},
		{
			name:      "repository created",
			eventType: "CreateEvent",
			payload:   `{"ref_type":"repository"}`,
			wantKind:  model.EventRepoCreated,
			wantDesc:  "Created repository hello",
		},
		{
			name:      "branch created",
			eventType: "CreateEvent",
			payload:   `{"ref":"feature","ref_type":"branch"}`,
			wantKind:  model.EventBranchCreated,
			wantDesc:  "Created branch feature in hello",
		},
		{
			name:      "tag created",
			eventType: "CreateEvent",
			payload:   `{"ref":"v1.0.0","ref_type":"tag"}`,
			wantKind:  model.EventTagCreated,
			wantDesc:  "Created tag v1.0.0 in hello",
		},
		{
			name:        "create with unknown ref type dropped",
			eventType:   "CreateEvent",
			payload:     `{"ref":"x","ref_type":"gizmo"}`,
			wantDropped: true,
		},
		{
			name:      "branch deleted",
			eventType: "DeleteEvent",
			payload:   `{"ref":"feature","ref_type":"branch"}`,
			wantKind:  model.EventBranchDeleted,
			wantDesc:  "Deleted branch feature in hello",
		},
		{
			name:      "release published",
			eventType: "ReleaseEvent",
			payload:   `{"action":"published","release":{"tag_name":"v2.0","name":"Second"}}`,
			wantKind:  model.EventRelease,
			wantDesc:  "Published release v2.0: Second",
		},
		{
			name:        "release created dropped",
			eventType:   "ReleaseEvent",
			payload:     `{"action":"created","release":{"tag_name":"v2.0"}}`,
			wantDropped: true,
		},
		{
			name:        "unknown type dropped",
			eventType:   "GollumEvent",
			payload:     `{}`,
			wantDropped: true,
		},
		{
			name:        "malformed payload dropped",
			eventType:   "PushEvent",
			payload:     `{"size":`,
			wantDropped: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := Classify(rawEvent(tt.eventType, tt.payload))
			if tt.wantDropped {
				assert.False(t, ok)
				return
			}

			require.True(t, ok)
			assert.Equal(t, tt.wantKind, ev.Kind)
			assert.Equal(t, tt.wantDesc, ev.Description)
			assert.Equal(t, "1", ev.ID)
			assert.Equal(t, "hello", ev.Repo)
			assert.Equal(t, "https://github.com/octo/hello", ev.RepoURL)
			assert.Equal(t, "alice", ev.Account)
			assert.Equal(t, classifyTime, ev.Timestamp)
		})
	}
}

func TestClassify_PushDetail(t *testing.T) {
	payload := `{"ref":"refs/heads/main","size":12,"commits":[` +
		`{"sha":"abcdef1234567","message":"fix bug\n\nlonger body"},` +
		`{"sha":"0123456789abc","message":""}]}`

	ev, ok := Classify(rawEvent("PushEvent", payload))
	require.True(t, ok)

	assert.Equal(t, 12, ev.CommitCount)
	require.NotNil(t, ev.Detail)
	assert.Equal(t, "main", ev.Detail.Branch)
	assert.Equal(t, "https://github.com/octo/hello/commits/main", ev.Detail.URL)
	assert.Equal(t, []model.CommitRef{
		{SHA: "abcdef1", Message: "fix bug"},
		{SHA: "0123456", Message: "No message"},
	}, ev.Detail.Commits)
}

func TestClassify_PullRequestDetail(t *testing.T) {
	body := strings.Repeat("b", 250)
	payload := `{"action":"opened","pull_request":{"number":7,"title":"T","body":"` + body +
		`","html_url":"https://github.com/octo/hello/pull/7"}}`

	ev, ok := Classify(rawEvent("PullRequestEvent", payload))
	require.True(t, ok)
	require.NotNil(t, ev.Detail)

	assert.Equal(t, 7, ev.Detail.Number)
	assert.Equal(t, "opened", ev.Detail.Action)
	assert.Equal(t, "https://github.com/octo/hello/pull/7", ev.Detail.URL)
	assert.Len(t, ev.Detail.Body, 200)
}

func TestClassify_CommentBodyTruncatedByRunes(t *testing.T) {
	body := strings.Repeat("é", 300)
	payload := `{"issue":{"number":1,"title":"T"},"comment":{"body":"` + body + `"}}`

	ev, ok := Classify(rawEvent("IssueCommentEvent", payload))
	require.True(t, ok)
	require.NotNil(t, ev.Detail)

	assert.Equal(t, 150, utf8.RuneCountInString(ev.Detail.Body))
	assert.True(t, utf8.ValidString(ev.Detail.Body))
}

func TestClassify_CreateAndDeleteDetails(t *testing.T) {
	branch, ok := Classify(rawEvent("CreateEvent", `{"ref":"feature","ref_type":"branch"}`))
	require.True(t, ok)
	assert.Equal(t, "https://github.com/octo/hello/tree/feature", branch.Detail.URL)

	tag, ok := Classify(rawEvent("CreateEvent", `{"ref":"v1","ref_type":"tag"}`))
	require.True(t, ok)
	assert.Equal(t, "https://github.com/octo/hello/releases/tag/v1", tag.Detail.URL)

	deletedTag, ok := Classify(rawEvent("DeleteEvent", `{"ref":"v1","ref_type":"tag"}`))
	require.True(t, ok)
	assert.Equal(t, model.EventBranchDeleted, deletedTag.Kind)
	assert.Equal(t, "Deleted tag v1 in hello", deletedTag.Description)
	assert.Nil(t, deletedTag.Detail)
}

func TestClassifyAll_PreservesOrderAndDrops(t *testing.T) {
	raws := []model.RawEvent{
		rawEvent("WatchEvent", `{"action":"started"}`),
		rawEvent("GollumEvent", `{}`),
		rawEvent("ForkEvent", `{}`),
	}
	raws[0].ID, raws[1].ID, raws[2].ID = "a", "b", "c"

	events := ClassifyAll(raws)

	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].ID)
	assert.Equal(t, "c", events[1].ID)
}

func TestRepoShortName(t *testing.T) {
	assert.Equal(t, "hello", RepoShortName("octo/hello"))
	assert.Equal(t, "solo", RepoShortName("solo"))
	assert.Equal(t, "", RepoShortName(""))
}

func TestClassify_PushSizeExceedsListedCommits(t *testing.T) {
	payload := `{"ref":"refs/heads/main","size":3,"commits":[{"sha":"abcdef1234567","message":"only one"}]}`

	ev, ok := Classify(rawEvent("PushEvent", payload))
	require.True(t, ok)

	assert.Len(t, ev.Detail.Commits, 1)
	assert.Equal(t, "Pushed 3 commits to main", ev.Description)
}
