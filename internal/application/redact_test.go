package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/devfolio/internal/domain/model"
)

func sampleEvents() []model.NormalizedEvent {
	at := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	return []model.NormalizedEvent{
		{
			ID: "1", Kind: model.EventPush, Repo: "site", RepoURL: "https://github.com/alice/site",
			Timestamp: at, Account: "alice", Description: "Pushed 2 commits to main",
			Detail: &model.EventDetail{Branch: "main"}, CommitCount: 2,
		},
		{
			ID: "2", Kind: model.EventPROpened, Repo: "billing", RepoURL: "https://github.com/corp/billing",
			Timestamp: at.Add(-time.Hour), Account: "corp", Description: "Opened PR #4: Secret",
			Detail: &model.EventDetail{Title: "Secret", Number: 4},
		},
		{
			ID: "3", Kind: model.EventPush, Repo: "billing", RepoURL: "https://github.com/corp/billing",
			Timestamp: at.Add(-2 * time.Hour), Account: "corp", Description: "Pushed 7 commits to hotfix",
			Detail: &model.EventDetail{Branch: "hotfix"}, CommitCount: 7,
		},
	}
}

func TestRedact_ConfinesSensitiveAccount(t *testing.T) {
	events := sampleEvents()

	redacted := Redact(events, "corp")

	require.Len(t, redacted, 3)
	assert.Equal(t, events[0], redacted[0])

	for _, ev := range redacted[1:] {
		assert.Equal(t, RedactedRepo, ev.Repo)
		assert.Empty(t, ev.RepoURL)
		assert.Nil(t, ev.Detail)
		assert.NotContains(t, ev.Description, "billing")
		assert.NotContains(t, ev.Description, "Secret")
		assert.NotContains(t, ev.Description, "hotfix")
	}
	assert.Equal(t, "Opened a PR at work", redacted[1].Description)
	assert.Equal(t, "Pushed commits at work", redacted[2].Description)
	assert.Equal(t, 7, redacted[2].CommitCount)
	assert.Equal(t, "3", redacted[2].ID)
}

func TestRedact_DoesNotMutateInput(t *testing.T) {
	events := sampleEvents()

	_ = Redact(events, "corp")

	assert.Equal(t, "billing", events[1].Repo)
	assert.NotNil(t, events[1].Detail)
}

func TestRedact_EmptySensitiveIDIsNoop(t *testing.T) {
	events := sampleEvents()

	assert.Equal(t, events, Redact(events, ""))
}

func TestRedact_Idempotent(t *testing.T) {
	once := Redact(sampleEvents(), "corp")
	twice := Redact(once, "corp")

	assert.Equal(t, once, twice)
}

func TestRedactedDescription_Fallback(t *testing.T) {
	assert.Equal(t, "Activity at work", RedactedDescription(model.EventKind("mystery")))
	assert.Equal(t, "Deleted a branch at work", RedactedDescription(model.EventBranchDeleted))
}
