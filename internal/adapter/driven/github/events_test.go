package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghAdapter "github.com/ericfisherdev/devfolio/internal/adapter/driven/github"
	"github.com/ericfisherdev/devfolio/internal/domain/model"
)

// eventJSON is a helper struct for building GitHub API event responses.
type eventJSON struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Repo      repoJSON        `json:"repo"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt string          `json:"created_at"`
}

type repoJSON struct {
	Name string `json:"name"`
}

var eventsNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func eventAt(id string, age time.Duration) eventJSON {
	return eventJSON{
		ID:        id,
		Type:      "WatchEvent",
		Repo:      repoJSON{Name: "octo/hello"},
		Payload:   json.RawMessage(`{"action":"started"}`),
		CreatedAt: eventsNow.Add(-age).Format(time.RFC3339),
	}
}

func fullPage(start int, age time.Duration) []eventJSON {
	page := make([]eventJSON, 100)
	for i := range page {
		page[i] = eventAt(strconv.Itoa(start+i), age)
	}
	return page
}

func TestFetchEvents_SinglePage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/alice/events", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		assert.Equal(t, "Bearer alice-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]eventJSON{
			{
				ID:        "42",
				Type:      "PushEvent",
				Repo:      repoJSON{Name: "alice/site"},
				Payload:   json.RawMessage(`{"ref":"refs/heads/main","size":3}`),
				CreatedAt: eventsNow.Add(-time.Hour).Format(time.RFC3339),
			},
			eventAt("41", 2*time.Hour),
		})
	}))

	account := model.Account{ID: "alice", Credential: "alice-token"}
	events, err := client.FetchEvents(context.Background(), account, eventsNow.Add(-24*time.Hour))
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, "42", events[0].ID)
	assert.Equal(t, "PushEvent", events[0].Type)
	assert.Equal(t, "alice/site", events[0].RepoFullName)
	assert.Equal(t, "alice", events[0].Account)
	assert.Equal(t, eventsNow.Add(-time.Hour), events[0].CreatedAt.UTC())
	assert.JSONEq(t, `{"ref":"refs/heads/main","size":3}`, string(events[0].Payload))
}

func TestFetchEvents_Unauthenticated(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))

	events, err := client.FetchEvents(context.Background(), model.Account{ID: "anon"}, eventsNow.Add(-time.Hour))
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestFetchEvents_StopsAtCutoff(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Query().Get("page") {
		case "1":
			_ = json.NewEncoder(w).Encode(fullPage(0, time.Hour))
		case "2":
			page := fullPage(100, 2*time.Hour)
			for i := 50; i < len(page); i++ {
				page[i] = eventAt(strconv.Itoa(100+i), 72*time.Hour)
			}
			_ = json.NewEncoder(w).Encode(page)
		default:
			t.Errorf("unexpected page %s", r.URL.Query().Get("page"))
		}
	}))

	events, err := client.FetchEvents(context.Background(), model.Account{ID: "alice"}, eventsNow.Add(-24*time.Hour))
	require.NoError(t, err)

	assert.Len(t, events, 150)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchEvents_LaterPageFailureKeepsEarlierPages(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(fullPage(0, time.Hour))
	}))

	events, err := client.FetchEvents(context.Background(), model.Account{ID: "alice"}, eventsNow.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, events, 100)
}

func TestFetchEvents_FirstPageFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := ghAdapter.NewMetrics(reg)

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}), ghAdapter.WithMetrics(metrics))

	_, err := client.FetchEvents(context.Background(), model.Account{ID: "ghost"}, eventsNow.Add(-time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FetchCounter("events", "ghost", "error")), 0)
}

func TestFetchEvents_PageLimit(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(fullPage(int(n)*100, time.Minute))
	}))

	events, err := client.FetchEvents(context.Background(), model.Account{ID: "busy"}, eventsNow.Add(-24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, int32(10), calls.Load())
	assert.Len(t, events, 1000)
	assert.Equal(t, "100", events[0].ID)
}
