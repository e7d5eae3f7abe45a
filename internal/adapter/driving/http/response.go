package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/devfolio/internal/application"
	"github.com/ericfisherdev/devfolio/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// ContributionDayResponse is the JSON representation of one calendar day.
type ContributionDayResponse struct {
	ContributionCount int    `json:"contributionCount"`
	Date              string `json:"date"`
	Weekday           int    `json:"weekday"`
}

// ContributionWeekResponse is the JSON representation of one calendar week.
type ContributionWeekResponse struct {
	ContributionDays []ContributionDayResponse `json:"contributionDays"`
}

// ContributionsResponse is the JSON representation of a merged contribution calendar.
type ContributionsResponse struct {
	TotalContributions int                        `json:"totalContributions"`
	Weeks              []ContributionWeekResponse `json:"weeks"`
}

// SummaryResponse is the JSON representation of the activity counters.
type SummaryResponse struct {
	PushCount        int `json:"pushCount"`
	CommitCount      int `json:"commitCount"`
	PROpenedCount    int `json:"prOpenedCount"`
	PRMergedCount    int `json:"prMergedCount"`
	PRClosedCount    int `json:"prClosedCount"`
	IssueOpenedCount int `json:"issueOpenedCount"`
	IssueClosedCount int `json:"issueClosedCount"`
	ReviewCount      int `json:"reviewCount"`
	CommentCount     int `json:"commentCount"`
	ForkCount        int `json:"forkCount"`
	StarCount        int `json:"starCount"`
	RepoCreatedCount int `json:"repoCreatedCount"`
}

// CommitResponse is the JSON representation of a pushed commit.
type CommitResponse struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
}

// EventDetailResponse holds the kind-specific event fields. Empty fields are omitted.
type EventDetailResponse struct {
	Title   string           `json:"title,omitempty"`
	Body    string           `json:"body,omitempty"`
	URL     string           `json:"url,omitempty"`
	Commits []CommitResponse `json:"commits,omitempty"`
	Branch  string           `json:"branch,omitempty"`
	Action  string           `json:"action,omitempty"`
	Number  int              `json:"number,omitempty"`
}

// EventResponse is the JSON representation of a normalized activity event.
type EventResponse struct {
	ID          string               `json:"id"`
	Type        string               `json:"type"`
	Repo        string               `json:"repo"`
	RepoURL     string               `json:"repoUrl,omitempty"`
	Timestamp   time.Time            `json:"timestamp"`
	Description string               `json:"description"`
	Account     string               `json:"account"`
	Details     *EventDetailResponse `json:"details,omitempty"`
}

// EventsResponse is the JSON representation of the events aggregation.
type EventsResponse struct {
	Summary        SummaryResponse `json:"summary"`
	RecentRepos    []string        `json:"recentRepos"`
	TotalEvents    int             `json:"totalEvents"`
	DetailedEvents []EventResponse `json:"detailedEvents"`
}

// CategoryResponse describes one chart category.
type CategoryResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// DailyBucketResponse is the JSON representation of one rollup day.
type DailyBucketResponse struct {
	Date   string         `json:"date"`
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// DailyActivityResponse is the JSON representation of the daily rollup.
type DailyActivityResponse struct {
	Categories []CategoryResponse    `json:"categories"`
	Days       []DailyBucketResponse `json:"days"`
}

// ContactRequest is the JSON body for the contact endpoint.
type ContactRequest struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactResponse is returned when a contact message was accepted.
type ContactResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Accounts int    `json:"accounts"`
}

func toContributionsResponse(c model.ContributionCalendar) ContributionsResponse {
	weeks := make([]ContributionWeekResponse, 0, len(c.Weeks))
	for _, w := range c.Weeks {
		days := make([]ContributionDayResponse, 0, len(w.Days))
		for _, d := range w.Days {
			days = append(days, ContributionDayResponse{
				ContributionCount: d.Count,
				Date:              d.Date,
				Weekday:           d.Weekday,
			})
		}
		weeks = append(weeks, ContributionWeekResponse{ContributionDays: days})
	}

	return ContributionsResponse{
		TotalContributions: c.TotalContributions,
		Weeks:              weeks,
	}
}

func toSummaryResponse(s model.ActivitySummary) SummaryResponse {
	return SummaryResponse{
		PushCount:        s.Pushes,
		CommitCount:      s.Commits,
		PROpenedCount:    s.PROpened,
		PRMergedCount:    s.PRMerged,
		PRClosedCount:    s.PRClosed,
		IssueOpenedCount: s.IssuesOpened,
		IssueClosedCount: s.IssuesClosed,
		ReviewCount:      s.Reviews,
		CommentCount:     s.Comments,
		ForkCount:        s.Forks,
		StarCount:        s.Stars,
		RepoCreatedCount: s.ReposCreated,
	}
}

func toEventResponse(ev model.NormalizedEvent) EventResponse {
	resp := EventResponse{
		ID:          ev.ID,
		Type:        string(ev.Kind),
		Repo:        ev.Repo,
		RepoURL:     ev.RepoURL,
		Timestamp:   ev.Timestamp.UTC(),
		Description: ev.Description,
		Account:     ev.Account,
	}

	if d := ev.Detail; d != nil {
		var commits []CommitResponse
		for _, c := range d.Commits {
			commits = append(commits, CommitResponse{SHA: c.SHA, Message: c.Message})
		}
		resp.Details = &EventDetailResponse{
			Title:   d.Title,
			Body:    d.Body,
			URL:     d.URL,
			Commits: commits,
			Branch:  d.Branch,
			Action:  d.Action,
			Number:  d.Number,
		}
	}

	return resp
}

func toEventsResponse(r model.ActivityReport) EventsResponse {
	events := make([]EventResponse, 0, len(r.Events))
	for _, ev := range r.Events {
		events = append(events, toEventResponse(ev))
	}

	recent := r.RecentRepos
	if recent == nil {
		recent = []string{}
	}

	return EventsResponse{
		Summary:        toSummaryResponse(r.Summary),
		RecentRepos:    recent,
		TotalEvents:    r.TotalEvents,
		DetailedEvents: events,
	}
}

func toDailyActivityResponse(buckets []model.DailyBucket) DailyActivityResponse {
	categories := make([]CategoryResponse, 0, len(application.ActivityCategories))
	for _, c := range application.ActivityCategories {
		categories = append(categories, CategoryResponse{Key: c.Key, Label: c.Label, Color: c.Color})
	}

	days := make([]DailyBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		days = append(days, DailyBucketResponse{Date: b.Date, Counts: b.Counts, Total: b.Total()})
	}

	return DailyActivityResponse{Categories: categories, Days: days}
}
