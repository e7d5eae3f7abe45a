package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/ericfisherdev/devfolio/internal/domain/model"
	"github.com/ericfisherdev/devfolio/internal/domain/port/driven"
)

const contributionsQuery = `query($login: String!, $from: DateTime, $to: DateTime) {
	user(login: $login) {
		contributionsCollection(from: $from, to: $to) {
			contributionCalendar {
				totalContributions
				weeks {
					contributionDays {
						contributionCount
						date
						weekday
					}
				}
			}
		}
	}
}`

// graphqlRequest is the JSON body sent to the GitHub GraphQL API.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// contributionsResponse represents the expected shape of a GitHub GraphQL
// response for the contribution calendar query.
type contributionsResponse struct {
	Data struct {
		User *struct {
			ContributionsCollection struct {
				ContributionCalendar struct {
					TotalContributions int `json:"totalContributions"`
					Weeks              []struct {
						ContributionDays []struct {
							ContributionCount int    `json:"contributionCount"`
							Date              string `json:"date"`
							Weekday           int    `json:"weekday"`
						} `json:"contributionDays"`
					} `json:"weeks"`
				} `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// errUserNotFound is returned when the GraphQL API resolves no user for the login.
var errUserNotFound = errors.New("github user not found")

// FetchContributions queries the contribution calendar of the account for the
// optional [from, to] window. Accounts without a credential fail with
// driven.ErrMissingCredential before any request is made: the GraphQL API
// rejects anonymous calls.
func (c *Client) FetchContributions(
	ctx context.Context,
	account model.Account,
	from, to *time.Time,
) (*model.ContributionCalendar, error) {
	if !account.HasCredential() {
		c.metrics.observeFetch("contributions", account.ID, driven.ErrMissingCredential)
		return nil, fmt.Errorf("contributions for %s: %w", account.ID, driven.ErrMissingCredential)
	}

	calendar, err := c.queryContributions(ctx, account, from, to)
	c.metrics.observeFetch("contributions", account.ID, err)
	if err != nil {
		return nil, fmt.Errorf("contributions for %s: %w", account.ID, err)
	}
	return calendar, nil
}

func (c *Client) queryContributions(
	ctx context.Context,
	account model.Account,
	from, to *time.Time,
) (*model.ContributionCalendar, error) {
	variables := map[string]any{"login": account.ID}
	if from != nil {
		variables["from"] = from.UTC().Format(time.RFC3339)
	}
	if to != nil {
		variables["to"] = to.UTC().Format(time.RFC3339)
	}

	bodyBytes, err := json.Marshal(graphqlRequest{Query: contributionsQuery, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("marshaling contributions query: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating contributions request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.graphqlClient(ctx, account.Credential).Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("contributions request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("contributions request: HTTP %d", resp.StatusCode)
	}

	var gqlResp contributionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return nil, fmt.Errorf("decoding contributions response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		return nil, fmt.Errorf("contributions query: %s", gqlResp.Errors[0].Message)
	}
	if gqlResp.Data.User == nil {
		return nil, errUserNotFound
	}

	return mapCalendar(gqlResp), nil
}

// graphqlClient returns an HTTP client that sends token as a bearer
// credential over the shared transport stack.
func (c *Client) graphqlClient(ctx context.Context, token string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
}

func mapCalendar(resp contributionsResponse) *model.ContributionCalendar {
	src := resp.Data.User.ContributionsCollection.ContributionCalendar

	weeks := make([]model.ContributionWeek, 0, len(src.Weeks))
	for _, w := range src.Weeks {
		days := make([]model.ContributionDay, 0, len(w.ContributionDays))
		for _, d := range w.ContributionDays {
			days = append(days, model.ContributionDay{
				Date:    d.Date,
				Weekday: d.Weekday,
				Count:   d.ContributionCount,
			})
		}
		weeks = append(weeks, model.ContributionWeek{Days: days})
	}

	return &model.ContributionCalendar{
		TotalContributions: src.TotalContributions,
		Weeks:              weeks,
	}
}
