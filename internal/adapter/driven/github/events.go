package github

import (
	"context"
	"fmt"
	"time"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/devfolio/internal/domain/model"
)

const (
	eventsPerPage  = 100
	eventsMaxPages = 10
)

// FetchEvents returns the account's public events created at or after since,
// newest first as the upstream orders them. Pages are requested until one
// is empty, the page limit is reached, or a page reaches past since.
//
// Accounts without a credential are fetched unauthenticated. A failure on a
// later page keeps what was already read; an error is returned only when
// nothing was accumulated.
func (c *Client) FetchEvents(ctx context.Context, account model.Account, since time.Time) ([]model.RawEvent, error) {
	client := c.restFor(account.Credential)

	var events []model.RawEvent
	for page := 1; page <= eventsMaxPages; page++ {
		opts := &gh.ListOptions{PerPage: eventsPerPage, Page: page}

		batch, resp, err := client.Activity.ListEventsPerformedByUser(ctx, account.ID, false, opts)
		if err != nil {
			if len(events) > 0 {
				c.logger.Warn("events page failed, keeping earlier pages",
					"account", account.ID,
					"page", page,
					"error", err,
				)
				break
			}
			c.metrics.observeFetch("events", account.ID, err)
			return nil, fmt.Errorf("listing events for %s (page %d): %w", account.ID, page, err)
		}

		c.logRateLimit(resp, "events/"+account.ID, page, len(batch))

		if len(batch) == 0 {
			break
		}

		reachedCutoff := false
		for _, e := range batch {
			created := e.GetCreatedAt().Time
			if created.Before(since) {
				reachedCutoff = true
				continue
			}
			events = append(events, mapEvent(e, account.ID))
		}

		if reachedCutoff || len(batch) < eventsPerPage {
			break
		}
	}

	c.metrics.observeFetch("events", account.ID, nil)

	if events == nil {
		events = []model.RawEvent{}
	}
	return events, nil
}

// mapEvent converts a go-github Event to a domain RawEvent.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapEvent(e *gh.Event, accountID string) model.RawEvent {
	var payload []byte
	if e.RawPayload != nil {
		payload = *e.RawPayload
	}

	return model.RawEvent{
		ID:           e.GetID(),
		Type:         e.GetType(),
		CreatedAt:    e.GetCreatedAt().Time,
		RepoFullName: e.GetRepo().GetName(),
		Account:      accountID,
		Payload:      payload,
	}
}
