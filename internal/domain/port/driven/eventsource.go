package driven

import (
	"context"
	"time"

	"github.com/ericfisherdev/devfolio/internal/domain/model"
)

// EventSource defines the driven port for per-account raw activity feeds.
type EventSource interface {
	// FetchEvents returns the account's raw events created at or after since,
	// newest first, each tagged with the account id. A failure on a later page
	// stops pagination and keeps the pages already read; only a failure with
	// nothing accumulated is returned as an error.
	FetchEvents(ctx context.Context, account model.Account, since time.Time) ([]model.RawEvent, error)
}
