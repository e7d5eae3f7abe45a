package driven

import (
	"context"
	"errors"
	"time"

	"github.com/ericfisherdev/devfolio/internal/domain/model"
)

// ErrMissingCredential is returned when an account has no resolved token and
// the upstream call requires one. No network call is made in that case.
var ErrMissingCredential = errors.New("account has no credential")

// ContributionSource defines the driven port for per-account contribution calendars.
type ContributionSource interface {
	// FetchContributions returns the account's daily contribution calendar for
	// the window [from, to]. Nil bounds mean the upstream default (full history).
	// Transport failures, non-2xx statuses and error envelopes are returned as errors.
	FetchContributions(ctx context.Context, account model.Account, from, to *time.Time) (*model.ContributionCalendar, error)
}
