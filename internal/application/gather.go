package application

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/devfolio/internal/domain/model"
)

// Sourced is the settled outcome of one per-account fetch. Exactly one of
// Value or Err is meaningful.
type Sourced[T any] struct {
	Account model.Account
	Value   T
	Err     error
}

// OK reports whether the fetch succeeded.
func (s Sourced[T]) OK() bool {
	return s.Err == nil
}

// Gather issues fetch for every account concurrently and waits for all of
// them to settle. A failing account never cancels the others; its error is
// recorded in its slot. Results keep the order of accounts.
//
// If ctx is cancelled before every fetch settles, Gather returns ctx.Err()
// and no results, so partially completed work is never merged.
func Gather[T any](
	ctx context.Context,
	accounts []model.Account,
	fetch func(context.Context, model.Account) (T, error),
) ([]Sourced[T], error) {
	results := make([]Sourced[T], len(accounts))

	var g errgroup.Group
	for i, account := range accounts {
		g.Go(func() error {
			value, err := fetch(ctx, account)
			results[i] = Sourced[T]{Account: account, Value: value, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// AllFailed reports whether no account produced a value. An empty result set
// counts as total failure.
func AllFailed[T any](results []Sourced[T]) bool {
	for _, r := range results {
		if r.OK() {
			return false
		}
	}
	return true
}
