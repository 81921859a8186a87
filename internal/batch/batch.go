// Package batch runs fan-out API saves and aggregates their outcomes with
// per-item detail. A batch never collapses to a single boolean: callers get
// the overall state (success, partial, failure) plus exactly which items
// failed and why, so the UI can report "saved 2/3 markets; failed: India"
// instead of masking partial failures.
package batch

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// State is the overall outcome of a batch.
type State int

const (
	StateSuccess State = iota // every item saved
	StatePartial              // some items saved, some failed
	StateFailure              // every item failed
)

// ItemResult is the outcome of one item in the batch.
type ItemResult struct {
	Name string
	Err  error
}

// Result aggregates a whole fan-out. Items keep the caller's submission
// order regardless of completion order.
type Result struct {
	Items []ItemResult
}

// maxConcurrent bounds the fan-out so a large batch does not open one
// connection per item against the backend.
const maxConcurrent = 4

// Run executes fn once per name in parallel and collects every outcome.
// Item failures are recorded, not propagated: one failing item never
// cancels its siblings, because each PUT is independent on the backend.
// Only ctx cancellation stops the batch early; already-recorded outcomes
// are still returned.
func Run(ctx context.Context, names []string, fn func(ctx context.Context, name string) error) Result {
	res := Result{Items: make([]ItemResult, len(names))}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrent)

	for i, name := range names {
		res.Items[i].Name = name
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				res.Items[i].Err = err
				return nil
			}
			res.Items[i].Err = fn(egCtx, name)
			return nil
		})
	}

	// Workers always return nil, so this cannot fail.
	_ = eg.Wait()
	return res
}

// State derives the overall outcome from the per-item results. An empty
// batch counts as success.
func (r Result) State() State {
	failed := len(r.FailedNames())
	switch {
	case failed == 0:
		return StateSuccess
	case failed == len(r.Items):
		return StateFailure
	default:
		return StatePartial
	}
}

// OK reports whether every item succeeded.
func (r Result) OK() bool {
	return r.State() == StateSuccess
}

// FailedNames returns the names of the failed items in submission order.
func (r Result) FailedNames() []string {
	var names []string
	for _, it := range r.Items {
		if it.Err != nil {
			names = append(names, it.Name)
		}
	}
	return names
}

// FirstErr returns the first failure in submission order, or nil.
func (r Result) FirstErr() error {
	for _, it := range r.Items {
		if it.Err != nil {
			return it.Err
		}
	}
	return nil
}

// Summary renders the banner line for a batch, e.g. with verb "saved" and
// plural "markets":
//
//	saved 3 markets
//	saved 2/3 markets; failed: India
//	saved 0/3 markets: connection refused
func (r Result) Summary(verb, plural string) string {
	total := len(r.Items)
	failed := r.FailedNames()
	switch r.State() {
	case StateSuccess:
		return fmt.Sprintf("%s %d %s", verb, total, plural)
	case StateFailure:
		return fmt.Sprintf("%s 0/%d %s: %v", verb, total, plural, r.FirstErr())
	default:
		return fmt.Sprintf("%s %d/%d %s; failed: %s",
			verb, total-len(failed), total, plural, strings.Join(failed, ", "))
	}
}
