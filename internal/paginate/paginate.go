// Package paginate drives the two paging styles used by the Tempo and Jira APIs.
package paginate

import (
	"context"
	"fmt"
)

// Page is one response of an offset/limit API that signals continuation with a next marker.
type Page[T any] struct {
	Results []T
	Offset  int
	Limit   int
	HasNext bool
}

// Window is one response of a startAt/maxResults API that reports a total.
type Window[T any] struct {
	Items      []T
	StartAt    int
	MaxResults int
	Total      int
}

// All walks an offset-style API starting at offset 0 with the given limit,
// advancing by each page's reported limit until a page carries no next marker.
func All[T any](ctx context.Context, limit int, fetch func(ctx context.Context, offset, limit int) (Page[T], error)) ([]T, error) {
	var results []T
	offset := 0
	for page := 1; ; page++ {
		p, err := fetch(ctx, offset, limit)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		results = append(results, p.Results...)

		if !p.HasNext {
			return results, nil
		}
		step := p.Limit
		if step <= 0 {
			step = len(p.Results)
		}
		if step <= 0 {
			return results, nil
		}
		offset = p.Offset + step
	}
}

// Collect walks a startAt-style API. It stops once the accumulated items reach
// the total reported by the first window and the next startAt would reach it too.
func Collect[T any](ctx context.Context, maxResults int, fetch func(ctx context.Context, startAt, maxResults int) (Window[T], error)) ([]T, error) {
	var items []T
	startAt := 0
	total := -1
	for page := 1; ; page++ {
		w, err := fetch(ctx, startAt, maxResults)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		items = append(items, w.Items...)
		if total < 0 {
			total = w.Total
		}

		if w.MaxResults <= 0 || len(w.Items) == 0 {
			return items, nil
		}
		startAt += w.MaxResults
		if len(items) >= total || startAt >= total {
			return items, nil
		}
	}
}
