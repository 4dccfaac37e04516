package graph

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/graph-client/internal/constants"
)

// EdgeLister fetches one page of an edge by path. The concrete client's
// Edges() accessor satisfies EdgeLister[Object]; EdgeListerFunc adapts
// typed list methods.
type EdgeLister[T any] interface {
	ListWithPath(ctx context.Context, path string, params *Params) (*Edge[T], error)
}

// EdgeListerFunc adapts a function to the EdgeLister interface.
type EdgeListerFunc[T any] func(ctx context.Context, path string, params *Params) (*Edge[T], error)

// ListWithPath implements EdgeLister.
func (f EdgeListerFunc[T]) ListWithPath(ctx context.Context, path string, params *Params) (*Edge[T], error) {
	return f(ctx, path, params)
}

// PaginationOptions controls multi-page fetch helpers.
type PaginationOptions struct {
	PageSize int // Items per page; 0 keeps the API default
	MaxPages int // Hard page cap; 0 means no cap
}

// DefaultPaginationOptions returns options suited to bulk fetches.
func DefaultPaginationOptions() *PaginationOptions {
	return &PaginationOptions{
		PageSize: constants.LargePageLimit,
		MaxPages: constants.MaxPages,
	}
}

// EdgeResult carries one page of items or a terminal error on a stream.
type EdgeResult[T any] struct {
	Items []T
	Err   error
}

// EdgeIterator walks the items of an edge across page boundaries,
// fetching pages lazily.
type EdgeIterator[T any] struct {
	ctx     context.Context
	client  EdgeLister[T]
	path    string
	params  *Params
	current *Edge[T]
	index   int
}

// NewEdgeIterator creates an iterator over the edge at path.
func NewEdgeIterator[T any](ctx context.Context, client EdgeLister[T], path string, params *Params) *EdgeIterator[T] {
	return &EdgeIterator[T]{
		ctx:    ctx,
		client: client,
		path:   path,
		params: cloneParams(params),
	}
}

// HasNext reports whether another item is available without forcing a
// fetch; before the first fetch it is optimistically true.
func (it *EdgeIterator[T]) HasNext() bool {
	if it.current == nil {
		return true
	}

	if it.index < len(it.current.Data) {
		return true
	}

	return it.current.Paging != nil && it.current.Paging.Next != ""
}

// Next returns the next item, fetching the next page when the current
// one is exhausted. Returns ErrNoMoreItems past the last item.
func (it *EdgeIterator[T]) Next() (T, error) {
	for it.current == nil || it.index >= len(it.current.Data) {
		err := it.fetchNextPage()
		if err != nil {
			var zero T

			return zero, err
		}
	}

	item := it.current.Data[it.index]
	it.index++

	return item, nil
}

// All drains the iterator and returns every remaining item.
func (it *EdgeIterator[T]) All() ([]T, error) {
	var all []T

	for {
		item, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				return all, nil
			}

			return nil, err
		}

		all = append(all, item)
	}
}

// ForEach applies fn to every remaining item, stopping on the first error.
func (it *EdgeIterator[T]) ForEach(fn func(item T) error) error {
	for {
		item, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				return nil
			}

			return err
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}
}

func (it *EdgeIterator[T]) fetchNextPage() error {
	if it.current != nil {
		next, ok := nextPageParams(it.params, it.current.Paging)
		if !ok {
			return ErrNoMoreItems
		}

		it.params = next
	}

	edge, err := it.client.ListWithPath(it.ctx, it.path, it.params)
	if err != nil {
		return fmt.Errorf("listing %s: %w", it.path, err)
	}

	it.current = edge
	it.index = 0

	// An empty page ends iteration even when a next link is present.
	if len(edge.Data) == 0 {
		return ErrNoMoreItems
	}

	return nil
}

// FetchAllEdges fetches every page of an edge and returns the combined
// items. Options can cap the page count and override the page size.
func FetchAllEdges[T any](ctx context.Context, client EdgeLister[T], path string, params *Params, options *PaginationOptions) ([]T, error) {
	pageParams := cloneParams(params)

	maxPages := 0
	if options != nil {
		maxPages = options.MaxPages

		if options.PageSize > 0 {
			pageParams.Limit = options.PageSize
		}
	}

	var all []T

	for page := 1; ; page++ {
		edge, err := client.ListWithPath(ctx, path, pageParams)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d of %s: %w", page, path, err)
		}

		all = append(all, edge.Data...)

		if maxPages > 0 && page >= maxPages {
			break
		}

		next, ok := nextPageParams(pageParams, edge.Paging)
		if !ok || len(edge.Data) == 0 {
			break
		}

		pageParams = next
	}

	return all, nil
}

// StreamPages fetches pages sequentially and delivers them on the
// returned channel, one EdgeResult per page. The channel closes after
// the last page, the first error, or context cancellation.
func StreamPages[T any](ctx context.Context, client EdgeLister[T], path string, params *Params, options *PaginationOptions) <-chan EdgeResult[T] {
	results := make(chan EdgeResult[T], 1)

	pageParams := cloneParams(params)

	maxPages := 0
	if options != nil {
		maxPages = options.MaxPages

		if options.PageSize > 0 {
			pageParams.Limit = options.PageSize
		}
	}

	go func() {
		defer close(results)

		for page := 1; ; page++ {
			edge, err := client.ListWithPath(ctx, path, pageParams)
			if err != nil {
				results <- EdgeResult[T]{Err: fmt.Errorf("fetching page %d of %s: %w", page, path, err)}

				return
			}

			select {
			case results <- EdgeResult[T]{Items: edge.Data}:
			case <-ctx.Done():
				return
			}

			if maxPages > 0 && page >= maxPages {
				return
			}

			next, ok := nextPageParams(pageParams, edge.Paging)
			if !ok || len(edge.Data) == 0 {
				return
			}

			pageParams = next
		}
	}()

	return results
}

// nextPageParams derives the params for the page after the one paging
// describes. Cursor paging is preferred; otherwise the next URL's query
// is folded back into params. The second return is false when there is
// no further page.
func nextPageParams(base *Params, paging *Paging) (*Params, bool) {
	if paging == nil || paging.Next == "" {
		return nil, false
	}

	next := cloneParams(base)
	next.After = ""
	next.Before = ""

	if paging.Cursors != nil && paging.Cursors.After != "" {
		next.After = paging.Cursors.After

		return next, true
	}

	parsed, err := url.Parse(paging.Next)
	if err != nil {
		return nil, false
	}

	for key, vals := range parsed.Query() {
		if len(vals) == 0 {
			continue
		}

		switch key {
		case "access_token", "appsecret_proof", "fields":
			// Re-added by the transport and base params.
		case "after":
			next.After = vals[0]
		case "before":
			next.Before = vals[0]
		case "since":
			next.Since = vals[0]
		case "until":
			next.Until = vals[0]
		case "limit":
			next.Limit, _ = strconv.Atoi(vals[0])
		case "offset":
			next.Offset, _ = strconv.Atoi(vals[0])
		default:
			next.Extra[key] = vals
		}
	}

	return next, true
}

func cloneParams(params *Params) *Params {
	clone := NewParams()

	if params == nil {
		return clone
	}

	clone.Fields = append(clone.Fields, params.Fields...)
	clone.Limit = params.Limit
	clone.Offset = params.Offset
	clone.Since = params.Since
	clone.Until = params.Until
	clone.After = params.After
	clone.Before = params.Before
	clone.Summary = params.Summary
	clone.Metadata = params.Metadata
	clone.Locale = params.Locale

	for key, vals := range params.Extra {
		clone.Extra[key] = append([]string(nil), vals...)
	}

	return clone
}
