// Package list fetches one page of a resource from the upstream API and
// tracks the request lifecycle for the view.
package list

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/cofre-app/cofre/internal/platform/httpx"
	"github.com/cofre-app/cofre/internal/platform/upstream"
	"github.com/cofre-app/cofre/internal/query"
)

// Status is the lifecycle of the latest fetch.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ErrStale marks a fetch that finished after a newer one was issued. Its
// result has been discarded.
var ErrStale = errors.New("list: stale fetch discarded")

// Fetcher loads pages of one resource. Each Fetch carries a monotonic
// sequence; a completion that is no longer the latest issued sequence never
// commits, so an out-of-order response cannot overwrite newer state.
type Fetcher struct {
	client *upstream.Client
	path   string
	extra  url.Values // extra named filters merged into every request

	mu     sync.Mutex
	seq    uint64
	status Status
	items  []map[string]any
	total  int
	err    *httpx.Error
}

// Result is a snapshot of the fetcher state.
type Result struct {
	Status Status
	Items  []map[string]any
	Total  int
	Err    *httpx.Error
}

// NewFetcher builds a Fetcher for an upstream list path. extra may be nil.
func NewFetcher(client *upstream.Client, path string, extra url.Values) *Fetcher {
	return &Fetcher{client: client, path: path, extra: extra, status: StatusIdle}
}

// Fetch loads the page described by q, attaching token when non-empty.
// Failures are committed as normalized errors; a stale completion returns
// ErrStale and leaves the state untouched.
func (f *Fetcher) Fetch(ctx context.Context, q query.ListQuery, token string) error {
	f.mu.Lock()
	f.seq++
	seq := f.seq
	f.status = StatusPending
	f.mu.Unlock()

	values := q.RequestValues()
	for key, extras := range f.extra {
		for _, v := range extras {
			values.Add(key, v)
		}
	}

	res, err := f.client.Do(ctx, "GET", f.path, values, nil, token)

	f.mu.Lock()
	defer f.mu.Unlock()
	if seq != f.seq {
		return ErrStale
	}

	if err != nil {
		var fault *upstream.Fault
		normalized := httpx.Normalize(err)
		if errors.As(err, &fault) {
			normalized = fault.Normalize()
		}
		f.status = StatusError
		f.err = normalized
		return normalized
	}

	var items []map[string]any
	if err := res.DecodeJSON(&items); err != nil {
		f.status = StatusError
		f.err = httpx.NewError(0, "", httpx.GenericDetail)
		return f.err
	}

	f.status = StatusSuccess
	f.items = items
	f.err = nil
	f.total = 0
	if total := res.Total(); total != nil {
		f.total = *total
	}
	return nil
}

// Snapshot returns the current state.
func (f *Fetcher) Snapshot() Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Result{Status: f.status, Items: f.items, Total: f.total, Err: f.err}
}
