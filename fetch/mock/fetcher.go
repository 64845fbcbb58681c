package mock

import (
	"context"
	"sync"

	"github.com/poiesic/jobhunter/core"
	"github.com/poiesic/jobhunter/fetch"
)

// Item is a scripted provider item.
type Item struct {
	Title   string
	Link    string
	Snippet string
}

// Record is shorthand for building an Item.
func Record(title, link, snippet string) Item {
	return Item{Title: title, Link: link, Snippet: snippet}
}

// Fetcher is a test double for fetch.Fetcher.
// It is safe for concurrent use.
type Fetcher struct {
	// FetchFunc is called by Fetch if set, bypassing the scripts.
	FetchFunc func(ctx context.Context, req fetch.Request) ([]*core.Candidate, error)

	mu       sync.Mutex
	items    map[string][]Item
	errs     map[string]error
	requests []fetch.Request
}

var _ fetch.Fetcher = (*Fetcher)(nil)

// NewFetcher creates a mock fetcher with no scripted sites.
func NewFetcher() *Fetcher {
	return &Fetcher{
		items: make(map[string][]Item),
		errs:  make(map[string]error),
	}
}

// WithRecords scripts the items returned for site.
func (m *Fetcher) WithRecords(site string, items ...Item) *Fetcher {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[site] = append(m.items[site], items...)
	return m
}

// WithError scripts a failure for site.
func (m *Fetcher) WithError(site string, err error) *Fetcher {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[site] = err
	return m
}

// Fetch returns the scripted items for req.Site, dropping items without a link.
func (m *Fetcher) Fetch(ctx context.Context, req fetch.Request) ([]*core.Candidate, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	fn := m.FetchFunc
	err := m.errs[req.Site]
	items := m.items[req.Site]
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	candidates := make([]*core.Candidate, 0, len(items))
	for _, item := range items {
		if item.Link == "" {
			continue
		}
		candidates = append(candidates, core.NewCandidate(item.Title, item.Link, item.Snippet, req.Site))
	}
	return candidates, nil
}

// CallCount returns the number of Fetch calls.
func (m *Fetcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of the requests received, in arrival order.
func (m *Fetcher) Requests() []fetch.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]fetch.Request(nil), m.requests...)
}

// Reset clears recorded requests and scripts.
func (m *Fetcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchFunc = nil
	m.items = make(map[string][]Item)
	m.errs = make(map[string]error)
	m.requests = nil
}
