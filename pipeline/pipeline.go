package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/jobhunter/core"
	"github.com/poiesic/jobhunter/fetch"
	"github.com/poiesic/jobhunter/filter"
	"github.com/poiesic/jobhunter/query"
	"github.com/poiesic/jobhunter/score"
)

// DefaultPoolSize is the number of sites fetched concurrently.
const DefaultPoolSize = 4

// Pipeline runs the query → fetch → score → deduplicate → filter → rank flow.
// A Pipeline holds no per-run state and may serve concurrent runs.
type Pipeline struct {
	fetcher fetch.Fetcher
	filter  *filter.Filter
	pool    *ants.Pool
	monitor Monitor
	logger  *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the number of sites fetched concurrently.
// Default is DefaultPoolSize.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		// Release old pool
		if p.pool != nil {
			p.pool.Release()
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithMonitor sets hooks that observe every run.
// A nil monitor disables monitoring.
func WithMonitor(monitor Monitor) Option {
	return func(p *Pipeline) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		p.monitor = monitor
		return nil
	}
}

// New creates a pipeline that fetches through fetcher and filters with f.
func New(fetcher fetch.Fetcher, f *filter.Filter, opts ...Option) (*Pipeline, error) {
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if f == nil {
		return nil, ErrFilterRequired
	}

	pool, err := ants.NewPool(DefaultPoolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		fetcher: fetcher,
		filter:  f,
		pool:    pool,
		monitor: &noopMonitor{},
		logger:  slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Run executes one search and returns the ranked candidates.
//
// A non-empty override replaces the keyword-derived query text. Missing
// credentials fail the run before any request is issued; individual site
// failures are logged and otherwise ignored. The criteria are read, never
// modified.
func (p *Pipeline) Run(ctx context.Context, criteria *core.Criteria, override string) ([]*core.Candidate, error) {
	if criteria == nil {
		return nil, ErrCriteriaRequired
	}
	if err := core.ValidateCredentials(criteria.Credentials); err != nil {
		p.logger.Error("refusing to search", "err", err)
		return nil, err
	}

	runID := uuid.NewString()
	logger := p.logger.With("run", runID)
	started := time.Now()
	p.monitor.Start(runID, override)

	queries := query.Build(criteria, override)
	p.monitor.AfterQueryBuild(queries)
	logger.Info("searching sites", "sites", len(queries))

	results := p.fetchAll(ctx, criteria.Credentials, queries)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set := NewResultSet()
	failed := 0
	for _, result := range results {
		p.monitor.SiteFetched(result)
		if !result.OK() {
			failed++
			logger.Warn("skipping site", "site", result.Site, "err", result.Err)
			continue
		}
		for _, candidate := range result.Candidates {
			if err := core.ValidateCandidate(candidate); err != nil {
				logger.Debug("dropping candidate", "site", result.Site, "err", err)
				continue
			}
			score.Apply(candidate, criteria)
			set.Add(candidate)
		}
	}

	unique := set.Candidates()
	p.monitor.AfterDeduplication(unique)

	ranked := make([]*core.Candidate, 0, len(unique))
	for _, candidate := range unique {
		if !p.filter.Keep(candidate) {
			p.monitor.Filtered(candidate)
			continue
		}
		ranked = append(ranked, candidate)
	}
	Rank(ranked)
	p.monitor.Finish(ranked)

	logger.Info("search complete",
		"sites", len(queries),
		"failedSites", failed,
		"unique", len(unique),
		"results", len(ranked),
		"elapsed", time.Since(started))
	return ranked, nil
}

// fetchAll fetches every query on the worker pool and returns results in query order.
func (p *Pipeline) fetchAll(ctx context.Context, creds core.Credentials, queries []query.SiteQuery) []fetch.SiteResult {
	results := make([]fetch.SiteResult, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			results[i] = p.fetchSite(ctx, creds, q)
		})
		if err != nil {
			wg.Done()
			results[i] = fetch.SiteResult{
				Index: q.Index,
				Site:  q.Site,
				Query: q.Query,
				Err:   fmt.Errorf("failed to schedule fetch: %w", err),
			}
		}
	}
	wg.Wait()

	return results
}

// fetchSite performs the single attempt allowed for a site.
func (p *Pipeline) fetchSite(ctx context.Context, creds core.Credentials, q query.SiteQuery) (result fetch.SiteResult) {
	result = fetch.SiteResult{Index: q.Index, Site: q.Site, Query: q.Query}
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result.Candidates = nil
			result.Err = fmt.Errorf("fetcher panicked: %v", r)
		}
		result.Elapsed = time.Since(started)
	}()

	candidates, err := p.fetcher.Fetch(ctx, fetch.Request{
		Site:        q.Site,
		Query:       q.Query,
		Credentials: creds,
	})
	if err != nil {
		result.Err = err
		return result
	}
	result.Candidates = candidates
	return result
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
