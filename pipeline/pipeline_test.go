package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/poiesic/jobhunter/core"
	"github.com/poiesic/jobhunter/fetch"
	"github.com/poiesic/jobhunter/fetch/mock"
	"github.com/poiesic/jobhunter/filter"
	"github.com/poiesic/jobhunter/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCredentials = core.Credentials{APIKey: "key", EngineID: "cx"}

func newTestPipeline(t *testing.T, fetcher fetch.Fetcher, opts ...Option) *Pipeline {
	t.Helper()
	f, err := filter.New(filter.DefaultRules())
	require.NoError(t, err)

	p, err := New(fetcher, f, opts...)
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p
}

// recordingMonitor captures hook invocations for assertions.
type recordingMonitor struct {
	runID    string
	queries  []query.SiteQuery
	fetched  []fetch.SiteResult
	unique   int
	filtered []string
	finished []*core.Candidate
}

func (m *recordingMonitor) Start(runID string, _ string)           { m.runID = runID }
func (m *recordingMonitor) AfterQueryBuild(q []query.SiteQuery)    { m.queries = q }
func (m *recordingMonitor) SiteFetched(r fetch.SiteResult)         { m.fetched = append(m.fetched, r) }
func (m *recordingMonitor) AfterDeduplication(c []*core.Candidate) { m.unique = len(c) }
func (m *recordingMonitor) Filtered(c *core.Candidate)             { m.filtered = append(m.filtered, c.Link) }
func (m *recordingMonitor) Finish(results []*core.Candidate)       { m.finished = results }

func TestNew(t *testing.T) {
	f, err := filter.New(filter.DefaultRules())
	require.NoError(t, err)
	fetcher := mock.NewFetcher()

	t.Run("valid configuration", func(t *testing.T) {
		p, err := New(fetcher, f)
		require.NoError(t, err)
		defer p.Release()
		assert.NotNil(t, p)
	})

	t.Run("with options", func(t *testing.T) {
		p, err := New(fetcher, f, WithPoolSize(2), WithLogger(slog.Default()), WithMonitor(NewLogMonitor(nil)))
		require.NoError(t, err)
		defer p.Release()
		assert.Equal(t, 2, p.pool.Cap())
	})

	t.Run("pool size floor", func(t *testing.T) {
		p, err := New(fetcher, f, WithPoolSize(0))
		require.NoError(t, err)
		defer p.Release()
		assert.Equal(t, 1, p.pool.Cap())
	})

	t.Run("nil logger and monitor fall back to defaults", func(t *testing.T) {
		p, err := New(fetcher, f, WithLogger(nil), WithMonitor(nil))
		require.NoError(t, err)
		defer p.Release()
		assert.NotNil(t, p.logger)
		assert.NotNil(t, p.monitor)
	})

	t.Run("nil fetcher", func(t *testing.T) {
		_, err := New(nil, f)
		assert.Equal(t, ErrFetcherRequired, err)
	})

	t.Run("nil filter", func(t *testing.T) {
		_, err := New(fetcher, nil)
		assert.Equal(t, ErrFilterRequired, err)
	})
}

func TestRun_MissingCredentials(t *testing.T) {
	fetcher := mock.NewFetcher().WithRecords("a.org.il", mock.Record("Job", "https://a.org.il/1", ""))
	p := newTestPipeline(t, fetcher)

	_, err := p.Run(context.Background(), &core.Criteria{
		Sites:       []string{"a.org.il"},
		Credentials: core.Credentials{APIKey: "key"},
	}, "")

	assert.ErrorIs(t, err, core.ErrMissingCredentials)
	assert.Zero(t, fetcher.CallCount(), "no requests may be issued without credentials")
}

func TestRun_NilCriteria(t *testing.T) {
	p := newTestPipeline(t, mock.NewFetcher())
	_, err := p.Run(context.Background(), nil, "")
	assert.Equal(t, ErrCriteriaRequired, err)
}

func TestRun_EndToEnd(t *testing.T) {
	fetcher := mock.NewFetcher().
		WithRecords("a.org.il", mock.Record("Community coordinator", "https://a.org.il/jobs/1", "Local programs")).
		WithRecords("b.com", mock.Record("Account lead", "https://b.com/jobs/1", "Grow our partnerships"))
	p := newTestPipeline(t, fetcher)

	criteria := &core.Criteria{
		KeywordsAny: []string{"partnerships"},
		Sites:       []string{"a.org.il", "b.com"},
		Credentials: testCredentials,
	}
	results, err := p.Run(context.Background(), criteria, "")
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "https://b.com/jobs/1", results[0].Link)
	assert.Equal(t, 1.0, results[0].Score)
	assert.Equal(t, "b.com", results[0].Source)
	assert.Equal(t, "https://a.org.il/jobs/1", results[1].Link)
	assert.Equal(t, 0.0, results[1].Score)

	requests := fetcher.Requests()
	require.Len(t, requests, 2)
	for _, req := range requests {
		assert.Equal(t, testCredentials, req.Credentials)
	}
}

func TestRun_CommercialWithoutTermsDropped(t *testing.T) {
	fetcher := mock.NewFetcher().
		WithRecords("a.org.il", mock.Record("Community coordinator", "https://a.org.il/jobs/1", "")).
		WithRecords("b.com", mock.Record("Account lead", "https://b.com/jobs/1", "exciting opportunity"))
	monitor := &recordingMonitor{}
	p := newTestPipeline(t, fetcher, WithMonitor(monitor))

	results, err := p.Run(context.Background(), &core.Criteria{
		Sites:       []string{"a.org.il", "b.com"},
		Credentials: testCredentials,
	}, "")
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "https://a.org.il/jobs/1", results[0].Link)
	assert.Equal(t, []string{"https://b.com/jobs/1"}, monitor.filtered)
}

func TestRun_DeduplicatesByHigherScore(t *testing.T) {
	criteria := &core.Criteria{
		KeywordsAny: []string{"alpha", "beta", "gamma", "delta", "epsilon"},
		Credentials: testCredentials,
	}
	low := mock.Record("Role", "https://x.org.il/jobs/1", "alpha beta gamma")
	high := mock.Record("Role", "https://x.org.il/jobs/1", "alpha beta gamma delta epsilon")

	tests := []struct {
		name       string
		first      mock.Item
		second     mock.Item
		wantSource string
	}{
		{name: "higher score arrives second", first: low, second: high, wantSource: "b.org.il"},
		{name: "higher score arrives first", first: high, second: low, wantSource: "a.org.il"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := mock.NewFetcher().
				WithRecords("a.org.il", tt.first).
				WithRecords("b.org.il", tt.second)
			p := newTestPipeline(t, fetcher)

			c := *criteria
			c.Sites = []string{"a.org.il", "b.org.il"}
			results, err := p.Run(context.Background(), &c, "")
			require.NoError(t, err)

			require.Len(t, results, 1)
			assert.Equal(t, 5.0, results[0].Score)
			assert.Equal(t, tt.wantSource, results[0].Source)
		})
	}
}

func TestRun_EqualScoreTieBreakFollowsSiteOrder(t *testing.T) {
	fetcher := mock.NewFetcher()
	// Site A answers last; site order, not arrival order, must decide the tie.
	fetcher.FetchFunc = func(ctx context.Context, req fetch.Request) ([]*core.Candidate, error) {
		if req.Site == "a.org.il" {
			time.Sleep(50 * time.Millisecond)
		}
		return []*core.Candidate{
			core.NewCandidate("Role", "https://shared.org.il/jobs/1", "alpha beta", req.Site),
		}, nil
	}
	p := newTestPipeline(t, fetcher)

	results, err := p.Run(context.Background(), &core.Criteria{
		KeywordsAny: []string{"alpha", "beta"},
		Sites:       []string{"a.org.il", "b.org.il"},
		Credentials: testCredentials,
	}, "")
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, 2.0, results[0].Score)
	assert.Equal(t, "a.org.il", results[0].Source)
}

func TestRun_RanksDescending(t *testing.T) {
	fetcher := mock.NewFetcher().WithRecords("a.org.il",
		mock.Record("one", "https://a.org.il/1", "alpha"),
		mock.Record("three", "https://a.org.il/3", "alpha beta gamma"),
		mock.Record("two", "https://a.org.il/2", "alpha beta"),
	)
	p := newTestPipeline(t, fetcher)

	results, err := p.Run(context.Background(), &core.Criteria{
		KeywordsAny: []string{"alpha", "beta", "gamma"},
		Sites:       []string{"a.org.il"},
		Credentials: testCredentials,
	}, "")
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, 3.0, results[0].Score)
	assert.Equal(t, 2.0, results[1].Score)
	assert.Equal(t, 1.0, results[2].Score)
}

func TestRun_SiteFailureIsIsolated(t *testing.T) {
	fetcher := mock.NewFetcher().
		WithError("a.org.il", errors.New("connection refused")).
		WithRecords("b.org.il", mock.Record("Role", "https://b.org.il/1", ""))
	monitor := &recordingMonitor{}
	p := newTestPipeline(t, fetcher, WithMonitor(monitor))

	results, err := p.Run(context.Background(), &core.Criteria{
		Sites:       []string{"a.org.il", "b.org.il"},
		Credentials: testCredentials,
	}, "")
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "b.org.il", results[0].Source)

	require.Len(t, monitor.fetched, 2)
	assert.False(t, monitor.fetched[0].OK())
	assert.Equal(t, "a.org.il", monitor.fetched[0].Site)
	assert.True(t, monitor.fetched[1].OK())
}

func TestRun_PanickingFetcherIsIsolated(t *testing.T) {
	fetcher := mock.NewFetcher()
	fetcher.FetchFunc = func(ctx context.Context, req fetch.Request) ([]*core.Candidate, error) {
		if req.Site == "a.org.il" {
			panic("provider client bug")
		}
		return []*core.Candidate{core.NewCandidate("Role", "https://b.org.il/1", "", req.Site)}, nil
	}
	p := newTestPipeline(t, fetcher)

	results, err := p.Run(context.Background(), &core.Criteria{
		Sites:       []string{"a.org.il", "b.org.il"},
		Credentials: testCredentials,
	}, "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b.org.il", results[0].Source)
}

func TestRun_DropsCandidatesWithoutLink(t *testing.T) {
	fetcher := mock.NewFetcher()
	fetcher.FetchFunc = func(ctx context.Context, req fetch.Request) ([]*core.Candidate, error) {
		return []*core.Candidate{
			nil,
			{Title: "no link", Source: req.Site},
			core.NewCandidate("Role", "https://a.org.il/1", "", req.Site),
		}, nil
	}
	p := newTestPipeline(t, fetcher)

	results, err := p.Run(context.Background(), &core.Criteria{
		Sites:       []string{"a.org.il"},
		Credentials: testCredentials,
	}, "")
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestRun_OverrideQuery(t *testing.T) {
	fetcher := mock.NewFetcher()
	monitor := &recordingMonitor{}
	p := newTestPipeline(t, fetcher, WithMonitor(monitor))

	_, err := p.Run(context.Background(), &core.Criteria{
		KeywordsAll: []string{"ignored"},
		Locations:   []string{"Haifa"},
		Sites:       []string{"a.org.il", "", "b.com"},
		Credentials: testCredentials,
	}, "program manager")
	require.NoError(t, err)

	require.Len(t, monitor.queries, 2)
	assert.Equal(t, "program manager Haifa site:a.org.il", monitor.queries[0].Query)
	assert.Equal(t, "program manager Haifa site:b.com", monitor.queries[1].Query)
	assert.NotEmpty(t, monitor.runID)
	assert.Equal(t, 2, fetcher.CallCount())
}

func TestRun_DoesNotMutateCriteria(t *testing.T) {
	fetcher := mock.NewFetcher().WithRecords("a.org.il", mock.Record("Role", "https://a.org.il/1", "alpha"))
	p := newTestPipeline(t, fetcher)

	criteria := &core.Criteria{
		KeywordsAny: []string{"Alpha"},
		Sites:       []string{"a.org.il"},
		Credentials: testCredentials,
	}
	_, err := p.Run(context.Background(), criteria, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha"}, criteria.KeywordsAny)
	assert.Equal(t, []string{"a.org.il"}, criteria.Sites)
}

func TestRun_CanceledContext(t *testing.T) {
	fetcher := mock.NewFetcher().WithRecords("a.org.il", mock.Record("Role", "https://a.org.il/1", ""))
	p := newTestPipeline(t, fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, &core.Criteria{
		Sites:       []string{"a.org.il"},
		Credentials: testCredentials,
	}, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_ConcurrentRunsShareNothing(t *testing.T) {
	fetcher := mock.NewFetcher().
		WithRecords("a.org.il", mock.Record("Role", "https://a.org.il/1", "alpha")).
		WithRecords("b.org.il", mock.Record("Role", "https://b.org.il/1", "beta"))
	p := newTestPipeline(t, fetcher, WithPoolSize(2))

	criteria := &core.Criteria{
		KeywordsAny: []string{"alpha"},
		Sites:       []string{"a.org.il", "b.org.il"},
		Credentials: testCredentials,
	}

	errs := make(chan error, 8)
	counts := make(chan int, 8)
	for range 8 {
		go func() {
			results, err := p.Run(context.Background(), criteria, "")
			errs <- err
			counts <- len(results)
		}()
	}
	for range 8 {
		require.NoError(t, <-errs)
		assert.Equal(t, 2, <-counts)
	}
}
