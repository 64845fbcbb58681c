package pipeline

import (
	"log/slog"

	"github.com/poiesic/jobhunter/core"
	"github.com/poiesic/jobhunter/fetch"
	"github.com/poiesic/jobhunter/query"
)

// Monitor provides hooks to observe a run.
// All hooks for one run are invoked from the goroutine that called Run;
// implementations shared by concurrent runs must synchronize themselves.
type Monitor interface {
	Start(runID string, override string)
	AfterQueryBuild(queries []query.SiteQuery)
	SiteFetched(result fetch.SiteResult)
	AfterDeduplication(candidates []*core.Candidate)
	Filtered(candidate *core.Candidate)
	Finish(results []*core.Candidate)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ string)               {}
func (n *noopMonitor) AfterQueryBuild(_ []query.SiteQuery)    {}
func (n *noopMonitor) SiteFetched(_ fetch.SiteResult)         {}
func (n *noopMonitor) AfterDeduplication(_ []*core.Candidate) {}
func (n *noopMonitor) Filtered(_ *core.Candidate)             {}
func (n *noopMonitor) Finish(_ []*core.Candidate)             {}

// LogMonitor writes each stage of a run to a logger at debug level.
type LogMonitor struct {
	logger *slog.Logger
}

var _ Monitor = (*LogMonitor)(nil)

// NewLogMonitor creates a monitor that logs through logger.
// A nil logger uses slog.Default().
func NewLogMonitor(logger *slog.Logger) *LogMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMonitor{logger: logger.With("component", "pipeline-monitor")}
}

func (m *LogMonitor) Start(runID string, override string) {
	m.logger.Debug("run started", "run", runID, "override", override)
}

func (m *LogMonitor) AfterQueryBuild(queries []query.SiteQuery) {
	for _, q := range queries {
		m.logger.Debug("query built", "site", q.Site, "query", q.Query)
	}
}

func (m *LogMonitor) SiteFetched(result fetch.SiteResult) {
	if !result.OK() {
		m.logger.Debug("site failed", "site", result.Site, "elapsed", result.Elapsed, "err", result.Err)
		return
	}
	m.logger.Debug("site fetched", "site", result.Site, "elapsed", result.Elapsed, "records", len(result.Candidates))
}

func (m *LogMonitor) AfterDeduplication(candidates []*core.Candidate) {
	m.logger.Debug("deduplicated", "unique", len(candidates))
}

func (m *LogMonitor) Filtered(candidate *core.Candidate) {
	m.logger.Debug("filtered out", "link", candidate.Link, "source", candidate.Source)
}

func (m *LogMonitor) Finish(results []*core.Candidate) {
	m.logger.Debug("run finished", "results", len(results))
}
