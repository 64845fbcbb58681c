// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package jobhunter searches job boards through Google Programmable Search,
// scores results against keyword criteria and ranks the relevant ones.
//
// A Hunter wires a Config to the Custom Search fetcher, the relevance filter
// and the search pipeline:
//
//	cfg, err := config.Load("config.yaml")
//	hunter, err := jobhunter.New(ctx, cfg)
//	defer hunter.Close()
//	jobs, err := hunter.Search(ctx, "")
package jobhunter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/poiesic/jobhunter/config"
	"github.com/poiesic/jobhunter/core"
	"github.com/poiesic/jobhunter/fetch"
	"github.com/poiesic/jobhunter/fetch/cse"
	"github.com/poiesic/jobhunter/filter"
	"github.com/poiesic/jobhunter/pipeline"
)

// ErrConfigRequired is returned when New is called without a configuration.
var ErrConfigRequired = errors.New("configuration required")

// Hunter runs searches for one immutable configuration.
// It is safe for concurrent use.
type Hunter struct {
	criteria *core.Criteria
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
}

// Option configures a Hunter.
type Option func(*options)

type options struct {
	httpClient *http.Client
	fetcher    fetch.Fetcher
	monitor    pipeline.Monitor
	logger     *slog.Logger
}

// WithHTTPClient sets the HTTP client used to reach the search provider.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithFetcher replaces the Custom Search fetcher.
func WithFetcher(fetcher fetch.Fetcher) Option {
	return func(o *options) {
		o.fetcher = fetcher
	}
}

// WithMonitor observes every search run.
func WithMonitor(monitor pipeline.Monitor) Option {
	return func(o *options) {
		o.monitor = monitor
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New validates cfg and builds the search stack around it.
// The configuration is captured at construction; later changes to cfg are not observed.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Hunter, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	relevance, err := filter.New(cfg.FilterRules())
	if err != nil {
		return nil, err
	}

	fetcher := o.fetcher
	if fetcher == nil {
		cseOpts := []cse.Option{
			cse.WithEndpoint(cfg.Endpoint),
			cse.WithTimeout(cfg.Timeout),
			cse.WithLogger(o.logger),
		}
		if o.httpClient != nil {
			cseOpts = append(cseOpts, cse.WithHTTPClient(o.httpClient))
		}
		fetcher, err = cse.New(ctx, cseOpts...)
		if err != nil {
			return nil, err
		}
	}

	p, err := pipeline.New(fetcher, relevance,
		pipeline.WithPoolSize(cfg.Workers),
		pipeline.WithLogger(o.logger),
		pipeline.WithMonitor(o.monitor),
	)
	if err != nil {
		return nil, err
	}

	return &Hunter{
		criteria: cfg.Criteria(),
		pipeline: p,
		logger:   o.logger,
	}, nil
}

// Search runs one search. A non-empty override replaces the keyword query.
func (h *Hunter) Search(ctx context.Context, override string) ([]*core.Candidate, error) {
	return h.pipeline.Run(ctx, h.criteria, override)
}

// Sites returns the configured site domains.
func (h *Hunter) Sites() []string {
	return append([]string(nil), h.criteria.Sites...)
}

// Close releases the worker pool.
func (h *Hunter) Close() error {
	h.pipeline.Release()
	return nil
}
