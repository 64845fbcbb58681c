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

package cse

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/jobhunter/core"
	"github.com/poiesic/jobhunter/fetch"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DefaultTimeout bounds a single provider request.
const DefaultTimeout = 30 * time.Second

// Fetcher implements fetch.Fetcher using the Custom Search JSON API.
type Fetcher struct {
	service *customsearch.Service
	timeout time.Duration
	logger  *slog.Logger
}

var _ fetch.Fetcher = (*Fetcher)(nil)

type settings struct {
	httpClient *http.Client
	endpoint   string
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Fetcher.
type Option func(*settings) error

// WithHTTPClient sets the HTTP client used for provider requests.
// Default is a plain http.Client; request deadlines come from the timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) error {
		if client == nil {
			return ErrHTTPClientRequired
		}
		s.httpClient = client
		return nil
	}
}

// WithEndpoint overrides the provider base URL, e.g. "http://127.0.0.1:8080/".
// An empty endpoint keeps the provider default.
func WithEndpoint(endpoint string) Option {
	return func(s *settings) error {
		s.endpoint = endpoint
		return nil
	}
}

// WithTimeout sets the per-request timeout.
// Default is DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(s *settings) error {
		if timeout <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidTimeout, timeout)
		}
		s.timeout = timeout
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// newFetcher is an internal constructor that returns the concrete type.
func newFetcher(ctx context.Context, opts ...Option) (*Fetcher, error) {
	s := &settings{
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	// Credentials travel per request, so the client itself is unauthenticated.
	clientOpts := []option.ClientOption{option.WithHTTPClient(s.httpClient)}
	if s.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(s.endpoint))
	}
	service, err := customsearch.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create custom search service: %w", err)
	}

	return &Fetcher{
		service: service,
		timeout: s.timeout,
		logger:  s.logger.With("component", "cse-fetcher"),
	}, nil
}

// New creates a Custom Search fetcher.
//
// Returns fetch.Fetcher interface to enforce abstraction.
func New(ctx context.Context, opts ...Option) (fetch.Fetcher, error) {
	return newFetcher(ctx, opts...)
}

// Fetch issues one search request for req.Site and parses the returned items.
func (f *Fetcher) Fetch(ctx context.Context, req fetch.Request) ([]*core.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	f.logger.Debug("searching site", "site", req.Site, "query", req.Query)

	resp, err := f.service.Cse.List().
		Cx(req.Credentials.EngineID).
		Q(req.Query).
		Num(fetch.MaxResultsPerSite).
		Context(ctx).
		Do(googleapi.QueryParameter("key", req.Credentials.APIKey))
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", req.Site, err)
	}

	candidates := make([]*core.Candidate, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil || item.Link == "" {
			f.logger.Debug("dropping item without link", "site", req.Site)
			continue
		}
		candidates = append(candidates, core.NewCandidate(item.Title, item.Link, item.Snippet, req.Site))
	}

	f.logger.Debug("site searched", "site", req.Site, "items", len(resp.Items), "kept", len(candidates))
	return candidates, nil
}
