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

package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/poiesic/jobhunter/core"
	"github.com/poiesic/jobhunter/filter"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Load and the CLI.
const (
	EnvAPIKey     = "GOOGLE_CSE_KEY"
	EnvEngineID   = "GOOGLE_CSE_CX"
	EnvConfigPath = "JOB_HUNTER_CONFIG"
)

// ExamplePath is the fallback configuration file used by ResolvePath.
const ExamplePath = "config.yaml.example"

var (
	// ErrConfigNotFound is returned by ResolvePath when neither the requested
	// file nor the example file exists.
	ErrConfigNotFound = errors.New("no configuration file found")

	// ErrInvalidConfig indicates a structurally invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config holds the settings for job searches.
type Config struct {
	// APIKey is the Custom Search API key. Overridden by GOOGLE_CSE_KEY.
	APIKey string `yaml:"google_cse_key"`

	// EngineID is the Programmable Search Engine identifier (cx). Overridden by GOOGLE_CSE_CX.
	EngineID string `yaml:"google_cse_cx"`

	// Sites are the domains each search is restricted to, in priority order.
	// Earlier sites win score ties between duplicate results.
	Sites []string `yaml:"sites"`

	KeywordsAll []string `yaml:"keywords_all"`
	KeywordsAny []string `yaml:"keywords_any"`
	Locations   []string `yaml:"locations"`
	Avoid       []string `yaml:"avoid"`

	// PublicDomainPatterns are regular expressions identifying public or
	// non-profit links. Default: Israeli government, municipal and .org.il suffixes.
	PublicDomainPatterns []string `yaml:"public_domain_patterns"`

	// CorporateTerms must appear in a commercial result for it to be kept.
	// Default: ESG / sustainability / partnership terms in English and Hebrew.
	CorporateTerms []string `yaml:"corporate_terms"`

	// Timeout bounds each provider request.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// Workers is the number of sites searched concurrently.
	// Default: 4
	Workers int `yaml:"workers"`

	// Endpoint overrides the provider base URL. Empty uses the provider default.
	Endpoint string `yaml:"endpoint"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithCredentials sets the provider API key and engine identifier.
func WithCredentials(apiKey, engineID string) ConfigOption {
	return func(c *Config) {
		c.APIKey = apiKey
		c.EngineID = engineID
	}
}

// WithSites sets the site domains to search.
func WithSites(sites ...string) ConfigOption {
	return func(c *Config) {
		c.Sites = sites
	}
}

// WithKeywordsAll sets the terms that must all match.
func WithKeywordsAll(terms ...string) ConfigOption {
	return func(c *Config) {
		c.KeywordsAll = terms
	}
}

// WithKeywordsAny sets the terms that each add to the score.
func WithKeywordsAny(terms ...string) ConfigOption {
	return func(c *Config) {
		c.KeywordsAny = terms
	}
}

// WithLocations sets the location hints.
func WithLocations(locations ...string) ConfigOption {
	return func(c *Config) {
		c.Locations = locations
	}
}

// WithAvoid sets the penalized terms.
func WithAvoid(terms ...string) ConfigOption {
	return func(c *Config) {
		c.Avoid = terms
	}
}

// WithFilterRules replaces the relevance filter patterns and vocabulary.
func WithFilterRules(rules filter.Rules) ConfigOption {
	return func(c *Config) {
		c.PublicDomainPatterns = rules.PublicDomainPatterns
		c.CorporateTerms = rules.CorporateTerms
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithWorkers sets the number of concurrent site searches.
func WithWorkers(workers int) ConfigOption {
	return func(c *Config) {
		c.Workers = workers
	}
}

// WithEndpoint sets the provider base URL.
func WithEndpoint(endpoint string) ConfigOption {
	return func(c *Config) {
		c.Endpoint = endpoint
	}
}

// DefaultConfig returns a Config with no criteria and default filter rules,
// timeout and concurrency.
func DefaultConfig() *Config {
	rules := filter.DefaultRules()
	return &Config{
		PublicDomainPatterns: rules.PublicDomainPatterns,
		CorporateTerms:       rules.CorporateTerms,
		Timeout:              30 * time.Second,
		Workers:              4,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Parse decodes YAML settings on top of the defaults.
// Keys absent from data keep their default values. Environment variables
// are not consulted.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Load reads the YAML file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

// applyEnv overrides credentials with non-empty environment values.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := getenv(EnvEngineID); v != "" {
		c.EngineID = v
	}
}

// ResolvePath returns path if it exists, otherwise ExamplePath if that exists.
func ResolvePath(path string) (string, error) {
	for _, candidate := range []string{path, ExamplePath} {
		if candidate == "" {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: tried %q and %q", ErrConfigNotFound, path, ExamplePath)
}

// Validate checks the structural settings.
// Missing credentials are reported by the search run, not here.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidConfig, c.Timeout)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := filter.New(c.FilterRules()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Criteria returns the search criteria described by the configuration.
// The returned value shares no slices with the Config.
func (c *Config) Criteria() *core.Criteria {
	return &core.Criteria{
		KeywordsAll: slices.Clone(c.KeywordsAll),
		KeywordsAny: slices.Clone(c.KeywordsAny),
		Locations:   slices.Clone(c.Locations),
		Avoid:       slices.Clone(c.Avoid),
		Sites:       slices.Clone(c.Sites),
		Credentials: core.Credentials{
			APIKey:   c.APIKey,
			EngineID: c.EngineID,
		},
	}
}

// FilterRules returns the relevance filter rules described by the configuration.
func (c *Config) FilterRules() filter.Rules {
	return filter.Rules{
		PublicDomainPatterns: slices.Clone(c.PublicDomainPatterns),
		CorporateTerms:       slices.Clone(c.CorporateTerms),
	}
}
