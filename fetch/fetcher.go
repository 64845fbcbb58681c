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

package fetch

import (
	"context"
	"time"

	"github.com/poiesic/jobhunter/core"
)

// MaxResultsPerSite caps the number of items requested from the provider per site.
const MaxResultsPerSite = 10

// Request describes one provider call.
type Request struct {
	Site        string
	Query       string
	Credentials core.Credentials
}

// Fetcher retrieves candidate records for a single site.
// Implementations must be safe for concurrent use.
type Fetcher interface {
	// Fetch issues exactly one provider request and returns the parsed records.
	// Items without a link are dropped. Every returned record has Source set
	// to req.Site. On error no records are returned.
	Fetch(ctx context.Context, req Request) ([]*core.Candidate, error)
}

// SiteResult is the outcome of fetching one site: either records or a failure reason.
type SiteResult struct {
	Index      int // position of Site in the configured site list
	Site       string
	Query      string
	Candidates []*core.Candidate
	Err        error
	Elapsed    time.Duration
}

// OK reports whether the site was fetched successfully.
func (r SiteResult) OK() bool {
	return r.Err == nil
}
