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

// Package fetch defines how candidate records are retrieved for one site.
//
// A Fetcher issues a single provider request for a single site-restricted
// query and parses the response into candidate records. Failures are reported
// per site through SiteResult so the pipeline can absorb them without
// aborting the run.
//
// # Implementation Packages
//
//   - fetch/cse: Google Programmable Search (Custom Search JSON API)
//   - fetch/mock: scripted test double
package fetch
