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

// Package cse implements fetch.Fetcher on the Google Custom Search JSON API.
//
// Each Fetch call issues one GET carrying the API key, the search engine
// identifier, the site-restricted query and a fixed result cap. The HTTP
// client is injected so callers control transport settings and tests can
// point the fetcher at a local server with WithEndpoint.
package cse
