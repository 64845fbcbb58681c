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

// Package config loads job search settings.
//
// Settings come from a YAML file whose keys mirror the search criteria
// (sites, keywords_all, keywords_any, locations, avoid) plus provider
// credentials. The GOOGLE_CSE_KEY and GOOGLE_CSE_CX environment variables
// take precedence over credentials in the file. A Config is built once by
// the caller and passed explicitly to everything that needs it.
package config
