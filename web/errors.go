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

package web

import "errors"

var (
	// ErrSearcherRequired is returned by New when no Searcher is supplied.
	ErrSearcherRequired = errors.New("searcher required")

	// ErrInvalidShutdownTimeout is returned for non-positive shutdown timeouts.
	ErrInvalidShutdownTimeout = errors.New("shutdown timeout must be positive")
)
