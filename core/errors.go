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

package core

import "errors"

// Domain validation errors
var (
	// ErrMissingCredentials indicates the provider API key or engine identifier is unset.
	ErrMissingCredentials = errors.New("search provider credentials are missing")

	// ErrEmptyQuery indicates an interactive caller supplied no search terms.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrInvalidCandidate indicates a Candidate failed validation.
	ErrInvalidCandidate = errors.New("invalid candidate")

	// ErrEmptyLink indicates the Link field is empty.
	ErrEmptyLink = errors.New("link cannot be empty")
)
