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

import (
	"fmt"
	"strings"
)

// ValidateCredentials checks that both provider credentials are present.
//
// The returned error wraps ErrMissingCredentials and names the environment
// variables that can supply the missing values.
func ValidateCredentials(creds Credentials) error {
	var missing []string
	if creds.APIKey == "" {
		missing = append(missing, "GOOGLE_CSE_KEY")
	}
	if creds.EngineID == "" {
		missing = append(missing, "GOOGLE_CSE_CX")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: set %s or define them in the configuration file",
			ErrMissingCredentials, strings.Join(missing, " and "))
	}
	return nil
}

// ValidateCandidate validates a Candidate according to domain rules.
//
// Validation rules:
//   - candidate must not be nil
//   - Link must not be empty
//
// Title and Snippet may be empty; providers omit them routinely.
func ValidateCandidate(candidate *Candidate) error {
	if candidate == nil {
		return fmt.Errorf("%w: candidate is nil", ErrInvalidCandidate)
	}

	if candidate.Link == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrEmptyLink)
	}

	return nil
}

// NormalizeQuery trims an interactive query and rejects it when nothing remains.
func NormalizeQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}
	return query, nil
}
