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

package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"
	"github.com/poiesic/jobhunter/core"
)

// Rules configures a Filter.
type Rules struct {
	// PublicDomainPatterns are regular expressions matched against a record's link.
	// A match marks the record as public or non-profit.
	PublicDomainPatterns []string

	// CorporateTerms are matched case-insensitively against title and snippet.
	CorporateTerms []string
}

// DefaultRules returns the Israeli public-sector suffixes and the bilingual
// corporate-responsibility vocabulary.
func DefaultRules() Rules {
	return Rules{
		PublicDomainPatterns: []string{
			`\.gov\.il`,
			`\.muni\.il`,
			`\.org\.il`,
		},
		CorporateTerms: []string{
			"esg",
			"קיימות",
			"אחריות תאגידית",
			"partnership",
			"partnerships",
			"שותפויות",
		},
	}
}

// Filter is a post-scoring relevance predicate. It is safe for concurrent use.
type Filter struct {
	public  *regexp.Regexp // nil when no patterns are configured
	matcher *ahocorasick.Matcher
	terms   []string
}

// New compiles rules into a Filter.
// Returns ErrInvalidPattern if a domain pattern does not compile.
func New(rules Rules) (*Filter, error) {
	f := &Filter{}

	patterns := make([]string, 0, len(rules.PublicDomainPatterns))
	for _, p := range rules.PublicDomainPatterns {
		if p == "" {
			continue
		}
		if _, err := regexp.Compile(p); err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, p, err)
		}
		patterns = append(patterns, "(?:"+p+")")
	}
	if len(patterns) > 0 {
		f.public = regexp.MustCompile(strings.Join(patterns, "|"))
	}

	f.terms = make([]string, 0, len(rules.CorporateTerms))
	for _, term := range rules.CorporateTerms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			f.terms = append(f.terms, term)
		}
	}
	f.matcher = ahocorasick.NewStringMatcher(f.terms)

	return f, nil
}

// IsPublic reports whether the link matches a public or non-profit domain pattern.
func (f *Filter) IsPublic(link string) bool {
	return f.public != nil && f.public.MatchString(link)
}

// MentionsCorporateTerm reports whether text contains at least one corporate term.
func (f *Filter) MentionsCorporateTerm(text string) bool {
	if len(f.terms) == 0 || text == "" {
		return false
	}
	matches := f.matcher.MatchThreadSafe([]byte(strings.ToLower(text)))
	return len(matches) > 0
}

// Keep reports whether the candidate survives filtering.
func (f *Filter) Keep(candidate *core.Candidate) bool {
	if f.IsPublic(candidate.Link) {
		return true
	}
	return f.MentionsCorporateTerm(candidate.Text())
}

// Apply returns the candidates that survive filtering, preserving order.
func (f *Filter) Apply(candidates []*core.Candidate) []*core.Candidate {
	kept := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if f.Keep(c) {
			kept = append(kept, c)
		}
	}
	return kept
}
