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

package pipeline

import (
	"sort"

	"github.com/poiesic/jobhunter/core"
)

// ResultSet holds the best-scoring candidate seen so far for each link.
//
// A later candidate replaces the stored one only when its score is strictly
// higher, so on equal scores the first candidate seen is retained. The order
// in which links were first seen is remembered for deterministic ranking.
type ResultSet struct {
	byLink map[string]*core.Candidate
	order  []string
}

// NewResultSet creates an empty result set.
func NewResultSet() *ResultSet {
	return &ResultSet{byLink: make(map[string]*core.Candidate)}
}

// Add merges a scored candidate into the set.
// Returns true if the candidate was stored.
func (s *ResultSet) Add(candidate *core.Candidate) bool {
	prev, ok := s.byLink[candidate.Link]
	if !ok {
		s.byLink[candidate.Link] = candidate
		s.order = append(s.order, candidate.Link)
		return true
	}
	if candidate.Score > prev.Score {
		s.byLink[candidate.Link] = candidate
		return true
	}
	return false
}

// Get returns the stored candidate for link, or nil.
func (s *ResultSet) Get(link string) *core.Candidate {
	return s.byLink[link]
}

// Len returns the number of distinct links.
func (s *ResultSet) Len() int {
	return len(s.order)
}

// Candidates returns the stored candidates in first-seen link order.
func (s *ResultSet) Candidates() []*core.Candidate {
	out := make([]*core.Candidate, 0, len(s.order))
	for _, link := range s.order {
		out = append(out, s.byLink[link])
	}
	return out
}

// Rank sorts candidates by descending score in place.
// Equal scores keep their relative order.
func Rank(candidates []*core.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
}
