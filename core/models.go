package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for a candidate record.
// It is derived from the record's link so identical links produce identical IDs.
type ID uint64

// IDFromLink generates a deterministic ID from a link using BLAKE2b hashing.
func IDFromLink(link string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(link))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Credentials identify the caller to the search provider.
// Both values are forwarded verbatim and never inspected.
type Credentials struct {
	APIKey   string // google_cse_key
	EngineID string // google_cse_cx
}

// Criteria drives query construction, scoring and site selection.
// A Criteria is loaded once and must not be mutated while a run is using it.
type Criteria struct {
	KeywordsAll []string // every term must match (AND)
	KeywordsAny []string // each matching term counts independently (OR)
	Locations   []string
	Avoid       []string // each matching term is penalized
	Sites       []string // site domains to restrict searches to, in priority order
	Credentials Credentials
}

// Candidate is one search result returned by the provider for a site.
// Score is zero until the candidate has been scored.
type Candidate struct {
	Id      ID
	Title   string
	Link    string // canonical identity used for deduplication
	Snippet string
	Source  string // site domain that produced the record
	Score   float64
}

// NewCandidate creates a candidate for the given link with its ID populated.
func NewCandidate(title, link, snippet, source string) *Candidate {
	return &Candidate{
		Id:      IDFromLink(link),
		Title:   title,
		Link:    link,
		Snippet: snippet,
		Source:  source,
	}
}

// Text returns the searchable text of the candidate: title and snippet joined by a space.
func (c *Candidate) Text() string {
	return c.Title + " " + c.Snippet
}
