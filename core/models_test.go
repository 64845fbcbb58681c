package core

import (
	"testing"
)

func TestIDFromLink(t *testing.T) {
	tests := []struct {
		name string
		link string
	}{
		{
			name: "same link produces same ID",
			link: "https://example.org.il/jobs/1",
		},
		{
			name: "empty string",
			link: "",
		},
		{
			name: "link with query string",
			link: "https://example.com/jobs?id=42&ref=search",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromLink(tt.link)
			id2 := IDFromLink(tt.link)

			if id1 != id2 {
				t.Errorf("IDFromLink() produced different IDs for same link: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromLink_Different(t *testing.T) {
	id1 := IDFromLink("https://a.org.il/1")
	id2 := IDFromLink("https://a.org.il/2")

	if id1 == id2 {
		t.Errorf("IDFromLink() produced same ID for different links")
	}
}

func TestNewCandidate(t *testing.T) {
	c := NewCandidate("Coordinator", "https://a.org.il/1", "Social programs", "a.org.il")

	if c.Id != IDFromLink("https://a.org.il/1") {
		t.Errorf("NewCandidate() Id = %d, want ID derived from link", c.Id)
	}
	if c.Source != "a.org.il" {
		t.Errorf("NewCandidate() Source = %q, want %q", c.Source, "a.org.il")
	}
	if c.Score != 0 {
		t.Errorf("NewCandidate() Score = %v, want 0 before scoring", c.Score)
	}
}

func TestCandidate_Text(t *testing.T) {
	c := &Candidate{Title: "Program Manager", Snippet: "Tel Aviv"}
	if got, want := c.Text(), "Program Manager Tel Aviv"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}
