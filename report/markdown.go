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

// Package report renders ranked candidates as a Markdown digest.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/poiesic/jobhunter/core"
)

// Heading is the first line of every digest.
const Heading = "# Daily Jobs Digest"

// WriteMarkdown writes one bullet per candidate, in the given order.
func WriteMarkdown(w io.Writer, candidates []*core.Candidate) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s\n\n", Heading); err != nil {
		return err
	}
	for _, c := range candidates {
		if c == nil {
			continue
		}
		title := c.Title
		if title == "" {
			title = "Untitled"
		}
		link := c.Link
		if link == "" {
			link = "#"
		}
		if _, err := fmt.Fprintf(bw, "* [%s](%s) — %s (score %.2f)\n", title, link, c.Source, c.Score); err != nil {
			return err
		}
		if c.Snippet != "" {
			if _, err := fmt.Fprintf(bw, "  \n  %s\n\n", c.Snippet); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// Save writes the digest to path, replacing any existing file.
func Save(path string, candidates []*core.Candidate) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create digest: %w", err)
	}
	if err := WriteMarkdown(f, candidates); err != nil {
		f.Close()
		return fmt.Errorf("failed to write digest: %w", err)
	}
	return f.Close()
}
