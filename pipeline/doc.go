// Package pipeline orchestrates a single job search run.
//
// A run moves through these stages:
//   - Validate provider credentials (fatal when missing, before any request)
//   - Build one site-restricted query per configured site
//   - Fetch every site concurrently on a worker pool
//   - Score each candidate and merge candidates by link, keeping the best score
//   - Drop commercial candidates that fail the relevance filter
//   - Rank the survivors by descending score
//
// A failing site contributes no candidates; the run carries on with the
// others. Merging happens in a single goroutine after all fetches complete,
// in configured site order, so ties resolve the same way on every run.
package pipeline
