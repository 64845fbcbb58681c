// Package query builds the site-restricted search strings sent to the provider.
package query

import (
	"strings"

	"github.com/poiesic/jobhunter/core"
)

// SiteQuery is the search string for one configured site.
type SiteQuery struct {
	Index int // position of Site in the configured site list
	Site  string
	Query string
}

// Base returns the query text shared by every site.
//
// A non-empty override is used verbatim. Otherwise the keywords_all terms
// followed by the keywords_any terms are joined into one flat string; the
// provider sees no AND/OR structure. Locations are appended in both cases.
func Base(criteria *core.Criteria, override string) string {
	var base string
	if override != "" {
		base = override
	} else {
		parts := make([]string, 0, 2)
		if len(criteria.KeywordsAll) > 0 {
			parts = append(parts, strings.Join(criteria.KeywordsAll, " "))
		}
		if len(criteria.KeywordsAny) > 0 {
			parts = append(parts, strings.Join(criteria.KeywordsAny, " "))
		}
		base = strings.TrimSpace(strings.Join(parts, " "))
	}
	if len(criteria.Locations) > 0 {
		base += " " + strings.Join(criteria.Locations, " ")
	}
	return base
}

// Build returns one query per non-empty configured site, in site order.
func Build(criteria *core.Criteria, override string) []SiteQuery {
	base := Base(criteria, override)
	queries := make([]SiteQuery, 0, len(criteria.Sites))
	for i, site := range criteria.Sites {
		if site == "" {
			continue
		}
		queries = append(queries, SiteQuery{
			Index: i,
			Site:  site,
			Query: base + " site:" + site,
		})
	}
	return queries
}
