package validate

import (
	"context"
	"fmt"
	"sort"

	"github.com/hyperjump/cutaway/internal/models"
)

// Searcher finds gags across all fields.
type Searcher interface {
	Search(query string, scope models.Scope) []models.Gag
}

// FileSearcher finds raw files mentioning a keyword.
type FileSearcher interface {
	Search(ctx context.Context, keyword string) ([]string, error)
}

// Investigate looks for each keyword in the parsed database and in the raw files, so a
// gag present on disk but missing a parsed field still shows up.
func Investigate(ctx context.Context, db Searcher, files FileSearcher, keywords []string) ([]models.KeywordHits, error) {
	out := make([]models.KeywordHits, 0, len(keywords))
	for _, kw := range keywords {
		hits := models.KeywordHits{Keyword: kw, DatabaseHits: []string{}, FileHits: []string{}}
		for _, g := range db.Search(kw, models.ScopeAll) {
			hits.DatabaseHits = append(hits.DatabaseHits, g.Title)
		}
		if files != nil {
			names, err := files.Search(ctx, kw)
			if err != nil {
				return nil, fmt.Errorf("search files for %q: %w", kw, err)
			}
			if names != nil {
				hits.FileHits = names
			}
		}
		hits.NotFound = len(hits.DatabaseHits) == 0 && len(hits.FileHits) == 0
		out = append(out, hits)
	}
	return out, nil
}

// UnionTitles returns the sorted distinct database titles across hits.
func UnionTitles(hits []models.KeywordHits) []string {
	seen := make(map[string]struct{})
	for _, h := range hits {
		for _, t := range h.DatabaseHits {
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
