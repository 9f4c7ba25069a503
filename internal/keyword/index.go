// Package keyword provides the inverted keyword index over gag owners and descriptions,
// and a full-text index over raw gag files.
package keyword

import (
	"sort"
	"strings"

	"github.com/hyperjump/cutaway/internal/models"
)

// Index maps a normalized token to the set of titles it appears under. Tokens are
// either a full lower-cased owner or a description keyword. An Index is built once
// and then only read.
type Index struct {
	terms map[string]map[string]struct{}
}

// Build indexes gags. The result does not depend on the order of gags.
func Build(gags []models.Gag, opts Options) *Index {
	tok := NewTokenizer(opts)
	idx := &Index{terms: make(map[string]map[string]struct{})}
	for _, g := range gags {
		if owner, ok := g.Owner.Get(); ok {
			idx.add(strings.ToLower(owner), g.Title)
		}
		if desc, ok := g.Description.Get(); ok {
			for _, w := range tok.Tokens(desc) {
				idx.add(w, g.Title)
			}
		}
	}
	return idx
}

func (idx *Index) add(token, title string) {
	titles, ok := idx.terms[token]
	if !ok {
		titles = make(map[string]struct{})
		idx.terms[token] = titles
	}
	titles[title] = struct{}{}
}

// Has reports whether token is indexed under title. token must already be lower-case.
func (idx *Index) Has(token, title string) bool {
	_, ok := idx.terms[token][title]
	return ok
}

// Titles returns the sorted titles for token.
func (idx *Index) Titles(token string) []string {
	set := idx.terms[token]
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Tokens returns every indexed token, sorted.
func (idx *Index) Tokens() []string {
	out := make([]string, 0, len(idx.terms))
	for t := range idx.terms {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of distinct tokens.
func (idx *Index) Len() int {
	return len(idx.terms)
}

// Equal reports whether both indexes map the same tokens to the same title sets.
func (idx *Index) Equal(other *Index) bool {
	if len(idx.terms) != len(other.terms) {
		return false
	}
	for token, titles := range idx.terms {
		otherTitles, ok := other.terms[token]
		if !ok || len(otherTitles) != len(titles) {
			return false
		}
		for t := range titles {
			if _, ok := otherTitles[t]; !ok {
				return false
			}
		}
	}
	return true
}
