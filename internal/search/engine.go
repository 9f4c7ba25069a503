// Package search answers scoped substring queries over the gag store and keyword index.
package search

import (
	"strings"
	"time"

	"github.com/hyperjump/cutaway/internal/cast"
	"github.com/hyperjump/cutaway/internal/keyword"
	"github.com/hyperjump/cutaway/internal/models"
	"github.com/hyperjump/cutaway/internal/store"
)

// Engine runs searches against one loaded store and its index.
type Engine struct {
	store *store.Store
	index *keyword.Index
	cast  *cast.Cast
}

// NewEngine creates a search engine with the given dependencies. A nil cast uses the
// default main characters.
func NewEngine(st *store.Store, idx *keyword.Index, c *cast.Cast) *Engine {
	if c == nil {
		c = cast.Default()
	}
	return &Engine{store: st, index: idx, cast: c}
}

// Search returns the gags matching query in scope, sorted by title, each at most once.
// Matching is case-insensitive. Under the description scope a gag also matches when
// the whole lower-cased query is an index token for it.
func (e *Engine) Search(query string, scope models.Scope) []models.Gag {
	q := strings.ToLower(query)
	matchCharacter := scope == models.ScopeCharacter || scope == models.ScopeAll
	matchDescription := scope == models.ScopeDescription || scope == models.ScopeAll

	var out []models.Gag
	for _, g := range e.store.All() {
		if (matchCharacter && ownerContains(g, q)) ||
			(matchDescription && (descriptionContains(g, q) || e.index.Has(q, g.Title))) {
			out = append(out, g)
		}
	}
	return out
}

func ownerContains(g models.Gag, q string) bool {
	owner, ok := g.Owner.Get()
	return ok && strings.Contains(strings.ToLower(owner), q)
}

func descriptionContains(g models.Gag, q string) bool {
	desc, ok := g.Description.Get()
	return ok && strings.Contains(strings.ToLower(desc), q)
}

// Run validates query, searches, and wraps the results with timing. A positive Limit
// truncates Results; Total is always the full match count.
func (e *Engine) Run(query *models.SearchQuery) (*models.SearchResponse, error) {
	startTime := time.Now()
	if err := ProcessQuery(query); err != nil {
		return nil, err
	}
	results := e.Search(query.Query, query.Scope)
	total := len(results)
	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}
	if results == nil {
		results = []models.Gag{}
	}
	return &models.SearchResponse{
		Query:     query.Query,
		Scope:     query.Scope,
		Results:   results,
		Total:     total,
		QueryTime: time.Since(startTime).Milliseconds(),
	}, nil
}

// FindNonMain returns the gags whose owner is set and is not a main character,
// sorted by title. Gags without an owner are excluded.
func (e *Engine) FindNonMain() []models.Gag {
	out := []models.Gag{}
	for _, g := range e.store.All() {
		owner, ok := g.Owner.Get()
		if ok && !e.cast.IsMain(owner) {
			out = append(out, g)
		}
	}
	return out
}

// ByOwner returns the gags whose owner contains name, case-insensitively.
func (e *Engine) ByOwner(name string) []models.Gag {
	return e.Search(name, models.ScopeCharacter)
}
