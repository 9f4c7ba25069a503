package models

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned when a search query has no text.
var ErrEmptyQuery = errors.New("query cannot be empty")

// ErrUnknownScope is returned for a scope other than character, description or all.
var ErrUnknownScope = errors.New("unknown scope")

// Scope selects which fields a search query is matched against.
type Scope string

const (
	// ScopeCharacter matches against the cutaway owner.
	ScopeCharacter Scope = "character"
	// ScopeDescription matches against the description and the keyword index.
	ScopeDescription Scope = "description"
	// ScopeAll matches either.
	ScopeAll Scope = "all"
)

// ParseScope converts s to a Scope. An empty string means ScopeAll.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopeCharacter, ScopeDescription:
		return Scope(s), nil
	}
	return "", fmt.Errorf("%w %q (want character, description or all)", ErrUnknownScope, s)
}

// SearchQuery represents a scoped substring search.
type SearchQuery struct {
	Query string `json:"query"`
	Scope Scope  `json:"scope,omitempty"`
	Limit int    `json:"limit,omitempty"` // 0 means no limit
}

// Validate ensures the query has text and a known scope, defaulting the scope to all.
func (q *SearchQuery) Validate() error {
	if q.Query == "" {
		return ErrEmptyQuery
	}
	scope, err := ParseScope(string(q.Scope))
	if err != nil {
		return err
	}
	q.Scope = scope
	if q.Limit < 0 {
		q.Limit = 0
	}
	return nil
}

// SearchResponse is the response for a search request. Results are sorted by title.
type SearchResponse struct {
	Query     string `json:"query"`
	Scope     Scope  `json:"scope"`
	Results   []Gag  `json:"results"`
	Total     int    `json:"total"`
	QueryTime int64  `json:"query_time_ms"`
}
