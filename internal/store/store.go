// Package store holds the title-keyed collection of gag records loaded from a source.
package store

import (
	"sort"

	"github.com/hyperjump/cutaway/internal/models"
)

// Collision records a title produced by a later file that replaced an earlier record.
type Collision struct {
	Title    string `json:"title"`
	Replaced string `json:"replaced"`
	Winner   string `json:"winner"`
}

// Store maps titles to records. The last record put under a title wins; every
// replacement is kept as a Collision. A Store is read-only once Load returns.
type Store struct {
	gags       map[string]models.Gag
	sources    map[string][]string
	collisions []Collision
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		gags:    make(map[string]models.Gag),
		sources: make(map[string][]string),
	}
}

// Put inserts g, replacing any record with the same title. It reports whether a
// record was replaced.
func (s *Store) Put(g models.Gag) bool {
	prev, replaced := s.gags[g.Title]
	if replaced {
		s.collisions = append(s.collisions, Collision{
			Title:    g.Title,
			Replaced: prev.SourceName,
			Winner:   g.SourceName,
		})
	}
	s.gags[g.Title] = g
	s.sources[g.Title] = append(s.sources[g.Title], g.SourceName)
	return replaced
}

// Get returns the record for title.
func (s *Store) Get(title string) (models.Gag, bool) {
	g, ok := s.gags[title]
	return g, ok
}

// All returns every record sorted by title.
func (s *Store) All() []models.Gag {
	out := make([]models.Gag, 0, len(s.gags))
	for _, title := range s.Titles() {
		out = append(out, s.gags[title])
	}
	return out
}

// Titles returns every title in ascending order.
func (s *Store) Titles() []string {
	titles := make([]string, 0, len(s.gags))
	for t := range s.gags {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}

// Count returns the number of records.
func (s *Store) Count() int {
	return len(s.gags)
}

// Collisions returns the replacements in the order they happened.
func (s *Store) Collisions() []Collision {
	return append([]Collision(nil), s.collisions...)
}

// Duplicates returns the titles produced by more than one source, sorted by title,
// with the source files in load order.
func (s *Store) Duplicates() []models.Duplicate {
	var out []models.Duplicate
	for _, title := range s.Titles() {
		files := s.sources[title]
		if len(files) > 1 {
			out = append(out, models.Duplicate{Title: title, Files: append([]string(nil), files...)})
		}
	}
	return out
}
