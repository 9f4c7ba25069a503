// Package cast classifies cutaway owners as main cast or incidental characters.
package cast

import (
	"sort"
	"strings"
)

// DefaultMainCharacters are the recurring characters of the show, lower-cased.
var DefaultMainCharacters = []string{
	"peter griffin", "lois griffin", "stewie griffin",
	"chris griffin", "meg griffin", "brian griffin",
	"quagmire", "joe swanson", "cleveland brown",
}

// Cast is an immutable set of main character names.
type Cast struct {
	names []string
}

// New returns a Cast for names. Names are lower-cased, trimmed and de-duplicated;
// an empty list yields DefaultMainCharacters.
func New(names []string) *Cast {
	if len(names) == 0 {
		names = DefaultMainCharacters
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return &Cast{names: out}
}

// Default returns the Cast for DefaultMainCharacters.
func Default() *Cast {
	return New(nil)
}

// IsMain reports whether owner contains any main character name, case-insensitively.
// "Peter Griffin's evil twin" is main.
func (c *Cast) IsMain(owner string) bool {
	lower := strings.ToLower(owner)
	for _, n := range c.names {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

// Names returns the sorted main character names.
func (c *Cast) Names() []string {
	return append([]string(nil), c.names...)
}
