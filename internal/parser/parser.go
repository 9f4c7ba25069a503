// Package parser extracts gag records from labeled plain-text files.
package parser

import (
	"bytes"
	"errors"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/hyperjump/cutaway/internal/models"
)

// ErrNotText is returned for content that cannot be decoded as text.
var ErrNotText = errors.New("content is not text")

var digitsRe = regexp.MustCompile(`^[0-9]+$`)

// field is one labeled line and how its value lands on the record.
type field struct {
	label string
	re    *regexp.Regexp
	set   func(g *models.Gag, value string)
}

func newField(label string, set func(g *models.Gag, value string)) field {
	return field{
		label: label,
		re:    regexp.MustCompile(`(?im)^[ \t]*` + regexp.QuoteMeta(label) + `[ \t]*:(.*)$`),
		set:   set,
	}
}

// Parser turns file content into a models.Gag. It holds no state between calls.
type Parser struct {
	fields []field
}

// New returns a Parser for the Title, Season, Episode, Episode Order, Cutaway Owner and
// Description labels.
func New() *Parser {
	return &Parser{fields: []field{
		newField("Title", func(g *models.Gag, v string) { g.Title = v }),
		newField("Season", func(g *models.Gag, v string) { g.Season = parseInt(v) }),
		newField("Episode", func(g *models.Gag, v string) { g.Episode = models.Some(v) }),
		newField("Episode Order", func(g *models.Gag, v string) { g.EpisodeOrder = parseInt(v) }),
		newField("Cutaway Owner", func(g *models.Gag, v string) { g.Owner = models.Some(v) }),
		newField("Description", func(g *models.Gag, v string) { g.Description = models.Some(v) }),
	}}
}

// Parse extracts a record from content. name is the source file name; its base name
// without extension becomes the title when no Title line is present. Invalid UTF-8
// bytes are dropped. Unparseable field values leave the field unset.
func (p *Parser) Parse(name string, content []byte) (models.Gag, error) {
	if bytes.IndexByte(content, 0) >= 0 {
		return models.Gag{}, ErrNotText
	}
	text := strings.ToValidUTF8(string(content), "")
	g := models.Gag{SourceName: filepath.Base(name)}
	for _, f := range p.fields {
		m := f.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		if value == "" {
			continue
		}
		f.set(&g, value)
	}
	if g.Title == "" {
		g.Title = FallbackTitle(name)
	}
	return g, nil
}

// FallbackTitle returns the base name of name without its extension, or the base
// name itself when stripping the extension would leave nothing (".txt").
func FallbackTitle(name string) string {
	base := filepath.Base(name)
	if stem := strings.TrimSuffix(base, filepath.Ext(base)); stem != "" {
		return stem
	}
	return base
}

func parseInt(v string) models.Optional[int] {
	if !digitsRe.MatchString(v) {
		return models.None[int]()
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return models.None[int]()
	}
	return models.Some(n)
}
