// Package cli renders gags, search results and reports for the terminal.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/cutaway/internal/models"
	"github.com/hyperjump/cutaway/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one line per gag.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat converts s to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", OutputText:
		return OutputText, nil
	case OutputCompact, OutputJSON:
		return OutputFormat(s), nil
	}
	return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
}

// DescriptionWidth is where compact lines cut descriptions.
const DescriptionWidth = 80

var divider = strings.Repeat("=", 60)

// WriteGag writes one gag as a block, skipping absent fields.
func WriteGag(w io.Writer, g models.Gag) {
	fmt.Fprintf(w, "\n%s\n", divider)
	fmt.Fprintf(w, "Title: %s\n", g.Title)
	if v, ok := g.Season.Get(); ok {
		fmt.Fprintf(w, "Season: %d\n", v)
	}
	if v, ok := g.Episode.Get(); ok {
		fmt.Fprintf(w, "Episode: %s\n", v)
	}
	if v, ok := g.EpisodeOrder.Get(); ok {
		fmt.Fprintf(w, "Episode Order: %d\n", v)
	}
	if v, ok := g.Owner.Get(); ok {
		fmt.Fprintf(w, "Cutaway Owner: %s\n", v)
	}
	if v, ok := g.Description.Get(); ok {
		fmt.Fprintf(w, "Description: %s\n", v)
	}
	if g.SourceName != "" {
		fmt.Fprintf(w, "File: %s\n", g.SourceName)
	}
	fmt.Fprintln(w, divider)
}

// WriteCompact writes g on one line: title, owner and a truncated description.
func WriteCompact(w io.Writer, g models.Gag) {
	line := fmt.Sprintf("• %s (%s)", g.Title, g.Owner.OrElse("Unknown"))
	if desc, ok := g.Description.Get(); ok {
		line += ": " + utils.Truncate(desc, DescriptionWidth)
	}
	fmt.Fprintln(w, line)
}

// WriteListLine writes the fixed-width title | owner | season row used by list.
func WriteListLine(w io.Writer, g models.Gag) {
	season := "?"
	if v, ok := g.Season.Get(); ok {
		season = fmt.Sprintf("S%d", v)
	}
	fmt.Fprintf(w, "  %-50s | %-20s | %s\n", g.Title, g.Owner.OrElse("Unknown"), season)
}

// WriteSearchResults writes a search response to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return WriteJSON(w, response)
	case OutputCompact:
		fmt.Fprintf(w, "Found %d gag(s) matching '%s'\n", response.Total, response.Query)
		for _, g := range response.Results {
			WriteCompact(w, g)
		}
		writeMore(w, response.Total, len(response.Results))
		return nil
	default:
		fmt.Fprintf(w, "\nFound %d gag(s) matching '%s' in %dms:\n", response.Total, response.Query, response.QueryTime)
		for _, g := range response.Results {
			WriteGag(w, g)
		}
		writeMore(w, response.Total, len(response.Results))
		return nil
	}
}

// WriteGags writes a titled gag list in the given format.
func WriteGags(w io.Writer, heading string, gags []models.Gag, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return WriteJSON(w, gags)
	case OutputCompact:
		fmt.Fprintf(w, "%s\n", heading)
		for _, g := range gags {
			WriteCompact(w, g)
		}
	default:
		fmt.Fprintf(w, "\n%s\n", heading)
		for _, g := range gags {
			WriteGag(w, g)
		}
	}
	return nil
}

func writeMore(w io.Writer, total, shown int) {
	if total > shown {
		fmt.Fprintf(w, "... and %d more\n", total-shown)
	}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
