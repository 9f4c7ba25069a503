// Package export writes the gag catalog to JSON, CSV, XLSX and SQLite files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/hyperjump/cutaway/internal/models"
)

// Record is one gag as written by the JSON exports.
type Record struct {
	Title        string                  `json:"title"`
	Season       models.Optional[int]    `json:"season"`
	Episode      models.Optional[string] `json:"episode"`
	EpisodeOrder models.Optional[int]    `json:"episode_order"`
	Owner        models.Optional[string] `json:"cutaway_owner"`
	Description  models.Optional[string] `json:"description"`
}

// Metadata summarises a full JSON export.
type Metadata struct {
	TotalGags        int                                 `json:"total_gags"`
	Seasons          models.Optional[models.SeasonRange] `json:"seasons"`
	UniqueCharacters int                                 `json:"unique_characters"`
}

// Document is the top-level JSON export.
type Document struct {
	Metadata Metadata `json:"metadata"`
	Gags     []Record `json:"gags"`
}

// AbsurdistMetadata summarises an absurdist export.
type AbsurdistMetadata struct {
	AbsurdistGags int    `json:"absurdist_gags"`
	Description   string `json:"description"`
}

// AbsurdistRecord omits episode order.
type AbsurdistRecord struct {
	Title       string                  `json:"title"`
	Season      models.Optional[int]    `json:"season"`
	Episode     models.Optional[string] `json:"episode"`
	Owner       models.Optional[string] `json:"cutaway_owner"`
	Description models.Optional[string] `json:"description"`
}

// AbsurdistDocument is the JSON export of non-main-character gags.
type AbsurdistDocument struct {
	Metadata AbsurdistMetadata `json:"metadata"`
	Gags     []AbsurdistRecord `json:"gags"`
}

// CSVHeader is the column order of the CSV export.
var CSVHeader = []string{"title", "season", "episode", "episode_order", "cutaway_owner", "description"}

func toRecord(g models.Gag) Record {
	return Record{
		Title:        g.Title,
		Season:       g.Season,
		Episode:      g.Episode,
		EpisodeOrder: g.EpisodeOrder,
		Owner:        g.Owner,
		Description:  g.Description,
	}
}

// NewDocument builds the JSON export body. gags are expected in title order.
func NewDocument(gags []models.Gag) Document {
	doc := Document{Gags: make([]Record, 0, len(gags))}
	owners := make(map[string]struct{})
	var seasons *models.SeasonRange
	for _, g := range gags {
		doc.Gags = append(doc.Gags, toRecord(g))
		if owner, ok := g.Owner.Get(); ok && owner != "" {
			owners[owner] = struct{}{}
		}
		if s, ok := g.Season.Get(); ok {
			if seasons == nil {
				seasons = &models.SeasonRange{Min: s, Max: s}
			}
			seasons.Min = min(seasons.Min, s)
			seasons.Max = max(seasons.Max, s)
		}
	}
	doc.Metadata.TotalGags = len(gags)
	doc.Metadata.UniqueCharacters = len(owners)
	if seasons != nil {
		doc.Metadata.Seasons = models.Some(*seasons)
	}
	return doc
}

// WriteJSON writes the full catalog with metadata as indented JSON.
func WriteJSON(w io.Writer, gags []models.Gag) error {
	return encodeJSON(w, NewDocument(gags))
}

// ReadJSON decodes a document written by WriteJSON.
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	return &doc, nil
}

// WriteAbsurdist writes gags owned by non-main characters as indented JSON.
func WriteAbsurdist(w io.Writer, gags []models.Gag) error {
	doc := AbsurdistDocument{
		Metadata: AbsurdistMetadata{
			AbsurdistGags: len(gags),
			Description:   "Family Guy gags featuring non-main characters",
		},
		Gags: make([]AbsurdistRecord, 0, len(gags)),
	}
	for _, g := range gags {
		doc.Gags = append(doc.Gags, AbsurdistRecord{
			Title:       g.Title,
			Season:      g.Season,
			Episode:     g.Episode,
			Owner:       g.Owner,
			Description: g.Description,
		})
	}
	return encodeJSON(w, doc)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// Row returns the CSV/XLSX cells for g in CSVHeader order. Absent fields are empty.
func Row(g models.Gag) []string {
	return []string{
		g.Title,
		intCell(g.Season),
		g.Episode.OrElse(""),
		intCell(g.EpisodeOrder),
		g.Owner.OrElse(""),
		g.Description.OrElse(""),
	}
}

func intCell(o models.Optional[int]) string {
	if v, ok := o.Get(); ok {
		return strconv.Itoa(v)
	}
	return ""
}

// WriteCSV writes a header row followed by one row per gag.
func WriteCSV(w io.Writer, gags []models.Gag) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, g := range gags {
		if err := cw.Write(Row(g)); err != nil {
			return fmt.Errorf("write %q: %w", g.Title, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
