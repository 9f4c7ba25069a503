package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hyperjump/cutaway/internal/config"
	"github.com/hyperjump/cutaway/internal/models"
	"github.com/hyperjump/cutaway/internal/storage"
)

func sampleGags() []models.Gag {
	return []models.Gag{
		{
			Title:        "A",
			Season:       models.Some(5),
			Episode:      models.Some("Barely Legal"),
			EpisodeOrder: models.Some(2),
			Owner:        models.Some("Stewie Griffin"),
			Description:  models.Some(`Stewie robs a bank, "for money"`),
			SourceName:   "A.txt",
		},
		{
			Title:       "B",
			Season:      models.Some(9),
			Owner:       models.Some("Death"),
			Description: models.Some("Death collects souls"),
			SourceName:  "B.txt",
		},
		{Title: "C", SourceName: "C.txt"},
	}
}

type fakeCatalog []models.Gag

func (c fakeCatalog) All() []models.Gag { return c }

func (c fakeCatalog) FindNonMain() []models.Gag {
	var out []models.Gag
	for _, g := range c {
		if owner, ok := g.Owner.Get(); ok && owner == "Death" {
			out = append(out, g)
		}
	}
	return out
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	gags := sampleGags()
	var buf bytes.Buffer
	if err := WriteJSON(&buf, gags); err != nil {
		t.Fatal(err)
	}
	doc, err := ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Metadata.TotalGags != 3 || doc.Metadata.UniqueCharacters != 2 {
		t.Errorf("metadata = %+v", doc.Metadata)
	}
	if rng, ok := doc.Metadata.Seasons.Get(); !ok || rng != (models.SeasonRange{Min: 5, Max: 9}) {
		t.Errorf("seasons = %+v", rng)
	}
	for i, g := range gags {
		if !reflect.DeepEqual(doc.Gags[i], toRecord(g)) {
			t.Errorf("gag %d = %+v, want %+v", i, doc.Gags[i], toRecord(g))
		}
	}
}

func TestWriteJSON_AbsentFieldsAreNull(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, []models.Gag{{Title: "C"}}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`"season": null`, `"cutaway_owner": null`, `"seasons": null`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, "source_name") {
		t.Error("source_name should not be exported")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleGags()); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rows[0], CSVHeader) {
		t.Errorf("header = %v", rows[0])
	}
	want := []string{"A", "5", "Barely Legal", "2", "Stewie Griffin", `Stewie robs a bank, "for money"`}
	if !reflect.DeepEqual(rows[1], want) {
		t.Errorf("row = %v, want %v", rows[1], want)
	}
	if !reflect.DeepEqual(rows[3], []string{"C", "", "", "", "", ""}) {
		t.Errorf("empty row = %v", rows[3])
	}
}

func TestWriteAbsurdist(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAbsurdist(&buf, fakeCatalog(sampleGags()).FindNonMain()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `"absurdist_gags": 1`) || !strings.Contains(out, `"title": "B"`) {
		t.Errorf("unexpected absurdist export:\n%s", out)
	}
	if strings.Contains(out, "episode_order") {
		t.Error("absurdist export should omit episode_order")
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleGags()); err != nil {
		t.Fatal(err)
	}
	rows, err := ReadXLSX(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	if !reflect.DeepEqual(rows[0], CSVHeader) {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "A" || rows[1][1] != "5" || rows[2][4] != "Death" {
		t.Errorf("rows = %v", rows)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatAll, false},
		{"all", FormatAll, false},
		{"JSON", FormatJSON, false},
		{"xlsx", FormatXLSX, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestExporter_ExportAll(t *testing.T) {
	cfg := config.Config{}
	config.ApplyDefaults(&cfg)
	cfg.Export.Dir = filepath.Join(t.TempDir(), "exports")

	e := NewExporter(cfg.Export)
	written, err := e.Export(context.Background(), FormatAll, fakeCatalog(sampleGags()))
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != len(Formats) {
		t.Fatalf("written = %+v", written)
	}
	for _, w := range written {
		if _, err := os.Stat(w.Path); err != nil {
			t.Errorf("%s not written: %v", w.Format, err)
		}
		want := 3
		if w.Format == FormatAbsurdist {
			want = 1
		}
		if w.Count != want {
			t.Errorf("%s count = %d, want %d", w.Format, w.Count, want)
		}
	}

	db, err := storage.NewSQLiteStorage(e.Path(FormatSQLite))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	got, err := db.ListGags(context.Background(), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || !reflect.DeepEqual(got[0], sampleGags()[0]) {
		t.Errorf("sqlite read-back = %+v", got)
	}
}
