package parser

import (
	"errors"
	"testing"

	"github.com/hyperjump/cutaway/internal/models"
)

const moonGag = `Title: Peter Goes to the Moon
Season: 5
Episode: Meet the Quagmires
Episode Order: 3
Cutaway Owner: Peter Griffin
Description: Peter floats away holding balloons and lands on the moon.
`

func TestParse_AllFields(t *testing.T) {
	g, err := New().Parse("peter_moon.txt", []byte(moonGag))
	if err != nil {
		t.Fatal(err)
	}
	want := models.Gag{
		Title:        "Peter Goes to the Moon",
		Season:       models.Some(5),
		Episode:      models.Some("Meet the Quagmires"),
		EpisodeOrder: models.Some(3),
		Owner:        models.Some("Peter Griffin"),
		Description:  models.Some("Peter floats away holding balloons and lands on the moon."),
		SourceName:   "peter_moon.txt",
	}
	if g != want {
		t.Errorf("Parse() = %+v\nwant %+v", g, want)
	}
}

func TestParse_Idempotent(t *testing.T) {
	p := New()
	a, _ := p.Parse("a.txt", []byte(moonGag))
	b, _ := p.Parse("a.txt", []byte(moonGag))
	if a != b {
		t.Errorf("parsing twice differs: %+v vs %+v", a, b)
	}
}

func TestParse_NoLabelsFallsBackToFileName(t *testing.T) {
	g, err := New().Parse("/gags/Random Thing.txt", []byte("just some words\nand more words\n"))
	if err != nil {
		t.Fatal(err)
	}
	if g.Title != "Random Thing" {
		t.Errorf("Title = %q, want %q", g.Title, "Random Thing")
	}
	if g.SourceName != "Random Thing.txt" {
		t.Errorf("SourceName = %q", g.SourceName)
	}
	if g.Season.IsSet() || g.Episode.IsSet() || g.EpisodeOrder.IsSet() || g.Owner.IsSet() || g.Description.IsSet() {
		t.Errorf("expected all optional fields unset, got %+v", g)
	}
}

func TestParse_MalformedNumbersLeaveFieldUnset(t *testing.T) {
	content := "Title: X\nSeason: five\nEpisode Order: 3b\n"
	g, err := New().Parse("x.txt", []byte(content))
	if err != nil {
		t.Fatal(err)
	}
	if g.Season.IsSet() {
		t.Errorf("Season should be unset, got %v", g.Season)
	}
	if g.EpisodeOrder.IsSet() {
		t.Errorf("EpisodeOrder should be unset, got %v", g.EpisodeOrder)
	}
}

func TestParse_CaseInsensitiveAndTrimmed(t *testing.T) {
	content := "title:   Lowercase Label  \r\nSEASON: 12\r\ncutaway owner:\tDeath \r\n"
	g, err := New().Parse("x.txt", []byte(content))
	if err != nil {
		t.Fatal(err)
	}
	if g.Title != "Lowercase Label" {
		t.Errorf("Title = %q", g.Title)
	}
	if v, ok := g.Season.Get(); !ok || v != 12 {
		t.Errorf("Season = %v", g.Season)
	}
	if v, _ := g.Owner.Get(); v != "Death" {
		t.Errorf("Owner = %q", v)
	}
}

func TestParse_EpisodeDoesNotMatchEpisodeOrder(t *testing.T) {
	g, err := New().Parse("x.txt", []byte("Episode Order: 4\n"))
	if err != nil {
		t.Fatal(err)
	}
	if g.Episode.IsSet() {
		t.Errorf("Episode should be unset, got %q", g.Episode.String())
	}
	if v, _ := g.EpisodeOrder.Get(); v != 4 {
		t.Errorf("EpisodeOrder = %v, want 4", g.EpisodeOrder)
	}
}

func TestParse_EmptyValueIsUnset(t *testing.T) {
	g, err := New().Parse("empty title.txt", []byte("Title:   \nDescription:\n"))
	if err != nil {
		t.Fatal(err)
	}
	if g.Title != "empty title" {
		t.Errorf("Title = %q, want fallback", g.Title)
	}
	if g.Description.IsSet() {
		t.Error("Description should be unset")
	}
}

func TestParse_InvalidUTF8Dropped(t *testing.T) {
	content := []byte("Title: Caf\xffe\nCutaway Owner: Death\n")
	g, err := New().Parse("x.txt", content)
	if err != nil {
		t.Fatal(err)
	}
	if g.Title != "Cafe" {
		t.Errorf("Title = %q, want %q", g.Title, "Cafe")
	}
}

func TestParse_BinaryContentRejected(t *testing.T) {
	_, err := New().Parse("x.txt", []byte{'T', 0, 'x'})
	if !errors.Is(err, ErrNotText) {
		t.Errorf("Parse() error = %v, want ErrNotText", err)
	}
}

func TestFallbackTitle(t *testing.T) {
	tests := map[string]string{
		"a/b/Gag Name.txt": "Gag Name",
		"noext":            "noext",
		".txt":             ".txt",
		"two.dots.txt":     "two.dots",
	}
	for in, want := range tests {
		if got := FallbackTitle(in); got != want {
			t.Errorf("FallbackTitle(%q) = %q, want %q", in, got, want)
		}
	}
}
