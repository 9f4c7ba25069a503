package shell

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/hyperjump/cutaway/internal/gagdb"
	"github.com/hyperjump/cutaway/internal/keyword"
	"github.com/hyperjump/cutaway/internal/store"
)

func testDB(t *testing.T) *gagdb.DB {
	t.Helper()
	src := store.MemorySource{
		{Name: "A.txt", Content: []byte("Title: A\nSeason: 5\nEpisode: Road to Rupert\nCutaway Owner: Stewie Griffin\nDescription: Stewie robs a bank for money\n")},
		{Name: "B.txt", Content: []byte("Title: B\nCutaway Owner: Death\nDescription: Death collects souls\n")},
	}
	for i := 0; i < 12; i++ {
		src = append(src, store.File{
			Name:    fmt.Sprintf("peter%02d.txt", i),
			Content: []byte(fmt.Sprintf("Title: Peter %02d\nCutaway Owner: Peter Griffin\nDescription: %s\n", i, strings.Repeat("long ", 30))),
		})
	}
	db, err := gagdb.Open(src, gagdb.Settings{Keyword: keyword.DefaultOptions()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func run(t *testing.T, input string) string {
	t.Helper()
	db := testDB(t)
	var out bytes.Buffer
	sh := New(func() *gagdb.DB { return db }, strings.NewReader(input), &out)
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestShell_Commands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
		avoid []string
	}{
		{"search all", "search money\n", []string{"Found 1 result(s)", "Title: A", "Info:  S5 | Ep: Road to Rupert"}, nil},
		{"char scope", "char death\n", []string{"Title: B", "Info:  ? | Ep: N/A"}, []string{"Title: A"}},
		{"desc scope skips owner", "desc griffin\n", []string{"No results found for 'desc griffin'"}, nil},
		{"missing argument", "char\n", []string{"Please enter a character name"}, nil},
		{"unknown", "frobnicate\n", []string{"Unknown command: frobnicate"}, nil},
		{"top ten", "list peter\n", []string{"Found 12 result(s)", "... and 2 more results"}, []string{"Peter 10"}},
		{"absurdist shows all", "absurdist\n", []string{"Found 1 result(s)", "Title: B"}, nil},
		{"stats", "stats\n", []string{"Total Gags: 14", "Season Range: 5 - 5", "Peter Griffin"}, nil},
		{"quit stops", "quit\nsearch money\n", []string{"Goodbye!"}, []string{"Title: A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := run(t, tt.input)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, a := range tt.avoid {
				if strings.Contains(out, a) {
					t.Errorf("output should not contain %q:\n%s", a, out)
				}
			}
		})
	}
}

func TestShell_TruncatesDescriptions(t *testing.T) {
	out := run(t, "list peter\n")
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "    Desc:") && !strings.HasSuffix(line, "...") {
			t.Errorf("long description not truncated: %q", line)
		}
	}
}

func TestShell_CancelledContext(t *testing.T) {
	db := testDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := New(func() *gagdb.DB { return db }, strings.NewReader("stats\n"), &out).Run(ctx)
	if err != context.Canceled {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
	if strings.Contains(out.String(), "DATABASE STATISTICS") {
		t.Error("command ran after cancellation")
	}
}
