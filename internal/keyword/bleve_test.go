package keyword

import (
	"context"
	"testing"
)

func newTestFileIndex(t *testing.T) *FileIndex {
	t.Helper()
	idx, err := NewFileIndex()
	if err != nil {
		t.Fatalf("NewFileIndex: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	ctx := context.Background()
	files := map[string]string{
		"sneakers.txt": "Title: Sneakers\nCutaway Owner: Sneakers O'Toole\nDescription: A man with very loud shoes.\n",
		"moon.txt":     "Title: Peter Goes to the Moon\nDescription: Peter floats away holding balloons.\n",
	}
	for name, content := range files {
		if err := idx.Add(ctx, name, content); err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
	}
	return idx
}

func TestFileIndex_SearchSingleWord(t *testing.T) {
	idx := newTestFileIndex(t)
	got, err := idx.Search(context.Background(), "Sneakers")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "sneakers.txt" {
		t.Errorf("Search(Sneakers) = %v, want [sneakers.txt]", got)
	}
}

func TestFileIndex_SearchSubstring(t *testing.T) {
	idx := newTestFileIndex(t)
	got, err := idx.Search(context.Background(), "toole")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "sneakers.txt" {
		t.Errorf("Search(toole) = %v, want [sneakers.txt]", got)
	}
}

func TestFileIndex_SearchPhrase(t *testing.T) {
	idx := newTestFileIndex(t)
	got, err := idx.Search(context.Background(), "holding balloons")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "moon.txt" {
		t.Errorf("Search(holding balloons) = %v, want [moon.txt]", got)
	}
}

func TestFileIndex_NoMatch(t *testing.T) {
	idx := newTestFileIndex(t)
	got, err := idx.Search(context.Background(), "zeppelin")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("Search(zeppelin) = %v, want none", got)
	}
	if n, _ := idx.DocCount(); n != 2 {
		t.Errorf("DocCount() = %d, want 2", n)
	}
}

func TestFileIndex_SearchLiteralText(t *testing.T) {
	idx, err := NewFileIndex()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	ctx := context.Background()
	content := "Title: Spider-Man (Part 2)\nDescription: Peter pays $5.99 for a [bracket] and learns C++ while the man swings by.\n"
	if err := idx.Add(ctx, "spider.txt", content); err != nil {
		t.Fatal(err)
	}
	if err := idx.Add(ctx, "plain.txt", "Title: Plain\nDescription: Nothing here\n"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		keyword string
		want    int
	}{
		{"spider-man", 1},
		{"Spider-Man", 1},
		{"$5.99", 1},
		{"(part", 1},
		{"[bracket]", 1},
		{"c++", 1},
		{"the", 1},
		{"sneak", 0},
		{"man swings", 1},
		{"ider-ma", 1},
		{"plain", 1},
		{"man  swings", 0},
		{"$6.99", 0},
	}
	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			got, err := idx.Search(ctx, tt.keyword)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Errorf("Search(%q) = %v, want %d file(s)", tt.keyword, got, tt.want)
			}
		})
	}
}

func TestFileIndex_AddCancelled(t *testing.T) {
	idx, err := NewFileIndex()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := idx.Add(ctx, "a.txt", "text"); err == nil {
		t.Error("Add with a cancelled context should fail")
	}
	if n, _ := idx.DocCount(); n != 0 {
		t.Errorf("DocCount() = %d, want 0", n)
	}
}
