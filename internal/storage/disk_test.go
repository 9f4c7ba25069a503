package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiskUsage(t *testing.T) {
	dir := t.TempDir()

	f1 := filepath.Join(dir, "f1.txt")
	if err := os.WriteFile(f1, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "a"), []byte("ab"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "b"), []byte("c"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		paths []string
		want  Usage
	}{
		{"single file", []string{f1}, Usage{Files: 1, Bytes: 5}},
		{"directory", []string{sub}, Usage{Files: 2, Bytes: 3}},
		{"file and directory", []string{f1, sub}, Usage{Files: 3, Bytes: 8}},
		{"missing path skipped", []string{f1, filepath.Join(dir, "nonexistent"), sub}, Usage{Files: 3, Bytes: 8}},
		{"empty path skipped", []string{"", f1}, Usage{Files: 1, Bytes: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DiskUsage(tt.paths...)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("DiskUsage = %+v, want %+v", got, tt.want)
			}
		})
	}
}
