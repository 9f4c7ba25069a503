package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrMissingDirectory is returned by a Source whose directory does not exist.
var ErrMissingDirectory = errors.New("gags directory not found")

// File is one raw record file. Err is set when the file was found but could not be read.
type File struct {
	Name    string
	Content []byte
	Err     error
}

// Source supplies the raw record files to load.
type Source interface {
	Files() ([]File, error)
}

// DirSource reads every regular file in Dir whose extension is in Extensions
// (case-insensitive; empty means all files). Subdirectories are not scanned.
type DirSource struct {
	Dir        string
	Extensions []string
}

// NewDirSource returns a DirSource for dir. With no extensions, only .txt files are read.
func NewDirSource(dir string, extensions ...string) *DirSource {
	if len(extensions) == 0 {
		extensions = []string{".txt"}
	}
	return &DirSource{Dir: dir, Extensions: extensions}
}

// Files returns the matching files sorted by name. It returns ErrMissingDirectory when
// Dir does not exist and a wrapped error when the directory cannot be listed.
func (d *DirSource) Files() ([]File, error) {
	entries, err := os.ReadDir(d.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingDirectory, d.Dir)
		}
		return nil, fmt.Errorf("read gags directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !extensionAllowed(filepath.Ext(e.Name()), d.Extensions) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	files := make([]File, 0, len(names))
	for _, name := range names {
		path := filepath.Join(d.Dir, name)
		// Resolve symlinks so only regular files are read.
		info, statErr := os.Stat(path)
		if statErr != nil {
			files = append(files, File{Name: name, Err: statErr})
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		content, readErr := os.ReadFile(path)
		files = append(files, File{Name: name, Content: content, Err: readErr})
	}
	return files, nil
}

func extensionAllowed(ext string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}

// MemorySource serves fixed files; used by tests and by callers that already hold the text.
type MemorySource []File

// Files returns the files in order.
func (m MemorySource) Files() ([]File, error) {
	return append([]File(nil), m...), nil
}
