package keyword

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
)

// rawAnalyzer splits on word boundaries and lower-cases, keeping stop words so every
// ASCII word of a file is searchable.
const rawAnalyzer = "raw"

// rawFile is the document shape stored in the file index.
type rawFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// FileIndex is an in-memory Bleve index over the raw text of gag files, keyed by file
// name. It finds files that mention a keyword anywhere, including text the parser
// does not map to a field.
type FileIndex struct {
	index bleve.Index
	// lower-cased content by file name, for the literal match
	texts map[string]string
}

// NewFileIndex creates an empty in-memory FileIndex.
func NewFileIndex() (*FileIndex, error) {
	im := bleve.NewIndexMapping()
	err := im.AddCustomAnalyzer(rawAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register analyzer: %w", err)
	}
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = rawAnalyzer
	textFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	docMapping.AddFieldMappingsAt("name", bleve.NewKeywordFieldMapping())
	im.AddDocumentMapping("file", docMapping)
	im.DefaultType = "file"
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &FileIndex{index: index, texts: map[string]string{}}, nil
}

// Add indexes content under name, replacing any earlier content for name.
func (f *FileIndex) Add(ctx context.Context, name string, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.index.Index(name, rawFile{Name: name, Content: content}); err != nil {
		return err
	}
	f.texts[name] = strings.ToLower(content)
	return nil
}

// Search returns the sorted names of files whose text contains keyword as a
// case-insensitive substring. Keywords made of ASCII words narrow the candidates
// through the index first; anything else is checked against every file.
func (f *FileIndex) Search(ctx context.Context, keyword string) ([]string, error) {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	if needle == "" {
		return nil, nil
	}
	candidates, err := f.candidates(ctx, needle)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if strings.Contains(f.texts[name], needle) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// candidates returns the files that may contain needle. Every ASCII alphanumeric run
// of a file lies inside one indexed term, so a conjunction of substring wildcards can
// only over-match. Other keywords fall back to all files.
func (f *FileIndex) candidates(ctx context.Context, needle string) ([]string, error) {
	words := strings.Fields(needle)
	if !allAlnum(words) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		all := make([]string, 0, len(f.texts))
		for name := range f.texts {
			all = append(all, name)
		}
		return all, nil
	}
	if len(f.texts) == 0 {
		return nil, nil
	}
	parts := make([]blevequery.Query, 0, len(words))
	for _, w := range words {
		wq := bleve.NewWildcardQuery("*" + w + "*")
		wq.SetField("content")
		parts = append(parts, wq)
	}
	req := bleve.NewSearchRequest(bleve.NewConjunctionQuery(parts...))
	req.Size = len(f.texts)
	results, err := f.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	names := make([]string, 0, len(results.Hits))
	for _, hit := range results.Hits {
		names = append(names, hit.ID)
	}
	return names, nil
}

func allAlnum(words []string) bool {
	for _, w := range words {
		for i := 0; i < len(w); i++ {
			c := w[i]
			if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
				return false
			}
		}
	}
	return true
}

// DocCount returns the number of indexed files.
func (f *FileIndex) DocCount() (uint64, error) {
	return f.index.DocCount()
}

// Close releases the index.
func (f *FileIndex) Close() error {
	return f.index.Close()
}
