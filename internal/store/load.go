package store

import (
	"errors"
	"fmt"

	"github.com/hyperjump/cutaway/internal/parser"
	"go.uber.org/zap"
)

// FailedFile is a file that produced no record.
type FailedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// LoadReport describes what a Load saw: files found versus records kept.
type LoadReport struct {
	FilesFound       int          `json:"files_found"`
	Loaded           int          `json:"loaded"`
	Failed           []FailedFile `json:"failed,omitempty"`
	Collisions       []Collision  `json:"collisions,omitempty"`
	MissingDirectory bool         `json:"missing_directory,omitempty"`
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	logger *zap.Logger
}

// WithLogger sets the logger for per-file failures, collisions and the load summary.
func WithLogger(l *zap.Logger) LoadOption {
	return func(o *loadOptions) { o.logger = l }
}

// Load parses every file from src into a new Store. Files that cannot be read or parsed
// are logged and skipped. A missing directory yields an empty Store with
// MissingDirectory set. Only a failure to enumerate the source is returned as an error.
func Load(src Source, p *parser.Parser, opts ...LoadOption) (*Store, *LoadReport, error) {
	o := loadOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if p == nil {
		p = parser.New()
	}

	st := New()
	report := &LoadReport{}
	files, err := src.Files()
	if err != nil {
		if errors.Is(err, ErrMissingDirectory) {
			o.logger.Warn("gags directory not found, starting empty", zap.Error(err))
			report.MissingDirectory = true
			return st, report, nil
		}
		return nil, nil, fmt.Errorf("list gag files: %w", err)
	}
	report.FilesFound = len(files)
	o.logger.Debug("loading gag files", zap.Int("files", len(files)))

	for _, f := range files {
		if f.Err != nil {
			o.logger.Warn("skipping unreadable gag file", zap.String("file", f.Name), zap.Error(f.Err))
			report.Failed = append(report.Failed, FailedFile{Name: f.Name, Reason: f.Err.Error()})
			continue
		}
		g, parseErr := p.Parse(f.Name, f.Content)
		if parseErr != nil {
			o.logger.Warn("skipping unparseable gag file", zap.String("file", f.Name), zap.Error(parseErr))
			report.Failed = append(report.Failed, FailedFile{Name: f.Name, Reason: parseErr.Error()})
			continue
		}
		if st.Put(g) {
			o.logger.Warn("duplicate gag title, later file wins",
				zap.String("title", g.Title),
				zap.String("file", f.Name))
		}
	}

	report.Loaded = st.Count()
	report.Collisions = st.Collisions()
	o.logger.Info("gags loaded",
		zap.Int("files_found", report.FilesFound),
		zap.Int("loaded", report.Loaded),
		zap.Int("failed", len(report.Failed)),
		zap.Int("collisions", len(report.Collisions)))
	return st, report, nil
}
