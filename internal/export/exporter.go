package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/cutaway/internal/config"
	"github.com/hyperjump/cutaway/internal/models"
	"github.com/hyperjump/cutaway/internal/storage"
)

// Format names an export target.
type Format string

const (
	FormatJSON      Format = "json"
	FormatCSV       Format = "csv"
	FormatAbsurdist Format = "absurdist"
	FormatXLSX      Format = "xlsx"
	FormatSQLite    Format = "sqlite"
	FormatAll       Format = "all"
)

// Formats lists every concrete format in the order "all" writes them.
var Formats = []Format{FormatJSON, FormatCSV, FormatAbsurdist, FormatXLSX, FormatSQLite}

// ParseFormat converts s to a Format. An empty string means FormatAll.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" || f == FormatAll {
		return FormatAll, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q (available: json, csv, absurdist, xlsx, sqlite, all)", s)
}

// Catalog is the data an export reads: every gag in title order and the
// non-main-character subset.
type Catalog interface {
	All() []models.Gag
	FindNonMain() []models.Gag
}

// Written describes one file produced by an export.
type Written struct {
	Format Format `json:"format"`
	Path   string `json:"path"`
	Count  int    `json:"count"`
}

// Exporter writes catalog snapshots to the files named in an ExportConfig.
type Exporter struct {
	cfg    config.ExportConfig
	logger *zap.Logger
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithLogger sets the logger used to report written files.
func WithLogger(l *zap.Logger) ExporterOption {
	return func(e *Exporter) {
		e.logger = l
	}
}

// NewExporter creates an exporter for the configured paths.
func NewExporter(cfg config.ExportConfig, opts ...ExporterOption) *Exporter {
	e := &Exporter{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Path returns the destination file for a concrete format.
func (e *Exporter) Path(f Format) string {
	var name string
	switch f {
	case FormatJSON:
		name = e.cfg.JSON
	case FormatCSV:
		name = e.cfg.CSV
	case FormatAbsurdist:
		name = e.cfg.Absurdist
	case FormatXLSX:
		name = e.cfg.XLSX
	case FormatSQLite:
		name = e.cfg.SQLite
	}
	return e.cfg.Path(name)
}

// Export writes format (or every format for FormatAll). It stops at the first failure
// and returns what was written so far.
func (e *Exporter) Export(ctx context.Context, format Format, cat Catalog) ([]Written, error) {
	targets := []Format{format}
	if format == FormatAll {
		targets = Formats
	}
	var out []Written
	for _, f := range targets {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		w, err := e.exportOne(ctx, f, cat)
		if err != nil {
			return out, fmt.Errorf("export %s: %w", f, err)
		}
		e.logger.Info("exported",
			zap.String("format", string(w.Format)),
			zap.String("path", w.Path),
			zap.Int("count", w.Count),
		)
		out = append(out, w)
	}
	return out, nil
}

func (e *Exporter) exportOne(ctx context.Context, f Format, cat Catalog) (Written, error) {
	path := e.Path(f)
	w := Written{Format: f, Path: path}
	switch f {
	case FormatJSON:
		gags := cat.All()
		w.Count = len(gags)
		return w, writeFile(path, func(out io.Writer) error { return WriteJSON(out, gags) })
	case FormatCSV:
		gags := cat.All()
		w.Count = len(gags)
		return w, writeFile(path, func(out io.Writer) error { return WriteCSV(out, gags) })
	case FormatAbsurdist:
		gags := cat.FindNonMain()
		w.Count = len(gags)
		return w, writeFile(path, func(out io.Writer) error { return WriteAbsurdist(out, gags) })
	case FormatXLSX:
		gags := cat.All()
		w.Count = len(gags)
		return w, writeFile(path, func(out io.Writer) error { return WriteXLSX(out, gags) })
	case FormatSQLite:
		gags := cat.All()
		w.Count = len(gags)
		return w, WriteSQLite(ctx, path, gags)
	}
	return w, fmt.Errorf("unknown export format %q", f)
}

// WriteSQLite replaces the gags table of the database at path with gags.
func WriteSQLite(ctx context.Context, path string, gags []models.Gag) error {
	db, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return err
	}
	if err := db.ReplaceGags(ctx, gags); err != nil {
		_ = db.Close()
		return err
	}
	return db.Close()
}

// writeFile renders into memory first so a failed render never truncates an
// existing export.
func writeFile(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
