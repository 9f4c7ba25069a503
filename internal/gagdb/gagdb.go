// Package gagdb assembles a loaded catalog: the record store, its keyword index, the
// search engine and, on demand, a full-text index over the raw files.
package gagdb

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/cutaway/internal/cast"
	"github.com/hyperjump/cutaway/internal/config"
	"github.com/hyperjump/cutaway/internal/keyword"
	"github.com/hyperjump/cutaway/internal/models"
	"github.com/hyperjump/cutaway/internal/parser"
	"github.com/hyperjump/cutaway/internal/search"
	"github.com/hyperjump/cutaway/internal/store"
	"github.com/hyperjump/cutaway/internal/validate"
)

// Settings are the catalog knobs taken from configuration.
type Settings struct {
	MainCharacters []string
	Keyword        keyword.Options
}

// SettingsFromConfig extracts Settings from cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		MainCharacters: cfg.Catalog.MainCharacters,
		Keyword: keyword.Options{
			StopWords: cfg.Catalog.StopWords,
			MinLength: cfg.Catalog.MinKeywordLength,
		},
	}
}

// DB is one immutable snapshot of the catalog.
type DB struct {
	Store    *store.Store
	Index    *keyword.Index
	Engine   *search.Engine
	Cast     *cast.Cast
	Report   *store.LoadReport
	LoadedAt time.Time

	files     []store.File
	fileOnce  sync.Once
	fileIndex *keyword.FileIndex
	fileErr   error
}

// Option configures Open.
type Option func(*openOptions)

type openOptions struct {
	logger *zap.Logger
}

// WithLogger sets the logger passed to the loader.
func WithLogger(l *zap.Logger) Option {
	return func(o *openOptions) {
		o.logger = l
	}
}

// capturingSource remembers the files it handed out so the raw-text index can be
// built later without reading the directory again.
type capturingSource struct {
	src   store.Source
	files []store.File
}

func (c *capturingSource) Files() ([]store.File, error) {
	files, err := c.src.Files()
	c.files = files
	return files, err
}

// Open loads every record from src and builds the keyword index and search engine.
func Open(src store.Source, settings Settings, opts ...Option) (*DB, error) {
	o := openOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	cs := &capturingSource{src: src}
	st, report, err := store.Load(cs, parser.New(), store.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("load gags: %w", err)
	}
	c := cast.New(settings.MainCharacters)
	idx := keyword.Build(st.All(), settings.Keyword)
	o.logger.Debug("keyword index built", zap.Int("tokens", idx.Len()))

	return &DB{
		Store:    st,
		Index:    idx,
		Engine:   search.NewEngine(st, idx, c),
		Cast:     c,
		Report:   report,
		LoadedAt: time.Now(),
		files:    cs.files,
	}, nil
}

// OpenConfig opens the gag directory named by cfg.
func OpenConfig(cfg *config.Config, opts ...Option) (*DB, error) {
	return Open(store.NewDirSource(cfg.GagsDir, cfg.Extensions...), SettingsFromConfig(cfg), opts...)
}

// All returns every gag sorted by title.
func (db *DB) All() []models.Gag {
	return db.Store.All()
}

// FindNonMain returns gags owned by characters outside the main cast.
func (db *DB) FindNonMain() []models.Gag {
	return db.Engine.FindNonMain()
}

// FileIndex returns the raw-text index over every readable file of this snapshot,
// building it on first use.
func (db *DB) FileIndex(ctx context.Context) (*keyword.FileIndex, error) {
	db.fileOnce.Do(func() {
		fi, err := keyword.NewFileIndex()
		if err != nil {
			db.fileErr = err
			return
		}
		for _, f := range db.files {
			if f.Err != nil {
				continue
			}
			if err := fi.Add(ctx, f.Name, strings.ToValidUTF8(string(f.Content), "")); err != nil {
				_ = fi.Close()
				db.fileErr = fmt.Errorf("index %s: %w", f.Name, err)
				return
			}
		}
		db.fileIndex = fi
		db.files = nil
	})
	return db.fileIndex, db.fileErr
}

// Investigate searches the snapshot and its raw files for each keyword.
func (db *DB) Investigate(ctx context.Context, keywords []string) ([]models.KeywordHits, error) {
	fi, err := db.FileIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("build file index: %w", err)
	}
	return validate.Investigate(ctx, db.Engine, fi, keywords)
}

// Validate returns the completeness report for the snapshot.
func (db *DB) Validate() *models.Report {
	return validate.Validate(db.Store, db.Cast)
}

// Analyze returns the data quality analysis for the snapshot.
func (db *DB) Analyze(opts validate.AnalyzeOptions) *models.Analysis {
	return validate.Analyze(db.Store, db.Cast, opts)
}

// Close releases the raw-text index if it was built.
func (db *DB) Close() error {
	if db.fileIndex != nil {
		return db.fileIndex.Close()
	}
	return nil
}
