// Package main is the cutaway CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/cutaway/internal/cli"
	"github.com/hyperjump/cutaway/internal/config"
	"github.com/hyperjump/cutaway/internal/export"
	"github.com/hyperjump/cutaway/internal/gagdb"
	"github.com/hyperjump/cutaway/internal/metrics"
	"github.com/hyperjump/cutaway/internal/models"
	"github.com/hyperjump/cutaway/internal/server"
	"github.com/hyperjump/cutaway/internal/shell"
	"github.com/hyperjump/cutaway/internal/storage"
	"github.com/hyperjump/cutaway/internal/validate"
	"github.com/hyperjump/cutaway/internal/watcher"
	"github.com/hyperjump/cutaway/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/cutaway/config.yaml"

// loadConfig loads config from path. When path is the default, config.yaml in the
// current directory wins if it exists, and a missing default file falls back to the
// built-in configuration. Returns the config and the path that was actually loaded
// (empty for built-in defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			cfg, err := config.Default()
			if err != nil {
				return nil, "", err
			}
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "absurdist":
		runAbsurdist()
	case "validate":
		runValidate()
	case "list":
		runList()
	case "analyze":
		runAnalyze()
	case "missing":
		runMissing()
	case "export":
		runExport()
	case "shell":
		runShell()
	case "status":
		runStatus()
	case "init":
		runInit()
	case "version", "--version", "-v":
		fmt.Printf("cutaway version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// Components holds what a one-shot command needs.
type Components struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *gagdb.DB
}

func (c *Components) Close() {
	if c.DB != nil {
		_ = c.DB.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}

// commonFlags registers the flags every catalog command accepts.
func commonFlags(fs *flag.FlagSet) (configPath *string, debug *bool) {
	configPath = fs.String("config", defaultConfigPath, "config file path")
	debug = fs.Bool("debug", false, "enable debug logging")
	return configPath, debug
}

// initializeComponents loads config, builds the CLI logger and opens the catalog.
// Failures are fatal.
func initializeComponents(configPath string, debug bool) *Components {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || debug
	logger, err := utils.NewCLILogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("config loaded",
		zap.String("config_path", resolved),
		zap.String("gags_dir", cfg.GagsDir))

	db, err := gagdb.OpenConfig(cfg, gagdb.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load gags: %v\n", err)
		os.Exit(1)
	}
	return &Components{Config: cfg, Logger: logger, DB: db}
}

func parseFormatFlag(s string) cli.OutputFormat {
	format, err := cli.ParseOutputFormat(s)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return format
}

func exitOnOutputErr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (reloads, watcher events, requests)")
	watch := fs.Bool("watch", false, "reload the catalog when gag files change (overrides watch.enabled)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("gags_dir", cfg.GagsDir),
		zap.Bool("debug", debugMode),
	)

	m := metrics.New()
	observe := func(db *gagdb.DB, err error) {
		m.ObserveReload(err)
		if db != nil {
			m.ObserveLoad(db.Store.Count(), len(db.Report.Failed), len(db.Report.Collisions))
		}
	}
	live, err := gagdb.NewLive(
		func() (*gagdb.DB, error) { return gagdb.OpenConfig(cfg, gagdb.WithLogger(logger)) },
		gagdb.WithLiveLogger(logger),
		gagdb.OnReload(observe),
	)
	if err != nil {
		logger.Fatal("Failed to load gags", zap.Error(err))
	}
	first := live.Current()
	m.ObserveLoad(first.Store.Count(), len(first.Report.Failed), len(first.Report.Collisions))
	logger.Info("catalog loaded",
		zap.Int("gags", first.Store.Count()),
		zap.Int("files_found", first.Report.FilesFound),
		zap.Int("failed", len(first.Report.Failed)))

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Watch.Enabled || *watch {
		watchSvc := watcher.NewWatcher(cfg.GagsDir, cfg.Extensions,
			func() {
				if _, err := live.Reload(); err != nil {
					logger.Warn("watch reload failed", zap.Error(err))
				}
			},
			watcher.WithLogger(logger),
			watcher.WithDebounce(time.Duration(cfg.Watch.DebounceMs)*time.Millisecond),
		)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Warn("Failed to start watcher; serving without live reload", zap.Error(err))
		} else {
			defer watchSvc.Stop()
		}
	}

	srv := server.NewServer(live, cfg, m, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
	_ = live.Current().Close()
}

// printSearchUsage prints search subcommand usage.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: cutaway search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Matching is a case-insensitive substring match on the cutaway owner and/or description.
  • --in character searches owners only.
  • --in description searches descriptions (and extracted keywords) only.

Examples:
  cutaway search death
  cutaway search --in character "stewie griffin"
  cutaway search conway twitty --output compact
  cutaway search --server http://localhost:8080 money     # ask a running server
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves every flag (and its value) to the front of the slice so that
// flag.Parse() sees them wherever they appear. Go's flag package stops at the first
// non-flag argument, so "cutaway search --in character death --limit 5" would otherwise
// leave --limit in the query. fs tells which flags take a separate value; arguments
// after "--" stay positional.
func searchArgsReorder(fs *flag.FlagSet, args []string) []string {
	flags := make([]string, 0, len(args))
	positional := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			flags = append(append(flags, a), positional...)
			return append(flags, args[i+1:]...)
		}
		if len(a) < 2 || a[0] != '-' {
			positional = append(positional, a)
			continue
		}
		flags = append(flags, a)
		name := strings.TrimLeft(a, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if f := fs.Lookup(name); f != nil && !isBoolFlag(f) && i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}
	return append(flags, positional...)
}

func isBoolFlag(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath, debug := commonFlags(fs)
	scope := fs.String("in", "all", "where to match: character, description, or all")
	limit := fs.Int("limit", 0, "maximum results to print (0 = all)")
	serverURL := fs.String("server", "", "server URL to query instead of loading the gags directory")
	outputFormat := fs.String("output", "text", "output format: text (record blocks), compact (one gag per line), or json (parseable)")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgsReorder(fs, os.Args[2:]))

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	format := parseFormatFlag(*outputFormat)
	searchQuery := &models.SearchQuery{
		Query: queryStr,
		Scope: models.Scope(*scope),
		Limit: *limit,
	}

	if *serverURL != "" {
		response, err := searchViaHTTP(*serverURL, searchQuery)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		exitOnOutputErr(cli.WriteSearchResults(os.Stdout, response, format))
		return
	}

	components := initializeComponents(*configPath, *debug)
	defer components.Close()

	response, err := components.DB.Engine.Run(searchQuery)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if response.Total == 0 && format != cli.OutputJSON {
		fmt.Printf("No gags found matching '%s'\n", response.Query)
		return
	}
	exitOnOutputErr(cli.WriteSearchResults(os.Stdout, response, format))
}

func searchViaHTTP(serverURL string, query *models.SearchQuery) (*models.SearchResponse, error) {
	params := url.Values{}
	params.Set("q", query.Query)
	if query.Scope != "" {
		params.Set("scope", string(query.Scope))
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(strings.TrimRight(serverURL, "/") + "/api/v1/search?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runAbsurdist() {
	fs := flag.NewFlagSet("absurdist", flag.ExitOnError)
	configPath, debug := commonFlags(fs)
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(os.Args[2:])
	format := parseFormatFlag(*outputFormat)

	components := initializeComponents(*configPath, *debug)
	defer components.Close()

	gags := components.DB.FindNonMain()
	heading := fmt.Sprintf("Found %d absurdist gag(s) (non-main characters):", len(gags))
	exitOnOutputErr(cli.WriteGags(os.Stdout, heading, gags, format))
}

func runValidate() {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath, debug := commonFlags(fs)
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])
	format := parseFormatFlag(*outputFormat)

	components := initializeComponents(*configPath, *debug)
	defer components.Close()

	if format != cli.OutputJSON {
		cli.WriteLoadProblems(os.Stderr, components.DB.Report)
	}
	exitOnOutputErr(cli.WriteReport(os.Stdout, components.DB.Validate(), format))
}

func runList() {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath, debug := commonFlags(fs)
	owner := fs.String("owner", "", "only list gags whose cutaway owner contains this text")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])
	format := parseFormatFlag(*outputFormat)

	components := initializeComponents(*configPath, *debug)
	defer components.Close()

	gags := components.DB.All()
	if *owner != "" {
		gags = components.DB.Engine.ByOwner(*owner)
	}
	if format == cli.OutputJSON {
		exitOnOutputErr(cli.WriteJSON(os.Stdout, gags))
		return
	}
	fmt.Printf("\nAll %d gags:\n\n", len(gags))
	for _, g := range gags {
		cli.WriteListLine(os.Stdout, g)
	}
}

func runAnalyze() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath, debug := commonFlags(fs)
	sparse := fs.Int("sparse-threshold", 0, "seasons with fewer gags are reported sparse (default from config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])
	format := parseFormatFlag(*outputFormat)

	components := initializeComponents(*configPath, *debug)
	defer components.Close()
	cfg := components.Config

	threshold := cfg.Analysis.SparseSeasonThreshold
	if *sparse > 0 {
		threshold = *sparse
	}
	view := cli.AnalysisView{
		Analysis:              components.DB.Analyze(validate.AnalyzeOptions{SparseSeasonThreshold: threshold}),
		Load:                  components.DB.Report,
		TopOwners:             cfg.Analysis.TopOwners,
		SingleAppearanceLimit: cfg.Analysis.SingleAppearanceLimit,
		DuplicateLimit:        10,
	}
	if len(cfg.Analysis.KnownMissing) > 0 {
		hits, err := components.DB.Investigate(context.Background(), cfg.Analysis.KnownMissing)
		if err != nil {
			components.Logger.Warn("known missing check failed", zap.Error(err))
		}
		view.KnownMissing = hits
	}
	exitOnOutputErr(cli.WriteAnalysis(os.Stdout, view, format))
}

func runMissing() {
	fs := flag.NewFlagSet("missing", flag.ExitOnError)
	configPath, debug := commonFlags(fs)
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(searchArgsReorder(fs, os.Args[2:]))
	format := parseFormatFlag(*outputFormat)

	components := initializeComponents(*configPath, *debug)
	defer components.Close()

	keywords := fs.Args()
	if len(keywords) == 0 {
		keywords = components.Config.Analysis.KnownMissing
	}
	if len(keywords) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: cutaway missing [flags] <keyword>...")
		os.Exit(1)
	}
	hits, err := components.DB.Investigate(context.Background(), keywords)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Investigation failed: %v\n", err)
		os.Exit(1)
	}
	view := cli.InvestigationView{
		Keywords: hits,
		Union:    validate.UnionTitles(hits),
		Gags:     map[string]models.Gag{},
	}
	for _, title := range view.Union {
		if g, ok := components.DB.Store.Get(title); ok {
			view.Gags[title] = g
		}
	}
	exitOnOutputErr(cli.WriteInvestigation(os.Stdout, view, format))
}

func runExport() {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	configPath, debug := commonFlags(fs)
	dir := fs.String("dir", "", "output directory (default from config)")
	_ = fs.Parse(searchArgsReorder(fs, os.Args[2:]))

	format, err := export.ParseFormat(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	components := initializeComponents(*configPath, *debug)
	defer components.Close()

	exportCfg := components.Config.Export
	if *dir != "" {
		exportCfg.Dir = *dir
	}
	exporter := export.NewExporter(exportCfg, export.WithLogger(components.Logger))
	written, err := exporter.Export(context.Background(), format, components.DB)
	for _, w := range written {
		fmt.Printf("Exported %d gags to %s (%s)\n", w.Count, w.Path, w.Format)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}
}

func runShell() {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	configPath, debug := commonFlags(fs)
	_ = fs.Parse(os.Args[2:])

	components := initializeComponents(*configPath, *debug)
	defer components.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	db := components.DB
	sh := shell.New(func() *gagdb.DB { return db }, os.Stdin, os.Stdout, shell.WithLogger(components.Logger))
	if err := sh.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Shell failed: %v\n", err)
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath, debug := commonFlags(fs)
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])
	format := parseFormatFlag(*outputFormat)

	components := initializeComponents(*configPath, *debug)
	defer components.Close()
	cfg := components.Config
	db := components.DB

	gagsDisk, _ := storage.DiskUsage(cfg.GagsDir)
	exportDisk, _ := storage.DiskUsage(cfg.Export.Dir)
	if format == cli.OutputJSON {
		exitOnOutputErr(cli.WriteJSON(os.Stdout, map[string]interface{}{
			"gags":        db.Store.Count(),
			"gags_dir":    cfg.GagsDir,
			"load":        db.Report,
			"gags_disk":   gagsDisk,
			"export_disk": exportDisk,
		}))
		return
	}
	fmt.Printf("Gags directory: %s\n", cfg.GagsDir)
	fmt.Printf("Gags loaded:    %d (from %d files, %d skipped)\n", db.Store.Count(), db.Report.FilesFound, len(db.Report.Failed))
	fmt.Printf("Index tokens:   %d\n", db.Index.Len())
	fmt.Printf("Gag files:      %d files, %d bytes\n", gagsDisk.Files, gagsDisk.Bytes)
	fmt.Printf("Exports:        %d files, %d bytes in %s\n", exportDisk.Files, exportDisk.Bytes, cfg.Export.Dir)
	cli.WriteLoadProblems(os.Stdout, db.Report)
}

func runInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("config", "config.yaml", "config file to write")
	force := fs.Bool("force", false, "overwrite an existing file")
	_ = fs.Parse(os.Args[2:])

	if err := writeDefaultConfig(*path, *force); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *path)
}

// writeDefaultConfig saves the built-in configuration to path, refusing to replace an
// existing file unless force is set.
func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return config.Save(path, cfg)
}

func printUsage() {
	fmt.Println(`cutaway - Family Guy cutaway gag database

Usage:
  cutaway search [flags] <query>     Search gags by owner and/or description
  cutaway absurdist [flags]          List gags owned by non-main characters
  cutaway validate [flags]           Report missing data and the season range
  cutaway list [flags]               List every gag (title | owner | season)
  cutaway analyze [flags]            Data quality report (owners, seasons, duplicates)
  cutaway missing [flags] [kw...]    Look for keywords in the catalog and raw files
  cutaway export [flags] [format]    Export json, csv, absurdist, xlsx, sqlite or all (default)
  cutaway shell [flags]              Interactive search
  cutaway status [flags]             Show what was loaded and disk usage
  cutaway server [flags]             Start the HTTP server
  cutaway init [flags]               Write a default config.yaml
  cutaway version                    Show version
  cutaway help                       Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/cutaway/config.yaml, or ./config.yaml when present)
  --debug            Enable debug logging
  --output string    Output format: text, compact or json (where supported)

Search Flags:
  --in string        character, description or all (default: all)
  --limit int        Maximum results to print (default: all)
  --server string    Query a running server instead of loading the gags directory

Server Flags:
  --watch            Reload when files in the gags directory change

Environment:
  CUTAWAY_GAGS_DIR, CUTAWAY_DEBUG, CUTAWAY_SERVER_PORT override the config file.

Examples:
  cutaway search death
  cutaway search --in character "peter griffin" --output compact
  cutaway missing "Sneakers O'toole" zeppelin
  cutaway export csv --dir ./out
  cutaway server --watch`)
}
