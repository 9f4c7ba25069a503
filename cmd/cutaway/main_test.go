package main

import (
	"flag"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/cutaway/internal/config"
	"github.com/hyperjump/cutaway/internal/gagdb"
	"github.com/hyperjump/cutaway/internal/keyword"
	"github.com/hyperjump/cutaway/internal/models"
	"github.com/hyperjump/cutaway/internal/server"
	"github.com/hyperjump/cutaway/internal/store"
)

func reorderFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	commonFlags(fs)
	fs.String("in", "all", "")
	fs.Int("limit", 0, "")
	fs.String("output", "text", "")
	return fs
}

func TestSearchArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after query are moved first",
			args:     []string{"peter griffin", "-in", "character"},
			expected: []string{"-in", "character", "peter griffin"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-in", "character", "peter griffin"},
			expected: []string{"-in", "character", "peter griffin"},
		},
		{
			name:     "flags on both sides of the query",
			args:     []string{"--in", "character", "foo", "--limit", "5"},
			expected: []string{"--in", "character", "--limit", "5", "foo"},
		},
		{
			name:     "bool flag takes no value",
			args:     []string{"death", "--debug", "souls"},
			expected: []string{"--debug", "death", "souls"},
		},
		{
			name:     "inline value",
			args:     []string{"death", "--output=json", "--limit", "2"},
			expected: []string{"--output=json", "--limit", "2", "death"},
		},
		{
			name:     "terminator keeps dashed words in the query",
			args:     []string{"death", "--limit", "1", "--", "-x"},
			expected: []string{"--limit", "1", "--", "death", "-x"},
		},
		{
			name:     "query only returns unchanged",
			args:     []string{"peter griffin"},
			expected: []string{"peter griffin"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"conway", "twitty", "--output", "json"},
			expected: []string{"--output", "json", "conway", "twitty"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := searchArgsReorder(reorderFlagSet(), tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("searchArgsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSearchArgsReorder_parsesFlagsAroundQuery(t *testing.T) {
	fs := reorderFlagSet()
	if err := fs.Parse(searchArgsReorder(fs, []string{"--in", "character", "foo", "--limit", "5"})); err != nil {
		t.Fatal(err)
	}
	if q := buildSearchQuery(fs.Args()); q != "foo" {
		t.Errorf("query = %q, want foo", q)
	}
	if v := fs.Lookup("limit").Value.String(); v != "5" {
		t.Errorf("limit = %s, want 5", v)
	}
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"death"}, "death"},
		{"multiple words", []string{"stewie", "griffin"}, "stewie griffin"},
		{"single quoted phrase", []string{"stewie griffin"}, "stewie griffin"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildSearchQuery(tt.args)
			if got != tt.expected {
				t.Errorf("buildSearchQuery(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvGagsDir, config.EnvDebug, config.EnvServerPort} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
gags_dir: "./gags"
server:
  host: "localhost"
  port: 8080
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while configPath from t.TempDir() is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s (canon %s), want %s (canon %s)", resolved, resolvedCanon, configPath, configPathCanon)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
gags_dir: "./gags"
server:
  host: "127.0.0.1"
  port: 9000
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.GagsDir != filepath.Join(dir, "gags") {
		t.Errorf("GagsDir = %s, want it next to the config", cfg.GagsDir)
	}
}

func TestLoadConfig_missingExplicitPathFails(t *testing.T) {
	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for a missing explicit config")
	}
}

func TestLoadConfig_builtInDefaults(t *testing.T) {
	if _, err := os.Stat(defaultConfigPath); err == nil {
		t.Skip("a system config is installed")
	}
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != "" {
		t.Errorf("resolved = %q, want empty for built-in defaults", resolved)
	}
	if cfg.GagsDir != "./gags" || cfg.Server.Port != 8080 {
		t.Errorf("unexpected defaults: gags_dir=%s port=%d", cfg.GagsDir, cfg.Server.Port)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := writeDefaultConfig(path, false); err != nil {
		t.Fatal(err)
	}
	if err := writeDefaultConfig(path, false); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second write = %v, want already exists", err)
	}
	if err := writeDefaultConfig(path, true); err != nil {
		t.Errorf("forced write: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Export.JSON != "gags_database.json" {
		t.Errorf("Export.JSON = %q", cfg.Export.JSON)
	}
}

func TestSearchViaHTTP(t *testing.T) {
	src := store.MemorySource{
		{Name: "A.txt", Content: []byte("Title: A\nCutaway Owner: Stewie Griffin\nDescription: Stewie robs a bank for money\n")},
		{Name: "B.txt", Content: []byte("Title: B\nCutaway Owner: Death\nDescription: Death collects souls\n")},
	}
	live, err := gagdb.NewLive(func() (*gagdb.DB, error) {
		return gagdb.Open(src, gagdb.Settings{Keyword: keyword.DefaultOptions()})
	})
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	ts := httptest.NewServer(server.NewServer(live, cfg, nil, zap.NewNop()).Handler())
	defer ts.Close()

	resp, err := searchViaHTTP(ts.URL+"/", &models.SearchQuery{Query: "death", Scope: models.ScopeCharacter})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Results[0].Title != "B" {
		t.Errorf("response = %+v", resp)
	}

	if _, err := searchViaHTTP(ts.URL, &models.SearchQuery{Query: "x", Scope: "title"}); err == nil || !strings.Contains(err.Error(), "400") {
		t.Errorf("bad scope error = %v, want server 400", err)
	}
}
