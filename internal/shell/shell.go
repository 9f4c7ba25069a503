// Package shell is the interactive gag browser behind "cutaway shell".
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/cutaway/internal/cli"
	"github.com/hyperjump/cutaway/internal/gagdb"
	"github.com/hyperjump/cutaway/internal/models"
	"github.com/hyperjump/cutaway/internal/validate"
	"github.com/hyperjump/cutaway/pkg/utils"
)

const (
	// Prompt is printed before each command.
	Prompt = "gag> "
	// ResultLimit is how many results a command shows, except absurdist.
	ResultLimit = 10
	// StatsOwners is how many owners stats lists.
	StatsOwners = 20
)

var rule = strings.Repeat("=", 70)

// Shell reads commands line by line and prints results against the current catalog.
type Shell struct {
	current func() *gagdb.DB
	in      io.Reader
	out     io.Writer
	logger  *zap.Logger
}

// Option configures a Shell.
type Option func(*Shell)

// WithLogger sets the logger for the shell.
func WithLogger(l *zap.Logger) Option {
	return func(s *Shell) {
		s.logger = l
	}
}

// New returns a shell over the catalog returned by current, which is consulted for
// every command so reloads are picked up.
func New(current func() *gagdb.DB, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{current: current, in: in, out: out, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run prints the banner and processes commands until quit, end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	s.banner()
	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, Prompt)
		if ctx.Err() != nil || !scanner.Scan() {
			break
		}
		if !s.Exec(scanner.Text()) {
			fmt.Fprintln(s.out, "\nGoodbye!")
			return nil
		}
	}
	fmt.Fprintln(s.out)
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read command: %w", err)
	}
	return ctx.Err()
}

func (s *Shell) banner() {
	db := s.current()
	fmt.Fprintf(s.out, "\n%s\nFAMILY GUY GAG DATABASE - INTERACTIVE SEARCH\n%s\n", rule, rule)
	fmt.Fprintf(s.out, "\nLoaded %d gags | %d absurdist gags\n", db.Store.Count(), len(db.FindNonMain()))
	fmt.Fprint(s.out, `
Commands:
  search <term>   - Search by character or description
  char <name>     - Search by cutaway owner only
  desc <term>     - Search description only
  absurdist       - Show non-main character gags
  stats           - Show database statistics
  list <char>     - List all gags by a character
  quit | exit     - Quit
`)
	fmt.Fprintf(s.out, "\n%s\n\n", strings.Repeat("-", 70))
}

// Exec runs one command line. It returns false when the shell should exit.
func (s *Shell) Exec(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	command, arg, _ := strings.Cut(line, " ")
	command = strings.ToLower(command)
	arg = strings.TrimSpace(arg)
	db := s.current()

	var results []models.Gag
	switch command {
	case "quit", "exit":
		return false
	case "search", "desc", "char", "list":
		if arg == "" {
			if command == "char" || command == "list" {
				fmt.Fprintln(s.out, "Please enter a character name")
			} else {
				fmt.Fprintln(s.out, "Please enter a search term")
			}
			return true
		}
		results = db.Engine.Search(arg, scopeFor(command))
	case "absurdist":
		results = db.FindNonMain()
	case "stats":
		s.stats(db)
		return true
	default:
		fmt.Fprintf(s.out, "Unknown command: %s\n", command)
		return true
	}
	s.logger.Debug("Shell command", zap.String("command", command), zap.String("arg", arg), zap.Int("results", len(results)))

	if len(results) == 0 {
		fmt.Fprintf(s.out, "No results found for '%s'\n", line)
		return true
	}
	fmt.Fprintf(s.out, "\nFound %d result(s):\n\n", len(results))
	shown := results
	if command != "absurdist" {
		shown = utils.Head(results, ResultLimit)
	}
	for _, g := range shown {
		writeResult(s.out, g)
	}
	if len(shown) < len(results) {
		fmt.Fprintf(s.out, "... and %d more results\n\n", len(results)-len(shown))
	} else {
		fmt.Fprintln(s.out)
	}
	return true
}

func scopeFor(command string) models.Scope {
	switch command {
	case "char", "list":
		return models.ScopeCharacter
	case "desc":
		return models.ScopeDescription
	}
	return models.ScopeAll
}

func writeResult(w io.Writer, g models.Gag) {
	season := "?"
	if v, ok := g.Season.Get(); ok {
		season = fmt.Sprintf("S%d", v)
	}
	fmt.Fprintf(w, "  Title: %s\n", g.Title)
	fmt.Fprintf(w, "    Owner: %s\n", g.Owner.OrElse("Unknown"))
	if desc, ok := g.Description.Get(); ok {
		fmt.Fprintf(w, "    Desc:  %s\n", utils.Truncate(desc, cli.DescriptionWidth))
	}
	fmt.Fprintf(w, "    Info:  %s | Ep: %s\n\n", season, g.Episode.OrElse("N/A"))
}

func (s *Shell) stats(db *gagdb.DB) {
	r := db.Validate()
	a := db.Analyze(validate.AnalyzeOptions{})
	fmt.Fprintf(s.out, "\n%s\nDATABASE STATISTICS\n%s\n", rule, rule)
	fmt.Fprintf(s.out, "Total Gags: %d\n", r.TotalGags)
	if rng, ok := r.SeasonRange.Get(); ok {
		fmt.Fprintf(s.out, "Season Range: %d - %d\n", rng.Min, rng.Max)
	} else {
		fmt.Fprintln(s.out, "Season Range: none")
	}
	fmt.Fprintf(s.out, "Unique Characters: %d\n", len(r.Characters))
	fmt.Fprintf(s.out, "Absurdist Gags: %d\n", len(r.Absurdist))
	fmt.Fprintf(s.out, "\nTop %d Characters by gag count:\n", StatsOwners)
	for _, row := range cli.OwnerCounts(a, StatsOwners) {
		fmt.Fprintf(s.out, "%s gags\n", row)
	}
	fmt.Fprintf(s.out, "%s\n\n", rule)
}
