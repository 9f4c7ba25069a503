package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hyperjump/cutaway/internal/models"
	"github.com/hyperjump/cutaway/internal/store"
	"github.com/hyperjump/cutaway/pkg/utils"
)

var wideDivider = strings.Repeat("=", 80)

// MultipleMissingLimit caps the gags listed under multiple missing fields.
const MultipleMissingLimit = 20

// WriteReport writes the validation report.
func WriteReport(w io.Writer, r *models.Report, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, r)
	}
	fmt.Fprintf(w, "\n%s\nGAG DATABASE VALIDATION REPORT\n%s\n", divider, divider)
	fmt.Fprintf(w, "\nTotal Gags: %d\n", r.TotalGags)
	if rng, ok := r.SeasonRange.Get(); ok {
		fmt.Fprintf(w, "Season Range: %d - %d\n", rng.Min, rng.Max)
	} else {
		fmt.Fprintln(w, "Season Range: none")
	}
	fmt.Fprintf(w, "Unique Characters: %d\n", len(r.Characters))
	fmt.Fprintf(w, "Absurdist Gags (non-main cast): %d\n", len(r.Absurdist))

	fmt.Fprintln(w, "\nMISSING DATA:")
	fmt.Fprintf(w, "  Missing Season: %d\n", len(r.MissingSeason))
	fmt.Fprintf(w, "  Missing Episode: %d\n", len(r.MissingEpisode))
	fmt.Fprintf(w, "  Missing Owner: %d\n", len(r.MissingOwner))
	fmt.Fprintf(w, "  Missing Description: %d\n", len(r.MissingDescription))
	fmt.Fprintf(w, "  Multiple Missing Fields: %d\n", len(r.MissingMultiple))

	if len(r.MissingMultiple) > 0 {
		fmt.Fprintln(w, "\n  Gags with multiple missing fields:")
		for _, m := range utils.Head(r.MissingMultiple, MultipleMissingLimit) {
			fmt.Fprintf(w, "    - %s: %s\n", m.Title, strings.Join(m.Missing, ", "))
		}
		writeMore(w, len(r.MissingMultiple), min(len(r.MissingMultiple), MultipleMissingLimit))
	}
	return nil
}

// AnalysisView bundles the analysis with the context the text report prints.
type AnalysisView struct {
	Analysis              *models.Analysis     `json:"analysis"`
	Load                  *store.LoadReport    `json:"load,omitempty"`
	KnownMissing          []models.KeywordHits `json:"known_missing,omitempty"`
	TopOwners             int                  `json:"-"`
	SingleAppearanceLimit int                  `json:"-"`
	DuplicateLimit        int                  `json:"-"`
}

// WriteAnalysis writes the data quality report.
func WriteAnalysis(w io.Writer, v AnalysisView, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, v)
	}
	a := v.Analysis
	fmt.Fprintf(w, "\n%s\nFAMILY GUY GAGS DATABASE - DATA QUALITY REPORT\n%s\n", wideDivider, wideDivider)

	fmt.Fprintln(w, "\nOVERALL STATISTICS:")
	fmt.Fprintf(w, "   Total gags loaded: %d\n", a.TotalGags)
	if v.Load != nil {
		fmt.Fprintf(w, "   Total files in directory: %d\n", v.Load.FilesFound)
		fmt.Fprintf(w, "   Files skipped: %d\n", len(v.Load.Failed))
	}
	fmt.Fprintf(w, "   Gags with main character: %d\n", a.MainGags)
	fmt.Fprintf(w, "   Gags with non-main character: %d\n", a.NonMainGags)

	fmt.Fprintln(w, "\nDUPLICATE TITLES (same title in multiple files):")
	if len(a.Duplicates) == 0 {
		fmt.Fprintln(w, "   No duplicate titles found")
	}
	for _, d := range utils.Head(a.Duplicates, v.DuplicateLimit) {
		fmt.Fprintf(w, "   %s\n", d.Title)
		for _, f := range d.Files {
			fmt.Fprintf(w, "     - %s\n", f)
		}
	}
	if v.DuplicateLimit > 0 && len(a.Duplicates) > v.DuplicateLimit {
		fmt.Fprintf(w, "   ... and %d more duplicate titles\n", len(a.Duplicates)-v.DuplicateLimit)
	}

	fmt.Fprintln(w, "\nCUTAWAY OWNER ANALYSIS:")
	fmt.Fprintf(w, "   Total unique owners: %d\n", len(a.Owners))
	fmt.Fprintf(w, "   One-time appearances: %d\n", len(a.SingleAppearance))
	fmt.Fprintf(w, "\n   Top %d owners by frequency:\n", v.TopOwners)
	for _, oc := range utils.Head(a.Owners, v.TopOwners) {
		fmt.Fprintf(w, "     %-30s %3d gags\n", oc.Owner, oc.Count)
	}

	fmt.Fprintln(w, "\nSEASON/EPISODE STATISTICS:")
	if rng, ok := a.SeasonsCovered.Get(); ok {
		fmt.Fprintf(w, "   Seasons covered: %d - %d\n", rng.Min, rng.Max)
		fmt.Fprintln(w, "\n   Gags per season:")
		for _, s := range a.Seasons {
			fmt.Fprintf(w, "     Season %2d: %3d gags across %2d episodes\n", s.Season, s.Gags, s.Episodes)
		}
	}
	if len(a.SparseSeasons) > 0 {
		fmt.Fprintf(w, "   Sparse seasons: %v\n", a.SparseSeasons)
	}

	fmt.Fprintln(w, "\nDATA COMPLETENESS:")
	fmt.Fprintf(w, "   Complete records (all fields): %d\n", a.CompleteRecords)
	fmt.Fprintf(w, "   Records with missing data: %d\n", a.IncompleteRecords)

	fmt.Fprintln(w, "\nPOTENTIAL MISSING SKITS:")
	fmt.Fprintln(w, "   Characters with only 1 gag (might have more):")
	for _, oc := range utils.Head(a.SingleAppearance, v.SingleAppearanceLimit) {
		fmt.Fprintf(w, "     - %-30s in '%s'\n", oc.Owner, oc.Gags[0])
	}
	if v.SingleAppearanceLimit > 0 && len(a.SingleAppearance) > v.SingleAppearanceLimit {
		fmt.Fprintf(w, "     ... and %d more single-appearance characters\n", len(a.SingleAppearance)-v.SingleAppearanceLimit)
	}

	if len(v.KnownMissing) > 0 {
		fmt.Fprintln(w, "\nKNOWN MISSING SKITS:")
		for _, h := range v.KnownMissing {
			if len(h.DatabaseHits) > 0 {
				fmt.Fprintf(w, "   %s - found: %s\n", h.Keyword, strings.Join(h.DatabaseHits, ", "))
			} else {
				fmt.Fprintf(w, "   %s - NOT FOUND in database\n", h.Keyword)
			}
		}
	}
	fmt.Fprintf(w, "\n%s\n", wideDivider)
	return nil
}

// InvestigationView is the missing-gag report.
type InvestigationView struct {
	Keywords []models.KeywordHits `json:"keywords"`
	Union    []string             `json:"union"`
	// Gags resolves union titles to records for the text report.
	Gags map[string]models.Gag `json:"-"`
}

// HitLimit caps the matches listed per keyword in text output.
const HitLimit = 5

// WriteInvestigation writes per-keyword database and file matches, then the union.
func WriteInvestigation(w io.Writer, v InvestigationView, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, v)
	}
	fmt.Fprintf(w, "\n%s\nMISSING SKITS INVESTIGATION REPORT\n%s\n", wideDivider, wideDivider)
	for _, h := range v.Keywords {
		fmt.Fprintf(w, "\nSearching for: '%s'\n", h.Keyword)
		fmt.Fprintf(w, "  Database matches: %d\n", len(h.DatabaseHits))
		for _, t := range utils.Head(h.DatabaseHits, HitLimit) {
			fmt.Fprintf(w, "    - %s\n", t)
		}
		fmt.Fprintf(w, "  File matches: %d\n", len(h.FileHits))
		for _, f := range utils.Head(h.FileHits, HitLimit) {
			fmt.Fprintf(w, "    - %s\n", f)
		}
		if h.NotFound {
			fmt.Fprintln(w, "  NOT FOUND - This skit may be missing from your collection")
		}
	}

	keywords := make([]string, 0, len(v.Keywords))
	for _, h := range v.Keywords {
		keywords = append(keywords, h.Keyword)
	}
	if len(v.Union) == 0 {
		fmt.Fprintf(w, "\nNo gags found matching: %s\n", strings.Join(keywords, ", "))
		return nil
	}
	fmt.Fprintf(w, "\nFound %d gag(s) matching: %s\n\n", len(v.Union), strings.Join(keywords, ", "))
	for _, title := range v.Union {
		fmt.Fprintf(w, "  %s\n", title)
		if g, ok := v.Gags[title]; ok {
			if owner, ok := g.Owner.Get(); ok {
				fmt.Fprintf(w, "    Owner: %s\n", owner)
			}
		}
	}
	return nil
}

// WriteLoadProblems lists files that were skipped or replaced during a load.
func WriteLoadProblems(w io.Writer, r *store.LoadReport) {
	if r == nil {
		return
	}
	if r.MissingDirectory {
		fmt.Fprintln(w, "Gags directory not found; the catalog is empty.")
	}
	failed := append([]store.FailedFile(nil), r.Failed...)
	sort.Slice(failed, func(i, j int) bool { return failed[i].Name < failed[j].Name })
	for _, f := range failed {
		fmt.Fprintf(w, "skipped %s: %s\n", f.Name, f.Reason)
	}
	for _, c := range r.Collisions {
		fmt.Fprintf(w, "duplicate title %q: %s replaced by %s\n", c.Title, c.Replaced, c.Winner)
	}
}

// OwnerCounts returns the top n owners by gag count as display rows, for the shell's
// stats command.
func OwnerCounts(a *models.Analysis, n int) []string {
	rows := make([]string, 0, n)
	for _, oc := range utils.Head(a.Owners, n) {
		rows = append(rows, fmt.Sprintf("  %-30s %3d", oc.Owner, oc.Count))
	}
	return rows
}
