package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/cutaway/internal/models"
)

const (
	gagsSheet    = "Gags"
	summarySheet = "Summary"
)

// WriteXLSX writes a workbook with a Gags sheet (CSVHeader columns, numeric season and
// episode order cells) and a Summary sheet mirroring the JSON metadata.
func WriteXLSX(w io.Writer, gags []models.Gag) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", gagsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	header := make([]interface{}, len(CSVHeader))
	for i, h := range CSVHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(gagsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetRowStyle(gagsSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, g := range gags {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := xlsxRow(g)
		if err := f.SetSheetRow(gagsSheet, cell, &row); err != nil {
			return fmt.Errorf("write %q: %w", g.Title, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	meta := NewDocument(gags).Metadata
	summary := [][]interface{}{
		{"total_gags", meta.TotalGags},
		{"unique_characters", meta.UniqueCharacters},
	}
	if rng, ok := meta.Seasons.Get(); ok {
		summary = append(summary, []interface{}{"first_season", rng.Min}, []interface{}{"last_season", rng.Max})
	}
	for i, row := range summary {
		if err := f.SetSheetRow(summarySheet, "A"+strconv.Itoa(i+1), &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// xlsxRow keeps numbers numeric and leaves absent cells blank.
func xlsxRow(g models.Gag) []interface{} {
	row := []interface{}{g.Title, nil, g.Episode.OrElse(""), nil, g.Owner.OrElse(""), g.Description.OrElse("")}
	if v, ok := g.Season.Get(); ok {
		row[1] = v
	}
	if v, ok := g.EpisodeOrder.Get(); ok {
		row[3] = v
	}
	return row
}

// ReadXLSX returns the Gags sheet rows, header included.
func ReadXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(gagsSheet)
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", gagsSheet, err)
	}
	return rows, nil
}
