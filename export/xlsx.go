// Package export writes activity store snapshots to spreadsheet files.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dnsco/potential/activities"
)

const (
	// ActivitiesSheet lists one activity name per row under a header.
	ActivitiesSheet = "Activities"
	// SummarySheet holds the record count, status and generation time.
	SummarySheet = "Summary"
)

// WriteXLSX saves s as an Excel workbook at path.
func WriteXLSX(path string, s activities.State) error {
	return writeXLSX(path, s, time.Now())
}

func writeXLSX(path string, s activities.State, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ActivitiesSheet); err != nil {
		return fmt.Errorf("failed to name activities sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetCellValue(ActivitiesSheet, "A1", "Name"); err != nil {
		return err
	}
	if err := f.SetCellStyle(ActivitiesSheet, "A1", "A1", headerStyle); err != nil {
		return err
	}
	for i, a := range s.Activities {
		if err := f.SetCellValue(ActivitiesSheet, cellName(1, i+2), a.Name); err != nil {
			return fmt.Errorf("failed to write activity %d: %w", i, err)
		}
	}
	if err := f.SetColWidth(ActivitiesSheet, "A", "A", 40); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	summary := [][2]any{
		{"count", len(s.Activities)},
		{"status", s.Status.String()},
		{"generated_at", now.UTC().Format(time.RFC3339)},
	}
	for i, row := range summary {
		if err := f.SetCellValue(SummarySheet, cellName(1, i+1), row[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(SummarySheet, cellName(2, i+1), row[1]); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", cellName(1, len(summary)), headerStyle); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save excel file: %w", err)
	}
	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
