package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/FurniCut/internal/model"
)

const (
	cutListSheet = "Cut List"
	summarySheet = "Summary"
)

var cutListHeaders = []string{"Sheet", "Element", "X", "Y", "Width", "Height", "Area"}

// ExportXLSX writes the cut list workbook for sheets to path.
func ExportXLSX(path string, sheets []model.CuttingSheet) error {
	f, err := buildWorkbook(sheets)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteXLSX writes a workbook with one row per placed element on the
// "Cut List" sheet and per-sheet totals on the "Summary" sheet.
func WriteXLSX(w io.Writer, sheets []model.CuttingSheet) error {
	f, err := buildWorkbook(sheets)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(sheets []model.CuttingSheet) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets to export")
	}

	f := excelize.NewFile()
	if err := fillWorkbook(f, sheets); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func fillWorkbook(f *excelize.File, sheets []model.CuttingSheet) error {
	if err := f.SetSheetName("Sheet1", cutListSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRow(f, cutListSheet, 1, toAny(cutListHeaders)); err != nil {
		return err
	}
	row := 2
	for _, s := range sheets {
		for _, e := range s.PlacedElements {
			values := []any{s.ID, e.FurnitureBodyID, e.X, e.Y, e.Width, e.Height, e.Width * e.Height}
			if err := writeRow(f, cutListSheet, row, values); err != nil {
				return err
			}
			row++
		}
	}
	if err := f.SetCellStyle(cutListSheet, "A1", "G1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(cutListSheet, "A", "G", 12); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	summaryHeaders := []any{"Sheet", "Width", "Height", "Elements", "Used Area", "Total Area", "Efficiency %"}
	if err := writeRow(f, summarySheet, 1, summaryHeaders); err != nil {
		return err
	}
	for i, s := range sheets {
		values := []any{s.ID, s.Width, s.Height, len(s.PlacedElements), s.UsedArea(), s.TotalArea(), round1(s.Efficiency())}
		if err := writeRow(f, summarySheet, i+2, values); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "G1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(summarySheet, "A", "G", 14); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	f.SetActiveSheet(0)
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
