package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/FurniCut/internal/model"
)

// buildTestSheets creates a realistic pair of stored sheets for testing.
func buildTestSheets() []model.CuttingSheet {
	first := model.CuttingSheet{ID: 1, Width: 2800, Height: 2070}
	first.AddPlacedElement(model.PlacedElement{ID: 1, FurnitureBodyID: 10, X: 0, Y: 0, Width: 720, Height: 560})
	first.AddPlacedElement(model.PlacedElement{ID: 2, FurnitureBodyID: 11, X: 720, Y: 0, Width: 720, Height: 560})
	first.AddPlacedElement(model.PlacedElement{ID: 3, FurnitureBodyID: 12, X: 0, Y: 560, Width: 800, Height: 300})

	second := model.CuttingSheet{ID: 2, Width: 1200, Height: 600}
	second.AddPlacedElement(model.PlacedElement{ID: 4, FurnitureBodyID: 20, X: 0, Y: 0, Width: 800, Height: 500})

	return []model.CuttingSheet{first, second}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test_output.pdf")

	err := ExportPDF(path, buildTestSheets(), Settings{Kerf: 3, EdgeTrim: 10})
	if err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Errorf("output does not look like a PDF, starts with %q", string(data[:min(len(data), 8)]))
	}
}

func TestWritePDF_ToWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, buildTestSheets()[:1], Settings{}); err != nil {
		t.Fatalf("WritePDF returned error: %v", err)
	}
	if buf.Len() < 1000 {
		t.Errorf("PDF output suspiciously small: %d bytes", buf.Len())
	}
}

func TestWritePDF_NoSheets(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, nil, Settings{}); err == nil {
		t.Error("expected error for empty sheet list")
	}
}

func TestWritePDF_EmptySheet(t *testing.T) {
	var buf bytes.Buffer
	sheets := []model.CuttingSheet{{ID: 5, Width: 100, Height: 100}}
	if err := WritePDF(&buf, sheets, Settings{EdgeTrim: 5}); err != nil {
		t.Fatalf("WritePDF returned error for sheet without elements: %v", err)
	}
}

func TestWritePDF_ManyElements(t *testing.T) {
	sheet := model.CuttingSheet{ID: 1, Width: 1000, Height: 1000}
	for i := 0; i < 400; i++ {
		sheet.AddPlacedElement(model.PlacedElement{
			FurnitureBodyID: int64(i),
			X:               (i % 20) * 50,
			Y:               (i / 20) * 50,
			Width:           50,
			Height:          50,
		})
	}

	var buf bytes.Buffer
	if err := WritePDF(&buf, []model.CuttingSheet{sheet}, Settings{}); err != nil {
		t.Fatalf("WritePDF returned error: %v", err)
	}
}

func TestLabelFontSize(t *testing.T) {
	tests := []struct {
		w, h float64
		want float64
	}{
		{100, 50, 8},
		{30, 25, 7},
		{15, 10, 6},
	}
	for _, tt := range tests {
		if got := labelFontSize(tt.w, tt.h); got != tt.want {
			t.Errorf("labelFontSize(%.0f, %.0f) = %.0f, want %.0f", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestCountElementsAndEfficiency(t *testing.T) {
	sheets := buildTestSheets()
	if got := countElements(sheets); got != 4 {
		t.Errorf("expected 4 elements, got %d", got)
	}

	sheets = []model.CuttingSheet{
		{Width: 10, Height: 10, PlacedElements: []model.PlacedElement{{Width: 10, Height: 5}}},
		{Width: 10, Height: 10, PlacedElements: []model.PlacedElement{{Width: 10, Height: 10}}},
	}
	if got := overallEfficiency(sheets); got != 75 {
		t.Errorf("expected 75%% overall efficiency, got %.2f", got)
	}
	if got := overallEfficiency(nil); got != 0 {
		t.Errorf("expected 0 for no sheets, got %.2f", got)
	}
}
