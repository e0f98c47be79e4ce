package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/FurniCut/internal/model"
)

func TestExportLabels_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.pdf")

	if err := ExportLabels(path, buildTestSheets()); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("labels file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Error("labels file is empty")
	}
}

func TestWriteLabels_NoSheets(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLabels(&buf, nil); err == nil {
		t.Error("expected error for empty sheet list")
	}
}

func TestWriteLabels_NoElements(t *testing.T) {
	var buf bytes.Buffer
	err := WriteLabels(&buf, []model.CuttingSheet{{ID: 1, Width: 10, Height: 10}})
	if err == nil {
		t.Error("expected error for sheet without placed elements")
	}
}

func TestWriteLabels_MultiplePages(t *testing.T) {
	sheet := model.CuttingSheet{ID: 3, Width: 1000, Height: 1000}
	for i := 0; i < labelsPerPage+5; i++ {
		// Repeated ids must still get distinct QR images
		sheet.AddPlacedElement(model.PlacedElement{FurnitureBodyID: int64(i % 4), X: i, Y: 0, Width: 1, Height: 1})
	}

	var buf bytes.Buffer
	if err := WriteLabels(&buf, []model.CuttingSheet{sheet}); err != nil {
		t.Fatalf("WriteLabels returned error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
}

func TestCollectLabelInfos(t *testing.T) {
	labels := CollectLabelInfos(buildTestSheets())

	if len(labels) != 4 {
		t.Fatalf("expected 4 labels, got %d", len(labels))
	}

	first := labels[0]
	if first.ElementID != 10 || first.SheetID != 1 {
		t.Errorf("unexpected first label %+v", first)
	}
	if first.Width != 720 || first.Height != 560 {
		t.Errorf("expected 720x560, got %dx%d", first.Width, first.Height)
	}

	last := labels[3]
	if last.SheetID != 2 || last.ElementID != 20 {
		t.Errorf("unexpected last label %+v", last)
	}
}

func TestLabelInfo_JSON(t *testing.T) {
	info := LabelInfo{ElementID: 7, SheetID: 2, X: 10, Y: 20, Width: 300, Height: 400}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, key := range []string{"element_id", "sheet_id", "x", "y", "width", "height"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("QR payload is missing key %q", key)
		}
	}
}
