package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/FurniCut/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")
	ctx := context.Background()

	store := NewMemoryStore()
	sheet := newSheet(20, 10,
		model.PlacedElement{FurnitureBodyID: 1, Width: 10, Height: 10},
		model.PlacedElement{FurnitureBodyID: 2, X: 10, Width: 10, Height: 10},
	)
	if err := store.Save(ctx, sheet); err != nil {
		t.Fatal(err)
	}

	cfg := model.DefaultAppConfig()
	cfg.DefaultKerf = 3

	if err := ExportAllData(ctx, path, cfg, store); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}

	if backup.Version != BackupVersion {
		t.Errorf("expected version %s, got %s", BackupVersion, backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if backup.Config.DefaultKerf != 3 {
		t.Errorf("expected DefaultKerf=3, got %d", backup.Config.DefaultKerf)
	}
	if len(backup.Sheets) != 1 {
		t.Fatalf("expected 1 sheet, got %d", len(backup.Sheets))
	}
	if len(backup.Sheets[0].PlacedElements) != 2 {
		t.Errorf("expected 2 placed elements, got %d", len(backup.Sheets[0].PlacedElements))
	}
}

func TestRestoreSheets(t *testing.T) {
	ctx := context.Background()
	sheets := []model.CuttingSheet{
		{ID: 3, Width: 10, Height: 10, PlacedElements: []model.PlacedElement{{ID: 5, FurnitureBodyID: 1, Width: 1, Height: 1, CuttingSheetID: 3}}},
		{ID: 8, Width: 20, Height: 20},
	}

	target, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	n, err := RestoreSheets(ctx, target, sheets)
	if err != nil {
		t.Fatalf("RestoreSheets failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 restored sheets, got %d", n)
	}

	got, err := target.Get(ctx, 3)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.PlacedElements[0].ID != 5 {
		t.Errorf("expected element id 5 to be kept, got %d", got.PlacedElements[0].ID)
	}

	fresh := newSheet(1, 1)
	if err := target.Save(ctx, fresh); err != nil {
		t.Fatal(err)
	}
	if fresh.ID != 9 {
		t.Errorf("expected new sheet after restore to get id 9, got %d", fresh.ID)
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	_, err := ImportAllData(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportAllDataInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ImportAllData(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noversion.json")
	data := []byte(`{"config":{"log_level":"debug"}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ImportAllData(path)
	if err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestImportAllDataNoSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version":"1.0.0"}`), 0644); err != nil {
		t.Fatal(err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Sheets == nil {
		t.Error("expected Sheets to be non-nil")
	}
}

func TestExportAllDataCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deep", "nested", "backup.json")

	if err := ExportAllData(context.Background(), path, model.DefaultAppConfig(), NewMemoryStore()); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected backup file to exist: %v", err)
	}
}
