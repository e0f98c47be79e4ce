package project

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/FurniCut/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string               `json:"version"`
	CreatedAt string               `json:"created_at"`
	Config    model.AppConfig      `json:"config"`
	Sheets    []model.CuttingSheet `json:"sheets"`
}

// ExportAllData writes the config and every stored sheet to a single JSON
// file at the specified path.
func ExportAllData(ctx context.Context, exportPath string, config model.AppConfig, store SheetStore) error {
	sheets, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sheets: %w", err)
	}
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Sheets:    sheets,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported config; RestoreSheets
// puts the sheets back into a store.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Sheets == nil {
		backup.Sheets = []model.CuttingSheet{}
	}
	return backup, nil
}

// RestoreSheets saves every sheet of a backup into store, keeping the
// original ids. Sheets already present under the same id are replaced.
// It returns the number of sheets restored.
func RestoreSheets(ctx context.Context, store SheetStore, sheets []model.CuttingSheet) (int, error) {
	for i := range sheets {
		s := cloneSheet(sheets[i])
		if err := store.Save(ctx, &s); err != nil {
			return i, fmt.Errorf("failed to restore sheet %d: %w", sheets[i].ID, err)
		}
	}
	return len(sheets), nil
}
