package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/maruel/natural"

	"github.com/piwi3910/FurniCut/internal/model"
)

// ErrSheetNotFound is returned when no sheet has the requested id.
var ErrSheetNotFound = errors.New("cutting sheet not found")

// SheetStore persists cutting sheets together with their placed elements.
type SheetStore interface {
	// Save stores the sheet. A sheet with ID 0 is new and receives the next
	// sheet id; placed elements with ID 0 receive element ids. Every placed
	// element's CuttingSheetID is set to the sheet id. Saving a sheet with
	// an existing id replaces it.
	Save(ctx context.Context, sheet *model.CuttingSheet) error
	Get(ctx context.Context, id int64) (model.CuttingSheet, error)
	List(ctx context.Context) ([]model.CuttingSheet, error)
	// Delete removes the sheet and its placed elements.
	Delete(ctx context.Context, id int64) error
}

// sequence hands out ids for sheets and placed elements, mirroring two
// database sequences.
type sequence struct {
	Sheet   int64 `json:"sheet"`
	Element int64 `json:"element"`
}

// assign fills in missing ids, back-references and the creation time.
func (s *sequence) assign(sheet *model.CuttingSheet, now time.Time) {
	if sheet.ID == 0 {
		s.Sheet++
		sheet.ID = s.Sheet
	} else if sheet.ID > s.Sheet {
		s.Sheet = sheet.ID
	}
	if sheet.CreatedAt.IsZero() {
		sheet.CreatedAt = now.UTC()
	}
	for i := range sheet.PlacedElements {
		e := &sheet.PlacedElements[i]
		if e.ID == 0 {
			s.Element++
			e.ID = s.Element
		} else if e.ID > s.Element {
			s.Element = e.ID
		}
		e.CuttingSheetID = sheet.ID
	}
}

func cloneSheet(s model.CuttingSheet) model.CuttingSheet {
	s.PlacedElements = append([]model.PlacedElement(nil), s.PlacedElements...)
	return s
}

// MemoryStore keeps sheets in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	seq    sequence
	sheets map[int64]model.CuttingSheet
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sheets: make(map[int64]model.CuttingSheet),
		now:    time.Now,
	}
}

func (m *MemoryStore) Save(ctx context.Context, sheet *model.CuttingSheet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq.assign(sheet, m.now())
	m.sheets[sheet.ID] = cloneSheet(*sheet)
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id int64) (model.CuttingSheet, error) {
	if err := ctx.Err(); err != nil {
		return model.CuttingSheet{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sheets[id]
	if !ok {
		return model.CuttingSheet{}, fmt.Errorf("sheet %d: %w", id, ErrSheetNotFound)
	}
	return cloneSheet(s), nil
}

func (m *MemoryStore) List(ctx context.Context) ([]model.CuttingSheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.CuttingSheet, 0, len(m.sheets))
	for _, s := range m.sheets {
		out = append(out, cloneSheet(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sheets[id]; !ok {
		return fmt.Errorf("sheet %d: %w", id, ErrSheetNotFound)
	}
	delete(m.sheets, id)
	return nil
}

const (
	sheetFilePrefix = "sheet-"
	sheetFileSuffix = ".json"
	sequenceFile    = "sequence.json"
)

// FileStore keeps one JSON file per sheet in a directory, plus a file
// holding the id sequences. It is safe for concurrent use within one process.
type FileStore struct {
	dir string
	mu  sync.RWMutex
	seq sequence
	now func() time.Time
}

// NewFileStore opens or creates a store in dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	fs := &FileStore{dir: dir, now: time.Now}

	data, err := os.ReadFile(filepath.Join(dir, sequenceFile))
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &fs.seq); err != nil {
			return nil, fmt.Errorf("failed to parse sequence file: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read sequence file: %w", err)
	}
	return fs, nil
}

// OpenStore returns a FileStore for dir, or a MemoryStore when dir is empty.
func OpenStore(dir string) (SheetStore, error) {
	if dir == "" {
		return NewMemoryStore(), nil
	}
	return NewFileStore(dir)
}

// Dir returns the directory backing the store.
func (f *FileStore) Dir() string {
	return f.dir
}

func (f *FileStore) sheetPath(id int64) string {
	return filepath.Join(f.dir, sheetFilePrefix+strconv.FormatInt(id, 10)+sheetFileSuffix)
}

func (f *FileStore) Save(ctx context.Context, sheet *model.CuttingSheet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	next := f.seq
	candidate := cloneSheet(*sheet)
	next.assign(&candidate, f.now())

	data, err := json.MarshalIndent(candidate, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sheet: %w", err)
	}
	if err := writeFileAtomic(f.sheetPath(candidate.ID), data); err != nil {
		return fmt.Errorf("failed to write sheet file: %w", err)
	}
	seqData, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to marshal sequence: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(f.dir, sequenceFile), seqData); err != nil {
		return fmt.Errorf("failed to write sequence file: %w", err)
	}

	f.seq = next
	*sheet = candidate
	return nil
}

func (f *FileStore) Get(ctx context.Context, id int64) (model.CuttingSheet, error) {
	if err := ctx.Err(); err != nil {
		return model.CuttingSheet{}, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.read(f.sheetPath(id), id)
}

func (f *FileStore) read(path string, id int64) (model.CuttingSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.CuttingSheet{}, fmt.Errorf("sheet %d: %w", id, ErrSheetNotFound)
		}
		return model.CuttingSheet{}, fmt.Errorf("failed to read sheet file: %w", err)
	}
	var sheet model.CuttingSheet
	if err := json.Unmarshal(data, &sheet); err != nil {
		return model.CuttingSheet{}, fmt.Errorf("failed to parse sheet file %s: %w", filepath.Base(path), err)
	}
	return sheet, nil
}

// List returns every stored sheet ordered by id.
func (f *FileStore) List(ctx context.Context) ([]model.CuttingSheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, sheetFilePrefix) || !strings.HasSuffix(name, sheetFileSuffix) {
			continue
		}
		names = append(names, name)
	}
	// sheet-10.json must come after sheet-9.json
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })

	sheets := make([]model.CuttingSheet, 0, len(names))
	for _, name := range names {
		idStr := strings.TrimSuffix(strings.TrimPrefix(name, sheetFilePrefix), sheetFileSuffix)
		id, _ := strconv.ParseInt(idStr, 10, 64)
		s, err := f.read(filepath.Join(f.dir, name), id)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, s)
	}
	return sheets, nil
}

func (f *FileStore) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.sheetPath(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("sheet %d: %w", id, ErrSheetNotFound)
		}
		return fmt.Errorf("failed to delete sheet file: %w", err)
	}
	return nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place, so readers never see a half-written file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
