package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/FurniCut/internal/engine"
	"github.com/piwi3910/FurniCut/internal/mapper"
	"github.com/piwi3910/FurniCut/internal/metrics"
	"github.com/piwi3910/FurniCut/internal/model"
	"github.com/piwi3910/FurniCut/internal/project"
	"github.com/piwi3910/FurniCut/internal/validate"
)

func newTestService(t *testing.T, cfg Config) (*CutService, *project.MemoryStore, *metrics.Metrics) {
	t.Helper()
	store := project.NewMemoryStore()
	m := metrics.New()
	return New(store, m, nil, cfg), store, m
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}

type failingStore struct {
	*project.MemoryStore
}

func (failingStore) Save(context.Context, *model.CuttingSheet) error {
	return errors.New("disk full")
}

func TestCut_StoresSheet(t *testing.T) {
	svc, store, m := newTestService(t, Config{PackTimeout: time.Second})

	req := model.NewCutRequest(2800, 2070,
		model.Piece{ID: 1, Width: 720, Height: 560, Depth: 18},
		model.Piece{ID: 2, Width: 2000, Height: 400, Depth: 18},
	)
	sheet, err := svc.Cut(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int64(1), sheet.ID)
	require.Len(t, sheet.PlacedElements, 2)
	// Larger element is placed first
	assert.Equal(t, int64(2), sheet.PlacedElements[0].FurnitureBodyID)
	for _, e := range sheet.PlacedElements {
		assert.Equal(t, sheet.ID, e.CuttingSheetID)
		assert.NotZero(t, e.ID)
	}

	stored, err := store.Get(context.Background(), sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, sheet.PlacedElements, stored.PlacedElements)

	assert.Contains(t, scrape(t, m), `furnicut_cut_requests_total{outcome="ok"} 1`)
}

func TestCut_ValidationError(t *testing.T) {
	svc, store, m := newTestService(t, Config{})

	width := 0
	req := model.CutRequest{SheetWidth: &width}
	_, err := svc.Cut(context.Background(), req)

	require.ErrorIs(t, err, validate.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "Sheet width must be positive")
	assert.Contains(t, err.Error(), "Sheet height is required")

	sheets, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sheets)
	assert.Contains(t, scrape(t, m), `furnicut_cut_requests_total{outcome="invalid"} 1`)
}

func TestCut_ElementsDoNotFit(t *testing.T) {
	svc, store, m := newTestService(t, Config{})

	req := model.NewCutRequest(100, 100,
		model.Piece{ID: 3, Width: 150, Height: 10},
		model.Piece{ID: 4, Width: 10, Height: 10},
		model.Piece{ID: 7, Width: 10, Height: 150},
	)
	_, err := svc.Cut(context.Background(), req)

	require.ErrorIs(t, err, mapper.ErrElementsDoNotFit)
	var unplaced *mapper.UnplacedError
	require.ErrorAs(t, err, &unplaced)
	assert.Equal(t, []int64{3, 7}, unplaced.ElementIDs)
	assert.Equal(t, "Elements do not fit on the sheet: 3, 7", err.Error())

	sheets, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sheets, "partial layouts are never stored")

	out := scrape(t, m)
	assert.Contains(t, out, `furnicut_cut_requests_total{outcome="unplaced"} 1`)
	assert.Contains(t, out, "furnicut_unplaced_elements_total 2")
}

func TestCut_AppliesOptions(t *testing.T) {
	svc, _, _ := newTestService(t, Config{Options: engine.Options{Kerf: 2, EdgeTrim: 10}})

	req := model.NewCutRequest(100, 100,
		model.Piece{ID: 1, Width: 40, Height: 80},
		model.Piece{ID: 2, Width: 38, Height: 80},
	)
	sheet, err := svc.Cut(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, sheet.PlacedElements, 2)
	assert.Equal(t, 10, sheet.PlacedElements[0].X)
	assert.Equal(t, 10, sheet.PlacedElements[0].Y)
	assert.Equal(t, 52, sheet.PlacedElements[1].X)
}

func TestCut_InvalidOptions(t *testing.T) {
	svc, _, _ := newTestService(t, Config{Options: engine.Options{Kerf: -1}})

	_, err := svc.Cut(context.Background(), model.NewCutRequest(100, 100, model.Piece{ID: 1, Width: 1, Height: 1}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Kerf cannot be negative")
}

func TestCut_Timeout(t *testing.T) {
	svc, store, m := newTestService(t, Config{PackTimeout: 20 * time.Millisecond})
	release := make(chan struct{})
	defer close(release)
	svc.packFn = func(width, height int, pieces []model.Piece) engine.Result {
		<-release
		return engine.Result{}
	}

	_, err := svc.Cut(context.Background(), model.NewCutRequest(100, 100, model.Piece{ID: 1, Width: 10, Height: 10}))

	require.ErrorIs(t, err, ErrPackTimeout)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	sheets, _ := store.List(context.Background())
	assert.Empty(t, sheets)
	assert.Contains(t, scrape(t, m), `furnicut_cut_requests_total{outcome="timeout"} 1`)
}

func TestCut_CallerCancellation(t *testing.T) {
	svc, _, _ := newTestService(t, Config{})
	release := make(chan struct{})
	defer close(release)
	svc.packFn = func(width, height int, pieces []model.Piece) engine.Result {
		<-release
		return engine.Result{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Cut(ctx, model.NewCutRequest(100, 100, model.Piece{ID: 1, Width: 10, Height: 10}))

	require.ErrorIs(t, err, ErrPackTimeout)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCut_InvalidLayoutRejected(t *testing.T) {
	svc, _, m := newTestService(t, Config{})
	svc.packFn = func(width, height int, pieces []model.Piece) engine.Result {
		return engine.Result{Placements: []model.Placement{
			{PieceID: 1, X: 0, Y: 0, Width: 10, Height: 10},
			{PieceID: 2, X: 5, Y: 5, Width: 10, Height: 10},
		}}
	}

	_, err := svc.Cut(context.Background(), model.NewCutRequest(100, 100,
		model.Piece{ID: 1, Width: 10, Height: 10},
		model.Piece{ID: 2, Width: 10, Height: 10},
	))

	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to verify layout"))
	assert.Contains(t, scrape(t, m), `furnicut_cut_requests_total{outcome="error"} 1`)
}

func TestCut_PanicPropagates(t *testing.T) {
	svc, _, _ := newTestService(t, Config{})
	svc.packFn = func(width, height int, pieces []model.Piece) engine.Result {
		panic(&engine.PreconditionError{Field: "sheetWidth", Value: 0, Reason: "must be at least 1"})
	}

	assert.Panics(t, func() {
		_, _ = svc.Cut(context.Background(), model.NewCutRequest(100, 100, model.Piece{ID: 1, Width: 10, Height: 10}))
	})
}

func TestCut_StoreError(t *testing.T) {
	svc := New(failingStore{project.NewMemoryStore()}, nil, nil, Config{})

	_, err := svc.Cut(context.Background(), model.NewCutRequest(100, 100, model.Piece{ID: 1, Width: 10, Height: 10}))
	require.EqualError(t, err, "disk full")
}

func TestCut_Concurrent(t *testing.T) {
	svc, store, _ := newTestService(t, Config{PackTimeout: 5 * time.Second})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := model.NewCutRequest(1000, 1000,
				model.Piece{ID: int64(i), Width: 100 + i, Height: 200},
				model.Piece{ID: int64(i + 100), Width: 300, Height: 300},
			)
			_, err := svc.Cut(context.Background(), req)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	sheets, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, sheets, 16)
	seen := map[int64]bool{}
	for _, s := range sheets {
		assert.False(t, seen[s.ID], "sheet id %d assigned twice", s.ID)
		seen[s.ID] = true
	}
}

func TestSheetsAndDelete(t *testing.T) {
	svc, _, _ := newTestService(t, Config{})
	ctx := context.Background()

	sheet, err := svc.Cut(ctx, model.NewCutRequest(100, 100, model.Piece{ID: 1, Width: 10, Height: 10}))
	require.NoError(t, err)

	got, err := svc.Sheet(ctx, sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, sheet.ID, got.ID)

	all, err := svc.Sheets(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.DeleteSheet(ctx, sheet.ID))
	_, err = svc.Sheet(ctx, sheet.ID)
	assert.ErrorIs(t, err, project.ErrSheetNotFound)
	assert.ErrorIs(t, svc.DeleteSheet(ctx, sheet.ID), project.ErrSheetNotFound)
}

func TestConfigFrom(t *testing.T) {
	cfg := model.DefaultAppConfig()
	cfg.PackTimeoutMS = 250
	cfg.DefaultKerf = 3
	cfg.DefaultEdgeTrim = 5

	got := ConfigFrom(cfg)
	assert.Equal(t, 250*time.Millisecond, got.PackTimeout)
	assert.Equal(t, engine.Options{Kerf: 3, EdgeTrim: 5}, got.Options)
}
