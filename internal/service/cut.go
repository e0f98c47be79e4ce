// Package service runs cut requests end to end: validation, packing under a
// deadline, mapping to a cutting sheet and persistence.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/piwi3910/FurniCut/internal/engine"
	"github.com/piwi3910/FurniCut/internal/logging"
	"github.com/piwi3910/FurniCut/internal/mapper"
	"github.com/piwi3910/FurniCut/internal/metrics"
	"github.com/piwi3910/FurniCut/internal/model"
	"github.com/piwi3910/FurniCut/internal/project"
	"github.com/piwi3910/FurniCut/internal/validate"
)

// ErrPackTimeout is returned when packing does not finish before the
// configured deadline or the caller's context ends.
var ErrPackTimeout = errors.New("packing timed out")

// Config holds the service's tunables.
type Config struct {
	PackTimeout time.Duration
	Options     engine.Options
}

// ConfigFrom derives the service config from the application config.
func ConfigFrom(cfg model.AppConfig) Config {
	return Config{
		PackTimeout: cfg.PackTimeout(),
		Options:     engine.Options{Kerf: cfg.DefaultKerf, EdgeTrim: cfg.DefaultEdgeTrim},
	}
}

// CutService is safe for concurrent use; the store is the only shared state.
type CutService struct {
	store   project.SheetStore
	metrics *metrics.Metrics
	logger  *slog.Logger
	cfg     Config
	packFn  func(width, height int, pieces []model.Piece) engine.Result
}

// New creates a CutService. A nil metrics or logger disables that concern.
func New(store project.SheetStore, m *metrics.Metrics, logger *slog.Logger, cfg Config) *CutService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &CutService{
		store:   store,
		metrics: m,
		logger:  logging.Component(logger, "CutService"),
		cfg:     cfg,
		packFn:  engine.New(cfg.Options).Pack,
	}
}

// Options returns the packing options applied to every request.
func (s *CutService) Options() engine.Options {
	return s.cfg.Options
}

// Cut validates the request, packs it and stores the resulting sheet.
//
// Errors match validate.ErrInvalidRequest, mapper.ErrElementsDoNotFit or
// ErrPackTimeout; anything else comes from the store.
func (s *CutService) Cut(ctx context.Context, req model.CutRequest) (model.CuttingSheet, error) {
	log := s.requestLogger(ctx)

	if err := validate.CutRequest(req); err != nil {
		log.Warn("rejected cut request", "error", err)
		s.observe(metrics.OutcomeInvalid)
		return model.CuttingSheet{}, err
	}
	if err := validate.Options(s.cfg.Options.Kerf, s.cfg.Options.EdgeTrim); err != nil {
		log.Error("invalid packing options", "error", err)
		s.observe(metrics.OutcomeError)
		return model.CuttingSheet{}, err
	}

	width, height := *req.SheetWidth, *req.SheetHeight
	pieces := req.Pieces()
	log.Info("packing elements", "sheet_width", width, "sheet_height", height, "elements", len(pieces))

	res, err := s.pack(ctx, width, height, pieces)
	if err != nil {
		log.Warn("packing aborted", "error", err, "timeout", s.cfg.PackTimeout)
		s.observe(metrics.OutcomeTimeout)
		return model.CuttingSheet{}, err
	}

	if err := engine.CheckLayout(width, height, res.Placements); err != nil {
		log.Error("engine produced an invalid layout", "error", err)
		s.observe(metrics.OutcomeError)
		return model.CuttingSheet{}, fmt.Errorf("failed to verify layout: %w", err)
	}

	sheet, err := mapper.ToCuttingSheet(width, height, res)
	if err != nil {
		var unplaced *mapper.UnplacedError
		if errors.As(err, &unplaced) {
			log.Info("elements do not fit", "unplaced", unplaced.ElementIDs)
			if s.metrics != nil {
				s.metrics.ObserveUnplaced(len(unplaced.ElementIDs))
			}
		}
		s.observe(metrics.OutcomeUnplaced)
		return model.CuttingSheet{}, err
	}

	if err := s.store.Save(ctx, &sheet); err != nil {
		log.Error("failed to store sheet", "error", err)
		s.observe(metrics.OutcomeError)
		return model.CuttingSheet{}, err
	}

	if s.metrics != nil {
		s.metrics.ObserveSheet(sheet.Efficiency())
	}
	s.observe(metrics.OutcomeOK)
	log.Info("cutting sheet stored", "sheet_id", sheet.ID, "placed", len(sheet.PlacedElements),
		"efficiency", fmt.Sprintf("%.1f", sheet.Efficiency()))
	return sheet, nil
}

// pack runs the engine in its own goroutine so the deadline can be honoured.
// A late result is dropped; the goroutine finishes on its own since the
// engine holds no shared state.
func (s *CutService) pack(ctx context.Context, width, height int, pieces []model.Piece) (engine.Result, error) {
	if s.cfg.PackTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.PackTimeout)
		defer cancel()
	}

	type outcome struct {
		res   engine.Result
		panic any
	}
	done := make(chan outcome, 1)
	start := time.Now()

	go func() {
		var out outcome
		defer func() {
			out.panic = recover()
			done <- out
		}()
		out.res = s.packFn(width, height, pieces)
	}()

	select {
	case out := <-done:
		if s.metrics != nil {
			s.metrics.ObservePack(time.Since(start))
		}
		if out.panic != nil {
			// Preconditions are checked by validation, so this is a bug
			panic(out.panic)
		}
		return out.res, nil
	case <-ctx.Done():
		return engine.Result{}, fmt.Errorf("%w: %w", ErrPackTimeout, ctx.Err())
	}
}

// Sheet returns a stored sheet.
func (s *CutService) Sheet(ctx context.Context, id int64) (model.CuttingSheet, error) {
	return s.store.Get(ctx, id)
}

// Sheets lists every stored sheet.
func (s *CutService) Sheets(ctx context.Context) ([]model.CuttingSheet, error) {
	return s.store.List(ctx)
}

// DeleteSheet removes a sheet together with its placed elements.
func (s *CutService) DeleteSheet(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.requestLogger(ctx).Info("cutting sheet deleted", "sheet_id", id)
	return nil
}

// requestLogger prefers the request-scoped logger, keeping the component tag.
func (s *CutService) requestLogger(ctx context.Context) *slog.Logger {
	if l, ok := logging.Lookup(ctx); ok {
		return logging.Component(l, "CutService")
	}
	return s.logger
}

func (s *CutService) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveRequest(outcome)
	}
}
