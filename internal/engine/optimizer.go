// Package engine lays rectangular furniture pieces out on a single stock
// sheet using a maximal-rectangles, best-area-fit heuristic.
//
// The engine is a pure computation: it performs no I/O, keeps no state
// between calls and never blocks, so independent runs may execute
// concurrently without coordination.
package engine

import (
	"sort"

	"github.com/piwi3910/FurniCut/internal/model"
)

// Options tune a packing run. The zero value packs pieces edge to edge on
// the full sheet.
type Options struct {
	Kerf     int `json:"kerf"`      // Gap kept to the right of and below each piece
	EdgeTrim int `json:"edge_trim"` // Unusable border on every side of the sheet
}

// Result is the outcome of one packing run. When Unplaced is empty the run
// succeeded and Placements holds every piece; otherwise Placements holds only
// the pieces that could be seated and must not be presented as a layout.
type Result struct {
	Placements []model.Placement `json:"placements"`
	Unplaced   []int64           `json:"unplaced"`
}

// Success reports whether every piece was placed.
func (r Result) Success() bool {
	return len(r.Unplaced) == 0
}

// UsedArea returns the total area of all placements.
func (r Result) UsedArea() int {
	total := 0
	for _, p := range r.Placements {
		total += p.Area()
	}
	return total
}

// Packer runs the bin-packing algorithm with fixed options.
type Packer struct {
	Options Options
}

func New(opts Options) *Packer {
	return &Packer{Options: opts}
}

// Pack lays pieces out on a sheetWidth x sheetHeight sheet with zero kerf
// and no edge trim.
func Pack(sheetWidth, sheetHeight int, pieces []model.Piece) Result {
	return New(Options{}).Pack(sheetWidth, sheetHeight, pieces)
}

// Pack places pieces on the sheet in descending-area order (stable, so equal
// areas keep input order). Pieces that do not fit are collected in
// Result.Unplaced; the run never aborts early.
//
// The caller must pass positive sheet dimensions, a non-empty piece list and
// pieces with positive width and height; violating that panics with a
// *PreconditionError.
func (p *Packer) Pack(sheetWidth, sheetHeight int, pieces []model.Piece) Result {
	res, _ := p.pack(sheetWidth, sheetHeight, pieces)
	return res
}

// pack is Pack that also hands back the final free space for inspection.
func (p *Packer) pack(sheetWidth, sheetHeight int, pieces []model.Piece) (Result, *freeSpace) {
	checkPreconditions(sheetWidth, sheetHeight, pieces, p.Options)

	trim := p.Options.EdgeTrim
	bounds := rect{
		x: trim,
		y: trim,
		w: sheetWidth - 2*trim,
		h: sheetHeight - 2*trim,
	}
	free := newFreeSpace(bounds)

	result := Result{Placements: make([]model.Placement, 0, len(pieces))}
	for _, piece := range sortByArea(pieces) {
		placement, ok := p.insert(free, bounds, piece)
		if !ok {
			result.Unplaced = append(result.Unplaced, piece.ID)
			continue
		}
		result.Placements = append(result.Placements, placement)
	}
	return result, free
}

// insert seats one piece at the top-left corner of its best-area-fit free
// rectangle and carves the occupied footprint out of the free space.
func (p *Packer) insert(free *freeSpace, bounds rect, piece model.Piece) (model.Placement, bool) {
	// Oversize pieces can never fit, skip the scan
	if bounds.empty() || piece.Width > bounds.w || piece.Height > bounds.h {
		return model.Placement{}, false
	}

	footprint := func(r rect) (int, int) {
		return p.footprint(r.x, r.y, piece, bounds)
	}
	idx := free.bestAreaFit(piece.Width, piece.Height, piece.Area(), footprint)
	if idx < 0 {
		return model.Placement{}, false
	}

	chosen := free.rects[idx]
	fw, fh := footprint(chosen)
	free.place(rect{x: chosen.x, y: chosen.y, w: fw, h: fh})

	return model.Placement{
		PieceID: piece.ID,
		X:       chosen.x,
		Y:       chosen.y,
		Width:   piece.Width,
		Height:  piece.Height,
	}, true
}

// footprint returns the area a piece occupies at (x, y): its own size plus
// the kerf on the right and bottom, clipped at the usable border so a piece
// flush with the edge does not need a trailing cut.
func (p *Packer) footprint(x, y int, piece model.Piece, bounds rect) (int, int) {
	w := min(piece.Width+p.Options.Kerf, bounds.right()-x)
	h := min(piece.Height+p.Options.Kerf, bounds.bottom()-y)
	return w, h
}

// sortByArea returns a copy of pieces ordered by descending area.
// The sort is stable: equal areas keep their input order.
func sortByArea(pieces []model.Piece) []model.Piece {
	sorted := make([]model.Piece, len(pieces))
	copy(sorted, pieces)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Area() > sorted[j].Area()
	})
	return sorted
}
