package engine

// rect is an axis-aligned rectangle in sheet units, origin top-left.
type rect struct {
	x, y, w, h int
}

func (r rect) area() int   { return r.w * r.h }
func (r rect) right() int  { return r.x + r.w }
func (r rect) bottom() int { return r.y + r.h }
func (r rect) empty() bool { return r.w <= 0 || r.h <= 0 }

// intersects reports whether the interiors overlap (touching edges do not count).
func (r rect) intersects(o rect) bool {
	return r.x < o.right() && o.x < r.right() &&
		r.y < o.bottom() && o.y < r.bottom()
}

// containedIn reports whether r lies fully inside outer.
func (r rect) containedIn(outer rect) bool {
	return r.x >= outer.x && r.y >= outer.y &&
		r.right() <= outer.right() && r.bottom() <= outer.bottom()
}

// before orders free rectangles for tie-breaking: lowest y, then lowest x,
// then the narrower and shorter one.
func (r rect) before(o rect) bool {
	if r.y != o.y {
		return r.y < o.y
	}
	if r.x != o.x {
		return r.x < o.x
	}
	if r.w != o.w {
		return r.w < o.w
	}
	return r.h < o.h
}

// freeSpace tracks the unoccupied area of one sheet during a single run.
// Rectangles are maximal: they may overlap each other but never a placement.
// Removal is swap-and-truncate, so slice order is not meaningful.
type freeSpace struct {
	rects   []rect
	pending []rect // scratch buffer for split results, reused across placements
}

func newFreeSpace(bounds rect) *freeSpace {
	fs := &freeSpace{rects: make([]rect, 0, 16)}
	if !bounds.empty() {
		fs.rects = append(fs.rects, bounds)
	}
	return fs
}

// bestAreaFit returns the index of the free rectangle that can hold a w x h
// piece while leaving the least area unused, or -1 if none can. footprint
// maps a candidate to the space the piece would actually take there (piece
// plus kerf, clipped at the usable border).
func (fs *freeSpace) bestAreaFit(w, h, pieceArea int, footprint func(r rect) (int, int)) int {
	best := -1
	bestFit := 0
	for i, r := range fs.rects {
		if w > r.w || h > r.h {
			continue
		}
		fw, fh := footprint(r)
		if fw > r.w || fh > r.h {
			continue
		}
		fit := r.area() - pieceArea
		if best < 0 || fit < bestFit || (fit == bestFit && r.before(fs.rects[best])) {
			best = i
			bestFit = fit
		}
	}
	return best
}

// place removes used from the free space. Every free rectangle that
// intersects used is replaced by up to four maximal strips around it, then
// rectangles contained in others are pruned.
func (fs *freeSpace) place(used rect) {
	fs.pending = fs.pending[:0]
	for i := 0; i < len(fs.rects); {
		f := fs.rects[i]
		if !f.intersects(used) {
			i++
			continue
		}
		last := len(fs.rects) - 1
		fs.rects[i] = fs.rects[last]
		fs.rects = fs.rects[:last]
		fs.pending = appendSplits(fs.pending, f, used)
	}
	fs.rects = append(fs.rects, fs.pending...)
	fs.prune()
}

// appendSplits appends the parts of f not covered by used. Left and right
// strips keep the full height of f, top and bottom strips the full width.
// When used sits at f's top-left corner only the right and bottom strips
// remain. Degenerate strips are never produced.
func appendSplits(dst []rect, f, used rect) []rect {
	if used.x > f.x {
		dst = append(dst, rect{x: f.x, y: f.y, w: used.x - f.x, h: f.h})
	}
	if used.right() < f.right() {
		dst = append(dst, rect{x: used.right(), y: f.y, w: f.right() - used.right(), h: f.h})
	}
	if used.y > f.y {
		dst = append(dst, rect{x: f.x, y: f.y, w: f.w, h: used.y - f.y})
	}
	if used.bottom() < f.bottom() {
		dst = append(dst, rect{x: f.x, y: used.bottom(), w: f.w, h: f.bottom() - used.bottom()})
	}
	return dst
}

// prune drops every rectangle that is contained in another one.
// Of two identical rectangles exactly one survives.
func (fs *freeSpace) prune() {
	rs := fs.rects
	for i := 0; i < len(rs); i++ {
		for j := i + 1; j < len(rs); j++ {
			if rs[j].containedIn(rs[i]) {
				last := len(rs) - 1
				rs[j] = rs[last]
				rs = rs[:last]
				j--
				continue
			}
			if rs[i].containedIn(rs[j]) {
				last := len(rs) - 1
				rs[i] = rs[last]
				rs = rs[:last]
				i--
				break
			}
		}
	}
	fs.rects = rs
}
