package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/FurniCut/internal/model"
)

// point is a 2D vertex in drawing units.
type point struct {
	x, y float64
}

// outline is a closed polygon.
type outline []point

// boundingBox returns the minimum and maximum corners of the outline.
func (o outline) boundingBox() (point, point) {
	lo := point{math.Inf(1), math.Inf(1)}
	hi := point{math.Inf(-1), math.Inf(-1)}
	for _, p := range o {
		lo.x, lo.y = math.Min(lo.x, p.x), math.Min(lo.y, p.y)
		hi.x, hi.y = math.Max(hi.x, p.x), math.Max(hi.y, p.y)
	}
	return lo, hi
}

// isRectangle reports whether the outline is an axis-aligned rectangle.
func (o outline) isRectangle(tolerance float64) bool {
	if len(o) != 4 {
		return false
	}
	lo, hi := o.boundingBox()
	for _, p := range o {
		onX := math.Abs(p.x-lo.x) <= tolerance || math.Abs(p.x-hi.x) <= tolerance
		onY := math.Abs(p.y-lo.y) <= tolerance || math.Abs(p.y-hi.y) <= tolerance
		if !onX || !onY {
			return false
		}
	}
	return true
}

// segment represents a line segment between two 2D points, used for
// chaining disconnected LINE entities into closed outlines.
type segment struct {
	start point
	end   point
}

// ImportDXF imports elements from a DXF file. Each closed LWPOLYLINE and
// each chain of connected LINEs becomes one element sized by its bounding
// box, rounded to whole units. Elements are numbered from 1, largest first.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines []outline
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			o := lwPolylineToOutline(e)
			if len(o) >= 3 {
				outlines = append(outlines, o)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: point{x: e.Start[0], y: e.Start[1]},
				end:   point{x: e.End[0], y: e.End[1]},
			})

		default:
			// Text, circles and other entities do not describe elements
		}
	}

	outlines = append(outlines, chainSegments(segments, 0.01)...)

	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	// Largest first for consistent numbering
	sort.SliceStable(outlines, func(i, j int) bool {
		return outlineArea(outlines[i]) > outlineArea(outlines[j])
	})

	var id int64
	for n, o := range outlines {
		lo, hi := o.boundingBox()
		width := int(math.Round(hi.x - lo.x))
		height := int(math.Round(hi.y - lo.y))

		if width < 1 || height < 1 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f)", hi.x-lo.x, hi.y-lo.y))
			continue
		}
		if !o.isRectangle(0.01) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Shape %d is not a rectangle, using its %d x %d bounding box", n+1, width, height))
		}

		id++
		result.Elements = append(result.Elements, model.Piece{ID: id, Width: width, Height: height})
	}

	return result
}

// lwPolylineToOutline converts a DXF LWPOLYLINE entity to an outline.
// Bulges are ignored: only the vertices shape the bounding box.
func lwPolylineToOutline(lw *entity.LwPolyline) outline {
	o := make(outline, 0, len(lw.Vertices))
	for _, v := range lw.Vertices {
		o = append(o, point{x: v[0], y: v[1]})
	}
	return o
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum distance between endpoints to consider them connected.
func chainSegments(segs []segment, tolerance float64) []outline {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines []outline

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []point{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		// Only closed chains describe an element
		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, outline(chain[:len(chain)-1]))
		}
	}

	return outlines
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b point, tolerance float64) bool {
	dx := a.x - b.x
	dy := a.y - b.y
	return math.Sqrt(dx*dx+dy*dy) <= tolerance
}

// outlineArea computes the absolute area of a polygon using the shoelace formula.
func outlineArea(o outline) float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].x * o[j].y
		area -= o[j].x * o[i].y
	}
	return math.Abs(area) / 2
}
