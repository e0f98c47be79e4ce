package engine

import (
	"fmt"

	"github.com/piwi3910/FurniCut/internal/model"
)

// CheckLayout verifies that placements form a valid layout on a
// width x height sheet: every placement lies inside the sheet and no two
// placements overlap. It returns the first violation found.
func CheckLayout(width, height int, placements []model.Placement) error {
	area := 0
	for i, p := range placements {
		if p.Width < 1 || p.Height < 1 {
			return fmt.Errorf("placement %d (piece %d) has empty size %dx%d", i, p.PieceID, p.Width, p.Height)
		}
		if !p.Within(width, height) {
			return fmt.Errorf("placement %d (piece %d) at (%d,%d) %dx%d exceeds sheet %dx%d",
				i, p.PieceID, p.X, p.Y, p.Width, p.Height, width, height)
		}
		for j := i + 1; j < len(placements); j++ {
			if p.Overlaps(placements[j]) {
				return fmt.Errorf("placement %d (piece %d) overlaps placement %d (piece %d)",
					i, p.PieceID, j, placements[j].PieceID)
			}
		}
		area += p.Area()
	}
	if area > width*height {
		return fmt.Errorf("placed area %d exceeds sheet area %d", area, width*height)
	}
	return nil
}
