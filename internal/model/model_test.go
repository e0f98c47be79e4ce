package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacementOverlaps(t *testing.T) {
	a := Placement{PieceID: 1, X: 0, Y: 0, Width: 10, Height: 10}

	cases := []struct {
		name string
		b    Placement
		want bool
	}{
		{"identical", Placement{X: 0, Y: 0, Width: 10, Height: 10}, true},
		{"inside", Placement{X: 2, Y: 2, Width: 3, Height: 3}, true},
		{"partial", Placement{X: 5, Y: 5, Width: 10, Height: 10}, true},
		{"touching right edge", Placement{X: 10, Y: 0, Width: 5, Height: 10}, false},
		{"touching bottom edge", Placement{X: 0, Y: 10, Width: 10, Height: 5}, false},
		{"touching corner", Placement{X: 10, Y: 10, Width: 1, Height: 1}, false},
		{"far away", Placement{X: 50, Y: 50, Width: 1, Height: 1}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(a), "overlap must be symmetric")
		})
	}
}

func TestPlacementWithin(t *testing.T) {
	assert.True(t, Placement{X: 0, Y: 0, Width: 100, Height: 100}.Within(100, 100))
	assert.True(t, Placement{X: 90, Y: 90, Width: 10, Height: 10}.Within(100, 100))
	assert.False(t, Placement{X: 91, Y: 0, Width: 10, Height: 10}.Within(100, 100))
	assert.False(t, Placement{X: -1, Y: 0, Width: 10, Height: 10}.Within(100, 100))
}

func TestCuttingSheetAreas(t *testing.T) {
	sheet := CuttingSheet{ID: 7, Width: 20, Height: 10}
	sheet.AddPlacedElement(PlacedElement{FurnitureBodyID: 1, Width: 10, Height: 10})
	sheet.AddPlacedElement(PlacedElement{FurnitureBodyID: 2, X: 10, Width: 5, Height: 10})

	require.Len(t, sheet.PlacedElements, 2)
	assert.Equal(t, int64(7), sheet.PlacedElements[0].CuttingSheetID)
	assert.Equal(t, int64(7), sheet.PlacedElements[1].CuttingSheetID)
	assert.Equal(t, 150, sheet.UsedArea())
	assert.Equal(t, 200, sheet.TotalArea())
	assert.InDelta(t, 75.0, sheet.Efficiency(), 0.0001)
}

func TestCuttingSheetEfficiencyZeroArea(t *testing.T) {
	assert.Equal(t, 0.0, CuttingSheet{}.Efficiency())
}

func TestCutRequestPiecesPreservesOrder(t *testing.T) {
	req := NewCutRequest(100, 50,
		Piece{ID: 3, Width: 10, Height: 10, Depth: 18},
		Piece{ID: 1, Width: 20, Height: 5},
		Piece{ID: 3, Width: 1, Height: 1},
	)

	require.NotNil(t, req.SheetWidth)
	require.NotNil(t, req.SheetHeight)
	assert.Equal(t, 100, *req.SheetWidth)
	assert.Equal(t, 50, *req.SheetHeight)

	pieces := req.Pieces()
	require.Len(t, pieces, 3)
	assert.Equal(t, Piece{ID: 3, Width: 10, Height: 10, Depth: 18}, pieces[0])
	assert.Equal(t, int64(1), pieces[1].ID)
	assert.Equal(t, int64(3), pieces[2].ID, "duplicate ids are kept")
}

func TestNewCutRequestDoesNotAliasIDs(t *testing.T) {
	req := NewCutRequest(10, 10, Piece{ID: 1, Width: 1, Height: 1}, Piece{ID: 2, Width: 1, Height: 1})
	*req.Elements[0].ID = 99
	assert.Equal(t, int64(2), *req.Elements[1].ID)
}
