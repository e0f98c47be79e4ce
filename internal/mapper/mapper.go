// Package mapper turns engine results into the cutting-sheet aggregate that
// is stored and returned to callers, and engine failures into the payload
// that names the elements left off the sheet.
package mapper

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/piwi3910/FurniCut/internal/engine"
	"github.com/piwi3910/FurniCut/internal/model"
)

// ErrElementsDoNotFit is matched by every *UnplacedError.
var ErrElementsDoNotFit = errors.New("elements do not fit on the sheet")

// UnplacedError reports the elements a valid request could not seat.
// It is a packing outcome, never a validation failure.
type UnplacedError struct {
	ElementIDs []int64
}

func (e *UnplacedError) Error() string {
	ids := make([]string, len(e.ElementIDs))
	for i, id := range e.ElementIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return "Elements do not fit on the sheet: " + strings.Join(ids, ", ")
}

func (e *UnplacedError) Is(target error) bool {
	return target == ErrElementsDoNotFit
}

// ToCuttingSheet builds the sheet aggregate for a successful run, one placed
// element per placement in engine order. A run with unplaced pieces yields an
// *UnplacedError and no sheet: a partial layout is never handed out.
//
// Ids are left at zero for the store to assign.
func ToCuttingSheet(width, height int, res engine.Result) (model.CuttingSheet, error) {
	if !res.Success() {
		ids := make([]int64, len(res.Unplaced))
		copy(ids, res.Unplaced)
		return model.CuttingSheet{}, &UnplacedError{ElementIDs: ids}
	}

	sheet := model.CuttingSheet{
		Width:          width,
		Height:         height,
		PlacedElements: make([]model.PlacedElement, 0, len(res.Placements)),
	}
	for _, p := range res.Placements {
		sheet.AddPlacedElement(model.PlacedElement{
			FurnitureBodyID: p.PieceID,
			X:               p.X,
			Y:               p.Y,
			Width:           p.Width,
			Height:          p.Height,
		})
	}
	return sheet, nil
}

// ToCutResponse converts a stored sheet into the success payload.
func ToCutResponse(sheet model.CuttingSheet) model.CutResponse {
	resp := model.CutResponse{
		ID:          sheet.ID,
		SheetWidth:  sheet.Width,
		SheetHeight: sheet.Height,
		Efficiency:  sheet.Efficiency(),
		Placements:  make([]model.PlacementDTO, 0, len(sheet.PlacedElements)),
	}
	for _, e := range sheet.PlacedElements {
		resp.Placements = append(resp.Placements, model.PlacementDTO{
			ElementID: e.FurnitureBodyID,
			X:         e.X,
			Y:         e.Y,
			Width:     e.Width,
			Height:    e.Height,
		})
	}
	return resp
}

// ToFailureResponse converts an UnplacedError into its 422 payload.
func ToFailureResponse(err *UnplacedError) model.PackingFailureResponse {
	ids := make([]int64, len(err.ElementIDs))
	copy(ids, err.ElementIDs)
	return model.PackingFailureResponse{
		Status:             http.StatusUnprocessableEntity,
		Message:            err.Error(),
		UnplacedElementIDs: ids,
	}
}
