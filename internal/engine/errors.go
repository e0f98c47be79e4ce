package engine

import (
	"fmt"

	"github.com/piwi3910/FurniCut/internal/model"
)

// PreconditionError signals input that upstream validation should have
// rejected. It is raised with panic: reaching the engine with such input is
// an integration defect, never a "does not fit" outcome.
type PreconditionError struct {
	Field  string
	Value  int
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("engine precondition violated: %s=%d %s", e.Field, e.Value, e.Reason)
}

func violate(field string, value int, reason string) {
	panic(&PreconditionError{Field: field, Value: value, Reason: reason})
}

func checkPreconditions(sheetWidth, sheetHeight int, pieces []model.Piece, opts Options) {
	if sheetWidth < 1 {
		violate("sheetWidth", sheetWidth, "must be at least 1")
	}
	if sheetHeight < 1 {
		violate("sheetHeight", sheetHeight, "must be at least 1")
	}
	if len(pieces) == 0 {
		violate("pieces", 0, "must not be empty")
	}
	for i, p := range pieces {
		if p.Width < 1 {
			violate(fmt.Sprintf("pieces[%d].width", i), p.Width, "must be at least 1")
		}
		if p.Height < 1 {
			violate(fmt.Sprintf("pieces[%d].height", i), p.Height, "must be at least 1")
		}
		if p.Depth < 0 {
			violate(fmt.Sprintf("pieces[%d].depth", i), p.Depth, "must not be negative")
		}
	}
	if opts.Kerf < 0 {
		violate("kerf", opts.Kerf, "must not be negative")
	}
	if opts.EdgeTrim < 0 {
		violate("edgeTrim", opts.EdgeTrim, "must not be negative")
	}
}
