package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/FurniCut/internal/model"
)

// DXF layer names.
const (
	LayerSheet    = "SHEET"
	LayerElements = "ELEMENTS"
	LayerLabels   = "LABELS"
)

// ExportDXF writes the sheet outline, one rectangle per placed element and
// its id as text to a DXF file. DXF has a y-up origin, so the layout is
// mirrored vertically to keep the top-left corner of the sheet at the top.
func ExportDXF(path string, sheet model.CuttingSheet) error {
	d := dxf.NewDrawing()

	layers := []struct {
		name  string
		color color.ColorNumber
	}{
		{LayerSheet, color.White},
		{LayerElements, color.Green},
		{LayerLabels, color.Yellow},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", l.name, err)
		}
	}

	flip := func(y int) float64 { return float64(sheet.Height - y) }

	if err := d.ChangeLayer(LayerSheet); err != nil {
		return err
	}
	if err := drawRect(d, 0, 0, float64(sheet.Width), float64(sheet.Height)); err != nil {
		return err
	}

	for _, e := range sheet.PlacedElements {
		if err := d.ChangeLayer(LayerElements); err != nil {
			return err
		}
		x0, y0 := float64(e.X), flip(e.Y+e.Height)
		if err := drawRect(d, x0, y0, x0+float64(e.Width), y0+float64(e.Height)); err != nil {
			return err
		}

		if err := d.ChangeLayer(LayerLabels); err != nil {
			return err
		}
		textHeight := float64(min(e.Width, e.Height)) / 5
		if textHeight <= 0 {
			textHeight = 1
		}
		label := fmt.Sprintf("%d", e.FurnitureBodyID)
		if _, err := d.Text(label, x0+textHeight/2, y0+textHeight/2, 0, textHeight); err != nil {
			return fmt.Errorf("failed to add label for element %d: %w", e.FurnitureBodyID, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// drawRect adds the four edges of an axis-aligned rectangle as LINE entities.
func drawRect(d *drawing.Drawing, x0, y0, x1, y1 float64) error {
	edges := [][4]float64{
		{x0, y0, x1, y0},
		{x1, y0, x1, y1},
		{x1, y1, x0, y1},
		{x0, y1, x0, y0},
	}
	for _, e := range edges {
		if _, err := d.Line(e[0], e[1], 0, e[2], e[3], 0); err != nil {
			return fmt.Errorf("failed to add line: %w", err)
		}
	}
	return nil
}
