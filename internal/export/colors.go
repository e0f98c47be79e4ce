package export

import "image/color"

// elementColor represents an RGB color for a placed element.
type elementColor struct {
	R, G, B int
}

func (c elementColor) nrgba() color.NRGBA {
	return color.NRGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 255}
}

// elementColors is shared by the PDF layout and the PNG preview so both
// render an element in the same color.
var elementColors = []elementColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

func colorFor(i int) elementColor {
	return elementColors[i%len(elementColors)]
}

var (
	sheetColor = elementColor{R: 210, G: 180, B: 140} // wood
	trimColor  = elementColor{R: 255, G: 200, B: 200}
	lineColor  = elementColor{R: 30, G: 30, B: 30}
)
