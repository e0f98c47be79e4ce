package export

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"

	"github.com/disintegration/imaging"

	"github.com/piwi3910/FurniCut/internal/model"
)

// DefaultPreviewSize is the longest side of a PNG preview in pixels.
const DefaultPreviewSize = 1024

// ExportPNG writes a PNG preview of the sheet to path.
func ExportPNG(path string, sheet model.CuttingSheet, maxSize int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create preview file: %w", err)
	}
	if err := WritePNG(f, sheet, maxSize); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WritePNG renders the sheet scaled so its longest side is maxSize pixels,
// elements filled in the same colors as the PDF layout.
func WritePNG(w io.Writer, sheet model.CuttingSheet, maxSize int) error {
	img, err := RenderPreview(sheet, maxSize)
	if err != nil {
		return err
	}
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	return nil
}

// RenderPreview draws the sheet into an image without encoding it.
func RenderPreview(sheet model.CuttingSheet, maxSize int) (*image.NRGBA, error) {
	if sheet.Width < 1 || sheet.Height < 1 {
		return nil, fmt.Errorf("invalid sheet size %dx%d", sheet.Width, sheet.Height)
	}
	if maxSize <= 0 {
		maxSize = DefaultPreviewSize
	}

	scale := float64(maxSize) / float64(max(sheet.Width, sheet.Height))
	px := func(v int) int { return int(float64(v)*scale + 0.5) }

	imgW := max(px(sheet.Width), 1)
	imgH := max(px(sheet.Height), 1)
	img := imaging.New(imgW, imgH, sheetColor.nrgba())

	for i, e := range sheet.PlacedElements {
		r := image.Rect(px(e.X), px(e.Y), px(e.X+e.Width), px(e.Y+e.Height))
		if r.Dx() == 0 {
			r.Max.X = r.Min.X + 1
		}
		if r.Dy() == 0 {
			r.Max.Y = r.Min.Y + 1
		}
		draw.Draw(img, r, image.NewUniform(colorFor(i).nrgba()), image.Point{}, draw.Src)
		strokeRect(img, r)
	}
	strokeRect(img, img.Bounds())

	return img, nil
}

// strokeRect draws a one pixel outline just inside r.
func strokeRect(img *image.NRGBA, r image.Rectangle) {
	line := image.NewUniform(lineColor.nrgba())
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(img, e.Intersect(img.Bounds()), line, image.Point{}, draw.Src)
	}
}
