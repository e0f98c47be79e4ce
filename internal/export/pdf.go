// Package export writes cutting sheets to PDF layouts, QR-coded element
// labels, Excel cut lists, DXF drawings and PNG previews.
package export

import (
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/FurniCut/internal/model"
)

// Settings describes how the sheets were cut. It is printed on the summary
// page and EdgeTrim is drawn as a no-cut border.
type Settings struct {
	Kerf     int
	EdgeTrim int
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF writes the PDF layout of sheets to path.
func ExportPDF(path string, sheets []model.CuttingSheet, settings Settings) error {
	pdf, err := buildPDF(sheets, settings)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WritePDF renders each sheet on its own page with a layout diagram and
// element legend, followed by a summary page.
func WritePDF(w io.Writer, sheets []model.CuttingSheet, settings Settings) error {
	pdf, err := buildPDF(sheets, settings)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func buildPDF(sheets []model.CuttingSheet, settings Settings) (*fpdf.Fpdf, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, sheet := range sheets {
		pdf.AddPage()
		renderSheetPage(pdf, sheet, settings)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, sheets, settings)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return pdf, nil
}

// renderSheetPage draws a single sheet on the current PDF page.
func renderSheetPage(pdf *fpdf.Fpdf, sheet model.CuttingSheet, settings Settings) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Cutting sheet %d (%d x %d mm)", sheet.ID, sheet.Width, sheet.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Elements: %d | Used area: %d mm² | Total area: %d mm² | Efficiency: %.1f%%",
		len(sheet.PlacedElements), sheet.UsedArea(), sheet.TotalArea(), sheet.Efficiency())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, tr(stats), "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	// Scale to fit the sheet within the drawing area
	scale := math.Min(drawWidth/float64(sheet.Width), drawHeight/float64(sheet.Height))

	canvasW := float64(sheet.Width) * scale
	canvasH := float64(sheet.Height) * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(sheetColor.R, sheetColor.G, sheetColor.B)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	drawTrimBorder(pdf, sheet, settings.EdgeTrim, scale, offsetX, offsetY)

	for i, e := range sheet.PlacedElements {
		col := colorFor(i)
		pw := float64(e.Width) * scale
		ph := float64(e.Height) * scale
		px := offsetX + float64(e.X)*scale
		py := offsetY + float64(e.Y)*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(lineColor.R, lineColor.G, lineColor.B)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		// Only label rectangles large enough to hold text
		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := fmt.Sprintf("#%d", e.FurnitureBodyID)
			dims := fmt.Sprintf("%dx%d", e.Width, e.Height)

			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, sheet, offsetX, offsetY, canvasW, canvasH)
	drawElementLegend(pdf, sheet, offsetY+canvasH+5)
}

// drawTrimBorder shades the unusable border left by edge trimming.
func drawTrimBorder(pdf *fpdf.Fpdf, sheet model.CuttingSheet, trim int, scale, offsetX, offsetY float64) {
	if trim <= 0 {
		return
	}
	w, h, t := float64(sheet.Width), float64(sheet.Height), float64(trim)
	zones := [][4]float64{
		{0, 0, w, t},
		{0, h - t, w, t},
		{0, t, t, h - 2*t},
		{w - t, t, t, h - 2*t},
	}

	for _, z := range zones {
		zx := offsetX + z[0]*scale
		zy := offsetY + z[1]*scale
		zw := z[2] * scale
		zh := z[3] * scale
		if zw <= 0 || zh <= 0 {
			continue
		}

		pdf.SetFillColor(trimColor.R, trimColor.G, trimColor.B)
		pdf.SetDrawColor(200, 0, 0)
		pdf.SetLineWidth(0.3)
		pdf.Rect(zx, zy, zw, zh, "FD")
		drawHatchPattern(pdf, zx, zy, zw, zh)
	}

	pdf.SetTextColor(0, 0, 0)
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark it as no-cut.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)

	spacing := 4.0
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// drawDimensionAnnotations adds width and height labels outside the sheet rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, sheet model.CuttingSheet, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d mm", sheet.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	// Height runs along the left edge, rotated
	heightLabel := fmt.Sprintf("%d mm", sheet.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawElementLegend renders a compact legend of placed elements below the sheet.
func drawElementLegend(pdf *fpdf.Fpdf, sheet model.CuttingSheet, startY float64) {
	if len(sheet.PlacedElements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Elements placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, e := range sheet.PlacedElements {
		col := colorFor(i)
		label := fmt.Sprintf("#%d (%dx%d @ %d,%d)", e.FurnitureBodyID, e.Width, e.Height, e.X, e.Y)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}
		if startY > pageHeight-marginBottom {
			break
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, sheets []model.CuttingSheet, settings Settings) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cut Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Sheets", fmt.Sprintf("%d", len(sheets))},
		{"Overall Efficiency", fmt.Sprintf("%.1f%%", overallEfficiency(sheets))},
		{"Elements Placed", fmt.Sprintf("%d", countElements(sheets))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Sheet Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{25, 60, 40, 35, 80}
	headers := []string{"Sheet", "Dimensions", "Elements", "Efficiency", "Used / Total Area"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, sheet := range sheets {
		if y > pageHeight-marginBottom-40 {
			pdf.AddPage()
			y = marginTop
		}
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", sheet.ID),
			fmt.Sprintf("%d x %d mm", sheet.Width, sheet.Height),
			fmt.Sprintf("%d", len(sheet.PlacedElements)),
			fmt.Sprintf("%.1f%%", sheet.Efficiency()),
			tr(fmt.Sprintf("%d / %d mm²", sheet.UsedArea(), sheet.TotalArea())),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Cut Settings", "", 0, "L", false, 0, "")
	y += 9

	settingsItems := []struct {
		label string
		value string
	}{
		{"Kerf Width", fmt.Sprintf("%d mm", settings.Kerf)},
		{"Edge Trim", fmt.Sprintf("%d mm", settings.EdgeTrim)},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by FurniCut - Furniture Sheet Cut Planner", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

// countElements returns the total number of placed elements across all sheets.
func countElements(sheets []model.CuttingSheet) int {
	total := 0
	for _, s := range sheets {
		total += len(s.PlacedElements)
	}
	return total
}

// overallEfficiency returns the used share of all sheet area combined.
func overallEfficiency(sheets []model.CuttingSheet) float64 {
	used, total := 0, 0
	for _, s := range sheets {
		used += s.UsedArea()
		total += s.TotalArea()
	}
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total) * 100
}
