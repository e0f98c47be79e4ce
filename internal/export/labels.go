package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/FurniCut/internal/model"
)

// LabelInfo holds the data encoded into each element label's QR code.
type LabelInfo struct {
	ElementID int64 `json:"element_id"`
	SheetID   int64 `json:"sheet_id"`
	X         int   `json:"x"`
	Y         int   `json:"y"`
	Width     int   `json:"width"`
	Height    int   `json:"height"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels writes the label PDF for sheets to path.
func ExportLabels(path string, sheets []model.CuttingSheet) error {
	pdf, err := buildLabels(sheets)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WriteLabels generates a PDF of QR-coded labels, one per placed element.
// Each label shows the element id, its size and position, and a QR code
// carrying the same data as JSON. Labels are laid out on a standard label
// sheet format (Avery 5160 / 3 columns x 10 rows on US Letter).
func WriteLabels(w io.Writer, sheets []model.CuttingSheet) error {
	pdf, err := buildLabels(sheets)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func buildLabels(sheets []model.CuttingSheet) (*fpdf.Fpdf, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets to generate labels for")
	}

	labels := CollectLabelInfos(sheets)
	if len(labels) == 0 {
		return nil, fmt.Errorf("no elements placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, i, label); err != nil {
			return nil, fmt.Errorf("failed to render label for element %d: %w", label.ElementID, err)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render labels: %w", err)
	}
	return pdf, nil
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, seq int, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	// Element ids may repeat, the sequence number keeps image names unique
	imgName := fmt.Sprintf("qr_%d_%d_%d", info.SheetID, info.ElementID, seq)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, fmt.Sprintf("Element #%d", info.ElementID), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%d x %d mm", info.Width, info.Height)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	sheetInfo := fmt.Sprintf("Sheet %d @ (%d, %d)", info.SheetID, info.X, info.Y)
	pdf.CellFormat(textW, 3, sheetInfo, "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)

	return nil
}

// CollectLabelInfos extracts label information from sheets in placement order.
func CollectLabelInfos(sheets []model.CuttingSheet) []LabelInfo {
	var labels []LabelInfo
	for _, sheet := range sheets {
		for _, e := range sheet.PlacedElements {
			labels = append(labels, LabelInfo{
				ElementID: e.FurnitureBodyID,
				SheetID:   sheet.ID,
				X:         e.X,
				Y:         e.Y,
				Width:     e.Width,
				Height:    e.Height,
			})
		}
	}
	return labels
}
