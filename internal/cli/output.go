package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/piwi3910/FurniCut/internal/model"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// colorRed colors text red
func colorRed(text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(text)
}

// colorYellow colors text yellow
func colorYellow(text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render(text)
}

// colorGreen colors text green
func colorGreen(text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render(text)
}

// newTable returns a bordered table; columns listed in numeric are right-aligned.
func newTable(headers []string, numeric ...int) *table.Table {
	right := make(map[int]bool, len(numeric))
	for _, c := range numeric {
		right[c] = true
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case right[col]:
				return numberStyle
			default:
				return cellStyle
			}
		})
}

// renderSheet prints a sheet's placements followed by a usage summary.
func renderSheet(sheet model.CuttingSheet) string {
	var b strings.Builder

	title := fmt.Sprintf("Sheet %d  %d x %d", sheet.ID, sheet.Width, sheet.Height)
	if sheet.ID == 0 {
		title = fmt.Sprintf("Sheet  %d x %d", sheet.Width, sheet.Height)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	t := newTable([]string{"Element", "X", "Y", "Width", "Height"}, 0, 1, 2, 3, 4)
	for _, e := range sheet.PlacedElements {
		t.Row(
			strconv.FormatInt(e.FurnitureBodyID, 10),
			strconv.Itoa(e.X),
			strconv.Itoa(e.Y),
			strconv.Itoa(e.Width),
			strconv.Itoa(e.Height),
		)
	}
	b.WriteString(t.String())
	b.WriteString("\n")

	fmt.Fprintf(&b, "Elements: %d  Used: %d / %d  Efficiency: %s\n",
		len(sheet.PlacedElements), sheet.UsedArea(), sheet.TotalArea(),
		colorGreen(fmt.Sprintf("%.1f%%", sheet.Efficiency())))
	return b.String()
}

// renderSheetList prints one row per stored sheet.
func renderSheetList(sheets []model.CuttingSheet) string {
	if len(sheets) == 0 {
		return dimStyle.Render("No stored sheets") + "\n"
	}
	t := newTable([]string{"ID", "Size", "Elements", "Efficiency", "Created"}, 0, 2, 3)
	for _, s := range sheets {
		created := ""
		if !s.CreatedAt.IsZero() {
			created = s.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		t.Row(
			strconv.FormatInt(s.ID, 10),
			fmt.Sprintf("%d x %d", s.Width, s.Height),
			strconv.Itoa(len(s.PlacedElements)),
			fmt.Sprintf("%.1f%%", s.Efficiency()),
			created,
		)
	}
	return t.String() + "\n"
}

// renderUnplaced lists the elements that did not fit.
func renderUnplaced(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return colorRed("Elements do not fit on the sheet: ") + strings.Join(parts, ", ") + "\n"
}
