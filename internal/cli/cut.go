package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/FurniCut/internal/engine"
	"github.com/piwi3910/FurniCut/internal/export"
	"github.com/piwi3910/FurniCut/internal/importer"
	"github.com/piwi3910/FurniCut/internal/mapper"
	"github.com/piwi3910/FurniCut/internal/model"
	"github.com/piwi3910/FurniCut/internal/project"
	"github.com/piwi3910/FurniCut/internal/service"
)

// cutExports holds the optional export destinations of the cut command.
type cutExports struct {
	pdf    string
	labels string
	xlsx   string
	dxf    string
	png    string
}

// newCutCmd creates the cut command
func newCutCmd() *cobra.Command {
	var (
		width    int
		height   int
		input    string
		kerf     int
		edgeTrim int
		save     bool
		exports  cutExports
	)

	cmd := &cobra.Command{
		Use:   "cut",
		Short: "Lay out an element list on one sheet",
		Long: `Lay out the elements of a CSV, Excel or DXF file on one sheet and print
the placements.

CSV and Excel files need width and height columns; id, depth and quantity are
optional. DXF files contribute one element per closed outline.

The command fails when any element does not fit the sheet.`,
		Example: `  furnicut cut --width 2800 --height 2070 --input cabinet.csv --kerf 3 --pdf cabinet.pdf`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

			imported := importer.ImportFile(input)
			for _, w := range imported.Warnings {
				fmt.Fprintln(errOut, colorYellow("warning: ")+w)
			}
			if len(imported.Errors) > 0 {
				for _, e := range imported.Errors {
					fmt.Fprintln(errOut, colorRed("error: ")+e)
				}
				return fmt.Errorf("failed to import %s: %d error(s)", input, len(imported.Errors))
			}

			opts := engine.Options{Kerf: a.cfg.DefaultKerf, EdgeTrim: a.cfg.DefaultEdgeTrim}
			if cmd.Flags().Changed("kerf") {
				opts.Kerf = kerf
			}
			if cmd.Flags().Changed("edge-trim") {
				opts.EdgeTrim = edgeTrim
			}

			var store project.SheetStore = project.NewMemoryStore()
			if save {
				if store, err = a.openStore(); err != nil {
					return err
				}
			}

			svc := service.New(store, nil, a.logger.Logger, service.Config{
				PackTimeout: a.cfg.PackTimeout(),
				Options:     opts,
			})
			sheet, err := svc.Cut(background(cmd), model.NewCutRequest(width, height, imported.Elements...))
			if err != nil {
				var unplaced *mapper.UnplacedError
				if errors.As(err, &unplaced) {
					fmt.Fprint(errOut, renderUnplaced(unplaced.ElementIDs))
				}
				return err
			}

			fmt.Fprint(out, renderSheet(sheet))

			if err := writeCutExports(sheet, exports, export.Settings{Kerf: opts.Kerf, EdgeTrim: opts.EdgeTrim}); err != nil {
				return err
			}
			if save {
				fmt.Fprintf(out, "Saved as sheet %d in %s\n", sheet.ID, a.dataDir())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "W", 0, "Sheet width")
	cmd.Flags().IntVarP(&height, "height", "H", 0, "Sheet height")
	cmd.Flags().StringVarP(&input, "input", "i", "", "Element list (.csv, .xlsx or .dxf)")
	cmd.Flags().IntVar(&kerf, "kerf", 0, "Saw blade width kept between elements (default from config)")
	cmd.Flags().IntVar(&edgeTrim, "edge-trim", 0, "Unusable border on every side (default from config)")
	cmd.Flags().BoolVar(&save, "save", false, "Store the sheet in the data directory")
	cmd.Flags().StringVar(&exports.pdf, "pdf", "", "Write a PDF layout to this path")
	cmd.Flags().StringVar(&exports.labels, "labels", "", "Write QR code labels to this path")
	cmd.Flags().StringVar(&exports.xlsx, "xlsx", "", "Write an Excel cut list to this path")
	cmd.Flags().StringVar(&exports.dxf, "dxf", "", "Write a DXF drawing to this path")
	cmd.Flags().StringVar(&exports.png, "png", "", "Write a PNG preview to this path")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// writeCutExports writes every requested export of the sheet.
func writeCutExports(sheet model.CuttingSheet, exports cutExports, settings export.Settings) error {
	sheets := []model.CuttingSheet{sheet}
	steps := []struct {
		path  string
		name  string
		write func(path string) error
	}{
		{exports.pdf, "PDF", func(p string) error { return export.ExportPDF(p, sheets, settings) }},
		{exports.labels, "labels", func(p string) error { return export.ExportLabels(p, sheets) }},
		{exports.xlsx, "Excel", func(p string) error { return export.ExportXLSX(p, sheets) }},
		{exports.dxf, "DXF", func(p string) error { return export.ExportDXF(p, sheet) }},
		{exports.png, "PNG", func(p string) error { return export.ExportPNG(p, sheet, export.DefaultPreviewSize) }},
	}
	for _, s := range steps {
		if s.path == "" {
			continue
		}
		if err := s.write(s.path); err != nil {
			return fmt.Errorf("failed to write %s export: %w", s.name, err)
		}
	}
	return nil
}
