// Package cli implements the furnicut command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/piwi3910/FurniCut/internal/project"
)

// NewRootCmd creates the root cobra command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "furnicut",
		Short: "FurniCut lays furniture elements out on stock sheets",
		Long: `FurniCut lays rectangular furniture elements out on a stock sheet without
overlap, stores the resulting cutting sheets and exports them as PDF layouts,
QR labels, spreadsheets, DXF drawings and PNG previews.

Run 'furnicut serve' for the HTTP API or 'furnicut cut' for a one-off layout.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", project.DefaultConfigPath(), "Path to the config file")
	flags.String("data-dir", "", "Directory for stored cutting sheets (default ~/.furnicut/sheets)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-file", "", "Also write JSON logs to this rotating file")

	// Add subcommands
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCutCmd())
	rootCmd.AddCommand(newSheetsCmd())
	rootCmd.AddCommand(newBackupCmd())

	return rootCmd
}
