package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/FurniCut/internal/project"
)

// newBackupCmd creates the backup command
func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import all stored sheets",
	}

	cmd.AddCommand(newBackupExportCmd())
	cmd.AddCommand(newBackupImportCmd())

	return cmd
}

func newBackupExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the config and every stored sheet to a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			store, err := a.openStore()
			if err != nil {
				return err
			}
			if err := project.ExportAllData(background(cmd), args[0], a.cfg, store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported backup to %s\n", args[0])
			return nil
		},
	}
}

func newBackupImportCmd() *cobra.Command {
	var withConfig bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Restore sheets from a backup file",
		Long: `Restore sheets from a backup file. Sheets keep their ids and replace stored
sheets with the same id. With --config-too the backed-up config is written to the
config file as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			data, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			n, err := project.RestoreSheets(background(cmd), store, data.Sheets)
			if err != nil {
				return err
			}

			if withConfig {
				path, _ := cmd.Flags().GetString("config")
				if err := project.SaveAppConfig(path, data.Config); err != nil {
					return fmt.Errorf("failed to save config: %w", err)
				}
			}

			a.logger.Info("backup restored", "file", args[0], "sheets", n, "version", data.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d sheet(s) from %s\n", n, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&withConfig, "config-too", false, "Also restore the backed-up config")

	return cmd
}
