package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// newSheetsCmd creates the sheets command
func newSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sheets",
		Short:   "Manage stored cutting sheets",
		Aliases: []string{"sheet"},
	}

	cmd.AddCommand(newSheetsListCmd())
	cmd.AddCommand(newSheetsShowCmd())
	cmd.AddCommand(newSheetsDeleteCmd())

	return cmd
}

func newSheetsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List stored sheets",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
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
			sheets, err := store.List(background(cmd))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderSheetList(sheets))
			return nil
		},
	}
}

func newSheetsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the placements of a stored sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSheetID(args[0])
			if err != nil {
				return err
			}
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			store, err := a.openStore()
			if err != nil {
				return err
			}
			sheet, err := store.Get(background(cmd), id)
			if err != nil {
				return fmt.Errorf("sheet %d: %w", id, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderSheet(sheet))
			return nil
		},
	}
}

func newSheetsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a stored sheet and its placements",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSheetID(args[0])
			if err != nil {
				return err
			}
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			store, err := a.openStore()
			if err != nil {
				return err
			}
			if err := store.Delete(background(cmd), id); err != nil {
				return fmt.Errorf("sheet %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted sheet %d\n", id)
			return nil
		},
	}
}

func parseSheetID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid sheet id %q", s)
	}
	return id, nil
}
