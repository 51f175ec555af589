package main

import (
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the stored raw rows with the dataset contents (requires ENABLE_DB)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		n, err := app.Service.ImportRows(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), rootFlags.output, map[string]int{"inserted": n})
	},
}
