package main

import (
	"github.com/spf13/cobra"
)

var symptomsCmd = &cobra.Command{
	Use:   "symptoms",
	Short: "List the symptoms the model understands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		list, err := app.Service.Symptoms(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), rootFlags.output, list)
	},
}

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the cross-validation scores of the last training run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		report, err := app.Service.Scores(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), rootFlags.output, report)
	},
}
