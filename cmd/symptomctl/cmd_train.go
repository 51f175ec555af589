package main

import (
	"github.com/spf13/cobra"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train every classifier family and publish the best model",
	Args:  cobra.NoArgs,
	RunE:  runTrain,
}

func runTrain(cmd *cobra.Command, _ []string) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	resp, err := app.Service.Train(cmd.Context())
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), rootFlags.output, resp)
}
