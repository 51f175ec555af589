package main

import (
	"github.com/spf13/cobra"
)

var predictCmd = &cobra.Command{
	Use:   "predict <symptom>...",
	Short: "Rank the most likely diseases for a list of symptoms",
	Example: "  symptomctl predict itching skin_rash\n" +
		"  symptomctl predict \"high fever\" cough -o yaml",
	RunE: runPredict,
}

func runPredict(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	symptoms := args
	if symptoms == nil {
		symptoms = []string{}
	}
	resp, err := app.Service.Predict(cmd.Context(), symptoms)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), rootFlags.output, resp)
}
