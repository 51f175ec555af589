package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	output string
}

var rootCmd = &cobra.Command{
	Use:   "symptomctl",
	Short: "Train and query the symptom-based disease predictor",
	Long:  "symptomctl runs training and predictions against the same dataset and\nartifact store the server uses, configured through the environment.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		switch rootFlags.output {
		case outputJSON, outputYAML:
			return nil
		default:
			return fmt.Errorf("unsupported output %q (use json or yaml)", rootFlags.output)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootFlags.output, "output", "o", outputJSON, "Output format: json or yaml")

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(symptomsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
