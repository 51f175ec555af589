package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Skufu/symptomdx/internal/bootstrap"
	"github.com/Skufu/symptomdx/internal/config"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

// openApp loads configuration from the environment. Logs go to stderr so
// stdout carries only the command result.
func openApp(cmd *cobra.Command) (*bootstrap.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
	return bootstrap.New(cmd.Context(), cfg, logger)
}

// render writes v in the selected format. YAML goes through JSON first so
// both formats share the json field names.
func render(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if format == outputJSON {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return enc.Close()
}
