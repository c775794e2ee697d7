package main

import (
	"fmt"

	"github.com/reglet-dev/portcfg/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

func newSchemaCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for build inputs files",
		Long: `Print the JSON Schema (Draft 2020-12) that build inputs files are validated
against. Point your editor at it for completion and inline errors.`,
		Example: `  portcfg schema > portcfg-inputs.schema.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return err
			}

			opts := CommonOptions{OutFile: outFile}
			w, closeOut, err := opts.OpenOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() { _ = closeOut() }()

			if _, err := fmt.Fprintln(w, string(data)); err != nil {
				return fmt.Errorf("failed to write schema: %w", err)
			}
			return closeOut()
		},
	}

	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Output file path (default: stdout)")
	return cmd
}

func init() {
	rootCmd.AddCommand(newSchemaCmd())
}
