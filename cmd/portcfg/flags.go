package main

import (
	"fmt"
	"strings"

	"github.com/reglet-dev/portcfg/internal/application/dto"
	"github.com/reglet-dev/portcfg/internal/domain/catalog"
	"github.com/reglet-dev/portcfg/internal/domain/flags"
	"github.com/spf13/cobra"
)

func newFlagsCmd() *cobra.Command {
	common := DefaultCommonOptions()
	var (
		prefix      string
		derivedOnly bool
	)

	cmd := &cobra.Command{
		Use:   "flags",
		Short: "List the declared feature flags",
		Long: `List every feature flag the port declares, with its kind, default and
documentation. Derived flags show the expression they are computed from.`,
		Example: `  portcfg flags
  portcfg flags --prefix readline.
  portcfg flags --derived --format yaml`,
		Args: cobra.NoArgs,
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, _ []string) error {
			if err := common.ValidateFlags(resolveFormats); err != nil {
				return err
			}

			defs := filterDefinitions(catalog.Definitions(), prefix, derivedOnly)
			ctx.Logger.Debug("listing flags", "count", len(defs), "prefix", prefix)

			w, closeOut, err := common.OpenOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() { _ = closeOut() }()

			formatter, err := ctx.Container.Formatters().CreateCatalog(common.Format, w, common.FormatterOptions(w))
			if err != nil {
				return err
			}
			if err := formatter.FormatCatalog(dto.NewFlagViews(defs)); err != nil {
				return fmt.Errorf("failed to format catalog: %w", err)
			}
			return closeOut()
		}),
	}

	common.RegisterFlags(cmd, resolveFormats)
	cmd.Flags().StringVar(&prefix, "prefix", "", "Only list flags whose name starts with this prefix")
	cmd.Flags().BoolVar(&derivedOnly, "derived", false, "Only list derived flags")

	return cmd
}

func filterDefinitions(defs []flags.Definition, prefix string, derivedOnly bool) []flags.Definition {
	out := make([]flags.Definition, 0, len(defs))
	for _, d := range defs {
		if prefix != "" && !strings.HasPrefix(d.Name, prefix) {
			continue
		}
		if derivedOnly && !d.IsDerived() {
			continue
		}
		out = append(out, d)
	}
	return out
}

func init() {
	rootCmd.AddCommand(newFlagsCmd())
}
