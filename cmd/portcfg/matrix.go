package main

import (
	"errors"
	"fmt"

	"github.com/reglet-dev/portcfg/internal/application/dto"
	"github.com/reglet-dev/portcfg/internal/infrastructure/output"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

// errMatrixFailures is returned by --strict when any combination failed.
var errMatrixFailures = errors.New("matrix has unresolved combinations")

func newMatrixCmd() *cobra.Command {
	common := DefaultCommonOptions()
	var (
		compilers     []string
		versions      []string
		set           []string
		maxConcurrent int
		strict        bool
	)
	formats := output.NewFormatterFactory().SupportedMatrixFormats()

	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Resolve every compiler and architecture combination",
		Long: `Resolve the configuration for each supported compiler against every
architecture row (ILP32, LP64, LLP64, with and without large file offsets).
Combinations that cannot be configured are reported, not fatal; use --strict
to exit non-zero when any combination fails.`,
		Example: `  portcfg matrix
  portcfg matrix --compilers msvc,mingw --version msvc=18.0
  portcfg matrix --format sarif -o matrix.sarif`,
		Args: cobra.NoArgs,
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, _ []string) error {
			if err := common.ValidateFlags(formats); err != nil {
				return err
			}
			runCtx, cancel := common.ApplyToContext(ctx.Context)
			defer cancel()

			req := dto.MatrixRequest{Compilers: compilers, MaxConcurrent: maxConcurrent}
			var err error
			if req.Versions, err = parseStringAssignments(versions); err != nil {
				return err
			}
			if req.Overrides, err = parseAssignments(set); err != nil {
				return err
			}
			ctx.Container.SystemConfig().ApplyToMatrix(&req)

			resp, err := ctx.Container.MatrixUseCase().Execute(runCtx, req)
			if err != nil {
				return err
			}

			w, closeOut, err := common.OpenOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() { _ = closeOut() }()

			formatter, err := ctx.Container.Formatters().CreateMatrix(common.Format, w, common.FormatterOptions(w))
			if err != nil {
				return err
			}
			if err := formatter.FormatMatrix(resp); err != nil {
				return fmt.Errorf("failed to format matrix: %w", err)
			}
			if err := closeOut(); err != nil {
				return err
			}

			if strict && resp.Failed > 0 {
				return fmt.Errorf("%w: %d of %d", errMatrixFailures, resp.Failed, len(resp.Cases))
			}
			return nil
		}),
	}

	common.RegisterFlags(cmd, formats)
	cmd.Flags().StringSliceVar(&compilers, "compilers", nil, "Compilers to resolve (default: all supported)")
	cmd.Flags().StringArrayVar(&versions, "version", nil, "Compiler version as compiler=version (repeatable)")
	cmd.Flags().StringArrayVar(&set, "set", nil, "Override a flag in every combination (name=value, repeatable)")
	cmd.Flags().IntVar(&maxConcurrent, "max-concurrent", 0, "Limit parallel resolutions (0 = no limit)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any combination fails")

	return cmd
}

func parseStringAssignments(pairs []string) (map[string]string, error) {
	parsed, err := parseAssignments(pairs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(parsed))
	for k, v := range parsed {
		out[k] = cast.ToString(v)
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(newMatrixCmd())
}
