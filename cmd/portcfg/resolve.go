package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/reglet-dev/portcfg/internal/application/dto"
	"github.com/reglet-dev/portcfg/internal/application/ports"
	"github.com/reglet-dev/portcfg/internal/domain/entities"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var resolveFormats = []string{"table", "json", "yaml"}

// InputOptions selects the build inputs of one resolution. Flags win over
// the inputs file; the site config fills whatever both leave unset.
type InputOptions struct {
	InputsFile         string
	Compiler           string
	CompilerVersion    string
	DataModel          string
	Set                []string
	PointerWidth       int
	SleepGranularityUS int
	LargeFile          bool
	SkipSchema         bool
}

// RegisterFlags adds the build input flags to a cobra command.
func (opts *InputOptions) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&opts.InputsFile, "inputs", "f", "", "Build inputs file (YAML or JSON)")
	flags.StringVar(&opts.Compiler, "compiler", "", "Compiler id or alias (gcc, clang, mingw, msvc, cl, cc)")
	flags.StringVar(&opts.CompilerVersion, "compiler-version", "", "Compiler version (major.minor or the _MSC_VER form)")
	flags.IntVar(&opts.PointerWidth, "pointer-width", 0, "Target pointer width in bits (32 or 64)")
	flags.StringVar(&opts.DataModel, "data-model", "", "Target data model: ilp32, lp64, llp64")
	flags.BoolVar(&opts.LargeFile, "large-file", false, "Enable 64-bit file offsets on 32-bit targets")
	flags.IntVar(&opts.SleepGranularityUS, "sleep-granularity-us", 0, "Host sleep granularity in microseconds")
	flags.StringArrayVar(&opts.Set, "set", nil, "Override a flag (name=value, repeatable)")
	flags.BoolVar(&opts.SkipSchema, "skip-schema", false, "Skip JSON Schema validation of the inputs file")
}

// BuildRequest assembles a ResolveRequest from the inputs file and flags.
func (opts *InputOptions) BuildRequest(ctx context.Context, loader ports.InputsLoader, flags *pflag.FlagSet) (dto.ResolveRequest, error) {
	req := dto.ResolveRequest{Metadata: dto.RequestMetadata{Source: "flags"}}

	if opts.InputsFile != "" {
		loaded, err := loader.Load(ctx, opts.InputsFile)
		if err != nil {
			return dto.ResolveRequest{}, err
		}
		req = *loaded
	}

	fromFile := opts.InputsFile != ""
	changed := func(name string) bool {
		return !fromFile || flags.Changed(name)
	}

	if changed("compiler") && opts.Compiler != "" {
		req.Toolchain.Compiler = opts.Compiler
	}
	if changed("compiler-version") && opts.CompilerVersion != "" {
		req.Toolchain.Version = opts.CompilerVersion
	}
	if changed("pointer-width") && opts.PointerWidth != 0 {
		req.Target.PointerWidth = opts.PointerWidth
	}
	if changed("data-model") && opts.DataModel != "" {
		req.Target.DataModel = opts.DataModel
	}
	if changed("large-file") && opts.LargeFile {
		req.Target.LargeFileOffsets = true
	}
	if changed("sleep-granularity-us") && opts.SleepGranularityUS != 0 {
		req.Host.SleepGranularityUS = opts.SleepGranularityUS
	}

	overrides, err := parseAssignments(opts.Set)
	if err != nil {
		return dto.ResolveRequest{}, err
	}
	if len(overrides) > 0 {
		if req.Overrides == nil {
			req.Overrides = make(map[string]any, len(overrides))
		}
		for name, value := range overrides {
			req.Overrides[name] = value
		}
	}

	req.Metadata.RequestID = uuid.NewString()
	return req, nil
}

// parseAssignments parses name=value pairs. Values stay strings; the flag
// registry converts them to the declared kind.
func parseAssignments(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid override %q: expected name=value", pair)
		}
		out[name] = strings.TrimSpace(value)
	}
	return out, nil
}

func newResolveCmd() *cobra.Command {
	common := DefaultCommonOptions()
	var (
		inputs InputOptions
		get    []string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a build configuration",
		Long: `Resolve the toolchain dialect, platform types, feature flags and idle-poll
policy for one set of build inputs. Inputs come from a YAML or JSON file
(--inputs), from flags, or both; flags take precedence.`,
		Example: `  portcfg resolve --compiler msvc --compiler-version 19.29 --pointer-width 64
  portcfg resolve -f inputs.yaml --format json
  portcfg resolve -f inputs.yaml --set readline.history_size=100 --get repl.emacs_keys`,
		Args: cobra.NoArgs,
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, _ []string) error {
			if err := common.ValidateFlags(resolveFormats); err != nil {
				return err
			}
			runCtx, cancel := common.ApplyToContext(ctx.Context)
			defer cancel()

			req, err := inputs.BuildRequest(runCtx, ctx.Container.InputsLoader(), cmd.Flags())
			if err != nil {
				return err
			}
			ctx.Container.SystemConfig().ApplyTo(&req)

			resp, err := ctx.Container.ResolveConfigUseCase().Execute(runCtx, req)
			if err != nil {
				return err
			}
			for _, w := range resp.Diagnostics.Warnings {
				ctx.Logger.Warn(w, "request_id", resp.Metadata.RequestID)
			}

			w, closeOut, err := common.OpenOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() { _ = closeOut() }()

			if len(get) > 0 {
				return writeQueried(w, resp.Configuration, get)
			}

			formatter, err := ctx.Container.Formatters().Create(common.Format, w, common.FormatterOptions(w))
			if err != nil {
				return err
			}
			if err := formatter.Format(dto.NewConfigurationView(resp.Configuration)); err != nil {
				return fmt.Errorf("failed to format configuration: %w", err)
			}
			return closeOut()
		}),
	}

	common.RegisterFlags(cmd, resolveFormats)
	inputs.RegisterFlags(cmd.Flags())
	cmd.Flags().StringSliceVar(&get, "get", nil, "Print only these flags as name=value lines")

	return cmd
}

// writeQueried prints name=value for each queried flag. An undeclared name
// is an error.
func writeQueried(w io.Writer, cfg *entities.Configuration, names []string) error {
	for _, name := range names {
		value, err := cfg.Flags().Lookup(name)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s=%v\n", name, value); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newResolveCmd())
}
