package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/reglet-dev/portcfg/internal/domain/toolchain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// errNotInteractive means prompts were requested without a terminal.
var errNotInteractive = errors.New("stdin is not a terminal; pass --no-interactive with the answers as flags")

var successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)

func newInitCmd() *cobra.Command {
	opts := InitOptions{}
	var set []string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a build inputs file",
		Long: `Create a build inputs file for portcfg resolve. Without --no-interactive,
prompts for any value not given as a flag.`,
		Example: `  portcfg init
  portcfg init --compiler msvc --compiler-version 19.29 --pointer-width 64 --no-interactive`,
		Args: cobra.NoArgs,
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, _ []string) error {
			overrides, err := parseAssignments(set)
			if err != nil {
				return err
			}
			if len(overrides) > 0 {
				opts.Overrides = overrides
			}

			if !opts.NoInteractive {
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return errNotInteractive
				}
				if err := promptInputs(&opts, ctx.Container.Toolchains()); err != nil {
					return err
				}
			}

			data, err := NewInputsGenerator(ctx.Container.RequestValidator()).Generate(opts)
			if err != nil {
				return fmt.Errorf("inputs generation failed: %w", err)
			}

			if opts.OutputPath == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			//nolint:gosec // G306: inputs files are meant to be shared
			if err := os.WriteFile(opts.OutputPath, data, 0o644); err != nil {
				return fmt.Errorf("failed to save inputs: %w", err)
			}

			ctx.Logger.Debug("inputs written", "path", opts.OutputPath)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\nRun 'portcfg resolve -f %s' to resolve them.\n",
				successStyle.Render("✓ Inputs saved to "+opts.OutputPath), opts.OutputPath)
			return err
		}),
	}

	cmd.Flags().StringVar(&opts.Compiler, "compiler", "", "Compiler id or alias")
	cmd.Flags().StringVar(&opts.Version, "compiler-version", "", "Compiler version")
	cmd.Flags().IntVar(&opts.PointerWidth, "pointer-width", 0, "Target pointer width (32 or 64)")
	cmd.Flags().StringVar(&opts.DataModel, "data-model", "", "Target data model: ilp32, lp64, llp64")
	cmd.Flags().BoolVar(&opts.LargeFile, "large-file", false, "Enable 64-bit file offsets on 32-bit targets")
	cmd.Flags().IntVar(&opts.SleepGranularityUS, "sleep-granularity-us", 0, "Host sleep granularity in microseconds")
	cmd.Flags().StringArrayVar(&set, "set", nil, "Override a flag (name=value, repeatable)")
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "portcfg-inputs.yaml", "Output file path (- for stdout)")
	cmd.Flags().BoolVar(&opts.NoInteractive, "no-interactive", false, "Disable interactive prompts")

	return cmd
}

// promptInputs asks for every answer still missing.
func promptInputs(opts *InitOptions, toolchains *toolchain.Resolver) error {
	if opts.Compiler == "" {
		options := make([]huh.Option[string], 0)
		for _, id := range toolchains.Compilers() {
			options = append(options, huh.NewOption(string(id), string(id)))
		}
		err := huh.NewSelect[string]().
			Title("Compiler").
			Options(options...).
			Value(&opts.Compiler).
			Run()
		if err != nil {
			return err
		}
	}

	if opts.Version == "" {
		err := huh.NewInput().
			Title("Compiler version").
			Description("major.minor, or the _MSC_VER form for msvc. Leave empty if unknown.").
			Value(&opts.Version).
			Run()
		if err != nil {
			return err
		}
	}

	if opts.PointerWidth == 0 && opts.DataModel == "" {
		width := "64"
		err := huh.NewSelect[string]().
			Title("Target pointer width").
			Options(
				huh.NewOption("64-bit", "64").Selected(true),
				huh.NewOption("32-bit", "32"),
			).
			Value(&width).
			Run()
		if err != nil {
			return err
		}
		opts.PointerWidth, _ = strconv.Atoi(width)
	}

	if opts.PointerWidth == 32 && !opts.LargeFile {
		err := huh.NewConfirm().
			Title("Use 64-bit file offsets?").
			Value(&opts.LargeFile).
			Run()
		if err != nil {
			return err
		}
	}

	return nil
}

func init() {
	rootCmd.AddCommand(newInitCmd())
}
