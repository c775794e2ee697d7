package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/reglet-dev/portcfg/internal/infrastructure/output"
	"github.com/reglet-dev/portcfg/internal/version"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// CommonOptions contains flags shared across all commands.
type CommonOptions struct {
	// Output
	Format  string
	OutFile string

	// Execution
	Timeout time.Duration

	// Flags (bools grouped for alignment)
	Indent  bool
	NoColor bool
}

// DefaultCommonOptions returns sensible defaults.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{
		Timeout: 30 * time.Second,
		Format:  "table",
		Indent:  true,
	}
}

// RegisterFlags adds common flags to a cobra command.
func (opts *CommonOptions) RegisterFlags(cmd *cobra.Command, formats []string) {
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", opts.Timeout,
		"Global timeout for the command (0 to disable)")

	cmd.Flags().StringVar(&opts.Format, "format", opts.Format,
		"Output format: "+strings.Join(formats, ", "))
	cmd.Flags().StringVarP(&opts.OutFile, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().BoolVar(&opts.Indent, "indent", opts.Indent,
		"Indent JSON output")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false,
		"Disable colored table output")
}

// ApplyToContext applies timeout to context.
// Returns new context and cancel function.
func (opts *CommonOptions) ApplyToContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	return ctx, func() {}
}

// ValidateFlags validates common options against the formats the command
// supports.
func (opts *CommonOptions) ValidateFlags(formats []string) error {
	if !slices.Contains(formats, opts.Format) {
		return fmt.Errorf("invalid format: %s (valid: %s)", opts.Format, strings.Join(formats, ", "))
	}
	if opts.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", opts.Timeout)
	}
	return nil
}

// FormatterOptions converts the flags into formatter options for w. Color is
// disabled unless w is a terminal.
func (opts *CommonOptions) FormatterOptions(w io.Writer) output.FormatterOptions {
	return output.FormatterOptions{
		ToolVersion: version.Get().Short(),
		Indent:      opts.Indent,
		NoColor:     opts.NoColor || !isTerminal(w),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// OpenOutput returns the writer selected by --output and a function that
// closes it.
func (opts *CommonOptions) OpenOutput(fallback io.Writer) (io.Writer, func() error, error) {
	if opts.OutFile == "" {
		return fallback, func() error { return nil }, nil
	}
	//nolint:gosec // G304: output path is user-provided
	f, err := os.Create(opts.OutFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
