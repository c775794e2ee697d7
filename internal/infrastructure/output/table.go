package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/reglet-dev/portcfg/internal/application/dto"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// TableFormatter formats outputs as human-readable tables.
type TableFormatter struct {
	writer      io.Writer
	EnableColor bool
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		writer:      w,
		EnableColor: true, // Default to true, caller can disable
	}
}

// colorize returns the string wrapped in ANSI color codes if enabled.
func (f *TableFormatter) colorize(text, code string) string {
	if !f.EnableColor {
		return text
	}
	return code + text + colorReset
}

func (f *TableFormatter) rule() string {
	return f.colorize(strings.Repeat("─", 80), colorGray)
}

// Format writes the configuration as a table.
//
//nolint:errcheck // Table formatting errors are non-critical (best-effort terminal output)
func (f *TableFormatter) Format(view dto.ConfigurationView) error {
	tc := view.Toolchain
	p := view.Platform

	fmt.Fprintln(f.writer, f.rule())
	version := tc.Version
	if version == "" {
		version = "unversioned"
	}
	fmt.Fprintf(f.writer, "Toolchain: %s %s (%s)\n", f.colorize(tc.Compiler, colorBold), version, tc.Family)
	fmt.Fprintf(f.writer, "Fingerprint: %s\n", view.Fingerprint)
	fmt.Fprintln(f.writer)

	fmt.Fprintln(f.writer, f.colorize("Platform:", colorBold))
	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  rule\t%s\n", p.Rule)
	fmt.Fprintf(tw, "  data model\t%s\n", p.DataModel)
	fmt.Fprintf(tw, "  word\t%s / %s (%d bits)\n", p.SignedWord, p.UnsignedWord, p.WordWidth)
	fmt.Fprintf(tw, "  max size\t%s\n", p.MaxSignedSize)
	fmt.Fprintf(tw, "  offset\t%s\n", p.Offset)
	fmt.Fprintf(tw, "  subsecond\t%s\n", p.Subsecond)
	if p.SSize != "" {
		fmt.Fprintf(tw, "  ssize_t\t%s (max %s)\n", p.SSize, p.SSizeMax)
	}
	if p.OffsetAlias != "" {
		fmt.Fprintf(tw, "  %s\t%s\n", p.OffsetAlias, p.Offset)
	}
	fmt.Fprintf(tw, "  endianness\t%s\n", p.Endianness)
	tw.Flush()
	fmt.Fprintln(f.writer)

	fmt.Fprintln(f.writer, f.colorize("Keywords:", colorBold))
	tw = tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	for _, k := range sortedKeys(tc.Keywords) {
		spelling := tc.Keywords[k]
		if spelling == "" {
			spelling = f.colorize("(none)", colorGray)
		}
		fmt.Fprintf(tw, "  %s\t%s\n", k, spelling)
	}
	tw.Flush()
	fmt.Fprintln(f.writer)

	if view.Scheduler != nil {
		fmt.Fprintf(f.writer, "Scheduler: %s, idle quantum %s\n", f.colorize("enabled", colorGreen), view.Scheduler.Quantum)
	} else {
		fmt.Fprintf(f.writer, "Scheduler: %s\n", f.colorize("disabled", colorYellow))
	}
	fmt.Fprintln(f.writer)

	fmt.Fprintln(f.writer, f.colorize(fmt.Sprintf("Flags (%d):", len(view.Flags)), colorBold))
	tw = tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	for _, e := range view.Flags {
		fmt.Fprintf(tw, "  %s\t%v\t%s\n", e.Name, e.Value, f.colorize(string(e.Source), colorGray))
	}
	tw.Flush()
	fmt.Fprintln(f.writer, f.rule())

	return nil
}

// FormatCatalog writes the flag catalog as a table.
//
//nolint:errcheck // Table formatting errors are non-critical (best-effort terminal output)
func (f *TableFormatter) FormatCatalog(flags []dto.FlagView) error {
	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, f.colorize("NAME\tKIND\tDEFAULT\tDOC", colorBold))
	for _, v := range flags {
		def := fmt.Sprintf("%v", v.Default)
		if v.Derived {
			def = f.colorize("derived", colorCyan)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.Name, v.Kind, def, v.Doc)
	}
	return tw.Flush()
}

// FormatMatrix writes the matrix run as a table.
//
//nolint:errcheck // Table formatting errors are non-critical (best-effort terminal output)
func (f *TableFormatter) FormatMatrix(resp *dto.MatrixResponse) error {
	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, f.colorize("COMPILER\tVERSION\tTARGET\tLARGE FILE\tRESULT", colorBold))
	for _, c := range resp.Cases {
		target := fmt.Sprintf("%d-bit %s", c.PointerWidth, c.DataModel)
		result := f.colorize(fmt.Sprintf("%s, offset %s", c.Rule, c.Offset), colorGreen)
		if !c.OK() {
			result = f.colorize(c.Error, colorRed)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", c.Compiler, c.Version, target, c.LargeFile, result)
	}
	tw.Flush()

	fmt.Fprintln(f.writer)
	fmt.Fprintf(f.writer, "%d resolved, %d failed\n", resp.Resolved, resp.Failed)
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
