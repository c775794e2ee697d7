// Package output provides formatters for resolved configurations, flag
// catalogs and matrix runs.
package output

import (
	"fmt"
	"io"

	"github.com/reglet-dev/portcfg/internal/application/ports"
)

// FormatterOptions configures formatter creation.
type FormatterOptions struct {
	// ToolVersion is reported in SARIF tool metadata.
	ToolVersion string
	Indent      bool
	NoColor     bool
}

// FormatterFactory creates formatters by name.
type FormatterFactory struct{}

// NewFormatterFactory creates a new formatter factory.
func NewFormatterFactory() *FormatterFactory {
	return &FormatterFactory{}
}

// Create returns a configuration formatter for the given format name.
func (f *FormatterFactory) Create(format string, writer io.Writer, options FormatterOptions) (ports.ConfigurationFormatter, error) {
	switch format {
	case "table":
		return newTable(writer, options), nil
	case "json":
		return NewJSONFormatter(writer, options.Indent), nil
	case "yaml":
		return NewYAMLFormatter(writer), nil
	default:
		return nil, unknownFormat(format, f.SupportedFormats())
	}
}

// CreateCatalog returns a catalog formatter for the given format name.
func (f *FormatterFactory) CreateCatalog(format string, writer io.Writer, options FormatterOptions) (ports.CatalogFormatter, error) {
	switch format {
	case "table":
		return newTable(writer, options), nil
	case "json":
		return NewJSONFormatter(writer, options.Indent), nil
	case "yaml":
		return NewYAMLFormatter(writer), nil
	default:
		return nil, unknownFormat(format, f.SupportedFormats())
	}
}

// CreateMatrix returns a matrix formatter for the given format name.
func (f *FormatterFactory) CreateMatrix(format string, writer io.Writer, options FormatterOptions) (ports.MatrixFormatter, error) {
	switch format {
	case "table":
		return newTable(writer, options), nil
	case "json":
		return NewJSONFormatter(writer, options.Indent), nil
	case "yaml":
		return NewYAMLFormatter(writer), nil
	case "sarif":
		return NewSARIFFormatter(writer, options.ToolVersion), nil
	default:
		return nil, unknownFormat(format, f.SupportedMatrixFormats())
	}
}

// SupportedFormats returns list of available format names.
func (f *FormatterFactory) SupportedFormats() []string {
	return []string{"table", "json", "yaml"}
}

// SupportedMatrixFormats returns the format names usable for matrix runs.
func (f *FormatterFactory) SupportedMatrixFormats() []string {
	return []string{"table", "json", "yaml", "sarif"}
}

func unknownFormat(format string, supported []string) error {
	return fmt.Errorf("unknown format: %s (supported: %v)", format, supported)
}

func newTable(w io.Writer, options FormatterOptions) *TableFormatter {
	t := NewTableFormatter(w)
	t.EnableColor = !options.NoColor
	return t
}
