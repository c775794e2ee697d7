package output

import (
	"encoding/json"
	"io"

	"github.com/reglet-dev/portcfg/internal/application/dto"
)

// JSONFormatter writes outputs as JSON.
type JSONFormatter struct {
	writer io.Writer
	indent bool
}

// NewJSONFormatter creates a new JSON formatter.
// If indent is true, the output will be pretty-printed with indentation.
func NewJSONFormatter(w io.Writer, indent bool) *JSONFormatter {
	return &JSONFormatter{writer: w, indent: indent}
}

// Format writes the configuration as JSON.
func (f *JSONFormatter) Format(view dto.ConfigurationView) error {
	return f.encode(view)
}

// FormatCatalog writes the flag catalog as JSON.
func (f *JSONFormatter) FormatCatalog(flags []dto.FlagView) error {
	return f.encode(flags)
}

// FormatMatrix writes the matrix run as JSON.
func (f *JSONFormatter) FormatMatrix(resp *dto.MatrixResponse) error {
	return f.encode(resp)
}

func (f *JSONFormatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	if f.indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}
