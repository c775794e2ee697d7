package output

import (
	"io"

	"github.com/goccy/go-yaml"
	"github.com/reglet-dev/portcfg/internal/application/dto"
)

// YAMLFormatter writes outputs as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the configuration as YAML.
func (f *YAMLFormatter) Format(view dto.ConfigurationView) error {
	return f.encode(view)
}

// FormatCatalog writes the flag catalog as YAML.
func (f *YAMLFormatter) FormatCatalog(flags []dto.FlagView) error {
	return f.encode(flags)
}

// FormatMatrix writes the matrix run as YAML.
func (f *YAMLFormatter) FormatMatrix(resp *dto.MatrixResponse) error {
	return f.encode(resp)
}

func (f *YAMLFormatter) encode(v any) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))

	if err := encoder.Encode(v); err != nil {
		return err
	}

	return encoder.Close()
}
