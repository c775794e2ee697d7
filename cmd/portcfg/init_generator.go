package main

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/reglet-dev/portcfg/internal/application/dto"
	"github.com/reglet-dev/portcfg/internal/application/ports"
)

const inputsHeader = `# portcfg build inputs
# Validate with: portcfg resolve -f <this file>
`

// InitOptions holds the answers of the init wizard.
type InitOptions struct {
	Overrides          map[string]any
	Compiler           string
	Version            string
	DataModel          string
	OutputPath         string
	PointerWidth       int
	SleepGranularityUS int
	LargeFile          bool
	NoInteractive      bool
}

// InputsGenerator renders build inputs files.
type InputsGenerator struct {
	validator ports.RequestValidator
}

// NewInputsGenerator creates a generator that checks its output with
// validator before rendering.
func NewInputsGenerator(validator ports.RequestValidator) *InputsGenerator {
	return &InputsGenerator{validator: validator}
}

// Request builds the request the wizard answers describe.
func (g *InputsGenerator) Request(opts InitOptions) (*dto.ResolveRequest, error) {
	req := &dto.ResolveRequest{
		Overrides: opts.Overrides,
		Toolchain: dto.ToolchainInput{
			Compiler: opts.Compiler,
			Version:  opts.Version,
		},
		Target: dto.TargetInput{
			PointerWidth:     opts.PointerWidth,
			DataModel:        opts.DataModel,
			LargeFileOffsets: opts.LargeFile,
		},
		Host: dto.HostInput{SleepGranularityUS: opts.SleepGranularityUS},
	}
	if g.validator != nil {
		if err := g.validator.ValidateRequest(req); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// Generate renders the inputs file as YAML.
func (g *InputsGenerator) Generate(opts InitOptions) ([]byte, error) {
	req, err := g.Request(opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(inputsHeader)
	enc := yaml.NewEncoder(&buf, yaml.Indent(2))
	if err := enc.Encode(req); err != nil {
		return nil, fmt.Errorf("failed to encode inputs: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode inputs: %w", err)
	}
	return buf.Bytes(), nil
}
