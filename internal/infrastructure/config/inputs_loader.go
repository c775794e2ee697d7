// Package config provides infrastructure for loading build inputs.
// This package handles YAML parsing, file I/O and validation against the
// build-input schema.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/reglet-dev/portcfg/internal/application/dto"
)

// InputsLoader handles loading build inputs from YAML files.
type InputsLoader struct {
	// SkipSchemaValidation decodes without checking the schema first.
	SkipSchemaValidation bool
}

// NewInputsLoader creates a new inputs loader.
func NewInputsLoader() *InputsLoader {
	return &InputsLoader{}
}

// Load loads and parses build inputs from a YAML file.
func (l *InputsLoader) Load(ctx context.Context, path string) (*dto.ResolveRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Security: Use os.OpenRoot to prevent path traversal attacks
	root, err := os.OpenRoot(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open inputs directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	file, err := root.Open(filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open inputs: %w", err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	req, err := l.LoadFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	req.Metadata.Source = path
	return req, nil
}

// LoadFromReader loads build inputs from an io.Reader.
func (l *InputsLoader) LoadFromReader(r io.Reader) (*dto.ResolveRequest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read inputs: %w", err)
	}

	if !l.SkipSchemaValidation {
		if err := validateAgainstSchema(data); err != nil {
			return nil, err
		}
	}

	var req dto.ResolveRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to decode inputs YAML: %w", err)
	}
	return &req, nil
}

func validateAgainstSchema(data []byte) error {
	jsonBytes, err := yaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("failed to decode inputs YAML: %w", err)
	}

	var doc any
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return fmt.Errorf("failed to decode inputs YAML: %w", err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	return validateDocument(schema, doc)
}
