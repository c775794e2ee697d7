package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/reglet-dev/portcfg/internal/application/dto"
	santhosh "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaResource = "portcfg-inputs.schema.json"

// GenerateSchema reflects the build-input DTO into a JSON Schema
// (Draft 2020-12).
func GenerateSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true, // Expand struct definitions inline
		Anonymous:      true, // No package-derived $id
	}
	schema := reflector.Reflect(&dto.ResolveRequest{})
	schema.Title = "portcfg build inputs"

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return jsonBytes, nil
}

var compiledSchema = sync.OnceValues(func() (*santhosh.Schema, error) {
	schemaBytes, err := GenerateSchema()
	if err != nil {
		return nil, err
	}

	compiler := santhosh.NewCompiler()
	compiler.Draft = santhosh.Draft2020

	if err := compiler.AddResource(schemaResource, bytes.NewReader(schemaBytes)); err != nil {
		return nil, fmt.Errorf("failed to add inputs schema resource: %w", err)
	}

	schema, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile inputs schema: %w", err)
	}
	return schema, nil
})

func validateDocument(schema *santhosh.Schema, doc any) error {
	if err := schema.Validate(doc); err != nil {
		var validationErr *santhosh.ValidationError
		if errors.As(err, &validationErr) {
			return formatSchemaValidationError(validationErr)
		}
		return fmt.Errorf("inputs validation failed: %w", err)
	}
	return nil
}

// formatSchemaValidationError formats a JSON Schema validation error into a readable message.
func formatSchemaValidationError(err *santhosh.ValidationError) error {
	var messages []string

	var collectErrors func(*santhosh.ValidationError)
	collectErrors = func(e *santhosh.ValidationError) {
		if e.Message != "" {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}
		for _, cause := range e.Causes {
			collectErrors(cause)
		}
	}

	collectErrors(err)

	if len(messages) == 0 {
		return fmt.Errorf("inputs validation failed")
	}

	return fmt.Errorf("inputs validation failed:\n    - %s", strings.Join(messages, "\n    - "))
}
