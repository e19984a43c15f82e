// Package validation checks inbound request payloads against JSON schemas
// before they reach the service layer.
package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "paygo-hire/internal/common/errors"
)

// Validator holds compiled schemas keyed by payload name.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// New compiles the given schema documents. Schema values are plain Go maps
// in JSON Schema shape.
func New(schemas map[string]map[string]interface{}) (*Validator, error) {
	compiled := make(map[string]*gojsonschema.Schema, len(schemas))
	for name, doc := range schemas {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		compiled[name] = schema
	}
	return &Validator{schemas: compiled}, nil
}

// ValidateJSON checks raw JSON against the named schema and returns a
// VALIDATION_FAILED error listing each violated field.
func (v *Validator) ValidateJSON(name string, raw []byte) error {
	schema, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("no schema registered for %s", name)
	}

	if !json.Valid(raw) {
		return apperrors.NewValidationFailedError("body is not valid JSON")
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return apperrors.NewValidationFailedError(err.Error())
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return apperrors.NewValidationFailedError(strings.Join(problems, "; "))
}
