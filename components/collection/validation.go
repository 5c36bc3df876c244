package collection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// DraftValidator validates draft fields against a resource's schema.
type DraftValidator interface {
	Validate(desc ResourceDescriptor, fields map[string]any) error
}

// ValidationError reports the draft fields that blocked submission. It is
// raised before any network call is made.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("collection: missing required fields: %s", strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("collection: invalid draft: %s", e.Reason)
}

// requiredViolations returns the descriptor's required fields that are empty
// in the draft, in descriptor order.
func requiredViolations(desc ResourceDescriptor, fields map[string]any) []string {
	var missing []string
	for _, key := range desc.RequiredFields {
		if emptyField(fields[key]) {
			missing = append(missing, key)
		}
	}
	return missing
}

func emptyField(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(value) == ""
	case []any:
		return len(value) == 0
	case []string:
		return len(value) == 0
	case map[string]any:
		return len(value) == 0
	}
	return false
}

// SchemaValidator compiles per-resource JSON Schemas and validates draft
// payloads against them. Compiled schemas are cached by resource code.
type SchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewSchemaValidator builds a validator backed by jsonschema v5.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures the draft satisfies the resource schema. Resources
// without a schema always pass.
func (v *SchemaValidator) Validate(desc ResourceDescriptor, fields map[string]any) error {
	if len(desc.Schema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(desc)
	if err != nil {
		return err
	}
	var payload map[string]any
	if fields == nil {
		payload = map[string]any{}
	} else {
		data, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("collection: marshal draft for %s: %w", desc.Code, err)
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("collection: normalize draft for %s: %w", desc.Code, err)
		}
	}
	if err := schema.Validate(payload); err != nil {
		return &ValidationError{Reason: err.Error()}
	}
	return nil
}

func (v *SchemaValidator) schemaFor(desc ResourceDescriptor) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[desc.Code]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(desc.Schema)
	if err != nil {
		return nil, fmt.Errorf("collection: marshal schema %s: %w", desc.Code, err)
	}
	compiler := jsonschema.NewCompiler()
	name := desc.Code + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("collection: load schema %s: %w", desc.Code, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("collection: compile schema %s: %w", desc.Code, err)
	}
	v.mu.Lock()
	v.compiled[desc.Code] = compiled
	v.mu.Unlock()
	return compiled, nil
}

type noopDraftValidator struct{}

func (noopDraftValidator) Validate(ResourceDescriptor, map[string]any) error { return nil }
