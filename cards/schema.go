package cards

import (
	"fmt"
	"sort"
	"strings"
)

// JSON Schema type names used by Field.Type. Transport adapters copy these
// through to derived descriptors unchanged.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Field declares one named input a card or action accepts.
type Field struct {
	// Type is the JSON Schema type name (see the Type* constants).
	Type string

	// Description is surfaced to hosts in derived call descriptors.
	Description string

	// Required marks the field as mandatory. A field that also carries a
	// Default never fails resolution and is not advertised as required.
	Required bool

	// Default is substituted when the caller omits the field.
	Default any

	// Enum restricts the accepted values, surfaced to hosts verbatim.
	Enum []any

	// Sensitive values are digest-substituted in reversible instance
	// encodings. They still participate in identity hashing.
	Sensitive bool
}

// InputSchema declares the named inputs of a card or action.
type InputSchema map[string]Field

// Resolve applies defaults and validates required fields, returning the
// resolved input set. Keys not declared in the schema pass through
// untouched. Missing required fields are collected and reported together in
// one *ValidationError rather than one at a time.
func (s InputSchema) Resolve(raw map[string]any) (map[string]any, error) {
	resolved := make(map[string]any, len(raw)+len(s))
	for k, v := range raw {
		resolved[k] = v
	}

	var missing []string
	for name, field := range s {
		if _, ok := resolved[name]; ok {
			continue
		}
		if field.Default != nil {
			resolved[name] = field.Default
			continue
		}
		if field.Required {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &ValidationError{Missing: missing}
	}
	return resolved, nil
}

// RequiredFields returns the names of fields that can fail resolution, in
// sorted order. Fields with defaults are excluded.
func (s InputSchema) RequiredFields() []string {
	var req []string
	for name, f := range s {
		if f.Required && f.Default == nil {
			req = append(req, name)
		}
	}
	sort.Strings(req)
	return req
}

// ValidationError reports inputs that failed schema resolution.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required inputs: %s", strings.Join(e.Missing, ", "))
}
