package cards

import (
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaFor derives an InputSchema from a struct type.
//
// Exported fields become schema fields named after their json tags.
// Pointer fields and fields tagged omitempty are optional; everything else
// is required. jsonschema struct tags carry the rest:
//
//	type WeatherInputs struct {
//		City string `json:"city" jsonschema:"description=City to look up"`
//		Unit string `json:"unit,omitempty" jsonschema:"enum=celsius,enum=fahrenheit,default=celsius"`
//	}
//
// Reflection covers type, description, enum, default and required. The
// Sensitive flag has no tag form; set it on the returned schema directly.
func SchemaFor[T any]() (InputSchema, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}
	var zero T
	schema := reflector.Reflect(&zero)
	if schema.Type != "object" {
		return nil, fmt.Errorf("schema source must be a struct, got %s", schema.Type)
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	out := make(InputSchema)
	if schema.Properties != nil {
		for el := schema.Properties.Oldest(); el != nil; el = el.Next() {
			prop := el.Value
			field := Field{
				Type:        prop.Type,
				Description: prop.Description,
				Required:    required[el.Key],
			}
			if len(prop.Enum) > 0 {
				field.Enum = append([]any(nil), prop.Enum...)
			}
			if prop.Default != nil {
				field.Default = prop.Default
				field.Required = false
			}
			out[el.Key] = field
		}
	}
	return out, nil
}

// MustSchemaFor is SchemaFor for package-level card definitions; it panics
// on error.
func MustSchemaFor[T any]() InputSchema {
	s, err := SchemaFor[T]()
	if err != nil {
		panic(err)
	}
	return s
}
