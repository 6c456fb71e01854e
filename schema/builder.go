package schema

import (
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Property is a named field of a hand-built record schema.
type Property struct {
	Name   string
	Schema *jsonschema.Schema
}

// Object builds a record schema whose fields keep the order given.
// It describes configurations that have no Go struct, e.g. plugin settings
// known only at runtime.
func Object(properties ...Property) *jsonschema.Schema {
	ordered := orderedmap.New[string, *jsonschema.Schema](orderedmap.WithCapacity[string, *jsonschema.Schema](len(properties)))

	for _, property := range properties {
		ordered.Set(property.Name, property.Schema)
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: ordered,
	}
}

// Leaf builds a schema for a value of the given JSON type, such as "string"
// or "integer".
func Leaf(typ string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: typ}
}
