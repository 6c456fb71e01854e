// Package schema describes configuration types as JSON Schema trees and
// walks those trees.
//
// Schemas are reflected from Go struct types with github.com/invopop/jsonschema.
// Field names come from the `yaml` struct tag, falling back to the Go field
// name, so that schema paths, YAML keys and decoding agree. Nested named
// struct types are stored once under `$defs` and referenced with `$ref`.
//
// Flatten lists the dotted leaf paths of a schema in declaration order.
// Generate synthesizes a representative example value for a schema, which
// is used to print example configuration files.
//
// Enumerations are declared by giving the type a JSONSchema method:
//
//	type Level string
//
//	func (Level) JSONSchema() *jsonschema.Schema {
//	    return &jsonschema.Schema{Enum: []any{"debug", "info"}}
//	}
package schema
