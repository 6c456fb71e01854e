package schema

import (
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
)

// FieldNameTag is the struct tag that names configuration fields.
const FieldNameTag = "yaml"

// Separator joins field names into dotted paths.
const Separator = "."

const maxRefDepth = 32

var refPrefixes = []string{"#/$defs/", "#/definitions/"}

// For reflects the schema of the configuration type T.
func For[T any]() *jsonschema.Schema {
	return Of(reflect.TypeFor[T]())
}

// Of reflects the schema of typ. Pointer types are dereferenced.
func Of(typ reflect.Type) *jsonschema.Schema {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	reflector := &jsonschema.Reflector{
		FieldNameTag:              FieldNameTag,
		AllowAdditionalProperties: true,
		Anonymous:                 true,
	}

	return reflector.ReflectFromType(typ)
}

// FieldName returns the configuration key of a struct field and whether the
// field takes part in configuration at all.
func FieldName(field reflect.StructField) (string, bool) {
	if !field.IsExported() {
		return "", false
	}

	tag := field.Tag.Get(FieldNameTag)
	if tag == "-" {
		return "", false
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}

	return name, true
}

// Inlined reports whether field is an embedded struct without a name of its
// own, whose fields belong to the enclosing struct.
func Inlined(field reflect.StructField) bool {
	if !field.Anonymous {
		return false
	}

	name, _, _ := strings.Cut(field.Tag.Get(FieldNameTag), ",")
	if name != "" {
		return false
	}

	typ := field.Type
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	return typ.Kind() == reflect.Struct
}

// Definitions returns the named definitions declared at the schema root.
func Definitions(root *jsonschema.Schema) jsonschema.Definitions {
	if root == nil || root.Definitions == nil {
		return jsonschema.Definitions{}
	}

	return root.Definitions
}

// Resolve follows `$ref` indirections until it reaches a node without a
// reference. Unknown references resolve to the referencing node itself.
func Resolve(node *jsonschema.Schema, defs jsonschema.Definitions) *jsonschema.Schema {
	resolved, _ := resolve(node, defs)

	return resolved
}

// resolve returns the dereferenced node and the name of the last definition
// followed, empty when node carried no reference.
func resolve(node *jsonschema.Schema, defs jsonschema.Definitions) (*jsonschema.Schema, string) {
	var name string

	for range maxRefDepth {
		if node == nil || node.Ref == "" {
			return node, name
		}

		refName, known := definitionName(node.Ref)
		if !known {
			return node, name
		}

		target, found := defs[refName]
		if !found {
			return node, name
		}

		node = target
		name = refName
	}

	return node, name
}

func definitionName(ref string) (string, bool) {
	for _, prefix := range refPrefixes {
		if name, found := strings.CutPrefix(ref, prefix); found {
			return name, true
		}
	}

	return "", false
}

// IsRecord reports whether node describes a record with declared fields.
func IsRecord(node *jsonschema.Schema) bool {
	return node != nil && node.Type == "object" && node.Properties != nil
}
