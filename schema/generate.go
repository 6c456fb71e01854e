package schema

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/invopop/jsonschema"
)

// ErrNoGenerator is returned when no handler applies to a schema node.
var ErrNoGenerator = errors.New("no generator applies to schema node")

// Sample values produced for primitive nodes.
const (
	SampleString  = "example"
	SampleInteger = 42
	SampleNumber  = 42.42
	SampleBoolean = true
)

const (
	sampleListLength = 3
	sampleMapKey1    = "value1"
	sampleMapKey2    = "value2"
)

// Traverse generates the example value of a child node.
type Traverse func(node *jsonschema.Schema) (any, error)

// Handler generates example values for one kind of schema node.
type Handler struct {
	Name     string
	Applies  func(node *jsonschema.Schema) bool
	Generate func(node *jsonschema.Schema, defs jsonschema.Definitions, traverse Traverse) (any, error)
}

// Generator synthesizes example values by dispatching every node to the
// first applicable handler.
type Generator struct {
	handlers []Handler
}

// NewGenerator returns a Generator using handlers in the given order, or
// DefaultHandlers when none are given.
func NewGenerator(handlers ...Handler) *Generator {
	if len(handlers) == 0 {
		handlers = DefaultHandlers()
	}

	return &Generator{handlers: handlers}
}

// Generate returns an example value for root using the default handlers.
func Generate(root *jsonschema.Schema) (any, error) {
	return NewGenerator().Generate(root)
}

// Generate returns an example value for root. Records become yaml.MapSlice
// values so that field order survives serialization.
func (g *Generator) Generate(root *jsonschema.Schema) (any, error) {
	run := &generation{
		handlers: g.handlers,
		defs:     Definitions(root),
		visiting: make(map[string]bool),
	}

	return run.traverse(root)
}

type generation struct {
	handlers []Handler
	defs     jsonschema.Definitions
	visiting map[string]bool
}

func (g *generation) traverse(node *jsonschema.Schema) (any, error) {
	if node == nil {
		return nil, fmt.Errorf("%w: <nil>", ErrNoGenerator)
	}

	// a definition already being expanded above this node is emitted as null
	if name, known := definitionName(node.Ref); known {
		if g.visiting[name] {
			return nil, nil //nolint:nilnil // null is the example for a recursive reference
		}

		g.visiting[name] = true
		defer delete(g.visiting, name)
	}

	for _, handler := range g.handlers {
		if handler.Applies(node) {
			return handler.Generate(node, g.defs, g.traverse)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNoGenerator, describe(node))
}

// DefaultHandlers returns the built-in handlers. Order matters: references
// are resolved first, then composites, arrays, records, maps, primitives and
// finally enumerations.
func DefaultHandlers() []Handler {
	return []Handler{
		{Name: "ref", Applies: isRef, Generate: generateRef},
		{Name: "composite", Applies: isComposite, Generate: generateComposite},
		{Name: "array", Applies: isArray, Generate: generateArray},
		{Name: "object", Applies: IsRecord, Generate: generateObject},
		{Name: "map", Applies: isMap, Generate: generateMap},
		{Name: "primitive", Applies: isPrimitive, Generate: generatePrimitive},
		{Name: "enum", Applies: isEnum, Generate: generateEnum},
	}
}

func isRef(node *jsonschema.Schema) bool {
	return node.Ref != ""
}

func generateRef(node *jsonschema.Schema, defs jsonschema.Definitions, traverse Traverse) (any, error) {
	name, known := definitionName(node.Ref)
	if !known {
		return nil, fmt.Errorf("%w: unsupported reference %q", ErrNoGenerator, node.Ref)
	}

	target, found := defs[name]
	if !found {
		return nil, fmt.Errorf("%w: unknown definition %q", ErrNoGenerator, name)
	}

	return traverse(target)
}

func isComposite(node *jsonschema.Schema) bool {
	return len(node.AllOf) > 0 || len(node.AnyOf) > 0 || len(node.OneOf) > 0
}

// generateComposite only looks at the first branch of the composite.
func generateComposite(node *jsonschema.Schema, _ jsonschema.Definitions, traverse Traverse) (any, error) {
	switch {
	case len(node.AllOf) > 0:
		return traverse(node.AllOf[0])
	case len(node.AnyOf) > 0:
		return traverse(node.AnyOf[0])
	default:
		return traverse(node.OneOf[0])
	}
}

func isArray(node *jsonschema.Schema) bool {
	return node.Type == "array" && node.Items != nil
}

func generateArray(node *jsonschema.Schema, _ jsonschema.Definitions, traverse Traverse) (any, error) {
	element, err := traverse(node.Items)
	if err != nil {
		return nil, err
	}

	out := make([]any, sampleListLength)
	for i := range out {
		out[i] = element
	}

	return out, nil
}

func generateObject(node *jsonschema.Schema, _ jsonschema.Definitions, traverse Traverse) (any, error) {
	out := make(yaml.MapSlice, 0, node.Properties.Len())

	for pair := node.Properties.Oldest(); pair != nil; pair = pair.Next() {
		value, err := traverse(pair.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", pair.Key, err)
		}

		out = append(out, yaml.MapItem{Key: pair.Key, Value: value})
	}

	return out, nil
}

func isMap(node *jsonschema.Schema) bool {
	return node.Type == "object" && node.Properties == nil
}

// generateMap emits an empty mapping for free-form maps without a value schema.
func generateMap(node *jsonschema.Schema, _ jsonschema.Definitions, traverse Traverse) (any, error) {
	if node.AdditionalProperties == nil {
		return yaml.MapSlice{}, nil
	}

	value, err := traverse(node.AdditionalProperties)
	if err != nil {
		return nil, err
	}

	return yaml.MapSlice{
		{Key: sampleMapKey1, Value: value},
		{Key: sampleMapKey2, Value: value},
	}, nil
}

func isPrimitive(node *jsonschema.Schema) bool {
	if len(node.Enum) > 0 {
		return false
	}

	_, known := primitiveSample(node.Type)

	return known
}

func generatePrimitive(node *jsonschema.Schema, _ jsonschema.Definitions, _ Traverse) (any, error) {
	value, _ := primitiveSample(node.Type)

	return value, nil
}

func primitiveSample(typ string) (any, bool) {
	switch typ {
	case "string":
		return SampleString, true
	case "integer":
		return SampleInteger, true
	case "number":
		return SampleNumber, true
	case "boolean":
		return SampleBoolean, true
	default:
		return nil, false
	}
}

func isEnum(node *jsonschema.Schema) bool {
	return len(node.Enum) > 0
}

func generateEnum(node *jsonschema.Schema, _ jsonschema.Definitions, _ Traverse) (any, error) {
	return node.Enum[0], nil
}

func describe(node *jsonschema.Schema) string {
	data, err := json.Marshal(node)
	if err != nil {
		return fmt.Sprintf("%+v", *node)
	}

	return string(data)
}
