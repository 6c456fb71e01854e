package schema

import (
	"slices"
	"strings"

	"github.com/0xalexb/confme/tree"

	"github.com/invopop/jsonschema"
)

type flattener struct {
	defs     jsonschema.Definitions
	source   map[string]any
	visiting map[string]bool
	paths    []string
	values   []any
}

// Flatten returns the dotted paths of all leaf fields of root, depth first in
// declaration order. Records reached through `$ref` are expanded, every other
// node is a leaf. A root that is not a record yields no paths.
//
// When values is non-nil the second result holds, for every path, the value
// found at that path in values or nil when absent. Otherwise it is nil.
//
// A definition that references itself, directly or indirectly, is expanded
// once and treated as a leaf when reached again.
func Flatten(root *jsonschema.Schema, values map[string]any) ([]string, []any) {
	walker := &flattener{
		defs:     Definitions(root),
		source:   values,
		visiting: make(map[string]bool),
	}

	walker.walk(root, nil)

	return walker.paths, walker.values
}

// Paths is Flatten without values.
func Paths(root *jsonschema.Schema) []string {
	paths, _ := Flatten(root, nil)

	return paths
}

// Split breaks a dotted path into its segments.
func Split(path string) []string {
	return strings.Split(path, Separator)
}

func (f *flattener) walk(node *jsonschema.Schema, prefix []string) {
	record, name := resolve(node, f.defs)
	if !IsRecord(record) {
		return
	}

	if name != "" {
		f.visiting[name] = true
		defer delete(f.visiting, name)
	}

	for pair := record.Properties.Oldest(); pair != nil; pair = pair.Next() {
		segments := append(slices.Clone(prefix), pair.Key)

		child, childName := resolve(pair.Value, f.defs)
		if IsRecord(child) && (childName == "" || !f.visiting[childName]) {
			f.walk(pair.Value, segments)

			continue
		}

		f.emit(segments)
	}
}

func (f *flattener) emit(segments []string) {
	f.paths = append(f.paths, strings.Join(segments, Separator))

	if f.source == nil {
		return
	}

	value, _ := tree.Lookup(f.source, segments)
	f.values = append(f.values, value)
}
