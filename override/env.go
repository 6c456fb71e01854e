package override

import (
	"strings"

	"github.com/0xalexb/confme/schema"
	"github.com/0xalexb/confme/tree"

	"github.com/invopop/jsonschema"
	"golang.org/x/text/cases"
)

// FromEnvironment returns the overrides found in environ, given in
// os.Environ "NAME=value" form, for the leaf paths of root.
//
// Names are compared case-folded. The tree is keyed by the path as declared
// in the schema. When several variables fold to the same name the first one
// in environ wins.
func FromEnvironment(root *jsonschema.Schema, environ []string) map[string]any {
	lookup := foldEnviron(environ)
	overrides := make(map[string]any)

	for _, path := range schema.Paths(root) {
		value, found := lookup[fold(path)]
		if !found {
			continue
		}

		tree.Expand(overrides, schema.Split(path), value)
	}

	return overrides
}

// Lookup returns the value of the first variable in environ whose name folds
// to the same string as name.
func Lookup(environ []string, name string) (string, bool) {
	folded := fold(name)

	for _, entry := range environ {
		key, value, found := strings.Cut(entry, "=")
		if found && key != "" && fold(key) == folded {
			return value, true
		}
	}

	return "", false
}

func foldEnviron(environ []string) map[string]string {
	lookup := make(map[string]string, len(environ))

	for _, entry := range environ {
		key, value, found := strings.Cut(entry, "=")
		if !found || key == "" {
			continue
		}

		folded := fold(key)
		if _, exists := lookup[folded]; exists {
			continue
		}

		lookup[folded] = value
	}

	return lookup
}

func fold(s string) string {
	return cases.Fold().String(s)
}
