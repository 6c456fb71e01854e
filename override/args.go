package override

import (
	"fmt"
	"io"
	"strings"

	"github.com/0xalexb/confme/schema"
	"github.com/0xalexb/confme/tree"

	"github.com/invopop/jsonschema"
	"github.com/spf13/pflag"
)

// Prefix introduces a configuration override on the command line.
const Prefix = "++"

const flagSetName = "Configuration Parameters"

// ErrHelp is returned, wrapped, when the arguments contain "++help". Callers
// typically print Usage in response.
var ErrHelp = pflag.ErrHelp

// FromArguments returns the overrides given in argv for the leaf paths of
// root. Accepted forms are "++path value" and "++path=value".
//
// Tokens without the prefix and options for unknown paths are ignored, so
// the embedding program is free to define its own arguments. Options given
// with an empty value are ignored too. The last occurrence of an option wins.
// A known option at the end of argv without a value is an error.
// "++help" is reported as ErrHelp.
func FromArguments(root *jsonschema.Schema, argv []string) (map[string]any, error) {
	paths := schema.Paths(root)
	flags := newFlagSet(paths)

	err := flags.Parse(selectOptions(argv))
	if err != nil {
		return nil, fmt.Errorf("parsing configuration arguments: %w", err)
	}

	overrides := make(map[string]any)

	for _, path := range paths {
		flag := flags.Lookup(path)
		if flag == nil || !flag.Changed {
			continue
		}

		value := flag.Value.String()
		if value == "" {
			continue
		}

		tree.Expand(overrides, schema.Split(path), value)
	}

	return overrides, nil
}

// Usage describes the command-line overrides accepted for root, in
// declaration order.
func Usage(root *jsonschema.Schema) string {
	flags := newFlagSet(schema.Paths(root))

	var builder strings.Builder

	builder.WriteString(flagSetName + ":\n")
	flags.VisitAll(func(flag *pflag.Flag) {
		fmt.Fprintf(&builder, "  %s%s %s\t%s\n", Prefix, flag.Name, flag.Value.Type(), flag.Usage)
	})

	return builder.String()
}

func newFlagSet(paths []string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(flagSetName, pflag.ContinueOnError)
	flags.SortFlags = false
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.SetOutput(io.Discard)

	for _, path := range paths {
		flags.String(path, "", "overrides "+path)
	}

	return flags
}

// selectOptions rewrites the "++" options of argv into the "--" form pflag
// understands and drops every other token. A value token starting with the
// prefix is never consumed, it starts the next option instead.
func selectOptions(argv []string) []string {
	selected := make([]string, 0, len(argv))

	for i := 0; i < len(argv); i++ {
		name, found := strings.CutPrefix(argv[i], Prefix)
		if !found || name == "" {
			continue
		}

		selected = append(selected, "--"+name)

		if strings.Contains(name, "=") {
			continue
		}

		if i+1 < len(argv) && !strings.HasPrefix(argv[i+1], Prefix) {
			selected = append(selected, argv[i+1])
			i++
		}
	}

	return selected
}
