package confme_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/0xalexb/confme"

	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/require"
)

type AnyEnum string

func (AnyEnum) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Enum: []any{"value1", "value2"}}
}

type ChildNode struct {
	TestStr      string   `yaml:"testStr"`
	TestInt      int      `yaml:"testInt"`
	TestFloat    float64  `yaml:"testFloat"`
	TestOptional *float64 `yaml:"testOptional,omitempty"`
	Password     string   `yaml:"password" env:"highSecure"`
	AnyEnum      AnyEnum  `yaml:"anyEnum" validate:"oneof=value1 value2"`
}

type RootConfig struct {
	RootValue  int       `yaml:"rootValue"`
	RangeValue int       `yaml:"rangeValue" validate:"gte=4,lte=6"`
	ChildNode  ChildNode `yaml:"childNode"`
}

type FlatConfig struct {
	OneValue int    `yaml:"oneValue"`
	TwoValue string `yaml:"twoValue"`
}

const rootConfigYAML = `rootValue: 1
rangeValue: 5
childNode:
  testStr: "Das ist ein Test"
  testInt: 42
  testFloat: 42.42
  anyEnum: value2
`

// isolated keeps the process arguments and environment out of a load.
func isolated(opts ...confme.Option) []confme.Option {
	return append([]confme.Option{confme.WithArgs(), confme.WithEnviron()}, opts...)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)

	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)

	return path
}
