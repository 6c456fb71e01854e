package confme

import (
	"fmt"
	"io"

	"github.com/0xalexb/confme/schema"

	"github.com/goccy/go-yaml"
)

// WriteExample writes an example YAML configuration for T to w.
// Fields appear in declaration order with a sample value per type,
// enumerations show their first member.
func WriteExample[T any](w io.Writer) error {
	example, err := schema.Generate(schema.For[T]())
	if err != nil {
		return fmt.Errorf("generating example: %w", err)
	}

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("marshaling example: %w", err)
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing example: %w", err)
	}

	return nil
}
