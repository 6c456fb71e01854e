package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
)

// ErrUnsupportedExtension is returned when no parser handles the extension of a configuration file.
var ErrUnsupportedExtension = errors.New("unsupported file extension")

// Parser defines an interface for parsing configuration data into a raw tree.
//
// The section parameter specifies a navigation path within the configuration data
// using colon (:) as the separator for nested keys. For example:
//   - "api:permissions" navigates to config["api"]["permissions"]
//   - "database:connection:timeout" navigates three levels deep
//   - "" (empty section) means parse the entire document
//
// The returned tree is a mapping at the root with string keys at every level.
// Parser implementations are responsible for section navigation internally.
// See config/parser/yaml for an example using goccy/go-yaml PathString.
type Parser interface {
	Parse(data []byte, section string) (map[string]any, error)
	// Extensions lists the lower-case file extensions, dot included, the parser handles.
	Extensions() []string
}

// DataFetcher defines an interface for reading configuration data.
type DataFetcher interface {
	Fetch() ([]byte, error)
}

// Validator defines an interface for validating configuration structures.
type Validator interface {
	Validate() error
}

// Defaulter defines an interface for setting default values in configuration structures.
type Defaulter interface {
	SetDefaults() (changed bool)
}

// Transform rewrites the raw tree between parsing and construction.
type Transform func(raw map[string]any) (map[string]any, error)

// ParserFor returns the first parser that handles the extension of path.
func ParserFor(path string, parsers ...Parser) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))

	for _, parser := range parsers {
		if slices.Contains(parser.Extensions(), ext) {
			return parser, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext)
}

// Provider returns a function that reads, parses, transforms, and constructs configuration data.
func Provider[T any](section string, opts ...Option) func(Parser, DataFetcher) (*T, error) {
	return func(parser Parser, dataSourcer DataFetcher) (*T, error) {
		options := NewOptions(opts...)

		data, err := dataSourcer.Fetch()
		if err != nil {
			return nil, fmt.Errorf("reading data error: %w", err)
		}

		raw, err := parser.Parse(data, section)
		if err != nil {
			options.Logger.Error("parsing configuration failed",
				slog.String("section", section), slog.Any("error", err))

			return nil, fmt.Errorf("parsing error: %w", err)
		}

		for _, transform := range options.Transforms {
			raw, err = transform(raw)
			if err != nil {
				return nil, fmt.Errorf("transforming error: %w", err)
			}
		}

		return Construct[T](raw, opts...)
	}
}
