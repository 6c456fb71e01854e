package confme

import (
	"fmt"
	"log/slog"

	"github.com/0xalexb/confme/config"
	filefetcher "github.com/0xalexb/confme/config/fetcher/file"
	yamlparser "github.com/0xalexb/confme/config/parser/yaml"
	"github.com/0xalexb/confme/override"
	"github.com/0xalexb/confme/schema"
	"github.com/0xalexb/confme/tree"
)

// ErrUnsupportedExtension is returned by Load for files that are not YAML.
var ErrUnsupportedExtension = config.ErrUnsupportedExtension

// ErrHelp is returned when the arguments ask for "++help". See Usage.
var ErrHelp = override.ErrHelp

// Load reads the YAML file at path into a new T.
//
// Values are layered in increasing precedence: the file, environment
// variables named after a field path (case-insensitive), then "++path value"
// arguments. %(here)s in string values is replaced by the file's directory.
// The merged tree is then decoded and validated, see config.Construct.
func Load[T any](path string, opts ...Option) (*T, error) {
	options := newOptions(opts...)

	parser, err := config.ParserFor(path, yamlparser.NewParser())
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}

	fetcher, err := filefetcher.NewFetcher(path)()
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}

	logger := options.Logger.With(slog.String("path", fetcher.Path()))
	configOptions := append(options.configOptions(),
		config.WithLogger(logger),
		config.WithTransform(config.Interpolation(fetcher.Dir())),
		config.WithTransform(func(raw map[string]any) (map[string]any, error) {
			return applyOverrides[T](raw, options)
		}),
	)

	cfg, err := config.Provider[T](options.Section, configOptions...)(parser, fetcher)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}

	return cfg, nil
}

// LoadFromMap builds a T from an in-memory tree, applying the same
// environment and argument overrides as Load. raw is not modified.
func LoadFromMap[T any](raw map[string]any, opts ...Option) (*T, error) {
	options := newOptions(opts...)

	merged, err := applyOverrides[T](tree.Clone(raw), options)
	if err != nil {
		return nil, err
	}

	return config.Construct[T](merged, options.configOptions()...)
}

// Usage describes the "++path" arguments accepted for T.
func Usage[T any]() string {
	return override.Usage(schema.For[T]())
}

func applyOverrides[T any](raw map[string]any, options *Options) (map[string]any, error) {
	root := schema.For[T]()

	fromEnvironment := override.FromEnvironment(root, options.Environ)

	fromArguments, err := override.FromArguments(root, options.Args)
	if err != nil {
		return nil, fmt.Errorf("reading argument overrides: %w", err)
	}

	options.Logger.Debug("configuration overrides found",
		slog.Int("environment", countLeaves(fromEnvironment)),
		slog.Int("arguments", countLeaves(fromArguments)),
	)

	merged := tree.Merge(raw, fromEnvironment)

	return tree.Merge(merged, fromArguments), nil
}

func countLeaves(t map[string]any) int {
	count := 0

	for _, value := range t {
		if child, ok := value.(map[string]any); ok {
			count += countLeaves(child)

			continue
		}

		count++
	}

	return count
}
