package confme

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/0xalexb/confme/override"

	"golang.org/x/text/cases"
)

var (
	// ErrNotRegistered is returned by Get before RegisterFolder succeeded.
	ErrNotRegistered = errors.New("no configuration folder registered")
	// ErrNoEnvironment is returned when no environment variable names the environment and no default is set.
	ErrNoEnvironment = errors.New("no environment set, set one of ENV, ENVIRONMENT, ENVIRON or STAGE")
	// ErrNoConfigFound is returned when no file in the folder matches the environment.
	ErrNoConfigFound = errors.New("no configuration file found")
	// ErrNotDirectory is returned by RegisterFolder for paths that are not directories.
	ErrNotDirectory = errors.New("not a directory")
)

// EnvironmentVariables lists, by priority, the variables naming the current environment.
// They are matched case-insensitively.
//
//nolint:gochecknoglobals // fixed lookup list.
var EnvironmentVariables = []string{"env", "environment", "environ", "stage"}

// FolderOptions configures how a registered folder is searched.
type FolderOptions struct {
	// DefaultEnvironment is used when none of EnvironmentVariables is set.
	DefaultEnvironment string
	// Strict requires the file name or its stem to equal the environment.
	// Otherwise any file name containing the environment matches.
	Strict bool
}

// FolderOption defines a function type for applying folder options.
type FolderOption func(*FolderOptions)

// WithDefaultEnvironment sets the environment used when no variable names one.
func WithDefaultEnvironment(name string) FolderOption {
	return func(opts *FolderOptions) {
		opts.DefaultEnvironment = name
	}
}

// WithStrict enables exact file name matching.
func WithStrict() FolderOption {
	return func(opts *FolderOptions) {
		opts.Strict = true
	}
}

// Registry selects a configuration file from a folder by the current
// environment and caches the loaded value per environment.
//
// A Registry is safe for concurrent use. Loads are serialized.
type Registry[T any] struct {
	mu         sync.Mutex
	opts       []Option
	folder     string
	folderOpts FolderOptions
	cache      map[string]*T
}

// NewRegistry creates an empty registry. opts apply to every load.
func NewRegistry[T any](opts ...Option) *Registry[T] {
	return &Registry[T]{
		opts: opts,
	}
}

// RegisterFolder points the registry at dir and clears the cache.
func (r *Registry[T]) RegisterFolder(dir string, opts ...FolderOption) error {
	stat, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("registering folder %q: %w", dir, err)
	}

	if !stat.IsDir() {
		return fmt.Errorf("registering folder %q: %w", dir, ErrNotDirectory)
	}

	var folderOpts FolderOptions

	for _, apply := range opts {
		apply(&folderOpts)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.folder = filepath.Clean(dir)
	r.folderOpts = folderOpts
	r.cache = make(map[string]*T)

	return nil
}

// Environment returns the current environment name, case-folded.
func (r *Registry[T]) Environment() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.environment(newOptions(r.opts...))
}

// Get returns the configuration of the current environment, loading it on first use.
// Repeated calls for the same environment return the same pointer.
func (r *Registry[T]) Get() (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cache == nil {
		return nil, ErrNotRegistered
	}

	options := newOptions(r.opts...)

	environment, err := r.environment(options)
	if err != nil {
		return nil, err
	}

	cfg, cached := r.cache[environment]
	if cached {
		return cfg, nil
	}

	path, err := r.selectFile(environment, options.Logger)
	if err != nil {
		return nil, err
	}

	cfg, err = Load[T](path, r.opts...)
	if err != nil {
		return nil, err
	}

	r.cache[environment] = cfg

	return cfg, nil
}

func (r *Registry[T]) environment(options *Options) (string, error) {
	var (
		environment string
		found       []string
	)

	for _, name := range EnvironmentVariables {
		value, ok := override.Lookup(options.Environ, name)
		if !ok || value == "" {
			continue
		}

		if len(found) == 0 {
			environment = value
		}

		found = append(found, name)
	}

	if len(found) > 1 {
		options.Logger.Warn("more than one environment variable set",
			slog.Any("variables", found), slog.String("using", found[0]))
	}

	if environment == "" {
		environment = r.folderOpts.DefaultEnvironment
	}

	if environment == "" {
		return "", ErrNoEnvironment
	}

	return fold(environment), nil
}

func (r *Registry[T]) selectFile(environment string, logger *slog.Logger) (string, error) {
	entries, err := os.ReadDir(r.folder)
	if err != nil {
		return "", fmt.Errorf("listing folder %q: %w", r.folder, err)
	}

	var (
		names      []string
		candidates []string
	)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		names = append(names, entry.Name())

		if matches(entry.Name(), environment, r.folderOpts.Strict) {
			candidates = append(candidates, entry.Name())
		}
	}

	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("%w: environment %q in folder %q, files: [%s]",
			ErrNoConfigFound, environment, r.folder, strings.Join(names, ", "))
	case 1:
	default:
		logger.Warn("multiple configuration files match the environment",
			slog.String("environment", environment),
			slog.Any("candidates", candidates),
			slog.String("using", candidates[0]))
	}

	return filepath.Join(r.folder, candidates[0]), nil
}

func matches(fileName, environment string, strict bool) bool {
	name := fold(fileName)
	if !strict {
		return strings.Contains(name, environment)
	}

	return name == environment || strings.TrimSuffix(name, filepath.Ext(name)) == environment
}

func fold(s string) string {
	return cases.Fold().String(s)
}
