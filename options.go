package confme

import (
	"log/slog"
	"os"
	"slices"

	"github.com/0xalexb/confme/config"
	"github.com/0xalexb/confme/logging"

	"github.com/go-playground/validator/v10"
)

// Options holds the settings of a load.
type Options struct {
	// Args are scanned for "++path value" overrides. Defaults to os.Args[1:].
	Args []string
	// Environ is scanned for overrides, secrets and the registry environment.
	// Defaults to os.Environ().
	Environ []string
	Logger  *slog.Logger
	// Log is the stderr logger setup of WithLogLevel and WithLogFormat.
	Log logging.LoggerConfig
	// Section selects a colon separated part of the file, e.g. "services:api".
	Section string
	// Defaults is a *T filling fields left zero by every source.
	Defaults any
	// Validator replaces the shared struct tag validator.
	Validator *validator.Validate
}

// Option defines a function type for applying load options.
type Option func(*Options)

// WithArgs sets the command-line arguments scanned for overrides.
func WithArgs(args ...string) Option {
	return func(opts *Options) {
		opts.Args = append([]string{}, args...)
	}
}

// WithEnviron sets the environment, in os.Environ "NAME=value" form.
func WithEnviron(environ ...string) Option {
	return func(opts *Options) {
		opts.Environ = append([]string{}, environ...)
	}
}

// WithLogger sets the logger for warnings and diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithLogLevel logs to stderr at the given level.
// Valid levels are: "debug", "info", "warn", "error".
// If invalid, defaults to "info".
func WithLogLevel(level string) Option {
	return func(opts *Options) {
		opts.Log.Level = level
		opts.Logger = logging.NewLogger(opts.Log, os.Stderr)
	}
}

// WithLogFormat logs to stderr in the given format, logging.FormatJSON
// (the default) or logging.FormatText.
func WithLogFormat(format string) Option {
	return func(opts *Options) {
		opts.Log.Format = format
		opts.Logger = logging.NewLogger(opts.Log, os.Stderr)
	}
}

// WithSection loads only the given part of the configuration file.
func WithSection(section string) Option {
	return func(opts *Options) {
		opts.Section = section
	}
}

// WithDefaults sets caller defaults. defaults must be a *T of the loaded type.
func WithDefaults(defaults any) Option {
	return func(opts *Options) {
		opts.Defaults = defaults
	}
}

// WithValidator replaces the struct tag validator.
func WithValidator(validate *validator.Validate) Option {
	return func(opts *Options) {
		opts.Validator = validate
	}
}

func newOptions(opts ...Option) *Options {
	var options Options

	for _, apply := range opts {
		apply(&options)
	}

	if options.Args == nil && len(os.Args) > 1 {
		options.Args = slices.Clone(os.Args[1:])
	}

	if options.Environ == nil {
		options.Environ = os.Environ()
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	return &options
}

func (o *Options) configOptions() []config.Option {
	opts := []config.Option{
		config.WithLogger(o.Logger),
		config.WithEnviron(o.Environ),
		config.WithDefaults(o.Defaults),
	}

	if o.Validator != nil {
		opts = append(opts, config.WithValidate(o.Validator))
	}

	return opts
}
