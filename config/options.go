package config

import (
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
)

// Options configures Provider and Construct.
type Options struct {
	// Logger receives parse failures and the "defaults applied" event.
	Logger *slog.Logger
	// Environ is resolved by fields carrying an `env` tag. Defaults to os.Environ().
	Environ []string
	// Defaults is a *T whose non-zero fields fill zero fields of the constructed value.
	Defaults any
	// Validate checks `validate` struct tags. Defaults to a shared instance keyed on yaml names.
	Validate *validator.Validate
	// Transforms run in order on the raw tree produced by Provider's parser.
	Transforms []Transform
}

// Option is a functional option for Provider and Construct.
type Option func(*Options)

// NewOptions applies opts over the defaults.
func NewOptions(opts ...Option) *Options {
	options := &Options{
		Logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	if options.Environ == nil {
		options.Environ = os.Environ()
	}

	if options.Validate == nil {
		options.Validate = defaultValidate()
	}

	return options
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithEnviron sets the environment used to resolve secret fields.
func WithEnviron(environ []string) Option {
	return func(o *Options) {
		o.Environ = environ
	}
}

// WithDefaults sets caller defaults. defaults must be a *T for the constructed T.
func WithDefaults(defaults any) Option {
	return func(o *Options) {
		o.Defaults = defaults
	}
}

// WithValidate replaces the struct tag validator.
func WithValidate(validate *validator.Validate) Option {
	return func(o *Options) {
		o.Validate = validate
	}
}

// WithTransform appends a raw tree transform.
func WithTransform(transform Transform) Option {
	return func(o *Options) {
		o.Transforms = append(o.Transforms, transform)
	}
}
