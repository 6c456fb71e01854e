package confme

import (
	"errors"
	"log/slog"

	"go.uber.org/fx"
)

// ErrEmptyName is returned when a module name is empty.
var ErrEmptyName = errors.New("module name must not be empty")

// ProviderParams are the optional dependencies of Provider.
type ProviderParams struct {
	fx.In

	Logger *slog.Logger `optional:"true"`
}

// Provider returns an Fx constructor loading T from path.
// A *slog.Logger in the container is used unless opts set a logger.
func Provider[T any](path string, opts ...Option) func(ProviderParams) (*T, error) {
	return func(params ProviderParams) (*T, error) {
		var loadOpts []Option

		if params.Logger != nil {
			loadOpts = append(loadOpts, WithLogger(params.Logger))
		}

		return Load[T](path, append(loadOpts, opts...)...)
	}
}

// Module creates an Fx module providing *T loaded from path.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func Module[T any](name, path string, opts ...Option) fx.Option {
	if name == "" {
		return fx.Error(ErrEmptyName)
	}

	return fx.Module(name, fx.Provide(Provider[T](path, opts...)))
}

// RegistryModule creates an Fx module providing the registry and the
// configuration of the current environment.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func RegistryModule[T any](name string, registry *Registry[T]) fx.Option {
	if name == "" {
		return fx.Error(ErrEmptyName)
	}

	return fx.Module(name,
		fx.Supply(registry),
		fx.Provide(registry.Get),
	)
}
