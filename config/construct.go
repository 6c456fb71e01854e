package config

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/0xalexb/confme/schema"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// ErrDefaultsType is returned when the defaults passed to Construct are not a *T.
var ErrDefaultsType = errors.New("defaults type mismatch")

var defaultValidate = sync.OnceValue(NewValidate)

// Construct builds a *T from a raw tree.
//
// The steps, in order:
//   - the tree is decoded with weak typing, so "22" fills an int field
//   - fields tagged `env:"NAME"` whose key is missing from the tree are resolved from the environment
//   - fields whose key is missing from the tree are filled from the caller defaults
//   - Defaulter.SetDefaults runs
//   - `validate` struct tags are checked
//   - Validator.Validate runs
//
// A key present in the tree wins over secrets and defaults even when its
// value is false, 0 or empty.
//
// Validation errors are wrapped, use errors.As to reach validator.ValidationErrors.
func Construct[T any](raw map[string]any, opts ...Option) (*T, error) {
	options := NewOptions(opts...)
	target := new(T)

	err := DecodeValue(raw, target)
	if err != nil {
		return nil, fmt.Errorf("decoding error: %w", err)
	}

	isStruct := reflect.TypeFor[T]().Kind() == reflect.Struct

	if isStruct {
		err = applySecrets(target, raw, options.Environ)
		if err != nil {
			return nil, err
		}
	}

	err = applyDefaults(target, raw, options.Defaults)
	if err != nil {
		return nil, err
	}

	targetDefaulter, isDefaulter := any(target).(Defaulter)
	if isDefaulter {
		changed := targetDefaulter.SetDefaults()
		if changed {
			options.Logger.Info("defaults applied", slog.String("type", reflect.TypeFor[T]().String()))
		}
	}

	if isStruct {
		err = options.Validate.Struct(target)
		if err != nil {
			return nil, fmt.Errorf("validating error: %w", err)
		}
	}

	targetValidatable, isValidatable := any(target).(Validator)
	if isValidatable {
		err := targetValidatable.Validate()
		if err != nil {
			return nil, fmt.Errorf("validating error: %w", err)
		}
	}

	return target, nil
}

// DecodeValue converts value into target, which must be a pointer.
// Strings are weakly converted to numbers, booleans and durations.
// Types implementing encoding.TextUnmarshaler are decoded from strings.
// Embedded structs are inlined, matching their schema.
func DecodeValue(value, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		WeaklyTypedInput: true,
		Result:           target,
		Squash:           true,
		TagName:          schema.FieldNameTag,
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}

	err = decoder.Decode(value)
	if err != nil {
		return fmt.Errorf("decoding value: %w", err)
	}

	return nil
}

// NewValidate returns a struct tag validator that reports fields by their yaml names.
func NewValidate() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, ok := schema.FieldName(field)
		if !ok {
			return ""
		}

		return name
	})

	return validate
}

func applySecrets[T any](target *T, raw map[string]any, environ []string) error {
	secrets := new(T)

	err := env.ParseWithOptions(secrets, env.Options{Environment: environMap(environ)})
	if err != nil {
		return fmt.Errorf("resolving secrets: %w", err)
	}

	maskPresent(reflect.ValueOf(secrets).Elem(), raw)

	err = mergo.Merge(target, secrets, mergo.WithTransformers(opaqueTransformer{}))
	if err != nil {
		return fmt.Errorf("merging secrets: %w", err)
	}

	return nil
}

func applyDefaults[T any](target *T, raw map[string]any, defaults any) error {
	if defaults == nil {
		return nil
	}

	typed, ok := defaults.(*T)
	if !ok {
		return fmt.Errorf("%w: got %T, want %T", ErrDefaultsType, defaults, target)
	}

	if typed == nil {
		return nil
	}

	masked := new(T)
	*masked = *typed

	if reflect.TypeFor[T]().Kind() == reflect.Struct {
		maskPresent(reflect.ValueOf(masked).Elem(), raw)
	}

	err := mergo.Merge(target, masked, mergo.WithTransformers(opaqueTransformer{}))
	if err != nil {
		return fmt.Errorf("merging defaults: %w", err)
	}

	return nil
}

// maskPresent zeroes the fields of value whose key is present in raw, so a
// merge from value fills only what the tree left out. A key set to false, 0
// or "" counts as present. Nested structs behind pointers are copied, so the
// merge never shares them with the caller.
func maskPresent(value reflect.Value, raw map[string]any) {
	typ := value.Type()

	for i := range typ.NumField() {
		structField := typ.Field(i)

		field := value.Field(i)
		if !field.CanSet() {
			continue
		}

		if schema.Inlined(structField) {
			nested, ok := ownStruct(field)
			if ok {
				maskPresent(nested, raw)
			}

			continue
		}

		name, ok := schema.FieldName(structField)
		if !ok {
			continue
		}

		present, found := lookupKey(raw, name)
		child, isTree := present.(map[string]any)

		if isStructType(structField.Type) && (!found || isTree) {
			nested, ok := ownStruct(field)
			if ok {
				maskPresent(nested, child)
			}

			continue
		}

		if found {
			field.Set(reflect.Zero(structField.Type))
		}
	}
}

// ownStruct returns the struct held by field, replacing a pointer by a
// pointer to a copy first.
func ownStruct(field reflect.Value) (reflect.Value, bool) {
	if field.Kind() != reflect.Pointer {
		return field, true
	}

	if field.IsNil() {
		return reflect.Value{}, false
	}

	copied := reflect.New(field.Type().Elem())
	copied.Elem().Set(field.Elem())
	field.Set(copied)

	return copied.Elem(), true
}

// lookupKey finds name in raw the way the decoder matches keys to fields:
// exactly, or else case-insensitively.
func lookupKey(raw map[string]any, name string) (any, bool) {
	value, found := raw[name]
	if found {
		return value, true
	}

	for key, value := range raw {
		if strings.EqualFold(key, name) {
			return value, true
		}
	}

	return nil, false
}

func isStructType(typ reflect.Type) bool {
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	return typ.Kind() == reflect.Struct
}

// opaqueTransformer lets mergo fill zero structs without exported fields,
// such as time.Time, which it otherwise leaves untouched.
type opaqueTransformer struct{}

func (opaqueTransformer) Transformer(typ reflect.Type) func(dst, src reflect.Value) error {
	if typ.Kind() != reflect.Struct {
		return nil
	}

	for i := range typ.NumField() {
		if typ.Field(i).IsExported() {
			return nil
		}
	}

	return func(dst, src reflect.Value) error {
		if dst.CanSet() && dst.IsZero() && !src.IsZero() {
			dst.Set(src)
		}

		return nil
	}
}

func environMap(environ []string) map[string]string {
	values := make(map[string]string, len(environ))

	for _, entry := range environ {
		key, value, found := strings.Cut(entry, "=")
		if !found || key == "" {
			continue
		}

		if _, exists := values[key]; !exists {
			values[key] = value
		}
	}

	return values
}
