package confme

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/0xalexb/confme/config"
	"github.com/0xalexb/confme/schema"
)

var (
	// ErrPathNotFound is wrapped by *PathError.
	ErrPathNotFound = errors.New("configuration path not found")
	// ErrNotStruct is returned when the configuration is not a struct or a pointer to one.
	ErrNotStruct = errors.New("configuration is not a struct")
)

// PathError reports a dotted path segment missing from a configuration.
type PathError struct {
	// Path is the full dotted path.
	Path string
	// Segment is the first segment that could not be resolved.
	Segment string
	// Prefix holds the segments resolved before Segment.
	Prefix string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s not found in path %q", e.Segment, e.Prefix)
}

func (e *PathError) Unwrap() error {
	return ErrPathNotFound
}

// Entry is one leaf of a configuration.
type Entry struct {
	Path  string
	Value any
}

// UpdateByString sets the field addressed by a dotted path of yaml names on
// cfg, which must be a pointer to a struct. value is weakly converted to the
// field type, so "8080" sets an int. Nil pointers to structs along the path
// are allocated. Nothing is modified on error.
func UpdateByString(cfg any, path string, value any) error {
	root := reflect.ValueOf(cfg)
	if root.Kind() != reflect.Pointer || root.IsNil() || root.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: got %T", ErrNotStruct, cfg)
	}

	indices, leafType, err := locate(root.Type(), path)
	if err != nil {
		return err
	}

	converted, err := convert(leafType, path, value)
	if err != nil {
		return err
	}

	target, found := walk(root, indices, false)
	if !found {
		if value == nil {
			return nil
		}

		target, _ = walk(root, indices, true)
	}

	if !target.CanSet() {
		return fmt.Errorf("%w: %q is not settable", ErrPathNotFound, path)
	}

	target.Set(converted)

	return nil
}

// FlatRepr lists the leaves of cfg as dotted paths with their values, in
// declaration order. Leaves below a nil pointer have a nil value.
func FlatRepr(cfg any) ([]Entry, error) {
	value := reflect.ValueOf(cfg)
	if !value.IsValid() {
		return nil, fmt.Errorf("%w: got nil", ErrNotStruct)
	}

	typ := value.Type()
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %T", ErrNotStruct, cfg)
	}

	paths := schema.Paths(schema.Of(typ))
	entries := make([]Entry, 0, len(paths))

	for _, path := range paths {
		entries = append(entries, Entry{
			Path:  path,
			Value: leafValue(value, path),
		})
	}

	return entries, nil
}

func leafValue(value reflect.Value, path string) any {
	indices, _, err := locate(value.Type(), path)
	if err != nil {
		return nil
	}

	current, found := walk(value, indices, false)
	if !found {
		return nil
	}

	current = indirect(current)
	if !current.IsValid() {
		return nil
	}

	return current.Interface()
}

// locate resolves every segment of path to the field index sequence leading
// to it, looking through pointers and into inlined embedded structs.
func locate(typ reflect.Type, path string) ([][]int, reflect.Type, error) {
	segments := schema.Split(path)
	indices := make([][]int, 0, len(segments))

	for i, segment := range segments {
		for typ.Kind() == reflect.Pointer {
			typ = typ.Elem()
		}

		var (
			index []int
			found bool
		)

		if typ.Kind() == reflect.Struct {
			index, typ, found = fieldIndex(typ, segment)
		}

		if !found {
			return nil, nil, &PathError{
				Path:    path,
				Segment: segment,
				Prefix:  strings.Join(segments[:i], schema.Separator),
			}
		}

		indices = append(indices, index)
	}

	return indices, typ, nil
}

func fieldIndex(typ reflect.Type, name string) ([]int, reflect.Type, bool) {
	for i := range typ.NumField() {
		structField := typ.Field(i)

		if schema.Inlined(structField) {
			embedded := structField.Type
			if embedded.Kind() == reflect.Pointer {
				embedded = embedded.Elem()
			}

			index, fieldType, found := fieldIndex(embedded, name)
			if found {
				return append([]int{i}, index...), fieldType, true
			}

			continue
		}

		fieldName, ok := schema.FieldName(structField)
		if ok && fieldName == name {
			return []int{i}, structField.Type, true
		}
	}

	return nil, nil, false
}

// walk follows indices from value. Nil struct pointers on the way end the
// walk, or are allocated when allocate is set.
func walk(value reflect.Value, indices [][]int, allocate bool) (reflect.Value, bool) {
	for _, index := range indices {
		for _, i := range index {
			for value.Kind() == reflect.Pointer {
				if value.IsNil() {
					if !allocate || !value.CanSet() {
						return reflect.Value{}, false
					}

					value.Set(reflect.New(value.Type().Elem()))
				}

				value = value.Elem()
			}

			value = value.Field(i)
		}
	}

	return value, true
}

func indirect(value reflect.Value) reflect.Value {
	for value.IsValid() && (value.Kind() == reflect.Pointer || value.Kind() == reflect.Interface) {
		if value.IsNil() {
			return reflect.Value{}
		}

		value = value.Elem()
	}

	return value
}

func convert(typ reflect.Type, path string, value any) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(typ), nil
	}

	source := reflect.ValueOf(value)
	if source.Type().AssignableTo(typ) {
		return source, nil
	}

	converted := reflect.New(typ)

	err := config.DecodeValue(value, converted.Interface())
	if err != nil {
		return reflect.Value{}, fmt.Errorf("converting value for %q: %w", path, err)
	}

	return converted.Elem(), nil
}
