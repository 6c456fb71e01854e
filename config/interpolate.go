package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
)

// PlaceholderHere is replaced by the absolute directory of the configuration
// file, with symbolic links resolved.
const PlaceholderHere = "here"

var placeholderPattern = regexp.MustCompile(`%\((\w+)\)s`)

// Interpolate returns a copy of raw with every %(name)s placeholder in string
// values replaced. %(here)s resolves to the absolute form of baseDir with
// symbolic links resolved. A baseDir that does not exist is only made absolute.
// Unknown placeholders are left verbatim. Non-string leaves pass through.
func Interpolate(raw map[string]any, baseDir string) (map[string]any, error) {
	here, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving directory %q: %w", baseDir, err)
	}

	resolved, err := filepath.EvalSymlinks(here)
	switch {
	case err == nil:
		here = resolved
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("resolving directory %q: %w", baseDir, err)
	}

	placeholders := map[string]string{PlaceholderHere: here}

	result, _ := interpolateValue(raw, placeholders).(map[string]any)

	return result, nil
}

// Interpolation returns a Transform interpolating placeholders relative to baseDir.
func Interpolation(baseDir string) Transform {
	return func(raw map[string]any) (map[string]any, error) {
		return Interpolate(raw, baseDir)
	}
}

func interpolateValue(value any, placeholders map[string]string) any {
	switch typed := value.(type) {
	case map[string]any:
		if typed == nil {
			return typed
		}

		result := make(map[string]any, len(typed))
		for key, item := range typed {
			result[key] = interpolateValue(item, placeholders)
		}

		return result
	case []any:
		if typed == nil {
			return typed
		}

		result := make([]any, len(typed))
		for i, item := range typed {
			result[i] = interpolateValue(item, placeholders)
		}

		return result
	case string:
		return substitute(typed, placeholders)
	default:
		return value
	}
}

func substitute(s string, placeholders map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]

		replacement, found := placeholders[name]
		if !found {
			return match
		}

		return replacement
	})
}
