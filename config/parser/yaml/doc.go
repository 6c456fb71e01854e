// Package yaml provides a YAML parser implementation for the config package.
//
// This package uses github.com/goccy/go-yaml for YAML parsing with native
// PathString support for efficient section navigation. The parser converts
// colon-separated sections (e.g., "api:permissions") to YAML path format
// (e.g., "$.api.permissions") internally.
//
// The result is always a mapping keyed by strings at every level; a document
// or section that is not a mapping is rejected with ErrNotMapping.
//
// Usage:
//
//	parser := yaml.NewParser()
//	raw, err := parser.Parse(data, "api:permissions")
//
// Path Conversion:
//   - Empty section "" -> unmarshal entire document
//   - Single key "key" -> "$.key"
//   - Nested section "api:permissions" -> "$.api.permissions"
package yaml
