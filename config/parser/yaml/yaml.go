package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/0xalexb/confme/tree"

	"github.com/goccy/go-yaml"
)

// ErrEmptyData is returned when the input data is empty.
var ErrEmptyData = errors.New("empty data")

// ErrPathNotFound is returned when the specified section is not found in the YAML document.
var ErrPathNotFound = errors.New("path not found")

// ErrNotMapping is returned when the document, or the selected section, is not a mapping.
var ErrNotMapping = errors.New("document root is not a mapping")

// Parser implements config.Parser interface for YAML data.
// It uses goccy/go-yaml PathString for efficient section navigation.
type Parser struct{}

// NewParser creates a new YAML parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Extensions returns the file extensions handled by the parser.
func (p *Parser) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// Parse parses YAML data into a tree with string keys.
// The section parameter specifies a navigation path using colon (:) as separator.
// Empty section parses the entire document.
func (p *Parser) Parse(data []byte, section string) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyData
	}

	var document any

	if section == "" {
		err := yaml.Unmarshal(data, &document)
		if err != nil {
			return nil, fmt.Errorf("unmarshal error: %w", err)
		}

		return toTree(document, section)
	}

	yamlPath := convertToYAMLPath(section)

	pathObj, err := yaml.PathString(yamlPath)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", section, err)
	}

	reader := bytes.NewReader(data)

	err = pathObj.Read(reader, &document)
	if err != nil {
		if isKeyNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, section)
		}

		return nil, fmt.Errorf("reading path %q: %w", section, err)
	}

	return toTree(document, section)
}

func toTree(document any, section string) (map[string]any, error) {
	switch typed := document.(type) {
	case map[string]any:
		return tree.Clone(typed), nil
	case map[any]any:
		return tree.Normalize(typed), nil
	default:
		if section == "" {
			return nil, fmt.Errorf("%w: got %T", ErrNotMapping, document)
		}

		return nil, fmt.Errorf("%w: section %q is %T", ErrNotMapping, section, document)
	}
}

// convertToYAMLPath converts a colon-separated path to goccy/go-yaml PathString format.
// Examples:
//   - "key" -> "$.key"
//   - "api:permissions" -> "$.api.permissions"
func convertToYAMLPath(path string) string {
	parts := strings.Split(path, ":")

	return "$." + strings.Join(parts, ".")
}

// isKeyNotFoundError checks if the error indicates a key was not found.
func isKeyNotFoundError(err error) bool {
	return yaml.IsNotFoundNodeError(err)
}
