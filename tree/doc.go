// Package tree provides helpers for nested configuration trees.
//
// A tree is a map[string]any whose values are scalars, []any sequences or
// further map[string]any sub-trees, the shape produced by YAML decoding.
//
// Expand builds sparse trees addressed by path segments, creating
// intermediate levels on demand. Merge overlays one tree onto another:
// sub-trees present on both sides are merged recursively, any other overlay
// value replaces the base value.
package tree
