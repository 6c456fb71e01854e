package tree

import "fmt"

// Expand assigns value at the position addressed by segments, creating an
// empty sub-tree for every missing intermediate segment.
// An existing non-map value on the way is replaced by a new sub-tree.
// A single segment assigns directly on t. Empty segments are a no-op.
func Expand(t map[string]any, segments []string, value any) {
	if len(segments) == 0 {
		return
	}

	current := t

	for _, segment := range segments[:len(segments)-1] {
		next, isMap := current[segment].(map[string]any)
		if !isMap {
			next = make(map[string]any)
			current[segment] = next
		}

		current = next
	}

	current[segments[len(segments)-1]] = value
}

// Merge overlays overlay onto base and returns base.
// base is modified in place; a nil base is replaced by a new map.
// Keys only present in overlay are inserted, keys absent from overlay are
// left untouched. When both sides hold a sub-tree the merge recurses,
// otherwise the overlay value wins as a whole.
func Merge(base, overlay map[string]any) map[string]any {
	if base == nil {
		base = make(map[string]any, len(overlay))
	}

	for key, overlayValue := range overlay {
		overlayTree, overlayIsMap := overlayValue.(map[string]any)
		baseTree, baseIsMap := base[key].(map[string]any)

		if overlayIsMap && baseIsMap {
			base[key] = Merge(baseTree, overlayTree)

			continue
		}

		if overlayIsMap {
			base[key] = Clone(overlayTree)

			continue
		}

		base[key] = overlayValue
	}

	return base
}

// Lookup returns the value addressed by segments.
func Lookup(t map[string]any, segments []string) (any, bool) {
	if len(segments) == 0 {
		return nil, false
	}

	var current any = t

	for _, segment := range segments {
		node, isMap := current.(map[string]any)
		if !isMap {
			return nil, false
		}

		value, found := node[segment]
		if !found {
			return nil, false
		}

		current = value
	}

	return current, true
}

// Clone returns a deep copy of t. Nested maps and sequences are copied,
// scalars are shared.
func Clone(t map[string]any) map[string]any {
	if t == nil {
		return nil
	}

	out := make(map[string]any, len(t))
	for key, value := range t {
		out[key] = cloneValue(value)
	}

	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return Clone(typed)
	case map[any]any:
		return Clone(Normalize(typed))
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}

		return out
	default:
		return value
	}
}

// Normalize converts a mapping with arbitrary keys, as some YAML decoders
// produce for non-string keys, into a tree keyed by the keys' string form.
func Normalize(m map[any]any) map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[fmt.Sprint(key)] = cloneValue(value)
	}

	return out
}
