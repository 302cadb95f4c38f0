package fieldpath

// Lookup resolves a path against a nested record. The second return value
// reports whether every segment existed; a missing branch is not an error.
func Lookup(record map[string]any, path Path) (any, bool) {
	if record == nil {
		return nil, false
	}
	if len(path) == 0 {
		return record, true
	}

	current := any(record)
	for _, segment := range path {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		next, ok := node[segment]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Set writes a value into a nested record, creating intermediate maps as
// needed. Writing to the root path is a no-op; callers replace the whole
// record instead.
func Set(record map[string]any, path Path, value any) {
	if record == nil || len(path) == 0 {
		return
	}

	current := record
	for _, segment := range path[:len(path)-1] {
		child, ok := current[segment].(map[string]any)
		if !ok || child == nil {
			child = make(map[string]any)
			current[segment] = child
		}
		current = child
	}
	current[path.Leaf()] = value
}
