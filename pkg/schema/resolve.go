package schema

import "github.com/goliatone/go-formstate/pkg/fieldpath"

// Constraints is the flattened set of declared constraints on a leaf node.
// The zero value means "unconstrained".
type Constraints struct {
	MinLength *int
	MaxLength *int
	Minimum   *float64
	Maximum   *float64
	Pattern   string
	Format    string
	Enum      []any
	Messages  map[string]string
}

// Empty reports whether no constraint is declared.
func (c Constraints) Empty() bool {
	return c.MinLength == nil && c.MaxLength == nil &&
		c.Minimum == nil && c.Maximum == nil &&
		c.Pattern == "" && c.Format == "" && len(c.Enum) == 0
}

// Message returns the override for a constraint keyword, or the empty
// string when none is declared.
func (c Constraints) Message(keyword string) string {
	return c.Messages[keyword]
}

// RequiredAt reports whether the leaf addressed by path is listed in its
// parent object's required set. Any missing branch degrades to false; the
// walk never fails.
func RequiredAt(root Schema, path fieldpath.Path) bool {
	if len(path) == 0 {
		return false
	}
	parent, ok := NodeAt(root, path.Parent())
	if !ok {
		return false
	}
	leaf := path.Leaf()
	for _, name := range parent.Required {
		if name == leaf {
			return true
		}
	}
	return false
}

// ConstraintsAt returns the leaf node's declared constraints, degrading to
// the empty set when any branch of the path is missing.
func ConstraintsAt(root Schema, path fieldpath.Path) Constraints {
	node, ok := NodeAt(root, path)
	if !ok {
		return Constraints{}
	}

	out := Constraints{
		MinLength: node.MinLength,
		MaxLength: node.MaxLength,
		Minimum:   node.Minimum,
		Maximum:   node.Maximum,
		Pattern:   node.Pattern,
		Format:    node.Format,
	}
	if len(node.Enum) > 0 {
		out.Enum = append([]any(nil), node.Enum...)
	}
	if len(node.ErrorMessages) > 0 {
		out.Messages = make(map[string]string, len(node.ErrorMessages))
		for keyword, msg := range node.ErrorMessages {
			out.Messages[keyword] = msg
		}
	}
	return out
}

// NodeAt walks property edges to the node addressed by path. The boolean
// reports whether every segment resolved.
func NodeAt(root Schema, path fieldpath.Path) (Schema, bool) {
	current := root
	for _, segment := range path {
		child, ok := current.Properties[segment]
		if !ok {
			return Schema{}, false
		}
		current = child
	}
	return current, true
}
