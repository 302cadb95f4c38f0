// Package fieldpath provides the canonical addressing scheme shared by the
// schema tree, form records, and error records. A Path is a parsed sequence
// of property names; all comparisons happen on segments, never on raw
// pointer strings, so boundary matching stays correct without regex escaping.
package fieldpath

import "strings"

// Path locates a leaf value inside a form record and the mirrored schema
// node. The zero value addresses the record root.
type Path []string

// Parse normalises a raw pointer into a Path. It accepts JSON pointers
// ("/personalInfo/firstName"), schema scopes ("#/properties/personalInfo/
// properties/firstName"), and dotted paths ("personalInfo.firstName").
// Wrapper tokens ("#", "properties") and empty segments are dropped, and
// JSON pointer escapes (~0, ~1) are decoded.
func Parse(raw string) Path {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	parts := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == '/' || r == '.'
	})

	out := make(Path, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		switch segment {
		case "", "#", "properties":
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// String renders the path in the canonical slash-delimited form used for
// error records, e.g. "personalInfo/firstName".
func (p Path) String() string {
	return strings.Join(p, "/")
}

// Pointer renders the path as a JSON pointer with a leading slash.
func (p Path) Pointer() string {
	if len(p) == 0 {
		return ""
	}
	return "/" + strings.Join(p, "/")
}

// IsZero reports whether the path addresses the record root.
func (p Path) IsZero() bool {
	return len(p) == 0
}

// Leaf returns the final segment, or "" for the root path.
func (p Path) Leaf() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Parent returns the path without its final segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Child returns a new path extended by one segment.
func (p Path) Child(segment string) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, p...)
	return append(out, segment)
}

// Equal reports segment-wise equality.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix matches the leading segments of p on
// segment boundaries: "address" prefixes "address/zipCode" but never
// "addressLine2".
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

// DescendantOf reports whether p is a proper descendant of ancestor.
func (p Path) DescendantOf(ancestor Path) bool {
	return len(p) > len(ancestor) && p.HasPrefix(ancestor)
}

// ContainsSegment reports whether any segment contains the supplied
// substring, case-insensitively. Message tables use this to pick
// field-specific wording ("phone", "zip") without hardcoding full paths.
func (p Path) ContainsSegment(substr string) bool {
	needle := strings.ToLower(substr)
	for _, segment := range p {
		if strings.Contains(strings.ToLower(segment), needle) {
			return true
		}
	}
	return false
}
