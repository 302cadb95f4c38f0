// Package model defines the typed field table the validation engine consumes.
// Builders reside in internal/model but return the types defined here. Each
// field carries its record path, a kind driving normalization and format
// checks, its requiredness as resolved from the schema tree, and the
// constraint set (length/range bounds, pattern, format, message overrides)
// declared on its schema leaf.
package model
