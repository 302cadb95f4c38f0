package validation

import (
	"github.com/goliatone/go-formstate/pkg/fieldpath"
)

// Reconcile merges rule-validator errors with the external validator's
// errors into one surfaced list. Rule errors are authoritative: an external
// error whose path equals, or is a proper descendant of, a rule-error path
// is discarded. Within each source the first error for a path wins. Errors
// at an excluded path (or below one) never surface.
func Reconcile(ruleErrors, externalErrors []Error, exclude ...fieldpath.Path) []Error {
	var out []Error
	surfaced := make(map[string]struct{})

	for _, err := range ruleErrors {
		if excluded(err.Path, exclude) {
			continue
		}
		key := err.Path.String()
		if _, seen := surfaced[key]; seen {
			continue
		}
		surfaced[key] = struct{}{}
		out = append(out, err)
	}

	rulePaths := make([]fieldpath.Path, len(out))
	for i, err := range out {
		rulePaths[i] = err.Path
	}

	for _, err := range externalErrors {
		if excluded(err.Path, exclude) {
			continue
		}
		if coveredByRule(err.Path, rulePaths) {
			continue
		}
		key := err.Path.String()
		if _, seen := surfaced[key]; seen {
			continue
		}
		surfaced[key] = struct{}{}
		out = append(out, err)
	}

	return out
}

// coveredByRule reports whether the external path is attributed to a field
// the rule validator already flagged: equal paths, or a proper descendant on
// a segment boundary.
func coveredByRule(path fieldpath.Path, rulePaths []fieldpath.Path) bool {
	for _, rulePath := range rulePaths {
		if path.Equal(rulePath) || path.DescendantOf(rulePath) {
			return true
		}
	}
	return false
}

func excluded(path fieldpath.Path, exclude []fieldpath.Path) bool {
	for _, ex := range exclude {
		if path.Equal(ex) || path.DescendantOf(ex) {
			return true
		}
	}
	return false
}
