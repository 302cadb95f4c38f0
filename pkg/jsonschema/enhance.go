package jsonschema

import (
	"fmt"
	"strings"

	"github.com/mohae/deepcopy"

	"github.com/goliatone/go-formstate/pkg/fieldpath"
	"github.com/goliatone/go-formstate/pkg/schema"
)

// Enhancement targets a schema node by pointer and injects the extra
// constraints and curated error messages a form needs on top of the shared
// schema document. Enhancements run once, at form initialisation, against a
// deep copy; the loaded document is never mutated.
type Enhancement struct {
	// Path addresses the target node ("personalInfo/firstName" or
	// "#/properties/personalInfo/properties/firstName").
	Path string `json:"path" yaml:"path"`

	// Constraints are merged onto the target node; nil/empty members are
	// left untouched.
	Constraints ConstraintPatch `json:"constraints,omitempty" yaml:"constraints,omitempty"`

	// Messages overrides surfaced messages per constraint keyword.
	Messages map[string]string `json:"messages,omitempty" yaml:"messages,omitempty"`

	// Require lists property names to add to the target object's required
	// set. Duplicates are ignored.
	Require []string `json:"require,omitempty" yaml:"require,omitempty"`
}

// ConstraintPatch carries the injectable constraint keywords.
type ConstraintPatch struct {
	MinLength *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	Pattern   string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Format    string   `json:"format,omitempty" yaml:"format,omitempty"`
}

// EnhanceError reports an enhancement that does not resolve against the
// schema tree.
type EnhanceError struct {
	Path    string
	Message string
}

func (e EnhanceError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "invalid enhancement"
	}
	if strings.TrimSpace(e.Path) == "" {
		return "jsonschema enhance: " + msg
	}
	return fmt.Sprintf("jsonschema enhance: %s (%s)", msg, e.Path)
}

// Enhance returns a deep copy of root with every enhancement applied. The
// input schema is never modified. Unlike the validators, enhancement is
// configuration: a path that does not resolve is an error, not a degrade.
func Enhance(root schema.Schema, enhancements []Enhancement) (schema.Schema, error) {
	clone := deepcopy.Copy(root).(schema.Schema)
	if len(enhancements) == 0 {
		return clone, nil
	}

	for _, enhancement := range enhancements {
		path := fieldpath.Parse(enhancement.Path)
		err := applyAt(&clone, path, func(node *schema.Schema) {
			applyPatch(node, enhancement.Constraints)
			applyMessages(node, enhancement.Messages)
			applyRequired(node, enhancement.Require)
		})
		if err != nil {
			return schema.Schema{}, EnhanceError{Path: enhancement.Path, Message: err.Error()}
		}
	}
	return clone, nil
}

func applyAt(node *schema.Schema, path fieldpath.Path, fn func(*schema.Schema)) error {
	if len(path) == 0 {
		fn(node)
		return nil
	}

	child, ok := node.Properties[path[0]]
	if !ok {
		return fmt.Errorf("property %q not found", path[0])
	}
	if err := applyAt(&child, path[1:], fn); err != nil {
		return err
	}
	if node.Properties == nil {
		node.Properties = make(map[string]schema.Schema, 1)
	}
	node.Properties[path[0]] = child
	return nil
}

func applyPatch(node *schema.Schema, patch ConstraintPatch) {
	if patch.MinLength != nil {
		value := *patch.MinLength
		node.MinLength = &value
	}
	if patch.MaxLength != nil {
		value := *patch.MaxLength
		node.MaxLength = &value
	}
	if patch.Minimum != nil {
		value := *patch.Minimum
		node.Minimum = &value
	}
	if patch.Maximum != nil {
		value := *patch.Maximum
		node.Maximum = &value
	}
	if patch.Pattern != "" {
		node.Pattern = patch.Pattern
	}
	if patch.Format != "" {
		node.Format = patch.Format
	}
}

func applyMessages(node *schema.Schema, messages map[string]string) {
	if len(messages) == 0 {
		return
	}
	if node.ErrorMessages == nil {
		node.ErrorMessages = make(map[string]string, len(messages))
	}
	for keyword, message := range messages {
		node.ErrorMessages[keyword] = message
	}
}

func applyRequired(node *schema.Schema, names []string) {
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if containsString(node.Required, trimmed) {
			continue
		}
		node.Required = append(node.Required, trimmed)
	}
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
