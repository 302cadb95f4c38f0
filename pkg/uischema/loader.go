package uischema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store keeps the parsed layouts keyed by form id. It is safe for concurrent
// readers when treated as immutable after construction.
type Store struct {
	layouts map[string]Element
}

// LoadFS walks the provided filesystem and parses JSON/YAML layout files.
// Each file holds one layout; the form id is the file name without its
// extension. When fsys is nil or no layout files are present, the returned
// store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{layouts: make(map[string]Element)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if !isLayoutFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("uischema: read %s: %w", path, err)
		}

		layout, err := ParseBytes(data)
		if err != nil {
			return fmt.Errorf("uischema: parse %s: %w", path, err)
		}

		id := formID(path)
		if _, exists := store.layouts[id]; exists {
			return fmt.Errorf("uischema: duplicate layout %q (file %s)", id, path)
		}
		store.layouts[id] = layout
		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// ParseBytes decodes a single layout document in JSON or YAML form.
func ParseBytes(data []byte) (Element, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Element{}, fmt.Errorf("uischema: empty document")
	}

	var layout Element
	if err := json.Unmarshal(data, &layout); err == nil {
		return layout, validateLayout(layout)
	}
	if err := yaml.Unmarshal(data, &layout); err == nil {
		return layout, validateLayout(layout)
	}
	return Element{}, fmt.Errorf("uischema: invalid JSON or YAML")
}

// Layout returns the layout registered under the supplied form id.
func (s *Store) Layout(id string) (Element, bool) {
	if s == nil {
		return Element{}, false
	}
	layout, ok := s.layouts[id]
	return layout, ok
}

// Empty reports whether the store holds any layouts.
func (s *Store) Empty() bool {
	return s == nil || len(s.layouts) == 0
}

func validateLayout(layout Element) error {
	return validateElement(layout, "")
}

func validateElement(element Element, at string) error {
	switch element.Type {
	case TypeVerticalLayout, TypeHorizontalLayout, TypeGroup:
		if err := validateRule(element.Rule, at); err != nil {
			return err
		}
		for idx, child := range element.Elements {
			loc := fmt.Sprintf("%s/elements/%d", at, idx)
			if err := validateElement(child, loc); err != nil {
				return err
			}
		}
		return nil
	case TypeControl:
		if strings.TrimSpace(element.Scope) == "" {
			return fmt.Errorf("control at %q has no scope", emptyAsRoot(at))
		}
		if err := validateRule(element.Rule, at); err != nil {
			return err
		}
		return nil
	case "":
		return fmt.Errorf("element at %q has no type", emptyAsRoot(at))
	default:
		return fmt.Errorf("unknown element type %q at %q", element.Type, emptyAsRoot(at))
	}
}

func validateRule(rule *Rule, at string) error {
	if rule == nil {
		return nil
	}
	switch rule.Effect {
	case EffectShow, EffectHide, EffectEnable, EffectDisable:
	default:
		return fmt.Errorf("unknown rule effect %q at %q", rule.Effect, emptyAsRoot(at))
	}
	if strings.TrimSpace(rule.Condition.Scope) == "" {
		return fmt.Errorf("rule at %q has no condition scope", emptyAsRoot(at))
	}
	return nil
}

func emptyAsRoot(at string) string {
	if at == "" {
		return "#"
	}
	return at
}

func formID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isLayoutFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
