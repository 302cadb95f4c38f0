package model

import (
	"github.com/goliatone/go-formstate/pkg/fieldpath"
)

// InitialRecord derives the documented initial value of the form record:
// every field present, holding its schema default or the zero value for its
// kind. Reset restores the record to exactly this shape.
func (m FormModel) InitialRecord() map[string]any {
	record := make(map[string]any)
	for _, field := range m.Fields {
		fieldpath.Set(record, field.Path, initialValue(field))
	}
	return record
}

func initialValue(field Field) any {
	if field.Default != nil {
		return field.Default
	}
	switch field.Kind {
	case KindBoolean:
		return false
	case KindInteger:
		return 0
	case KindNumber:
		return float64(0)
	default:
		return ""
	}
}
