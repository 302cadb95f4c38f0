package schema

import "errors"

// Document pairs a loaded schema payload with the Source it came from, so
// parse errors can point back at the file, FS entry, or URL that produced
// them.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument validates and wraps a loaded payload. The bytes are copied so
// callers can reuse their buffer.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("schema: document is empty")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location reports where the document was loaded from.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}
