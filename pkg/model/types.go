package model

import internalmodel "github.com/goliatone/go-formstate/internal/model"

// FieldKind re-exports the internal FieldKind enumeration.
type FieldKind = internalmodel.FieldKind

const (
	KindString  = internalmodel.KindString
	KindEmail   = internalmodel.KindEmail
	KindPhone   = internalmodel.KindPhone
	KindZip     = internalmodel.KindZip
	KindState   = internalmodel.KindState
	KindNumber  = internalmodel.KindNumber
	KindInteger = internalmodel.KindInteger
	KindBoolean = internalmodel.KindBoolean
)

type Field = internalmodel.Field
type FormModel = internalmodel.FormModel
