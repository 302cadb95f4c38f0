package engine

import (
	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/fieldpath"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/normalize"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/store"
	"github.com/goliatone/go-formstate/pkg/submit"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Form is one live form: the flattened field table, its record store, the
// submission machine, and one controller per field. Like the pieces it wires
// together, a Form is confined to a single goroutine.
type Form struct {
	model     model.FormModel
	store     *store.Store
	machine   *submit.Machine
	validator *rules.Validator
	external  validation.Validator
	fields    map[string]*field.Controller
	order     []*field.Controller
}

// Model returns the flattened field table.
func (f *Form) Model() model.FormModel {
	return f.model
}

// Store exposes the record store for callers that subscribe directly.
func (f *Form) Store() *store.Store {
	return f.store
}

// Field returns the controller for the field addressed by path. Paths accept
// slash or dot separators.
func (f *Form) Field(path string) (*field.Controller, bool) {
	ctrl, ok := f.fields[fieldpath.Parse(path).String()]
	return ctrl, ok
}

// Fields returns the controllers in field-table order.
func (f *Form) Fields() []*field.Controller {
	out := make([]*field.Controller, len(f.order))
	copy(out, f.order)
	return out
}

// SetRecord normalizes the record against the field table and replaces the
// store's data wholesale. Unknown keys are dropped.
func (f *Form) SetRecord(record map[string]any) {
	f.store.ReplaceData(normalize.Record(record, f.model))
}

// Submit runs one submission pass.
func (f *Form) Submit() submit.State {
	return f.machine.Submit()
}

// SubmissionState returns the current lifecycle state.
func (f *Form) SubmissionState() submit.State {
	return f.machine.State()
}

// CanSubmit reports whether a new submission would be accepted.
func (f *Form) CanSubmit() bool {
	return f.machine.CanSubmit()
}

// ShowSuccess reports whether the success indicator is active.
func (f *Form) ShowSuccess() bool {
	return f.machine.ShowSuccess()
}

// Reset restores the initial record and clears every field's interaction
// state.
func (f *Form) Reset() {
	f.machine.Reset()
}

// Validate runs both validators against the current record without touching
// the store or the submission machine. The reserved submission flag never
// appears in the result.
func (f *Form) Validate() []validation.Error {
	canonical := normalize.Record(f.store.Snapshot().Data, f.model)
	ruleErrors := f.validator.Validate(canonical)
	var externalErrors []validation.Error
	if f.external != nil {
		externalErrors = f.external.ValidateAll(canonical)
	}
	return validation.Reconcile(ruleErrors, externalErrors, normalize.SubmittedPath)
}

// Close detaches every field controller from the store.
func (f *Form) Close() {
	for _, ctrl := range f.order {
		ctrl.Close()
	}
}

func (f *Form) resetFields() {
	for _, ctrl := range f.order {
		ctrl.Reset()
	}
}
