// Package submit drives the submission lifecycle of one form: stamp the
// record as submitted, unlock error display, run both validators, publish
// the reconciled error list, and on success schedule an automatic reset.
package submit

import (
	"time"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/normalize"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/store"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// State enumerates the submission lifecycle.
type State string

const (
	StateIdle             State = "idle"
	StateSubmitting       State = "submitting"
	StateValidatedValid   State = "validated-valid"
	StateValidatedInvalid State = "validated-invalid"
)

// DefaultResetDelay is how long the success indicator shows before the form
// resets itself.
const DefaultResetDelay = 2 * time.Second

// Scheduler runs fn after delay and returns a cancel function. Tests inject
// an immediate or manual scheduler; production uses time.AfterFunc.
type Scheduler func(delay time.Duration, fn func()) (cancel func())

// AfterFunc is the production Scheduler.
func AfterFunc(delay time.Duration, fn func()) func() {
	timer := time.AfterFunc(delay, fn)
	return func() { timer.Stop() }
}

// Machine orchestrates submissions against one store. Like the store it is
// confined to a single goroutine; the in-flight boolean is the only guard.
type Machine struct {
	store      *store.Store
	form       model.FormModel
	validator  *rules.Validator
	external   validation.Validator
	scheduler  Scheduler
	resetDelay time.Duration

	state       State
	inFlight    bool
	showSuccess bool
	cancelReset func()
	onReset     func()
}

// Option configures a Machine.
type Option func(*Machine)

// WithExternal installs the external schema validator consulted alongside
// the rule validator.
func WithExternal(external validation.Validator) Option {
	return func(m *Machine) {
		m.external = external
	}
}

// WithScheduler overrides the timer used for the automatic success reset.
func WithScheduler(scheduler Scheduler) Option {
	return func(m *Machine) {
		m.scheduler = scheduler
	}
}

// WithResetDelay overrides the delay before a successful submission resets
// the form.
func WithResetDelay(delay time.Duration) Option {
	return func(m *Machine) {
		m.resetDelay = delay
	}
}

// WithOnReset installs a hook invoked after every reset, manual or
// scheduled. Callers use it to clear per-field interaction state.
func WithOnReset(fn func()) Option {
	return func(m *Machine) {
		m.onReset = fn
	}
}

// NewMachine builds a Machine for the form.
func NewMachine(s *store.Store, form model.FormModel, validator *rules.Validator, options ...Option) *Machine {
	m := &Machine{
		store:      s,
		form:       form,
		validator:  validator,
		scheduler:  AfterFunc,
		resetDelay: DefaultResetDelay,
		state:      StateIdle,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// State returns the current lifecycle state.
func (m *Machine) State() State {
	return m.state
}

// ShowSuccess reports whether the success indicator is active.
func (m *Machine) ShowSuccess() bool {
	return m.showSuccess
}

// CanSubmit reports whether a new submission would be accepted.
func (m *Machine) CanSubmit() bool {
	return !m.inFlight
}

// Submit runs one submission pass and returns the resulting state. A submit
// issued while another is in flight is rejected without any observable state
// change and reports StateSubmitting.
func (m *Machine) Submit() State {
	if m.inFlight {
		return StateSubmitting
	}
	m.inFlight = true
	m.state = StateSubmitting

	// Stamp the record and unlock error display. Store writes settle before
	// returning, so subscribers have observed the submitted record by the
	// time validation reads it.
	snapshot := m.store.Snapshot()
	snapshot.Data[normalize.SubmittedKey] = true
	canonical := normalize.Record(snapshot.Data, m.form)
	m.store.ReplaceData(canonical)
	m.store.SetDisplayMode(store.DisplayAll)

	ruleErrors := m.validator.Validate(canonical)
	var externalErrors []validation.Error
	if m.external != nil {
		externalErrors = m.external.ValidateAll(canonical)
	}
	merged := validation.Reconcile(ruleErrors, externalErrors, normalize.SubmittedPath)

	m.store.SetErrors(merged)
	m.store.SetValidationCompleted(true)

	if len(merged) == 0 {
		m.state = StateValidatedValid
		m.showSuccess = true
		m.cancelReset = m.scheduler(m.resetDelay, m.Reset)
	} else {
		m.state = StateValidatedInvalid
	}

	m.inFlight = false
	return m.state
}

// Reset restores the documented initial record, clears errors and flags, and
// returns the machine to idle. It is the only transition that un-touches the
// form's fields.
func (m *Machine) Reset() {
	if m.cancelReset != nil {
		m.cancelReset()
		m.cancelReset = nil
	}
	m.showSuccess = false
	m.state = StateIdle
	m.store.Reset(normalize.Record(m.form.InitialRecord(), m.form))
	if m.onReset != nil {
		m.onReset()
	}
}
