package submit_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/fieldpath"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/normalize"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/store"
	"github.com/goliatone/go-formstate/pkg/submit"
	"github.com/goliatone/go-formstate/pkg/validation"
)

func intPtr(v int) *int { return &v }

func testForm() model.FormModel {
	return model.FormModel{
		ID: "contact",
		Fields: []model.Field{
			{
				Name: "firstName", Path: fieldpath.Parse("personalInfo/firstName"),
				Kind: model.KindString, Required: true,
				Constraints: schema.Constraints{MinLength: intPtr(2)},
			},
			{
				Name: "email", Path: fieldpath.Parse("personalInfo/email"),
				Kind: model.KindEmail, Required: true,
			},
		},
	}
}

// manualScheduler collects scheduled callbacks so tests can fire them
// deterministically.
type manualScheduler struct {
	pending []*scheduledCall
}

type scheduledCall struct {
	fn        func()
	cancelled bool
}

func (m *manualScheduler) schedule(_ time.Duration, fn func()) func() {
	call := &scheduledCall{fn: fn}
	m.pending = append(m.pending, call)
	return func() { call.cancelled = true }
}

func (m *manualScheduler) fire() {
	pending := m.pending
	m.pending = nil
	for _, call := range pending {
		if !call.cancelled {
			call.fn()
		}
	}
}

func newMachine(t *testing.T, initial map[string]any, options ...submit.Option) (*submit.Machine, *store.Store) {
	t.Helper()
	form := testForm()
	s := store.New(initial)
	validator := rules.NewValidator(form)
	return submit.NewMachine(s, form, validator, options...), s
}

func TestSubmitInvalid(t *testing.T) {
	machine, s := newMachine(t, map[string]any{
		"personalInfo": map[string]any{"firstName": "", "email": "lee@x.com"},
	})

	state := machine.Submit()
	if state != submit.StateValidatedInvalid {
		t.Fatalf("Submit() = %q, want validated-invalid", state)
	}

	snap := s.Snapshot()
	if len(snap.Errors) != 1 || snap.Errors[0].Path.String() != "personalInfo/firstName" {
		t.Fatalf("unexpected errors: %#v", snap.Errors)
	}
	if snap.DisplayMode != store.DisplayAll {
		t.Fatalf("display mode = %q, want all", snap.DisplayMode)
	}
	if !snap.ValidationCompleted {
		t.Fatalf("validation completed flag not set")
	}
	if snap.Data[normalize.SubmittedKey] != true {
		t.Fatalf("record not stamped as submitted")
	}
	if machine.ShowSuccess() {
		t.Fatalf("success indicator should stay off for invalid submissions")
	}
	if !machine.CanSubmit() {
		t.Fatalf("machine should accept another attempt after an invalid pass")
	}
}

func TestSubmitValidThenAutoReset(t *testing.T) {
	scheduler := &manualScheduler{}
	machine, s := newMachine(t, map[string]any{
		"personalInfo": map[string]any{"firstName": "Kim", "email": "Kim@X.COM "},
	}, submit.WithScheduler(scheduler.schedule))

	state := machine.Submit()
	if state != submit.StateValidatedValid {
		t.Fatalf("Submit() = %q, want validated-valid", state)
	}
	if !machine.ShowSuccess() {
		t.Fatalf("success indicator not shown")
	}

	email, _ := fieldpath.Lookup(s.Snapshot().Data, fieldpath.Parse("personalInfo/email"))
	if email != "kim@x.com" {
		t.Fatalf("submission did not normalize the record, email = %q", email)
	}

	scheduler.fire()

	if machine.State() != submit.StateIdle {
		t.Fatalf("state after auto reset = %q, want idle", machine.State())
	}
	if machine.ShowSuccess() {
		t.Fatalf("success indicator still on after reset")
	}

	want := map[string]any{
		"personalInfo":         map[string]any{"firstName": "", "email": ""},
		normalize.SubmittedKey: false,
	}
	if diff := cmp.Diff(want, s.Snapshot().Data); diff != "" {
		t.Fatalf("reset record mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitMutualExclusion(t *testing.T) {
	machine, s := newMachine(t, map[string]any{
		"personalInfo": map[string]any{"firstName": "", "email": ""},
	})

	// a subscriber that re-submits mid-flight models a double-click racing
	// the first pass
	var reentrant []submit.State
	seen := 0
	s.Subscribe(func(store.Snapshot) {
		seen++
		if seen == 1 {
			reentrant = append(reentrant, machine.Submit())
		}
	})

	machine.Submit()

	if len(reentrant) != 1 || reentrant[0] != submit.StateSubmitting {
		t.Fatalf("re-entrant submit result = %#v, want one rejected attempt", reentrant)
	}

	snap := s.Snapshot()
	if len(snap.Errors) != 2 {
		t.Fatalf("expected the single pass to surface 2 errors, got %#v", snap.Errors)
	}
}

func TestSubmitConsultsExternalValidator(t *testing.T) {
	external := validation.ValidatorFunc(func(record map[string]any) []validation.Error {
		return []validation.Error{
			{Path: fieldpath.Parse("personalInfo/firstName"), Keyword: "minLength", Kind: validation.KindLength, Message: "external text"},
			{Path: fieldpath.Parse(normalize.SubmittedKey), Keyword: "required", Kind: validation.KindRequired, Message: "never surfaces"},
		}
	})

	machine, s := newMachine(t, map[string]any{
		"personalInfo": map[string]any{"firstName": "A", "email": "lee@x.com"},
	}, submit.WithExternal(external))

	if state := machine.Submit(); state != submit.StateValidatedInvalid {
		t.Fatalf("Submit() = %q, want validated-invalid", state)
	}

	snap := s.Snapshot()
	if len(snap.Errors) != 1 {
		t.Fatalf("expected 1 reconciled error, got %#v", snap.Errors)
	}
	// the rule validator's curated message outranks the external text
	if snap.Errors[0].Message != "*Must have at least 2 characters" {
		t.Fatalf("reconciled message = %q", snap.Errors[0].Message)
	}
}

func TestManualResetCancelsPendingAutoReset(t *testing.T) {
	scheduler := &manualScheduler{}
	machine, s := newMachine(t, map[string]any{
		"personalInfo": map[string]any{"firstName": "Kim", "email": "kim@x.com"},
	}, submit.WithScheduler(scheduler.schedule))

	machine.Submit()
	machine.Reset()

	seqBefore := s.Snapshot().Seq
	scheduler.fire()
	if got := s.Snapshot().Seq; got != seqBefore {
		t.Fatalf("cancelled auto reset still wrote to the store (seq %d -> %d)", seqBefore, got)
	}
}
