package field_test

import (
	"testing"
	"time"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/fieldpath"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/store"
	"github.com/goliatone/go-formstate/pkg/uischema"
	"github.com/goliatone/go-formstate/pkg/validation"
)

func intPtr(v int) *int { return &v }

func firstNameField() model.Field {
	return model.Field{
		Name: "firstName", Path: fieldpath.Parse("personalInfo/firstName"),
		Kind: model.KindString, Required: true,
		Constraints: schema.Constraints{MinLength: intPtr(2)},
	}
}

func lastNameField() model.Field {
	return model.Field{
		Name: "lastName", Path: fieldpath.Parse("personalInfo/lastName"),
		Kind: model.KindString, Required: true,
	}
}

func newStore() *store.Store {
	return store.New(map[string]any{
		"personalInfo": map[string]any{"firstName": "", "lastName": ""},
	})
}

type manualScheduler struct {
	pending []func()
}

func (m *manualScheduler) schedule(_ time.Duration, fn func()) func() {
	m.pending = append(m.pending, fn)
	return func() {}
}

func (m *manualScheduler) fire() {
	pending := m.pending
	m.pending = nil
	for _, fn := range pending {
		fn()
	}
}

func TestBlurRevealsErrorOnlyForTouchedField(t *testing.T) {
	s := newStore()
	first := field.NewController(s, firstNameField())
	last := field.NewController(s, lastNameField())
	defer first.Close()
	defer last.Close()

	first.OnEdit("")
	first.OnBlur()

	got := first.State()
	if len(got.VisibleErrors) != 1 || got.VisibleErrors[0] != "*Required" {
		t.Fatalf("touched field errors = %#v, want [*Required]", got.VisibleErrors)
	}

	if errs := last.State().VisibleErrors; len(errs) != 0 {
		t.Fatalf("untouched field should stay quiet, got %#v", errs)
	}
}

func TestSubmissionUnlocksUntouchedField(t *testing.T) {
	s := newStore()
	last := field.NewController(s, lastNameField())
	defer last.Close()

	s.SetDisplayMode(store.DisplayAll)

	got := last.State()
	if len(got.VisibleErrors) != 1 || got.VisibleErrors[0] != "*Required" {
		t.Fatalf("submission should unlock untouched fields, got %#v", got.VisibleErrors)
	}
}

func TestLocalCheckOutranksStaleStoreError(t *testing.T) {
	s := newStore()
	first := field.NewController(s, firstNameField())
	defer first.Close()

	// the store still carries a minLength error from the previous value
	s.SetErrors([]validation.Error{{
		Path:    fieldpath.Parse("personalInfo/firstName"),
		Keyword: "minLength",
		Kind:    validation.KindLength,
		Message: "*Must have at least 2 characters",
	}})

	first.OnEdit("")
	first.OnBlur()

	got := first.State()
	if len(got.VisibleErrors) != 1 || got.VisibleErrors[0] != "*Required" {
		t.Fatalf("local re-check should outrank the store list, got %#v", got.VisibleErrors)
	}
}

func TestAttentionRaisedBySubmissionTransition(t *testing.T) {
	scheduler := &manualScheduler{}
	s := newStore()
	last := field.NewController(s, lastNameField(), field.WithScheduler(scheduler.schedule))
	defer last.Close()

	if last.State().Attention {
		t.Fatalf("attention should start off")
	}

	s.SetDisplayMode(store.DisplayAll)

	if !last.State().Attention {
		t.Fatalf("attention not raised when submission exposed the error")
	}

	scheduler.fire()
	if last.State().Attention {
		t.Fatalf("attention did not clear after the delay")
	}
}

func TestOrdinaryTypingDoesNotRaiseAttention(t *testing.T) {
	s := newStore()
	first := field.NewController(s, firstNameField())
	defer first.Close()

	first.OnEdit("")
	first.OnBlur()

	got := first.State()
	if len(got.VisibleErrors) == 0 {
		t.Fatalf("expected a visible error")
	}
	if got.Attention {
		t.Fatalf("ordinary typing must not raise attention")
	}
}

func TestEditEchoIsSuppressed(t *testing.T) {
	s := store.New(map[string]any{
		"personalInfo": map[string]any{"firstName": "Li", "lastName": ""},
	})
	s.SetValidationCompleted(true)

	first := field.NewController(s, firstNameField())
	defer first.Close()

	// the write below echoes back while validation-complete is set; the
	// controller must not treat its own echo as a submission event
	first.OnEdit("")

	if first.State().Attention {
		t.Fatalf("controller raised attention from the echo of its own write")
	}
}

func TestEditNormalizesValue(t *testing.T) {
	s := newStore()
	first := field.NewController(s, firstNameField())
	defer first.Close()

	first.OnEdit("  Lee ")

	if got := first.State().Value; got != "Lee" {
		t.Fatalf("State().Value = %q, want %q", got, "Lee")
	}
	stored, _ := fieldpath.Lookup(s.Snapshot().Data, fieldpath.Parse("personalInfo/firstName"))
	if stored != "Lee" {
		t.Fatalf("store value = %q, want %q", stored, "Lee")
	}
}

func TestLayoutRulesDriveDisabledAndHidden(t *testing.T) {
	s := store.New(map[string]any{
		"inStock":  false,
		"quantity": 0,
	})

	control := uischema.Control{
		Path: fieldpath.Parse("quantity"),
		Rules: []uischema.Rule{{
			Effect: uischema.EffectEnable,
			Condition: uischema.Condition{
				Scope:  "#/properties/inStock",
				Schema: uischema.ConditionSchema{Const: true},
			},
		}},
	}
	quantity := field.NewController(s, model.Field{
		Name: "quantity", Path: fieldpath.Parse("quantity"), Kind: model.KindInteger,
	}, field.WithControl(control))
	defer quantity.Close()

	if got := quantity.State(); !got.Disabled {
		t.Fatalf("quantity should be disabled while out of stock")
	}

	s.UpdateData(fieldpath.Parse("inStock"), func(any) any { return true })

	if got := quantity.State(); got.Disabled {
		t.Fatalf("quantity should enable once in stock")
	}
}

func TestResetClearsTouched(t *testing.T) {
	s := newStore()
	first := field.NewController(s, firstNameField())
	defer first.Close()

	first.OnEdit("")
	first.OnBlur()
	if len(first.State().VisibleErrors) == 0 {
		t.Fatalf("expected a visible error before reset")
	}

	s.Reset(map[string]any{
		"personalInfo": map[string]any{"firstName": "", "lastName": ""},
	})
	first.Reset()

	if first.Touched() {
		t.Fatalf("Reset() did not clear touched")
	}
	if errs := first.State().VisibleErrors; len(errs) != 0 {
		t.Fatalf("Reset() left visible errors: %#v", errs)
	}
}
