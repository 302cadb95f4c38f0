// Package field implements the per-field presentation policy: whether an
// error is surfaced (touched / submitted / validation-complete), whether the
// field is disabled or hidden by layout rules, and the one-shot attention
// flag raised when a submission first exposes an error.
package field

import (
	"reflect"
	"time"

	"github.com/goliatone/go-formstate/pkg/fieldpath"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/normalize"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/store"
	"github.com/goliatone/go-formstate/pkg/submit"
	"github.com/goliatone/go-formstate/pkg/uischema"
)

// DefaultAttentionDelay is how long the attention flag stays up once a
// submission exposes a field's error.
const DefaultAttentionDelay = 500 * time.Millisecond

// State is what the rendering layer consumes for one field.
type State struct {
	Value         any
	Required      bool
	VisibleErrors []string
	Disabled      bool
	Hidden        bool
	Placeholder   string
	Attention     bool
}

// Controller tracks one field's interaction state against the shared store.
// Like the store it is confined to a single goroutine.
type Controller struct {
	store          *store.Store
	field          model.Field
	control        *uischema.Control
	scheduler      submit.Scheduler
	attentionDelay time.Duration

	snapshot        store.Snapshot
	touched         bool
	visible         bool
	attention       bool
	cancelAttention func()
	inUpdate        bool
	lastWritten     any
	unsubscribe     func()
}

// Option configures a Controller.
type Option func(*Controller)

// WithControl attaches the layout control carrying the field's SHOW/HIDE and
// ENABLE/DISABLE rules.
func WithControl(control uischema.Control) Option {
	return func(c *Controller) {
		c.control = &control
	}
}

// WithScheduler overrides the timer used to clear the attention flag.
func WithScheduler(scheduler submit.Scheduler) Option {
	return func(c *Controller) {
		c.scheduler = scheduler
	}
}

// WithAttentionDelay overrides how long the attention flag stays up.
func WithAttentionDelay(delay time.Duration) Option {
	return func(c *Controller) {
		c.attentionDelay = delay
	}
}

// NewController builds a controller for the field and subscribes it to the
// store.
func NewController(s *store.Store, field model.Field, options ...Option) *Controller {
	c := &Controller{
		store:          s,
		field:          field,
		scheduler:      submit.AfterFunc,
		attentionDelay: DefaultAttentionDelay,
	}
	for _, opt := range options {
		opt(c)
	}
	c.snapshot = s.Snapshot()
	c.visible = c.computeVisible(c.snapshot)
	c.unsubscribe = s.Subscribe(c.onSnapshot)
	return c
}

// Field returns the model field this controller manages.
func (c *Controller) Field() model.Field {
	return c.field
}

// Close unsubscribes the controller from the store.
func (c *Controller) Close() {
	if c.cancelAttention != nil {
		c.cancelAttention()
		c.cancelAttention = nil
	}
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// OnEdit normalizes the raw value and writes it back to the store. The first
// edit marks the field touched.
func (c *Controller) OnEdit(raw any) {
	c.touched = true
	value := normalize.Value(raw, c.field)

	c.inUpdate = true
	c.lastWritten = value
	c.store.UpdateData(c.field.Path, func(any) any { return value })
	c.inUpdate = false
}

// OnBlur marks the field touched.
func (c *Controller) OnBlur() {
	c.touched = true
	c.visible = c.computeVisible(c.snapshot)
}

// Reset clears the interaction state. It is the only way a field becomes
// untouched again.
func (c *Controller) Reset() {
	c.touched = false
	c.visible = false
	c.attention = false
	if c.cancelAttention != nil {
		c.cancelAttention()
		c.cancelAttention = nil
	}
	c.snapshot = c.store.Snapshot()
}

// Touched reports whether the field has been edited or blurred.
func (c *Controller) Touched() bool {
	return c.touched
}

// State derives the current presentation state from the last snapshot.
func (c *Controller) State() State {
	snap := c.snapshot
	value, _ := fieldpath.Lookup(snap.Data, c.field.Path)

	state := State{
		Value:       value,
		Required:    c.field.Required,
		Placeholder: c.field.Placeholder,
		Attention:   c.attention,
	}
	if c.control != nil {
		state.Disabled = !c.control.Enabled(snap.Data)
		state.Hidden = !c.control.Visible(snap.Data)
	}
	if c.computeVisible(snap) {
		state.VisibleErrors = c.displayErrors(snap)
	}
	return state
}

// onSnapshot tracks the latest store state. The echo of the controller's own
// write is absorbed without recomputing derived state, which breaks the
// update feedback loop.
func (c *Controller) onSnapshot(snap store.Snapshot) {
	if c.inUpdate {
		value, _ := fieldpath.Lookup(snap.Data, c.field.Path)
		if reflect.DeepEqual(value, c.lastWritten) {
			c.snapshot = snap
			return
		}
	}

	wasVisible := c.visible
	c.snapshot = snap
	c.visible = c.computeVisible(snap)

	if c.visible && !wasVisible && submissionEvent(snap) {
		c.raiseAttention()
	}
}

// computeVisible applies the visibility policy: errors exist for the field
// and at least one of touched / submitted / validation-complete holds.
func (c *Controller) computeVisible(snap store.Snapshot) bool {
	if len(c.displayErrors(snap)) == 0 {
		return false
	}
	return c.touched ||
		submitted(snap) ||
		snap.ValidationCompleted ||
		snap.DisplayMode == store.DisplayAll
}

// displayErrors re-runs the field's own lightweight check first; the store
// list may lag one update cycle behind the value, so a locally derived error
// outranks it. With no local finding the store's errors for this path are
// shown as published.
func (c *Controller) displayErrors(snap store.Snapshot) []string {
	value, _ := fieldpath.Lookup(snap.Data, c.field.Path)
	if local, found := rules.CheckLocal(c.field, value); found {
		return []string{local.Message}
	}

	var out []string
	for _, err := range snap.Errors {
		if !err.Path.Equal(c.field.Path) && !err.Path.DescendantOf(c.field.Path) {
			continue
		}
		message := err.Message
		if message == "" {
			message = rules.MessageFor(c.field, err)
		}
		out = append(out, message)
	}
	return out
}

func (c *Controller) raiseAttention() {
	if c.cancelAttention != nil {
		c.cancelAttention()
	}
	c.attention = true
	c.cancelAttention = c.scheduler(c.attentionDelay, func() {
		c.attention = false
		c.cancelAttention = nil
	})
}

func submitted(snap store.Snapshot) bool {
	return snap.Data[normalize.SubmittedKey] == true
}

// submissionEvent reports whether the snapshot was produced by the submit
// flow rather than ordinary typing.
func submissionEvent(snap store.Snapshot) bool {
	return snap.ValidationCompleted || snap.DisplayMode == store.DisplayAll
}
