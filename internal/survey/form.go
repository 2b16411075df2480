package survey

import (
	"context"
	"errors"
	"fmt"

	"github.com/benjamintian2005/AITripPlanner/internal/engine/geo"
	"github.com/benjamintian2005/AITripPlanner/internal/model"
)

// Section is one phase of the intake form.
type Section int

const (
	SectionPersonal Section = iota
	SectionTrip
)

func (s Section) String() string {
	if s == SectionTrip {
		return "trip"
	}
	return "personal"
}

var (
	ErrNotTripSection  = errors.New("submit is only available from the trip section")
	ErrNotCustomMode   = errors.New("manual location entry requires custom mode")
	ErrNotTextField    = errors.New("field is not a text or choice field")
	ErrResolveInFlight = errors.New("a location resolution is already in progress")
	ErrStaleResolution = errors.New("resolution result discarded")
	ErrFormClosed      = errors.New("survey form is closed")
)

// Handoff receives the validated record on submit (navigation to results).
type Handoff interface {
	Proceed(rec model.Record) error
}

// HandoffFunc adapts a function to Handoff.
type HandoffFunc func(rec model.Record) error

func (f HandoffFunc) Proceed(rec model.Record) error { return f(rec) }

// LocationResolver is the device location capability; *geo.Resolver implements it.
type LocationResolver interface {
	Resolve(ctx context.Context) (geo.Resolution, error)
}

// Ticket identifies one outstanding location resolution.
type Ticket uint64

// Form owns a survey record for the lifetime of one survey screen.
// It is not safe for concurrent use: callers serialise access
// (the TUI does so through its event loop).
type Form struct {
	record    model.Record
	section   Section
	selection Selection
	picker    string

	resolving bool
	ticket    Ticket
	closed    bool
}

func NewForm() *Form {
	return &Form{}
}

// Record returns a copy of the record.
func (f *Form) Record() model.Record {
	r := f.record
	if r.Coordinates != nil {
		c := *r.Coordinates
		r.Coordinates = &c
	}
	return r
}

func (f *Form) Section() Section { return f.section }

func (f *Form) Selection() Selection { return f.selection }

// PickerValue is the raw location picker value, "" for the placeholder.
func (f *Form) PickerValue() string { return f.picker }

// Resolving reports whether a location resolution is outstanding.
func (f *Form) Resolving() bool { return f.resolving }

// SetField sets a categorical or free-text field. Location and child-friendly
// have their own operations.
func (f *Form) SetField(field Field, value string) error {
	switch field {
	case FieldGender:
		f.record.Gender = value
	case FieldAgeRange:
		f.record.AgeRange = value
	case FieldEthnicity:
		f.record.Ethnicity = value
	case FieldBudgetTier:
		f.record.BudgetTier = value
	case FieldGroupType:
		f.record.GroupType = value
	case FieldGroupSize:
		f.record.GroupSize = value
	case FieldDurationDays:
		f.record.DurationDays = value
	default:
		return fmt.Errorf("%w: %s", ErrNotTextField, field)
	}
	return nil
}

func (f *Form) SetChildFriendly(v bool) { f.record.ChildFriendly = v }

func (f *Form) ToggleChildFriendly() { f.record.ChildFriendly = !f.record.ChildFriendly }

// SelectLocation applies a location picker choice and reports whether the
// record changed mode. Unknown keys are ignored; the placeholder only
// records the picker value.
func (f *Form) SelectLocation(choice string) bool {
	switch choice {
	case "":
		f.picker = ""
		return false
	case CustomKey:
		f.picker = CustomKey
		f.selection = CustomSelection()
		f.record.LocationLabel = ""
		f.record.Coordinates = nil
		return true
	}

	d, ok := LookupDestination(choice)
	if !ok {
		return false
	}
	f.picker = choice
	f.selection = CatalogSelection(d.Key)
	f.record.LocationLabel = d.Label
	f.record.Coordinates = nil
	return true
}

// SetCustomLocation sets the label from manual entry. Coordinates are cleared.
func (f *Form) SetCustomLocation(label string) error {
	if !f.selection.IsCustom() {
		return ErrNotCustomMode
	}
	f.record.LocationLabel = label
	f.record.Coordinates = nil
	return nil
}

// Next moves personal -> trip when the personal section is complete.
func (f *Form) Next() error {
	if missing := MissingPersonal(f.record); len(missing) > 0 {
		return personalError(missing)
	}
	f.section = SectionTrip
	return nil
}

// Back returns to the personal section unconditionally.
func (f *Form) Back() {
	f.section = SectionPersonal
}

// Submit validates the trip section and hands the record to h.
func (f *Form) Submit(h Handoff) error {
	if f.section != SectionTrip {
		return ErrNotTripSection
	}
	if missing := MissingTrip(f.record); len(missing) > 0 {
		return tripError(missing)
	}
	if err := h.Proceed(f.Record()); err != nil {
		return fmt.Errorf("handing off survey: %w", err)
	}
	return nil
}

// BeginResolve marks a resolution as outstanding. Only one may be in flight.
func (f *Form) BeginResolve() (Ticket, error) {
	if f.closed {
		return 0, ErrFormClosed
	}
	if f.resolving {
		return 0, ErrResolveInFlight
	}
	f.ticket++
	f.resolving = true
	return f.ticket, nil
}

// CompleteResolve applies the outcome of the resolution identified by t.
// Results for a closed form or a superseded ticket are discarded with
// ErrStaleResolution. A failed resolution leaves the record untouched and
// its error is returned.
func (f *Form) CompleteResolve(t Ticket, res geo.Resolution, err error) error {
	if f.closed || t != f.ticket || !f.resolving {
		return ErrStaleResolution
	}
	f.resolving = false
	if err != nil {
		return err
	}

	c := res.Coordinates
	f.record.LocationLabel = res.Label
	f.record.Coordinates = &c
	f.selection = CustomSelection()
	f.picker = CustomKey
	return nil
}

// ResolveCurrentLocation runs r synchronously and applies the result.
func (f *Form) ResolveCurrentLocation(ctx context.Context, r LocationResolver) error {
	t, err := f.BeginResolve()
	if err != nil {
		return err
	}
	res, err := r.Resolve(ctx)
	return f.CompleteResolve(t, res, err)
}

// Close tears the form down. Later completions are discarded.
func (f *Form) Close() {
	f.closed = true
	f.resolving = false
}

// Completion is the share of required fields filled, for progress display.
func (f *Form) Completion() float64 {
	const required = 7
	missing := len(MissingPersonal(f.record)) + len(MissingTrip(f.record))
	return float64(required-missing) / required
}
