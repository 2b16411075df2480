package views

import (
	"context"
	"testing"

	"github.com/benjamintian2005/AITripPlanner/internal/engine/geo"
	"github.com/benjamintian2005/AITripPlanner/internal/model"
	"github.com/benjamintian2005/AITripPlanner/internal/survey"
)

type memSaver struct {
	subs []model.Submission
}

func (m *memSaver) SaveSubmission(sub model.Submission) error {
	m.subs = append(m.subs, sub)
	return nil
}

// gatedResolver honours the permission it was built with.
type gatedResolver struct {
	p   geo.Permission
	res geo.Resolution
}

func (g gatedResolver) Resolve(ctx context.Context) (geo.Resolution, error) {
	ok, err := g.p.Request(ctx)
	if err != nil || !ok {
		return geo.Resolution{}, geo.ErrPermissionDenied
	}
	return g.res, nil
}

func kyotoDeps(p geo.Permission) LocationDeps {
	return LocationDeps{
		Permission: p,
		Resolver: func(p geo.Permission) survey.LocationResolver {
			return gatedResolver{p: p, res: geo.Resolution{
				Label:       "Kyoto, Japan",
				Coordinates: model.Coordinates{Lat: 35.0116, Lng: 135.7681},
			}}
		},
	}
}

// toTripSection picks the first gender and age options and advances.
func toTripSection(t *testing.T, m SurveyModel) SurveyModel {
	t.Helper()
	m, _ = press(t, m, "right", "down", "right", "enter")
	if m.form.Section() != survey.SectionTrip {
		t.Fatalf("section = %v, notice = %+v", m.form.Section(), m.notice)
	}
	return m
}

// toCustomLocation moves focus to the location picker and wraps it back to "Custom Location".
func toCustomLocation(t *testing.T, m SurveyModel) SurveyModel {
	t.Helper()
	m, _ = press(t, m, "down", "down", "down", "down", "down", "left")
	if !m.form.Selection().IsCustom() {
		t.Fatalf("selection = %s, picker = %q", m.form.Selection().Mode(), m.form.PickerValue())
	}
	return m
}

func hasCurrentRow(m SurveyModel) bool {
	for _, r := range m.rows() {
		if r.kind == rowCurrent {
			return true
		}
	}
	return false
}

func TestSurvey_CurrentLocationLockedOutsideCustomMode(t *testing.T) {
	m := toTripSection(t, NewSurveyModel(&memSaver{}, kyotoDeps(geo.StaticPermission(true)), nil))

	if hasCurrentRow(m) {
		t.Error("current-location row shown with no location chosen")
	}
	m, cmd := press(t, m, "ctrl+l")
	if m.form.Resolving() || m.askConsent || cmd != nil {
		t.Fatalf("ctrl+l started a lookup with no location chosen")
	}

	// Location picker -> first catalog destination.
	m, _ = press(t, m, "down", "down", "down", "down", "down", "right")
	if !m.form.Selection().IsCatalog() {
		t.Fatalf("selection = %s", m.form.Selection().Mode())
	}
	if hasCurrentRow(m) {
		t.Error("current-location row shown in catalog mode")
	}
	m, cmd = press(t, m, "ctrl+l")
	if m.form.Resolving() || cmd != nil {
		t.Fatal("ctrl+l started a lookup in catalog mode")
	}
	if rec := m.form.Record(); rec.LocationLabel != "New York, USA" || rec.Coordinates != nil {
		t.Errorf("record = %+v", rec)
	}

	// Wrap back past the placeholder to custom.
	m, _ = press(t, m, "left", "left")
	if !m.form.Selection().IsCustom() || !hasCurrentRow(m) {
		t.Fatalf("selection = %s, current row = %v", m.form.Selection().Mode(), hasCurrentRow(m))
	}
}

func TestSurvey_DurationAcceptsDigitsOnly(t *testing.T) {
	m := toTripSection(t, NewSurveyModel(&memSaver{}, kyotoDeps(nil), nil))

	m, _ = press(t, m, "down", "down", "down", "down", "1", "x", " ", "4")
	if got := m.form.Record().DurationDays; got != "14" {
		t.Errorf("duration = %q, want 14", got)
	}
	if got := m.duration.Value(); got != "14" {
		t.Errorf("input = %q", got)
	}
}

func TestSurvey_PersonalRequiresGenderAndAge(t *testing.T) {
	m := NewSurveyModel(&memSaver{}, kyotoDeps(nil), nil)

	m, _ = press(t, m, "enter")
	if m.notice == nil || m.notice.Title != "Missing Information" {
		t.Fatalf("notice = %+v", m.notice)
	}
	if m.form.Section() != survey.SectionPersonal {
		t.Errorf("section = %v", m.form.Section())
	}

	m, _ = press(t, m, "enter")
	if m.notice != nil {
		t.Errorf("notice not dismissed: %+v", m.notice)
	}
}

func TestSurvey_EscFromTripReturnsToPersonal(t *testing.T) {
	m := toTripSection(t, NewSurveyModel(&memSaver{}, kyotoDeps(nil), nil))

	m, _ = press(t, m, "esc")
	if m.form.Section() != survey.SectionPersonal {
		t.Fatalf("section = %v", m.form.Section())
	}
	rec := m.form.Record()
	if rec.Gender != "male" || rec.AgeRange != "under-18" {
		t.Errorf("personal answers lost: %+v", rec)
	}

	_, cmd := press(t, m, "esc")
	findMsg[NavigateToHome](t, cmd)
}

func TestSurvey_ResolveAndSubmit(t *testing.T) {
	saver := &memSaver{}
	m := toTripSection(t, NewSurveyModel(saver, kyotoDeps(geo.StaticPermission(true)), nil))

	// budget, group type, group size, skip toggle, duration
	m, _ = press(t, m, "right", "down", "right", "down", "right", "down", "down", "5")
	if got := m.form.Record().DurationDays; got != "5" {
		t.Fatalf("duration = %q", got)
	}
	m, _ = press(t, m, "down", "left")
	if !m.form.Selection().IsCustom() {
		t.Fatalf("selection = %s", m.form.Selection().Mode())
	}

	m, cmd := press(t, m, "ctrl+l")
	if !m.form.Resolving() {
		t.Fatal("expected resolution in flight")
	}
	resolved := findMsg[locationResolvedMsg](t, cmd)
	next, _ := m.Update(resolved)
	m = next.(SurveyModel)

	rec := m.form.Record()
	if rec.LocationLabel != "Kyoto, Japan" || rec.Coordinates == nil {
		t.Fatalf("record = %+v", rec)
	}
	if m.custom.Value() != "Kyoto, Japan" {
		t.Errorf("custom input = %q", m.custom.Value())
	}

	// Move off the current-location row onto the custom entry, then submit.
	_, cmd = press(t, m, "up", "enter")
	nav := findMsg[NavigateToEvent](t, cmd)
	if len(saver.subs) != 1 {
		t.Fatalf("saved %d submissions", len(saver.subs))
	}
	if nav.Submission.ID != saver.subs[0].ID || nav.Submission.Coordinates == nil {
		t.Errorf("navigated with %+v", nav.Submission)
	}
}

func TestSurvey_ConsentDeniedShowsNotice(t *testing.T) {
	m := toCustomLocation(t, toTripSection(t, NewSurveyModel(&memSaver{}, kyotoDeps(nil), nil)))

	m, cmd := press(t, m, "ctrl+l")
	if !m.askConsent || cmd != nil {
		t.Fatalf("expected consent prompt, askConsent=%v", m.askConsent)
	}

	m, cmd = press(t, m, "n")
	resolved := findMsg[locationResolvedMsg](t, cmd)
	next, _ := m.Update(resolved)
	m = next.(SurveyModel)

	if m.notice == nil || m.notice.Title != "Permission Denied" {
		t.Fatalf("notice = %+v", m.notice)
	}
	if rec := m.form.Record(); rec.LocationLabel != "" || rec.Coordinates != nil {
		t.Errorf("record changed after denial: %+v", rec)
	}
}

func TestSurvey_ResultAfterCloseIsDiscarded(t *testing.T) {
	m := toCustomLocation(t, toTripSection(t, NewSurveyModel(&memSaver{}, kyotoDeps(geo.StaticPermission(true)), nil)))

	m, cmd := press(t, m, "ctrl+l")
	resolved := findMsg[locationResolvedMsg](t, cmd)
	m.Close()

	next, _ := m.Update(resolved)
	m = next.(SurveyModel)
	if m.notice != nil {
		t.Errorf("unexpected notice %+v", m.notice)
	}
	if rec := m.form.Record(); rec.LocationLabel != "" {
		t.Errorf("record = %+v", rec)
	}
}
