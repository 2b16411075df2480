package survey

import (
	"errors"
	"testing"
	"time"

	"github.com/benjamintian2005/AITripPlanner/internal/model"
)

type memSaver struct {
	subs []model.Submission
	err  error
}

func (m *memSaver) SaveSubmission(sub model.Submission) error {
	if m.err != nil {
		return m.err
	}
	m.subs = append(m.subs, sub)
	return nil
}

func completeTripForm(t *testing.T) *Form {
	t.Helper()
	f := NewForm()
	f.SetField(FieldGender, "non-binary")
	f.SetField(FieldAgeRange, "45-54")
	if err := f.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	f.SetField(FieldBudgetTier, "luxury")
	f.SetField(FieldGroupType, "couple")
	f.SetField(FieldGroupSize, "2")
	f.SetField(FieldDurationDays, "4")
	f.SelectLocation("sydney")
	return f
}

func TestRecorder_StoresSubmission(t *testing.T) {
	saver := &memSaver{}
	rec := NewRecorder(saver)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rec.now = func() time.Time { return fixed }

	f := completeTripForm(t)
	if err := f.Submit(rec); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(saver.subs) != 1 {
		t.Fatalf("saved %d submissions", len(saver.subs))
	}
	got := rec.Last()
	if got.ID == "" || !got.SubmittedAt.Equal(fixed) {
		t.Errorf("submission = %+v", got)
	}
	if got.LocationLabel != "Sydney, Australia" || got.Coordinates != nil {
		t.Errorf("record = %+v", got.Record)
	}
}

func TestRecorder_SaveErrorPropagates(t *testing.T) {
	boom := errors.New("disk full")
	rec := NewRecorder(&memSaver{err: boom})
	f := completeTripForm(t)
	err := f.Submit(rec)
	if !errors.Is(err, boom) {
		t.Fatalf("Submit err = %v", err)
	}
	if rec.Last().ID != "" {
		t.Errorf("failed save must not be recorded")
	}
}
