package main

import (
	"context"
	"testing"

	"github.com/benjamintian2005/AITripPlanner/internal/engine/geo"
	"github.com/benjamintian2005/AITripPlanner/internal/model"
	"github.com/benjamintian2005/AITripPlanner/internal/survey"
)

// modeResolver records the form's selection mode at the moment it is asked.
type modeResolver struct {
	form *survey.Form
	seen survey.SelectionMode
}

func (r *modeResolver) Resolve(ctx context.Context) (geo.Resolution, error) {
	r.seen = r.form.Selection().Mode()
	return geo.Resolution{Label: "Lisbon, Portugal", Coordinates: model.Coordinates{Lat: 38.7223, Lng: -9.1393}}, nil
}

func TestUseCurrentLocation_SwitchesToCustomFirst(t *testing.T) {
	for _, start := range []string{"", "paris"} {
		form := survey.NewForm()
		if start != "" {
			form.SelectLocation(start)
		}
		r := &modeResolver{form: form}

		if err := useCurrentLocation(context.Background(), form, r); err != nil {
			t.Fatalf("start %q: %v", start, err)
		}
		if r.seen != survey.ModeCustom {
			t.Errorf("start %q: resolved in mode %s", start, r.seen)
		}
		rec := form.Record()
		if rec.LocationLabel != "Lisbon, Portugal" || rec.Coordinates == nil {
			t.Errorf("start %q: record = %+v", start, rec)
		}
		form.Close()
	}
}
