package geo

import (
	"context"
	"errors"
	"testing"

	"github.com/benjamintian2005/AITripPlanner/internal/model"
)

type fakePermission struct {
	granted bool
	err     error
	calls   int
}

func (p *fakePermission) Request(ctx context.Context) (bool, error) {
	p.calls++
	return p.granted, p.err
}

type fakePositioner struct {
	coords model.Coordinates
	err    error
	calls  int
}

func (p *fakePositioner) CurrentPosition(ctx context.Context) (model.Coordinates, error) {
	p.calls++
	return p.coords, p.err
}

type fakeGeocoder struct {
	addrs []Address
	err   error
	calls int
}

func (g *fakeGeocoder) Name() string { return "fake" }

func (g *fakeGeocoder) ReverseGeocode(ctx context.Context, c model.Coordinates) ([]Address, error) {
	g.calls++
	return g.addrs, g.err
}

func TestComposeLabel(t *testing.T) {
	tests := []struct {
		name  string
		addrs []Address
		want  string
	}{
		{"all components", []Address{{City: "Lyon", Region: "Auvergne-Rhône-Alpes", Country: "France"}}, "Lyon, Auvergne-Rhône-Alpes, France"},
		{"empty region", []Address{{City: "Paris", Region: "", Country: "France"}}, "Paris, France"},
		{"country only", []Address{{Country: "Japan"}}, "Japan"},
		{"no candidates", nil, "Current Location"},
		{"empty candidate", []Address{{}}, "Current Location"},
		{"first candidate wins", []Address{{City: "Rome"}, {City: "Milan"}}, "Rome"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComposeLabel(tt.addrs); got != tt.want {
				t.Errorf("ComposeLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve_Success(t *testing.T) {
	pos := &fakePositioner{coords: model.Coordinates{Lat: 48.8566, Lng: 2.3522}}
	geo := &fakeGeocoder{addrs: []Address{{City: "Paris", Country: "France"}}}
	r := NewResolver(&fakePermission{granted: true}, pos, geo, nil)

	res, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Label != "Paris, France" {
		t.Errorf("label = %q", res.Label)
	}
	if res.Coordinates != pos.coords {
		t.Errorf("coordinates = %+v, want %+v", res.Coordinates, pos.coords)
	}
}

func TestResolve_NoCandidatesFallsBack(t *testing.T) {
	r := NewResolver(&fakePermission{granted: true},
		&fakePositioner{coords: model.Coordinates{Lat: 0, Lng: -30}},
		&fakeGeocoder{}, nil)

	res, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Label != FallbackLabel {
		t.Errorf("label = %q, want %q", res.Label, FallbackLabel)
	}
}

func TestResolve_PermissionDeniedStopsEarly(t *testing.T) {
	pos := &fakePositioner{}
	geo := &fakeGeocoder{}
	r := NewResolver(&fakePermission{granted: false}, pos, geo, nil)

	_, err := r.Resolve(context.Background())
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if pos.calls != 0 || geo.calls != 0 {
		t.Errorf("position/geocode called after denial: %d/%d", pos.calls, geo.calls)
	}
}

func TestResolve_StepFailuresAreUnavailable(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name string
		perm *fakePermission
		pos  *fakePositioner
		geo  *fakeGeocoder
	}{
		{"permission lookup", &fakePermission{err: boom}, &fakePositioner{}, &fakeGeocoder{}},
		{"position", &fakePermission{granted: true}, &fakePositioner{err: boom}, &fakeGeocoder{}},
		{"geocode", &fakePermission{granted: true}, &fakePositioner{}, &fakeGeocoder{err: boom}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewResolver(tt.perm, tt.pos, tt.geo, nil).Resolve(context.Background())
			if !errors.Is(err, ErrLocationUnavailable) {
				t.Fatalf("expected ErrLocationUnavailable, got %v", err)
			}
			if !errors.Is(err, boom) {
				t.Errorf("cause not wrapped: %v", err)
			}
			if errors.Is(err, ErrPermissionDenied) {
				t.Errorf("step failure reported as permission denial")
			}
		})
	}
}

func TestFallbackGeocoder(t *testing.T) {
	primary := &fakeGeocoder{err: errors.New("offline")}
	secondary := &fakeGeocoder{addrs: []Address{{Country: "Chile"}}}
	f := Fallback{Primary: primary, Secondary: secondary}

	addrs, err := f.ReverseGeocode(context.Background(), model.Coordinates{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(addrs) != 1 || addrs[0].Country != "Chile" {
		t.Errorf("addrs = %+v", addrs)
	}

	secondary.err = errors.New("also offline")
	if _, err := f.ReverseGeocode(context.Background(), model.Coordinates{}); err == nil {
		t.Errorf("expected error when both providers fail")
	}

	primary.err = nil
	primary.addrs = []Address{{City: "Santiago"}}
	secondary.calls = 0
	addrs, _ = f.ReverseGeocode(context.Background(), model.Coordinates{})
	if addrs[0].City != "Santiago" || secondary.calls != 0 {
		t.Errorf("primary result not used: %+v (secondary calls %d)", addrs, secondary.calls)
	}
}
