package geo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/benjamintian2005/AITripPlanner/internal/model"
)

// Two unit squares: "Squareland" at [0,1]x[0,1] and "Farland" at [10,11]x[10,11] (lng x lat).
const testBoundaries = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"NAME": "Squareland", "ISO_A2": "SQ", "ISO_A3": "SQL"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]}},
    {"type": "Feature", "properties": {"ADMIN": "Farland", "ISO_A2": "-99"},
     "geometry": {"type": "MultiPolygon", "coordinates": [[[[10,10],[11,10],[11,11],[10,11],[10,10]]]]}},
    {"type": "Feature", "properties": {"NAME": "Pointland"},
     "geometry": {"type": "Point", "coordinates": [5,5]}}
  ]
}`

func TestBoundaryStore_ReverseGeocode(t *testing.T) {
	bs, err := ParseBoundaries([]byte(testBoundaries))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	tests := []struct {
		name   string
		coords model.Coordinates
		want   string
	}{
		{"inside polygon", model.Coordinates{Lat: 0.5, Lng: 0.5}, "Squareland"},
		{"inside multipolygon, ADMIN name", model.Coordinates{Lat: 10.5, Lng: 10.5}, "Farland"},
		{"open water", model.Coordinates{Lat: 5, Lng: 5}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addrs, err := bs.ReverseGeocode(context.Background(), tt.coords)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want == "" {
				if len(addrs) != 0 {
					t.Errorf("expected no candidates, got %+v", addrs)
				}
				if ComposeLabel(addrs) != FallbackLabel {
					t.Errorf("label should fall back")
				}
				return
			}
			if len(addrs) != 1 || addrs[0].Country != tt.want {
				t.Errorf("addrs = %+v, want country %q", addrs, tt.want)
			}
		})
	}
}

func TestBoundaryStore_GetCountryPolygon(t *testing.T) {
	bs, err := ParseBoundaries([]byte(testBoundaries))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, key := range []string{"Squareland", "sq", "SQL", " squareland "} {
		if _, err := bs.GetCountryPolygon(key); err != nil {
			t.Errorf("GetCountryPolygon(%q): %v", key, err)
		}
	}
	if _, err := bs.GetCountryPolygon("-99"); err == nil {
		t.Errorf("placeholder ISO code should not be indexed")
	}
	if _, err := bs.GetCountryPolygon("Pointland"); err == nil {
		t.Errorf("point features should be skipped")
	}
}

func TestLoadBoundaryStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "countries.geojson")
	if err := os.WriteFile(path, []byte(testBoundaries), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBoundaryStore(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := LoadBoundaryStore(filepath.Join(t.TempDir(), "missing.geojson")); err == nil {
		t.Errorf("expected error for missing file")
	}
	if _, err := ParseBoundaries([]byte(`{"type":"FeatureCollection","features":[]}`)); err == nil {
		t.Errorf("expected error for empty collection")
	}
}
