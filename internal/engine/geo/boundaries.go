package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/benjamintian2005/AITripPlanner/internal/model"
)

// BoundaryStore is an offline reverse geocoder over country polygons
// (Natural Earth admin-0 GeoJSON or anything with NAME/ADMIN properties).
type BoundaryStore struct {
	features map[string]*geojson.Feature // key: lowercase country name or ISO code
	ordered  []*geojson.Feature
}

// LoadBoundaryStore reads a GeoJSON FeatureCollection from path.
func LoadBoundaryStore(path string) (*BoundaryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading boundaries: %w", err)
	}
	return ParseBoundaries(data)
}

// ParseBoundaries builds a store from GeoJSON bytes.
func ParseBoundaries(data []byte) (*BoundaryStore, error) {
	fc := &geojson.FeatureCollection{}
	if err := json.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("parsing geojson: %w", err)
	}

	store := &BoundaryStore{
		features: make(map[string]*geojson.Feature),
	}

	for _, f := range fc.Features {
		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			continue
		}
		if countryName(f) == "" {
			continue
		}
		store.ordered = append(store.ordered, f)
		for _, prop := range []string{"NAME", "ADMIN", "ISO_A2", "ISO_A3"} {
			if v, ok := f.Properties[prop].(string); ok && v != "" && v != "-99" {
				store.features[strings.ToLower(v)] = f
			}
		}
	}

	if len(store.ordered) == 0 {
		return nil, fmt.Errorf("no country polygons in geojson")
	}
	return store, nil
}

func countryName(f *geojson.Feature) string {
	if name, ok := f.Properties["NAME"].(string); ok && name != "" {
		return name
	}
	admin, _ := f.Properties["ADMIN"].(string)
	return admin
}

func (bs *BoundaryStore) Name() string { return "boundaries" }

// CountryAt returns the country whose polygon contains c.
func (bs *BoundaryStore) CountryAt(c model.Coordinates) (string, bool) {
	point := c.Point()
	for _, f := range bs.ordered {
		if !f.Geometry.Bound().Contains(point) {
			continue
		}
		var hit bool
		switch g := f.Geometry.(type) {
		case orb.MultiPolygon:
			hit = planar.MultiPolygonContains(g, point)
		case orb.Polygon:
			hit = planar.PolygonContains(g, point)
		}
		if hit {
			return countryName(f), true
		}
	}
	return "", false
}

// ReverseGeocode yields a country-only candidate, or none over open water.
func (bs *BoundaryStore) ReverseGeocode(ctx context.Context, c model.Coordinates) ([]Address, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	country, ok := bs.CountryAt(c)
	if !ok {
		return nil, nil
	}
	return []Address{{Country: country}}, nil
}

// GetCountryPolygon returns the MultiPolygon for a country by name or ISO code.
func (bs *BoundaryStore) GetCountryPolygon(country string) (orb.MultiPolygon, error) {
	f, ok := bs.features[strings.ToLower(strings.TrimSpace(country))]
	if !ok {
		return nil, fmt.Errorf("country %q not found in boundaries", country)
	}

	switch g := f.Geometry.(type) {
	case orb.MultiPolygon:
		return g, nil
	case orb.Polygon:
		return orb.MultiPolygon{g}, nil
	default:
		return nil, fmt.Errorf("unexpected geometry type %T for %q", g, country)
	}
}
