// Package export writes stored survey submissions as CSV or GeoJSON.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/benjamintian2005/AITripPlanner/internal/model"
)

const (
	FormatCSV     = "csv"
	FormatGeoJSON = "geojson"
)

// Ext returns the file extension for format.
func Ext(format string) string {
	if format == FormatGeoJSON {
		return ".geojson"
	}
	return ".csv"
}

var csvHeader = []string{
	"id", "submitted_at", "gender", "age_range", "ethnicity", "budget_tier",
	"group_type", "group_size", "child_friendly", "duration_days",
	"location_label", "lat", "lng",
}

// WriteCSV writes one row per submission. Rows without coordinates leave lat and lng empty.
func WriteCSV(w io.Writer, subs []model.Submission) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range subs {
		var lat, lng string
		if s.Coordinates != nil {
			lat = fmt.Sprintf("%.6f", s.Coordinates.Lat)
			lng = fmt.Sprintf("%.6f", s.Coordinates.Lng)
		}
		row := []string{
			s.ID,
			s.SubmittedAt.UTC().Format(time.RFC3339),
			s.Gender,
			s.AgeRange,
			s.Ethnicity,
			s.BudgetTier,
			s.GroupType,
			s.GroupSize,
			strconv.FormatBool(s.ChildFriendly),
			s.DurationDays,
			s.LocationLabel,
			lat,
			lng,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FeatureCollection builds point features for submissions with coordinates.
// Catalog and manually entered locations have no position and are skipped.
func FeatureCollection(subs []model.Submission) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range subs {
		if s.Coordinates == nil {
			continue
		}
		f := geojson.NewFeature(s.Coordinates.Point())
		f.ID = s.ID
		f.Properties["submitted_at"] = s.SubmittedAt.UTC().Format(time.RFC3339)
		f.Properties["location_label"] = s.LocationLabel
		f.Properties["budget_tier"] = s.BudgetTier
		f.Properties["group_type"] = s.GroupType
		f.Properties["group_size"] = s.GroupSize
		f.Properties["duration_days"] = s.DurationDays
		f.Properties["child_friendly"] = s.ChildFriendly
		fc.Append(f)
	}
	return fc
}

// WriteGeoJSON writes FeatureCollection(subs) and returns the number of features.
func WriteGeoJSON(w io.Writer, subs []model.Submission) (int, error) {
	fc := FeatureCollection(subs)
	data, err := fc.MarshalJSON()
	if err != nil {
		return 0, fmt.Errorf("encoding geojson: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return 0, err
	}
	return len(fc.Features), nil
}

// Write dispatches on format and returns the number of records written.
func Write(w io.Writer, format string, subs []model.Submission) (int, error) {
	switch format {
	case FormatCSV:
		return len(subs), WriteCSV(w, subs)
	case FormatGeoJSON:
		return WriteGeoJSON(w, subs)
	default:
		return 0, fmt.Errorf("unsupported format: %s (want %s or %s)", format, FormatCSV, FormatGeoJSON)
	}
}
