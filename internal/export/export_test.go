package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/benjamintian2005/AITripPlanner/internal/model"
)

func sampleSubmissions() []model.Submission {
	at := time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)
	return []model.Submission{
		{ID: "cat", SubmittedAt: at, Record: model.Record{
			Gender: "female", AgeRange: "35-44", BudgetTier: "mid-range", GroupType: "family",
			GroupSize: "3-4", ChildFriendly: true, DurationDays: "10", LocationLabel: "Rome, Italy",
		}},
		{ID: "gps", SubmittedAt: at.Add(time.Hour), Record: model.Record{
			Gender: "male", AgeRange: "25-34", BudgetTier: "budget", GroupType: "individual",
			GroupSize: "1", DurationDays: "2", LocationLabel: "Lyon, Auvergne-Rhône-Alpes, France",
			Coordinates: &model.Coordinates{Lat: 45.764, Lng: 4.8357},
		}},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleSubmissions()); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0][0] != "id" || len(rows[0]) != len(csvHeader) {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][8] != "true" || rows[1][11] != "" {
		t.Errorf("catalog row = %v", rows[1])
	}
	if rows[2][11] != "45.764000" || rows[2][12] != "4.835700" {
		t.Errorf("resolved row lat/lng = %s,%s", rows[2][11], rows[2][12])
	}
	if rows[2][1] != "2026-05-02T10:30:00Z" {
		t.Errorf("submitted_at = %s", rows[2][1])
	}
}

func TestWriteGeoJSON_SkipsUnresolved(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteGeoJSON(&buf, sampleSubmissions())
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("features = %d", n)
	}

	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	p, ok := fc.Features[0].Geometry.(orb.Point)
	if !ok {
		t.Fatalf("geometry = %T", fc.Features[0].Geometry)
	}
	if p.Lon() != 4.8357 || p.Lat() != 45.764 {
		t.Errorf("point = %v (want lng,lat order)", p)
	}
	if got := fc.Features[0].Properties.MustString("location_label"); got != "Lyon, Auvergne-Rhône-Alpes, France" {
		t.Errorf("label = %q", got)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if _, err := Write(&bytes.Buffer{}, "xml", nil); err == nil {
		t.Error("expected error")
	}
	if Ext(FormatGeoJSON) != ".geojson" || Ext(FormatCSV) != ".csv" {
		t.Error("unexpected extensions")
	}
}
