package views

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benjamintian2005/AITripPlanner/internal/model"
)

type staticLister []model.Submission

func (s staticLister) ListSubmissions() ([]model.Submission, error) { return s, nil }

func historyFixture() staticLister {
	now := time.Now()
	return staticLister{
		{
			ID: "b", SubmittedAt: now,
			Record: model.Record{
				BudgetTier: "luxury", GroupType: "couple", GroupSize: "2", DurationDays: "4",
				LocationLabel: "Zürich, Switzerland",
				Coordinates:   &model.Coordinates{Lat: 47.3769, Lng: 8.5417},
			},
		},
		{
			ID: "a", SubmittedAt: now.Add(-2 * time.Hour),
			Record: model.Record{
				BudgetTier: "budget", GroupType: "family", GroupSize: "3-4", DurationDays: "10",
				LocationLabel: "Tokyo, Japan",
			},
		},
	}
}

func TestMatchSubmissions(t *testing.T) {
	subs := historyFixture()
	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"b", "a"}},
		{"zurich", []string{"b"}},
		{"ZÜRICH luxury", []string{"b"}},
		{"family tokyo", []string{"a"}},
		{"budget-friendly", []string{"a"}},
		{"paris", nil},
	}
	for _, tt := range tests {
		var got []string
		for _, s := range matchSubmissions(subs, tt.query) {
			got = append(got, s.ID)
		}
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("matchSubmissions(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func loadedHistory(t *testing.T, dir string) HistoryModel {
	t.Helper()
	m := NewHistoryModel(historyFixture(), nil, dir)
	msg := m.Init()()
	next, _ := m.Update(msg)
	return next.(HistoryModel)
}

func TestHistory_LoadSelectsNewest(t *testing.T) {
	m := loadedHistory(t, t.TempDir())
	if m.selected != 0 || len(m.cardLines) == 0 || m.cardLines[0] != "Zürich, Switzerland" {
		t.Fatalf("selected=%d card=%v", m.selected, m.cardLines)
	}
	if m.pointIdx[0] != 0 || m.pointIdx[1] != -1 {
		t.Errorf("pointIdx = %v", m.pointIdx)
	}
	if !strings.Contains(m.jsonRaw, `"lat": 47.3769`) {
		t.Errorf("json = %s", m.jsonRaw)
	}
}

func TestHistory_ExportCSVAndGeoJSON(t *testing.T) {
	dir := t.TempDir()
	m := loadedHistory(t, dir)

	m, _ = press(t, m, "e")
	if !strings.Contains(m.exportMsg, "Exported 2 rows") {
		t.Fatalf("csv export message = %q", m.exportMsg)
	}
	m, _ = press(t, m, "g")
	if !strings.Contains(m.exportMsg, "Exported 1 rows") {
		t.Fatalf("geojson export message = %q", m.exportMsg)
	}

	for _, pattern := range []string{"*.csv", "*.geojson"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil || len(matches) != 1 {
			t.Fatalf("%s: %v %v", pattern, matches, err)
		}
		data, err := os.ReadFile(matches[0])
		if err != nil || len(data) == 0 {
			t.Errorf("%s empty: %v", matches[0], err)
		}
	}
}

func TestHistory_ToggleMapAndBack(t *testing.T) {
	m := loadedHistory(t, t.TempDir())

	m, _ = press(t, m, "2")
	if m.focus != focusSide {
		t.Fatalf("focus = %v", m.focus)
	}
	m, _ = press(t, m, "m")
	if !m.showMap {
		t.Fatal("map not shown")
	}
	if !strings.Contains(m.View(), "[2] Map") {
		t.Error("map panel label missing")
	}

	_, cmd := press(t, m, "esc", "esc")
	findMsg[NavigateToHome](t, cmd)
}
