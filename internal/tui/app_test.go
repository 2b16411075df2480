package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benjamintian2005/AITripPlanner/internal/auth"
	"github.com/benjamintian2005/AITripPlanner/internal/engine/storage"
	"github.com/benjamintian2005/AITripPlanner/internal/model"
	"github.com/benjamintian2005/AITripPlanner/internal/tui/views"
)

func TestRecent_MostRecentFirstWithoutDuplicates(t *testing.T) {
	dir := t.TempDir()
	if got := LastEmail(dir); got != "" {
		t.Fatalf("LastEmail on empty dir = %q", got)
	}

	for _, email := range []string{"a@example.com", "b@example.com", " A@Example.com "} {
		if err := SaveRecent(dir, email); err != nil {
			t.Fatalf("SaveRecent(%q): %v", email, err)
		}
	}

	entries := LoadRecent(dir)
	if len(entries) != 2 {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].Email != "a@example.com" || entries[1].Email != "b@example.com" {
		t.Errorf("order = %+v", entries)
	}
	if LastEmail(dir) != "a@example.com" {
		t.Errorf("LastEmail = %q", LastEmail(dir))
	}
}

func TestRecent_CorruptFileIgnored(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "recent.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if entries := LoadRecent(dir); entries != nil {
		t.Errorf("entries = %+v", entries)
	}
	if err := SaveRecent(dir, "c@example.com"); err != nil {
		t.Fatalf("SaveRecent: %v", err)
	}
	if LastEmail(dir) != "c@example.com" {
		t.Errorf("LastEmail = %q", LastEmail(dir))
	}
}

func TestApp_SignInAndOut(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewStore(filepath.Join(dir, "tripadapt.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	app := NewApp(Deps{Store: store, Auth: auth.NewLocalAuthenticator(store), DataDir: dir})
	if app.currentView != viewAuth {
		t.Fatalf("start view = %v", app.currentView)
	}

	next, _ := app.Update(views.SignedIn{User: auth.User{Email: "traveller@example.com"}})
	app = next.(App)
	if app.currentView != viewHome {
		t.Fatalf("view after sign-in = %v", app.currentView)
	}
	if LastEmail(dir) != "traveller@example.com" {
		t.Errorf("recent email = %q", LastEmail(dir))
	}

	next, _ = app.Update(views.NavigateToHistory{})
	app = next.(App)
	if app.currentView != viewHistory {
		t.Fatalf("view = %v", app.currentView)
	}

	next, _ = app.Update(views.SignOut{})
	app = next.(App)
	if app.currentView != viewAuth || app.user.Email != "" {
		t.Errorf("after sign-out view=%v user=%+v", app.currentView, app.user)
	}
}

func TestApp_HomeShowsStoredFeedback(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewStore(filepath.Join(dir, "tripadapt.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	now := time.Now()
	for _, fb := range []model.Feedback{
		{ID: "1", Emotion: "bored", EventTitle: "Harbour Walk", CreatedAt: now.Add(-time.Hour)},
		{ID: "2", Emotion: "happy", EventTitle: "Summit", CreatedAt: now},
	} {
		if err := store.SaveFeedback(fb); err != nil {
			t.Fatal(err)
		}
	}

	app := NewApp(Deps{Store: store, Auth: auth.NewLocalAuthenticator(store), DataDir: dir})
	next, _ := app.Update(views.SignedIn{User: auth.User{Email: "traveller@example.com"}})
	app = next.(App)

	view := app.home.View()
	for _, want := range []string{"0 stored submissions, 2 feedback responses", "Latest feedback: 😊 Happy (Summit)"} {
		if !strings.Contains(view, want) {
			t.Errorf("home view missing %q:\n%s", want, view)
		}
	}
}
