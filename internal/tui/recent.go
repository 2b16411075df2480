package tui

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const maxRecent = 10

// RecentSignIn is one remembered sign-in, newest first in recent.json.
type RecentSignIn struct {
	Email      string    `json:"email"`
	SignedInAt time.Time `json:"signed_in_at"`
}

func recentFilePath(dataDir string) string {
	return filepath.Join(dataDir, "recent.json")
}

// LoadRecent returns remembered sign-ins. A missing or corrupt file yields none.
func LoadRecent(dataDir string) []RecentSignIn {
	data, err := os.ReadFile(recentFilePath(dataDir))
	if err != nil {
		return nil
	}
	var entries []RecentSignIn
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	return entries
}

// LastEmail is the most recently used sign-in email, or "".
func LastEmail(dataDir string) string {
	entries := LoadRecent(dataDir)
	if len(entries) == 0 {
		return ""
	}
	return entries[0].Email
}

// SaveRecent moves email to the front of the remembered sign-ins.
func SaveRecent(dataDir, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}

	entries := LoadRecent(dataDir)

	// Remove duplicate
	filtered := make([]RecentSignIn, 0, len(entries)+1)
	for _, e := range entries {
		if e.Email != email {
			filtered = append(filtered, e)
		}
	}

	// Prepend
	filtered = append([]RecentSignIn{{Email: email, SignedInAt: time.Now()}}, filtered...)
	if len(filtered) > maxRecent {
		filtered = filtered[:maxRecent]
	}

	data, err := json.MarshalIndent(filtered, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(recentFilePath(dataDir), data, 0o644)
}
