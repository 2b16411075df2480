package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Decision is a stored answer to the location permission prompt.
type Decision string

const (
	DecisionAsk     Decision = ""
	DecisionGranted Decision = "granted"
	DecisionDenied  Decision = "denied"
)

// ParseDecision accepts "granted", "denied" or "" (ask).
func ParseDecision(s string) (Decision, error) {
	switch d := Decision(s); d {
	case DecisionAsk, DecisionGranted, DecisionDenied:
		return d, nil
	}
	return DecisionAsk, fmt.Errorf("unknown location consent %q (want granted, denied or empty)", s)
}

// StaticPermission answers every request the same way.
type StaticPermission bool

func (p StaticPermission) Request(ctx context.Context) (bool, error) {
	return bool(p), nil
}

type consentFile struct {
	Location  Decision  `json:"location"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConsentStore remembers the location decision in <dir>/consent.json.
type ConsentStore struct {
	path string
}

func NewConsentStore(dir string) *ConsentStore {
	return &ConsentStore{path: filepath.Join(dir, "consent.json")}
}

// Decision returns the remembered answer, DecisionAsk when none is stored.
func (s *ConsentStore) Decision() Decision {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return DecisionAsk
	}
	var cf consentFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return DecisionAsk
	}
	return cf.Location
}

// Remember stores d. DecisionAsk clears the stored answer.
func (s *ConsentStore) Remember(d Decision) error {
	if d == DecisionAsk {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("clearing consent: %w", err)
		}
		return nil
	}
	data, err := json.MarshalIndent(consentFile{Location: d, UpdatedAt: time.Now()}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing consent: %w", err)
	}
	return nil
}

// Request grants only when access was remembered as granted. Without an
// interactive prompt an undecided store counts as denied.
func (s *ConsentStore) Request(ctx context.Context) (bool, error) {
	return s.Decision() == DecisionGranted, nil
}
