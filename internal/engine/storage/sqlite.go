package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/benjamintian2005/AITripPlanner/internal/model"
)

var (
	ErrAccountExists   = errors.New("account already exists")
	ErrAccountNotFound = errors.New("account not found")
)

// timeLayout is fixed-width so TEXT ordering matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Store struct {
	db *sql.DB
	mu sync.Mutex
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		submitted_at TEXT NOT NULL,
		gender TEXT NOT NULL,
		age_range TEXT NOT NULL,
		ethnicity TEXT,
		budget_tier TEXT NOT NULL,
		group_type TEXT NOT NULL,
		group_size TEXT NOT NULL,
		child_friendly INTEGER NOT NULL DEFAULT 0,
		duration_days TEXT NOT NULL,
		location_label TEXT NOT NULL,
		lat REAL,
		lng REAL
	);
	CREATE INDEX IF NOT EXISTS idx_submissions_submitted_at ON submissions(submitted_at);

	CREATE TABLE IF NOT EXISTS feedback (
		id TEXT PRIMARY KEY,
		emotion TEXT NOT NULL,
		event_title TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS accounts (
		email TEXT PRIMARY KEY,
		name TEXT,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

func (s *Store) SaveSubmission(sub model.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lat, lng sql.NullFloat64
	if c := sub.Coordinates; c != nil {
		lat = sql.NullFloat64{Float64: c.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: c.Lng, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO submissions
		(id, submitted_at, gender, age_range, ethnicity, budget_tier, group_type, group_size,
		 child_friendly, duration_days, location_label, lat, lng)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		sub.ID, sub.SubmittedAt.UTC().Format(timeLayout),
		sub.Gender, sub.AgeRange, sub.Ethnicity, sub.BudgetTier, sub.GroupType, sub.GroupSize,
		sub.ChildFriendly, sub.DurationDays, sub.LocationLabel, lat, lng,
	)
	if err != nil {
		return fmt.Errorf("inserting submission: %w", err)
	}
	return nil
}

// ListSubmissions returns submissions newest first.
func (s *Store) ListSubmissions() ([]model.Submission, error) {
	rows, err := s.db.Query(`
		SELECT id, submitted_at, gender, age_range, ethnicity, budget_tier, group_type, group_size,
		       child_friendly, duration_days, location_label, lat, lng
		FROM submissions ORDER BY submitted_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var sub model.Submission
		var ts string
		var ethnicity sql.NullString
		var lat, lng sql.NullFloat64
		err := rows.Scan(
			&sub.ID, &ts, &sub.Gender, &sub.AgeRange, &ethnicity, &sub.BudgetTier, &sub.GroupType, &sub.GroupSize,
			&sub.ChildFriendly, &sub.DurationDays, &sub.LocationLabel, &lat, &lng,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		sub.Ethnicity = ethnicity.String
		sub.SubmittedAt, _ = time.Parse(time.RFC3339Nano, ts)
		if lat.Valid && lng.Valid {
			sub.Coordinates = &model.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *Store) CountSubmissions() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM submissions").Scan(&count)
	return count, err
}

func (s *Store) SaveFeedback(fb model.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO feedback (id, emotion, event_title, created_at) VALUES (?,?,?,?)`,
		fb.ID, fb.Emotion, fb.EventTitle, fb.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("inserting feedback: %w", err)
	}
	return nil
}

// ListFeedback returns feedback newest first.
func (s *Store) ListFeedback() ([]model.Feedback, error) {
	rows, err := s.db.Query(`SELECT id, emotion, event_title, created_at FROM feedback ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer rows.Close()

	var out []model.Feedback
	for rows.Next() {
		var fb model.Feedback
		var title sql.NullString
		var ts string
		if err := rows.Scan(&fb.ID, &fb.Emotion, &title, &ts); err != nil {
			return nil, fmt.Errorf("scanning feedback: %w", err)
		}
		fb.EventTitle = title.String
		fb.CreatedAt, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, fb)
	}
	return out, rows.Err()
}

// CreateAccount stores a new account. Emails are compared case-insensitively.
func (s *Store) CreateAccount(acc model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(acc.Email))
	var exists int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM accounts WHERE email = ?", email).Scan(&exists); err != nil {
		return fmt.Errorf("checking account: %w", err)
	}
	if exists > 0 {
		return ErrAccountExists
	}

	_, err := s.db.Exec(`INSERT INTO accounts (email, name, password_hash, created_at) VALUES (?,?,?,?)`,
		email, acc.Name, acc.PasswordHash, acc.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("inserting account: %w", err)
	}
	return nil
}

func (s *Store) FindAccount(email string) (model.Account, error) {
	var acc model.Account
	var name sql.NullString
	var ts string
	err := s.db.QueryRow(`SELECT email, name, password_hash, created_at FROM accounts WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email))).Scan(&acc.Email, &name, &acc.PasswordHash, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("querying account: %w", err)
	}
	acc.Name = name.String
	acc.CreatedAt, _ = time.Parse(time.RFC3339Nano, ts)
	return acc, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
