package model

import (
	"time"

	"github.com/paulmach/orb"
)

// Coordinates is a device-resolved position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point returns the coordinates as an orb.Point ([lng, lat]).
func (c Coordinates) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// Record is the trip-planning survey under construction.
// Empty strings mean unset. Coordinates is nil unless LocationLabel
// was derived from a device-resolved position.
type Record struct {
	Gender        string       `json:"gender"`
	AgeRange      string       `json:"age_range"`
	Ethnicity     string       `json:"ethnicity"`
	BudgetTier    string       `json:"budget_tier"`
	GroupType     string       `json:"group_type"`
	GroupSize     string       `json:"group_size"`
	ChildFriendly bool         `json:"child_friendly"`
	DurationDays  string       `json:"duration_days"`
	LocationLabel string       `json:"location_label"`
	Coordinates   *Coordinates `json:"coordinates"`
}

// HasCoordinates reports whether the location was resolved from the device.
func (r Record) HasCoordinates() bool {
	return r.Coordinates != nil
}

// Submission is a validated record handed to the results view.
type Submission struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submitted_at"`
	Record
}

// Feedback is an emotion picked after an event.
type Feedback struct {
	ID         string    `json:"id"`
	Emotion    string    `json:"emotion"`
	EventTitle string    `json:"event_title"`
	CreatedAt  time.Time `json:"created_at"`
}

// Account is a locally registered user.
type Account struct {
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Notice is a blocking user-facing message acknowledged with a single dismissal.
type Notice struct {
	Title   string
	Message string
}
