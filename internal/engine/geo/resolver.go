package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/benjamintian2005/AITripPlanner/internal/model"
)

var (
	// ErrPermissionDenied is returned when location access is refused.
	ErrPermissionDenied = errors.New("location permission denied")
	// ErrLocationUnavailable covers any failure to read or geocode the position.
	ErrLocationUnavailable = errors.New("location unavailable")
)

// FallbackLabel is used when reverse geocoding yields no candidates.
const FallbackLabel = "Current Location"

// Address is one reverse-geocoding candidate. Any component may be empty.
type Address struct {
	City    string
	Region  string
	Country string
}

// Permission asks the host whether location may be read.
type Permission interface {
	Request(ctx context.Context) (bool, error)
}

// Positioner performs a single-shot read of the current position.
type Positioner interface {
	CurrentPosition(ctx context.Context) (model.Coordinates, error)
}

// ReverseGeocoder turns coordinates into zero or more address candidates.
type ReverseGeocoder interface {
	Name() string
	ReverseGeocode(ctx context.Context, c model.Coordinates) ([]Address, error)
}

// Resolution is a resolved current location.
type Resolution struct {
	Label       string
	Coordinates model.Coordinates
}

// Resolver chains permission, position and reverse geocoding into one label.
type Resolver struct {
	permission Permission
	positioner Positioner
	geocoder   ReverseGeocoder
	logger     *log.Logger
}

func NewResolver(p Permission, pos Positioner, g ReverseGeocoder, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Resolver{permission: p, positioner: pos, geocoder: g, logger: logger}
}

// Resolve runs the full protocol. Failures are ErrPermissionDenied or ErrLocationUnavailable.
func (r *Resolver) Resolve(ctx context.Context) (Resolution, error) {
	granted, err := r.permission.Request(ctx)
	if err != nil {
		r.logger.Printf("RESOLVE error step=permission err=%v", err)
		return Resolution{}, fmt.Errorf("%w: requesting permission: %w", ErrLocationUnavailable, err)
	}
	if !granted {
		r.logger.Printf("RESOLVE denied")
		return Resolution{}, ErrPermissionDenied
	}

	coords, err := r.positioner.CurrentPosition(ctx)
	if err != nil {
		r.logger.Printf("RESOLVE error step=position err=%v", err)
		return Resolution{}, fmt.Errorf("%w: reading position: %w", ErrLocationUnavailable, err)
	}

	addrs, err := r.geocoder.ReverseGeocode(ctx, coords)
	if err != nil {
		r.logger.Printf("RESOLVE error step=geocode provider=%s err=%v", r.geocoder.Name(), err)
		return Resolution{}, fmt.Errorf("%w: reverse geocoding: %w", ErrLocationUnavailable, err)
	}

	label := ComposeLabel(addrs)
	r.logger.Printf("RESOLVE ok provider=%s lat=%.5f lng=%.5f label=%q", r.geocoder.Name(), coords.Lat, coords.Lng, label)
	return Resolution{Label: label, Coordinates: coords}, nil
}

// ComposeLabel joins the first candidate's non-empty city, region and country
// with ", ". No candidates, or a candidate with nothing in it, gives FallbackLabel.
func ComposeLabel(addrs []Address) string {
	if len(addrs) == 0 {
		return FallbackLabel
	}
	a := addrs[0]
	var parts []string
	for _, p := range []string{a.City, a.Region, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return FallbackLabel
	}
	return strings.Join(parts, ", ")
}
