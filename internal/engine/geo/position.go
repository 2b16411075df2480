package geo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/benjamintian2005/AITripPlanner/internal/engine/httpx"
	"github.com/benjamintian2005/AITripPlanner/internal/model"
)

// DefaultIPLocateURL is the ip-api.com JSON endpoint.
const DefaultIPLocateURL = "http://ip-api.com/json/"

// FixedPositioner reports a configured position, e.g. from TRIPADAPT_LAT/TRIPADAPT_LNG.
type FixedPositioner struct {
	Coordinates model.Coordinates
}

func (p FixedPositioner) CurrentPosition(ctx context.Context) (model.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return model.Coordinates{}, err
	}
	return p.Coordinates, nil
}

type ipAPIResult struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// IPLocator estimates the position from the public IP address.
type IPLocator struct {
	client  *httpx.Client
	baseURL string
}

func NewIPLocator(client *httpx.Client, baseURL string) *IPLocator {
	if baseURL == "" {
		baseURL = DefaultIPLocateURL
	}
	return &IPLocator{client: client, baseURL: baseURL}
}

func (l *IPLocator) CurrentPosition(ctx context.Context) (model.Coordinates, error) {
	u := strings.TrimRight(l.baseURL, "/") + "/?" + url.Values{
		"fields": {"status,message,lat,lon"},
	}.Encode()

	var res ipAPIResult
	if err := l.client.GetJSON(ctx, u, &res); err != nil {
		return model.Coordinates{}, fmt.Errorf("ip lookup: %w", err)
	}
	if res.Status != "success" {
		return model.Coordinates{}, fmt.Errorf("ip lookup failed: %s", res.Message)
	}
	return model.Coordinates{Lat: res.Lat, Lng: res.Lon}, nil
}
