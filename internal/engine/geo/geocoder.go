package geo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/benjamintian2005/AITripPlanner/internal/engine/httpx"
	"github.com/benjamintian2005/AITripPlanner/internal/model"
)

// DefaultNominatimURL is the public OSM Nominatim instance.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

type nominatimAddress struct {
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Hamlet       string `json:"hamlet"`
	Municipality string `json:"municipality"`
	State        string `json:"state"`
	Region       string `json:"region"`
	Country      string `json:"country"`
}

type nominatimReverse struct {
	Error       string           `json:"error"`
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
}

// Nominatim reverse-geocodes through the OSM Nominatim API.
type Nominatim struct {
	client  *httpx.Client
	baseURL string
	lang    string
}

func NewNominatim(client *httpx.Client, baseURL, lang string) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	if lang == "" {
		lang = "en"
	}
	return &Nominatim{client: client, baseURL: strings.TrimRight(baseURL, "/"), lang: lang}
}

func (n *Nominatim) Name() string { return "nominatim" }

// ReverseGeocode returns at most one candidate. A point Nominatim cannot place
// (open sea, poles) yields no candidates rather than an error.
func (n *Nominatim) ReverseGeocode(ctx context.Context, c model.Coordinates) ([]Address, error) {
	u := n.baseURL + "/reverse?" + url.Values{
		"lat":             {strconv.FormatFloat(c.Lat, 'f', 6, 64)},
		"lon":             {strconv.FormatFloat(c.Lng, 'f', 6, 64)},
		"format":          {"jsonv2"},
		"addressdetails":  {"1"},
		"zoom":            {"10"},
		"accept-language": {n.lang},
	}.Encode()

	var res nominatimReverse
	if err := n.client.GetJSON(ctx, u, &res); err != nil {
		return nil, fmt.Errorf("nominatim reverse: %w", err)
	}
	if res.Error != "" {
		if strings.Contains(strings.ToLower(res.Error), "unable to geocode") {
			return nil, nil
		}
		return nil, fmt.Errorf("nominatim reverse: %s", res.Error)
	}

	a := res.Address
	return []Address{{
		City:    firstNonEmpty(a.City, a.Town, a.Village, a.Hamlet, a.Municipality),
		Region:  firstNonEmpty(a.State, a.Region),
		Country: a.Country,
	}}, nil
}

// Fallback tries Primary and falls back to Secondary when Primary errors.
type Fallback struct {
	Primary   ReverseGeocoder
	Secondary ReverseGeocoder
}

func (f Fallback) Name() string {
	return f.Primary.Name() + "+" + f.Secondary.Name()
}

func (f Fallback) ReverseGeocode(ctx context.Context, c model.Coordinates) ([]Address, error) {
	addrs, err := f.Primary.ReverseGeocode(ctx, c)
	if err == nil {
		return addrs, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	addrs, err2 := f.Secondary.ReverseGeocode(ctx, c)
	if err2 != nil {
		return nil, errors.Join(err, err2)
	}
	return addrs, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
