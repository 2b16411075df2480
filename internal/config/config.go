// Package config loads tripadapt settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/benjamintian2005/AITripPlanner/internal/engine/geo"
	"github.com/benjamintian2005/AITripPlanner/internal/engine/httpx"
	"github.com/benjamintian2005/AITripPlanner/internal/model"
)

const (
	GeocoderNominatim = "nominatim"
	GeocoderOffline   = "offline"
)

type Config struct {
	DataDir string
	DBPath  string
	// APIURL is the remote auth endpoint. Empty means local accounts.
	APIURL string

	Geocoder     string
	NominatimURL string
	IPLocateURL  string
	Boundaries   string
	Lang         string

	// Position pins the device position instead of asking the IP locator.
	Position *model.Coordinates
	Consent  geo.Decision

	Proxy   string
	Timeout time.Duration
}

// Load reads .env from the working directory when present, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	var cfg Config
	cfg.DataDir = envOrDefault("TRIPADAPT_DATA_DIR", defaultDataDir())
	cfg.DBPath = envOrDefault("TRIPADAPT_DB", filepath.Join(cfg.DataDir, "tripadapt.db"))
	cfg.APIURL = strings.TrimRight(os.Getenv("TRIPADAPT_API_URL"), "/")
	cfg.Geocoder = envOrDefault("TRIPADAPT_GEOCODER", GeocoderNominatim)
	cfg.NominatimURL = envOrDefault("TRIPADAPT_NOMINATIM_URL", geo.DefaultNominatimURL)
	cfg.IPLocateURL = envOrDefault("TRIPADAPT_IPLOCATE_URL", geo.DefaultIPLocateURL)
	cfg.Boundaries = os.Getenv("TRIPADAPT_BOUNDARIES")
	cfg.Lang = envOrDefault("TRIPADAPT_LANG", "en")
	cfg.Proxy = os.Getenv("TRIPADAPT_PROXY")
	cfg.Timeout = time.Duration(envOrDefaultInt("TRIPADAPT_TIMEOUT_SECONDS", 15)) * time.Second

	consent, err := geo.ParseDecision(os.Getenv("TRIPADAPT_LOCATION_CONSENT"))
	if err != nil {
		return Config{}, err
	}
	cfg.Consent = consent

	lat, lng := os.Getenv("TRIPADAPT_LAT"), os.Getenv("TRIPADAPT_LNG")
	if lat != "" || lng != "" {
		pos, err := parsePosition(lat, lng)
		if err != nil {
			return Config{}, err
		}
		cfg.Position = &pos
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that flags may have overridden after Load.
func (c Config) Validate() error {
	switch c.Geocoder {
	case GeocoderNominatim:
	case GeocoderOffline:
		if c.Boundaries == "" {
			return errors.New("offline geocoder requires TRIPADAPT_BOUNDARIES")
		}
	default:
		return fmt.Errorf("unknown geocoder %q (want %s or %s)", c.Geocoder, GeocoderNominatim, GeocoderOffline)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// EnsureDataDir creates the data directory.
func (c Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	return nil
}

// HTTPClient builds the shared outbound client.
func (c Config) HTTPClient() *httpx.Client {
	return httpx.NewClient(httpx.Options{ProxyURL: c.Proxy, Timeout: c.Timeout})
}

// ConsentStore returns the remembered location decision for this data dir.
func (c Config) ConsentStore() *geo.ConsentStore {
	return geo.NewConsentStore(c.DataDir)
}

// Permission answers location requests from TRIPADAPT_LOCATION_CONSENT when
// set, otherwise from the remembered decision.
func (c Config) Permission() geo.Permission {
	switch c.Consent {
	case geo.DecisionGranted:
		return geo.StaticPermission(true)
	case geo.DecisionDenied:
		return geo.StaticPermission(false)
	}
	return c.ConsentStore()
}

// Services holds the location collaborators built from a Config.
type Services struct {
	Positioner geo.Positioner
	Geocoder   geo.ReverseGeocoder
	// Boundaries is nil unless TRIPADAPT_BOUNDARIES is set.
	Boundaries *geo.BoundaryStore
	Logger     *log.Logger
}

// Services wires the positioner and reverse geocoder.
func (c Config) Services(client *httpx.Client, logger *log.Logger) (*Services, error) {
	svc := &Services{Logger: logger}

	if c.Boundaries != "" {
		bs, err := geo.LoadBoundaryStore(c.Boundaries)
		if err != nil {
			return nil, err
		}
		svc.Boundaries = bs
	}

	if c.Position != nil {
		svc.Positioner = geo.FixedPositioner{Coordinates: *c.Position}
	} else {
		svc.Positioner = geo.NewIPLocator(client, c.IPLocateURL)
	}

	switch c.Geocoder {
	case GeocoderOffline:
		svc.Geocoder = svc.Boundaries
	default:
		nominatim := geo.NewNominatim(client, c.NominatimURL, c.Lang)
		if svc.Boundaries != nil {
			svc.Geocoder = geo.Fallback{Primary: nominatim, Secondary: svc.Boundaries}
		} else {
			svc.Geocoder = nominatim
		}
	}
	return svc, nil
}

// Resolver builds a location resolver gated by p.
func (s *Services) Resolver(p geo.Permission) *geo.Resolver {
	return geo.NewResolver(p, s.Positioner, s.Geocoder, s.Logger)
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".tripadapt"
	}
	return filepath.Join(dir, "tripadapt")
}

func parsePosition(lat, lng string) (model.Coordinates, error) {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("invalid TRIPADAPT_LAT %q: %w", lat, err)
	}
	ln, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("invalid TRIPADAPT_LNG %q: %w", lng, err)
	}
	if la < -90 || la > 90 || ln < -180 || ln > 180 {
		return model.Coordinates{}, fmt.Errorf("position %s,%s out of range", lat, lng)
	}
	return model.Coordinates{Lat: la, Lng: ln}, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
