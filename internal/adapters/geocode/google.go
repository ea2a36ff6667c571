// Package geocode resolves free-text site addresses to coordinates via
// the Google Geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/platform/httpx"
	"bag-delivery-service/internal/platform/obs"
	"bag-delivery-service/internal/ports"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GeocodeCache stores resolved addresses so repeated plans do not
// re-bill the same lookups.
type GeocodeCache interface {
	Get(ctx context.Context, address string) (domain.Coordinates, bool, error)
	Put(ctx context.Context, address string, coords domain.Coordinates) error
}

type GoogleGeocoder struct {
	client  *http.Client
	baseURL string
	apiKey  string
	region  string
	cache   GeocodeCache
}

type Option func(*GoogleGeocoder)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(u string) Option {
	return func(g *GoogleGeocoder) { g.baseURL = u }
}

// WithRegion biases results toward a ccTLD region code.
func WithRegion(region string) Option {
	return func(g *GoogleGeocoder) { g.region = region }
}

func WithCache(c GeocodeCache) Option {
	return func(g *GoogleGeocoder) { g.cache = c }
}

func NewGoogleGeocoder(apiKey string, timeout time.Duration, opts ...Option) (*GoogleGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("google geocoder: missing api key")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	g := &GoogleGeocoder{
		client:  &http.Client{Timeout: timeout},
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

type googleResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "google.Geocode")(&err)

	norm := strings.Join(strings.Fields(address), " ")
	if norm == "" {
		return domain.Coordinates{}, errors.New("geocode: empty address")
	}

	if g.cache != nil {
		coords, hit, err := g.cache.Get(ctx, norm)
		if err != nil {
			return domain.Coordinates{}, fmt.Errorf("geocode: cache get: %w", err)
		}
		if hit {
			return coords, nil
		}
	}

	q := url.Values{}
	q.Set("address", norm)
	q.Set("key", g.apiKey)
	if g.region != "" {
		q.Set("region", g.region)
	}
	endpoint := g.baseURL + "?" + q.Encode()

	resp, err := httpx.DoWithRetry(ctx, g.client, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, err)
	}
	defer resp.Body.Close()

	var decoded googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: decode response: %w", norm, err)
	}
	if decoded.Status != "OK" || len(decoded.Results) == 0 {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: status %q with %d results", norm, decoded.Status, len(decoded.Results))
	}

	loc := decoded.Results[0].Geometry.Location
	coords := domain.Coordinates{Lon: loc.Lng, Lat: loc.Lat}

	if g.cache != nil {
		if err := g.cache.Put(ctx, norm, coords); err != nil {
			log.Printf("geocode: cache write failed: %v", err)
		}
	}
	return coords, nil
}

var _ ports.Geocoder = (*GoogleGeocoder)(nil)
