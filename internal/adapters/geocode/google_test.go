package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bag-delivery-service/internal/domain"
)

func googleOK(lat, lng float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"status":"OK","results":[{"geometry":{"location":{"lat":%f,"lng":%f}}}]}`, lat, lng)
	}
}

func TestGoogleGeocoderResolves(t *testing.T) {
	var gotAddress string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAddress = r.URL.Query().Get("address")
		if r.URL.Query().Get("key") == "" {
			t.Error("expected api key in query")
		}
		googleOK(52.37, 4.90)(w, r)
	}))
	defer srv.Close()

	g, err := NewGoogleGeocoder("test-key", 5*time.Second, WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	coords, err := g.Geocode(context.Background(), "  Dam   1,  Amsterdam ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAddress != "Dam 1, Amsterdam" {
		t.Fatalf("expected whitespace-normalized address, got %q", gotAddress)
	}
	if coords.Lat != 52.37 || coords.Lon != 4.90 {
		t.Fatalf("unexpected coordinates %+v", coords)
	}
}

func TestGoogleGeocoderZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(googleResponse{Status: "ZERO_RESULTS"})
	}))
	defer srv.Close()

	g, err := NewGoogleGeocoder("test-key", 5*time.Second, WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := g.Geocode(context.Background(), "nowhere"); err == nil {
		t.Fatal("expected error for zero results")
	}
}

type fakeGeocodeCache struct {
	stored map[string]domain.Coordinates
	hits   int
}

func (c *fakeGeocodeCache) Get(_ context.Context, address string) (domain.Coordinates, bool, error) {
	coords, ok := c.stored[address]
	if ok {
		c.hits++
	}
	return coords, ok, nil
}

func (c *fakeGeocodeCache) Put(_ context.Context, address string, coords domain.Coordinates) error {
	if c.stored == nil {
		c.stored = map[string]domain.Coordinates{}
	}
	c.stored[address] = coords
	return nil
}

func TestGoogleGeocoderCaches(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		googleOK(52.37, 4.90)(w, r)
	}))
	defer srv.Close()

	cache := &fakeGeocodeCache{}
	g, err := NewGoogleGeocoder("test-key", 5*time.Second, WithBaseURL(srv.URL), WithCache(cache))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := g.Geocode(context.Background(), "Dam 1, Amsterdam"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if calls != 1 {
		t.Fatalf("expected one upstream call, got %d", calls)
	}
	if cache.hits != 1 {
		t.Fatalf("expected one cache hit, got %d", cache.hits)
	}
}

func TestGoogleGeocoderRequiresKey(t *testing.T) {
	if _, err := NewGoogleGeocoder("", time.Second); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
