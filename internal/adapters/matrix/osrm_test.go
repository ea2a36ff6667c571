package matrix

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bag-delivery-service/internal/domain"
)

func testLocations() []domain.Location {
	return []domain.Location{
		{Index: 0, StopID: "DEPOT", Coords: domain.Coordinates{Lon: 4.89, Lat: 52.36}},
		{Index: 1, StopID: "S1", Coords: domain.Coordinates{Lon: 4.90, Lat: 52.37}},
	}
}

func f(v float64) *float64 { return &v }

func TestOSRMProviderMatrices(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		resp := tableResponse{
			Code: "Ok",
			Durations: [][]*float64{
				{f(0), f(300.4)},
				{f(299.6), f(0)},
			},
			Distances: [][]*float64{
				{f(0), f(2000)},
				{f(1999.5), f(0)},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p, err := NewOSRMProvider(
		map[domain.Profile]string{domain.ProfileAuto: srv.URL}, 5*time.Second, nil,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m, err := p.Matrices(context.Background(), testLocations(), domain.ProfileAuto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(gotPath, "/table/v1/") {
		t.Fatalf("expected table endpoint, got %q", gotPath)
	}
	if !strings.Contains(gotQuery, "annotations=duration") {
		t.Fatalf("expected duration+distance annotations, got %q", gotQuery)
	}

	if m.Size() != 2 {
		t.Fatalf("expected 2x2 matrix, got size %d", m.Size())
	}
	// Fractional seconds/meters round to integers.
	if m.DurationsSeconds[0][1] != 300 || m.DurationsSeconds[1][0] != 300 {
		t.Fatalf("unexpected durations %v", m.DurationsSeconds)
	}
	if m.DistancesMeters[1][0] != 2000 {
		t.Fatalf("unexpected distances %v", m.DistancesMeters)
	}
}

func TestOSRMProviderNullEntryIsUnroutable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := tableResponse{
			Code: "Ok",
			Durations: [][]*float64{
				{f(0), nil},
				{f(300), f(0)},
			},
			Distances: [][]*float64{
				{f(0), f(2000)},
				{f(2000), f(0)},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p, err := NewOSRMProvider(
		map[domain.Profile]string{domain.ProfileAuto: srv.URL}, 5*time.Second, nil,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = p.Matrices(context.Background(), testLocations(), domain.ProfileAuto)
	if err == nil {
		t.Fatal("expected error for null matrix entry")
	}
	var unroutable *domain.UnroutableLocationError
	if !errors.As(err, &unroutable) {
		t.Fatalf("expected UnroutableLocationError, got %v", err)
	}
	if unroutable.StopID != "S1" {
		t.Fatalf("expected error naming S1, got %q", unroutable.StopID)
	}
}

func TestOSRMProviderServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(tableResponse{Code: "InvalidQuery", Message: "bad coords"})
	}))
	defer srv.Close()

	p, err := NewOSRMProvider(
		map[domain.Profile]string{domain.ProfileAuto: srv.URL}, 5*time.Second, nil,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := p.Matrices(context.Background(), testLocations(), domain.ProfileAuto); err == nil {
		t.Fatal("expected error for non-Ok code")
	}
}

func TestOSRMProviderMissingProfileEndpoint(t *testing.T) {
	p, err := NewOSRMProvider(
		map[domain.Profile]string{domain.ProfileAuto: "http://localhost:5000"}, 5*time.Second, nil,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := p.Matrices(context.Background(), testLocations(), domain.ProfileBicycle); err == nil {
		t.Fatal("expected error for unconfigured profile")
	}
}

type fakeCache struct {
	stored map[string]domain.Matrix
	hits   int
	puts   int
}

func (c *fakeCache) Get(_ context.Context, profile domain.Profile, digest string) (domain.Matrix, bool, error) {
	m, ok := c.stored[string(profile)+digest]
	if ok {
		c.hits++
	}
	return m, ok, nil
}

func (c *fakeCache) Put(_ context.Context, profile domain.Profile, digest string, m domain.Matrix) error {
	if c.stored == nil {
		c.stored = map[string]domain.Matrix{}
	}
	c.stored[string(profile)+digest] = m
	c.puts++
	return nil
}

func TestOSRMProviderUsesCache(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		resp := tableResponse{
			Code:      "Ok",
			Durations: [][]*float64{{f(0), f(60)}, {f(60), f(0)}},
			Distances: [][]*float64{{f(0), f(500)}, {f(500), f(0)}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	cache := &fakeCache{}
	p, err := NewOSRMProvider(
		map[domain.Profile]string{domain.ProfileAuto: srv.URL}, 5*time.Second, cache,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	locs := testLocations()
	if _, err := p.Matrices(context.Background(), locs, domain.ProfileAuto); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Matrices(context.Background(), locs, domain.ProfileAuto); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected one upstream call, got %d", calls)
	}
	if cache.puts != 1 || cache.hits != 1 {
		t.Fatalf("expected one put and one hit, got %d/%d", cache.puts, cache.hits)
	}
}
