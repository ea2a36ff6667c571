// Package matrix adapts the external OSRM travel-time service behind
// the ports.MatrixProvider boundary.
package matrix

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/platform/httpx"
	"bag-delivery-service/internal/platform/obs"
	"bag-delivery-service/internal/ports"
)

// MatrixCache persists whole matrices keyed by profile and a digest of
// the coordinate list, so re-planning the same day skips the service.
type MatrixCache interface {
	Get(ctx context.Context, profile domain.Profile, digest string) (domain.Matrix, bool, error)
	Put(ctx context.Context, profile domain.Profile, digest string, m domain.Matrix) error
}

// OSRMProvider fetches duration/distance tables from per-profile OSRM
// instances (a van and a bicycle network are separate servers).
type OSRMProvider struct {
	client    *http.Client
	endpoints map[domain.Profile]string
	cache     MatrixCache
}

func NewOSRMProvider(endpoints map[domain.Profile]string, timeout time.Duration, cache MatrixCache) (*OSRMProvider, error) {
	if len(endpoints) == 0 {
		return nil, errors.New("osrm provider: no endpoints configured")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OSRMProvider{
		client:    &http.Client{Timeout: timeout},
		endpoints: endpoints,
		cache:     cache,
	}, nil
}

type tableResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Durations [][]*float64 `json:"durations"`
	Distances [][]*float64 `json:"distances"`
}

// Matrices returns the square travel matrices over the given locations
// for one profile. An unreachable pair surfaces as an
// UnroutableLocationError naming the stop, never as a zero-cost leg.
func (o *OSRMProvider) Matrices(
	ctx context.Context,
	locations []domain.Location,
	profile domain.Profile,
) (_ domain.Matrix, err error) {
	defer obs.Time(ctx, "osrm.Matrices")(&err)

	base, ok := o.endpoints[profile]
	if !ok {
		return domain.Matrix{}, fmt.Errorf("osrm matrices: no endpoint for profile %q", profile)
	}
	if len(locations) == 0 {
		return domain.Matrix{}, errors.New("osrm matrices: no locations")
	}

	digest := coordDigest(locations)
	if o.cache != nil {
		m, hit, err := o.cache.Get(ctx, profile, digest)
		if err != nil {
			return domain.Matrix{}, fmt.Errorf("osrm matrices: cache get: %w", err)
		}
		if hit {
			return m, nil
		}
	}

	coords := make([]string, 0, len(locations))
	for _, l := range locations {
		coords = append(coords, fmt.Sprintf("%f,%f", l.Coords.Lon, l.Coords.Lat))
	}
	endpoint := fmt.Sprintf(
		"%s/table/v1/driving/%s?annotations=duration,distance",
		strings.TrimRight(base, "/"), strings.Join(coords, ";"),
	)

	resp, err := httpx.DoWithRetry(ctx, o.client, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return domain.Matrix{}, fmt.Errorf("osrm matrices: profile %q: %w", profile, err)
	}
	defer resp.Body.Close()

	var decoded tableResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Matrix{}, fmt.Errorf("osrm matrices: decode response: %w", err)
	}
	if decoded.Code != "Ok" {
		return domain.Matrix{}, fmt.Errorf("osrm matrices: service code %q: %s", decoded.Code, decoded.Message)
	}

	m, err := buildMatrix(decoded, locations, profile)
	if err != nil {
		return domain.Matrix{}, err
	}

	if o.cache != nil {
		if err := o.cache.Put(ctx, profile, digest, m); err != nil {
			log.Printf("osrm matrices: cache write failed: %v", err)
		}
	}
	return m, nil
}

func buildMatrix(resp tableResponse, locations []domain.Location, profile domain.Profile) (domain.Matrix, error) {
	n := len(locations)
	if len(resp.Durations) != n || len(resp.Distances) != n {
		return domain.Matrix{}, fmt.Errorf(
			"osrm matrices: response dimensions %dx%d do not match %d locations",
			len(resp.Durations), len(resp.Distances), n,
		)
	}

	m := domain.Matrix{
		DurationsSeconds: make([][]int, n),
		DistancesMeters:  make([][]int, n),
	}
	for i := 0; i < n; i++ {
		if len(resp.Durations[i]) != n || len(resp.Distances[i]) != n {
			return domain.Matrix{}, fmt.Errorf("osrm matrices: row %d is not square", i)
		}
		m.DurationsSeconds[i] = make([]int, n)
		m.DistancesMeters[i] = make([]int, n)
		for j := 0; j < n; j++ {
			dur := resp.Durations[i][j]
			dist := resp.Distances[i][j]
			if dur == nil || dist == nil {
				// Report the destination stop: the usual cause is an
				// unsnappable coordinate at one end.
				return domain.Matrix{}, fmt.Errorf(
					"osrm matrices: %w",
					&domain.UnroutableLocationError{StopID: locations[j].StopID, Profile: profile},
				)
			}
			m.DurationsSeconds[i][j] = int(math.Round(*dur))
			m.DistancesMeters[i][j] = int(math.Round(*dist))
		}
	}
	return m, nil
}

func coordDigest(locations []domain.Location) string {
	h := sha256.New()
	for _, l := range locations {
		fmt.Fprintf(h, "%f,%f;", l.Coords.Lon, l.Coords.Lat)
	}
	return hex.EncodeToString(h.Sum(nil))
}

var _ ports.MatrixProvider = (*OSRMProvider)(nil)
