package matrix

import (
	"context"

	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/ports"
)

// MockMatrixProvider serves canned matrices in tests. When Canned is
// nil it synthesizes a uniform matrix so callers only set up what the
// test cares about.
type MockMatrixProvider struct {
	Canned map[domain.Profile]domain.Matrix
	Err    error

	// LegSeconds and LegMeters fill synthesized matrices. Zero values
	// fall back to 60s and 500m per leg.
	LegSeconds int
	LegMeters  int

	Calls []domain.Profile
}

func (m *MockMatrixProvider) MatricesFor(profile domain.Profile, n int) domain.Matrix {
	if cached, ok := m.Canned[profile]; ok {
		return cached
	}
	secs, meters := m.LegSeconds, m.LegMeters
	if secs == 0 {
		secs = 60
	}
	if meters == 0 {
		meters = 500
	}
	mat := domain.Matrix{
		DurationsSeconds: make([][]int, n),
		DistancesMeters:  make([][]int, n),
	}
	for i := 0; i < n; i++ {
		mat.DurationsSeconds[i] = make([]int, n)
		mat.DistancesMeters[i] = make([]int, n)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			mat.DurationsSeconds[i][j] = secs
			mat.DistancesMeters[i][j] = meters
		}
	}
	return mat
}

func (m *MockMatrixProvider) Matrices(
	_ context.Context,
	locations []domain.Location,
	profile domain.Profile,
) (domain.Matrix, error) {
	m.Calls = append(m.Calls, profile)
	if m.Err != nil {
		return domain.Matrix{}, m.Err
	}
	return m.MatricesFor(profile, len(locations)), nil
}

var _ ports.MatrixProvider = (*MockMatrixProvider)(nil)
