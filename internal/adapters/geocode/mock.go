package geocode

import (
	"context"
	"fmt"

	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/ports"
)

// MockGeocoder resolves from a fixed table in tests.
type MockGeocoder struct {
	Coords map[string]domain.Coordinates
	Err    error

	Calls []string
}

func (m *MockGeocoder) Geocode(_ context.Context, address string) (domain.Coordinates, error) {
	m.Calls = append(m.Calls, address)
	if m.Err != nil {
		return domain.Coordinates{}, m.Err
	}
	coords, ok := m.Coords[address]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q", address)
	}
	return coords, nil
}

var _ ports.Geocoder = (*MockGeocoder)(nil)
