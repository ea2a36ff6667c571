package ports

import (
	"bag-delivery-service/internal/domain"
	"context"
)

// Geocoder resolves a postal address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}
