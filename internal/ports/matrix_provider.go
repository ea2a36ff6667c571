package ports

import (
	"bag-delivery-service/internal/domain"
	"context"
)

// MatrixProvider is the boundary to the external travel-time service.
// Implementations return square duration/distance matrices indexed
// consistently with the supplied location slice, one call per vehicle
// profile. An unroutable location must surface as a
// domain.UnroutableLocationError, never as a silent zero.
type MatrixProvider interface {
	Matrices(ctx context.Context, locations []domain.Location, profile domain.Profile) (domain.Matrix, error)
}
