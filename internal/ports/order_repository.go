package ports

import (
	"bag-delivery-service/internal/schema"
	"context"
)

// OrderRepository is a boundary for retrieving raw order and vehicle
// records (arbitrary column presence) for normalization.
type OrderRepository interface {
	// ListOrders returns all raw order rows available for planning.
	ListOrders(ctx context.Context) ([]schema.Record, error)
	// ListVehicles returns all raw vehicle rows.
	ListVehicles(ctx context.Context) ([]schema.Record, error)
}
