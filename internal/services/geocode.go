package services

import (
	"context"
	"fmt"

	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/ports"
)

// GeocodeMissing resolves coordinates for stops the normalizer flagged.
// The slice is updated in place. A stop that cannot be geocoded is an
// unroutable-stop condition, distinct from unserviced: the solver never
// gets to see it.
func GeocodeMissing(ctx context.Context, geocoder ports.Geocoder, stops []domain.Stop) error {
	for i := range stops {
		if !stops[i].NeedsGeocoding {
			continue
		}
		if geocoder == nil {
			return fmt.Errorf(
				"geocode: stop %q has no coordinates and no geocoder is configured",
				stops[i].StopID,
			)
		}
		if stops[i].Address == "" {
			return fmt.Errorf(
				"geocode: stop %q: %w",
				stops[i].StopID,
				&domain.UnroutableLocationError{StopID: stops[i].StopID},
			)
		}

		coords, err := geocoder.Geocode(ctx, stops[i].Address)
		if err != nil {
			// A failed lookup is the same condition as a missing address:
			// the stop cannot be placed, so it must surface as unroutable
			// rather than a generic failure.
			return fmt.Errorf(
				"geocode: stop %q address %q: %v: %w",
				stops[i].StopID, stops[i].Address, err,
				&domain.UnroutableLocationError{StopID: stops[i].StopID},
			)
		}
		c := coords
		stops[i].Coords = &c
		stops[i].NeedsGeocoding = false
	}
	return nil
}
