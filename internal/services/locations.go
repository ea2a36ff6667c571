package services

import (
	"context"
	"fmt"
	"sort"

	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/ports"
)

// Registry is the location table for one solve: distinct vehicle depots
// first, then stops, each carrying a contiguous zero-based index. The
// returned stop and vehicle slices are copies annotated with their
// resolved indices.
type Registry struct {
	Locations []domain.Location
	Stops     []domain.Stop
	Vehicles  []domain.Vehicle
}

// ByIndex returns the location with the given index.
func (r *Registry) ByIndex(idx int) (domain.Location, bool) {
	if idx < 0 || idx >= len(r.Locations) {
		return domain.Location{}, false
	}
	return r.Locations[idx], true
}

// BuildRegistry assembles the location registry. Index assignment is
// deterministic for a given input set: depots sort by depot id (falling
// back to vehicle id), stops by stop id, so matrices and solver output
// can be cross-referenced between runs over the same data.
func BuildRegistry(stops []domain.Stop, vehicles []domain.Vehicle) (*Registry, error) {
	outStops := make([]domain.Stop, len(stops))
	copy(outStops, stops)
	outVehicles := make([]domain.Vehicle, len(vehicles))
	copy(outVehicles, vehicles)

	seenStops := make(map[string]struct{}, len(outStops))
	for _, s := range outStops {
		if s.Coords == nil {
			return nil, fmt.Errorf("build registry: stop %q has no coordinates (geocode first)", s.StopID)
		}
		if _, dup := seenStops[s.StopID]; dup {
			return nil, fmt.Errorf("build registry: duplicate stop id %q", s.StopID)
		}
		seenStops[s.StopID] = struct{}{}
	}

	// One registry row per distinct depot site; several vehicles may
	// share one depot.
	type depot struct {
		key      string
		coords   domain.Coordinates
		window   domain.TimeWindow
		vehicles []int
	}
	depotByKey := make(map[string]*depot)
	depotKeys := make([]string, 0, len(outVehicles))
	for i, v := range outVehicles {
		key := v.DepotID
		if key == "" {
			key = v.VehicleID
		}
		d, ok := depotByKey[key]
		if !ok {
			d = &depot{key: key, coords: v.Depot, window: v.Shift}
			depotByKey[key] = d
			depotKeys = append(depotKeys, key)
		} else if d.coords != v.Depot {
			return nil, fmt.Errorf("build registry: depot %q declared at conflicting coordinates", key)
		}
		d.vehicles = append(d.vehicles, i)
	}
	sort.Strings(depotKeys)

	locations := make([]domain.Location, 0, len(depotKeys)+len(outStops))
	for _, key := range depotKeys {
		d := depotByKey[key]
		idx := len(locations)
		locations = append(locations, domain.Location{
			Index:    idx,
			StopID:   d.key,
			Type:     domain.LocationInfrastructure,
			Activity: domain.ActivityDepot,
			Coords:   d.coords,
			Window:   d.window,
		})
		for _, vi := range d.vehicles {
			outVehicles[vi].LocationIndex = idx
		}
	}

	stopOrder := make([]int, len(outStops))
	for i := range stopOrder {
		stopOrder[i] = i
	}
	sort.Slice(stopOrder, func(a, b int) bool {
		return outStops[stopOrder[a]].StopID < outStops[stopOrder[b]].StopID
	})

	for _, si := range stopOrder {
		s := &outStops[si]
		idx := len(locations)
		locations = append(locations, domain.Location{
			Index:          idx,
			StopID:         s.StopID,
			Type:           domain.LocationJob,
			Activity:       s.Activity,
			Coords:         *s.Coords,
			Window:         s.Window,
			ServiceSeconds: s.ServiceSeconds,
			SiteName:       s.SiteName,
			Address:        s.Address,
		})
		s.LocationIndex = idx
	}

	return &Registry{Locations: locations, Stops: outStops, Vehicles: outVehicles}, nil
}

// BuildMatrices fetches one travel matrix per distinct vehicle profile
// over the full location registry.
func BuildMatrices(
	ctx context.Context,
	provider ports.MatrixProvider,
	reg *Registry,
) (map[domain.Profile]domain.Matrix, error) {
	matrices := make(map[domain.Profile]domain.Matrix)
	profiles := make([]domain.Profile, 0, 2)
	seen := make(map[domain.Profile]struct{})
	for _, v := range reg.Vehicles {
		if _, ok := seen[v.Profile]; ok {
			continue
		}
		seen[v.Profile] = struct{}{}
		profiles = append(profiles, v.Profile)
	}

	for _, p := range profiles {
		m, err := provider.Matrices(ctx, reg.Locations, p)
		if err != nil {
			return nil, fmt.Errorf("build matrices: profile %q: %w", p, err)
		}
		if m.Size() != len(reg.Locations) {
			return nil, fmt.Errorf(
				"build matrices: profile %q: matrix size %d does not match %d locations",
				p, m.Size(), len(reg.Locations),
			)
		}
		matrices[p] = m
	}
	return matrices, nil
}
