// Package session holds the typed per-session pipeline state. Each
// planning run owns exactly one State; pipeline stages take it as input
// and return new values rather than mutating shared structures.
package session

import (
	"time"

	"bag-delivery-service/internal/domain"
)

// State is everything one planning session has produced so far: the
// normalized inputs, the location registry, the travel matrices and,
// once a solve has run, the decoded route table with its summaries.
type State struct {
	SessionID string
	CreatedAt time.Time
	UpdatedAt time.Time

	Stops    []domain.Stop
	Vehicles []domain.Vehicle

	Locations []domain.Location
	Matrices  map[domain.Profile]domain.Matrix

	Visits          []domain.AssignedVisit
	UnusedRoutes    []domain.Vehicle
	UnservicedStops []domain.Stop
	RouteKPIs       []domain.RouteKPI
	Fleet           domain.FleetKPI
}

// HasSolution reports whether a solve has populated the route table.
func (s *State) HasSolution() bool {
	return len(s.Visits) > 0 || len(s.UnusedRoutes) > 0 || len(s.UnservicedStops) > 0
}

// VehicleByID finds a vehicle of the session fleet.
func (s *State) VehicleByID(id string) (domain.Vehicle, bool) {
	for _, v := range s.Vehicles {
		if v.VehicleID == id {
			return v, true
		}
	}
	return domain.Vehicle{}, false
}

// StopByID finds a stop of the session's normalized job set.
func (s *State) StopByID(id string) (domain.Stop, bool) {
	for _, st := range s.Stops {
		if st.StopID == id {
			return st, true
		}
	}
	return domain.Stop{}, false
}
