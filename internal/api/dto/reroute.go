package dto

import "bag-delivery-service/internal/services"

// RerouteRequest re-assigns stops to vehicles within an existing
// session. Assignments is the complete post-edit picture: vehicle id to
// the stop ids it should serve. A vehicle omitted from the map keeps an
// empty assignment.
type RerouteRequest struct {
	SessionID   string              `json:"session_id"`
	Assignments map[string][]string `json:"assignments"`
}

type RerouteResponse struct {
	PlanResponse

	ChangedVehicles []string          `json:"changed_vehicles"`
	FailedVehicles  map[string]string `json:"failed_vehicles,omitempty"`
}

func NewRerouteResponse(sessionID string, res *services.RerouteResult) RerouteResponse {
	return RerouteResponse{
		PlanResponse: NewPlanResponse(
			sessionID, res.Visits, res.UnusedRoutes, res.UnservicedStops, res.Summary,
		),
		ChangedVehicles: res.ChangedVehicles,
		FailedVehicles:  res.FailedVehicles,
	}
}
