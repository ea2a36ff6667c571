package dto

import (
	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/services"
)

// PlanRequest carries raw order and vehicle rows as uploaded, column
// names intact. Both lists may be omitted when the server is configured
// with an order repository.
type PlanRequest struct {
	Orders   []map[string]string `json:"orders"`
	Fleet    []map[string]string `json:"fleet"`
	DayStart string              `json:"day_start"`
}

type VisitResponse struct {
	RouteID       string  `json:"route_id"`
	Profile       string  `json:"profile"`
	TripID        int     `json:"trip_id"`
	StopID        string  `json:"stop_id"`
	Activity      string  `json:"activity"`
	LocationType  string  `json:"location_type"`
	StopSequence  int     `json:"stop_sequence"`
	JobSequence   *int    `json:"job_sequence,omitempty"`
	Arrival       string  `json:"arrival"`
	ServiceStart  string  `json:"service_start"`
	Departure     string  `json:"departure"`
	WaitingSec    int     `json:"waiting_seconds"`
	ServiceSec    int     `json:"service_seconds"`
	TravelSec     int     `json:"travel_seconds"`
	TravelMeters  int     `json:"travel_meters"`
	SpeedKMH      float64 `json:"speed_kmh"`
	Demand        float64 `json:"demand"`
	DemandCum     float64 `json:"demand_cum"`
	MetersCum     int     `json:"travel_meters_cum"`
	DurationCum   int     `json:"duration_cum_seconds"`
	WindowStart   string  `json:"window_start"`
	WindowEnd     string  `json:"window_end"`
	Issue         string  `json:"issue"`
	SiteName      string  `json:"site_name,omitempty"`
	Address       string  `json:"address,omitempty"`
	Description   string  `json:"description,omitempty"`
	TransportArea string  `json:"transport_area,omitempty"`
}

type RouteKPIResponse struct {
	RouteID        string  `json:"route_id"`
	TripID         int     `json:"trip_id"`
	Profile        string  `json:"profile"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	TotalMeters    int     `json:"total_meters"`
	TotalSeconds   int     `json:"total_seconds"`
	WaitingSeconds int     `json:"waiting_seconds"`
	AvgSpeedKMH    float64 `json:"avg_speed_kmh"`
	Stops          int     `json:"stops"`
	Demand         float64 `json:"demand"`
	EarlyStops     int     `json:"early_stops"`
	LateStops      int     `json:"late_stops"`
}

type FleetKPIResponse struct {
	Routes          int     `json:"routes"`
	TotalMeters     int     `json:"total_meters"`
	TotalSeconds    int     `json:"total_seconds"`
	WaitingSeconds  int     `json:"waiting_seconds"`
	Stops           int     `json:"stops"`
	Demand          float64 `json:"demand"`
	EarlyStops      int     `json:"early_stops"`
	LateStops       int     `json:"late_stops"`
	UnservicedStops int     `json:"unserviced_stops"`
}

type UnservicedResponse struct {
	StopID   string  `json:"stop_id"`
	SiteName string  `json:"site_name,omitempty"`
	Address  string  `json:"address,omitempty"`
	Demand   float64 `json:"demand"`
}

type PlanResponse struct {
	SessionID   string               `json:"session_id"`
	Visits      []VisitResponse      `json:"visits"`
	Routes      []RouteKPIResponse   `json:"routes"`
	Fleet       FleetKPIResponse     `json:"fleet"`
	UnusedRoute []string             `json:"unused_routes"`
	Unserviced  []UnservicedResponse `json:"unserviced_stops"`
}

func NewVisitResponse(v domain.AssignedVisit) VisitResponse {
	out := VisitResponse{
		RouteID:       v.RouteID,
		Profile:       string(v.Profile),
		TripID:        v.TripID,
		StopID:        v.StopID,
		Activity:      string(v.Activity),
		LocationType:  string(v.LocationType),
		StopSequence:  v.StopSequence,
		Arrival:       v.ArrivalTime.String(),
		ServiceStart:  v.ServiceStartTime.String(),
		Departure:     v.DepartureTime.String(),
		WaitingSec:    v.WaitingSeconds,
		ServiceSec:    v.ServiceSeconds,
		TravelSec:     v.TravelSeconds,
		TravelMeters:  v.TravelMeters,
		SpeedKMH:      v.SpeedKMH,
		Demand:        v.Demand,
		DemandCum:     v.DemandCum,
		MetersCum:     v.TravelMetersCum,
		DurationCum:   v.DurationCumSeconds,
		WindowStart:   v.Window.Start.String(),
		WindowEnd:     v.Window.End.String(),
		Issue:         string(v.Issue),
		SiteName:      v.SiteName,
		Address:       v.Address,
		Description:   v.Description,
		TransportArea: v.TransportArea,
	}
	if v.JobSequence >= 0 {
		seq := v.JobSequence
		out.JobSequence = &seq
	}
	return out
}

func NewRouteKPIResponse(k domain.RouteKPI) RouteKPIResponse {
	return RouteKPIResponse{
		RouteID:        k.RouteID,
		TripID:         k.TripID,
		Profile:        string(k.Profile),
		StartTime:      k.StartTime.String(),
		EndTime:        k.EndTime.String(),
		TotalMeters:    k.TotalMeters,
		TotalSeconds:   k.TotalSeconds,
		WaitingSeconds: k.WaitingSeconds,
		AvgSpeedKMH:    k.AvgSpeedKMH,
		Stops:          k.Stops,
		Demand:         k.Demand,
		EarlyStops:     k.EarlyStops,
		LateStops:      k.LateStops,
	}
}

func NewFleetKPIResponse(k domain.FleetKPI) FleetKPIResponse {
	return FleetKPIResponse{
		Routes:          k.Routes,
		TotalMeters:     k.TotalMeters,
		TotalSeconds:    k.TotalSeconds,
		WaitingSeconds:  k.WaitingSeconds,
		Stops:           k.Stops,
		Demand:          k.Demand,
		EarlyStops:      k.EarlyStops,
		LateStops:       k.LateStops,
		UnservicedStops: k.UnservicedStops,
	}
}

// NewPlanResponse maps a route table and its summary to the wire shape
// shared by the plan, reroute and session endpoints.
func NewPlanResponse(
	sessionID string,
	visits []domain.AssignedVisit,
	unused []domain.Vehicle,
	unserviced []domain.Stop,
	summary services.Summary,
) PlanResponse {
	res := PlanResponse{
		SessionID:   sessionID,
		Visits:      make([]VisitResponse, 0, len(visits)),
		Routes:      make([]RouteKPIResponse, 0, len(summary.Routes)),
		Fleet:       NewFleetKPIResponse(summary.Fleet),
		UnusedRoute: make([]string, 0, len(unused)),
		Unserviced:  make([]UnservicedResponse, 0, len(unserviced)),
	}
	for _, v := range visits {
		res.Visits = append(res.Visits, NewVisitResponse(v))
	}
	for _, k := range summary.Routes {
		res.Routes = append(res.Routes, NewRouteKPIResponse(k))
	}
	for _, veh := range unused {
		res.UnusedRoute = append(res.UnusedRoute, veh.VehicleID)
	}
	for _, s := range unserviced {
		res.Unserviced = append(res.Unserviced, UnservicedResponse{
			StopID:   s.StopID,
			SiteName: s.SiteName,
			Address:  s.Address,
			Demand:   s.Demand,
		})
	}
	return res
}
