package dto

import "bag-delivery-service/internal/services"

// RouteSheetRowResponse is one printable driver row: delivery stops
// only, in driving order.
type RouteSheetRowResponse struct {
	VehicleID     string `json:"vehicle_id"`
	TripID        int    `json:"trip_id"`
	StopID        string `json:"stop_id"`
	Sequence      int    `json:"sequence"`
	Arrival       string `json:"arrival"`
	Departure     string `json:"departure"`
	SiteName      string `json:"site_name,omitempty"`
	Address       string `json:"address,omitempty"`
	Description   string `json:"description,omitempty"`
	TransportArea string `json:"transport_area,omitempty"`
}

type RouteSheetResponse struct {
	SessionID string                  `json:"session_id"`
	Rows      []RouteSheetRowResponse `json:"rows"`
}

func NewRouteSheetResponse(sessionID string, rows []services.RouteSheetRow) RouteSheetResponse {
	res := RouteSheetResponse{
		SessionID: sessionID,
		Rows:      make([]RouteSheetRowResponse, 0, len(rows)),
	}
	for _, r := range rows {
		res.Rows = append(res.Rows, RouteSheetRowResponse{
			VehicleID:     r.VehicleID,
			TripID:        r.TripID,
			StopID:        r.StopID,
			Sequence:      r.Sequence,
			Arrival:       r.ArrivalTime,
			Departure:     r.DepartureTime,
			SiteName:      r.SiteName,
			Address:       r.Address,
			Description:   r.Description,
			TransportArea: r.TransportArea,
		})
	}
	return res
}
