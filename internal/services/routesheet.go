package services

import (
	"bag-delivery-service/internal/domain"
)

// RouteSheetRow is the flattened per-visit shape consumed by the
// spreadsheet export and printable route sheets.
type RouteSheetRow struct {
	VehicleID     string
	TripID        int
	StopID        string
	Sequence      int
	ArrivalTime   string
	DepartureTime string
	SiteName      string
	Address       string
	Description   string
	TransportArea string
}

// RouteSheet flattens the decoded route table into dispatch rows,
// keeping the solver's visit order. Depot legs are skipped: drivers
// only see customer stops on the sheet.
func RouteSheet(visits []domain.AssignedVisit) []RouteSheetRow {
	rows := make([]RouteSheetRow, 0, len(visits))
	for _, v := range visits {
		if v.LocationType != domain.LocationJob {
			continue
		}
		rows = append(rows, RouteSheetRow{
			VehicleID:     v.RouteID,
			TripID:        v.TripID,
			StopID:        v.StopID,
			Sequence:      v.StopSequence,
			ArrivalTime:   v.ArrivalTime.String(),
			DepartureTime: v.DepartureTime.String(),
			SiteName:      v.SiteName,
			Address:       v.Address,
			Description:   v.Description,
			TransportArea: v.TransportArea,
		})
	}
	return rows
}
