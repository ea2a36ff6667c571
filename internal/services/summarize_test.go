package services

import (
	"testing"

	"bag-delivery-service/internal/domain"
)

func summaryVisit(route string, trip, seq int, mod func(*domain.AssignedVisit)) domain.AssignedVisit {
	v := domain.AssignedVisit{
		RouteID:      route,
		Profile:      domain.ProfileAuto,
		TripID:       trip,
		StopSequence: seq,
		JobSequence:  -1,
		LocationType: domain.LocationInfrastructure,
		Issue:        domain.IssueOnTime,
	}
	if mod != nil {
		mod(&v)
	}
	return v
}

func TestSummarizeGroupsByRouteAndTrip(t *testing.T) {
	visits := []domain.AssignedVisit{
		summaryVisit("V1", 1, 0, func(v *domain.AssignedVisit) {
			v.ArrivalTime = 32400
			v.DepartureTime = 32400
		}),
		summaryVisit("V1", 1, 1, func(v *domain.AssignedVisit) {
			v.LocationType = domain.LocationJob
			v.ArrivalTime = 32700
			v.DepartureTime = 33000
			v.TravelMeters = 2000
			v.TravelSeconds = 300
			v.SpeedKMH = 24
			v.Demand = 2
			v.DurationCumSeconds = 600
			v.Issue = domain.IssueEarly
			v.WaitingSeconds = 120
		}),
		summaryVisit("V1", 2, 2, func(v *domain.AssignedVisit) {
			v.LocationType = domain.LocationJob
			v.ArrivalTime = 34000
			v.DepartureTime = 34300
			v.TravelMeters = 1000
			v.TravelSeconds = 200
			v.SpeedKMH = 18
			v.Demand = 1
			v.DurationCumSeconds = 1500
		}),
		summaryVisit("V2", 1, 0, func(v *domain.AssignedVisit) {
			v.LocationType = domain.LocationJob
			v.StopSequence = 1
			v.ArrivalTime = 36000
			v.DepartureTime = 36300
			v.TravelMeters = 3000
			v.TravelSeconds = 600
			v.SpeedKMH = 18
			v.Demand = 4
			v.DurationCumSeconds = 900
			v.Issue = domain.IssueLate
		}),
	}

	s, err := Summarize(visits, []domain.Stop{{StopID: "SX"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(s.Routes) != 3 {
		t.Fatalf("expected 3 route/trip rows, got %d", len(s.Routes))
	}

	first := s.Routes[0]
	if first.RouteID != "V1" || first.TripID != 1 {
		t.Fatalf("expected V1 trip 1 first, got %s/%d", first.RouteID, first.TripID)
	}
	if first.Stops != 1 || first.Demand != 2 {
		t.Fatalf("expected 1 stop demand 2, got %d/%f", first.Stops, first.Demand)
	}
	if first.EarlyStops != 1 || first.LateStops != 0 {
		t.Fatalf("expected 1 early 0 late, got %d/%d", first.EarlyStops, first.LateStops)
	}
	// The depot-start row contributes no speed leg.
	if first.AvgSpeedKMH != 24 {
		t.Fatalf("expected avg speed 24, got %f", first.AvgSpeedKMH)
	}
	if first.StartTime.String() != "09:00:00" || first.EndTime.String() != "09:10:00" {
		t.Fatalf("unexpected trip span %s-%s", first.StartTime, first.EndTime)
	}

	// Fleet duration counts each route once, at its final cumulative.
	if s.Fleet.TotalSeconds != 1500+900 {
		t.Fatalf("expected fleet total seconds 2400, got %d", s.Fleet.TotalSeconds)
	}
	if s.Fleet.Routes != 2 {
		t.Fatalf("expected 2 routes, got %d", s.Fleet.Routes)
	}
	if s.Fleet.TotalMeters != 6000 {
		t.Fatalf("expected fleet meters 6000, got %d", s.Fleet.TotalMeters)
	}
	if s.Fleet.Stops != 3 || s.Fleet.Demand != 7 {
		t.Fatalf("expected 3 stops demand 7, got %d/%f", s.Fleet.Stops, s.Fleet.Demand)
	}
	if s.Fleet.EarlyStops != 1 || s.Fleet.LateStops != 1 {
		t.Fatalf("expected 1 early 1 late, got %d/%d", s.Fleet.EarlyStops, s.Fleet.LateStops)
	}
	if s.Fleet.UnservicedStops != 1 {
		t.Fatalf("expected 1 unserviced, got %d", s.Fleet.UnservicedStops)
	}
}

func TestSummarizeRejectsMixedProfiles(t *testing.T) {
	visits := []domain.AssignedVisit{
		summaryVisit("V1", 1, 0, nil),
		summaryVisit("V1", 1, 1, func(v *domain.AssignedVisit) {
			v.Profile = domain.ProfileBicycle
		}),
	}

	if _, err := Summarize(visits, nil); err == nil {
		t.Fatal("expected error for mixed profiles within one route")
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	s, err := Summarize(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Routes) != 0 || s.Fleet.Routes != 0 {
		t.Fatalf("expected empty summary, got %+v", s)
	}
}
