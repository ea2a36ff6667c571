package services

import (
	"bag-delivery-service/internal/domain"
)

// Summary aggregates the assigned-stop table: one KPI row per
// (route, trip) plus a fleet-wide total.
type Summary struct {
	Routes []domain.RouteKPI
	Fleet  domain.FleetKPI
}

// Summarize groups decoded visits by route and trip and derives the
// per-route and fleet KPIs. The fleet total sums every numeric column;
// it intentionally has no average speed (FleetKPI carries no such
// field) because averaging per-route averages is misleading.
//
// A route whose visits disagree on the vehicle profile is a
// data-integrity fault, not a pick-the-first situation.
func Summarize(visits []domain.AssignedVisit, unserviced []domain.Stop) (Summary, error) {
	type groupKey struct {
		route string
		trip  int
	}

	var keys []groupKey
	groups := make(map[groupKey][]domain.AssignedVisit)
	routeProfiles := make(map[string]domain.Profile)

	for _, v := range visits {
		if p, ok := routeProfiles[v.RouteID]; ok && p != v.Profile {
			return Summary{}, &domain.DataIntegrityError{
				RouteID: v.RouteID,
				StopID:  v.StopID,
				Detail:  "mixed vehicle profiles within one route",
			}
		}
		routeProfiles[v.RouteID] = v.Profile

		k := groupKey{route: v.RouteID, trip: v.TripID}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], v)
	}

	s := Summary{}
	routeSeconds := make(map[string]int)

	for _, k := range keys {
		vs := groups[k]
		kpi := domain.RouteKPI{
			RouteID:   k.route,
			TripID:    k.trip,
			Profile:   routeProfiles[k.route],
			StartTime: vs[0].ArrivalTime,
			EndTime:   vs[0].DepartureTime,
		}

		speedSum := 0.0
		speedLegs := 0
		for _, v := range vs {
			if v.ArrivalTime < kpi.StartTime {
				kpi.StartTime = v.ArrivalTime
			}
			if v.DepartureTime > kpi.EndTime {
				kpi.EndTime = v.DepartureTime
			}
			kpi.TotalMeters += v.TravelMeters
			if v.DurationCumSeconds > kpi.TotalSeconds {
				kpi.TotalSeconds = v.DurationCumSeconds
			}
			kpi.WaitingSeconds += v.WaitingSeconds
			if v.StopSequence > 0 {
				speedSum += v.SpeedKMH
				speedLegs++
			}
			if v.LocationType == domain.LocationJob {
				kpi.Stops++
				kpi.Demand += v.Demand
			}
			switch v.Issue {
			case domain.IssueEarly:
				kpi.EarlyStops++
			case domain.IssueLate:
				kpi.LateStops++
			}
		}
		if speedLegs > 0 {
			kpi.AvgSpeedKMH = speedSum / float64(speedLegs)
		}

		if kpi.TotalSeconds > routeSeconds[k.route] {
			routeSeconds[k.route] = kpi.TotalSeconds
		}

		s.Routes = append(s.Routes, kpi)

		s.Fleet.TotalMeters += kpi.TotalMeters
		s.Fleet.WaitingSeconds += kpi.WaitingSeconds
		s.Fleet.Stops += kpi.Stops
		s.Fleet.Demand += kpi.Demand
		s.Fleet.EarlyStops += kpi.EarlyStops
		s.Fleet.LateStops += kpi.LateStops
	}

	// Duration totals per route, not per trip: a later trip's cumulative
	// clock already contains the earlier trips.
	s.Fleet.Routes = len(routeSeconds)
	for _, secs := range routeSeconds {
		s.Fleet.TotalSeconds += secs
	}
	s.Fleet.UnservicedStops = len(unserviced)

	return s, nil
}
