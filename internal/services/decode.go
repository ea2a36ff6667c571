package services

import (
	"fmt"

	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/ports"
)

// DecodeInput carries everything needed to turn raw solver output back
// into a business-meaningful route table. Vehicles must be ordered the
// same way they were handed to the solver (SolverRoute.VehicleIndex
// refers into this slice); stops and locations must carry the indices
// the matrices were built with.
type DecodeInput struct {
	Solution  ports.Solution
	Vehicles  []domain.Vehicle
	Stops     []domain.Stop
	Locations []domain.Location
	Matrices  map[domain.Profile]domain.Matrix
	DayStart  domain.ClockTime
}

// DecodeResult partitions the input entities: every stop ends up either
// in Visits or in UnservicedStops, every vehicle either has visits or
// appears in UnusedRoutes.
type DecodeResult struct {
	Visits          []domain.AssignedVisit
	UnusedRoutes    []domain.Vehicle
	UnservicedStops []domain.Stop
}

// DecodeSolution reconstructs the full assigned-stop table from the raw
// per-vehicle visit sequences: wall-clock times, travel legs, trip
// segmentation, running totals and timing flags.
//
// Decoding is deterministic: the same raw solution always produces the
// same table.
func DecodeSolution(in DecodeInput) (*DecodeResult, error) {
	locByIndex := make(map[int]domain.Location, len(in.Locations))
	for _, l := range in.Locations {
		locByIndex[l.Index] = l
	}
	stopByIndex := make(map[int]domain.Stop, len(in.Stops))
	for _, s := range in.Stops {
		stopByIndex[s.LocationIndex] = s
	}

	res := &DecodeResult{}
	visited := make(map[string]struct{}, len(in.Stops))
	seenVehicle := make(map[string]struct{}, len(in.Vehicles))
	visitCount := make(map[string]int, len(in.Vehicles))

	for _, rt := range in.Solution.Routes {
		if rt.VehicleIndex < 0 || rt.VehicleIndex >= len(in.Vehicles) {
			return nil, &domain.DataIntegrityError{
				Detail: fmt.Sprintf("solver route references unknown vehicle index %d", rt.VehicleIndex),
			}
		}
		veh := in.Vehicles[rt.VehicleIndex]
		if _, dup := seenVehicle[veh.VehicleID]; dup {
			return nil, &domain.DataIntegrityError{
				RouteID: veh.VehicleID,
				Detail:  "vehicle appears in more than one solver route",
			}
		}
		seenVehicle[veh.VehicleID] = struct{}{}

		// A vehicle the solver assigned nothing to is unused, not an error.
		if len(rt.Steps) == 0 {
			continue
		}

		matrix, ok := in.Matrices[veh.Profile]
		if !ok {
			return nil, &domain.DataIntegrityError{
				RouteID: veh.VehicleID,
				Detail:  fmt.Sprintf("no travel matrix for profile %q", veh.Profile),
			}
		}

		visits, err := decodeRoute(in, veh, matrix, rt.Steps, locByIndex, stopByIndex)
		if err != nil {
			return nil, err
		}
		for _, v := range visits {
			if v.LocationType == domain.LocationJob {
				visited[v.StopID] = struct{}{}
			}
		}
		visitCount[veh.VehicleID] += len(visits)
		res.Visits = append(res.Visits, visits...)
	}

	for _, v := range in.Vehicles {
		if visitCount[v.VehicleID] == 0 {
			res.UnusedRoutes = append(res.UnusedRoutes, v)
		}
	}
	for _, s := range in.Stops {
		if _, ok := visited[s.StopID]; !ok {
			res.UnservicedStops = append(res.UnservicedStops, s)
		}
	}
	return res, nil
}

// decodeRoute runs the linear scan over one vehicle's steps, carrying
// the trip counter, sequence counters and running totals.
func decodeRoute(
	in DecodeInput,
	veh domain.Vehicle,
	matrix domain.Matrix,
	steps []ports.SolverStep,
	locByIndex map[int]domain.Location,
	stopByIndex map[int]domain.Stop,
) ([]domain.AssignedVisit, error) {
	visits := make([]domain.AssignedVisit, 0, len(steps))

	trip := 1
	stopSeq := 0
	jobSeq := 0
	prevIndex := -1
	var prevDeparture domain.ClockTime
	var demandCum float64
	var metersCum, durationCum int

	for _, st := range steps {
		service := st.ServiceSeconds + st.SetupSeconds

		if st.Type == ports.StepPickup {
			// A reload without setup carries no work to show on the
			// route sheet.
			if st.SetupSeconds == 0 {
				continue
			}
			trip++
			demandCum = 0
		}

		activity, err := activityFor(st.Type)
		if err != nil {
			return nil, &domain.DataIntegrityError{RouteID: veh.VehicleID, Detail: err.Error()}
		}

		loc, ok := locByIndex[st.LocationIndex]
		if !ok {
			return nil, &domain.DataIntegrityError{
				RouteID: veh.VehicleID,
				Detail:  fmt.Sprintf("visit references unknown location index %d", st.LocationIndex),
			}
		}

		if st.ArrivalSeconds < 0 || st.WaitingSeconds < 0 || service < 0 {
			return nil, &domain.DataIntegrityError{
				RouteID: veh.VehicleID,
				StopID:  loc.StopID,
				Detail:  "negative arrival, waiting or service seconds",
			}
		}

		arrival := in.DayStart.Add(st.ArrivalSeconds)
		serviceStart := arrival.Add(st.WaitingSeconds)
		departure := serviceStart.Add(service)

		if stopSeq > 0 && arrival < prevDeparture {
			return nil, &domain.DataIntegrityError{
				RouteID: veh.VehicleID,
				StopID:  loc.StopID,
				Detail: fmt.Sprintf(
					"arrival %s precedes previous departure %s", arrival, prevDeparture,
				),
			}
		}

		travelSeconds, travelMeters := 0, 0
		if stopSeq > 0 {
			travelSeconds, travelMeters, err = matrix.Leg(prevIndex, st.LocationIndex)
			if err != nil {
				return nil, &domain.DataIntegrityError{
					RouteID: veh.VehicleID,
					StopID:  loc.StopID,
					Detail:  err.Error(),
				}
			}
		}

		speed := 0.0
		if travelSeconds > 0 {
			speed = float64(travelMeters) / float64(travelSeconds) * 3.6
		}

		visit := domain.AssignedVisit{
			RouteID:          veh.VehicleID,
			Profile:          veh.Profile,
			TripID:           trip,
			StopID:           loc.StopID,
			LocationIndex:    st.LocationIndex,
			Activity:         activity,
			LocationType:     loc.Type,
			StopSequence:     stopSeq,
			JobSequence:      -1,
			ArrivalTime:      arrival,
			ServiceStartTime: serviceStart,
			DepartureTime:    departure,
			WaitingSeconds:   st.WaitingSeconds,
			ServiceSeconds:   service,
			TravelSeconds:    travelSeconds,
			TravelMeters:     travelMeters,
			SpeedKMH:         speed,
			Window:           loc.Window,
			Coords:           loc.Coords,
			SiteName:         loc.SiteName,
			Address:          loc.Address,
		}

		if loc.Type == domain.LocationJob {
			stop, ok := stopByIndex[st.LocationIndex]
			if !ok {
				return nil, &domain.DataIntegrityError{
					RouteID: veh.VehicleID,
					StopID:  loc.StopID,
					Detail:  "visit matches a job location but no stop record",
				}
			}
			visit.Demand = stop.Demand
			visit.Description = stop.Description
			visit.TransportArea = stop.TransportArea
			visit.JobSequence = jobSeq
			jobSeq++
		}

		visit.Issue = classifyIssue(visit)

		demandCum += visit.Demand
		metersCum += travelMeters
		durationCum += travelSeconds + st.WaitingSeconds + service
		visit.DemandCum = demandCum
		visit.TravelMetersCum = metersCum
		visit.DurationCumSeconds = durationCum

		visits = append(visits, visit)
		prevIndex = st.LocationIndex
		prevDeparture = departure
		stopSeq++
	}
	return visits, nil
}

// classifyIssue flags timing problems on one visit. A waiting vehicle
// arrived before the window opened (EARLY); an arrival strictly after
// the window end is LATE and outranks EARLY.
func classifyIssue(v domain.AssignedVisit) domain.ServiceIssue {
	issue := domain.IssueOnTime
	if v.WaitingSeconds > 0 {
		issue = domain.IssueEarly
	}
	if v.ArrivalTime.After(v.Window.End) {
		issue = domain.IssueLate
	}
	return issue
}

func activityFor(stepType string) (domain.ActivityType, error) {
	switch stepType {
	case ports.StepStart, ports.StepEnd:
		return domain.ActivityDepot, nil
	case ports.StepJob, ports.StepDelivery:
		return domain.ActivityDelivery, nil
	case ports.StepPickup:
		return domain.ActivityPickup, nil
	default:
		return "", fmt.Errorf("unknown solver step type %q", stepType)
	}
}
