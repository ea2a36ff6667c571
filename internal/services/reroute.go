package services

import (
	"context"
	"fmt"
	"log"
	"sort"

	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/ports"
	"bag-delivery-service/internal/session"
)

// RerouteInput describes a manual re-assignment of stops to vehicles
// against a previously decoded session state. Assignments is the full
// post-edit picture: vehicle id to the stop ids it should now serve
// (vehicles absent from the map keep an empty assignment).
type RerouteInput struct {
	State       *session.State
	Assignments map[string][]string
	Options     ProblemOptions
	DayStart    domain.ClockTime
}

// RerouteResult is the merged route table after re-solving only the
// changed vehicles. FailedVehicles records per-vehicle solver failures;
// their stops surface as unserviced rather than aborting the re-route.
type RerouteResult struct {
	Visits          []domain.AssignedVisit
	UnusedRoutes    []domain.Vehicle
	UnservicedStops []domain.Stop
	Summary         Summary
	ChangedVehicles []string
	FailedVehicles  map[string]string
}

// Reroute re-solves exactly the vehicles whose stop assignment changed
// and merges the result back into the previous route table. Rows of
// unchanged vehicles are carried forward unmodified; the solver is
// re-invoked per changed vehicle so the new intra-route sequencing is
// optimized rather than taken in drop order.
func Reroute(ctx context.Context, solver ports.Solver, in RerouteInput) (*RerouteResult, error) {
	if in.State == nil {
		return nil, fmt.Errorf("reroute: no session state")
	}

	for vid, stopIDs := range in.Assignments {
		if _, ok := in.State.VehicleByID(vid); !ok {
			return nil, fmt.Errorf("reroute: assignment references unknown vehicle %q", vid)
		}
		seen := make(map[string]struct{}, len(stopIDs))
		for _, sid := range stopIDs {
			if _, dup := seen[sid]; dup {
				return nil, fmt.Errorf("reroute: vehicle %q assigned stop %q twice", vid, sid)
			}
			seen[sid] = struct{}{}
		}
	}

	prev := assignmentPairs(in.State.Visits)
	changed := changedVehicles(in.State.Vehicles, prev, in.Assignments)

	res := &RerouteResult{
		ChangedVehicles: changed,
		FailedVehicles:  map[string]string{},
	}

	changedSet := make(map[string]struct{}, len(changed))
	for _, vid := range changed {
		changedSet[vid] = struct{}{}
	}

	// Unchanged vehicles' rows are carried forward byte-identical.
	for _, v := range in.State.Visits {
		if _, ok := changedSet[v.RouteID]; !ok {
			res.Visits = append(res.Visits, v)
		}
	}

	for _, vid := range changed {
		veh, _ := in.State.VehicleByID(vid)

		stops, err := resolveStops(in.State, in.Assignments[vid])
		if err != nil {
			return nil, fmt.Errorf("reroute: vehicle %q: %w", vid, err)
		}

		// An emptied vehicle needs no solver call: it simply has no
		// rows and lands in the unused set below.
		if len(stops) == 0 {
			continue
		}

		visits, err := rerouteVehicle(ctx, solver, in, veh, stops)
		if err != nil {
			// Partial-failure isolation: this vehicle's stops become
			// unserviced, other changed vehicles proceed.
			log.Printf("reroute: vehicle=%s failed: %v", vid, err)
			res.FailedVehicles[vid] = err.Error()
			continue
		}
		res.Visits = append(res.Visits, visits...)
	}

	visitedStops := make(map[string]struct{})
	visitedVehicles := make(map[string]struct{})
	for _, v := range res.Visits {
		visitedVehicles[v.RouteID] = struct{}{}
		if v.LocationType == domain.LocationJob {
			visitedStops[v.StopID] = struct{}{}
		}
	}
	for _, v := range in.State.Vehicles {
		if _, ok := visitedVehicles[v.VehicleID]; !ok {
			res.UnusedRoutes = append(res.UnusedRoutes, v)
		}
	}
	for _, s := range in.State.Stops {
		if _, ok := visitedStops[s.StopID]; !ok {
			res.UnservicedStops = append(res.UnservicedStops, s)
		}
	}

	summary, err := Summarize(res.Visits, res.UnservicedStops)
	if err != nil {
		return nil, fmt.Errorf("reroute: %w", err)
	}
	res.Summary = summary

	return res, nil
}

// rerouteVehicle solves and decodes the single-vehicle sub-problem,
// reusing the session's global location indices and matrices.
func rerouteVehicle(
	ctx context.Context,
	solver ports.Solver,
	in RerouteInput,
	veh domain.Vehicle,
	stops []domain.Stop,
) ([]domain.AssignedVisit, error) {
	problem, err := BuildProblem([]domain.Vehicle{veh}, stops, in.State.Matrices, in.Options)
	if err != nil {
		return nil, err
	}

	solution, err := solver.Solve(ctx, problem)
	if err != nil {
		return nil, &domain.SolverError{VehicleID: veh.VehicleID, Err: err}
	}

	decoded, err := DecodeSolution(DecodeInput{
		Solution:  solution,
		Vehicles:  []domain.Vehicle{veh},
		Stops:     stops,
		Locations: in.State.Locations,
		Matrices:  in.State.Matrices,
		DayStart:  in.DayStart,
	})
	if err != nil {
		return nil, err
	}
	return decoded.Visits, nil
}

// assignmentPairs extracts the (vehicle, stop) pairs of the delivery
// visits in a route table.
func assignmentPairs(visits []domain.AssignedVisit) map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{})
	for _, v := range visits {
		if v.LocationType != domain.LocationJob {
			continue
		}
		if out[v.RouteID] == nil {
			out[v.RouteID] = make(map[string]struct{})
		}
		out[v.RouteID][v.StopID] = struct{}{}
	}
	return out
}

// changedVehicles returns the sorted ids of vehicles whose assigned
// stop set differs between the previous solution and the edit.
func changedVehicles(
	fleet []domain.Vehicle,
	prev map[string]map[string]struct{},
	current map[string][]string,
) []string {
	var changed []string
	for _, veh := range fleet {
		prevSet := prev[veh.VehicleID]

		// Compare as sets so a repeated stop id cannot mask a removal.
		curSet := make(map[string]struct{}, len(current[veh.VehicleID]))
		for _, sid := range current[veh.VehicleID] {
			curSet[sid] = struct{}{}
		}

		if len(prevSet) != len(curSet) {
			changed = append(changed, veh.VehicleID)
			continue
		}
		same := true
		for sid := range curSet {
			if _, ok := prevSet[sid]; !ok {
				same = false
				break
			}
		}
		if !same {
			changed = append(changed, veh.VehicleID)
		}
	}
	sort.Strings(changed)
	return changed
}

func resolveStops(state *session.State, stopIDs []string) ([]domain.Stop, error) {
	out := make([]domain.Stop, 0, len(stopIDs))
	for _, sid := range stopIDs {
		s, ok := state.StopByID(sid)
		if !ok {
			return nil, fmt.Errorf("unknown stop %q", sid)
		}
		out = append(out, s)
	}
	return out, nil
}
