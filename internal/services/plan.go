package services

import (
	"context"
	"fmt"
	"time"

	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/ports"
	"bag-delivery-service/internal/schema"
	"bag-delivery-service/internal/session"

	"github.com/google/uuid"
)

// PlannerDeps are the external collaborators the full pipeline needs.
// Geocoder may be nil when every stop already has coordinates.
type PlannerDeps struct {
	Matrix   ports.MatrixProvider
	Solver   ports.Solver
	Geocoder ports.Geocoder
}

// PlanRequest is one full planning run over raw uploaded rows.
type PlanRequest struct {
	Orders   []schema.Record
	Fleet    []schema.Record
	Mappings *schema.File
	DayStart domain.ClockTime
	Options  ProblemOptions
}

// Plan runs the whole pipeline: normalize, geocode flagged stops, build
// the location registry and matrices, solve, decode and summarize. The
// result is a fresh session state ready to persist.
//
// A solver failure here is fatal to the attempt: the caller keeps its
// previous state, nothing is partially applied.
func Plan(ctx context.Context, deps PlannerDeps, req PlanRequest) (*session.State, *Summary, error) {
	mappings := req.Mappings
	if mappings == nil {
		mappings = schema.Default()
	}

	stops, err := NormalizeOrders(req.Orders, mappings.Stops)
	if err != nil {
		return nil, nil, fmt.Errorf("plan: %w", err)
	}
	vehicles, err := NormalizeFleet(req.Fleet, mappings.Vehicles)
	if err != nil {
		return nil, nil, fmt.Errorf("plan: %w", err)
	}
	if len(stops) == 0 {
		return nil, nil, fmt.Errorf("plan: no stops to plan")
	}
	stops = ClearUnservableSkills(stops, vehicles)

	if err := GeocodeMissing(ctx, deps.Geocoder, stops); err != nil {
		return nil, nil, fmt.Errorf("plan: %w", err)
	}

	reg, err := BuildRegistry(stops, vehicles)
	if err != nil {
		return nil, nil, fmt.Errorf("plan: %w", err)
	}

	matrices, err := BuildMatrices(ctx, deps.Matrix, reg)
	if err != nil {
		return nil, nil, fmt.Errorf("plan: %w", err)
	}

	problem, err := BuildProblem(reg.Vehicles, reg.Stops, matrices, req.Options)
	if err != nil {
		return nil, nil, fmt.Errorf("plan: %w", err)
	}

	solution, err := deps.Solver.Solve(ctx, problem)
	if err != nil {
		return nil, nil, fmt.Errorf("plan: solve: %w", err)
	}

	decoded, err := DecodeSolution(DecodeInput{
		Solution:  solution,
		Vehicles:  reg.Vehicles,
		Stops:     reg.Stops,
		Locations: reg.Locations,
		Matrices:  matrices,
		DayStart:  req.DayStart,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("plan: %w", err)
	}

	summary, err := Summarize(decoded.Visits, decoded.UnservicedStops)
	if err != nil {
		return nil, nil, fmt.Errorf("plan: %w", err)
	}

	now := time.Now().UTC()
	state := &session.State{
		SessionID:       uuid.NewString(),
		CreatedAt:       now,
		UpdatedAt:       now,
		Stops:           reg.Stops,
		Vehicles:        reg.Vehicles,
		Locations:       reg.Locations,
		Matrices:        matrices,
		Visits:          decoded.Visits,
		UnusedRoutes:    decoded.UnusedRoutes,
		UnservicedStops: decoded.UnservicedStops,
		RouteKPIs:       summary.Routes,
		Fleet:           summary.Fleet,
	}
	return state, &summary, nil
}

// ApplyReroute folds a reroute result back into the session state.
func ApplyReroute(state *session.State, res *RerouteResult) {
	state.Visits = res.Visits
	state.UnusedRoutes = res.UnusedRoutes
	state.UnservicedStops = res.UnservicedStops
	state.RouteKPIs = res.Summary.Routes
	state.Fleet = res.Summary.Fleet
	state.UpdatedAt = time.Now().UTC()
}
