package ports

import (
	"bag-delivery-service/internal/domain"
	"context"
)

// Solver step types as the external solver reports them.
const (
	StepStart    = "start"
	StepEnd      = "end"
	StepJob      = "job"
	StepPickup   = "pickup"
	StepDelivery = "delivery"
)

// SolverStep is one raw visit in a vehicle's solver-assigned order.
// All offsets are seconds; ArrivalSeconds counts from the day start.
type SolverStep struct {
	Type           string
	LocationIndex  int
	ArrivalSeconds int
	SetupSeconds   int
	ServiceSeconds int
	WaitingSeconds int
}

// SolverRoute is the ordered visit list for one vehicle. VehicleIndex
// refers back to Problem.Vehicles.
type SolverRoute struct {
	VehicleIndex int
	Steps        []SolverStep
}

// Solution is the raw solver output: per-vehicle visit sequences plus
// the location indices the solver could not place anywhere.
type Solution struct {
	Routes     []SolverRoute
	Unassigned []int
}

// VehicleSpec serializes one vehicle into the solver's request shape.
type VehicleSpec struct {
	Index       int
	Description string
	Profile     domain.Profile
	StartIndex  int
	EndIndex    int
	Capacity    []int
	Skills      []int
	Window      [2]int
}

// JobSpec is an independent delivery task at one location.
type JobSpec struct {
	ID             int
	LocationIndex  int
	ServiceSeconds int
	Delivery       []int
	Skills         []int
	Windows        [][2]int
}

// ShipmentStepSpec is one half of a linked pickup/delivery pair.
type ShipmentStepSpec struct {
	ID             int
	LocationIndex  int
	SetupSeconds   int
	ServiceSeconds int
	Windows        [][2]int
}

// ShipmentSpec models pickup-then-delivery (e.g. a bicycle resupplied
// from a fixed stock point mid-route). The two steps always travel on
// the same vehicle, pickup first.
type ShipmentSpec struct {
	Pickup   ShipmentStepSpec
	Delivery ShipmentStepSpec
	Amount   []int
	Skills   []int
}

// Problem is the full solver request: fleet, tasks and one travel
// matrix per vehicle profile in use.
type Problem struct {
	Vehicles  []VehicleSpec
	Jobs      []JobSpec
	Shipments []ShipmentSpec
	Matrices  map[domain.Profile]domain.Matrix
}

// Solver is the boundary to the external vehicle-routing solver.
type Solver interface {
	Solve(ctx context.Context, p Problem) (Solution, error)
}
