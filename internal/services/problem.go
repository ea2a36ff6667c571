package services

import (
	"fmt"
	"log"
	"math"

	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/ports"
)

// Demand is expressed in whole units on input but the solver works on
// integer amounts; scaling by 1000 preserves fractional box counts.
const demandScale = 1000

// Pickup shipment-step ids are offset so they can never collide with a
// job id (which is the delivery's location index).
const pickupIDOffset = 10000

type ProblemOptions struct {
	// DefaultServiceSeconds applies to stops that declare no service
	// duration of their own.
	DefaultServiceSeconds int
}

// BuildProblem serializes vehicles and stops into the solver's request
// shape. Vehicles and stops must already carry their location indices.
//
// Stops whose skill is served by a bicycle vehicle are modeled as
// shipments: a pickup at the bicycle's stock point (with the vehicle's
// replenish duration as setup) linked to the delivery, so the solver
// can plan mid-shift reloads. All other stops become independent jobs.
func BuildProblem(
	vehicles []domain.Vehicle,
	stops []domain.Stop,
	matrices map[domain.Profile]domain.Matrix,
	opts ProblemOptions,
) (ports.Problem, error) {
	if len(vehicles) == 0 {
		return ports.Problem{}, fmt.Errorf("build problem: no vehicles")
	}

	p := ports.Problem{Matrices: matrices}

	for i, v := range vehicles {
		if v.LocationIndex < 0 {
			return ports.Problem{}, fmt.Errorf("build problem: vehicle %q has no location index", v.VehicleID)
		}
		if _, ok := matrices[v.Profile]; !ok {
			return ports.Problem{}, fmt.Errorf("build problem: no matrix for profile %q (vehicle %q)", v.Profile, v.VehicleID)
		}
		p.Vehicles = append(p.Vehicles, ports.VehicleSpec{
			Index:       i,
			Description: v.VehicleID,
			Profile:     v.Profile,
			StartIndex:  v.LocationIndex,
			EndIndex:    v.LocationIndex,
			Capacity:    []int{v.CapacityUnits * demandScale, v.MaxStops},
			Skills:      v.Skills,
			Window:      [2]int{int(v.Shift.Start), int(v.Shift.End)},
		})
	}

	bicycle, hasBicycle := pickBicycle(vehicles)

	// A single-vehicle problem (the incremental re-route case) assigns
	// every stop to that vehicle's mode regardless of skill.
	singleVehicle := len(vehicles) == 1

	for _, s := range stops {
		if s.LocationIndex < 0 {
			return ports.Problem{}, fmt.Errorf("build problem: stop %q has no location index", s.StopID)
		}

		service := s.ServiceSeconds
		if service == 0 {
			service = opts.DefaultServiceSeconds
		}

		asShipment := false
		if hasBicycle {
			if singleVehicle {
				asShipment = true
			} else if s.Skill != nil && bicycle.HasSkill(*s.Skill) {
				asShipment = true
			}
		}

		var skills []int
		if s.Skill != nil {
			skills = []int{*s.Skill}
		}
		amount := []int{int(math.Round(s.Demand * demandScale)), 1}
		windows := [][2]int{{int(s.Window.Start), int(s.Window.End)}}

		if asShipment {
			p.Shipments = append(p.Shipments, ports.ShipmentSpec{
				Pickup: ports.ShipmentStepSpec{
					ID:            pickupIDOffset + s.LocationIndex,
					LocationIndex: bicycle.LocationIndex,
					SetupSeconds:  bicycle.ReplenishSeconds,
					Windows:       [][2]int{{int(bicycle.Shift.Start), int(bicycle.Shift.End)}},
				},
				Delivery: ports.ShipmentStepSpec{
					ID:             s.LocationIndex,
					LocationIndex:  s.LocationIndex,
					ServiceSeconds: service,
					Windows:        windows,
				},
				Amount: amount,
				Skills: skills,
			})
			continue
		}

		p.Jobs = append(p.Jobs, ports.JobSpec{
			ID:             s.LocationIndex,
			LocationIndex:  s.LocationIndex,
			ServiceSeconds: service,
			Delivery:       amount,
			Skills:         skills,
			Windows:        windows,
		})
	}

	return p, nil
}

// pickBicycle selects the bicycle vehicle used as shipment stock point.
// Multiple bicycles are not supported for shipments; the first (by
// fleet order) wins.
func pickBicycle(vehicles []domain.Vehicle) (domain.Vehicle, bool) {
	var found *domain.Vehicle
	for i := range vehicles {
		if vehicles[i].Profile != domain.ProfileBicycle {
			continue
		}
		if found != nil {
			log.Printf("build problem: multiple bicycle vehicles, using %q for shipments", found.VehicleID)
			break
		}
		found = &vehicles[i]
	}
	if found == nil {
		return domain.Vehicle{}, false
	}
	return *found, true
}
