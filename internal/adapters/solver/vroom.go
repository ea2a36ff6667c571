// Package solver adapts the external VROOM vehicle-routing solver
// behind the ports.Solver boundary.
package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bag-delivery-service/internal/platform/httpx"
	"bag-delivery-service/internal/platform/obs"
	"bag-delivery-service/internal/ports"
)

// VroomSolver talks to a vroom-express instance. It is safe for
// concurrent use.
type VroomSolver struct {
	client  *http.Client
	baseURL string
}

func NewVroomSolver(baseURL string, timeout time.Duration) (*VroomSolver, error) {
	if baseURL == "" {
		return nil, errors.New("vroom solver: base URL is empty")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &VroomSolver{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}, nil
}

type vroomVehicle struct {
	ID          int    `json:"id"`
	Description string `json:"description,omitempty"`
	Profile     string `json:"profile,omitempty"`
	Start       int    `json:"start_index"`
	End         int    `json:"end_index"`
	Capacity    []int  `json:"capacity,omitempty"`
	Skills      []int  `json:"skills,omitempty"`
	TimeWindow  [2]int `json:"time_window"`
}

type vroomJob struct {
	ID          int      `json:"id"`
	Location    int      `json:"location_index"`
	Service     int      `json:"service,omitempty"`
	Delivery    []int    `json:"delivery,omitempty"`
	Skills      []int    `json:"skills,omitempty"`
	TimeWindows [][2]int `json:"time_windows,omitempty"`
}

type vroomShipmentStep struct {
	ID          int      `json:"id"`
	Location    int      `json:"location_index"`
	Setup       int      `json:"setup,omitempty"`
	Service     int      `json:"service,omitempty"`
	TimeWindows [][2]int `json:"time_windows,omitempty"`
}

type vroomShipment struct {
	Pickup   vroomShipmentStep `json:"pickup"`
	Delivery vroomShipmentStep `json:"delivery"`
	Amount   []int             `json:"amount,omitempty"`
	Skills   []int             `json:"skills,omitempty"`
}

type vroomMatrix struct {
	Durations [][]int `json:"durations"`
	Distances [][]int `json:"distances,omitempty"`
}

type vroomRequest struct {
	Vehicles  []vroomVehicle         `json:"vehicles"`
	Jobs      []vroomJob             `json:"jobs,omitempty"`
	Shipments []vroomShipment        `json:"shipments,omitempty"`
	Matrices  map[string]vroomMatrix `json:"matrices"`
	Options   map[string]any         `json:"options,omitempty"`
}

type vroomStep struct {
	Type          string `json:"type"`
	LocationIndex *int   `json:"location_index"`
	Arrival       int    `json:"arrival"`
	Setup         int    `json:"setup"`
	Service       int    `json:"service"`
	WaitingTime   int    `json:"waiting_time"`
}

type vroomRoute struct {
	Vehicle int         `json:"vehicle"`
	Steps   []vroomStep `json:"steps"`
}

type vroomUnassigned struct {
	ID       int  `json:"id"`
	Location *int `json:"location_index"`
}

type vroomResponse struct {
	Code       int               `json:"code"`
	Error      string            `json:"error"`
	Routes     []vroomRoute      `json:"routes"`
	Unassigned []vroomUnassigned `json:"unassigned"`
}

// Solve serializes the problem into VROOM's request shape, posts it and
// reads back the raw visit table.
func (v *VroomSolver) Solve(ctx context.Context, p ports.Problem) (_ ports.Solution, err error) {
	defer obs.Time(ctx, "vroom.Solve")(&err)

	payload, err := json.Marshal(buildRequest(p))
	if err != nil {
		return ports.Solution{}, fmt.Errorf("vroom solve: marshal request: %w", err)
	}

	resp, err := httpx.DoWithRetry(ctx, v.client, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return ports.Solution{}, fmt.Errorf("vroom solve: request: %w", err)
	}
	defer resp.Body.Close()

	var decoded vroomResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.Solution{}, fmt.Errorf("vroom solve: decode response: %w", err)
	}
	if decoded.Code != 0 {
		return ports.Solution{}, fmt.Errorf("vroom solve: solver error code %d: %s", decoded.Code, decoded.Error)
	}

	return decodeResponse(decoded)
}

func buildRequest(p ports.Problem) vroomRequest {
	req := vroomRequest{Matrices: make(map[string]vroomMatrix, len(p.Matrices))}

	for profile, m := range p.Matrices {
		req.Matrices[string(profile)] = vroomMatrix{
			Durations: m.DurationsSeconds,
			Distances: m.DistancesMeters,
		}
	}

	for _, veh := range p.Vehicles {
		req.Vehicles = append(req.Vehicles, vroomVehicle{
			ID:          veh.Index,
			Description: veh.Description,
			Profile:     string(veh.Profile),
			Start:       veh.StartIndex,
			End:         veh.EndIndex,
			Capacity:    veh.Capacity,
			Skills:      veh.Skills,
			TimeWindow:  veh.Window,
		})
	}
	for _, j := range p.Jobs {
		req.Jobs = append(req.Jobs, vroomJob{
			ID:          j.ID,
			Location:    j.LocationIndex,
			Service:     j.ServiceSeconds,
			Delivery:    j.Delivery,
			Skills:      j.Skills,
			TimeWindows: j.Windows,
		})
	}
	for _, s := range p.Shipments {
		req.Shipments = append(req.Shipments, vroomShipment{
			Pickup: vroomShipmentStep{
				ID:          s.Pickup.ID,
				Location:    s.Pickup.LocationIndex,
				Setup:       s.Pickup.SetupSeconds,
				Service:     s.Pickup.ServiceSeconds,
				TimeWindows: s.Pickup.Windows,
			},
			Delivery: vroomShipmentStep{
				ID:          s.Delivery.ID,
				Location:    s.Delivery.LocationIndex,
				Setup:       s.Delivery.SetupSeconds,
				Service:     s.Delivery.ServiceSeconds,
				TimeWindows: s.Delivery.Windows,
			},
			Amount: s.Amount,
			Skills: s.Skills,
		})
	}
	return req
}

func decodeResponse(resp vroomResponse) (ports.Solution, error) {
	sol := ports.Solution{}
	for _, rt := range resp.Routes {
		route := ports.SolverRoute{VehicleIndex: rt.Vehicle}
		for _, st := range rt.Steps {
			if st.LocationIndex == nil {
				return ports.Solution{}, fmt.Errorf(
					"vroom solve: step of vehicle %d has no location index", rt.Vehicle,
				)
			}
			route.Steps = append(route.Steps, ports.SolverStep{
				Type:           st.Type,
				LocationIndex:  *st.LocationIndex,
				ArrivalSeconds: st.Arrival,
				SetupSeconds:   st.Setup,
				ServiceSeconds: st.Service,
				WaitingSeconds: st.WaitingTime,
			})
		}
		sol.Routes = append(sol.Routes, route)
	}
	for _, u := range resp.Unassigned {
		if u.Location != nil {
			sol.Unassigned = append(sol.Unassigned, *u.Location)
		} else {
			sol.Unassigned = append(sol.Unassigned, u.ID)
		}
	}
	return sol, nil
}

var _ ports.Solver = (*VroomSolver)(nil)
