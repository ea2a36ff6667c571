package solver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/ports"
)

func testProblem() ports.Problem {
	return ports.Problem{
		Vehicles: []ports.VehicleSpec{{
			Index:       0,
			Description: "V1",
			Profile:     domain.ProfileAuto,
			StartIndex:  0,
			EndIndex:    0,
			Capacity:    []int{5000, 50},
			Window:      [2]int{32400, 61200},
		}},
		Jobs: []ports.JobSpec{{
			ID:             1,
			LocationIndex:  1,
			ServiceSeconds: 300,
			Delivery:       []int{1000, 1},
			Windows:        [][2]int{{32400, 57600}},
		}},
		Matrices: map[domain.Profile]domain.Matrix{
			domain.ProfileAuto: {
				DurationsSeconds: [][]int{{0, 300}, {300, 0}},
				DistancesMeters:  [][]int{{0, 2000}, {2000, 0}},
			},
		},
	}
}

func TestVroomSolverSolve(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}

		one := 1
		zero := 0
		resp := vroomResponse{
			Code: 0,
			Routes: []vroomRoute{{
				Vehicle: 0,
				Steps: []vroomStep{
					{Type: "start", LocationIndex: &zero},
					{Type: "job", LocationIndex: &one, Arrival: 300, Service: 300, WaitingTime: 60},
					{Type: "end", LocationIndex: &zero, Arrival: 960},
				},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	s, err := NewVroomSolver(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sol, err := s.Solve(context.Background(), testProblem())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sol.Routes) != 1 || sol.Routes[0].VehicleIndex != 0 {
		t.Fatalf("unexpected routes %+v", sol.Routes)
	}
	steps := sol.Routes[0].Steps
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	if steps[1].Type != ports.StepJob || steps[1].LocationIndex != 1 {
		t.Fatalf("unexpected job step %+v", steps[1])
	}
	if steps[1].WaitingSeconds != 60 || steps[1].ServiceSeconds != 300 {
		t.Fatalf("unexpected job timing %+v", steps[1])
	}

	// Matrices travel keyed by profile name.
	matrices, ok := gotBody["matrices"].(map[string]any)
	if !ok {
		t.Fatalf("expected matrices object in request, got %T", gotBody["matrices"])
	}
	if _, ok := matrices["auto"]; !ok {
		t.Fatalf("expected auto matrix in request, got %v", matrices)
	}
	vehicles, ok := gotBody["vehicles"].([]any)
	if !ok || len(vehicles) != 1 {
		t.Fatalf("expected one vehicle in request, got %v", gotBody["vehicles"])
	}
}

func TestVroomSolverSolverErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(vroomResponse{Code: 3, Error: "no solution"})
	}))
	defer srv.Close()

	s, err := NewVroomSolver(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.Solve(context.Background(), testProblem()); err == nil {
		t.Fatal("expected error for non-zero solver code")
	}
}

func TestVroomSolverUnassignedFallsBackToID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		five := 5
		resp := vroomResponse{
			Unassigned: []vroomUnassigned{
				{ID: 9, Location: &five},
				{ID: 7},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	s, err := NewVroomSolver(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sol, err := s.Solve(context.Background(), testProblem())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sol.Unassigned) != 2 || sol.Unassigned[0] != 5 || sol.Unassigned[1] != 7 {
		t.Fatalf("unexpected unassigned %v", sol.Unassigned)
	}
}

func TestVroomSolverRequiresBaseURL(t *testing.T) {
	if _, err := NewVroomSolver("", time.Second); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}
