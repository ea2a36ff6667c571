package api

import (
	"net/http"

	"bag-delivery-service/internal/api/handlers"
	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/ports"
	"bag-delivery-service/internal/schema"
	"bag-delivery-service/internal/services"
)

// RouterDeps are the concrete collaborators behind the HTTP surface.
// Repo and Geocoder are optional; the rest are required.
type RouterDeps struct {
	Matrix   ports.MatrixProvider
	Solver   ports.Solver
	Geocoder ports.Geocoder
	Store    ports.SessionStore
	Repo     ports.OrderRepository

	Mappings *schema.File
	DayStart domain.ClockTime
	Options  services.ProblemOptions
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	planHandler := &handlers.PlanHandler{
		Deps: services.PlannerDeps{
			Matrix:   deps.Matrix,
			Solver:   deps.Solver,
			Geocoder: deps.Geocoder,
		},
		Store:    deps.Store,
		Repo:     deps.Repo,
		Mappings: deps.Mappings,
		DayStart: deps.DayStart,
		Options:  deps.Options,
	}
	rerouteHandler := &handlers.RerouteHandler{
		Solver:   deps.Solver,
		Store:    deps.Store,
		DayStart: deps.DayStart,
		Options:  deps.Options,
	}
	sessionHandler := &handlers.SessionHandler{Store: deps.Store}
	sheetHandler := &handlers.RouteSheetHandler{Store: deps.Store}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.HandleFunc("/plans/reroute", rerouteHandler.Reroute)
	mux.HandleFunc("/sessions/", sessionHandler.Handle)
	mux.HandleFunc("/routesheet", sheetHandler.Sheet)

	return loggingMiddleware(mux)
}
