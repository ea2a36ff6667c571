package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"bag-delivery-service/internal/api/dto"
	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/ports"
	"bag-delivery-service/internal/schema"
	"bag-delivery-service/internal/services"
)

type PlanHandler struct {
	Deps     services.PlannerDeps
	Store    ports.SessionStore
	Repo     ports.OrderRepository
	Mappings *schema.File
	DayStart domain.ClockTime
	Options  services.ProblemOptions
}

// Plan runs the full pipeline over uploaded rows and opens a session
// holding the decoded route table. When the request carries no rows the
// configured order repository supplies them.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	orders := toRecords(req.Orders)
	fleet := toRecords(req.Fleet)
	if len(orders) == 0 && h.Repo != nil {
		var err error
		orders, err = h.Repo.ListOrders(r.Context())
		if err != nil {
			log.Printf("plan failed: load orders: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
		fleet, err = h.Repo.ListVehicles(r.Context())
		if err != nil {
			log.Printf("plan failed: load vehicles: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
	}
	if len(orders) == 0 {
		writeError(w, r, http.StatusBadRequest, "orders are required")
		return
	}
	if len(fleet) == 0 {
		writeError(w, r, http.StatusBadRequest, "fleet is required")
		return
	}

	dayStart := h.DayStart
	if req.DayStart != "" {
		parsed, err := domain.ParseClock(req.DayStart)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid day_start (want HH:MM:SS)")
			return
		}
		dayStart = parsed
	}

	state, summary, err := services.Plan(r.Context(), h.Deps, services.PlanRequest{
		Orders:   orders,
		Fleet:    fleet,
		Mappings: h.Mappings,
		DayStart: dayStart,
		Options:  h.Options,
	})
	if err != nil {
		var missing *domain.MissingRequiredFieldError
		var unroutable *domain.UnroutableLocationError
		if errors.As(err, &missing) || errors.As(err, &unroutable) {
			log.Printf("plan rejected: %v", err)
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		log.Printf("plan failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.Store.Save(r.Context(), state); err != nil {
		log.Printf("plan failed: save session: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.NewPlanResponse(
		state.SessionID, state.Visits, state.UnusedRoutes, state.UnservicedStops, *summary,
	)
	writeJSON(w, r, http.StatusOK, res)
}
