package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"bag-delivery-service/internal/adapters/sessionstore"
	"bag-delivery-service/internal/api/dto"
	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/ports"
	"bag-delivery-service/internal/services"
)

type RerouteHandler struct {
	Solver   ports.Solver
	Store    ports.SessionStore
	DayStart domain.ClockTime
	Options  services.ProblemOptions
}

// Reroute applies a manual stop re-assignment to an existing session,
// re-solving only the vehicles whose assignment changed.
func (h *RerouteHandler) Reroute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.RerouteRequest

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

	if req.SessionID == "" {
		writeError(w, r, http.StatusBadRequest, "session_id is required")
		return
	}

	state, err := h.Store.Load(r.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "session not found")
			return
		}
		log.Printf("reroute failed: load session: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if !state.HasSolution() {
		writeError(w, r, http.StatusConflict, "session has no solution to re-route")
		return
	}

	res, err := services.Reroute(r.Context(), h.Solver, services.RerouteInput{
		State:       state,
		Assignments: req.Assignments,
		Options:     h.Options,
		DayStart:    h.DayStart,
	})
	if err != nil {
		log.Printf("reroute failed: %v", err)
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	services.ApplyReroute(state, res)
	if err := h.Store.Save(r.Context(), state); err != nil {
		log.Printf("reroute failed: save session: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewRerouteResponse(state.SessionID, res))
}
