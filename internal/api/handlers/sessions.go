package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"bag-delivery-service/internal/adapters/sessionstore"
	"bag-delivery-service/internal/api/dto"
	"bag-delivery-service/internal/ports"
	"bag-delivery-service/internal/services"
)

type SessionHandler struct {
	Store ports.SessionStore
}

// Handle serves GET and DELETE on /sessions/{id}.
func (h *SessionHandler) Handle(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	state, err := h.Store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "session not found")
			return
		}
		log.Printf("session get failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	summary := services.Summary{Routes: state.RouteKPIs, Fleet: state.Fleet}
	res := dto.NewPlanResponse(
		state.SessionID, state.Visits, state.UnusedRoutes, state.UnservicedStops, summary,
	)
	writeJSON(w, r, http.StatusOK, res)
}

// update applies user-confirmed stop time-window edits to the stored
// session. The route table keeps the windows it was decoded with until
// the caller re-plans or re-routes.
func (h *SessionHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req dto.SessionUpdateRequest

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
	if len(req.Stops) == 0 {
		writeError(w, r, http.StatusBadRequest, "stops are required")
		return
	}

	edits, err := req.Edits()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	state, err := h.Store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "session not found")
			return
		}
		log.Printf("session update failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := services.EditStopWindows(state, edits); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.Store.Save(r.Context(), state); err != nil {
		log.Printf("session update failed: save session: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	summary := services.Summary{Routes: state.RouteKPIs, Fleet: state.Fleet}
	res := dto.NewPlanResponse(
		state.SessionID, state.Visits, state.UnusedRoutes, state.UnservicedStops, summary,
	)
	writeJSON(w, r, http.StatusOK, res)
}

func (h *SessionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.Store.Delete(r.Context(), id); err != nil {
		log.Printf("session delete failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
