package handlers

import (
	"errors"
	"log"
	"net/http"

	"bag-delivery-service/internal/adapters/sessionstore"
	"bag-delivery-service/internal/api/dto"
	"bag-delivery-service/internal/ports"
	"bag-delivery-service/internal/services"
)

type RouteSheetHandler struct {
	Store ports.SessionStore
}

// Sheet renders the driver-facing stop list of a session: delivery rows
// only, in driving order.
func (h *RouteSheetHandler) Sheet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := r.URL.Query().Get("session_id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "session_id is required")
		return
	}

	state, err := h.Store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "session not found")
			return
		}
		log.Printf("routesheet failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if !state.HasSolution() {
		writeError(w, r, http.StatusConflict, "session has no solution")
		return
	}

	rows := services.RouteSheet(state.Visits)
	writeJSON(w, r, http.StatusOK, dto.NewRouteSheetResponse(state.SessionID, rows))
}
