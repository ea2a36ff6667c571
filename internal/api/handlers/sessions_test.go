package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bag-delivery-service/internal/adapters/sessionstore"
	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/session"
)

func storedSession(t *testing.T) (*SessionHandler, *sessionstore.MemoryStore) {
	t.Helper()
	store := sessionstore.NewMemoryStore()
	window := domain.TimeWindow{Start: 9 * 3600, End: 16 * 3600}
	state := &session.State{
		SessionID: "sess-1",
		Stops: []domain.Stop{
			{StopID: "S1", Window: window, LocationIndex: 1},
		},
		Locations: []domain.Location{
			{Index: 0, StopID: "HUB", Type: domain.LocationInfrastructure},
			{Index: 1, StopID: "S1", Type: domain.LocationJob, Window: window},
		},
		Visits: []domain.AssignedVisit{
			{RouteID: "V1", StopID: "S1", LocationType: domain.LocationJob, JobSequence: 0},
		},
	}
	if err := store.Save(context.Background(), state); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return &SessionHandler{Store: store}, store
}

func TestSessionUpdateChangesStopWindow(t *testing.T) {
	h, store := storedSession(t)

	body := `{"stops": [{"stop_id": "S1", "window_start": "10:00:00", "window_end": "14:00:00"}]}`
	req := httptest.NewRequest(http.MethodPut, "/sessions/sess-1", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	state, err := store.Load(req.Context(), "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s1, _ := state.StopByID("S1")
	if s1.Window.Start.String() != "10:00:00" || s1.Window.End.String() != "14:00:00" {
		t.Fatalf("expected persisted window edit, got %+v", s1.Window)
	}
}

func TestSessionUpdateUnknownStopIsUnprocessable(t *testing.T) {
	h, _ := storedSession(t)

	body := `{"stops": [{"stop_id": "ghost", "window_start": "10:00:00", "window_end": "14:00:00"}]}`
	req := httptest.NewRequest(http.MethodPut, "/sessions/sess-1", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestSessionUpdateRejectsMalformedClock(t *testing.T) {
	h, _ := storedSession(t)

	body := `{"stops": [{"stop_id": "S1", "window_start": "ten", "window_end": "14:00:00"}]}`
	req := httptest.NewRequest(http.MethodPut, "/sessions/sess-1", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSessionUpdateMissingSessionIsNotFound(t *testing.T) {
	h, _ := storedSession(t)

	body := `{"stops": [{"stop_id": "S1", "window_start": "10:00:00", "window_end": "14:00:00"}]}`
	req := httptest.NewRequest(http.MethodPut, "/sessions/ghost", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSessionGetAndDelete(t *testing.T) {
	h, store := storedSession(t)

	req := httptest.NewRequest(http.MethodGet, "/sessions/sess-1", nil)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/sessions/sess-1", nil)
	rec = httptest.NewRecorder()
	h.Handle(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	if _, err := store.Load(req.Context(), "sess-1"); err == nil {
		t.Fatal("expected session gone after delete")
	}
}
