package services

import (
	"fmt"
	"time"

	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/session"
)

// WindowEdit is one user-confirmed time-window change for a stop.
type WindowEdit struct {
	StopID string
	Window domain.TimeWindow
}

// EditStopWindows applies confirmed time-window edits to a session's
// stops and their registry rows. All edits are validated before any is
// applied, so a bad edit leaves the state untouched. Edits take effect
// at the next solve; the stored route table still reflects the windows
// it was decoded with.
func EditStopWindows(state *session.State, edits []WindowEdit) error {
	if state == nil {
		return fmt.Errorf("edit windows: no session state")
	}
	if len(edits) == 0 {
		return fmt.Errorf("edit windows: no edits")
	}

	seen := make(map[string]struct{}, len(edits))
	for _, e := range edits {
		if _, dup := seen[e.StopID]; dup {
			return fmt.Errorf("edit windows: stop %q edited twice", e.StopID)
		}
		seen[e.StopID] = struct{}{}

		if _, ok := state.StopByID(e.StopID); !ok {
			return fmt.Errorf("edit windows: unknown stop %q", e.StopID)
		}
		if e.Window.End < e.Window.Start {
			return fmt.Errorf(
				"edit windows: stop %q: window ends (%s) before it starts (%s)",
				e.StopID, e.Window.End, e.Window.Start,
			)
		}
	}

	for _, e := range edits {
		for i := range state.Stops {
			if state.Stops[i].StopID == e.StopID {
				state.Stops[i].Window = e.Window
				break
			}
		}
		for i := range state.Locations {
			if state.Locations[i].StopID == e.StopID && state.Locations[i].Type == domain.LocationJob {
				state.Locations[i].Window = e.Window
			}
		}
	}

	state.UpdatedAt = time.Now().UTC()
	return nil
}
