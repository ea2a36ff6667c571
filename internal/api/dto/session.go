package dto

import (
	"fmt"

	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/services"
)

// StopWindowEdit changes one stop's delivery window, times as HH:MM:SS.
type StopWindowEdit struct {
	StopID      string `json:"stop_id"`
	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`
}

// SessionUpdateRequest carries user-confirmed stop edits for a stored
// session. Edits take effect at the next solve.
type SessionUpdateRequest struct {
	Stops []StopWindowEdit `json:"stops"`
}

// Edits parses the wire shape into service-level window edits.
func (r SessionUpdateRequest) Edits() ([]services.WindowEdit, error) {
	edits := make([]services.WindowEdit, 0, len(r.Stops))
	for _, s := range r.Stops {
		start, err := domain.ParseClock(s.WindowStart)
		if err != nil {
			return nil, fmt.Errorf("stop %q: window_start: %w", s.StopID, err)
		}
		end, err := domain.ParseClock(s.WindowEnd)
		if err != nil {
			return nil, fmt.Errorf("stop %q: window_end: %w", s.StopID, err)
		}
		edits = append(edits, services.WindowEdit{
			StopID: s.StopID,
			Window: domain.TimeWindow{Start: start, End: end},
		})
	}
	return edits, nil
}
