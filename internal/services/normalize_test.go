package services

import (
	"strings"
	"testing"

	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/schema"
)

func orderRow(overrides map[string]string) schema.Record {
	row := schema.Record{
		"Site Bk":        "S1",
		"Site Name":      "Corner Shop",
		"Site Latitude":  "52.37",
		"Site Longitude": "4.90",
		"Quantity":       "2",
		"Product Name":   "Bags",
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

func TestNormalizeOrdersAggregatesByStop(t *testing.T) {
	rows := []schema.Record{
		orderRow(map[string]string{"Quantity": "2", "Product Name": "Bags", "Ticket No": "T1"}),
		orderRow(map[string]string{"Quantity": "1.5", "Product Name": "Boxes", "Ticket No": "T2"}),
		orderRow(map[string]string{"Site Bk": "S2", "Quantity": "4"}),
	}

	stops, err := NormalizeOrders(rows, schema.DefaultStopMapping())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(stops))
	}

	s1 := stops[0]
	if s1.StopID != "S1" {
		t.Fatalf("expected S1 first (input order), got %q", s1.StopID)
	}
	if s1.Demand != 3.5 {
		t.Fatalf("expected summed demand 3.5, got %f", s1.Demand)
	}
	if !strings.Contains(s1.Description, "Bags: 2") || !strings.Contains(s1.Description, "Boxes: 1.5") {
		t.Fatalf("expected concatenated descriptions, got %q", s1.Description)
	}
	if s1.TicketNos != "T1; T2" {
		t.Fatalf("expected joined ticket numbers, got %q", s1.TicketNos)
	}
	if s1.NeedsGeocoding {
		t.Fatal("expected stop with coordinates not to need geocoding")
	}
	if s1.ServiceSeconds != 300 {
		t.Fatalf("expected default duration 300, got %d", s1.ServiceSeconds)
	}
	if s1.Window.Start.String() != "09:00:00" || s1.Window.End.String() != "16:00:00" {
		t.Fatalf("unexpected default window %s-%s", s1.Window.Start, s1.Window.End)
	}
}

func TestNormalizeOrdersFlagsMissingCoordinates(t *testing.T) {
	rows := []schema.Record{
		orderRow(map[string]string{"Site Latitude": "", "Site Longitude": ""}),
	}

	stops, err := NormalizeOrders(rows, schema.DefaultStopMapping())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stops[0].NeedsGeocoding || stops[0].Coords != nil {
		t.Fatalf("expected geocoding flag on stop without coordinates, got %+v", stops[0])
	}
}

func TestNormalizeOrdersAdoptsLaterCoordinates(t *testing.T) {
	rows := []schema.Record{
		orderRow(map[string]string{"Site Latitude": "", "Site Longitude": ""}),
		orderRow(nil),
	}

	stops, err := NormalizeOrders(rows, schema.DefaultStopMapping())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stops[0].Coords == nil || stops[0].NeedsGeocoding {
		t.Fatalf("expected coordinates adopted from second line, got %+v", stops[0])
	}
}

func TestNormalizeOrdersMissingRequiredColumn(t *testing.T) {
	rows := []schema.Record{{"Quantity": "1"}}

	_, err := NormalizeOrders(rows, schema.DefaultStopMapping())
	if err == nil {
		t.Fatal("expected error for missing stop id column")
	}
	if !strings.Contains(err.Error(), "Site Bk") {
		t.Fatalf("expected error to name the missing column, got %v", err)
	}
}

func fleetRow(overrides map[string]string) schema.Record {
	row := schema.Record{
		"Vehicle id":        "V1",
		"Type":              "Van",
		"lat":               "52.36",
		"lon":               "4.89",
		"Capacity (#boxes)": "100",
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

func TestNormalizeFleet(t *testing.T) {
	rows := []schema.Record{
		fleetRow(nil),
		fleetRow(map[string]string{
			"Vehicle id":                "B1",
			"Type":                      "Bicycle",
			"Dedicated transport zones": "7, 8",
			"Replenish duration (min)":  "20",
		}),
	}

	vehicles, err := NormalizeFleet(rows, schema.DefaultVehicleMapping())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vehicles) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(vehicles))
	}

	van := vehicles[0]
	if van.Profile != domain.ProfileAuto {
		t.Fatalf("expected Van mapped to auto, got %q", van.Profile)
	}
	if van.MaxStops != 100 {
		t.Fatalf("expected default max stops 100, got %d", van.MaxStops)
	}
	if van.DefaultServiceSeconds != 5*60 {
		t.Fatalf("expected service default in seconds, got %d", van.DefaultServiceSeconds)
	}

	bike := vehicles[1]
	if bike.Profile != domain.ProfileBicycle {
		t.Fatalf("expected Bicycle mapped to bicycle, got %q", bike.Profile)
	}
	if bike.ReplenishSeconds != 20*60 {
		t.Fatalf("expected replenish 1200s, got %d", bike.ReplenishSeconds)
	}
	if len(bike.Skills) != 2 || bike.Skills[0] != 7 || bike.Skills[1] != 8 {
		t.Fatalf("expected skills [7 8], got %v", bike.Skills)
	}
}

func TestNormalizeFleetRejectsDuplicates(t *testing.T) {
	rows := []schema.Record{fleetRow(nil), fleetRow(nil)}

	_, err := NormalizeFleet(rows, schema.DefaultVehicleMapping())
	if err == nil {
		t.Fatal("expected error for duplicate vehicle id")
	}
}

func TestNormalizeFleetRequiresDepotCoordinates(t *testing.T) {
	rows := []schema.Record{fleetRow(map[string]string{"lat": "not-a-number"})}

	_, err := NormalizeFleet(rows, schema.DefaultVehicleMapping())
	if err == nil {
		t.Fatal("expected error for malformed depot coordinates")
	}
}

func TestClearUnservableSkills(t *testing.T) {
	seven, nine := 7, 9
	stops := []domain.Stop{
		{StopID: "S1", Skill: &seven},
		{StopID: "S2", Skill: &nine},
		{StopID: "S3"},
	}
	vehicles := []domain.Vehicle{{VehicleID: "V1", Skills: []int{7}}}

	out := ClearUnservableSkills(stops, vehicles)

	if out[0].Skill == nil || *out[0].Skill != 7 {
		t.Fatalf("expected servable skill kept, got %v", out[0].Skill)
	}
	if out[1].Skill != nil {
		t.Fatalf("expected unservable skill cleared, got %v", out[1].Skill)
	}
	// Input slice stays untouched.
	if stops[1].Skill == nil {
		t.Fatal("expected input slice unmodified")
	}
}
