package services

import (
	"fmt"
	"strconv"
	"strings"

	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/schema"
)

// NormalizeOrders converts raw order rows into canonical Stop records.
//
// Rows are first mapped through the declarative field-mapping table,
// then aggregated by stop id: one Stop per unique physical site, demand
// summed, service duration taken as the maximum of the constituent
// durations (multiple items are handled in one visit), product
// descriptions and ticket numbers concatenated.
//
// Stops without usable coordinates are flagged for geocoding rather
// than rejected.
func NormalizeOrders(rows []schema.Record, mapping schema.Mapping) ([]domain.Stop, error) {
	order := make([]string, 0, len(rows))
	byStop := make(map[string]*domain.Stop, len(rows))

	for i, raw := range rows {
		rec, err := mapping.Apply(raw, i)
		if err != nil {
			return nil, fmt.Errorf("normalize orders: %w", err)
		}

		line, err := parseOrderLine(rec, i)
		if err != nil {
			return nil, fmt.Errorf("normalize orders: %w", err)
		}

		existing, ok := byStop[line.StopID]
		if !ok {
			stop := line.stop
			byStop[line.StopID] = &stop
			order = append(order, line.StopID)
			continue
		}

		// Aggregate further order lines for an already-seen site.
		existing.Demand += line.stop.Demand
		if line.stop.ServiceSeconds > existing.ServiceSeconds {
			existing.ServiceSeconds = line.stop.ServiceSeconds
		}
		existing.Description = joinNonEmpty(existing.Description, line.stop.Description, "\n")
		existing.TicketNos = joinNonEmpty(existing.TicketNos, line.stop.TicketNos, "; ")
		if existing.Coords == nil && line.stop.Coords != nil {
			existing.Coords = line.stop.Coords
			existing.NeedsGeocoding = false
		}
	}

	stops := make([]domain.Stop, 0, len(order))
	for _, id := range order {
		stops = append(stops, *byStop[id])
	}
	return stops, nil
}

type orderLine struct {
	StopID string
	stop   domain.Stop
}

func parseOrderLine(rec schema.Record, idx int) (orderLine, error) {
	stopID := strings.TrimSpace(rec["stop_id"])
	if stopID == "" {
		return orderLine{}, &domain.MissingRequiredFieldError{Field: "stop_id", Record: idx}
	}

	demand, err := parseFloatField(rec, "demand", idx)
	if err != nil {
		return orderLine{}, err
	}
	duration, err := parseIntField(rec, "duration", idx)
	if err != nil {
		return orderLine{}, err
	}
	window, err := parseWindow(rec, idx)
	if err != nil {
		return orderLine{}, err
	}
	skill, err := parseSkill(rec["skills"], idx)
	if err != nil {
		return orderLine{}, err
	}

	activity := domain.ActivityType(strings.TrimSpace(rec["activity_type"]))
	switch activity {
	case domain.ActivityDelivery, domain.ActivityPickup, domain.ActivityDepot:
	default:
		return orderLine{}, fmt.Errorf("record %d: unknown activity type %q", idx, rec["activity_type"])
	}

	coords := parseCoordinates(rec["longitude"], rec["latitude"])

	desc := ""
	if p := strings.TrimSpace(rec["product_name"]); p != "" {
		desc = fmt.Sprintf("%s: %s", p, strings.TrimSpace(rec["demand"]))
	}

	return orderLine{
		StopID: stopID,
		stop: domain.Stop{
			StopID:         stopID,
			SiteName:       strings.TrimSpace(rec["site_name"]),
			Address:        strings.TrimSpace(rec["address"]),
			Coords:         coords,
			NeedsGeocoding: coords == nil,
			Demand:         demand,
			ServiceSeconds: duration,
			Window:         window,
			Skill:          skill,
			Activity:       activity,
			Description:    desc,
			TicketNos:      strings.TrimSpace(rec["ticket_no"]),
			TransportArea:  strings.TrimSpace(rec["transport_area"]),
			LocationIndex:  -1,
		},
	}, nil
}

// NormalizeFleet converts raw vehicle rows into canonical Vehicle
// records. Vehicle types map onto routing profiles (Van -> auto,
// Bicycle -> bicycle); durations given in minutes become seconds.
func NormalizeFleet(rows []schema.Record, mapping schema.Mapping) ([]domain.Vehicle, error) {
	vehicles := make([]domain.Vehicle, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))

	for i, raw := range rows {
		rec, err := mapping.Apply(raw, i)
		if err != nil {
			return nil, fmt.Errorf("normalize fleet: %w", err)
		}

		id := strings.TrimSpace(rec["route_id"])
		if id == "" {
			return nil, fmt.Errorf("normalize fleet: %w", &domain.MissingRequiredFieldError{Field: "route_id", Record: i})
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("normalize fleet: duplicate vehicle id %q", id)
		}
		seen[id] = struct{}{}

		profile, err := parseProfile(rec["profile"])
		if err != nil {
			return nil, fmt.Errorf("normalize fleet: record %d: %w", i, err)
		}

		coords := parseCoordinates(rec["longitude"], rec["latitude"])
		if coords == nil {
			return nil, fmt.Errorf("normalize fleet: record %d: vehicle %q depot coordinates missing or malformed", i, id)
		}

		capacity, err := parseIntField(rec, "capacity", i)
		if err != nil {
			return nil, fmt.Errorf("normalize fleet: %w", err)
		}
		maxStops, err := parseIntField(rec, "max_stops", i)
		if err != nil {
			return nil, fmt.Errorf("normalize fleet: %w", err)
		}
		serviceMin, err := parseIntField(rec, "service_default", i)
		if err != nil {
			return nil, fmt.Errorf("normalize fleet: %w", err)
		}
		replenishMin, err := parseIntField(rec, "replenish_duration", i)
		if err != nil {
			return nil, fmt.Errorf("normalize fleet: %w", err)
		}
		window, err := parseWindow(rec, i)
		if err != nil {
			return nil, fmt.Errorf("normalize fleet: %w", err)
		}
		skills, err := parseSkillList(rec["skills"], i)
		if err != nil {
			return nil, fmt.Errorf("normalize fleet: %w", err)
		}

		vehicles = append(vehicles, domain.Vehicle{
			VehicleID:             id,
			Profile:               profile,
			DepotID:               strings.TrimSpace(rec["depot_id"]),
			Depot:                 *coords,
			CapacityUnits:         capacity,
			MaxStops:              maxStops,
			Shift:                 window,
			DefaultServiceSeconds: serviceMin * 60,
			ReplenishSeconds:      replenishMin * 60,
			Skills:                skills,
			LocationIndex:         -1,
		})
	}
	return vehicles, nil
}

// ClearUnservableSkills drops stop skill requirements no vehicle in the
// fleet can satisfy, so a stale zone tag cannot make a stop unsolvable.
func ClearUnservableSkills(stops []domain.Stop, vehicles []domain.Vehicle) []domain.Stop {
	servable := make(map[int]struct{})
	for _, v := range vehicles {
		for _, s := range v.Skills {
			servable[s] = struct{}{}
		}
	}

	out := make([]domain.Stop, len(stops))
	copy(out, stops)
	for i := range out {
		if out[i].Skill == nil {
			continue
		}
		if _, ok := servable[*out[i].Skill]; !ok {
			out[i].Skill = nil
		}
	}
	return out
}

func parseProfile(s string) (domain.Profile, error) {
	switch strings.TrimSpace(s) {
	case "Van", "van", string(domain.ProfileAuto):
		return domain.ProfileAuto, nil
	case "Bicycle", "bicycle":
		return domain.ProfileBicycle, nil
	default:
		return "", fmt.Errorf("unknown vehicle type %q", s)
	}
}

func parseCoordinates(lon, lat string) *domain.Coordinates {
	lonF, err1 := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	latF, err2 := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err1 != nil || err2 != nil {
		return nil
	}
	return &domain.Coordinates{Lon: lonF, Lat: latF}
}

func parseWindow(rec schema.Record, idx int) (domain.TimeWindow, error) {
	start, err := domain.ParseClock(rec["time_window_start"])
	if err != nil {
		return domain.TimeWindow{}, fmt.Errorf("record %d: time_window_start: %w", idx, err)
	}
	end, err := domain.ParseClock(rec["time_window_end"])
	if err != nil {
		return domain.TimeWindow{}, fmt.Errorf("record %d: time_window_end: %w", idx, err)
	}
	if end < start {
		return domain.TimeWindow{}, fmt.Errorf("record %d: time window ends (%s) before it starts (%s)", idx, end, start)
	}
	return domain.TimeWindow{Start: start, End: end}, nil
}

func parseSkill(s string, idx int) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("record %d: skill %q is not numeric", idx, s)
	}
	return &n, nil
}

func parseSkillList(s string, idx int) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("record %d: skill %q is not numeric", idx, p)
		}
		out = append(out, n)
	}
	return out, nil
}

func parseIntField(rec schema.Record, field string, idx int) (int, error) {
	v := strings.TrimSpace(rec[field])
	n, err := strconv.Atoi(v)
	if err != nil {
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil {
			return 0, fmt.Errorf("record %d: field %q: %q is not a number", idx, field, v)
		}
		n = int(f)
	}
	return n, nil
}

func parseFloatField(rec schema.Record, field string, idx int) (float64, error) {
	v := strings.TrimSpace(rec[field])
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("record %d: field %q: %q is not a number", idx, field, v)
	}
	return f, nil
}

func joinNonEmpty(a, b, sep string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + sep + b
	}
}
