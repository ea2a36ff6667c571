package domain

// AssignedVisit is one decoded row of the route table: a specific vehicle
// visiting a specific location at reconstructed wall-clock times, with
// travel-leg metrics and running totals attached.
//
// Within one route StopSequence is strictly increasing and
// ArrivalTime <= ServiceStartTime <= DepartureTime, with the departure of
// visit k never later than the arrival of visit k+1.
type AssignedVisit struct {
	RouteID string
	Profile Profile

	// TripID segments a shift into depot-to-depot trips; 1-based,
	// incremented every time the vehicle reloads (PICKUP activity).
	TripID int

	StopID        string
	LocationIndex int
	Activity      ActivityType
	LocationType  LocationType

	// StopSequence is the zero-based position among all visits of the
	// route; JobSequence counts delivery visits only and is -1 for
	// depot and pickup visits.
	StopSequence int
	JobSequence  int

	ArrivalTime      ClockTime
	ServiceStartTime ClockTime
	DepartureTime    ClockTime
	WaitingSeconds   int
	ServiceSeconds   int

	TravelSeconds int
	TravelMeters  int
	SpeedKMH      float64

	Demand             float64
	DemandCum          float64
	TravelMetersCum    int
	DurationCumSeconds int

	Window TimeWindow
	Issue  ServiceIssue

	Coords        Coordinates
	SiteName      string
	Address       string
	Description   string
	TransportArea string
}
