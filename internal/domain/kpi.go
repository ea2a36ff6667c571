package domain

// RouteKPI summarizes one (route, trip) group of the assigned-stop table.
type RouteKPI struct {
	RouteID        string
	TripID         int
	Profile        Profile
	StartTime      ClockTime
	EndTime        ClockTime
	TotalMeters    int
	TotalSeconds   int
	WaitingSeconds int

	// AvgSpeedKMH is the mean of per-leg speeds, excluding the
	// depot-start leg which has no travel.
	AvgSpeedKMH float64

	Stops      int
	Demand     float64
	EarlyStops int
	LateStops  int
}

// FleetKPI is the total row over all routes. It deliberately carries no
// average speed: averaging per-route averages is not meaningful.
type FleetKPI struct {
	Routes          int
	TotalMeters     int
	TotalSeconds    int
	WaitingSeconds  int
	Stops           int
	Demand          float64
	EarlyStops      int
	LateStops       int
	UnservicedStops int
}
