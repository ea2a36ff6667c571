package domain

// Location is one row of the location registry: the union of all stops
// and distinct vehicle depots. Index is the dense zero-based key into
// every travel matrix for the duration of one solve.
type Location struct {
	Index          int
	StopID         string
	Type           LocationType
	Activity       ActivityType
	Coords         Coordinates
	Window         TimeWindow
	ServiceSeconds int
	SiteName       string
	Address        string
}
