package domain

// ActivityType classifies what a vehicle does at a location.
type ActivityType string

const (
	ActivityDelivery ActivityType = "DELIVERY"
	ActivityPickup   ActivityType = "PICKUP"
	ActivityDepot    ActivityType = "DEPOT_START_END"
)

// LocationType distinguishes customer sites from fleet infrastructure.
type LocationType string

const (
	LocationJob            LocationType = "JOB"
	LocationInfrastructure LocationType = "INFRASTRUCTURE"
)

// ServiceIssue flags timing problems on a decoded visit.
type ServiceIssue string

const (
	IssueOnTime     ServiceIssue = "ON-TIME"
	IssueEarly      ServiceIssue = "EARLY"
	IssueLate       ServiceIssue = "LATE"
	IssueUnserviced ServiceIssue = "UNSERVICED"
)

// Stop is a physical delivery site aggregating one or more raw order lines.
// There is exactly one Stop per unique site per planning run: demand is
// summed across orders, the service duration is the maximum of the
// constituent durations, and product descriptions and ticket numbers are
// concatenated.
//
// A Stop is immutable after normalization except for explicit time-window
// edits, which require a re-solve.
type Stop struct {
	StopID         string
	SiteName       string
	Address        string
	Coords         *Coordinates
	NeedsGeocoding bool
	Demand         float64
	ServiceSeconds int
	Window         TimeWindow
	Skill          *int
	Activity       ActivityType
	Description    string
	TicketNos      string
	TransportArea  string

	// LocationIndex is assigned by the location registry; -1 until then.
	LocationIndex int
}
