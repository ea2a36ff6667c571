package domain

// Profile is the routing class of a vehicle. It selects the travel-time
// matrix that applies to the vehicle and the skills it can satisfy.
type Profile string

const (
	ProfileAuto    Profile = "auto"
	ProfileBicycle Profile = "bicycle"
)

// Vehicle describes one route's vehicle: its depot, capacity, shift
// window and skill set. Edits are only allowed before a solution
// references the vehicle; afterwards a regeneration is required.
type Vehicle struct {
	VehicleID             string
	Profile               Profile
	DepotID               string
	Depot                 Coordinates
	CapacityUnits         int
	MaxStops              int
	Shift                 TimeWindow
	DefaultServiceSeconds int

	// ReplenishSeconds is the setup time for a mid-shift reload at the
	// depot (bicycle resupply). Zero disables shipment modeling.
	ReplenishSeconds int

	// Skills are dedicated transport zones the vehicle may serve.
	Skills []int

	// LocationIndex of the vehicle's depot; -1 until registered.
	LocationIndex int
}

// HasSkill reports whether the vehicle's skill set contains s.
func (v Vehicle) HasSkill(s int) bool {
	for _, k := range v.Skills {
		if k == s {
			return true
		}
	}
	return false
}
