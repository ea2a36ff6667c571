package domain

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// LonLat returns the coordinates as [lon, lat], the order OSRM and VROOM
// expect on the wire.
func (c Coordinates) LonLat() []float64 { return []float64{c.Lon, c.Lat} }
