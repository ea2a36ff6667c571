package domain

import "fmt"

// Matrix holds square travel duration and distance matrices addressed by
// location index. Both matrices always have identical dimensions.
type Matrix struct {
	DurationsSeconds [][]int
	DistancesMeters  [][]int
}

// Size returns the number of locations the matrix covers.
func (m Matrix) Size() int { return len(m.DurationsSeconds) }

// Leg returns the travel duration and distance from one location index
// to another, with bounds checking.
func (m Matrix) Leg(from, to int) (seconds, meters int, err error) {
	n := m.Size()
	if from < 0 || from >= n || to < 0 || to >= n {
		return 0, 0, fmt.Errorf("matrix leg %d -> %d: index out of range (size=%d)", from, to, n)
	}
	return m.DurationsSeconds[from][to], m.DistancesMeters[from][to], nil
}
