package domain

import "fmt"

// MissingRequiredFieldError reports a raw input record lacking a field
// that has no declared default.
type MissingRequiredFieldError struct {
	Field  string
	Record int
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("record %d: missing required field %q with no default", e.Record, e.Field)
}

// UnroutableLocationError marks a location the travel-time service could
// not route to or from. This is distinct from an unserviced stop: the
// solver never saw an unroutable location.
type UnroutableLocationError struct {
	StopID  string
	Profile Profile
}

func (e *UnroutableLocationError) Error() string {
	return fmt.Sprintf("location %q is unroutable for profile %q", e.StopID, e.Profile)
}

// DataIntegrityError reports an inconsistency in decoded solution data:
// join mismatches, mixed profiles within one route, or non-monotone
// timestamps. It always carries enough context to find the record.
type DataIntegrityError struct {
	RouteID string
	StopID  string
	Detail  string
}

func (e *DataIntegrityError) Error() string {
	msg := "data integrity: " + e.Detail
	if e.RouteID != "" {
		msg += fmt.Sprintf(" (route=%s", e.RouteID)
		if e.StopID != "" {
			msg += fmt.Sprintf(" stop=%s", e.StopID)
		}
		msg += ")"
	}
	return msg
}

// SolverError wraps a failed solver call for one vehicle subset.
type SolverError struct {
	VehicleID string
	Err       error
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("solver failed for vehicle %q: %v", e.VehicleID, e.Err)
}

func (e *SolverError) Unwrap() error { return e.Err }
