// Package schema declares the field-mapping tables that turn raw
// uploaded rows with arbitrary column presence into canonical records.
// Each target field names its source column and an optional default used
// when the column is absent; a field without a default is required.
package schema

import (
	"bag-delivery-service/internal/domain"
)

// Record is one raw tabular row keyed by column name.
type Record map[string]string

// FieldMapping maps one canonical target field to a source column.
type FieldMapping struct {
	Target  string  `yaml:"target" validate:"required"`
	Source  string  `yaml:"source" validate:"required"`
	Default *string `yaml:"default"`
}

// Mapping is the ordered field-mapping table for one record kind.
type Mapping []FieldMapping

// Apply converts a raw record into a canonical one. A source column
// missing from the record falls back to the declared default; a missing
// column with no default fails with a MissingRequiredFieldError naming
// the field and the record.
func (m Mapping) Apply(rec Record, recordIndex int) (Record, error) {
	out := make(Record, len(m))
	for _, fm := range m {
		if v, ok := rec[fm.Source]; ok {
			out[fm.Target] = v
			continue
		}
		if fm.Default == nil {
			return nil, &domain.MissingRequiredFieldError{Field: fm.Source, Record: recordIndex}
		}
		out[fm.Target] = *fm.Default
	}
	return out, nil
}

// Targets returns the canonical field names in declaration order.
func (m Mapping) Targets() []string {
	out := make([]string, 0, len(m))
	for _, fm := range m {
		out = append(out, fm.Target)
	}
	return out
}

func strp(s string) *string { return &s }

// DefaultStopMapping reflects the upload format of the order workbook.
// Coordinates deliberately carry empty defaults: absent values flag the
// stop for geocoding rather than failing normalization.
func DefaultStopMapping() Mapping {
	return Mapping{
		{Target: "stop_id", Source: "Site Bk"},
		{Target: "site_name", Source: "Site Name", Default: strp("")},
		{Target: "address", Source: "Transport Address", Default: strp("")},
		{Target: "latitude", Source: "Site Latitude", Default: strp("")},
		{Target: "longitude", Source: "Site Longitude", Default: strp("")},
		{Target: "demand", Source: "Quantity", Default: strp("0")},
		{Target: "skills", Source: "transport_area_number", Default: strp("")},
		{Target: "activity_type", Source: "activity_type", Default: strp("DELIVERY")},
		{Target: "duration", Source: "service_duration__seconds", Default: strp("300")},
		{Target: "time_window_start", Source: "time_window_start", Default: strp("09:00:00")},
		{Target: "time_window_end", Source: "time_window_end", Default: strp("16:00:00")},
		{Target: "product_name", Source: "Product Name", Default: strp("")},
		{Target: "ticket_no", Source: "Ticket No", Default: strp("")},
		{Target: "transport_area", Source: "Transport Area Code", Default: strp("")},
	}
}

// DefaultVehicleMapping reflects the vehicle-selection sheet. Vehicle
// id, type, depot coordinates and capacity have no defaults: a fleet
// row without them cannot be planned.
func DefaultVehicleMapping() Mapping {
	return Mapping{
		{Target: "route_id", Source: "Vehicle id"},
		{Target: "profile", Source: "Type"},
		{Target: "depot_id", Source: "Depot", Default: strp("")},
		{Target: "skills", Source: "Dedicated transport zones", Default: strp("")},
		{Target: "latitude", Source: "lat"},
		{Target: "longitude", Source: "lon"},
		{Target: "capacity", Source: "Capacity (#boxes)"},
		{Target: "max_stops", Source: "Max stops", Default: strp("100")},
		{Target: "service_default", Source: "Average TAT per delivery (min)", Default: strp("5")},
		{Target: "replenish_duration", Source: "Replenish duration (min)", Default: strp("30")},
		{Target: "time_window_start", Source: "Shift start time", Default: strp("09:00:00")},
		{Target: "time_window_end", Source: "Shift end time", Default: strp("17:00:00")},
	}
}
