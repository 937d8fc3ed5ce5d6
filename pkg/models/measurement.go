package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Axis identifies the sensor dimension a measurement describes
type Axis string

const (
	AxisX         Axis = "X"
	AxisY         Axis = "Y"
	AxisZ         Axis = "Z"
	AxisMagnitude Axis = "Magnitude"
)

// AllAxes lists the coordinate axes in display order
var AllAxes = []Axis{AxisX, AxisY, AxisZ, AxisMagnitude}

// ParseAxis maps a coordinate label to an Axis. Exact matches win; otherwise
// the comparison is case-insensitive.
func ParseAxis(label string) (Axis, bool) {
	for _, a := range AllAxes {
		if string(a) == label {
			return a, true
		}
	}
	for _, a := range AllAxes {
		if strings.EqualFold(string(a), strings.TrimSpace(label)) {
			return a, true
		}
	}
	return "", false
}

// RowID accepts either a JSON string or a JSON number for the row identifier
type RowID string

// UnmarshalJSON normalizes numeric ids to their decimal string form
func (id *RowID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RowID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("row id must be a string or number: %w", err)
	}
	*id = RowID(n.String())
	return nil
}

// RawMeasurement is a row of the measurements table as it arrives on the wire
type RawMeasurement struct {
	ID               RowID     `json:"id" doc:"Row identifier"`
	StartMeasurement string    `json:"startMeasurement" doc:"ISO-8601 start of the measurement window"`
	EndMeasurement   string    `json:"endMeasurement" doc:"ISO-8601 end of the measurement window"`
	Coordinate       string    `json:"coordinate" doc:"Coordinate axis label (X, Y, Z, Magnitude)"`
	Values           []float64 `json:"values" doc:"Amplitude values"`
	Frequencies      []float64 `json:"frequencies,omitempty" doc:"Frequency bins in Hz, same length as values"`
}

// MeasurementRecord is a validated measurement row
type MeasurementRecord struct {
	ID          string
	Start       time.Time
	End         time.Time
	Coordinate  Axis
	Values      []float64
	Frequencies []float64
}

// HasFrequencies reports whether the record carries frequency bins
func (r *MeasurementRecord) HasFrequencies() bool {
	return r != nil && len(r.Frequencies) > 0
}

var (
	ErrMissingID        = errors.New("missing id")
	ErrUnknownAxis      = errors.New("unknown coordinate")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrLengthMismatch   = errors.New("values and frequencies differ in length")
	ErrNonFinite        = errors.New("non-finite number")
)

// timestamp layouts accepted from the table, most specific first
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses the ISO-8601 variants Postgres and PostgREST emit.
// Timestamps without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// Validate converts a wire row into a MeasurementRecord
func (m RawMeasurement) Validate() (MeasurementRecord, error) {
	if m.ID == "" {
		return MeasurementRecord{}, ErrMissingID
	}
	axis, ok := ParseAxis(m.Coordinate)
	if !ok {
		return MeasurementRecord{}, fmt.Errorf("%w: %q", ErrUnknownAxis, m.Coordinate)
	}
	start, err := ParseTimestamp(m.StartMeasurement)
	if err != nil {
		return MeasurementRecord{}, fmt.Errorf("startMeasurement: %w", err)
	}
	end, err := ParseTimestamp(m.EndMeasurement)
	if err != nil {
		return MeasurementRecord{}, fmt.Errorf("endMeasurement: %w", err)
	}
	if len(m.Frequencies) > 0 && len(m.Frequencies) != len(m.Values) {
		return MeasurementRecord{}, fmt.Errorf("%w: %d values, %d frequencies", ErrLengthMismatch, len(m.Values), len(m.Frequencies))
	}
	if !allFinite(m.Values) || !allFinite(m.Frequencies) {
		return MeasurementRecord{}, ErrNonFinite
	}

	return MeasurementRecord{
		ID:          string(m.ID),
		Start:       start,
		End:         end,
		Coordinate:  axis,
		Values:      append([]float64(nil), m.Values...),
		Frequencies: append([]float64(nil), m.Frequencies...),
	}, nil
}

func allFinite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// RejectedMeasurement records why a row was dropped at the fetch boundary
type RejectedMeasurement struct {
	ID     string
	Reason error
}

// ValidateAll keeps the rows that validate, in input order, and reports the rest
func ValidateAll(rows []RawMeasurement) ([]MeasurementRecord, []RejectedMeasurement) {
	records := make([]MeasurementRecord, 0, len(rows))
	var rejected []RejectedMeasurement
	for _, row := range rows {
		rec, err := row.Validate()
		if err != nil {
			rejected = append(rejected, RejectedMeasurement{ID: string(row.ID), Reason: err})
			continue
		}
		records = append(records, rec)
	}
	return records, rejected
}
