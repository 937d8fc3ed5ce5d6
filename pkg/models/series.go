package models

import "time"

// AxisGroup holds the healthy and current records selected for one axis.
// Both point into the fetched batch.
type AxisGroup struct {
	Healthy *MeasurementRecord
	Current *MeasurementRecord
}

// KeyKind names what an AlignedPoint key measures
type KeyKind string

const (
	KeyFrequency KeyKind = "frequency"
	KeyIndex     KeyKind = "index"
	KeyTime      KeyKind = "time"
)

// AlignedPoint is one chart row: a shared key with optional baseline and live values
type AlignedPoint struct {
	Frequency    float64  `json:"frequency" doc:"Frequency in Hz, sample index, or seconds offset depending on key_kind"`
	HealthyValue *float64 `json:"healthyValue,omitempty" doc:"Value from the healthy record"`
	CurrentValue *float64 `json:"currentValue,omitempty" doc:"Value from the current record"`
}

// AxisSummary describes one aligned series
type AxisSummary struct {
	HealthyRMS     *float64 `json:"healthy_rms,omitempty" doc:"RMS amplitude of the healthy record"`
	CurrentRMS     *float64 `json:"current_rms,omitempty" doc:"RMS amplitude of the current record"`
	RMSRatio       *float64 `json:"rms_ratio,omitempty" doc:"Current RMS divided by healthy RMS"`
	HealthyPeakKey *float64 `json:"healthy_peak_key,omitempty" doc:"Key of the largest healthy value"`
	HealthyPeak    *float64 `json:"healthy_peak,omitempty" doc:"Largest healthy value"`
	CurrentPeakKey *float64 `json:"current_peak_key,omitempty" doc:"Key of the largest current value"`
	CurrentPeak    *float64 `json:"current_peak,omitempty" doc:"Largest current value"`
}

// AxisSeries is the chart-ready series for one axis
type AxisSeries struct {
	Axis      Axis           `json:"axis" enum:"X,Y,Z,Magnitude" doc:"Coordinate axis"`
	KeyKind   KeyKind        `json:"key_kind" enum:"frequency,index,time" doc:"Meaning of the point key"`
	HealthyID *string        `json:"healthy_id,omitempty" doc:"ID of the healthy (earliest-starting) record"`
	CurrentID *string        `json:"current_id,omitempty" doc:"ID of the current (latest-ending) record"`
	Points    []AlignedPoint `json:"points" doc:"Aligned points sorted by key"`
	Summary   AxisSummary    `json:"summary" doc:"Amplitude summary"`
}

// DashboardStatus is the renderable state of the dashboard
type DashboardStatus string

const (
	StatusError   DashboardStatus = "error"
	StatusEmpty   DashboardStatus = "empty"
	StatusWaiting DashboardStatus = "waiting"
	StatusReady   DashboardStatus = "ready"
)

// DashboardState is derived per request from a single fetch
type DashboardState struct {
	Status       DashboardStatus `json:"status" enum:"error,empty,waiting,ready" doc:"Dashboard state"`
	Message      string          `json:"message,omitempty" doc:"Human-readable state or error message"`
	Axes         []AxisSeries    `json:"axes" doc:"Series per axis in display order"`
	MissingAxes  []Axis          `json:"missing_axes,omitempty" doc:"Axes with no records yet"`
	RecordCount  int             `json:"record_count" doc:"Valid records fetched"`
	DroppedCount int             `json:"dropped_count" doc:"Malformed records filtered out"`
	FetchedAt    time.Time       `json:"fetched_at" doc:"When the measurements were read"`
}

// Series returns the series for an axis, if present
func (s *DashboardState) Series(axis Axis) (AxisSeries, bool) {
	if s == nil {
		return AxisSeries{}, false
	}
	for _, series := range s.Axes {
		if series.Axis == axis {
			return series, true
		}
	}
	return AxisSeries{}, false
}
