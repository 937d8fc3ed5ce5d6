package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// ListMeasurementsRequest represents a request for the raw measurements table
type ListMeasurementsRequest struct{}

// ListMeasurementsResponse returns the table rows as stored
type ListMeasurementsResponse struct {
	Body []RawMeasurement
}

// SampleMeasurementsRequest reads the first rows of the table
type SampleMeasurementsRequest struct {
	Limit int `query:"limit" default:"5" minimum:"1" maximum:"1000" doc:"Maximum number of rows"`
}

// GetDashboardRequest represents a request for the aligned dashboard series
type GetDashboardRequest struct {
	Align string `query:"align" default:"frequency" enum:"frequency,index,time" doc:"Alignment of healthy and current values"`
}

// GetDashboardResponse returns the dashboard state
type GetDashboardResponse struct {
	Body *DashboardState
}

// GetAxisChartRequest represents a request for one axis chart
type GetAxisChartRequest struct {
	Axis   string `path:"axis" doc:"Coordinate axis (X, Y, Z, Magnitude)"`
	Align  string `query:"align" default:"frequency" enum:"frequency,index,time" doc:"Alignment of healthy and current values"`
	Width  int    `query:"width" default:"640" minimum:"200" maximum:"2000" doc:"Chart width in pixels"`
	Height int    `query:"height" default:"320" minimum:"150" maximum:"1200" doc:"Chart height in pixels"`
}

// BinaryResponse carries a rendered document
type BinaryResponse struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// ExportDashboardRequest represents a request for the workbook export
type ExportDashboardRequest struct {
	Align string `query:"align" default:"frequency" enum:"frequency,index,time" doc:"Alignment of healthy and current values"`
}

// CreateSnapshotRequest represents a request to store the current dashboard
type CreateSnapshotRequest struct {
	Body struct {
		Align string `json:"align,omitempty" enum:"frequency,index,time" doc:"Alignment of healthy and current values"`
		Note  string `json:"note,omitempty" maxLength:"500" doc:"Free-form note stored with the snapshot"`
	}
}

// Snapshot describes a stored dashboard snapshot
type Snapshot struct {
	ID           string            `json:"id" doc:"Snapshot unique identifier"`
	Status       DashboardStatus   `json:"status" doc:"Dashboard state captured"`
	DashboardURL string            `json:"dashboard_url" doc:"Pre-signed URL of the dashboard JSON"`
	ChartURLs    map[string]string `json:"chart_urls,omitempty" doc:"Pre-signed URLs of the axis charts"`
	ExpiresIn    int               `json:"expires_in" doc:"URL expiration time in seconds"`
	CreatedAt    time.Time         `json:"created_at" doc:"Snapshot creation timestamp"`
}

// CreateSnapshotResponse returns the stored snapshot
type CreateSnapshotResponse struct {
	Body *Snapshot
}
