package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/RMahshie/vibewatch/internal/api/handlers"
)

// RegisterRoutes sets up all API routes and the dashboard page
func RegisterRoutes(router *chi.Mux, api huma.API, dashboardHandler *handlers.DashboardHandler, page http.Handler) {
	// Register measurement routes
	huma.Register(api, huma.Operation{
		OperationID: "listMeasurements",
		Method:      http.MethodGet,
		Path:        "/api/measurements",
		Summary:     "List measurements",
		Description: "Returns every row of the measurements table as stored",
		Tags:        []string{"Measurements"},
	}, dashboardHandler.ListMeasurements)

	huma.Register(api, huma.Operation{
		OperationID: "sampleMeasurements",
		Method:      http.MethodGet,
		Path:        "/api/test",
		Summary:     "Sample measurements",
		Description: "Returns the first rows of the measurements table to check connectivity",
		Tags:        []string{"Measurements"},
	}, dashboardHandler.SampleMeasurements)

	// Register dashboard routes
	huma.Register(api, huma.Operation{
		OperationID: "getDashboard",
		Method:      http.MethodGet,
		Path:        "/api/dashboard",
		Summary:     "Get dashboard",
		Description: "Returns the healthy and current series aligned for every axis",
		Tags:        []string{"Dashboard"},
	}, dashboardHandler.GetDashboard)

	huma.Register(api, huma.Operation{
		OperationID: "exportDashboard",
		Method:      http.MethodGet,
		Path:        "/api/dashboard/export.xlsx",
		Summary:     "Export dashboard",
		Description: "Returns the aligned series as an XLSX workbook with one sheet per axis",
		Tags:        []string{"Dashboard"},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "XLSX workbook",
				Content: map[string]*huma.MediaType{
					"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
				},
			},
		},
	}, dashboardHandler.ExportDashboard)

	huma.Register(api, huma.Operation{
		OperationID: "getAxisChart",
		Method:      http.MethodGet,
		Path:        "/api/dashboard/{axis}/chart.svg",
		Summary:     "Get axis chart",
		Description: "Renders the healthy and current series of one axis as an SVG line chart",
		Tags:        []string{"Dashboard"},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "SVG chart",
				Content: map[string]*huma.MediaType{
					"image/svg+xml": {},
				},
			},
		},
	}, dashboardHandler.GetAxisChart)

	huma.Register(api, huma.Operation{
		OperationID:   "createSnapshot",
		Method:        http.MethodPost,
		Path:          "/api/snapshots",
		Summary:       "Create snapshot",
		Description:   "Stores the current dashboard and charts in object storage and returns download links",
		Tags:          []string{"Snapshots"},
		DefaultStatus: http.StatusCreated,
	}, dashboardHandler.CreateSnapshot)

	router.Method(http.MethodGet, "/", page)
}
