package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/vibewatch/internal/aligner"
	"github.com/RMahshie/vibewatch/internal/charts"
	"github.com/RMahshie/vibewatch/internal/dashboard"
	"github.com/RMahshie/vibewatch/internal/export"
	"github.com/RMahshie/vibewatch/internal/snapshot"
	"github.com/RMahshie/vibewatch/pkg/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DashboardHandler handles measurement and dashboard HTTP requests
type DashboardHandler struct {
	dashboards  dashboard.DashboardService
	snapshots   snapshot.SnapshotService
	sampleLimit int
}

// NewDashboardHandler creates a new dashboard handler. snapshots may be nil
// when no bucket is configured.
func NewDashboardHandler(dashboards dashboard.DashboardService, snapshots snapshot.SnapshotService, sampleLimit int) *DashboardHandler {
	if sampleLimit <= 0 {
		sampleLimit = 5
	}
	return &DashboardHandler{
		dashboards:  dashboards,
		snapshots:   snapshots,
		sampleLimit: sampleLimit,
	}
}

// ListMeasurements returns the full measurements table
func (h *DashboardHandler) ListMeasurements(ctx context.Context, req *models.ListMeasurementsRequest) (*models.ListMeasurementsResponse, error) {
	rows, err := h.dashboards.Measurements(ctx, 0)
	if err != nil {
		return nil, huma.Error500InternalServerError(dashboard.FetchErrorMessage, err)
	}

	return &models.ListMeasurementsResponse{Body: rows}, nil
}

// SampleMeasurements returns the first rows of the table
func (h *DashboardHandler) SampleMeasurements(ctx context.Context, req *models.SampleMeasurementsRequest) (*models.ListMeasurementsResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = h.sampleLimit
	}

	rows, err := h.dashboards.Measurements(ctx, limit)
	if err != nil {
		return nil, huma.Error500InternalServerError(err.Error())
	}

	return &models.ListMeasurementsResponse{Body: rows}, nil
}

// GetDashboard returns the aligned series for every axis
func (h *DashboardHandler) GetDashboard(ctx context.Context, req *models.GetDashboardRequest) (*models.GetDashboardResponse, error) {
	state, err := h.build(ctx, req.Align)
	if err != nil {
		return nil, err
	}

	return &models.GetDashboardResponse{Body: state}, nil
}

// GetAxisChart renders one axis as an SVG line chart
func (h *DashboardHandler) GetAxisChart(ctx context.Context, req *models.GetAxisChartRequest) (*models.BinaryResponse, error) {
	axis, ok := models.ParseAxis(req.Axis)
	if !ok {
		return nil, huma.Error400BadRequest(fmt.Sprintf("Unknown axis %q", req.Axis))
	}

	state, err := h.build(ctx, req.Align)
	if err != nil {
		return nil, err
	}

	series, ok := state.Series(axis)
	if !ok {
		return nil, huma.Error404NotFound(fmt.Sprintf("No measurements for axis %s", axis))
	}

	var buf bytes.Buffer
	if err := charts.RenderSVG(&buf, series, req.Width, req.Height); err != nil {
		if errors.Is(err, charts.ErrNotEnoughData) {
			return nil, huma.Error404NotFound(fmt.Sprintf("Not enough data to chart axis %s", axis), err)
		}
		return nil, huma.Error500InternalServerError("Failed to render chart", err)
	}

	return &models.BinaryResponse{
		ContentType: "image/svg+xml",
		Body:        buf.Bytes(),
	}, nil
}

// ExportDashboard returns the aligned series as an XLSX workbook
func (h *DashboardHandler) ExportDashboard(ctx context.Context, req *models.ExportDashboardRequest) (*models.BinaryResponse, error) {
	state, err := h.build(ctx, req.Align)
	if err != nil {
		return nil, err
	}

	data, err := export.GenerateWorkbook(state)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate workbook", err)
	}

	filename := fmt.Sprintf("measurements-%s.xlsx", state.FetchedAt.UTC().Format("20060102-150405"))
	return &models.BinaryResponse{
		ContentType:        xlsxContentType,
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", filename),
		Body:               data,
	}, nil
}

// CreateSnapshot stores the current dashboard and returns download links
func (h *DashboardHandler) CreateSnapshot(ctx context.Context, req *models.CreateSnapshotRequest) (*models.CreateSnapshotResponse, error) {
	if h.snapshots == nil {
		return nil, huma.Error503ServiceUnavailable("Snapshots are not configured")
	}

	mode, err := aligner.ParseMode(req.Body.Align)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid alignment", err)
	}

	snap, err := h.snapshots.Create(ctx, dashboard.Options{Mode: mode}, req.Body.Note)
	if err != nil {
		if errors.Is(err, snapshot.ErrFetchFailed) {
			return nil, huma.Error500InternalServerError(dashboard.FetchErrorMessage, err)
		}
		log.Error().Err(err).Msg("Failed to store snapshot")
		return nil, huma.Error500InternalServerError("Failed to store snapshot", err)
	}

	return &models.CreateSnapshotResponse{Body: snap}, nil
}

// build reads and aligns the dashboard, mapping a failed read to a 500
func (h *DashboardHandler) build(ctx context.Context, align string) (*models.DashboardState, error) {
	mode, err := aligner.ParseMode(align)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid alignment", err)
	}

	state, err := h.dashboards.Build(ctx, dashboard.Options{Mode: mode})
	if err != nil {
		return nil, huma.Error500InternalServerError(dashboard.FetchErrorMessage, err)
	}
	return state, nil
}
