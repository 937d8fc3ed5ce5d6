package dashboard

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/vibewatch/internal/aligner"
	"github.com/RMahshie/vibewatch/internal/repository"
	"github.com/RMahshie/vibewatch/pkg/models"
)

// Messages shown in place of the charts
const (
	FetchErrorMessage = "Error fetching measurements"
	EmptyMessage      = "No measurements found"
	WaitingMessage    = "Waiting for data"
)

// Options controls how a dashboard is built
type Options struct {
	Mode aligner.Mode
}

// DashboardService derives the dashboard from the measurements table
type DashboardService interface {
	// Build reads the table once and aligns the series. A failed read yields
	// an error state together with the error.
	Build(ctx context.Context, opts Options) (*models.DashboardState, error)
	// Measurements returns the rows as stored, capped at limit when limit > 0
	Measurements(ctx context.Context, limit int) ([]models.RawMeasurement, error)
}

type dashboardService struct {
	repo repository.MeasurementRepository
	now  func() time.Time
}

// NewDashboardService creates a dashboard service reading from repo
func NewDashboardService(repo repository.MeasurementRepository) DashboardService {
	return &dashboardService{repo: repo, now: time.Now}
}

func (s *dashboardService) Measurements(ctx context.Context, limit int) ([]models.RawMeasurement, error) {
	rows, err := s.repo.List(ctx, repository.ListOptions{Limit: limit})
	if err != nil {
		log.Error().Err(err).Int("limit", limit).Msg("Failed to fetch measurements")
		return nil, err
	}
	return rows, nil
}

func (s *dashboardService) Build(ctx context.Context, opts Options) (*models.DashboardState, error) {
	state := &models.DashboardState{
		Axes:      []models.AxisSeries{},
		FetchedAt: s.now(),
	}

	rows, err := s.repo.List(ctx, repository.ListOptions{})
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch measurements")
		state.Status = models.StatusError
		state.Message = FetchErrorMessage
		return state, err
	}

	records, rejected := models.ValidateAll(rows)
	for _, r := range rejected {
		log.Warn().Str("measurementID", r.ID).Err(r.Reason).Msg("Dropping malformed measurement")
	}
	state.RecordCount = len(records)
	state.DroppedCount = len(rejected)

	if len(records) == 0 {
		state.Status = models.StatusEmpty
		state.Message = EmptyMessage
		return state, nil
	}

	groups := aligner.GroupByAxis(records)
	for _, axis := range models.AllAxes {
		group, ok := groups[axis]
		if !ok {
			state.MissingAxes = append(state.MissingAxes, axis)
			continue
		}
		state.Axes = append(state.Axes, buildSeries(axis, group, opts.Mode))
	}

	if len(state.MissingAxes) > 0 {
		state.Status = models.StatusWaiting
		state.Message = WaitingMessage
	} else {
		state.Status = models.StatusReady
	}

	log.Info().
		Int("records", state.RecordCount).
		Int("dropped", state.DroppedCount).
		Int("axes", len(state.Axes)).
		Str("status", string(state.Status)).
		Msg("Dashboard built")
	return state, nil
}

// buildSeries aligns one axis. Records without frequency bins can only be
// paired in time; a pair where only one side has bins is paired by
// position, keyed by that side's bins.
func buildSeries(axis models.Axis, group models.AxisGroup, mode aligner.Mode) models.AxisSeries {
	if mode == aligner.ByFrequency {
		healthyBins, currentBins := group.Healthy.HasFrequencies(), group.Current.HasFrequencies()
		switch {
		case !healthyBins && !currentBins:
			mode = aligner.ByTime
		case healthyBins != currentBins:
			mode = aligner.ByIndex
		}
	}

	points := aligner.Combine(group.Healthy, group.Current, mode)
	series := models.AxisSeries{
		Axis:    axis,
		KeyKind: mode.KeyKind(),
		Points:  points,
		Summary: aligner.Summarize(points),
	}
	if group.Healthy != nil {
		series.HealthyID = &group.Healthy.ID
	}
	if group.Current != nil {
		series.CurrentID = &group.Current.ID
	}
	return series
}
