package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/vibewatch/internal/charts"
	"github.com/RMahshie/vibewatch/internal/dashboard"
	"github.com/RMahshie/vibewatch/internal/storage"
	"github.com/RMahshie/vibewatch/pkg/models"
)

// ErrFetchFailed is returned when the dashboard could not be read, so there is nothing to store
var ErrFetchFailed = errors.New("measurements could not be fetched")

// SnapshotService stores point-in-time copies of the dashboard
type SnapshotService interface {
	Create(ctx context.Context, opts dashboard.Options, note string) (*models.Snapshot, error)
}

type snapshotService struct {
	dashboards dashboard.DashboardService
	store      storage.S3Service
	urlExpiry  time.Duration
}

// document is the JSON stored for each snapshot
type document struct {
	ID        string                 `json:"id"`
	Note      string                 `json:"note,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	Dashboard *models.DashboardState `json:"dashboard"`
}

// NewSnapshotService creates a snapshot service writing to store
func NewSnapshotService(dashboards dashboard.DashboardService, store storage.S3Service, urlExpiry time.Duration) SnapshotService {
	if urlExpiry <= 0 {
		urlExpiry = storage.DefaultURLExpiry
	}
	return &snapshotService{
		dashboards: dashboards,
		store:      store,
		urlExpiry:  urlExpiry,
	}
}

func (s *snapshotService) Create(ctx context.Context, opts dashboard.Options, note string) (*models.Snapshot, error) {
	state, err := s.dashboards.Build(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	id := uuid.New()
	prefix := fmt.Sprintf("snapshots/%s", id)
	createdAt := time.Now().UTC()

	snap := &models.Snapshot{
		ID:        id.String(),
		Status:    state.Status,
		ChartURLs: map[string]string{},
		ExpiresIn: int(s.urlExpiry.Seconds()),
		CreatedAt: createdAt,
	}

	var uploaded []string
	for _, series := range state.Axes {
		var buf bytes.Buffer
		if err := charts.RenderSVG(&buf, series, charts.DefaultWidth, charts.DefaultHeight); err != nil {
			if errors.Is(err, charts.ErrNotEnoughData) {
				continue
			}
			s.cleanup(uploaded)
			return nil, err
		}

		key := fmt.Sprintf("%s/%s.svg", prefix, series.Axis)
		url, err := s.put(ctx, key, "image/svg+xml", buf.Bytes())
		if err != nil {
			s.cleanup(uploaded)
			return nil, err
		}
		uploaded = append(uploaded, key)
		snap.ChartURLs[string(series.Axis)] = url
	}

	body, err := json.Marshal(document{ID: snap.ID, Note: note, CreatedAt: createdAt, Dashboard: state})
	if err != nil {
		s.cleanup(uploaded)
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	snap.DashboardURL, err = s.put(ctx, prefix+"/dashboard.json", "application/json", body)
	if err != nil {
		s.cleanup(uploaded)
		return nil, err
	}

	log.Info().
		Str("snapshotID", snap.ID).
		Str("status", string(snap.Status)).
		Int("charts", len(snap.ChartURLs)).
		Msg("Snapshot stored")
	return snap, nil
}

// cleanup removes the charts of a snapshot that could not be completed
func (s *snapshotService) cleanup(keys []string) {
	// the request context may already be cancelled
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, key := range keys {
		if err := s.store.DeleteFile(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to remove partial snapshot object")
		}
	}
}

// put uploads one object and returns its download URL. The object is
// removed again when no URL can be issued for it.
func (s *snapshotService) put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if err := s.store.UploadFile(ctx, key, contentType, data); err != nil {
		return "", err
	}
	url, err := s.store.GenerateDownloadURL(ctx, key)
	if err != nil {
		s.cleanup([]string{key})
		return "", err
	}
	return url, nil
}
