package supabase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/RMahshie/vibewatch/internal/repository"
	"github.com/RMahshie/vibewatch/pkg/models"
)

// Config holds the hosted table settings
type Config struct {
	URL     string
	Key     string
	Table   string
	Timeout time.Duration
}

// apiError is the PostgREST error body
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// SupabaseMeasurementRepository reads measurements through the hosted REST endpoint
type SupabaseMeasurementRepository struct {
	client *resty.Client
	table  string
}

// NewSupabaseMeasurementRepository creates a repository for the table in cfg
func NewSupabaseMeasurementRepository(cfg Config) (repository.MeasurementRepository, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is required")
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY is required")
	}
	if cfg.Table == "" {
		cfg.Table = "measurements"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	// one request per read, no retries
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("apikey", cfg.Key).
		SetAuthToken(cfg.Key).
		SetHeader("Accept", "application/json")

	return &SupabaseMeasurementRepository{client: client, table: cfg.Table}, nil
}

// List reads every row of the table, or the first opts.Limit rows
func (r *SupabaseMeasurementRepository) List(ctx context.Context, opts repository.ListOptions) ([]models.RawMeasurement, error) {
	var rows []models.RawMeasurement
	var apiErr apiError

	req := r.client.R().
		SetContext(ctx).
		SetPathParam("table", r.table).
		SetQueryParam("select", "*").
		SetResult(&rows).
		SetError(&apiErr)
	if opts.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(opts.Limit))
	}

	resp, err := req.Get("/rest/v1/{table}")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch measurements: %w", err)
	}
	if resp.IsError() {
		msg := apiErr.Message
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		return nil, fmt.Errorf("failed to fetch measurements: %s: %s", resp.Status(), msg)
	}

	if rows == nil {
		rows = []models.RawMeasurement{}
	}
	return rows, nil
}
