package repository

import (
	"context"

	"github.com/RMahshie/vibewatch/pkg/models"
)

// ListOptions narrows a measurements read
type ListOptions struct {
	// Limit caps the number of rows; zero reads the full table
	Limit int
}

// MeasurementRepository defines the read side of the measurements table
type MeasurementRepository interface {
	List(ctx context.Context, opts ListOptions) ([]models.RawMeasurement, error)
}
