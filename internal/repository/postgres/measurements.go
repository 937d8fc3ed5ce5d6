package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/RMahshie/vibewatch/internal/repository"
	"github.com/RMahshie/vibewatch/pkg/models"
)

// PostgresMeasurementRepository implements MeasurementRepository for PostgreSQL
type PostgresMeasurementRepository struct {
	db    *sql.DB
	table string
}

// NewPostgresMeasurementRepository creates a new PostgreSQL measurement repository
func NewPostgresMeasurementRepository(db *sql.DB, table string) repository.MeasurementRepository {
	if table == "" {
		table = "measurements"
	}
	return &PostgresMeasurementRepository{db: db, table: table}
}

// List retrieves the measurement rows in table order
func (r *PostgresMeasurementRepository) List(ctx context.Context, opts repository.ListOptions) ([]models.RawMeasurement, error) {
	query := fmt.Sprintf(`
		SELECT id::text, "startMeasurement", "endMeasurement", coordinate, "values", frequencies
		FROM %s
		ORDER BY id`, pq.QuoteIdentifier(r.table))

	var args []interface{}
	if opts.Limit > 0 {
		query += ` LIMIT $1`
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query measurements: %w", err)
	}
	defer rows.Close()

	measurements := []models.RawMeasurement{}
	for rows.Next() {
		var m models.RawMeasurement
		var id string
		var start, end sql.NullTime
		var coordinate sql.NullString
		var values, frequencies pq.Float64Array

		err := rows.Scan(
			&id,
			&start,
			&end,
			&coordinate,
			&values,
			&frequencies)

		if err != nil {
			return nil, fmt.Errorf("failed to scan measurement: %w", err)
		}

		m.ID = models.RowID(id)
		if start.Valid {
			m.StartMeasurement = start.Time.UTC().Format(time.RFC3339Nano)
		}
		if end.Valid {
			m.EndMeasurement = end.Time.UTC().Format(time.RFC3339Nano)
		}
		m.Coordinate = coordinate.String
		m.Values = []float64(values)
		if len(frequencies) > 0 {
			m.Frequencies = []float64(frequencies)
		}

		measurements = append(measurements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read measurements: %w", err)
	}

	return measurements, nil
}
