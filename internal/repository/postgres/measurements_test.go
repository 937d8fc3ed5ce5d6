package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/vibewatch/internal/repository"
	"github.com/RMahshie/vibewatch/pkg/models"
)

var measurementColumns = []string{"id", "startMeasurement", "endMeasurement", "coordinate", "values", "frequencies"}

func TestList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)SELECT\s+id::text.+FROM "measurements"\s+ORDER BY id$`).
		WillReturnRows(sqlmock.NewRows(measurementColumns).
			AddRow("1", start, end, "X", "{1,2}", "{10,20}").
			AddRow("2", start, end, "Y", "{0.5}", nil).
			AddRow("3", nil, end, nil, "{}", nil))

	repo := NewPostgresMeasurementRepository(db, "")
	rows, err := repo.List(context.Background(), repository.ListOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, models.RawMeasurement{
		ID:               "1",
		StartMeasurement: "2024-01-01T00:00:00Z",
		EndMeasurement:   "2024-01-02T00:00:00Z",
		Coordinate:       "X",
		Values:           []float64{1, 2},
		Frequencies:      []float64{10, 20},
	}, rows[0])
	assert.Equal(t, []float64{0.5}, rows[1].Values)
	assert.Nil(t, rows[1].Frequencies)

	// incomplete rows are passed through and rejected at validation
	assert.Empty(t, rows[2].StartMeasurement)
	_, verr := rows[2].Validate()
	assert.Error(t, verr)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_Limit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM "sensor_readings"\s+ORDER BY id LIMIT \$1`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(measurementColumns))

	repo := NewPostgresMeasurementRepository(db, "sensor_readings")
	rows, err := repo.List(context.Background(), repository.ListOptions{Limit: 5})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("connection refused"))

	repo := NewPostgresMeasurementRepository(db, "measurements")
	rows, err := repo.List(context.Background(), repository.ListOptions{})
	assert.Nil(t, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	assert.NoError(t, mock.ExpectationsWereMet())
}
