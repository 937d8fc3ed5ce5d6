package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/RMahshie/vibewatch/pkg/models"
)

const summarySheet = "Summary"

// SummaryHeader is the header row of the summary sheet
var SummaryHeader = []string{
	"Axis",
	"Key",
	"Healthy ID",
	"Current ID",
	"Points",
	"Healthy RMS",
	"Current RMS",
	"RMS Ratio",
	"Healthy Peak Key",
	"Healthy Peak",
	"Current Peak Key",
	"Current Peak",
}

// SeriesHeader returns the header row of an axis sheet
func SeriesHeader(kind models.KeyKind) []string {
	key := "Frequency (Hz)"
	switch kind {
	case models.KeyTime:
		key = "Time (s)"
	case models.KeyIndex:
		key = "Key"
	}
	return []string{key, "Healthy", "Current"}
}

// GenerateWorkbook writes the dashboard as an XLSX workbook: a summary sheet
// followed by one sheet per axis
func GenerateWorkbook(state *models.DashboardState) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := setRow(f, summarySheet, 1, toRow(SummaryHeader)); err != nil {
		return nil, err
	}

	for i, series := range state.Axes {
		if err := setRow(f, summarySheet, i+2, summaryRow(series)); err != nil {
			return nil, err
		}

		sheet := string(series.Axis)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		if err := setRow(f, sheet, 1, toRow(SeriesHeader(series.KeyKind))); err != nil {
			return nil, err
		}
		for j, p := range series.Points {
			row := []interface{}{p.Frequency, optional(p.HealthyValue), optional(p.CurrentValue)}
			if err := setRow(f, sheet, j+2, row); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func summaryRow(s models.AxisSeries) []interface{} {
	return []interface{}{
		string(s.Axis),
		string(s.KeyKind),
		optionalString(s.HealthyID),
		optionalString(s.CurrentID),
		len(s.Points),
		optional(s.Summary.HealthyRMS),
		optional(s.Summary.CurrentRMS),
		optional(s.Summary.RMSRatio),
		optional(s.Summary.HealthyPeakKey),
		optional(s.Summary.HealthyPeak),
		optional(s.Summary.CurrentPeakKey),
		optional(s.Summary.CurrentPeak),
	}
}

func toRow(headers []string) []interface{} {
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	return row
}

// optional leaves the cell blank for absent values
func optional(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func optionalString(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
