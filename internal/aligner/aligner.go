// Package aligner selects the healthy and current measurement per axis and
// merges their values into chart-ready series.
package aligner

import (
	"fmt"
	"sort"

	"github.com/RMahshie/vibewatch/pkg/models"
)

// Mode selects how healthy and current values are paired
type Mode string

const (
	// ByFrequency keys every value by its own frequency bin and merges the two records by key
	ByFrequency Mode = "frequency"
	// ByIndex pairs values by position, running to the longer record
	ByIndex Mode = "index"
	// ByTime pairs values by position, keyed by seconds since the record start
	ByTime Mode = "time"
)

// ParseMode parses an alignment mode. The empty string means ByFrequency.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ByFrequency:
		return ByFrequency, nil
	case ByIndex:
		return ByIndex, nil
	case ByTime:
		return ByTime, nil
	default:
		return "", fmt.Errorf("unknown alignment mode %q", s)
	}
}

// KeyKind reports what the point keys produced by the mode measure
func (m Mode) KeyKind() models.KeyKind {
	switch m {
	case ByTime:
		return models.KeyTime
	case ByIndex:
		return models.KeyIndex
	default:
		return models.KeyFrequency
	}
}

// GroupByAxis partitions records by coordinate, keeping the earliest-starting
// record as healthy and the latest-ending record as current. Comparisons are
// strict, so on equal timestamps the first record in input order is kept.
func GroupByAxis(records []models.MeasurementRecord) map[models.Axis]models.AxisGroup {
	groups := make(map[models.Axis]models.AxisGroup)
	for i := range records {
		r := &records[i]
		g, ok := groups[r.Coordinate]
		if !ok {
			groups[r.Coordinate] = models.AxisGroup{Healthy: r, Current: r}
			continue
		}
		if r.Start.Before(g.Healthy.Start) {
			g.Healthy = r
		}
		if r.End.After(g.Current.End) {
			g.Current = r
		}
		groups[r.Coordinate] = g
	}
	return groups
}

// Combine merges a healthy and a current record into aligned points.
// Either record may be nil; with both nil the result is empty.
func Combine(healthy, current *models.MeasurementRecord, mode Mode) []models.AlignedPoint {
	switch mode {
	case ByIndex:
		return combineByIndex(healthy, current, indexKey)
	case ByTime:
		return combineByIndex(healthy, current, timeKey)
	default:
		return combineByFrequency(healthy, current)
	}
}

type keyFunc func(r *models.MeasurementRecord, i int) (float64, bool)

// indexKey reports the frequency bin at position i, if the record has one
func indexKey(r *models.MeasurementRecord, i int) (float64, bool) {
	if r == nil || i >= len(r.Values) || i >= len(r.Frequencies) {
		return 0, false
	}
	return r.Frequencies[i], true
}

// timeKey spreads the samples evenly over the record window
func timeKey(r *models.MeasurementRecord, i int) (float64, bool) {
	if r == nil || i >= len(r.Values) {
		return 0, false
	}
	period := r.End.Sub(r.Start).Seconds() / float64(len(r.Values))
	if period < 0 {
		period = 0
	}
	return float64(i) * period, true
}

func combineByIndex(healthy, current *models.MeasurementRecord, key keyFunc) []models.AlignedPoint {
	n := max(valueCount(healthy), valueCount(current))
	points := make([]models.AlignedPoint, 0, n)
	for i := 0; i < n; i++ {
		k, ok := key(healthy, i)
		if !ok {
			k, ok = key(current, i)
		}
		if !ok {
			k = float64(i)
		}
		points = append(points, models.AlignedPoint{
			Frequency:    k,
			HealthyValue: valueAt(healthy, i),
			CurrentValue: valueAt(current, i),
		})
	}
	return points
}

func combineByFrequency(healthy, current *models.MeasurementRecord) []models.AlignedPoint {
	points := make([]models.AlignedPoint, 0, max(valueCount(healthy), valueCount(current)))
	pos := make(map[float64]int)

	merge := func(r *models.MeasurementRecord, isHealthy bool) {
		for i := 0; i < valueCount(r); i++ {
			k, ok := indexKey(r, i)
			if !ok {
				k = float64(i)
			}
			at, seen := pos[k]
			if !seen {
				at = len(points)
				pos[k] = at
				points = append(points, models.AlignedPoint{Frequency: k})
			}
			p := &points[at]
			// first occurrence of a key within a record wins
			if isHealthy && p.HealthyValue == nil {
				p.HealthyValue = valueAt(r, i)
			} else if !isHealthy && p.CurrentValue == nil {
				p.CurrentValue = valueAt(r, i)
			}
		}
	}
	merge(healthy, true)
	merge(current, false)

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Frequency < points[j].Frequency
	})
	return points
}

func valueCount(r *models.MeasurementRecord) int {
	if r == nil {
		return 0
	}
	return len(r.Values)
}

func valueAt(r *models.MeasurementRecord, i int) *float64 {
	if r == nil || i < 0 || i >= len(r.Values) {
		return nil
	}
	v := r.Values[i]
	return &v
}
