package aligner

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/RMahshie/vibewatch/pkg/models"
)

// Summarize computes RMS and peak figures for each side of an aligned series
func Summarize(points []models.AlignedPoint) models.AxisSummary {
	var summary models.AxisSummary

	hKeys, hVals := side(points, func(p models.AlignedPoint) *float64 { return p.HealthyValue })
	cKeys, cVals := side(points, func(p models.AlignedPoint) *float64 { return p.CurrentValue })

	if len(hVals) > 0 {
		summary.HealthyRMS = ptr(rms(hVals))
		i := floats.MaxIdx(hVals)
		summary.HealthyPeakKey = ptr(hKeys[i])
		summary.HealthyPeak = ptr(hVals[i])
	}
	if len(cVals) > 0 {
		summary.CurrentRMS = ptr(rms(cVals))
		i := floats.MaxIdx(cVals)
		summary.CurrentPeakKey = ptr(cKeys[i])
		summary.CurrentPeak = ptr(cVals[i])
	}
	if summary.HealthyRMS != nil && summary.CurrentRMS != nil && *summary.HealthyRMS > 0 {
		summary.RMSRatio = ptr(*summary.CurrentRMS / *summary.HealthyRMS)
	}
	return summary
}

func side(points []models.AlignedPoint, pick func(models.AlignedPoint) *float64) (keys, vals []float64) {
	for _, p := range points {
		if v := pick(p); v != nil {
			keys = append(keys, p.Frequency)
			vals = append(vals, *v)
		}
	}
	return keys, vals
}

func rms(xs []float64) float64 {
	sq := make([]float64, len(xs))
	floats.MulTo(sq, xs, xs)
	return math.Sqrt(stat.Mean(sq, nil))
}

func ptr(v float64) *float64 {
	return &v
}
