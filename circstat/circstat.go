// Package circstat provides descriptive statistics for angular data and for
// fitted circular densities.
package circstat

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/circkde/angle"
	"github.com/pthm-cable/circkde/kde"
)

// Mean returns the circular mean direction of angles in (-π, π].
// weights may be nil for equal weights. Returns 0 for empty input.
func Mean(angles, weights []float64) float64 {
	if len(angles) == 0 {
		return 0
	}
	return angle.Normalize(stat.CircularMean(angles, weights))
}

// ResultantLength returns the mean resultant length R.
// R ranges from 0 (no preferred direction) to 1 (all angles identical).
func ResultantLength(angles, weights []float64) float64 {
	if len(angles) == 0 {
		return 0
	}

	var sumSin, sumCos, sumWeights float64
	for i, a := range angles {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		sumSin += w * math.Sin(a)
		sumCos += w * math.Cos(a)
		sumWeights += w
	}

	if sumWeights == 0 {
		return 0
	}
	return math.Hypot(sumSin, sumCos) / sumWeights
}

// Variance returns the circular variance 1 - R.
func Variance(angles, weights []float64) float64 {
	return 1 - ResultantLength(angles, weights)
}

// Summary describes a fitted density and the samples it was built from.
type Summary struct {
	Kappa           float64 `csv:"kappa"`
	Samples         int     `csv:"samples"`
	SampleMean      float64 `csv:"sample_mean"`
	ResultantLength float64 `csv:"resultant_length"`
	Variance        float64 `csv:"variance"`
	DensityMean     float64 `csv:"density_mean"`
	Mode            float64 `csv:"mode"`
	PeakDensity     float64 `csv:"peak_density"`
	Area            float64 `csv:"area"`
}

// Summarize computes a Summary of m.
func Summarize(m *kde.KDE) Summary {
	samples := m.Samples()
	weights := m.Weights()
	mode, peak := m.Mode()

	r := ResultantLength(samples, weights)
	return Summary{
		Kappa:           m.Kappa(),
		Samples:         m.Len(),
		SampleMean:      Mean(samples, weights),
		ResultantLength: r,
		Variance:        1 - r,
		DensityMean:     Mean(m.Grid(), m.Density()),
		Mode:            mode,
		PeakDensity:     peak,
		Area:            m.Area(),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("kappa", s.Kappa),
		slog.Int("samples", s.Samples),
		slog.Float64("sample_mean", s.SampleMean),
		slog.Float64("resultant_length", s.ResultantLength),
		slog.Float64("variance", s.Variance),
		slog.Float64("density_mean", s.DensityMean),
		slog.Float64("mode", s.Mode),
		slog.Float64("peak_density", s.PeakDensity),
		slog.Float64("area", s.Area),
	)
}
