package telemetry

import (
	"log/slog"
	"sort"
)

// DensityStats describes the spread of a density table's values. A flat
// (near-uniform) estimate has P10 close to P90.
type DensityStats struct {
	Kappa float64 `csv:"kappa"`
	Mean  float64 `csv:"mean"`
	Min   float64 `csv:"min"`
	P10   float64 `csv:"p10"`
	P50   float64 `csv:"p50"`
	P90   float64 `csv:"p90"`
	Max   float64 `csv:"max"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDensityStats summarizes density values for one fit.
func ComputeDensityStats(kappa float64, values []float64) DensityStats {
	n := len(values)
	if n == 0 {
		return DensityStats{Kappa: kappa}
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return DensityStats{
		Kappa: kappa,
		Mean:  sum / float64(n),
		Min:   sorted[0],
		P10:   Percentile(sorted, 0.10),
		P50:   Percentile(sorted, 0.50),
		P90:   Percentile(sorted, 0.90),
		Max:   sorted[n-1],
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s DensityStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("kappa", s.Kappa),
		slog.Float64("mean", s.Mean),
		slog.Float64("min", s.Min),
		slog.Float64("p10", s.P10),
		slog.Float64("p50", s.P50),
		slog.Float64("p90", s.P90),
		slog.Float64("max", s.Max),
	)
}
