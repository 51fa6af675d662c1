package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/circkde/kde"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeDensityStats(t *testing.T) {
	values := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}
	s := ComputeDensityStats(3, values)

	if s.Kappa != 3 {
		t.Errorf("kappa = %v, want 3", s.Kappa)
	}
	if math.Abs(s.Mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", s.Mean)
	}
	if math.Abs(s.P10-0.19) > 0.01 {
		t.Errorf("p10 = %v, want ~0.19", s.P10)
	}
	if math.Abs(s.P90-0.91) > 0.01 {
		t.Errorf("p90 = %v, want ~0.91", s.P90)
	}
	if s.Min != 0.1 || s.Max != 1.0 {
		t.Errorf("min/max = %v/%v", s.Min, s.Max)
	}
}

func TestComputeDensityStatsEmpty(t *testing.T) {
	s := ComputeDensityStats(1, nil)
	if s.Mean != 0 || s.P10 != 0 || s.P50 != 0 || s.P90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestDensityStatsFlatForSmallKappa(t *testing.T) {
	m, err := kde.New([]float64{0.3, 2}, kde.Uniform(), 1e-6)
	if err != nil {
		t.Fatal(err)
	}
	s := ComputeDensityStats(m.Kappa(), m.Density())
	if s.Max-s.Min > 1e-5 {
		t.Errorf("expected flat density, spread = %v", s.Max-s.Min)
	}
}
