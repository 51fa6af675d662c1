package circstat

import (
	"math"
	"testing"

	"github.com/pthm-cable/circkde/kde"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name    string
		angles  []float64
		weights []float64
		want    float64
	}{
		{"empty", nil, nil, 0},
		{"single", []float64{1}, nil, 1},
		{"straddles pi", []float64{math.Pi - 0.1, -math.Pi + 0.1}, nil, math.Pi},
		{"symmetric about zero", []float64{-0.5, 0.5}, nil, 0},
		{"weighted", []float64{0, math.Pi / 2}, []float64{1, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mean(tt.angles, tt.weights)
			if math.Abs(angleDiff(got, tt.want)) > 1e-12 {
				t.Errorf("Mean = %v, want %v", got, tt.want)
			}
		})
	}
}

func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

func TestResultantLength(t *testing.T) {
	if r := ResultantLength([]float64{0.7, 0.7, 0.7}, nil); math.Abs(r-1) > 1e-12 {
		t.Errorf("identical angles: R = %v, want 1", r)
	}
	if r := ResultantLength([]float64{0, math.Pi / 2, math.Pi, -math.Pi / 2}, nil); r > 1e-12 {
		t.Errorf("evenly spread angles: R = %v, want 0", r)
	}
	if r := ResultantLength([]float64{0, math.Pi}, []float64{0, 0}); r != 0 {
		t.Errorf("zero weights: R = %v, want 0", r)
	}
	if v := Variance([]float64{1, 1}, nil); math.Abs(v) > 1e-12 {
		t.Errorf("Variance = %v, want 0", v)
	}
}

func TestSummarize(t *testing.T) {
	m, err := kde.New([]float64{0.4, 0.5, 0.6}, kde.Uniform(), 10)
	if err != nil {
		t.Fatal(err)
	}
	s := Summarize(m)

	if s.Samples != 3 || s.Kappa != 10 {
		t.Errorf("Samples = %d, Kappa = %v", s.Samples, s.Kappa)
	}
	if math.Abs(s.SampleMean-0.5) > 1e-12 {
		t.Errorf("SampleMean = %v, want 0.5", s.SampleMean)
	}
	if math.Abs(s.DensityMean-0.5) > 1e-3 {
		t.Errorf("DensityMean = %v, want ~0.5", s.DensityMean)
	}
	if math.Abs(s.Mode-0.5) > 0.01 {
		t.Errorf("Mode = %v, want ~0.5", s.Mode)
	}
	if math.Abs(s.Area-1) > 1e-9 {
		t.Errorf("Area = %v, want 1", s.Area)
	}
	if s.ResultantLength <= 0.99 || s.ResultantLength > 1 {
		t.Errorf("ResultantLength = %v", s.ResultantLength)
	}
	if math.Abs(s.Variance-(1-s.ResultantLength)) > 1e-15 {
		t.Errorf("Variance = %v", s.Variance)
	}
}
