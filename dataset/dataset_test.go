package dataset

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/circkde/circstat"
	"github.com/pthm-cable/circkde/kde"
)

func TestReadSamplesUniform(t *testing.T) {
	in := "angle\n0.5\n-1\n7\n"
	angles, w, err := ReadSamples(strings.NewReader(in), false)
	if err != nil {
		t.Fatalf("ReadSamples: %v", err)
	}
	if len(angles) != 3 || angles[2] != 7 {
		t.Errorf("angles = %v", angles)
	}
	if !w.IsUniform() {
		t.Error("expected uniform weights")
	}
}

func TestReadSamplesWeighted(t *testing.T) {
	in := "angle,weight\n90,1\n180,3\n"
	angles, w, err := ReadSamples(strings.NewReader(in), true)
	if err != nil {
		t.Fatalf("ReadSamples: %v", err)
	}
	if math.Abs(angles[0]-math.Pi/2) > 1e-15 || math.Abs(angles[1]-math.Pi) > 1e-15 {
		t.Errorf("angles = %v", angles)
	}
	if w.IsUniform() || w.Len() != 2 {
		t.Errorf("weights: uniform=%v len=%d", w.IsUniform(), w.Len())
	}
}

func TestReadSamplesBlankWeightColumn(t *testing.T) {
	in := "angle,weight\n0.1,\n0.2,\n"
	_, w, err := ReadSamples(strings.NewReader(in), false)
	if err != nil {
		t.Fatalf("ReadSamples: %v", err)
	}
	if !w.IsUniform() {
		t.Error("blank weight column should mean uniform")
	}
}

func TestReadSamplesErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"partial weights", "angle,weight\n0.1,1\n0.2,\n", kde.ErrWeightsLength},
		{"bad weight", "angle,weight\n0.1,heavy\n", nil},
		{"bad angle", "angle\nnorth\n", nil},
		{"blank angle", "angle,weight\n,1\n0.5,1\n", ErrMissingAngle},
		{"no angle column", "weight\n1\n", ErrMissingAngle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadSamples(strings.NewReader(tt.in), false)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestQueryAngles(t *testing.T) {
	xs := QueryAngles(4)
	want := []float64{-math.Pi, -math.Pi / 2, 0, math.Pi / 2}
	for i := range want {
		if math.Abs(xs[i]-want[i]) > 1e-15 {
			t.Errorf("xs[%d] = %v, want %v", i, xs[i], want[i])
		}
	}
}

func TestDensityTableAndWrite(t *testing.T) {
	m, err := kde.New([]float64{0}, kde.Uniform(), 2)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := DensityTable(m, 8, true)
	if err != nil {
		t.Fatalf("DensityTable: %v", err)
	}
	if len(rows) != 8 || math.Abs(rows[0].Angle+180) > 1e-12 {
		t.Fatalf("rows = %+v", rows)
	}
	// Peak at 0° (index 4)
	for i, r := range rows {
		if i != 4 && r.Density >= rows[4].Density {
			t.Errorf("row %d density %v not below peak %v", i, r.Density, rows[4].Density)
		}
	}

	var buf bytes.Buffer
	if err := WriteDensity(&buf, rows); err != nil {
		t.Fatalf("WriteDensity: %v", err)
	}
	var back []DensityRow
	if err := gocsv.Unmarshal(&buf, &back); err != nil {
		t.Fatalf("re-reading density: %v", err)
	}
	if len(back) != len(rows) || math.Abs(back[4].Density-rows[4].Density) > 1e-12 {
		t.Errorf("density roundtrip mismatch: %+v", back)
	}
}

func TestWriteSummariesHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummaries(&buf, []circstat.Summary{{Kappa: 2, Samples: 5}}); err != nil {
		t.Fatal(err)
	}
	header := strings.SplitN(buf.String(), "\n", 2)[0]
	if !strings.HasPrefix(header, "kappa,samples,sample_mean") {
		t.Errorf("header = %q", header)
	}
}
