// Package dataset reads angular samples from CSV and writes fitted density
// tables and summaries back out.
//
// Sample files have an "angle" column and an optional "weight" column:
//
//	angle,weight
//	0.12,1
//	3.05,2.5
//
// Every row needs an angle. A weight column that is blank in every row means
// uniform weighting.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/circkde/angle"
	"github.com/pthm-cable/circkde/circstat"
	"github.com/pthm-cable/circkde/kde"
)

// ErrMissingAngle is returned for a row with no angle, including every row of
// a file without an angle column.
var ErrMissingAngle = errors.New("missing angle")

// SampleRow is one line of a sample file.
type SampleRow struct {
	Angle  string `csv:"angle"`
	Weight string `csv:"weight"`
}

// DensityRow is one query angle and its estimated density.
type DensityRow struct {
	Angle   float64 `csv:"angle"`
	Density float64 `csv:"density"`
}

// ReadSamples parses a sample file. Angles are converted to radians when
// degrees is set; they are not normalized here.
func ReadSamples(r io.Reader, degrees bool) ([]float64, kde.Weights, error) {
	var rows []SampleRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, kde.Weights{}, fmt.Errorf("parsing samples: %w", err)
	}
	return FromRows(rows, degrees)
}

// FromRows converts parsed rows into angles and weights.
func FromRows(rows []SampleRow, degrees bool) ([]float64, kde.Weights, error) {
	angles := make([]float64, len(rows))
	weights := make([]float64, 0, len(rows))

	for i, row := range rows {
		as := strings.TrimSpace(row.Angle)
		if as == "" {
			return nil, kde.Weights{}, fmt.Errorf("row %d: %w", i+1, ErrMissingAngle)
		}
		a, err := strconv.ParseFloat(as, 64)
		if err != nil {
			return nil, kde.Weights{}, fmt.Errorf("row %d: parsing angle %q: %w", i+1, row.Angle, err)
		}
		if degrees {
			a = angle.FromDegrees(a)
		}
		angles[i] = a

		ws := strings.TrimSpace(row.Weight)
		if ws == "" {
			continue
		}
		w, err := strconv.ParseFloat(ws, 64)
		if err != nil {
			return nil, kde.Weights{}, fmt.Errorf("row %d: parsing weight %q: %w", i+1, row.Weight, err)
		}
		weights = append(weights, w)
	}

	switch len(weights) {
	case 0:
		return angles, kde.Uniform(), nil
	case len(angles):
		return angles, kde.Weighted(weights), nil
	default:
		return nil, kde.Weights{}, fmt.Errorf("%w: %d of %d rows have a weight", kde.ErrWeightsLength, len(weights), len(angles))
	}
}

// QueryAngles returns n angles evenly spaced over one turn, starting at -π.
func QueryAngles(n int) []float64 {
	out := make([]float64, n)
	step := 2 * math.Pi / float64(n)
	for i := range out {
		out[i] = -math.Pi + float64(i)*step
	}
	return out
}

// DensityTable evaluates m at n evenly spaced angles. Angles are reported in
// degrees when degrees is set.
func DensityTable(m *kde.KDE, n int, degrees bool) ([]DensityRow, error) {
	xs := QueryAngles(n)
	ys, err := m.EvaluateAll(xs)
	if err != nil {
		return nil, err
	}

	rows := make([]DensityRow, n)
	for i, x := range xs {
		if degrees {
			x = angle.ToDegrees(x)
		}
		rows[i] = DensityRow{Angle: x, Density: ys[i]}
	}
	return rows, nil
}

// WriteDensity writes a density table with a header row.
func WriteDensity(w io.Writer, rows []DensityRow) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing density: %w", err)
	}
	return nil
}

// WriteSummaries writes fit summaries with a header row.
func WriteSummaries(w io.Writer, rows []circstat.Summary) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing summaries: %w", err)
	}
	return nil
}
