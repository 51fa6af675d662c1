// Package kde estimates circular probability densities with a Von Mises
// kernel.
//
// A KDE is fitted once, eagerly, from a set of angles: each sample
// contributes one Von Mises kernel evaluated on a fixed grid spanning
// [-π, π], the (optionally weighted) kernels are summed, and the sum is
// rescaled to unit area with the trapezoidal rule. Queries interpolate the
// resulting table linearly. A fitted KDE is immutable and safe for
// concurrent use.
package kde

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/interp"

	"github.com/pthm-cable/circkde/angle"
	"github.com/pthm-cable/circkde/vonmises"
)

const (
	// DefaultKappa is the concentration used by New callers that have no
	// better choice.
	DefaultKappa = 1.0

	// DefaultGridSize is the number of evaluation points over [-π, π].
	DefaultGridSize = 1000
)

// Phase names reported to a PhaseTimer during construction.
const (
	PhaseNormalize   = "normalize"
	PhaseKernels     = "kernels"
	PhaseIntegrate   = "integrate"
	PhaseInterpolate = "interpolate"
)

// PhaseTimer receives construction timing. One fit is one tick.
type PhaseTimer interface {
	StartTick()
	StartPhase(phase string)
	EndTick()
}

type noopTimer struct{}

func (noopTimer) StartTick()        {}
func (noopTimer) StartPhase(string) {}
func (noopTimer) EndTick()          {}

// Options configures NewWithOptions.
type Options struct {
	Weights Weights
	Kappa   float64

	// GridSize is the number of grid points (0 = DefaultGridSize).
	GridSize int

	// Workers bounds kernel evaluation goroutines (0 = GOMAXPROCS).
	Workers int

	// ParallelThreshold is the sample count below which kernels are
	// evaluated on the calling goroutine (0 = DefaultParallelThreshold).
	ParallelThreshold int

	// Timer, if set, records construction phases.
	Timer PhaseTimer
}

// DefaultOptions returns uniform weights with DefaultKappa on the default grid.
func DefaultOptions() Options {
	return Options{Kappa: DefaultKappa}
}

// KDE is a fitted Von Mises kernel density estimate.
type KDE struct {
	samples []float64 // normalized to (-π, π]
	weights []float64 // normalized to sum 1; nil when uniform
	kappa   float64

	grid    []float64
	density []float64
	fn      interp.PiecewiseLinear
}

// New fits a density to data (radians, any range) with concentration kappa.
func New(data []float64, weights Weights, kappa float64) (*KDE, error) {
	opts := DefaultOptions()
	opts.Weights = weights
	opts.Kappa = kappa
	return NewWithOptions(data, opts)
}

// NewWithOptions fits a density to data using opts. data is not modified.
func NewWithOptions(data []float64, opts Options) (*KDE, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDataset
	}
	if !vonmises.ValidKappa(opts.Kappa) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidKappa, opts.Kappa)
	}

	gridSize := opts.GridSize
	if gridSize == 0 {
		gridSize = DefaultGridSize
	}
	if gridSize < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGrid, gridSize)
	}

	threshold := opts.ParallelThreshold
	if threshold == 0 {
		threshold = DefaultParallelThreshold
	}

	weights, err := opts.Weights.resolve(len(data))
	if err != nil {
		return nil, err
	}

	timer := opts.Timer
	if timer == nil {
		timer = noopTimer{}
	}
	timer.StartTick()
	defer timer.EndTick()

	timer.StartPhase(PhaseNormalize)
	samples := angle.NormalizeAll(nil, data)
	grid := Grid(gridSize)

	timer.StartPhase(PhaseKernels)
	agg := newAggregator(vonmises.NewKernel(opts.Kappa), grid, samples, weights)
	density := agg.sum(opts.Workers, threshold)

	timer.StartPhase(PhaseIntegrate)
	area := integrate.Trapezoidal(grid, density)
	if !(area > 0) || math.IsInf(area, 0) {
		return nil, fmt.Errorf("%w: area = %v", ErrDegenerateDensity, area)
	}
	floats.Scale(1/area, density)

	timer.StartPhase(PhaseInterpolate)
	m := &KDE{
		samples: samples,
		weights: weights,
		kappa:   opts.Kappa,
		grid:    grid,
		density: density,
	}
	if err := m.fn.Fit(grid, density); err != nil {
		return nil, fmt.Errorf("fitting interpolant: %w", err)
	}
	return m, nil
}

// Grid returns n equally spaced points from -π to π inclusive.
func Grid(n int) []float64 {
	grid := make([]float64, n)
	floats.Span(grid, -math.Pi, math.Pi)
	grid[0], grid[n-1] = -math.Pi, math.Pi
	return grid
}

// Evaluate returns the estimated density at x (radians, any range).
func (m *KDE) Evaluate(x float64) (float64, error) {
	x = angle.Normalize(x)
	if !(x >= m.grid[0] && x <= m.grid[len(m.grid)-1]) {
		return 0, fmt.Errorf("%w: %v", ErrOutOfDomain, x)
	}
	return m.fn.Predict(x), nil
}

// EvaluateAll returns the estimated density at each of xs.
func (m *KDE) EvaluateAll(xs []float64) ([]float64, error) {
	out := make([]float64, len(xs))
	for i, x := range xs {
		v, err := m.Evaluate(x)
		if err != nil {
			return nil, fmt.Errorf("evaluating index %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Kappa returns the kernel concentration.
func (m *KDE) Kappa() float64 { return m.kappa }

// Len returns the number of samples.
func (m *KDE) Len() int { return len(m.samples) }

// Samples returns a copy of the normalized samples.
func (m *KDE) Samples() []float64 { return append([]float64(nil), m.samples...) }

// Weights returns a copy of the normalized weights, or nil when uniform.
func (m *KDE) Weights() []float64 {
	if m.weights == nil {
		return nil
	}
	return append([]float64(nil), m.weights...)
}

// Grid returns a copy of the evaluation grid.
func (m *KDE) Grid() []float64 { return append([]float64(nil), m.grid...) }

// Density returns a copy of the density table, aligned with Grid.
func (m *KDE) Density() []float64 { return append([]float64(nil), m.density...) }

// Area returns the trapezoidal integral of the density table. It is 1 up to
// rounding.
func (m *KDE) Area() float64 {
	return integrate.Trapezoidal(m.grid, m.density)
}

// Mode returns the grid angle of highest density and the density there.
// Ties resolve to the lowest grid index.
func (m *KDE) Mode() (float64, float64) {
	i := floats.MaxIdx(m.density)
	return angle.Normalize(m.grid[i]), m.density[i]
}
