package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/circkde/kde"
)

// phases lists the construction phases in pipeline order.
var phases = []string{
	kde.PhaseNormalize,
	kde.PhaseKernels,
	kde.PhaseIntegrate,
	kde.PhaseInterpolate,
}

// PerfSample holds timing data for a single fit.
type PerfSample struct {
	FitDuration time.Duration
	Phases      map[string]time.Duration
}

// PerfCollector tracks fit timings over a rolling window.
// It satisfies kde.PhaseTimer; one fit is one tick.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string

	// Frame timing (for the preview window)
	lastFrameTime time.Time
	frameDuration time.Duration
}

var _ kde.PhaseTimer = (*PerfCollector)(nil)

// NewPerfCollector creates a new performance collector.
// windowSize: number of fits to average over.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 16
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new fit.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current fit and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		FitDuration: now.Sub(p.tickStart),
		Phases:      p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records frame timing for the preview window.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	Fits int

	AvgFitDuration time.Duration
	MinFitDuration time.Duration
	MaxFitDuration time.Duration

	// Phase breakdown (average durations and share of fit time)
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	FitsPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}

	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg:      make(map[string]time.Duration),
			PhasePct:      make(map[string]float64),
			FrameDuration: p.frameDuration,
			FPS:           fps,
		}
	}

	var total, minFit, maxFit time.Duration
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.FitDuration
		if i == 0 || s.FitDuration < minFit {
			minFit = s.FitDuration
		}
		if s.FitDuration > maxFit {
			maxFit = s.FitDuration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var perSec float64
	if avg > 0 {
		perSec = float64(time.Second) / float64(avg)
	}

	return PerfStats{
		Fits:           p.sampleCount,
		AvgFitDuration: avg,
		MinFitDuration: minFit,
		MaxFitDuration: maxFit,
		PhaseAvg:       phaseAvg,
		PhasePct:       phasePct,
		FitsPerSecond:  perSec,
		FrameDuration:  p.frameDuration,
		FPS:            fps,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("fits", s.Fits),
		slog.Int64("avg_fit_us", s.AvgFitDuration.Microseconds()),
		slog.Int64("min_fit_us", s.MinFitDuration.Microseconds()),
		slog.Int64("max_fit_us", s.MaxFitDuration.Microseconds()),
		slog.Float64("fits_per_sec", s.FitsPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Kappa         float64 `csv:"kappa"`
	FitUS         int64   `csv:"fit_us"`
	NormalizeUS   int64   `csv:"normalize_us"`
	KernelsUS     int64   `csv:"kernels_us"`
	IntegrateUS   int64   `csv:"integrate_us"`
	InterpolateUS int64   `csv:"interpolate_us"`
	KernelsPct    float64 `csv:"kernels_pct"`
}

// LastCSV returns the most recent fit as a CSV row tagged with kappa.
func (p *PerfCollector) LastCSV(kappa float64) PerfStatsCSV {
	if p.sampleCount == 0 {
		return PerfStatsCSV{Kappa: kappa}
	}
	s := p.samples[(p.writeIndex+p.windowSize-1)%p.windowSize]

	row := PerfStatsCSV{
		Kappa:         kappa,
		FitUS:         s.FitDuration.Microseconds(),
		NormalizeUS:   s.Phases[kde.PhaseNormalize].Microseconds(),
		KernelsUS:     s.Phases[kde.PhaseKernels].Microseconds(),
		IntegrateUS:   s.Phases[kde.PhaseIntegrate].Microseconds(),
		InterpolateUS: s.Phases[kde.PhaseInterpolate].Microseconds(),
	}
	if s.FitDuration > 0 {
		row.KernelsPct = float64(s.Phases[kde.PhaseKernels]) / float64(s.FitDuration) * 100
	}
	return row
}
