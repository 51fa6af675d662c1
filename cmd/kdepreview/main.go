// Density preview tool - interactive plot of a Von Mises KDE with a kappa slider.
//
// Usage: go run ./cmd/kdepreview [-input samples.csv] [-degrees]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/circkde/circstat"
	"github.com/pthm-cable/circkde/config"
	"github.com/pthm-cable/circkde/dataset"
	"github.com/pthm-cable/circkde/kde"
	"github.com/pthm-cable/circkde/telemetry"
)

const (
	plotPoints = 360
	polarSize  = 520
	margin     = 10
)

// demoSamples is a bimodal set used when no input file is given.
var demoSamples = []float64{
	-2.9, -2.75, -2.7, -2.6, -2.55, -2.4, 3.05, 3.1,
	0.55, 0.6, 0.7, 0.75, 0.8, 0.85, 0.9, 1.0, 1.1, 1.3,
}

// previewState holds the current fit and its plot cache.
type previewState struct {
	angles  []float64
	weights kde.Weights
	kappa   float32

	model   *kde.KDE
	summary circstat.Summary
	xs      []float64
	ys      []float64
	peak    float64
	fitErr  error
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	inputPath := flag.String("input", "", "Sample CSV (empty = built-in demo set)")
	degrees := flag.Bool("degrees", false, "Input angles are in degrees")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	angles, weights := demoSamples, kde.Uniform()
	if *inputPath != "" {
		f, err := os.Open(*inputPath)
		if err != nil {
			slog.Error("failed to open input", "error", err)
			os.Exit(1)
		}
		angles, weights, err = dataset.ReadSamples(f, *degrees || cfg.Input.Degrees)
		f.Close()
		if err != nil {
			slog.Error("failed to read samples", "error", err)
			os.Exit(1)
		}
	}

	width, height := int32(cfg.Preview.Width), int32(cfg.Preview.Height)
	panelX := float32(polarSize + 3*margin)
	panelWidth := float32(width) - panelX - margin

	rl.InitWindow(width, height, "Von Mises KDE Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	perf := telemetry.NewPerfCollector(cfg.Log.PerfWindow)
	state := &previewState{
		angles:  angles,
		weights: weights,
		kappa:   float32(cfg.Estimator.Kappas[0]),
		xs:      dataset.QueryAngles(plotPoints),
	}
	state.refit(cfg, perf)

	for !rl.WindowShouldClose() {
		perf.RecordFrame()

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		drawPolar(state)
		drawLinear(state, rl.Rectangle{X: panelX, Y: 260, Width: panelWidth, Height: float32(height) - 270})

		// Control panel
		panelY := float32(margin)
		rl.DrawText("Von Mises KDE", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Kappa (concentration)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newKappa := kappaSlider(cfg.Preview, rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 80, Height: 20}, state.kappa)
		rl.DrawText(fmt.Sprintf("%.2f", state.kappa), int32(panelX+panelWidth-70), int32(panelY+2), 16, rl.DarkGray)
		if newKappa != state.kappa {
			state.kappa = newKappa
			state.refit(cfg, perf)
		}
		panelY += 35

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset Kappa") {
			state.kappa = float32(cfg.Estimator.Kappas[0])
			state.refit(cfg, perf)
		}
		panelY += 45

		drawStats(state, perf.Stats(), panelX, panelY)

		rl.EndDrawing()
	}
}

// refit rebuilds the model for the current kappa and caches plot values.
func (s *previewState) refit(cfg *config.Config, perf *telemetry.PerfCollector) {
	opts := cfg.KDEOptions(float64(s.kappa), s.weights)
	opts.Timer = perf

	m, err := kde.NewWithOptions(s.angles, opts)
	if err != nil {
		s.fitErr = err
		return
	}
	ys, err := m.EvaluateAll(s.xs)
	if err != nil {
		s.fitErr = err
		return
	}

	s.model, s.ys, s.fitErr = m, ys, nil
	s.summary = circstat.Summarize(m)
	s.peak = 0
	for _, y := range ys {
		s.peak = math.Max(s.peak, y)
	}
}

// kappaSlider maps the slider to kappa, optionally on a log scale so small
// concentrations stay adjustable.
func kappaSlider(pc config.PreviewConfig, bounds rl.Rectangle, kappa float32) float32 {
	lo, hi := float32(pc.KappaMin), float32(pc.KappaMax)
	if !pc.LogSlider || lo <= 0 {
		return gui.SliderBar(bounds, fmt.Sprintf("%.1f", lo), fmt.Sprintf("%.0f", hi), kappa, lo, hi)
	}

	logLo, logHi := float32(math.Log(float64(lo))), float32(math.Log(float64(hi)))
	pos := float32(math.Log(float64(max(kappa, lo))))
	newPos := gui.SliderBar(bounds, fmt.Sprintf("%.1f", lo), fmt.Sprintf("%.0f", hi), pos, logLo, logHi)
	if newPos == pos {
		return kappa
	}
	return float32(math.Exp(float64(newPos)))
}

// drawPolar plots the density as a radial curve around a unit circle, with
// one tick per sample.
func drawPolar(s *previewState) {
	cx, cy := float32(margin+polarSize/2), float32(margin+polarSize/2)
	base := float32(polarSize) * 0.2
	span := float32(polarSize)*0.5 - base - 5

	rl.DrawRectangleLines(margin, margin, polarSize, polarSize, rl.DarkGray)
	rl.DrawCircleLines(int32(cx), int32(cy), base, rl.LightGray)
	rl.DrawLine(int32(cx)-polarSize/2+5, int32(cy), int32(cx)+polarSize/2-5, int32(cy), rl.LightGray)
	rl.DrawLine(int32(cx), int32(cy)-polarSize/2+5, int32(cx), int32(cy)+polarSize/2-5, rl.LightGray)

	// Angle 0 points right, positive angles counter-clockwise
	point := func(a float64, r float32) rl.Vector2 {
		return rl.Vector2{
			X: cx + r*float32(math.Cos(a)),
			Y: cy - r*float32(math.Sin(a)),
		}
	}

	for _, a := range s.angles {
		rl.DrawLineV(point(a, base-8), point(a, base), rl.Maroon)
	}

	if s.fitErr != nil || s.peak <= 0 {
		return
	}
	for i := range s.xs {
		j := (i + 1) % len(s.xs)
		r0 := base + span*float32(s.ys[i]/s.peak)
		r1 := base + span*float32(s.ys[j]/s.peak)
		rl.DrawLineV(point(s.xs[i], r0), point(s.xs[j], r1), rl.DarkBlue)
	}

	rl.DrawLineV(point(s.summary.Mode, base), point(s.summary.Mode, base+span), rl.SkyBlue)
}

// drawLinear plots density against angle over [-π, π).
func drawLinear(s *previewState, area rl.Rectangle) {
	rl.DrawRectangleLines(int32(area.X), int32(area.Y), int32(area.Width), int32(area.Height), rl.DarkGray)
	rl.DrawText("-π", int32(area.X), int32(area.Y+area.Height+2), 10, rl.Gray)
	rl.DrawText("π", int32(area.X+area.Width-8), int32(area.Y+area.Height+2), 10, rl.Gray)

	if s.fitErr != nil || s.peak <= 0 {
		return
	}

	toScreen := func(x, y float64) rl.Vector2 {
		return rl.Vector2{
			X: area.X + area.Width*float32((x+math.Pi)/(2*math.Pi)),
			Y: area.Y + area.Height - area.Height*0.95*float32(y/s.peak),
		}
	}
	for i := 0; i+1 < len(s.xs); i++ {
		rl.DrawLineV(toScreen(s.xs[i], s.ys[i]), toScreen(s.xs[i+1], s.ys[i+1]), rl.DarkBlue)
	}

	// Uniform density reference
	u := toScreen(-math.Pi, 1/(2*math.Pi))
	rl.DrawLine(int32(area.X), int32(u.Y), int32(area.X+area.Width), int32(u.Y), rl.LightGray)
}

func drawStats(s *previewState, perf telemetry.PerfStats, x, y float32) {
	line := func(text string) {
		rl.DrawText(text, int32(x), int32(y), 16, rl.DarkGray)
		y += 20
	}

	if s.fitErr != nil {
		rl.DrawText(s.fitErr.Error(), int32(x), int32(y), 16, rl.Red)
		return
	}

	line(fmt.Sprintf("Samples: %d  Weighted: %v", s.summary.Samples, !s.weights.IsUniform()))
	line(fmt.Sprintf("Mean: %.3f  R: %.3f", s.summary.SampleMean, s.summary.ResultantLength))
	line(fmt.Sprintf("Mode: %.3f  Peak: %.4f", s.summary.Mode, s.summary.PeakDensity))
	line(fmt.Sprintf("Fit: %s  FPS: %.0f", perf.AvgFitDuration, perf.FPS))
}
