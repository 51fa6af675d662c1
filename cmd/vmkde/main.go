// Command vmkde fits Von Mises kernel density estimates to angular samples
// read from CSV and writes the fitted density tables.
//
// Usage:
//
//	vmkde -input samples.csv -output-dir out -kappa 1,5,20
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pthm-cable/circkde/circstat"
	"github.com/pthm-cable/circkde/config"
	"github.com/pthm-cable/circkde/dataset"
	"github.com/pthm-cable/circkde/kde"
	"github.com/pthm-cable/circkde/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	inputPath := flag.String("input", "", "Sample CSV with an angle column and optional weight column")
	outputDir := flag.String("output-dir", "", "Output directory for density tables, summary and config snapshot")
	kappas := flag.String("kappa", "", "Comma-separated kappa values (empty = use config)")
	points := flag.Int("points", 0, "Query angles per density table (0 = use config)")
	degrees := flag.Bool("degrees", false, "Input angles are in degrees")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Derived.LogLevel}))
	slog.SetDefault(logger)

	if *kappas != "" {
		ks, err := parseKappas(*kappas)
		if err != nil {
			slog.Error("invalid -kappa", "error", err)
			os.Exit(1)
		}
		cfg.Estimator.Kappas = ks
	}
	if *points > 0 {
		cfg.Output.Points = *points
	}
	if *degrees {
		cfg.Input.Degrees = true
	}

	if err := run(cfg, *inputPath, *outputDir); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, inputPath, outputDir string) error {
	if inputPath == "" {
		return fmt.Errorf("-input is required")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	angles, weights, err := dataset.ReadSamples(f, cfg.Input.Degrees)
	f.Close()
	if err != nil {
		return err
	}
	slog.Info("loaded samples",
		"path", inputPath,
		"count", len(angles),
		"weighted", !weights.IsUniform(),
		"degrees", cfg.Input.Degrees,
	)

	om, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return err
	}
	defer om.Close()

	if err := om.WriteConfig(cfg); err != nil {
		return err
	}

	perf := telemetry.NewPerfCollector(cfg.Log.PerfWindow)
	for _, kappa := range cfg.Estimator.Kappas {
		opts := cfg.KDEOptions(kappa, weights)
		opts.Timer = perf

		m, err := kde.NewWithOptions(angles, opts)
		if err != nil {
			return fmt.Errorf("fitting kappa=%v: %w", kappa, err)
		}

		summary := circstat.Summarize(m)
		slog.Info("fitted",
			"summary", summary,
			"density", telemetry.ComputeDensityStats(kappa, m.Density()),
		)

		rows, err := dataset.DensityTable(m, cfg.Output.Points, cfg.Output.Degrees)
		if err != nil {
			return fmt.Errorf("evaluating kappa=%v: %w", kappa, err)
		}
		if err := om.WriteDensity(kappa, rows); err != nil {
			return err
		}
		if err := om.WriteSummary(summary); err != nil {
			return err
		}
		if err := om.WritePerf(perf.LastCSV(kappa)); err != nil {
			return err
		}
	}

	slog.Info("perf", "stats", perf.Stats())
	if om != nil {
		slog.Info("output written", "dir", om.Dir())
	}
	return om.Close()
}

// parseKappas parses a comma-separated list of concentrations.
func parseKappas(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		k, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", p, err)
		}
		out = append(out, k)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no kappa values in %q", s)
	}
	return out, nil
}
