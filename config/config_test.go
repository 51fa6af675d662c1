package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/circkde/kde"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}
	if len(cfg.Estimator.Kappas) != 1 || cfg.Estimator.Kappas[0] != kde.DefaultKappa {
		t.Errorf("kappas = %v, want [%v]", cfg.Estimator.Kappas, kde.DefaultKappa)
	}
	if cfg.Estimator.GridSize != kde.DefaultGridSize {
		t.Errorf("grid_size = %d, want %d", cfg.Estimator.GridSize, kde.DefaultGridSize)
	}
	if cfg.Derived.LogLevel != slog.LevelInfo {
		t.Errorf("log level = %v, want info", cfg.Derived.LogLevel)
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	path := writeFile(t, "estimator:\n  kappas: [2, 8]\nlog:\n  level: debug\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Estimator.Kappas) != 2 || cfg.Estimator.Kappas[1] != 8 {
		t.Errorf("kappas = %v", cfg.Estimator.Kappas)
	}
	if cfg.Estimator.GridSize != kde.DefaultGridSize {
		t.Errorf("grid_size should keep default, got %d", cfg.Estimator.GridSize)
	}
	if cfg.Derived.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v, want debug", cfg.Derived.LogLevel)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"negative kappa", "estimator:\n  kappas: [-1]\n", kde.ErrInvalidKappa},
		{"tiny grid", "estimator:\n  grid_size: 1\n", kde.ErrInvalidGrid},
		{"no kappas", "estimator:\n  kappas: []\n", nil},
		{"bad level", "log:\n  level: loud\n", nil},
		{"bad points", "output:\n  points: 0\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Estimator.Kappas = []float64{0.5, 4}

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if len(back.Estimator.Kappas) != 2 || back.Estimator.Kappas[0] != 0.5 {
		t.Errorf("kappas = %v", back.Estimator.Kappas)
	}
}

func TestInitAndCfg(t *testing.T) {
	global = nil
	defer func() { global = nil }()

	defer func() {
		if recover() == nil {
			t.Error("Cfg before Init should panic")
		}
		MustInit("")
		if Cfg().Estimator.GridSize != kde.DefaultGridSize {
			t.Error("Cfg after MustInit should return defaults")
		}
	}()
	Cfg()
}

func TestKDEOptions(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	opts := cfg.KDEOptions(3, kde.Uniform())
	if opts.Kappa != 3 || opts.GridSize != cfg.Estimator.GridSize || !opts.Weights.IsUniform() {
		t.Errorf("options = %+v", opts)
	}
}
