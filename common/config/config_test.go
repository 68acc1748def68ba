package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "riichi.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_FillsDefaults(t *testing.T) {
	path := writeConfig(t, "appName: table-sim\nrules:\n  length: tonpu\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppName != "table-sim" {
		t.Fatalf("appName expected table-sim, got %q", cfg.AppName)
	}
	if cfg.Rules.Length != "tonpu" {
		t.Fatalf("length expected tonpu, got %q", cfg.Rules.Length)
	}
	if cfg.Rules.InitialPoints != 25000 || !cfg.Rules.RedFives {
		t.Fatalf("defaults not applied: %+v", cfg.Rules)
	}
	if cfg.Simulation.MaxSteps != 20000 {
		t.Fatalf("simulation.maxSteps expected default 20000, got %d", cfg.Simulation.MaxSteps)
	}
}

func TestLoad_RejectsUnknownLength(t *testing.T) {
	path := writeConfig(t, "rules:\n  length: marathon\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown length")
	}
}

func TestCurrent_DefaultsWithoutFile(t *testing.T) {
	cfg := Current()
	if cfg == nil || cfg.Rules.InitialPoints != 25000 {
		t.Fatalf("expected default config, got %+v", cfg)
	}
}

func TestLoad_MetricPortAndMonitor(t *testing.T) {
	path := writeConfig(t, "metricPort: 5855\nsimulation:\n  tables: 2\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MetricPort != 5855 || cfg.Simulation.Tables != 2 || cfg.Simulation.MonitorSeconds != 5 {
		t.Fatalf("unexpected config %+v", cfg)
	}

	path = writeConfig(t, "metricPort: 70000\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for out-of-range metric port")
	}
}
