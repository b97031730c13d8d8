package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "gc-boozer" {
		t.Errorf("expected mode gc-boozer, got %s", cfg.Mode)
	}
	if cfg.Trace.Tmax <= 0 {
		t.Error("tmax should be positive")
	}
	if cfg.Trace.AbsTol <= 0 || cfg.Trace.RelTol <= 0 {
		t.Error("tolerances should be positive")
	}
	if cfg.Particle.Vtotal < cfg.Particle.Vtang {
		t.Error("vtang cannot exceed vtotal")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := DefaultConfig()
	cfg.Trace.Phis = []float64{0.5, 1.5}
	cfg.Trace.MaxFlux = 0.95

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Mode != cfg.Mode {
		t.Errorf("mode %q, want %q", loaded.Mode, cfg.Mode)
	}
	if len(loaded.Trace.Phis) != 2 || loaded.Trace.Phis[1] != 1.5 {
		t.Errorf("phis %v, want %v", loaded.Trace.Phis, cfg.Trace.Phis)
	}
	if loaded.Trace.MaxFlux != 0.95 {
		t.Errorf("max flux %v, want 0.95", loaded.Trace.MaxFlux)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("gc-boozer", "trapped")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Trace.VPars) != 1 {
		t.Errorf("trapped preset should watch vpar=0, got %v", cfg.Trace.VPars)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("gc-boozer", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "trapped") != nil {
		t.Error("expected nil for nonexistent mode")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("gc-boozer")
	if len(presets) == 0 {
		t.Error("expected presets for gc-boozer")
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent mode")
	}
}

func TestBuildField(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := cfg.BuildField(); err == nil {
		t.Error("boozer config should not build a real-space field")
	}
	bf, err := cfg.BuildBoozerField()
	if err != nil {
		t.Fatalf("build boozer field: %v", err)
	}
	if b := bf.Sample(0.25, 0, 0); b.ModB <= 0 {
		t.Errorf("field strength %v, want positive", b.ModB)
	}

	cfg.Field.Type = "toroidal"
	if _, err := cfg.BuildField(); err != nil {
		t.Errorf("toroidal field should build: %v", err)
	}
	if _, err := cfg.BuildBoozerField(); err == nil {
		t.Error("toroidal config should not build a Boozer field")
	}
}

func TestOptionsCriteria(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Trace.MaxFlux = 0.95
	cfg.Trace.MinFlux = 0.05
	cfg.Trace.MaxTransits = 10

	opt := cfg.Options()
	if len(opt.Criteria) != 3 {
		t.Fatalf("got %d criteria, want 3", len(opt.Criteria))
	}

	// criteria must be rebuilt per call so stateful ones are never shared
	opt2 := cfg.Options()
	for i := range opt.Criteria {
		if opt.Criteria[i] == opt2.Criteria[i] {
			t.Fatal("criteria shared between option sets")
		}
	}
}
