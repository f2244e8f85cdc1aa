package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Problem != "pendulum" {
		t.Errorf("expected problem pendulum, got %s", cfg.Problem)
	}
	if cfg.Intervals <= 0 {
		t.Error("intervals should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero intervals", func(c *Config) { c.Intervals = 0 }},
		{"unknown scheme", func(c *Config) { c.Scheme = "euler" }},
		{"unknown guess", func(c *Config) { c.Guess = "zeros" }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Problem = "double_integrator"
	cfg.Scheme = "hermite-simpson"
	cfg.Intervals = 40
	cfg.Backend = "pswarm"
	cfg.Seed = 99
	cfg.Options = map[string]any{"max_iter": 500}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Problem != cfg.Problem || loaded.Scheme != cfg.Scheme ||
		loaded.Intervals != cfg.Intervals || loaded.Backend != cfg.Backend ||
		loaded.Seed != cfg.Seed {
		t.Errorf("round trip mismatch: %+v vs %+v", loaded, cfg)
	}
	if loaded.Options["max_iter"] != 500 {
		t.Errorf("options did not survive round trip: %v", loaded.Options)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	partial := &Config{Problem: "min_effort"}
	if err := Save(path, partial); err != nil {
		t.Fatal(err)
	}
	// A zero intervals field in the file overwrites the default, which
	// Validate then rejects; callers load then validate.
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Problem != "min_effort" {
		t.Errorf("problem = %s, want min_effort", loaded.Problem)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("pendulum", "quick")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Scheme != "trapezoidal" {
		t.Errorf("expected trapezoidal, got %s", cfg.Scheme)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("pendulum", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "quick") != nil {
		t.Error("expected nil for nonexistent problem")
	}
}

func TestListPresets(t *testing.T) {
	if len(ListPresets("pendulum")) == 0 {
		t.Error("expected presets for pendulum")
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent problem")
	}
}

func TestSolverTranslation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "pswarm"
	cfg.GuessOpts.RandomFallback = 0

	s := cfg.Solver()
	if s.Backend != "pswarm" {
		t.Errorf("backend = %s, want pswarm", s.Backend)
	}
	if s.RandomFallback != DefaultRandomFallback {
		t.Errorf("fallback = %g, want default %g", s.RandomFallback, DefaultRandomFallback)
	}
}
