package config

var Presets = map[string]map[string]*Config{
	"pendulum": {
		"quick": {
			Problem: "pendulum", Scheme: "trapezoidal", Intervals: 20,
			Backend: DefaultBackend, Guess: "midpoint", Substeps: DefaultSubsteps,
		},
		"fine": {
			Problem: "pendulum", Scheme: "hermite-simpson", Intervals: 40,
			Backend: DefaultBackend, Guess: "midpoint", Substeps: 20,
		},
		"global": {
			Problem: "pendulum", Scheme: "trapezoidal", Intervals: 15,
			Backend: "pswarm", Guess: "random", Seed: 1, Substeps: DefaultSubsteps,
			GuessOpts: GuessConfig{RandomFallback: 5},
		},
	},
	"double_integrator": {
		"quick": {
			Problem: "double_integrator", Scheme: "trapezoidal", Intervals: 10,
			Backend: DefaultBackend, Guess: "midpoint", Substeps: DefaultSubsteps,
		},
		"fine": {
			Problem: "double_integrator", Scheme: "hermite-simpson", Intervals: 25,
			Backend: DefaultBackend, Guess: "midpoint", Substeps: 20,
		},
	},
	"min_effort": {
		"quick": {
			Problem: "min_effort", Scheme: "trapezoidal", Intervals: 5,
			Backend: DefaultBackend, Guess: "midpoint", Substeps: DefaultSubsteps,
		},
	},
}

func GetPreset(problem, preset string) *Config {
	problemPresets, ok := Presets[problem]
	if !ok {
		return nil
	}
	cfg, ok := problemPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(problem string) []string {
	problemPresets, ok := Presets[problem]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(problemPresets))
	for name := range problemPresets {
		names = append(names, name)
	}
	return names
}
