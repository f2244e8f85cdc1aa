package problems

import (
	"fmt"
	"sort"

	"github.com/san-kum/trajopt/internal/ocp"
)

var registry = map[string]func() ocp.Problem{
	"min_effort":        func() ocp.Problem { return NewMinEffort() },
	"double_integrator": func() ocp.Problem { return NewDoubleIntegrator() },
	"pendulum":          func() ocp.Problem { return NewPendulum() },
}

// Get builds a fresh problem by name.
func Get(name string) (ocp.Problem, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("problems: unknown problem: %s", name)
	}
	return fn(), nil
}

// List returns the registered problem names, sorted.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
