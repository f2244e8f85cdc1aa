package nlp

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/trajopt/internal/sym"
)

// Problem is an assembled nonlinear program
//
//	minimize    F(X)
//	subject to  LBG <= G(X) <= UBG
//	            LBX <=   X  <= UBX
//
// over the symbolic decision variables X. X0 is the starting point. All
// slices paired with X or G must have matching lengths.
type Problem struct {
	X  []*sym.Var
	F  sym.Expr
	G  []sym.Expr
	X0 []float64

	LBX, UBX []float64
	LBG, UBG []float64
}

// Result is the outcome of one backend invocation. Stats are the
// backend's raw diagnostics, passed through uninterpreted.
type Result struct {
	X     []float64
	Stats map[string]any
}

// IterFunc observes solver progress. Deliverable through the "iter_callback"
// plugin option; backends that iterate call it once per major iteration.
type IterFunc func(iter int, objective, violation, stationarity float64)

// Backend solves assembled problems. Implementations must be safe to
// reuse across solves.
type Backend interface {
	Name() string
	Available() bool
	Solve(p *Problem, options map[string]any) (*Result, error)
}

var backends = map[string]Backend{}

// Register adds a backend to the registry, replacing any previous entry
// with the same name.
func Register(b Backend) {
	backends[b.Name()] = b
}

// Get looks a backend up by name.
func Get(name string) (Backend, error) {
	b, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, name)
	}
	return b, nil
}

// List returns the registered backend names, sorted.
func List() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(&AugLag{})
	Register(&PSwarm{})
}

// MergeOptions combines plugin-level options with backend algorithm
// options. The algorithm options are nested under the backend name only
// when plugin options are present.
func MergeOptions(backend string, plugin, algorithm map[string]any) map[string]any {
	merged := make(map[string]any, len(plugin)+1)
	for k, v := range plugin {
		merged[k] = v
	}
	if len(plugin) > 0 {
		merged[backend] = algorithm
	}
	return merged
}

// validate checks the problem's vector lengths and bound consistency.
func (p *Problem) validate() error {
	n := len(p.X)
	if len(p.X0) != n || len(p.LBX) != n || len(p.UBX) != n {
		return fmt.Errorf("%w: %d variables, x0=%d lbx=%d ubx=%d",
			ErrDimensionMismatch, n, len(p.X0), len(p.LBX), len(p.UBX))
	}
	m := len(p.G)
	if len(p.LBG) != m || len(p.UBG) != m {
		return fmt.Errorf("%w: %d constraints, lbg=%d ubg=%d",
			ErrDimensionMismatch, m, len(p.LBG), len(p.UBG))
	}
	if p.F == nil {
		return fmt.Errorf("%w: missing objective", ErrDimensionMismatch)
	}
	for i := 0; i < n; i++ {
		if p.LBX[i] > p.UBX[i] {
			return fmt.Errorf("%w: variable %d (%s): %g > %g",
				ErrInfeasibleBounds, i, p.X[i].Name(), p.LBX[i], p.UBX[i])
		}
	}
	for i := 0; i < m; i++ {
		if p.LBG[i] > p.UBG[i] {
			return fmt.Errorf("%w: constraint %d: %g > %g",
				ErrInfeasibleBounds, i, p.LBG[i], p.UBG[i])
		}
	}
	return nil
}

// Option lookup helpers shared by the backends. Algorithm options live
// in a map nested under the backend's name; see MergeOptions.

func subOptions(options map[string]any, key string) map[string]any {
	if options == nil {
		return nil
	}
	if m, ok := options[key].(map[string]any); ok {
		return m
	}
	return nil
}

func optFloat(m map[string]any, key string, def float64) float64 {
	if m == nil {
		return def
	}
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

func optInt(m map[string]any, key string, def int) int {
	if m == nil {
		return def
	}
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

func optInt64(m map[string]any, key string, def int64) int64 {
	if m == nil {
		return def
	}
	switch v := m[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return def
}

func iterCallback(options map[string]any) IterFunc {
	if options == nil {
		return nil
	}
	if f, ok := options["iter_callback"].(IterFunc); ok {
		return f
	}
	return nil
}

func finiteVec(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
