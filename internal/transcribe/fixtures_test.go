package transcribe

import (
	"github.com/san-kum/trajopt/internal/ocp"
	"github.com/san-kum/trajopt/internal/sym"
)

// testProblem is a double integrator with pinned endpoints, small
// enough to reason about by hand.
type testProblem struct{}

func (testProblem) Name() string { return "test_problem" }

func (testProblem) Dims() ocp.Dims { return ocp.Dims{States: 2, Controls: 1} }

func (testProblem) Bounds() ocp.VariableBounds {
	return ocp.VariableBounds{
		InitialTime:   ocp.Exact(0),
		FinalTime:     ocp.Exact(1),
		States:        []ocp.Bounds{ocp.NewBounds(-4, 4), {}},
		InitialStates: []ocp.Bounds{ocp.Exact(0), ocp.Exact(0)},
		FinalStates:   []ocp.Bounds{ocp.Exact(1), ocp.Exact(0)},
		Controls:      []ocp.Bounds{ocp.NewBounds(-8, 8)},
	}
}

func (testProblem) Derive(x, u, lam, p []sym.Expr, t sym.Expr) []sym.Expr {
	return []sym.Expr{x[1], u[0]}
}

func (testProblem) RunningCost(x, u []sym.Expr, t sym.Expr) sym.Expr {
	return sym.Square(u[0])
}

// testScheme is a minimal trapezoid-flavored scheme over the core.
type testScheme struct {
	core  *Transcription
	quad  []float64
	mask  []float64
	apply func(tr *Transcription) error
}

func newTestScheme(numGridPoints int) *testScheme {
	tr := New(DefaultSolver(), testProblem{}, ocp.UniformGrid(numGridPoints))
	quad := make([]float64, numGridPoints)
	mask := make([]float64, numGridPoints)
	h := 1.0 / float64(numGridPoints-1)
	for i := range quad {
		quad[i] = h
		mask[i] = 1
	}
	quad[0], quad[numGridPoints-1] = h/2, h/2
	return &testScheme{core: tr, quad: quad, mask: mask}
}

func (s *testScheme) Core() *Transcription                  { return s.core }
func (s *testScheme) QuadratureCoefficients() []float64     { return s.quad }
func (s *testScheme) KinematicConstraintIndices() []float64 { return s.mask }

func (s *testScheme) ApplyConstraints() error {
	if s.apply != nil {
		return s.apply(s.core)
	}
	return nil
}
