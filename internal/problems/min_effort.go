package problems

import (
	"github.com/san-kum/trajopt/internal/ocp"
	"github.com/san-kum/trajopt/internal/sym"
)

// MinEffort is the smallest nontrivial problem: drive x from 0 to 1
// over a unit horizon with dx/dt = u, minimizing the control energy
// ∫u² dt. The optimum is the constant control u = 1 with cost 1, which
// makes it a convenient transcription check.
type MinEffort struct{}

func NewMinEffort() *MinEffort { return &MinEffort{} }

func (m *MinEffort) Name() string { return "min_effort" }

func (m *MinEffort) Dims() ocp.Dims {
	return ocp.Dims{States: 1, Controls: 1}
}

func (m *MinEffort) Bounds() ocp.VariableBounds {
	return ocp.VariableBounds{
		InitialTime:   ocp.Exact(0),
		FinalTime:     ocp.Exact(1),
		States:        []ocp.Bounds{{}},
		InitialStates: []ocp.Bounds{ocp.Exact(0)},
		FinalStates:   []ocp.Bounds{ocp.Exact(1)},
		Controls:      []ocp.Bounds{{}},
	}
}

func (m *MinEffort) Derive(x, u, lam, p []sym.Expr, t sym.Expr) []sym.Expr {
	return []sym.Expr{u[0]}
}

func (m *MinEffort) RunningCost(x, u []sym.Expr, t sym.Expr) sym.Expr {
	return sym.Square(u[0])
}
