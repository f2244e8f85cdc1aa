package problems

import (
	"github.com/san-kum/trajopt/internal/ocp"
	"github.com/san-kum/trajopt/internal/sym"
)

// DoubleIntegrator is the rest-to-rest transfer of a unit point mass:
// ẋ = v, v̇ = u, from (0,0) to (1,0) over a unit horizon, minimizing
// ∫u² dt. The analytic optimum is u(t) = 6 - 12t with cost 12.
type DoubleIntegrator struct{}

func NewDoubleIntegrator() *DoubleIntegrator { return &DoubleIntegrator{} }

func (d *DoubleIntegrator) Name() string { return "double_integrator" }

func (d *DoubleIntegrator) Dims() ocp.Dims {
	return ocp.Dims{States: 2, Controls: 1}
}

func (d *DoubleIntegrator) Bounds() ocp.VariableBounds {
	return ocp.VariableBounds{
		InitialTime:   ocp.Exact(0),
		FinalTime:     ocp.Exact(1),
		States:        []ocp.Bounds{ocp.NewBounds(-10, 10), ocp.NewBounds(-10, 10)},
		InitialStates: []ocp.Bounds{ocp.Exact(0), ocp.Exact(0)},
		FinalStates:   []ocp.Bounds{ocp.Exact(1), ocp.Exact(0)},
		Controls:      []ocp.Bounds{ocp.NewBounds(-24, 24)},
	}
}

func (d *DoubleIntegrator) Derive(x, u, lam, p []sym.Expr, t sym.Expr) []sym.Expr {
	return []sym.Expr{x[1], u[0]}
}

func (d *DoubleIntegrator) RunningCost(x, u []sym.Expr, t sym.Expr) sym.Expr {
	return sym.Square(u[0])
}
