package problems

import (
	"math"

	"github.com/san-kum/trajopt/internal/ocp"
	"github.com/san-kum/trajopt/internal/sym"
)

// Pendulum is a torque-limited swing-up: bring the pendulum from
// hanging rest (θ=0) to upright rest (θ=π) in fixed time while
// minimizing control effort. The torque limit is tight enough that the
// solution has to work against gravity rather than slam through it.
type Pendulum struct {
	Mass      float64
	Length    float64
	Damping   float64
	Gravity   float64
	MaxTorque float64
	Horizon   float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Mass:      1.0,
		Length:    1.0,
		Damping:   0.1,
		Gravity:   9.81,
		MaxTorque: 8.0,
		Horizon:   3.0,
	}
}

func (p *Pendulum) Name() string { return "pendulum" }

func (p *Pendulum) Dims() ocp.Dims {
	return ocp.Dims{States: 2, Controls: 1}
}

func (p *Pendulum) Bounds() ocp.VariableBounds {
	return ocp.VariableBounds{
		InitialTime:   ocp.Exact(0),
		FinalTime:     ocp.Exact(p.Horizon),
		States:        []ocp.Bounds{ocp.NewBounds(-2*math.Pi, 2*math.Pi), ocp.NewBounds(-12, 12)},
		InitialStates: []ocp.Bounds{ocp.Exact(0), ocp.Exact(0)},
		FinalStates:   []ocp.Bounds{ocp.Exact(math.Pi), ocp.Exact(0)},
		Controls:      []ocp.Bounds{ocp.NewBounds(-p.MaxTorque, p.MaxTorque)},
	}
}

func (p *Pendulum) Derive(x, u, lam, par []sym.Expr, t sym.Expr) []sym.Expr {
	theta := x[0]
	omega := x[1]
	torque := u[0]

	inertia := p.Mass * p.Length * p.Length
	alpha := sym.Div(
		sym.Add(
			torque,
			sym.Mul(sym.Num(-p.Damping), omega),
			sym.Mul(sym.Num(-p.Mass*p.Gravity*p.Length), sym.Sin(theta))),
		sym.Num(inertia))

	return []sym.Expr{omega, alpha}
}

func (p *Pendulum) RunningCost(x, u []sym.Expr, t sym.Expr) sym.Expr {
	return sym.Square(u[0])
}
