package ocp

import "github.com/san-kum/trajopt/internal/sym"

// Dims carries the fixed sizes of a continuous-time problem.
type Dims struct {
	States          int
	Controls        int
	Parameters      int
	Multipliers     int
	PathConstraints int
}

// VariableBounds is the set of bounds a problem declares for its
// decision variables. Unset entries default to unbounded. InitialStates
// and FinalStates override States at the first and last grid point; nil
// means the interior bounds apply there too.
type VariableBounds struct {
	InitialTime   Bounds
	FinalTime     Bounds
	States        []Bounds
	InitialStates []Bounds
	FinalStates   []Bounds
	Controls      []Bounds
	Multipliers   []Bounds
	Parameters    []Bounds
}

// Problem is the continuous-time optimal-control problem a transcription
// discretizes. Implementations supply symbolic dynamics; costs and
// constraints are declared through the optional interfaces below.
type Problem interface {
	Name() string
	Dims() Dims
	Bounds() VariableBounds
	// Derive returns the symbolic state derivative dx/dt at one grid
	// point. lam holds the kinematic-constraint multipliers and p the
	// static parameters; both may be empty.
	Derive(x, u, lam, p []sym.Expr, t sym.Expr) []sym.Expr
}

// RunningCoster adds an integral cost term: the integrand is summed over
// the grid with the scheme's quadrature weights and scaled by duration.
type RunningCoster interface {
	RunningCost(x, u []sym.Expr, t sym.Expr) sym.Expr
}

// EndpointCoster adds a terminal cost evaluated at the trajectory
// endpoints.
type EndpointCoster interface {
	EndpointCost(x0, xf []sym.Expr, t0, tf sym.Expr) sym.Expr
}

// PathConstrainer declares algebraic path constraints enforced at every
// grid point. The returned bounds pair with the returned expressions
// elementwise; equal lower and upper bounds give equality constraints.
type PathConstrainer interface {
	PathConstraints(x, u []sym.Expr, t sym.Expr) ([]sym.Expr, []Bounds)
}

// KinematicConstrainer declares position-level constraint residuals,
// enforced only at the grid indices a scheme marks in its
// kinematic-constraint mask. The residual count must equal
// Dims().Multipliers.
type KinematicConstrainer interface {
	KinematicErrors(x []sym.Expr, t sym.Expr) []sym.Expr
}
