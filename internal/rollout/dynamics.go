package rollout

import (
	"fmt"

	"github.com/san-kum/trajopt/internal/ocp"
	"github.com/san-kum/trajopt/internal/sym"
)

// Dynamics is a numeric evaluator for a problem's state derivative.
// The symbolic graph is built once; Derive then rebinds the shared
// valuation, so evaluation allocates nothing beyond the output slice.
// Not safe for concurrent use.
type Dynamics struct {
	dims ocp.Dims

	xv, uv, lv, pv []*sym.Var
	tv             *sym.Var

	xdot []sym.Expr
	val  sym.Valuation
}

// NewDynamics compiles the problem's derivative function. Multipliers
// are held at zero: a rollout has no constraint forces of its own.
func NewDynamics(p ocp.Problem) *Dynamics {
	d := &Dynamics{dims: p.Dims(), val: sym.Valuation{}}

	vec := func(name string, n int) []*sym.Var {
		vs := make([]*sym.Var, n)
		for i := range vs {
			vs[i] = sym.NewVar(fmt.Sprintf("%s%d", name, i))
		}
		return vs
	}
	d.xv = vec("x", d.dims.States)
	d.uv = vec("u", d.dims.Controls)
	d.lv = vec("lam", d.dims.Multipliers)
	d.pv = vec("p", d.dims.Parameters)
	d.tv = sym.NewVar("t")

	exprs := func(vs []*sym.Var) []sym.Expr {
		es := make([]sym.Expr, len(vs))
		for i, v := range vs {
			es[i] = v
		}
		return es
	}
	d.xdot = p.Derive(exprs(d.xv), exprs(d.uv), exprs(d.lv), exprs(d.pv), d.tv)
	if len(d.xdot) != d.dims.States {
		panic(fmt.Sprintf("rollout: Derive returned %d derivatives for %d states", len(d.xdot), d.dims.States))
	}
	for _, v := range d.lv {
		d.val[v] = 0
	}
	return d
}

// Derive writes dx/dt into dst and returns it. dst must have length
// States.
func (d *Dynamics) Derive(dst, x, u, params []float64, t float64) []float64 {
	for i, v := range d.xv {
		d.val[v] = x[i]
	}
	for i, v := range d.uv {
		d.val[v] = u[i]
	}
	for i, v := range d.pv {
		d.val[v] = params[i]
	}
	d.val[d.tv] = t

	for i, e := range d.xdot {
		dst[i] = e.Eval(d.val)
	}
	return dst
}
