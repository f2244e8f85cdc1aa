package nlp

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/trajopt/internal/sym"
)

// AugLag is an augmented-Lagrangian solver. Equality constraints (and
// pinned variable bounds) enter the Lagrangian directly; inequalities
// use the clipped-multiplier formulation. The inner problem is solved
// by damped Newton steps with backtracking line search, using gradients
// and Hessians differentiated symbolically from the problem expressions.
// The returned iterate is projected into the variable box, so pinned
// bounds hold exactly in the result.
type AugLag struct{}

func (a *AugLag) Name() string    { return "auglag" }
func (a *AugLag) Available() bool { return true }

// gradEntry and hessEntry hold the structurally nonzero derivatives of
// one scalar function.
type gradEntry struct {
	i int
	e sym.Expr
}

type hessEntry struct {
	i, j int // j >= i
	e    sym.Expr
}

type compiled struct {
	expr sym.Expr
	grad []gradEntry
	hess []hessEntry
}

// compile differentiates e once and twice with respect to xs, dropping
// entries that fold to zero.
func compile(e sym.Expr, xs []*sym.Var) compiled {
	c := compiled{expr: e}
	for i, x := range xs {
		d := e.Diff(x)
		if v, ok := sym.ConstValue(d); ok && v == 0 {
			continue
		}
		c.grad = append(c.grad, gradEntry{i: i, e: d})
	}
	for _, g := range c.grad {
		for j := g.i; j < len(xs); j++ {
			d := g.e.Diff(xs[j])
			if v, ok := sym.ConstValue(d); ok && v == 0 {
				continue
			}
			c.hess = append(c.hess, hessEntry{i: g.i, j: j, e: d})
		}
	}
	return c
}

func (a *AugLag) Solve(p *Problem, options map[string]any) (*Result, error) {
	start := time.Now()
	if err := p.validate(); err != nil {
		return nil, err
	}

	opts := subOptions(options, a.Name())
	gtol := optFloat(opts, "tol", 1e-8)
	ctol := optFloat(opts, "constr_tol", 1e-8)
	maxOuter := optInt(opts, "max_iter", 60)
	maxInner := optInt(opts, "max_inner_iter", 150)
	rho := optFloat(opts, "penalty", 10)
	rhoMax := optFloat(opts, "penalty_max", 1e9)
	cb := iterCallback(options)

	n := len(p.X)
	obj := compile(p.F, p.X)

	// Canonical form: equalities h(x)=0, inequalities c(x)<=0. Pinned
	// and one-sided variable bounds join the respective sets so the
	// multiplier machinery covers them uniformly.
	var eqs, ineqs []compiled
	for i, g := range p.G {
		lb, ub := p.LBG[i], p.UBG[i]
		if lb == ub {
			eqs = append(eqs, compile(sym.Sub(g, sym.Num(lb)), p.X))
			continue
		}
		if !math.IsInf(ub, 1) {
			ineqs = append(ineqs, compile(sym.Sub(g, sym.Num(ub)), p.X))
		}
		if !math.IsInf(lb, -1) {
			ineqs = append(ineqs, compile(sym.Sub(sym.Num(lb), g), p.X))
		}
	}
	for i, xv := range p.X {
		lb, ub := p.LBX[i], p.UBX[i]
		if lb == ub {
			eqs = append(eqs, compile(sym.Sub(xv, sym.Num(lb)), p.X))
			continue
		}
		if !math.IsInf(ub, 1) {
			ineqs = append(ineqs, compile(sym.Sub(xv, sym.Num(ub)), p.X))
		}
		if !math.IsInf(lb, -1) {
			ineqs = append(ineqs, compile(sym.Sub(sym.Num(lb), xv), p.X))
		}
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = math.Min(math.Max(p.X0[i], p.LBX[i]), p.UBX[i])
	}
	lam := make([]float64, len(eqs))
	mu := make([]float64, len(ineqs))

	val := make(sym.Valuation, n)
	setVal := func(x []float64) {
		for i, v := range p.X {
			val[v] = x[i]
		}
	}

	alValue := func(x []float64) float64 {
		setVal(x)
		L := obj.expr.Eval(val)
		for i, h := range eqs {
			hv := h.expr.Eval(val)
			L += lam[i]*hv + 0.5*rho*hv*hv
		}
		for j, c := range ineqs {
			t := mu[j] + rho*c.expr.Eval(val)
			if t > 0 {
				L += (t*t - mu[j]*mu[j]) / (2 * rho)
			} else {
				L -= mu[j] * mu[j] / (2 * rho)
			}
		}
		return L
	}

	// alDerivs assembles the gradient and Hessian of the augmented
	// Lagrangian at x. Each term contributes w·∇f + its Hessian plus
	// the Gauss-Newton rank-one block rho·∇f∇fᵀ.
	grad := make([]float64, n)
	hess := make([][]float64, n)
	for i := range hess {
		hess[i] = make([]float64, n)
	}
	sparseIdx := make([]int, 0, n)
	sparseVal := make([]float64, 0, n)
	addTerm := func(f *compiled, w, quad float64) {
		sparseIdx = sparseIdx[:0]
		sparseVal = sparseVal[:0]
		for _, ge := range f.grad {
			v := ge.e.Eval(val)
			grad[ge.i] += w * v
			sparseIdx = append(sparseIdx, ge.i)
			sparseVal = append(sparseVal, v)
		}
		if w != 0 {
			for _, he := range f.hess {
				v := w * he.e.Eval(val)
				hess[he.i][he.j] += v
				if he.i != he.j {
					hess[he.j][he.i] += v
				}
			}
		}
		if quad != 0 {
			for a := range sparseIdx {
				for b := range sparseIdx {
					hess[sparseIdx[a]][sparseIdx[b]] += quad * sparseVal[a] * sparseVal[b]
				}
			}
		}
	}
	alDerivs := func(x []float64) {
		setVal(x)
		for i := range grad {
			grad[i] = 0
			for j := range hess[i] {
				hess[i][j] = 0
			}
		}
		addTerm(&obj, 1, 0)
		for i := range eqs {
			hv := eqs[i].expr.Eval(val)
			addTerm(&eqs[i], lam[i]+rho*hv, rho)
		}
		for j := range ineqs {
			t := mu[j] + rho*ineqs[j].expr.Eval(val)
			if t > 0 {
				addTerm(&ineqs[j], t, rho)
			}
		}
	}

	violation := func(x []float64) float64 {
		setVal(x)
		v := 0.0
		for i := range eqs {
			v = math.Max(v, math.Abs(eqs[i].expr.Eval(val)))
		}
		for j := range ineqs {
			v = math.Max(v, math.Max(0, ineqs[j].expr.Eval(val)))
		}
		return v
	}

	// Inner loop: minimize the augmented Lagrangian for fixed
	// multipliers and penalty.
	innerSolve := func() (iters int, gnorm float64, err error) {
		for k := 0; k < maxInner; k++ {
			alDerivs(x)
			gnorm = infNorm(grad)
			if gnorm <= gtol {
				return k, gnorm, nil
			}
			d := newtonDirection(hess, grad)
			slope := dot(grad, d)

			L0 := alValue(x)
			alpha := 1.0
			trial := make([]float64, n)
			for ; alpha > 1e-14; alpha /= 2 {
				for i := range trial {
					trial[i] = x[i] + alpha*d[i]
				}
				if alValue(trial) <= L0+1e-4*alpha*slope {
					break
				}
			}
			if alpha <= 1e-14 {
				// Stalled; hand control back to the outer loop.
				return k, gnorm, nil
			}
			copy(x, trial)
			if !finiteVec(x) {
				return k, gnorm, fmt.Errorf("%w at inner iteration %d", ErrNumericalFailure, k)
			}
		}
		return maxInner, gnorm, nil
	}

	status := "max_iterations"
	totalInner := 0
	outerDone := 0
	gnorm := math.Inf(1)
	viol := math.Inf(1)
	violPrev := math.Inf(1)

	for outer := 0; outer < maxOuter; outer++ {
		outerDone = outer + 1
		ii, gn, err := innerSolve()
		if err != nil {
			return nil, err
		}
		totalInner += ii
		gnorm = gn
		viol = violation(x)

		if cb != nil {
			setVal(x)
			cb(outer, obj.expr.Eval(val), viol, gnorm)
		}
		if viol <= ctol && gnorm <= gtol {
			status = "solved"
			break
		}

		setVal(x)
		for i := range eqs {
			lam[i] += rho * eqs[i].expr.Eval(val)
		}
		for j := range ineqs {
			mu[j] = math.Max(0, mu[j]+rho*ineqs[j].expr.Eval(val))
		}
		if viol > 0.25*violPrev && rho < rhoMax {
			rho = math.Min(rho*10, rhoMax)
		}
		violPrev = viol
	}

	// Bound terms are penalized during the iteration, so the final
	// iterate can sit a hair outside its box. Project it back before
	// reporting, which in particular makes pinned variables exact.
	for i := range x {
		x[i] = math.Min(math.Max(x[i], p.LBX[i]), p.UBX[i])
	}
	viol = violation(x)

	setVal(x)
	fval := obj.expr.Eval(val)
	if math.IsNaN(fval) || math.IsInf(fval, 0) {
		return nil, fmt.Errorf("%w in final objective", ErrNumericalFailure)
	}

	return &Result{
		X: x,
		Stats: map[string]any{
			"backend":              "auglag",
			"status":               status,
			"success":              status == "solved",
			"iterations":           outerDone,
			"inner_iterations":     totalInner,
			"objective":            fval,
			"constraint_violation": viol,
			"stationarity":         gnorm,
			"penalty":              rho,
			"solve_time_ms":        float64(time.Since(start).Microseconds()) / 1000.0,
		},
	}, nil
}

// newtonDirection solves (H + tau·I)d = -g, escalating the damping until
// the system solves and d is a descent direction. Falls back to steepest
// descent if damping alone cannot fix the system.
func newtonDirection(h [][]float64, g []float64) []float64 {
	n := len(g)
	a := make([][]float64, n)
	b := make([]float64, n)
	tau := 0.0
	for try := 0; try < 14; try++ {
		for i := range a {
			a[i] = make([]float64, n)
			copy(a[i], h[i])
			a[i][i] += tau
			b[i] = -g[i]
		}
		d, err := solveLinear(a, b)
		if err == nil && dot(d, g) < 0 && finiteVec(d) {
			return d
		}
		if tau == 0 {
			tau = 1e-6
		} else {
			tau *= 100
		}
	}
	d := make([]float64, n)
	for i := range d {
		d[i] = -g[i]
	}
	return d
}

func infNorm(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		m = math.Max(m, math.Abs(x))
	}
	return m
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
