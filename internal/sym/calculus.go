package sym

// Gradient differentiates f with respect to each variable in xs.
func Gradient(f Expr, xs []*Var) []Expr {
	g := make([]Expr, len(xs))
	for i, x := range xs {
		g[i] = f.Diff(x)
	}
	return g
}

// Hessian returns the matrix of second partial derivatives of f. Only
// the upper triangle is differentiated; the lower is mirrored.
func Hessian(f Expr, xs []*Var) [][]Expr {
	n := len(xs)
	g := Gradient(f, xs)
	h := make([][]Expr, n)
	for i := range h {
		h[i] = make([]Expr, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			h[i][j] = g[i].Diff(xs[j])
			h[j][i] = h[i][j]
		}
	}
	return h
}

// EvalVec evaluates each expression under the same valuation.
func EvalVec(es []Expr, v Valuation) []float64 {
	out := make([]float64, len(es))
	for i, e := range es {
		out[i] = e.Eval(v)
	}
	return out
}

// Vars wraps a slice of variables as expressions.
func Vars(xs []*Var) []Expr {
	es := make([]Expr, len(xs))
	for i, x := range xs {
		es[i] = x
	}
	return es
}
