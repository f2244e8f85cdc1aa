package sym

import (
	"fmt"
	"math"
	"strings"
)

// Valuation assigns a numeric value to each variable of an expression.
type Valuation map[*Var]float64

// Expr is a scalar symbolic expression.
type Expr interface {
	// Eval computes the numeric value under the given valuation.
	// Evaluating an unbound variable panics.
	Eval(v Valuation) float64
	// Diff returns the partial derivative with respect to x.
	Diff(x *Var) Expr
	String() string
}

// Const is a numeric literal.
type Const struct{ val float64 }

// Num wraps a float64 as an expression.
func Num(v float64) Expr { return Const{v} }

func (c Const) Eval(Valuation) float64 { return c.val }
func (c Const) Diff(*Var) Expr         { return Const{0} }
func (c Const) Value() float64         { return c.val }

func (c Const) String() string {
	return fmt.Sprintf("%g", c.val)
}

// ConstValue reports whether e is a constant and returns its value.
func ConstValue(e Expr) (float64, bool) {
	c, ok := e.(Const)
	if !ok {
		return 0, false
	}
	return c.val, true
}

func isZero(e Expr) bool {
	v, ok := ConstValue(e)
	return ok && v == 0
}

// Var is a free variable. Identity, not name, distinguishes variables.
type Var struct{ name string }

func NewVar(name string) *Var { return &Var{name: name} }

func (v *Var) Name() string { return v.name }

func (v *Var) Eval(val Valuation) float64 {
	x, ok := val[v]
	if !ok {
		panic("sym: unbound variable " + v.name)
	}
	return x
}

func (v *Var) Diff(x *Var) Expr {
	if v == x {
		return Const{1}
	}
	return Const{0}
}

func (v *Var) String() string { return v.name }

type addExpr struct{ terms []Expr }

// Add sums its arguments, flattening nested sums and folding constants.
func Add(terms ...Expr) Expr {
	out := make([]Expr, 0, len(terms))
	acc := 0.0
	for _, t := range terms {
		switch e := t.(type) {
		case Const:
			acc += e.val
		case addExpr:
			for _, s := range e.terms {
				if c, ok := s.(Const); ok {
					acc += c.val
				} else {
					out = append(out, s)
				}
			}
		default:
			out = append(out, t)
		}
	}
	if acc != 0 {
		out = append(out, Const{acc})
	}
	switch len(out) {
	case 0:
		return Const{0}
	case 1:
		return out[0]
	}
	return addExpr{terms: out}
}

// Sub returns a - b.
func Sub(a, b Expr) Expr { return Add(a, Neg(b)) }

// Neg returns -a.
func Neg(a Expr) Expr { return Mul(Const{-1}, a) }

func (a addExpr) Eval(v Valuation) float64 {
	sum := 0.0
	for _, t := range a.terms {
		sum += t.Eval(v)
	}
	return sum
}

func (a addExpr) Diff(x *Var) Expr {
	ds := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		ds[i] = t.Diff(x)
	}
	return Add(ds...)
}

func (a addExpr) String() string {
	parts := make([]string, len(a.terms))
	for i, t := range a.terms {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, " + ") + ")"
}

type mulExpr struct{ factors []Expr }

// Mul multiplies its arguments, flattening nested products and folding
// constants. A zero factor collapses the whole product.
func Mul(factors ...Expr) Expr {
	out := make([]Expr, 0, len(factors))
	acc := 1.0
	for _, f := range factors {
		switch e := f.(type) {
		case Const:
			acc *= e.val
		case mulExpr:
			for _, g := range e.factors {
				if c, ok := g.(Const); ok {
					acc *= c.val
				} else {
					out = append(out, g)
				}
			}
		default:
			out = append(out, f)
		}
	}
	if acc == 0 {
		return Const{0}
	}
	if acc != 1 {
		out = append([]Expr{Const{acc}}, out...)
	}
	switch len(out) {
	case 0:
		return Const{1}
	case 1:
		return out[0]
	}
	return mulExpr{factors: out}
}

// Div returns a / b.
func Div(a, b Expr) Expr { return Mul(a, Pow(b, -1)) }

func (m mulExpr) Eval(v Valuation) float64 {
	prod := 1.0
	for _, f := range m.factors {
		prod *= f.Eval(v)
	}
	return prod
}

// Product rule generalized to n factors.
func (m mulExpr) Diff(x *Var) Expr {
	terms := make([]Expr, 0, len(m.factors))
	for i := range m.factors {
		d := m.factors[i].Diff(x)
		if isZero(d) {
			continue
		}
		rest := make([]Expr, 0, len(m.factors))
		rest = append(rest, d)
		for j, f := range m.factors {
			if j != i {
				rest = append(rest, f)
			}
		}
		terms = append(terms, Mul(rest...))
	}
	return Add(terms...)
}

func (m mulExpr) String() string {
	parts := make([]string, len(m.factors))
	for i, f := range m.factors {
		parts[i] = f.String()
	}
	return "(" + strings.Join(parts, "*") + ")"
}

type powExpr struct {
	base Expr
	exp  float64
}

// Pow raises base to a constant exponent.
func Pow(base Expr, exp float64) Expr {
	if exp == 0 {
		return Const{1}
	}
	if exp == 1 {
		return base
	}
	if c, ok := ConstValue(base); ok {
		return Const{math.Pow(c, exp)}
	}
	return powExpr{base: base, exp: exp}
}

// Square returns a².
func Square(a Expr) Expr { return Pow(a, 2) }

func (p powExpr) Eval(v Valuation) float64 {
	return math.Pow(p.base.Eval(v), p.exp)
}

func (p powExpr) Diff(x *Var) Expr {
	d := p.base.Diff(x)
	if isZero(d) {
		return Const{0}
	}
	return Mul(Const{p.exp}, Pow(p.base, p.exp-1), d)
}

func (p powExpr) String() string {
	return fmt.Sprintf("%s^%g", p.base.String(), p.exp)
}

type unaryExpr struct {
	op  string
	arg Expr
}

func foldUnary(op string, arg Expr) Expr {
	if c, ok := ConstValue(arg); ok {
		return Const{evalUnary(op, c)}
	}
	return unaryExpr{op: op, arg: arg}
}

func evalUnary(op string, x float64) float64 {
	switch op {
	case "sin":
		return math.Sin(x)
	case "cos":
		return math.Cos(x)
	case "exp":
		return math.Exp(x)
	case "log":
		return math.Log(x)
	case "sqrt":
		return math.Sqrt(x)
	}
	panic("sym: unknown function " + op)
}

func Sin(a Expr) Expr  { return foldUnary("sin", a) }
func Cos(a Expr) Expr  { return foldUnary("cos", a) }
func Exp(a Expr) Expr  { return foldUnary("exp", a) }
func Log(a Expr) Expr  { return foldUnary("log", a) }
func Sqrt(a Expr) Expr { return foldUnary("sqrt", a) }

func (u unaryExpr) Eval(v Valuation) float64 {
	return evalUnary(u.op, u.arg.Eval(v))
}

func (u unaryExpr) Diff(x *Var) Expr {
	d := u.arg.Diff(x)
	if isZero(d) {
		return Const{0}
	}
	var outer Expr
	switch u.op {
	case "sin":
		outer = Cos(u.arg)
	case "cos":
		outer = Neg(Sin(u.arg))
	case "exp":
		outer = Exp(u.arg)
	case "log":
		outer = Pow(u.arg, -1)
	case "sqrt":
		outer = Mul(Const{0.5}, Pow(u.arg, -0.5))
	default:
		panic("sym: unknown function " + u.op)
	}
	return Mul(outer, d)
}

func (u unaryExpr) String() string {
	return u.op + "(" + u.arg.String() + ")"
}

// Dot returns the weighted sum Σ wᵢ·eᵢ. Weights and expressions must
// have equal length.
func Dot(w []float64, es []Expr) Expr {
	if len(w) != len(es) {
		panic(fmt.Sprintf("sym: Dot length mismatch (%d weights, %d expressions)", len(w), len(es)))
	}
	terms := make([]Expr, len(es))
	for i := range es {
		terms[i] = Mul(Const{w[i]}, es[i])
	}
	return Add(terms...)
}
