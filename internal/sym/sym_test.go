package sym

import (
	"math"
	"testing"
)

func TestEvalArithmetic(t *testing.T) {
	x := NewVar("x")
	y := NewVar("y")

	f := Add(Mul(Num(2), x), Square(y), Num(1))
	got := f.Eval(Valuation{x: 3, y: 4})

	if got != 23 {
		t.Errorf("expected 23, got %f", got)
	}
}

func TestConstantFolding(t *testing.T) {
	f := Add(Num(1), Num(2), Mul(Num(3), Num(4)))
	c, ok := ConstValue(f)
	if !ok {
		t.Fatal("expected a folded constant")
	}
	if c != 15 {
		t.Errorf("expected 15, got %f", c)
	}

	x := NewVar("x")
	if _, ok := ConstValue(Mul(Num(0), x)); !ok {
		t.Error("zero factor should collapse the product")
	}
}

func TestDivAndPow(t *testing.T) {
	x := NewVar("x")
	f := Div(Num(1), x)
	got := f.Eval(Valuation{x: 4})
	if math.Abs(got-0.25) > 1e-15 {
		t.Errorf("expected 0.25, got %f", got)
	}

	g := Pow(x, 3)
	if got := g.Eval(Valuation{x: 2}); got != 8 {
		t.Errorf("expected 8, got %f", got)
	}
}

func TestUnaryFunctions(t *testing.T) {
	x := NewVar("x")
	v := Valuation{x: 0.7}

	cases := []struct {
		f    Expr
		want float64
	}{
		{Sin(x), math.Sin(0.7)},
		{Cos(x), math.Cos(0.7)},
		{Exp(x), math.Exp(0.7)},
		{Log(x), math.Log(0.7)},
		{Sqrt(x), math.Sqrt(0.7)},
	}
	for _, c := range cases {
		if got := c.f.Eval(v); math.Abs(got-c.want) > 1e-15 {
			t.Errorf("%s: expected %f, got %f", c.f, c.want, got)
		}
	}
}

func TestUnboundVariablePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unbound variable")
		}
	}()
	x := NewVar("x")
	x.Eval(Valuation{})
}

func TestVarIdentity(t *testing.T) {
	a := NewVar("x")
	b := NewVar("x")
	f := Sub(a, b)
	if got := f.Eval(Valuation{a: 5, b: 3}); got != 2 {
		t.Errorf("same-named variables should stay distinct, got %f", got)
	}
}

func TestDot(t *testing.T) {
	x := NewVar("x")
	y := NewVar("y")
	f := Dot([]float64{0.5, 0.5}, []Expr{x, y})
	if got := f.Eval(Valuation{x: 2, y: 4}); got != 3 {
		t.Errorf("expected 3, got %f", got)
	}
}

func TestDotLengthMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for mismatched lengths")
		}
	}()
	Dot([]float64{1}, []Expr{})
}
