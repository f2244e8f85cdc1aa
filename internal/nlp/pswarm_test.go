package nlp

import (
	"math"
	"testing"

	"github.com/san-kum/trajopt/internal/sym"
)

func TestPSwarmBoundConstrainedQuadratic(t *testing.T) {
	x := sym.NewVar("x")
	y := sym.NewVar("y")
	// min (x-1)² + (y-2)² over [-5,5]²
	p := &Problem{
		X:   []*sym.Var{x, y},
		F:   sym.Add(sym.Square(sym.Sub(x, sym.Num(1))), sym.Square(sym.Sub(y, sym.Num(2)))),
		X0:  []float64{-4, -4},
		LBX: []float64{-5, -5},
		UBX: []float64{5, 5},
	}
	opts := map[string]any{
		"pswarm": map[string]any{"seed": int64(7), "max_iter": 400},
	}
	// Nest manually: plugin options empty would drop the algorithm map.
	res, err := (&PSwarm{}).Solve(p, opts)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if math.Abs(res.X[0]-1) > 1e-2 || math.Abs(res.X[1]-2) > 1e-2 {
		t.Errorf("expected about (1, 2), got (%f, %f)", res.X[0], res.X[1])
	}
}

func TestPSwarmDeterministicUnderSeed(t *testing.T) {
	build := func() *Problem {
		x := sym.NewVar("x")
		return &Problem{
			X:   []*sym.Var{x},
			F:   sym.Square(sym.Sub(x, sym.Num(0.5))),
			X0:  []float64{0},
			LBX: []float64{-1},
			UBX: []float64{1},
		}
	}
	opts := map[string]any{"pswarm": map[string]any{"seed": int64(3), "max_iter": 50}}

	a, err := (&PSwarm{}).Solve(build(), opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := (&PSwarm{}).Solve(build(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if a.X[0] != b.X[0] {
		t.Errorf("same seed should reproduce the same result: %f vs %f", a.X[0], b.X[0])
	}
}

func TestPSwarmReportsViolation(t *testing.T) {
	x := sym.NewVar("x")
	p := &Problem{
		X:   []*sym.Var{x},
		F:   sym.Square(x),
		G:   []sym.Expr{x},
		X0:  []float64{0},
		LBX: []float64{-2},
		UBX: []float64{2},
		LBG: []float64{1}, UBG: []float64{1},
	}
	opts := map[string]any{"pswarm": map[string]any{"seed": int64(1), "max_iter": 300}}

	res, err := (&PSwarm{}).Solve(p, opts)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	// Penalized swarm should land near the constrained optimum x = 1.
	if math.Abs(res.X[0]-1) > 0.05 {
		t.Errorf("expected about 1, got %f", res.X[0])
	}
	if _, ok := res.Stats["constraint_violation"]; !ok {
		t.Error("stats should report constraint violation")
	}
}
