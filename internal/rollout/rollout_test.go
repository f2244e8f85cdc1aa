package rollout

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/trajopt/internal/ocp"
	"github.com/san-kum/trajopt/internal/sym"
)

// oscillator is dx = v, dv = -x: solution cos(t), -sin(t) from (1, 0).
type oscillator struct{}

func (oscillator) Name() string { return "oscillator" }
func (oscillator) Dims() ocp.Dims { return ocp.Dims{States: 2} }
func (oscillator) Bounds() ocp.VariableBounds { return ocp.VariableBounds{} }

func (oscillator) Derive(x, u, lam, p []sym.Expr, t sym.Expr) []sym.Expr {
	return []sym.Expr{x[1], sym.Neg(x[0])}
}

func TestSimulateAccuracy(t *testing.T) {
	times := make([]float64, 101)
	for i := range times {
		times[i] = float64(i) * 0.01
	}
	res, err := Simulate(oscillator{}, []float64{1, 0}, nil, nil, times, 1)
	if err != nil {
		t.Fatal(err)
	}
	last := len(times) - 1
	if got, want := res.States.At(0, last), math.Cos(1); math.Abs(got-want) > 1e-4 {
		t.Errorf("position = %.6f, want %.6f", got, want)
	}
	if got, want := res.States.At(1, last), -math.Sin(1); math.Abs(got-want) > 1e-4 {
		t.Errorf("velocity = %.6f, want %.6f", got, want)
	}
}

func TestSimulateSubstepsImproveAccuracy(t *testing.T) {
	times := []float64{0, 0.5, 1}
	coarse, err := Simulate(oscillator{}, []float64{1, 0}, nil, nil, times, 1)
	if err != nil {
		t.Fatal(err)
	}
	fine, err := Simulate(oscillator{}, []float64{1, 0}, nil, nil, times, 32)
	if err != nil {
		t.Fatal(err)
	}
	want := math.Cos(1)
	if errFine, errCoarse := math.Abs(fine.States.At(0, 2)-want), math.Abs(coarse.States.At(0, 2)-want); errFine >= errCoarse {
		t.Errorf("substeps did not help: fine error %g, coarse error %g", errFine, errCoarse)
	}
}

func TestSimulateDimensionChecks(t *testing.T) {
	if _, err := Simulate(oscillator{}, []float64{1}, nil, nil, []float64{0, 1}, 1); err == nil {
		t.Error("accepted wrong-size initial state")
	}
	if _, err := Simulate(oscillator{}, []float64{1, 0}, nil, nil, []float64{0}, 1); err == nil {
		t.Error("accepted single-point time vector")
	}
}

// blowup is dx = x^2 from x = 1: finite-time escape at t = 1.
type blowup struct{}

func (blowup) Name() string { return "blowup" }
func (blowup) Dims() ocp.Dims { return ocp.Dims{States: 1} }
func (blowup) Bounds() ocp.VariableBounds { return ocp.VariableBounds{} }

func (blowup) Derive(x, u, lam, p []sym.Expr, t sym.Expr) []sym.Expr {
	return []sym.Expr{sym.Square(x[0])}
}

func TestSimulateDetectsDivergence(t *testing.T) {
	times := []float64{0, 0.9, 0.99, 0.999, 1.1, 2}
	_, err := Simulate(blowup{}, []float64{1}, nil, nil, times, 50)
	if !errors.Is(err, ErrUnstable) {
		t.Fatalf("err = %v, want ErrUnstable", err)
	}
}

// driven is dx = u: tracks the control integral exactly under linear
// interpolation.
type driven struct{}

func (driven) Name() string { return "driven" }
func (driven) Dims() ocp.Dims { return ocp.Dims{States: 1, Controls: 1} }
func (driven) Bounds() ocp.VariableBounds { return ocp.VariableBounds{} }

func (driven) Derive(x, u, lam, p []sym.Expr, t sym.Expr) []sym.Expr {
	return []sym.Expr{u[0]}
}

func TestVerifyConsistentSolution(t *testing.T) {
	// Exact trajectory of dx = u with u(t) = t: x(t) = t^2/2.
	times := []float64{0, 0.25, 0.5, 0.75, 1}
	states := ocp.NewMatrix[float64](1, len(times))
	controls := ocp.NewMatrix[float64](1, len(times))
	for c, tv := range times {
		states.Set(0, c, tv*tv/2)
		controls.Set(0, c, tv)
	}
	sol := &ocp.Solution{Iterate: ocp.Iterate{
		Variables: ocp.Variables[float64]{ocp.States: states, ocp.Controls: controls},
		Times:     times,
	}}

	rep, err := Verify(driven{}, sol, 8)
	if err != nil {
		t.Fatal(err)
	}
	if rep.MaxStateError[0] > 1e-6 {
		t.Errorf("max state error = %g on an exact trajectory", rep.MaxStateError[0])
	}
	if math.Abs(rep.FinalStateError[0]) > 1e-6 {
		t.Errorf("final state error = %g on an exact trajectory", rep.FinalStateError[0])
	}
}

func TestVerifyRejectsMismatchedSolution(t *testing.T) {
	sol := &ocp.Solution{Iterate: ocp.Iterate{
		Variables: ocp.Variables[float64]{ocp.States: ocp.NewMatrix[float64](1, 3)},
		Times:     []float64{0, 1},
	}}
	if _, err := Verify(driven{}, sol, 1); err == nil {
		t.Error("accepted states/times mismatch")
	}
}
