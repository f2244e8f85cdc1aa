package schemes

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/trajopt/internal/nlp"
	"github.com/san-kum/trajopt/internal/ocp"
	"github.com/san-kum/trajopt/internal/problems"
	"github.com/san-kum/trajopt/internal/transcribe"
)

func sum(w []float64) float64 {
	s := 0.0
	for _, v := range w {
		s += v
	}
	return s
}

func TestTrapezoidalQuadratureSumsToOne(t *testing.T) {
	for _, intervals := range []int{1, 2, 5, 17} {
		s, err := NewTrapezoidal(transcribe.DefaultSolver(), problems.NewMinEffort(), intervals)
		if err != nil {
			t.Fatalf("intervals=%d: %v", intervals, err)
		}
		w := s.QuadratureCoefficients()
		if len(w) != intervals+1 {
			t.Errorf("intervals=%d: %d weights, want %d", intervals, len(w), intervals+1)
		}
		if got := sum(w); math.Abs(got-1) > 1e-12 {
			t.Errorf("intervals=%d: weights sum to %g, want 1", intervals, got)
		}
	}
}

func TestHermiteSimpsonQuadratureSumsToOne(t *testing.T) {
	for _, intervals := range []int{1, 3, 8} {
		s, err := NewHermiteSimpson(transcribe.DefaultSolver(), problems.NewMinEffort(), intervals)
		if err != nil {
			t.Fatalf("intervals=%d: %v", intervals, err)
		}
		w := s.QuadratureCoefficients()
		if len(w) != 2*intervals+1 {
			t.Errorf("intervals=%d: %d weights, want %d", intervals, len(w), 2*intervals+1)
		}
		if got := sum(w); math.Abs(got-1) > 1e-12 {
			t.Errorf("intervals=%d: weights sum to %g, want 1", intervals, got)
		}
	}
}

func TestTrapezoidalMaskMarksEveryPoint(t *testing.T) {
	s, err := NewTrapezoidal(transcribe.DefaultSolver(), problems.NewMinEffort(), 4)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range s.KinematicConstraintIndices() {
		if v != 1 {
			t.Errorf("mask[%d] = %g, want 1", i, v)
		}
	}
}

func TestHermiteSimpsonMaskSkipsMidpoints(t *testing.T) {
	s, err := NewHermiteSimpson(transcribe.DefaultSolver(), problems.NewMinEffort(), 3)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range s.KinematicConstraintIndices() {
		want := 0.0
		if i%2 == 0 {
			want = 1
		}
		if v != want {
			t.Errorf("mask[%d] = %g, want %g", i, v, want)
		}
	}
}

func TestInvalidIntervalCounts(t *testing.T) {
	if _, err := NewTrapezoidal(transcribe.DefaultSolver(), problems.NewMinEffort(), 0); err == nil {
		t.Error("trapezoidal accepted zero intervals")
	}
	if _, err := NewHermiteSimpson(transcribe.DefaultSolver(), problems.NewMinEffort(), 0); err == nil {
		t.Error("hermite-simpson accepted zero intervals")
	}
}

// Minimum-effort transfer of dx = u from 0 to 1 over a unit horizon has
// the constant optimum u = 1 with cost 1.
func TestTrapezoidalMinEffort(t *testing.T) {
	s, err := NewTrapezoidal(transcribe.DefaultSolver(), problems.NewMinEffort(), 2)
	if err != nil {
		t.Fatal(err)
	}
	tr := s.Core()
	sol, err := tr.Solve(tr.CreateInitialGuessFromBounds())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Stats["success"] != true {
		t.Fatalf("solve did not converge: %v", sol.Stats)
	}

	u := sol.Variables[ocp.Controls]
	for c := 0; c < u.Cols(); c++ {
		if got := u.At(0, c); math.Abs(got-1) > 1e-4 {
			t.Errorf("u[%d] = %g, want 1 within 1e-4", c, got)
		}
	}
	if obj, ok := sol.Stats["objective"].(float64); !ok || math.Abs(obj-1) > 1e-4 {
		t.Errorf("objective = %v, want 1 within 1e-4", sol.Stats["objective"])
	}
	if got := sol.Times[0]; got != 0 {
		t.Errorf("t0 = %g, want 0", got)
	}
	if got := sol.Times[len(sol.Times)-1]; math.Abs(got-1) > 1e-9 {
		t.Errorf("tf = %g, want 1", got)
	}
}

func TestHermiteSimpsonMinEffort(t *testing.T) {
	s, err := NewHermiteSimpson(transcribe.DefaultSolver(), problems.NewMinEffort(), 2)
	if err != nil {
		t.Fatal(err)
	}
	tr := s.Core()
	sol, err := tr.Solve(tr.CreateInitialGuessFromBounds())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Stats["success"] != true {
		t.Fatalf("solve did not converge: %v", sol.Stats)
	}
	u := sol.Variables[ocp.Controls]
	for c := 0; c < u.Cols(); c++ {
		if got := u.At(0, c); math.Abs(got-1) > 1e-4 {
			t.Errorf("u[%d] = %g, want 1 within 1e-4", c, got)
		}
	}
}

// The defect structure must hit the boundary conditions exactly even on
// a richer problem: rest-to-rest double-integrator transfer.
func TestTrapezoidalDoubleIntegratorBoundaries(t *testing.T) {
	s, err := NewTrapezoidal(transcribe.DefaultSolver(), problems.NewDoubleIntegrator(), 10)
	if err != nil {
		t.Fatal(err)
	}
	tr := s.Core()
	sol, err := tr.Solve(tr.CreateInitialGuessFromBounds())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Stats["success"] != true {
		t.Fatalf("solve did not converge: %v", sol.Stats)
	}

	x := sol.Variables[ocp.States]
	n := x.Cols()
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"x(0)", x.At(0, 0), 0},
		{"v(0)", x.At(1, 0), 0},
		{"x(tf)", x.At(0, n-1), 1},
		{"v(tf)", x.At(1, n-1), 0},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-6 {
			t.Errorf("%s = %g, want %g", c.name, c.got, c.want)
		}
	}
	// Analytic optimum of the minimum-effort rest-to-rest transfer.
	if obj, ok := sol.Stats["objective"].(float64); !ok || math.Abs(obj-12) > 0.5 {
		t.Errorf("objective = %v, want near 12", sol.Stats["objective"])
	}
}

type crossedBounds struct{ *problems.MinEffort }

func (c crossedBounds) Bounds() ocp.VariableBounds {
	vb := c.MinEffort.Bounds()
	vb.Controls = []ocp.Bounds{ocp.NewBounds(5, -5)}
	return vb
}

func TestInfeasibleBoundsFailFast(t *testing.T) {
	s, err := NewTrapezoidal(transcribe.DefaultSolver(), crossedBounds{problems.NewMinEffort()}, 2)
	if err != nil {
		t.Fatal(err)
	}
	tr := s.Core()
	_, err = tr.Solve(tr.CreateInitialGuessFromBounds())
	if !errors.Is(err, transcribe.ErrBackend) {
		t.Fatalf("err = %v, want ErrBackend", err)
	}
	if !errors.Is(err, nlp.ErrInfeasibleBounds) {
		t.Fatalf("err = %v, want wrapped ErrInfeasibleBounds", err)
	}
}

// Trapezoid defects evaluated on an exact linear trajectory of the
// min-effort system vanish identically.
func TestTrapezoidalDefectsVanishOnExactTrajectory(t *testing.T) {
	s, err := NewTrapezoidal(transcribe.DefaultSolver(), problems.NewMinEffort(), 3)
	if err != nil {
		t.Fatal(err)
	}
	tr := s.Core()

	grid := tr.Grid()
	it := tr.CreateInitialGuessFromBounds()
	// x(t) = t, u = 1 solves dx = u with the pinned endpoints.
	for c := range grid {
		it.Variables[ocp.States].Set(0, c, grid[c])
		it.Variables[ocp.Controls].Set(0, c, 1)
	}
	sol, err := tr.Solve(it)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if viol, ok := sol.Stats["constraint_violation"].(float64); !ok || viol > 1e-8 {
		t.Errorf("constraint violation = %v, want <= 1e-8", sol.Stats["constraint_violation"])
	}
}
