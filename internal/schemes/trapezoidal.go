package schemes

import (
	"fmt"

	"github.com/san-kum/trajopt/internal/ocp"
	"github.com/san-kum/trajopt/internal/sym"
	"github.com/san-kum/trajopt/internal/transcribe"
)

// Trapezoidal transcribes with states and controls on mesh points and
// trapezoid-rule defects between neighbours.
type Trapezoidal struct {
	core *transcribe.Transcription
}

// NewTrapezoidal builds and transcribes a trapezoidal scheme over a
// uniform mesh of numIntervals intervals.
func NewTrapezoidal(solver transcribe.Solver, problem ocp.Problem, numIntervals int) (*Trapezoidal, error) {
	if numIntervals < 1 {
		return nil, fmt.Errorf("schemes: trapezoidal needs at least one mesh interval, got %d", numIntervals)
	}
	grid := ocp.UniformGrid(numIntervals + 1)
	t := &Trapezoidal{core: transcribe.New(solver, problem, grid)}
	if err := transcribe.Transcribe(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Trapezoidal) Core() *transcribe.Transcription { return t.core }

// QuadratureCoefficients spreads each interval's length over its two
// endpoints; the weights sum to the grid span, 1.
func (t *Trapezoidal) QuadratureCoefficients() []float64 {
	grid := t.core.Grid()
	w := make([]float64, len(grid))
	for i := 0; i < len(grid)-1; i++ {
		half := (grid[i+1] - grid[i]) / 2
		w[i] += half
		w[i+1] += half
	}
	return w
}

// KinematicConstraintIndices marks every grid point: all points are
// mesh points here.
func (t *Trapezoidal) KinematicConstraintIndices() []float64 {
	mask := make([]float64, t.core.NumGridPoints())
	for i := range mask {
		mask[i] = 1
	}
	return mask
}

// ApplyConstraints accumulates the standard costs and constraints, then
// the trapezoidal defects
//
//	x[i+1] - x[i] - h/2·(f[i] + f[i+1]) = 0.
func (t *Trapezoidal) ApplyConstraints() error {
	tr := t.core
	tr.ApplyStandardCosts()
	tr.ApplyPathConstraints()
	tr.ApplyKinematicConstraints()

	n := tr.NumGridPoints()
	grid := tr.Grid()
	ns := tr.Problem().Dims().States

	xdot := make([][]sym.Expr, n)
	for i := 0; i < n; i++ {
		xdot[i], _ = tr.CalcDAE(i, 0)
	}

	for i := 0; i < n-1; i++ {
		h := sym.Mul(sym.Num(grid[i+1]-grid[i]), tr.Duration())
		xi := tr.StateVars(i)
		xn := tr.StateVars(i + 1)
		defects := make([]sym.Expr, ns)
		for k := 0; k < ns; k++ {
			step := sym.Mul(sym.Num(0.5), h, sym.Add(xdot[i][k], xdot[i+1][k]))
			defects[k] = sym.Sub(sym.Sub(xn[k], xi[k]), step)
		}
		tr.AddEqualityConstraints(defects)
	}
	return nil
}
