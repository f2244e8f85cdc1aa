package schemes

import (
	"fmt"

	"github.com/san-kum/trajopt/internal/ocp"
	"github.com/san-kum/trajopt/internal/sym"
	"github.com/san-kum/trajopt/internal/transcribe"
)

// HermiteSimpson transcribes with a collocation point at the midpoint
// of every mesh interval: 2·intervals + 1 grid points, Simpson
// quadrature and Hermite interpolation defects.
type HermiteSimpson struct {
	core *transcribe.Transcription
}

// NewHermiteSimpson builds and transcribes a Hermite-Simpson scheme
// over a uniform mesh of numIntervals intervals.
func NewHermiteSimpson(solver transcribe.Solver, problem ocp.Problem, numIntervals int) (*HermiteSimpson, error) {
	if numIntervals < 1 {
		return nil, fmt.Errorf("schemes: hermite-simpson needs at least one mesh interval, got %d", numIntervals)
	}
	n := 2*numIntervals + 1
	fractions := make([]float64, n)
	for i := range fractions {
		fractions[i] = float64(i) / float64(n-1)
	}
	h := &HermiteSimpson{core: transcribe.New(solver, problem, ocp.NewGrid(fractions))}
	if err := transcribe.Transcribe(h); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *HermiteSimpson) Core() *transcribe.Transcription { return h.core }

// QuadratureCoefficients applies Simpson's rule per mesh interval:
// weights L/6, 4L/6, L/6 on left, midpoint and right. Sums to 1.
func (h *HermiteSimpson) QuadratureCoefficients() []float64 {
	grid := h.core.Grid()
	w := make([]float64, len(grid))
	for i := 0; i+2 < len(grid); i += 2 {
		l := grid[i+2] - grid[i]
		w[i] += l / 6
		w[i+1] += 4 * l / 6
		w[i+2] += l / 6
	}
	return w
}

// KinematicConstraintIndices marks mesh points only: midpoints are
// collocation points where position-level constraints would be
// redundant.
func (h *HermiteSimpson) KinematicConstraintIndices() []float64 {
	mask := make([]float64, h.core.NumGridPoints())
	for i := 0; i < len(mask); i += 2 {
		mask[i] = 1
	}
	return mask
}

// ApplyConstraints accumulates the standard costs and constraints, then
// per mesh interval the Hermite and Simpson defects
//
//	x[m] - (x[l]+x[r])/2 - h/8·(f[l] - f[r]) = 0
//	x[r] - x[l] - h/6·(f[l] + 4·f[m] + f[r]) = 0.
func (h *HermiteSimpson) ApplyConstraints() error {
	tr := h.core
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

	for i := 0; i+2 < n; i += 2 {
		l, m, r := i, i+1, i+2
		step := sym.Mul(sym.Num(grid[r]-grid[l]), tr.Duration())
		xl := tr.StateVars(l)
		xm := tr.StateVars(m)
		xr := tr.StateVars(r)

		hermite := make([]sym.Expr, ns)
		simpson := make([]sym.Expr, ns)
		for k := 0; k < ns; k++ {
			mid := sym.Add(
				sym.Mul(sym.Num(0.5), sym.Add(xl[k], xr[k])),
				sym.Mul(sym.Num(0.125), step, sym.Sub(xdot[l][k], xdot[r][k])))
			hermite[k] = sym.Sub(xm[k], mid)

			area := sym.Mul(sym.Num(1.0/6.0), step,
				sym.Add(xdot[l][k], sym.Mul(sym.Num(4), xdot[m][k]), xdot[r][k]))
			simpson[k] = sym.Sub(sym.Sub(xr[k], xl[k]), area)
		}
		tr.AddEqualityConstraints(hermite)
		tr.AddEqualityConstraints(simpson)
	}
	return nil
}
