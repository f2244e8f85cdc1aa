package transcribe

import (
	"fmt"

	"github.com/san-kum/trajopt/internal/ocp"
	"github.com/san-kum/trajopt/internal/sym"
)

// AddConstraints appends a constraint block. Equations and bounds must
// have equal length; a mismatch is a scheme bug and panics. Blocks
// concatenate in call order at solve time. Equality constraints use
// lower == upper.
func (tr *Transcription) AddConstraints(equations []sym.Expr, lower, upper []float64) {
	if len(equations) != len(lower) || len(equations) != len(upper) {
		panic(fmt.Sprintf(
			"transcribe: AddConstraints requires equal lengths, got %d equations, %d lower, %d upper",
			len(equations), len(lower), len(upper)))
	}
	eqs := make([]sym.Expr, len(equations))
	copy(eqs, equations)
	lo := make([]float64, len(lower))
	copy(lo, lower)
	hi := make([]float64, len(upper))
	copy(hi, upper)
	tr.constraints = append(tr.constraints, constraintSet{equations: eqs, lower: lo, upper: hi})
}

// AddEqualityConstraints appends equations pinned to zero.
func (tr *Transcription) AddEqualityConstraints(equations []sym.Expr) {
	zeros := make([]float64, len(equations))
	tr.AddConstraints(equations, zeros, zeros)
}

// assembleConstraints concatenates the recorded blocks in call order
// into the solve-time constraint vector and its bounds.
func (tr *Transcription) assembleConstraints() (g []sym.Expr, lbg, ubg []float64) {
	for _, set := range tr.constraints {
		g = append(g, set.equations...)
		lbg = append(lbg, set.lower...)
		ubg = append(ubg, set.upper...)
	}
	return g, lbg, ubg
}

// SetObjective replaces the accumulated objective.
func (tr *Transcription) SetObjective(e sym.Expr) { tr.objective = e }

// AddCost adds a term to the objective.
func (tr *Transcription) AddCost(e sym.Expr) {
	if tr.objective == nil {
		tr.objective = e
		return
	}
	tr.objective = sym.Add(tr.objective, e)
}

// CalcDAE evaluates the problem dynamics at one grid index: the
// symbolic state derivative and, when numQuadErr > 0, the
// position-level residual vector from the problem's kinematic
// constraints. Wrongly sized hook output panics: it signals a broken
// problem implementation, not bad input.
func (tr *Transcription) CalcDAE(itime, numQuadErr int) (xdot, qerr []sym.Expr) {
	x := tr.column(ocp.States, itime)
	u := tr.column(ocp.Controls, itime)
	lam := tr.column(ocp.Multipliers, itime)
	p := tr.paramColumn()
	t := tr.times[itime]

	xdot = tr.problem.Derive(x, u, lam, p, t)
	if len(xdot) != tr.dims.States {
		panic(fmt.Sprintf(
			"transcribe: Derive returned %d derivatives for %d states", len(xdot), tr.dims.States))
	}
	if numQuadErr > 0 {
		kc, ok := tr.problem.(ocp.KinematicConstrainer)
		if !ok {
			panic(fmt.Sprintf(
				"transcribe: %d multipliers declared but problem has no kinematic constraints", numQuadErr))
		}
		qerr = kc.KinematicErrors(x, t)
		if len(qerr) != numQuadErr {
			panic(fmt.Sprintf(
				"transcribe: KinematicErrors returned %d residuals, expected %d", len(qerr), numQuadErr))
		}
	}
	return xdot, qerr
}

func (tr *Transcription) paramColumn() []sym.Expr {
	if tr.dims.Parameters == 0 {
		return nil
	}
	return tr.column(ocp.Parameters, 0)
}

// ApplyStandardCosts accumulates the problem's declared costs: the
// running cost summed with the scheme's quadrature weights and scaled
// by duration, plus any endpoint cost. Call from ApplyConstraints.
func (tr *Transcription) ApplyStandardCosts() {
	n := tr.NumGridPoints()
	if rc, ok := tr.problem.(ocp.RunningCoster); ok {
		integrands := make([]sym.Expr, n)
		for i := 0; i < n; i++ {
			integrands[i] = rc.RunningCost(tr.column(ocp.States, i), tr.column(ocp.Controls, i), tr.times[i])
		}
		tr.AddCost(sym.Mul(tr.duration, sym.Dot(tr.quadCoeffs, integrands)))
	}
	if ec, ok := tr.problem.(ocp.EndpointCoster); ok {
		tr.AddCost(ec.EndpointCost(
			tr.column(ocp.States, 0), tr.column(ocp.States, n-1),
			tr.times[0], tr.times[n-1]))
	}
}

// ApplyPathConstraints enforces the problem's algebraic path
// constraints at every grid point, in grid order.
func (tr *Transcription) ApplyPathConstraints() {
	pc, ok := tr.problem.(ocp.PathConstrainer)
	if !ok {
		return
	}
	for i := 0; i < tr.NumGridPoints(); i++ {
		eqs, bounds := pc.PathConstraints(tr.column(ocp.States, i), tr.column(ocp.Controls, i), tr.times[i])
		if len(eqs) != len(bounds) {
			panic(fmt.Sprintf(
				"transcribe: PathConstraints returned %d equations with %d bounds", len(eqs), len(bounds)))
		}
		lo := make([]float64, len(eqs))
		hi := make([]float64, len(eqs))
		for k, b := range bounds {
			lo[k], hi[k] = b.Interval()
		}
		tr.AddConstraints(eqs, lo, hi)
	}
}

// ApplyKinematicConstraints enforces the position-level residuals from
// CalcDAE at every grid index the scheme's mask marks nonzero, avoiding
// redundant enforcement at collocation-only points.
func (tr *Transcription) ApplyKinematicConstraints() {
	if tr.dims.Multipliers == 0 {
		return
	}
	for i := 0; i < tr.NumGridPoints(); i++ {
		if tr.kinMask[i] == 0 {
			continue
		}
		_, qerr := tr.CalcDAE(i, tr.dims.Multipliers)
		tr.AddEqualityConstraints(qerr)
	}
}
