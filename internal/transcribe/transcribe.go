package transcribe

import (
	"fmt"

	"github.com/san-kum/trajopt/internal/ocp"
	"github.com/san-kum/trajopt/internal/sym"
)

// Solver selects and tunes the NLP backend for a transcription. Plugin
// options reach the backend top-level; backend options are nested under
// the backend's name when plugin options are present. RandomFallback is
// the half-range used for decision variables with a missing bound when
// sampling a random iterate.
type Solver struct {
	Backend        string
	PluginOptions  map[string]any
	BackendOptions map[string]any
	RandomFallback float64
}

// DefaultSolver uses the auglag backend with a unit fallback range.
func DefaultSolver() Solver {
	return Solver{Backend: "auglag", RandomFallback: 1}
}

type constraintSet struct {
	equations []sym.Expr
	lower     []float64
	upper     []float64
}

// Transcription owns the symbolic variables, numeric bound matrices,
// accumulated constraints and objective of one transcribed problem.
// All mutation happens during single-threaded construction; after
// Transcribe the instance is read-only.
type Transcription struct {
	solver  Solver
	problem ocp.Problem
	dims    ocp.Dims

	grid ocp.Grid

	vars  ocp.Variables[*sym.Var]
	lower ocp.Variables[float64]
	upper ocp.Variables[float64]

	objective   sym.Expr
	constraints []constraintSet

	times    []sym.Expr
	duration sym.Expr

	quadCoeffs []float64
	kinMask    []float64

	transcribed bool
}

// New allocates variables and bounds for the given grid. The problem's
// declared bounds land in the bound matrices; schemes may tighten
// sub-blocks afterwards with SetVariableBounds.
func New(solver Solver, problem ocp.Problem, grid ocp.Grid) *Transcription {
	tr := &Transcription{
		solver:  solver,
		problem: problem,
		dims:    problem.Dims(),
		grid:    grid,
		vars:    make(ocp.Variables[*sym.Var]),
		lower:   make(ocp.Variables[float64]),
		upper:   make(ocp.Variables[float64]),
	}
	n := len(grid)

	tr.alloc(ocp.InitialTime, 1, 1)
	tr.alloc(ocp.FinalTime, 1, 1)
	tr.alloc(ocp.States, tr.dims.States, n)
	tr.alloc(ocp.Controls, tr.dims.Controls, n)
	tr.alloc(ocp.Multipliers, tr.dims.Multipliers, n)
	tr.alloc(ocp.Parameters, tr.dims.Parameters, 1)

	tr.applyProblemBounds()
	return tr
}

// alloc creates the symbolic matrix and matching bound matrices for a
// kind; zero-row kinds stay unallocated.
func (tr *Transcription) alloc(kind ocp.Var, rows, cols int) {
	if rows == 0 {
		return
	}
	m := ocp.NewMatrix[*sym.Var](rows, cols)
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			m.Set(r, c, sym.NewVar(fmt.Sprintf("%s[%d,%d]", kind, r, c)))
		}
	}
	tr.vars[kind] = m
	tr.lower[kind] = ocp.NewMatrix[float64](rows, cols)
	tr.upper[kind] = ocp.NewMatrix[float64](rows, cols)
	tr.SetVariableBounds(kind, Span(0, rows), Span(0, cols), ocp.Bounds{})
}

func (tr *Transcription) applyProblemBounds() {
	vb := tr.problem.Bounds()
	n := len(tr.grid)

	tr.SetVariableBounds(ocp.InitialTime, []int{0}, []int{0}, vb.InitialTime)
	tr.SetVariableBounds(ocp.FinalTime, []int{0}, []int{0}, vb.FinalTime)

	setRows := func(kind ocp.Var, cols []int, bounds []ocp.Bounds) {
		for r, b := range bounds {
			tr.SetVariableBounds(kind, []int{r}, cols, b)
		}
	}
	if tr.dims.States > 0 {
		setRows(ocp.States, Span(0, n), vb.States)
		initial := vb.InitialStates
		if initial == nil {
			initial = vb.States
		}
		final := vb.FinalStates
		if final == nil {
			final = vb.States
		}
		setRows(ocp.States, []int{0}, initial)
		setRows(ocp.States, []int{n - 1}, final)
	}
	if tr.dims.Controls > 0 {
		setRows(ocp.Controls, Span(0, n), vb.Controls)
	}
	if tr.dims.Multipliers > 0 && vb.Multipliers != nil {
		setRows(ocp.Multipliers, Span(0, n), vb.Multipliers)
	}
	if tr.dims.Parameters > 0 && vb.Parameters != nil {
		setRows(ocp.Parameters, []int{0}, vb.Parameters)
	}
}

// Problem returns the transcribed problem.
func (tr *Transcription) Problem() ocp.Problem { return tr.problem }

// Grid returns the normalized time fractions.
func (tr *Transcription) Grid() ocp.Grid { return tr.grid }

// NumGridPoints reports the grid length (mesh plus scheme-added points).
func (tr *Transcription) NumGridPoints() int { return len(tr.grid) }

// Times returns the symbolic absolute time at each grid point. Only
// valid after Transcribe.
func (tr *Transcription) Times() []sym.Expr { return tr.times }

// Duration returns the symbolic horizon length tf - t0. Only valid
// after Transcribe.
func (tr *Transcription) Duration() sym.Expr { return tr.duration }

// QuadratureCoefficients returns a copy of the scheme's quadrature
// weights, for diagnostics and visualization.
func (tr *Transcription) QuadratureCoefficients() []float64 {
	out := make([]float64, len(tr.quadCoeffs))
	copy(out, tr.quadCoeffs)
	return out
}

// KinematicConstraintIndices returns a copy of the scheme's
// kinematic-constraint mask.
func (tr *Transcription) KinematicConstraintIndices() []float64 {
	out := make([]float64, len(tr.kinMask))
	copy(out, tr.kinMask)
	return out
}

// column returns grid column c of a kind as expressions; nil when the
// kind is unallocated.
func (tr *Transcription) column(kind ocp.Var, c int) []sym.Expr {
	m, ok := tr.vars[kind]
	if !ok {
		return nil
	}
	out := make([]sym.Expr, m.Rows())
	for r := 0; r < m.Rows(); r++ {
		out[r] = m.At(r, c)
	}
	return out
}

// StateVars exposes the state column at a grid index for scheme use.
func (tr *Transcription) StateVars(c int) []sym.Expr { return tr.column(ocp.States, c) }

// ControlVars exposes the control column at a grid index.
func (tr *Transcription) ControlVars(c int) []sym.Expr { return tr.column(ocp.Controls, c) }

// flatten concatenates each kind's matrix, column-major, in fixed Var
// order. The same layout serves variables, bounds and decision vectors.
func flatten[T any](vars ocp.Variables[T]) []T {
	out := make([]T, 0, ocp.NumElements(vars))
	for _, k := range ocp.SortedKeys(vars) {
		out = append(out, vars[k].Data()...)
	}
	return out
}

// expand is the inverse of flatten given this instance's shapes.
func (tr *Transcription) expand(x []float64) ocp.Variables[float64] {
	out := make(ocp.Variables[float64], len(tr.vars))
	offset := 0
	for _, k := range ocp.SortedKeys(tr.vars) {
		m := tr.vars[k]
		block := ocp.NewMatrix[float64](m.Rows(), m.Cols())
		copy(block.Data(), x[offset:offset+m.Len()])
		out[k] = block
		offset += m.Len()
	}
	if offset != len(x) {
		panic(fmt.Sprintf(
			"transcribe: expand expects %d elements, got %d: decision vector does not match variable shapes",
			offset, len(x)))
	}
	return out
}

// Span lists the indices [start, end), for bound sub-block selection.
func Span(start, end int) []int {
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}
