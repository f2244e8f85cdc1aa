package transcribe

import (
	"fmt"

	"github.com/san-kum/trajopt/internal/ocp"
	"github.com/san-kum/trajopt/internal/sym"
)

// Scheme is the contract a concrete collocation scheme implements on
// top of the shared core.
//
// QuadratureCoefficients returns one weight per grid point; their
// weighted sum over pointwise samples approximates the integral over
// the horizon, so for a [0,1]-spanning grid the weights sum to 1 before
// duration scaling. KinematicConstraintIndices returns one entry per
// grid point, nonzero exactly where position-level constraints are
// enforced. ApplyConstraints populates all constraints and objective
// terms; it runs exactly once, after time expressions exist.
type Scheme interface {
	Core() *Transcription
	QuadratureCoefficients() []float64
	KinematicConstraintIndices() []float64
	ApplyConstraints() error
}

// Transcribe drives the construction-time orchestration for a fully
// built scheme: symbolic time and duration expressions first, then hook
// output validation, then constraint population. Calling it on a scheme
// whose fixed-size state is incomplete is a precondition violation.
func Transcribe(s Scheme) error {
	tr := s.Core()
	if tr.transcribed {
		return ErrAlreadyTranscribed
	}

	tr.buildTimes()

	n := tr.NumGridPoints()
	qc := s.QuadratureCoefficients()
	if len(qc) != n {
		panic(fmt.Sprintf(
			"transcribe: quadrature coefficients have length %d, grid has %d points", len(qc), n))
	}
	mask := s.KinematicConstraintIndices()
	if len(mask) != n {
		panic(fmt.Sprintf(
			"transcribe: kinematic-constraint mask has length %d, grid has %d points", len(mask), n))
	}
	tr.quadCoeffs = append([]float64(nil), qc...)
	tr.kinMask = append([]float64(nil), mask...)
	tr.transcribed = true

	if err := s.ApplyConstraints(); err != nil {
		return fmt.Errorf("transcribe: applying constraints: %w", err)
	}
	return nil
}

// buildTimes constructs the symbolic absolute times and the duration
// from the grid and the endpoint-time variables:
// t(g) = t0 + g·(tf − t0).
func (tr *Transcription) buildTimes() {
	t0 := tr.vars[ocp.InitialTime].At(0, 0)
	tf := tr.vars[ocp.FinalTime].At(0, 0)
	tr.duration = sym.Sub(tf, t0)
	tr.times = make([]sym.Expr, len(tr.grid))
	for i, g := range tr.grid {
		tr.times[i] = sym.Add(t0, sym.Mul(sym.Num(g), tr.duration))
	}
}

// CreateTimes maps the grid through the same affine law with concrete
// endpoint times.
func (tr *Transcription) CreateTimes(t0, tf float64) []float64 {
	out := make([]float64, len(tr.grid))
	for i, g := range tr.grid {
		out[i] = t0 + g*(tf-t0)
	}
	return out
}
