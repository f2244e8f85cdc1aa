package nlp

import "errors"

var (
	// ErrUnknownBackend indicates no backend is registered under the
	// requested name.
	ErrUnknownBackend = errors.New("nlp: unknown backend")

	// ErrDimensionMismatch indicates inconsistent problem vector lengths.
	ErrDimensionMismatch = errors.New("nlp: dimension mismatch in problem")

	// ErrInfeasibleBounds indicates a lower bound above its upper bound.
	ErrInfeasibleBounds = errors.New("nlp: infeasible bounds (lower > upper)")

	// ErrSingular indicates a singular linear system inside a solver.
	ErrSingular = errors.New("nlp: singular linear system")

	// ErrNumericalFailure indicates NaN or Inf appeared during a solve.
	ErrNumericalFailure = errors.New("nlp: numerical failure (NaN or Inf)")
)
