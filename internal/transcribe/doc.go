// Package transcribe converts a continuous-time optimal-control problem
// into a nonlinear program via direct collocation.
//
// The scheme-independent machinery lives in [Transcription]: symbolic
// decision variables, numeric bounds, accumulated constraints and
// objective, the normalized time grid and the solve loop. A concrete
// collocation scheme implements [Scheme] (quadrature coefficients, the
// kinematic-constraint mask and constraint population) and sizes its
// grid and variables in its constructor before handing itself to
// [Transcribe], which builds time expressions and drives the hooks.
//
// Construction is strictly two-phase: a scheme's state must be complete
// before Transcribe runs, and a Transcription mutates only during that
// single-threaded construction window. A solved instance is safe for
// concurrent reads.
//
// Vectorization order is the package's one load-bearing convention:
// flatten and expand walk variable kinds in fixed [ocp.Var] order and
// read each matrix column-major. Variables, bounds and the backend's
// decision vector all share this layout; the round trip
// expand(flatten(v)) == v is exercised by the package tests.
package transcribe
