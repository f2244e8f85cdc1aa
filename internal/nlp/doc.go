// Package nlp defines the nonlinear-program contract between the
// transcription layer and numerical backends.
//
// A [Problem] is a fully assembled NLP: symbolic decision variables, a
// scalar objective, a constraint vector and numeric bounds. Backends
// implement [Backend] and register themselves by name, like compute
// devices; callers pick one through the registry:
//
//	b, err := nlp.Get("auglag")
//	res, err := b.Solve(prob, opts)
//
// Two backends ship with the package:
//
//   - auglag: augmented-Lagrangian method with a damped-Newton inner
//     solver driven by symbolic derivatives. The default.
//   - pswarm: penalized particle swarm. Derivative-free and global but
//     low accuracy; useful for rough starts on nonconvex problems.
//
// Non-convergence is not an error: Solve returns a [Result] whose Stats
// carry the status, and the caller decides. Errors are reserved for
// malformed problems, infeasible bounds and numerical failure.
package nlp
