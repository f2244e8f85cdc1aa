package transcribe

import (
	"fmt"

	"github.com/san-kum/trajopt/internal/nlp"
	"github.com/san-kum/trajopt/internal/ocp"
	"github.com/san-kum/trajopt/internal/sym"
)

// Solve resamples the guess onto this instance's grid, assembles the
// NLP and makes one blocking backend call. The decoded result becomes a
// Solution whose times are recomputed from the optimized endpoint-time
// variables and whose Stats carry the backend diagnostics unmodified.
// Non-convergence still yields a Solution; invocation failure is fatal
// and not retried.
func (tr *Transcription) Solve(guess *ocp.Iterate) (*ocp.Solution, error) {
	if !tr.transcribed {
		return nil, ErrNotTranscribed
	}

	t0 := guess.Variables[ocp.InitialTime].At(0, 0)
	tf := guess.Variables[ocp.FinalTime].At(0, 0)
	resampled := guess.Resample(tr.CreateTimes(t0, tf))

	options := nlp.MergeOptions(tr.solver.Backend, tr.solver.PluginOptions, tr.solver.BackendOptions)

	x := flatten(tr.vars)
	x0 := flatten(resampled.Variables)
	if len(x0) != len(x) {
		panic(fmt.Sprintf(
			"transcribe: guess has %d elements, transcription has %d: variable shapes differ", len(x0), len(x)))
	}

	objective := tr.objective
	if objective == nil {
		objective = sym.Num(0)
	}
	g, lbg, ubg := tr.assembleConstraints()

	backend, err := nlp.Get(tr.solver.Backend)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}
	result, err := backend.Solve(&nlp.Problem{
		X:   x,
		F:   objective,
		G:   g,
		X0:  x0,
		LBX: flatten(tr.lower),
		UBX: flatten(tr.upper),
		LBG: lbg,
		UBG: ubg,
	}, options)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBackend, tr.solver.Backend, err)
	}

	vars := tr.expand(result.X)
	sol := &ocp.Solution{
		Iterate: ocp.Iterate{Variables: vars},
		Stats:   result.Stats,
	}
	sol.Times = tr.CreateTimes(
		vars[ocp.InitialTime].At(0, 0),
		vars[ocp.FinalTime].At(0, 0))
	return sol, nil
}
