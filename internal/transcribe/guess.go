package transcribe

import (
	"math"
	"math/rand"

	"github.com/san-kum/trajopt/internal/ocp"
)

// CreateInitialGuessFromBounds builds a deterministic iterate: every
// element sits at its bound midpoint, or 0 when either side is
// unbounded.
func (tr *Transcription) CreateInitialGuessFromBounds() *ocp.Iterate {
	it := &ocp.Iterate{Variables: make(ocp.Variables[float64], len(tr.vars))}
	for _, k := range ocp.SortedKeys(tr.vars) {
		m := tr.vars[k]
		block := ocp.NewMatrix[float64](m.Rows(), m.Cols())
		for c := 0; c < m.Cols(); c++ {
			for r := 0; r < m.Rows(); r++ {
				lo := tr.lower[k].At(r, c)
				hi := tr.upper[k].At(r, c)
				if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
					continue // stays 0
				}
				block.Set(r, c, 0.5*(lo+hi))
			}
		}
		it.Variables[k] = block
	}
	tr.fillTimes(it)
	return it
}

// CreateRandomIterateWithinBounds samples every element uniformly from
// its interval. Entries missing a bound fall back to the solver's
// configured half-range: centered on 0 when fully unbounded, anchored
// at the finite side otherwise. Reproducibility is the caller's
// business via the supplied source.
func (tr *Transcription) CreateRandomIterateWithinBounds(rng *rand.Rand) *ocp.Iterate {
	span := tr.solver.RandomFallback
	if span <= 0 {
		span = 1
	}
	it := &ocp.Iterate{Variables: make(ocp.Variables[float64], len(tr.vars))}
	for _, k := range ocp.SortedKeys(tr.vars) {
		m := tr.vars[k]
		block := ocp.NewMatrix[float64](m.Rows(), m.Cols())
		for c := 0; c < m.Cols(); c++ {
			for r := 0; r < m.Rows(); r++ {
				lo := tr.lower[k].At(r, c)
				hi := tr.upper[k].At(r, c)
				switch {
				case math.IsInf(lo, 0) && math.IsInf(hi, 0):
					lo, hi = -span, span
				case math.IsInf(lo, 0):
					lo = hi - 2*span
				case math.IsInf(hi, 0):
					hi = lo + 2*span
				}
				block.Set(r, c, lo+rng.Float64()*(hi-lo))
			}
		}
		it.Variables[k] = block
	}
	tr.fillTimes(it)
	return it
}

func (tr *Transcription) fillTimes(it *ocp.Iterate) {
	t0 := it.Variables[ocp.InitialTime].At(0, 0)
	tf := it.Variables[ocp.FinalTime].At(0, 0)
	it.Times = tr.CreateTimes(t0, tf)
}
