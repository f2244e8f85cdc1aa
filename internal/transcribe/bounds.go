package transcribe

import (
	"fmt"

	"github.com/san-kum/trajopt/internal/ocp"
)

// SetVariableBounds writes bounds into the selected sub-block of a
// kind's bound matrices. Unset bounds write (-Inf, +Inf). Disjoint
// sub-blocks can be tightened independently; later calls overwrite
// earlier ones only where their selectors overlap.
func (tr *Transcription) SetVariableBounds(kind ocp.Var, rows, cols []int, b ocp.Bounds) {
	lowerM, ok := tr.lower[kind]
	if !ok {
		panic(fmt.Sprintf("transcribe: bounds for unallocated variable kind %s", kind))
	}
	upperM := tr.upper[kind]
	lo, hi := b.Interval()
	for _, c := range cols {
		for _, r := range rows {
			lowerM.Set(r, c, lo)
			upperM.Set(r, c, hi)
		}
	}
}

// VariableBounds reads back the effective bounds of one element, mainly
// for tests and diagnostics.
func (tr *Transcription) VariableBounds(kind ocp.Var, r, c int) (float64, float64) {
	return tr.lower[kind].At(r, c), tr.upper[kind].At(r, c)
}
