package ocp

import "fmt"

// Iterate is a numeric assignment to every decision variable plus the
// absolute times of the grid points.
type Iterate struct {
	Variables Variables[float64]
	Times     []float64
}

// Solution is the decoded output of one backend invocation: the final
// iterate plus the backend's raw diagnostics. This layer never
// interprets the diagnostics.
type Solution struct {
	Iterate
	Stats map[string]any
}

// Clone deep-copies the iterate.
func (it *Iterate) Clone() *Iterate {
	vars := make(Variables[float64], len(it.Variables))
	for k, m := range it.Variables {
		vars[k] = m.Clone()
	}
	times := make([]float64, len(it.Times))
	copy(times, it.Times)
	return &Iterate{Variables: vars, Times: times}
}

// Resample maps the iterate onto a new time grid. Trajectory kinds
// (column count matching the old grid) are linearly interpolated row by
// row; scalar and parameter kinds are copied. Times outside the old
// span clamp to the endpoints.
func (it *Iterate) Resample(times []float64) *Iterate {
	if len(it.Times) < 2 {
		panic(fmt.Sprintf("ocp: cannot resample an iterate with %d time points", len(it.Times)))
	}
	vars := make(Variables[float64], len(it.Variables))
	for k, m := range it.Variables {
		if m.Cols() != len(it.Times) {
			vars[k] = m.Clone()
			continue
		}
		out := NewMatrix[float64](m.Rows(), len(times))
		for r := 0; r < m.Rows(); r++ {
			traj := m.Row(r)
			for c, t := range times {
				out.Set(r, c, interp(it.Times, traj, t))
			}
		}
		vars[k] = out
	}
	newTimes := make([]float64, len(times))
	copy(newTimes, times)
	return &Iterate{Variables: vars, Times: newTimes}
}

// interp linearly interpolates y(x) at xq, clamping outside [x0, xn].
func interp(xs, ys []float64, xq float64) float64 {
	if xq <= xs[0] {
		return ys[0]
	}
	n := len(xs)
	if xq >= xs[n-1] {
		return ys[n-1]
	}
	lo := 0
	for lo < n-2 && xs[lo+1] < xq {
		lo++
	}
	x0, x1 := xs[lo], xs[lo+1]
	if x1 == x0 {
		return ys[lo]
	}
	w := (xq - x0) / (x1 - x0)
	return ys[lo]*(1-w) + ys[lo+1]*w
}
