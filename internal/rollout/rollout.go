package rollout

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/trajopt/internal/ocp"
)

// ErrUnstable indicates the forward integration diverged (NaN or Inf
// in the state).
var ErrUnstable = errors.New("rollout: integration unstable (state diverged)")

// Result is a forward-integrated trajectory: one state column per time.
type Result struct {
	Times  []float64
	States *ocp.Matrix[float64]
}

// Simulate integrates the dynamics from x0 across the given times,
// interpolating the control columns linearly, with substeps RK4 steps
// per time interval. params may be nil for parameter-free problems.
func Simulate(p ocp.Problem, x0 []float64, controls *ocp.Matrix[float64], params, times []float64, substeps int) (*Result, error) {
	dims := p.Dims()
	if len(x0) != dims.States {
		return nil, fmt.Errorf("rollout: initial state has %d elements, problem has %d states", len(x0), dims.States)
	}
	if len(times) < 2 {
		return nil, fmt.Errorf("rollout: need at least two times, got %d", len(times))
	}
	if substeps < 1 {
		substeps = 1
	}

	dyn := NewDynamics(p)
	stepper := newRK4(dims.States)

	x := append([]float64(nil), x0...)
	u := make([]float64, dims.Controls)
	out := ocp.NewMatrix[float64](dims.States, len(times))
	for r := 0; r < dims.States; r++ {
		out.Set(r, 0, x[r])
	}

	for i := 0; i < len(times)-1; i++ {
		dt := (times[i+1] - times[i]) / float64(substeps)
		for s := 0; s < substeps; s++ {
			t := times[i] + float64(s)*dt
			interpControls(u, controls, times, t+dt*0.5)
			stepper.step(dyn, x, u, params, t, dt)
		}
		for r, v := range x {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: state %d at t=%g", ErrUnstable, r, times[i+1])
			}
			out.Set(r, i+1, v)
		}
	}
	return &Result{Times: append([]float64(nil), times...), States: out}, nil
}

// interpControls writes the linearly interpolated control column at
// time t into dst, clamping outside the time span.
func interpControls(dst []float64, controls *ocp.Matrix[float64], times []float64, t float64) {
	if len(dst) == 0 || controls == nil {
		return
	}
	n := len(times)
	switch {
	case t <= times[0]:
		for r := range dst {
			dst[r] = controls.At(r, 0)
		}
		return
	case t >= times[n-1]:
		for r := range dst {
			dst[r] = controls.At(r, n-1)
		}
		return
	}
	i := 1
	for times[i] < t {
		i++
	}
	frac := (t - times[i-1]) / (times[i] - times[i-1])
	for r := range dst {
		a := controls.At(r, i-1)
		dst[r] = a + frac*(controls.At(r, i)-a)
	}
}

// Report compares a transcribed solution against its own forward
// rollout.
type Report struct {
	Result *Result

	// MaxStateError is the per-state maximum absolute difference
	// between the collocation trajectory and the rollout.
	MaxStateError []float64

	// FinalStateError is the per-state difference at the final time.
	FinalStateError []float64
}

// Verify re-simulates a solution under its optimized controls and
// measures how far the collocation states drift from the integrated
// trajectory.
func Verify(p ocp.Problem, sol *ocp.Solution, substeps int) (*Report, error) {
	dims := p.Dims()
	states := sol.Variables[ocp.States]
	if states == nil || states.Cols() != len(sol.Times) {
		return nil, fmt.Errorf("rollout: solution states do not match its %d times", len(sol.Times))
	}

	x0 := make([]float64, dims.States)
	for r := range x0 {
		x0[r] = states.At(r, 0)
	}
	var params []float64
	if pm := sol.Variables[ocp.Parameters]; pm != nil {
		params = pm.Data()
	}

	res, err := Simulate(p, x0, sol.Variables[ocp.Controls], params, sol.Times, substeps)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Result:          res,
		MaxStateError:   make([]float64, dims.States),
		FinalStateError: make([]float64, dims.States),
	}
	n := len(sol.Times)
	for r := 0; r < dims.States; r++ {
		for c := 0; c < n; c++ {
			if d := math.Abs(res.States.At(r, c) - states.At(r, c)); d > rep.MaxStateError[r] {
				rep.MaxStateError[r] = d
			}
		}
		rep.FinalStateError[r] = res.States.At(r, n-1) - states.At(r, n-1)
	}
	return rep, nil
}
