package rollout

// rk4 is a classic fourth-order Runge-Kutta stepper with reusable
// scratch buffers.
type rk4 struct {
	k1, k2, k3, k4 []float64
	scratch        []float64
}

func newRK4(n int) *rk4 {
	return &rk4{
		k1:      make([]float64, n),
		k2:      make([]float64, n),
		k3:      make([]float64, n),
		k4:      make([]float64, n),
		scratch: make([]float64, n),
	}
}

// step advances x by dt in place under controls u.
func (r *rk4) step(dyn *Dynamics, x, u, params []float64, t, dt float64) {
	n := len(x)

	dyn.Derive(r.k1, x, u, params, t)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k1[i]
	}
	dyn.Derive(r.k2, r.scratch, u, params, t+dt*0.5)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k2[i]
	}
	dyn.Derive(r.k3, r.scratch, u, params, t+dt*0.5)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	dyn.Derive(r.k4, r.scratch, u, params, t+dt)

	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		x[i] += dt6 * (r.k1[i] + 2*r.k2[i] + 2*r.k3[i] + r.k4[i])
	}
}
