// Package rollout integrates a problem's dynamics forward in time with
// a fixed-step RK4 scheme. Its main use is post-solve verification: a
// transcribed solution only satisfies the dynamics at collocation
// points, so re-simulating under the optimized controls and comparing
// trajectories measures the true discretization error.
package rollout
