// Package ocp defines the value types shared across the optimal-control
// transcription pipeline:
//
//   - [Var]: the fixed, totally ordered registry of decision-variable
//     kinds. The ordering defines the vectorization layout and must be
//     identical wherever variables, bounds or decision vectors meet.
//   - [Matrix] / [Variables]: per-kind dense matrices, rows indexed by
//     component and columns by grid point, column-major storage.
//   - [Bounds]: an optional (lower, upper) pair; unset means (-Inf, +Inf).
//   - [Grid]: normalized time fractions in [0,1].
//   - [Iterate] / [Solution]: numeric trajectories and solver output.
//   - [Problem]: the continuous-time problem contract a transcription
//     consumes (dimensions, declared bounds, symbolic dynamics, costs).
package ocp
