// Package schemes provides the concrete collocation schemes built on
// the shared transcription core.
//
//   - [Trapezoidal]: states and controls on mesh points, trapezoid
//     quadrature, first-order-hold defects. Robust default.
//   - [HermiteSimpson]: adds a collocation point at each mesh-interval
//     midpoint, Simpson quadrature, third-order Hermite interpolation
//     defects. Higher accuracy per mesh interval.
//
// A scheme's constructor sizes the grid and variables, then immediately
// runs the shared construction orchestration, so a returned scheme is
// ready to Solve.
package schemes
