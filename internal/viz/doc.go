// Package viz renders solver output in the terminal.
//
// Three surfaces:
//
//   - [PlotTrajectory] and [PlotConvergence]: asciigraph line charts of
//     solved trajectories and solver history
//   - [RenderSummary]: a styled post-solve report card
//   - [RunLive]: a Bubble Tea view that follows backend iterations
//     while a solve is in flight
package viz
