// Package problems collects the built-in optimal-control problems and a
// registry mapping their names to constructors.
package problems
