package ocp

import (
	"fmt"
	"math"
)

// Var enumerates the decision-variable kinds. The declaration order is
// the vectorization order: flatten and expand walk kinds in ascending
// Var value, so reordering these constants silently changes the meaning
// of every flattened vector.
type Var int

const (
	InitialTime Var = iota
	FinalTime
	States
	Controls
	Multipliers
	Derivatives
	Slacks
	Parameters
	numVarKinds
)

func (v Var) String() string {
	switch v {
	case InitialTime:
		return "initial_time"
	case FinalTime:
		return "final_time"
	case States:
		return "states"
	case Controls:
		return "controls"
	case Multipliers:
		return "multipliers"
	case Derivatives:
		return "derivatives"
	case Slacks:
		return "slacks"
	case Parameters:
		return "parameters"
	}
	return fmt.Sprintf("var(%d)", int(v))
}

// Bounds is an optional closed interval. The zero value is unset and
// behaves as (-Inf, +Inf).
type Bounds struct {
	Lower, Upper float64
	set          bool
}

// NewBounds declares a [lo, hi] interval. Consistency (lo <= hi) is not
// checked here: infeasible declarations must surface as a solve-time
// failure, not be silently repaired.
func NewBounds(lo, hi float64) Bounds {
	return Bounds{Lower: lo, Upper: hi, set: true}
}

// Exact pins a value, lower == upper.
func Exact(v float64) Bounds { return NewBounds(v, v) }

func (b Bounds) IsSet() bool { return b.set }

// Interval returns the effective (lower, upper) pair, substituting
// infinities when unset.
func (b Bounds) Interval() (float64, float64) {
	if !b.set {
		return math.Inf(-1), math.Inf(1)
	}
	return b.Lower, b.Upper
}

// Matrix is a dense rows x cols matrix with column-major storage, so a
// grid point's components are contiguous.
type Matrix[T any] struct {
	rows, cols int
	data       []T
}

func NewMatrix[T any](rows, cols int) *Matrix[T] {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("ocp: invalid matrix shape %dx%d", rows, cols))
	}
	return &Matrix[T]{rows: rows, cols: cols, data: make([]T, rows*cols)}
}

func (m *Matrix[T]) Rows() int { return m.rows }
func (m *Matrix[T]) Cols() int { return m.cols }
func (m *Matrix[T]) Len() int  { return m.rows * m.cols }

func (m *Matrix[T]) At(r, c int) T {
	return m.data[c*m.rows+r]
}

func (m *Matrix[T]) Set(r, c int, v T) {
	m.data[c*m.rows+r] = v
}

// Data exposes the column-major backing slice.
func (m *Matrix[T]) Data() []T { return m.data }

// Col returns a copy of column c.
func (m *Matrix[T]) Col(c int) []T {
	out := make([]T, m.rows)
	copy(out, m.data[c*m.rows:(c+1)*m.rows])
	return out
}

// Row returns a copy of row r.
func (m *Matrix[T]) Row(r int) []T {
	out := make([]T, m.cols)
	for c := 0; c < m.cols; c++ {
		out[c] = m.At(r, c)
	}
	return out
}

func (m *Matrix[T]) Fill(v T) {
	for i := range m.data {
		m.data[i] = v
	}
}

func (m *Matrix[T]) Clone() *Matrix[T] {
	c := &Matrix[T]{rows: m.rows, cols: m.cols, data: make([]T, len(m.data))}
	copy(c.data, m.data)
	return c
}

// Variables maps each allocated kind to its matrix. Kinds a problem does
// not use have no entry.
type Variables[T any] map[Var]*Matrix[T]

// SortedKeys returns the allocated kinds in fixed Var order. Every walk
// over a Variables map goes through here so that variables, bounds and
// decision vectors share one layout.
func SortedKeys[T any](vars Variables[T]) []Var {
	keys := make([]Var, 0, len(vars))
	for v := Var(0); v < numVarKinds; v++ {
		if _, ok := vars[v]; ok {
			keys = append(keys, v)
		}
	}
	return keys
}

// NumElements counts the total scalar entries across all kinds.
func NumElements[T any](vars Variables[T]) int {
	n := 0
	for _, m := range vars {
		n += m.Len()
	}
	return n
}

// Grid is a sequence of strictly increasing time fractions in [0,1].
type Grid []float64

// NewGrid validates and adopts the fractions. A malformed grid is a
// scheme-implementation bug, so violations panic.
func NewGrid(fractions []float64) Grid {
	if len(fractions) < 2 {
		panic("ocp: grid needs at least two points")
	}
	for i, g := range fractions {
		if g < 0 || g > 1 {
			panic(fmt.Sprintf("ocp: grid point %d = %g outside [0,1]", i, g))
		}
		if i > 0 && g <= fractions[i-1] {
			panic(fmt.Sprintf("ocp: grid not strictly increasing at index %d", i))
		}
	}
	g := make(Grid, len(fractions))
	copy(g, fractions)
	return g
}

// UniformGrid spans [0,1] with n evenly spaced points.
func UniformGrid(n int) Grid {
	if n < 2 {
		panic("ocp: uniform grid needs at least two points")
	}
	g := make(Grid, n)
	for i := range g {
		g[i] = float64(i) / float64(n-1)
	}
	return g
}
