package ocp

import (
	"math"
	"testing"
)

func TestMatrixColumnMajor(t *testing.T) {
	m := NewMatrix[float64](2, 3)
	v := 0.0
	for c := 0; c < 3; c++ {
		for r := 0; r < 2; r++ {
			m.Set(r, c, v)
			v++
		}
	}

	// Column-major: walking the backing slice visits columns in order.
	data := m.Data()
	for i, want := range []float64{0, 1, 2, 3, 4, 5} {
		if data[i] != want {
			t.Errorf("data[%d]: expected %f, got %f", i, want, data[i])
		}
	}

	if m.At(1, 2) != 5 {
		t.Errorf("At(1,2): expected 5, got %f", m.At(1, 2))
	}
	col := m.Col(1)
	if col[0] != 2 || col[1] != 3 {
		t.Errorf("Col(1): expected [2 3], got %v", col)
	}
	row := m.Row(0)
	if row[0] != 0 || row[1] != 2 || row[2] != 4 {
		t.Errorf("Row(0): expected [0 2 4], got %v", row)
	}
}

func TestMatrixClone(t *testing.T) {
	m := NewMatrix[float64](1, 2)
	m.Set(0, 0, 7)
	c := m.Clone()
	c.Set(0, 0, 9)
	if m.At(0, 0) != 7 {
		t.Error("clone should not share backing storage")
	}
}

func TestBoundsUnsetDefaultsToInfinite(t *testing.T) {
	var b Bounds
	if b.IsSet() {
		t.Error("zero-value bounds should be unset")
	}
	lo, hi := b.Interval()
	if !math.IsInf(lo, -1) || !math.IsInf(hi, 1) {
		t.Errorf("expected (-Inf, +Inf), got (%f, %f)", lo, hi)
	}

	set := NewBounds(-1, 2)
	lo, hi = set.Interval()
	if lo != -1 || hi != 2 {
		t.Errorf("expected (-1, 2), got (%f, %f)", lo, hi)
	}

	pin := Exact(3)
	if pin.Lower != 3 || pin.Upper != 3 {
		t.Error("Exact should pin lower == upper")
	}
}

func TestSortedKeysFollowsVarOrder(t *testing.T) {
	vars := Variables[float64]{
		Parameters:  NewMatrix[float64](1, 1),
		InitialTime: NewMatrix[float64](1, 1),
		Controls:    NewMatrix[float64](1, 3),
		States:      NewMatrix[float64](2, 3),
	}
	keys := SortedKeys(vars)
	want := []Var{InitialTime, States, Controls, Parameters}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d: expected %s, got %s", i, want[i], keys[i])
		}
	}
}

func TestGridValidation(t *testing.T) {
	g := UniformGrid(5)
	if g[0] != 0 || g[4] != 1 {
		t.Errorf("uniform grid should span [0,1], got %v", g)
	}

	mustPanic(t, "non-increasing grid", func() { NewGrid([]float64{0, 0.5, 0.5, 1}) })
	mustPanic(t, "out-of-range grid", func() { NewGrid([]float64{0, 1.5}) })
	mustPanic(t, "short grid", func() { NewGrid([]float64{0}) })
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}
