package value

import "testing"

func TestArrayCloneIsIndependent(t *testing.T) {
	x := NewArray([]Value{NewInt(1), NewInt(2), NewInt(3)})
	y := x.Clone().(*Array)

	y.Elems[0] = NewInt(99)

	if x.Elems[0].(*Int).V != 1 {
		t.Fatalf("mutating clone leaked into original: x[0] = %d", x.Elems[0].(*Int).V)
	}
	if y.Elems[0].(*Int).V != 99 {
		t.Fatalf("clone mutation did not apply: y[0] = %d", y.Elems[0].(*Int).V)
	}
}

func TestNestedArrayCloneIsDeep(t *testing.T) {
	inner := NewArray([]Value{NewInt(1), NewInt(2)})
	outer := NewArray([]Value{inner, NewInt(9)})

	clone := outer.Clone().(*Array)
	innerClone := clone.Elems[0].(*Array)
	innerClone.Elems[0] = NewInt(100)

	if inner.Elems[0].(*Int).V != 1 {
		t.Fatalf("nested clone mutation leaked into original nested array")
	}
}

func TestIntTruthy(t *testing.T) {
	if NewInt(0).Truthy() {
		t.Error("0 should be falsy")
	}
	if !NewInt(1).Truthy() {
		t.Error("1 should be truthy")
	}
	if !NewInt(-1).Truthy() {
		t.Error("-1 should be truthy")
	}
}

func TestInspect(t *testing.T) {
	arr := NewArray([]Value{NewInt(1), NewInt(2), NewInt(3)})
	if got, want := arr.Inspect(), "[1, 2, 3]"; got != want {
		t.Errorf("Inspect() = %q, want %q", got, want)
	}
}
