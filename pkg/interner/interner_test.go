package interner

import "testing"

func TestInternDedup(t *testing.T) {
	in := New()
	a := in.Intern("x")
	b := in.Intern("y")
	c := in.Intern("x")

	if a != c {
		t.Fatalf("interning %q twice gave different handles: %v != %v", "x", a, c)
	}
	if a == b {
		t.Fatalf("distinct names got the same handle")
	}
}

func TestNameRoundTrip(t *testing.T) {
	in := New()
	h := in.Intern("count")
	if got := in.Name(h); got != "count" {
		t.Fatalf("Name(h) = %q, want %q", got, "count")
	}
}

func TestInternTolerateAnyOrder(t *testing.T) {
	in := New()
	names := []string{"z", "a", "m", "a", "z"}
	handles := make(map[string]Handle)
	for _, n := range names {
		h := in.Intern(n)
		if prev, ok := handles[n]; ok && prev != h {
			t.Fatalf("handle for %q changed across calls", n)
		}
		handles[n] = h
	}
}
