package random

import "testing"

func TestUniformBounds(t *testing.T) {
	r := NewSeeded(7)
	for _, spread := range []int{0, 1, 20, 30} {
		for i := 0; i < 500; i++ {
			v := Uniform(r, spread)
			if v < -spread || v > spread {
				t.Fatalf("Uniform(%d) = %d, out of range", spread, v)
			}
		}
	}
	if got := Uniform(r, -5); got != 0 {
		t.Errorf("Uniform(-5) = %d, want 0", got)
	}
}

func TestSeededIsDeterministic(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 20; i++ {
		if x, y := a.IntN(1000), b.IntN(1000); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}
	pa, pb := a.Perm(10), b.Perm(10)
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("Perm differs at %d: %v vs %v", i, pa, pb)
		}
	}
}
