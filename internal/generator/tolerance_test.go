package generator

import "testing"

func TestAdjustedTarget(t *testing.T) {
	cases := []struct {
		name string
		t    float64
		r    int
		want float64
	}{
		{"r0 unchanged", 10, 0, 10},
		{"r1", 10, 1, 10 * 1.0},
		{"r2", 10, 2, 10 * 1.2},
		{"r3", 10, 3, 10 * 1.05},
		{"r5", 10, 5, 10 * 1.35},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := adjustedTarget(c.t, c.r)
			if diff := got - c.want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("adjustedTarget(%v,%v) = %v, want %v", c.t, c.r, got, c.want)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	if !withinTolerance(9.5, 10, 0.1) {
		t.Fatal("expected 9.5 to be within 10% of 10")
	}
	if withinTolerance(8.0, 10, 0.1) {
		t.Fatal("expected 8.0 to be outside 10% of 10")
	}
	if withinTolerance(5, 0, 0.1) {
		t.Fatal("expected false for non-positive target")
	}
}
