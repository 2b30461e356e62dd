package moo

import (
	"math"
	"testing"
)

// unconstrained builds a solution with objectives only.
func unconstrained(f ...float64) Solution {
	return Solution{X: []float64{0}, F: f}
}

// constrained builds a solution with objectives f and constraint values g.
func constrained(f, g []float64) Solution {
	return Solution{X: []float64{0}, F: f, G: g}
}

func TestFeasible(t *testing.T) {
	tests := []struct {
		name string
		s    Solution
		want bool
	}{
		{"unconstrained", unconstrained(1, 2), true},
		{"all satisfied", constrained([]float64{1}, []float64{-1, 0}), true},
		{"one violated", constrained([]float64{1}, []float64{-1, 0.5}), false},
		{"all violated", constrained([]float64{1}, []float64{2, 3}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Feasible(tt.s); got != tt.want {
				t.Errorf("Feasible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConstraintViolation(t *testing.T) {
	s := constrained([]float64{1}, []float64{-2, 0.5, 1.5})
	if got := ConstraintViolation(s); got != 2.0 {
		t.Errorf("Expected violation 2.0, got %g", got)
	}
	if got := ConstraintViolation(unconstrained(1)); got != 0 {
		t.Errorf("Expected zero violation for unconstrained, got %g", got)
	}
}

func TestDominates_Unconstrained(t *testing.T) {
	tests := []struct {
		name string
		a, b Solution
		want bool
	}{
		{"strictly better", unconstrained(1, 1), unconstrained(2, 2), true},
		{"better on one, equal on other", unconstrained(1, 2), unconstrained(2, 2), true},
		{"equal vectors", unconstrained(1, 2), unconstrained(1, 2), false},
		{"worse on one", unconstrained(1, 3), unconstrained(2, 2), false},
		{"strictly worse", unconstrained(3, 3), unconstrained(2, 2), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dominates(tt.a, tt.b); got != tt.want {
				t.Errorf("Dominates() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDominates_FeasibilityRules(t *testing.T) {
	feasGood := constrained([]float64{5, 5}, []float64{-1})
	feasBad := constrained([]float64{1, 1}, []float64{0})
	infeas := constrained([]float64{0, 0}, []float64{2})

	// A feasible point beats an infeasible one even with worse objectives.
	if !Dominates(feasGood, infeas) {
		t.Error("Feasible should dominate infeasible regardless of objectives")
	}
	if Dominates(infeas, feasGood) {
		t.Error("Infeasible must not dominate feasible")
	}

	// Two feasible points fall back to objective dominance.
	if !Dominates(feasBad, feasGood) {
		t.Error("Expected objective dominance between feasible points")
	}
}

func TestDominates_BothInfeasible(t *testing.T) {
	lighter := constrained([]float64{9, 9}, []float64{1, 0.5})
	heavier := constrained([]float64{0, 0}, []float64{2, 0.5})
	incomparable := constrained([]float64{0, 0}, []float64{0.5, 2})

	// Violation vectors decide; objectives are ignored.
	if !Dominates(lighter, heavier) {
		t.Error("Smaller violation vector should dominate")
	}
	if Dominates(heavier, lighter) {
		t.Error("Larger violation vector must not dominate")
	}
	if !NonDominating(lighter, incomparable) {
		t.Error("Incomparable violation vectors should be mutually non-dominating")
	}

	// Raw constraint values decide, so slack on a satisfied constraint
	// breaks the tie against an equally-violating tight point.
	slack := constrained([]float64{0}, []float64{-5, 1})
	tight := constrained([]float64{0}, []float64{0, 1})
	if !Dominates(slack, tight) {
		t.Error("Slack on a satisfied constraint should dominate an equally-violating tight point")
	}
	if Dominates(tight, slack) {
		t.Error("The tight point must not dominate the slack one")
	}
}

func TestNonDominating(t *testing.T) {
	a := unconstrained(1, 3)
	b := unconstrained(2, 2)
	if !NonDominating(a, b) {
		t.Error("Expected trade-off points to be mutually non-dominating")
	}
	if NonDominating(unconstrained(1, 1), unconstrained(2, 2)) {
		t.Error("Dominated pair must not report as non-dominating")
	}
}

func TestSameVector(t *testing.T) {
	a := Solution{X: []float64{1, 2, 3}}
	b := Solution{X: []float64{1, 2, 3}}
	c := Solution{X: []float64{1, 2, 4}}
	d := Solution{X: []float64{1, 2}}

	if !SameVector(a, b) {
		t.Error("Identical vectors should match")
	}
	if SameVector(a, c) {
		t.Error("Differing component should not match")
	}
	if SameVector(a, d) {
		t.Error("Differing length should not match")
	}
}

func TestDominationAmount(t *testing.T) {
	a := unconstrained(1, 2)
	b := unconstrained(3, 5)

	got := DominationAmount(a, b, []float64{2, 3})
	if math.Abs(got-1.0) > 1e-12 {
		t.Errorf("Expected amount 1.0, got %g", got)
	}

	// Zero-range components are skipped instead of zeroing the product.
	got = DominationAmount(a, b, []float64{0, 3})
	if math.Abs(got-1.0) > 1e-12 {
		t.Errorf("Expected amount 1.0 with zero range skipped, got %g", got)
	}

	// All ranges zero degenerates to the neutral product.
	got = DominationAmount(a, b, []float64{0, 0})
	if got != 1.0 {
		t.Errorf("Expected neutral amount 1.0, got %g", got)
	}
}
