package moo

import "math"

// Feasible reports whether every constraint of s is satisfied (g <= 0).
// Unconstrained solutions are always feasible.
func Feasible(s Solution) bool {
	for _, g := range s.G {
		if g > 0 {
			return false
		}
	}
	return true
}

// ConstraintViolation returns the summed positive part of the constraint
// vector. Zero means feasible.
func ConstraintViolation(s Solution) float64 {
	var cv float64
	for _, g := range s.G {
		if g > 0 {
			cv += g
		}
	}
	return cv
}

// Dominates reports whether a dominates b under constrained Pareto
// dominance: a feasible point beats an infeasible one; two infeasible
// points compare by Pareto dominance of their raw constraint vectors,
// where a negative value (slack on a satisfied constraint) counts in the
// comparison; two feasible points compare by Pareto dominance of their
// objectives.
func Dominates(a, b Solution) bool {
	if a.G != nil {
		af, bf := Feasible(a), Feasible(b)
		switch {
		case af && !bf:
			return true
		case !af && bf:
			return false
		case !af && !bf:
			return paretoLess(a.G, b.G)
		}
	}
	return paretoLess(a.F, b.F)
}

// NonDominating reports whether neither solution dominates the other.
func NonDominating(a, b Solution) bool {
	return !Dominates(a, b) && !Dominates(b, a)
}

// SameVector reports whether two solutions carry the same decision vector.
func SameVector(a, b Solution) bool {
	if len(a.X) != len(b.X) {
		return false
	}
	for i := range a.X {
		if a.X[i] != b.X[i] {
			return false
		}
	}
	return true
}

// paretoLess reports whether u Pareto-dominates v for minimization:
// no component worse, at least one strictly better.
func paretoLess(u, v []float64) bool {
	strict := false
	for i := range u {
		if u[i] > v[i] {
			return false
		}
		if u[i] < v[i] {
			strict = true
		}
	}
	return strict
}

// DominationAmount measures by how much a dominates b in objective space:
// the product of per-objective gaps normalized by the fitness range r.
// Components with a zero range are skipped so a degenerate objective
// cannot zero out the whole product.
func DominationAmount(a, b Solution, r []float64) float64 {
	amount := 1.0
	for i := range a.F {
		if r[i] == 0 {
			continue
		}
		amount *= math.Abs(a.F[i]-b.F[i]) / r[i]
	}
	return amount
}
