// Package moo holds the multi-objective model: decision vectors, the
// problem capability, Pareto dominance, and the non-dominated archive.
package moo

import (
	"fmt"
	"math"
)

// VarType tags a decision variable as integer- or real-valued.
type VarType int

const (
	Integer VarType = iota
	Real
)

func (t VarType) String() string {
	switch t {
	case Integer:
		return "integer"
	case Real:
		return "real"
	default:
		return fmt.Sprintf("VarType(%d)", int(t))
	}
}

// Problem is the capability an optimization target must provide. The engine
// consumes it but never owns it; evaluation always goes through the
// evaluation cache, which validates vectors against Types and bounds first.
type Problem interface {
	NumVariables() int
	Types() []VarType
	LowerBounds() []float64
	UpperBounds() []float64
	NumObjectives() int
	NumConstraints() int

	// Evaluate computes the objective values f (length NumObjectives) and,
	// for constrained problems, the constraint values g (length
	// NumConstraints). A constraint value <= 0 is satisfied; > 0 is violated
	// by that margin.
	Evaluate(x []float64) (f, g []float64, err error)
}

// OptimumProvider is an optional capability: problems with a known
// analytical Pareto front expose it for external reporting. Discover it
// with KnownOptimalFront.
type OptimumProvider interface {
	// KnownOptimalFront returns n points sampled from the true front,
	// one objective vector per point.
	KnownOptimalFront(n int) [][]float64
}

// KnownOptimalFront returns the problem's analytical front when available.
func KnownOptimalFront(p Problem, n int) ([][]float64, bool) {
	op, ok := p.(OptimumProvider)
	if !ok {
		return nil, false
	}
	return op.KnownOptimalFront(n), true
}

// Solution is one candidate: a decision vector with its objective values
// and, for constrained problems, its constraint values. G is nil exactly
// when the problem declares no constraints; that distinction is fixed at
// construction and dominance logic branches on it once.
//
// Solutions are treated as immutable values: every mutation path clones
// first, so archive members never alias each other's slices.
type Solution struct {
	X []float64 `json:"x"`
	F []float64 `json:"f"`
	G []float64 `json:"g,omitempty"`
}

// Clone returns a deep copy of the solution.
func (s Solution) Clone() Solution {
	c := Solution{
		X: make([]float64, len(s.X)),
		F: make([]float64, len(s.F)),
	}
	copy(c.X, s.X)
	copy(c.F, s.F)
	if s.G != nil {
		c.G = make([]float64, len(s.G))
		copy(c.G, s.G)
	}
	return c
}

// CheckVector verifies that x satisfies the problem's decision-vector
// invariant: correct length, integral values on Integer positions, and
// every component within its bounds.
func CheckVector(p Problem, x []float64) error {
	if len(x) != p.NumVariables() {
		return fmt.Errorf("decision vector has %d components, want %d", len(x), p.NumVariables())
	}
	types := p.Types()
	lower := p.LowerBounds()
	upper := p.UpperBounds()
	for i, v := range x {
		if math.IsNaN(v) {
			return fmt.Errorf("variable %d: value is NaN", i)
		}
		if types[i] == Integer && math.Trunc(v) != v {
			return fmt.Errorf("variable %d: %g is not integral", i, v)
		}
		if v < lower[i] || v > upper[i] {
			return fmt.Errorf("variable %d: %g outside [%g, %g]", i, v, lower[i], upper[i])
		}
	}
	return nil
}
