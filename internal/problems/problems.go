// Package problems provides the benchmark problems the CLI exposes: the
// ZDT family, the constrained BNH problem, and a trivial identity problem
// used for smoke tests.
package problems

import (
	"fmt"
	"strings"

	"github.com/EMACC99/amosa/internal/moo"
)

// box carries the static description shared by the benchmarks: variable
// types, bounds, and the objective/constraint counts.
type box struct {
	types []moo.VarType
	lower []float64
	upper []float64
	nObj  int
	nCon  int
}

func (b *box) NumVariables() int      { return len(b.types) }
func (b *box) Types() []moo.VarType   { return b.types }
func (b *box) LowerBounds() []float64 { return b.lower }
func (b *box) UpperBounds() []float64 { return b.upper }
func (b *box) NumObjectives() int     { return b.nObj }
func (b *box) NumConstraints() int    { return b.nCon }

func realBox(n int, lower, upper float64, nObj, nCon int) box {
	b := box{
		types: make([]moo.VarType, n),
		lower: make([]float64, n),
		upper: make([]float64, n),
		nObj:  nObj,
		nCon:  nCon,
	}
	for i := 0; i < n; i++ {
		b.types[i] = moo.Real
		b.lower[i] = lower
		b.upper[i] = upper
	}
	return b
}

// Names lists the available benchmark names in CLI order.
func Names() []string {
	return []string{"zdt1", "zdt4", "zdt6", "bnh", "identity"}
}

// ByName returns the benchmark problem registered under name.
func ByName(name string) (moo.Problem, error) {
	switch strings.ToLower(name) {
	case "zdt1":
		return NewZDT1(), nil
	case "zdt4":
		return NewZDT4(), nil
	case "zdt6":
		return NewZDT6(), nil
	case "bnh":
		return NewBNH(), nil
	case "identity":
		return NewIdentity(), nil
	default:
		return nil, fmt.Errorf("unknown problem %q (available: %s)", name, strings.Join(Names(), ", "))
	}
}

// Identity is a two-variable integer problem whose objectives are the
// decision variables themselves. Its Pareto front is the single point
// (0, 0), which makes it a convenient end-to-end smoke test.
type Identity struct {
	box
}

// NewIdentity returns the identity problem on [0,100]².
func NewIdentity() *Identity {
	p := &Identity{box: realBox(2, 0, 100, 2, 0)}
	p.types[0] = moo.Integer
	p.types[1] = moo.Integer
	return p
}

func (p *Identity) Evaluate(x []float64) ([]float64, []float64, error) {
	return []float64{x[0], x[1]}, nil, nil
}

func (p *Identity) KnownOptimalFront(n int) [][]float64 {
	return [][]float64{{0, 0}}
}
