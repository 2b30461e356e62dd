package anneal

import (
	"math/rand"

	"github.com/EMACC99/amosa/internal/moo"
)

// samplePosition draws a fresh legal value for variable i. Integer
// positions use the half-open convention [lower, upper): the upper bound is
// reachable only through the dedicated corner candidate. Degenerate bounds
// stay pinned to the lower value.
func samplePosition(p moo.Problem, i int, rng *rand.Rand) float64 {
	lo := p.LowerBounds()[i]
	hi := p.UpperBounds()[i]
	if lo == hi {
		return lo
	}
	if p.Types()[i] == moo.Integer {
		return float64(int64(lo) + rng.Int63n(int64(hi)-int64(lo)))
	}
	return clamp(lo+rng.Float64()*(hi-lo), lo, hi)
}

// randomPoint draws a uniform legal decision vector.
func randomPoint(p moo.Problem, rng *rand.Rand) []float64 {
	x := make([]float64, p.NumVariables())
	for i := range x {
		x[i] = samplePosition(p, i, rng)
	}
	return x
}

// lowerPoint returns the decision vector pinned to every lower bound.
func lowerPoint(p moo.Problem) []float64 {
	return append([]float64(nil), p.LowerBounds()...)
}

// upperPoint returns the decision vector pinned to every upper bound.
func upperPoint(p moo.Problem) []float64 {
	return append([]float64(nil), p.UpperBounds()...)
}

// clamp pins v into [lo, hi]. Float arithmetic on sampled steps can
// overshoot a bound by an ulp, which the vector validator would reject.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// chooseDirection picks the variable index and sign for the next climb
// move. A non-negative exclude forces a different index whenever the
// problem has more than one variable.
func chooseDirection(rng *rand.Rand, numVars, exclude int) (idx, sign int) {
	idx = rng.Intn(numVars)
	for numVars > 1 && idx == exclude {
		idx = rng.Intn(numVars)
	}
	sign = 1
	if rng.Float64() < 0.5 {
		sign = -1
	}
	return idx, sign
}

// adaptiveStep samples a legal displacement for x along variable idx in the
// given sign. The magnitude is uniform over the remaining room up to the
// bound; a zero return means x already sits at that bound.
func adaptiveStep(p moo.Problem, x []float64, idx, sign int, rng *rand.Rand) float64 {
	lo := p.LowerBounds()[idx] - x[idx]
	hi := p.UpperBounds()[idx] - x[idx]
	if sign < 0 && lo == 0 {
		return 0
	}
	if sign > 0 && hi == 0 {
		return 0
	}
	if p.Types()[idx] == moo.Integer {
		if sign < 0 {
			return float64(int64(lo) + rng.Int63n(-int64(lo)))
		}
		return float64(1 + rng.Int63n(int64(hi)))
	}
	var step float64
	for step == 0 {
		if sign < 0 {
			step = rng.Float64() * lo
		} else {
			step = rng.Float64() * hi
		}
	}
	return step
}

// hillClimb greedily refines start for maxIterations proposals. Each
// proposal displaces one variable by an adaptive step and is kept only when
// it dominates the incumbent; a rejected or zero-length move re-draws the
// climb direction away from the current variable.
func (o *Optimizer) hillClimb(start moo.Solution, maxIterations int) (moo.Solution, error) {
	x := start
	numVars := o.problem.NumVariables()
	idx, sign := chooseDirection(o.rng, numVars, -1)
	for i := 0; i < maxIterations; i++ {
		step := adaptiveStep(o.problem, x.X, idx, sign, o.rng)
		if step == 0 {
			idx, sign = chooseDirection(o.rng, numVars, idx)
			continue
		}
		xv := append([]float64(nil), x.X...)
		xv[idx] = clamp(xv[idx]+step, o.problem.LowerBounds()[idx], o.problem.UpperBounds()[idx])
		y, _, err := o.cache.Evaluate(xv)
		if err != nil {
			return moo.Solution{}, err
		}
		if moo.Dominates(y, x) && !moo.SameVector(y, x) {
			x = y
		} else {
			idx, sign = chooseDirection(o.rng, numVars, idx)
		}
	}
	return x, nil
}
