package anneal

import "github.com/EMACC99/amosa/internal/moo"

// perturb derives a trial solution from s by re-sampling between one and
// AnnealingStrength distinct variables with fresh legal values. Trials that
// hit the evaluation cache are re-drawn up to NumVariables times so the
// search keeps visiting new points; after that the cached point is accepted
// as-is.
func (o *Optimizer) perturb(s moo.Solution) (moo.Solution, error) {
	numVars := o.problem.NumVariables()
	width := o.cfg.AnnealingStrength
	if width > numVars {
		width = numVars
	}

	var z []float64
	for attempt := 0; attempt <= numVars; attempt++ {
		z = append([]float64(nil), s.X...)
		count := 1
		if width > 1 {
			count = 1 + o.rng.Intn(width)
		}
		for _, idx := range o.rng.Perm(numVars)[:count] {
			z[idx] = samplePosition(o.problem, idx, o.rng)
		}
		if !o.cache.Contains(z) {
			break
		}
	}

	y, _, err := o.cache.Evaluate(z)
	if err != nil {
		return moo.Solution{}, err
	}
	return y, nil
}
