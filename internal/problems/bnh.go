package problems

// BNH is the Binh-Korn constrained benchmark: two variables, two
// objectives, two inequality constraints.
type BNH struct {
	box
}

func NewBNH() *BNH {
	p := &BNH{box: realBox(2, 0, 5, 2, 2)}
	p.upper[1] = 3
	return p
}

func (p *BNH) Evaluate(x []float64) ([]float64, []float64, error) {
	f := bnhObjectives(x[0], x[1])
	g := []float64{
		(x[0]-5)*(x[0]-5) + x[1]*x[1] - 25,
		7.7 - (x[0]-5)*(x[0]-5) - (x[1]+3)*(x[1]+3),
	}
	return f, g, nil
}

// KnownOptimalFront samples the analytical Pareto set: x0 = x1 on [0,3],
// then x1 pinned at 3 while x0 runs to 5.
func (p *BNH) KnownOptimalFront(n int) [][]float64 {
	if n < 2 {
		n = 2
	}
	front := make([][]float64, n)
	for i := 0; i < n; i++ {
		t := 5 * float64(i) / float64(n-1)
		if t <= 3 {
			front[i] = bnhObjectives(t, t)
		} else {
			front[i] = bnhObjectives(t, 3)
		}
	}
	return front
}

func bnhObjectives(x0, x1 float64) []float64 {
	return []float64{
		4*x0*x0 + 4*x1*x1,
		(x0-5)*(x0-5) + (x1-5)*(x1-5),
	}
}
