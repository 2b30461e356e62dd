package problems

import "math"

// The ZDT family are two-objective benchmarks with known Pareto fronts.
// All three share the structure f2 = g(x) · h(f1, g): ZDT1 has a convex
// front, ZDT4 adds 9 multimodal variables, ZDT6 a nonuniform front.

// ZDT1 has 30 variables in [0,1] and the convex front f2 = 1 - sqrt(f1).
type ZDT1 struct {
	box
}

func NewZDT1() *ZDT1 {
	return &ZDT1{box: realBox(30, 0, 1, 2, 0)}
}

func (p *ZDT1) Evaluate(x []float64) ([]float64, []float64, error) {
	n := len(x)
	f1 := x[0]
	var sum float64
	for _, v := range x[1:] {
		sum += v
	}
	g := 1 + 9*sum/float64(n-1)
	f2 := g * (1 - math.Sqrt(f1/g))
	return []float64{f1, f2}, nil, nil
}

func (p *ZDT1) KnownOptimalFront(n int) [][]float64 {
	return sqrtFront(n)
}

// ZDT4 has one position variable in [0,1] and nine multimodal variables in
// [-10,10]; its optimal front coincides with ZDT1's.
type ZDT4 struct {
	box
}

func NewZDT4() *ZDT4 {
	p := &ZDT4{box: realBox(10, -10, 10, 2, 0)}
	p.lower[0] = 0
	p.upper[0] = 1
	return p
}

func (p *ZDT4) Evaluate(x []float64) ([]float64, []float64, error) {
	n := len(x)
	f1 := x[0]
	g := 1 + 10*float64(n-1)
	for _, v := range x[1:] {
		g += v*v - 10*math.Cos(4*math.Pi*v)
	}
	f2 := g * (1 - math.Sqrt(f1/g))
	return []float64{f1, f2}, nil, nil
}

func (p *ZDT4) KnownOptimalFront(n int) [][]float64 {
	return sqrtFront(n)
}

// ZDT6 has 10 variables in [0,1], a nonuniformly distributed front
// f2 = 1 - f1² with f1 starting near 0.2808.
type ZDT6 struct {
	box
}

func NewZDT6() *ZDT6 {
	return &ZDT6{box: realBox(10, 0, 1, 2, 0)}
}

func (p *ZDT6) Evaluate(x []float64) ([]float64, []float64, error) {
	s := math.Sin(6 * math.Pi * x[0])
	f1 := 1 - math.Exp(-4*x[0])*math.Pow(s, 6)
	var sum float64
	for _, v := range x[1:] {
		sum += v
	}
	g := 1 + 9*math.Pow(sum/9, 0.25)
	f2 := g * (1 - (f1/g)*(f1/g))
	return []float64{f1, f2}, nil, nil
}

// zdt6FrontStart is the smallest attainable f1 on the ZDT6 front.
const zdt6FrontStart = 0.2807753191

func (p *ZDT6) KnownOptimalFront(n int) [][]float64 {
	if n < 2 {
		n = 2
	}
	front := make([][]float64, n)
	for i := 0; i < n; i++ {
		f1 := zdt6FrontStart + (1-zdt6FrontStart)*float64(i)/float64(n-1)
		front[i] = []float64{f1, 1 - f1*f1}
	}
	return front
}

func sqrtFront(n int) [][]float64 {
	if n < 2 {
		n = 2
	}
	front := make([][]float64, n)
	for i := 0; i < n; i++ {
		f1 := float64(i) / float64(n-1)
		front[i] = []float64{f1, 1 - math.Sqrt(f1)}
	}
	return front
}
