package moo

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Reduce shrinks a set of solutions to at most target representatives by
// k-means-style clustering in objective space. Seeding follows k-means++:
// the first centroid is uniform, each further one is drawn with probability
// proportional to its summed distance to the centroids chosen so far, and
// points already chosen carry zero weight so no member is drawn twice.
// Rounds of assign-then-recenter run until the centroids reach a fixpoint
// or maxIter rounds have passed; a point that is itself a centroid stays in
// its own cluster, the medoid of each cluster becomes its centroid, and an
// empty cluster keeps its previous one. The representatives are always
// distinct members of the input.
//
// When target >= len(items) the input is returned unchanged, and target 1
// collapses the set to its medoid.
func Reduce(items []Solution, target, maxIter int, rng *rand.Rand) []Solution {
	if target >= len(items) {
		return items
	}
	if target == 1 {
		return []Solution{medoid(items)}
	}

	centroids := make([]Solution, 0, target)
	chosen := make([]bool, len(items))
	first := rng.Intn(len(items))
	chosen[first] = true
	centroids = append(centroids, items[first])
	weights := make([]float64, len(items))
	for len(centroids) < target {
		var total float64
		for i, p := range items {
			if chosen[i] {
				weights[i] = 0
				continue
			}
			var sum float64
			for _, c := range centroids {
				sum += floats.Distance(p.F, c.F, 2)
			}
			weights[i] = sum
			total += sum
		}
		if total <= 0 {
			// Every remaining point coincides with a centroid in objective
			// space; draw uniformly over the unchosen ones.
			for i := range items {
				if !chosen[i] {
					weights[i] = 1
					total++
				}
			}
		}
		idx := pickWeighted(rng, weights, total)
		chosen[idx] = true
		centroids = append(centroids, items[idx])
	}

	for iter := 0; iter < maxIter; iter++ {
		clusters := make([][]Solution, len(centroids))
		for _, p := range items {
			// A centroid claims its own point; the rest go to the nearest.
			best := centroidIndex(centroids, p)
			if best < 0 {
				bestDist := math.Inf(1)
				for ci := range centroids {
					if d := floats.Distance(p.F, centroids[ci].F, 2); d < bestDist {
						bestDist, best = d, ci
					}
				}
			}
			clusters[best] = append(clusters[best], p)
		}
		next := make([]Solution, len(centroids))
		moved := false
		for ci, cluster := range clusters {
			if len(cluster) == 0 {
				next[ci] = centroids[ci]
				continue
			}
			next[ci] = medoid(cluster)
			if !SameVector(next[ci], centroids[ci]) {
				moved = true
			}
		}
		centroids = next
		if !moved {
			break
		}
	}
	return centroids
}

// pickWeighted draws an index proportional to weights via cumulative sums.
// Zero-weight indices are never drawn; at least one weight must be positive.
func pickWeighted(rng *rand.Rand, weights []float64, total float64) int {
	r := rng.Float64() * total
	var acc float64
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		last = i
		if r < acc {
			return i
		}
	}
	return last
}

// centroidIndex returns the position of p among the centroids, or -1 when
// p is not itself a centroid.
func centroidIndex(centroids []Solution, p Solution) int {
	for ci := range centroids {
		if SameVector(centroids[ci], p) {
			return ci
		}
	}
	return -1
}

// medoid returns the member with the smallest summed distance to the rest
// of the set.
func medoid(items []Solution) Solution {
	best, bestSum := 0, math.Inf(1)
	for i := range items {
		var sum float64
		for j := range items {
			if i == j {
				continue
			}
			sum += floats.Distance(items[i].F, items[j].F, 2)
		}
		if sum < bestSum {
			bestSum, best = sum, i
		}
	}
	return items[best]
}

// PruneTo reduces the archive to at most target members. On constrained
// problems feasible members have priority: they are clustered alone when
// they exceed the target, otherwise they are all kept and the infeasible
// remainder is clustered into the remaining slots.
func (a *Archive) PruneTo(target, maxIter int, rng *rand.Rand) {
	if len(a.items) <= target {
		return
	}
	if a.items[0].G == nil {
		a.replace(Reduce(a.items, target, maxIter, rng))
		return
	}
	var feasible, infeasible []Solution
	for _, s := range a.items {
		if Feasible(s) {
			feasible = append(feasible, s)
		} else {
			infeasible = append(infeasible, s)
		}
	}
	if len(feasible) >= target {
		a.replace(Reduce(feasible, target, maxIter, rng))
		return
	}
	a.replace(append(feasible, Reduce(infeasible, target-len(feasible), maxIter, rng)...))
}
