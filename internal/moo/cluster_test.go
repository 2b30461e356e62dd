package moo

import (
	"math/rand"
	"testing"
)

func testCloud(n int, rng *rand.Rand) []Solution {
	items := make([]Solution, n)
	for i := range items {
		items[i] = Solution{
			X: []float64{float64(i)},
			F: []float64{rng.Float64() * 100, rng.Float64() * 100},
		}
	}
	return items
}

func TestReduce_PassThrough(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	items := testCloud(5, rng)

	got := Reduce(items, 5, 10, rng)
	if len(got) != 5 {
		t.Errorf("Expected all 5 items back, got %d", len(got))
	}
	got = Reduce(items, 10, 10, rng)
	if len(got) != 5 {
		t.Errorf("Expected all 5 items back for larger target, got %d", len(got))
	}
}

func TestReduce_SingleTarget(t *testing.T) {
	items := []Solution{
		{X: []float64{0}, F: []float64{0, 0}},
		{X: []float64{1}, F: []float64{1, 0}},
		{X: []float64{2}, F: []float64{10, 0}},
	}
	rng := rand.New(rand.NewSource(1))

	got := Reduce(items, 1, 10, rng)
	if len(got) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(got))
	}
	// The middle point minimizes the summed distance to the others.
	if got[0].X[0] != 1 {
		t.Errorf("Expected medoid x=1, got x=%g", got[0].X[0])
	}
}

func TestReduce_TargetSizeAndMembership(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	items := testCloud(60, rng)

	for _, target := range []int{2, 7, 20} {
		got := Reduce(items, target, 10, rng)
		if len(got) != target {
			t.Errorf("target %d: got %d representatives", target, len(got))
		}
		for _, g := range got {
			found := false
			for _, it := range items {
				if SameVector(g, it) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("target %d: representative %v is not an input member", target, g.X)
			}
		}
	}
}

func TestReduce_Deterministic(t *testing.T) {
	base := testCloud(40, rand.New(rand.NewSource(3)))

	a := Reduce(base, 8, 10, rand.New(rand.NewSource(99)))
	b := Reduce(base, 8, 10, rand.New(rand.NewSource(99)))

	if len(a) != len(b) {
		t.Fatalf("Sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !SameVector(a[i], b[i]) {
			t.Fatalf("Representative %d differs between identical seeds", i)
		}
	}
}

func TestReduce_IdenticalObjectives(t *testing.T) {
	// All points coincide in objective space; seeding weights are all zero.
	items := make([]Solution, 10)
	for i := range items {
		items[i] = Solution{X: []float64{float64(i)}, F: []float64{1, 1}}
	}
	rng := rand.New(rand.NewSource(5))

	got := Reduce(items, 3, 10, rng)
	if len(got) != 3 {
		t.Fatalf("Expected 3 representatives, got %d", len(got))
	}
	for i := 0; i < len(got); i++ {
		for j := i + 1; j < len(got); j++ {
			if SameVector(got[i], got[j]) {
				t.Errorf("Representatives %d and %d are the same member %v", i, j, got[i].X)
			}
		}
	}
}

func TestReduce_DistinctMembers(t *testing.T) {
	// One far outlier dominates the seeding weights of the tight group;
	// the representatives must still be distinct members.
	items := []Solution{
		{X: []float64{0}, F: []float64{0, 0}},
		{X: []float64{1}, F: []float64{0.1, 0}},
		{X: []float64{2}, F: []float64{0, 0.1}},
		{X: []float64{3}, F: []float64{0.1, 0.1}},
		{X: []float64{4}, F: []float64{1000, 1000}},
	}

	for seed := int64(0); seed < 50; seed++ {
		got := Reduce(items, 3, 10, rand.New(rand.NewSource(seed)))
		if len(got) != 3 {
			t.Fatalf("Seed %d: expected 3 representatives, got %d", seed, len(got))
		}
		for i := 0; i < len(got); i++ {
			for j := i + 1; j < len(got); j++ {
				if SameVector(got[i], got[j]) {
					t.Fatalf("Seed %d: representatives %d and %d are the same member %v", seed, i, j, got[i].X)
				}
			}
		}
	}
}

func TestPruneTo_Unconstrained(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	a := NewArchive()
	a.replace(testCloud(30, rng))

	a.PruneTo(6, 10, rng)
	if a.Len() != 6 {
		t.Errorf("Expected 6 members, got %d", a.Len())
	}
	kept := a.Items()
	for i := 0; i < len(kept); i++ {
		for j := i + 1; j < len(kept); j++ {
			if SameVector(kept[i], kept[j]) {
				t.Errorf("Members %d and %d share the decision vector %v", i, j, kept[i].X)
			}
		}
	}

	// Already small enough: untouched.
	before := a.Snapshot()
	a.PruneTo(10, 10, rng)
	if a.Len() != len(before) {
		t.Errorf("Prune below target should be a no-op, got %d members", a.Len())
	}
}

func TestPruneTo_FeasiblePriority(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	mixed := make([]Solution, 0, 10)
	for i := 0; i < 4; i++ {
		mixed = append(mixed, Solution{
			X: []float64{float64(i)},
			F: []float64{float64(i), float64(4 - i)},
			G: []float64{-1},
		})
	}
	for i := 0; i < 6; i++ {
		mixed = append(mixed, Solution{
			X: []float64{float64(100 + i)},
			F: []float64{float64(i), float64(i)},
			G: []float64{1 + float64(i)},
		})
	}

	a := NewArchive()
	a.replace(mixed)
	a.PruneTo(6, 10, rng)

	if a.Len() != 6 {
		t.Fatalf("Expected 6 members, got %d", a.Len())
	}
	feasible := 0
	for _, s := range a.Items() {
		if Feasible(s) {
			feasible++
		}
	}
	if feasible != 4 {
		t.Errorf("Expected all 4 feasible members kept, got %d", feasible)
	}
}

func TestPruneTo_FeasibleOverflow(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	mixed := make([]Solution, 0, 8)
	for i := 0; i < 6; i++ {
		mixed = append(mixed, Solution{
			X: []float64{float64(i)},
			F: []float64{float64(i), float64(6 - i)},
			G: []float64{-1},
		})
	}
	for i := 0; i < 2; i++ {
		mixed = append(mixed, Solution{
			X: []float64{float64(50 + i)},
			F: []float64{0, 0},
			G: []float64{2},
		})
	}

	a := NewArchive()
	a.replace(mixed)
	a.PruneTo(4, 10, rng)

	if a.Len() != 4 {
		t.Fatalf("Expected 4 members, got %d", a.Len())
	}
	for _, s := range a.Items() {
		if !Feasible(s) {
			t.Error("Infeasible member should be dropped when feasible ones overflow the target")
		}
	}
}
