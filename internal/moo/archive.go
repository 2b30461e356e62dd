package moo

// Archive is the set of mutually non-dominated solutions found so far.
// All methods preserve the invariant that no member dominates another and
// no two members share a decision vector. Archive is not safe for
// concurrent use; each annealing run owns its own instance.
type Archive struct {
	items []Solution
}

// NewArchive returns an empty archive.
func NewArchive() *Archive {
	return &Archive{}
}

// Insert offers a candidate to the archive. Members dominated by the
// candidate are removed first; the candidate is then appended unless a
// surviving member dominates it or carries the same decision vector.
// It reports whether the candidate was added.
func (a *Archive) Insert(s Solution) bool {
	kept := a.items[:0]
	for _, y := range a.items {
		if !Dominates(s, y) {
			kept = append(kept, y)
		}
	}
	a.items = kept
	for _, y := range a.items {
		if Dominates(y, s) || SameVector(y, s) {
			return false
		}
	}
	a.items = append(a.items, s.Clone())
	return true
}

// Merge inserts every solution of other into a, returning how many were
// accepted. Dominance filtering applies as in Insert.
func (a *Archive) Merge(other *Archive) int {
	added := 0
	for _, s := range other.items {
		if a.Insert(s) {
			added++
		}
	}
	return added
}

// RemoveInfeasible drops members with violated constraints. It reports
// how many were removed.
func (a *Archive) RemoveInfeasible() int {
	kept := a.items[:0]
	for _, s := range a.items {
		if Feasible(s) {
			kept = append(kept, s)
		}
	}
	removed := len(a.items) - len(kept)
	a.items = kept
	return removed
}

// RemoveDominated rebuilds the archive by re-inserting every member, keeping
// only mutually non-dominated, distinct solutions. Insert maintains the
// invariant incrementally; this is the batch form used after restoring
// external data, where stale dominance relations or duplicate rows may have
// crept in. It reports how many members were dropped.
func (a *Archive) RemoveDominated() int {
	items := a.items
	a.items = nil
	for _, s := range items {
		a.Insert(s)
	}
	return len(items) - len(a.items)
}

// Len returns the number of archived solutions.
func (a *Archive) Len() int {
	return len(a.items)
}

// Items exposes the archive contents. The returned slice is the live
// backing store; callers must not mutate it. Use Snapshot for an owned
// copy.
func (a *Archive) Items() []Solution {
	return a.items
}

// Snapshot returns a deep copy of the archive contents, safe to retain
// across further archive mutation.
func (a *Archive) Snapshot() []Solution {
	out := make([]Solution, len(a.items))
	for i, s := range a.items {
		out[i] = s.Clone()
	}
	return out
}

// Restore replaces the archive contents with a deep copy of items and
// re-establishes the non-dominance and no-duplicate invariants.
func (a *Archive) Restore(items []Solution) {
	a.items = a.items[:0]
	for _, s := range items {
		a.items = append(a.items, s.Clone())
	}
	a.RemoveDominated()
}

func (a *Archive) replace(items []Solution) {
	a.items = items
}

// At returns the i-th member. Callers pick i from their own random source
// so the archive itself stays free of randomness.
func (a *Archive) At(i int) Solution {
	return a.items[i]
}
