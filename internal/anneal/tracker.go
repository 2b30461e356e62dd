package anneal

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/EMACC99/amosa/internal/moo"
)

// Tracker measures how much the archive front moves between temperature
// steps. It keeps the previous step's ideal and nadir points plus the
// archive objectives normalized against them, and derives three indicators
// per step: the ideal-point shift, the nadir-point shift, and phi, the mean
// distance from each previous front member to its nearest current one.
type Tracker struct {
	ideal      []float64
	nadir      []float64
	prevNorm   [][]float64
	phiHistory []float64
}

func newTracker() *Tracker {
	return &Tracker{}
}

// started reports whether a baseline step has been ingested.
func (t *Tracker) started() bool {
	return t.prevNorm != nil
}

// Step ingests the archive at the end of a temperature step. The first call
// establishes the baseline and returns infinite shifts with phi zero; later
// calls normalize against the previous step's bounds before comparing.
func (t *Tracker) Step(items []moo.Solution) (deltaIdeal, deltaNadir, phi float64) {
	rows := objectiveRows(items)
	ideal, nadir := objectiveBounds(rows)

	if !t.started() {
		t.ideal = ideal
		t.nadir = nadir
		t.prevNorm = normalizeRows(rows, ideal, nadir)
		t.phiHistory = append(t.phiHistory, 0)
		return math.Inf(1), math.Inf(1), 0
	}

	deltaIdeal = math.Inf(-1)
	deltaNadir = math.Inf(-1)
	valid := false
	for i := range ideal {
		den := t.nadir[i] - ideal[i]
		if den == 0 {
			continue
		}
		valid = true
		if d := (t.ideal[i] - ideal[i]) / den; d > deltaIdeal {
			deltaIdeal = d
		}
		if d := (t.nadir[i] - nadir[i]) / den; d > deltaNadir {
			deltaNadir = d
		}
	}
	if !valid {
		deltaIdeal = 0
		deltaNadir = 0
	}

	cur := normalizeRows(rows, t.ideal, t.nadir)
	var sum float64
	for _, p := range t.prevNorm {
		best := math.Inf(1)
		for _, q := range cur {
			if d := floats.Distance(p, q, 2); d < best {
				best = d
			}
		}
		sum += best
	}
	phi = sum / float64(len(t.prevNorm))

	t.ideal = ideal
	t.nadir = nadir
	t.prevNorm = cur
	t.phiHistory = append(t.phiHistory, phi)
	return deltaIdeal, deltaNadir, phi
}

// restore rebuilds the tracker from checkpointed state so a resumed run
// continues the indicator series instead of re-baselining.
func (t *Tracker) restore(ideal, nadir []float64, items []moo.Solution, phiHistory []float64) {
	t.phiHistory = append([]float64(nil), phiHistory...)
	if len(ideal) == 0 || len(nadir) == 0 {
		return
	}
	t.ideal = append([]float64(nil), ideal...)
	t.nadir = append([]float64(nil), nadir...)
	t.prevNorm = normalizeRows(objectiveRows(items), t.ideal, t.nadir)
}

// converged reports whether the last window phi values all sit at or below
// eps. A window of zero disables the check, and a history shorter than the
// window is never considered converged.
func (t *Tracker) converged(window int, eps float64) bool {
	if window <= 0 || len(t.phiHistory) < window {
		return false
	}
	for _, phi := range t.phiHistory[len(t.phiHistory)-window:] {
		if phi > eps {
			return false
		}
	}
	return true
}

// PhiHistory returns a copy of the phi series, baseline entry included.
func (t *Tracker) PhiHistory() []float64 {
	return append([]float64(nil), t.phiHistory...)
}

// objectiveRows copies the objective vectors of the archive members.
func objectiveRows(items []moo.Solution) [][]float64 {
	rows := make([][]float64, len(items))
	for i, s := range items {
		rows[i] = append([]float64(nil), s.F...)
	}
	return rows
}

// objectiveBounds returns the per-objective minima and maxima over rows.
func objectiveBounds(rows [][]float64) (ideal, nadir []float64) {
	ideal = append([]float64(nil), rows[0]...)
	nadir = append([]float64(nil), rows[0]...)
	for _, row := range rows[1:] {
		for i, v := range row {
			if v < ideal[i] {
				ideal[i] = v
			}
			if v > nadir[i] {
				nadir[i] = v
			}
		}
	}
	return ideal, nadir
}

// normalizeRows maps each row component into the span between ideal and
// nadir. Components with a degenerate span normalize to zero.
func normalizeRows(rows [][]float64, ideal, nadir []float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		norm := make([]float64, len(row))
		for j, v := range row {
			if den := nadir[j] - ideal[j]; den != 0 {
				norm[j] = (v - ideal[j]) / den
			}
		}
		out[i] = norm
	}
	return out
}
