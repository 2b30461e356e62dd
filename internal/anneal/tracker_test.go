package anneal

import (
	"math"
	"testing"

	"github.com/EMACC99/amosa/internal/moo"
)

// front builds archive members from objective rows; decision vectors are
// irrelevant to the tracker.
func front(rows ...[]float64) []moo.Solution {
	items := make([]moo.Solution, len(rows))
	for i, row := range rows {
		items[i] = moo.Solution{X: []float64{float64(i)}, F: append([]float64(nil), row...)}
	}
	return items
}

func TestTrackerBaseline(t *testing.T) {
	tr := newTracker()
	deltaIdeal, deltaNadir, phi := tr.Step(front([]float64{0, 0}, []float64{1, 1}))
	if !math.IsInf(deltaIdeal, 1) || !math.IsInf(deltaNadir, 1) {
		t.Errorf("Expected infinite baseline deltas, got %v and %v", deltaIdeal, deltaNadir)
	}
	if phi != 0 {
		t.Errorf("Expected baseline phi 0, got %v", phi)
	}
	if !tr.started() {
		t.Error("Expected tracker to be started after the baseline step")
	}
	if h := tr.PhiHistory(); len(h) != 1 || h[0] != 0 {
		t.Errorf("Expected phi history [0], got %v", h)
	}
}

func TestTrackerStationaryFront(t *testing.T) {
	tr := newTracker()
	tr.Step(front([]float64{0, 0}, []float64{1, 1}))
	deltaIdeal, deltaNadir, phi := tr.Step(front([]float64{0, 0}, []float64{1, 1}))
	if deltaIdeal != 0 || deltaNadir != 0 || phi != 0 {
		t.Errorf("Expected a stationary front to measure (0, 0, 0), got (%v, %v, %v)", deltaIdeal, deltaNadir, phi)
	}
}

func TestTrackerKnownShift(t *testing.T) {
	tr := newTracker()
	tr.Step(front([]float64{0, 0}, []float64{10, 10}))
	deltaIdeal, deltaNadir, phi := tr.Step(front([]float64{0, 0}, []float64{5, 5}))

	if deltaIdeal != 0 {
		t.Errorf("Expected ideal shift 0, got %v", deltaIdeal)
	}
	if deltaNadir != 0.5 {
		t.Errorf("Expected nadir shift 0.5, got %v", deltaNadir)
	}
	// Previous front normalizes to (0,0) and (1,1); the new one to (0,0)
	// and (0.5,0.5). Mean nearest distance is sqrt(0.5)/2.
	want := math.Sqrt(0.5) / 2
	if math.Abs(phi-want) > 1e-12 {
		t.Errorf("Expected phi %v, got %v", want, phi)
	}
}

func TestTrackerDegenerateSpan(t *testing.T) {
	tr := newTracker()
	tr.Step(front([]float64{3, 7}))
	deltaIdeal, deltaNadir, phi := tr.Step(front([]float64{3, 7}))
	if deltaIdeal != 0 || deltaNadir != 0 || phi != 0 {
		t.Errorf("Expected degenerate spans to measure (0, 0, 0), got (%v, %v, %v)", deltaIdeal, deltaNadir, phi)
	}
}

func TestTrackerConverged(t *testing.T) {
	tr := &Tracker{phiHistory: []float64{0.5, 1e-12, 1e-12}}

	if tr.converged(0, 1e-9) {
		t.Error("Expected a zero window to disable the check")
	}
	if !tr.converged(2, 1e-9) {
		t.Error("Expected the last two phi values to count as converged")
	}
	if tr.converged(3, 1e-9) {
		t.Error("Expected the full history to fail the check")
	}
	if tr.converged(5, 1e-9) {
		t.Error("Expected a window longer than the history to fail the check")
	}
	if tr.converged(2, 1e-13) {
		t.Error("Expected a tighter epsilon to fail the check")
	}
}

func TestTrackerRestore(t *testing.T) {
	tr := newTracker()
	tr.restore([]float64{0, 0}, []float64{10, 10}, front([]float64{0, 0}, []float64{10, 10}), []float64{0, 0.1})

	if !tr.started() {
		t.Fatal("Expected a restored tracker to skip the baseline step")
	}
	deltaIdeal, deltaNadir, phi := tr.Step(front([]float64{0, 0}, []float64{5, 5}))
	if deltaIdeal != 0 || deltaNadir != 0.5 {
		t.Errorf("Expected restored bounds to yield shifts (0, 0.5), got (%v, %v)", deltaIdeal, deltaNadir)
	}
	want := math.Sqrt(0.5) / 2
	if math.Abs(phi-want) > 1e-12 {
		t.Errorf("Expected phi %v, got %v", want, phi)
	}
	if h := tr.PhiHistory(); len(h) != 3 || h[0] != 0 || h[1] != 0.1 {
		t.Errorf("Expected the restored history to be extended, got %v", h)
	}
}

func TestTrackerRestore_WithoutBounds(t *testing.T) {
	tr := newTracker()
	tr.restore(nil, nil, nil, []float64{0.2})

	if tr.started() {
		t.Fatal("Expected a tracker restored without bounds to re-baseline")
	}
	deltaIdeal, _, _ := tr.Step(front([]float64{1, 2}))
	if !math.IsInf(deltaIdeal, 1) {
		t.Errorf("Expected an infinite baseline delta, got %v", deltaIdeal)
	}
	if h := tr.PhiHistory(); len(h) != 2 || h[0] != 0.2 {
		t.Errorf("Expected history [0.2 0], got %v", h)
	}
}
