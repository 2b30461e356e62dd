package moo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func exportArchive(t *testing.T) *Archive {
	t.Helper()
	a := NewArchive()
	a.Insert(Solution{X: []float64{0.5, 1}, F: []float64{1, 4}})
	a.Insert(Solution{X: []float64{1.5, 2}, F: []float64{4, 1}})
	a.Insert(Solution{X: []float64{2.5, 3}, F: []float64{2, 2}})
	return a
}

func TestWriteCSV(t *testing.T) {
	a := exportArchive(t)
	path := filepath.Join(t.TempDir(), "front.csv")

	if err := a.WriteCSV(path); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading csv failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header plus 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "f0;f1;x0;x1" {
		t.Errorf("Unexpected header: %q", lines[0])
	}
	for i, line := range lines[1:] {
		if got := len(strings.Split(line, ";")); got != 4 {
			t.Errorf("Row %d has %d fields, want 4", i, got)
		}
	}
}

func TestWriteCSV_EmptyArchive(t *testing.T) {
	a := NewArchive()
	if err := a.WriteCSV(filepath.Join(t.TempDir(), "front.csv")); err == nil {
		t.Fatal("Expected error for empty archive")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	a := exportArchive(t)
	path := filepath.Join(t.TempDir(), "archive.json")

	if err := a.WriteJSON(path); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	b := NewArchive()
	if err := b.ReadJSON(path); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if b.Len() != a.Len() {
		t.Fatalf("Expected %d members, got %d", a.Len(), b.Len())
	}
	for i := range a.Items() {
		found := false
		for j := range b.Items() {
			if SameVector(a.At(i), b.At(j)) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Member %v lost in round trip", a.At(i).X)
		}
	}
}

func TestReadJSON_FiltersDominated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.json")
	raw := `[
		{"x": [1], "f": [1, 4]},
		{"x": [2], "f": [2, 5]},
		{"x": [3], "f": [4, 1]}
	]`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("Writing fixture failed: %v", err)
	}

	a := NewArchive()
	if err := a.ReadJSON(path); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if a.Len() != 2 {
		t.Errorf("Expected dominated entry filtered, got %d members", a.Len())
	}
}

func TestReadJSON_Missing(t *testing.T) {
	a := NewArchive()
	err := a.ReadJSON(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestReadJSON_InconsistentDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.json")
	raw := `[
		{"x": [1, 2], "f": [1, 4]},
		{"x": [2], "f": [2, 5]}
	]`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("Writing fixture failed: %v", err)
	}

	a := NewArchive()
	if err := a.ReadJSON(path); err == nil {
		t.Fatal("Expected error for inconsistent dimensions")
	}
}

func TestParetoAccessors(t *testing.T) {
	a := exportArchive(t)

	front := a.ParetoFront()
	set := a.ParetoSet()
	if len(front) != a.Len() || len(set) != a.Len() {
		t.Fatalf("Accessor sizes mismatch: front=%d set=%d", len(front), len(set))
	}
	front[0][0] = 999
	if a.At(0).F[0] == 999 {
		t.Error("ParetoFront should return copies")
	}

	if cv := a.ConstraintViolations(); cv != nil {
		t.Errorf("Expected nil violations for unconstrained archive, got %v", cv)
	}

	c := NewArchive()
	c.Insert(Solution{X: []float64{1}, F: []float64{1}, G: []float64{0.5, -1}})
	cv := c.ConstraintViolations()
	if len(cv) != 1 || len(cv[0]) != 2 {
		t.Fatalf("Expected a 1x2 constraint matrix, got %v", cv)
	}
	if cv[0][0] != 0.5 || cv[0][1] != -1 {
		t.Errorf("Expected raw constraint row [0.5 -1], got %v", cv[0])
	}
	cv[0][0] = 999
	if c.At(0).G[0] == 999 {
		t.Error("ConstraintViolations should return copies")
	}
}
