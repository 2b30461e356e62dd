package moo

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// WriteCSV writes the archive as a semicolon-separated table with a
// f0;..;fM;x0;..;xN header, objectives before variables on each row.
func (a *Archive) WriteCSV(path string) error {
	if len(a.items) == 0 {
		return fmt.Errorf("write archive csv %s: archive is empty", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write archive csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'

	numObj := len(a.items[0].F)
	numVar := len(a.items[0].X)
	header := make([]string, 0, numObj+numVar)
	for i := 0; i < numObj; i++ {
		header = append(header, fmt.Sprintf("f%d", i))
	}
	for i := 0; i < numVar; i++ {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write archive csv: %w", err)
	}

	row := make([]string, 0, numObj+numVar)
	for _, s := range a.items {
		row = row[:0]
		for _, v := range s.F {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		for _, v := range s.X {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write archive csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write archive csv: %w", err)
	}
	return f.Close()
}

// WriteJSON writes the archive as a JSON list of solutions.
func (a *Archive) WriteJSON(path string) error {
	data, err := json.MarshalIndent(a.items, "", "  ")
	if err != nil {
		return fmt.Errorf("write archive json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write archive json: %w", err)
	}
	return nil
}

// ReadJSON replaces the archive contents with the solutions stored at
// path, re-filtering dominated entries. Members must agree on their
// vector dimensions.
func (a *Archive) ReadJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read archive json: %w", err)
	}
	var items []Solution
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("read archive json %s: %w", path, err)
	}
	for i, s := range items {
		if len(s.X) == 0 || len(s.F) == 0 {
			return fmt.Errorf("read archive json %s: entry %d has empty vectors", path, i)
		}
		if len(s.X) != len(items[0].X) || len(s.F) != len(items[0].F) {
			return fmt.Errorf("read archive json %s: entry %d has inconsistent dimensions", path, i)
		}
	}
	a.Restore(items)
	return nil
}

// ParetoFront returns the objective vectors of the archive, one row per
// member.
func (a *Archive) ParetoFront() [][]float64 {
	out := make([][]float64, len(a.items))
	for i, s := range a.items {
		out[i] = append([]float64(nil), s.F...)
	}
	return out
}

// ParetoSet returns the decision vectors of the archive, one row per
// member.
func (a *Archive) ParetoSet() [][]float64 {
	out := make([][]float64, len(a.items))
	for i, s := range a.items {
		out[i] = append([]float64(nil), s.X...)
	}
	return out
}

// ConstraintViolations returns the raw constraint vectors of the archive,
// one row per member. Negative entries are slack on satisfied constraints.
// The result is nil for unconstrained archives.
func (a *Archive) ConstraintViolations() [][]float64 {
	if len(a.items) == 0 || a.items[0].G == nil {
		return nil
	}
	out := make([][]float64, len(a.items))
	for i, s := range a.items {
		out[i] = append([]float64(nil), s.G...)
	}
	return out
}
