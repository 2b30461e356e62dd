// Package store persists optimizer state: the evaluation cache, the
// checkpoint files a run resumes from, and the per-step statistics trace.
// Everything is plain JSON on the local filesystem, written atomically via
// temp file + rename so a crash never leaves a half-written artifact.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/EMACC99/amosa/internal/moo"
)

const (
	runCheckpointFile  = "annealing_checkpoint.json"
	seedCheckpointFile = "seeding_checkpoint.json"
)

// RunCheckpoint is the resumable state of the annealing phase, written after
// every temperature step. The convergence tracker's previous normalized
// archive is deliberately not persisted: on resume it is rebuilt by
// normalizing the restored archive with the restored ideal and nadir, so the
// first resumed step measures progress against the checkpointed front.
type RunCheckpoint struct {
	// RunID identifies the run this state belongs to.
	RunID string `json:"runId"`

	// Temperature is the annealing temperature to resume at.
	Temperature float64 `json:"temperature"`

	// Evaluations counts problem evaluations performed so far.
	Evaluations int `json:"evaluations"`

	// PhiHistory holds one phi value per completed temperature step.
	PhiHistory []float64 `json:"phiHistory"`

	// Ideal and Nadir are the objective-space bounds of the archive at
	// checkpoint time, used to rebuild the tracker state.
	Ideal []float64 `json:"ideal,omitempty"`
	Nadir []float64 `json:"nadir,omitempty"`

	// Archive is the non-dominated set at checkpoint time.
	Archive []moo.Solution `json:"archive"`

	// Timestamp records when this checkpoint was created.
	Timestamp time.Time `json:"timestamp"`
}

// Validate checks the checkpoint for structural consistency before it is
// saved or trusted on resume.
func (c *RunCheckpoint) Validate() error {
	if c.RunID == "" {
		return &ValidationError{Field: "RunID", Reason: "cannot be empty"}
	}
	if c.Temperature <= 0 {
		return &ValidationError{Field: "Temperature", Reason: "must be positive"}
	}
	if c.Evaluations < 0 {
		return &ValidationError{Field: "Evaluations", Reason: "cannot be negative"}
	}
	if len(c.Archive) == 0 {
		return &ValidationError{Field: "Archive", Reason: "cannot be empty"}
	}
	numVar := len(c.Archive[0].X)
	numObj := len(c.Archive[0].F)
	if numVar == 0 || numObj == 0 {
		return &ValidationError{Field: "Archive", Reason: "members need decision and objective vectors"}
	}
	for i, s := range c.Archive {
		if len(s.X) != numVar || len(s.F) != numObj {
			return &ValidationError{Field: "Archive", Reason: fmt.Sprintf("member %d has inconsistent dimensions", i)}
		}
	}
	if c.Ideal != nil && len(c.Ideal) != numObj {
		return &ValidationError{Field: "Ideal", Reason: "length must match objective count"}
	}
	if c.Nadir != nil && len(c.Nadir) != numObj {
		return &ValidationError{Field: "Nadir", Reason: "length must match objective count"}
	}
	if c.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	return nil
}

// SeedCheckpoint is the resumable state of the hill-climbing seeding phase.
// Completed counts pool candidates already climbed; Candidates holds their
// results, one per completed slot.
type SeedCheckpoint struct {
	RunID      string         `json:"runId"`
	Completed  int            `json:"completed"`
	Candidates []moo.Solution `json:"candidates"`
	Timestamp  time.Time      `json:"timestamp"`
}

// Validate checks the seeding checkpoint for structural consistency.
func (c *SeedCheckpoint) Validate() error {
	if c.RunID == "" {
		return &ValidationError{Field: "RunID", Reason: "cannot be empty"}
	}
	if c.Completed < 0 {
		return &ValidationError{Field: "Completed", Reason: "cannot be negative"}
	}
	if len(c.Candidates) != c.Completed {
		return &ValidationError{Field: "Candidates", Reason: fmt.Sprintf("got %d entries for %d completed candidates", len(c.Candidates), c.Completed)}
	}
	if c.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	return nil
}

// Manager persists run state under a single directory. The annealing and
// seeding checkpoints are single files overwritten in place; saves are
// atomic so readers never observe torn state.
type Manager struct {
	dir string
}

// NewManager creates the checkpoint directory if needed and returns a
// manager rooted there.
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		return nil, fmt.Errorf("checkpoint directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint directory: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Dir returns the managed directory.
func (m *Manager) Dir() string {
	return m.dir
}

// RunPath returns the annealing checkpoint file path.
func (m *Manager) RunPath() string {
	return filepath.Join(m.dir, runCheckpointFile)
}

// SeedPath returns the seeding checkpoint file path.
func (m *Manager) SeedPath() string {
	return filepath.Join(m.dir, seedCheckpointFile)
}

// SaveRun atomically writes the annealing checkpoint.
func (m *Manager) SaveRun(cp *RunCheckpoint) error {
	if cp == nil {
		return fmt.Errorf("checkpoint cannot be nil")
	}
	if err := cp.Validate(); err != nil {
		return fmt.Errorf("refusing to save run checkpoint: %w", err)
	}
	if err := writeJSONAtomic(m.RunPath(), cp); err != nil {
		return fmt.Errorf("failed to save run checkpoint: %w", err)
	}
	slog.Debug("Run checkpoint saved", "path", m.RunPath(), "temperature", cp.Temperature, "archiveSize", len(cp.Archive))
	return nil
}

// LoadRun reads and validates the annealing checkpoint. A missing file
// yields a NotFoundError.
func (m *Manager) LoadRun() (*RunCheckpoint, error) {
	var cp RunCheckpoint
	if err := readJSON(m.RunPath(), &cp); err != nil {
		return nil, err
	}
	if err := cp.Validate(); err != nil {
		return nil, fmt.Errorf("run checkpoint %s is not usable: %w", m.RunPath(), err)
	}
	slog.Debug("Run checkpoint loaded", "path", m.RunPath(), "temperature", cp.Temperature, "archiveSize", len(cp.Archive))
	return &cp, nil
}

// SaveSeed atomically writes the seeding checkpoint.
func (m *Manager) SaveSeed(cp *SeedCheckpoint) error {
	if cp == nil {
		return fmt.Errorf("checkpoint cannot be nil")
	}
	if err := cp.Validate(); err != nil {
		return fmt.Errorf("refusing to save seeding checkpoint: %w", err)
	}
	if err := writeJSONAtomic(m.SeedPath(), cp); err != nil {
		return fmt.Errorf("failed to save seeding checkpoint: %w", err)
	}
	slog.Debug("Seeding checkpoint saved", "path", m.SeedPath(), "completed", cp.Completed)
	return nil
}

// LoadSeed reads and validates the seeding checkpoint. A missing file
// yields a NotFoundError.
func (m *Manager) LoadSeed() (*SeedCheckpoint, error) {
	var cp SeedCheckpoint
	if err := readJSON(m.SeedPath(), &cp); err != nil {
		return nil, err
	}
	if err := cp.Validate(); err != nil {
		return nil, fmt.Errorf("seeding checkpoint %s is not usable: %w", m.SeedPath(), err)
	}
	slog.Debug("Seeding checkpoint loaded", "path", m.SeedPath(), "completed", cp.Completed)
	return &cp, nil
}

// ClearRun removes the annealing checkpoint. Missing files are not an error.
func (m *Manager) ClearRun() error {
	return removeIfExists(m.RunPath())
}

// ClearSeed removes the seeding checkpoint. Missing files are not an error.
func (m *Manager) ClearSeed() error {
	return removeIfExists(m.SeedPath())
}

// Clear removes both checkpoint files.
func (m *Manager) Clear() error {
	if err := m.ClearRun(); err != nil {
		return err
	}
	return m.ClearSeed()
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// writeJSONAtomic serializes v and writes it via temp file + rename.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize: %w", err)
	}
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{Path: path}
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to deserialize %s: %w", path, err)
	}
	return nil
}
