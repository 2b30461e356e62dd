package anneal

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/EMACC99/amosa/internal/moo"
	"github.com/EMACC99/amosa/internal/store"
)

// Phase names the lifecycle states of a run.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseInitializing Phase = "initializing"
	PhaseAnnealing    Phase = "annealing"
	PhaseFinalizing   Phase = "finalizing"
	PhaseDone         Phase = "done"
)

// RunOptions tune a single Run invocation.
type RunOptions struct {
	// PriorArchive seeds the run from an exported archive JSON file
	// instead of hill climbing. A run checkpoint still takes precedence.
	PriorArchive string

	// KeepCheckpoints leaves the checkpoint files in place after a
	// successful run instead of deleting them.
	KeepCheckpoints bool

	// LiveProgress raises per-step statistics from Debug to Info.
	LiveProgress bool
}

// Optimizer runs the archived simulated-annealing search. It is not safe
// for concurrent use; run several instances instead (see MultiRun).
type Optimizer struct {
	cfg  Config
	seed int64
	rng  *rand.Rand

	problem moo.Problem
	opts    RunOptions
	cache   *store.EvalCache
	archive *moo.Archive
	tracker *Tracker
	manager *store.Manager
	trace   *store.TraceWriter

	runID        string
	phase        Phase
	temperature  float64
	tempSteps    int
	resumedEvals int
	duration     time.Duration
}

// New validates cfg and returns an idle optimizer.
func New(cfg Config) (*Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.effectiveSeed()
	return &Optimizer{
		cfg:   cfg,
		seed:  seed,
		rng:   rand.New(rand.NewSource(seed)),
		phase: PhaseIdle,
	}, nil
}

// Run executes one full optimization of problem and returns the final
// archive. Runs resume from a checkpoint when one exists in the configured
// checkpoint directory; otherwise the archive seeds from opts.PriorArchive
// or, failing that, from hill-climbed random points. Calling Run again
// starts a fresh search over the given problem.
func (o *Optimizer) Run(problem moo.Problem, opts RunOptions) (*moo.Archive, error) {
	if err := validateProblem(problem); err != nil {
		return nil, err
	}
	start := time.Now()

	o.problem = problem
	o.opts = opts
	o.runID = uuid.New().String()
	o.archive = moo.NewArchive()
	o.tracker = newTracker()
	o.cache = store.NewEvalCache(problem, o.cfg.MaxShardBytes, o.cfg.CompressCache)
	o.temperature = o.cfg.InitialTemperature
	o.tempSteps = 0
	o.resumedEvals = 0
	o.phase = PhaseInitializing

	if o.cfg.CacheDir != "" {
		if err := o.cache.Load(o.cfg.CacheDir); err != nil {
			return nil, err
		}
	}
	o.manager = nil
	if o.cfg.CheckpointDir != "" {
		m, err := store.NewManager(o.cfg.CheckpointDir)
		if err != nil {
			return nil, err
		}
		o.manager = m
	}

	resumed, err := o.initialize(opts)
	if err != nil {
		return nil, err
	}
	slog.Info("Annealing run starting",
		"runID", o.runID,
		"resumed", resumed,
		"seed", o.seed,
		"archiveSize", o.archive.Len(),
		"temperature", o.temperature,
		"evaluations", o.Evaluations())

	if o.manager != nil {
		tw, err := store.NewTraceWriter(o.manager.Dir(), resumed)
		if err != nil {
			return nil, err
		}
		o.trace = tw
		defer func() {
			o.trace.Close()
			o.trace = nil
		}()
	}

	if err := o.annealLoop(); err != nil {
		return nil, err
	}
	if err := o.finalize(); err != nil {
		return nil, err
	}

	o.duration = time.Since(start)
	o.phase = PhaseDone
	slog.Info("Annealing run finished",
		"runID", o.runID,
		"archiveSize", o.archive.Len(),
		"temperatureSteps", o.tempSteps,
		"evaluations", o.Evaluations(),
		"cacheHits", o.cache.Hits(),
		"duration", o.duration)
	return o.archive, nil
}

// validateProblem rejects problem definitions the engine cannot search.
func validateProblem(p moo.Problem) error {
	if p == nil {
		return fmt.Errorf("problem must not be nil")
	}
	n := p.NumVariables()
	if n <= 0 {
		return fmt.Errorf("problem must declare at least one variable")
	}
	if p.NumObjectives() <= 0 {
		return fmt.Errorf("problem must declare at least one objective")
	}
	if p.NumConstraints() < 0 {
		return fmt.Errorf("problem constraint count cannot be negative")
	}
	types, lower, upper := p.Types(), p.LowerBounds(), p.UpperBounds()
	if len(types) != n || len(lower) != n || len(upper) != n {
		return fmt.Errorf("problem bounds and types must cover all %d variables", n)
	}
	for i := range lower {
		if lower[i] > upper[i] {
			return fmt.Errorf("variable %d has lower bound %v above upper bound %v", i, lower[i], upper[i])
		}
		if types[i] == moo.Integer && (lower[i] != math.Trunc(lower[i]) || upper[i] != math.Trunc(upper[i])) {
			return fmt.Errorf("variable %d is integer but has fractional bounds", i)
		}
	}
	return nil
}

// initialize fills the archive. Precedence: run checkpoint, prior archive
// file, seeding checkpoint, fresh hill climbing.
func (o *Optimizer) initialize(opts RunOptions) (resumed bool, err error) {
	if o.manager != nil {
		cp, err := o.manager.LoadRun()
		if err == nil {
			return true, o.resumeRun(cp)
		}
		if !errors.Is(err, store.ErrNotFound) {
			return false, err
		}
	}

	if opts.PriorArchive != "" {
		if err := o.archive.ReadJSON(opts.PriorArchive); err != nil {
			return false, err
		}
		if err := o.checkShapes(o.archive.Items()); err != nil {
			return false, fmt.Errorf("prior archive %s: %w", opts.PriorArchive, err)
		}
		if o.archive.Len() == 0 {
			return false, fmt.Errorf("prior archive %s holds no solutions", opts.PriorArchive)
		}
		slog.Debug("Archive seeded from prior run", "source", opts.PriorArchive, "archiveSize", o.archive.Len())
		return false, nil
	}

	candidates, err := o.seedCandidates()
	if err != nil {
		return false, err
	}
	for _, c := range candidates {
		o.archive.Insert(c)
	}
	if o.archive.Len() == 0 {
		return false, fmt.Errorf("initialization produced an empty archive")
	}
	return false, nil
}

// resumeRun restores optimizer state from a run checkpoint.
func (o *Optimizer) resumeRun(cp *store.RunCheckpoint) error {
	o.runID = cp.RunID
	o.temperature = cp.Temperature
	o.resumedEvals = cp.Evaluations
	o.archive.Restore(cp.Archive)
	if err := o.checkShapes(o.archive.Items()); err != nil {
		return fmt.Errorf("checkpoint %s: %w", o.manager.RunPath(), err)
	}
	o.tracker.restore(cp.Ideal, cp.Nadir, o.archive.Items(), cp.PhiHistory)
	slog.Debug("Run checkpoint restored",
		"runID", cp.RunID,
		"temperature", cp.Temperature,
		"archiveSize", o.archive.Len(),
		"savedAt", cp.Timestamp)
	return nil
}

// checkShapes verifies restored solutions against the problem dimensions
// before they reach the search.
func (o *Optimizer) checkShapes(sols []moo.Solution) error {
	numCon := o.problem.NumConstraints()
	for i, s := range sols {
		if len(s.X) != o.problem.NumVariables() {
			return fmt.Errorf("solution %d has %d variables, problem expects %d", i, len(s.X), o.problem.NumVariables())
		}
		if len(s.F) != o.problem.NumObjectives() {
			return fmt.Errorf("solution %d has %d objectives, problem expects %d", i, len(s.F), o.problem.NumObjectives())
		}
		if len(s.G) != numCon || (s.G != nil) != (numCon > 0) {
			return fmt.Errorf("solution %d has %d constraint values, problem expects %d", i, len(s.G), numCon)
		}
	}
	return nil
}

// seedCandidates produces the initial candidate pool: the two bound corner
// points plus Gamma*SoftLimit hill-climbed random points. Progress is
// checkpointed per candidate so an interrupted initialization resumes
// without repeating completed climbs.
func (o *Optimizer) seedCandidates() ([]moo.Solution, error) {
	total := 2
	if o.cfg.HillClimbIterations > 0 {
		total += o.cfg.Gamma * o.cfg.SoftLimit
	}
	candidates := make([]moo.Solution, 0, total)
	completed := 0

	if o.manager != nil {
		cp, err := o.manager.LoadSeed()
		switch {
		case err == nil:
			if err := o.checkShapes(cp.Candidates); err != nil {
				return nil, fmt.Errorf("seeding checkpoint %s: %w", o.manager.SeedPath(), err)
			}
			o.runID = cp.RunID
			candidates = append(candidates, cp.Candidates...)
			completed = cp.Completed
			if completed > total {
				completed = total
				candidates = candidates[:total]
			}
			slog.Debug("Seeding checkpoint restored", "runID", cp.RunID, "completed", completed, "total", total)
		case !errors.Is(err, store.ErrNotFound):
			return nil, err
		}
	}

	for ; completed < total; completed++ {
		var s moo.Solution
		var err error
		switch completed {
		case 0:
			s, _, err = o.cache.Evaluate(lowerPoint(o.problem))
		case 1:
			s, _, err = o.cache.Evaluate(upperPoint(o.problem))
		default:
			s, err = o.seedOne()
		}
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, s)
		if o.manager != nil {
			cp := &store.SeedCheckpoint{
				RunID:      o.runID,
				Completed:  completed + 1,
				Candidates: candidates,
				Timestamp:  time.Now(),
			}
			if err := o.manager.SaveSeed(cp); err != nil {
				return nil, err
			}
		}
	}
	return candidates, nil
}

// seedOne hill-climbs a single random starting point.
func (o *Optimizer) seedOne() (moo.Solution, error) {
	start, _, err := o.cache.Evaluate(randomPoint(o.problem, o.rng))
	if err != nil {
		return moo.Solution{}, err
	}
	return o.hillClimb(start, o.cfg.HillClimbIterations)
}

// annealLoop runs the temperature schedule. Each step performs
// AnnealingIterations perturbation trials, then records statistics, saves a
// checkpoint and cools. The early-termination criterion short-circuits the
// schedule by dropping the temperature to its final value.
func (o *Optimizer) annealLoop() error {
	o.phase = PhaseAnnealing

	// A restored or freshly seeded archive may exceed the hard limit.
	o.archive.PruneTo(o.cfg.HardLimit, o.cfg.ClusteringMaxIterations, o.rng)

	x := o.archive.At(o.rng.Intn(o.archive.Len()))

	if !o.tracker.started() {
		if err := o.recordStep(); err != nil {
			return err
		}
	}

	for o.temperature > o.cfg.FinalTemperature {
		for i := 0; i < o.cfg.AnnealingIterations; i++ {
			var err error
			x, err = o.trial(x)
			if err != nil {
				return err
			}
		}
		o.tempSteps++
		if err := o.recordStep(); err != nil {
			return err
		}
		if o.tracker.converged(o.cfg.EarlyTerminationWindow, o.cfg.PhiEpsilon) {
			slog.Info("Early-termination criterion met", "runID", o.runID, "temperature", o.temperature, "window", o.cfg.EarlyTerminationWindow)
			o.temperature = o.cfg.FinalTemperature
		} else {
			o.temperature *= o.cfg.CoolingFactor
		}
	}
	return nil
}

// trial perturbs x and applies the dominance-based acceptance rules,
// returning the next current point.
func (o *Optimizer) trial(x moo.Solution) (moo.Solution, error) {
	y, err := o.perturb(x)
	if err != nil {
		return moo.Solution{}, err
	}

	r := o.fitnessRange(x, y)
	var dominating []moo.Solution
	dominatedCount := 0
	for _, s := range o.archive.Items() {
		if moo.Dominates(s, y) {
			dominating = append(dominating, s)
		} else if moo.Dominates(y, s) {
			dominatedCount++
		}
	}

	switch {
	case moo.Dominates(x, y):
		// The trial is worse than the current point: accept it with a
		// probability that shrinks with the average domination amount.
		delta := moo.DominationAmount(x, y, r)
		for _, s := range dominating {
			delta += moo.DominationAmount(s, y, r)
		}
		delta /= float64(len(dominating) + 1)
		if o.accept(sigmoid(-delta * o.temperature)) {
			return y, nil
		}
		return x, nil

	case moo.NonDominating(x, y):
		if len(dominating) > 0 {
			var delta float64
			for _, s := range dominating {
				delta += moo.DominationAmount(s, y, r)
			}
			delta /= float64(len(dominating))
			if o.accept(sigmoid(-delta * o.temperature)) {
				return y, nil
			}
			return x, nil
		}
		o.insertAndPrune(y)
		return y, nil

	case moo.Dominates(y, x):
		if len(dominating) > 0 {
			// Jump to the archive member closest to the trial in
			// domination terms. This acceptance is not temperature-scaled.
			minAmount := math.Inf(1)
			chosen := 0
			for i, s := range dominating {
				if a := moo.DominationAmount(s, y, r); a < minAmount {
					minAmount = a
					chosen = i
				}
			}
			if o.accept(sigmoid(minAmount)) {
				return dominating[chosen], nil
			}
			return x, nil
		}
		o.insertAndPrune(y)
		return y, nil
	}

	return moo.Solution{}, fmt.Errorf("trial relation is unclassifiable: x=%v fx=%v y=%v fy=%v dominating=%d dominated=%d",
		x.X, x.F, y.X, y.F, len(dominating), dominatedCount)
}

// insertAndPrune adds y to the archive and shrinks it to the hard limit
// once occupancy passes the soft limit.
func (o *Optimizer) insertAndPrune(y moo.Solution) {
	o.archive.Insert(y)
	if o.archive.Len() > o.cfg.SoftLimit {
		o.archive.PruneTo(o.cfg.HardLimit, o.cfg.ClusteringMaxIterations, o.rng)
	}
}

// fitnessRange returns the per-objective spread over the archive plus the
// two trial endpoints.
func (o *Optimizer) fitnessRange(x, y moo.Solution) []float64 {
	lo := append([]float64(nil), x.F...)
	hi := append([]float64(nil), x.F...)
	widen := func(f []float64) {
		for i, v := range f {
			if v < lo[i] {
				lo[i] = v
			}
			if v > hi[i] {
				hi[i] = v
			}
		}
	}
	widen(y.F)
	for _, s := range o.archive.Items() {
		widen(s.F)
	}
	r := make([]float64, len(lo))
	for i := range r {
		r[i] = hi[i] - lo[i]
	}
	return r
}

// accept draws a Bernoulli outcome with probability p.
func (o *Optimizer) accept(p float64) bool {
	return o.rng.Float64() < p
}

// sigmoid is the logistic acceptance squash.
func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

// recordStep ingests the archive into the tracker, emits the statistics
// line and trace entry, and checkpoints the run.
func (o *Optimizer) recordStep() error {
	deltaIdeal, deltaNadir, phi := o.tracker.Step(o.archive.Items())

	var cs *store.ConstraintStats
	attrs := []any{
		"runID", o.runID,
		"temperature", o.temperature,
		"evaluations", o.Evaluations(),
		"archiveSize", o.archive.Len(),
		"deltaIdeal", deltaIdeal,
		"deltaNadir", deltaNadir,
		"phi", phi,
	}
	if o.problem.NumConstraints() > 0 {
		cs = constraintStats(o.archive.Items())
		attrs = append(attrs,
			"feasible", cs.Feasible,
			"cvMin", cs.MinViolation,
			"cvAvg", cs.AvgViolation)
	}
	if o.opts.LiveProgress {
		slog.Info("Annealing step", attrs...)
	} else {
		slog.Debug("Annealing step", attrs...)
	}

	if o.trace != nil {
		entry := store.TraceEntry{
			Temperature: o.temperature,
			Evaluations: o.Evaluations(),
			ArchiveSize: o.archive.Len(),
			Constraints: cs,
			Phi:         phi,
			Timestamp:   time.Now(),
		}
		entry.SetDeltas(deltaIdeal, deltaNadir)
		if err := o.trace.Write(entry); err != nil {
			return err
		}
		if err := o.trace.Flush(); err != nil {
			return err
		}
	}

	if o.manager != nil {
		cp := &store.RunCheckpoint{
			RunID:       o.runID,
			Temperature: o.temperature,
			Evaluations: o.Evaluations(),
			PhiHistory:  o.tracker.PhiHistory(),
			Ideal:       append([]float64(nil), o.tracker.ideal...),
			Nadir:       append([]float64(nil), o.tracker.nadir...),
			Archive:     o.archive.Snapshot(),
			Timestamp:   time.Now(),
		}
		if err := o.manager.SaveRun(cp); err != nil {
			return err
		}
	}
	return nil
}

// constraintStats summarizes archive feasibility: the feasible member count
// and the minimum and mean positive constraint components. Both statistics
// are zero for a fully feasible archive.
func constraintStats(items []moo.Solution) *store.ConstraintStats {
	cs := &store.ConstraintStats{}
	var sum float64
	var count int
	minV := math.Inf(1)
	for _, s := range items {
		if moo.Feasible(s) {
			cs.Feasible++
		}
		for _, g := range s.G {
			if g > 0 {
				sum += g
				count++
				if g < minV {
					minV = g
				}
			}
		}
	}
	if count > 0 {
		cs.MinViolation = minV
		cs.AvgViolation = sum / float64(count)
	}
	return cs
}

// finalize cleans the archive, persists the cache and removes checkpoints.
func (o *Optimizer) finalize() error {
	o.phase = PhaseFinalizing

	removedInfeasible := o.archive.RemoveInfeasible()
	removedDominated := o.archive.RemoveDominated()
	o.archive.PruneTo(o.cfg.HardLimit, o.cfg.ClusteringMaxIterations, o.rng)
	if removedInfeasible > 0 || removedDominated > 0 {
		slog.Debug("Final archive cleanup",
			"runID", o.runID,
			"removedInfeasible", removedInfeasible,
			"removedDominated", removedDominated,
			"archiveSize", o.archive.Len())
	}

	if o.cfg.CacheDir != "" {
		if err := o.cache.Save(o.cfg.CacheDir); err != nil {
			return err
		}
	}
	if o.manager != nil && !o.opts.KeepCheckpoints {
		if err := o.manager.Clear(); err != nil {
			return err
		}
	}
	return nil
}

// RunID returns the identifier of the most recent run.
func (o *Optimizer) RunID() string { return o.runID }

// Phase returns the current lifecycle state.
func (o *Optimizer) Phase() Phase { return o.phase }

// Seed returns the resolved random seed.
func (o *Optimizer) Seed() int64 { return o.seed }

// Duration returns the wall-clock time of the last completed run.
func (o *Optimizer) Duration() time.Duration { return o.duration }

// TemperatureSteps returns how many temperature steps the last run
// executed, the initialization baseline excluded.
func (o *Optimizer) TemperatureSteps() int { return o.tempSteps }

// Evaluations returns the number of problem evaluations: calls actually
// forwarded to the problem by this process plus any count restored from a
// run checkpoint. Cache hits are not evaluations.
func (o *Optimizer) Evaluations() int {
	if o.cache == nil {
		return 0
	}
	return o.resumedEvals + o.cache.TotalCalls() - o.cache.Hits()
}

// CacheHits returns how many lookups the evaluation cache answered.
func (o *Optimizer) CacheHits() int {
	if o.cache == nil {
		return 0
	}
	return o.cache.Hits()
}

// PhiHistory returns the tracker's phi series for the last run.
func (o *Optimizer) PhiHistory() []float64 {
	if o.tracker == nil {
		return nil
	}
	return o.tracker.PhiHistory()
}

// Archive returns the archive of the last run, nil before any run.
func (o *Optimizer) Archive() *moo.Archive { return o.archive }

// ParetoFront returns the objective vectors of the final archive.
func (o *Optimizer) ParetoFront() [][]float64 {
	if o.archive == nil {
		return nil
	}
	return o.archive.ParetoFront()
}

// ParetoSet returns the decision vectors of the final archive.
func (o *Optimizer) ParetoSet() [][]float64 {
	if o.archive == nil {
		return nil
	}
	return o.archive.ParetoSet()
}

// ConstraintViolations returns the raw constraint matrix of the archive,
// one row per member, nil for unconstrained problems.
func (o *Optimizer) ConstraintViolations() [][]float64 {
	if o.archive == nil {
		return nil
	}
	return o.archive.ConstraintViolations()
}
