package main

import (
	"github.com/spf13/cobra"

	"github.com/EMACC99/amosa/internal/anneal"
)

var (
	problemName     string
	csvPath         string
	jsonPath        string
	priorArchive    string
	keepCheckpoints bool
	liveProgress    bool

	hardLimit     int
	softLimit     int
	gamma         int
	hcIterations  int
	tempInitial   float64
	tempFinal     float64
	coolingFactor float64
	annealIters   int
	strength      int
	termWindow    int
	phiEpsilon    float64
	clusterIters  int
	seed          int64
	cacheDir      string
	checkpointDir string
	compressCache bool
	maxShardBytes int64
)

// addRunFlags registers the flags shared by run and multirun.
func addRunFlags(cmd *cobra.Command) {
	defaults := anneal.DefaultConfig()

	cmd.Flags().StringVar(&problemName, "problem", "zdt1", "Benchmark problem (see 'amosa problems')")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Write the final archive to this CSV file")
	cmd.Flags().StringVar(&jsonPath, "json", "", "Write the final archive to this JSON file")
	cmd.Flags().StringVar(&priorArchive, "prior-archive", "", "Seed the archive from a JSON export instead of hill climbing")
	cmd.Flags().BoolVar(&keepCheckpoints, "keep-checkpoints", false, "Keep checkpoint files after a successful run")
	cmd.Flags().BoolVar(&liveProgress, "progress", false, "Log per-step statistics at info level")

	cmd.Flags().IntVar(&hardLimit, "hard-limit", defaults.HardLimit, "Archive size enforced by pruning")
	cmd.Flags().IntVar(&softLimit, "soft-limit", defaults.SoftLimit, "Archive occupancy that triggers pruning")
	cmd.Flags().IntVar(&gamma, "gamma", defaults.Gamma, "Initial pool factor: gamma*soft-limit hill-climbed points")
	cmd.Flags().IntVar(&hcIterations, "hill-climb-iters", defaults.HillClimbIterations, "Hill-climbing iterations per seed candidate")
	cmd.Flags().Float64Var(&tempInitial, "temp-initial", defaults.InitialTemperature, "Initial annealing temperature")
	cmd.Flags().Float64Var(&tempFinal, "temp-final", defaults.FinalTemperature, "Final annealing temperature")
	cmd.Flags().Float64Var(&coolingFactor, "cooling", defaults.CoolingFactor, "Temperature multiplier per step")
	cmd.Flags().IntVar(&annealIters, "anneal-iters", defaults.AnnealingIterations, "Perturbation trials per temperature step")
	cmd.Flags().IntVar(&strength, "strength", defaults.AnnealingStrength, "Maximum variables re-sampled per perturbation")
	cmd.Flags().IntVar(&termWindow, "termination-window", defaults.EarlyTerminationWindow, "Early-termination window in steps (0 disables)")
	cmd.Flags().Float64Var(&phiEpsilon, "phi-epsilon", defaults.PhiEpsilon, "Phi threshold for early termination")
	cmd.Flags().IntVar(&clusterIters, "cluster-iters", defaults.ClusteringMaxIterations, "Clustering rounds per pruning pass")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 = time-based)")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Directory for the persistent evaluation cache")
	cmd.Flags().StringVar(&checkpointDir, "checkpoint-dir", "", "Directory for checkpoints and the statistics trace")
	cmd.Flags().BoolVar(&compressCache, "compress-cache", false, "Write gzip-compressed cache shards")
	cmd.Flags().Int64Var(&maxShardBytes, "max-shard-bytes", defaults.MaxShardBytes, "Approximate size limit per cache shard")
}

// configFromFlags assembles the engine configuration from the parsed flags.
func configFromFlags() anneal.Config {
	cfg := anneal.DefaultConfig()
	cfg.HardLimit = hardLimit
	cfg.SoftLimit = softLimit
	cfg.Gamma = gamma
	cfg.HillClimbIterations = hcIterations
	cfg.InitialTemperature = tempInitial
	cfg.FinalTemperature = tempFinal
	cfg.CoolingFactor = coolingFactor
	cfg.AnnealingIterations = annealIters
	cfg.AnnealingStrength = strength
	cfg.EarlyTerminationWindow = termWindow
	cfg.PhiEpsilon = phiEpsilon
	cfg.ClusteringMaxIterations = clusterIters
	cfg.Seed = seed
	cfg.CacheDir = cacheDir
	cfg.CheckpointDir = checkpointDir
	cfg.CompressCache = compressCache
	cfg.MaxShardBytes = maxShardBytes
	return cfg
}
