package anneal

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/EMACC99/amosa/internal/moo"
)

// MultiRun executes one independent annealing run per configuration and
// merges the resulting archives into a single non-dominated set. The
// problem must be safe for concurrent Evaluate calls. Configurations that
// leave the seed unset get distinct time-derived seeds so the runs do not
// shadow each other.
//
// A run already in flight finishes even when ctx is cancelled; the context
// only prevents runs that have not started and fails the merge.
func MultiRun(ctx context.Context, problem moo.Problem, configs []Config, opts RunOptions) (*moo.Archive, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("at least one configuration is required")
	}
	if err := checkDistinctDirs(configs); err != nil {
		return nil, err
	}

	base := time.Now().UnixNano()
	results := make([]*moo.Archive, len(configs))
	g, runCtx := errgroup.WithContext(ctx)
	for i, cfg := range configs {
		i, cfg := i, cfg
		if cfg.Seed <= 0 {
			cfg.Seed = base + int64(i)
		}
		g.Go(func() error {
			opt, err := New(cfg)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			if err := runCtx.Err(); err != nil {
				return err
			}
			arch, err := opt.Run(problem, opts)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = arch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := moo.NewArchive()
	for _, arch := range results {
		merged.Merge(arch)
	}
	return merged, nil
}

// checkDistinctDirs rejects configurations whose persistence directories
// collide. Concurrent runs sharing a cache or checkpoint directory would
// overwrite each other's files.
func checkDistinctDirs(configs []Config) error {
	cacheDirs := make(map[string]int)
	checkpointDirs := make(map[string]int)
	for i, cfg := range configs {
		if cfg.CacheDir != "" {
			if j, ok := cacheDirs[cfg.CacheDir]; ok {
				return &ConfigError{Param: "CacheDir", Reason: fmt.Sprintf("runs %d and %d share directory %s", j, i, cfg.CacheDir)}
			}
			cacheDirs[cfg.CacheDir] = i
		}
		if cfg.CheckpointDir != "" {
			if j, ok := checkpointDirs[cfg.CheckpointDir]; ok {
				return &ConfigError{Param: "CheckpointDir", Reason: fmt.Sprintf("runs %d and %d share directory %s", j, i, cfg.CheckpointDir)}
			}
			checkpointDirs[cfg.CheckpointDir] = i
		}
	}
	return nil
}
