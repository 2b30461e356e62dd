package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/EMACC99/amosa/internal/moo"
)

// DefaultMaxShardBytes bounds a single cache shard file when no explicit
// limit is configured.
const DefaultMaxShardBytes int64 = 8 << 20

const shardPrefix = "cache"

// keySeparator joins vector components into a cache key. FormatFloat output
// never contains it, so keys are unambiguous.
const keySeparator = ";"

// EvalCache memoizes problem evaluations by canonical decision-vector key.
// Every evaluation the engine performs goes through it: the cache validates
// the vector against the problem's types and bounds, answers from memory on
// a hit, and otherwise calls the problem and remembers the result.
//
// The cache grows monotonically within a run and is not safe for concurrent
// use; each engine owns its own instance.
type EvalCache struct {
	problem  moo.Problem
	entries  map[string]cacheEntry
	maxShard int64
	compress bool
	hits     int
	calls    int
}

type cacheEntry struct {
	F []float64 `json:"f"`
	G []float64 `json:"g,omitempty"`
}

// NewEvalCache returns an empty cache for the given problem. maxShardBytes
// bounds persisted shard files (<= 0 selects DefaultMaxShardBytes); compress
// switches persisted shards to gzip.
func NewEvalCache(problem moo.Problem, maxShardBytes int64, compress bool) *EvalCache {
	if maxShardBytes <= 0 {
		maxShardBytes = DefaultMaxShardBytes
	}
	return &EvalCache{
		problem:  problem,
		entries:  make(map[string]cacheEntry),
		maxShard: maxShardBytes,
		compress: compress,
	}
}

// VectorKey renders a decision vector as its canonical cache key: integer
// positions as decimal integers, real positions as shortest round-trip
// decimals, joined by a separator.
func VectorKey(types []moo.VarType, x []float64) string {
	parts := make([]string, len(x))
	for i, v := range x {
		if types[i] == moo.Integer {
			parts[i] = strconv.FormatInt(int64(v), 10)
		} else {
			parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
	}
	return strings.Join(parts, keySeparator)
}

// Evaluate returns the solution for x, answering from the cache when the
// vector was seen before. The vector is validated against the problem's
// types and bounds first; cached entries do not bypass validation. The
// second return value reports whether the call was a cache hit.
func (c *EvalCache) Evaluate(x []float64) (moo.Solution, bool, error) {
	if err := moo.CheckVector(c.problem, x); err != nil {
		return moo.Solution{}, false, fmt.Errorf("invalid decision vector: %w", err)
	}
	c.calls++

	key := VectorKey(c.problem.Types(), x)
	if e, ok := c.entries[key]; ok {
		c.hits++
		return entrySolution(x, e), true, nil
	}

	f, g, err := c.problem.Evaluate(x)
	if err != nil {
		return moo.Solution{}, false, fmt.Errorf("problem evaluation failed: %w", err)
	}
	if len(f) != c.problem.NumObjectives() {
		return moo.Solution{}, false, fmt.Errorf("problem returned %d objectives, want %d", len(f), c.problem.NumObjectives())
	}
	if nc := c.problem.NumConstraints(); len(g) != nc {
		return moo.Solution{}, false, fmt.Errorf("problem returned %d constraint values, want %d", len(g), nc)
	}

	e := cacheEntry{F: append([]float64(nil), f...)}
	if c.problem.NumConstraints() > 0 {
		e.G = append([]float64(nil), g...)
	}
	c.entries[key] = e
	return entrySolution(x, e), false, nil
}

// Contains reports whether x already has a cached result. It does not count
// as a call.
func (c *EvalCache) Contains(x []float64) bool {
	_, ok := c.entries[VectorKey(c.problem.Types(), x)]
	return ok
}

// Hits returns the number of Evaluate calls answered from memory.
func (c *EvalCache) Hits() int {
	return c.hits
}

// TotalCalls returns the number of Evaluate calls that passed validation.
func (c *EvalCache) TotalCalls() int {
	return c.calls
}

// Size returns the number of distinct cached vectors.
func (c *EvalCache) Size() int {
	return len(c.entries)
}

// Load merges all cache shards found in dir into the cache. A nonexistent
// directory is an empty cache, not an error; unreadable or undecodable
// shards are.
func (c *EvalCache) Load(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	shards := 0
	for _, ent := range entries {
		if ent.IsDir() || !isShardName(ent.Name()) {
			continue
		}
		path := filepath.Join(dir, ent.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read cache shard: %w", err)
		}
		if strings.HasSuffix(ent.Name(), ".gz") {
			data, err = gunzip(data)
			if err != nil {
				return fmt.Errorf("failed to decompress cache shard %s: %w", path, err)
			}
		}
		var shard map[string]cacheEntry
		if err := json.Unmarshal(data, &shard); err != nil {
			return fmt.Errorf("failed to decode cache shard %s: %w", path, err)
		}
		for k, e := range shard {
			c.entries[k] = e
		}
		shards++
	}

	slog.Debug("Evaluation cache loaded", "dir", dir, "shards", shards, "entries", len(c.entries))
	return nil
}

// Save writes the cache to dir as numbered shard files, each staying under
// the configured shard size. Existing shards are replaced wholesale so
// stale entries from a previous layout cannot survive.
func (c *EvalCache) Save(dir string) error {
	if dir == "" {
		return fmt.Errorf("cache directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := removeShards(dir); err != nil {
		return err
	}

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	shard := make(map[string]json.RawMessage)
	var shardBytes int64
	index := 0
	for _, k := range keys {
		raw, err := json.Marshal(c.entries[k])
		if err != nil {
			return fmt.Errorf("failed to serialize cache entry: %w", err)
		}
		// Key quoting, colon and comma cost a few bytes per entry.
		entryBytes := int64(len(k) + len(raw) + 6)
		if shardBytes+entryBytes > c.maxShard && len(shard) > 0 {
			if err := c.writeShard(dir, index, shard); err != nil {
				return err
			}
			index++
			shard = make(map[string]json.RawMessage)
			shardBytes = 0
		}
		shard[k] = raw
		shardBytes += entryBytes
	}
	if len(shard) > 0 {
		if err := c.writeShard(dir, index, shard); err != nil {
			return err
		}
		index++
	}

	slog.Debug("Evaluation cache saved", "dir", dir, "shards", index, "entries", len(c.entries))
	return nil
}

func (c *EvalCache) writeShard(dir string, index int, shard map[string]json.RawMessage) error {
	data, err := json.Marshal(shard)
	if err != nil {
		return fmt.Errorf("failed to serialize cache shard: %w", err)
	}
	name := fmt.Sprintf("%s%d.json", shardPrefix, index)
	if c.compress {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return fmt.Errorf("failed to compress cache shard: %w", err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("failed to compress cache shard: %w", err)
		}
		data = buf.Bytes()
		name += ".gz"
	}

	path := filepath.Join(dir, name)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache shard: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename cache shard: %w", err)
	}
	return nil
}

func removeShards(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}
	for _, ent := range entries {
		if ent.IsDir() || !isShardName(ent.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, ent.Name())); err != nil {
			return fmt.Errorf("failed to remove stale cache shard: %w", err)
		}
	}
	return nil
}

// ClearShards removes every shard file under dir. A nonexistent directory
// is a no-op.
func ClearShards(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	return removeShards(dir)
}

// ShardInfo describes the persisted shards in a cache directory.
type ShardInfo struct {
	Files   int
	Bytes   int64
	Entries int
}

// InspectShards summarizes the shard files under dir without mutating
// anything. Entry counts require decoding each shard.
func InspectShards(dir string) (ShardInfo, error) {
	var info ShardInfo
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return info, nil
		}
		return info, fmt.Errorf("failed to read cache directory: %w", err)
	}
	for _, ent := range entries {
		if ent.IsDir() || !isShardName(ent.Name()) {
			continue
		}
		path := filepath.Join(dir, ent.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return info, fmt.Errorf("failed to read cache shard: %w", err)
		}
		info.Files++
		info.Bytes += int64(len(data))
		if strings.HasSuffix(ent.Name(), ".gz") {
			data, err = gunzip(data)
			if err != nil {
				return info, fmt.Errorf("failed to decompress cache shard %s: %w", path, err)
			}
		}
		var shard map[string]json.RawMessage
		if err := json.Unmarshal(data, &shard); err != nil {
			return info, fmt.Errorf("failed to decode cache shard %s: %w", path, err)
		}
		info.Entries += len(shard)
	}
	return info, nil
}

func isShardName(name string) bool {
	if !strings.HasPrefix(name, shardPrefix) {
		return false
	}
	return strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".json.gz")
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func entrySolution(x []float64, e cacheEntry) moo.Solution {
	s := moo.Solution{
		X: append([]float64(nil), x...),
		F: append([]float64(nil), e.F...),
	}
	if e.G != nil {
		s.G = append([]float64(nil), e.G...)
	}
	return s
}
