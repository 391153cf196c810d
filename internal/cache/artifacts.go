// Package cache stores the final artifact bundles of terminal runs on disk
// so revisiting a run does not refetch its full status payload.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type ArtifactCache struct {
	dir     string
	maxSize int64         // max total cache size in bytes
	ttl     time.Duration // cache entry TTL
}

func NewArtifactCache(dir string, maxSizeMB int, ttl time.Duration) (*ArtifactCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact cache dir: %w", err)
	}
	return &ArtifactCache{
		dir:     dir,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		ttl:     ttl,
	}, nil
}

func (ac *ArtifactCache) entryPath(runID string) string {
	// Run ids are server-assigned and opaque; sanitize path separators
	// rather than trusting them.
	safe := strings.NewReplacer("/", "_", string(filepath.Separator), "_").Replace(runID)
	return filepath.Join(ac.dir, "run-"+safe+".json")
}

func (ac *ArtifactCache) Has(runID string) bool {
	info, err := os.Stat(ac.entryPath(runID))
	if err != nil {
		return false
	}
	return !info.IsDir() && time.Since(info.ModTime()) < ac.ttl
}

// Store writes a run's artifact bundle to the cache, replacing any previous
// entry for that run.
func (ac *ArtifactCache) Store(runID string, artifacts map[string]json.RawMessage) error {
	data, err := json.Marshal(artifacts)
	if err != nil {
		return fmt.Errorf("marshal artifact bundle: %w", err)
	}
	if err := os.WriteFile(ac.entryPath(runID), data, 0o644); err != nil {
		return fmt.Errorf("write artifact cache entry: %w", err)
	}
	return nil
}

func (ac *ArtifactCache) Get(runID string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(ac.entryPath(runID))
	if err != nil {
		return nil, err
	}
	var artifacts map[string]json.RawMessage
	if err := json.Unmarshal(data, &artifacts); err != nil {
		return nil, fmt.Errorf("decode artifact cache entry: %w", err)
	}
	return artifacts, nil
}

// Delete removes a run's cache entry. Missing entries are not an error so
// delete cleanup can call this unconditionally.
func (ac *ArtifactCache) Delete(runID string) error {
	err := os.Remove(ac.entryPath(runID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Evict removes expired entries, then the oldest entries until the cache
// fits the size cap.
func (ac *ArtifactCache) Evict() error {
	type cacheEntry struct {
		path    string
		modTime time.Time
		size    int64
	}

	dirEntries, err := os.ReadDir(ac.dir)
	if err != nil {
		return err
	}

	var entries []cacheEntry
	var totalSize int64
	for _, e := range dirEntries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "run-") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		entries = append(entries, cacheEntry{
			path:    filepath.Join(ac.dir, e.Name()),
			modTime: info.ModTime(),
			size:    info.Size(),
		})
		totalSize += info.Size()
	}

	now := time.Now()
	remaining := entries[:0]
	for _, e := range entries {
		if now.Sub(e.modTime) > ac.ttl {
			os.Remove(e.path)
			totalSize -= e.size
		} else {
			remaining = append(remaining, e)
		}
	}
	entries = remaining

	if totalSize > ac.maxSize {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].modTime.Before(entries[j].modTime)
		})
		for _, e := range entries {
			if totalSize <= ac.maxSize {
				break
			}
			os.Remove(e.path)
			totalSize -= e.size
		}
	}
	return nil
}

// TotalSize returns total cache size in bytes.
func (ac *ArtifactCache) TotalSize() (int64, error) {
	dirEntries, err := os.ReadDir(ac.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	var total int64
	for _, e := range dirEntries {
		if e.IsDir() {
			continue
		}
		if info, err := e.Info(); err == nil {
			total += info.Size()
		}
	}
	return total, nil
}
