// Package cache stores a compiled raw graph on disk, keyed by a content
// hash of the policy directory it was compiled from, so repeated analyze
// runs against an unchanged policy tree can skip re-parsing and
// re-compiling.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/JonasWoh/ROS2PrivacyGraph/internal/graph"
)

const (
	// DefaultTTL is the default cache expiration time.
	DefaultTTL = 24 * time.Hour

	// CacheDirName is the directory name under the user's home for cache
	// storage.
	CacheDirName = ".ros2privacygraph/cache"
)

// entry is what's actually marshaled to disk: the compiled graph plus the
// ingestion errors observed when it was built, so a cache hit can still
// surface the same warnings a fresh build would.
type entry struct {
	Snapshot        graph.Snapshot `json:"snapshot"`
	IngestionErrors []string       `json:"ingestionErrors,omitempty"`
}

// ContentHash fingerprints a policy directory by the sorted (relative
// path, mtime, size) tuple of every file under it, so any edit, add, or
// remove changes the key.
func ContentHash(root string) (string, error) {
	var lines []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		lines = append(lines, fmt.Sprintf("%s|%d|%d", rel, info.ModTime().UnixNano(), info.Size()))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", root, err)
	}
	sort.Strings(lines)

	h := sha256.New()
	for _, l := range lines {
		h.Write([]byte(l))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Save writes the compiled graph to the cache under key.
// The cache file is named: <key>-<timestamp>.json
func Save(key string, g *graph.Graph, ingestionErrors []error) error {
	if key == "" {
		return fmt.Errorf("cache key cannot be empty")
	}

	cacheDir, err := getCacheDir()
	if err != nil {
		return fmt.Errorf("get cache directory: %w", err)
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	if err := clearKeyCache(cacheDir, key); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to clear old cache: %v\n", err)
	}

	errStrings := make([]string, 0, len(ingestionErrors))
	for _, e := range ingestionErrors {
		errStrings = append(errStrings, e.Error())
	}

	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("%s-%s.json", key, timestamp)
	filePath := filepath.Join(cacheDir, filename)

	data, err := json.MarshalIndent(entry{Snapshot: g.Snapshot(), IngestionErrors: errStrings}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}

// Load reads a cached graph for key, if present and not older than ttl.
// Returns (nil, nil, nil) on a cache miss, not an error.
func Load(key string, ttl time.Duration) (*graph.Graph, []string, error) {
	if key == "" {
		return nil, nil, fmt.Errorf("cache key cannot be empty")
	}

	cacheDir, err := getCacheDir()
	if err != nil {
		return nil, nil, fmt.Errorf("get cache directory: %w", err)
	}
	if _, err := os.Stat(cacheDir); os.IsNotExist(err) {
		return nil, nil, nil
	}

	cacheFile, err := findLatestCacheFile(cacheDir, key)
	if err != nil {
		return nil, nil, fmt.Errorf("find cache file: %w", err)
	}
	if cacheFile == "" {
		return nil, nil, nil
	}

	info, err := os.Stat(cacheFile)
	if err != nil {
		return nil, nil, fmt.Errorf("stat cache file: %w", err)
	}
	if time.Since(info.ModTime()) > ttl {
		return nil, nil, nil
	}

	data, err := os.ReadFile(cacheFile)
	if err != nil {
		return nil, nil, fmt.Errorf("read cache file: %w", err)
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, nil, fmt.Errorf("unmarshal cache: %w", err)
	}

	return graph.FromSnapshot(e.Snapshot), e.IngestionErrors, nil
}

// Clear removes cache files. If key is empty, the entire cache directory
// is removed; otherwise only entries for that key are removed.
func Clear(key string) error {
	cacheDir, err := getCacheDir()
	if err != nil {
		return fmt.Errorf("get cache directory: %w", err)
	}
	if _, err := os.Stat(cacheDir); os.IsNotExist(err) {
		return nil
	}
	if key == "" {
		if err := os.RemoveAll(cacheDir); err != nil {
			return fmt.Errorf("remove cache directory: %w", err)
		}
		return nil
	}
	return clearKeyCache(cacheDir, key)
}

// GetCacheInfo returns the path and modification time of the most recent
// cache entry for key, or empty values if none exists.
func GetCacheInfo(key string) (filePath string, modTime time.Time, err error) {
	if key == "" {
		return "", time.Time{}, fmt.Errorf("cache key cannot be empty")
	}

	cacheDir, err := getCacheDir()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("get cache directory: %w", err)
	}
	if _, err := os.Stat(cacheDir); os.IsNotExist(err) {
		return "", time.Time{}, nil
	}

	cacheFile, err := findLatestCacheFile(cacheDir, key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("find cache file: %w", err)
	}
	if cacheFile == "" {
		return "", time.Time{}, nil
	}

	info, err := os.Stat(cacheFile)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("stat cache file: %w", err)
	}
	return cacheFile, info.ModTime(), nil
}

func getCacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get user home directory: %w", err)
	}
	return filepath.Join(home, CacheDirName), nil
}

func findLatestCacheFile(cacheDir, key string) (string, error) {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		return "", fmt.Errorf("read cache directory: %w", err)
	}

	prefix := key + "-"
	var latestFile string
	var latestTime time.Time

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		filePath := filepath.Join(cacheDir, name)
		info, err := os.Stat(filePath)
		if err != nil {
			continue
		}
		if latestFile == "" || info.ModTime().After(latestTime) {
			latestFile = filePath
			latestTime = info.ModTime()
		}
	}
	return latestFile, nil
}

func clearKeyCache(cacheDir, key string) error {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		return fmt.Errorf("read cache directory: %w", err)
	}

	prefix := key + "-"
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(cacheDir, name)); err != nil {
			return fmt.Errorf("remove cache file %s: %w", name, err)
		}
	}
	return nil
}
