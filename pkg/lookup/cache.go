package lookup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// cacheEntry is a cached lookup. A nil Info records a known-missing id.
type cacheEntry struct {
	Info *Info `json:"info,omitempty"`
}

// newMemoryCache creates the in-memory LRU shared by every lookup of a client.
// Entries expire after ttl.
func newMemoryCache(size int, ttl time.Duration) *expirable.LRU[string, cacheEntry] {
	return expirable.NewLRU[string, cacheEntry](size, nil, ttl)
}

// DiskCache provides persistent, file-based caching for lookups.
// Each entry is stored as a JSON file keyed by a SHA-256 hash of its key.
type DiskCache struct {
	cacheDir string
	cacheTTL time.Duration
}

// diskCacheEntry wraps a cacheEntry with an expiration timestamp for TTL enforcement.
type diskCacheEntry struct {
	Entry     cacheEntry `json:"entry"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// NewDiskCache creates a new disk cache in the given directory with the specified TTL.
// Creates the directory if it does not exist.
func NewDiskCache(cacheDir string, cacheTTL time.Duration) (*DiskCache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", cacheDir, err)
	}

	return &DiskCache{
		cacheDir: cacheDir,
		cacheTTL: cacheTTL,
	}, nil
}

// Get retrieves a cached lookup for key. It returns true if an unexpired
// entry exists; a nil Info then means the id is known to be missing.
func (cache *DiskCache) Get(key string) (*Info, bool) {
	cacheFilePath := cache.pathFor(key)

	data, err := os.ReadFile(cacheFilePath)
	if err != nil {
		return nil, false
	}

	var entry diskCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(cacheFilePath)
		return nil, false
	}

	return entry.Entry.Info, true
}

// Set stores a lookup for key. A nil info records a missing id.
func (cache *DiskCache) Set(key string, info *Info) error {
	entry := diskCacheEntry{
		Entry:     cacheEntry{Info: info},
		ExpiresAt: time.Now().Add(cache.cacheTTL),
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	cacheFilePath := cache.pathFor(key)
	if err := os.WriteFile(cacheFilePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file %s: %w", cacheFilePath, err)
	}

	return nil
}

// pathFor returns the full file path for a cached key.
func (cache *DiskCache) pathFor(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(cache.cacheDir, hex.EncodeToString(hash[:])+".json")
}
