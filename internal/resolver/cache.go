package resolver

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultExpiry is how long cached resolutions stay valid. Stream hosts
	// rotate playlist targets, so entries go stale within a day.
	DefaultExpiry = 24 * time.Hour
	// ResolvedSubdir is the subdirectory for cached resolved URLs.
	ResolvedSubdir = "resolved"
	cacheAppName   = "radioterm"
)

// Cache stores resolved stream URLs on disk, keyed by the original URL.
type Cache struct {
	baseDir string
	expiry  time.Duration
}

// NewCache creates a Cache under the user cache directory.
func NewCache() (*Cache, error) {
	return &Cache{
		baseDir: filepath.Join(xdg.CacheHome, cacheAppName),
		expiry:  DefaultExpiry,
	}, nil
}

// NewCacheAt creates a Cache rooted at an explicit directory.
func NewCacheAt(dir string) *Cache {
	return &Cache{
		baseDir: dir,
		expiry:  DefaultExpiry,
	}
}

func hashURL(url string) string {
	hash := md5.Sum([]byte(url))
	return hex.EncodeToString(hash[:])
}

func (c *Cache) entryPath(url string) string {
	return filepath.Join(c.baseDir, ResolvedSubdir, hashURL(url)+".url")
}

// Get retrieves the cached resolution for url. Returns the empty string on
// a miss, an expired entry, or any read failure.
func (c *Cache) Get(url string) string {
	path := c.entryPath(url)

	info, err := os.Stat(path)
	if err != nil {
		return ""
	}

	if time.Since(info.ModTime()) > c.expiry {
		if err := os.Remove(path); err != nil {
			log.Debug().Err(err).Str("file", path).Msg("Failed to remove expired cache entry")
		}
		return ""
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(data))
}

// Save stores a resolved URL, keyed by the original URL.
func (c *Cache) Save(url, resolved string) error {
	dir := filepath.Join(c.baseDir, ResolvedSubdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if err := os.WriteFile(c.entryPath(url), []byte(resolved+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	return nil
}

// CleanExpired removes cache entries older than the expiry duration.
func (c *Cache) CleanExpired() error {
	dir := filepath.Join(c.baseDir, ResolvedSubdir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	now := time.Now()
	var removed, failed int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			log.Debug().Err(err).Str("file", entry.Name()).Msg("Failed to get file info")
			continue
		}

		if now.Sub(info.ModTime()) > c.expiry {
			path := filepath.Join(dir, entry.Name())
			if err := os.Remove(path); err != nil {
				log.Debug().Err(err).Str("file", path).Msg("Failed to remove expired cache entry")
				failed++
			} else {
				removed++
			}
		}
	}

	if removed > 0 || failed > 0 {
		log.Debug().Int("removed", removed).Int("failed", failed).Msg("Cache cleanup completed")
	}

	return nil
}
