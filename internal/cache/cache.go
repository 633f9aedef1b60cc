package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/agentx-labs/skillkit/internal/branding"
	"github.com/agentx-labs/skillkit/internal/metadata"
	"github.com/agentx-labs/skillkit/internal/skillerr"
	"github.com/rs/zerolog"
)

const (
	// FormatVersion is bumped whenever the on-disk layout changes. A store
	// with any other version is discarded whole.
	FormatVersion uint32 = 1

	// MaxFileSize is the largest store that will be loaded.
	MaxFileSize = 15 * 1024 * 1024

	// MaxContentHashLength bounds Entry.ContentHash.
	MaxContentHashLength = 64

	// DefaultFileName is the store's file name inside the cache directory.
	DefaultFileName = "scan-cache.json"
)

// Entry is what the scanner recorded about one skill directory.
type Entry struct {
	Path         string  `json:"-"`
	Mtime        uint64  `json:"mtime"`
	Size         uint64  `json:"size"`
	ContentHash  string  `json:"content_hash"`
	CachedAt     uint64  `json:"cached_at"`
	SkillName    *string `json:"skill_name"`
	IsValidSkill bool    `json:"is_valid_skill"`

	// Metadata is kept for valid entries and ParseError for invalid ones,
	// so a trusted entry fully replaces a parse.
	Metadata   *metadata.SkillMetadata `json:"metadata,omitempty"`
	ParseError string                  `json:"parse_error,omitempty"`
}

type store struct {
	Version uint32           `json:"version"`
	Entries map[string]Entry `json:"entries"`
}

// Cache is an in-memory view of the store backed by one JSON file.
// It is not safe for concurrent use.
type Cache struct {
	path    string
	entries map[string]Entry
	logger  zerolog.Logger
	now     func() time.Time

	batching bool
	dirty    bool
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for swallowed failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithClock overrides the time source used for CachedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// DefaultPath returns $XDG_CACHE_HOME/<cli>/scan-cache.json.
func DefaultPath() string {
	return filepath.Join(xdg.CacheHome, branding.CLIName(), DefaultFileName)
}

// Open loads the store at path. It never fails: a missing, oversized,
// unreadable, corrupt or version-mismatched store yields an empty cache.
// An empty path gives a memory-only cache.
func Open(path string, opts ...Option) *Cache {
	c := &Cache{
		path:    path,
		entries: make(map[string]Entry),
		logger:  zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if path != "" {
		c.load()
	}
	return c
}

// Path returns the store location.
func (c *Cache) Path() string {
	return c.path
}

// Len returns the number of stored entries, trusted or not.
func (c *Cache) Len() int {
	return len(c.entries)
}

func (c *Cache) load() {
	info, err := os.Stat(c.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Debug().Err(err).Str("path", c.path).Msg("Cache store unreadable, starting empty")
		}
		return
	}
	if info.Size() > MaxFileSize {
		c.logger.Debug().Int64("size", info.Size()).Str("path", c.path).Msg("Cache store too large, starting empty")
		return
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		c.logger.Debug().Err(err).Str("path", c.path).Msg("Cache store unreadable, starting empty")
		return
	}

	var s store
	if err := json.Unmarshal(data, &s); err != nil {
		c.logger.Debug().Err(err).Str("path", c.path).Msg("Cache store corrupt, starting empty")
		return
	}
	if s.Version != FormatVersion {
		c.logger.Debug().Uint32("version", s.Version).Msg("Cache store version mismatch, starting empty")
		return
	}

	for key, e := range s.Entries {
		e.Path = key
		c.entries[key] = e
	}
}

// Get returns the entry for path while it is still trustworthy: present,
// descriptor still on disk, and live (mtime, size) equal to the recorded pair.
func (c *Cache) Get(path string) (Entry, bool) {
	e, ok := c.entries[path]
	if !ok {
		return Entry{}, false
	}
	mtime, size, err := Fingerprint(metadata.DescriptorPath(path))
	if err != nil {
		return Entry{}, false
	}
	if mtime != e.Mtime || size != e.Size {
		return Entry{}, false
	}
	return e, true
}

// Put inserts or replaces the entry keyed by e.Path. Only an oversized
// content hash is rejected; persistence failures are swallowed.
func (c *Cache) Put(e Entry) error {
	if len(e.ContentHash) > MaxContentHashLength {
		return skillerr.Newf(skillerr.KindValidation,
			"content hash is %d characters, limit is %d", len(e.ContentHash), MaxContentHashLength).WithPath(e.Path)
	}
	if e.Path == "" {
		return skillerr.New(skillerr.KindValidation, "cache entry has no path")
	}
	c.entries[e.Path] = e
	c.persist()
	return nil
}

// Invalidate removes the entry for path, if any.
func (c *Cache) Invalidate(path string) {
	if _, ok := c.entries[path]; !ok {
		return
	}
	delete(c.entries, path)
	c.persist()
}

// CleanStale removes entries whose path no longer exists and returns how
// many were removed. Links are followed, so an entry keyed on a dangling
// link is stale too.
func (c *Cache) CleanStale() int {
	removed := 0
	for key := range c.entries {
		if _, err := os.Stat(key); errors.Is(err, fs.ErrNotExist) {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		c.persist()
	}
	return removed
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.entries = make(map[string]Entry)
	c.persist()
}

// Batch runs fn with persistence deferred, then writes the store once if
// fn changed anything.
func (c *Cache) Batch(fn func()) {
	if c.batching {
		fn()
		return
	}
	c.batching = true
	defer func() {
		c.batching = false
		if c.dirty {
			c.dirty = false
			c.persist()
		}
	}()
	fn()
}

// persist writes the store through a sibling temp file and a rename.
// Errors are logged and dropped.
func (c *Cache) persist() {
	if c.path == "" {
		return
	}
	if c.batching {
		c.dirty = true
		return
	}
	if err := c.write(); err != nil {
		c.logger.Debug().Err(err).Str("path", c.path).Msg("Cache write failed")
	}
}

func (c *Cache) write() error {
	data, err := json.MarshalIndent(store{Version: FormatVersion, Entries: c.entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".scan-cache-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing cache store: %w", err)
	}
	return nil
}
