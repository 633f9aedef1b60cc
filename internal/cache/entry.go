package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"time"

	"github.com/agentx-labs/skillkit/internal/metadata"
)

// Fingerprint returns the invalidation fingerprint of a descriptor: its
// modification time in whole seconds and its size.
func Fingerprint(descriptor string) (mtime, size uint64, err error) {
	info, err := os.Stat(descriptor)
	if err != nil {
		return 0, 0, err
	}
	return uint64(info.ModTime().Unix()), uint64(info.Size()), nil
}

// HashFile returns the hex sha256 of a file's content (64 characters).
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// NewEntry builds an entry for the skill directory dir from a fresh parse
// outcome. Exactly one of m and parseErr is expected to be non-nil. It fails
// only when the descriptor cannot be fingerprinted.
func NewEntry(dir string, m *metadata.SkillMetadata, parseErr error, now time.Time) (Entry, error) {
	descriptor := metadata.DescriptorPath(dir)
	mtime, size, err := Fingerprint(descriptor)
	if err != nil {
		return Entry{}, err
	}
	hash, err := HashFile(descriptor)
	if err != nil {
		return Entry{}, err
	}

	e := Entry{
		Path:        dir,
		Mtime:       mtime,
		Size:        size,
		ContentHash: hash,
		CachedAt:    uint64(now.Unix()),
	}
	if m != nil {
		name := m.Name
		meta := *m
		e.SkillName = &name
		e.IsValidSkill = true
		e.Metadata = &meta
	} else if parseErr != nil {
		e.ParseError = parseErr.Error()
	}
	return e, nil
}

// Now returns the cache's clock reading, for callers building entries.
func (c *Cache) Now() time.Time {
	return c.now()
}
