package mutator

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agentx-labs/skillkit/internal/branding"
	"github.com/agentx-labs/skillkit/internal/platform"
	"github.com/agentx-labs/skillkit/internal/skillerr"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

// excludedNames are never copied.
var excludedNames = map[string]bool{
	".git": true,
}

// Mutator performs all-or-nothing tree operations.
type Mutator struct {
	rename func(oldpath, newpath string) error
	logger zerolog.Logger
}

// Option configures a Mutator.
type Option func(*Mutator)

// WithRename replaces os.Rename for the first step of MoveTree.
func WithRename(fn func(oldpath, newpath string) error) Option {
	return func(m *Mutator) {
		m.rename = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Mutator) {
		m.logger = logger
	}
}

// New returns a Mutator.
func New(opts ...Option) *Mutator {
	m := &Mutator{rename: os.Rename, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CopyTree copies the directory src to dest, which must not exist. Any
// symlink in the tree, src included, fails the copy with LinkNotAllowed.
// On failure everything created, including missing parents of dest, is
// removed before returning.
func (m *Mutator) CopyTree(src, dest string) (err error) {
	info, err := os.Lstat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return skillerr.Wrap(err, skillerr.KindNotFound, "copy source missing").WithPath(src)
		}
		return skillerr.Wrap(err, skillerr.KindIO, "reading copy source").WithPath(src)
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return skillerr.New(skillerr.KindLinkNotAllowed, "copy source is a symbolic link").WithPath(src)
	}
	if !info.IsDir() {
		return skillerr.New(skillerr.KindValidation, "copy source is not a directory").WithPath(src)
	}
	if _, err := os.Lstat(dest); err == nil {
		return skillerr.New(skillerr.KindConflict, "copy destination already exists").WithPath(dest)
	}

	tx := &journal{}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.rollback(); rbErr != nil {
			m.logger.Error().Err(rbErr).Str("dest", dest).Msg("Copy rollback incomplete")
			err = fmt.Errorf("%w (rollback incomplete: %v)", err, rbErr)
		}
	}()

	if err := tx.mkdirParents(filepath.Dir(dest)); err != nil {
		return skillerr.Wrap(err, skillerr.KindIO, "creating destination parent").WithPath(dest)
	}
	if err := m.copyDir(tx, src, dest, info.Mode()); err != nil {
		return err
	}

	m.logger.Debug().Str("src", src).Str("dest", dest).Int("created", len(tx.created)).Msg("Copied tree")
	return nil
}

func (m *Mutator) copyDir(tx *journal, src, dest string, mode fs.FileMode) error {
	if err := tx.mkdir(dest); err != nil {
		return skillerr.Wrap(err, skillerr.KindIO, "creating directory").WithPath(dest)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return skillerr.Wrap(err, skillerr.KindIO, "reading directory").WithPath(src)
	}

	for _, entry := range entries {
		if excludedNames[entry.Name()] {
			continue
		}
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		switch {
		case entry.Type()&fs.ModeSymlink != 0:
			return skillerr.New(skillerr.KindLinkNotAllowed, "symbolic link inside copied tree").WithPath(srcPath)
		case entry.IsDir():
			info, err := entry.Info()
			if err != nil {
				return skillerr.Wrap(err, skillerr.KindIO, "reading directory").WithPath(srcPath)
			}
			if err := m.copyDir(tx, srcPath, destPath, info.Mode()); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			if err := copyFile(tx, srcPath, destPath); err != nil {
				return err
			}
		default:
			m.logger.Debug().Str("path", srcPath).Msg("Skipping special file")
		}
	}

	if err := platform.Chmod(dest, mode); err != nil {
		return skillerr.Wrap(err, skillerr.KindIO, "setting permissions").WithPath(dest)
	}
	return nil
}

// copyFile creates dest exclusively and fills it from src.
func copyFile(tx *journal, src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return skillerr.Wrap(err, skillerr.KindIO, "opening file").WithPath(src)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return skillerr.Wrap(err, skillerr.KindIO, "reading file").WithPath(src)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return skillerr.Wrap(err, skillerr.KindIO, "creating file").WithPath(dest)
	}
	tx.record(dest)

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return skillerr.Wrap(err, skillerr.KindIO, "writing file").WithPath(dest)
	}
	if err := out.Close(); err != nil {
		return skillerr.Wrap(err, skillerr.KindIO, "writing file").WithPath(dest)
	}
	if err := platform.Chmod(dest, info.Mode()); err != nil {
		return skillerr.Wrap(err, skillerr.KindIO, "setting permissions").WithPath(dest)
	}
	return nil
}

// MoveTree moves src to dest, whose parent must exist. A same-filesystem move is a single rename.
// Across filesystems an existing dest is backed up, src is copied, src is
// removed and the backup dropped; a failed copy restores the backup and
// leaves src untouched.
func (m *Mutator) MoveTree(src, dest string) error {
	if _, err := os.Lstat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return skillerr.Wrap(err, skillerr.KindNotFound, "move source missing").WithPath(src)
		}
		return skillerr.Wrap(err, skillerr.KindIO, "reading move source").WithPath(src)
	}

	err := m.rename(src, dest)
	if err == nil {
		m.logger.Debug().Str("src", src).Str("dest", dest).Msg("Moved tree by rename")
		return nil
	}
	if !isCrossDevice(err) {
		return skillerr.Wrap(err, skillerr.KindIO, "moving tree").WithPath(src)
	}

	m.logger.Debug().Str("src", src).Str("dest", dest).Msg("Cross-device move, copying")
	return m.moveByCopy(src, dest)
}

func (m *Mutator) moveByCopy(src, dest string) error {
	if err := m.ReplaceTree(src, dest); err != nil {
		return err
	}
	if err := os.RemoveAll(src); err != nil {
		return skillerr.Wrap(err, skillerr.KindIO, "copied but could not remove source").WithPath(src)
	}
	return nil
}

// ReplaceTree copies src over dest. An existing dest is renamed to a backup
// first and restored if the copy fails; the backup is dropped on success.
func (m *Mutator) ReplaceTree(src, dest string) error {
	backup := ""
	if _, err := os.Lstat(dest); err == nil {
		backup = BackupPath(dest)
		if err := os.Rename(dest, backup); err != nil {
			return skillerr.Wrap(err, skillerr.KindIO, "backing up destination").WithPath(dest)
		}
	}

	if err := m.CopyTree(src, dest); err != nil {
		if backup != "" {
			if rErr := os.Rename(backup, dest); rErr != nil {
				m.logger.Error().Err(rErr).Str("backup", backup).Msg("Could not restore destination")
				return multierror.Append(err, fmt.Errorf("restoring %s from %s: %w", dest, backup, rErr))
			}
		}
		return err
	}

	if backup != "" {
		if err := os.RemoveAll(backup); err != nil {
			m.logger.Warn().Err(err).Str("backup", backup).Msg("Could not remove backup")
		}
	}
	return nil
}

// BackupPath returns a fresh sibling backup name for path.
func BackupPath(path string) string {
	return path + branding.BackupSuffix() + "-" + uuid.NewString()
}

// RemoveTree deletes path. It refuses unless confirmed is true. A symlink
// is unlinked and its target left alone.
func (m *Mutator) RemoveTree(path string, confirmed bool) error {
	if !confirmed {
		return skillerr.New(skillerr.KindValidation, "removal requires confirmation").WithPath(path)
	}

	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return skillerr.Wrap(err, skillerr.KindNotFound, "nothing to remove").WithPath(path)
		}
		return skillerr.Wrap(err, skillerr.KindIO, "reading path").WithPath(path)
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		if err := os.Remove(path); err != nil {
			return skillerr.Wrap(err, skillerr.KindIO, "removing link").WithPath(path)
		}
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return skillerr.Wrap(err, skillerr.KindIO, "removing tree").WithPath(path)
	}
	m.logger.Debug().Str("path", path).Msg("Removed tree")
	return nil
}
