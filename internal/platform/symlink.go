package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/skillkit/internal/skillerr"
)

// IsLink reports whether path itself is a symbolic link. It uses Lstat, so a
// dangling link still reports true, and any stat failure reports false.
func IsLink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// ReadSymlinkTarget returns the raw, unresolved target of a symlink.
func ReadSymlinkTarget(path string) (string, error) {
	if !IsLink(path) {
		return "", skillerr.New(skillerr.KindValidation, "not a symbolic link").WithPath(path)
	}
	target, err := os.Readlink(path)
	if err != nil {
		return "", skillerr.Wrap(err, skillerr.KindIO, "reading link").WithPath(path)
	}
	return target, nil
}

// ResolveCanonical follows every link in path and returns the absolute,
// cleaned result. A missing hop anywhere in the chain is an error; this is
// how broken links are detected.
func ResolveCanonical(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", skillerr.Wrap(err, skillerr.KindSymlinkUnresolvable, "resolving link").WithPath(path)
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", skillerr.Wrap(err, skillerr.KindSymlinkUnresolvable, "resolving link").WithPath(path)
	}
	return abs, nil
}

// IsInsideRoot reports whether resolved lies strictly beneath root; the
// root itself is not inside. Both arguments are expected to be canonical
// already; the comparison is a separator-aware prefix check, so /a/bc is not
// inside /a/b.
func IsInsideRoot(resolved, root string) bool {
	resolved = filepath.Clean(resolved)
	root = filepath.Clean(root)
	if resolved == root {
		return false
	}
	if root == string(filepath.Separator) {
		return strings.HasPrefix(resolved, root)
	}
	return strings.HasPrefix(resolved, root+string(filepath.Separator))
}

// CreateSymlink creates link pointing at target, creating link's parent
// directory when needed.
func CreateSymlink(target, link string) error {
	if err := os.MkdirAll(filepath.Dir(link), 0755); err != nil {
		return fmt.Errorf("creating parent of %s: %w", link, err)
	}
	return os.Symlink(target, link)
}

// RemoveSymlink removes a symlink without touching what it points to.
// It refuses to remove anything that is not a link.
func RemoveSymlink(path string) error {
	if !IsLink(path) {
		if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return skillerr.New(skillerr.KindValidation, "refusing to unlink a non-symlink").WithPath(path)
	}
	return os.Remove(path)
}
