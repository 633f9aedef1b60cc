// Package gitclone fetches skill sources from git remotes with a single
// shallow clone.
package gitclone

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// tmpSuffix is appended to the target dir while the clone is in flight.
const tmpSuffix = ".tmp"

var remotePrefixes = []string{"https://", "http://", "ssh://", "git://", "file://"}

// scpLike matches user@host:path remotes such as git@github.com:org/repo.git.
var scpLike = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+:[^/].*$`)

// IsRemote reports whether src names a git remote rather than a local path.
func IsRemote(src string) bool {
	for _, p := range remotePrefixes {
		if strings.HasPrefix(src, p) {
			return true
		}
	}
	return scpLike.MatchString(src)
}

// ShallowClone clones url at depth 1 into target, which must not exist.
// The clone lands in <target>.tmp first and is renamed into place on
// success; the tmp dir is removed on failure.
func ShallowClone(url, target string) error {
	if err := ensureGit(); err != nil {
		return err
	}
	if _, err := os.Lstat(target); err == nil {
		return fmt.Errorf("clone target %s already exists", target)
	}

	tmpDir := target + tmpSuffix
	_ = os.RemoveAll(tmpDir)

	if err := os.MkdirAll(filepath.Dir(tmpDir), 0755); err != nil {
		return fmt.Errorf("creating clone parent: %w", err)
	}

	cmd := exec.Command("git", "clone", "--depth=1", "--quiet", url, tmpDir)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	if output, err := cmd.CombinedOutput(); err != nil {
		_ = os.RemoveAll(tmpDir)
		return fmt.Errorf("shallow clone of %s: %w\n%s", url, err, strings.TrimSpace(string(output)))
	}

	if err := os.Rename(tmpDir, target); err != nil {
		_ = os.RemoveAll(tmpDir)
		return fmt.Errorf("finalizing clone: %w", err)
	}
	return nil
}

func ensureGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git is required to install from a remote but was not found on PATH")
	}
	return nil
}
