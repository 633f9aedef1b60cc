package platform

import (
	"os"
	"runtime"
)

// Chmod applies the permission bits of mode to path. umask can strip bits
// from freshly created files and directories, so copies call this to match
// their source exactly. On Windows it is a no-op.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode.Perm())
}
