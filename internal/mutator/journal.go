package mutator

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
)

// journal is the ordered list of paths a copy created.
type journal struct {
	created []string
}

func (j *journal) record(path string) {
	j.created = append(j.created, path)
}

func (j *journal) mkdir(path string) error {
	if err := os.Mkdir(path, 0755); err != nil {
		return err
	}
	j.record(path)
	return nil
}

// mkdirParents creates dir and any missing ancestors, recording each.
func (j *journal) mkdirParents(dir string) error {
	var missing []string
	for p := dir; ; p = filepath.Dir(p) {
		if _, err := os.Lstat(p); err == nil {
			break
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		missing = append(missing, p)
		if filepath.Dir(p) == p {
			break
		}
	}
	for i := len(missing) - 1; i >= 0; i-- {
		if err := j.mkdir(missing[i]); err != nil {
			return err
		}
	}
	return nil
}

// rollback removes every recorded path, newest first.
func (j *journal) rollback() error {
	// Copied modes may have made a directory read-only.
	for _, path := range j.created {
		if info, err := os.Lstat(path); err == nil && info.IsDir() {
			_ = os.Chmod(path, 0700)
		}
	}

	var result *multierror.Error
	for i := len(j.created) - 1; i >= 0; i-- {
		path := j.created[i]
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			result = multierror.Append(result, err)
		}
	}
	j.created = nil
	return result.ErrorOrNil()
}
