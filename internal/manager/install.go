package manager

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/skillkit/internal/branding"
	"github.com/agentx-labs/skillkit/internal/gitclone"
	"github.com/agentx-labs/skillkit/internal/inventory"
	"github.com/agentx-labs/skillkit/internal/logging"
	"github.com/agentx-labs/skillkit/internal/metadata"
	"github.com/agentx-labs/skillkit/internal/platform"
	"github.com/agentx-labs/skillkit/internal/skillerr"
)

// InstallOptions controls Install.
type InstallOptions struct {
	// Force replaces an existing canonical copy.
	Force bool
	// Link syncs the installed skill into agents afterwards.
	Link bool
	// Scope and Agents are passed to Sync when Link is set.
	Scope  inventory.Scope
	Agents []string
	// Subdir locates the skill inside the source, for multi-skill repos.
	Subdir string
}

// InstallResult describes a completed install.
type InstallResult struct {
	Name     string                 `json:"name"`
	RepoPath string                 `json:"repo_path"`
	Metadata metadata.SkillMetadata `json:"metadata"`
	Sync     *SyncReport            `json:"sync,omitempty"`
}

// Install copies the skill at src, a local directory or a git remote, into
// the canonical root under its metadata name.
func (m *Manager) Install(src string, opts InstallOptions) (*InstallResult, error) {
	defer logging.LogOperationStart(m.logger, "install")()

	dir, cleanup, err := m.fetch(src)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if opts.Subdir != "" {
		dir = filepath.Join(dir, opts.Subdir)
	}

	meta, err := metadata.Parse(dir)
	if err != nil {
		return nil, err
	}

	dest := filepath.Join(m.classifier.Root(), meta.Name)
	if resolved, err := platform.ResolveCanonical(dir); err == nil && resolved == dest {
		return nil, skillerr.New(skillerr.KindValidation, "source is already the canonical copy").WithPath(dir)
	}

	if _, err := os.Lstat(dest); err == nil {
		if !opts.Force {
			return nil, skillerr.Newf(skillerr.KindConflict,
				"skill %q is already installed; use --force to replace it", meta.Name).WithPath(dest)
		}
		if err := m.mutator.ReplaceTree(dir, dest); err != nil {
			return nil, fmt.Errorf("replacing %s: %w", meta.Name, err)
		}
	} else if err := m.mutator.CopyTree(dir, dest); err != nil {
		return nil, fmt.Errorf("installing %s: %w", meta.Name, err)
	}
	m.invalidate(dest)
	m.logger.Info().Str("skill", meta.Name).Str("path", dest).Msg("Installed skill")

	result := &InstallResult{Name: meta.Name, RepoPath: dest, Metadata: *meta}
	if opts.Link {
		report, err := m.Sync(SyncOptions{Names: []string{meta.Name}, Agents: opts.Agents, Scope: opts.Scope})
		result.Sync = report
		if err != nil {
			return result, fmt.Errorf("linking %s: %w", meta.Name, err)
		}
	}
	return result, nil
}

// fetch returns a local directory for src, cloning remotes into a
// temporary directory that cleanup removes.
func (m *Manager) fetch(src string) (string, func(), error) {
	if !gitclone.IsRemote(src) {
		abs, err := filepath.Abs(src)
		if err != nil {
			return "", nil, fmt.Errorf("resolving %s: %w", src, err)
		}
		return abs, func() {}, nil
	}

	tmp, err := os.MkdirTemp("", branding.CLIName()+"-clone-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating clone directory: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(tmp) }

	target := filepath.Join(tmp, "repo")
	m.logger.Info().Str("url", src).Msg("Cloning skill source")
	if err := gitclone.ShallowClone(src, target); err != nil {
		cleanup()
		return "", nil, err
	}
	return target, cleanup, nil
}
