package scanner

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/skillkit/internal/cache"
	"github.com/agentx-labs/skillkit/internal/config"
	"github.com/agentx-labs/skillkit/internal/inventory"
	"github.com/agentx-labs/skillkit/internal/metadata"
	"github.com/agentx-labs/skillkit/internal/platform"
	"github.com/agentx-labs/skillkit/internal/skillerr"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

// Root is one directory of skills belonging to an agent.
type Root struct {
	AgentID string
	Scope   inventory.Scope
	Path    string
}

// Options configures a Scanner.
type Options struct {
	CanonicalRoot string
	// Roots are scanned in order.
	Roots []Root
	// Cache may be nil, in which case every descriptor is parsed.
	Cache *cache.Cache
	// NoCache bypasses the cache: entries are neither read nor written.
	NoCache bool
	// Ignore holds doublestar patterns matched against child names.
	Ignore []string
	Logger zerolog.Logger
}

// Scanner builds inventories. It is not safe for concurrent use.
type Scanner struct {
	classifier *platform.Classifier
	roots      []Root
	cache      *cache.Cache
	noCache    bool
	ignore     []string
	logger     zerolog.Logger
}

// New builds a scanner. It fails only when the canonical root is unusable or
// an ignore pattern is malformed.
func New(opts Options) (*Scanner, error) {
	classifier, err := platform.NewClassifier(opts.CanonicalRoot)
	if err != nil {
		return nil, skillerr.Wrap(err, skillerr.KindValidation, "invalid canonical root").WithPath(opts.CanonicalRoot)
	}
	for _, p := range opts.Ignore {
		if !doublestar.ValidatePattern(p) {
			return nil, skillerr.Newf(skillerr.KindValidation, "invalid ignore pattern %q", p)
		}
	}
	return &Scanner{
		classifier: classifier,
		roots:      opts.Roots,
		cache:      opts.Cache,
		noCache:    opts.NoCache,
		ignore:     opts.Ignore,
		logger:     opts.Logger,
	}, nil
}

// RootsFor lists the scan roots of every enabled agent: global root first,
// then workspace root. A directory shared by two roots is listed once.
func RootsFor(s *config.Settings) []Root {
	var roots []Root
	seen := make(map[string]bool)
	add := func(id string, scope inventory.Scope, path string) {
		if path == "" || seen[path] {
			return
		}
		seen[path] = true
		roots = append(roots, Root{AgentID: id, Scope: scope, Path: path})
	}
	for _, a := range s.EnabledAgents() {
		add(a.ID, inventory.ScopeGlobal, a.GlobalPath)
		add(a.ID, inventory.ScopeWorkspace, a.WorkspacePath)
	}
	return roots
}

// Classifier returns the classifier bound to the canonical root.
func (s *Scanner) Classifier() *platform.Classifier {
	return s.classifier
}

// Roots returns the configured scan roots.
func (s *Scanner) Roots() []Root {
	return s.roots
}

// Scan builds a fresh inventory.
func (s *Scanner) Scan() *inventory.ScanResult {
	res := &inventory.ScanResult{}
	index := make(map[string]*inventory.Skill)

	run := func() {
		for _, root := range s.roots {
			s.scanRoot(root, res, index)
		}
		s.scanCanonical(res, index)
	}
	if s.cache != nil {
		s.cache.Batch(run)
	} else {
		run()
	}

	s.logger.Debug().
		Int("skills", len(res.Skills)).
		Int("parse_errors", len(res.ParseErrors)).
		Int("broken_links", len(res.BrokenLinks)).
		Msg("Scan complete")
	return res
}

func (s *Scanner) scanRoot(root Root, res *inventory.ScanResult, index map[string]*inventory.Skill) {
	entries, ok := s.readRoot(root.Path)
	if !ok {
		return
	}
	s.logger.Debug().Str("agent", root.AgentID).Str("scope", string(root.Scope)).Str("path", root.Path).Msg("Scanning root")

	for _, entry := range entries {
		name := entry.Name()
		if s.skipName(name) {
			continue
		}
		path := filepath.Join(root.Path, name)

		cls := s.classifier.Classify(path)
		if cls.Class == platform.BrokenSymlink {
			res.BrokenLinks = append(res.BrokenLinks, inventory.BrokenLink{
				AgentID: root.AgentID,
				Scope:   root.Scope,
				Path:    path,
				Target:  cls.RawTarget,
			})
			continue
		}
		if !isDir(path) {
			continue
		}

		meta, err := s.describe(path)
		if err != nil {
			res.ParseErrors = append(res.ParseErrors, inventory.ParseFailure{
				Path:    path,
				AgentID: root.AgentID,
				Reason:  err.Error(),
			})
			continue
		}

		skill := lookupOrAdd(res, index, meta, name)
		skill.Installations = append(skill.Installations, inventory.NewInstallation(root.AgentID, path, root.Scope, cls))
		if cls.Class == platform.Managed {
			skill.IsManaged = true
			if skill.RepoPath == "" {
				skill.RepoPath = cls.Resolved
			}
		}
	}
}

// scanCanonical marks skills whose copy lives in the canonical root. No
// installation is recorded for the canonical copy itself.
func (s *Scanner) scanCanonical(res *inventory.ScanResult, index map[string]*inventory.Skill) {
	root := s.classifier.Root()
	entries, ok := s.readRoot(root)
	if !ok {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if s.skipName(name) {
			continue
		}
		path := filepath.Join(root, name)
		if !isDir(path) {
			continue
		}

		meta, err := s.describe(path)
		if err != nil {
			res.ParseErrors = append(res.ParseErrors, inventory.ParseFailure{Path: path, Reason: err.Error()})
			continue
		}

		skill := lookupOrAdd(res, index, meta, name)
		skill.IsManaged = true
		skill.RepoPath = path
	}
}

func (s *Scanner) readRoot(dir string) ([]os.DirEntry, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn().Err(err).Str("path", dir).Msg("Skipping unreadable root")
		}
		return nil, false
	}
	return entries, true
}

func (s *Scanner) skipName(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, p := range s.ignore {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func lookupOrAdd(res *inventory.ScanResult, index map[string]*inventory.Skill, meta *metadata.SkillMetadata, dirName string) *inventory.Skill {
	if skill, ok := index[meta.Name]; ok {
		return skill
	}
	skill := &inventory.Skill{Metadata: *meta, DirectoryName: dirName}
	index[meta.Name] = skill
	res.Skills = append(res.Skills, skill)
	return skill
}
