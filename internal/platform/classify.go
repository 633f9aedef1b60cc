package platform

import (
	"fmt"
	"path/filepath"
)

// InstallationClass is the closed set of states an observed skill directory
// can be in.
type InstallationClass int

const (
	// Unmanaged is a physical directory.
	Unmanaged InstallationClass = iota
	// Managed is a symlink resolving inside the canonical root.
	Managed
	// ForeignSymlink is a symlink resolving outside the canonical root.
	ForeignSymlink
	// BrokenSymlink is a symlink whose target is missing.
	BrokenSymlink
)

func (c InstallationClass) String() string {
	switch c {
	case Unmanaged:
		return "unmanaged"
	case Managed:
		return "managed"
	case ForeignSymlink:
		return "foreign-symlink"
	case BrokenSymlink:
		return "broken-symlink"
	default:
		return fmt.Sprintf("InstallationClass(%d)", int(c))
	}
}

// MarshalText renders the class by name in JSON output.
func (c InstallationClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a class name written by MarshalText.
func (c *InstallationClass) UnmarshalText(text []byte) error {
	for _, k := range []InstallationClass{Unmanaged, Managed, ForeignSymlink, BrokenSymlink} {
		if k.String() == string(text) {
			*c = k
			return nil
		}
	}
	return fmt.Errorf("unknown installation class %q", string(text))
}

// IsSymlink reports whether the class describes a link.
func (c InstallationClass) IsSymlink() bool {
	return c != Unmanaged
}

// Classification is the outcome of classifying one path.
type Classification struct {
	Class     InstallationClass
	IsLink    bool
	RawTarget string // unresolved link target; empty for physical dirs
	Resolved  string // canonical target; empty when broken
}

// Classifier classifies paths relative to a canonical managed root.
type Classifier struct {
	root string
}

// NewClassifier builds a classifier for canonicalRoot. The root is resolved
// once here; for a root that does not exist yet only its existing ancestors
// are resolved.
func NewClassifier(canonicalRoot string) (*Classifier, error) {
	if canonicalRoot == "" {
		return nil, fmt.Errorf("canonical root is empty")
	}
	root, err := canonicalize(canonicalRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving canonical root %s: %w", canonicalRoot, err)
	}
	return &Classifier{root: root}, nil
}

// Root returns the canonicalized managed root.
func (c *Classifier) Root() string {
	return c.root
}

// Classify determines the class of path. Brokenness is checked before root
// containment: an unresolvable target cannot be tested for containment.
func (c *Classifier) Classify(path string) Classification {
	if !IsLink(path) {
		return Classification{Class: Unmanaged}
	}

	raw, _ := ReadSymlinkTarget(path)
	resolved, err := ResolveCanonical(path)
	if err != nil {
		return Classification{Class: BrokenSymlink, IsLink: true, RawTarget: raw}
	}

	class := ForeignSymlink
	if IsInsideRoot(resolved, c.root) {
		class = Managed
	}
	return Classification{Class: class, IsLink: true, RawTarget: raw, Resolved: resolved}
}

// canonicalize resolves the longest existing prefix of path and re-appends
// the missing tail, so a root created later still compares equal to links
// resolved through the same symlinked ancestors.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	existing, tail := abs, ""
	for {
		if resolved, err := filepath.EvalSymlinks(existing); err == nil {
			return filepath.Join(resolved, tail), nil
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		tail = filepath.Join(filepath.Base(existing), tail)
		existing = parent
	}
}
