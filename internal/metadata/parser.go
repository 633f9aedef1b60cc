package metadata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"
	"github.com/agentx-labs/skillkit/internal/branding"
	"github.com/agentx-labs/skillkit/internal/skillerr"
	"go.yaml.in/yaml/v3"
)

// Sentinel reasons. Every parse failure wraps exactly one of these inside a
// skillerr.KindParse error, so callers can use errors.Is on either.
var (
	ErrDescriptorMissing    = errors.New("descriptor file not found")
	ErrDelimiterNotAtStart  = errors.New("frontmatter delimiter must open the file")
	ErrMalformedFrontmatter = errors.New("frontmatter is not closed by a second delimiter")
	ErrInvalidYAML          = errors.New("frontmatter is not a YAML mapping")
	ErrMissingName          = errors.New("required key 'name' is missing")
	ErrMissingDescription   = errors.New("required key 'description' is missing")
	ErrInvalidName          = errors.New("name must match [a-z0-9][a-z0-9_-]{0,63}")
	ErrDescriptionLength    = errors.New("description must be 1-1024 characters")
)

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// DescriptorPath returns the path of the descriptor inside a skill directory.
func DescriptorPath(dir string) string {
	return filepath.Join(dir, branding.DescriptorFile())
}

// Parse reads the descriptor inside dir and returns its metadata.
func Parse(dir string) (*SkillMetadata, error) {
	return ParseFile(DescriptorPath(dir))
}

// ParseFile reads and parses a descriptor file.
func ParseFile(path string) (*SkillMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, parseErr(ErrDescriptorMissing, path)
		}
		return nil, skillerr.Wrap(err, skillerr.KindParse, "reading descriptor").WithPath(path)
	}
	return ParseBytes(data, path)
}

// ParseBytes parses descriptor content. path is only used in error messages.
func ParseBytes(data []byte, path string) (*SkillMetadata, error) {
	raw, err := frontmatter(data, path)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if err := yaml.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, parseErr(fmt.Errorf("%w: %v", ErrInvalidYAML, err), path)
	}

	m := &SkillMetadata{}

	name, ok := fields["name"]
	if !ok || name == nil {
		return nil, parseErr(ErrMissingName, path)
	}
	m.Name = scalar(name)
	if err := ValidateName(m.Name); err != nil {
		return nil, parseErr(err, path)
	}

	desc, ok := fields["description"]
	if !ok || desc == nil {
		return nil, parseErr(ErrMissingDescription, path)
	}
	m.Description = scalar(desc)
	if err := ValidateDescription(m.Description); err != nil {
		return nil, parseErr(err, path)
	}

	m.Version = optional(fields, "version")
	m.Author = optional(fields, "author")
	m.License = optional(fields, "license")

	return m, nil
}

// frontmatter returns the text between the opening and closing delimiters.
func frontmatter(data []byte, path string) (string, error) {
	content := strings.TrimPrefix(string(data), "\ufeff")
	content = strings.TrimLeft(content, " \t\r\n")
	lines := strings.Split(content, "\n")

	if strings.TrimRight(lines[0], " \t\r") != Delimiter {
		return "", parseErr(ErrDelimiterNotAtStart, path)
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t\r") == Delimiter {
			return strings.Join(lines[1:i], "\n"), nil
		}
	}
	return "", parseErr(ErrMalformedFrontmatter, path)
}

// ValidateName checks a skill name against the identity rules.
func ValidateName(name string) error {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// ValidateDescription checks the description length in characters.
func ValidateDescription(desc string) error {
	n := utf8.RuneCountInString(desc)
	if n < 1 || n > MaxDescriptionLength {
		return fmt.Errorf("%w (got %d)", ErrDescriptionLength, n)
	}
	return nil
}

// Advisories returns non-fatal remarks about optional fields.
func Advisories(m *SkillMetadata) []string {
	var notes []string
	if m.Version == "" {
		notes = append(notes, "optional key 'version' is not set")
	} else if _, err := semver.NewVersion(m.Version); err != nil {
		notes = append(notes, fmt.Sprintf("version %q is not a semantic version", m.Version))
	}
	if m.Author == "" {
		notes = append(notes, "optional key 'author' is not set")
	}
	if m.License == "" {
		notes = append(notes, "optional key 'license' is not set")
	}
	return notes
}

func parseErr(reason error, path string) error {
	return skillerr.Wrap(reason, skillerr.KindParse, "invalid descriptor").WithPath(path)
}

// scalar renders a YAML scalar as a string. Non-string scalars such as
// `version: 1.0` decode as numbers and are formatted back.
func scalar(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]interface{}, []interface{}:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

func optional(fields map[string]interface{}, key string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(scalar(v))
}
