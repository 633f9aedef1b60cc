package metadata

// SkillMetadata is the parsed frontmatter of a descriptor.
// Name and Description are always set after a successful parse.
type SkillMetadata struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Version     string `yaml:"version,omitempty" json:"version,omitempty"`
	Author      string `yaml:"author,omitempty" json:"author,omitempty"`
	License     string `yaml:"license,omitempty" json:"license,omitempty"`
}

// Limits on identity fields.
const (
	MaxNameLength        = 64
	MaxDescriptionLength = 1024
)

// Delimiter opens and closes the frontmatter block.
const Delimiter = "---"
