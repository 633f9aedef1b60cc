// Package metadata parses and validates the SKILL.md descriptor that every
// skill directory carries. The descriptor starts with a YAML frontmatter block
// delimited by "---" lines; name and description are required, version,
// author and license are optional.
package metadata
