package scanner

import (
	"github.com/agentx-labs/skillkit/internal/cache"
	"github.com/agentx-labs/skillkit/internal/metadata"
)

// cachedFailure replays a parse failure recorded in the cache.
type cachedFailure string

func (e cachedFailure) Error() string { return string(e) }

// describe returns the metadata of the skill directory dir, consulting the
// cache first. With noCache the cache is neither read nor written.
func (s *Scanner) describe(dir string) (*metadata.SkillMetadata, error) {
	if s.noCache {
		return metadata.Parse(dir)
	}
	if s.cache != nil {
		if e, ok := s.cache.Get(dir); ok {
			switch {
			case e.IsValidSkill && e.Metadata != nil:
				m := *e.Metadata
				return &m, nil
			case !e.IsValidSkill && e.ParseError != "":
				return nil, cachedFailure(e.ParseError)
			}
		}
	}

	m, err := metadata.Parse(dir)
	s.remember(dir, m, err)
	return m, err
}

func (s *Scanner) remember(dir string, m *metadata.SkillMetadata, parseErr error) {
	if s.cache == nil {
		return
	}
	entry, err := cache.NewEntry(dir, m, parseErr, s.cache.Now())
	if err != nil {
		return
	}
	if err := s.cache.Put(entry); err != nil {
		s.logger.Debug().Err(err).Str("path", dir).Msg("Cache entry rejected")
	}
}
