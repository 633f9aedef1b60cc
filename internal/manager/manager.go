package manager

import (
	"github.com/agentx-labs/skillkit/internal/cache"
	"github.com/agentx-labs/skillkit/internal/config"
	"github.com/agentx-labs/skillkit/internal/conflict"
	"github.com/agentx-labs/skillkit/internal/inventory"
	"github.com/agentx-labs/skillkit/internal/mutator"
	"github.com/agentx-labs/skillkit/internal/platform"
	"github.com/agentx-labs/skillkit/internal/scanner"
	"github.com/rs/zerolog"
)

// Manager owns the components a workflow needs. It is built once per
// invocation and is not safe for concurrent use.
type Manager struct {
	settings   *config.Settings
	cache      *cache.Cache
	scanner    *scanner.Scanner
	mutator    *mutator.Mutator
	classifier *platform.Classifier
	logger     zerolog.Logger
}

// Option configures a Manager.
type Option func(*managerOptions)

type managerOptions struct {
	logger      zerolog.Logger
	mutatorOpts []mutator.Option
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *managerOptions) {
		o.logger = logger
	}
}

// WithMutatorOptions passes options through to the mutator.
func WithMutatorOptions(opts ...mutator.Option) Option {
	return func(o *managerOptions) {
		o.mutatorOpts = append(o.mutatorOpts, opts...)
	}
}

// New builds a Manager from resolved settings.
func New(s *config.Settings, opts ...Option) (*Manager, error) {
	o := managerOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	c := cache.Open(s.CachePath, cache.WithLogger(o.logger.With().Str("component", "cache").Logger()))
	sc, err := scanner.New(scanner.Options{
		CanonicalRoot: s.CanonicalRoot,
		Roots:         scanner.RootsFor(s),
		Cache:         c,
		NoCache:       s.NoCache,
		Ignore:        s.Ignore,
		Logger:        o.logger.With().Str("component", "scanner").Logger(),
	})
	if err != nil {
		return nil, err
	}

	mOpts := append([]mutator.Option{mutator.WithLogger(o.logger.With().Str("component", "mutator").Logger())}, o.mutatorOpts...)
	return &Manager{
		settings:   s,
		cache:      c,
		scanner:    sc,
		mutator:    mutator.New(mOpts...),
		classifier: sc.Classifier(),
		logger:     o.logger,
	}, nil
}

// Settings returns the settings the manager was built from.
func (m *Manager) Settings() *config.Settings {
	return m.settings
}

// CanonicalRoot returns the canonicalized managed root.
func (m *Manager) CanonicalRoot() string {
	return m.classifier.Root()
}

// List scans every root and returns the inventory.
func (m *Manager) List() *inventory.ScanResult {
	return m.scanner.Scan()
}

// StatusReport is an inventory annotated with conflicts and warnings.
type StatusReport struct {
	Result    *inventory.ScanResult `json:"result"`
	Conflicts []conflict.Conflict   `json:"conflicts"`
	Warnings  []conflict.Warning    `json:"warnings"`
}

// HasErrors reports whether any conflict is error-class.
func (r *StatusReport) HasErrors() bool {
	return conflict.HasErrors(r.Conflicts)
}

// Status scans and runs conflict detection.
func (m *Manager) Status() *StatusReport {
	res := m.scanner.Scan()
	return &StatusReport{
		Result:    res,
		Conflicts: conflict.Detect(res),
		Warnings:  conflict.Warnings(res),
	}
}

// CleanCache drops cache entries for paths that no longer exist.
func (m *Manager) CleanCache() int {
	return m.cache.CleanStale()
}

// ClearCache drops every cache entry.
func (m *Manager) ClearCache() {
	m.cache.Clear()
}

// CachePath returns the cache store location.
func (m *Manager) CachePath() string {
	return m.cache.Path()
}

func (m *Manager) invalidate(paths ...string) {
	for _, p := range paths {
		if p != "" {
			m.cache.Invalidate(p)
		}
	}
}
