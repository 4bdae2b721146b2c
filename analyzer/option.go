package analyzer

import (
	"github.com/viant/afs"
	"github.com/viant/odoolint/config"
)

type Option func(*Analyzer)

// WithConfig sets the configuration shared read-only by all module passes
func WithConfig(cfg *config.Config) Option {
	return func(a *Analyzer) {
		a.config = cfg
	}
}

// WithFS sets file system service used to detect and read modules
func WithFS(fs afs.Service) Option {
	return func(a *Analyzer) {
		a.fs = fs
	}
}

// WithWorkers limits the number of modules analyzed concurrently
func WithWorkers(workers int) Option {
	return func(a *Analyzer) {
		a.workers = workers
	}
}

// WithRegistry replaces the built-in checks
func WithRegistry(registry *Registry) Option {
	return func(a *Analyzer) {
		a.registry = registry
	}
}
