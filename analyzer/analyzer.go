package analyzer

import (
	"runtime"

	"github.com/viant/afs"
	"github.com/viant/odoolint/analyzer/diagnostic"
	"github.com/viant/odoolint/config"
)

// Analyzer runs registered checks over addon modules
type Analyzer struct {
	config   *config.Config
	fs       afs.Service
	registry *Registry
	workers  int
}

// Result represents diagnostics of one module, Error is set when the module could not be analyzed
type Result struct {
	Module      string                   `yaml:"module"`
	Root        string                   `yaml:"root"`
	Diagnostics []*diagnostic.Diagnostic `yaml:"diagnostics,omitempty"`
	Error       string                   `yaml:"error,omitempty"`
}

// Count returns number of diagnostics with severity
func (r *Result) Count(severity diagnostic.Severity) int {
	count := 0
	for _, d := range r.Diagnostics {
		if d.Severity == severity {
			count++
		}
	}
	return count
}

// New creates an analyzer
func New(options ...Option) *Analyzer {
	ret := &Analyzer{}
	for _, option := range options {
		option(ret)
	}
	if ret.config == nil {
		ret.config = config.Default()
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	if ret.registry == nil {
		ret.registry = DefaultRegistry()
	}
	if ret.workers <= 0 {
		ret.workers = ret.config.Workers
	}
	if ret.workers <= 0 {
		ret.workers = runtime.NumCPU()
	}
	return ret
}

// Config returns analyzer configuration
func (a *Analyzer) Config() *config.Config {
	return a.config
}

// Registry returns registered checks
func (a *Analyzer) Registry() *Registry {
	return a.registry
}
