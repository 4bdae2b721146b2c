package pass

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/odoolint/analyzer/diagnostic"
	"github.com/viant/odoolint/analyzer/syntax"
	"github.com/viant/odoolint/config"
	"github.com/viant/odoolint/inspector/python"
	"github.com/viant/odoolint/inspector/repository"
)

// Check is implemented by every check
type Check interface {
	// Name returns check name used in logs
	Name() string
	// Rules returns rule ids the check may emit
	Rules() []string
}

// NodeCheck inspects python nodes of the kinds it declares
type NodeCheck interface {
	Check
	Kinds() []syntax.Kind
	Visit(p *Pass, file *python.File, n *sitter.Node)
}

// UnitCheck inspects a whole module
type UnitCheck interface {
	Check
	Run(ctx context.Context, p *Pass) error
}

type scopeKey struct {
	file  string
	start uint32
	end   uint32
}

// Pass holds state of one module analysis, it is owned by a single goroutine
type Pass struct {
	Config   *config.Config
	Unit     *repository.Unit
	Sink     diagnostic.Sink
	Versions diagnostic.VersionRange
	scopes   map[scopeKey]*syntax.Scope
}

// New creates a pass
func New(cfg *config.Config, unit *repository.Unit, sink diagnostic.Sink) *Pass {
	return &Pass{
		Config:   cfg,
		Unit:     unit,
		Sink:     sink,
		Versions: diagnostic.NewVersionRange(cfg.ValidVersions...),
		scopes:   map[scopeKey]*syntax.Scope{},
	}
}

// Enabled returns true if rule is not disabled and applies to configured versions
func (p *Pass) Enabled(rule string) bool {
	return !p.Config.IsDisabled(rule) && diagnostic.IsApplicable(rule, p.Versions)
}

// AnyEnabled returns true if at least one of check rules is enabled
func (p *Pass) AnyEnabled(check Check) bool {
	for _, rule := range check.Rules() {
		if p.Enabled(rule) {
			return true
		}
	}
	return false
}

// Scope returns the binding index of the function enclosing n, or of the module
func (p *Pass) Scope(file *python.File, n *sitter.Node) *syntax.Scope {
	owner := syntax.Enclosing(n, syntax.FunctionDefinition)
	if owner == nil {
		owner = file.Root()
	}
	key := scopeKey{file: file.Path, start: owner.StartByte(), end: owner.EndByte()}
	if scope, ok := p.scopes[key]; ok {
		return scope
	}
	scope := syntax.NewScope(owner, file.Source)
	p.scopes[key] = scope
	return scope
}

// Location returns diagnostic location of a node
func (p *Pass) Location(file string, line, column int) diagnostic.Location {
	location := diagnostic.Location{File: file, Line: line, Column: column}
	if p.Unit != nil {
		location.Module = p.Unit.Name
	}
	return location
}

// Report emits rule at node
func (p *Pass) Report(rule string, file *python.File, n *sitter.Node, args ...string) {
	p.ReportAt(rule, file.Path, syntax.Line(n), syntax.Column(n), args...)
}

// ReportAt emits rule at location, rules disabled by configuration are suppressed
func (p *Pass) ReportAt(rule string, file string, line, column int, args ...string) {
	if p.Config.IsDisabled(rule) {
		return
	}
	p.Sink.Emit(rule, p.Location(file, line, column), args...)
}
