package analyzer

import (
	"fmt"
	"sort"

	"github.com/viant/odoolint/analyzer/consistency"
	"github.com/viant/odoolint/analyzer/convention"
	"github.com/viant/odoolint/analyzer/diagnostic"
	"github.com/viant/odoolint/analyzer/manifest"
	"github.com/viant/odoolint/analyzer/pass"
	"github.com/viant/odoolint/analyzer/placeholder"
	"github.com/viant/odoolint/analyzer/syntax"
	"github.com/viant/odoolint/analyzer/taint"
)

// Registry maps node kinds to node checks and holds module level checks
type Registry struct {
	checks []pass.Check
	nodes  map[syntax.Kind][]pass.NodeCheck
	units  []pass.UnitCheck
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{nodes: map[syntax.Kind][]pass.NodeCheck{}}
}

// DefaultRegistry returns registry with all built-in checks
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	for _, check := range []pass.Check{
		&manifest.Check{},
		&consistency.DocumentCheck{},
		&consistency.RecordCheck{},
		&consistency.MessageCheck{},
		&consistency.InheritCheck{},
		&placeholder.CatalogCheck{},
		&convention.ScriptCheck{},
		&taint.SQLCheck{},
		&taint.TimeoutCheck{},
		&placeholder.Check{},
		&convention.AttributeCheck{},
		&convention.ParameterCheck{},
	} {
		if err := registry.Register(check); err != nil {
			panic(err)
		}
	}
	return registry
}

// Register adds a check, it has to implement pass.NodeCheck or pass.UnitCheck and declare known rules
func (r *Registry) Register(check pass.Check) error {
	if len(check.Rules()) == 0 {
		return fmt.Errorf("check %s declares no rules", check.Name())
	}
	for _, rule := range check.Rules() {
		if _, ok := diagnostic.Lookup(rule); !ok {
			return fmt.Errorf("check %s declares unknown rule %s", check.Name(), rule)
		}
	}
	registered := false
	if nodeCheck, ok := check.(pass.NodeCheck); ok {
		for _, kind := range nodeCheck.Kinds() {
			r.nodes[kind] = append(r.nodes[kind], nodeCheck)
		}
		registered = true
	}
	if unitCheck, ok := check.(pass.UnitCheck); ok {
		r.units = append(r.units, unitCheck)
		registered = true
	}
	if !registered {
		return fmt.Errorf("check %s is neither a node nor a unit check", check.Name())
	}
	r.checks = append(r.checks, check)
	return nil
}

// Checks returns registered checks sorted by name
func (r *Registry) Checks() []pass.Check {
	result := append([]pass.Check{}, r.checks...)
	sort.SliceStable(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// Rules returns sorted rule ids covered by registered checks
func (r *Registry) Rules() []string {
	seen := map[string]bool{}
	var result []string
	for _, check := range r.checks {
		for _, rule := range check.Rules() {
			if !seen[rule] {
				seen[rule] = true
				result = append(result, rule)
			}
		}
	}
	sort.Strings(result)
	return result
}

// dispatcher holds checks enabled for one pass
type dispatcher struct {
	nodes map[syntax.Kind][]pass.NodeCheck
	units []pass.UnitCheck
}

// enabled selects checks with at least one enabled rule
func (r *Registry) enabled(p *pass.Pass) *dispatcher {
	result := &dispatcher{nodes: map[syntax.Kind][]pass.NodeCheck{}}
	for kind, checks := range r.nodes {
		for _, check := range checks {
			if p.AnyEnabled(check) {
				result.nodes[kind] = append(result.nodes[kind], check)
			}
		}
	}
	for _, check := range r.units {
		if p.AnyEnabled(check) {
			result.units = append(result.units, check)
		}
	}
	return result
}
