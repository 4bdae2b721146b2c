package diagnostic

import (
	"fmt"
	"sort"
	"strings"
)

// Location represents diagnostic position, Line and Column are 1-based, zero when unknown
type Location struct {
	Module string `yaml:"module"`
	File   string `yaml:"file"`
	Line   int    `yaml:"line,omitempty"`
	Column int    `yaml:"column,omitempty"`
}

func (l Location) String() string {
	location := l.File
	if l.Module != "" {
		location = l.Module + "/" + l.File
	}
	if l.Line > 0 {
		location = fmt.Sprintf("%s:%d", location, l.Line)
		if l.Column > 0 {
			location = fmt.Sprintf("%s:%d", location, l.Column)
		}
	}
	return location
}

func (l Location) less(other Location) bool {
	if l.Module != other.Module {
		return l.Module < other.Module
	}
	if l.File != other.File {
		return l.File < other.File
	}
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Column < other.Column
}

// Diagnostic represents a single finding
type Diagnostic struct {
	Rule     string   `yaml:"rule"`
	Severity Severity `yaml:"severity"`
	Args     []string `yaml:"args,omitempty"`
	Location Location `yaml:"location"`
}

// Message substitutes arguments into the rule template
func (d *Diagnostic) Message() string {
	rule, ok := Lookup(d.Rule)
	if !ok {
		return strings.Join(d.Args, " ")
	}
	if len(d.Args) == 0 {
		return strings.ReplaceAll(rule.Template, "%%", "%")
	}
	args := make([]interface{}, len(d.Args))
	for i, arg := range d.Args {
		args[i] = arg
	}
	return fmt.Sprintf(rule.Template, args...)
}

func (d *Diagnostic) String() string {
	return fmt.Sprintf("%s: [%s] %s", d.Location, d.Rule, d.Message())
}

// Sink receives findings
type Sink interface {
	Emit(rule string, location Location, args ...string)
}

type key struct {
	rule   string
	file   string
	line   int
	column int
}

// Emitter collects findings of one unit, duplicated (rule, location) findings are dropped
type Emitter struct {
	module      string
	seen        map[key]bool
	diagnostics []*Diagnostic
}

// NewEmitter creates an emitter for module
func NewEmitter(module string) *Emitter {
	return &Emitter{module: module, seen: map[key]bool{}}
}

// Emit records a finding
func (e *Emitter) Emit(rule string, location Location, args ...string) {
	if location.Module == "" {
		location.Module = e.module
	}
	k := key{rule: rule, file: location.File, line: location.Line, column: location.Column}
	if e.seen[k] {
		return
	}
	e.seen[k] = true
	severity := Warning
	if r, ok := Lookup(rule); ok {
		severity = r.Severity
	}
	e.diagnostics = append(e.diagnostics, &Diagnostic{Rule: rule, Severity: severity, Args: args, Location: location})
}

// Len returns number of collected diagnostics
func (e *Emitter) Len() int {
	return len(e.diagnostics)
}

// Diagnostics returns collected findings sorted by location then rule
func (e *Emitter) Diagnostics() []*Diagnostic {
	result := append([]*Diagnostic{}, e.diagnostics...)
	Sort(result)
	return result
}

// Sort orders diagnostics by location then rule
func Sort(diagnostics []*Diagnostic) {
	sort.SliceStable(diagnostics, func(i, j int) bool {
		a, b := diagnostics[i], diagnostics[j]
		if a.Location != b.Location {
			return a.Location.less(b.Location)
		}
		return a.Rule < b.Rule
	})
}
