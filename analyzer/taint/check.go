package taint

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/odoolint/analyzer/diagnostic"
	"github.com/viant/odoolint/analyzer/pass"
	"github.com/viant/odoolint/analyzer/syntax"
	"github.com/viant/odoolint/config"
	"github.com/viant/odoolint/inspector/python"
)

// SQLCheck reports queries built by string interpolation before reaching an execute sink
type SQLCheck struct{}

func (c *SQLCheck) Name() string         { return "sql" }
func (c *SQLCheck) Rules() []string      { return []string{diagnostic.SQLInjection} }
func (c *SQLCheck) Kinds() []syntax.Kind { return []syntax.Kind{syntax.Call} }

// Visit inspects a call node
func (c *SQLCheck) Visit(p *pass.Pass, file *python.File, n *sitter.Node) {
	if file.IsTest() {
		return
	}
	if _, ok := matchSink(p.Config.SinksOf(config.SinkSQL), syntax.Callee(n, file.Source)); !ok {
		return
	}
	args := syntax.CallArguments(n, file.Source)
	if args.Star || len(args.Positional) > 1 {
		return
	}
	var query *sitter.Node
	if len(args.Positional) == 1 {
		query = args.Positional[0]
	} else if query = args.Keyword("query"); query == nil {
		return
	}
	tracer := NewTracer(p.Scope(file, n), file.Source, p.Config.QueryBuilders, p.Config.MaxTraceHops)
	if tracer.Trace(query) == Risky {
		p.Report(diagnostic.SQLInjection, file, n)
	}
}

// TimeoutCheck reports outgoing requests without a timeout
type TimeoutCheck struct{}

func (c *TimeoutCheck) Name() string         { return "request-timeout" }
func (c *TimeoutCheck) Rules() []string      { return []string{diagnostic.ExternalRequestTimeout} }
func (c *TimeoutCheck) Kinds() []syntax.Kind { return []syntax.Kind{syntax.Call} }

// Visit inspects a call node
func (c *TimeoutCheck) Visit(p *pass.Pass, file *python.File, n *sitter.Node) {
	callee := syntax.Callee(n, file.Source)
	sink, ok := matchSink(p.Config.SinksOf(config.SinkRequest), callee)
	if !ok || !sink.NeedsTimeout {
		return
	}
	args := syntax.CallArguments(n, file.Source)
	if args.DoubleStar || args.Keyword("timeout") != nil {
		return
	}
	if sink.TimeoutPosition > 0 && (len(args.Positional) >= sink.TimeoutPosition || args.Star) {
		return
	}
	p.Report(diagnostic.ExternalRequestTimeout, file, n, callee)
}

func matchSink(sinks []config.Sink, callee string) (config.Sink, bool) {
	if callee == "" {
		return config.Sink{}, false
	}
	for _, sink := range sinks {
		if syntax.MatchesCallee(callee, sink.Name) {
			return sink, true
		}
	}
	return config.Sink{}, false
}
