package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/odoolint/analyzer/pass"
	"github.com/viant/odoolint/analyzer/syntax"
	"github.com/viant/odoolint/inspector/python"
)

// walk visits file nodes in pre-order and dispatches each to checks registered for its kind
func (d *dispatcher) walk(p *pass.Pass, file *python.File) {
	if len(d.nodes) == 0 {
		return
	}
	syntax.Walk(file.Root(), func(n *sitter.Node) bool {
		for _, check := range d.nodes[syntax.Classify(n)] {
			check.Visit(p, file, n)
		}
		return true
	})
}
