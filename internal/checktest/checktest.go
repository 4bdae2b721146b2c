// Package checktest runs single checks over inline sources
package checktest

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/odoolint/analyzer/diagnostic"
	"github.com/viant/odoolint/analyzer/pass"
	"github.com/viant/odoolint/analyzer/syntax"
	"github.com/viant/odoolint/config"
	"github.com/viant/odoolint/inspector/python"
)

// Parse parses python source, the tree is released when the test ends
func Parse(t testing.TB, path, src string) *python.File {
	t.Helper()
	file, err := python.Parse(context.Background(), path, []byte(src))
	if err != nil {
		t.Fatalf("failed to parse %s: %v", path, err)
	}
	t.Cleanup(file.Close)
	return file
}

// Visit dispatches nodes of src to check and returns emitted diagnostics, cfg defaults to config.Default
func Visit(t testing.TB, check pass.NodeCheck, cfg *config.Config, path, src string) []*diagnostic.Diagnostic {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	file := Parse(t, path, src)
	emitter := diagnostic.NewEmitter("m")
	p := pass.New(cfg, nil, emitter)
	kinds := map[syntax.Kind]bool{}
	for _, kind := range check.Kinds() {
		kinds[kind] = true
	}
	syntax.Walk(file.Root(), func(n *sitter.Node) bool {
		if kinds[syntax.Classify(n)] {
			check.Visit(p, file, n)
		}
		return true
	})
	return emitter.Diagnostics()
}

// Rules returns rule ids of diagnostics
func Rules(diagnostics []*diagnostic.Diagnostic) []string {
	var result []string
	for _, d := range diagnostics {
		result = append(result, d.Rule)
	}
	return result
}
