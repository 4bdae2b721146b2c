package python

import (
	"context"
	"fmt"
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// File represents a parsed python source file
type File struct {
	Path     string // path relative to module root
	Source   []byte
	Tree     *sitter.Tree
	HasError bool
}

// Root returns tree root node
func (f *File) Root() *sitter.Node {
	if f.Tree == nil {
		return nil
	}
	return f.Tree.RootNode()
}

// Name returns file base name
func (f *File) Name() string {
	return path.Base(f.Path)
}

// IsTest returns true for files conventionally holding test fixtures
func (f *File) IsTest() bool {
	return strings.HasPrefix(f.Name(), "test_")
}

// Text returns node source text
func (f *File) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(f.Source)
}

// Close releases the tree
func (f *File) Close() {
	if f.Tree != nil {
		f.Tree.Close()
		f.Tree = nil
	}
}

// Parse parses python source code, tree-sitter is error tolerant so syntax errors only set HasError
func Parse(ctx context.Context, filename string, src []byte) (*File, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", filename, err)
	}
	root := tree.RootNode()
	return &File{
		Path:     filename,
		Source:   src,
		Tree:     tree,
		HasError: root == nil || root.HasError(),
	}, nil
}
