package manifest

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/odoolint/inspector/python"
)

// ShapeError reports a manifest that could not be evaluated to a mapping
type ShapeError struct {
	Path   string
	Line   int
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s:%d: manifest is not a literal mapping: %s", e.Path, e.Line, e.Reason)
}

// Parse evaluates the top level dictionary literal of a manifest file
func Parse(ctx context.Context, filename string, src []byte) (*Record, error) {
	file, err := python.Parse(ctx, filename, src)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	root := file.Root()
	if root == nil {
		return nil, &ShapeError{Path: filename, Line: 1, Reason: "empty tree"}
	}
	var dict *sitter.Node
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "comment":
			continue
		case "expression_statement":
			if child.NamedChildCount() > 0 && child.NamedChild(0).Type() == "dictionary" {
				dict = child.NamedChild(0)
			}
		}
		if dict != nil {
			break
		}
	}
	if dict == nil {
		return nil, &ShapeError{Path: filename, Line: 1, Reason: "no dictionary expression found"}
	}
	if dict.HasError() {
		return nil, &ShapeError{Path: filename, Line: line(dict), Reason: "syntax error"}
	}
	e := &evaluator{src: src, path: filename}
	value, err := e.eval(dict)
	if err != nil {
		return nil, err
	}
	return &Record{Path: filename, Line: value.Line, Keys: value.Keys, values: value.Entries}, nil
}

type evaluator struct {
	src  []byte
	path string
}

func (e *evaluator) errorf(n *sitter.Node, format string, args ...interface{}) error {
	return &ShapeError{Path: e.path, Line: line(n), Reason: fmt.Sprintf(format, args...)}
}

func (e *evaluator) eval(n *sitter.Node) (*Value, error) {
	if n == nil {
		return nil, &ShapeError{Path: e.path, Reason: "missing value"}
	}
	switch n.Type() {
	case "dictionary":
		result := &Value{Kind: KindDict, Entries: map[string]*Value{}, Line: line(n)}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			switch child.Type() {
			case "comment":
				continue
			case "pair":
			default:
				return nil, e.errorf(child, "unsupported dictionary element %s", child.Type())
			}
			keyNode := child.ChildByFieldName("key")
			key, err := e.eval(keyNode)
			if err != nil {
				return nil, err
			}
			if key.Kind != KindString {
				return nil, e.errorf(keyNode, "dictionary key is %s", key.Kind)
			}
			value, err := e.eval(child.ChildByFieldName("value"))
			if err != nil {
				return nil, err
			}
			value.Line = line(child)
			if _, ok := result.Entries[key.Text]; !ok {
				result.Keys = append(result.Keys, key.Text)
			}
			result.Entries[key.Text] = value
		}
		return result, nil
	case "list", "tuple":
		result := &Value{Kind: KindList, Line: line(n)}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() == "comment" {
				continue
			}
			item, err := e.eval(child)
			if err != nil {
				return nil, err
			}
			result.Items = append(result.Items, item)
		}
		return result, nil
	case "string", "concatenated_string":
		literal, ok := python.DecodeString(n, e.src)
		if !ok {
			return nil, e.errorf(n, "malformed string")
		}
		if literal.Interpolated {
			return nil, e.errorf(n, "interpolated string")
		}
		return &Value{Kind: KindString, Text: literal.Value, Line: line(n)}, nil
	case "integer", "float":
		return &Value{Kind: KindNumber, Text: n.Content(e.src), Line: line(n)}, nil
	case "unary_operator":
		operand := n.ChildByFieldName("argument")
		if operand != nil && (operand.Type() == "integer" || operand.Type() == "float") {
			return &Value{Kind: KindNumber, Text: n.Content(e.src), Line: line(n)}, nil
		}
	case "true", "false":
		return &Value{Kind: KindBool, Text: n.Content(e.src), Line: line(n)}, nil
	case "none":
		return &Value{Kind: KindNone, Line: line(n)}, nil
	case "parenthesized_expression":
		if n.NamedChildCount() == 1 {
			return e.eval(n.NamedChild(0))
		}
	}
	return nil, e.errorf(n, "unsupported expression %s", n.Type())
}

func line(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartPoint().Row) + 1
}
