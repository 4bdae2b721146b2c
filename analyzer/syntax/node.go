package syntax

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/odoolint/inspector/python"
)

// Keyword represents a keyword argument
type Keyword struct {
	Name  string
	Value *sitter.Node
	Node  *sitter.Node
}

// Arguments represents call arguments split by form
type Arguments struct {
	Positional []*sitter.Node
	Keywords   []Keyword
	Star       bool // *args present
	DoubleStar bool // **kwargs present
}

// Keyword returns keyword argument value
func (a *Arguments) Keyword(name string) *sitter.Node {
	for _, keyword := range a.Keywords {
		if keyword.Name == name {
			return keyword.Value
		}
	}
	return nil
}

// Count returns number of supplied arguments
func (a *Arguments) Count() int {
	return len(a.Positional) + len(a.Keywords)
}

// CallArguments returns arguments of a call node
func CallArguments(call *sitter.Node, src []byte) *Arguments {
	result := &Arguments{}
	if call == nil {
		return result
	}
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return result
	}
	if args.Type() == "generator_expression" {
		result.Positional = append(result.Positional, args)
		return result
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		switch arg.Type() {
		case "comment":
		case "keyword_argument":
			name := arg.ChildByFieldName("name")
			result.Keywords = append(result.Keywords, Keyword{Name: Text(name, src), Value: arg.ChildByFieldName("value"), Node: arg})
		case "list_splat":
			result.Star = true
		case "dictionary_splat":
			result.DoubleStar = true
		default:
			result.Positional = append(result.Positional, arg)
		}
	}
	return result
}

// Text returns node source text
func Text(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(src)
}

// Dotted returns a compact dotted form of a callee or target expression
func Dotted(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	text := n.Content(src)
	if !strings.ContainsAny(text, " \t\r\n") {
		return text
	}
	return strings.Join(strings.Fields(text), "")
}

// Callee returns dotted callee text of a call node
func Callee(call *sitter.Node, src []byte) string {
	if call == nil {
		return ""
	}
	return Dotted(call.ChildByFieldName("function"), src)
}

// MatchesCallee returns true if callee equals name or ends with .name
func MatchesCallee(callee, name string) bool {
	return callee == name || strings.HasSuffix(callee, "."+name)
}

// Unwrap strips enclosing parentheses
func Unwrap(n *sitter.Node) *sitter.Node {
	for n != nil && n.Type() == "parenthesized_expression" && n.NamedChildCount() == 1 {
		n = n.NamedChild(0)
	}
	return n
}

// StringValue returns statically known value of a plain or implicitly concatenated string
func StringValue(n *sitter.Node, src []byte) (string, bool) {
	n = Unwrap(n)
	switch Classify(n) {
	case String, ConcatenatedString:
		literal, ok := python.DecodeString(n, src)
		if !ok || literal.Interpolated {
			return "", false
		}
		return literal.Value, true
	}
	return "", false
}

// Operator returns binary operator text
func Operator(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	if op := n.ChildByFieldName("operator"); op != nil {
		return op.Content(src)
	}
	return ""
}

// IsConstant returns true for expressions built only from literals
func IsConstant(n *sitter.Node, src []byte) bool {
	n = Unwrap(n)
	switch Classify(n) {
	case String, ConcatenatedString, Number, Constant:
		return true
	case BinaryOperation:
		return IsConstant(n.ChildByFieldName("left"), src) && IsConstant(n.ChildByFieldName("right"), src)
	case Sequence:
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if !IsConstant(n.NamedChild(i), src) {
				return false
			}
		}
		return true
	case Other:
		if n != nil && n.Type() == "unary_operator" {
			return IsConstant(n.ChildByFieldName("argument"), src)
		}
	}
	return false
}

// FormatCall returns receiver of a str.format call, nil otherwise
func FormatCall(call *sitter.Node, src []byte) *sitter.Node {
	if Classify(call) != Call {
		return nil
	}
	function := call.ChildByFieldName("function")
	if Classify(function) != Attribute {
		return nil
	}
	if Text(function.ChildByFieldName("attribute"), src) != "format" {
		return nil
	}
	return function.ChildByFieldName("object")
}

// Walk visits n and its named descendants in pre-order, returning false skips children
func Walk(n *sitter.Node, visit func(n *sitter.Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		Walk(n.NamedChild(i), visit)
	}
}

// Enclosing returns nearest ancestor matching one of kinds
func Enclosing(n *sitter.Node, kinds ...Kind) *sitter.Node {
	for parent := n.Parent(); parent != nil; parent = parent.Parent() {
		kind := Classify(parent)
		for _, candidate := range kinds {
			if kind == candidate {
				return parent
			}
		}
	}
	return nil
}

// Line returns 1-based node line
func Line(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartPoint().Row) + 1
}

// Column returns 1-based node column
func Column(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartPoint().Column) + 1
}
