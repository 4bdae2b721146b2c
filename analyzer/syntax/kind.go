package syntax

import sitter "github.com/smacker/go-tree-sitter"

// Kind is the syntactic category of a node, independent of grammar node names
type Kind int

const (
	Other Kind = iota
	Module
	ClassDefinition
	FunctionDefinition
	Assignment
	AugmentedAssignment
	Call
	Attribute
	Identifier
	Subscript
	BinaryOperation
	String
	InterpolatedString
	ConcatenatedString
	Number
	Constant // True, False, None
	Parenthesized
	Conditional
	Sequence // tuple, list, set
	Dictionary
	KeywordArgument

	kindCount
)

// Kinds returns every kind in declaration order
func Kinds() []Kind {
	result := make([]Kind, 0, kindCount)
	for k := Other; k < kindCount; k++ {
		result = append(result, k)
	}
	return result
}

var kindNames = [kindCount]string{
	Other:               "other",
	Module:              "module",
	ClassDefinition:     "class",
	FunctionDefinition:  "function",
	Assignment:          "assignment",
	AugmentedAssignment: "augmented-assignment",
	Call:                "call",
	Attribute:           "attribute",
	Identifier:          "identifier",
	Subscript:           "subscript",
	BinaryOperation:     "binary-operation",
	String:              "string",
	InterpolatedString:  "interpolated-string",
	ConcatenatedString:  "concatenated-string",
	Number:              "number",
	Constant:            "constant",
	Parenthesized:       "parenthesized",
	Conditional:         "conditional",
	Sequence:            "sequence",
	Dictionary:          "dictionary",
	KeywordArgument:     "keyword-argument",
}

func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

// IsLiteral returns true for kinds holding a statically known value
func (k Kind) IsLiteral() bool {
	switch k {
	case String, ConcatenatedString, Number, Constant:
		return true
	}
	return false
}

// Classify returns node kind
func Classify(n *sitter.Node) Kind {
	if n == nil {
		return Other
	}
	switch n.Type() {
	case "module":
		return Module
	case "class_definition":
		return ClassDefinition
	case "function_definition":
		return FunctionDefinition
	case "assignment":
		return Assignment
	case "augmented_assignment":
		return AugmentedAssignment
	case "call":
		return Call
	case "attribute":
		return Attribute
	case "identifier":
		return Identifier
	case "subscript":
		return Subscript
	case "binary_operator":
		return BinaryOperation
	case "string":
		if isInterpolated(n) {
			return InterpolatedString
		}
		return String
	case "concatenated_string":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if isInterpolated(n.NamedChild(i)) {
				return InterpolatedString
			}
		}
		return ConcatenatedString
	case "integer", "float":
		return Number
	case "true", "false", "none":
		return Constant
	case "parenthesized_expression":
		return Parenthesized
	case "conditional_expression":
		return Conditional
	case "tuple", "list", "set", "expression_list":
		return Sequence
	case "dictionary":
		return Dictionary
	case "keyword_argument":
		return KeywordArgument
	}
	return Other
}

func isInterpolated(n *sitter.Node) bool {
	if n == nil || n.Type() != "string" {
		return false
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == "interpolation" {
			return true
		}
	}
	return false
}
