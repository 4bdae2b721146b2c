package taint

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/odoolint/analyzer/syntax"
	"github.com/viant/odoolint/inspector/python"
)

// Verdict classifies how a string expression was constructed
type Verdict int

const (
	Safe Verdict = iota
	Risky
	// Indeterminate is produced when the hop budget runs out, callers treat it as Safe
	Indeterminate
)

var verdictNames = [...]string{"safe", "risky", "indeterminate"}

func (v Verdict) String() string {
	if int(v) < len(verdictNames) {
		return verdictNames[v]
	}
	return "unknown"
}

// combine returns the dominating verdict, Risky wins over Indeterminate which wins over Safe
func combine(verdicts ...Verdict) Verdict {
	result := Safe
	for _, verdict := range verdicts {
		switch verdict {
		case Risky:
			return Risky
		case Indeterminate:
			result = Indeterminate
		}
	}
	return result
}

// Tracer classifies sink arguments by following assignments of one scope.
// A reference without any binding in scope is Safe: cross function flows are not followed.
type Tracer struct {
	scope    *syntax.Scope
	src      []byte
	builders []string
	maxHops  int
}

// NewTracer creates a tracer, builders are callee names whose results are trusted
func NewTracer(scope *syntax.Scope, src []byte, builders []string, maxHops int) *Tracer {
	return &Tracer{scope: scope, src: src, builders: builders, maxHops: maxHops}
}

// Trace classifies the argument passed to a sink
func (t *Tracer) Trace(arg *sitter.Node) Verdict {
	return t.argument(arg, 0)
}

// argument evaluates a sink argument: compositions are inspected, references are resolved, anything else is Safe
func (t *Tracer) argument(n *sitter.Node, hops int) Verdict {
	if hops > t.maxHops {
		return Indeterminate
	}
	n = syntax.Unwrap(n)
	if t.isComposition(n) {
		return t.composition(n, hops)
	}
	switch syntax.Classify(n) {
	case syntax.Identifier, syntax.Subscript:
		binding, ok := t.scope.Lookup(syntax.Dotted(n, t.src), n.StartByte())
		if !ok {
			return Safe
		}
		return t.bindingArgument(binding, hops+1)
	}
	return Safe
}

func (t *Tracer) bindingArgument(binding syntax.Binding, hops int) Verdict {
	if hops > t.maxHops {
		return Indeterminate
	}
	switch binding.Kind {
	case syntax.Assign:
		return t.argument(binding.Value, hops)
	case syntax.Augment:
		previous := Safe
		if prior, ok := t.scope.Lookup(binding.Target, binding.Start); ok {
			previous = t.bindingArgument(prior, hops+1)
		}
		return combine(previous, t.operand(binding.Value, hops))
	}
	return Safe
}

func (t *Tracer) isComposition(n *sitter.Node) bool {
	switch syntax.Classify(n) {
	case syntax.BinaryOperation:
		op := syntax.Operator(n, t.src)
		return op == "%" || op == "+"
	case syntax.InterpolatedString:
		return true
	case syntax.Call:
		return t.formatReceiver(n) != nil
	}
	return false
}

// composition evaluates string building expressions
func (t *Tracer) composition(n *sitter.Node, hops int) Verdict {
	switch syntax.Classify(n) {
	case syntax.BinaryOperation:
		left, right := n.ChildByFieldName("left"), n.ChildByFieldName("right")
		if syntax.Operator(n, t.src) == "%" {
			return combine(t.formatValues(right, hops), t.argument(left, hops))
		}
		return combine(t.operand(left, hops), t.operand(right, hops))
	case syntax.InterpolatedString:
		var verdicts []Verdict
		for _, expr := range python.Interpolations(n) {
			verdicts = append(verdicts, t.operand(expr, hops))
		}
		return combine(verdicts...)
	case syntax.Call:
		args := syntax.CallArguments(n, t.src)
		var verdicts []Verdict
		for _, arg := range args.Positional {
			verdicts = append(verdicts, t.operand(arg, hops))
		}
		for _, keyword := range args.Keywords {
			verdicts = append(verdicts, t.operand(keyword.Value, hops))
		}
		if args.Star || args.DoubleStar {
			verdicts = append(verdicts, Risky)
		}
		return combine(verdicts...)
	}
	return Safe
}

// formatValues evaluates the right operand of %, tuple and dict items are checked one by one
func (t *Tracer) formatValues(n *sitter.Node, hops int) Verdict {
	n = syntax.Unwrap(n)
	switch syntax.Classify(n) {
	case syntax.Sequence:
		var verdicts []Verdict
		for i := 0; i < int(n.NamedChildCount()); i++ {
			verdicts = append(verdicts, t.operand(n.NamedChild(i), hops))
		}
		return combine(verdicts...)
	case syntax.Dictionary:
		var verdicts []Verdict
		for i := 0; i < int(n.NamedChildCount()); i++ {
			pair := n.NamedChild(i)
			if pair.Type() != "pair" {
				if pair.Type() == "dictionary_splat" {
					verdicts = append(verdicts, Risky)
				}
				continue
			}
			verdicts = append(verdicts, t.operand(pair.ChildByFieldName("value"), hops))
		}
		return combine(verdicts...)
	}
	return t.operand(n, hops)
}

// operand evaluates a value interpolated into a query
func (t *Tracer) operand(n *sitter.Node, hops int) Verdict {
	if hops > t.maxHops {
		return Indeterminate
	}
	n = syntax.Unwrap(n)
	if n == nil {
		return Safe
	}
	if t.isComposition(n) {
		return t.composition(n, hops)
	}
	switch syntax.Classify(n) {
	case syntax.String, syntax.ConcatenatedString, syntax.Number, syntax.Constant:
		return Safe
	case syntax.Identifier, syntax.Subscript:
		binding, ok := t.scope.Lookup(syntax.Dotted(n, t.src), n.StartByte())
		if !ok {
			return Safe
		}
		return t.bindingOperand(binding, hops+1)
	case syntax.Attribute:
		if t.isPrivateAttribute(n) {
			return Safe
		}
		if binding, ok := t.scope.Lookup(syntax.Dotted(n, t.src), n.StartByte()); ok {
			return t.bindingOperand(binding, hops+1)
		}
		return Risky
	case syntax.Call:
		function := n.ChildByFieldName("function")
		if t.isPrivateAttribute(function) || t.isBuilder(syntax.Dotted(function, t.src)) {
			return Safe
		}
		return Risky
	case syntax.Conditional:
		var verdicts []Verdict
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if i == 1 {
				continue // condition
			}
			verdicts = append(verdicts, t.operand(n.NamedChild(i), hops))
		}
		return combine(verdicts...)
	case syntax.Sequence:
		return t.formatValues(n, hops)
	}
	if syntax.IsConstant(n, t.src) {
		return Safe
	}
	return Risky
}

func (t *Tracer) bindingOperand(binding syntax.Binding, hops int) Verdict {
	if hops > t.maxHops {
		return Indeterminate
	}
	switch binding.Kind {
	case syntax.Assign:
		return t.operand(binding.Value, hops)
	case syntax.Augment:
		previous := Safe
		if prior, ok := t.scope.Lookup(binding.Target, binding.Start); ok {
			previous = t.bindingOperand(prior, hops+1)
		}
		return combine(previous, t.operand(binding.Value, hops))
	case syntax.Loop:
		iterable := syntax.Unwrap(binding.Value)
		if iterable != nil && (iterable.Type() == "list" || iterable.Type() == "tuple") {
			return t.formatValues(iterable, hops)
		}
		return Risky
	}
	return Risky
}

// isPrivateAttribute matches name._attr, the attribute is assumed internal
func (t *Tracer) isPrivateAttribute(n *sitter.Node) bool {
	if syntax.Classify(n) != syntax.Attribute {
		return false
	}
	object := n.ChildByFieldName("object")
	attribute := syntax.Text(n.ChildByFieldName("attribute"), t.src)
	return syntax.Classify(object) == syntax.Identifier && strings.HasPrefix(attribute, "_")
}

func (t *Tracer) isBuilder(callee string) bool {
	for _, builder := range t.builders {
		if syntax.MatchesCallee(callee, builder) {
			return true
		}
	}
	return false
}

// formatReceiver returns receiver of "...".format(), calls on query builders are trusted
func (t *Tracer) formatReceiver(call *sitter.Node) *sitter.Node {
	receiver := syntax.FormatCall(call, t.src)
	if receiver == nil {
		return nil
	}
	if syntax.Classify(receiver) == syntax.Call && t.isBuilder(syntax.Callee(receiver, t.src)) {
		return nil
	}
	return receiver
}
