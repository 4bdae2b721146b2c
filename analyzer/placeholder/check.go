package placeholder

import (
	"errors"
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/odoolint/analyzer/diagnostic"
	"github.com/viant/odoolint/analyzer/pass"
	"github.com/viant/odoolint/analyzer/syntax"
	"github.com/viant/odoolint/inspector/python"
)

// form identifies how substitution values reach a translated template
type form int

const (
	plain     form = iota // _("...")
	arguments             // _("...", a, k=v)
	operator              // _("...") % rhs
	method                // _("...").format(...)
)

// Values describes substitution values supplied by a call
type Values struct {
	Positional int
	Names      []string
	Mapping    bool // a dict or keywords were supplied
	Unknown    bool // count cannot be determined statically
}

// Check validates translated templates against the values they are interpolated with
type Check struct{}

func (c *Check) Name() string         { return "translation" }
func (c *Check) Kinds() []syntax.Kind { return []syntax.Kind{syntax.Call} }

func (c *Check) Rules() []string {
	return []string{
		diagnostic.TranslationContainsVar,
		diagnostic.TranslationUnsupported,
		diagnostic.TranslationPositionalUsed,
		diagnostic.TranslationTooFewArgs,
		diagnostic.TranslationTooManyArgs,
		diagnostic.TranslationArgsMismatch,
		diagnostic.TranslationTruncated,
		diagnostic.TranslationUnsupportedChr,
	}
}

// Visit inspects a call node
func (c *Check) Visit(p *pass.Pass, file *python.File, n *sitter.Node) {
	if !isTranslation(p, syntax.Callee(n, file.Source)) {
		return
	}
	args := syntax.CallArguments(n, file.Source)
	if len(args.Positional) == 0 {
		return
	}
	first := syntax.Unwrap(args.Positional[0])
	switch syntax.Classify(first) {
	case syntax.InterpolatedString:
		p.Report(diagnostic.TranslationUnsupported, file, n, syntax.Text(n, file.Source), "f-string")
		return
	case syntax.BinaryOperation, syntax.Call:
		if suggestion, ok := eager(first, file.Source); ok {
			p.Report(diagnostic.TranslationContainsVar, file, n, syntax.Text(n, file.Source), syntax.Text(n.ChildByFieldName("function"), file.Source)+suggestion)
		}
		return
	}
	template, ok := syntax.StringValue(first, file.Source)
	if !ok {
		return
	}
	kind, call, values := supplied(n, args, file.Source)
	style := Printf
	if kind == method {
		style = Format
	}
	signature, err := Derive(template, style)
	if err != nil {
		if kind != plain || isMixed(err) {
			c.reportError(p, file, n, template, err)
		}
		return
	}
	if signature.Unnamed() >= 2 {
		p.Report(diagnostic.TranslationPositionalUsed, file, n, template)
	}
	if kind == plain || values.Unknown {
		return
	}
	if rule, expected := compare(signature, values, kind); rule != "" {
		callText := syntax.Text(call, file.Source)
		if rule == diagnostic.TranslationArgsMismatch {
			p.Report(rule, file, n, template, expected, callText)
			return
		}
		p.Report(rule, file, n, template, callText)
	}
}

func (c *Check) reportError(p *pass.Pass, file *python.File, n *sitter.Node, template string, err error) {
	var truncated *TruncatedError
	var unsupported *UnsupportedCharError
	switch {
	case errors.As(err, &truncated):
		p.Report(diagnostic.TranslationTruncated, file, n, template)
	case errors.As(err, &unsupported):
		p.Report(diagnostic.TranslationUnsupportedChr, file, n, strconv.QuoteRune(unsupported.Char), strconv.Itoa(unsupported.Index), template)
	default:
		p.Report(diagnostic.TranslationUnsupported, file, n, template, err.Error())
	}
}

// isMixed reports marker combinations that are wrong whether or not values are supplied
func isMixed(err error) bool {
	return errors.Is(err, ErrMixedStyle) || errors.Is(err, ErrMixedPrintf) || errors.Is(err, ErrMixedNumbering)
}

func isTranslation(p *pass.Pass, callee string) bool {
	if callee == "" {
		return false
	}
	for _, candidate := range p.Config.TranslationFunctions {
		if callee == candidate {
			return true
		}
	}
	return false
}

// eager returns the suggested rewrite when the template was interpolated before translation
func eager(n *sitter.Node, src []byte) (string, bool) {
	switch syntax.Classify(n) {
	case syntax.BinaryOperation:
		left := syntax.Unwrap(n.ChildByFieldName("left"))
		switch syntax.Operator(n, src) {
		case "%":
			return "(" + syntax.Text(left, src) + ") % " + syntax.Text(n.ChildByFieldName("right"), src), true
		case "+":
			if syntax.IsConstant(n, src) {
				return "", false
			}
			return "(\"...\") with named placeholders", true
		}
	case syntax.Call:
		receiver := syntax.FormatCall(n, src)
		if receiver == nil || !syntax.Classify(syntax.Unwrap(receiver)).IsLiteral() {
			return "", false
		}
		arguments := n.ChildByFieldName("arguments")
		return "(" + syntax.Text(receiver, src) + ").format" + syntax.Text(arguments, src), true
	}
	return "", false
}

// supplied locates substitution values of translation call n, call is the node performing interpolation
func supplied(n *sitter.Node, args *syntax.Arguments, src []byte) (form, *sitter.Node, Values) {
	outer := n
	parent := n.Parent()
	for parent != nil && parent.Type() == "parenthesized_expression" {
		outer = parent
		parent = parent.Parent()
	}
	if parent != nil {
		switch syntax.Classify(parent) {
		case syntax.BinaryOperation:
			if syntax.Operator(parent, src) == "%" && sameNode(parent.ChildByFieldName("left"), outer) {
				return operator, parent, operands(parent.ChildByFieldName("right"), src)
			}
		case syntax.Attribute:
			if syntax.Text(parent.ChildByFieldName("attribute"), src) == "format" {
				if call := parent.Parent(); call != nil && syntax.Classify(call) == syntax.Call && sameNode(call.ChildByFieldName("function"), parent) {
					return method, call, fromArguments(syntax.CallArguments(call, src), 0)
				}
			}
		}
	}
	if len(args.Positional) > 1 || len(args.Keywords) > 0 || args.Star || args.DoubleStar {
		return arguments, n, fromArguments(args, 1)
	}
	return plain, n, Values{}
}

func fromArguments(args *syntax.Arguments, skip int) Values {
	values := Values{Unknown: args.Star || args.DoubleStar}
	if len(args.Positional) > skip {
		values.Positional = len(args.Positional) - skip
	}
	for _, keyword := range args.Keywords {
		values.Names = append(values.Names, keyword.Name)
	}
	values.Mapping = len(values.Names) > 0
	return values
}

// operands describes the right operand of %
func operands(n *sitter.Node, src []byte) Values {
	n = syntax.Unwrap(n)
	switch n.Type() {
	case "tuple":
		values := Values{Positional: int(n.NamedChildCount())}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if n.NamedChild(i).Type() == "list_splat" {
				values.Unknown = true
			}
		}
		return values
	case "dictionary":
		values := Values{Mapping: true}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			pair := n.NamedChild(i)
			if pair.Type() != "pair" {
				if pair.Type() == "dictionary_splat" {
					values.Unknown = true
				}
				continue
			}
			key, ok := syntax.StringValue(pair.ChildByFieldName("key"), src)
			if !ok {
				values.Unknown = true
				continue
			}
			values.Names = append(values.Names, key)
		}
		return values
	}
	switch syntax.Classify(n) {
	case syntax.String, syntax.ConcatenatedString, syntax.InterpolatedString, syntax.Number, syntax.Sequence:
		return Values{Positional: 1}
	case syntax.Call:
		if callee := syntax.Callee(n, src); callee == "dict" {
			return fromArguments(syntax.CallArguments(n, src), 0)
		}
	}
	// a variable may hold a tuple or a mapping
	return Values{Positional: 1, Unknown: true}
}

// compare returns the arity rule violated by values, expected describes the required values for mismatches
func compare(signature *Signature, values Values, kind form) (string, string) {
	if signature.Style == Printf {
		return comparePrintf(signature, values, kind)
	}
	return compareFormat(signature, values)
}

func comparePrintf(signature *Signature, values Values, kind form) (string, string) {
	if signature.IsMapping() {
		if values.Positional > 0 && !values.Mapping {
			return diagnostic.TranslationArgsMismatch, "named"
		}
		return compareNames(signature.Names(), values.Names)
	}
	if values.Mapping && values.Positional == 0 {
		if signature.IsEmpty() {
			return diagnostic.TranslationTooManyArgs, ""
		}
		if kind == operator && signature.Unnamed() == 1 {
			// a single %s renders the mapping itself
			return "", ""
		}
		return diagnostic.TranslationArgsMismatch, strconv.Itoa(signature.Unnamed()) + " positional"
	}
	switch expected := signature.Unnamed(); {
	case values.Positional < expected:
		return diagnostic.TranslationTooFewArgs, ""
	case values.Positional > expected:
		return diagnostic.TranslationTooManyArgs, ""
	}
	return "", ""
}

func compareFormat(signature *Signature, values Values) (string, string) {
	switch expected := signature.Positional(); {
	case values.Positional < expected:
		return diagnostic.TranslationTooFewArgs, ""
	case values.Positional > expected:
		return diagnostic.TranslationTooManyArgs, ""
	}
	return compareNames(signature.Names(), values.Names)
}

func compareNames(expected, actual []string) (string, string) {
	supplied := map[string]bool{}
	for _, name := range actual {
		supplied[name] = true
	}
	for _, name := range expected {
		if !supplied[name] {
			return diagnostic.TranslationTooFewArgs, ""
		}
		delete(supplied, name)
	}
	if len(supplied) > 0 {
		return diagnostic.TranslationTooManyArgs, ""
	}
	return "", ""
}

func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}
