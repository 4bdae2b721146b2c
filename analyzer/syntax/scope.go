package syntax

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
)

// BindingKind classifies how a name received its value
type BindingKind int

const (
	// Assign binds the value of a plain or walrus assignment
	Assign BindingKind = iota
	// Augment combines the previous value with Value using Operator
	Augment
	// Parameter binds a function parameter
	Parameter
	// Loop binds a for loop target, Value holds the iterable
	Loop
	// Opaque binds a value that cannot be followed, i.e. unpacking or with targets
	Opaque
)

var bindingNames = [...]string{"assign", "augment", "parameter", "loop", "opaque"}

func (k BindingKind) String() string {
	if int(k) < len(bindingNames) {
		return bindingNames[k]
	}
	return "unknown"
}

// Binding represents one write to a textual target
type Binding struct {
	Target   string
	Kind     BindingKind
	Value    *sitter.Node
	Operator string
	Start    uint32 // statement start, previous bindings end before it
	Offset   uint32 // position after which the binding is visible
}

// Scope indexes bindings of a function body or module, nested definitions are not entered
type Scope struct {
	Node     *sitter.Node
	bindings map[string][]Binding
}

// NewScope builds binding index for a function_definition or module node
func NewScope(n *sitter.Node, src []byte) *Scope {
	s := &Scope{Node: n, bindings: map[string][]Binding{}}
	if n == nil {
		return s
	}
	body := n
	if Classify(n) == FunctionDefinition {
		s.indexParameters(n.ChildByFieldName("parameters"), src)
		body = n.ChildByFieldName("body")
	}
	s.index(body, src)
	for target := range s.bindings {
		bindings := s.bindings[target]
		sort.SliceStable(bindings, func(i, j int) bool { return bindings[i].Offset < bindings[j].Offset })
	}
	return s
}

// Lookup returns the last binding of target visible at offset
func (s *Scope) Lookup(target string, offset uint32) (Binding, bool) {
	bindings := s.bindings[target]
	index := sort.Search(len(bindings), func(i int) bool { return bindings[i].Offset > offset })
	if index == 0 {
		return Binding{}, false
	}
	return bindings[index-1], true
}

// Bindings returns all bindings of target ordered by offset
func (s *Scope) Bindings(target string) []Binding {
	return s.bindings[target]
}

func (s *Scope) add(binding Binding) {
	if binding.Target == "" {
		return
	}
	s.bindings[binding.Target] = append(s.bindings[binding.Target], binding)
}

func (s *Scope) indexParameters(params *sitter.Node, src []byte) {
	if params == nil {
		return
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		param := params.NamedChild(i)
		name := param
		switch param.Type() {
		case "default_parameter", "typed_default_parameter":
			name = param.ChildByFieldName("name")
		case "typed_parameter", "list_splat_pattern", "dictionary_splat_pattern":
			for j := 0; j < int(param.NamedChildCount()); j++ {
				if param.NamedChild(j).Type() == "identifier" {
					name = param.NamedChild(j)
					break
				}
			}
		}
		if name == nil || name.Type() != "identifier" {
			continue
		}
		s.add(Binding{Target: name.Content(src), Kind: Parameter, Start: param.StartByte(), Offset: param.EndByte()})
	}
}

func (s *Scope) index(n *sitter.Node, src []byte) {
	Walk(n, func(node *sitter.Node) bool {
		switch node.Type() {
		case "function_definition", "class_definition", "lambda",
			"list_comprehension", "dictionary_comprehension", "set_comprehension", "generator_expression":
			return node == n
		case "assignment":
			s.indexAssignment(node, src)
		case "augmented_assignment":
			s.add(Binding{
				Target:   Dotted(node.ChildByFieldName("left"), src),
				Kind:     Augment,
				Value:    node.ChildByFieldName("right"),
				Operator: Operator(node, src),
				Start:    node.StartByte(),
				Offset:   node.EndByte(),
			})
		case "named_expression":
			s.add(Binding{Target: Dotted(node.ChildByFieldName("name"), src), Kind: Assign, Value: node.ChildByFieldName("value"), Start: node.StartByte(), Offset: node.EndByte()})
		case "for_statement":
			left := node.ChildByFieldName("left")
			for _, target := range targets(left) {
				s.add(Binding{Target: Dotted(target, src), Kind: Loop, Value: node.ChildByFieldName("right"), Start: node.StartByte(), Offset: left.EndByte()})
			}
		case "as_pattern":
			if alias := node.ChildByFieldName("alias"); alias != nil {
				for _, target := range targets(alias) {
					s.add(Binding{Target: Dotted(target, src), Kind: Opaque, Start: node.StartByte(), Offset: node.EndByte()})
				}
			}
		}
		return true
	})
}

func (s *Scope) indexAssignment(n *sitter.Node, src []byte) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if right == nil {
		return
	}
	lefts := []*sitter.Node{left}
	for Classify(right) == Assignment {
		lefts = append(lefts, right.ChildByFieldName("left"))
		right = right.ChildByFieldName("right")
	}
	for _, target := range lefts {
		s.bindTarget(target, right, n, src)
	}
}

func (s *Scope) bindTarget(target, value, statement *sitter.Node, src []byte) {
	target = Unwrap(target)
	if target == nil {
		return
	}
	switch target.Type() {
	case "identifier", "attribute", "subscript":
		s.add(Binding{Target: Dotted(target, src), Kind: Assign, Value: value, Start: statement.StartByte(), Offset: statement.EndByte()})
		return
	}
	items := targets(target)
	value = Unwrap(value)
	if value != nil && Classify(value) == Sequence && int(value.NamedChildCount()) == len(items) {
		for i, item := range items {
			s.add(Binding{Target: Dotted(item, src), Kind: Assign, Value: value.NamedChild(i), Start: statement.StartByte(), Offset: statement.EndByte()})
		}
		return
	}
	for _, item := range items {
		s.add(Binding{Target: Dotted(item, src), Kind: Opaque, Start: statement.StartByte(), Offset: statement.EndByte()})
	}
}

// targets flattens pattern lists into identifier, attribute or subscript targets
func targets(n *sitter.Node) []*sitter.Node {
	n = Unwrap(n)
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier", "attribute", "subscript":
		return []*sitter.Node{n}
	case "pattern_list", "tuple_pattern", "list_pattern", "tuple", "list", "expression_list", "as_pattern_target":
		var result []*sitter.Node
		for i := 0; i < int(n.NamedChildCount()); i++ {
			result = append(result, targets(n.NamedChild(i))...)
		}
		return result
	case "list_splat_pattern":
		if n.NamedChildCount() > 0 {
			return targets(n.NamedChild(0))
		}
	}
	return nil
}
