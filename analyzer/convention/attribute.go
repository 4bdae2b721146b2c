package convention

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/odoolint/analyzer/diagnostic"
	"github.com/viant/odoolint/analyzer/pass"
	"github.com/viant/odoolint/analyzer/syntax"
	"github.com/viant/odoolint/inspector/python"
)

// AttributeCheck reports class attributes that are no longer read by the framework
type AttributeCheck struct{}

func (c *AttributeCheck) Name() string         { return "deprecated-attribute" }
func (c *AttributeCheck) Rules() []string      { return []string{diagnostic.AttributeDeprecated} }
func (c *AttributeCheck) Kinds() []syntax.Kind { return []syntax.Kind{syntax.Assignment} }

// Visit inspects assignments declared directly in a class body
func (c *AttributeCheck) Visit(p *pass.Pass, file *python.File, n *sitter.Node) {
	if !inClassBody(n) {
		return
	}
	target := n.ChildByFieldName("left")
	if syntax.Classify(target) != syntax.Identifier {
		return
	}
	name := syntax.Text(target, file.Source)
	if replacement, ok := p.Config.DeprecatedAttributes[name]; ok {
		p.Report(diagnostic.AttributeDeprecated, file, n, name, replacement)
	}
}

func inClassBody(n *sitter.Node) bool {
	statement := n.Parent()
	if statement == nil || statement.Type() != "expression_statement" {
		return false
	}
	block := statement.Parent()
	if block == nil || block.Type() != "block" {
		return false
	}
	return syntax.Classify(block.Parent()) == syntax.ClassDefinition
}

// ParameterCheck reports renamed or removed field parameters
type ParameterCheck struct{}

func (c *ParameterCheck) Name() string         { return "field-parameter" }
func (c *ParameterCheck) Rules() []string      { return []string{diagnostic.RenamedFieldParameter} }
func (c *ParameterCheck) Kinds() []syntax.Kind { return []syntax.Kind{syntax.Call} }

// Visit inspects fields.X(...) calls
func (c *ParameterCheck) Visit(p *pass.Pass, file *python.File, n *sitter.Node) {
	callee := syntax.Callee(n, file.Source)
	if !isField(callee) {
		return
	}
	args := syntax.CallArguments(n, file.Source)
	for _, keyword := range args.Keywords {
		replacement, ok := p.Config.RenamedParameters[keyword.Name]
		if !ok {
			continue
		}
		advice := "Remove it"
		if replacement != "" {
			advice = "Use " + strconv.Quote(replacement) + " instead"
		}
		p.Report(diagnostic.RenamedFieldParameter, file, keyword.Node, keyword.Name, advice)
	}
}

// isField matches fields.Char, odoo.fields.Many2one and similar constructors
func isField(callee string) bool {
	index := strings.LastIndex(callee, ".")
	if index == -1 {
		return false
	}
	owner, name := callee[:index], callee[index+1:]
	if owner != "fields" && !strings.HasSuffix(owner, ".fields") {
		return false
	}
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}
