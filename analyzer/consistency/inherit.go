package consistency

import (
	"context"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/odoolint/analyzer/diagnostic"
	"github.com/viant/odoolint/analyzer/pass"
	"github.com/viant/odoolint/analyzer/syntax"
	"github.com/viant/odoolint/inspector/info"
	"github.com/viant/odoolint/inspector/python"
)

// Extension represents a class extending a model in place
type Extension struct {
	Model    string
	Location info.Location
}

// Extensions returns classes of file assigning a single string _inherit without a distinct _name
func Extensions(file *python.File) []Extension {
	var result []Extension
	syntax.Walk(file.Root(), func(n *sitter.Node) bool {
		if syntax.Classify(n) != syntax.ClassDefinition {
			return true
		}
		attributes := classAttributes(n, file.Source)
		inherit, ok := attributes["_inherit"]
		if !ok {
			return true
		}
		if name, ok := attributes["_name"]; ok && name != inherit {
			return true
		}
		result = append(result, Extension{Model: inherit, Location: info.Location{File: file.Path, Line: syntax.Line(n), Column: syntax.Column(n)}})
		return true
	})
	return result
}

// classAttributes returns string literal assignments of a class body
func classAttributes(class *sitter.Node, src []byte) map[string]string {
	result := map[string]string{}
	body := class.ChildByFieldName("body")
	if body == nil {
		return result
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		statement := body.NamedChild(i)
		if statement.Type() != "expression_statement" || statement.NamedChildCount() == 0 {
			continue
		}
		assignment := statement.NamedChild(0)
		if syntax.Classify(assignment) != syntax.Assignment {
			continue
		}
		target := assignment.ChildByFieldName("left")
		if syntax.Classify(target) != syntax.Identifier {
			continue
		}
		if value, ok := syntax.StringValue(assignment.ChildByFieldName("right"), src); ok {
			result[syntax.Text(target, src)] = value
		}
	}
	return result
}

// InheritCheck reports a model extended by several classes of one module
type InheritCheck struct{}

func (c *InheritCheck) Name() string    { return "inherit" }
func (c *InheritCheck) Rules() []string { return []string{diagnostic.ConsiderMergingClasses} }

// Run groups extensions by model
func (c *InheritCheck) Run(ctx context.Context, p *pass.Pass) error {
	groups := map[string][]info.Location{}
	for _, file := range p.Unit.Python {
		if file.IsTest() {
			continue
		}
		for _, extension := range Extensions(file) {
			groups[extension.Model] = append(groups[extension.Model], extension.Location)
		}
	}
	models := make([]string, 0, len(groups))
	for model := range groups {
		models = append(models, model)
	}
	sort.Strings(models)
	for _, model := range models {
		locations := groups[model]
		if len(locations) < 2 {
			continue
		}
		sort.SliceStable(locations, func(i, j int) bool { return locations[i].Before(locations[j]) })
		var others []string
		for _, location := range locations[1:] {
			others = append(others, location.String())
		}
		first := locations[0]
		p.ReportAt(diagnostic.ConsiderMergingClasses, first.File, first.Line, first.Column, model, strings.Join(others, ", "))
	}
	return ctx.Err()
}
