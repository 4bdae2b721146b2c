package consistency

import (
	"context"
	"errors"

	"github.com/viant/odoolint/analyzer/diagnostic"
	"github.com/viant/odoolint/analyzer/pass"
	"github.com/viant/odoolint/inspector"
	"github.com/viant/odoolint/inspector/catalog"
	"github.com/viant/odoolint/inspector/markup"
	"github.com/viant/odoolint/inspector/tabular"
)

var syntaxRules = map[inspector.Kind]string{
	inspector.KindMarkup:  diagnostic.XMLSyntaxError,
	inspector.KindCatalog: diagnostic.POSyntaxError,
	inspector.KindTabular: diagnostic.CSVSyntaxError,
}

// DocumentCheck reports documents that failed to parse, one diagnostic per file
type DocumentCheck struct{}

func (c *DocumentCheck) Name() string { return "documents" }

func (c *DocumentCheck) Rules() []string {
	return []string{diagnostic.XMLSyntaxError, diagnostic.POSyntaxError, diagnostic.CSVSyntaxError}
}

// Run reports unit failures
func (c *DocumentCheck) Run(ctx context.Context, p *pass.Pass) error {
	for _, failure := range p.Unit.Failures {
		rule, ok := syntaxRules[failure.Kind]
		if !ok || !p.Enabled(rule) {
			continue
		}
		line, reason := describe(failure.Err)
		p.ReportAt(rule, failure.Path, line, 1, reason)
	}
	return ctx.Err()
}

// describe returns the failure line and the reason without location prefix
func describe(err error) (int, string) {
	var markupErr *markup.SyntaxError
	var catalogErr *catalog.SyntaxError
	var tabularErr *tabular.SyntaxError
	switch {
	case errors.As(err, &markupErr):
		return markupErr.Line, markupErr.Err.Error()
	case errors.As(err, &catalogErr):
		return catalogErr.Line, catalogErr.Reason
	case errors.As(err, &tabularErr):
		return tabularErr.Line, tabularErr.Err.Error()
	}
	return 1, err.Error()
}
