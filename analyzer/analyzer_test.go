package analyzer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/odoolint/analyzer/diagnostic"
	"github.com/viant/odoolint/config"
	"github.com/viant/odoolint/internal/checktest"
	"github.com/viant/odoolint/internal/fixture"
)

const addonsTree = `
-- sale_ext/__manifest__.py --
{
    "name": "Sale Extension",
    "version": "16.0.1.0.0",
    "author": "Acme, Odoo Community Association (OCA)",
    "website": "https://github.com/OCA/sale-workflow",
    "license": "AGPL-3",
    "category": "Sales",
    "development_status": "Beta",
    "maintainers": ["jdoe"],
    "data": ["views/a.xml"],
}
-- sale_ext/README.rst --
readme
-- sale_ext/views/a.xml --
<odoo/>
-- sale_ext/models/sale.py --
from odoo import _, models


class Sale(models.Model):
    def compute(self, row_id):
        self.env.cr.execute("SELECT * FROM t WHERE id=%s" % row_id)
        return _("Total %s", row_id, self.name)
-- purchase_ext/__manifest__.py --
{
    "name": "Purchase Extension",
    "author": "Acme",
}
-- node_modules/lib/__manifest__.py --
{"name": "ignored"}
`

func TestAnalyzer_AnalyzeModule(t *testing.T) {
	dir := fixture.Tree(t, addonsTree)
	result, err := New().AnalyzeModule(context.Background(), filepath.Join(dir, "sale_ext"))
	require.NoError(t, err)
	assert.Equal(t, "sale_ext", result.Module)
	assert.Equal(t, []string{diagnostic.SQLInjection, diagnostic.TranslationTooManyArgs}, checktest.Rules(result.Diagnostics))
	assert.Equal(t, "models/sale.py", result.Diagnostics[0].Location.File)
	assert.Equal(t, 6, result.Diagnostics[0].Location.Line)
	assert.Equal(t, 7, result.Diagnostics[1].Location.Line)
	assert.Equal(t, 2, result.Count(diagnostic.Error))
}

func TestAnalyzer_Disabled(t *testing.T) {
	dir := fixture.Tree(t, addonsTree)
	cfg := config.Default()
	cfg.Disable = []string{diagnostic.SQLInjection}
	result, err := New(WithConfig(cfg)).AnalyzeModule(context.Background(), filepath.Join(dir, "sale_ext"))
	require.NoError(t, err)
	assert.Equal(t, []string{diagnostic.TranslationTooManyArgs}, checktest.Rules(result.Diagnostics))
}

func TestAnalyzer_AnalyzeDir(t *testing.T) {
	dir := fixture.Tree(t, addonsTree)
	results, err := New(WithWorkers(2)).AnalyzeDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "purchase_ext", results[0].Module)
	assert.Empty(t, results[0].Error)
	rules := checktest.Rules(results[0].Diagnostics)
	assert.Contains(t, rules, diagnostic.ManifestRequiredKey)
	assert.Contains(t, rules, diagnostic.ManifestRequiredAuthor)
	assert.Contains(t, rules, diagnostic.MissingReadme)

	assert.Equal(t, "sale_ext", results[1].Module)
	assert.Len(t, results[1].Diagnostics, 2)
}

func TestAnalyzer_Repeatable(t *testing.T) {
	dir := fixture.Tree(t, addonsTree)
	analyzer := New()
	first, err := analyzer.AnalyzeDir(context.Background(), dir)
	require.NoError(t, err)
	second, err := analyzer.AnalyzeDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRegistry(t *testing.T) {
	registry := DefaultRegistry()
	assert.Equal(t, diagnostic.Rules(), registry.Rules())

	checks := registry.Checks()
	for i := 1; i < len(checks); i++ {
		assert.True(t, checks[i-1].Name() <= checks[i].Name())
	}

	err := NewRegistry().Register(&unknownRuleCheck{})
	assert.Error(t, err)
}

type unknownRuleCheck struct{}

func (c *unknownRuleCheck) Name() string    { return "unknown" }
func (c *unknownRuleCheck) Rules() []string { return []string{"no-such-rule"} }
