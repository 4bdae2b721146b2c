package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/odoolint/analyzer"
	"github.com/viant/odoolint/analyzer/diagnostic"
	"github.com/viant/odoolint/internal/fixture"
	"gopkg.in/yaml.v3"
)

const addonsTree = `
-- sale_ext/__manifest__.py --
{"name": "Sale", "license": "AGPL-3", "author": "Odoo Community Association (OCA)"}
-- sale_ext/README.rst --
readme
-- sale_ext/models/sale.py --
def compute(self, row_id):
    self.env.cr.execute("SELECT * FROM t WHERE id=%s" % row_id)
`

func execute(t *testing.T, args ...string) string {
	t.Helper()
	exitCode = exitClean
	format, configURL, disable = "text", "", nil
	output := new(bytes.Buffer)
	rootCmd.SetOut(output)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return output.String()
}

func TestLint_YAML(t *testing.T) {
	dir := fixture.Tree(t, addonsTree)
	output := execute(t, "--format", "yaml", dir)
	var results []*analyzer.Result
	require.NoError(t, yaml.Unmarshal([]byte(output), &results))
	require.Len(t, results, 1)
	require.Len(t, results[0].Diagnostics, 1)
	assert.Equal(t, diagnostic.SQLInjection, results[0].Diagnostics[0].Rule)
	assert.Equal(t, exitFindings, exitCode)
}

func TestLint_Disable(t *testing.T) {
	dir := fixture.Tree(t, addonsTree)
	output := execute(t, "--disable", diagnostic.SQLInjection, dir)
	assert.Empty(t, output)
	assert.Equal(t, exitClean, exitCode)
}

func TestRules(t *testing.T) {
	output := execute(t, "rules")
	assert.Contains(t, output, diagnostic.SQLInjection)
	assert.Contains(t, output, diagnostic.PODuplicateMessage)
}
