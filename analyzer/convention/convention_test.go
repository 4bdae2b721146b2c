package convention

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/odoolint/analyzer/diagnostic"
	"github.com/viant/odoolint/analyzer/pass"
	"github.com/viant/odoolint/config"
	"github.com/viant/odoolint/inspector/repository"
	"github.com/viant/odoolint/internal/checktest"
	"github.com/viant/odoolint/internal/fixture"
)

func TestAttributeCheck(t *testing.T) {
	src := `class Sale(models.Model):
    _name = "sale.order"
    _columns = {}
    _defaults = {"state": "draft"}

    def compute(self):
        _columns = {}


_defaults = {}
`
	diagnostics := checktest.Visit(t, &AttributeCheck{}, nil, "models/sale.py", src)
	require.Len(t, diagnostics, 2)
	assert.Equal(t, 3, diagnostics[0].Location.Line)
	assert.Equal(t, []string{"_columns", "fields declared as class attributes"}, diagnostics[0].Args)
	assert.Equal(t, 4, diagnostics[1].Location.Line)
}

func TestParameterCheck(t *testing.T) {
	src := `class Sale(models.Model):
    name = fields.Char(select=True, string="Name")
    state = odoo.fields.Selection([], track_visibility="onchange")
    code = fields.Char(oldname="ref")
    other = helper.Char(select=True)
    amount = fields.Float(digits=(16, 2))
`
	diagnostics := checktest.Visit(t, &ParameterCheck{}, nil, "models/sale.py", src)
	require.Len(t, diagnostics, 3)
	assert.Equal(t, []string{"select", `Use "index" instead`}, diagnostics[0].Args)
	assert.Equal(t, 2, diagnostics[0].Location.Line)
	assert.Equal(t, []string{"track_visibility", `Use "tracking" instead`}, diagnostics[1].Args)
	assert.Equal(t, []string{"oldname", "Remove it"}, diagnostics[2].Args)
	assert.Equal(t, `Field parameter "oldname" is no longer supported. Remove it`, diagnostics[2].Message())
}

const scriptTree = `
-- sale_ext/__manifest__.py --
{"license": "AGPL-3"}
-- sale_ext/static/src/js/app.js --
console.log(1)
`

func runScripts(t *testing.T, cfg *config.Config) []*diagnostic.Diagnostic {
	t.Helper()
	dir := fixture.Tree(t, scriptTree)
	unit, err := repository.Open(context.Background(), afs.New(), filepath.Join(dir, "sale_ext"), cfg)
	require.NoError(t, err)
	defer unit.Close()
	require.Equal(t, []string{"static/src/js/app.js"}, unit.Scripts)
	emitter := diagnostic.NewEmitter(unit.Name)
	require.NoError(t, (&ScriptCheck{}).Run(context.Background(), pass.New(cfg, unit, emitter)))
	return emitter.Diagnostics()
}

func TestScriptCheck_MissingLinter(t *testing.T) {
	cfg := config.Default()
	cfg.JSLinter = "odoolint-no-such-linter"
	assert.Empty(t, runScripts(t, cfg))
}

func TestScriptCheck_Run(t *testing.T) {
	linter := filepath.Join(t.TempDir(), "lint.sh")
	script := "#!/bin/sh\nfor file in \"$@\"; do\n  case \"$file\" in\n    --*|unix) ;;\n    *) echo \"$file:1:15: Missing semicolon. [Error/semi]\" ;;\n  esac\ndone\nexit 1\n"
	require.NoError(t, os.WriteFile(linter, []byte(script), 0o755))

	cfg := config.Default()
	cfg.JSLinter = linter
	diagnostics := runScripts(t, cfg)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, diagnostic.JavaScriptLint, diagnostics[0].Rule)
	assert.Equal(t, "static/src/js/app.js", diagnostics[0].Location.File)
	assert.Equal(t, 15, diagnostics[0].Location.Column)
	assert.Equal(t, "Missing semicolon. [Error/semi]", diagnostics[0].Message())
}
