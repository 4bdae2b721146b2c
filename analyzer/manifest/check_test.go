package manifest

import (
	"context"
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

func run(t *testing.T, cfg *config.Config, tree string) []*diagnostic.Diagnostic {
	t.Helper()
	dir := fixture.Tree(t, tree)
	unit, err := repository.Open(context.Background(), afs.New(), filepath.Join(dir, "sale_ext"), cfg)
	require.NoError(t, err)
	defer unit.Close()
	emitter := diagnostic.NewEmitter(unit.Name)
	require.NoError(t, (&Check{}).Run(context.Background(), pass.New(cfg, unit, emitter)))
	return emitter.Diagnostics()
}

func ofRule(diagnostics []*diagnostic.Diagnostic, rule string) []*diagnostic.Diagnostic {
	var result []*diagnostic.Diagnostic
	for _, d := range diagnostics {
		if d.Rule == rule {
			result = append(result, d)
		}
	}
	return result
}

func TestCheck_License(t *testing.T) {
	cfg := config.Default()
	cfg.LicenseAllowed = []string{"AGPL-3", "GPL-3"}
	diagnostics := run(t, cfg, `
-- sale_ext/__manifest__.py --
{"license": "MIT"}
-- sale_ext/README.rst --
readme
`)
	licenses := ofRule(diagnostics, diagnostic.LicenseAllowed)
	require.Len(t, licenses, 1)
	assert.Equal(t, []string{"MIT"}, licenses[0].Args)
	assert.Equal(t, `License "MIT" not allowed in manifest file.`, licenses[0].Message())
}

const validTree = `
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
    "assets": {
        "web.assets_backend": ["sale_ext/static/src/js/app.js"],
    },
}
-- sale_ext/README.rst --
readme
-- sale_ext/views/a.xml --
<odoo/>
-- sale_ext/static/src/js/app.js --
console.log(1);
`

func TestCheck_Valid(t *testing.T) {
	assert.Empty(t, run(t, config.Default(), validTree))
}

const invalidTree = `
-- sale_ext/__manifest__.py --
{
    "name": "Sale Extension",
    "version": "1.0",
    "author": ["Acme"],
    "website": "github.com/acme",
    "description": "old",
    "development_status": "Done",
    "maintainers": "jdoe",
    "data": [
        "views/a.xml",
        "views/missing.xml",
        "views/a.xml",
    ],
    "assets": {
        "web.assets_backend": ["https://cdn.example.com/lib.js"],
    },
}
-- sale_ext/views/a.xml --
<odoo>
    <report id="r" model="sale.order" xml="sale_ext/report/gone.xml"/>
</odoo>
-- sale_ext/views/unused.xml --
<odoo/>
-- sale_ext/data/unused.csv --
id,name
-- sale_ext/tests/fixture.xml --
<odoo/>
`

func TestCheck_Invalid(t *testing.T) {
	diagnostics := run(t, config.Default(), invalidTree)
	count := map[string]int{}
	for _, d := range diagnostics {
		count[d.Rule]++
	}
	assert.Equal(t, map[string]int{
		diagnostic.MissingReadme:            1,
		diagnostic.ManifestRequiredKey:      1,
		diagnostic.ManifestDeprecatedKey:    1,
		diagnostic.ManifestAuthorString:     1,
		diagnostic.ManifestVersionFormat:    1,
		diagnostic.DevelopmentStatusAllowed: 1,
		diagnostic.ManifestMaintainersList:  1,
		diagnostic.WebsiteNotValidURI:       1,
		diagnostic.ManifestDataDuplicated:   1,
		diagnostic.ManifestExternalAssets:   1,
		diagnostic.ResourceNotExist:         2,
		diagnostic.FileNotUsed:              2,
	}, count)

	duplicated := ofRule(diagnostics, diagnostic.ManifestDataDuplicated)[0]
	assert.Equal(t, 12, duplicated.Location.Line)
	assert.Equal(t, []string{"views/a.xml", "10, 12", "data"}, duplicated.Args)

	missing := ofRule(diagnostics, diagnostic.ResourceNotExist)
	assert.Equal(t, "__manifest__.py", missing[0].Location.File)
	assert.Equal(t, []string{"data", "views/missing.xml"}, missing[0].Args)
	assert.Equal(t, "views/a.xml", missing[1].Location.File)
	assert.Equal(t, []string{"data", "report/gone.xml"}, missing[1].Args)

	unused := ofRule(diagnostics, diagnostic.FileNotUsed)
	assert.Equal(t, "data/unused.csv", unused[0].Location.File)
	assert.Equal(t, "views/unused.xml", unused[1].Location.File)

	version := ofRule(diagnostics, diagnostic.ManifestVersionFormat)[0]
	assert.Equal(t, []string{"1.0", `^(16\.0)\.\d+\.\d+\.\d+$`}, version.Args)
}

func TestCheck_Versions(t *testing.T) {
	cfg := config.Default()
	cfg.ValidVersions = []string{"14.0"}
	diagnostics := run(t, cfg, invalidTree)
	assert.Empty(t, ofRule(diagnostics, diagnostic.ManifestExternalAssets))

	cfg = config.Default()
	cfg.Disable = []string{diagnostic.FileNotUsed, diagnostic.ResourceNotExist}
	diagnostics = run(t, cfg, invalidTree)
	assert.Empty(t, ofRule(diagnostics, diagnostic.FileNotUsed))
	assert.Empty(t, ofRule(diagnostics, diagnostic.ResourceNotExist))
}

func TestCheck_SyntaxError(t *testing.T) {
	diagnostics := run(t, config.Default(), `
-- sale_ext/__manifest__.py --
MANIFEST = {"license": "MIT"}
-- sale_ext/README.md --
readme
`)
	assert.Equal(t, []string{diagnostic.ManifestSyntaxError}, checktest.Rules(diagnostics))
}

func TestCheck_NotInstallable(t *testing.T) {
	diagnostics := run(t, config.Default(), `
-- sale_ext/__manifest__.py --
{"license": "MIT", "installable": False}
-- sale_ext/README.md --
readme
`)
	assert.Empty(t, diagnostics)
}
