package consistency

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
	"github.com/viant/odoolint/inspector/catalog"
	"github.com/viant/odoolint/inspector/info"
	"github.com/viant/odoolint/inspector/repository"
	"github.com/viant/odoolint/internal/checktest"
	"github.com/viant/odoolint/internal/fixture"
)

const moduleTree = `
-- sale_ext/__manifest__.py --
{
    "name": "Sale Extension",
    "license": "AGPL-3",
    "data": [
        "views/a.xml",
        "views/b.xml",
        "data/res.partner.csv",
        "views/broken.xml",
    ],
    "demo": ["demo/demo.xml"],
}
-- sale_ext/views/a.xml --
<odoo>
    <record id="x" model="ir.ui.view">
        <field name="name">a</field>
        <field name="arch" type="xml"><form/></field>
        <field name="name">again</field>
    </record>
    <data noupdate="1">
        <record id="y" model="ir.rule"/>
    </data>
</odoo>
-- sale_ext/views/b.xml --
<odoo>
    <record id="sale_ext.x" model="ir.ui.view"/>
    <record id="y" model="ir.rule"/>
</odoo>
-- sale_ext/demo/demo.xml --
<odoo>
    <record id="x" model="res.partner"/>
</odoo>
-- sale_ext/views/unused.xml --
<odoo>
    <record id="x" model="res.partner"/>
</odoo>
-- sale_ext/views/broken.xml --
<odoo>
    <record id="z">
</odoo>
-- sale_ext/data/res.partner.csv --
id,name
partner_a,A
partner_b,B
partner_a,C
-- sale_ext/i18n/es.po --
msgid ""
msgstr ""

#: code:addons/sale_ext/models/a.py:0
msgid "Hello"
msgstr "Hola"

#: code:addons/sale_ext/models/a.py:0
msgid "Hello"
msgstr "Hola otra vez"

#: code:addons/sale_ext/models/b.py:0
msgid "Hello"
msgstr "Hola"
-- sale_ext/i18n/fr.po --
msgid "Hello
`

func openUnit(t *testing.T) (*repository.Unit, *config.Config) {
	t.Helper()
	dir := fixture.Tree(t, moduleTree)
	cfg := config.Default()
	unit, err := repository.Open(context.Background(), afs.New(), filepath.Join(dir, "sale_ext"), cfg)
	require.NoError(t, err)
	t.Cleanup(unit.Close)
	return unit, cfg
}

func run(t *testing.T, check pass.UnitCheck) []*diagnostic.Diagnostic {
	t.Helper()
	unit, cfg := openUnit(t)
	emitter := diagnostic.NewEmitter(unit.Name)
	require.NoError(t, check.Run(context.Background(), pass.New(cfg, unit, emitter)))
	return emitter.Diagnostics()
}

func TestRecordCheck_Run(t *testing.T) {
	diagnostics := run(t, &RecordCheck{})
	require.Len(t, diagnostics, 3)

	assert.Equal(t, diagnostic.CSVDuplicateRecordID, diagnostics[0].Rule)
	assert.Equal(t, "data/res.partner.csv", diagnostics[0].Location.File)
	assert.Equal(t, []string{"partner_a", "data/res.partner.csv:4"}, diagnostics[0].Args)

	assert.Equal(t, diagnostic.XMLDuplicateRecordID, diagnostics[1].Rule)
	assert.Equal(t, "views/a.xml", diagnostics[1].Location.File)
	assert.Equal(t, 2, diagnostics[1].Location.Line)
	assert.Equal(t, []string{"x", "views/b.xml:2"}, diagnostics[1].Args)

	assert.Equal(t, diagnostic.XMLDuplicateFields, diagnostics[2].Rule)
	assert.Equal(t, 5, diagnostics[2].Location.Line)
	assert.Equal(t, []string{"name", "3, 5"}, diagnostics[2].Args)
}

func TestRecordCheck_Idempotent(t *testing.T) {
	unit, cfg := openUnit(t)
	var runs [][]*diagnostic.Diagnostic
	for i := 0; i < 2; i++ {
		emitter := diagnostic.NewEmitter(unit.Name)
		require.NoError(t, (&RecordCheck{}).Run(context.Background(), pass.New(cfg, unit, emitter)))
		runs = append(runs, emitter.Diagnostics())
	}
	assert.Equal(t, runs[0], runs[1])
}

func TestDuplicates(t *testing.T) {
	records := []*info.Record{
		{ID: "x", Section: "data", File: "b.xml", Line: 3},
		{ID: "x", Section: "data", File: "a.xml", Line: 9},
		{ID: "m.x", Section: "data", File: "a.xml", Line: 1},
		{ID: "x", Section: "demo", File: "c.xml", Line: 1},
		{ID: "x", Section: "data", NoUpdate: true, File: "d.xml", Line: 1},
		{ID: "x", File: "unused.xml", Line: 1},
		{ID: "", Section: "data", File: "a.xml", Line: 5},
		{ID: "", Section: "data", File: "a.xml", Line: 6},
	}
	groups := Duplicates(records, "m")
	require.Len(t, groups, 1)
	assert.Equal(t, info.RecordKey{Section: "data", ID: "x"}, groups[0].Key)
	require.Len(t, groups[0].Records, 3)
	assert.Equal(t, "a.xml:1", groups[0].First().Location().String())
	assert.Equal(t, "a.xml:9", groups[0].Records[1].Location().String())
	assert.Equal(t, "b.xml:3", groups[0].Records[2].Location().String())
}

func TestInheritCheck_Run(t *testing.T) {
	src := `from odoo import models


class SaleOrder(models.Model):
    _inherit = "sale.order"


class SaleOrderLine(models.Model):
    _inherit = "sale.order.line"


class SaleOrderMore(models.Model):
    _inherit = "sale.order"
    note = fields.Char()


class SaleOrderCopy(models.Model):
    _name = "sale.order.copy"
    _inherit = "sale.order"


class SaleOrderSame(models.Model):
    _name = "sale.order"
    _inherit = "sale.order"
`
	file := checktest.Parse(t, "models/sale.py", src)
	extensions := Extensions(file)
	require.Len(t, extensions, 4)

	unit := &repository.Unit{Name: "sale_ext"}
	unit.Python = append(unit.Python, file)
	emitter := diagnostic.NewEmitter(unit.Name)
	require.NoError(t, (&InheritCheck{}).Run(context.Background(), pass.New(config.Default(), unit, emitter)))
	diagnostics := emitter.Diagnostics()
	require.Len(t, diagnostics, 1)
	assert.Equal(t, 4, diagnostics[0].Location.Line)
	assert.Equal(t, []string{"sale.order", "models/sale.py:12, models/sale.py:22"}, diagnostics[0].Args)
}

func TestMessageCheck_Run(t *testing.T) {
	diagnostics := run(t, &MessageCheck{})
	require.Len(t, diagnostics, 1)
	assert.Equal(t, diagnostic.PODuplicateMessage, diagnostics[0].Rule)
	assert.Equal(t, "i18n/es.po", diagnostics[0].Location.File)
	assert.Equal(t, 5, diagnostics[0].Location.Line)
	assert.Equal(t, []string{"Hello", "9"}, diagnostics[0].Args)
}

func TestDuplicateMessages_Context(t *testing.T) {
	document := &catalog.Catalog{Path: "i18n/es.po", Entries: []*catalog.Entry{
		{ID: "Open", Line: 1},
		{ID: "Open", Context: "button", Line: 5},
		{ID: "Open", Line: 9},
	}}
	groups, err := DuplicateMessages(document)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 1, groups[0][0].Line)
	assert.Equal(t, 9, groups[0][1].Line)
}

func TestDocumentCheck_Run(t *testing.T) {
	diagnostics := run(t, &DocumentCheck{})
	require.Len(t, diagnostics, 2)
	assert.Equal(t, diagnostic.POSyntaxError, diagnostics[0].Rule)
	assert.Equal(t, "i18n/fr.po", diagnostics[0].Location.File)
	assert.Equal(t, diagnostic.XMLSyntaxError, diagnostics[1].Rule)
	assert.Equal(t, "views/broken.xml", diagnostics[1].Location.File)
}
