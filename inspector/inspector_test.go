package inspector_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/odoolint/inspector"
)

func TestFactory_Kind(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expect   inspector.Kind
	}{
		{name: "manifest", filename: "__manifest__.py", expect: inspector.KindManifest},
		{name: "legacy manifest", filename: "__openerp__.py", expect: inspector.KindManifest},
		{name: "nested manifest name", filename: "tests/__manifest__.py", expect: inspector.KindPython},
		{name: "python", filename: "models/sale.py", expect: inspector.KindPython},
		{name: "markup", filename: "views/sale.XML", expect: inspector.KindMarkup},
		{name: "catalog", filename: "i18n/es.po", expect: inspector.KindCatalog},
		{name: "template catalog", filename: "i18n/sale.pot", expect: inspector.KindCatalog},
		{name: "tabular", filename: "security/ir.model.access.csv", expect: inspector.KindTabular},
		{name: "script", filename: "static/src/js/app.js", expect: inspector.KindScript},
		{name: "other", filename: "README.rst", expect: inspector.KindOther},
	}
	factory := inspector.NewFactory("sale_ext")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, factory.Kind(tt.filename))
		})
	}
}

func TestFactory_Inspect(t *testing.T) {
	factory := inspector.NewFactory("sale_ext")
	ctx := context.Background()

	doc, err := factory.Inspect(ctx, "__manifest__.py", []byte(`{"name": call()}`))
	require.NoError(t, err)
	assert.Nil(t, doc.Manifest)
	assert.Error(t, doc.Err)

	doc, err = factory.Inspect(ctx, "views/a.xml", []byte(`<odoo><record id="a" model="m"/></odoo>`))
	require.NoError(t, err)
	require.NoError(t, doc.Err)
	assert.Len(t, doc.Markup.Records, 1)

	doc, err = factory.Inspect(ctx, "views/b.xml", []byte(`<odoo>`))
	require.NoError(t, err)
	assert.Error(t, doc.Err)

	doc, err = factory.Inspect(ctx, "models/a.py", []byte("x = 1\n"))
	require.NoError(t, err)
	defer doc.Close()
	assert.False(t, doc.Python.HasError)
}
