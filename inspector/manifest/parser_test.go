package manifest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	src := `# -*- coding: utf-8 -*-
{
    "name": "Sale " "Extension",
    "version": "16.0.1.0.0",
    "author": "Acme, Odoo Community Association (OCA)",
    "license": "AGPL-3",
    "installable": True,
    "depends": ["sale", "stock"],
    "data": [
        "security/ir.model.access.csv",
        "./views/sale_views.xml",
    ],
    "demo": ("demo/demo.xml",),
    "external_dependencies": {"python": ["requests"]},
    "assets": {
        "web.assets_backend": [
            "sale_ext/static/src/js/*.js",
            ("remove", "sale_ext/static/src/js/legacy.js"),
        ],
    },
    "sequence": -1,
}
`
	record, err := Parse(context.Background(), "sale_ext/__manifest__.py", []byte(src))
	require.NoError(t, err)

	name, ok := record.Name()
	assert.True(t, ok)
	assert.Equal(t, "Sale Extension", name)
	version, _ := record.Version()
	assert.Equal(t, "16.0.1.0.0", version)
	assert.True(t, record.Author().IsString())
	assert.True(t, record.Installable())
	assert.Equal(t, []string{"sale", "stock"}, record.Depends())
	assert.Equal(t, map[string][]string{"python": {"requests"}}, record.ExternalDependencies())
	assert.Equal(t, 2, record.Line)
	assert.Equal(t, 6, record.KeyLine("license"))
	assert.Equal(t, "name", record.Keys[0])

	resources := record.AllResources()
	require.Len(t, resources, 3)
	assert.Equal(t, Resource{Key: KeyData, Path: "security/ir.model.access.csv", Line: 10}, resources[0])
	assert.Equal(t, "views/sale_views.xml", resources[1].Path)
	assert.Equal(t, KeyDemo, resources[2].Key)

	assets := record.Assets()
	require.Len(t, assets, 2)
	assert.Equal(t, "", assets[0].Directive)
	assert.Equal(t, "remove", assets[1].Directive)
	assert.Equal(t, "sale_ext/static/src/js/legacy.js", assets[1].Path)

	assert.Equal(t, KindNumber, record.Value("sequence").Kind)
	assert.False(t, record.Has("website"))
}

func TestParse_ShapeError(t *testing.T) {
	tests := []struct {
		description string
		src         string
	}{
		{description: "not a dictionary", src: `["a", "b"]`},
		{description: "call value", src: `{"name": get_name()}`},
		{description: "interpolated value", src: `{"name": f"{x}"}`},
		{description: "non string key", src: `{1: "a"}`},
		{description: "empty file", src: ``},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			_, err := Parse(context.Background(), "m/__manifest__.py", []byte(tc.src))
			require.Error(t, err)
			var shapeErr *ShapeError
			assert.True(t, errors.As(err, &shapeErr), err.Error())
		})
	}
}

func TestValue_Truthy(t *testing.T) {
	tests := []struct {
		description string
		value       *Value
		expect      bool
	}{
		{description: "nil", value: nil, expect: false},
		{description: "empty string", value: &Value{Kind: KindString}, expect: false},
		{description: "zero", value: &Value{Kind: KindNumber, Text: "0"}, expect: false},
		{description: "float", value: &Value{Kind: KindNumber, Text: "0.5"}, expect: true},
		{description: "False", value: &Value{Kind: KindBool, Text: "False"}, expect: false},
		{description: "list", value: &Value{Kind: KindList, Items: []*Value{{Kind: KindNone}}}, expect: true},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.value.Truthy())
		})
	}
}
