package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitter(t *testing.T) {
	emitter := NewEmitter("sale_ext")
	emitter.Emit(LicenseAllowed, Location{File: "__manifest__.py", Line: 3}, "MIT")
	emitter.Emit(LicenseAllowed, Location{File: "__manifest__.py", Line: 3}, "MIT")
	emitter.Emit(SQLInjection, Location{File: "models/a.py", Line: 10, Column: 9})
	emitter.Emit(ManifestRequiredKey, Location{File: "__manifest__.py", Line: 1}, "license")
	emitter.Emit(ManifestDeprecatedKey, Location{File: "__manifest__.py", Line: 1}, "description")

	diagnostics := emitter.Diagnostics()
	require.Len(t, diagnostics, 4)
	assert.Equal(t, ManifestDeprecatedKey, diagnostics[0].Rule)
	assert.Equal(t, ManifestRequiredKey, diagnostics[1].Rule)
	assert.Equal(t, LicenseAllowed, diagnostics[2].Rule)
	assert.Equal(t, `License "MIT" not allowed in manifest file.`, diagnostics[2].Message())
	assert.Equal(t, Convention, diagnostics[2].Severity)
	assert.Equal(t, "sale_ext", diagnostics[2].Location.Module)
	assert.Equal(t, "sale_ext/models/a.py:10:9", diagnostics[3].Location.String())
	assert.Contains(t, diagnostics[3].Message(), "SQL injection risk")
}

func TestDiagnostic_Message(t *testing.T) {
	d := &Diagnostic{Rule: TranslationPositionalUsed, Args: []string{"%s %s"}}
	assert.Equal(t, "Translation method _(\"%s %s\") is using positional string printf formatting. Use named placeholder `_(\"%(placeholder)s\")` instead.", d.Message())
	unknown := &Diagnostic{Rule: "custom", Args: []string{"a", "b"}}
	assert.Equal(t, "a b", unknown.Message())
}

func TestIsApplicable(t *testing.T) {
	tests := []struct {
		description string
		rule        string
		versions    []string
		expect      bool
	}{
		{description: "unbounded rule", rule: SQLInjection, versions: []string{"8.0"}, expect: true},
		{description: "below minimum", rule: ManifestExternalAssets, versions: []string{"14.0"}, expect: false},
		{description: "range overlaps minimum", rule: ManifestExternalAssets, versions: []string{"14.0", "16.0"}, expect: true},
		{description: "at minimum", rule: RenamedFieldParameter, versions: []string{"13.0"}, expect: true},
		{description: "open range", rule: RenamedFieldParameter, versions: nil, expect: true},
		{description: "unknown rule", rule: "no-such-rule", versions: []string{"16.0"}, expect: false},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expect, IsApplicable(tc.rule, NewVersionRange(tc.versions...)))
		})
	}
}

func TestNewVersionRange(t *testing.T) {
	assert.Equal(t, VersionRange{Min: "8.0", Max: "16.0"}, NewVersionRange("16.0", "8.0", "12.0", "bogus"))
	assert.Equal(t, VersionRange{}, NewVersionRange())
}
