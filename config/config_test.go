package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expectErr   bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			description: "defaults kept",
			input:       `maxTraceHops: 4`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 4, cfg.MaxTraceHops)
				assert.Equal(t, []string{"16.0"}, cfg.ValidVersions)
				assert.NotEmpty(t, cfg.SinksOf(SinkSQL))
			},
		},
		{
			description: "override lists",
			input: `
licenseAllowed: [AGPL-3, GPL-3]
validVersions: ["17.0", "15.0"]
disable: [missing-readme]
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"AGPL-3", "GPL-3"}, cfg.LicenseAllowed)
				assert.Equal(t, []string{"15.0", "17.0"}, cfg.Versions())
				assert.True(t, cfg.IsDisabled("missing-readme"))
				assert.False(t, cfg.IsDisabled("sql-injection"))
			},
		},
		{
			description: "invalid sink kind",
			input: `
sinks:
  - name: cr.execute
    kind: shell
`,
			expectErr: true,
		},
		{
			description: "invalid version format",
			input:       `versionFormat: "(["`,
			expectErr:   true,
		},
	}

	for _, testCase := range testCases {
		cfg, err := Parse([]byte(testCase.input))
		if testCase.expectErr {
			assert.NotNil(t, err, testCase.description)
			continue
		}
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		testCase.check(t, cfg)
	}
}

func TestConfig_VersionPattern(t *testing.T) {
	cfg := Default()
	cfg.ValidVersions = []string{"15.0", "16.0"}
	pattern, err := cfg.VersionPattern()
	assert.Nil(t, err)
	assert.True(t, pattern.MatchString("16.0.1.0.0"))
	assert.True(t, pattern.MatchString("15.0.2.1.3"))
	assert.False(t, pattern.MatchString("14.0.1.0.0"))
	assert.False(t, pattern.MatchString("1600.1.0.0"))
	assert.False(t, pattern.MatchString("16.0.1.0"))
}

func TestCanonicalVersion(t *testing.T) {
	assert.Equal(t, "v16.0", CanonicalVersion("16.0"))
	assert.Equal(t, "v8.0", CanonicalVersion(" 8.0 "))
	assert.Equal(t, "", CanonicalVersion("saas~17.1"))
	assert.Equal(t, "", CanonicalVersion(""))
}
