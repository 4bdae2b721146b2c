package config

import (
	"regexp"
	"sort"
	"strings"
)

// SinkKind classifies a sensitive call
type SinkKind string

const (
	// SinkSQL marks calls whose first argument is a query string
	SinkSQL SinkKind = "sql"
	// SinkRequest marks outgoing network calls
	SinkRequest SinkKind = "request"
)

// Sink represents a sensitive function identified by its dotted callee text
type Sink struct {
	Name            string   `yaml:"name"`
	Kind            SinkKind `yaml:"kind"`
	NeedsTimeout    bool     `yaml:"needsTimeout,omitempty"`
	TimeoutPosition int      `yaml:"timeoutPosition,omitempty"` // 1-based positional timeout parameter, 0 when keyword only
}

// Config is the read-only configuration surface fixed at pass start
type Config struct {
	RequiredAuthors          []string          `yaml:"requiredAuthors"`
	RequiredKeys             []string          `yaml:"requiredKeys"`
	DeprecatedKeys           []string          `yaml:"deprecatedKeys"`
	LicenseAllowed           []string          `yaml:"licenseAllowed"`
	CategoryAllowed          []string          `yaml:"categoryAllowed"`
	DevelopmentStatusAllowed []string          `yaml:"developmentStatusAllowed"`
	ValidVersions            []string          `yaml:"validVersions"`
	VersionFormat            string            `yaml:"versionFormat"`
	Sinks                    []Sink            `yaml:"sinks"`
	QueryBuilders            []string          `yaml:"queryBuilders"`
	TranslationFunctions     []string          `yaml:"translationFunctions"`
	DeprecatedAttributes     map[string]string `yaml:"deprecatedAttributes"`
	RenamedParameters        map[string]string `yaml:"renamedParameters"`
	ExcludedDirs             []string          `yaml:"excludedDirs"`
	ExcludedExtensions       []string          `yaml:"excludedExtensions"`
	DataExtensions           []string          `yaml:"dataExtensions"`
	UnreferencedIgnore       []string          `yaml:"unreferencedIgnore"`
	Readme                   []string          `yaml:"readme"`
	MaxTraceHops             int               `yaml:"maxTraceHops"`
	JSLinter                 string            `yaml:"jsLinter,omitempty"`
	JSLinterArgs             []string          `yaml:"jsLinterArgs,omitempty"` // arguments preceding file paths, output must use the unix format
	Disable                  []string          `yaml:"disable,omitempty"`
	Workers                  int               `yaml:"workers,omitempty"`
}

// DefaultVersionFormat is matched against the manifest version, {versions} is replaced with valid versions
const DefaultVersionFormat = `^({versions})\.\d+\.\d+\.\d+$`

// Default returns configuration with the conventional OCA values
func Default() *Config {
	return &Config{
		RequiredAuthors: []string{"Odoo Community Association (OCA)"},
		RequiredKeys:    []string{"license"},
		DeprecatedKeys:  []string{"description", "active"},
		LicenseAllowed: []string{
			"AGPL-3",
			"GPL-2",
			"GPL-2 or any later version",
			"GPL-3",
			"GPL-3 or any later version",
			"LGPL-3",
			"Other OSI approved licence",
			"Other proprietary",
			"OEEL-1",
			"OPL-1",
		},
		DevelopmentStatusAllowed: []string{"Alpha", "Beta", "Production/Stable", "Mature"},
		ValidVersions:            []string{"16.0"},
		VersionFormat:            DefaultVersionFormat,
		Sinks: []Sink{
			{Name: "cr.execute", Kind: SinkSQL},
			{Name: "cr.executemany", Kind: SinkSQL},
			{Name: "_cr.execute", Kind: SinkSQL},
			{Name: "cursor.execute", Kind: SinkSQL},
			{Name: "env.cr.execute", Kind: SinkSQL},
			{Name: "self.cr.execute", Kind: SinkSQL},
			{Name: "self._cr.execute", Kind: SinkSQL},
			{Name: "self.cursor.execute", Kind: SinkSQL},
			{Name: "self.env.cr.execute", Kind: SinkSQL},
			{Name: "self.env.cr.executemany", Kind: SinkSQL},
			{Name: "requests.get", Kind: SinkRequest, NeedsTimeout: true},
			{Name: "requests.post", Kind: SinkRequest, NeedsTimeout: true},
			{Name: "requests.put", Kind: SinkRequest, NeedsTimeout: true},
			{Name: "requests.patch", Kind: SinkRequest, NeedsTimeout: true},
			{Name: "requests.delete", Kind: SinkRequest, NeedsTimeout: true},
			{Name: "requests.head", Kind: SinkRequest, NeedsTimeout: true},
			{Name: "requests.request", Kind: SinkRequest, NeedsTimeout: true},
			{Name: "urllib.request.urlopen", Kind: SinkRequest, NeedsTimeout: true, TimeoutPosition: 3},
		},
		QueryBuilders: []string{
			"SQL",
			"sql.SQL",
			"sql.Identifier",
			"sql.Literal",
			"psycopg2.sql.SQL",
			"psycopg2.sql.Identifier",
			"tools.SQL",
			"odoo.tools.SQL",
		},
		TranslationFunctions: []string{"_", "_lt", "env._", "self.env._"},
		DeprecatedAttributes: map[string]string{
			"_columns":  "fields declared as class attributes",
			"_defaults": "the field default parameter",
			"length":    "size",
		},
		RenamedParameters: map[string]string{
			"select":           "index",
			"digits_compute":   "digits",
			"track_visibility": "tracking",
			"oldname":          "",
		},
		ExcludedDirs:       []string{".git", "__pycache__", "node_modules", "doc", "docs", "examples", "sample", "samples", "template", "templates", "lib"},
		ExcludedExtensions: []string{".pyc", ".pyo", ".orig", ".rej", ".swp"},
		DataExtensions:     []string{".xml", ".csv"},
		UnreferencedIgnore: []string{"static/**", "tests/**", "migrations/**", "upgrades/**", "i18n/**", "i18n_extra/**"},
		Readme:             []string{"README.rst", "README.md"},
		MaxTraceHops:       16,
	}
}

// VersionPattern returns the compiled manifest version pattern
func (c *Config) VersionPattern() (*regexp.Regexp, error) {
	format := c.VersionFormat
	if format == "" {
		format = DefaultVersionFormat
	}
	var quoted []string
	for _, version := range c.ValidVersions {
		quoted = append(quoted, regexp.QuoteMeta(version))
	}
	expr := strings.ReplaceAll(format, "{versions}", strings.Join(quoted, "|"))
	return regexp.Compile(expr)
}

// SinksOf returns sinks of the given kind
func (c *Config) SinksOf(kind SinkKind) []Sink {
	var result []Sink
	for _, sink := range c.Sinks {
		if sink.Kind == kind {
			result = append(result, sink)
		}
	}
	return result
}

// IsDisabled returns true if rule was disabled by configuration
func (c *Config) IsDisabled(rule string) bool {
	for _, candidate := range c.Disable {
		if candidate == rule || candidate == "all" {
			return true
		}
	}
	return false
}

// Versions returns valid versions sorted ascending
func (c *Config) Versions() []string {
	result := append([]string{}, c.ValidVersions...)
	sort.Slice(result, func(i, j int) bool {
		return compareVersion(result[i], result[j]) < 0
	})
	return result
}
