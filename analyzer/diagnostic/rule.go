package diagnostic

import (
	"sort"

	"github.com/viant/odoolint/config"
	"golang.org/x/mod/semver"
)

// Severity represents diagnostic severity
type Severity string

const (
	Error      Severity = "error"
	Warning    Severity = "warning"
	Convention Severity = "convention"
)

// Rule ids
const (
	ManifestSyntaxError       = "manifest-syntax-error"
	ManifestAuthorString      = "manifest-author-string"
	ManifestRequiredAuthor    = "manifest-required-author"
	ManifestRequiredKey       = "manifest-required-key"
	ManifestDeprecatedKey     = "manifest-deprecated-key"
	LicenseAllowed            = "license-allowed"
	ManifestVersionFormat     = "manifest-version-format"
	ManifestDataDuplicated    = "manifest-data-duplicated"
	ResourceNotExist          = "resource-not-exist"
	DevelopmentStatusAllowed  = "development-status-allowed"
	CategoryAllowed           = "category-allowed"
	ManifestMaintainersList   = "manifest-maintainers-list"
	WebsiteNotValidURI        = "website-manifest-key-not-valid-uri"
	ManifestExternalAssets    = "manifest-external-assets"
	MissingReadme             = "missing-readme"
	FileNotUsed               = "file-not-used"
	SQLInjection              = "sql-injection"
	ExternalRequestTimeout    = "external-request-timeout"
	TranslationContainsVar    = "translation-contains-variable"
	TranslationUnsupported    = "translation-unsupported-interpolation"
	TranslationPositionalUsed = "translation-positional-used"
	TranslationTooFewArgs     = "translation-too-few-format-args"
	TranslationTooManyArgs    = "translation-too-many-format-args"
	TranslationArgsMismatch   = "translation-format-args-mismatch"
	TranslationTruncated      = "translation-format-truncated"
	TranslationUnsupportedChr = "translation-unsupported-format-character"
	POMsgstrVariables         = "po-msgstr-variables"
	PODuplicateMessage        = "po-duplicate-message-definition"
	POSyntaxError             = "po-syntax-error"
	XMLDuplicateRecordID      = "xml-duplicate-record-id"
	CSVDuplicateRecordID      = "csv-duplicate-record-id"
	XMLDuplicateFields        = "xml-duplicate-fields"
	XMLSyntaxError            = "xml-syntax-error"
	CSVSyntaxError            = "csv-syntax-error"
	ConsiderMergingClasses    = "consider-merging-classes-inherited"
	AttributeDeprecated       = "attribute-deprecated"
	RenamedFieldParameter     = "renamed-field-parameter"
	JavaScriptLint            = "javascript-lint"
)

// Rule describes a rule message template and the declared versions it applies to
type Rule struct {
	ID         string
	Severity   Severity
	Template   string // fmt template, arguments are substituted in order
	MinVersion string // inclusive, empty means unbounded
	MaxVersion string // inclusive, empty means unbounded
}

var rules = map[string]Rule{}

func register(rule Rule) {
	rules[rule.ID] = rule
}

func init() {
	for _, rule := range []Rule{
		{ID: ManifestSyntaxError, Severity: Error, Template: "Manifest %s could not be evaluated: %s"},
		{ID: ManifestAuthorString, Severity: Error, Template: "The author key in the manifest file must be a string (with comma separated values)"},
		{ID: ManifestRequiredAuthor, Severity: Convention, Template: "One of the following authors must be present in manifest key \"author\": %s"},
		{ID: ManifestRequiredKey, Severity: Convention, Template: "Missing required key \"%s\" in manifest file"},
		{ID: ManifestDeprecatedKey, Severity: Convention, Template: "Deprecated key \"%s\" in manifest file"},
		{ID: LicenseAllowed, Severity: Convention, Template: "License \"%s\" not allowed in manifest file."},
		{ID: ManifestVersionFormat, Severity: Convention, Template: "Wrong Version Format \"%s\" in manifest file. Regex to match: \"%s\""},
		{ID: ManifestDataDuplicated, Severity: Warning, Template: "The file \"%s\" is duplicated in lines %s from manifest key \"%s\""},
		{ID: ResourceNotExist, Severity: Error, Template: "File \"%s\": \"%s\" not found."},
		{ID: DevelopmentStatusAllowed, Severity: Convention, Template: "Manifest key development_status \"%s\" not allowed. Use one of: %s."},
		{ID: CategoryAllowed, Severity: Convention, Template: "Category \"%s\" not allowed in manifest file."},
		{ID: ManifestMaintainersList, Severity: Error, Template: "The maintainers key in the manifest file must be a list of strings"},
		{ID: WebsiteNotValidURI, Severity: Convention, Template: "Website \"%s\" in manifest key is not a valid URI"},
		{ID: ManifestExternalAssets, Severity: Warning, Template: "Asset \"%s\" should be distributed with module source code. More info at https://httptoolkit.com/blog/public-cdn-risks/", MinVersion: "15.0"},
		{ID: MissingReadme, Severity: Convention, Template: "Missing %s file. Template here: https://github.com/OCA/maintainer-tools/blob/master/template/module/README.rst"},
		{ID: FileNotUsed, Severity: Warning, Template: "File \"%s\" is not referenced in the manifest."},
		{ID: SQLInjection, Severity: Error, Template: "SQL injection risk. Use parameters if you can. - More info: https://github.com/OCA/odoo-community.org/blob/master/website/Contribution/CONTRIBUTING.rst#no-sql-injection"},
		{ID: ExternalRequestTimeout, Severity: Warning, Template: "Use of external request method `%s` without timeout. It could wait for a long time"},
		{ID: TranslationContainsVar, Severity: Error, Template: "Translatable term in \"%s\" contains variables. Use %s instead"},
		{ID: TranslationUnsupported, Severity: Warning, Template: "Translatable string \"%s\" uses an unsupported interpolation: %s"},
		{ID: TranslationPositionalUsed, Severity: Warning, Template: "Translation method _(\"%s\") is using positional string printf formatting. Use named placeholder `_(\"%%(placeholder)s\")` instead."},
		{ID: TranslationTooFewArgs, Severity: Error, Template: "Not enough arguments for format string `%s` in %s"},
		{ID: TranslationTooManyArgs, Severity: Error, Template: "Too many arguments for format string `%s` in %s"},
		{ID: TranslationArgsMismatch, Severity: Error, Template: "Format string `%s` expects %s arguments in %s"},
		{ID: TranslationTruncated, Severity: Error, Template: "Format string `%s` ends in middle of conversion specifier"},
		{ID: TranslationUnsupportedChr, Severity: Error, Template: "Unsupported format character %s at index %s in `%s`"},
		{ID: POMsgstrVariables, Severity: Warning, Template: "Translation msgid \"%s\" has placeholders %s but msgstr has %s"},
		{ID: PODuplicateMessage, Severity: Warning, Template: "Duplicate PO message definition \"%s\" in lines %s"},
		{ID: POSyntaxError, Severity: Error, Template: "PO syntax error: %s"},
		{ID: XMLDuplicateRecordID, Severity: Warning, Template: "Duplicate xml record id \"%s\" in %s"},
		{ID: CSVDuplicateRecordID, Severity: Warning, Template: "Duplicate csv record \"%s\" in %s"},
		{ID: XMLDuplicateFields, Severity: Warning, Template: "Duplicate xml field \"%s\" in lines %s"},
		{ID: XMLSyntaxError, Severity: Error, Template: "XML syntax error: %s"},
		{ID: CSVSyntaxError, Severity: Error, Template: "CSV syntax error: %s"},
		{ID: ConsiderMergingClasses, Severity: Convention, Template: "Consider merging classes inherited to \"%s\" from %s."},
		{ID: AttributeDeprecated, Severity: Warning, Template: "Deprecated class attribute \"%s\", use %s", MinVersion: "8.0"},
		{ID: RenamedFieldParameter, Severity: Warning, Template: "Field parameter \"%s\" is no longer supported. %s", MinVersion: "13.0"},
		{ID: JavaScriptLint, Severity: Warning, Template: "%s"},
	} {
		register(rule)
	}
}

// Lookup returns rule for id
func Lookup(id string) (Rule, bool) {
	rule, ok := rules[id]
	return rule, ok
}

// Rules returns sorted rule ids
func Rules() []string {
	result := make([]string, 0, len(rules))
	for id := range rules {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}

// VersionRange represents an inclusive range of declared versions, empty bounds are open
type VersionRange struct {
	Min string
	Max string
}

// NewVersionRange creates range spanning supplied versions
func NewVersionRange(versions ...string) VersionRange {
	var result VersionRange
	for _, version := range versions {
		if config.CanonicalVersion(version) == "" {
			continue
		}
		if result.Min == "" || semver.Compare(config.CanonicalVersion(version), config.CanonicalVersion(result.Min)) < 0 {
			result.Min = version
		}
		if result.Max == "" || semver.Compare(config.CanonicalVersion(version), config.CanonicalVersion(result.Max)) > 0 {
			result.Max = version
		}
	}
	return result
}

// IsApplicable returns true if rule version bounds overlap the configured range
func IsApplicable(id string, configured VersionRange) bool {
	rule, ok := rules[id]
	if !ok {
		return false
	}
	if rule.MinVersion != "" && configured.Max != "" && compare(configured.Max, rule.MinVersion) < 0 {
		return false
	}
	if rule.MaxVersion != "" && configured.Min != "" && compare(configured.Min, rule.MaxVersion) > 0 {
		return false
	}
	return true
}

func compare(a, b string) int {
	ca, cb := config.CanonicalVersion(a), config.CanonicalVersion(b)
	if ca == "" || cb == "" {
		return 0
	}
	return semver.Compare(ca, cb)
}
