package manifest

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/viant/odoolint/analyzer/diagnostic"
	"github.com/viant/odoolint/analyzer/pass"
	"github.com/viant/odoolint/inspector/manifest"
	"github.com/viant/odoolint/inspector/repository"
)

// Check validates manifest metadata and the files it references
type Check struct{}

func (c *Check) Name() string { return "manifest" }

func (c *Check) Rules() []string {
	return []string{
		diagnostic.ManifestSyntaxError,
		diagnostic.ManifestAuthorString,
		diagnostic.ManifestRequiredAuthor,
		diagnostic.ManifestRequiredKey,
		diagnostic.ManifestDeprecatedKey,
		diagnostic.LicenseAllowed,
		diagnostic.ManifestVersionFormat,
		diagnostic.ManifestDataDuplicated,
		diagnostic.ResourceNotExist,
		diagnostic.DevelopmentStatusAllowed,
		diagnostic.CategoryAllowed,
		diagnostic.ManifestMaintainersList,
		diagnostic.WebsiteNotValidURI,
		diagnostic.ManifestExternalAssets,
		diagnostic.MissingReadme,
		diagnostic.FileNotUsed,
	}
}

// Run validates the unit manifest, a manifest that cannot be evaluated is reported once and other manifest rules are skipped
func (c *Check) Run(ctx context.Context, p *pass.Pass) error {
	unit := p.Unit
	if unit.ManifestPath == "" {
		return nil
	}
	v := &validator{pass: p, unit: unit, path: unit.ManifestPath}
	v.readme()
	if unit.ManifestErr != nil {
		v.syntaxError(unit.ManifestErr)
		return nil
	}
	record := unit.Manifest
	if record == nil {
		return nil
	}
	if !record.Installable() {
		glog.V(2).Infof("module %s: not installable, manifest rules skipped", unit.Name)
		return nil
	}
	v.record = record
	v.keys()
	v.author()
	v.license()
	v.version()
	v.allowed(diagnostic.DevelopmentStatusAllowed, "development_status", p.Config.DevelopmentStatusAllowed)
	v.allowed(diagnostic.CategoryAllowed, "category", p.Config.CategoryAllowed)
	v.maintainers()
	v.website()
	v.duplicatedData()
	v.externalAssets()
	v.references()
	return ctx.Err()
}

type validator struct {
	pass   *pass.Pass
	unit   *repository.Unit
	path   string
	record *manifest.Record
}

func (v *validator) report(rule string, line int, args ...string) {
	if !v.pass.Enabled(rule) {
		return
	}
	if line == 0 {
		line = 1
	}
	v.pass.ReportAt(rule, v.path, line, 1, args...)
}

func (v *validator) syntaxError(err error) {
	line, reason := 1, err.Error()
	var shapeErr *manifest.ShapeError
	if errors.As(err, &shapeErr) {
		line, reason = shapeErr.Line, shapeErr.Reason
	}
	v.report(diagnostic.ManifestSyntaxError, line, v.path, reason)
}

func (v *validator) readme() {
	for _, candidate := range v.pass.Config.Readme {
		if v.unit.Inventory.Has(candidate) {
			return
		}
	}
	if len(v.pass.Config.Readme) > 0 {
		v.report(diagnostic.MissingReadme, 1, v.pass.Config.Readme[0])
	}
}

func (v *validator) keys() {
	for _, key := range v.pass.Config.RequiredKeys {
		if !v.record.Has(key) {
			v.report(diagnostic.ManifestRequiredKey, v.record.Line, key)
		}
	}
	for _, key := range v.pass.Config.DeprecatedKeys {
		if v.record.Has(key) {
			v.report(diagnostic.ManifestDeprecatedKey, v.record.KeyLine(key), key)
		}
	}
}

func (v *validator) author() {
	value := v.record.Author()
	line := v.record.KeyLine("author")
	if value != nil && !value.IsString() {
		v.report(diagnostic.ManifestAuthorString, line)
		return
	}
	required := v.pass.Config.RequiredAuthors
	if len(required) == 0 {
		return
	}
	declared := map[string]bool{}
	if value != nil {
		for _, author := range strings.Split(value.Text, ",") {
			declared[strings.TrimSpace(author)] = true
		}
	}
	for _, author := range required {
		if declared[author] {
			return
		}
	}
	var quoted []string
	for _, author := range required {
		quoted = append(quoted, strconv.Quote(author))
	}
	v.report(diagnostic.ManifestRequiredAuthor, line, strings.Join(quoted, ", "))
}

func (v *validator) license() {
	license, ok := v.record.License()
	if !ok || len(v.pass.Config.LicenseAllowed) == 0 {
		return
	}
	if !contains(v.pass.Config.LicenseAllowed, license) {
		v.report(diagnostic.LicenseAllowed, v.record.KeyLine("license"), license)
	}
}

func (v *validator) version() {
	version, ok := v.record.Version()
	if !ok {
		return
	}
	pattern, err := v.pass.Config.VersionPattern()
	if err != nil {
		glog.Warningf("module %s: invalid version format: %v", v.unit.Name, err)
		return
	}
	if !pattern.MatchString(version) {
		v.report(diagnostic.ManifestVersionFormat, v.record.KeyLine("version"), version, pattern.String())
	}
}

func (v *validator) allowed(rule, key string, allowed []string) {
	value := v.record.Value(key)
	if !value.IsString() || len(allowed) == 0 || contains(allowed, value.Text) {
		return
	}
	if rule == diagnostic.DevelopmentStatusAllowed {
		v.report(rule, value.Line, value.Text, strings.Join(allowed, ", "))
		return
	}
	v.report(rule, value.Line, value.Text)
}

func (v *validator) maintainers() {
	value := v.record.Maintainers()
	if value == nil {
		return
	}
	if _, ok := value.Strings(); !ok {
		v.report(diagnostic.ManifestMaintainersList, value.Line)
	}
}

func (v *validator) website() {
	website, ok := v.record.Website()
	if !ok {
		return
	}
	for _, candidate := range strings.Split(website, ",") {
		if !isURI(strings.TrimSpace(candidate)) {
			v.report(diagnostic.WebsiteNotValidURI, v.record.KeyLine("website"), website)
			return
		}
	}
}

func isURI(candidate string) bool {
	parsed, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func (v *validator) duplicatedData() {
	for _, key := range manifest.ResourceKeys {
		lines := map[string][]int{}
		var order []string
		for _, resource := range v.record.Resources(key) {
			if _, ok := lines[resource.Path]; !ok {
				order = append(order, resource.Path)
			}
			lines[resource.Path] = append(lines[resource.Path], resource.Line)
		}
		for _, location := range order {
			if len(lines[location]) < 2 {
				continue
			}
			var text []string
			for _, line := range lines[location] {
				text = append(text, strconv.Itoa(line))
			}
			v.report(diagnostic.ManifestDataDuplicated, lines[location][1], location, strings.Join(text, ", "), key)
		}
	}
}

func (v *validator) externalAssets() {
	for _, asset := range v.record.Assets() {
		if isExternal(asset.Path) {
			v.report(diagnostic.ManifestExternalAssets, asset.Line, asset.Path)
		}
	}
}

func isExternal(location string) bool {
	location = strings.ToLower(location)
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") || strings.HasPrefix(location, "//")
}

// references reports missing referenced files and data files no one references
func (v *validator) references() {
	cfg := v.pass.Config
	unreferenced, missing := repository.Diff(v.unit.Inventory, v.unit.References, cfg.DataExtensions, cfg.UnreferencedIgnore)
	if v.pass.Enabled(diagnostic.ResourceNotExist) {
		for _, ref := range missing {
			v.pass.ReportAt(diagnostic.ResourceNotExist, ref.Origin(v.path), ref.Line, 1, ref.Key, ref.Path)
		}
	}
	if v.pass.Enabled(diagnostic.FileNotUsed) {
		for _, location := range unreferenced {
			v.pass.ReportAt(diagnostic.FileNotUsed, location, 1, 1, location)
		}
	}
}

func contains(items []string, candidate string) bool {
	for _, item := range items {
		if item == candidate {
			return true
		}
	}
	return false
}
