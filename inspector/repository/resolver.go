package repository

import (
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/viant/odoolint/inspector/manifest"
	"github.com/viant/odoolint/inspector/markup"
)

// KeyAssets is the manifest key of asset bundles
const KeyAssets = "assets"

// Reference represents a file referenced by a module
type Reference struct {
	Path string // relative to module root
	Key  string // owning manifest key
	Line int
	Via  string // markup document holding the reference, empty for manifest entries
}

// Origin returns the file declaring the reference
func (r Reference) Origin(manifestPath string) string {
	if r.Via != "" {
		return r.Via
	}
	return manifestPath
}

// MarkupSource provides parsed markup documents by module relative path
type MarkupSource interface {
	Markup(location string) (*markup.Document, bool)
}

// ResolveReferences returns manifest references followed by references found in referenced markup documents
func ResolveReferences(record *manifest.Record, module string, present *Inventory, source MarkupSource) []Reference {
	if record == nil {
		return nil
	}
	var result []Reference
	for _, resource := range record.AllResources() {
		result = append(result, Reference{Path: resource.Path, Key: resource.Key, Line: resource.Line})
	}
	result = append(result, resolveAssets(record, module, present)...)

	direct := len(result)
	for i := 0; i < direct; i++ {
		ref := result[i]
		if strings.ToLower(path.Ext(ref.Path)) != ".xml" || source == nil {
			continue
		}
		doc, ok := source.Markup(ref.Path)
		if !ok {
			continue
		}
		for _, nested := range doc.References {
			result = append(result, Reference{Path: nested.Path, Key: ref.Key, Line: nested.Line, Via: ref.Path})
		}
	}
	return result
}

func resolveAssets(record *manifest.Record, module string, present *Inventory) []Reference {
	var result []Reference
	prefix := module + "/"
	for _, asset := range record.Assets() {
		if asset.Directive == "remove" || asset.Directive == "include" {
			continue
		}
		location, ok := strings.CutPrefix(strings.TrimPrefix(asset.Path, "/"), prefix)
		if !ok {
			continue
		}
		if !hasMeta(location) {
			result = append(result, Reference{Path: location, Key: KeyAssets, Line: asset.Line})
			continue
		}
		if present == nil {
			continue
		}
		for _, candidate := range present.Paths() {
			if matched, _ := doublestar.Match(location, candidate); matched {
				result = append(result, Reference{Path: candidate, Key: KeyAssets, Line: asset.Line})
			}
		}
	}
	return result
}

func hasMeta(location string) bool {
	return strings.ContainsAny(location, "*?[{")
}

// Sections maps each referenced path to the first manifest key referencing it
func Sections(refs []Reference) map[string]string {
	result := map[string]string{}
	for _, ref := range refs {
		if _, ok := result[ref.Path]; !ok {
			result[ref.Path] = ref.Key
		}
	}
	return result
}

// Diff computes present files nobody references and references absent from disk
func Diff(present *Inventory, referenced []Reference, extensions, ignore []string) ([]string, []Reference) {
	used := map[string]bool{}
	for _, ref := range referenced {
		used[ref.Path] = true
	}
	var unreferenced []string
	for _, candidate := range present.Of(extensions...) {
		if used[candidate] || isIgnored(candidate, ignore) {
			continue
		}
		unreferenced = append(unreferenced, candidate)
	}
	var missing []Reference
	seen := map[Reference]bool{}
	for _, ref := range referenced {
		key := Reference{Path: ref.Path, Key: ref.Key, Via: ref.Via}
		if seen[key] || present.Has(ref.Path) || present.InSkipped(ref.Path) {
			continue
		}
		seen[key] = true
		missing = append(missing, ref)
	}
	sort.SliceStable(missing, func(i, j int) bool {
		if missing[i].Via != missing[j].Via {
			return missing[i].Via < missing[j].Via
		}
		return missing[i].Line < missing[j].Line
	})
	return unreferenced, missing
}

func isIgnored(location string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, location); matched {
			return true
		}
	}
	return false
}
