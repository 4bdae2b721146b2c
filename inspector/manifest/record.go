package manifest

import (
	"sort"
	"strings"
)

// Resource categories declared by manifest lists
const (
	KeyData      = "data"
	KeyDemo      = "demo"
	KeyTest      = "test"
	KeyInitXML   = "init_xml"
	KeyUpdateXML = "update_xml"
	KeyDemoXML   = "demo_xml"
	KeyQweb      = "qweb"
)

// ResourceKeys lists recognized resource categories in evaluation order
var ResourceKeys = []string{KeyData, KeyDemo, KeyTest, KeyInitXML, KeyUpdateXML, KeyDemoXML, KeyQweb}

// Markers lists manifest file names, the first one takes precedence
var Markers = []string{"__manifest__.py", "__openerp__.py", "__terp__.py"}

// Resource represents a path declared in a manifest list
type Resource struct {
	Key  string
	Path string
	Line int
}

// AssetEntry represents one asset bundle directive
type AssetEntry struct {
	Bundle    string
	Directive string // include, remove, prepend, append, before, after, replace or empty for plain paths
	Path      string
	Line      int
}

// Record represents a parsed manifest
type Record struct {
	Path   string
	Line   int
	Keys   []string // declared keys in order
	values map[string]*Value
}

// Has returns true if key was declared
func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Value returns raw value of a declared key
func (r *Record) Value(key string) *Value {
	return r.values[key]
}

// KeyLine returns declaration line of key or manifest line
func (r *Record) KeyLine(key string) int {
	if value, ok := r.values[key]; ok && value.Line > 0 {
		return value.Line
	}
	return r.Line
}

func (r *Record) stringValue(key string) (string, bool) {
	value := r.values[key]
	if !value.IsString() {
		return "", false
	}
	return value.Text, true
}

// Name returns module display name
func (r *Record) Name() (string, bool) { return r.stringValue("name") }

// Author returns raw author value, it should be a comma separated string
func (r *Record) Author() *Value { return r.values["author"] }

// License returns license
func (r *Record) License() (string, bool) { return r.stringValue("license") }

// Version returns declared version
func (r *Record) Version() (string, bool) { return r.stringValue("version") }

// Category returns category
func (r *Record) Category() (string, bool) { return r.stringValue("category") }

// DevelopmentStatus returns development status
func (r *Record) DevelopmentStatus() (string, bool) { return r.stringValue("development_status") }

// Website returns website
func (r *Record) Website() (string, bool) { return r.stringValue("website") }

// Maintainers returns raw maintainers value
func (r *Record) Maintainers() *Value { return r.values["maintainers"] }

// Installable returns installable flag, defaults to true
func (r *Record) Installable() bool {
	if value, ok := r.values["installable"]; ok {
		return value.Truthy()
	}
	return true
}

// Depends returns module dependencies
func (r *Record) Depends() []string {
	items, _ := r.values["depends"].Strings()
	return items
}

// ExternalDependencies returns external dependencies grouped by kind (python, bin, ...)
func (r *Record) ExternalDependencies() map[string][]string {
	value := r.values["external_dependencies"]
	if value == nil || value.Kind != KindDict {
		return nil
	}
	result := map[string][]string{}
	for _, kind := range value.Keys {
		items, ok := value.Entries[kind].Strings()
		if ok {
			result[kind] = items
		}
	}
	return result
}

// Resources returns paths declared under key, non string items are skipped
func (r *Record) Resources(key string) []Resource {
	value := r.values[key]
	if value == nil || value.Kind != KindList {
		return nil
	}
	var result []Resource
	for _, item := range value.Items {
		if item.Kind != KindString {
			continue
		}
		result = append(result, Resource{Key: key, Path: normalizePath(item.Text), Line: item.Line})
	}
	return result
}

// AllResources returns resources of every recognized category
func (r *Record) AllResources() []Resource {
	var result []Resource
	for _, key := range ResourceKeys {
		result = append(result, r.Resources(key)...)
	}
	return result
}

// Assets returns asset bundle entries, bundles are sorted by name
func (r *Record) Assets() []AssetEntry {
	value := r.values["assets"]
	if value == nil || value.Kind != KindDict {
		return nil
	}
	bundles := append([]string{}, value.Keys...)
	sort.Strings(bundles)
	var result []AssetEntry
	for _, bundle := range bundles {
		list := value.Entries[bundle]
		if list == nil || list.Kind != KindList {
			continue
		}
		for _, item := range list.Items {
			switch item.Kind {
			case KindString:
				result = append(result, AssetEntry{Bundle: bundle, Path: item.Text, Line: item.Line})
			case KindList:
				if len(item.Items) < 2 || !item.Items[0].IsString() {
					continue
				}
				last := item.Items[len(item.Items)-1]
				if !last.IsString() {
					continue
				}
				result = append(result, AssetEntry{Bundle: bundle, Directive: item.Items[0].Text, Path: last.Text, Line: item.Line})
			}
		}
	}
	return result
}

func normalizePath(location string) string {
	location = strings.ReplaceAll(strings.TrimSpace(location), `\`, "/")
	return strings.TrimPrefix(location, "./")
}
