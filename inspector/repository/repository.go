package repository

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/golang/glog"
	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/odoolint/config"
	"github.com/viant/odoolint/inspector"
	"github.com/viant/odoolint/inspector/catalog"
	"github.com/viant/odoolint/inspector/manifest"
	"github.com/viant/odoolint/inspector/markup"
	"github.com/viant/odoolint/inspector/python"
	"github.com/viant/odoolint/inspector/tabular"
)

// Failure represents a document that could not be parsed
type Failure struct {
	Path string
	Kind inspector.Kind
	Err  error
}

// Unit represents one module with all its documents read eagerly
type Unit struct {
	Name         string
	Root         string
	ManifestPath string // empty when module has no manifest
	Manifest     *manifest.Record
	ManifestErr  error
	Inventory    *Inventory
	References   []Reference
	Sections     map[string]string // referenced path -> manifest key
	Python       []*python.File
	Scripts      []string
	Failures     []Failure
	documents    map[string]*inspector.Document
	paths        []string
}

// Open lists and parses module files under root
func Open(ctx context.Context, fs afs.Service, root string, cfg *config.Config) (*Unit, error) {
	if fs == nil {
		fs = afs.New()
	}
	inventory, err := BuildInventory(ctx, fs, root, cfg.ExcludedExtensions, cfg.ExcludedDirs)
	if err != nil {
		return nil, err
	}
	unit := &Unit{
		Name:      ModuleName(root),
		Root:      root,
		Inventory: inventory,
		documents: map[string]*inspector.Document{},
		Sections:  map[string]string{},
	}
	unit.ManifestPath = New().Marker(inventory)
	factory := inspector.NewFactory(unit.Name)
	for _, location := range inventory.Paths() {
		kind := factory.Kind(location)
		switch kind {
		case inspector.KindOther:
			continue
		case inspector.KindScript:
			unit.Scripts = append(unit.Scripts, location)
			continue
		case inspector.KindManifest:
			if location != unit.ManifestPath {
				continue
			}
		}
		src, err := fs.DownloadWithURL(ctx, url.Join(root, location))
		if err != nil {
			unit.Close()
			return nil, fmt.Errorf("failed to read %s: %w", location, err)
		}
		doc, err := factory.Inspect(ctx, location, src)
		if err != nil {
			unit.Close()
			return nil, fmt.Errorf("failed to inspect %s: %w", location, err)
		}
		unit.documents[location] = doc
		unit.paths = append(unit.paths, location)
		if doc.Err != nil {
			if kind == inspector.KindManifest {
				unit.ManifestErr = doc.Err
			} else {
				unit.Failures = append(unit.Failures, Failure{Path: location, Kind: kind, Err: doc.Err})
			}
			glog.V(1).Infof("module %s: %v", unit.Name, doc.Err)
			continue
		}
		switch kind {
		case inspector.KindManifest:
			unit.Manifest = doc.Manifest
		case inspector.KindPython:
			unit.Python = append(unit.Python, doc.Python)
		}
	}
	if unit.Manifest != nil {
		unit.References = ResolveReferences(unit.Manifest, unit.Name, inventory, unit)
		unit.Sections = Sections(unit.References)
		unit.assignSections()
	}
	return unit, nil
}

func (u *Unit) assignSections() {
	for _, location := range u.paths {
		doc := u.documents[location]
		section := u.Sections[location]
		switch {
		case doc.Markup != nil:
			for _, record := range doc.Markup.Records {
				record.Section = section
			}
		case doc.Table != nil:
			for _, record := range doc.Table.Records {
				record.Section = section
			}
		}
	}
}

// Markup returns a parsed markup document
func (u *Unit) Markup(location string) (*markup.Document, bool) {
	doc, ok := u.documents[location]
	if !ok || doc.Markup == nil {
		return nil, false
	}
	return doc.Markup, true
}

// MarkupDocuments returns parsed markup documents in path order
func (u *Unit) MarkupDocuments() []*markup.Document {
	var result []*markup.Document
	for _, location := range u.paths {
		if doc := u.documents[location]; doc.Markup != nil {
			result = append(result, doc.Markup)
		}
	}
	return result
}

// Tables returns parsed tabular documents in path order
func (u *Unit) Tables() []*tabular.Table {
	var result []*tabular.Table
	for _, location := range u.paths {
		if doc := u.documents[location]; doc.Table != nil {
			result = append(result, doc.Table)
		}
	}
	return result
}

// Catalogs returns parsed catalogs in path order
func (u *Unit) Catalogs() []*catalog.Catalog {
	var result []*catalog.Catalog
	for _, location := range u.paths {
		if doc := u.documents[location]; doc.Catalog != nil {
			result = append(result, doc.Catalog)
		}
	}
	return result
}

// URL returns absolute location of a module file
func (u *Unit) URL(location string) string {
	return url.Join(u.Root, location)
}

// Close releases parsed trees
func (u *Unit) Close() {
	for _, doc := range u.documents {
		doc.Close()
	}
	u.documents = map[string]*inspector.Document{}
	u.Python = nil
}

// ModuleName returns the module technical name, the last segment of its root
func ModuleName(root string) string {
	location := root
	if index := strings.Index(location, "://"); index != -1 {
		location = location[index+3:]
	}
	return path.Base(strings.TrimRight(location, "/"))
}
