package inspector

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/viant/odoolint/inspector/catalog"
	"github.com/viant/odoolint/inspector/manifest"
	"github.com/viant/odoolint/inspector/markup"
	"github.com/viant/odoolint/inspector/python"
	"github.com/viant/odoolint/inspector/tabular"
)

// Kind identifies a document reader
type Kind int

const (
	KindOther Kind = iota
	KindManifest
	KindPython
	KindMarkup
	KindCatalog
	KindTabular
	KindScript
)

var kindNames = [...]string{"other", "manifest", "python", "markup", "catalog", "tabular", "script"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Document represents a parsed module file, Err holds a syntax or shape error
type Document struct {
	Kind     Kind
	Path     string
	Python   *python.File
	Manifest *manifest.Record
	Markup   *markup.Document
	Catalog  *catalog.Catalog
	Table    *tabular.Table
	Err      error
}

// Close releases parsed trees
func (d *Document) Close() {
	if d.Python != nil {
		d.Python.Close()
	}
}

// Factory selects a document reader by file name
type Factory struct {
	module string
}

// NewFactory creates a factory for the module name, the name is used to resolve module prefixed paths
func NewFactory(module string) *Factory {
	return &Factory{module: module}
}

// Kind returns reader kind for path relative to module root
func (f *Factory) Kind(location string) Kind {
	name := path.Base(location)
	if path.Dir(location) == "." {
		for _, marker := range manifest.Markers {
			if name == marker {
				return KindManifest
			}
		}
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".py":
		return KindPython
	case ".xml":
		return KindMarkup
	case ".po", ".pot":
		return KindCatalog
	case ".csv":
		return KindTabular
	case ".js":
		return KindScript
	}
	return KindOther
}

// Inspect parses src with the reader matching location; document level failures are returned in Document.Err
func (f *Factory) Inspect(ctx context.Context, location string, src []byte) (*Document, error) {
	doc := &Document{Kind: f.Kind(location), Path: location}
	var err error
	switch doc.Kind {
	case KindManifest:
		doc.Manifest, err = manifest.Parse(ctx, location, src)
		var shapeErr *manifest.ShapeError
		if errors.As(err, &shapeErr) {
			doc.Err, err = shapeErr, nil
		}
	case KindPython:
		doc.Python, err = python.Parse(ctx, location, src)
	case KindMarkup:
		doc.Markup, doc.Err = markup.NewParser(f.module).Parse(location, src)
	case KindCatalog:
		doc.Catalog, doc.Err = catalog.Parse(location, src)
	case KindTabular:
		doc.Table, doc.Err = tabular.Parse(location, src)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}
